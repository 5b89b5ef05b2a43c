// Package ctx implements the Context scope registry of spec.md §3/§4.3: a
// tree-structured, per-scope symbol table with parent-chasing lookup,
// method dispatch over supers/patches/trait impls, and the sub_unify
// workhorse the lowerer calls on every expression.
package ctx

import (
	"ergc/internal/diag"
	"ergc/internal/symbols"
)

// TripleState distinguishes the three outcomes name resolution needs
// (spec.md §7 "Three-valued lookup"): found, an explicit access violation,
// or genuinely absent. Collapsing this to Option<Result<T,E>> loses the
// "try parents, then emit the best error" discipline the spec calls out.
type TripleState uint8

const (
	TripleOK TripleState = iota
	TripleErr
	TripleNone
)

// Triple is the three-valued result of rec_get_var_info.
type Triple struct {
	State TripleState
	Info  symbols.VarInfo
	Err   diag.Diagnostic
}

// Found builds an OK triple.
func Found(vi symbols.VarInfo) Triple { return Triple{State: TripleOK, Info: vi} }

// AccessDenied builds an Err triple carrying the explicit access-violation
// diagnostic.
func AccessDenied(d diag.Diagnostic) Triple { return Triple{State: TripleErr, Err: d} }

// Absent builds a None triple: the caller may still try another scope.
func Absent() Triple { return Triple{State: TripleNone} }

func (t Triple) IsOK() bool    { return t.State == TripleOK }
func (t Triple) IsErr() bool   { return t.State == TripleErr }
func (t Triple) IsAbsent() bool { return t.State == TripleNone }
