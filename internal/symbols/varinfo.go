// Package symbols defines the per-name table entry the Context (internal/ctx)
// manages and the lowerer attaches to every resolved HIR identifier
// (spec.md §3 "VarInfo"). Grounded on the teacher's symbol.go/visibility_flags.go
// naming but restructured around the richer VarInfo spec.md needs, rather
// than the teacher's flat SymbolKind+KindMask scheme.
package symbols

import (
	"ergc/internal/source"
	"ergc/internal/types"
)

// Mutability distinguishes ordinary immutable bindings from compile-time
// constants.
type Mutability uint8

const (
	Immutable Mutability = iota
	Const
)

// VisKind is the Visibility modifier's tag (spec.md §3 "Visibility modifier").
type VisKind uint8

const (
	VisPublic VisKind = iota
	VisPrivate
	VisRestricted
	VisSubtypeRestricted
)

// Visibility pairs an access modifier with the namespace that defined it.
type Visibility struct {
	Kind          VisKind
	Namespaces    []string // for VisRestricted
	RestrictedTo  types.Type // for VisSubtypeRestricted
	DefNamespace  string
}

// CanAccess reports whether a reference from callerNamespace may see a
// symbol with this visibility.
func (v Visibility) CanAccess(callerNamespace string) bool {
	switch v.Kind {
	case VisPublic:
		return true
	case VisPrivate:
		return callerNamespace == v.DefNamespace
	case VisRestricted:
		for _, ns := range v.Namespaces {
			if ns == callerNamespace {
				return true
			}
		}
		return false
	case VisSubtypeRestricted:
		// Resolved by the caller against the accessing type; the Context
		// decides since only it has a SuperLookup.
		return false
	default:
		return false
	}
}

// Kind is a VarInfo's binding-kind tag (spec.md §3 "VarInfo.kind").
type Kind uint8

const (
	KindDefined Kind = iota
	KindDeclared
	KindParameter
	KindAuto
	KindBuiltin
	KindInstanceAttr
	KindDoesNotExist
)

// ParamInfo carries the extra detail a KindParameter VarInfo needs.
type ParamInfo struct {
	ID       int
	Variadic bool
	HasDefault bool
}

// VarInfo is one symbol table entry (spec.md §3 "VarInfo"). Invariants:
// every name resolved during lowering maps to exactly one VarInfo; builtin
// entries have a zero-value (unknown-module) DefLoc; KindAuto entries are
// never surfaced in diagnostics.
type VarInfo struct {
	T             types.Type
	Muty          Mutability
	Vis           Visibility
	Kind          Kind
	Param         ParamInfo
	ComptimeDecos map[string]bool
	ImplOf        types.Type // nil unless this is a trait implementation
	PyName        string     // empty unless distinct from the erg-side name
	DefLoc        source.AbsLocation
}

// DoesNotExist is the well-known VarInfo assigned to unresolved names so
// that a Failure-typed reference still has something to report through
// (spec.md §7 "Recovery").
var DoesNotExist = VarInfo{
	T:    types.Failure,
	Kind: KindDoesNotExist,
}
