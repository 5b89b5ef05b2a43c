// Package types implements the Type sum of spec.md §3/§4.2: atomic types,
// nominal Mono/Poly application, Subr function/procedure types, references,
// lattice combinators, refinement types, quantification, associated-type
// projections, and the FreeVar unification cell. Grounded on the teacher's
// Kind-tag-plus-struct representation (internal/types/types.go) but
// restructured as a tagged interface, since the HM/refinement model here is
// a sum of recursive shapes rather than a flat array/pointer/width record.
package types

import "fmt"

// Type is implemented by every type-sum variant.
type Type interface {
	fmt.Stringer
	typ()
}

// Atomic is one of the built-in atomic types.
type Atomic uint8

const (
	Obj Atomic = iota
	Never
	NoneType
	Bool
	Nat
	Int
	Float
	Ratio
	Str
	FailureAtom // error-recovery sentinel; absorbed by any constraint
)

func (a Atomic) String() string {
	switch a {
	case Obj:
		return "Obj"
	case Never:
		return "Never"
	case NoneType:
		return "NoneType"
	case Bool:
		return "Bool"
	case Nat:
		return "Nat"
	case Int:
		return "Int"
	case Float:
		return "Float"
	case Ratio:
		return "Ratio"
	case Str:
		return "Str"
	case FailureAtom:
		return "Failure"
	default:
		return fmt.Sprintf("Atomic(%d)", a)
	}
}

func (Atomic) typ() {}

// Failure is the canonical Failure type value: bottom of the lattice,
// unifies with anything (spec.md §7 "Recovery").
var Failure Type = FailureAtom

// Mono is a nominal type referenced by qualified name.
type Mono struct {
	Name string
}

func (m Mono) typ()          {}
func (m Mono) String() string { return m.Name }

// Poly is an applied generic type: a nominal name plus TyParam arguments.
type Poly struct {
	Name   string
	Params []TyParam
}

func (p Poly) typ() {}
func (p Poly) String() string {
	s := p.Name + "("
	for i, tp := range p.Params {
		if i > 0 {
			s += ", "
		}
		s += tp.String()
	}
	return s + ")"
}

// SubrKind distinguishes pure functions from effectful procedures.
type SubrKind uint8

const (
	Func SubrKind = iota
	Proc
)

func (k SubrKind) String() string {
	if k == Proc {
		return "Proc"
	}
	return "Func"
}

// SubrParam is one non-default or default parameter of a Subr type.
type SubrParam struct {
	Name string
	T    Type
}

// Subr is a function/procedure type.
type Subr struct {
	Kind             SubrKind
	NonDefaultParams []SubrParam
	VarParams        *SubrParam // nil unless variadic
	DefaultParams    []SubrParam
	Return           Type
}

func (s Subr) typ() {}
func (s Subr) String() string {
	out := "("
	for i, p := range s.NonDefaultParams {
		if i > 0 {
			out += ", "
		}
		out += p.Name + ": " + p.T.String()
	}
	if s.VarParams != nil {
		if len(s.NonDefaultParams) > 0 {
			out += ", "
		}
		out += "*" + s.VarParams.Name + ": " + s.VarParams.T.String()
	}
	for _, p := range s.DefaultParams {
		out += ", " + p.Name + ": " + p.T.String() + " := _"
	}
	arrow := " -> "
	if s.Kind == Proc {
		arrow = " => "
	}
	return out + ")" + arrow + s.Return.String()
}

// Ref is an immutable reference.
type Ref struct{ T Type }

func (r Ref) typ()          {}
func (r Ref) String() string { return "Ref(" + r.T.String() + ")" }

// RefMut is an exclusive reference, optionally recording a post-mutation
// type (the type the referent has after the call returns).
type RefMut struct {
	T     Type
	After Type // nil when unchanged
}

func (r RefMut) typ() {}
func (r RefMut) String() string {
	if r.After != nil {
		return "RefMut(" + r.T.String() + " => " + r.After.String() + ")"
	}
	return "RefMut(" + r.T.String() + ")"
}

// And is an intersection type.
type And struct{ L, R Type }

func (a And) typ()          {}
func (a And) String() string { return a.L.String() + " and " + a.R.String() }

// Or is a union type.
type Or struct{ L, R Type }

func (o Or) typ()          {}
func (o Or) String() string { return o.L.String() + " or " + o.R.String() }

// Not is a complement type.
type Not struct{ T Type }

func (n Not) typ()          {}
func (n Not) String() string { return "not " + n.T.String() }

// Refinement is `{VarName: Base | Pred}`.
type Refinement struct {
	VarName string
	Base    Type
	Pred    Predicate
}

func (r Refinement) typ() {}
func (r Refinement) String() string {
	return "{" + r.VarName + ": " + r.Base.String() + " | " + r.Pred.String() + "}"
}

// Quantified is a universally quantified Subr, generalized over the free
// variables that escaped its defining context (spec.md §4.2 "Generalization").
type Quantified struct {
	Bound []string // names of the generalized bound variables, in order
	Body  Subr
}

func (q Quantified) typ() {}
func (q Quantified) String() string {
	s := "forall "
	for i, n := range q.Bound {
		if i > 0 {
			s += ", "
		}
		s += n
	}
	return s + ". " + q.Body.String()
}

// Proj is an associated-type projection `Lhs.Rhs`, resolved against the
// context's trait implementations (spec.md §4.2 "Subtyping").
type Proj struct {
	Lhs Type
	Rhs string
}

func (p Proj) typ()          {}
func (p Proj) String() string { return p.Lhs.String() + "." + p.Rhs }

// Structural is a row/duck type identified by its fields, not a name.
type Structural struct {
	Fields map[string]Type
}

func (s Structural) typ() {}
func (s Structural) String() string {
	out := "{"
	first := true
	for name, t := range s.Fields {
		if !first {
			out += "; "
		}
		first = false
		out += name + ": " + t.String()
	}
	return out + "}"
}
