package types

import "fmt"

// TyParamKind distinguishes the value-level type-parameter term shapes
// spec.md §3 "TyParam" names. TyParam and Type are mutually recursive:
// refinements hold predicates over TyParam, and Poly holds a vector of them.
type TyParamKind uint8

const (
	TyParamLiteral TyParamKind = iota
	TyParamTypeVal
	TyParamBinOp
	TyParamUnaryOp
	TyParamFreeVar
)

// TyParam is one value-level argument to a Poly type or operand of a
// Predicate.
type TyParam struct {
	Kind TyParamKind

	// TyParamLiteral
	LitText string

	// TyParamTypeVal
	TypeVal Type

	// TyParamBinOp
	Op       string
	Lhs, Rhs *TyParam

	// TyParamUnaryOp
	UnaryOp string
	Arg     *TyParam

	// TyParamFreeVar
	Cell *Cell
}

func (t TyParam) String() string {
	switch t.Kind {
	case TyParamLiteral:
		return t.LitText
	case TyParamTypeVal:
		return t.TypeVal.String()
	case TyParamBinOp:
		return fmt.Sprintf("(%s %s %s)", t.Lhs, t.Op, t.Rhs)
	case TyParamUnaryOp:
		return t.UnaryOp + t.Arg.String()
	case TyParamFreeVar:
		if t.Cell.State == StateLinked {
			return t.Cell.Linked.String()
		}
		return fmt.Sprintf("?%d", t.Cell.ID())
	default:
		return "<typaram>"
	}
}

// Lit builds a literal TyParam term.
func Lit(text string) TyParam { return TyParam{Kind: TyParamLiteral, LitText: text} }

// TypeArg wraps a Type as a TyParam term (e.g. for `Array(Int, 3)`'s first
// argument).
func TypeArg(t Type) TyParam { return TyParam{Kind: TyParamTypeVal, TypeVal: t} }

// PredOp enumerates the relational operators a Predicate may use.
type PredOp uint8

const (
	PredEqual PredOp = iota
	PredNotEqual
	PredLessEqual
	PredGreaterEqual
	PredAnd
	PredOr
	PredNot
)

func (op PredOp) String() string {
	switch op {
	case PredEqual:
		return "=="
	case PredNotEqual:
		return "!="
	case PredLessEqual:
		return "<="
	case PredGreaterEqual:
		return ">="
	case PredAnd:
		return "and"
	case PredOr:
		return "or"
	case PredNot:
		return "not"
	default:
		return "?"
	}
}

// Predicate is a propositional formula over TyParam (spec.md §3
// "Predicate"): a relational comparison between two TyParam terms, or a
// boolean combination of sub-predicates.
type Predicate struct {
	Op       PredOp
	Lhs, Rhs TyParam    // for relational ops
	Subs     []Predicate // for PredAnd/PredOr/PredNot
}

func (p Predicate) String() string {
	switch p.Op {
	case PredAnd, PredOr:
		s := ""
		for i, sub := range p.Subs {
			if i > 0 {
				s += " " + p.Op.String() + " "
			}
			s += sub.String()
		}
		return s
	case PredNot:
		if len(p.Subs) == 1 {
			return "not (" + p.Subs[0].String() + ")"
		}
		return "not (<invalid>)"
	default:
		return fmt.Sprintf("%s %s %s", p.Lhs, p.Op, p.Rhs)
	}
}

// Rel builds a relational predicate.
func Rel(op PredOp, lhs, rhs TyParam) Predicate {
	return Predicate{Op: op, Lhs: lhs, Rhs: rhs}
}
