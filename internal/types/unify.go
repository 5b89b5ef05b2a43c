package types

import "fmt"

// SuperLookup resolves a nominal type's declared super-types and trait
// implementations; supplied by the Context (spec.md §4.3) since the types
// package has no notion of a scope.
type SuperLookup interface {
	SupersOf(name string) []Type
	ProjResolve(lhs Type, rhs string) (Type, bool)
}

// ErrCyclicType is returned by Unify when the occurs check fails.
var ErrCyclicType = fmt.Errorf("cyclic type")

// SubtypeOf implements spec.md §4.2 "Subtyping". allowCast widens numeric
// atomic coercions (Nat <: Int <: Float <: Ratio) that are otherwise
// rejected.
func SubtypeOf(env SuperLookup, sub, sup Type, allowCast bool) bool {
	sub, sup = Deref(sub), Deref(sup)

	if isFailure(sub) || isFailure(sup) {
		return true
	}
	if a, ok := sup.(Atomic); ok && a == Obj {
		return true
	}
	if a, ok := sub.(Atomic); ok && a == Never {
		return true
	}

	if subFV, ok := sub.(FreeVar); ok {
		return narrowUpper(subFV.Cell, sup)
	}
	if supFV, ok := sup.(FreeVar); ok {
		return narrowLower(supFV.Cell, sub)
	}

	switch s := sub.(type) {
	case Atomic:
		if t, ok := sup.(Atomic); ok {
			if s == t {
				return true
			}
			if allowCast {
				return numericRank(s) <= numericRank(t) && numericRank(s) >= 0 && numericRank(t) >= 0
			}
			return false
		}
	case Mono:
		if t, ok := sup.(Mono); ok && s.Name == t.Name {
			return true
		}
		for _, p := range env.SupersOf(s.Name) {
			if SubtypeOf(env, p, sup, allowCast) {
				return true
			}
		}
		return false
	case Poly:
		if t, ok := sup.(Poly); ok && s.Name == t.Name && len(s.Params) == len(t.Params) {
			ok := true
			for i := range s.Params {
				if s.Params[i].String() != t.Params[i].String() {
					ok = false
					break
				}
			}
			if ok {
				return true
			}
		}
		for _, p := range env.SupersOf(s.Name) {
			if SubtypeOf(env, p, sup, allowCast) {
				return true
			}
		}
		return false
	case Subr:
		t, ok := sup.(Subr)
		if !ok {
			return false
		}
		// Proc <: Func is forbidden; Func <: Proc is allowed (a pure value
		// may always be used where an effectful one is expected).
		if s.Kind == Proc && t.Kind == Func {
			return false
		}
		if len(s.NonDefaultParams) != len(t.NonDefaultParams) {
			return false
		}
		for i := range s.NonDefaultParams {
			// contravariant in parameters
			if !SubtypeOf(env, t.NonDefaultParams[i].T, s.NonDefaultParams[i].T, allowCast) {
				return false
			}
		}
		return SubtypeOf(env, s.Return, t.Return, allowCast) // covariant in return
	case Ref:
		if t, ok := sup.(Ref); ok {
			return SubtypeOf(env, s.T, t.T, allowCast)
		}
	case RefMut:
		if t, ok := sup.(RefMut); ok {
			return SubtypeOf(env, s.T, t.T, allowCast)
		}
	case And:
		return SubtypeOf(env, s.L, sup, allowCast) || SubtypeOf(env, s.R, sup, allowCast)
	case Or:
		return SubtypeOf(env, s.L, sup, allowCast) && SubtypeOf(env, s.R, sup, allowCast)
	case Refinement:
		t, ok := sup.(Refinement)
		if !ok {
			return SubtypeOf(env, s.Base, sup, allowCast)
		}
		// {v:B|P} <: {v:B'|Q} iff B<:B' and P => Q (syntactic implication check only)
		return SubtypeOf(env, s.Base, t.Base, allowCast) && predImplies(s.Pred, t.Pred)
	case Proj:
		if resolved, ok := env.ProjResolve(s.Lhs, s.Rhs); ok {
			return SubtypeOf(env, resolved, sup, allowCast)
		}
	case Structural:
		t, ok := sup.(Structural)
		if !ok {
			return false
		}
		for name, ft := range t.Fields {
			sf, present := s.Fields[name]
			if !present || !SubtypeOf(env, sf, ft, allowCast) {
				return false
			}
		}
		return true
	}
	return false
}

// SupertypeOf is the mirror of SubtypeOf.
func SupertypeOf(env SuperLookup, sup, sub Type, allowCast bool) bool {
	return SubtypeOf(env, sub, sup, allowCast)
}

func isFailure(t Type) bool {
	a, ok := t.(Atomic)
	return ok && a == FailureAtom
}

func numericRank(a Atomic) int {
	switch a {
	case Nat:
		return 0
	case Int:
		return 1
	case Float:
		return 2
	case Ratio:
		return 3
	default:
		return -1
	}
}

// predImplies is a purely syntactic approximation of predicate implication:
// identical predicates imply each other, and any Q implied by a contained
// conjunct of P implies P => Q. A full SMT check is out of scope.
func predImplies(p, q Predicate) bool {
	if p.String() == q.String() {
		return true
	}
	if p.Op == PredAnd {
		for _, sub := range p.Subs {
			if predImplies(sub, q) {
				return true
			}
		}
	}
	return false
}

func narrowUpper(cell *Cell, sup Type) bool {
	if cell.State == StateLinked {
		return SubtypeOf(nil, cell.Linked, sup, false)
	}
	if cell.Constraint.Kind == ConstraintSandwiched {
		cell.Constraint.Sup = sup
	} else {
		cell.Constraint = Constraint{Kind: ConstraintSandwiched, Sub: Never, Sup: sup}
	}
	return true
}

func narrowLower(cell *Cell, sub Type) bool {
	if cell.State == StateLinked {
		return SubtypeOf(nil, sub, cell.Linked, false)
	}
	if cell.Constraint.Kind == ConstraintSandwiched {
		cell.Constraint.Sub = sub
	} else {
		cell.Constraint = Constraint{Kind: ConstraintSandwiched, Sub: sub, Sup: Obj}
	}
	return true
}

// Unify implements spec.md §4.2 "Unification": first-order on type
// constructors with an occurs check via the cell id.
func Unify(env SuperLookup, t1, t2 Type) error {
	t1, t2 = Deref(t1), Deref(t2)

	if isFailure(t1) || isFailure(t2) {
		return nil
	}

	fv1, ok1 := t1.(FreeVar)
	fv2, ok2 := t2.(FreeVar)

	switch {
	case ok1 && ok2:
		return unifyTwoFreeVars(fv1.Cell, fv2.Cell)
	case ok1:
		return unifyFreeVar(fv1.Cell, t2)
	case ok2:
		return unifyFreeVar(fv2.Cell, t1)
	}

	switch a := t1.(type) {
	case Atomic:
		if b, ok := t2.(Atomic); ok && a == b {
			return nil
		}
	case Mono:
		if b, ok := t2.(Mono); ok && a.Name == b.Name {
			return nil
		}
	case Poly:
		if b, ok := t2.(Poly); ok && a.Name == b.Name && len(a.Params) == len(b.Params) {
			return nil
		}
	case Subr:
		b, ok := t2.(Subr)
		if !ok || a.Kind != b.Kind || len(a.NonDefaultParams) != len(b.NonDefaultParams) {
			break
		}
		for i := range a.NonDefaultParams {
			if err := Unify(env, a.NonDefaultParams[i].T, b.NonDefaultParams[i].T); err != nil {
				return err
			}
		}
		return Unify(env, a.Return, b.Return)
	case Ref:
		if b, ok := t2.(Ref); ok {
			return Unify(env, a.T, b.T)
		}
	case RefMut:
		if b, ok := t2.(RefMut); ok {
			return Unify(env, a.T, b.T)
		}
	case Refinement:
		if b, ok := t2.(Refinement); ok {
			return Unify(env, a.Base, b.Base)
		}
	}
	return fmt.Errorf("cannot unify %s with %s", t1, t2)
}

func unifyFreeVar(cell *Cell, t Type) error {
	if cell.State == StateLinked {
		return Unify(nil, cell.Linked, t)
	}
	if Occurs(cell, t) {
		return ErrCyclicType
	}
	if cell.Constraint.Kind == ConstraintSandwiched {
		if !SubtypeOf(nil, cell.Constraint.Sub, t, false) || !SubtypeOf(nil, t, cell.Constraint.Sup, false) {
			return fmt.Errorf("type %s outside constraint %s", t, cell.Constraint)
		}
	}
	return cell.Link(t)
}

func unifyTwoFreeVars(a, b *Cell) error {
	if a.ID() == b.ID() {
		return nil
	}
	// Narrow both cells' constraints to their intersection and link the
	// higher-level cell to the lower-level one, preventing the
	// lower-level (outer) cell from escaping via the higher-level
	// (inner, about-to-be-generalized) one.
	hi, lo := a, b
	if a.Level < b.Level {
		hi, lo = b, a
	}
	if hi.Constraint.Kind == ConstraintSandwiched && lo.Constraint.Kind == ConstraintSandwiched {
		if SubtypeOf(nil, lo.Constraint.Sub, hi.Constraint.Sub, false) {
			lo.Constraint.Sub = hi.Constraint.Sub
		}
		if SubtypeOf(nil, hi.Constraint.Sup, lo.Constraint.Sup, false) {
			lo.Constraint.Sup = hi.Constraint.Sup
		}
	}
	return hi.Link(FreeVar{Cell: lo})
}

// Generalize lifts every free variable in t whose level exceeds
// `boundaryLevel` to a Generalized cell with a freshly allocated bound name,
// and wraps a Subr in Quantified (spec.md §4.2 "Generalization").
func Generalize(t Subr, boundaryLevel int) Type {
	var bound []string
	nameFor := func(i int) string {
		letters := "abcdefghijklmnopqrstuvwxyz"
		return string(letters[i%26])
	}
	var walk func(Type)
	seen := map[uint64]bool{}
	walk = func(t Type) {
		t = Deref(t)
		switch v := t.(type) {
		case FreeVar:
			if v.Cell.State == StateUnbound && v.Cell.Level > boundaryLevel && !seen[v.Cell.ID()] {
				seen[v.Cell.ID()] = true
				name := nameFor(len(bound))
				bound = append(bound, name)
				_ = v.Cell.Generalize(name)
			}
		case Ref:
			walk(v.T)
		case RefMut:
			walk(v.T)
		case And:
			walk(v.L)
			walk(v.R)
		case Or:
			walk(v.L)
			walk(v.R)
		case Not:
			walk(v.T)
		case Subr:
			for _, p := range v.NonDefaultParams {
				walk(p.T)
			}
			if v.VarParams != nil {
				walk(v.VarParams.T)
			}
			for _, p := range v.DefaultParams {
				walk(p.T)
			}
			walk(v.Return)
		case Refinement:
			walk(v.Base)
		}
	}
	walk(t)
	if len(bound) == 0 {
		return t
	}
	return Quantified{Bound: bound, Body: t}
}

// Instantiate allocates fresh FreeVar cells at `level` for each of q's bound
// variables and substitutes through the quantifier body (spec.md §4.2
// "Instantiation").
func Instantiate(q Quantified, level int) Subr {
	subst := make(map[string]*Cell, len(q.Bound))
	for _, name := range q.Bound {
		subst[name] = NewUnboundCell(level, Constraint{Kind: ConstraintUninited})
	}
	var sub func(Type) Type
	sub = func(t Type) Type {
		switch v := t.(type) {
		case FreeVar:
			if v.Cell.State == StateGeneralized {
				if cell, ok := subst[v.Cell.BoundName]; ok {
					return FreeVar{Cell: cell}
				}
			}
			return v
		case Ref:
			return Ref{T: sub(v.T)}
		case RefMut:
			after := v.After
			if after != nil {
				after = sub(after)
			}
			return RefMut{T: sub(v.T), After: after}
		case And:
			return And{L: sub(v.L), R: sub(v.R)}
		case Or:
			return Or{L: sub(v.L), R: sub(v.R)}
		case Not:
			return Not{T: sub(v.T)}
		case Subr:
			np := make([]SubrParam, len(v.NonDefaultParams))
			for i, p := range v.NonDefaultParams {
				np[i] = SubrParam{Name: p.Name, T: sub(p.T)}
			}
			dp := make([]SubrParam, len(v.DefaultParams))
			for i, p := range v.DefaultParams {
				dp[i] = SubrParam{Name: p.Name, T: sub(p.T)}
			}
			var vp *SubrParam
			if v.VarParams != nil {
				vp = &SubrParam{Name: v.VarParams.Name, T: sub(v.VarParams.T)}
			}
			return Subr{Kind: v.Kind, NonDefaultParams: np, VarParams: vp, DefaultParams: dp, Return: sub(v.Return)}
		case Refinement:
			return Refinement{VarName: v.VarName, Base: sub(v.Base), Pred: v.Pred}
		default:
			return t
		}
	}
	return sub(q.Body).(Subr)
}
