package types

import (
	"fmt"
	"sync/atomic"
)

// cellCounter hands out process-wide unique FreeVar ids for the occurs
// check (spec.md §4.2 "Unification" step 2). FreeVar cells are otherwise
// single-threaded per module (spec.md §5's shared-resource table), so a
// plain atomic counter is enough without per-cell locking.
var cellCounter uint64

func nextCellID() uint64 {
	return atomic.AddUint64(&cellCounter, 1)
}

// CellState is the FreeVar cell's lifecycle stage (spec.md §3 "FreeVar cell").
type CellState uint8

const (
	StateUnbound CellState = iota
	StateLinked
	StateGeneralized
)

// ConstraintKind distinguishes the three shapes an Unbound cell's
// constraint can take.
type ConstraintKind uint8

const (
	ConstraintSandwiched ConstraintKind = iota
	ConstraintTypeOf
	ConstraintUninited
)

// Constraint bounds what an Unbound cell may link to.
type Constraint struct {
	Kind     ConstraintKind
	Sub, Sup Type // for ConstraintSandwiched
	Meta     Type // for ConstraintTypeOf
}

func (c Constraint) String() string {
	switch c.Kind {
	case ConstraintSandwiched:
		return c.Sub.String() + " <: ?" + " <: " + c.Sup.String()
	case ConstraintTypeOf:
		return ": " + c.Meta.String()
	default:
		return "(uninited)"
	}
}

// Cell is the mutable unification cell behind a FreeVar. Invariants
// (spec.md §3): (a) linking is monotonic — once Linked, a cell never
// returns to Unbound; (b) Level only decreases as inference progresses;
// (c) any future link target satisfies the Unbound constraint at the
// time of linking.
type Cell struct {
	id    uint64
	State CellState

	// Unbound fields.
	Level      int
	Constraint Constraint

	// Linked field.
	Linked Type

	// Generalized field: the bound variable name it was lifted to.
	BoundName string
}

// NewUnboundCell allocates a fresh Unbound cell at the given generalization
// level with the given constraint.
func NewUnboundCell(level int, c Constraint) *Cell {
	return &Cell{id: nextCellID(), State: StateUnbound, Level: level, Constraint: c}
}

// ID returns the cell's process-wide unique identity, used by the occurs
// check to detect a cell appearing within its own link target.
func (c *Cell) ID() uint64 { return c.id }

// Link transitions an Unbound cell to Linked, enforcing monotonicity.
func (c *Cell) Link(t Type) error {
	if c.State == StateGeneralized {
		return fmt.Errorf("types: cannot link a generalized cell")
	}
	if c.State == StateLinked {
		return fmt.Errorf("types: cell already linked (monotonic linking invariant)")
	}
	c.State = StateLinked
	c.Linked = t
	return nil
}

// Generalize transitions an Unbound cell to Generalized under the given
// bound-variable name (spec.md §4.2 "Generalization").
func (c *Cell) Generalize(boundName string) error {
	if c.State != StateUnbound {
		return fmt.Errorf("types: can only generalize an unbound cell")
	}
	c.State = StateGeneralized
	c.BoundName = boundName
	return nil
}

// FreeVar is a unification variable; see Cell for its state machine.
type FreeVar struct {
	Cell *Cell
}

func (FreeVar) typ() {}
func (f FreeVar) String() string {
	switch f.Cell.State {
	case StateLinked:
		return f.Cell.Linked.String()
	case StateGeneralized:
		return f.Cell.BoundName
	default:
		return fmt.Sprintf("?%d%s", f.Cell.id, f.Cell.Constraint)
	}
}

// Deref follows Linked cells with path compression (spec.md §3 "FreeVar
// cell": "accessing the variable follows the link (path compression on
// read)"). Returns the FreeVar itself if still Unbound or Generalized.
func Deref(t Type) Type {
	fv, ok := t.(FreeVar)
	if !ok {
		return t
	}
	if fv.Cell.State != StateLinked {
		return t
	}
	target := Deref(fv.Cell.Linked)
	fv.Cell.Linked = target // path compression
	return target
}

// Occurs reports whether cell appears anywhere within t, following links.
func Occurs(cell *Cell, t Type) bool {
	t = Deref(t)
	switch v := t.(type) {
	case FreeVar:
		return v.Cell.ID() == cell.ID()
	case Ref:
		return Occurs(cell, v.T)
	case RefMut:
		if Occurs(cell, v.T) {
			return true
		}
		if v.After != nil {
			return Occurs(cell, v.After)
		}
		return false
	case And:
		return Occurs(cell, v.L) || Occurs(cell, v.R)
	case Or:
		return Occurs(cell, v.L) || Occurs(cell, v.R)
	case Not:
		return Occurs(cell, v.T)
	case Poly:
		for _, p := range v.Params {
			if p.TypeVal != nil && Occurs(cell, p.TypeVal) {
				return true
			}
		}
		return false
	case Subr:
		for _, p := range v.NonDefaultParams {
			if Occurs(cell, p.T) {
				return true
			}
		}
		if v.VarParams != nil && Occurs(cell, v.VarParams.T) {
			return true
		}
		for _, p := range v.DefaultParams {
			if Occurs(cell, p.T) {
				return true
			}
		}
		return Occurs(cell, v.Return)
	case Refinement:
		return Occurs(cell, v.Base)
	case Proj:
		return Occurs(cell, v.Lhs)
	case Structural:
		for _, ft := range v.Fields {
			if Occurs(cell, ft) {
				return true
			}
		}
		return false
	default:
		return false
	}
}
