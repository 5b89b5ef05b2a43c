// Package ownership implements the ownership/borrow checker (spec.md §4.6):
// a walk over a lowered internal/hir tree that tracks, per scope, which
// names are still alive and which have already been moved out of, flagging
// a second read of a moved name as a MoveError. Grounded on the teacher's
// internal/sema borrow.go (BorrowTable's place/state bookkeeping, the
// scope-scoped expiry in EndScope), adapted from its shared/mut borrow
// lattice to the simpler alive/dropped partition spec.md names, since this
// checker tracks moves of owned values rather than reference aliasing.
package ownership

import (
	"fmt"

	"ergc/internal/diag"
	"ergc/internal/hir"
	"ergc/internal/source"
	"ergc/internal/types"
)

// Ownership is the hint a callee's parameter contract passes down to its
// argument expressions (spec.md §4.6 "ArgsOwnership").
type Ownership uint8

const (
	Owned Ownership = iota
	Shared
)

// scope is one lexical {alive, dropped} partition (spec.md §4.6).
type scope struct {
	alive   map[string]bool
	dropped map[string]source.Span
}

func newScope() *scope {
	return &scope{alive: map[string]bool{}, dropped: map[string]source.Span{}}
}

func (s *scope) clone() *scope {
	out := newScope()
	for k, v := range s.alive {
		out.alive[k] = v
	}
	for k, v := range s.dropped {
		out.dropped[k] = v
	}
	return out
}

// Options configures a single ownership-check pass.
type Options struct {
	Reports diag.Reporter
}

// Result reports what the checker observed.
type Result struct {
	Moves           int
	ConditionalMoves int
}

// Check walks every item of mod, flagging a MoveError on a second read of an
// already-moved owned value and a ConditionalMove where sibling branches of
// an if/match call disagree on which names survive.
func Check(mod *hir.Module, opts Options) Result {
	c := &checker{reports: opts.Reports}
	root := newScope()
	for _, item := range mod.Items {
		c.walk(item, root, Owned)
	}
	return Result{Moves: c.moves, ConditionalMoves: c.conditionalMoves}
}

type checker struct {
	reports          diag.Reporter
	moves            int
	conditionalMoves int
}

func (c *checker) moveError(n hir.Node, name string, movedAt source.Span) {
	c.moves++
	if c.reports == nil {
		return
	}
	notes := []diag.Note{{Span: movedAt, Msg: fmt.Sprintf("%q was moved here", name)}}
	c.reports.Report(diag.MoveError, diag.SevError, n.Pos(), fmt.Sprintf("use of moved value %q", name), notes, nil)
}

func (c *checker) conditionalMoveError(n hir.Node, name string) {
	c.conditionalMoves++
	if c.reports == nil {
		return
	}
	c.reports.Report(diag.MoveError, diag.SevError, n.Pos(), fmt.Sprintf("%q is moved in some branches but not others", name), nil, nil)
}

// mutableMarker reports whether t denotes an internally-mutable value
// (spec.md §4.6 "an internal mutable marker"): the Erg-style trailing-bang
// nominal type convention (`Array!`, `Int!`) or an exclusive reference.
func mutableMarker(t types.Type) bool {
	switch v := t.(type) {
	case types.Mono:
		return hasBang(v.Name)
	case types.Poly:
		return hasBang(v.Name)
	case types.RefMut:
		return true
	default:
		return false
	}
}

func hasBang(name string) bool {
	return len(name) > 0 && name[len(name)-1] == '!'
}

// read is the single point where a name's ownership state is consulted:
// an Owned read of a mutable-marked value drops it, a Shared read never
// drops (spec.md §4.6 rules 1-2).
func (c *checker) read(n hir.Node, name string, ty types.Type, sc *scope, hint Ownership) {
	if name == "" || !mutableMarker(ty) {
		return
	}
	if movedAt, ok := sc.dropped[name]; ok {
		c.moveError(n, name, movedAt)
		return
	}
	if hint == Owned {
		sc.dropped[name] = n.Pos()
		delete(sc.alive, name)
	}
}

func (c *checker) walk(n hir.Node, sc *scope, hint Ownership) {
	switch v := n.(type) {
	case *hir.VarRef:
		c.read(v, v.Name, v.Ty(), sc, hint)
	case *hir.AttrAccess:
		c.walk(v.Obj, sc, Shared)
	case *hir.Index:
		c.walk(v.Obj, sc, Shared)
		c.walk(v.Index, sc, Owned)
	case *hir.Call:
		c.walkCall(v, sc)
	case *hir.Def:
		c.walkDef(v, sc)
	case *hir.ClassDef:
		for _, m := range v.Methods {
			c.walkDef(m, sc)
		}
	case *hir.PatchDef:
		for _, m := range v.Methods {
			c.walkDef(m, sc)
		}
	case *hir.PatternBind:
		c.walk(v.Value, sc, hint)
	case *hir.Import, *hir.Literal, *hir.Failure, *hir.AttrDef:
		// leaves.
	}
}

func (c *checker) walkDef(def *hir.Def, sc *scope) {
	child := sc.clone()
	paramNames := map[string]bool{}
	for _, p := range def.Params {
		paramNames[p.Name] = true
		child.alive[p.Name] = true
		if p.Default != nil {
			c.walk(p.Default, sc, Owned)
		}
	}
	for _, stmt := range def.Body {
		c.walk(stmt, child, Owned)
	}
	// A Def closes over its enclosing scope: a captured (non-parameter)
	// name it moved is folded back into the parent so a later read there
	// sees the move (spec.md §4.6 "closures capture by the strictest
	// applicable mode").
	for name, loc := range child.dropped {
		if paramNames[name] {
			continue
		}
		if _, capturedHere := sc.alive[name]; capturedHere {
			sc.dropped[name] = loc
			delete(sc.alive, name)
		}
	}
}

// isBranchName reports whether name, with any trailing '!' removed, is one
// of the builtin control-flow calls whose Def-typed
// (lambda) arguments are alternative branches rather than sequential code
// (spec.md §4.6 "a branch may not observably diverge the alive set").
func isBranchName(name string) bool {
	trimmed := name
	if hasBang(trimmed) {
		trimmed = trimmed[:len(trimmed)-1]
	}
	return trimmed == "if" || trimmed == "match"
}

func calleeName(n hir.Node) string {
	switch v := n.(type) {
	case *hir.VarRef:
		return v.Name
	case *hir.AttrAccess:
		return v.Name
	default:
		return ""
	}
}

func (c *checker) walkCall(call *hir.Call, sc *scope) {
	c.walk(call.Callee, sc, Owned)

	var branches []*scope
	for i, a := range call.Args {
		if lambdaDef, ok := a.Value.(*hir.Def); ok && isBranchName(calleeName(call.Callee)) {
			branch := sc.clone()
			for _, stmt := range lambdaDef.Body {
				c.walk(stmt, branch, Owned)
			}
			branches = append(branches, branch)
			continue
		}
		hint := argOwnership(call.Callee.Ty(), i)
		c.walk(a.Value, sc, hint)
	}

	if len(branches) == 0 {
		return
	}
	c.mergeBranches(call, sc, branches)
}

// mergeBranches joins sibling branches' alive sets by intersection: a name
// survives the construct only if every branch kept it alive. Names that
// some branches dropped and others didn't are reported once as
// ConditionalMove and conservatively treated as dropped going forward.
func (c *checker) mergeBranches(call *hir.Call, sc *scope, branches []*scope) {
	seen := map[string]bool{}
	for _, b := range branches {
		for name := range b.alive {
			seen[name] = true
		}
		for name := range b.dropped {
			seen[name] = true
		}
	}
	for name := range seen {
		aliveEverywhere := true
		droppedSomewhere := false
		var firstDrop source.Span
		for _, b := range branches {
			if b.alive[name] {
				continue
			}
			if loc, ok := b.dropped[name]; ok {
				droppedSomewhere = true
				if firstDrop == (source.Span{}) {
					firstDrop = loc
				}
			}
			aliveEverywhere = false
		}
		switch {
		case aliveEverywhere:
			sc.alive[name] = true
		case droppedSomewhere && !allDropped(branches, name):
			c.conditionalMoveError(call, name)
			sc.dropped[name] = firstDrop
			delete(sc.alive, name)
		default:
			sc.dropped[name] = firstDrop
			delete(sc.alive, name)
		}
	}
}

func allDropped(branches []*scope, name string) bool {
	for _, b := range branches {
		if _, ok := b.dropped[name]; !ok {
			return false
		}
	}
	return true
}

// argOwnership derives the Shared/Owned hint for the i'th positional
// argument of callee's Subr type (spec.md §4.6 rule 2: Ref/RefMut
// parameters read without dropping).
func argOwnership(calleeTy types.Type, i int) Ownership {
	subr, ok := asSubr(calleeTy)
	if !ok {
		return Owned
	}
	params := append(append([]types.SubrParam{}, subr.NonDefaultParams...), subr.DefaultParams...)
	if i < 0 || i >= len(params) {
		return Owned
	}
	switch params[i].T.(type) {
	case types.Ref, types.RefMut:
		return Shared
	default:
		return Owned
	}
}

func asSubr(t types.Type) (types.Subr, bool) {
	switch v := t.(type) {
	case types.Subr:
		return v, true
	case types.Quantified:
		return v.Body, true
	default:
		return types.Subr{}, false
	}
}
