package ctx

import (
	"fmt"
	"math"
	"sort"

	"ergc/internal/diag"
	"ergc/internal/source"
	"ergc/internal/symbols"
	"ergc/internal/types"
)

// Kind is the scope's own kind, affecting lookup and effect-checking policy.
type Kind uint8

const (
	KindModule Kind = iota
	KindClassDef
	KindTraitDef
	KindSubroutine
	KindInstant
)

func (k Kind) String() string {
	switch k {
	case KindModule:
		return "Module"
	case KindClassDef:
		return "ClassDef"
	case KindTraitDef:
		return "TraitDef"
	case KindSubroutine:
		return "Subroutine"
	case KindInstant:
		return "Instant"
	default:
		return "Unknown"
	}
}

// TraitImpl records one trait implementation (spec.md §4.7 "Trait
// implementation index").
type TraitImpl struct {
	SubType  types.Type
	SupTrait types.Type
	Methods  map[string]symbols.VarInfo
}

// Context is a tree-structured scope (spec.md §3 "Context").
type Context struct {
	Name   string
	Kind   Kind
	Level  int
	Outer  *Context

	Locals  map[string]symbols.VarInfo
	Params  map[string]symbols.VarInfo
	Methods map[string]symbols.VarInfo
	Types   map[string]types.Type
	Patches []*Context

	Supers     []types.Type
	TraitImpls map[string][]TraitImpl // trait qualified name -> impls

	reports diag.Reporter
}

// New creates a root Context (typically KindModule).
func New(name string, kind Kind, reports diag.Reporter) *Context {
	return &Context{
		Name:       name,
		Kind:       kind,
		Locals:     map[string]symbols.VarInfo{},
		Params:     map[string]symbols.VarInfo{},
		Methods:    map[string]symbols.VarInfo{},
		Types:      map[string]types.Type{},
		TraitImpls: map[string][]TraitImpl{},
		reports:    reports,
	}
}

// Push creates and returns a nested child context (spec.md §3 "Context.
// Lifecycle: pushed on entering a definition, popped on leaving").
func (c *Context) Push(name string, kind Kind) *Context {
	child := New(c.Name+"."+name, kind, c.reports)
	child.Outer = c
	child.Level = c.Level + 1
	return child
}

// RegisterVar implements spec.md §4.3 "register_var": rejects redefinitions
// of non-const bindings; const redefinitions are allowed if types agree.
func (c *Context) RegisterVar(name string, vi symbols.VarInfo) error {
	if existing, ok := c.Locals[name]; ok {
		if existing.Muty != symbols.Const || vi.Muty != symbols.Const {
			return fmt.Errorf("redefinition of %q", name)
		}
		if existing.T.String() != vi.T.String() {
			return fmt.Errorf("redefinition of const %q with incompatible type", name)
		}
	}
	c.Locals[name] = vi
	return nil
}

// RecGetVarInfo implements spec.md §4.3 "rec_get_var_info": walks outward
// through lexical parents, then c's super-classes, then c's patches,
// respecting visibility against the calling namespace. The super-class step
// goes through lookupInNamed, which finds nothing, so no name is ever
// resolved through a super-class.
func (c *Context) RecGetVarInfo(name string, callerNamespace string, env types.SuperLookup) Triple {
	for cur := c; cur != nil; cur = cur.Outer {
		if vi, ok := cur.Locals[name]; ok {
			return c.checkVisibility(vi, callerNamespace)
		}
		if vi, ok := cur.Params[name]; ok {
			return c.checkVisibility(vi, callerNamespace)
		}
	}
	for _, sup := range c.Supers {
		if mono, ok := sup.(types.Mono); ok {
			if vi, ok := c.lookupInNamed(mono.Name, name); ok {
				return c.checkVisibility(vi, callerNamespace)
			}
		}
	}
	for _, patch := range c.Patches {
		if vi, ok := patch.Locals[name]; ok {
			return c.checkVisibility(vi, callerNamespace)
		}
	}
	return Absent()
}

// lookupInNamed always reports no match: it does not consult any
// registered class/trait context.
func (c *Context) lookupInNamed(typeName, member string) (symbols.VarInfo, bool) {
	_ = typeName
	_ = member
	return symbols.VarInfo{}, false
}

func (c *Context) checkVisibility(vi symbols.VarInfo, callerNamespace string) Triple {
	if vi.Vis.Kind == symbols.VisPrivate && vi.Vis.DefNamespace != callerNamespace {
		d := diag.New(diag.SevError, diag.VisibilityError, source.Span{},
			fmt.Sprintf("%q is private to %q", vi.DefLoc.Path, vi.Vis.DefNamespace))
		return AccessDenied(d)
	}
	return Found(vi)
}

// GetMethod implements spec.md §4.3 "get_method": it returns c.Methods[name]
// if present, and otherwise searches the trait implementations in
// c.TraitImpls whose SubType the receiver is a subtype of. Super-types and
// patches are not searched. Ties between trait implementations are broken
// by specificity (smaller subtype wins).
func (c *Context) GetMethod(env types.SuperLookup, receiver types.Type, name string) (symbols.VarInfo, diag.Diagnostic, bool) {
	var candidates []TraitImpl
	for _, impls := range c.TraitImpls {
		for _, impl := range impls {
			if _, ok := impl.Methods[name]; ok && types.SubtypeOf(env, receiver, impl.SubType, false) {
				candidates = append(candidates, impl)
			}
		}
	}
	if vi, ok := c.Methods[name]; ok {
		return vi, diag.Diagnostic{}, true
	}
	if len(candidates) == 0 {
		return symbols.VarInfo{}, diag.Diagnostic{}, false
	}
	sort.Slice(candidates, func(i, j int) bool {
		return types.SubtypeOf(env, candidates[i].SubType, candidates[j].SubType, false)
	})
	best := candidates[0]
	if len(candidates) > 1 && !types.SubtypeOf(env, best.SubType, candidates[1].SubType, false) {
		d := diag.New(diag.SevError, diag.NameError, source.Span{},
			fmt.Sprintf("ambiguous method %q on %s", name, receiver))
		return symbols.VarInfo{}, d, false
	}
	return best.Methods[name], diag.Diagnostic{}, true
}

// SubUnify is the lowerer's workhorse (spec.md §4.3 "sub_unify"): unifies
// with subtyping direction, recording the attempted site in the error when
// it fails.
func (c *Context) SubUnify(env types.SuperLookup, found, expected types.Type, loc source.Span) *diag.Diagnostic {
	if types.SubtypeOf(env, found, expected, true) {
		return nil
	}
	d := diag.New(diag.SevError, diag.TypeError, loc,
		fmt.Sprintf("type mismatch: expected %s, found %s", expected, found))
	return &d
}

// SimilarityHint implements spec.md §4.3 "Similarity hints": on a
// name-resolution failure, searches every locally visible name for edit
// distance <= sqrt(len(name)) and returns the best match.
func (c *Context) SimilarityHint(name string) string {
	threshold := int(math.Sqrt(float64(len(name))))
	best := ""
	bestDist := threshold + 1
	visit := func(candidates map[string]symbols.VarInfo) {
		for cand := range candidates {
			d := editDistance(name, cand)
			if d <= threshold && d < bestDist {
				bestDist = d
				best = cand
			}
		}
	}
	for cur := c; cur != nil; cur = cur.Outer {
		visit(cur.Locals)
		visit(cur.Params)
		visit(cur.Methods)
	}
	return best
}

func editDistance(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	n, m := len(ra), len(rb)
	prev := make([]int, m+1)
	cur := make([]int, m+1)
	for j := 0; j <= m; j++ {
		prev[j] = j
	}
	for i := 1; i <= n; i++ {
		cur[0] = i
		for j := 1; j <= m; j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			cur[j] = min3(prev[j]+1, cur[j-1]+1, prev[j-1]+cost)
		}
		prev, cur = cur, prev
	}
	return prev[m]
}

func min3(a, b, c int) int {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	return m
}
