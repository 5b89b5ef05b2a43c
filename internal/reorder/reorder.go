// Package reorder implements the Reorderer (spec.md §4.1): it collapses the
// loose parser-produced AST into a shape the lowerer can traverse linearly,
// recognizing Class/Inherit/Patch definitions and gathering the Methods
// blocks that belong to them.
package reorder

import (
	"math"
	"strings"

	"ergc/internal/ast"
	"ergc/internal/diag"
)

// builtinCallNames are the distinguished builtins whose presence as a Def's
// body turns it into a ClassDef/PatchDef (spec.md §4.1.a).
const (
	builtinClass       = "Class"
	builtinInherit     = "Inherit"
	builtinInheritable = "Inheritable"
	builtinPatch       = "Patch"
)

// Reorder rewrites a flat list of top-level items into the shape the
// lowerer expects: Class/Inherit/Patch calls become ClassDef/PatchDef
// nodes, and subsequent Methods blocks referring to the same nominal type
// are attached to the matching definition.
func Reorder(items []ast.Node, reports diag.Reporter) []ast.Node {
	var out []ast.Node
	classByName := map[string]*ast.ClassDef{}
	patchByName := map[string]*ast.PatchDef{}
	var pendingMethods []*ast.Methods

	for _, item := range items {
		switch n := item.(type) {
		case *ast.Def:
			if cd, ok := recognizeClassDef(n); ok {
				classByName[cd.Def.Sig.Name] = cd
				out = append(out, cd)
				continue
			}
			if pd, ok := recognizePatchDef(n); ok {
				patchByName[pd.Def.Sig.Name] = pd
				out = append(out, pd)
				continue
			}
			out = append(out, n)
		case *ast.Methods:
			if cd, ok := classByName[n.ClassSpec]; ok {
				cd.MethodsList = append(cd.MethodsList, n)
				continue
			}
			if pd, ok := patchByName[n.ClassSpec]; ok {
				pd.MethodsList = append(pd.MethodsList, n)
				continue
			}
			pendingMethods = append(pendingMethods, n)
		default:
			out = append(out, item)
		}
	}

	// Any Methods block that never found its class/patch is a failure
	// (spec.md §4.1 "Failure"): report with an edit-distance hint and
	// discard it.
	names := make([]string, 0, len(classByName)+len(patchByName))
	for name := range classByName {
		names = append(names, name)
	}
	for name := range patchByName {
		names = append(names, name)
	}
	for _, m := range pendingMethods {
		hint := bestMatch(m.ClassSpec, names)
		msg := "no class or patch named " + m.ClassSpec
		if hint != "" {
			msg += "; did you mean " + hint + "?"
		}
		if reports != nil {
			reports.Report(diag.NameError, diag.SevError, m.Pos(), msg, nil, nil)
		}
	}

	return out
}

func recognizeClassDef(n *ast.Def) (*ast.ClassDef, bool) {
	call, ok := bodyCall(n)
	if !ok {
		return nil, false
	}
	callee, ok := call.Callee.(*ast.Identifier)
	if !ok {
		return nil, false
	}
	switch callee.Name {
	case builtinClass, builtinInherit, builtinInheritable:
		cd := &ast.ClassDef{Def: *n, Builtin: callee.Name}
		if len(call.Args.Pos) > 0 {
			cd.RequirePart = call.Args.Pos[0]
		}
		if len(call.Args.Pos) > 1 {
			cd.ImplPart = call.Args.Pos[1]
		}
		return cd, true
	}
	return nil, false
}

func recognizePatchDef(n *ast.Def) (*ast.PatchDef, bool) {
	call, ok := bodyCall(n)
	if !ok {
		return nil, false
	}
	callee, ok := call.Callee.(*ast.Identifier)
	if !ok || callee.Name != builtinPatch {
		return nil, false
	}
	pd := &ast.PatchDef{Def: *n}
	if len(call.Args.Pos) > 0 {
		pd.Target = call.Args.Pos[0]
	}
	return pd, true
}

// bodyCall extracts the single call expression a definition's body reduces
// to, when the body is exactly one expression statement wrapping a call.
func bodyCall(n *ast.Def) (*ast.Call, bool) {
	if len(n.Body) != 1 {
		return nil, false
	}
	call, ok := n.Body[0].(*ast.Call)
	return call, ok
}

// FlattenDeclarations (spec.md §4.1.c) turns the typed entries of a
// declaration-mode Methods block for class C into top-level ascriptions:
// `x: T` becomes `C.x: T`. Type specs are kept as written, so a `Self` in
// them is not replaced by C. Entries that are not type ascriptions are
// skipped; an ascription whose left side is not a plain identifier is
// passed through unqualified.
func FlattenDeclarations(m *ast.Methods) []*ast.TypeAscription {
	out := make([]*ast.TypeAscription, 0, len(m.Attrs))
	for _, attr := range m.Attrs {
		ta, ok := attr.(*ast.TypeAscription)
		if !ok {
			continue
		}
		ident, ok := ta.Expr.(*ast.Identifier)
		if !ok {
			out = append(out, ta)
			continue
		}
		qualified := &ast.Identifier{Name: m.ClassSpec + "." + ident.Name, Vis: ident.Vis}
		out = append(out, &ast.TypeAscription{Expr: qualified, TypeSpec: ta.TypeSpec})
	}
	return out
}

func bestMatch(name string, candidates []string) string {
	threshold := int(math.Sqrt(float64(len(name))))
	best := ""
	bestDist := threshold + 1
	for _, cand := range candidates {
		d := editDistance(strings.ToLower(name), strings.ToLower(cand))
		if d <= threshold && d < bestDist {
			bestDist = d
			best = cand
		}
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
			cur[j] = minInt(prev[j]+1, cur[j-1]+1, prev[j-1]+cost)
		}
		prev, cur = cur, prev
	}
	return prev[m]
}

func minInt(a, b, c int) int {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	return m
}
