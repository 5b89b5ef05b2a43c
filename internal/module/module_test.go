package module_test

import (
	"testing"

	"ergc/internal/diag"
	"ergc/internal/module"
	"ergc/internal/source"
	"ergc/internal/symbols"
	"ergc/internal/types"
)

type testReporter struct {
	diagnostics []diag.Diagnostic
}

func (r *testReporter) Report(code diag.Code, sev diag.Severity, primary source.Span, msg string, notes []diag.Note, fixes []diag.Fix) {
	r.diagnostics = append(r.diagnostics, diag.Diagnostic{Code: code, Severity: sev, Primary: primary, Message: msg, Notes: notes, Fixes: fixes})
}

func (r *testReporter) hasCode(code diag.Code) bool {
	for _, d := range r.diagnostics {
		if d.Code == code {
			return true
		}
	}
	return false
}

func sp(n uint32) source.Span { return source.Span{Start: n, End: n + 1} }

func TestCacheLifecycle(t *testing.T) {
	c := module.NewCache()
	if !c.Register("a.er") {
		t.Fatalf("first Register should start the compile")
	}
	if c.Register("a.er") {
		t.Fatalf("second Register should lose the race")
	}
	if c.Ready("a.er") {
		t.Fatalf("should not be ready before Complete")
	}
	c.Complete("a.er", nil, nil)
	if !c.Ready("a.er") {
		t.Fatalf("should be ready after Complete")
	}
	entry, ok := c.Get("a.er")
	if !ok || entry.Path != "a.er" {
		t.Fatalf("Get returned %+v, %v", entry, ok)
	}
	c.Remove("a.er")
	if _, ok := c.Get("a.er"); ok {
		t.Fatalf("entry should be gone after Remove")
	}
}

func TestToposortKahnOrdersAndBatches(t *testing.T) {
	metas := []*module.ModuleMeta{
		{Path: "a"},
		{Path: "b", Imports: []module.ImportEdge{{Path: "a"}}},
		{Path: "c", Imports: []module.ImportEdge{{Path: "a"}}},
		{Path: "d", Imports: []module.ImportEdge{{Path: "b"}, {Path: "c"}}},
	}
	idx := module.BuildIndex(metas)
	g, _ := module.BuildGraph(idx, metas, nil)
	topo := module.ToposortKahn(g)
	if topo.Cyclic {
		t.Fatalf("acyclic graph reported cyclic")
	}
	if len(topo.Order) != 4 {
		t.Fatalf("expected 4 modules in order, got %d", len(topo.Order))
	}
	if len(topo.Batches) != 3 {
		t.Fatalf("expected 3 batches (a | b,c | d), got %d: %v", len(topo.Batches), topo.Batches)
	}
	pos := make(map[string]int, 4)
	for i, id := range topo.Order {
		pos[idx.IDToName[int(id)]] = i
	}
	if pos["a"] >= pos["b"] || pos["a"] >= pos["c"] {
		t.Fatalf("a must precede b and c: %v", pos)
	}
	if pos["b"] >= pos["d"] || pos["c"] >= pos["d"] {
		t.Fatalf("b and c must precede d: %v", pos)
	}
}

func TestToposortKahnDetectsCycle(t *testing.T) {
	metas := []*module.ModuleMeta{
		{Path: "a", Imports: []module.ImportEdge{{Path: "b"}}},
		{Path: "b", Imports: []module.ImportEdge{{Path: "a"}}},
	}
	idx := module.BuildIndex(metas)
	rep := &testReporter{}
	g, slots := module.BuildGraph(idx, metas, []diag.Reporter{rep, rep})
	topo := module.ToposortKahn(g)
	if !topo.Cyclic {
		t.Fatalf("mutually-importing modules should be reported cyclic")
	}
	module.ReportCycles(idx, slots, *topo)
	if !rep.hasCode(diag.CyclicReference) {
		t.Fatalf("expected a CyclicReference diagnostic, got %+v", rep.diagnostics)
	}
}

func TestBuildGraphReportsDuplicateModule(t *testing.T) {
	metas := []*module.ModuleMeta{
		{Path: "a"},
		{Path: "a"},
	}
	idx := module.BuildIndex(metas)
	rep := &testReporter{}
	module.BuildGraph(idx, metas, []diag.Reporter{nil, rep})
	if !rep.hasCode(diag.DuplicateModule) {
		t.Fatalf("expected a DuplicateModule diagnostic, got %+v", rep.diagnostics)
	}
}

func TestBuildGraphReportsUnknownImport(t *testing.T) {
	metas := []*module.ModuleMeta{
		{Path: "a", Imports: []module.ImportEdge{{Path: "missing", Span: sp(0)}}},
	}
	idx := module.BuildIndex(metas)
	rep := &testReporter{}
	module.BuildGraph(idx, metas, []diag.Reporter{rep})
	if !rep.hasCode(diag.NameError) {
		t.Fatalf("expected a NameError diagnostic for the unknown import, got %+v", rep.diagnostics)
	}
}

func TestTraitImplIndexRejectsOverlapWithDivergingMethods(t *testing.T) {
	idx := module.NewTraitImplIndex()
	subType := types.Mono{Name: "Widget"}
	supTrait := types.Mono{Name: "Show"}
	first := module.TraitImpl{
		SubType:  subType,
		SupTrait: supTrait,
		Methods:  map[string]symbols.VarInfo{"show": {T: types.Str}},
	}
	if !idx.Register("Show", first) {
		t.Fatalf("first registration should succeed")
	}
	same := module.TraitImpl{
		SubType:  subType,
		SupTrait: supTrait,
		Methods:  map[string]symbols.VarInfo{"show": {T: types.Str}},
	}
	if !idx.Register("Show", same) {
		t.Fatalf("re-registering an identical impl should be accepted idempotently")
	}
	diverging := module.TraitImpl{
		SubType:  subType,
		SupTrait: supTrait,
		Methods:  map[string]symbols.VarInfo{"show": {T: types.Int}},
	}
	if idx.Register("Show", diverging) {
		t.Fatalf("a diverging method table for the same sub-type should be rejected")
	}
	impls := idx.Lookup("Show")
	if len(impls) != 1 {
		t.Fatalf("expected exactly one retained impl, got %d", len(impls))
	}
}

func TestReferenceIndexRecordsAndQueries(t *testing.T) {
	idx := module.NewReferenceIndex()
	defLoc := source.AbsLocation{Path: "a.er", Loc: source.Location{Byte: sp(1)}}
	refLoc := source.AbsLocation{Path: "b.er", Loc: source.Location{Byte: sp(20)}}
	idx.Record(defLoc, refLoc)

	referrers := idx.Referrers(defLoc)
	if len(referrers) != 1 || referrers[0] != refLoc {
		t.Fatalf("Referrers(defLoc) = %v, want [%v]", referrers, refLoc)
	}
	referees := idx.Referees(refLoc)
	if len(referees) != 1 || referees[0] != defLoc {
		t.Fatalf("Referees(refLoc) = %v, want [%v]", referees, defLoc)
	}
	deps := idx.ModuleGraphOf("b.er")
	if len(deps) != 1 || deps[0] != "a.er" {
		t.Fatalf("ModuleGraphOf(b.er) = %v, want [a.er]", deps)
	}
	if len(idx.ModuleGraphOf("a.er")) != 0 {
		t.Fatalf("a.er has no outgoing references recorded")
	}
}

func TestReferenceIndexIgnoresBuiltinDefLoc(t *testing.T) {
	idx := module.NewReferenceIndex()
	builtin := source.AbsLocation{}
	refLoc := source.AbsLocation{Path: "a.er"}
	idx.Record(builtin, refLoc)
	if len(idx.Referrers(builtin)) != 0 {
		t.Fatalf("a builtin def location should not be tracked")
	}
}
