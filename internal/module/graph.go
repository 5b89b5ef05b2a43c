package module

import (
	"slices"

	"ergc/internal/diag"
)

// Graph is the add-only import dependency graph for one build (spec.md
// §4.7 "Module graph"). Edges[from] lists the dependencies of module
// `from`; Present marks which IDs correspond to a module actually supplied
// (as opposed to one only ever mentioned as an import target).
type Graph struct {
	Edges   [][]ModuleID
	Indeg   []int
	Present []bool
}

// Slot carries the per-module bookkeeping the graph and sort need:
// deduplicated against Index, with its own Reporter for per-module
// diagnostics (mirrors the per-resource reporting discipline spec.md §5
// describes for the shared error buffer).
type Slot struct {
	Meta     ModuleMeta
	Reports  diag.Reporter
	Present  bool
}

// BuildGraph assigns each ModuleMeta to its Index slot, rejecting a second
// registration of the same path (spec.md §4.7's module cache "Registered"
// lifecycle only ever has one live entry per path) and wiring import edges,
// reporting an unresolved import target through the importing module's own
// Reporter rather than aborting the whole graph.
func BuildGraph(idx Index, metas []*ModuleMeta, reports []diag.Reporter) (Graph, []Slot) {
	n := len(idx.IDToName)
	g := Graph{
		Edges:   make([][]ModuleID, n),
		Indeg:   make([]int, n),
		Present: make([]bool, n),
	}
	slots := make([]Slot, n)
	for i, name := range idx.IDToName {
		slots[i].Meta.Path = name
	}

	for i, meta := range metas {
		if meta == nil || meta.Path == "" {
			continue
		}
		id, ok := idx.NameToID[meta.Path]
		if !ok {
			continue
		}
		var rep diag.Reporter
		if i < len(reports) {
			rep = reports[i]
		}
		slot := &slots[int(id)]
		if slot.Present {
			if rep != nil {
				rep.Report(diag.DuplicateModule, diag.SevError, meta.Span,
					"duplicate module \""+meta.Path+"\"", nil, nil)
			}
			continue
		}
		slot.Meta = *meta
		slot.Reports = rep
		slot.Present = true
		g.Present[int(id)] = true
	}

	for from := range slots {
		slot := &slots[from]
		if !slot.Present || len(slot.Meta.Imports) == 0 {
			continue
		}
		seen := make(map[ModuleID]struct{}, len(slot.Meta.Imports))
		for _, dep := range slot.Meta.Imports {
			toID, ok := idx.NameToID[dep.Path]
			if !ok {
				continue
			}
			if ModuleID(from) == toID {
				// A self-import is a one-node cycle; ToposortKahn reports
				// it the same way it reports any other cycle, so no
				// separate diagnostic path is needed here.
				g.Edges[from] = append(g.Edges[from], toID)
				g.Indeg[int(toID)]++
				continue
			}
			if _, dup := seen[toID]; dup {
				continue
			}
			seen[toID] = struct{}{}
			g.Edges[from] = append(g.Edges[from], toID)
			if g.Present[int(toID)] {
				g.Indeg[int(toID)]++
			} else if slot.Reports != nil {
				slot.Reports.Report(diag.NameError, diag.SevError, dep.Span,
					"module \""+slot.Meta.Path+"\" imports unknown module \""+dep.Path+"\"", nil, nil)
			}
		}
		if len(g.Edges[from]) > 1 {
			slices.Sort(g.Edges[from])
		}
	}

	return g, slots
}

// ReportCycles emits a CyclicReference diagnostic against every module
// left in a cycle after ToposortKahn.
func ReportCycles(idx Index, slots []Slot, topo Topo) {
	if !topo.Cyclic || len(topo.Cycles) == 0 {
		return
	}
	names := make([]string, 0, len(topo.Cycles))
	for _, id := range topo.Cycles {
		names = append(names, idx.IDToName[int(id)])
	}
	summary := joinArrow(names)
	for _, id := range topo.Cycles {
		slot := slots[int(id)]
		if !slot.Present || slot.Reports == nil {
			continue
		}
		slot.Reports.Report(diag.CyclicReference, diag.SevError, slot.Meta.Span,
			"module \""+slot.Meta.Path+"\" participates in an import cycle: "+summary, nil, nil)
	}
}

func joinArrow(names []string) string {
	out := ""
	for i, n := range names {
		if i > 0 {
			out += " -> "
		}
		out += n
	}
	return out
}
