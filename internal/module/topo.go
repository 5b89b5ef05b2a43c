package module

import (
	"fmt"
	"slices"

	"fortio.org/safecast"
)

// Topo is the result of sorting a Graph: a flat Order plus the Batches that
// group together every module whose dependencies are already satisfied,
// i.e. the waves the build driver can hand to errgroup.Go in parallel
// (spec.md §5 "one per imported module").
type Topo struct {
	Order   []ModuleID
	Batches [][]ModuleID
	Cyclic  bool
	Cycles  []ModuleID
}

// ToposortKahn computes a topological order and parallel batches via Kahn's
// algorithm. spec.md §4.7 describes "Tarjan-style DFS"; Kahn's algorithm
// satisfies the same contract (a topological order, with any cycle
// reported as a CyclicReference over the offending paths) and additionally
// falls out of the batches the concurrency model needs, so it is used here
// instead of a DFS-based sort.
func ToposortKahn(g Graph) *Topo {
	n := len(g.Edges)
	indeg := make([]int, len(g.Indeg))
	copy(indeg, g.Indeg)

	topo := &Topo{Order: make([]ModuleID, 0, n), Batches: make([][]ModuleID, 0)}

	active := 0
	for i := 0; i < n; i++ {
		if g.Present[i] {
			active++
		}
	}

	current := make([]ModuleID, 0, n)
	for i := 0; i < n; i++ {
		if g.Present[i] && indeg[i] == 0 {
			id, err := safecast.Conv[ModuleID](i)
			if err != nil {
				panic(fmt.Errorf("module id overflow: %w", err))
			}
			current = append(current, id)
		}
	}
	slices.Sort(current)

	visited := 0
	for len(current) > 0 {
		batch := make([]ModuleID, len(current))
		copy(batch, current)
		topo.Batches = append(topo.Batches, batch)

		var next []ModuleID
		for _, id := range batch {
			topo.Order = append(topo.Order, id)
			visited++
			for _, to := range g.Edges[int(id)] {
				if !g.Present[int(to)] {
					continue
				}
				indeg[int(to)]--
				if indeg[int(to)] == 0 {
					next = append(next, to)
				}
			}
		}
		slices.Sort(next)
		current = next
	}

	if visited != active {
		topo.Cyclic = true
		for i := 0; i < n; i++ {
			if g.Present[i] && indeg[i] > 0 {
				id, err := safecast.Conv[ModuleID](i)
				if err != nil {
					panic(fmt.Errorf("module id overflow: %w", err))
				}
				topo.Cycles = append(topo.Cycles, id)
			}
		}
		slices.Sort(topo.Cycles)
	}

	return topo
}
