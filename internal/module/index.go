// Package module implements the shared module system (spec.md §4.7): the
// module cache, the import dependency graph with its topological sort, the
// trait-implementation index, and the reference index. Grounded on the
// teacher's internal/project/dag package (index.go/graph.go/topo.go), kept
// as a separate file per concern the way the teacher splits it, adapted
// from project.ModuleMeta to this package's own ImportEdge/ModuleMeta since
// this module does not depend on a full project-manifest package.
package module

import (
	"fmt"
	"sort"

	"fortio.org/safecast"

	"ergc/internal/source"
)

// ModuleID is a dense, build-local identifier for one module path.
type ModuleID uint32

// ImportEdge is one `import`/`pyimport` reference a module makes, with the
// span of the importing statement for diagnostics.
type ImportEdge struct {
	Path string
	Span source.Span
}

// ModuleMeta is what the build driver hands the graph for one module: its
// own path, the imports it makes, and (once lowering has run) its content
// and module hashes for incremental rebuilds.
type ModuleMeta struct {
	Path        string
	Span        source.Span // the module's own declaration site, if any
	Imports     []ImportEdge
	ContentHash [32]byte
	ModuleHash  [32]byte
}

// Index maps module paths to dense IDs, assigned deterministically (sorted
// by path) so two builds over the same sources produce the same IDs.
type Index struct {
	NameToID map[string]ModuleID
	IDToName []string
}

// BuildIndex collects every path mentioned either as a module or as an
// import target, and assigns each a stable ID.
func BuildIndex(metas []*ModuleMeta) Index {
	uniq := make(map[string]struct{}, len(metas))
	for _, m := range metas {
		if m.Path != "" {
			uniq[m.Path] = struct{}{}
		}
		for _, dep := range m.Imports {
			if dep.Path != "" {
				uniq[dep.Path] = struct{}{}
			}
		}
	}
	paths := make([]string, 0, len(uniq))
	for p := range uniq {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	nameToID := make(map[string]ModuleID, len(paths))
	for i, p := range paths {
		id, err := safecast.Conv[ModuleID](i)
		if err != nil {
			panic(fmt.Errorf("module index overflow: %w", err))
		}
		nameToID[p] = id
	}
	return Index{NameToID: nameToID, IDToName: paths}
}
