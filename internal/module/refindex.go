package module

import (
	"sync"

	"ergc/internal/source"
)

// ReferenceIndex records, for every successful name resolution the lowerer
// performs, the edge from the definition's location to the location of the
// reference that resolved to it (spec.md §4.7 "Reference index": "On every
// successful name resolution the lowerer writes (referee_def_loc ->
// referrer_abs_loc)"). It exposes referrers, referees, and the per-module
// view of which modules reference which, for "find usages"/"go to
// definition" style callers (an LSP adapter, or the built-in `lint`/`pack`
// subcommands that want dead-code and cross-module dependency reports).
type ReferenceIndex struct {
	mu sync.RWMutex
	// referrers maps a definition's location to every location that
	// referenced it.
	referrers map[source.AbsLocation][]source.AbsLocation
	// referees is the inverse: a referrer location to the definition
	// location(s) it resolved to (normally one, but a name can be
	// re-exported/re-bound through a patch, hence a slice).
	referees map[source.AbsLocation][]source.AbsLocation
}

// NewReferenceIndex returns an empty reference index.
func NewReferenceIndex() *ReferenceIndex {
	return &ReferenceIndex{
		referrers: make(map[source.AbsLocation][]source.AbsLocation),
		referees:  make(map[source.AbsLocation][]source.AbsLocation),
	}
}

// Record adds one (refereeDefLoc -> referrerAbsLoc) edge. Called by the
// lowerer immediately after ctx.Context.RecGetVarInfo (or GetMethod)
// returns a successful Triple, with refereeDefLoc taken from the resolved
// symbols.VarInfo.DefLoc and referrerAbsLoc the Lowerer.absLoc of the
// identifier being lowered.
func (idx *ReferenceIndex) Record(refereeDefLoc, referrerAbsLoc source.AbsLocation) {
	if refereeDefLoc.IsBuiltin() {
		return
	}
	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.referrers[refereeDefLoc] = append(idx.referrers[refereeDefLoc], referrerAbsLoc)
	idx.referees[referrerAbsLoc] = append(idx.referees[referrerAbsLoc], refereeDefLoc)
}

// Referrers returns every location that references defLoc.
func (idx *ReferenceIndex) Referrers(defLoc source.AbsLocation) []source.AbsLocation {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	out := make([]source.AbsLocation, len(idx.referrers[defLoc]))
	copy(out, idx.referrers[defLoc])
	return out
}

// Referees returns every definition location that refLoc resolved to.
func (idx *ReferenceIndex) Referees(refLoc source.AbsLocation) []source.AbsLocation {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	out := make([]source.AbsLocation, len(idx.referees[refLoc]))
	copy(out, idx.referees[refLoc])
	return out
}

// ModuleGraphOf derives the set of modules referenced from within module,
// by mapping every referee location recorded for a referrer in module
// through its Path. Used to answer "which modules does X actually depend
// on at the symbol level", finer-grained than the import-edge Graph alone
// since it is built from resolved references rather than declared imports.
func (idx *ReferenceIndex) ModuleGraphOf(module string) []string {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	seen := make(map[string]struct{})
	for refLoc, defLocs := range idx.referees {
		if refLoc.Path != module {
			continue
		}
		for _, defLoc := range defLocs {
			if defLoc.Path != "" && defLoc.Path != module {
				seen[defLoc.Path] = struct{}{}
			}
		}
	}
	out := make([]string, 0, len(seen))
	for m := range seen {
		out = append(out, m)
	}
	return out
}
