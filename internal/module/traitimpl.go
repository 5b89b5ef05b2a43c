package module

import (
	"sync"

	"ergc/internal/symbols"
	"ergc/internal/types"
)

// TraitImpl records one trait implementation (spec.md §4.7 "Trait
// implementation index"): a sub-type together with the super-trait it
// implements for that sub-type, and the method table the lowerer built
// while checking its Methods block.
type TraitImpl struct {
	SubType  types.Type
	SupTrait types.Type
	Methods  map[string]symbols.VarInfo
}

// TraitImplIndex maps a trait's qualified name to every registered
// implementation, guarded by its own RWMutex (spec.md §5 "Write-lock per
// trait name").
type TraitImplIndex struct {
	mu    sync.RWMutex
	impls map[string][]TraitImpl
}

// NewTraitImplIndex returns an empty index.
func NewTraitImplIndex() *TraitImplIndex {
	return &TraitImplIndex{impls: make(map[string][]TraitImpl)}
}

// Register adds impl under traitName. It refuses (returning false) a second
// implementation whose SubType has the same String() rendering as an
// already-registered one (no unification is attempted) but whose method
// table diverges (spec.md §4.7 "an error to register two
// overlapping implementations... with diverging method tables"); an
// implementation that repeats an identical method table for the same
// sub-type is accepted idempotently.
func (idx *TraitImplIndex) Register(traitName string, impl TraitImpl) bool {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	for _, existing := range idx.impls[traitName] {
		if existing.SubType.String() != impl.SubType.String() {
			continue
		}
		if sameMethodTable(existing.Methods, impl.Methods) {
			return true
		}
		return false
	}
	idx.impls[traitName] = append(idx.impls[traitName], impl)
	return true
}

// Lookup returns every implementation registered for traitName.
func (idx *TraitImplIndex) Lookup(traitName string) []TraitImpl {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	out := make([]TraitImpl, len(idx.impls[traitName]))
	copy(out, idx.impls[traitName])
	return out
}

func sameMethodTable(a, b map[string]symbols.VarInfo) bool {
	if len(a) != len(b) {
		return false
	}
	for name, vi := range a {
		other, ok := b[name]
		if !ok || other.T.String() != vi.T.String() {
			return false
		}
	}
	return true
}
