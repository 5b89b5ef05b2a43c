package ctx

import (
	"sync"

	"ergc/internal/source"
	"ergc/internal/types"
)

// Registry is the nominal-type side-table the Lowerer builds up as it
// processes Class/Inherit/Trait definitions: it is the concrete
// types.SuperLookup every SubtypeOf/Unify/SubUnify call in a compilation
// consults, since the types package itself has no notion of a scope or a
// module (spec.md §4.2 "Subtyping" delegates super-type and projection
// resolution to the caller).
//
// A Registry is shared across every module of one build (internal/lower's
// doc comment), and once internal/builddriver spawns one worker per
// imported module, those modules' Lowerers register classes and
// projections against the same Registry concurrently; mu guards both maps
// for that reason. Keys are interned through a source.Interner and the
// maps are keyed by the resulting StringID. Every lookup still builds its
// key (a projection key by string concatenation) and interns it, so the
// full key string is hashed once per lookup by the Interner.
type Registry struct {
	mu     sync.RWMutex
	names  *source.Interner
	supers map[source.StringID][]types.Type
	projs  map[source.StringID]types.Type
}

// NewRegistry returns an empty Registry, ready for class/patch registration.
func NewRegistry() *Registry {
	return &Registry{
		names:  source.NewInterner(),
		supers: map[source.StringID][]types.Type{},
		projs:  map[source.StringID]types.Type{},
	}
}

// RegisterSuper records that name's type has sup as one of its declared
// super-types (from Class/Inherit/Subsume arguments).
func (r *Registry) RegisterSuper(name string, sup types.Type) {
	id := r.names.Intern(name)
	r.mu.Lock()
	defer r.mu.Unlock()
	r.supers[id] = append(r.supers[id], sup)
}

// SupersOf implements types.SuperLookup.
func (r *Registry) SupersOf(name string) []types.Type {
	id := r.names.Intern(name)
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.supers[id]
}

// RegisterProj records an associated-type projection's resolution, e.g.
// `Iterator.Item` for a concrete implementer.
func (r *Registry) RegisterProj(lhs types.Type, rhs string, resolved types.Type) {
	id := r.names.Intern(projKey(lhs, rhs))
	r.mu.Lock()
	defer r.mu.Unlock()
	r.projs[id] = resolved
}

// ProjResolve implements types.SuperLookup.
func (r *Registry) ProjResolve(lhs types.Type, rhs string) (types.Type, bool) {
	id := r.names.Intern(projKey(lhs, rhs))
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.projs[id]
	return t, ok
}

func projKey(lhs types.Type, rhs string) string {
	return lhs.String() + "." + rhs
}
