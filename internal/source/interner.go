package source

import (
	"slices"
	"sync"
)

// StringID is a handle into an Interner's string table.
type StringID uint32

// NoStringID is the reserved handle for the empty string, always present
// at index 0 of a freshly constructed Interner.
const NoStringID StringID = 0

// Interner deduplicates strings behind a small integer handle, so a
// high-cardinality key (a nominal type name, a projection key) can be
// compared and hashed as a StringID instead of repeatedly hashing the full
// string. Safe for concurrent use.
type Interner struct {
	mu    sync.RWMutex
	byID  []string            // byID[0] is always "" (NoStringID)
	index map[string]StringID // string -> its StringID
}

// NewInterner returns an Interner pre-seeded with NoStringID -> "".
func NewInterner() *Interner {
	return &Interner{
		byID:  []string{""},
		index: map[string]StringID{"": NoStringID},
	}
}

// Intern returns s's StringID, assigning it a fresh one on first sight.
func (in *Interner) Intern(s string) StringID {
	in.mu.RLock()
	id, ok := in.index[s]
	in.mu.RUnlock()
	if ok {
		return id
	}

	// Copy so the interner doesn't keep the caller's backing array alive
	// (relevant when s was sliced out of a larger source buffer).
	owned := string([]byte(s))

	in.mu.Lock()
	defer in.mu.Unlock()
	// Another goroutine may have interned the same string between the
	// RUnlock above and this Lock.
	if id, ok := in.index[owned]; ok {
		return id
	}
	id = StringID(len(in.byID))
	in.byID = append(in.byID, owned)
	in.index[owned] = id
	return id
}

// InternBytes is Intern for a byte slice, avoiding a caller-side
// allocation when the bytes are already known to be new.
func (in *Interner) InternBytes(b []byte) StringID {
	return in.Intern(string(b))
}

// Lookup returns the string id was assigned to, or ("", false) if id was
// never handed out by this Interner.
func (in *Interner) Lookup(id StringID) (string, bool) {
	in.mu.RLock()
	defer in.mu.RUnlock()
	if int(id) < 0 || int(id) >= len(in.byID) {
		return "", false
	}
	return in.byID[id], true
}

// MustLookup is Lookup, panicking on an id this Interner never assigned.
func (in *Interner) MustLookup(id StringID) string {
	s, ok := in.Lookup(id)
	if !ok {
		panic("source: invalid StringID")
	}
	return s
}

// Has reports whether id was assigned by this Interner.
func (in *Interner) Has(id StringID) bool {
	in.mu.RLock()
	defer in.mu.RUnlock()
	return int(id) >= 0 && int(id) < len(in.byID)
}

// Len returns the number of distinct strings interned, including
// NoStringID's empty string (so it is never less than 1).
func (in *Interner) Len() int {
	in.mu.RLock()
	defer in.mu.RUnlock()
	return len(in.byID)
}

// Snapshot returns a copy of every interned string, indexed by StringID.
func (in *Interner) Snapshot() []string {
	in.mu.RLock()
	defer in.mu.RUnlock()
	return slices.Clone(in.byID)
}
