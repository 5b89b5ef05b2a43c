package builddriver

import (
	"sync"
)

// promise is one spawned import's completion handle (spec.md §4.8 step 4
// "Register the spawned task in promises"). Wait blocks until the worker
// that owns it has returned, regardless of which goroutine calls Wait.
type promise struct {
	done chan struct{}
	err  error
}

func newPromise() *promise {
	return &promise{done: make(chan struct{})}
}

func (p *promise) resolve(err error) {
	p.err = err
	close(p.done)
}

func (p *promise) wait() error {
	<-p.done
	return p.err
}

// PromiseTable is the shared, lock-protected map from a module's
// normalized path to the promise tracking its in-flight compile, plus the
// spawn parentage needed for the join discipline spec.md §4.8 describes:
// "promises.join_children() ... only awaits threads it itself spawned —
// never its parent — avoiding deadlock." Each promise's children are
// recorded under the spawning module's own path, never under the global
// table, so JoinChildren(from) can never reach upward into an ancestor
// that is itself still waiting on `from`.
type PromiseTable struct {
	mu       sync.Mutex
	promises map[string]*promise
	children map[string][]string // spawner path -> paths it spawned
}

// NewPromiseTable returns an empty promise table.
func NewPromiseTable() *PromiseTable {
	return &PromiseTable{
		promises: make(map[string]*promise),
		children: make(map[string][]string),
	}
}

// register inserts a fresh, unresolved promise for path if one isn't
// already present, attributing it to spawner (empty for the root build).
// ok is false if path was already registered — the caller lost the race
// and should await the existing promise instead of spawning a duplicate
// worker.
func (t *PromiseTable) register(spawner, path string) (p *promise, ok bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if existing, present := t.promises[path]; present {
		return existing, false
	}
	p = newPromise()
	t.promises[path] = p
	if spawner != "" {
		t.children[spawner] = append(t.children[spawner], path)
	}
	return p, true
}

// Wait blocks for path's promise to resolve, if one has been registered.
// A path never registered (e.g. an inline submodule, which has no
// separate worker) is reported as already done.
func (t *PromiseTable) Wait(path string) error {
	t.mu.Lock()
	p, ok := t.promises[path]
	t.mu.Unlock()
	if !ok {
		return nil
	}
	return p.wait()
}

// JoinChildren awaits every promise that `from` itself spawned, directly
// or transitively, and never a promise spawned by anyone else — in
// particular never one of from's own ancestors, which may still be
// blocked waiting on from. This is the one join operation a worker that
// needs to consult its own partially-compiled children (declaration files
// of a partly-compiled module) may call without risking a deadlock.
func (t *PromiseTable) JoinChildren(from string) error {
	seen := make(map[string]bool)
	queue := t.childrenOf(from)
	var firstErr error
	for len(queue) > 0 {
		path := queue[0]
		queue = queue[1:]
		if seen[path] {
			continue
		}
		seen[path] = true
		if err := t.Wait(path); err != nil && firstErr == nil {
			firstErr = err
		}
		queue = append(queue, t.childrenOf(path)...)
	}
	return firstErr
}

func (t *PromiseTable) childrenOf(path string) []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]string, len(t.children[path]))
	copy(out, t.children[path])
	return out
}
