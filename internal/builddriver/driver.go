package builddriver

import (
	"context"
	"fmt"
	"path/filepath"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"

	"ergc/internal/hir"
	"ergc/internal/module"
)

// CompileFunc runs the full reorder -> lower -> effect-check ->
// ownership-check pipeline against the file at path and returns its HIR
// module. It is injected rather than called directly from this package so
// builddriver stays decoupled from the concrete lexer/parser/lower wiring
// a cmd/erg front end assembles (spec.md §4.8 "parse the target file
// (external parser), then spawn a worker thread that runs the full
// pipeline").
type CompileFunc func(ctx context.Context, path string) (*hir.Module, error)

// ImportResult is what Import reports back to the lowerer's `import`/
// `pyimport` handling.
type ImportResult struct {
	Path   string
	Module *hir.Module
	Inline bool // true: the target is an ancestor of fromPath; no worker is spawned and Module is nil (the target's AST is not lowered at the import site)
	Err    error
}

// Driver is the shared build-time state one compilation run threads
// through every spawned worker (spec.md §4.8/§5). StdlibRoots is searched
// after the importer's own directory. Compile is the injected pipeline
// hook; group is the errgroup all workers are spawned on, so a root-level
// Wait() observes every worker's failure via the shared context.
type Driver struct {
	Cache       *module.Cache
	Promises    *PromiseTable
	StdlibRoots []string
	Compile     CompileFunc

	group   *errgroup.Group
	gctx    context.Context
	staleMu sync.Mutex
	stale   map[string]bool

	depMu      sync.Mutex
	dependents map[string][]string // resolved module path -> paths that import it

	chainMu sync.Mutex
	chains  map[string][]string // resolved module path -> ancestor chain (fromPath last) it was imported under

	// Progress, if set, receives one Event per state transition Import
	// drives a module through (spec.md §4.8's "spawn a worker thread"
	// lifecycle). Nil is the zero value and is always safe to use: every
	// emit call below checks it first.
	Progress ProgressSink
}

// NewDriver returns a Driver ready to import modules under ctx, limiting
// concurrently in-flight workers to jobs (GOMAXPROCS if jobs <= 0), the
// way the teacher's parallel.go bounds its errgroup with g.SetLimit.
func NewDriver(ctx context.Context, stdlibRoots []string, compile CompileFunc, jobs int) (*Driver, context.Context) {
	g, gctx := errgroup.WithContext(ctx)
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	g.SetLimit(jobs)
	return &Driver{
		Cache:       module.NewCache(),
		Promises:    NewPromiseTable(),
		StdlibRoots: stdlibRoots,
		Compile:     compile,
		group:       g,
		gctx:        gctx,
		stale:       make(map[string]bool),
		dependents:  make(map[string][]string),
		chains:      make(map[string][]string),
	}, gctx
}

// Stage names one step of a module's compilation lifecycle, reported
// through ProgressSink.
type Stage uint8

const (
	StageResolving Stage = iota
	StageCompiling
	StageDone
	StageFailed
)

// Event is one Stage transition for one module path, emitted by Import.
type Event struct {
	Path  string
	Stage Stage
	Err   error
}

// ProgressSink receives Import's lifecycle events. Implementations must not
// block: Import calls OnEvent inline on whichever goroutine reached that
// stage, so a slow sink would stall a compile worker.
type ProgressSink interface {
	OnEvent(Event)
}

// ChannelSink forwards events onto a channel, grounded on the teacher's
// buildpipeline.ChannelSink: a non-blocking send is not attempted, so the
// channel must be buffered (or drained) at least as fast as imports emit.
type ChannelSink struct {
	Ch chan<- Event
}

// OnEvent forwards ev to the channel, or drops it if no channel is set.
func (s ChannelSink) OnEvent(ev Event) {
	if s.Ch == nil {
		return
	}
	s.Ch <- ev
}

func (d *Driver) emit(ev Event) {
	if d.Progress != nil {
		d.Progress.OnEvent(ev)
	}
}

// ChainFor returns the ancestor chain (fromPath last) that path was first
// imported under, for a CompileFunc that needs to hand LowerFile the same
// chain convention Import itself uses. ok is false if path was never
// imported through this Driver (e.g. it is the build's own root file).
func (d *Driver) ChainFor(path string) (chain []string, ok bool) {
	d.chainMu.Lock()
	defer d.chainMu.Unlock()
	c, ok := d.chains[path]
	if !ok {
		return nil, false
	}
	out := make([]string, len(c))
	copy(out, c)
	return out, true
}

func (d *Driver) recordChain(path string, chain []string) {
	d.chainMu.Lock()
	defer d.chainMu.Unlock()
	if _, exists := d.chains[path]; exists {
		return
	}
	c := make([]string, len(chain)+1)
	copy(c, chain)
	c[len(chain)] = path
	d.chains[path] = c
}

// Wait blocks until every worker spawned through this Driver has
// returned, and returns the first error any of them reported (errgroup's
// usual fail-fast-via-context-cancellation semantics).
func (d *Driver) Wait() error {
	return d.group.Wait()
}

// Import resolves moduleName as seen from the file at fromPath and either
// folds it in inline (ancestor-cycle case) or spawns a worker to compile
// it, registering the spawn under fromPath so JoinChildren(fromPath) can
// later await it without risking the parent-deadlock spec.md §4.8 warns
// against. chain is the stack of normalized paths currently being
// imported, fromPath last; it is how step 3's ancestor check is performed
// without needing a whole-graph traversal.
func (d *Driver) Import(fromPath, moduleName string, chain []string) ImportResult {
	dir := filepath.Dir(fromPath)
	resolved, ok := Resolve(dir, d.StdlibRoots, moduleName)
	if !ok {
		return ImportResult{Err: fmt.Errorf("cannot resolve module %q from %q", moduleName, fromPath)}
	}

	for _, ancestor := range chain {
		if ancestor == resolved {
			// spec.md §4.8 step 3: `to` is already an ancestor of `from`.
			// Treat the dependency as an inline submodule instead of a
			// separate registered module.
			return ImportResult{Path: resolved, Inline: true}
		}
	}

	d.recordDependent(resolved, fromPath)

	if d.isStale(resolved) {
		d.clearStale(resolved)
		d.Cache.Remove(resolved)
		d.Promises.mu.Lock()
		delete(d.Promises.promises, resolved)
		d.Promises.mu.Unlock()
	}

	if started := d.Cache.Register(resolved); started {
		d.recordChain(resolved, chain)
		p, spawned := d.Promises.register(fromPath, resolved)
		if spawned {
			d.emit(Event{Path: resolved, Stage: StageResolving})
			d.group.Go(func() error {
				d.emit(Event{Path: resolved, Stage: StageCompiling})
				mod, err := d.Compile(d.gctx, resolved)
				d.Cache.Complete(resolved, mod, err)
				if err != nil {
					d.emit(Event{Path: resolved, Stage: StageFailed, Err: err})
				} else {
					d.emit(Event{Path: resolved, Stage: StageDone})
				}
				p.resolve(err)
				return err
			})
		}
	} else {
		// Lost the race (or a prior import already registered this path);
		// either way make sure fromPath can still join on it.
		d.Promises.register(fromPath, resolved)
	}

	if err := d.Promises.Wait(resolved); err != nil {
		return ImportResult{Path: resolved, Err: err}
	}
	entry, _ := d.Cache.Get(resolved)
	return ImportResult{Path: resolved, Module: entry.Ctx, Err: entry.Err}
}

// JoinChildren awaits every module fromPath itself spawned, directly or
// transitively, and never one of fromPath's own ancestors (spec.md §4.8
// "a child thread that must consult its parent ... calls
// promises.join_children(), which only awaits threads it itself spawned —
// never its parent — avoiding deadlock").
func (d *Driver) JoinChildren(fromPath string) error {
	return d.Promises.JoinChildren(fromPath)
}

// MarkStale flags path and, transitively, every module that imports it
// (tracked from Import's own resolution history) as needing a fresh
// compile (spec.md §4.8 "Cancellation": "marks descendants of a rename /
// reload as stale and clears their cached HIR/context. Subsequent resolve
// calls re-enter the pipeline."). It does not cancel any worker currently
// in flight; it only ensures the next Import for an affected path bypasses
// the cache.
func (d *Driver) MarkStale(path string) {
	d.staleMu.Lock()
	alreadyStale := d.stale[path]
	d.stale[path] = true
	d.staleMu.Unlock()
	if alreadyStale {
		return
	}
	for _, dependent := range d.dependentsOf(path) {
		d.MarkStale(dependent)
	}
}

func (d *Driver) isStale(path string) bool {
	d.staleMu.Lock()
	defer d.staleMu.Unlock()
	return d.stale[path]
}

func (d *Driver) clearStale(path string) {
	d.staleMu.Lock()
	defer d.staleMu.Unlock()
	delete(d.stale, path)
}

func (d *Driver) recordDependent(resolved, fromPath string) {
	d.depMu.Lock()
	defer d.depMu.Unlock()
	for _, existing := range d.dependents[resolved] {
		if existing == fromPath {
			return
		}
	}
	d.dependents[resolved] = append(d.dependents[resolved], fromPath)
}

func (d *Driver) dependentsOf(path string) []string {
	d.depMu.Lock()
	defer d.depMu.Unlock()
	out := make([]string, len(d.dependents[path]))
	copy(out, d.dependents[path])
	return out
}
