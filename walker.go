//go:build windows
// +build windows

package wintree

import (
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/bali3355/Fast-Folder-Exploring-with-Security/wtlog"
)

// walkerContext holds everything a worker needs, constructed once per
// [Enumerate] call and passed by reference to every worker. This replaces
// the "global mutable traversal state" pattern flagged in spec §9: no
// process-wide state exists except the optionally-shared [SidCache], which
// is explicitly scoped via [WithSidCache].
type walkerContext struct {
	opts    Options
	dirs    dirBackend
	sec     securityBackend
	dedup   *DedupSet
	log     wtlog.Logger
	out     chan FileSystemEntry
	stats   *walkStats
	active  atomic.Int64 // workers currently holding a task
	pending atomic.Int64 // tasks pushed but not yet fully processed
	queue   *taskStack
	wg      sync.WaitGroup
}

// walkStats backs [EntryStream.Stats] (SUPPLEMENTED FEATURES in
// SPEC_FULL.md), mirroring the teacher's Watcher.Stats() shape.
type walkStats struct {
	dirsVisited  atomic.Uint64
	filesVisited atomic.Uint64
	entries      atomic.Uint64
	errors       atomic.Uint64
}

// EnumerateStats is a point-in-time snapshot of walk activity. Safe to
// read concurrently with an in-progress walk via [EntryStream.Stats].
type EnumerateStats struct {
	DirsVisited  uint64
	FilesVisited uint64
	Entries      uint64
	Errors       uint64
}

func (s *walkStats) snapshot() EnumerateStats {
	return EnumerateStats{
		DirsVisited:  s.dirsVisited.Load(),
		FilesVisited: s.filesVisited.Load(),
		Entries:      s.entries.Load(),
		Errors:       s.errors.Load(),
	}
}

// taskStack is the concurrent work queue backing the Walker. It is a LIFO
// stack (spec §4.3 permits either LIFO or FIFO; LIFO bounds memory better
// for deep trees) guarded by a mutex plus a condition variable so pop can
// block until work appears or the walk quiesces.
type taskStack struct {
	mu     sync.Mutex
	cond   sync.Cond
	items  []walkTask
	closed bool
}

func newTaskStack() *taskStack {
	s := &taskStack{}
	s.cond.L = &s.mu

	return s
}

func (s *taskStack) push(t walkTask) {
	s.mu.Lock()
	s.items = append(s.items, t)
	s.mu.Unlock()
	s.cond.Signal()
}

// pop blocks until a task is available or the stack is closed (walk done).
// The ok=false return means: stop looking for work.
func (s *taskStack) pop() (walkTask, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for len(s.items) == 0 && !s.closed {
		s.cond.Wait()
	}

	if len(s.items) == 0 {
		return walkTask{}, false
	}

	last := len(s.items) - 1
	t := s.items[last]
	s.items = s.items[:last]

	return t, true
}

func (s *taskStack) close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	s.cond.Broadcast()
}

// newWalkerContext seeds root and prepares the coordination primitives.
func newWalkerContext(opts Options) *walkerContext {
	wc := &walkerContext{
		opts:  opts,
		dirs:  winDirBackend{},
		sec:   winSecurityBackend{},
		dedup: NewDedupSet(),
		log:   opts.Log,
		out:   make(chan FileSystemEntry),
		stats: &walkStats{},
		queue: newTaskStack(),
	}

	return wc
}

// pushDir enqueues a directory task, subject to depth cap and dedup.
// Callers do not check max_depth first: a task deeper than the cap is
// dropped here, so it's safe to call from anywhere.
func (wc *walkerContext) pushDir(path string, depth int) {
	if wc.opts.MaxDepth >= 0 && depth > wc.opts.MaxDepth {
		return
	}

	if !wc.dedup.TryAdd(path) {
		return
	}

	wc.pending.Add(1)
	wc.queue.push(walkTask{path: path, depth: depth})
}

// maybeQuiesce closes the queue once no work remains and no worker is
// active. This is the single-consistent-state check spec §4.3 requires:
// "empty queue AND active-workers==0" must be observed together, or a
// worker mid-enumeration about to push subdirectories would cause a
// premature exit. pending (tasks pushed minus tasks completed) is the
// value that must hit zero, not just the visible queue length, because a
// worker holding a task hasn't decremented pending yet.
func (wc *walkerContext) maybeQuiesce() {
	if wc.pending.Load() == 0 {
		wc.log.Debug("work queue quiesced", "dirs_visited", wc.stats.dirsVisited.Load())
		wc.queue.close()
	}
}

// runWorker is one traversal worker's loop (spec §4.3).
func (wc *walkerContext) runWorker() {
	defer wc.wg.Done()

	for {
		if wc.opts.Cancellation.Err() != nil {
			return
		}

		task, ok := wc.queue.pop()
		if !ok {
			return
		}

		wc.active.Add(1)
		wc.processTask(task)
		wc.pending.Add(-1)
		wc.active.Add(-1)

		wc.maybeQuiesce()
	}
}

// processTask opens task.path, classifies each child, enqueues
// subdirectories, and emits entries for anything matching SearchFor.
func (wc *walkerContext) processTask(task walkTask) {
	wc.log.Debug("visiting directory", "path", task.path, "depth", task.depth)

	wc.stats.dirsVisited.Add(1)

	it, err := wc.dirs.OpenDir(task.path, wc.opts.SearchPattern)
	if err != nil {
		// An OpenDir error is silent to the caller (spec §4.1, §7): the
		// directory contributes nothing beyond what its parent already
		// emitted for it, and it gets a log line. The native backend does
		// not reach this branch: it reports a directory it cannot open as
		// an empty sequence with no error, which is not logged.
		wc.log.Warn("failed to open directory", "path", task.path, "err", err)

		return
	}

	defer func() { _ = it.Close() }()

	for {
		if wc.opts.Cancellation.Err() != nil {
			return
		}

		child, ok, err := it.Next()
		if err != nil || !ok {
			return
		}

		wc.handleChild(task, child)
	}
}

func (wc *walkerContext) handleChild(task walkTask, child rawChildEntry) {
	full := filepath.Join(task.path, child.name)
	isDir := child.attrs&fileAttributeDirectory != 0

	if isDir {
		wc.pushDir(full, task.depth+1)

		if wc.opts.SearchFor.includesDirs() {
			wc.emit(full, child.attrs)
		}

		return
	}

	wc.stats.filesVisited.Add(1)

	if wc.opts.SearchFor.includesFiles() {
		wc.emit(full, child.attrs)
	}
}

// emit resolves security information for full and sends the resulting
// entry to the output channel. Per spec §4.2 and §7, a resolution failure
// never drops the entry: it is emitted with Modified=false and a
// classified Error instead.
func (wc *walkerContext) emit(full string, attrs uint32) {
	resolver := &SecurityResolver{backend: wc.sec}

	owner, aclMap, err := resolver.Resolve(full, wc.opts)

	entry := FileSystemEntry{
		Path:       full,
		Attributes: attrs,
	}

	if err != nil {
		wc.stats.errors.Add(1)

		var we *WalkError
		if ok := asWalkError(err, &we); ok {
			entry.Error = we
		} else {
			entry.Error = &WalkError{Kind: Unknown, Path: full, Op: "resolve", Err: err}
		}

		wc.log.Warn("security resolution failed",
			"path", full, "op", entry.Error.Op, "kind", entry.Error.Kind.String())

		entry.Modified = false
	} else {
		entry.Owner = owner
		entry.ACL = aclMap
		entry.Modified = true
	}

	wc.stats.entries.Add(1)

	select {
	case wc.out <- entry:
	case <-wc.opts.Cancellation.Done():
	}
}

func asWalkError(err error, target **WalkError) bool {
	we, ok := err.(*WalkError)
	if !ok {
		return false
	}

	*target = we

	return true
}

// run seeds root, starts opts.Workers workers, and blocks until the walk
// is fully quiesced or canceled. It closes wc.out exactly once when done.
func (wc *walkerContext) run(root string) {
	defer close(wc.out)

	wc.log.Info("walk starting", "root", root, "workers", wc.opts.Workers, "search_for", wc.opts.SearchFor)

	wc.pushDir(root, 0)
	wc.maybeQuiesce()

	wc.wg.Add(wc.opts.Workers)
	for i := 0; i < wc.opts.Workers; i++ {
		go wc.runWorker()
	}

	done := make(chan struct{})
	go func() {
		wc.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		stats := wc.stats.snapshot()
		wc.log.Info("walk complete", "root", root,
			"dirs_visited", stats.DirsVisited, "files_visited", stats.FilesVisited,
			"entries", stats.Entries, "errors", stats.Errors)
	case <-wc.opts.Cancellation.Done():
		wc.log.Info("walk canceled", "root", root)

		// Unblock any workers parked in queue.pop and let them observe
		// cancellation on their next loop check.
		wc.queue.close()
		<-done
	}
}
