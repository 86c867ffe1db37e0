//go:build windows
// +build windows

package wintree

import (
	"context"
	"sync"
	"time"
)

// closeQuiesceTimeout bounds how long [EntryStream.Close] waits for
// workers to quiesce after cancellation, per spec §4.4.
const closeQuiesceTimeout = 30 * time.Second

// EntryStream presents a Walker's output as a pull-based, non-restartable
// lazy sequence (spec §4.4). It bridges the walker's output channel to
// pull-based consumption with cancellation.
type EntryStream struct {
	wc     *walkerContext
	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

// newEntryStream starts the walk in a background goroutine and returns a
// stream the caller can pull from.
func newEntryStream(root string, opts Options) *EntryStream {
	ctx, cancel := context.WithCancel(opts.Cancellation)
	opts.Cancellation = ctx

	wc := newWalkerContext(opts)

	es := &EntryStream{
		wc:     wc,
		cancel: cancel,
		done:   make(chan struct{}),
	}

	go func() {
		defer close(es.done)
		wc.run(root)
	}()

	return es
}

// Next blocks until an entry is available, the walk completes, or
// cancellation is observed. ok=false means end-of-stream: there is nothing
// more to read, ever (the stream is non-restartable).
func (es *EntryStream) Next() (FileSystemEntry, bool) {
	entry, ok := <-es.wc.out

	return entry, ok
}

// All drains the remaining stream into a slice. Intended for tests and
// small trees; large trees should use [EntryStream.Next] to avoid holding
// every entry in memory at once.
func (es *EntryStream) All() []FileSystemEntry {
	var out []FileSystemEntry

	for {
		entry, ok := es.Next()
		if !ok {
			return out
		}

		out = append(out, entry)
	}
}

// Stats returns a snapshot of walk activity counters, safe to call while
// the walk is still in progress.
func (es *EntryStream) Stats() EnumerateStats {
	return es.wc.stats.snapshot()
}

// Close triggers cancellation, waits up to 30s for workers to quiesce, and
// releases resources (spec §4.4). Safe to call multiple times and safe to
// call even after the stream has already reached end-of-stream naturally.
func (es *EntryStream) Close() {
	es.once.Do(func() {
		es.cancel()

		select {
		case <-es.done:
		case <-time.After(closeQuiesceTimeout):
			es.wc.log.Warn("timed out waiting for workers to quiesce on close")
		}

		// Drain any entries left in the channel so the producer goroutine,
		// if still finishing up, doesn't block forever sending to a
		// consumer that has stopped reading.
		go func() {
			for range es.wc.out {
			}
		}()
	})
}
