//go:build windows
// +build windows

package wintree

import (
	"context"
	"errors"
	"strings"
)

// ErrEmptyRoot is a walk-fatal error (spec §7 tier 1): the root path
// argument is empty or whitespace. It is the only root check made; a root
// that does not exist or cannot be opened is not reported as an error, and
// its walk yields no entries.
var ErrEmptyRoot = errors.New("wintree: root path is empty or whitespace")

// Enumerate walks root and returns a lazy [EntryStream] of
// [FileSystemEntry] values. This is the primary API (spec §6).
//
// enumerate is synchronous only for validating root; the walk itself runs
// in background goroutines and is consumed by pulling from the returned
// stream.
func Enumerate(root string, opts ...Option) (*EntryStream, error) {
	if strings.TrimSpace(root) == "" {
		return nil, ErrEmptyRoot
	}

	cfg := applyOptions(opts)

	return newEntryStream(root, cfg), nil
}

// EnumeratePaths is the lightweight variant that skips security resolution
// entirely (spec §6). It is equivalent to Enumerate with ResolveOwner
// disabled and DACL extraction skipped, exposed as a plain path sequence
// instead of full [FileSystemEntry] records.
func EnumeratePaths(root string, opts ...Option) (*PathStream, error) {
	if strings.TrimSpace(root) == "" {
		return nil, ErrEmptyRoot
	}

	cfg := applyOptions(opts)
	cfg.ResolveOwner = false

	ctx, cancel := context.WithCancel(cfg.Cancellation)
	cfg.Cancellation = ctx

	// EnumeratePaths never resolves DACLs either; wrap the walker with a
	// no-op security backend so processTask's emit() path costs nothing
	// beyond the directory scan itself.
	wc := newWalkerContext(cfg)
	wc.sec = noopSecurityBackend{}

	es := &EntryStream{
		wc:     wc,
		cancel: cancel,
		done:   make(chan struct{}),
	}

	go func() {
		defer close(es.done)
		wc.run(root)
	}()

	return &PathStream{es: es}, nil
}

// PathStream is [EnumeratePaths]'s lightweight, security-free counterpart
// to [EntryStream].
type PathStream struct {
	es *EntryStream
}

// Next returns the next path, or ok=false at end-of-stream.
func (ps *PathStream) Next() (string, bool) {
	entry, ok := ps.es.Next()
	if !ok {
		return "", false
	}

	return entry.Path, true
}

// All drains the remaining stream into a slice of paths.
func (ps *PathStream) All() []string {
	var out []string

	for {
		p, ok := ps.Next()
		if !ok {
			return out
		}

		out = append(out, p)
	}
}

// Close releases resources; see [EntryStream.Close].
func (ps *PathStream) Close() {
	ps.es.Close()
}

// noopSecurityBackend backs [EnumeratePaths]: it never touches the OS
// security APIs, so a pure directory listing never pays for ACL/owner
// resolution it doesn't need.
type noopSecurityBackend struct{}

func (noopSecurityBackend) ResolveOwner(string, bool, *SidCache) (string, error) {
	return "", nil
}

func (noopSecurityBackend) ResolveDACL(string, bool, *SidCache) (map[string]uint32, error) {
	return nil, nil
}
