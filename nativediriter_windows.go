//go:build windows
// +build windows

package wintree

import (
	"path/filepath"
	"strings"

	"golang.org/x/sys/windows"
)

// NativeDirIter wraps the Win32 find-first/find-next handle lifecycle into
// a lazy, single-use sequence of raw directory entries for one directory
// (spec §4.1). A NativeDirIter owns exactly one find-handle; the handle
// MUST be closed on every exit path, which is why every constructor of
// this type funnels through openNativeDirIter and every caller defers Close.
type NativeDirIter struct {
	handle  windows.Handle
	pattern *windows.Win32finddata
	done    bool
	started bool
	closed  bool
}

// winDirBackend is the production [dirBackend], backed by NativeDirIter.
type winDirBackend struct{}

func (winDirBackend) OpenDir(path, pattern string) (dirIterator, error) {
	return openNativeDirIter(path, pattern)
}

// openNativeDirIter opens a find-handle on dir joined with pattern. Per
// spec §4.1, an invalid handle at open time (unreadable/nonexistent
// directory) yields an empty sequence, not an error.
func openNativeDirIter(dir, pattern string) (*NativeDirIter, error) {
	if pattern == "" {
		pattern = "*"
	}

	searchPath := filepath.Join(dir, pattern)

	pathPtr, err := windows.UTF16PtrFromString(searchPath)
	if err != nil {
		return &NativeDirIter{done: true}, nil
	}

	var data windows.Win32finddata

	handle, err := windows.FindFirstFile(pathPtr, &data)
	if err != nil {
		// Silent: contributes nothing, per spec §4.1 and §7.
		return &NativeDirIter{done: true}, nil
	}

	return &NativeDirIter{handle: handle, pattern: &data, started: false}, nil
}

// Next returns the next filtered child, or ok=false at end of sequence.
// "." / ".." and case-insensitive "Thumbs.db" are always filtered here so
// every caller of NativeDirIter gets the same policy (spec §4.1, and the
// unification noted as an open question in spec §9).
func (it *NativeDirIter) Next() (rawChildEntry, bool, error) {
	for {
		if it.done {
			return rawChildEntry{}, false, nil
		}

		var data windows.Win32finddata

		if !it.started {
			it.started = true
			data = *it.pattern
		} else {
			err := windows.FindNextFile(it.handle, &data)
			if err != nil {
				// A failed find-next terminates the sequence cleanly; it is
				// not surfaced through this component (spec §4.1).
				it.done = true

				return rawChildEntry{}, false, nil
			}
		}

		name := windows.UTF16ToString(data.FileName[:])

		if isFilteredChildName(name) {
			continue
		}

		return rawChildEntry{name: name, attrs: data.FileAttributes}, true, nil
	}
}

// isFilteredChildName reports whether name is never surfaced as a raw
// child, regardless of backend: "." / ".." (find-first/find-next always
// yield these) and Thumbs.db, matched case-insensitively since Windows
// filenames are case-preserving but not case-sensitive.
func isFilteredChildName(name string) bool {
	if name == "." || name == ".." {
		return true
	}

	return strings.EqualFold(name, "Thumbs.db")
}

// Close releases the find-handle. Safe to call more than once.
func (it *NativeDirIter) Close() error {
	if it.closed || it.handle == 0 || it.handle == windows.InvalidHandle {
		it.closed = true

		return nil
	}

	it.closed = true

	return windows.FindClose(it.handle)
}
