//go:build windows
// +build windows

package wintree

import (
	"fmt"
	"strings"
)

// fileAttributeDirectory mirrors windows.FILE_ATTRIBUTE_DIRECTORY. Declared
// locally so entry.go (and its tests) don't need to import golang.org/x/sys
// just to test attribute-bit logic against the fake backend.
const fileAttributeDirectory = 0x10

// SearchFor selects which entry kinds a walk emits.
type SearchFor uint8

const (
	// SearchFiles emits regular files only. This is the default.
	SearchFiles SearchFor = iota
	// SearchDirs emits directories only.
	SearchDirs
	// SearchBoth emits both files and directories.
	SearchBoth
)

func (s SearchFor) includesFiles() bool { return s == SearchFiles || s == SearchBoth }
func (s SearchFor) includesDirs() bool  { return s == SearchDirs || s == SearchBoth }

// FileSystemEntry is the immutable record produced for every visited path.
//
// Invariants (spec §3): Path is non-empty and whitespace-free. If Error is
// empty then Modified is true. If Modified is false then ACL is empty and
// Owner is empty.
type FileSystemEntry struct {
	// Path is the absolute path of the entry.
	Path string
	// Owner is the resolved owner principal (DOMAIN\NAME, a well-known name,
	// or the string form of the SID if translation failed). Empty iff owner
	// resolution was disabled or the entry's security resolution failed.
	Owner string
	// Attributes is the raw Win32 attribute bitset as reported by
	// FindFirstFile/FindNextFile.
	Attributes uint32
	// ACL maps identity string to a rights bitmask. Duplicate identities
	// coalesce; the last writer wins (spec §4.2).
	ACL map[string]uint32
	// Modified is true iff security data was resolved successfully.
	Modified bool
	// Error is the classified error, or nil if resolution succeeded.
	Error *WalkError
}

// IsDir reports whether the entry is a directory, based on Attributes.
func (e FileSystemEntry) IsDir() bool {
	return e.Attributes&fileAttributeDirectory != 0
}

// RenderEntry formats an entry using the canonical external form from
// spec §6: `Path | Owner | ACL-count | Modified | Error`. Only the number
// of ACL entries appears here; [RenderACL] renders the entries themselves.
// Empty fields render as empty strings.
func RenderEntry(e FileSystemEntry) string {
	errStr := ""
	if e.Error != nil {
		errStr = e.Error.Error()
	}

	return fmt.Sprintf("%s | %s | %d | %t | %s",
		e.Path, e.Owner, len(e.ACL), e.Modified, errStr)
}

// RenderACL formats the ACL map as `identity=rights_name_set` entries
// joined by ';'. Iteration order is not guaranteed by [FileSystemEntry.ACL]
// (it is a map); callers that need a stable order should sort the result.
func RenderACL(acl map[string]uint32) string {
	parts := make([]string, 0, len(acl))
	for identity, mask := range acl {
		parts = append(parts, fmt.Sprintf("%s=%s", identity, RenderRights(mask)))
	}

	return strings.Join(parts, ";")
}

// walkTask is the internal work-queue element: a directory path paired
// with its depth relative to the walk root. Lives only inside the work
// queue; consumed exactly once by a worker.
type walkTask struct {
	path  string
	depth int
}
