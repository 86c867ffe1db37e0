//go:build windows
// +build windows

package wintree

import "sync"

// SidCache is a process-wide (or walk-scoped) mapping from a SID's string
// form to its resolved account name. Entries are add-only: a walk never
// evicts a SID once resolved, and a failed lookup memoizes the string SID
// itself as its own value so retries are O(1) (spec §3, §4.2).
//
// SidCache is safe for concurrent use and tolerates duplicate-insertion
// races: whichever goroutine's LoadOrStore wins, every caller observes the
// same final value for a given SID string.
type SidCache struct {
	names sync.Map // string(SID) -> string(account name or SID itself)
}

// NewSidCache creates an empty cache. A single instance may be shared
// across multiple walks via [WithSidCache], or left nil to let each walk
// allocate its own.
func NewSidCache() *SidCache {
	return &SidCache{}
}

// lookup returns the cached name for sidString and true if present.
func (c *SidCache) lookup(sidString string) (string, bool) {
	v, ok := c.names.Load(sidString)
	if !ok {
		return "", false
	}

	return v.(string), true
}

// store memoizes name for sidString. If another goroutine already stored a
// value for the same key, that value wins and is returned instead (both
// are valid resolutions of the same SID, so this keeps the cache
// consistent under races without needing a lock).
func (c *SidCache) store(sidString, name string) string {
	actual, _ := c.names.LoadOrStore(sidString, name)

	return actual.(string)
}

// Len returns the number of distinct SIDs resolved so far. Useful for
// diagnostics; not part of the resolution hot path.
func (c *SidCache) Len() int {
	n := 0

	c.names.Range(func(_, _ any) bool {
		n++

		return true
	})

	return n
}
