//go:build windows
// +build windows

package wintree

import mapset "github.com/deckarep/golang-set/v2"

// DedupSet is the set of directory paths already scheduled for a walk. It
// guarantees at-most-once visitation even if a reparse loop or duplicate
// push occurs (spec §3, §9 — reparse points get no special handling; this
// set is the only loop-prevention mechanism).
//
// Backed by [mapset.Set], which is thread-safe by construction via
// mapset.NewSet and whose Add reports whether the value was newly
// inserted — exactly the atomic-insert contract this type needs.
type DedupSet struct {
	seen mapset.Set[string]
}

// NewDedupSet creates an empty, walk-scoped DedupSet.
func NewDedupSet() *DedupSet {
	return &DedupSet{seen: mapset.NewSet[string]()}
}

// TryAdd inserts path if absent and reports whether it was newly inserted.
// A false return means the path was already scheduled and the caller must
// not re-enqueue it.
func (d *DedupSet) TryAdd(path string) bool {
	return d.seen.Add(path)
}

// Contains reports whether path has already been scheduled.
func (d *DedupSet) Contains(path string) bool {
	return d.seen.Contains(path)
}

// Len returns the number of distinct paths scheduled so far.
func (d *DedupSet) Len() int {
	return d.seen.Cardinality()
}
