//go:build windows
// +build windows

package wintree

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// fakeNode models one file or directory in an in-memory tree used to drive
// the Walker without touching real Win32 APIs. This is the interface-seam
// analogue of the teacher's iohooks.go: swap the leaf without touching
// engine logic.
type fakeNode struct {
	name     string
	isDir    bool
	children []*fakeNode
	owner    string
	acl      map[string]uint32
	// failOpen, if set, makes OpenDir return an empty iterator for this
	// directory, as the native backend does for a directory it cannot open
	// (the walk continues, this subtree yields no entries of its own
	// children, per spec §4.1/§7).
	failOpen bool
	// secErr, if non-nil, makes security resolution fail for this node
	// with the given error.
	secErr error
}

func dirNode(name string, children ...*fakeNode) *fakeNode {
	return &fakeNode{name: name, isDir: true, children: children}
}

func fileNode(name string) *fakeNode {
	return &fakeNode{name: name, owner: "BUILTIN\\Administrators", acl: map[string]uint32{
		"BUILTIN\\Administrators": rightsFullControl,
	}}
}

// fakeTree is a [dirBackend] + [securityBackend] over an in-memory
// fakeNode tree, keyed by the joined path from the root passed to the
// walk. Safe for concurrent use by multiple workers.
type fakeTree struct {
	mu    sync.Mutex
	byDir map[string]*fakeNode // dir path -> node
}

func newFakeTree(root string, top *fakeNode) *fakeTree {
	ft := &fakeTree{byDir: map[string]*fakeNode{}}
	ft.index(root, top)

	return ft
}

func (ft *fakeTree) index(path string, n *fakeNode) {
	if n.isDir {
		ft.byDir[path] = n

		for _, c := range n.children {
			ft.index(filepath.Join(path, c.name), c)
		}
	}
}

func (ft *fakeTree) OpenDir(path, _ string) (dirIterator, error) {
	ft.mu.Lock()
	n, ok := ft.byDir[path]
	ft.mu.Unlock()

	if !ok {
		return &fakeDirIter{}, nil
	}

	if n.failOpen {
		return &fakeDirIter{}, nil
	}

	children := make([]rawChildEntry, 0, len(n.children))

	for _, c := range n.children {
		attrs := uint32(0)
		if c.isDir {
			attrs = fileAttributeDirectory
		}

		children = append(children, rawChildEntry{name: c.name, attrs: attrs})
	}

	return &fakeDirIter{children: children}, nil
}

func (ft *fakeTree) nodeFor(path string) (*fakeNode, bool) {
	ft.mu.Lock()
	defer ft.mu.Unlock()

	if n, ok := ft.byDir[path]; ok {
		return n, true
	}

	// Files aren't indexed in byDir; look them up by scanning parent.
	parent, base := filepath.Split(path)
	parent = strings.TrimSuffix(parent, string(filepath.Separator))

	if n, ok := ft.byDir[parent]; ok {
		for _, c := range n.children {
			if c.name == base {
				return c, true
			}
		}
	}

	return nil, false
}

func (ft *fakeTree) ResolveOwner(path string, _ bool, cache *SidCache) (string, error) {
	n, ok := ft.nodeFor(path)
	if !ok {
		return "", classify("owner", path, errNotFound)
	}

	if n.secErr != nil {
		return "", classify("owner", path, n.secErr)
	}

	return n.owner, nil
}

func (ft *fakeTree) ResolveDACL(path string, _ bool, _ *SidCache) (map[string]uint32, error) {
	n, ok := ft.nodeFor(path)
	if !ok {
		return nil, classify("dacl", path, errNotFound)
	}

	if n.secErr != nil {
		return nil, classify("dacl", path, n.secErr)
	}

	return n.acl, nil
}

type fakeDirIter struct {
	children []rawChildEntry
	i        int
	closed   bool
}

func (it *fakeDirIter) Next() (rawChildEntry, bool, error) {
	if it.i >= len(it.children) {
		return rawChildEntry{}, false, nil
	}

	c := it.children[it.i]
	it.i++

	return c, true, nil
}

func (it *fakeDirIter) Close() error {
	it.closed = true

	return nil
}

var (
	_ dirBackend      = (*fakeTree)(nil)
	_ securityBackend = (*fakeTree)(nil)
)

// walkWithFake runs a walk against a fake tree and returns every entry.
// Test helper used by walker_test.go.
func walkWithFake(root string, tree *fakeTree, opts ...Option) []FileSystemEntry {
	return newFakeEntryStream(root, tree, opts...).All()
}

// pathsOf extracts and sorts every path from a slice of entries, for
// order-independent comparisons (spec §5: no ordering guarantees).
func pathsOf(entries []FileSystemEntry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Path)
	}

	sort.Strings(out)

	return out
}

func fmtEntries(entries []FileSystemEntry) string {
	var b strings.Builder
	for _, e := range entries {
		fmt.Fprintf(&b, "%s\n", RenderEntry(e))
	}

	return b.String()
}
