//go:build windows
// +build windows

package wintree

import "testing"

func TestFileSystemEntryIsDir(t *testing.T) {
	dir := FileSystemEntry{Attributes: fileAttributeDirectory}
	if !dir.IsDir() {
		t.Errorf("expected IsDir() true for directory attribute")
	}

	file := FileSystemEntry{Attributes: 0}
	if file.IsDir() {
		t.Errorf("expected IsDir() false for plain file attribute")
	}
}

func TestRenderEntrySuccess(t *testing.T) {
	e := FileSystemEntry{
		Path:     `C:\data\a.txt`,
		Owner:    `DOMAIN\Alice`,
		ACL:      map[string]uint32{"DOMAIN\\Alice": rightsFullControl},
		Modified: true,
	}

	got := RenderEntry(e)
	want := `C:\data\a.txt | DOMAIN\Alice | 1 | true | `

	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestRenderEntryFailure(t *testing.T) {
	e := FileSystemEntry{
		Path:     `C:\data\gone.txt`,
		Modified: false,
		Error:    &WalkError{Kind: NotFound, Path: `C:\data\gone.txt`, Op: "owner"},
	}

	got := RenderEntry(e)

	want := `C:\data\gone.txt |  | 0 | false | owner C:\data\gone.txt: NotFound`
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestRenderACLFormat(t *testing.T) {
	acl := map[string]uint32{"DOMAIN\\Alice": rightsFullControl}

	got := RenderACL(acl)
	want := "DOMAIN\\Alice=FullControl"

	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestSearchForPredicates(t *testing.T) {
	if !SearchFiles.includesFiles() || SearchFiles.includesDirs() {
		t.Errorf("SearchFiles predicates wrong")
	}

	if SearchDirs.includesFiles() || !SearchDirs.includesDirs() {
		t.Errorf("SearchDirs predicates wrong")
	}

	if !SearchBoth.includesFiles() || !SearchBoth.includesDirs() {
		t.Errorf("SearchBoth predicates wrong")
	}
}
