//go:build windows
// +build windows

package wintree

import "testing"

func TestRenderRightsTable(t *testing.T) {
	cases := []struct {
		name string
		mask uint32
		want string
	}{
		{"none", 0, "None"},
		{"full control", rightsFullControl, "FullControl"},
		{"modify", rightsModify, "Modify"},
		{"read and execute", rightsReadAndExecute, "ReadAndExecute"},
		{"read only", rightsRead, "Read"},
		{"write only", rightsWrite, "Write"},
		{"delete only", rightDelete, "Delete"},
		{"unrecognized bit residue", 0x40000000, "0x40000000"},
		{"read plus unrecognized bit", rightsRead | 0x40000000, "Read,0x40000000"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := RenderRights(c.mask)
			if got != c.want {
				t.Errorf("RenderRights(0x%x) = %q, want %q", c.mask, got, c.want)
			}
		})
	}
}

func TestRenderRightsPicksBroadestMatch(t *testing.T) {
	// FullControl's bits fully contain Modify's; a FullControl mask must
	// never render as "Modify,<residue>".
	got := RenderRights(rightsFullControl)
	if got != "FullControl" {
		t.Errorf("got %q, want FullControl", got)
	}
}
