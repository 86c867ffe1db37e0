//go:build windows
// +build windows

package wintree

import (
	"errors"
	"testing"

	"golang.org/x/sys/windows"
)

func TestClassifyKindFromErrno(t *testing.T) {
	cases := []struct {
		errno windows.Errno
		want  ErrorKind
	}{
		{windows.ERROR_ACCESS_DENIED, Unauthorized},
		{windows.ERROR_FILENAME_EXCED_RANGE, PathTooLong},
		{windows.ERROR_FILE_NOT_FOUND, NotFound},
		{windows.ERROR_PATH_NOT_FOUND, NotFound},
		{windows.ERROR_INVALID_HANDLE, IoError},
	}

	for _, c := range cases {
		got := classifyKind(c.errno)
		if got != c.want {
			t.Errorf("classifyKind(%v) = %v, want %v", c.errno, got, c.want)
		}
	}
}

func TestClassifyKindFromSentinels(t *testing.T) {
	cases := []struct {
		err  error
		want ErrorKind
	}{
		{errNotFound, NotFound},
		{errUnauthorized, Unauthorized},
		{errPathTooLong, PathTooLong},
		{errors.New("mystery"), Unknown},
	}

	for _, c := range cases {
		got := classifyKind(c.err)
		if got != c.want {
			t.Errorf("classifyKind(%v) = %v, want %v", c.err, got, c.want)
		}
	}
}

func TestClassifyWrapsAndUnwraps(t *testing.T) {
	we := classify("owner", `C:\locked`, errUnauthorized)

	if we.Kind != Unauthorized {
		t.Errorf("Kind = %v, want Unauthorized", we.Kind)
	}

	if we.Path != `C:\locked` || we.Op != "owner" {
		t.Errorf("Path/Op = %q/%q", we.Path, we.Op)
	}

	if !errors.Is(we, errUnauthorized) {
		t.Errorf("errors.Is should unwrap to errUnauthorized")
	}

	if we.Error() == "" {
		t.Errorf("Error() should not be empty")
	}
}

func TestClassifyNilIsNil(t *testing.T) {
	if classify("owner", "x", nil) != nil {
		t.Errorf("classify with nil err should return nil")
	}
}

func TestSecurityErrorKindSurvivesReclassification(t *testing.T) {
	// SecurityError is constructed directly at the call site (both
	// resolution strategies exhausted), never via classifyKind's errno
	// switch. Any later reclassification (e.g. emit's asWalkError path)
	// must still see SecurityError, not fall back to Unknown.
	we := &WalkError{Kind: SecurityError, Path: `C:\locked`, Op: "owner", Err: errUnauthorized}

	if got := classifyKind(we); got != SecurityError {
		t.Errorf("classifyKind(%v) = %v, want SecurityError", we, got)
	}

	if we.Kind.String() != "SecurityError" {
		t.Errorf("Kind.String() = %q, want SecurityError", we.Kind.String())
	}
}
