//go:build windows
// +build windows

package wintree

import (
	"errors"
	"fmt"

	"golang.org/x/sys/windows"
)

// ErrorKind classifies a per-entry failure. Per-entry failures are data, not
// control flow: the walk never aborts because one path could not be
// resolved.
type ErrorKind uint8

const (
	// Unknown covers anything that doesn't fit the other kinds.
	Unknown ErrorKind = iota
	// Unauthorized indicates the caller lacks rights to read ACL/owner data.
	Unauthorized
	// PathTooLong indicates a path exceeded the OS limit.
	PathTooLong
	// NotFound indicates the file or directory disappeared between
	// enumeration and the security call.
	NotFound
	// IoError indicates a transient or unclassified OS I/O failure.
	IoError
	// SecurityError indicates a native security call failed. For owner
	// lookup, a managed fallback is attempted once before this kind is
	// surfaced; for DACL lookup, it is surfaced when a descriptor was read
	// but none of its ACEs could be.
	SecurityError
)

func (k ErrorKind) String() string {
	switch k {
	case Unauthorized:
		return "Unauthorized"
	case PathTooLong:
		return "PathTooLong"
	case NotFound:
		return "NotFound"
	case IoError:
		return "IoError"
	case SecurityError:
		return "SecurityError"
	default:
		return "Unknown"
	}
}

// WalkError is the classified error attached to a [FileSystemEntry] when
// security resolution fails. Its presence never aborts the walk; it is
// carried inline on the entry instead.
type WalkError struct {
	// Kind is the error classification (see [ErrorKind]).
	Kind ErrorKind
	// Path is the path the failure occurred on.
	Path string
	// Op is the operation that failed: "owner", "dacl", or "resolve".
	Op string
	// Err is the underlying error, if any.
	Err error
}

func (e *WalkError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s %s: %s: %v", e.Op, e.Path, e.Kind, e.Err)
	}

	return fmt.Sprintf("%s %s: %s", e.Op, e.Path, e.Kind)
}

func (e *WalkError) Unwrap() error {
	return e.Err
}

// classify maps a raw error observed while resolving security information
// to a [WalkError]. This is the single place that translates platform error
// codes into the taxonomy from spec §4.2; callers elsewhere in the package
// never map a [windows.Errno] to an [ErrorKind] themselves.
func classify(op, path string, err error) *WalkError {
	if err == nil {
		return nil
	}

	return &WalkError{Kind: classifyKind(err), Path: path, Op: op, Err: err}
}

// classifyKind maps an OS or fake-backend error to an [ErrorKind].
//
// The fake test backend (fakebackend_test.go) returns the errXxx sentinels
// below directly, so this function recognizes those in addition to real
// windows.Errno values.
func classifyKind(err error) ErrorKind {
	var errno windows.Errno
	if errors.As(err, &errno) {
		switch errno {
		case windows.ERROR_ACCESS_DENIED:
			return Unauthorized
		case windows.ERROR_FILENAME_EXCED_RANGE:
			return PathTooLong
		case windows.ERROR_FILE_NOT_FOUND, windows.ERROR_PATH_NOT_FOUND:
			return NotFound
		}

		return IoError
	}

	var we *WalkError
	if errors.As(err, &we) {
		return we.Kind
	}

	switch {
	case errors.Is(err, errNotFound):
		return NotFound
	case errors.Is(err, errUnauthorized):
		return Unauthorized
	case errors.Is(err, errPathTooLong):
		return PathTooLong
	default:
		return Unknown
	}
}

// Sentinel errors the fake test backend returns so classifyKind can
// recognize them without needing real windows.Errno values.
var (
	errNotFound     = errors.New("not found")
	errUnauthorized = errors.New("access denied")
	errPathTooLong  = errors.New("path too long")
)
