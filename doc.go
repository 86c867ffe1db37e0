//go:build windows
// +build windows

// Package wintree provides fast, parallel directory tree enumeration with
// per-entry NTFS owner and DACL extraction.
//
// It walks a directory tree with a bounded worker pool, resolving each
// visited entry's owner principal and access-control list via the Win32
// security APIs (GetFileSecurity, GetNamedSecurityInfo). Enumeration and
// security resolution both continue past per-entry failures: neither a
// locked subtree nor an unresolvable SID aborts the walk. A security
// resolution failure is recorded inline on the affected [FileSystemEntry];
// a directory that cannot be opened contributes no children; an
// unresolvable SID appears in its string form.
//
// # Symlinks and reparse points
//
// Reparse points (symlinks, junctions, mount points) receive no special
// handling: they are enumerated like any other directory entry. The
// [DedupSet] visited-path guard is the walk's only loop-prevention
// mechanism.
//
// # Architecture
//
// [Enumerate] returns a lazy [EntryStream] backed by a pool of worker
// goroutines pulling from a shared LIFO work queue ([taskStack]). Each
// worker opens a directory via the platform [dirBackend], classifies its
// children, pushes subdirectories back onto the queue, and resolves
// security data for anything matching [Options.SearchFor] via the
// platform [securityBackend]. [EnumeratePaths] is the lightweight variant
// that skips security resolution entirely.
//
// # Cancellation
//
// A walk observes its [Options.Cancellation] context cooperatively: at
// task-pop and between children within a directory. [EntryStream.Close]
// cancels and waits (bounded) for outstanding workers to quiesce.
//
// # Platform
//
// This package is Windows-only: it has no meaning without NTFS ACLs and
// the Win32 security APIs, so every file in the package carries a
// "windows" build constraint rather than shipping a portable no-op stub.
package wintree
