//go:build windows
// +build windows

package wintree

import (
	"errors"
	"fmt"
	"unsafe"

	acl "github.com/hectane/go-acl/api"
	"golang.org/x/sys/windows"
)

// SecurityResolver extracts owner and DACL information for a path,
// translating SIDs to account names through a shared [SidCache] (spec
// §4.2). It is stateless beyond the cache; callers may share one resolver
// (or none — the package-level functions below are its whole surface)
// across goroutines.
type SecurityResolver struct {
	backend securityBackend
}

// NewSecurityResolver creates a resolver backed by the real Win32 calls.
func NewSecurityResolver() *SecurityResolver {
	return &SecurityResolver{backend: winSecurityBackend{}}
}

// Resolve implements spec §4.2's resolve(path, is_directory, options)
// operation. ACL extraction always runs; owner extraction is skipped when
// opts.ResolveOwner is false.
func (r *SecurityResolver) Resolve(path string, opts Options) (owner string, aclMap map[string]uint32, err error) {
	if opts.ResolveOwner {
		owner, err = r.backend.ResolveOwner(path, opts.UseNativeOwner, opts.SidCache)
		if err != nil {
			return "", nil, err
		}
	}

	aclMap, err = r.backend.ResolveDACL(path, opts.IncludeInherited, opts.SidCache)
	if err != nil {
		return "", nil, err
	}

	return owner, aclMap, nil
}

// winSecurityBackend is the production [securityBackend].
type winSecurityBackend struct{}

// inheritedACEFlag mirrors winnt.h's INHERITED_ACE.
const inheritedACEFlag = 0x10

// accessAllowedACEType / accessDeniedACEType mirror winnt.h's
// ACCESS_ALLOWED_ACE_TYPE / ACCESS_DENIED_ACE_TYPE. Both carry a mask in
// the same struct layout, so both are read the same way; spec §4.2 treats
// the ACL map as "which identities appear at all", not allow/deny
// semantics, so no distinction is made here beyond that both are ACEs
// worth recording.
const (
	accessAllowedACEType = 0
	accessDeniedACEType  = 1
)

// aceHeader mirrors winnt.h's ACE_HEADER.
type aceHeader struct {
	AceType  byte
	AceFlags byte
	AceSize  uint16
}

// accessACE mirrors the common layout shared by ACCESS_ALLOWED_ACE and
// ACCESS_DENIED_ACE: a header, a mask, and a SID starting at SidStart.
type accessACE struct {
	Header   aceHeader
	Mask     uint32
	SidStart uint32
}

// ResolveOwner implements the two-path owner lookup from spec §4.2: a
// native GetFileSecurity path (default) and a managed fallback using
// hectane/go-acl's high-level GetNamedSecurityInfo wrapper, used either
// because UseNativeOwner is false or because the native call failed.
//
// If UseNativeOwner is false, only the managed path is attempted, and its
// error (if any) is classified normally. If both the native path and the
// managed fallback are attempted and both fail, the failure is surfaced as
// SecurityError (spec §4.2, §7): a security-subsystem failure, not a plain
// single-strategy not-found/access-denied result.
func (winSecurityBackend) ResolveOwner(path string, native bool, cache *SidCache) (string, error) {
	if !native {
		owner, err := resolveOwnerManaged(path, cache)
		if err != nil {
			return "", classify("owner", path, err)
		}

		return owner, nil
	}

	owner, nativeErr := resolveOwnerNative(path, cache)
	if nativeErr == nil {
		return owner, nil
	}

	// Fall back to the managed path once (spec §4.2, §7).
	owner, managedErr := resolveOwnerManaged(path, cache)
	if managedErr == nil {
		return owner, nil
	}

	return "", &WalkError{Kind: SecurityError, Path: path, Op: "owner", Err: managedErr}
}

// resolveOwnerNative fetches OWNER_SECURITY_INFORMATION via
// GetFileSecurity, extracts the owner SID, and translates it. Returns the
// raw underlying error, unclassified: ResolveOwner needs to see both this
// and the managed attempt before deciding a final [ErrorKind].
func resolveOwnerNative(path string, cache *SidCache) (string, error) {
	sd, err := getFileSecurityDescriptor(path, windows.OWNER_SECURITY_INFORMATION)
	if err != nil {
		return "", err
	}

	sidPtr, _, err := sd.Owner()
	if err != nil {
		return "", err
	}

	return translateSID(sidPtr, cache), nil
}

// resolveOwnerManaged is the "managed path" from spec §4.2: it uses
// hectane/go-acl's GetNamedSecurityInfo, a higher-level wrapper around the
// same Win32 call family, as a distinct code path from the raw
// GetFileSecurity call above. Returns the raw underlying error, unclassified
// (see resolveOwnerNative).
func resolveOwnerManaged(path string, cache *SidCache) (string, error) {
	var (
		owner   *windows.SID
		secDesc windows.Handle
	)

	err := acl.GetNamedSecurityInfo(
		path,
		acl.SE_FILE_OBJECT,
		acl.OWNER_SECURITY_INFORMATION,
		&owner,
		nil,
		nil,
		nil,
		&secDesc,
	)
	if err != nil {
		return "", err
	}

	defer windows.LocalFree(secDesc)

	if owner == nil {
		return "", errors.New("no owner in security descriptor")
	}

	return translateSID(owner, cache), nil
}

// ResolveDACL fetches DACL_SECURITY_INFORMATION only (no owner bits) and
// walks each ACE, coalescing by identity string with last-writer-wins
// semantics (spec §4.2).
func (winSecurityBackend) ResolveDACL(path string, includeInherited bool, cache *SidCache) (map[string]uint32, error) {
	sd, err := getFileSecurityDescriptor(path, windows.DACL_SECURITY_INFORMATION)
	if err != nil {
		return nil, classify("dacl", path, err)
	}

	daclPtr, _, err := sd.DACL()
	if err != nil {
		return nil, classify("dacl", path, err)
	}

	result := make(map[string]uint32)

	if daclPtr == nil {
		return result, nil
	}

	count := int(aclEntryCount(daclPtr))
	if count == 0 {
		return result, nil
	}

	aceFailures := 0

	for i := 0; i < count; i++ {
		var acePtr *accessACE

		if err := windows.GetAce(daclPtr, uint32(i), (**windows.ACCESS_ALLOWED_ACE)(unsafe.Pointer(&acePtr))); err != nil {
			aceFailures++
			continue
		}

		if acePtr.Header.AceType != accessAllowedACEType && acePtr.Header.AceType != accessDeniedACEType {
			continue
		}

		if !includeInherited && acePtr.Header.AceFlags&inheritedACEFlag != 0 {
			continue
		}

		sidPtr := (*windows.SID)(unsafe.Pointer(&acePtr.SidStart))
		identity := translateSID(sidPtr, cache)

		// Last writer wins for a given identity, per spec §4.2.
		result[identity] = acePtr.Mask
	}

	if aceFailures == count {
		// The descriptor itself was retrieved successfully, but not a
		// single ACE in it could be read: a malformed or unsupported DACL,
		// not a plain access-denied/not-found on the surrounding path
		// (spec §4.2, §7's SecurityError kind).
		return nil, &WalkError{
			Kind: SecurityError,
			Path: path,
			Op:   "dacl",
			Err:  fmt.Errorf("GetAce failed for all %d entries", count),
		}
	}

	return result, nil
}

// aclEntryCount reads the ACE count out of the ACL header. golang.org/x/sys
// exposes ACL as an opaque struct for use with GetAce/AddAce; the entry
// count lives at a fixed offset matching winnt.h's ACL layout
// (AclRevision, Sbz1, AclSize, AceCount, Sbz2).
func aclEntryCount(a *windows.ACL) uint16 {
	type aclHeader struct {
		aclRevision byte
		sbz1        byte
		aclSize     uint16
		aceCount    uint16
		sbz2        uint16
	}

	return (*aclHeader)(unsafe.Pointer(a)).aceCount
}

// getFileSecurityDescriptor fetches a security descriptor for path via
// GetFileSecurity, using the size-probe-then-resolve idiom spec §4.2
// mandates for translate_sid's LookupAccountSid calls (the same pattern
// applies to GetFileSecurity's buffer sizing).
func getFileSecurityDescriptor(path string, info windows.SECURITY_INFORMATION) (*windows.SECURITY_DESCRIPTOR, error) {
	pathPtr, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return nil, err
	}

	var needed uint32

	err = windows.GetFileSecurity(pathPtr, info, nil, 0, &needed)
	if err != nil && !errors.Is(err, windows.ERROR_INSUFFICIENT_BUFFER) {
		return nil, err
	}

	if needed == 0 {
		return nil, fmt.Errorf("GetFileSecurity: zero-length descriptor")
	}

	buf := make([]byte, needed)
	sd := (*windows.SECURITY_DESCRIPTOR)(unsafe.Pointer(&buf[0]))

	if err := windows.GetFileSecurity(pathPtr, info, sd, needed, &needed); err != nil {
		return nil, err
	}

	return sd, nil
}

// translateSID implements spec §4.2's translate_sid: canonicalize to
// string form (cache key), check the cache, else call LookupAccount twice
// (size probe then resolve, via [windows.SID.LookupAccount]) and memoize
// either "DOMAIN\NAME" or, on failure, the string SID itself so retries
// are O(1) and the ACE is never dropped.
func translateSID(sid *windows.SID, cache *SidCache) string {
	sidString := sid.String()

	if name, ok := cache.lookup(sidString); ok {
		return name
	}

	account, domain, _, err := sid.LookupAccount("")
	if err != nil {
		return cache.store(sidString, sidString)
	}

	name := account
	if domain != "" {
		name = domain + `\` + account
	}

	return cache.store(sidString, name)
}
