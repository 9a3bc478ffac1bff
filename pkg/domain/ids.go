// Package domain defines the typed primitives of the identity registry.
//
// Raw strings from transports are converted into these types at the trust
// boundary via the Parse* functions; everything behind the boundary handles
// only validated values.
package domain

import (
	"fmt"

	dErrors "selfid/pkg/domain-errors"
)

// DID length bounds, inclusive, in bytes. A DID is self-asserted; the
// registry constrains only its length, never its content.
const (
	DIDMinLen = 10
	DIDMaxLen = 64
)

// MaxCredentials caps the credential list of a single identity.
const MaxCredentials = 50

// Principal identifies the authenticated actor invoking an operation.
// The zero Principal is the sentinel "null identity" and is never a valid
// caller or admin.
type Principal string

// ZeroPrincipal is the null identity sentinel.
const ZeroPrincipal Principal = ""

// ParsePrincipal validates a principal received at a trust boundary.
func ParsePrincipal(s string) (Principal, error) {
	if s == "" {
		return ZeroPrincipal, dErrors.New(dErrors.CodeZeroAddress, "principal must not be empty")
	}
	return Principal(s), nil
}

func (p Principal) String() string {
	return string(p)
}

// IsZero reports whether p is the null identity.
func (p Principal) IsZero() bool {
	return p == ZeroPrincipal
}

// DID is a self-asserted decentralized identifier.
type DID string

// ParseDID validates the length bounds [DIDMinLen, DIDMaxLen].
func ParseDID(s string) (DID, error) {
	if len(s) < DIDMinLen || len(s) > DIDMaxLen {
		return "", dErrors.New(dErrors.CodeInvalidDID,
			fmt.Sprintf("did length must be between %d and %d bytes", DIDMinLen, DIDMaxLen))
	}
	return DID(s), nil
}

func (d DID) String() string {
	return string(d)
}

// IsZero reports whether d is unset.
func (d DID) IsZero() bool {
	return d == ""
}

// CredentialID is an opaque reference to a credential issued elsewhere.
// The registry checks only that it is non-empty; content is never interpreted.
type CredentialID string

// ParseCredentialID rejects the empty reference.
func ParseCredentialID(s string) (CredentialID, error) {
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidCredentialID, "credential id must not be empty")
	}
	return CredentialID(s), nil
}

func (c CredentialID) String() string {
	return string(c)
}
