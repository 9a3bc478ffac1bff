package models

import (
	"slices"

	id "selfid/pkg/domain"
	dErrors "selfid/pkg/domain-errors"
)

// Identity is one caller's binding to a self-asserted DID plus the ordered
// set of credential references attached to it.
//
// CreatedAt and UpdatedAt are logical sequence numbers assigned by the
// registry clock, not wall-clock times. CreatedAt is immutable after
// registration.
//
// Mutations follow a Can*/Apply* pair: the service validates first, consumes
// a clock tick only once validation passes, then applies. Apply* methods
// never fail.
type Identity struct {
	Owner       id.Principal      `json:"owner"`
	DID         id.DID            `json:"did"`
	Credentials []id.CredentialID `json:"credentials"`
	CreatedAt   uint64            `json:"created_at"`
	UpdatedAt   uint64            `json:"updated_at"`
}

// NewIdentity constructs a freshly registered identity with an empty
// credential list. CreatedAt == UpdatedAt at registration.
func NewIdentity(owner id.Principal, did id.DID, seq uint64) *Identity {
	return &Identity{
		Owner:       owner,
		DID:         did,
		Credentials: []id.CredentialID{},
		CreatedAt:   seq,
		UpdatedAt:   seq,
	}
}

// CanReplaceDID rejects the no-op replacement. Uniqueness of the new DID is
// the registry's concern, not the identity's.
func (i *Identity) CanReplaceDID(newDID id.DID) error {
	if newDID == i.DID {
		return dErrors.New(dErrors.CodeInvalidUpdate, "new did equals current did")
	}
	return nil
}

// ApplyDIDReplacement swaps the DID and bumps the update timestamp.
func (i *Identity) ApplyDIDReplacement(newDID id.DID, seq uint64) {
	i.DID = newDID
	i.UpdatedAt = seq
}

// CanLinkCredential checks capacity and duplication. Duplicate links report
// already_registered, matching the duplicate-identity and duplicate-DID
// conditions.
func (i *Identity) CanLinkCredential(cred id.CredentialID) error {
	if len(i.Credentials) >= id.MaxCredentials {
		return dErrors.New(dErrors.CodeCredentialLimitReached, "credential list is at capacity")
	}
	if slices.Contains(i.Credentials, cred) {
		return dErrors.New(dErrors.CodeAlreadyRegistered, "credential already linked")
	}
	return nil
}

// ApplyCredentialLink appends the credential, preserving insertion order.
func (i *Identity) ApplyCredentialLink(cred id.CredentialID, seq uint64) {
	i.Credentials = append(i.Credentials, cred)
	i.UpdatedAt = seq
}

// CanUnlinkCredential checks the credential is present.
func (i *Identity) CanUnlinkCredential(cred id.CredentialID) error {
	if !slices.Contains(i.Credentials, cred) {
		return dErrors.New(dErrors.CodeCredentialNotFound, "credential not linked")
	}
	return nil
}

// ApplyCredentialUnlink removes the credential, preserving the relative order
// of the remaining entries.
func (i *Identity) ApplyCredentialUnlink(cred id.CredentialID, seq uint64) {
	idx := slices.Index(i.Credentials, cred)
	if idx < 0 {
		return
	}
	i.Credentials = slices.Delete(i.Credentials, idx, idx+1)
	i.UpdatedAt = seq
}

// Clone returns a deep copy so store snapshots never alias caller-held state.
func (i *Identity) Clone() *Identity {
	cp := *i
	cp.Credentials = slices.Clone(i.Credentials)
	return &cp
}

// Config is the scalar registry configuration.
type Config struct {
	Admin           id.Principal `json:"admin"`
	Paused          bool         `json:"paused"`
	TotalIdentities uint64       `json:"total_identities"`
}
