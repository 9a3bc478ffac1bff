package models

// Transport DTOs for the registry HTTP surface.

type RegisterIdentityRequest struct {
	DID string `json:"did"`
}

type UpdateDIDRequest struct {
	DID string `json:"did"`
}

type LinkCredentialRequest struct {
	CredentialID string `json:"credential_id"`
}

type SetPausedRequest struct {
	Paused bool `json:"paused"`
}

type TransferAdminRequest struct {
	NewAdmin string `json:"new_admin"`
}

// ValueResponse carries the boolean result of a mutating operation.
type ValueResponse struct {
	Value bool `json:"value"`
}

// OwnerResponse resolves a DID to its owning principal.
type OwnerResponse struct {
	Owner string `json:"owner"`
}

// StatusResponse exposes the registry configuration to read-only callers.
type StatusResponse struct {
	Admin           string `json:"admin"`
	Paused          bool   `json:"paused"`
	TotalIdentities uint64 `json:"total_identities"`
}
