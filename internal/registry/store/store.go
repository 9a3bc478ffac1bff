// Package store persists the registry state: the identity table, the DID
// reverse index, and the scalar configuration.
//
// Every write method is one atomic unit that keeps the identity table and the
// DID index consistent; callers never update one side without the other.
// Stores report infrastructure facts as pkg/platform/sentinel errors and leave
// domain error coding to the service.
package store

import (
	"context"

	"selfid/internal/registry/models"
	id "selfid/pkg/domain"
)

type Store interface {
	// GetIdentity returns the identity owned by owner, or sentinel.ErrNotFound.
	GetIdentity(ctx context.Context, owner id.Principal) (*models.Identity, error)

	// OwnerOfDID resolves a DID through the reverse index, or sentinel.ErrNotFound.
	OwnerOfDID(ctx context.Context, did id.DID) (id.Principal, error)

	// Config returns the scalar registry configuration.
	Config(ctx context.Context) (models.Config, error)

	// LastSequence returns the highest logical timestamp ever written, 0 for a
	// fresh registry. Used to seed the clock on startup.
	LastSequence(ctx context.Context) (uint64, error)

	// CreateIdentity inserts a new identity, its DID index entry, and
	// increments the total counter in one unit. Returns sentinel.ErrConflict
	// if the owner or the DID is already taken.
	CreateIdentity(ctx context.Context, ident *models.Identity) error

	// UpdateDID replaces the stored DID for ident.Owner and moves the DID
	// index entry in one unit. Returns sentinel.ErrNotFound if the owner has
	// no identity and sentinel.ErrConflict if the new DID is already taken.
	UpdateDID(ctx context.Context, ident *models.Identity) error

	// UpdateCredentials overwrites the credential list and updated timestamp
	// for ident.Owner. Returns sentinel.ErrNotFound if the owner has no
	// identity. The DID index is untouched.
	UpdateCredentials(ctx context.Context, ident *models.Identity) error

	// SetPaused flips the pause gate.
	SetPaused(ctx context.Context, paused bool) error

	// SetAdmin replaces the admin principal.
	SetAdmin(ctx context.Context, admin id.Principal) error
}
