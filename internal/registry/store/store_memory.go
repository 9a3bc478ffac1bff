package store

import (
	"context"
	"sync"

	"selfid/internal/registry/models"
	id "selfid/pkg/domain"
	"selfid/pkg/platform/sentinel"
)

// InMemory keeps the whole registry state in one struct guarded by one mutex,
// so the identity table and the DID index can never diverge, even transiently.
// Identities are cloned on the way in and out; callers never share memory with
// the store.
type InMemory struct {
	mu         sync.RWMutex
	identities map[id.Principal]*models.Identity
	didOwner   map[id.DID]id.Principal
	cfg        models.Config
	lastSeq    uint64
}

// NewInMemory builds an empty registry administered by admin.
func NewInMemory(admin id.Principal) *InMemory {
	return &InMemory{
		identities: make(map[id.Principal]*models.Identity),
		didOwner:   make(map[id.DID]id.Principal),
		cfg:        models.Config{Admin: admin},
	}
}

func (s *InMemory) GetIdentity(_ context.Context, owner id.Principal) (*models.Identity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if ident, ok := s.identities[owner]; ok {
		return ident.Clone(), nil
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemory) OwnerOfDID(_ context.Context, did id.DID) (id.Principal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if owner, ok := s.didOwner[did]; ok {
		return owner, nil
	}
	return id.ZeroPrincipal, sentinel.ErrNotFound
}

func (s *InMemory) Config(_ context.Context) (models.Config, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg, nil
}

func (s *InMemory) LastSequence(_ context.Context) (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastSeq, nil
}

func (s *InMemory) CreateIdentity(_ context.Context, ident *models.Identity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, taken := s.identities[ident.Owner]; taken {
		return sentinel.ErrConflict
	}
	if _, taken := s.didOwner[ident.DID]; taken {
		return sentinel.ErrConflict
	}
	s.identities[ident.Owner] = ident.Clone()
	s.didOwner[ident.DID] = ident.Owner
	s.cfg.TotalIdentities++
	s.noteSeq(ident.UpdatedAt)
	return nil
}

func (s *InMemory) UpdateDID(_ context.Context, ident *models.Identity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.identities[ident.Owner]
	if !ok {
		return sentinel.ErrNotFound
	}
	if owner, taken := s.didOwner[ident.DID]; taken && owner != ident.Owner {
		return sentinel.ErrConflict
	}
	delete(s.didOwner, current.DID)
	s.didOwner[ident.DID] = ident.Owner
	s.identities[ident.Owner] = ident.Clone()
	s.noteSeq(ident.UpdatedAt)
	return nil
}

func (s *InMemory) UpdateCredentials(_ context.Context, ident *models.Identity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.identities[ident.Owner]; !ok {
		return sentinel.ErrNotFound
	}
	s.identities[ident.Owner] = ident.Clone()
	s.noteSeq(ident.UpdatedAt)
	return nil
}

func (s *InMemory) SetPaused(_ context.Context, paused bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cfg.Paused = paused
	return nil
}

func (s *InMemory) SetAdmin(_ context.Context, admin id.Principal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cfg.Admin = admin
	return nil
}

func (s *InMemory) noteSeq(seq uint64) {
	if seq > s.lastSeq {
		s.lastSeq = seq
	}
}
