package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"selfid/internal/registry/models"
	id "selfid/pkg/domain"
	"selfid/pkg/platform/sentinel"
)

type InMemoryStoreSuite struct {
	suite.Suite
	store *InMemory
	ctx   context.Context
}

func TestInMemoryStoreSuite(t *testing.T) {
	suite.Run(t, new(InMemoryStoreSuite))
}

func (s *InMemoryStoreSuite) SetupTest() {
	s.store = NewInMemory("admin")
	s.ctx = context.Background()
}

func (s *InMemoryStoreSuite) TestCreateAndLookups() {
	s.Run("creates and finds identity by owner", func() {
		ident := models.NewIdentity("alice", "did:example:1234567890", 1)
		s.Require().NoError(s.store.CreateIdentity(s.ctx, ident))

		found, err := s.store.GetIdentity(s.ctx, "alice")
		s.Require().NoError(err)
		s.Equal(ident.DID, found.DID)
		s.Empty(found.Credentials)
	})

	s.Run("reverse index resolves did to owner", func() {
		owner, err := s.store.OwnerOfDID(s.ctx, "did:example:1234567890")
		s.Require().NoError(err)
		s.Equal(id.Principal("alice"), owner)
	})

	s.Run("returns ErrNotFound for unknown owner and did", func() {
		_, err := s.store.GetIdentity(s.ctx, "nobody")
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
		_, err = s.store.OwnerOfDID(s.ctx, "did:example:unregistered")
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("counts each creation exactly once", func() {
		cfg, err := s.store.Config(s.ctx)
		s.Require().NoError(err)
		s.Equal(uint64(1), cfg.TotalIdentities)
	})
}

func (s *InMemoryStoreSuite) TestUniqueness() {
	ident := models.NewIdentity("alice", "did:example:1234567890", 1)
	s.Require().NoError(s.store.CreateIdentity(s.ctx, ident))

	s.Run("rejects duplicate owner", func() {
		dup := models.NewIdentity("alice", "did:example:0000000000", 2)
		s.Require().ErrorIs(s.store.CreateIdentity(s.ctx, dup), sentinel.ErrConflict)
	})

	s.Run("rejects duplicate did", func() {
		dup := models.NewIdentity("bob", "did:example:1234567890", 2)
		s.Require().ErrorIs(s.store.CreateIdentity(s.ctx, dup), sentinel.ErrConflict)

		_, err := s.store.GetIdentity(s.ctx, "bob")
		s.Require().ErrorIs(err, sentinel.ErrNotFound, "failed create must leave no trace")
	})

	s.Run("failed create does not bump the counter", func() {
		cfg, err := s.store.Config(s.ctx)
		s.Require().NoError(err)
		s.Equal(uint64(1), cfg.TotalIdentities)
	})
}

func (s *InMemoryStoreSuite) TestUpdateDID() {
	alice := models.NewIdentity("alice", "did:example:1234567890", 1)
	bob := models.NewIdentity("bob", "did:example:0987654321", 2)
	s.Require().NoError(s.store.CreateIdentity(s.ctx, alice))
	s.Require().NoError(s.store.CreateIdentity(s.ctx, bob))

	s.Run("moves both sides of the index", func() {
		next := alice.Clone()
		next.ApplyDIDReplacement("did:example:aaaaaaaaaa", 3)
		s.Require().NoError(s.store.UpdateDID(s.ctx, next))

		owner, err := s.store.OwnerOfDID(s.ctx, "did:example:aaaaaaaaaa")
		s.Require().NoError(err)
		s.Equal(id.Principal("alice"), owner)

		_, err = s.store.OwnerOfDID(s.ctx, "did:example:1234567890")
		s.Require().ErrorIs(err, sentinel.ErrNotFound, "old did must be released")
	})

	s.Run("rejects a did owned by another principal", func() {
		next := bob.Clone()
		next.DID = "did:example:aaaaaaaaaa"
		next.UpdatedAt = 4
		s.Require().ErrorIs(s.store.UpdateDID(s.ctx, next), sentinel.ErrConflict)

		owner, err := s.store.OwnerOfDID(s.ctx, "did:example:0987654321")
		s.Require().NoError(err)
		s.Equal(id.Principal("bob"), owner, "failed update must leave bob untouched")
	})

	s.Run("rejects unknown owner", func() {
		ghost := models.NewIdentity("ghost", "did:example:gggggggggg", 9)
		s.Require().ErrorIs(s.store.UpdateDID(s.ctx, ghost), sentinel.ErrNotFound)
	})
}

func (s *InMemoryStoreSuite) TestUpdateCredentials() {
	ident := models.NewIdentity("alice", "did:example:1234567890", 1)
	s.Require().NoError(s.store.CreateIdentity(s.ctx, ident))

	next := ident.Clone()
	next.ApplyCredentialLink("cred:abc123", 2)
	s.Require().NoError(s.store.UpdateCredentials(s.ctx, next))

	found, err := s.store.GetIdentity(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal([]id.CredentialID{"cred:abc123"}, found.Credentials)
	s.Equal(uint64(2), found.UpdatedAt)
	s.Equal(uint64(1), found.CreatedAt)
}

func (s *InMemoryStoreSuite) TestConfigScalars() {
	s.Run("pause flag round-trips", func() {
		s.Require().NoError(s.store.SetPaused(s.ctx, true))
		cfg, err := s.store.Config(s.ctx)
		s.Require().NoError(err)
		s.True(cfg.Paused)
	})

	s.Run("admin transfer round-trips", func() {
		s.Require().NoError(s.store.SetAdmin(s.ctx, "operator"))
		cfg, err := s.store.Config(s.ctx)
		s.Require().NoError(err)
		s.Equal(id.Principal("operator"), cfg.Admin)
	})
}

func (s *InMemoryStoreSuite) TestLastSequence() {
	last, err := s.store.LastSequence(s.ctx)
	s.Require().NoError(err)
	s.Zero(last)

	s.Require().NoError(s.store.CreateIdentity(s.ctx, models.NewIdentity("alice", "did:example:1234567890", 5)))
	last, err = s.store.LastSequence(s.ctx)
	s.Require().NoError(err)
	s.Equal(uint64(5), last)
}

func (s *InMemoryStoreSuite) TestCallersNeverShareMemory() {
	ident := models.NewIdentity("alice", "did:example:1234567890", 1)
	s.Require().NoError(s.store.CreateIdentity(s.ctx, ident))

	// Mutating the caller's copy after the write must not leak into the store.
	ident.Credentials = append(ident.Credentials, "cred:smuggled")

	found, err := s.store.GetIdentity(s.ctx, "alice")
	s.Require().NoError(err)
	s.Empty(found.Credentials)

	// Mutating a read result must not leak either.
	found.Credentials = append(found.Credentials, "cred:smuggled")
	again, err := s.store.GetIdentity(s.ctx, "alice")
	s.Require().NoError(err)
	s.Empty(again.Credentials)
}
