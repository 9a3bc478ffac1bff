//go:build integration

package didcache_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"selfid/internal/registry/models"
	"selfid/internal/registry/store"
	"selfid/internal/registry/store/didcache"
	id "selfid/pkg/domain"
	"selfid/pkg/platform/sentinel"
	"selfid/pkg/testutil/containers"
)

type DIDCacheSuite struct {
	suite.Suite
	redis *containers.RedisContainer
	inner *store.InMemory
	cache *didcache.Cache
	ctx   context.Context
}

func TestDIDCacheSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(DIDCacheSuite))
}

func (s *DIDCacheSuite) SetupSuite() {
	s.redis = containers.NewRedisContainer(s.T())
}

func (s *DIDCacheSuite) SetupTest() {
	s.ctx = context.Background()
	s.Require().NoError(s.redis.FlushAll(s.ctx))
	s.inner = store.NewInMemory("admin")
	s.cache = didcache.New(s.inner, s.redis.Client)
}

func (s *DIDCacheSuite) TestReadThrough() {
	ident := models.NewIdentity("alice", "did:example:1234567890", 1)
	s.Require().NoError(s.cache.CreateIdentity(s.ctx, ident))

	// First read populates the cache, second read is served from it.
	owner, err := s.cache.OwnerOfDID(s.ctx, ident.DID)
	s.Require().NoError(err)
	s.Equal(id.Principal("alice"), owner)

	keys, err := s.redis.Client.Keys(s.ctx, "selfid:did:*").Result()
	s.Require().NoError(err)
	s.Len(keys, 1)

	owner, err = s.cache.OwnerOfDID(s.ctx, ident.DID)
	s.Require().NoError(err)
	s.Equal(id.Principal("alice"), owner)
}

func (s *DIDCacheSuite) TestMissesAreNotCached() {
	_, err := s.cache.OwnerOfDID(s.ctx, "did:example:unregistered")
	s.Require().ErrorIs(err, sentinel.ErrNotFound)

	keys, err := s.redis.Client.Keys(s.ctx, "selfid:did:*").Result()
	s.Require().NoError(err)
	s.Empty(keys)
}

func (s *DIDCacheSuite) TestUpdateDIDInvalidates() {
	ident := models.NewIdentity("alice", "did:example:1234567890", 1)
	s.Require().NoError(s.cache.CreateIdentity(s.ctx, ident))

	// Warm the cache with the old DID.
	_, err := s.cache.OwnerOfDID(s.ctx, ident.DID)
	s.Require().NoError(err)

	next := ident.Clone()
	next.ApplyDIDReplacement("did:example:aaaaaaaaaa", 2)
	s.Require().NoError(s.cache.UpdateDID(s.ctx, next))

	// The old DID must no longer resolve, cached or not.
	_, err = s.cache.OwnerOfDID(s.ctx, "did:example:1234567890")
	s.Require().ErrorIs(err, sentinel.ErrNotFound)

	owner, err := s.cache.OwnerOfDID(s.ctx, "did:example:aaaaaaaaaa")
	s.Require().NoError(err)
	s.Equal(id.Principal("alice"), owner)
}
