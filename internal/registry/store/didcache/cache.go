// Package didcache layers a Redis read-through cache over the store's DID
// reverse lookups. Identity reads and all writes pass straight through; only
// OwnerOfDID is cached, since collaborators resolve DIDs far more often than
// identities change them.
package didcache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"selfid/internal/registry/models"
	"selfid/internal/registry/store"
	id "selfid/pkg/domain"
	"selfid/pkg/platform/sentinel"
)

const didOwnerKeyPrefix = "selfid:did:"

// DefaultTTL bounds staleness if an invalidation is ever lost.
const DefaultTTL = 5 * time.Minute

// Cache wraps a registry store with Redis-backed DID resolution.
type Cache struct {
	store.Store
	client *redis.Client
	ttl    time.Duration
}

// Option configures a Cache.
type Option func(*Cache)

// WithTTL overrides the cache entry lifetime.
func WithTTL(ttl time.Duration) Option {
	return func(c *Cache) {
		c.ttl = ttl
	}
}

// New wraps inner with a Redis DID cache.
func New(inner store.Store, client *redis.Client, opts ...Option) *Cache {
	c := &Cache{Store: inner, client: client, ttl: DefaultTTL}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// OwnerOfDID serves from Redis when possible, falling back to the inner
// store. Redis outages degrade to uncached reads rather than failing the call.
func (c *Cache) OwnerOfDID(ctx context.Context, did id.DID) (id.Principal, error) {
	key := didOwnerKeyPrefix + did.String()

	cached, err := c.client.Get(ctx, key).Result()
	if err == nil {
		return id.Principal(cached), nil
	}
	if err != nil && !errors.Is(err, redis.Nil) {
		return c.Store.OwnerOfDID(ctx, did)
	}

	owner, err := c.Store.OwnerOfDID(ctx, did)
	if err != nil {
		return id.ZeroPrincipal, err
	}
	_ = c.client.Set(ctx, key, owner.String(), c.ttl).Err()
	return owner, nil
}

// UpdateDID invalidates the moved DID entries after the inner store commits.
// The old DID must be looked up before the write or it is lost.
func (c *Cache) UpdateDID(ctx context.Context, ident *models.Identity) error {
	previous, err := c.Store.GetIdentity(ctx, ident.Owner)
	if err != nil && !errors.Is(err, sentinel.ErrNotFound) {
		return err
	}

	if err := c.Store.UpdateDID(ctx, ident); err != nil {
		return err
	}

	keys := []string{didOwnerKeyPrefix + ident.DID.String()}
	if previous != nil {
		keys = append(keys, didOwnerKeyPrefix+previous.DID.String())
	}
	_ = c.client.Del(ctx, keys...).Err()
	return nil
}
