package token

import (
	"time"

	"github.com/patrickmn/go-cache"
)

// RevokedTokenCache tracks revoked access tokens by jti until they would have expired anyway
type RevokedTokenCache interface {
	Add(jti string, exp time.Time) error
	IsRevoked(jti string) bool
}

// InMemoryRevokedTokenCache keeps each entry only until the token's own expiry. Lapsed
// entries are swept by the cache's janitor every cleanupInterval.
type InMemoryRevokedTokenCache struct {
	revoked *cache.Cache
}

func NewInMemoryRevokedTokenCache(cleanupInterval time.Duration) RevokedTokenCache {
	return &InMemoryRevokedTokenCache{
		revoked: cache.New(cache.NoExpiration, cleanupInterval),
	}
}

func (c *InMemoryRevokedTokenCache) Add(jti string, exp time.Time) error {
	ttl := time.Until(exp)
	if ttl <= 0 {
		return nil
	}
	c.revoked.Set(jti, struct{}{}, ttl)
	return nil
}

func (c *InMemoryRevokedTokenCache) IsRevoked(jti string) bool {
	_, found := c.revoked.Get(jti)
	return found
}
