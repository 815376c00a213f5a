package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rohansaini2102/project-gantavyam-sub004/internal/domain"
)

const fareConfigCacheKey = "cache:fare_config:active"

// CacheStore caches the active fare configuration in Redis so every quote
// does not hit Postgres. The TTL is supplied by the config provider.
type CacheStore struct {
	client *redis.Client
}

// NewCacheStore creates a new CacheStore.
func NewCacheStore(client *redis.Client) *CacheStore {
	return &CacheStore{client: client}
}

// GetFareConfig retrieves the cached active configuration. Returns
// (nil, nil) on a cache miss.
func (s *CacheStore) GetFareConfig(ctx context.Context) (*domain.FareConfiguration, error) {
	data, err := s.client.Get(ctx, fareConfigCacheKey).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // Cache miss
		}
		return nil, err
	}

	var cfg domain.FareConfiguration
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// SetFareConfig stores the active configuration with a TTL.
func (s *CacheStore) SetFareConfig(ctx context.Context, cfg *domain.FareConfiguration, ttl time.Duration) error {
	data, err := json.Marshal(cfg)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, fareConfigCacheKey, data, ttl).Err()
}

// InvalidateFareConfig drops the cached configuration so the next read loads
// the freshly published version.
func (s *CacheStore) InvalidateFareConfig(ctx context.Context) error {
	return s.client.Del(ctx, fareConfigCacheKey).Err()
}
