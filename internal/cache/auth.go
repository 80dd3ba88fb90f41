package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/pricewatch/pricewatch/internal/model"
)

const (
	authCachePrefix = "auth:principal:"
	authCacheTTL    = 5 * time.Minute
)

// cachedAuth is the JSON form of an AuthContext in Redis.
type cachedAuth struct {
	KeyID     string `json:"key_id"`
	KeyPrefix string `json:"key_prefix"`
	UserID    string `json:"user_id"`
	Role      string `json:"role"`
}

func encodeAuth(ac *model.AuthContext) ([]byte, error) {
	return json.Marshal(cachedAuth{
		KeyID:     ac.KeyID,
		KeyPrefix: ac.KeyPrefix,
		UserID:    ac.UserID,
		Role:      string(ac.Role),
	})
}

func decodeAuth(data []byte) (*model.AuthContext, error) {
	var cached cachedAuth
	if err := json.Unmarshal(data, &cached); err != nil {
		return nil, err
	}

	role := model.Role(cached.Role)
	if cached.UserID == "" || !role.IsValid() {
		return nil, fmt.Errorf("incomplete cached auth for key %q", cached.KeyID)
	}

	return &model.AuthContext{
		KeyID:     cached.KeyID,
		KeyPrefix: cached.KeyPrefix,
		UserID:    cached.UserID,
		Role:      role,
	}, nil
}

// GetAuthContext returns a cached resolution of an API key fingerprint.
// Absent or corrupt entries return ErrCacheMiss.
func (c *Cache) GetAuthContext(ctx context.Context, fingerprint string) (*model.AuthContext, error) {
	data, err := c.client.Get(ctx, authCachePrefix+fingerprint).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("get auth context: %w", err)
	}

	ac, err := decodeAuth(data)
	if err != nil {
		return nil, ErrCacheMiss
	}
	return ac, nil
}

// SetAuthContext caches the resolution of an API key fingerprint.
func (c *Cache) SetAuthContext(ctx context.Context, fingerprint string, ac *model.AuthContext) error {
	data, err := encodeAuth(ac)
	if err != nil {
		return fmt.Errorf("marshal auth context: %w", err)
	}
	return c.client.Set(ctx, authCachePrefix+fingerprint, data, authCacheTTL).Err()
}

// DeleteAuthContext drops a cached resolution, e.g. after revocation.
func (c *Cache) DeleteAuthContext(ctx context.Context, fingerprint string) error {
	return c.client.Del(ctx, authCachePrefix+fingerprint).Err()
}
