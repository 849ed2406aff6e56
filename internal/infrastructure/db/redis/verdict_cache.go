package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// VerdictTTL bounds how long a moderation verdict is reused.
const VerdictTTL = 24 * time.Hour

// VerdictCache stores moderated text keyed by a digest of the submitted text.
// Key format: moderation:<digest>
type VerdictCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewVerdictCache wraps client. A non-positive ttl selects VerdictTTL.
func NewVerdictCache(client *redis.Client, ttl time.Duration) *VerdictCache {
	if ttl <= 0 {
		ttl = VerdictTTL
	}
	return &VerdictCache{client: client, ttl: ttl}
}

// Get returns the cleaned text stored for digest, if any.
func (v *VerdictCache) Get(ctx context.Context, digest string) (string, bool, error) {
	s, err := v.client.Get(ctx, v.key(digest)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("verdict cache get: %w", err)
	}
	return s, true, nil
}

// Set records cleaned for digest (expires after the configured ttl).
func (v *VerdictCache) Set(ctx context.Context, digest, cleaned string) error {
	if err := v.client.Set(ctx, v.key(digest), cleaned, v.ttl).Err(); err != nil {
		return fmt.Errorf("verdict cache set: %w", err)
	}
	return nil
}

func (v *VerdictCache) key(digest string) string {
	return "moderation:" + digest
}
