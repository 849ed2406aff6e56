package moderation

import (
	"context"
	"crypto/sha256"
	"encoding/hex"

	"github.com/rs/zerolog"

	"github.com/oashtari/question-and-answer/internal/core/ports"
	"github.com/oashtari/question-and-answer/internal/infrastructure/metrics"
)

// Cache stores cleaned text under a digest of the submitted text.
// Get reports found=false on a miss.
type Cache interface {
	Get(ctx context.Context, digest string) (cleaned string, found bool, err error)
	Set(ctx context.Context, digest, cleaned string) error
}

// Cached serves repeated texts from a verdict cache. Only successful verdicts
// are stored. Cache failures are logged and never fail a check.
type Cached struct {
	next  ports.Moderator
	cache Cache
	log   zerolog.Logger
}

func NewCached(next ports.Moderator, cache Cache, log zerolog.Logger) *Cached {
	return &Cached{next: next, cache: cache, log: log}
}

func (c *Cached) Check(ctx context.Context, text string) (string, error) {
	digest := Digest(text)

	cleaned, found, err := c.cache.Get(ctx, digest)
	switch {
	case err != nil:
		metrics.ModerationCacheTotal.WithLabelValues("error").Inc()
		c.log.Warn().Err(err).Msg("verdict cache lookup failed, calling provider")
	case found:
		metrics.ModerationCacheTotal.WithLabelValues("hit").Inc()
		return cleaned, nil
	default:
		metrics.ModerationCacheTotal.WithLabelValues("miss").Inc()
	}

	cleaned, err = c.next.Check(ctx, text)
	if err != nil {
		return "", err
	}

	if err := c.cache.Set(ctx, digest, cleaned); err != nil {
		c.log.Warn().Err(err).Msg("verdict cache store failed")
	}
	return cleaned, nil
}

// Digest is the cache key for text: hex SHA-256.
func Digest(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}
