package moderation

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oashtari/question-and-answer/internal/core/domain"
)

type stubModerator struct {
	calls int
	out   string
	err   error
}

func (s *stubModerator) Check(_ context.Context, _ string) (string, error) {
	s.calls++
	return s.out, s.err
}

type memCache struct {
	data   map[string]string
	getErr error
	setErr error
}

func newMemCache() *memCache { return &memCache{data: map[string]string{}} }

func (m *memCache) Get(_ context.Context, digest string) (string, bool, error) {
	if m.getErr != nil {
		return "", false, m.getErr
	}
	v, ok := m.data[digest]
	return v, ok, nil
}

func (m *memCache) Set(_ context.Context, digest, cleaned string) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.data[digest] = cleaned
	return nil
}

func TestCached_HitSkipsProvider(t *testing.T) {
	next := &stubModerator{out: "clean"}
	c := NewCached(next, newMemCache(), zerolog.Nop())

	for range 3 {
		got, err := c.Check(context.Background(), "dirty")
		require.NoError(t, err)
		assert.Equal(t, "clean", got)
	}
	assert.Equal(t, 1, next.calls)
}

func TestCached_FailuresAreNotCached(t *testing.T) {
	next := &stubModerator{err: domain.Upstream(domain.KindModerationServer, "test", 503, "down")}
	cache := newMemCache()
	c := NewCached(next, cache, zerolog.Nop())

	_, err := c.Check(context.Background(), "text")
	assert.True(t, errors.Is(err, domain.ErrModerationServer))
	assert.Empty(t, cache.data)

	_, _ = c.Check(context.Background(), "text")
	assert.Equal(t, 2, next.calls)
}

func TestCached_CacheErrorsAreBypassed(t *testing.T) {
	next := &stubModerator{out: "clean"}
	cache := newMemCache()
	cache.getErr = errors.New("redis down")
	cache.setErr = errors.New("redis down")
	c := NewCached(next, cache, zerolog.Nop())

	got, err := c.Check(context.Background(), "text")
	require.NoError(t, err)
	assert.Equal(t, "clean", got)
	assert.Equal(t, 1, next.calls)
}

func TestDigest(t *testing.T) {
	assert.Equal(t, "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855", Digest(""))
	assert.NotEqual(t, Digest("a"), Digest("b"))
}
