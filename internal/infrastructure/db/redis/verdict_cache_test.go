package redis

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// unreachable returns a client pointed at a closed port so every command
// fails fast.
func unreachable(t *testing.T) *redis.Client {
	t.Helper()
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestVerdictCache_Key(t *testing.T) {
	c := NewVerdictCache(nil, 0)
	assert.Equal(t, "moderation:abc", c.key("abc"))
	assert.Equal(t, VerdictTTL, c.ttl)
	assert.Equal(t, time.Minute, NewVerdictCache(nil, time.Minute).ttl)
}

func TestVerdictCache_ErrorsAreWrapped(t *testing.T) {
	c := NewVerdictCache(unreachable(t), time.Minute)

	_, found, err := c.Get(context.Background(), "abc")
	require.Error(t, err)
	assert.False(t, found)
	assert.Contains(t, err.Error(), "verdict cache get")

	err = c.Set(context.Background(), "abc", "clean")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "verdict cache set")
}

func TestConnect_FailsWhenUnreachable(t *testing.T) {
	_, err := Connect(context.Background(), Config{Addr: "127.0.0.1:1", Timeout: 100 * time.Millisecond})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis ping")
}
