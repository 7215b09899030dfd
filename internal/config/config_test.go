package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMemoryDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("STORE_DRIVER", "Memory")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, StoreMemory, cfg.StoreDriver)
	assert.Equal(t, FeedMemory, cfg.FeedDriver)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "booking.changes", cfg.FeedExchange)
	assert.True(t, cfg.Cache.Methods["GET"])
	assert.Equal(t, 30*time.Second, cfg.Cache.TTL)
	assert.Equal(t, "localhost:6379", cfg.Redis.Address())
}

func TestLoadRequiresSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("STORE_DRIVER", "memory")
	_, err := Load()
	assert.Error(t, err)
}

func TestLoadMySQLNeedsDatabase(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("STORE_DRIVER", "mysql")
	t.Setenv("DB_USER", "app")
	t.Setenv("DB_NAME", "")
	_, err := Load()
	assert.ErrorContains(t, err, "DB_NAME")
}

func TestLoadRejectsUnknownFeed(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("FEED_DRIVER", "kafka")
	_, err := Load()
	assert.ErrorContains(t, err, "FEED_DRIVER")
}

func TestRateLimitNormalize(t *testing.T) {
	r := RateLimitConfig{Capacity: 0, RefillTokens: 0, RefillInterval: 0, TTL: time.Second, Burst: 5, RefillEvery: 2 * time.Second}
	r.normalize()
	assert.Equal(t, 5, r.Capacity)
	assert.Equal(t, 1, r.RefillTokens)
	assert.Equal(t, 2*time.Second, r.RefillInterval)
	assert.Equal(t, 10*time.Second, r.TTL)
}

func TestCacheMethodsParsing(t *testing.T) {
	c := CacheConfig{MethodList: " get, head ,,", TTL: -1}
	c.normalize()
	assert.Equal(t, map[string]bool{"GET": true, "HEAD": true}, c.Methods)
	assert.Equal(t, time.Second, c.TTL)
	assert.Equal(t, "cache", c.Prefix)
}

func TestRedisAddress(t *testing.T) {
	assert.Equal(t, "redis:6380", RedisConfig{Addr: "x:1", Host: "redis", Port: "6380"}.Address())
	assert.Equal(t, "x:1", RedisConfig{Addr: "x:1", Host: "redis"}.Address())
}
