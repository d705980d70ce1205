package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDefaults(t *testing.T) {
	for _, key := range []string{"HTTP_ADDR", "STORE_DRIVER", "SESSION_TTL", "RATE_LIMIT", "RATE_BURST", "NAME_CACHE_SIZE", "MONGO_DATABASE"} {
		t.Setenv(key, "")
	}
	cfg := FromEnv()
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, StoreMongo, cfg.StoreDriver)
	assert.Equal(t, "chatobi", cfg.MongoDatabase)
	assert.Equal(t, 720*time.Hour, cfg.SessionTTL)
	assert.Equal(t, 5.0, cfg.RateLimit)
	assert.Equal(t, 10, cfg.RateBurst)
	assert.Equal(t, 512, cfg.NameCacheSize)
}

func TestOverrides(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("SESSION_TTL", "2h")
	t.Setenv("RATE_LIMIT", "0.5")
	t.Setenv("RATE_BURST", "3")

	cfg := FromEnv()
	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, StoreMemory, cfg.StoreDriver)
	assert.Equal(t, 2*time.Hour, cfg.SessionTTL)
	assert.Equal(t, 0.5, cfg.RateLimit)
	assert.Equal(t, 3, cfg.RateBurst)
}

func TestMalformedValuesFallBack(t *testing.T) {
	t.Setenv("STORE_DRIVER", "sqlite")
	t.Setenv("SESSION_TTL", "forever")
	t.Setenv("RATE_BURST", "-1")
	t.Setenv("NAME_CACHE_SIZE", "lots")

	cfg := FromEnv()
	assert.Equal(t, StoreMongo, cfg.StoreDriver)
	assert.Equal(t, 720*time.Hour, cfg.SessionTTL)
	assert.Equal(t, 10, cfg.RateBurst)
	assert.Equal(t, 512, cfg.NameCacheSize)
}
