package cache

import (
	"context"
	"os"
	"testing"

	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func TestNewRedisClient_Unreachable(t *testing.T) {
	rdb, err := NewRedisClient("127.0.0.1", "1", "", 0)

	assert.Error(t, err)
	assert.Nil(t, rdb)
	assert.Contains(t, err.Error(), "127.0.0.1:1")
}

func TestRedisClient_Integration(t *testing.T) {
	_ = godotenv.Load("../../../.env")

	host := getEnv("REDIS_HOST", "localhost")
	port := getEnv("REDIS_PORT", "6379")
	pass := getEnv("REDIS_PASSWORD", "")

	rdb, err := NewRedisClient(host, port, pass, 1)
	if err != nil {
		t.Skipf("Skipping Redis integration test: %v", err)
	}
	defer rdb.Close()

	ctx := context.Background()

	t.Run("Ping", func(t *testing.T) {
		assert.NoError(t, Ping(ctx, rdb))
	})

	t.Run("Set and Get Value", func(t *testing.T) {
		key := "ignitofy_cache_test"
		require.NoError(t, rdb.Set(ctx, key, "hello redis", 0).Err())
		defer rdb.Del(ctx, key)

		val, err := rdb.Get(ctx, key).Result()
		assert.NoError(t, err)
		assert.Equal(t, "hello redis", val)
	})

	t.Run("Ping after close fails", func(t *testing.T) {
		other, err := NewRedisClient(host, port, pass, 1)
		require.NoError(t, err)
		require.NoError(t, other.Close())

		assert.Error(t, Ping(ctx, other))
	})
}
