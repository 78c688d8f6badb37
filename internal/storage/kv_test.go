package storage_test

import (
	"context"
	"os"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"taskflow/internal/storage"
	"taskflow/internal/storage/storagetest"
)

func TestMemoryKV(t *testing.T) {
	storagetest.RunKV(t, func(t *testing.T) storage.KV {
		return storage.NewMemory()
	})
}

// Requires a Redis server; set REDIS_ADDR or run one on localhost:6379.
func TestRedisKV(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}

	storagetest.RunKV(t, func(t *testing.T) storage.KV {
		client := redis.NewClient(&redis.Options{Addr: addr})
		if err := client.Ping(context.Background()).Err(); err != nil {
			client.Close()
			t.Skipf("Redis not available at %s: %v", addr, err)
		}
		kv := storage.NewRedis(client, "taskflow-test:"+t.Name()+":")
		require.NoError(t, kv.Clear(context.Background()))
		t.Cleanup(func() {
			_ = kv.Clear(context.Background())
			_ = kv.Close()
		})
		return kv
	})
}
