//go:build integration
// +build integration

package test

import (
	"context"
	"os"
	"testing"
	"time"

	goStudio "github.com/MrEthical07/goStudio"
	"github.com/MrEthical07/goStudio/internal/apitest"
	"github.com/MrEthical07/goStudio/storage"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

// redisMode describes which Redis backend the suite is running against.
type redisMode struct {
	name  string
	setup func(t *testing.T) (redis.UniversalClient, func())
}

// redisModes returns the set of Redis backends to test.
// miniredis is always available.
// Real Redis standalone is used when REDIS_ADDR is set (e.g. "127.0.0.1:6379").
func redisModes(t *testing.T) []redisMode {
	t.Helper()
	modes := []redisMode{
		{
			name: "miniredis",
			setup: func(t *testing.T) (redis.UniversalClient, func()) {
				t.Helper()
				mr, err := miniredis.Run()
				if err != nil {
					t.Fatalf("miniredis: %v", err)
				}
				rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
				return rdb, func() { _ = rdb.Close(); mr.Close() }
			},
		},
	}

	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		modes = append(modes, redisMode{
			name: "standalone:" + addr,
			setup: func(t *testing.T) (redis.UniversalClient, func()) {
				t.Helper()
				rdb := redis.NewClient(&redis.Options{Addr: addr})
				ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
				defer cancel()
				if err := rdb.Ping(ctx).Err(); err != nil {
					t.Skipf("cannot connect to Redis at %s: %v", addr, err)
				}
				rdb.FlushDB(context.Background())
				return rdb, func() { rdb.FlushDB(context.Background()); _ = rdb.Close() }
			},
		})
	}
	return modes
}

func newAPI(t *testing.T) *apitest.Server {
	t.Helper()
	srv := apitest.NewServer()
	t.Cleanup(srv.Close)
	srv.AddUser("alice", "alice@example.com", "pw", "creator")
	return srv
}

func newClient(t *testing.T, srv *apitest.Server, kv storage.KV, mutate func(*goStudio.Config)) *goStudio.Client {
	t.Helper()
	cfg := goStudio.DefaultConfig()
	cfg.API.BaseURL = srv.BaseURL()
	if mutate != nil {
		mutate(&cfg)
	}
	c, err := goStudio.New().WithConfig(cfg).WithStorage(kv).Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return c
}
