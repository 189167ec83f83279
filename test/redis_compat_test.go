//go:build integration
// +build integration

package test

import (
	"context"
	"testing"

	goStudio "github.com/MrEthical07/goStudio"
	"github.com/MrEthical07/goStudio/storage"
)

func TestRedisSharedSessionAcrossClients(t *testing.T) {
	for _, mode := range redisModes(t) {
		t.Run(mode.name, func(t *testing.T) {
			rdb, cleanup := mode.setup(t)
			defer cleanup()
			ctx := context.Background()
			srv := newAPI(t)

			first := newClient(t, srv, storage.NewRedis(rdb, "it"), nil)
			second := newClient(t, srv, storage.NewRedis(rdb, "it"), nil)

			if r := first.Login(ctx, goStudio.Credentials{Username: "alice", Password: "pw"}); !r.Success {
				t.Fatalf("login: %+v", r)
			}
			if second.IsAuthenticated() {
				t.Fatal("second client must not see the login before Init")
			}
			if err := second.Init(ctx); err != nil {
				t.Fatalf("init: %v", err)
			}
			if u := second.User(); u == nil || u.Username != "alice" {
				t.Fatalf("unexpected user %+v", u)
			}

			srv.RevokeAll()
			if r := second.Stories().Count(ctx); r.Success {
				t.Fatal("expected 401")
			}
			if err := first.Init(ctx); err != nil {
				t.Fatalf("init: %v", err)
			}
			if first.IsAuthenticated() {
				t.Fatal("forced logout must clear the shared store")
			}
		})
	}
}

func TestRedisSealedValuesOpaque(t *testing.T) {
	for _, mode := range redisModes(t) {
		t.Run(mode.name, func(t *testing.T) {
			rdb, cleanup := mode.setup(t)
			defer cleanup()
			ctx := context.Background()
			srv := newAPI(t)

			key := make([]byte, 32)
			for i := range key {
				key[i] = byte(i)
			}
			sealed, err := storage.NewSealed(storage.NewRedis(rdb, "sealed"), key)
			if err != nil {
				t.Fatalf("sealed: %v", err)
			}
			c := newClient(t, srv, sealed, nil)
			r := c.Login(ctx, goStudio.Credentials{Username: "alice", Password: "pw"})
			if !r.Success {
				t.Fatalf("login: %+v", r)
			}

			raw, err := rdb.Get(ctx, "sealed:token").Result()
			if err != nil {
				t.Fatalf("raw get: %v", err)
			}
			if raw == r.Data.Token {
				t.Fatal("token stored in clear")
			}
		})
	}
}
