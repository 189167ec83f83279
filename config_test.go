package goStudio

import (
	"errors"
	"testing"
	"time"

	"github.com/MrEthical07/goStudio/router"
)

func TestDefaultConfigValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if !cfg.Authorizer.Stories.LogoutOnUnauthorized || !cfg.Authorizer.Storyboards.LogoutOnUnauthorized {
		t.Fatal("expected 401 logout enabled by default")
	}
	if cfg.API.Timeout != 10*time.Second {
		t.Fatalf("unexpected timeout %v", cfg.API.Timeout)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Config)
		wantValid bool
	}{
		{
			name:      "relative base url invalid",
			mutate:    func(c *Config) { c.API.BaseURL = "/api" },
			wantValid: false,
		},
		{
			name:      "ftp base url invalid",
			mutate:    func(c *Config) { c.API.BaseURL = "ftp://host/api" },
			wantValid: false,
		},
		{
			name:      "zero timeout invalid",
			mutate:    func(c *Config) { c.API.Timeout = 0 },
			wantValid: false,
		},
		{
			name:      "bolt without path invalid",
			mutate:    func(c *Config) { c.Storage.Backend = StorageBolt },
			wantValid: false,
		},
		{
			name: "bolt with path valid",
			mutate: func(c *Config) {
				c.Storage.Backend = StorageBolt
				c.Storage.BoltPath = "session.db"
			},
			wantValid: true,
		},
		{
			name:      "redis without addr invalid",
			mutate:    func(c *Config) { c.Storage.Backend = StorageRedis },
			wantValid: false,
		},
		{
			name:      "unknown backend invalid",
			mutate:    func(c *Config) { c.Storage.Backend = "indexeddb" },
			wantValid: false,
		},
		{
			name:      "short encryption key invalid",
			mutate:    func(c *Config) { c.Storage.EncryptionKey = []byte("short") },
			wantValid: false,
		},
		{
			name:      "same session keys invalid",
			mutate:    func(c *Config) { c.Session.UserKey = c.Session.TokenKey },
			wantValid: false,
		},
		{
			name:      "leeway too large invalid",
			mutate:    func(c *Config) { c.Session.ExpiryLeeway = 3 * time.Minute },
			wantValid: false,
		},
		{
			name:      "leeway valid",
			mutate:    func(c *Config) { c.Session.ExpiryLeeway = 30 * time.Second },
			wantValid: true,
		},
		{
			name: "events enabled without buffer invalid",
			mutate: func(c *Config) {
				c.Events.Enabled = true
				c.Events.BufferSize = 0
			},
			wantValid: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantValid && err != nil {
				t.Fatalf("expected valid, got %v", err)
			}
			if !tt.wantValid && err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestCloneConfigIsDeep(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Storage.EncryptionKey = make([]byte, 32)
	cfg.Routes.Table = router.DefaultRoutes()

	out := cloneConfig(cfg)
	out.Storage.EncryptionKey[0] = 1
	out.Routes.Table[0].Title = "changed"

	if cfg.Storage.EncryptionKey[0] != 0 || cfg.Routes.Table[0].Title == "changed" {
		t.Fatal("clone shares memory with source")
	}
}

func TestBuildRejectsConflictingRoute(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Routes.Table = append(router.DefaultRoutes(), router.Route{
		Path: "/both", Name: "Both", RequiresAuth: true, RequiresGuest: true,
	})
	if _, err := New().WithConfig(cfg).Build(); err == nil {
		t.Fatal("expected conflicting guards to fail Build")
	}
}

func TestBuildRejectsMalformedRoutePattern(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Routes.Table = append(router.DefaultRoutes(), router.Route{Path: "/stories/{id", Name: "StoryDetail"})
	if _, err := New().WithConfig(cfg).Build(); !errors.Is(err, router.ErrInvalidPattern) {
		t.Fatalf("expected ErrInvalidPattern, got %v", err)
	}
}
