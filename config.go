package goStudio

import (
	"errors"
	"net/url"
	"time"

	"github.com/MrEthical07/goStudio/jwt"
	"github.com/MrEthical07/goStudio/router"
	"github.com/MrEthical07/goStudio/session"
	"github.com/MrEthical07/goStudio/story"
	"github.com/MrEthical07/goStudio/storyboard"
)

// Config is the complete client configuration.
//
// Config instances are intended to be configured during initialization and
// then treated as immutable; the Builder keeps its own copy.
type Config struct {
	API        APIConfig
	Storage    StorageConfig
	Session    SessionConfig
	Authorizer AuthorizerConfig
	Routes     RoutesConfig
	Events     EventsConfig
	Metrics    MetricsConfig
	Messages   Messages
}

/*
====================================
API CONFIG
====================================
*/

// APIConfig locates the REST API.
type APIConfig struct {
	BaseURL string
	Timeout time.Duration
}

/*
====================================
STORAGE CONFIG
====================================
*/

// Storage backends selectable through StorageConfig.Backend.
const (
	StorageMemory = "memory"
	StorageBolt   = "bolt"
	StorageRedis  = "redis"
)

// StorageConfig selects the durable key-value backend. It is ignored when
// the Builder is given a storage.KV directly.
type StorageConfig struct {
	Backend     string
	BoltPath    string
	BoltBucket  string
	RedisAddr   string
	RedisPrefix string
	// EncryptionKey, when set, must be 32 bytes; values are then sealed with
	// ChaCha20-Poly1305 before reaching the backend.
	EncryptionKey []byte
}

/*
====================================
SESSION CONFIG
====================================
*/

// SessionConfig controls the durable session record.
type SessionConfig struct {
	TokenKey string
	UserKey  string
	// RejectExpiredTokens makes Init discard a JWT whose exp has passed.
	RejectExpiredTokens bool
	ExpiryLeeway        time.Duration
}

/*
====================================
AUTHORIZER CONFIG
====================================
*/

// AuthorizerConfig holds one 401 policy per API client.
type AuthorizerConfig struct {
	Auth        AuthorizerPolicy
	Stories     AuthorizerPolicy
	Storyboards AuthorizerPolicy
	Music       AuthorizerPolicy
}

/*
====================================
ROUTES CONFIG
====================================
*/

// RoutesConfig describes the navigation table. A nil Table uses
// router.DefaultRoutes.
type RoutesConfig struct {
	Table     []router.Route
	BaseTitle string
	LoginName string
	HomeName  string
}

/*
====================================
EVENTS CONFIG
====================================
*/

// EventsConfig controls asynchronous delivery to the event sink.
type EventsConfig struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

/*
====================================
METRICS CONFIG
====================================
*/

// MetricsConfig controls the in-process metrics registry.
type MetricsConfig struct {
	Enabled                 bool
	EnableLatencyHistograms bool
}

/*
====================================
MESSAGES
====================================
*/

// Messages are the display messages used when the server gives none.
type Messages struct {
	LoginFailed         string
	RegisterFailed      string
	CheckUsernameFailed string
	CheckEmailFailed    string
	MusicListFailed     string
	Stories             story.Messages
	Storyboards         storyboard.Messages
}

/*
====================================
DEFAULT CONFIG
====================================
*/

// DefaultBaseURL is the API base used when none is configured.
const DefaultBaseURL = "http://localhost:8080/api"

// DefaultConfig returns the configuration used by New.
func DefaultConfig() Config {
	return defaultConfig()
}

func defaultConfig() Config {
	logout := AuthorizerPolicy{LogoutOnUnauthorized: true}
	return Config{
		API: APIConfig{
			BaseURL: DefaultBaseURL,
			Timeout: 10 * time.Second,
		},
		Storage: StorageConfig{
			Backend:     StorageMemory,
			BoltBucket:  "session",
			RedisPrefix: "gs",
		},
		Session: SessionConfig{
			TokenKey: session.DefaultTokenKey,
			UserKey:  session.DefaultUserKey,
		},
		Authorizer: AuthorizerConfig{
			Auth:        logout,
			Stories:     logout,
			Storyboards: logout,
			Music:       logout,
		},
		Routes: RoutesConfig{
			BaseTitle: router.DefaultBaseTitle,
			LoginName: router.NameLogin,
			HomeName:  router.NameHome,
		},
		Events: EventsConfig{
			Enabled:    false,
			BufferSize: 256,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled:                 true,
			EnableLatencyHistograms: true,
		},
		Messages: Messages{
			LoginFailed:         "登录失败",
			RegisterFailed:      "注册失败",
			CheckUsernameFailed: "检查用户名失败",
			CheckEmailFailed:    "检查邮箱失败",
			MusicListFailed:     "获取音乐列表失败",
			Stories:             story.DefaultMessages(),
			Storyboards:         storyboard.DefaultMessages(),
		},
	}
}

func cloneConfig(cfg Config) Config {
	out := cfg
	out.Storage.EncryptionKey = cloneBytes(cfg.Storage.EncryptionKey)
	if cfg.Routes.Table != nil {
		out.Routes.Table = append([]router.Route(nil), cfg.Routes.Table...)
	}
	return out
}

func cloneBytes(b []byte) []byte {
	if len(b) == 0 {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}

/*
====================================
VALIDATION
====================================
*/

// Validate reports the first configuration problem found.
func (c *Config) Validate() error {
	// API
	u, err := url.Parse(c.API.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return errors.New("API BaseURL must be an absolute URL")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return errors.New("API BaseURL scheme must be http or https")
	}
	if c.API.Timeout <= 0 {
		return errors.New("API Timeout must be > 0")
	}

	// Storage
	switch c.Storage.Backend {
	case StorageMemory:
	case StorageBolt:
		if c.Storage.BoltPath == "" {
			return errors.New("Storage BoltPath required for bolt backend")
		}
	case StorageRedis:
		if c.Storage.RedisAddr == "" {
			return errors.New("Storage RedisAddr required for redis backend")
		}
	default:
		return errors.New("unsupported Storage Backend")
	}
	if n := len(c.Storage.EncryptionKey); n != 0 && n != 32 {
		return errors.New("Storage EncryptionKey must be 32 bytes")
	}

	// Session
	if c.Session.TokenKey == "" || c.Session.UserKey == "" {
		return errors.New("Session TokenKey and UserKey must be set")
	}
	if c.Session.TokenKey == c.Session.UserKey {
		return errors.New("Session TokenKey and UserKey must differ")
	}
	if c.Session.ExpiryLeeway < 0 || c.Session.ExpiryLeeway > jwt.MaxLeeway {
		return errors.New("Session ExpiryLeeway must be between 0 and 2m")
	}

	// Routes
	if c.Routes.LoginName == "" || c.Routes.HomeName == "" {
		return errors.New("Routes LoginName and HomeName must be set")
	}

	// Events
	if c.Events.Enabled && c.Events.BufferSize <= 0 {
		return errors.New("Events BufferSize must be > 0 when Enabled")
	}
	return nil
}
