package goStudio

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Environment keys read by ConfigFromEnv.
const (
	EnvBaseURL             = "GOSTUDIO_API_BASE_URL"
	EnvTimeout             = "GOSTUDIO_API_TIMEOUT"
	EnvStorageBackend      = "GOSTUDIO_STORAGE_BACKEND"
	EnvBoltPath            = "GOSTUDIO_BOLT_PATH"
	EnvBoltBucket          = "GOSTUDIO_BOLT_BUCKET"
	EnvRedisAddr           = "GOSTUDIO_REDIS_ADDR"
	EnvRedisPrefix         = "GOSTUDIO_REDIS_PREFIX"
	EnvEncryptionKey       = "GOSTUDIO_ENCRYPTION_KEY"
	EnvRejectExpiredTokens = "GOSTUDIO_REJECT_EXPIRED_TOKENS"
	EnvExpiryLeeway        = "GOSTUDIO_EXPIRY_LEEWAY"
	EnvEventsEnabled       = "GOSTUDIO_EVENTS_ENABLED"
	EnvMetricsEnabled      = "GOSTUDIO_METRICS_ENABLED"
)

// ConfigFromEnv describes the configfromenv operation and its observable behavior.
//
// ConfigFromEnv loads the given dotenv files (".env" when none are named),
// then overlays every GOSTUDIO_* variable on DefaultConfig. Missing dotenv
// files are ignored; variables already set in the process win over the files.
// The result is validated.
func ConfigFromEnv(paths ...string) (Config, error) {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", p, err)
		}
	}

	cfg := defaultConfig()
	cfg.API.BaseURL = getEnv(EnvBaseURL, cfg.API.BaseURL)
	cfg.Storage.Backend = getEnv(EnvStorageBackend, cfg.Storage.Backend)
	cfg.Storage.BoltPath = getEnv(EnvBoltPath, cfg.Storage.BoltPath)
	cfg.Storage.BoltBucket = getEnv(EnvBoltBucket, cfg.Storage.BoltBucket)
	cfg.Storage.RedisAddr = getEnv(EnvRedisAddr, cfg.Storage.RedisAddr)
	cfg.Storage.RedisPrefix = getEnv(EnvRedisPrefix, cfg.Storage.RedisPrefix)

	var err error
	if cfg.API.Timeout, err = envDuration(EnvTimeout, cfg.API.Timeout); err != nil {
		return Config{}, err
	}
	if cfg.Session.ExpiryLeeway, err = envDuration(EnvExpiryLeeway, cfg.Session.ExpiryLeeway); err != nil {
		return Config{}, err
	}
	if cfg.Session.RejectExpiredTokens, err = envBool(EnvRejectExpiredTokens, cfg.Session.RejectExpiredTokens); err != nil {
		return Config{}, err
	}
	if cfg.Events.Enabled, err = envBool(EnvEventsEnabled, cfg.Events.Enabled); err != nil {
		return Config{}, err
	}
	if cfg.Metrics.Enabled, err = envBool(EnvMetricsEnabled, cfg.Metrics.Enabled); err != nil {
		return Config{}, err
	}

	if raw := getEnv(EnvEncryptionKey, ""); raw != "" {
		key, err := hex.DecodeString(raw)
		if err != nil {
			return Config{}, fmt.Errorf("%s: %w", EnvEncryptionKey, err)
		}
		cfg.Storage.EncryptionKey = key
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) (time.Duration, error) {
	raw := getEnv(key, "")
	if raw == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

func envBool(key string, fallback bool) (bool, error) {
	raw := getEnv(key, "")
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("%s: %w", key, err)
	}
	return v, nil
}
