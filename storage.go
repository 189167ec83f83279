package goStudio

import (
	"context"
	"fmt"
	"io"

	"github.com/MrEthical07/goStudio/storage"
	"github.com/redis/go-redis/v9"
)

// openStorage builds the KV selected by cfg. The returned closers release
// backend handles and are owned by the Client.
func openStorage(ctx context.Context, cfg StorageConfig) (storage.KV, []io.Closer, error) {
	var (
		kv      storage.KV
		closers []io.Closer
	)

	switch cfg.Backend {
	case StorageMemory, "":
		kv = storage.NewMemory()
	case StorageBolt:
		db, err := storage.OpenBolt(cfg.BoltPath, cfg.BoltBucket)
		if err != nil {
			return nil, nil, err
		}
		kv = db
		closers = append(closers, db)
	case StorageRedis:
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		r := storage.NewRedis(client, cfg.RedisPrefix)
		if err := r.Ping(ctx); err != nil {
			_ = client.Close()
			return nil, nil, err
		}
		kv = r
		closers = append(closers, client)
	default:
		return nil, nil, fmt.Errorf("unsupported storage backend %q", cfg.Backend)
	}

	if len(cfg.EncryptionKey) > 0 {
		sealed, err := storage.NewSealed(kv, cfg.EncryptionKey)
		if err != nil {
			closeAll(closers)
			return nil, nil, err
		}
		kv = sealed
	}
	return kv, closers, nil
}

func closeAll(closers []io.Closer) error {
	var first error
	for i := len(closers) - 1; i >= 0; i-- {
		if err := closers[i].Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
