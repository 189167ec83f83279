package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/boltdb/bolt"
)

const defaultBoltBucket = "session"

// Bolt is a [KV] persisted in a single BoltDB file.
type Bolt struct {
	db     *bolt.DB
	bucket []byte
}

// OpenBolt opens (creating if needed) the database at path and ensures bucket
// exists. An empty bucket name defaults to "session".
func OpenBolt(path, bucket string) (*Bolt, error) {
	if bucket == "" {
		bucket = defaultBoltBucket
	}

	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	name := []byte(bucket)
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(name)
		return err
	}); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	return &Bolt{db: db, bucket: name}, nil
}

func (b *Bolt) Get(ctx context.Context, key string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}

	var (
		value string
		found bool
	)
	err := b.db.View(func(tx *bolt.Tx) error {
		raw := tx.Bucket(b.bucket).Get([]byte(key))
		if raw == nil {
			return nil
		}
		// raw is only valid inside the transaction.
		value = string(raw)
		found = true
		return nil
	})
	if err != nil {
		return "", false, b.wrap(err)
	}
	return value, found, nil
}

func (b *Bolt) Set(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return b.wrap(b.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(b.bucket).Put([]byte(key), []byte(value))
	}))
}

func (b *Bolt) Remove(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return b.wrap(b.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(b.bucket).Delete([]byte(key))
	}))
}

// Path returns the database file location.
func (b *Bolt) Path() string {
	return b.db.Path()
}

// Close releases the file lock.
func (b *Bolt) Close() error {
	return b.db.Close()
}

func (b *Bolt) wrap(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, bolt.ErrDatabaseNotOpen) {
		return ErrClosed
	}
	return fmt.Errorf("%w: %v", ErrUnavailable, err)
}
