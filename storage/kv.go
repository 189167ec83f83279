package storage

import (
	"context"
	"errors"
)

// ErrUnavailable wraps backend failures (connection refused, closed file, ...).
var ErrUnavailable = errors.New("storage backend unavailable")

// ErrClosed is returned by backends used after Close.
var ErrClosed = errors.New("storage closed")

// KV is the get/set/remove capability a durable store offers.
//
// Get reports ok=false for a missing key; that is not an error. Remove of a
// missing key succeeds.
type KV interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}
