package storage

import (
	"context"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/chacha20poly1305"
)

// ErrSealedValueInvalid is returned when a stored value cannot be opened with
// the configured key (tampered, truncated, or written with another key).
var ErrSealedValueInvalid = errors.New("sealed value invalid")

// Sealed encrypts values with ChaCha20-Poly1305 before handing them to the
// wrapped [KV]. Keys are stored in the clear; the key name is bound as
// additional data so a value cannot be moved to another key.
type Sealed struct {
	inner KV
	aead  cipher.AEAD
}

// NewSealed wraps inner with a 32-byte key.
func NewSealed(inner KV, key []byte) (*Sealed, error) {
	if inner == nil {
		return nil, errors.New("sealed store requires an inner store")
	}
	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, fmt.Errorf("sealed store key: %w", err)
	}
	return &Sealed{inner: inner, aead: aead}, nil
}

func (s *Sealed) Get(ctx context.Context, key string) (string, bool, error) {
	raw, ok, err := s.inner.Get(ctx, key)
	if err != nil || !ok {
		return "", ok, err
	}

	blob, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return "", false, ErrSealedValueInvalid
	}
	n := s.aead.NonceSize()
	if len(blob) < n {
		return "", false, ErrSealedValueInvalid
	}

	plain, err := s.aead.Open(nil, blob[:n], blob[n:], []byte(key))
	if err != nil {
		return "", false, ErrSealedValueInvalid
	}
	return string(plain), true, nil
}

func (s *Sealed) Set(ctx context.Context, key, value string) error {
	nonce := make([]byte, s.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return err
	}

	blob := s.aead.Seal(nonce, nonce, []byte(value), []byte(key))
	return s.inner.Set(ctx, key, base64.StdEncoding.EncodeToString(blob))
}

func (s *Sealed) Remove(ctx context.Context, key string) error {
	return s.inner.Remove(ctx, key)
}
