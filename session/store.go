package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/MrEthical07/goStudio/storage"
)

// ErrEmptyToken is returned by [Store.Save] when no token is given.
var ErrEmptyToken = errors.New("session token is empty")

// Default durable key names.
const (
	DefaultTokenKey = "token"
	DefaultUserKey  = "user"
)

// Keys names the two durable entries.
type Keys struct {
	Token string
	User  string
}

func (k Keys) withDefaults() Keys {
	if k.Token == "" {
		k.Token = DefaultTokenKey
	}
	if k.User == "" {
		k.User = DefaultUserKey
	}
	return k
}

// Store mirrors the session into a key-value backend.
type Store struct {
	kv   storage.KV
	keys Keys
}

// NewStore returns a Store over kv. Empty key names fall back to "token" and
// "user".
func NewStore(kv storage.KV, keys Keys) *Store {
	return &Store{
		kv:   kv,
		keys: keys.withDefaults(),
	}
}

// Keys returns the key names in use.
func (s *Store) Keys() Keys {
	return s.keys
}

// Save writes the token and then the user record.
func (s *Store) Save(ctx context.Context, token string, user User) error {
	if token == "" {
		return ErrEmptyToken
	}

	record, err := EncodeUser(user)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}
	if err := s.kv.Set(ctx, s.keys.Token, token); err != nil {
		return err
	}
	return s.kv.Set(ctx, s.keys.User, record)
}

// Load reads the durable session. A user record that does not decode or
// cannot be unsealed is reported as absent, and an unreadable token is
// removed.
func (s *Store) Load(ctx context.Context) (Snapshot, error) {
	var snap Snapshot

	token, err := s.Token(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	snap.Token = token

	raw, ok, err := s.kv.Get(ctx, s.keys.User)
	switch {
	case errors.Is(err, storage.ErrSealedValueInvalid):
		ok = false
	case err != nil:
		return Snapshot{}, err
	}
	if ok {
		if u, err := DecodeUser(raw); err == nil {
			snap.User = u
		}
	}
	return snap, nil
}

// Token reads only the bearer token. An absent token is "". A token that
// cannot be unsealed is removed and reported as absent.
func (s *Store) Token(ctx context.Context) (string, error) {
	token, _, err := s.kv.Get(ctx, s.keys.Token)
	if errors.Is(err, storage.ErrSealedValueInvalid) {
		return "", s.kv.Remove(ctx, s.keys.Token)
	}
	return token, err
}

// Clear removes both entries. Clearing an empty store succeeds.
func (s *Store) Clear(ctx context.Context) error {
	return errors.Join(
		s.kv.Remove(ctx, s.keys.Token),
		s.kv.Remove(ctx, s.keys.User),
	)
}
