package session

import (
	"context"
	"log"
	"sync"

	"github.com/google/uuid"
)

// Option configures a [State].
type Option func(*State)

// WithTokenCheck makes Init treat a token for which expired returns true as
// absent, clearing the durable store.
func WithTokenCheck(expired func(token string) bool) Option {
	return func(s *State) {
		s.expired = expired
	}
}

type subscriber struct {
	id string
	fn func(View)
}

// State is the in-memory session. IsAuthenticated is true exactly when a user
// is set.
type State struct {
	mu      sync.RWMutex
	user    *User
	loading bool

	store   *Store
	expired func(string) bool

	subMu sync.Mutex
	subs  []subscriber
}

// NewState returns an unauthenticated State backed by store.
func NewState(store *Store, opts ...Option) *State {
	s := &State{store: store}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// User returns a copy of the current user, or nil.
func (s *State) User() *User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user.clone()
}

// IsAuthenticated reports whether a user is set.
func (s *State) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user != nil
}

// IsLoading reports whether an auth operation is in flight.
func (s *State) IsLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// CurrentUserID returns the logged-in user's id.
func (s *State) CurrentUserID() (int64, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return 0, false
	}
	return s.user.ID, true
}

// View returns a consistent projection of the state.
func (s *State) View() View {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.viewLocked()
}

func (s *State) viewLocked() View {
	return View{
		User:            s.user.clone(),
		IsAuthenticated: s.user != nil,
		IsLoading:       s.loading,
	}
}

// SetUser replaces the in-memory user. It does not touch the store.
func (s *State) SetUser(u *User) {
	s.mu.Lock()
	s.user = u.clone()
	v := s.viewLocked()
	s.mu.Unlock()
	s.notify(v)
}

// ClearUser is SetUser(nil).
func (s *State) ClearUser() {
	s.SetUser(nil)
}

// SetLoading sets the busy flag.
func (s *State) SetLoading(loading bool) {
	s.mu.Lock()
	s.loading = loading
	v := s.viewLocked()
	s.mu.Unlock()
	s.notify(v)
}

// Init reloads the state from the durable store. Only a complete record
// authenticates; anything else leaves the state cleared. A store error clears
// the state and is returned.
func (s *State) Init(ctx context.Context) error {
	snap, err := s.store.Load(ctx)
	if err != nil {
		s.ClearUser()
		return err
	}

	if snap.Complete() && s.expired != nil && s.expired(snap.Token) {
		if err := s.store.Clear(ctx); err != nil {
			log.Print("goStudio: clear expired session failed: ", err)
		}
		snap = Snapshot{}
	}

	if snap.Complete() {
		s.SetUser(snap.User)
	} else {
		s.ClearUser()
	}
	return nil
}

// Subscribe registers fn to receive the new View after every mutation.
// Callbacks run synchronously on the mutating goroutine.
func (s *State) Subscribe(fn func(View)) (unsubscribe func()) {
	id := uuid.NewString()
	s.subMu.Lock()
	s.subs = append(s.subs, subscriber{id: id, fn: fn})
	s.subMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.subMu.Lock()
			defer s.subMu.Unlock()
			for i, sub := range s.subs {
				if sub.id == id {
					s.subs = append(s.subs[:i:i], s.subs[i+1:]...)
					return
				}
			}
		})
	}
}

func (s *State) notify(v View) {
	s.subMu.Lock()
	subs := append([]subscriber(nil), s.subs...)
	s.subMu.Unlock()

	for _, sub := range subs {
		sub.fn(v)
	}
}
