package events

import (
	"time"

	"github.com/google/uuid"
)

// Type names a lifecycle event.
type Type string

const (
	TypeLoginSuccess    Type = "login_success"
	TypeLoginFailure    Type = "login_failure"
	TypeRegisterSuccess Type = "register_success"
	TypeRegisterFailure Type = "register_failure"
	TypeLogout          Type = "logout"
	TypeUnauthorized    Type = "unauthorized"
	TypeSessionRestored Type = "session_restored"
	TypeGuardRedirect   Type = "guard_redirect"
)

// Event is one lifecycle occurrence.
type Event struct {
	ID        string            `json:"id"`
	Timestamp time.Time         `json:"timestamp"`
	Type      Type              `json:"event_type"`
	UserID    int64             `json:"user_id,omitempty"`
	RequestID string            `json:"request_id,omitempty"`
	Method    string            `json:"method,omitempty"`
	Path      string            `json:"path,omitempty"`
	Success   bool              `json:"success"`
	Error     string            `json:"error,omitempty"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

// New returns an Event of type t stamped with a fresh id and the current time.
func New(t Type, success bool) Event {
	return Event{
		ID:        uuid.NewString(),
		Timestamp: time.Now().UTC(),
		Type:      t,
		Success:   success,
	}
}
