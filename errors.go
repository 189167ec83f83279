package goStudio

import (
	"errors"

	"github.com/MrEthical07/goStudio/internal/api"
	"github.com/MrEthical07/goStudio/router"
	"github.com/MrEthical07/goStudio/session"
	"github.com/MrEthical07/goStudio/storage"
	"github.com/MrEthical07/goStudio/story"
)

var (
	// ErrTransport matches failures where no HTTP response was received.
	ErrTransport = api.ErrTransport
	// ErrUnauthorized matches 401 responses.
	ErrUnauthorized = api.ErrUnauthorized
	// ErrNotFound matches 404 responses.
	ErrNotFound = api.ErrNotFound
	// ErrDecode matches 2xx responses whose body could not be decoded.
	ErrDecode = api.ErrDecode
	// ErrMissingToken is returned when a successful auth reply carries no token.
	ErrMissingToken = errors.New("auth response missing token")
	// ErrClientNotReady is returned by operations on a Client that was not built.
	ErrClientNotReady = errors.New("client not ready")
	// ErrClientClosed is returned by operations after Close.
	ErrClientClosed = errors.New("client closed")
	// ErrNotLoggedIn is the failure of resource calls made without a session.
	ErrNotLoggedIn = story.ErrNotLoggedIn
	// ErrForbidden is the failure of resource calls on another user's record.
	ErrForbidden = story.ErrForbidden
	// ErrStorageUnavailable wraps backend failures of the durable store.
	ErrStorageUnavailable = storage.ErrUnavailable
	// ErrEmptyToken is returned when saving a session without a token.
	ErrEmptyToken = session.ErrEmptyToken
	// ErrConflictingGuards rejects a route requiring both auth and guest.
	ErrConflictingGuards = router.ErrConflictingGuards
	// ErrRedirectLoop is returned when guarded redirects never settle.
	ErrRedirectLoop = router.ErrRedirectLoop
)

// APIError is a non-2xx API response.
type APIError = api.Error
