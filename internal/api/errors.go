package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/MrEthical07/goStudio/result"
)

var (
	// ErrTransport wraps network-level failures: no HTTP response was received.
	ErrTransport = errors.New("api transport failure")
	// ErrUnauthorized matches an *Error with status 401.
	ErrUnauthorized = errors.New("api unauthorized")
	// ErrNotFound matches an *Error with status 404.
	ErrNotFound = errors.New("api resource not found")
	// ErrDecode is returned when a 2xx body cannot be decoded.
	ErrDecode = errors.New("api response decode failed")
)

// Error is a non-2xx response.
type Error struct {
	Status  int
	Message string
	Errors  []result.FieldError
	Body    []byte
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api: status %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("api: status %d", e.Status)
}

// Is lets errors.Is match the status-class sentinels.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.Status == http.StatusUnauthorized
	case ErrNotFound:
		return e.Status == http.StatusNotFound
	}
	return false
}

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

// Message returns the server-provided message in err, or fallback.
func Message(err error, fallback string) string {
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}

// FieldErrors returns the server-provided validation errors in err.
func FieldErrors(err error) []result.FieldError {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Errors
	}
	return nil
}

// Fail converts err into a failed result using the server's message when
// there is one.
func Fail[T any](err error, fallback string) result.Result[T] {
	return result.Fail[T](err, Message(err, fallback), FieldErrors(err))
}
