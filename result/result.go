// Package result defines the uniform outcome shape returned by every gateway
// and resource operation.
//
// Operations never return a raw transport error to UI code. Instead they return
// a [Result] whose Message is safe to display and whose Err keeps the cause for
// errors.Is checks.
package result

import (
	"bytes"
	"encoding/json"
)

// Result is the outcome of a client operation.
type Result[T any] struct {
	Success bool         `json:"success"`
	Data    T            `json:"data,omitempty"`
	Message string       `json:"message,omitempty"`
	Errors  []FieldError `json:"errors,omitempty"`

	// Err is the underlying failure. Nil when Success is true.
	Err error `json:"-"`
}

// FieldError is one validation complaint reported by the server.
type FieldError struct {
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

// UnmarshalJSON accepts both a bare string and an object carrying
// field/message (or Spring's defaultMessage) keys.
func (f *FieldError) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var msg string
		if err := json.Unmarshal(data, &msg); err != nil {
			return err
		}
		*f = FieldError{Message: msg}
		return nil
	}

	var raw struct {
		Field          string `json:"field"`
		Message        string `json:"message"`
		DefaultMessage string `json:"defaultMessage"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	f.Field = raw.Field
	f.Message = raw.Message
	if f.Message == "" {
		f.Message = raw.DefaultMessage
	}
	return nil
}

// OK wraps data in a successful result.
func OK[T any](data T) Result[T] {
	return Result[T]{Success: true, Data: data}
}

// OKWithMessage is OK plus a display message.
func OKWithMessage[T any](data T, message string) Result[T] {
	return Result[T]{Success: true, Data: data, Message: message}
}

// Fail builds a failed result. message must already be display-ready.
func Fail[T any](err error, message string, fieldErrors []FieldError) Result[T] {
	return Result[T]{
		Success: false,
		Message: message,
		Errors:  fieldErrors,
		Err:     err,
	}
}

// Unwrap returns Data and nil on success, or the zero value and the cause.
func (r Result[T]) Unwrap() (T, error) {
	if r.Success {
		return r.Data, nil
	}
	var zero T
	if r.Err != nil {
		return zero, r.Err
	}
	return zero, failure(r.Message)
}

// Exists interprets an existence probe. known is false when the probe failed,
// in which case exists carries no information.
func Exists(r Result[bool]) (exists bool, known bool) {
	if !r.Success {
		return false, false
	}
	return r.Data, true
}

type failure string

func (f failure) Error() string {
	if f == "" {
		return "operation failed"
	}
	return string(f)
}
