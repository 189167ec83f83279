package goStudio

import (
	"context"

	"github.com/MrEthical07/goStudio/internal/flows"
	"github.com/MrEthical07/goStudio/result"
)

// Login describes the login operation and its observable behavior.
//
// Login posts creds to /auth/login. On success the token and user are
// persisted before the user is set; on failure neither the store nor the
// state changes and the Result carries the server message or the configured
// fallback. IsLoading is true for the duration of the call.
func (c *Client) Login(ctx context.Context, creds Credentials) result.Result[AuthResponse] {
	if c.closed.Load() {
		return result.Fail[AuthResponse](ErrClientClosed, c.config.Messages.LoginFailed, nil)
	}
	c.state.SetLoading(true)
	defer c.state.SetLoading(false)

	r := flows.RunLogin(ctx, creds, c.flows.Login)
	if r.Success {
		u := r.Data.User()
		c.state.SetUser(&u)
	}
	return r
}

// Register describes the register operation and its observable behavior.
//
// Register creates the account and logs it in from the reply, the same way
// Login does.
func (c *Client) Register(ctx context.Context, req RegisterRequest) result.Result[AuthResponse] {
	if c.closed.Load() {
		return result.Fail[AuthResponse](ErrClientClosed, c.config.Messages.RegisterFailed, nil)
	}
	c.state.SetLoading(true)
	defer c.state.SetLoading(false)

	r := flows.RunRegister(ctx, req, c.flows.Register)
	if r.Success {
		u := r.Data.User()
		c.state.SetUser(&u)
	}
	return r
}

// CheckUsername reports whether name is taken. Use result.Exists to tell
// "free" apart from "unknown".
func (c *Client) CheckUsername(ctx context.Context, name string) result.Result[bool] {
	return flows.RunCheckUsername(ctx, name, c.flows.Probe)
}

// CheckEmail reports whether email is registered.
func (c *Client) CheckEmail(ctx context.Context, email string) result.Result[bool] {
	return flows.RunCheckEmail(ctx, email, c.flows.Probe)
}

// Logout describes the logout operation and its observable behavior.
//
// Logout clears the durable session and then the state. It makes no request
// and may be called any number of times. The state is cleared even when the
// store fails; that failure is returned.
func (c *Client) Logout(ctx context.Context) error {
	return flows.RunLogout(ctx, c.flows.Logout)
}
