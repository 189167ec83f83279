// Package transport provides the http.RoundTripper that attaches the session's
// bearer token to outgoing requests and reacts to 401 responses.
package transport

import (
	"context"
	"log"
	"net/http"

	"github.com/google/uuid"
)

// RequestIDHeader is stamped on every request that does not carry one.
const RequestIDHeader = "X-Request-ID"

// TokenSource reads the current bearer token. "" means no session.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// Clearer removes the durable session.
type Clearer interface {
	Clear(ctx context.Context) error
}

// Policy controls 401 handling for one API client instance.
type Policy struct {
	LogoutOnUnauthorized bool
}

// Unauthorized describes a 401 that triggered a forced logout.
type Unauthorized struct {
	Method    string
	Path      string
	RequestID string
	HadToken  bool
}

// Authorizer decorates a base RoundTripper.
type Authorizer struct {
	Base           http.RoundTripper
	Tokens         TokenSource
	Store          Clearer
	Policy         Policy
	OnUnauthorized func(ctx context.Context, u Unauthorized)
}

// RoundTrip implements http.RoundTripper. The request is cloned before
// headers are added.
func (a *Authorizer) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	out := req.Clone(ctx)

	token := ""
	if a.Tokens != nil {
		t, err := a.Tokens.Token(ctx)
		if err != nil {
			// An unreadable store sends the request anonymously.
			log.Print("goStudio: read session token failed: ", err)
		} else {
			token = t
		}
	}
	if token != "" {
		out.Header.Set("Authorization", "Bearer "+token)
	}
	if out.Header.Get(RequestIDHeader) == "" {
		out.Header.Set(RequestIDHeader, uuid.NewString())
	}

	resp, err := a.base().RoundTrip(out)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode == http.StatusUnauthorized && a.Policy.LogoutOnUnauthorized {
		a.forceLogout(ctx, Unauthorized{
			Method:    out.Method,
			Path:      out.URL.Path,
			RequestID: out.Header.Get(RequestIDHeader),
			HadToken:  token != "",
		})
	}
	return resp, nil
}

func (a *Authorizer) forceLogout(ctx context.Context, u Unauthorized) {
	if a.Store != nil {
		if err := a.Store.Clear(context.WithoutCancel(ctx)); err != nil {
			log.Print("goStudio: clear session after 401 failed: ", err)
		}
	}
	if a.OnUnauthorized != nil {
		a.OnUnauthorized(ctx, u)
	}
}

func (a *Authorizer) base() http.RoundTripper {
	if a.Base != nil {
		return a.Base
	}
	return http.DefaultTransport
}
