package flows

import (
	"context"
	"errors"
	"log"
	"strconv"

	"github.com/MrEthical07/goStudio/internal/api"
	"github.com/MrEthical07/goStudio/internal/events"
	"github.com/MrEthical07/goStudio/result"
	"github.com/MrEthical07/goStudio/session"
)

// Credentials is the login request body.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// RegisterRequest is the registration request body.
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse is the server's reply to login and register.
type AuthResponse struct {
	Token    string `json:"token"`
	UserID   int64  `json:"userId"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	Message  string `json:"message,omitempty"`
}

// User projects the identity fields of the response.
func (r AuthResponse) User() session.User {
	return session.User{
		ID:       r.UserID,
		Username: r.Username,
		Email:    r.Email,
		Role:     r.Role,
	}
}

// AuthMetrics carries metric IDs for one auth flow.
type AuthMetrics struct {
	Success int
	Failure int
}

// AuthEvents carries event types for one auth flow.
type AuthEvents struct {
	Success events.Type
	Failure events.Type
}

// AuthErrors carries host-level sentinel errors.
type AuthErrors struct {
	NotReady     error
	MissingToken error
}

type authDeps struct {
	path           string
	post           PostFunc
	save           func(context.Context, string, session.User) error
	clear          func(context.Context) error
	metricInc      func(int)
	emit           EmitFunc
	metrics        AuthMetrics
	events         AuthEvents
	errors         AuthErrors
	failureMessage string
}

func runAuth(ctx context.Context, body any, username string, d authDeps) result.Result[AuthResponse] {
	d.metricInc = defaultMetricInc(d.metricInc)
	d.emit = defaultEmit(d.emit)
	if d.errors.NotReady == nil {
		d.errors.NotReady = ErrNotReady
	}
	if d.errors.MissingToken == nil {
		d.errors.MissingToken = ErrMissingToken
	}
	if d.post == nil {
		return result.Fail[AuthResponse](d.errors.NotReady, d.failureMessage, nil)
	}

	fail := func(err error, r result.Result[AuthResponse]) result.Result[AuthResponse] {
		d.metricInc(d.metrics.Failure)
		ev := events.New(d.events.Failure, false)
		ev.Error = err.Error()
		ev.Metadata = map[string]string{"username": username}
		if status := api.StatusCode(err); status != 0 {
			ev.Metadata["status"] = strconv.Itoa(status)
		}
		d.emit(ctx, ev)
		return r
	}

	var resp AuthResponse
	if err := d.post(ctx, d.path, body, &resp); err != nil {
		return fail(err, api.Fail[AuthResponse](err, d.failureMessage))
	}
	if resp.Token == "" {
		message := resp.Message
		if message == "" {
			message = d.failureMessage
		}
		return fail(d.errors.MissingToken, result.Fail[AuthResponse](d.errors.MissingToken, message, nil))
	}

	if d.save != nil {
		if err := d.save(ctx, resp.Token, resp.User()); err != nil {
			if d.clear != nil {
				if cerr := d.clear(context.WithoutCancel(ctx)); cerr != nil {
					log.Print("goStudio: clear partial session failed: ", cerr)
				}
			}
			return fail(err, result.Fail[AuthResponse](err, d.failureMessage, nil))
		}
	}

	d.metricInc(d.metrics.Success)
	ev := events.New(d.events.Success, true)
	ev.UserID = resp.UserID
	d.emit(ctx, ev)
	return result.OKWithMessage(resp, resp.Message)
}

// ErrMissingToken is used when a 2xx auth reply carries no token and the
// host supplies no error of its own.
var ErrMissingToken = errors.New("auth response missing token")

// ErrNotReady is used when a host supplies no NotReady error of its own.
var ErrNotReady = errors.New("flow dependencies missing")
