package flows

import (
	"context"
	"errors"
	"net/url"

	"github.com/MrEthical07/goStudio/internal/api"
	"github.com/MrEthical07/goStudio/result"
)

// Probe endpoints relative to the API base.
const (
	CheckUsernamePath = "/auth/check-username/"
	CheckEmailPath    = "/auth/check-email/"
)

// ProbeDeps captures availability-probe dependencies.
type ProbeDeps struct {
	Get GetFunc

	UsernameFailureMessage string
	EmailFailureMessage    string
	NotReady               error
}

// RunCheckUsername reports whether name is already taken.
func RunCheckUsername(ctx context.Context, name string, deps ProbeDeps) result.Result[bool] {
	return runProbe(ctx, CheckUsernamePath+url.PathEscape(name), deps.UsernameFailureMessage, deps)
}

// RunCheckEmail reports whether email is already registered.
func RunCheckEmail(ctx context.Context, email string, deps ProbeDeps) result.Result[bool] {
	return runProbe(ctx, CheckEmailPath+url.PathEscape(email), deps.EmailFailureMessage, deps)
}

func runProbe(ctx context.Context, path, failureMessage string, deps ProbeDeps) result.Result[bool] {
	if deps.Get == nil {
		err := deps.NotReady
		if err == nil {
			err = ErrNotReady
		}
		return result.Fail[bool](err, failureMessage, nil)
	}

	var exists *bool
	if err := deps.Get(ctx, path, &exists); err != nil {
		return api.Fail[bool](err, failureMessage)
	}
	if exists == nil {
		err := errors.New("probe reply is not a boolean")
		return result.Fail[bool](err, failureMessage, nil)
	}
	return result.OK(*exists)
}
