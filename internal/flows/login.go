package flows

import (
	"context"

	"github.com/MrEthical07/goStudio/result"
	"github.com/MrEthical07/goStudio/session"
)

// LoginPath is the login endpoint relative to the API base.
const LoginPath = "/auth/login"

// LoginDeps captures login dependencies.
type LoginDeps struct {
	Post         PostFunc
	SaveSession  func(context.Context, string, session.User) error
	ClearSession func(context.Context) error
	MetricInc    func(int)
	Emit         EmitFunc

	FailureMessage string
	Metrics        AuthMetrics
	Events         AuthEvents
	Errors         AuthErrors
}

// RunLogin posts credentials and, on success, persists token and user before
// returning. A failure leaves the store untouched.
func RunLogin(ctx context.Context, creds Credentials, deps LoginDeps) result.Result[AuthResponse] {
	return runAuth(ctx, creds, creds.Username, authDeps{
		path:           LoginPath,
		post:           deps.Post,
		save:           deps.SaveSession,
		clear:          deps.ClearSession,
		metricInc:      deps.MetricInc,
		emit:           deps.Emit,
		metrics:        deps.Metrics,
		events:         deps.Events,
		errors:         deps.Errors,
		failureMessage: deps.FailureMessage,
	})
}
