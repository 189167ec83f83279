package flows

import (
	"context"

	"github.com/MrEthical07/goStudio/result"
	"github.com/MrEthical07/goStudio/session"
)

// RegisterPath is the registration endpoint relative to the API base.
const RegisterPath = "/auth/register"

// RegisterDeps captures registration dependencies. SaveSession is optional:
// the gateway itself does not persist, the session-level caller decides.
type RegisterDeps struct {
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

// RunRegister creates an account. The reply carries a token for the new
// account.
func RunRegister(ctx context.Context, req RegisterRequest, deps RegisterDeps) result.Result[AuthResponse] {
	return runAuth(ctx, req, req.Username, authDeps{
		path:           RegisterPath,
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
