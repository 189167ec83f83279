package flows

import (
	"context"

	"github.com/MrEthical07/goStudio/internal/events"
)

// LogoutDeps captures logout dependencies.
type LogoutDeps struct {
	ClearStore  func(context.Context) error
	ClearState  func()
	CurrentUser func() (int64, bool)
	MetricInc   func(int)
	Emit        EmitFunc

	Metric int
	Event  events.Type
}

// RunLogout clears the durable session and then the in-memory state. It is
// purely local and idempotent. The state is cleared even when the store
// fails, and the store error is returned.
func RunLogout(ctx context.Context, deps LogoutDeps) error {
	metricInc := defaultMetricInc(deps.MetricInc)
	emit := defaultEmit(deps.Emit)

	var userID int64
	wasAuthenticated := false
	if deps.CurrentUser != nil {
		userID, wasAuthenticated = deps.CurrentUser()
	}

	var err error
	if deps.ClearStore != nil {
		err = deps.ClearStore(ctx)
	}
	if deps.ClearState != nil {
		deps.ClearState()
	}

	if wasAuthenticated {
		metricInc(deps.Metric)
		ev := events.New(deps.Event, err == nil)
		ev.UserID = userID
		if err != nil {
			ev.Error = err.Error()
		}
		emit(ctx, ev)
	}
	return err
}
