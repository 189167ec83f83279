package flows

import (
	"context"

	"github.com/MrEthical07/goStudio/internal/events"
)

// Deps groups flow dependency sets. The root Client builds this once and
// delegates to the matching flow.
type Deps struct {
	Login    LoginDeps
	Register RegisterDeps
	Probe    ProbeDeps
	Logout   LogoutDeps
}

// PostFunc sends a JSON body and decodes the reply.
type PostFunc func(ctx context.Context, path string, in, out any) error

// GetFunc fetches and decodes a JSON reply.
type GetFunc func(ctx context.Context, path string, out any) error

// EmitFunc publishes a lifecycle event.
type EmitFunc func(ctx context.Context, event events.Event)

func defaultMetricInc(fn func(int)) func(int) {
	if fn == nil {
		return func(int) {}
	}
	return fn
}

func defaultEmit(fn EmitFunc) EmitFunc {
	if fn == nil {
		return func(context.Context, events.Event) {}
	}
	return fn
}
