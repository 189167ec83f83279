package goStudio

import (
	"context"
	"io"
	"log"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/MrEthical07/goStudio/internal/events"
	"github.com/MrEthical07/goStudio/internal/flows"
	"github.com/MrEthical07/goStudio/internal/transport"
	"github.com/MrEthical07/goStudio/music"
	"github.com/MrEthical07/goStudio/router"
	"github.com/MrEthical07/goStudio/session"
	"github.com/MrEthical07/goStudio/story"
	"github.com/MrEthical07/goStudio/storyboard"
)

// Navigator applies guarded navigations. *router.History is the default.
type Navigator interface {
	Navigate(ctx context.Context, target string) (router.Decision, error)
}

// Client is the composition root of the session layer. It owns the durable
// store, the in-memory state, the authorized API clients and navigation.
//
// Client is safe for concurrent use.
type Client struct {
	config Config

	store       *session.Store
	state       *session.State
	metrics     *Metrics
	bus         *events.Bus
	dispatcher  *events.Dispatcher
	table       *router.Table
	guard       *router.Guard
	history     *router.History
	navigator   Navigator
	stories     *story.Client
	storyboards *storyboard.Client
	music       *music.Client
	flows       flows.Deps

	closers []io.Closer
	closed  atomic.Bool
}

// Init describes the init operation and its observable behavior.
//
// Init restores the session from the durable store. A complete record sets
// the user; anything else leaves the client logged out. A store failure is
// returned and the client stays logged out.
func (c *Client) Init(ctx context.Context) error {
	if c.closed.Load() {
		return ErrClientClosed
	}
	if err := c.state.Init(ctx); err != nil {
		return err
	}
	if id, ok := c.state.CurrentUserID(); ok {
		c.metrics.Inc(MetricSessionRestored)
		ev := events.New(events.TypeSessionRestored, true)
		ev.UserID = id
		c.emit(ctx, ev)
	}
	return nil
}

// Navigate guards target and moves the navigator there.
func (c *Client) Navigate(ctx context.Context, target string) (router.Decision, error) {
	if c.closed.Load() {
		return router.Decision{}, ErrClientClosed
	}
	return c.navigator.Navigate(ctx, target)
}

// User returns a copy of the logged-in user, or nil.
func (c *Client) User() *User { return c.state.User() }

// IsAuthenticated reports whether a user is set.
func (c *Client) IsAuthenticated() bool { return c.state.IsAuthenticated() }

// IsLoading reports whether an auth call is in flight.
func (c *Client) IsLoading() bool { return c.state.IsLoading() }

// CurrentUserID returns the logged-in user's id.
func (c *Client) CurrentUserID() (int64, bool) { return c.state.CurrentUserID() }

// View returns the current state projection.
func (c *Client) View() View { return c.state.View() }

// Subscribe calls fn with the new View after every state mutation.
func (c *Client) Subscribe(fn func(View)) (unsubscribe func()) {
	return c.state.Subscribe(fn)
}

// OnEvent calls fn synchronously for every published event of the given
// types, or of every type when none are named. It returns a subscription id.
func (c *Client) OnEvent(fn func(ctx context.Context, ev Event), types ...EventType) string {
	return c.bus.Subscribe(fn, types...)
}

// OffEvent removes a subscription made with OnEvent.
func (c *Client) OffEvent(id string) { c.bus.Unsubscribe(id) }

// Stories returns the story resource client.
func (c *Client) Stories() *story.Client { return c.stories }

// Storyboards returns the storyboard resource client.
func (c *Client) Storyboards() *storyboard.Client { return c.storyboards }

// Music returns the music catalogue client.
func (c *Client) Music() *music.Client { return c.music }

// Table returns the route table.
func (c *Client) Table() *router.Table { return c.table }

// Guard returns the route guard.
func (c *Client) Guard() *router.Guard { return c.guard }

// History returns the built-in navigator. It is not driven by the client
// when WithNavigator replaced it.
func (c *Client) History() *router.History { return c.history }

// Store returns the durable session store.
func (c *Client) Store() *session.Store { return c.store }

// Metrics returns the metrics registry.
func (c *Client) Metrics() *Metrics { return c.metrics }

// MetricsSnapshot copies the current metric values.
func (c *Client) MetricsSnapshot() MetricsSnapshot { return c.metrics.Snapshot() }

// DroppedEvents reports events the dispatcher discarded on a full buffer.
func (c *Client) DroppedEvents() uint64 { return c.dispatcher.Dropped() }

// Close drains the event dispatcher and closes storage opened by Build.
// Storage passed to WithStorage is left open. Close is idempotent.
func (c *Client) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return nil
	}
	return c.closeResources()
}

func (c *Client) closeResources() error {
	c.dispatcher.Close()
	return closeAll(c.closers)
}

func (c *Client) emit(ctx context.Context, ev events.Event) {
	c.bus.Publish(ctx, ev)
	c.dispatcher.Emit(ctx, ev)
}

func (c *Client) observe(method, path string, status int, elapsed time.Duration) {
	c.metrics.Inc(MetricAPIRequest)
	if status == 0 || status >= http.StatusBadRequest {
		c.metrics.Inc(MetricAPIFailure)
	}
	c.metrics.Observe(MetricRequestLatency, elapsed)
}

// onUnauthorized runs after the authorizer cleared the durable store.
func (c *Client) onUnauthorized(ctx context.Context, u transport.Unauthorized) {
	id, _ := c.state.CurrentUserID()
	c.state.ClearUser()
	c.metrics.Inc(MetricForcedLogout)

	ev := events.New(events.TypeUnauthorized, false)
	ev.UserID = id
	ev.RequestID = u.RequestID
	ev.Method = u.Method
	ev.Path = u.Path
	c.emit(ctx, ev)
}

func (c *Client) navigateToLogin(ctx context.Context, _ events.Event) {
	if c.closed.Load() {
		return
	}
	if _, err := c.navigator.Navigate(context.WithoutCancel(ctx), c.table.Login().Path); err != nil {
		log.Print("goStudio: navigate to login failed: ", err)
	}
}

func (c *Client) onRedirect(ctx context.Context, hop router.Hop) {
	c.metrics.Inc(MetricGuardRedirect)
	ev := events.New(events.TypeGuardRedirect, true)
	ev.Path = hop.From
	ev.Metadata = map[string]string{
		"to":     hop.To,
		"reason": string(hop.Reason),
	}
	if id, ok := c.state.CurrentUserID(); ok {
		ev.UserID = id
	}
	c.emit(ctx, ev)
}
