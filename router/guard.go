package router

import (
	"context"
	"errors"
	"fmt"
	"net/url"
)

// ErrRedirectLoop is returned when redirects do not settle within MaxHops.
var ErrRedirectLoop = errors.New("route redirect loop")

// MaxHops bounds the redirects followed by one Resolve.
const MaxHops = 8

// RedirectParam carries the originally requested path to the login route.
const RedirectParam = "redirect"

// Reason explains a redirect.
type Reason string

const (
	ReasonNone          Reason = ""
	ReasonLoginRequired Reason = "login_required"
	ReasonGuestOnly     Reason = "guest_only"
	ReasonRouteRedirect Reason = "route_redirect"
)

// Session is what the guard needs from the session state.
type Session interface {
	Init(ctx context.Context) error
	IsAuthenticated() bool
}

// Hop is one redirect taken during resolution.
type Hop struct {
	From   string
	To     string
	Reason Reason
}

// Decision is the outcome of guarding a navigation.
type Decision struct {
	// Requested is the target passed to Resolve.
	Requested string
	// Location is the full path (with query) the navigation ends on.
	Location string
	Route    Route
	Params   map[string]string
	Hops     []Hop
}

// Redirected reports whether the navigation ended somewhere else.
func (d Decision) Redirected() bool {
	return len(d.Hops) > 0
}

// GuardOption configures a Guard.
type GuardOption func(*Guard)

// WithRedirectHook calls fn for every redirect taken.
func WithRedirectHook(fn func(ctx context.Context, hop Hop)) GuardOption {
	return func(g *Guard) {
		g.onRedirect = fn
	}
}

// Guard decides navigations against a Table.
type Guard struct {
	table      *Table
	session    Session
	onRedirect func(context.Context, Hop)
}

// NewGuard returns a Guard over table reading session.
func NewGuard(table *Table, session Session, opts ...GuardOption) *Guard {
	g := &Guard{table: table, session: session}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Table returns the guarded table.
func (g *Guard) Table() *Table {
	return g.table
}

// Resolve refreshes the session from the durable store and follows redirects
// until a route may be shown.
func (g *Guard) Resolve(ctx context.Context, target string) (Decision, error) {
	if err := g.session.Init(ctx); err != nil {
		return Decision{}, fmt.Errorf("init session: %w", err)
	}
	authenticated := g.session.IsAuthenticated()

	d := Decision{Requested: target}
	loc := target
	for hop := 0; hop <= MaxHops; hop++ {
		m, err := g.table.Match(loc)
		if err != nil {
			return Decision{}, err
		}

		next, reason := "", ReasonNone
		switch {
		case m.Route.Redirect != "":
			next, reason = m.Route.Redirect, ReasonRouteRedirect
		case m.Route.RequiresAuth && !authenticated:
			q := url.Values{RedirectParam: {loc}}
			next, reason = g.table.Login().Path+"?"+q.Encode(), ReasonLoginRequired
		case m.Route.RequiresGuest && authenticated:
			next, reason = g.table.Home().Path, ReasonGuestOnly
		}

		if reason == ReasonNone {
			d.Location = loc
			d.Route = m.Route
			d.Params = m.Params
			return d, nil
		}

		h := Hop{From: loc, To: next, Reason: reason}
		d.Hops = append(d.Hops, h)
		if g.onRedirect != nil {
			g.onRedirect(ctx, h)
		}
		loc = next
	}
	return Decision{}, fmt.Errorf("%w: %s", ErrRedirectLoop, target)
}

// RedirectTarget returns the path a login page should continue to, or "".
func RedirectTarget(location string) string {
	u, err := url.Parse(location)
	if err != nil {
		return ""
	}
	return u.Query().Get(RedirectParam)
}
