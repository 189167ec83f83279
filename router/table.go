package router

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
)

var (
	// ErrConflictingGuards rejects a route that requires both auth and guest.
	ErrConflictingGuards = errors.New("route requires both auth and guest")
	// ErrDuplicateRoute rejects two routes with the same path or name.
	ErrDuplicateRoute = errors.New("duplicate route")
	// ErrUnknownRoute is returned when a named route is missing.
	ErrUnknownRoute = errors.New("unknown route")
	// ErrNoRoute is returned when a path matches nothing and there is no
	// catch-all.
	ErrNoRoute = errors.New("no route matches path")
	// ErrInvalidPattern rejects a path chi cannot parse, such as "/{id".
	ErrInvalidPattern = errors.New("invalid route pattern")
)

// TableOptions names the special routes and the base title.
type TableOptions struct {
	BaseTitle string
	LoginName string
	HomeName  string
}

// Match is a resolved route plus the chi pattern and parameters that matched.
type Match struct {
	Route   Route
	Pattern string
	Params  map[string]string
}

// Table is an immutable set of routes.
type Table struct {
	mux       *chi.Mux
	routes    []Route
	byPattern map[string]int
	byName    map[string]int
	baseTitle string
	login     Route
	home      Route
}

// NewTable validates routes and builds the matcher.
func NewTable(routes []Route, opts TableOptions) (*Table, error) {
	if opts.BaseTitle == "" {
		opts.BaseTitle = DefaultBaseTitle
	}
	if opts.LoginName == "" {
		opts.LoginName = NameLogin
	}
	if opts.HomeName == "" {
		opts.HomeName = NameHome
	}

	t := &Table{
		mux:       chi.NewRouter(),
		routes:    append([]Route(nil), routes...),
		byPattern: make(map[string]int, len(routes)),
		byName:    make(map[string]int, len(routes)),
		baseTitle: opts.BaseTitle,
	}

	noop := http.HandlerFunc(func(http.ResponseWriter, *http.Request) {})
	for i, r := range t.routes {
		if r.RequiresAuth && r.RequiresGuest {
			return nil, fmt.Errorf("%w: %s", ErrConflictingGuards, r.Path)
		}
		if r.Path == "" || r.Path[0] != '/' {
			return nil, fmt.Errorf("route path must start with /: %q", r.Path)
		}
		if _, dup := t.byPattern[r.Path]; dup {
			return nil, fmt.Errorf("%w: path %s", ErrDuplicateRoute, r.Path)
		}
		t.byPattern[r.Path] = i
		if r.Name != "" {
			if _, dup := t.byName[r.Name]; dup {
				return nil, fmt.Errorf("%w: name %s", ErrDuplicateRoute, r.Name)
			}
			t.byName[r.Name] = i
		}
		if err := mount(t.mux, r.Path, noop); err != nil {
			return nil, err
		}
	}

	var ok bool
	if t.login, ok = t.Lookup(opts.LoginName); !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownRoute, opts.LoginName)
	}
	if t.home, ok = t.Lookup(opts.HomeName); !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownRoute, opts.HomeName)
	}
	return t, nil
}

// mount registers pattern on mux, turning chi's pattern panics into errors.
func mount(mux *chi.Mux, pattern string, h http.HandlerFunc) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("%w: %s: %v", ErrInvalidPattern, pattern, p)
		}
	}()
	mux.Get(pattern, h)
	return nil
}

// Match finds the route for path. Query and fragment are ignored.
func (t *Table) Match(path string) (Match, error) {
	if u, err := url.Parse(path); err == nil {
		path = u.Path
	}
	if path == "" {
		path = "/"
	}

	rctx := chi.NewRouteContext()
	if !t.mux.Match(rctx, http.MethodGet, path) {
		return Match{}, fmt.Errorf("%w: %s", ErrNoRoute, path)
	}
	pattern := rctx.RoutePattern()
	i, ok := t.byPattern[pattern]
	if !ok {
		return Match{}, fmt.Errorf("%w: %s", ErrNoRoute, path)
	}

	m := Match{Route: t.routes[i], Pattern: pattern}
	if n := len(rctx.URLParams.Keys); n > 0 {
		m.Params = make(map[string]string, n)
		for j, k := range rctx.URLParams.Keys {
			m.Params[k] = rctx.URLParams.Values[j]
		}
	}
	return m, nil
}

// Lookup returns the route named name.
func (t *Table) Lookup(name string) (Route, bool) {
	i, ok := t.byName[name]
	if !ok {
		return Route{}, false
	}
	return t.routes[i], true
}

// Routes returns a copy of the table's routes.
func (t *Table) Routes() []Route {
	return append([]Route(nil), t.routes...)
}

// Login returns the route unauthenticated users are sent to.
func (t *Table) Login() Route { return t.login }

// Home returns the route authenticated guests are sent to.
func (t *Table) Home() Route { return t.home }

// Title returns the display title for the named route. Unknown names and
// untitled routes get the base title alone.
func (t *Table) Title(name string) string {
	r, ok := t.Lookup(name)
	if !ok || r.Title == "" {
		return t.baseTitle
	}
	return r.Title + " - " + t.baseTitle
}
