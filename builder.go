package goStudio

import (
	"context"
	"errors"
	"net/http"

	"github.com/MrEthical07/goStudio/internal/api"
	"github.com/MrEthical07/goStudio/internal/events"
	"github.com/MrEthical07/goStudio/internal/flows"
	"github.com/MrEthical07/goStudio/internal/transport"
	"github.com/MrEthical07/goStudio/jwt"
	"github.com/MrEthical07/goStudio/music"
	"github.com/MrEthical07/goStudio/router"
	"github.com/MrEthical07/goStudio/session"
	"github.com/MrEthical07/goStudio/storage"
	"github.com/MrEthical07/goStudio/story"
	"github.com/MrEthical07/goStudio/storyboard"
)

// Builder assembles a Client.
//
// Builder instances are intended to be configured during initialization and
// then treated as immutable; Build may be called once.
type Builder struct {
	config Config

	kv         storage.KV
	httpClient *http.Client
	sink       EventSink
	navigator  Navigator

	built bool
}

// New describes the new operation and its observable behavior.
//
// New returns a Builder holding DefaultConfig.
func New() *Builder {
	return &Builder{
		config: defaultConfig(),
	}
}

// WithConfig describes the withconfig operation and its observable behavior.
//
// WithConfig replaces the whole configuration with a copy of cfg.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithStorage uses kv as the durable store instead of opening the backend
// named in Config.Storage. The caller keeps ownership of kv.
func (b *Builder) WithStorage(kv storage.KV) *Builder {
	b.kv = kv
	return b
}

// WithHTTPClient supplies the transport that API requests go out through.
// Only its Transport is used; timeouts come from Config.API.
func (b *Builder) WithHTTPClient(c *http.Client) *Builder {
	b.httpClient = c
	return b
}

// WithEventSink enables asynchronous delivery of lifecycle events to sink.
func (b *Builder) WithEventSink(sink EventSink) *Builder {
	b.sink = sink
	b.config.Events.Enabled = sink != nil
	return b
}

// WithNavigator replaces the built-in router.History as the target of
// Client.Navigate and of forced logouts.
func (b *Builder) WithNavigator(n Navigator) *Builder {
	b.navigator = n
	return b
}

// WithMetricsEnabled describes the withmetricsenabled operation and its observable behavior.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

// WithLatencyHistograms describes the withlatencyhistograms operation and its observable behavior.
func (b *Builder) WithLatencyHistograms(enabled bool) *Builder {
	b.config.Metrics.EnableLatencyHistograms = enabled
	return b
}

// Build describes the build operation and its observable behavior.
//
// Build validates the configuration, opens storage when none was supplied,
// and wires state, transport, flows, resource clients and navigation.
// Build may return an error when validation or storage setup fails.
func (b *Builder) Build() (*Client, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}

	cfg := cloneConfig(b.config)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Client{
		config:  cfg,
		metrics: NewMetrics(cfg.Metrics),
		bus:     events.NewBus(),
	}

	// -------- STORAGE --------
	kv := b.kv
	if kv == nil {
		opened, closers, err := openStorage(context.Background(), cfg.Storage)
		if err != nil {
			return nil, err
		}
		kv = opened
		c.closers = closers
	}
	c.store = session.NewStore(kv, session.Keys{
		Token: cfg.Session.TokenKey,
		User:  cfg.Session.UserKey,
	})

	// -------- SESSION STATE --------
	var stateOpts []session.Option
	if cfg.Session.RejectExpiredTokens {
		inspector, err := jwt.NewInspector(cfg.Session.ExpiryLeeway)
		if err != nil {
			closeAll(c.closers)
			return nil, err
		}
		stateOpts = append(stateOpts, session.WithTokenCheck(inspector.Expired))
	}
	c.state = session.NewState(c.store, stateOpts...)

	// -------- EVENTS --------
	if b.sink != nil {
		c.dispatcher = events.NewDispatcher(events.DispatcherConfig{
			Enabled:    cfg.Events.Enabled,
			BufferSize: cfg.Events.BufferSize,
			DropIfFull: cfg.Events.DropIfFull,
		}, b.sink)
	}

	// -------- ROUTER --------
	routes := cfg.Routes.Table
	if routes == nil {
		routes = router.DefaultRoutes()
	}
	table, err := router.NewTable(routes, router.TableOptions{
		BaseTitle: cfg.Routes.BaseTitle,
		LoginName: cfg.Routes.LoginName,
		HomeName:  cfg.Routes.HomeName,
	})
	if err != nil {
		c.closeResources()
		return nil, err
	}
	c.table = table
	c.guard = router.NewGuard(table, c.state, router.WithRedirectHook(c.onRedirect))
	c.history = router.NewHistory(c.guard)
	c.navigator = b.navigator
	if c.navigator == nil {
		c.navigator = c.history
	}
	c.bus.Subscribe(c.navigateToLogin, events.TypeUnauthorized)

	// -------- API CLIENTS --------
	var base http.RoundTripper = http.DefaultTransport
	if b.httpClient != nil && b.httpClient.Transport != nil {
		base = b.httpClient.Transport
	}
	newAPI := func(policy AuthorizerPolicy) (*api.Client, error) {
		return api.New(api.Options{
			BaseURL: cfg.API.BaseURL,
			HTTPClient: &http.Client{
				Timeout: cfg.API.Timeout,
				Transport: &transport.Authorizer{
					Base:           base,
					Tokens:         c.store,
					Store:          c.store,
					Policy:         policy,
					OnUnauthorized: c.onUnauthorized,
				},
			},
			Observe: c.observe,
		})
	}

	authAPI, err := newAPI(cfg.Authorizer.Auth)
	if err != nil {
		c.closeResources()
		return nil, err
	}
	storiesAPI, err := newAPI(cfg.Authorizer.Stories)
	if err != nil {
		c.closeResources()
		return nil, err
	}
	storyboardsAPI, err := newAPI(cfg.Authorizer.Storyboards)
	if err != nil {
		c.closeResources()
		return nil, err
	}
	musicAPI, err := newAPI(cfg.Authorizer.Music)
	if err != nil {
		c.closeResources()
		return nil, err
	}

	c.stories = story.New(storiesAPI, c.state, cfg.Messages.Stories)
	c.storyboards = storyboard.New(storyboardsAPI, cfg.Messages.Storyboards)
	c.music = music.New(musicAPI, cfg.Messages.MusicListFailed)

	// -------- FLOWS --------
	c.flows = buildFlows(c, authAPI, cfg.Messages)

	b.built = true
	return c, nil
}

func buildFlows(c *Client, authAPI *api.Client, msg Messages) flows.Deps {
	metricInc := func(id int) { c.metrics.Inc(MetricID(id)) }
	errs := flows.AuthErrors{
		NotReady:     ErrClientNotReady,
		MissingToken: ErrMissingToken,
	}

	return flows.Deps{
		Login: flows.LoginDeps{
			Post:           authAPI.Post,
			SaveSession:    c.store.Save,
			ClearSession:   c.store.Clear,
			MetricInc:      metricInc,
			Emit:           c.emit,
			FailureMessage: msg.LoginFailed,
			Metrics: flows.AuthMetrics{
				Success: int(MetricLoginSuccess),
				Failure: int(MetricLoginFailure),
			},
			Events: flows.AuthEvents{
				Success: events.TypeLoginSuccess,
				Failure: events.TypeLoginFailure,
			},
			Errors: errs,
		},
		Register: flows.RegisterDeps{
			Post:           authAPI.Post,
			SaveSession:    c.store.Save,
			ClearSession:   c.store.Clear,
			MetricInc:      metricInc,
			Emit:           c.emit,
			FailureMessage: msg.RegisterFailed,
			Metrics: flows.AuthMetrics{
				Success: int(MetricRegisterSuccess),
				Failure: int(MetricRegisterFailure),
			},
			Events: flows.AuthEvents{
				Success: events.TypeRegisterSuccess,
				Failure: events.TypeRegisterFailure,
			},
			Errors: errs,
		},
		Probe: flows.ProbeDeps{
			Get: func(ctx context.Context, path string, out any) error {
				return authAPI.Get(ctx, path, nil, out)
			},
			UsernameFailureMessage: msg.CheckUsernameFailed,
			EmailFailureMessage:    msg.CheckEmailFailed,
			NotReady:               ErrClientNotReady,
		},
		Logout: flows.LogoutDeps{
			ClearStore:  c.store.Clear,
			ClearState:  c.state.ClearUser,
			CurrentUser: c.state.CurrentUserID,
			MetricInc:   metricInc,
			Emit:        c.emit,
			Metric:      int(MetricLogout),
			Event:       events.TypeLogout,
		},
	}
}
