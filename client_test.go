package goStudio

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/MrEthical07/goStudio/internal/apitest"
	"github.com/MrEthical07/goStudio/result"
	"github.com/MrEthical07/goStudio/router"
	"github.com/MrEthical07/goStudio/storage"
)

type eventLog struct {
	mu     sync.Mutex
	events []Event
}

func (l *eventLog) record(_ context.Context, ev Event) {
	l.mu.Lock()
	l.events = append(l.events, ev)
	l.mu.Unlock()
}

func (l *eventLog) count(t EventType) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for _, ev := range l.events {
		if ev.Type == t {
			n++
		}
	}
	return n
}

func newTestClient(t *testing.T, mutate func(*Config)) (*Client, *apitest.Server, *storage.Memory, *eventLog) {
	t.Helper()
	srv := apitest.NewServer()
	t.Cleanup(srv.Close)

	cfg := DefaultConfig()
	cfg.API.BaseURL = srv.BaseURL()
	if mutate != nil {
		mutate(&cfg)
	}

	kv := storage.NewMemory()
	c, err := New().WithConfig(cfg).WithStorage(kv).Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })

	log := &eventLog{}
	c.OnEvent(log.record)
	return c, srv, kv, log
}

func TestLoginEstablishesSession(t *testing.T) {
	c, srv, kv, log := newTestClient(t, nil)
	ctx := context.Background()
	uid := srv.AddUser("alice", "alice@x", "pw", "editor")

	var sawLoading bool
	c.Subscribe(func(v View) {
		if v.IsLoading {
			sawLoading = true
		}
	})

	r := c.Login(ctx, Credentials{Username: "alice", Password: "pw"})
	if !r.Success || r.Data.Token == "" || r.Message != "登录成功" {
		t.Fatalf("unexpected result %+v", r)
	}
	if !sawLoading || c.IsLoading() {
		t.Fatalf("loading flag not toggled: saw=%v now=%v", sawLoading, c.IsLoading())
	}
	if !c.IsAuthenticated() {
		t.Fatal("expected authenticated")
	}
	u := c.User()
	if u.ID != uid || u.Username != "alice" || u.Email != "alice@x" || u.Role != "editor" {
		t.Fatalf("unexpected user %+v", u)
	}
	if token, ok, _ := kv.Get(ctx, "token"); !ok || token != r.Data.Token {
		t.Fatalf("token not persisted: %q %v", token, ok)
	}
	if _, ok, _ := kv.Get(ctx, "user"); !ok {
		t.Fatal("user not persisted")
	}
	if got := c.Metrics().Value(MetricLoginSuccess); got != 1 {
		t.Fatalf("expected 1 login success, got %d", got)
	}
	if log.count(EventLoginSuccess) != 1 {
		t.Fatal("expected login success event")
	}
}

func TestLoginFailureChangesNothing(t *testing.T) {
	c, srv, kv, log := newTestClient(t, nil)
	ctx := context.Background()
	srv.AddUser("alice", "alice@x", "pw", "")

	r := c.Login(ctx, Credentials{Username: "alice", Password: "wrong"})
	if r.Success || r.Message != "用户名或密码错误" {
		t.Fatalf("unexpected result %+v", r)
	}
	if c.IsAuthenticated() || c.IsLoading() || kv.Len() != 0 {
		t.Fatalf("failure mutated session: auth=%v loading=%v keys=%d", c.IsAuthenticated(), c.IsLoading(), kv.Len())
	}
	if log.count(EventLoginFailure) != 1 || c.Metrics().Value(MetricLoginFailure) != 1 {
		t.Fatal("expected failure accounted")
	}
}

func TestFailedReloginKeepsActiveSession(t *testing.T) {
	c, srv, kv, _ := newTestClient(t, nil)
	ctx := context.Background()
	srv.AddUser("alice", "alice@x", "pw", "")

	if r := c.Login(ctx, Credentials{Username: "alice", Password: "pw"}); !r.Success {
		t.Fatalf("first login: %+v", r)
	}
	before, _, _ := kv.Get(ctx, "token")
	userBefore, _, _ := kv.Get(ctx, "user")

	r := c.Login(ctx, Credentials{Username: "alice", Password: "wrong"})
	if r.Success {
		t.Fatalf("second login should fail: %+v", r)
	}
	after, ok, _ := kv.Get(ctx, "token")
	userAfter, _, _ := kv.Get(ctx, "user")
	if !ok || after != before || userAfter != userBefore {
		t.Fatalf("durable session changed: token %q -> %q", before, after)
	}
	if !c.IsAuthenticated() || c.IsLoading() {
		t.Fatalf("state changed: auth=%v loading=%v", c.IsAuthenticated(), c.IsLoading())
	}
	if u := c.User(); u == nil || u.Username != "alice" {
		t.Fatalf("unexpected user %+v", u)
	}
}

func TestLoginTransportFailureUsesFallback(t *testing.T) {
	c, srv, _, _ := newTestClient(t, nil)
	srv.Close()

	r := c.Login(context.Background(), Credentials{Username: "a", Password: "b"})
	if r.Success || r.Message != "登录失败" || !errors.Is(r.Err, ErrTransport) {
		t.Fatalf("unexpected result %+v", r)
	}
}

func TestRegisterLogsIn(t *testing.T) {
	c, srv, _, _ := newTestClient(t, nil)
	ctx := context.Background()
	srv.AddUser("taken", "taken@x", "pw", "")

	dup := c.Register(ctx, RegisterRequest{Username: "taken", Email: "new@x", Password: "pw"})
	if dup.Success || dup.Message != "用户名已存在" || c.IsAuthenticated() {
		t.Fatalf("unexpected duplicate result %+v", dup)
	}

	r := c.Register(ctx, RegisterRequest{Username: "bob", Email: "bob@x", Password: "pw"})
	if !r.Success || r.Message != "注册成功" {
		t.Fatalf("unexpected result %+v", r)
	}
	if u := c.User(); u == nil || u.Username != "bob" {
		t.Fatalf("unexpected user %+v", u)
	}
}

func TestCheckUsernameAndEmail(t *testing.T) {
	c, srv, _, _ := newTestClient(t, nil)
	ctx := context.Background()
	srv.AddUser("alice", "alice@x", "pw", "")

	if exists, known := result.Exists(c.CheckUsername(ctx, "alice")); !exists || !known {
		t.Fatalf("expected alice taken, got exists=%v known=%v", exists, known)
	}
	if exists, known := result.Exists(c.CheckEmail(ctx, "free@x")); exists || !known {
		t.Fatalf("expected email free, got exists=%v known=%v", exists, known)
	}

	srv.FailNext("/api/auth/check-username/bob", 500, `{"message":"boom"}`)
	r := c.CheckUsername(ctx, "bob")
	if exists, known := result.Exists(r); exists || known || r.Message != "boom" {
		t.Fatalf("expected unknown, got %+v", r)
	}
}

func TestLogoutIdempotent(t *testing.T) {
	c, srv, kv, log := newTestClient(t, nil)
	ctx := context.Background()
	srv.AddUser("alice", "alice@x", "pw", "")
	c.Login(ctx, Credentials{Username: "alice", Password: "pw"})
	before := len(srv.Requests())

	for i := 0; i < 2; i++ {
		if err := c.Logout(ctx); err != nil {
			t.Fatalf("logout %d: %v", i, err)
		}
	}
	if c.IsAuthenticated() || kv.Len() != 0 {
		t.Fatal("expected session cleared")
	}
	if len(srv.Requests()) != before {
		t.Fatal("logout must not call the API")
	}
	if log.count(EventLogout) != 1 || c.Metrics().Value(MetricLogout) != 1 {
		t.Fatal("expected exactly one accounted logout")
	}
}

func TestUnauthorizedForcesLogoutOnce(t *testing.T) {
	c, srv, kv, log := newTestClient(t, nil)
	ctx := context.Background()
	srv.AddUser("alice", "alice@x", "pw", "")
	c.Login(ctx, Credentials{Username: "alice", Password: "pw"})
	if _, err := c.Navigate(ctx, "/stories"); err != nil {
		t.Fatalf("navigate: %v", err)
	}

	srv.RevokeAll()
	r := c.Stories().List(ctx)
	if r.Success || !errors.Is(r.Err, ErrUnauthorized) {
		t.Fatalf("expected unauthorized, got %+v", r)
	}
	if c.IsAuthenticated() || kv.Len() != 0 {
		t.Fatal("expected session destroyed")
	}
	if log.count(EventUnauthorized) != 1 || c.Metrics().Value(MetricForcedLogout) != 1 {
		t.Fatal("expected exactly one forced logout")
	}
	loc, ok := c.History().Current()
	if !ok || loc.Path != "/login" {
		t.Fatalf("expected login location, got %+v", loc)
	}

	again := c.Stories().List(ctx)
	if again.Success || !errors.Is(again.Err, ErrNotLoggedIn) {
		t.Fatalf("expected not logged in, got %+v", again)
	}
	if log.count(EventUnauthorized) != 1 {
		t.Fatal("local rejection must not count as a 401")
	}
}

func TestUnauthorizedPolicyDisabledPerClient(t *testing.T) {
	c, srv, _, log := newTestClient(t, func(cfg *Config) {
		cfg.Authorizer.Storyboards.LogoutOnUnauthorized = false
	})
	ctx := context.Background()
	srv.AddUser("alice", "alice@x", "pw", "")
	c.Login(ctx, Credentials{Username: "alice", Password: "pw"})

	srv.RevokeAll()
	r := c.Storyboards().ByStory(ctx, 1)
	if r.Success || !errors.Is(r.Err, ErrUnauthorized) {
		t.Fatalf("expected unauthorized, got %+v", r)
	}
	if !c.IsAuthenticated() || log.count(EventUnauthorized) != 0 {
		t.Fatal("disabled policy must keep the session")
	}
}

func TestNavigateGuardsRoutes(t *testing.T) {
	c, srv, _, log := newTestClient(t, nil)
	ctx := context.Background()
	srv.AddUser("alice", "alice@x", "pw", "")

	d, err := c.Navigate(ctx, "/my-works")
	if err != nil {
		t.Fatalf("navigate: %v", err)
	}
	if d.Location != "/login?redirect=%2Fmy-works" || router.RedirectTarget(d.Location) != "/my-works" {
		t.Fatalf("unexpected decision %+v", d)
	}
	if log.count(EventGuardRedirect) != 1 || c.Metrics().Value(MetricGuardRedirect) != 1 {
		t.Fatal("expected one redirect accounted")
	}

	c.Login(ctx, Credentials{Username: "alice", Password: "pw"})
	d, err = c.Navigate(ctx, "/register")
	if err != nil {
		t.Fatalf("navigate: %v", err)
	}
	if d.Route.Name != router.NameHome {
		t.Fatalf("guest route should send home, got %+v", d)
	}
	loc, _ := c.History().Current()
	if loc.Title != "视频发现 - AI短片制作助手" {
		t.Fatalf("unexpected title %q", loc.Title)
	}
}

func TestInitRestoresPersistedSession(t *testing.T) {
	srv := apitest.NewServer()
	t.Cleanup(srv.Close)
	srv.AddUser("alice", "alice@x", "pw", "")
	kv := storage.NewMemory()
	ctx := context.Background()

	cfg := DefaultConfig()
	cfg.API.BaseURL = srv.BaseURL()

	first, err := New().WithConfig(cfg).WithStorage(kv).Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	first.Login(ctx, Credentials{Username: "alice", Password: "pw"})
	_ = first.Close()

	second, err := New().WithConfig(cfg).WithStorage(kv).Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	defer second.Close()
	if second.IsAuthenticated() {
		t.Fatal("state must start logged out")
	}
	if err := second.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}
	if !second.IsAuthenticated() || second.Metrics().Value(MetricSessionRestored) != 1 {
		t.Fatal("expected restored session")
	}
	if r := second.Stories().List(ctx); !r.Success {
		t.Fatalf("restored token rejected: %+v", r)
	}
}

func TestEventSinkReceivesEvents(t *testing.T) {
	srv := apitest.NewServer()
	t.Cleanup(srv.Close)
	srv.AddUser("alice", "alice@x", "pw", "")

	cfg := DefaultConfig()
	cfg.API.BaseURL = srv.BaseURL()
	sink := NewChannelSink(8)
	c, err := New().WithConfig(cfg).WithEventSink(sink).Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	c.Login(context.Background(), Credentials{Username: "alice", Password: "pw"})
	if err := c.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	ev := <-sink.Events()
	if ev.Type != EventLoginSuccess || ev.ID == "" {
		t.Fatalf("unexpected event %+v", ev)
	}
}

type recordingNavigator struct {
	targets []string
}

func (n *recordingNavigator) Navigate(_ context.Context, target string) (router.Decision, error) {
	n.targets = append(n.targets, target)
	return router.Decision{Requested: target, Location: target}, nil
}

func TestWithNavigatorReceivesForcedLogout(t *testing.T) {
	srv := apitest.NewServer()
	t.Cleanup(srv.Close)
	srv.AddUser("alice", "alice@x", "pw", "")

	cfg := DefaultConfig()
	cfg.API.BaseURL = srv.BaseURL()
	nav := &recordingNavigator{}
	c, err := New().WithConfig(cfg).WithNavigator(nav).Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	defer c.Close()
	ctx := context.Background()
	c.Login(ctx, Credentials{Username: "alice", Password: "pw"})
	srv.RevokeAll()
	c.Stories().Count(ctx)

	if len(nav.targets) != 1 || nav.targets[0] != "/login" {
		t.Fatalf("unexpected navigations %v", nav.targets)
	}
}

func TestBuilderSingleUse(t *testing.T) {
	b := New().WithStorage(storage.NewMemory())
	c, err := b.Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	defer c.Close()
	if _, err := b.Build(); err == nil {
		t.Fatal("expected second Build to fail")
	}
}

func TestClosedClientRejectsCalls(t *testing.T) {
	c, _, _, _ := newTestClient(t, nil)
	_ = c.Close()
	if err := c.Init(context.Background()); !errors.Is(err, ErrClientClosed) {
		t.Fatalf("expected ErrClientClosed, got %v", err)
	}
	if r := c.Login(context.Background(), Credentials{}); !errors.Is(r.Err, ErrClientClosed) {
		t.Fatalf("expected ErrClientClosed, got %+v", r)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}
}

func TestBuildOpensBoltStorage(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Storage.Backend = StorageBolt
	cfg.Storage.BoltPath = t.TempDir() + "/session.db"
	cfg.Storage.EncryptionKey = make([]byte, 32)

	c, err := New().WithConfig(cfg).Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if err := c.Store().Save(context.Background(), "tok", User{ID: 1, Username: "a"}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}

func TestUnreadableSealedUserIsAbsent(t *testing.T) {
	srv := apitest.NewServer()
	t.Cleanup(srv.Close)
	srv.AddUser("alice", "alice@x", "pw", "")
	ctx := context.Background()

	inner := storage.NewMemory()
	sealed, err := storage.NewSealed(inner, make([]byte, 32))
	if err != nil {
		t.Fatalf("sealed: %v", err)
	}
	cfg := DefaultConfig()
	cfg.API.BaseURL = srv.BaseURL()
	c, err := New().WithConfig(cfg).WithStorage(sealed).Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	defer c.Close()

	if r := c.Login(ctx, Credentials{Username: "alice", Password: "pw"}); !r.Success {
		t.Fatalf("login: %+v", r)
	}
	_ = inner.Set(ctx, "user", "not-a-sealed-value")

	if err := c.Init(ctx); err != nil {
		t.Fatalf("init with unreadable user: %v", err)
	}
	if c.IsAuthenticated() {
		t.Fatal("unreadable user record must not authenticate")
	}
	d, err := c.Navigate(ctx, "/my-works")
	if err != nil {
		t.Fatalf("navigate: %v", err)
	}
	if d.Route.Name != router.NameLogin {
		t.Fatalf("expected redirect to login, got %+v", d)
	}
	if _, err := c.Navigate(ctx, "/login"); err != nil {
		t.Fatalf("navigate login: %v", err)
	}
}
