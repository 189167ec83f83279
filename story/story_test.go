package story

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/MrEthical07/goStudio/internal/api"
	"github.com/MrEthical07/goStudio/internal/apitest"
	"github.com/MrEthical07/goStudio/internal/transport"
)

type fixedIdentity struct {
	id int64
	ok bool
}

func (f fixedIdentity) CurrentUserID() (int64, bool) { return f.id, f.ok }

type staticToken string

func (s staticToken) Token(context.Context) (string, error) { return string(s), nil }

func newTestClient(t *testing.T, who Identity) (*Client, *apitest.Server, int64) {
	t.Helper()
	srv := apitest.NewServer()
	t.Cleanup(srv.Close)
	uid := srv.AddUser("a", "a@x", "p", "")

	plain, err := api.New(api.Options{BaseURL: srv.BaseURL()})
	if err != nil {
		t.Fatalf("api: %v", err)
	}
	var login struct {
		Token string `json:"token"`
	}
	if err := plain.Post(context.Background(), "/auth/login", map[string]string{"username": "a", "password": "p"}, &login); err != nil {
		t.Fatalf("login: %v", err)
	}

	authed, err := api.New(api.Options{
		BaseURL:    srv.BaseURL(),
		HTTPClient: &http.Client{Transport: &transport.Authorizer{Tokens: staticToken(login.Token)}},
	})
	if err != nil {
		t.Fatalf("api: %v", err)
	}
	if who == nil {
		who = fixedIdentity{id: uid, ok: true}
	}
	return New(authed, who, Messages{}), srv, uid
}

func TestCreateForcesCurrentUser(t *testing.T) {
	c, _, uid := newTestClient(t, nil)
	r := c.Create(context.Background(), Story{Title: "dawn", Content: "...", UserID: 999})
	if !r.Success {
		t.Fatalf("create failed: %+v", r)
	}
	if r.Data.UserID != uid || r.Data.ID == 0 {
		t.Fatalf("unexpected story %+v", r.Data)
	}
}

func TestListAndSearchScopedToUser(t *testing.T) {
	c, srv, uid := newTestClient(t, nil)
	ctx := context.Background()
	srv.AddStory(uid, "dawn chorus", "")
	srv.AddStory(uid, "night", "")
	srv.AddStory(uid+100, "dawn elsewhere", "")

	list := c.List(ctx)
	if !list.Success || len(list.Data) != 2 {
		t.Fatalf("unexpected list %+v", list)
	}
	found := c.Search(ctx, "dawn")
	if !found.Success || len(found.Data) != 1 || found.Data[0].Title != "dawn chorus" {
		t.Fatalf("unexpected search %+v", found)
	}
	count := c.Count(ctx)
	if !count.Success || count.Data != 3 {
		t.Fatalf("unexpected count %+v", count)
	}
}

func TestOwnershipChecks(t *testing.T) {
	c, srv, uid := newTestClient(t, nil)
	ctx := context.Background()
	mine := srv.AddStory(uid, "mine", "")
	theirs := srv.AddStory(uid+100, "theirs", "")

	if r := c.Get(ctx, mine); !r.Success || r.Data.Title != "mine" {
		t.Fatalf("get own story: %+v", r)
	}

	get := c.Get(ctx, theirs)
	if get.Success || !errors.Is(get.Err, ErrForbidden) || get.Message != "无权访问该故事" {
		t.Fatalf("unexpected get %+v", get)
	}
	upd := c.Update(ctx, theirs, Story{Title: "hijack"})
	if upd.Success || upd.Message != "无权修改该故事" {
		t.Fatalf("unexpected update %+v", upd)
	}
	del := c.Delete(ctx, theirs)
	if del.Success || del.Message != "无权删除该故事" {
		t.Fatalf("unexpected delete %+v", del)
	}
	if srv.CountRequests("/api/stories/") != 4 {
		t.Fatalf("forbidden writes must stop after the ownership read, saw %d story requests", srv.CountRequests("/api/stories/"))
	}

	if r := c.Update(ctx, mine, Story{Title: "mine v2"}); !r.Success || r.Data.Title != "mine v2" {
		t.Fatalf("update own story: %+v", r)
	}
	if r := c.Delete(ctx, mine); !r.Success || r.Message != "故事删除成功" {
		t.Fatalf("delete own story: %+v", r)
	}
	if r := c.Get(ctx, mine); r.Success || !errors.Is(r.Err, api.ErrNotFound) || r.Message != "故事不存在" {
		t.Fatalf("expected not found after delete, got %+v", r)
	}
}

func TestNotLoggedInSendsNothing(t *testing.T) {
	c, srv, _ := newTestClient(t, fixedIdentity{})
	ctx := context.Background()
	before := len(srv.Requests())

	checks := []struct {
		name string
		err  error
		msg  string
	}{
		{"list", c.List(ctx).Err, c.List(ctx).Message},
		{"get", c.Get(ctx, 1).Err, c.Get(ctx, 1).Message},
		{"create", c.Create(ctx, Story{}).Err, c.Create(ctx, Story{}).Message},
		{"update", c.Update(ctx, 1, Story{}).Err, c.Update(ctx, 1, Story{}).Message},
		{"delete", c.Delete(ctx, 1).Err, c.Delete(ctx, 1).Message},
		{"search", c.Search(ctx, "x").Err, c.Search(ctx, "x").Message},
	}
	for _, ch := range checks {
		if !errors.Is(ch.err, ErrNotLoggedIn) || ch.msg != "用户未登录" {
			t.Fatalf("%s: unexpected failure %v %q", ch.name, ch.err, ch.msg)
		}
	}
	if len(srv.Requests()) != before {
		t.Fatal("no request may be sent without a session")
	}
}

func TestServerMessagePreferred(t *testing.T) {
	c, srv, _ := newTestClient(t, nil)
	srv.FailNext("/api/stories", http.StatusBadRequest, `{"message":"标题不能为空"}`)
	r := c.Create(context.Background(), Story{Title: "x"})
	if r.Success || r.Message != "标题不能为空" {
		t.Fatalf("unexpected result %+v", r)
	}

	srv.FailNext("/api/stories/count", http.StatusInternalServerError, `oops`)
	cnt := c.Count(context.Background())
	if cnt.Success || cnt.Message != "获取故事数量失败" {
		t.Fatalf("unexpected count failure %+v", cnt)
	}
}
