// Package story is the client for the stories resource. Every read and write
// is scoped to the logged-in user: records owned by someone else are
// reported as forbidden without being returned or modified.
package story

import (
	"context"
	"errors"
	"net/url"
	"strconv"

	"github.com/MrEthical07/goStudio/internal/api"
	"github.com/MrEthical07/goStudio/result"
)

var (
	// ErrNotLoggedIn is returned, without a request, when there is no session.
	ErrNotLoggedIn = errors.New("story: not logged in")
	// ErrForbidden is returned when the record belongs to another user.
	ErrForbidden = errors.New("story: not owned by current user")
)

// Story is one story synopsis.
type Story struct {
	ID         int64  `json:"id,omitempty"`
	Title      string `json:"title"`
	Content    string `json:"content"`
	UserID     int64  `json:"userId"`
	AuthorName string `json:"authorName,omitempty"`
	CreatedAt  string `json:"createdAt,omitempty"`
	UpdatedAt  string `json:"updatedAt,omitempty"`
}

// Identity reports the logged-in user.
type Identity interface {
	CurrentUserID() (int64, bool)
}

// Messages are the display messages used on failure.
type Messages struct {
	NotLoggedIn     string
	ForbiddenRead   string
	ForbiddenUpdate string
	ForbiddenDelete string
	ListFailed      string
	GetFailed       string
	CreateFailed    string
	UpdateFailed    string
	DeleteFailed    string
	Deleted         string
	SearchFailed    string
	CountFailed     string
}

// DefaultMessages returns the application's localized messages.
func DefaultMessages() Messages {
	return Messages{
		NotLoggedIn:     "用户未登录",
		ForbiddenRead:   "无权访问该故事",
		ForbiddenUpdate: "无权修改该故事",
		ForbiddenDelete: "无权删除该故事",
		ListFailed:      "获取故事列表失败",
		GetFailed:       "获取故事详情失败",
		CreateFailed:    "创建故事失败",
		UpdateFailed:    "更新故事失败",
		DeleteFailed:    "删除故事失败",
		Deleted:         "故事删除成功",
		SearchFailed:    "搜索故事失败",
		CountFailed:     "获取故事数量失败",
	}
}

const basePath = "/stories"

// Client calls the stories endpoints.
type Client struct {
	api *api.Client
	who Identity
	msg Messages
}

// New returns a Client. Empty messages fall back to DefaultMessages.
func New(c *api.Client, who Identity, msg Messages) *Client {
	return &Client{api: c, who: who, msg: withDefaults(msg)}
}

func withDefaults(m Messages) Messages {
	d := DefaultMessages()
	fill := func(dst *string, def string) {
		if *dst == "" {
			*dst = def
		}
	}
	fill(&m.NotLoggedIn, d.NotLoggedIn)
	fill(&m.ForbiddenRead, d.ForbiddenRead)
	fill(&m.ForbiddenUpdate, d.ForbiddenUpdate)
	fill(&m.ForbiddenDelete, d.ForbiddenDelete)
	fill(&m.ListFailed, d.ListFailed)
	fill(&m.GetFailed, d.GetFailed)
	fill(&m.CreateFailed, d.CreateFailed)
	fill(&m.UpdateFailed, d.UpdateFailed)
	fill(&m.DeleteFailed, d.DeleteFailed)
	fill(&m.Deleted, d.Deleted)
	fill(&m.SearchFailed, d.SearchFailed)
	fill(&m.CountFailed, d.CountFailed)
	return m
}

func itemPath(id int64) string {
	return basePath + "/" + strconv.FormatInt(id, 10)
}

// List returns the current user's stories.
func (c *Client) List(ctx context.Context) result.Result[[]Story] {
	uid, ok := c.who.CurrentUserID()
	if !ok {
		return result.Fail[[]Story](ErrNotLoggedIn, c.msg.NotLoggedIn, nil)
	}

	var out []Story
	if err := c.api.Get(ctx, basePath+"/user/"+strconv.FormatInt(uid, 10), nil, &out); err != nil {
		return api.Fail[[]Story](err, c.msg.ListFailed)
	}
	return result.OK(out)
}

// Get returns one story owned by the current user.
func (c *Client) Get(ctx context.Context, id int64) result.Result[Story] {
	uid, ok := c.who.CurrentUserID()
	if !ok {
		return result.Fail[Story](ErrNotLoggedIn, c.msg.NotLoggedIn, nil)
	}

	s, err := c.fetchOwned(ctx, id, uid)
	switch {
	case errors.Is(err, ErrForbidden):
		return result.Fail[Story](err, c.msg.ForbiddenRead, nil)
	case err != nil:
		return api.Fail[Story](err, c.msg.GetFailed)
	}
	return result.OK(s)
}

// Create stores a new story for the current user. Any UserID in s is
// replaced.
func (c *Client) Create(ctx context.Context, s Story) result.Result[Story] {
	uid, ok := c.who.CurrentUserID()
	if !ok {
		return result.Fail[Story](ErrNotLoggedIn, c.msg.NotLoggedIn, nil)
	}
	s.UserID = uid

	var out Story
	if err := c.api.Post(ctx, basePath, s, &out); err != nil {
		return api.Fail[Story](err, c.msg.CreateFailed)
	}
	return result.OK(out)
}

// Update replaces story id after checking it belongs to the current user.
func (c *Client) Update(ctx context.Context, id int64, s Story) result.Result[Story] {
	uid, ok := c.who.CurrentUserID()
	if !ok {
		return result.Fail[Story](ErrNotLoggedIn, c.msg.NotLoggedIn, nil)
	}

	if _, err := c.fetchOwned(ctx, id, uid); err != nil {
		if errors.Is(err, ErrForbidden) {
			return result.Fail[Story](err, c.msg.ForbiddenUpdate, nil)
		}
		return api.Fail[Story](err, c.msg.UpdateFailed)
	}

	s.UserID = uid
	var out Story
	if err := c.api.Put(ctx, itemPath(id), s, &out); err != nil {
		return api.Fail[Story](err, c.msg.UpdateFailed)
	}
	return result.OK(out)
}

// Delete removes story id after checking it belongs to the current user.
func (c *Client) Delete(ctx context.Context, id int64) result.Result[struct{}] {
	uid, ok := c.who.CurrentUserID()
	if !ok {
		return result.Fail[struct{}](ErrNotLoggedIn, c.msg.NotLoggedIn, nil)
	}

	if _, err := c.fetchOwned(ctx, id, uid); err != nil {
		if errors.Is(err, ErrForbidden) {
			return result.Fail[struct{}](err, c.msg.ForbiddenDelete, nil)
		}
		return api.Fail[struct{}](err, c.msg.DeleteFailed)
	}

	if err := c.api.Delete(ctx, itemPath(id), nil); err != nil {
		return api.Fail[struct{}](err, c.msg.DeleteFailed)
	}
	return result.OKWithMessage(struct{}{}, c.msg.Deleted)
}

// Search finds the current user's stories whose title matches.
func (c *Client) Search(ctx context.Context, title string) result.Result[[]Story] {
	uid, ok := c.who.CurrentUserID()
	if !ok {
		return result.Fail[[]Story](ErrNotLoggedIn, c.msg.NotLoggedIn, nil)
	}

	q := url.Values{
		"title":  {title},
		"userId": {strconv.FormatInt(uid, 10)},
	}
	var out []Story
	if err := c.api.Get(ctx, basePath+"/search", q, &out); err != nil {
		return api.Fail[[]Story](err, c.msg.SearchFailed)
	}
	return result.OK(out)
}

// Count returns the server's story count.
func (c *Client) Count(ctx context.Context) result.Result[int64] {
	var n int64
	if err := c.api.Get(ctx, basePath+"/count", nil, &n); err != nil {
		return api.Fail[int64](err, c.msg.CountFailed)
	}
	return result.OK(n)
}

func (c *Client) fetchOwned(ctx context.Context, id, uid int64) (Story, error) {
	var s Story
	if err := c.api.Get(ctx, itemPath(id), nil, &s); err != nil {
		return Story{}, err
	}
	if s.UserID != uid {
		return Story{}, ErrForbidden
	}
	return s, nil
}
