// Package music is the client for the background-music catalogue.
package music

import (
	"context"
	"errors"
	"net/url"

	"github.com/MrEthical07/goStudio/internal/api"
	"github.com/MrEthical07/goStudio/result"
)

// ErrCatalogue is returned when the server answers 2xx but reports failure
// in the payload.
var ErrCatalogue = errors.New("music: catalogue unavailable")

// DefaultListFailed is the display message for a failed listing.
const DefaultListFailed = "获取音乐列表失败"

// Track is one playable file.
type Track struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
	Size        int64  `json:"size"`
	URL         string `json:"url"`
}

type listReply struct {
	Success   bool    `json:"success"`
	Message   string  `json:"message"`
	MusicList []Track `json:"musicList"`
}

// Client calls the music endpoints.
type Client struct {
	api        *api.Client
	listFailed string
}

// New returns a Client. An empty listFailed uses DefaultListFailed.
func New(c *api.Client, listFailed string) *Client {
	if listFailed == "" {
		listFailed = DefaultListFailed
	}
	return &Client{api: c, listFailed: listFailed}
}

// List returns the available tracks.
func (c *Client) List(ctx context.Context) result.Result[[]Track] {
	var reply listReply
	if err := c.api.Get(ctx, "/music/list", nil, &reply); err != nil {
		return api.Fail[[]Track](err, c.listFailed)
	}
	if !reply.Success {
		message := reply.Message
		if message == "" {
			message = c.listFailed
		}
		return result.Fail[[]Track](ErrCatalogue, message, nil)
	}
	return result.OKWithMessage(reply.MusicList, reply.Message)
}

// FileURL returns the absolute URL streaming the named track.
func (c *Client) FileURL(name string) string {
	return c.api.URL("/music/file/"+url.PathEscape(name), nil)
}
