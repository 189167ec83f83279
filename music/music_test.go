package music

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/MrEthical07/goStudio/internal/api"
	"github.com/MrEthical07/goStudio/internal/apitest"
)

func newTestClient(t *testing.T) (*Client, *apitest.Server) {
	t.Helper()
	srv := apitest.NewServer()
	t.Cleanup(srv.Close)
	c, err := api.New(api.Options{BaseURL: srv.BaseURL()})
	if err != nil {
		t.Fatalf("api: %v", err)
	}
	return New(c, ""), srv
}

func TestList(t *testing.T) {
	c, _ := newTestClient(t)
	r := c.List(context.Background())
	if !r.Success || len(r.Data) != 2 {
		t.Fatalf("unexpected list %+v", r)
	}
	if r.Data[1].URL != "/api/music/file/rain%20night.wav" {
		t.Fatalf("unexpected url %q", r.Data[1].URL)
	}
}

func TestListPayloadFailure(t *testing.T) {
	c, srv := newTestClient(t)
	srv.SetMusicUnavailable()
	r := c.List(context.Background())
	if r.Success || !errors.Is(r.Err, ErrCatalogue) || r.Message != "音乐目录不存在" {
		t.Fatalf("unexpected result %+v", r)
	}
}

func TestListTransportFailure(t *testing.T) {
	c, srv := newTestClient(t)
	srv.FailNext("/api/music/list", http.StatusInternalServerError, "")
	r := c.List(context.Background())
	if r.Success || r.Message != DefaultListFailed {
		t.Fatalf("unexpected result %+v", r)
	}
}

func TestFileURL(t *testing.T) {
	c, srv := newTestClient(t)
	got := c.FileURL("rain night.wav")
	if got != srv.BaseURL()+"/music/file/rain%20night.wav" {
		t.Fatalf("unexpected url %q", got)
	}

	resp, err := http.Get(got)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK || resp.Header.Get("Content-Type") != "audio/wav" {
		t.Fatalf("unexpected file response %d %s", resp.StatusCode, resp.Header.Get("Content-Type"))
	}
}
