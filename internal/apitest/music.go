package apitest

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
)

type track struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
	Size        int64  `json:"size"`
	URL         string `json:"url"`
}

// SetMusicUnavailable makes the list endpoint report a missing catalogue the
// way the real server does: 200 with success=false.
func (s *Server) SetMusicUnavailable() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tracks = nil
}

func (s *Server) handleMusicList(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.tracks == nil {
		writeJSON(w, http.StatusOK, map[string]any{
			"success":   false,
			"message":   "音乐目录不存在",
			"musicList": []track{},
		})
		return
	}

	list := make([]track, 0, len(s.tracks))
	for _, t := range s.tracks {
		t.URL = "/api/music/file/" + url.PathEscape(t.Name)
		list = append(list, t)
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"message":   "获取音乐列表成功",
		"musicList": list,
	})
}

func (s *Server) handleMusicFile(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if decoded, err := url.PathUnescape(name); err == nil {
		name = decoded
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.tracks {
		if t.Name == name {
			ct := "audio/mpeg"
			if strings.HasSuffix(name, ".wav") {
				ct = "audio/wav"
			}
			w.Header().Set("Content-Type", ct)
			_, _ = w.Write(make([]byte, t.Size))
			return
		}
	}
	w.WriteHeader(http.StatusNotFound)
}
