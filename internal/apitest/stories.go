package apitest

import (
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
)

type story struct {
	ID         int64  `json:"id"`
	Title      string `json:"title"`
	Content    string `json:"content"`
	UserID     int64  `json:"userId"`
	AuthorName string `json:"authorName,omitempty"`
	CreatedAt  string `json:"createdAt,omitempty"`
	UpdatedAt  string `json:"updatedAt,omitempty"`
}

func stamp() string {
	return time.Now().UTC().Format("2006-01-02T15:04:05")
}

// AddStory stores a story owned by userID and returns its id.
func (s *Server) AddStory(userID int64, title, content string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	s.stories[s.nextID] = &story{
		ID: s.nextID, Title: title, Content: content, UserID: userID,
		CreatedAt: stamp(), UpdatedAt: stamp(),
	}
	return s.nextID
}

func (s *Server) storyRoutes(r chi.Router) {
	r.Post("/", s.handleCreateStory)
	r.Get("/user/{userId}", s.handleStoriesByUser)
	r.Get("/search", s.handleSearchStories)
	r.Get("/count", s.handleCountStories)
	r.Get("/{id}", s.handleGetStory)
	r.Put("/{id}", s.handleUpdateStory)
	r.Delete("/{id}", s.handleDeleteStory)
}

func (s *Server) sortedStoriesLocked(keep func(*story) bool) []story {
	out := []story{}
	for _, st := range s.stories {
		if keep(st) {
			out = append(out, *st)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *Server) handleStoriesByUser(w http.ResponseWriter, r *http.Request) {
	uid := idParam(r, "userId")
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, s.sortedStoriesLocked(func(st *story) bool { return st.UserID == uid }))
}

func (s *Server) handleSearchStories(w http.ResponseWriter, r *http.Request) {
	title := r.URL.Query().Get("title")
	uid, _ := strconv.ParseInt(r.URL.Query().Get("userId"), 10, 64)
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, s.sortedStoriesLocked(func(st *story) bool {
		return st.UserID == uid && strings.Contains(st.Title, title)
	}))
}

func (s *Server) handleCountStories(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, len(s.stories))
}

func (s *Server) handleGetStory(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.stories[idParam(r, "id")]
	if !ok {
		writeError(w, http.StatusNotFound, "故事不存在")
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (s *Server) handleCreateStory(w http.ResponseWriter, r *http.Request) {
	var in story
	if !decode(w, r, &in) {
		return
	}
	if strings.TrimSpace(in.Title) == "" {
		writeError(w, http.StatusBadRequest, "标题不能为空")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	in.ID = s.nextID
	in.CreatedAt, in.UpdatedAt = stamp(), stamp()
	s.stories[in.ID] = &in
	writeJSON(w, http.StatusOK, in)
}

func (s *Server) handleUpdateStory(w http.ResponseWriter, r *http.Request) {
	var in story
	if !decode(w, r, &in) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.stories[idParam(r, "id")]
	if !ok {
		writeError(w, http.StatusNotFound, "故事不存在")
		return
	}
	st.Title, st.Content, st.UpdatedAt = in.Title, in.Content, stamp()
	writeJSON(w, http.StatusOK, st)
}

func (s *Server) handleDeleteStory(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := idParam(r, "id")
	if _, ok := s.stories[id]; !ok {
		writeError(w, http.StatusNotFound, "故事不存在")
		return
	}
	delete(s.stories, id)
	w.WriteHeader(http.StatusOK)
}
