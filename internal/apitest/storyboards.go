package apitest

import (
	"fmt"
	"net/http"
	"sort"

	"github.com/go-chi/chi/v5"
)

type storyboard struct {
	ID               int64  `json:"id"`
	StoryID          int64  `json:"storyId"`
	Scene            int    `json:"scene"`
	Script           string `json:"script,omitempty"`
	ImagePrompt      string `json:"imagePrompt,omitempty"`
	VideoPrompt      string `json:"videoPrompt,omitempty"`
	ConceptImage     string `json:"conceptImage,omitempty"`
	GeneratedVideo   string `json:"generatedVideo,omitempty"`
	VideoGeneratedAt string `json:"videoGeneratedAt,omitempty"`
	VideoStatus      string `json:"videoStatus,omitempty"`
	UserID           int64  `json:"userId,omitempty"`
	CreatedAt        string `json:"createdAt,omitempty"`
	UpdatedAt        string `json:"updatedAt,omitempty"`
}

const generatedScenes = 3

func (s *Server) storyboardRoutes(r chi.Router) {
	r.Post("/", s.handleCreateStoryboard)
	r.Get("/story/{storyId}", s.handleStoryboardsByStory)
	r.Put("/story/{storyId}/reorder", s.handleReorder)
	r.Post("/generate/{storyId}", s.handleGenerate)
	r.Get("/exists/{storyId}", s.handleExists)
	r.Put("/{id}", s.handleUpdateStoryboard)
	r.Delete("/{id}", s.handleDeleteStoryboard)
	r.Put("/{id}/script", s.patchField(func(sb *storyboard, v map[string]string) { sb.Script = v["script"] }))
	r.Put("/{id}/image-prompt", s.patchField(func(sb *storyboard, v map[string]string) { sb.ImagePrompt = v["imagePrompt"] }))
	r.Put("/{id}/video-prompt", s.patchField(func(sb *storyboard, v map[string]string) { sb.VideoPrompt = v["videoPrompt"] }))
	r.Put("/{id}/concept-image", s.patchField(func(sb *storyboard, v map[string]string) { sb.ConceptImage = v["conceptImage"] }))
	r.Put("/{id}/video", s.patchField(func(sb *storyboard, v map[string]string) {
		sb.GeneratedVideo, sb.VideoStatus, sb.VideoGeneratedAt = v["videoUrl"], v["status"], stamp()
	}))
	r.Post("/{id}/regenerate-prompts", s.mutate(func(sb *storyboard) {
		sb.ImagePrompt = fmt.Sprintf("image prompt for scene %d, revised", sb.Scene)
		sb.VideoPrompt = fmt.Sprintf("video prompt for scene %d, revised", sb.Scene)
	}))
	r.Post("/{id}/generate-ai-prompts", s.mutate(func(sb *storyboard) {
		sb.ImagePrompt = fmt.Sprintf("cinematic still, scene %d: %s", sb.Scene, sb.Script)
		sb.VideoPrompt = fmt.Sprintf("slow dolly in, scene %d", sb.Scene)
	}))
	r.Post("/{id}/generate-concept-image", s.mutate(func(sb *storyboard) {
		sb.ConceptImage = fmt.Sprintf("/images/concept-%d.png", sb.ID)
	}))
}

func (s *Server) scenesLocked(storyID int64) []storyboard {
	out := []storyboard{}
	for _, sb := range s.storyboards {
		if sb.StoryID == storyID {
			out = append(out, *sb)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Scene != out[j].Scene {
			return out[i].Scene < out[j].Scene
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (s *Server) handleStoryboardsByStory(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, s.scenesLocked(idParam(r, "storyId")))
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	storyID := idParam(r, "storyId")
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.stories[storyID]
	if !ok {
		writeError(w, http.StatusNotFound, "故事不存在")
		return
	}
	for i := 1; i <= generatedScenes; i++ {
		s.nextID++
		s.storyboards[s.nextID] = &storyboard{
			ID: s.nextID, StoryID: storyID, Scene: i, UserID: st.UserID,
			Script:    fmt.Sprintf("%s: scene %d", st.Title, i),
			CreatedAt: stamp(), UpdatedAt: stamp(),
		}
	}
	writeJSON(w, http.StatusOK, s.scenesLocked(storyID))
}

func (s *Server) handleExists(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]bool{"exists": len(s.scenesLocked(idParam(r, "storyId"))) > 0})
}

func (s *Server) handleReorder(w http.ResponseWriter, r *http.Request) {
	storyID := idParam(r, "storyId")
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, sb := range s.scenesLocked(storyID) {
		s.storyboards[sb.ID].Scene = i + 1
	}
	writeJSON(w, http.StatusOK, s.scenesLocked(storyID))
}

func (s *Server) handleCreateStoryboard(w http.ResponseWriter, r *http.Request) {
	var in storyboard
	if !decode(w, r, &in) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	in.ID = s.nextID
	in.UserID = currentUser(r)
	in.CreatedAt, in.UpdatedAt = stamp(), stamp()
	s.storyboards[in.ID] = &in
	writeJSON(w, http.StatusOK, in)
}

func (s *Server) handleUpdateStoryboard(w http.ResponseWriter, r *http.Request) {
	var in storyboard
	if !decode(w, r, &in) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	sb, ok := s.storyboards[idParam(r, "id")]
	if !ok {
		writeError(w, http.StatusNotFound, "分镜头脚本不存在")
		return
	}
	in.ID, in.StoryID, in.UserID, in.CreatedAt, in.UpdatedAt = sb.ID, sb.StoryID, sb.UserID, sb.CreatedAt, stamp()
	*sb = in
	writeJSON(w, http.StatusOK, sb)
}

func (s *Server) handleDeleteStoryboard(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := idParam(r, "id")
	if _, ok := s.storyboards[id]; !ok {
		writeError(w, http.StatusNotFound, "分镜头脚本不存在")
		return
	}
	delete(s.storyboards, id)
	w.WriteHeader(http.StatusOK)
}

func (s *Server) patchField(apply func(*storyboard, map[string]string)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		if !decode(w, r, &body) {
			return
		}
		s.mutate(func(sb *storyboard) { apply(sb, body) })(w, r)
	}
}

func (s *Server) mutate(apply func(*storyboard)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()
		sb, ok := s.storyboards[idParam(r, "id")]
		if !ok {
			writeError(w, http.StatusNotFound, "分镜头脚本不存在")
			return
		}
		apply(sb)
		sb.UpdatedAt = stamp()
		writeJSON(w, http.StatusOK, sb)
	}
}
