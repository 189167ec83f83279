package apitest

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

type authRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Token    string `json:"token"`
	UserID   int64  `json:"userId"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	Message  string `json:"message,omitempty"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req authRequest
	if !decode(w, r, &req) {
		return
	}
	if req.Username == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "用户名和密码不能为空")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, taken := s.users[req.Username]; taken {
		writeError(w, http.StatusBadRequest, "用户名已存在")
		return
	}
	for _, u := range s.users {
		if req.Email != "" && u.Email == req.Email {
			writeError(w, http.StatusBadRequest, "邮箱已被注册")
			return
		}
	}

	u := s.addUserLocked(req.Username, req.Email, req.Password, "")
	s.writeAuth(w, u, "注册成功")
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req authRequest
	if !decode(w, r, &req) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[req.Username]
	if !ok || u.Password != req.Password {
		writeError(w, http.StatusBadRequest, "用户名或密码错误")
		return
	}
	s.writeAuth(w, u, "登录成功")
}

func (s *Server) writeAuth(w http.ResponseWriter, u *user, message string) {
	token, err := s.issueToken(u)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, authResponse{
		Token:    token,
		UserID:   u.ID,
		Username: u.Username,
		Email:    u.Email,
		Role:     u.Role,
		Message:  message,
	})
}

func (s *Server) handleCheckUsername(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "username")
	s.mu.Lock()
	_, taken := s.users[name]
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, taken)
}

func (s *Server) handleCheckEmail(w http.ResponseWriter, r *http.Request) {
	email := chi.URLParam(r, "email")
	taken := false
	s.mu.Lock()
	for _, u := range s.users {
		if u.Email == email {
			taken = true
			break
		}
	}
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, taken)
}
