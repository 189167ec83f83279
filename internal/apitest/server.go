package apitest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Request is one request the fake received.
type Request struct {
	Method        string
	Path          string
	Authorization string
	RequestID     string
}

type user struct {
	ID       int64
	Username string
	Email    string
	Password string
	Role     string
}

type failure struct {
	status int
	body   string
}

// Server is the fake API.
type Server struct {
	srv    *httptest.Server
	router chi.Router
	secret []byte

	// TokenTTL is the lifetime of issued tokens. Zero issues tokens without
	// exp.
	TokenTTL time.Duration

	mu          sync.Mutex
	nextID      int64
	users       map[string]*user
	tokens      map[string]int64
	stories     map[int64]*story
	storyboards map[int64]*storyboard
	tracks      []track
	failNext    map[string]failure
	requests    []Request
}

// NewServer starts a fake API on a loopback port.
func NewServer() *Server {
	s := &Server{
		secret:      []byte("apitest-signing-key"),
		TokenTTL:    time.Hour,
		users:       make(map[string]*user),
		tokens:      make(map[string]int64),
		stories:     make(map[int64]*story),
		storyboards: make(map[int64]*storyboard),
		failNext:    make(map[string]failure),
		tracks: []track{
			{Name: "sunrise.mp3", DisplayName: "sunrise", Size: 1024},
			{Name: "rain night.wav", DisplayName: "rain night", Size: 2048},
		},
	}
	s.router = s.routes()
	s.srv = httptest.NewServer(s.router)
	return s
}

// Close shuts the server down.
func (s *Server) Close() {
	s.srv.Close()
}

// URL is the server root.
func (s *Server) URL() string {
	return s.srv.URL
}

// BaseURL is the API base the client should be configured with.
func (s *Server) BaseURL() string {
	return s.srv.URL + "/api"
}

// Handler exposes the router for hosting elsewhere.
func (s *Server) Handler() http.Handler {
	return s.router
}

// AddUser registers an account directly and returns its id.
func (s *Server) AddUser(username, email, password, role string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addUserLocked(username, email, password, role).ID
}

// RevokeAll invalidates every issued token.
func (s *Server) RevokeAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens = make(map[string]int64)
}

// FailNext makes the next request to path answer status with body.
func (s *Server) FailNext(path string, status int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failNext[path] = failure{status: status, body: body}
}

// Requests returns every request received so far.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request(nil), s.requests...)
}

// CountRequests counts received requests whose path starts with prefix.
func (s *Server) CountRequests(prefix string) int {
	n := 0
	for _, r := range s.Requests() {
		if strings.HasPrefix(r.Path, prefix) {
			n++
		}
	}
	return n
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.record)
	r.Use(s.injectFailures)

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", s.handleRegister)
			r.Post("/login", s.handleLogin)
			r.Get("/check-username/{username}", s.handleCheckUsername)
			r.Get("/check-email/{email}", s.handleCheckEmail)
		})
		r.Group(func(r chi.Router) {
			r.Use(s.requireToken)
			r.Route("/stories", s.storyRoutes)
			r.Route("/storyboards", s.storyboardRoutes)
		})
		r.Route("/music", func(r chi.Router) {
			r.Get("/list", s.handleMusicList)
			r.Get("/file/{name}", s.handleMusicFile)
		})
	})
	return r
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.requests = append(s.requests, Request{
			Method:        r.Method,
			Path:          r.URL.Path,
			Authorization: r.Header.Get("Authorization"),
			RequestID:     r.Header.Get("X-Request-ID"),
		})
		s.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func (s *Server) injectFailures(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		f, ok := s.failNext[r.URL.Path]
		if ok {
			delete(s.failNext, r.URL.Path)
		}
		s.mu.Unlock()

		if ok {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(f.status)
			_, _ = w.Write([]byte(f.body))
			return
		}
		next.ServeHTTP(w, r)
	})
}

type ctxUserKey struct{}

func (s *Server) requireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok {
			writeError(w, http.StatusUnauthorized, "未授权")
			return
		}

		s.mu.Lock()
		uid, known := s.tokens[token]
		s.mu.Unlock()
		if !known || !s.tokenValid(token) {
			writeError(w, http.StatusUnauthorized, "登录已过期")
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxUserKey{}, uid)))
	})
}

func currentUser(r *http.Request) int64 {
	id, _ := r.Context().Value(ctxUserKey{}).(int64)
	return id
}

func (s *Server) issueToken(u *user) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:  u.Username,
		Issuer:   "apitest",
		IssuedAt: jwt.NewNumericDate(time.Now()),
		ID:       uuid.NewString(),
	}
	if s.TokenTTL > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(s.TokenTTL))
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", err
	}
	s.tokens[token] = u.ID
	return token, nil
}

func (s *Server) tokenValid(token string) bool {
	_, err := jwt.Parse(token, func(*jwt.Token) (any, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	return err == nil
}

func (s *Server) addUserLocked(username, email, password, role string) *user {
	if role == "" {
		role = "USER"
	}
	s.nextID++
	u := &user{ID: s.nextID, Username: username, Email: email, Password: password, Role: role}
	s.users[username] = u
	return u
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "请求格式错误")
		return false
	}
	return true
}

func idParam(r *http.Request, name string) int64 {
	id, _ := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	return id
}
