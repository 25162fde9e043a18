package rest

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sanLimbu/todo-tracker/internal"
	"github.com/sanLimbu/todo-tracker/internal/service"
)

// SessionService ...
type SessionService interface {
	Identity() (internal.Identity, bool)
	IsAuthenticated() bool
	Login(ctx context.Context, name, email string) error
	Logout(ctx context.Context) error
	ShowLogin()
	ShowRegister()
	State() service.State
}

// SessionHandler ...
type SessionHandler struct {
	svc SessionService
}

// NewSessionHandler ...
func NewSessionHandler(svc SessionService) *SessionHandler {
	return &SessionHandler{
		svc: svc,
	}
}

// Register connects the handlers to the router.
func (s *SessionHandler) Register(r chi.Router) {
	r.Get("/session", s.read)
	r.Post("/session", s.login)
	r.Delete("/session", s.logout)
	r.Put("/session/view", s.view)
}

// Middleware rejects requests with 401 unless the session is authenticated.
func (s *SessionHandler) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.svc.IsAuthenticated() {
			renderErrorResponse(r.Context(), w, "login required",
				internal.NewErrorf(internal.ErrorCodeUnauthenticated, "login required"))
			return
		}

		next.ServeHTTP(w, r)
	})
}

// User is the identity of the logged in user.
type User struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// SessionResponse defines the response describing the current session.
type SessionResponse struct {
	State string `json:"state"`
	User  *User  `json:"user,omitempty"`
}

func (s *SessionHandler) response() *SessionResponse {
	res := SessionResponse{State: s.svc.State().String()}

	if id, ok := s.svc.Identity(); ok {
		res.User = &User{Name: id.Name, Email: id.Email}
	}

	return &res
}

func (s *SessionHandler) read(w http.ResponseWriter, _ *http.Request) {
	renderResponse(w, s.response(), http.StatusOK)
}

// LoginRequest defines the request used for logging in, registering uses it as well.
type LoginRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (s *SessionHandler) login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		renderErrorResponse(r.Context(), w, "invalid request",
			internal.WrapErrorf(err, internal.ErrorCodeInvalidArgument, "json decoder"))
		return
	}
	defer r.Body.Close()

	if err := s.svc.Login(r.Context(), req.Name, req.Email); err != nil {
		renderErrorResponse(r.Context(), w, "login failed", err)
		return
	}

	renderResponse(w, s.response(), http.StatusCreated)
}

func (s *SessionHandler) logout(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Logout(r.Context()); err != nil {
		renderErrorResponse(r.Context(), w, "logout failed", err)
		return
	}

	renderResponse(w, s.response(), http.StatusOK)
}

// ViewRequest defines the request used for switching between the "login" and "register" views.
type ViewRequest struct {
	View string `json:"view"`
}

func (s *SessionHandler) view(w http.ResponseWriter, r *http.Request) {
	var req ViewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		renderErrorResponse(r.Context(), w, "invalid request",
			internal.WrapErrorf(err, internal.ErrorCodeInvalidArgument, "json decoder"))
		return
	}
	defer r.Body.Close()

	switch req.View {
	case "login":
		s.svc.ShowLogin()
	case "register":
		s.svc.ShowRegister()
	default:
		renderErrorResponse(r.Context(), w, "invalid view",
			internal.NewErrorf(internal.ErrorCodeInvalidArgument, "unknown view %q", req.View))
		return
	}

	renderResponse(w, s.response(), http.StatusOK)
}
