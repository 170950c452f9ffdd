package handler

import (
	"net/http"

	"github.com/casccoach/platform/backend/internal/access"
	"github.com/casccoach/platform/backend/internal/middleware"
)

// GetNavigation handles GET /navigation?path=.
// It tells the web client whether the caller may open a client view, or where
// to go instead.
func (s *Server) GetNavigation(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")
	if path == "" {
		requestError(w, "path is required")
		return
	}
	d := s.Views.Decide(middleware.AuthState(r.Context()), path)
	writeJSON(w, http.StatusOK, decisionToResponse(d))
}

// GetMe handles GET /me.
func (s *Server) GetMe(w http.ResponseWriter, r *http.Request) {
	state := middleware.AuthState(r.Context())
	who, ok := caller(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, Me{
		UserID:   who.UserID,
		Email:    emailOf(who.Email),
		FullName: who.FullName,
		Role:     state.Role,
		Home:     access.HomeFor(state.Role),
	})
}

// SignOut handles POST /auth/sign-out. The presented token stops working
// immediately; the client discards it.
func (s *Server) SignOut(w http.ResponseWriter, r *http.Request) {
	if err := s.Sessions.SignOut(r.Context(), middleware.Token(r.Context())); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
