package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/casccoach/platform/backend/internal/domain"
	"github.com/casccoach/platform/backend/internal/middleware"
)

// GetHealth handles GET /healthz.
// It returns HTTP 200 with {"status":"ok"} when the server is running.
func (s *Server) GetHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// --- request helpers --------------------------------------------------------

// pathID parses a UUID path parameter, answering 422 when it is malformed.
func pathID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		requestError(w, name+" must be a UUID")
		return uuid.Nil, false
	}
	return id, true
}

// queryID parses an optional UUID query parameter.
func queryID(w http.ResponseWriter, r *http.Request, name string) (*uuid.UUID, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, true
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		requestError(w, name+" must be a UUID")
		return nil, false
	}
	return &id, true
}

// queryInt parses an optional integer query parameter.
func queryInt(w http.ResponseWriter, r *http.Request, name string) (*int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		requestError(w, name+" must be an integer")
		return nil, false
	}
	return &n, true
}

func pagination(w http.ResponseWriter, r *http.Request) (domain.PaginationParams, bool) {
	page, ok := queryInt(w, r, "page")
	if !ok {
		return domain.PaginationParams{}, false
	}
	limit, ok := queryInt(w, r, "limit")
	if !ok {
		return domain.PaginationParams{}, false
	}
	return domain.NewPaginationParams(page, limit), true
}

// caller returns the signed-in user. Routes that call it sit behind
// RequireRoles, so a missing identity only happens when wiring is wrong.
func caller(w http.ResponseWriter, r *http.Request) (domain.Identity, bool) {
	who, ok := middleware.Identity(r.Context())
	if !ok {
		writeErrorBody(w, http.StatusUnauthorized, "unauthorized", "sign in to continue")
	}
	return who, ok
}
