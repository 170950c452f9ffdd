package handler

import (
	"net/http"

	"github.com/casccoach/platform/backend/internal/domain"
	"github.com/casccoach/platform/backend/internal/pricing"
)

// GetQuote handles GET /pricing/quote?mode=&session_type=&group_size=&stations=.
// Incomplete or unavailable combinations quote 0 rather than failing, so the
// client can show a running price while the candidate is still choosing.
func (s *Server) GetQuote(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	mode := domain.Mode(q.Get("mode"))
	sessionType := domain.SessionType(q.Get("session_type"))

	groupSize, ok := queryInt(w, r, "group_size")
	if !ok {
		return
	}
	stations, ok := queryInt(w, r, "stations")
	if !ok {
		return
	}

	writeJSON(w, http.StatusOK, Quote{
		Price:          pricing.Price(mode, sessionType, deref(groupSize), deref(stations)),
		StationOptions: pricing.StationOptions(mode, sessionType),
		GroupSizes:     pricing.GroupSizes(),
	})
}

func deref(n *int) int {
	if n == nil {
		return 0
	}
	return *n
}
