package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/casccoach/platform/backend/internal/scheduling"
)

// schedulingSignatureHeader carries the scheduling provider's webhook signature.
const schedulingSignatureHeader = "Calendly-Webhook-Signature"

// SchedulingWebhook handles POST /webhooks/scheduling.
// Only invitee.created notifications change anything; other events are
// acknowledged and dropped.
func (s *Server) SchedulingWebhook(w http.ResponseWriter, r *http.Request) {
	if s.Scheduling == nil {
		writeErrorBody(w, http.StatusServiceUnavailable, "unavailable", "this feature is not enabled")
		return
	}
	payload, err := io.ReadAll(r.Body)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.Scheduling.Verify(payload, r.Header.Get(schedulingSignatureHeader)); err != nil {
		if errors.Is(err, scheduling.ErrInvalidSignature) {
			requestError(w, "webhook signature does not match")
			return
		}
		s.writeError(w, r, err)
		return
	}

	evt, ok, err := scheduling.ParseNotification(payload)
	if err != nil {
		requestError(w, "malformed scheduling notification")
		return
	}
	if ok {
		if _, err := s.Bookings.EventScheduled(r.Context(), evt.BookingID, evt.StartTime, evt.EventURI); err != nil {
			s.writeError(w, r, err)
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]bool{"received": true})
}
