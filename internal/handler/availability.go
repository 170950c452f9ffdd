package handler

import (
	"net/http"

	"github.com/casccoach/platform/backend/internal/domain"
)

// ListAvailability handles GET /trainer/availability.
func (s *Server) ListAvailability(w http.ResponseWriter, r *http.Request) {
	who, ok := caller(w, r)
	if !ok {
		return
	}
	slots, err := s.Availability.ListSlots(r.Context(), who.UserID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapSlice(slots, slotToResponse))
}

// AddAvailability handles POST /trainer/availability.
func (s *Server) AddAvailability(w http.ResponseWriter, r *http.Request) {
	who, ok := caller(w, r)
	if !ok {
		return
	}
	var body AvailabilitySlotRequest
	if !s.decode(w, r, &body) {
		return
	}
	slot, err := s.Availability.AddSlot(r.Context(), who.UserID, domain.AvailabilitySlot{
		DayOfWeek: *body.DayOfWeek,
		StartTime: body.StartTime,
		EndTime:   body.EndTime,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, slotToResponse(slot))
}

// DeleteAvailability handles DELETE /trainer/availability/{id}.
func (s *Server) DeleteAvailability(w http.ResponseWriter, r *http.Request) {
	who, ok := caller(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := s.Availability.DeleteSlot(r.Context(), who.UserID, id); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListBlockedDates handles GET /trainer/blocked-dates.
func (s *Server) ListBlockedDates(w http.ResponseWriter, r *http.Request) {
	who, ok := caller(w, r)
	if !ok {
		return
	}
	dates, err := s.Availability.ListBlockedDates(r.Context(), who.UserID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapSlice(dates, blockedDateToResponse))
}

// BlockDate handles POST /trainer/blocked-dates.
func (s *Server) BlockDate(w http.ResponseWriter, r *http.Request) {
	who, ok := caller(w, r)
	if !ok {
		return
	}
	var body BlockedDateRequest
	if !s.decode(w, r, &body) {
		return
	}
	d, err := s.Availability.BlockDate(r.Context(), who.UserID, domain.BlockedDate{Date: body.Date.Time, Reason: body.Reason})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, blockedDateToResponse(d))
}

// UnblockDate handles DELETE /trainer/blocked-dates/{id}.
func (s *Server) UnblockDate(w http.ResponseWriter, r *http.Request) {
	who, ok := caller(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := s.Availability.UnblockDate(r.Context(), who.UserID, id); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
