package handler

import (
	"net/http"

	"github.com/casccoach/platform/backend/internal/domain"
	"github.com/casccoach/platform/backend/internal/pricing"
)

// ListMyBookings handles GET /bookings, newest first.
func (s *Server) ListMyBookings(w http.ResponseWriter, r *http.Request) {
	who, ok := caller(w, r)
	if !ok {
		return
	}
	bookings, err := s.Bookings.ListForCandidate(r.Context(), who.UserID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapSlice(bookings, pricedBooking))
}

// CancelBooking handles POST /bookings/{id}/cancel.
func (s *Server) CancelBooking(w http.ResponseWriter, r *http.Request) {
	who, ok := caller(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	b, err := s.Bookings.Cancel(r.Context(), who.UserID, id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, pricedBooking(b))
}

// GetScheduleLink handles GET /bookings/{id}/schedule.
func (s *Server) GetScheduleLink(w http.ResponseWriter, r *http.Request) {
	who, ok := caller(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	link, err := s.Bookings.SchedulingLink(r.Context(), who, id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ScheduleLink{URL: link})
}

// MarkBookingScheduled handles POST /bookings/{id}/scheduled, the callback
// the scheduling widget triggers in the candidate's browser.
func (s *Server) MarkBookingScheduled(w http.ResponseWriter, r *http.Request) {
	who, ok := caller(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var body ScheduledRequest
	if !s.decode(w, r, &body) {
		return
	}
	b, err := s.Bookings.CandidateEventScheduled(r.Context(), who.UserID, id, body.ScheduledAt, body.EventURI)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, pricedBooking(b))
}

// ListTrainerBookings handles GET /trainer/bookings.
func (s *Server) ListTrainerBookings(w http.ResponseWriter, r *http.Request) {
	who, ok := caller(w, r)
	if !ok {
		return
	}
	bookings, err := s.Bookings.ListForTrainerUser(r.Context(), who.UserID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapSlice(bookings, pricedBooking))
}

// --- admin ------------------------------------------------------------------

// AdminListBookings handles GET /admin/bookings.
// Supports ?page= and ?limit= query parameters (defaults: page=1, limit=20, max=100).
func (s *Server) AdminListBookings(w http.ResponseWriter, r *http.Request) {
	params, ok := pagination(w, r)
	if !ok {
		return
	}
	bookings, total, err := s.Bookings.ListPaged(r.Context(), params)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newPage(mapSlice(bookings, pricedBooking), params, total))
}

// AdminUpdateBookingStatus handles PUT /admin/bookings/{id}/status.
func (s *Server) AdminUpdateBookingStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var body BookingStatusRequest
	if !s.decode(w, r, &body) {
		return
	}
	b, err := s.Bookings.UpdateStatus(r.Context(), id, body.Status)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, pricedBooking(b))
}

func pricedBooking(b domain.Booking) Booking {
	return bookingToResponse(b, pricing.PriceOf(b))
}
