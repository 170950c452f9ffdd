package handler

import (
	"net/http"

	"github.com/casccoach/platform/backend/internal/domain"
)

// SubmitContact handles POST /contact. Field limits are enforced by the
// contact service so the messages match the web form.
func (s *Server) SubmitContact(w http.ResponseWriter, r *http.Request) {
	var body ContactRequest
	if !s.decode(w, r, &body) {
		return
	}
	c, err := s.Contact.Submit(r.Context(), domain.ContactSubmission{
		Name:    body.Name,
		Email:   body.Email,
		Subject: body.Subject,
		Message: body.Message,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, contactToResponse(c))
}

// AdminListContact handles GET /admin/contact.
func (s *Server) AdminListContact(w http.ResponseWriter, r *http.Request) {
	list, err := s.Contact.List(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapSlice(list, contactToResponse))
}

// AdminMarkContactRead handles POST /admin/contact/{id}/read.
func (s *Server) AdminMarkContactRead(w http.ResponseWriter, r *http.Request) {
	s.noContentByID(w, r, s.Contact.MarkRead)
}
