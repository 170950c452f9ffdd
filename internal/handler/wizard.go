package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/casccoach/platform/backend/internal/domain"
	"github.com/casccoach/platform/backend/internal/pricing"
	"github.com/casccoach/platform/backend/internal/wizard"
)

// StartWizard handles POST /wizards.
func (s *Server) StartWizard(w http.ResponseWriter, r *http.Request) {
	who, ok := caller(w, r)
	if !ok {
		return
	}
	v, err := s.Wizards.Start(r.Context(), who.UserID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, wizardToResponse(v))
}

// GetWizard handles GET /wizards/{id}.
func (s *Server) GetWizard(w http.ResponseWriter, r *http.Request) {
	who, id, ok := wizardTarget(w, r)
	if !ok {
		return
	}
	v, err := s.Wizards.Get(r.Context(), who.UserID, id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, wizardToResponse(v))
}

// DiscardWizard handles DELETE /wizards/{id}.
func (s *Server) DiscardWizard(w http.ResponseWriter, r *http.Request) {
	who, id, ok := wizardTarget(w, r)
	if !ok {
		return
	}
	if err := s.Wizards.Discard(r.Context(), who.UserID, id); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SetWizardTrainer handles PUT /wizards/{id}/trainer.
func (s *Server) SetWizardTrainer(w http.ResponseWriter, r *http.Request) {
	var body TrainerChoice
	if !s.decode(w, r, &body) {
		return
	}
	s.applyWizard(w, r, func(wz *wizard.Wizard) error { return wz.SelectTrainer(body.TrainerID) })
}

// SetWizardMode handles PUT /wizards/{id}/mode.
func (s *Server) SetWizardMode(w http.ResponseWriter, r *http.Request) {
	var body ModeChoice
	if !s.decode(w, r, &body) {
		return
	}
	s.applyWizard(w, r, func(wz *wizard.Wizard) error { return wz.SetMode(body.Mode) })
}

// SetWizardSessionType handles PUT /wizards/{id}/session-type.
func (s *Server) SetWizardSessionType(w http.ResponseWriter, r *http.Request) {
	var body SessionTypeChoice
	if !s.decode(w, r, &body) {
		return
	}
	s.applyWizard(w, r, func(wz *wizard.Wizard) error { return wz.SetSessionType(body.SessionType) })
}

// SetWizardGroupSize handles PUT /wizards/{id}/group-size.
func (s *Server) SetWizardGroupSize(w http.ResponseWriter, r *http.Request) {
	var body GroupSizeChoice
	if !s.decode(w, r, &body) {
		return
	}
	s.applyWizard(w, r, func(wz *wizard.Wizard) error { return wz.SetGroupSize(body.GroupSize) })
}

// SetWizardStationCount handles PUT /wizards/{id}/station-count.
func (s *Server) SetWizardStationCount(w http.ResponseWriter, r *http.Request) {
	var body StationCountChoice
	if !s.decode(w, r, &body) {
		return
	}
	s.applyWizard(w, r, func(wz *wizard.Wizard) error { return wz.SetStationCount(body.StationCount) })
}

// SetWizardStations handles PUT /wizards/{id}/stations.
func (s *Server) SetWizardStations(w http.ResponseWriter, r *http.Request) {
	var body StationsChoice
	if !s.decode(w, r, &body) {
		return
	}
	ids := make([]uuid.UUID, len(body.StationIDs))
	copy(ids, body.StationIDs)
	s.applyWizard(w, r, func(wz *wizard.Wizard) error { return wz.SetStations(ids) })
}

// SetWizardDetails handles PUT /wizards/{id}/details.
func (s *Server) SetWizardDetails(w http.ResponseWriter, r *http.Request) {
	var body DetailsChoice
	if !s.decode(w, r, &body) {
		return
	}
	s.applyWizard(w, r, func(wz *wizard.Wizard) error { return wz.SetDetails(body.Notes, body.RecordingConsent) })
}

// SetWizardParticipant handles PUT /wizards/{id}/participants/{index}.
// index is 0-based over the additional participants.
func (s *Server) SetWizardParticipant(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		requestError(w, "index must be an integer")
		return
	}
	var body ParticipantChoice
	if !s.decode(w, r, &body) {
		return
	}
	p := domain.Participant{Name: body.Name, Email: body.Email}
	s.applyWizard(w, r, func(wz *wizard.Wizard) error { return wz.SetParticipant(index, p) })
}

// NextWizardStep handles POST /wizards/{id}/next.
func (s *Server) NextWizardStep(w http.ResponseWriter, r *http.Request) {
	s.applyWizard(w, r, (*wizard.Wizard).Next)
}

// PreviousWizardStep handles POST /wizards/{id}/back.
func (s *Server) PreviousWizardStep(w http.ResponseWriter, r *http.Request) {
	s.applyWizard(w, r, (*wizard.Wizard).Back)
}

// SubmitWizard handles POST /wizards/{id}/submit.
// A submission already in flight for the same wizard answers 409.
func (s *Server) SubmitWizard(w http.ResponseWriter, r *http.Request) {
	who, id, ok := wizardTarget(w, r)
	if !ok {
		return
	}
	v, b, err := s.Wizards.Submit(r.Context(), who.UserID, id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, SubmitResponse{
		Wizard:  wizardToResponse(v),
		Booking: bookingToResponse(b, pricing.PriceOf(b)),
	})
}

func (s *Server) applyWizard(w http.ResponseWriter, r *http.Request, action func(*wizard.Wizard) error) {
	who, id, ok := wizardTarget(w, r)
	if !ok {
		return
	}
	v, err := s.Wizards.Apply(r.Context(), who.UserID, id, action)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, wizardToResponse(v))
}

func wizardTarget(w http.ResponseWriter, r *http.Request) (domain.Identity, uuid.UUID, bool) {
	who, ok := caller(w, r)
	if !ok {
		return domain.Identity{}, uuid.Nil, false
	}
	id, ok := pathID(w, r, "id")
	return who, id, ok
}
