package handler

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/casccoach/platform/backend/internal/domain"
)

// ListTrainers handles GET /trainers, the public directory.
func (s *Server) ListTrainers(w http.ResponseWriter, r *http.Request) {
	trainers, err := s.Trainers.Directory(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapSlice(trainers, trainerPublic))
}

// ApplyAsTrainer handles POST /trainer-applications.
func (s *Server) ApplyAsTrainer(w http.ResponseWriter, r *http.Request) {
	who, ok := caller(w, r)
	if !ok {
		return
	}
	var body TrainerRequest
	if !s.decode(w, r, &body) {
		return
	}
	created, err := s.Trainers.Apply(r.Context(), who, body.toDomain())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, trainerToResponse(created))
}

// GetTrainerProfile handles GET /trainer/profile.
func (s *Server) GetTrainerProfile(w http.ResponseWriter, r *http.Request) {
	who, ok := caller(w, r)
	if !ok {
		return
	}
	t, err := s.Trainers.Profile(r.Context(), who.UserID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, trainerToResponse(t))
}

// UpdateTrainerProfile handles PUT /trainer/profile.
func (s *Server) UpdateTrainerProfile(w http.ResponseWriter, r *http.Request) {
	who, ok := caller(w, r)
	if !ok {
		return
	}
	var body TrainerRequest
	if !s.decode(w, r, &body) {
		return
	}
	t, err := s.Trainers.UpdateProfile(r.Context(), who.UserID, body.toDomain())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, trainerToResponse(t))
}

// --- admin ------------------------------------------------------------------

// AdminListTrainers handles GET /admin/trainers.
func (s *Server) AdminListTrainers(w http.ResponseWriter, r *http.Request) {
	trainers, err := s.Trainers.List(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapSlice(trainers, trainerToResponse))
}

// AdminCreateTrainer handles POST /admin/trainers.
func (s *Server) AdminCreateTrainer(w http.ResponseWriter, r *http.Request) {
	var body TrainerRequest
	if !s.decode(w, r, &body) {
		return
	}
	t, err := s.Trainers.Create(r.Context(), body.toDomain())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, trainerToResponse(t))
}

// AdminUpdateTrainer handles PUT /admin/trainers/{id}.
func (s *Server) AdminUpdateTrainer(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var body TrainerRequest
	if !s.decode(w, r, &body) {
		return
	}
	in := body.toDomain()
	in.ID = id
	t, err := s.Trainers.Update(r.Context(), in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, trainerToResponse(t))
}

// AdminApproveTrainer handles POST /admin/trainers/{id}/approve.
func (s *Server) AdminApproveTrainer(w http.ResponseWriter, r *http.Request) {
	s.trainerAction(w, r, s.Trainers.Approve)
}

// AdminRejectTrainer handles POST /admin/trainers/{id}/reject.
func (s *Server) AdminRejectTrainer(w http.ResponseWriter, r *http.Request) {
	s.trainerAction(w, r, s.Trainers.Reject)
}

// AdminSetTrainerActive handles POST /admin/trainers/{id}/active.
func (s *Server) AdminSetTrainerActive(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var body ActiveRequest
	if !s.decode(w, r, &body) {
		return
	}
	t, err := s.Trainers.SetActive(r.Context(), id, *body.IsActive)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, trainerToResponse(t))
}

func (s *Server) trainerAction(w http.ResponseWriter, r *http.Request, act func(context.Context, uuid.UUID) (domain.Trainer, error)) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	t, err := act(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, trainerToResponse(t))
}
