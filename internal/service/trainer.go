package service

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/casccoach/platform/backend/internal/domain"
	"github.com/casccoach/platform/backend/internal/repo"
	"github.com/casccoach/platform/backend/internal/scheduling"
)

// Minimums a self-registration must meet.
const (
	minTrainerNameLen     = 2
	minTrainerBioLen      = 50
	minQualificationsLen  = 10
	minYearsForApplicants = 1
)

// TrainerService implements the trainer directory, trainer self-registration
// and the admin review of applications.
type TrainerService struct {
	trainers repo.TrainerRepo
	roles    repo.RoleRepo
	now      func() time.Time
}

// NewTrainerService constructs a TrainerService.
func NewTrainerService(trainers repo.TrainerRepo, roles repo.RoleRepo) *TrainerService {
	return &TrainerService{trainers: trainers, roles: roles, now: time.Now}
}

// Directory lists the trainers candidates may book.
func (s *TrainerService) Directory(ctx context.Context) ([]domain.Trainer, error) {
	ts, err := s.trainers.ListActiveApproved(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.TrainerService.Directory: %w", err)
	}
	return ts, nil
}

// GetByID returns one trainer.
func (s *TrainerService) GetByID(ctx context.Context, id uuid.UUID) (domain.Trainer, error) {
	t, err := s.trainers.GetByID(ctx, id)
	if err != nil {
		return domain.Trainer{}, fmt.Errorf("service.TrainerService.GetByID: %w", err)
	}
	return t, nil
}

// Apply registers the signed-in user as a pending trainer. A user may hold
// only one profile.
func (s *TrainerService) Apply(ctx context.Context, who domain.Identity, app domain.Trainer) (domain.Trainer, error) {
	app = normalizeTrainer(app)
	if app.Email == "" {
		app.Email = who.Email
	}
	if err := validateApplication(app); err != nil {
		return domain.Trainer{}, err
	}

	userID := who.UserID
	applied := s.now().UTC()
	app.UserID = &userID
	app.Status = domain.TrainerPending
	app.IsActive = false
	app.AppliedAt = &applied

	t, err := s.trainers.Create(ctx, app)
	if err != nil {
		return domain.Trainer{}, fmt.Errorf("service.TrainerService.Apply: %w", err)
	}
	return t, nil
}

// Profile returns the trainer profile owned by userID.
func (s *TrainerService) Profile(ctx context.Context, userID uuid.UUID) (domain.Trainer, error) {
	t, err := s.trainers.GetByUserID(ctx, userID)
	if err != nil {
		return domain.Trainer{}, fmt.Errorf("service.TrainerService.Profile: %w", err)
	}
	return t, nil
}

// UpdateProfile lets a trainer edit their own profile fields.
func (s *TrainerService) UpdateProfile(ctx context.Context, userID uuid.UUID, in domain.Trainer) (domain.Trainer, error) {
	own, err := s.trainers.GetByUserID(ctx, userID)
	if err != nil {
		return domain.Trainer{}, fmt.Errorf("service.TrainerService.UpdateProfile: %w", err)
	}
	in.ID = own.ID
	return s.update(ctx, in)
}

// List returns every trainer for the admin console.
func (s *TrainerService) List(ctx context.Context) ([]domain.Trainer, error) {
	ts, err := s.trainers.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.TrainerService.List: %w", err)
	}
	return ts, nil
}

// Create adds a trainer directly, already approved and active.
func (s *TrainerService) Create(ctx context.Context, in domain.Trainer) (domain.Trainer, error) {
	in = normalizeTrainer(in)
	if err := validateProfile(in); err != nil {
		return domain.Trainer{}, err
	}
	in.Status = domain.TrainerApproved
	in.IsActive = true

	t, err := s.trainers.Create(ctx, in)
	if err != nil {
		return domain.Trainer{}, fmt.Errorf("service.TrainerService.Create: %w", err)
	}
	return t, nil
}

// Update edits any trainer's profile fields.
func (s *TrainerService) Update(ctx context.Context, in domain.Trainer) (domain.Trainer, error) {
	return s.update(ctx, in)
}

func (s *TrainerService) update(ctx context.Context, in domain.Trainer) (domain.Trainer, error) {
	in = normalizeTrainer(in)
	if err := validateProfile(in); err != nil {
		return domain.Trainer{}, err
	}
	t, err := s.trainers.Update(ctx, in)
	if err != nil {
		return domain.Trainer{}, fmt.Errorf("service.TrainerService.Update: %w", err)
	}
	return t, nil
}

// Approve publishes a trainer and grants their account the trainer role.
func (s *TrainerService) Approve(ctx context.Context, id uuid.UUID) (domain.Trainer, error) {
	t, err := s.trainers.SetStatus(ctx, id, domain.TrainerApproved)
	if err != nil {
		return domain.Trainer{}, fmt.Errorf("service.TrainerService.Approve: %w", err)
	}
	if t.UserID != nil {
		if err := s.roles.SetRole(ctx, *t.UserID, domain.RoleTrainer); err != nil {
			return domain.Trainer{}, fmt.Errorf("service.TrainerService.Approve: grant role: %w", err)
		}
	}
	return t, nil
}

// Reject declines an application and hides the trainer.
func (s *TrainerService) Reject(ctx context.Context, id uuid.UUID) (domain.Trainer, error) {
	t, err := s.trainers.SetStatus(ctx, id, domain.TrainerRejected)
	if err != nil {
		return domain.Trainer{}, fmt.Errorf("service.TrainerService.Reject: %w", err)
	}
	return t, nil
}

// SetActive shows or hides an approved trainer in the directory.
func (s *TrainerService) SetActive(ctx context.Context, id uuid.UUID, active bool) (domain.Trainer, error) {
	if active {
		current, err := s.trainers.GetByID(ctx, id)
		if err != nil {
			return domain.Trainer{}, fmt.Errorf("service.TrainerService.SetActive: %w", err)
		}
		if current.Status != domain.TrainerApproved {
			return domain.Trainer{}, fmt.Errorf("%w: only approved trainers can be activated", domain.ErrConflict)
		}
	}
	t, err := s.trainers.SetActive(ctx, id, active)
	if err != nil {
		return domain.Trainer{}, fmt.Errorf("service.TrainerService.SetActive: %w", err)
	}
	return t, nil
}

func normalizeTrainer(t domain.Trainer) domain.Trainer {
	t.Name = strings.TrimSpace(t.Name)
	t.Email = strings.TrimSpace(t.Email)
	t.Bio = strings.TrimSpace(t.Bio)
	t.Specialty = strings.TrimSpace(t.Specialty)
	t.CalendarLink = strings.TrimSpace(t.CalendarLink)
	t.Qualifications = strings.TrimSpace(t.Qualifications)
	if t.CalendarType == "" {
		t.CalendarType = "calendly"
	}
	t.AreasOfExpertise = compact(t.AreasOfExpertise)
	t.SessionTypesOffered = compact(t.SessionTypesOffered)
	return t
}

// compact trims each entry and drops the empty ones.
func compact(in []string) []string {
	out := make([]string, 0, len(in))
	for _, v := range in {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func validateProfile(t domain.Trainer) error {
	if utf8.RuneCountInString(t.Name) < minTrainerNameLen {
		return fmt.Errorf("%w: name must be at least %d characters", domain.ErrValidation, minTrainerNameLen)
	}
	if t.CalendarLink != "" {
		if _, err := scheduling.ParseCalendarLink(t.CalendarLink); err != nil {
			return err
		}
	}
	if t.YearsExperience < 0 {
		return fmt.Errorf("%w: years of experience cannot be negative", domain.ErrValidation)
	}
	return nil
}

func validateApplication(t domain.Trainer) error {
	if err := validateProfile(t); err != nil {
		return err
	}
	switch {
	case t.CalendarLink == "":
		return fmt.Errorf("%w: calendar link is required", domain.ErrValidation)
	case utf8.RuneCountInString(t.Bio) < minTrainerBioLen:
		return fmt.Errorf("%w: bio must be at least %d characters", domain.ErrValidation, minTrainerBioLen)
	case utf8.RuneCountInString(t.Qualifications) < minQualificationsLen:
		return fmt.Errorf("%w: qualifications must be at least %d characters", domain.ErrValidation, minQualificationsLen)
	case t.YearsExperience < minYearsForApplicants:
		return fmt.Errorf("%w: at least %d year of experience is required", domain.ErrValidation, minYearsForApplicants)
	case len(t.AreasOfExpertise) == 0:
		return fmt.Errorf("%w: choose at least one area of expertise", domain.ErrValidation)
	case len(t.SessionTypesOffered) == 0:
		return fmt.Errorf("%w: choose at least one session type", domain.ErrValidation)
	}
	return nil
}
