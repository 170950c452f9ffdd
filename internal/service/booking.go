// Package service contains the business logic of the booking platform.
// Services validate inputs, enforce business rules, and orchestrate repo
// calls. No SQL lives here; services depend on repo interfaces.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/casccoach/platform/backend/internal/domain"
	"github.com/casccoach/platform/backend/internal/pricing"
	"github.com/casccoach/platform/backend/internal/repo"
	"github.com/casccoach/platform/backend/internal/scheduling"
	"github.com/casccoach/platform/backend/internal/wizard"
)

// BookingService owns the booking lifecycle: creation from a configured
// wizard, cancellation, confirmation by the calendar and admin status changes.
type BookingService struct {
	bookings repo.BookingRepo
	trainers repo.TrainerRepo
	stations repo.StationRepo
	now      func() time.Time
}

var _ wizard.BookingStore = (*BookingService)(nil)

// NewBookingService constructs a BookingService.
func NewBookingService(bookings repo.BookingRepo, trainers repo.TrainerRepo, stations repo.StationRepo) *BookingService {
	return &BookingService{bookings: bookings, trainers: trainers, stations: stations, now: time.Now}
}

// Create persists a pending booking after checking it against the current
// trainer and station data. It is the wizard's BookingStore.
func (s *BookingService) Create(ctx context.Context, b domain.Booking) (domain.Booking, error) {
	if err := s.validate(ctx, b); err != nil {
		return domain.Booking{}, err
	}
	b.Status = domain.BookingPending

	created, err := s.bookings.Create(ctx, b)
	if err != nil {
		return domain.Booking{}, fmt.Errorf("service.BookingService.Create: %w", err)
	}
	return created, nil
}

func (s *BookingService) validate(ctx context.Context, b domain.Booking) error {
	if b.CandidateID == uuid.Nil {
		return fmt.Errorf("%w: candidate is required", domain.ErrValidation)
	}

	mode := b.SessionMode.Mode()
	switch mode {
	case domain.ModeIndividual:
		if b.GroupSize != 0 || len(b.Participants) > 0 {
			return fmt.Errorf("%w: one-on-one bookings carry no group", domain.ErrValidation)
		}
	case domain.ModeGroup:
		if b.SessionType != domain.SessionTypeLearning {
			return fmt.Errorf("%w: group sessions are learning sessions", domain.ErrValidation)
		}
		if !pricing.ValidGroupSize(b.GroupSize) {
			return fmt.Errorf("%w: unsupported group size %d", domain.ErrValidation, b.GroupSize)
		}
		if len(b.Participants) != b.GroupSize-1 {
			return fmt.Errorf("%w: a group of %d needs %d other participants", domain.ErrValidation, b.GroupSize, b.GroupSize-1)
		}
		if err := b.Participants.Validate(); err != nil {
			return err
		}
	default:
		return fmt.Errorf("%w: unknown session mode %q", domain.ErrValidation, b.SessionMode)
	}
	if pricing.PriceOf(b) == 0 {
		return fmt.Errorf("%w: %d stations is not an option for this session", domain.ErrValidation, b.Stations)
	}

	if err := s.validateStations(ctx, b); err != nil {
		return err
	}

	t, err := s.trainers.GetByID(ctx, b.TrainerID)
	if err != nil {
		return fmt.Errorf("service.BookingService.Create: trainer: %w", err)
	}
	if !t.Bookable() {
		return fmt.Errorf("%w: trainer is not taking bookings", domain.ErrValidation)
	}
	return nil
}

func (s *BookingService) validateStations(ctx context.Context, b domain.Booking) error {
	if len(b.StationIDs) == 0 {
		return nil
	}
	if len(b.StationIDs) > b.Stations {
		return fmt.Errorf("%w: at most %d stations may be picked", domain.ErrValidation, b.Stations)
	}
	seen := make(map[uuid.UUID]bool, len(b.StationIDs))
	for _, id := range b.StationIDs {
		if seen[id] {
			return fmt.Errorf("%w: station picked twice", domain.ErrValidation)
		}
		seen[id] = true
	}
	n, err := s.stations.CountActive(ctx, b.StationIDs)
	if err != nil {
		return fmt.Errorf("service.BookingService.Create: stations: %w", err)
	}
	if n != len(b.StationIDs) {
		return fmt.Errorf("%w: picked stations must exist and be active", domain.ErrValidation)
	}
	return nil
}

// ListForCandidate returns the candidate's bookings, newest first.
func (s *BookingService) ListForCandidate(ctx context.Context, candidateID uuid.UUID) ([]domain.Booking, error) {
	bs, err := s.bookings.ListForCandidate(ctx, candidateID)
	if err != nil {
		return nil, fmt.Errorf("service.BookingService.ListForCandidate: %w", err)
	}
	return bs, nil
}

// ListForTrainerUser returns the bookings of the trainer profile owned by userID.
func (s *BookingService) ListForTrainerUser(ctx context.Context, userID uuid.UUID) ([]domain.Booking, error) {
	t, err := s.trainers.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("service.BookingService.ListForTrainerUser: %w", err)
	}
	bs, err := s.bookings.ListForTrainer(ctx, t.ID)
	if err != nil {
		return nil, fmt.Errorf("service.BookingService.ListForTrainerUser: %w", err)
	}
	return bs, nil
}

// ListPaged returns one page of all bookings.
func (s *BookingService) ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Booking, int64, error) {
	bs, total, err := s.bookings.ListPaged(ctx, p)
	if err != nil {
		return nil, 0, fmt.Errorf("service.BookingService.ListPaged: %w", err)
	}
	return bs, total, nil
}

// GetForCandidate returns a booking only to the candidate who made it. Other
// candidates get domain.ErrNotFound.
func (s *BookingService) GetForCandidate(ctx context.Context, candidateID, id uuid.UUID) (domain.Booking, error) {
	b, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return domain.Booking{}, fmt.Errorf("service.BookingService.GetForCandidate: %w", err)
	}
	if b.CandidateID != candidateID {
		return domain.Booking{}, fmt.Errorf("service.BookingService.GetForCandidate: %w", domain.ErrNotFound)
	}
	return b, nil
}

// Cancel cancels the candidate's own pending or confirmed booking.
func (s *BookingService) Cancel(ctx context.Context, candidateID, id uuid.UUID) (domain.Booking, error) {
	b, err := s.GetForCandidate(ctx, candidateID, id)
	if err != nil {
		return domain.Booking{}, err
	}
	return s.transition(ctx, b, domain.BookingCancelled)
}

// UpdateStatus is the admin override. It still follows the lifecycle:
// pending → confirmed → completed, and pending or confirmed → cancelled.
func (s *BookingService) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.BookingStatus) (domain.Booking, error) {
	if !status.Valid() {
		return domain.Booking{}, fmt.Errorf("%w: unknown status %q", domain.ErrValidation, status)
	}
	b, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return domain.Booking{}, fmt.Errorf("service.BookingService.UpdateStatus: %w", err)
	}
	return s.transition(ctx, b, status)
}

func (s *BookingService) transition(ctx context.Context, b domain.Booking, next domain.BookingStatus) (domain.Booking, error) {
	if !b.Status.CanTransitionTo(next) {
		return domain.Booking{}, fmt.Errorf("%w: cannot move a %s booking to %s", domain.ErrConflict, b.Status, next)
	}
	updated, err := s.bookings.UpdateStatus(ctx, b.ID, b.Status, next)
	if err != nil {
		return domain.Booking{}, fmt.Errorf("service.BookingService.UpdateStatus: %w", err)
	}
	return updated, nil
}

// SchedulingLink returns the trainer's calendar page prefilled for the
// candidate and tagged with the booking id.
func (s *BookingService) SchedulingLink(ctx context.Context, who domain.Identity, id uuid.UUID) (string, error) {
	b, err := s.GetForCandidate(ctx, who.UserID, id)
	if err != nil {
		return "", err
	}
	if !schedulable(b.Status) {
		return "", fmt.Errorf("%w: a %s booking cannot be scheduled", domain.ErrConflict, b.Status)
	}
	if b.Trainer == nil || b.Trainer.CalendarLink == "" {
		return "", fmt.Errorf("%w: trainer has no calendar link", domain.ErrConflict)
	}
	link, err := scheduling.Link(b.Trainer.CalendarLink, who.FullName, who.Email, b.ID)
	if err != nil {
		return "", fmt.Errorf("service.BookingService.SchedulingLink: %w", err)
	}
	return link, nil
}

// CandidateEventScheduled handles the widget callback from the candidate's
// browser. The booking must belong to the candidate.
func (s *BookingService) CandidateEventScheduled(ctx context.Context, candidateID, id uuid.UUID, at time.Time, eventURI string) (domain.Booking, error) {
	if _, err := s.GetForCandidate(ctx, candidateID, id); err != nil {
		return domain.Booking{}, err
	}
	return s.EventScheduled(ctx, id, at, eventURI)
}

// EventScheduled confirms a booking once its calendar event exists. Repeated
// notifications for a confirmed booking refresh the time and event.
func (s *BookingService) EventScheduled(ctx context.Context, id uuid.UUID, at time.Time, eventURI string) (domain.Booking, error) {
	b, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return domain.Booking{}, fmt.Errorf("service.BookingService.EventScheduled: %w", err)
	}
	if !schedulable(b.Status) {
		return domain.Booking{}, fmt.Errorf("%w: a %s booking cannot be scheduled", domain.ErrConflict, b.Status)
	}
	if at.IsZero() {
		at = s.now()
	}
	updated, err := s.bookings.MarkScheduled(ctx, id, at.UTC(), eventURI)
	if err != nil {
		return domain.Booking{}, fmt.Errorf("service.BookingService.EventScheduled: %w", err)
	}
	return updated, nil
}

func schedulable(st domain.BookingStatus) bool {
	return st == domain.BookingPending || st == domain.BookingConfirmed
}
