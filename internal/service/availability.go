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
)

const clockLayout = "15:04"

// AvailabilityService lets a trainer manage their weekly slots and days off.
// Every method is keyed by the trainer's user id.
type AvailabilityService struct {
	availability repo.AvailabilityRepo
	trainers     repo.TrainerRepo
}

// NewAvailabilityService constructs an AvailabilityService.
func NewAvailabilityService(a repo.AvailabilityRepo, t repo.TrainerRepo) *AvailabilityService {
	return &AvailabilityService{availability: a, trainers: t}
}

func (s *AvailabilityService) trainerID(ctx context.Context, userID uuid.UUID) (uuid.UUID, error) {
	t, err := s.trainers.GetByUserID(ctx, userID)
	if err != nil {
		return uuid.Nil, err
	}
	return t.ID, nil
}

// ListSlots returns the trainer's weekly slots.
func (s *AvailabilityService) ListSlots(ctx context.Context, userID uuid.UUID) ([]domain.AvailabilitySlot, error) {
	id, err := s.trainerID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("service.AvailabilityService.ListSlots: %w", err)
	}
	slots, err := s.availability.ListSlots(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("service.AvailabilityService.ListSlots: %w", err)
	}
	return slots, nil
}

// AddSlot adds a weekly window. Day follows time.Weekday; times are HH:MM.
func (s *AvailabilityService) AddSlot(ctx context.Context, userID uuid.UUID, slot domain.AvailabilitySlot) (domain.AvailabilitySlot, error) {
	if slot.DayOfWeek < int(time.Sunday) || slot.DayOfWeek > int(time.Saturday) {
		return domain.AvailabilitySlot{}, fmt.Errorf("%w: day of week must be 0 to 6", domain.ErrValidation)
	}
	start, err := time.Parse(clockLayout, slot.StartTime)
	if err != nil {
		return domain.AvailabilitySlot{}, fmt.Errorf("%w: start time must be HH:MM", domain.ErrValidation)
	}
	end, err := time.Parse(clockLayout, slot.EndTime)
	if err != nil {
		return domain.AvailabilitySlot{}, fmt.Errorf("%w: end time must be HH:MM", domain.ErrValidation)
	}
	if !start.Before(end) {
		return domain.AvailabilitySlot{}, fmt.Errorf("%w: start time must be before end time", domain.ErrValidation)
	}

	id, err := s.trainerID(ctx, userID)
	if err != nil {
		return domain.AvailabilitySlot{}, fmt.Errorf("service.AvailabilityService.AddSlot: %w", err)
	}
	slot.TrainerID = id
	slot.StartTime = start.Format(clockLayout)
	slot.EndTime = end.Format(clockLayout)

	created, err := s.availability.CreateSlot(ctx, slot)
	if err != nil {
		return domain.AvailabilitySlot{}, fmt.Errorf("service.AvailabilityService.AddSlot: %w", err)
	}
	return created, nil
}

// DeleteSlot removes one of the trainer's slots.
func (s *AvailabilityService) DeleteSlot(ctx context.Context, userID, slotID uuid.UUID) error {
	id, err := s.trainerID(ctx, userID)
	if err != nil {
		return fmt.Errorf("service.AvailabilityService.DeleteSlot: %w", err)
	}
	if err := s.availability.DeleteSlot(ctx, id, slotID); err != nil {
		return fmt.Errorf("service.AvailabilityService.DeleteSlot: %w", err)
	}
	return nil
}

// ListBlockedDates returns the trainer's days off.
func (s *AvailabilityService) ListBlockedDates(ctx context.Context, userID uuid.UUID) ([]domain.BlockedDate, error) {
	id, err := s.trainerID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("service.AvailabilityService.ListBlockedDates: %w", err)
	}
	ds, err := s.availability.ListBlockedDates(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("service.AvailabilityService.ListBlockedDates: %w", err)
	}
	return ds, nil
}

// BlockDate marks a day as unavailable.
func (s *AvailabilityService) BlockDate(ctx context.Context, userID uuid.UUID, d domain.BlockedDate) (domain.BlockedDate, error) {
	if d.Date.IsZero() {
		return domain.BlockedDate{}, fmt.Errorf("%w: date is required", domain.ErrValidation)
	}
	d.Reason = strings.TrimSpace(d.Reason)
	if utf8.RuneCountInString(d.Reason) > 200 {
		return domain.BlockedDate{}, fmt.Errorf("%w: reason must be at most 200 characters", domain.ErrValidation)
	}

	id, err := s.trainerID(ctx, userID)
	if err != nil {
		return domain.BlockedDate{}, fmt.Errorf("service.AvailabilityService.BlockDate: %w", err)
	}
	d.TrainerID = id
	d.Date = time.Date(d.Date.Year(), d.Date.Month(), d.Date.Day(), 0, 0, 0, 0, time.UTC)

	created, err := s.availability.CreateBlockedDate(ctx, d)
	if err != nil {
		return domain.BlockedDate{}, fmt.Errorf("service.AvailabilityService.BlockDate: %w", err)
	}
	return created, nil
}

// UnblockDate removes one of the trainer's days off.
func (s *AvailabilityService) UnblockDate(ctx context.Context, userID, dateID uuid.UUID) error {
	id, err := s.trainerID(ctx, userID)
	if err != nil {
		return fmt.Errorf("service.AvailabilityService.UnblockDate: %w", err)
	}
	if err := s.availability.DeleteBlockedDate(ctx, id, dateID); err != nil {
		return fmt.Errorf("service.AvailabilityService.UnblockDate: %w", err)
	}
	return nil
}
