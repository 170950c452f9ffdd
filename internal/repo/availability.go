package repo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/casccoach/platform/backend/internal/domain"
)

// AvailabilityRepo stores a trainer's weekly slots and blocked dates. Every
// operation is scoped to the owning trainer, so one trainer can never touch
// another's rows.
type AvailabilityRepo interface {
	// ListSlots returns the trainer's slots ordered by day then start time.
	ListSlots(ctx context.Context, trainerID uuid.UUID) ([]domain.AvailabilitySlot, error)
	CreateSlot(ctx context.Context, slot domain.AvailabilitySlot) (domain.AvailabilitySlot, error)
	DeleteSlot(ctx context.Context, trainerID, id uuid.UUID) error

	// ListBlockedDates returns the trainer's blocked dates in date order.
	ListBlockedDates(ctx context.Context, trainerID uuid.UUID) ([]domain.BlockedDate, error)
	// CreateBlockedDate returns domain.ErrConflict when the date is already blocked.
	CreateBlockedDate(ctx context.Context, d domain.BlockedDate) (domain.BlockedDate, error)
	DeleteBlockedDate(ctx context.Context, trainerID, id uuid.UUID) error
}

type pgAvailabilityRepo struct {
	db db
}

// NewAvailabilityRepo constructs an AvailabilityRepo backed by db.
func NewAvailabilityRepo(db db) AvailabilityRepo {
	return &pgAvailabilityRepo{db: db}
}

// TIME columns travel as "HH:MM" text so the domain never sees pgtype.Time.
const slotColumns = `
	id, trainer_id, day_of_week, to_char(start_time, 'HH24:MI'), to_char(end_time, 'HH24:MI'),
	created_at`

func (r *pgAvailabilityRepo) ListSlots(ctx context.Context, trainerID uuid.UUID) ([]domain.AvailabilitySlot, error) {
	q := `SELECT` + slotColumns + `
		FROM trainer_availability
		WHERE trainer_id = @trainer_id
		ORDER BY day_of_week, start_time`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"trainer_id": trainerID})
	if err != nil {
		return nil, fmt.Errorf("repo.AvailabilityRepo.ListSlots: %w", err)
	}
	slots, err := collect(rows, scanSlot)
	if err != nil {
		return nil, fmt.Errorf("repo.AvailabilityRepo.ListSlots: scan: %w", err)
	}
	return slots, nil
}

func (r *pgAvailabilityRepo) CreateSlot(ctx context.Context, slot domain.AvailabilitySlot) (domain.AvailabilitySlot, error) {
	q := `
		INSERT INTO trainer_availability (trainer_id, day_of_week, start_time, end_time)
		VALUES (@trainer_id, @day_of_week, @start_time::time, @end_time::time)
		RETURNING` + slotColumns

	got, err := scanSlot(r.db.QueryRow(ctx, q, pgx.NamedArgs{
		"trainer_id":  slot.TrainerID,
		"day_of_week": slot.DayOfWeek,
		"start_time":  slot.StartTime,
		"end_time":    slot.EndTime,
	}))
	if err != nil {
		return domain.AvailabilitySlot{}, fmt.Errorf("repo.AvailabilityRepo.CreateSlot: %w", mapError(err))
	}
	return got, nil
}

func (r *pgAvailabilityRepo) DeleteSlot(ctx context.Context, trainerID, id uuid.UUID) error {
	const q = `DELETE FROM trainer_availability WHERE id = @id AND trainer_id = @trainer_id`
	return r.delete(ctx, "DeleteSlot", q, trainerID, id)
}

func (r *pgAvailabilityRepo) ListBlockedDates(ctx context.Context, trainerID uuid.UUID) ([]domain.BlockedDate, error) {
	const q = `
		SELECT id, trainer_id, blocked_date, reason, created_at
		FROM trainer_blocked_dates
		WHERE trainer_id = @trainer_id
		ORDER BY blocked_date`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"trainer_id": trainerID})
	if err != nil {
		return nil, fmt.Errorf("repo.AvailabilityRepo.ListBlockedDates: %w", err)
	}
	dates, err := collect(rows, scanBlockedDate)
	if err != nil {
		return nil, fmt.Errorf("repo.AvailabilityRepo.ListBlockedDates: scan: %w", err)
	}
	return dates, nil
}

func (r *pgAvailabilityRepo) CreateBlockedDate(ctx context.Context, d domain.BlockedDate) (domain.BlockedDate, error) {
	const q = `
		INSERT INTO trainer_blocked_dates (trainer_id, blocked_date, reason)
		VALUES (@trainer_id, @blocked_date, @reason)
		RETURNING id, trainer_id, blocked_date, reason, created_at`

	got, err := scanBlockedDate(r.db.QueryRow(ctx, q, pgx.NamedArgs{
		"trainer_id":   d.TrainerID,
		"blocked_date": pgtype.Date{Time: d.Date, Valid: true},
		"reason":       d.Reason,
	}))
	if err != nil {
		return domain.BlockedDate{}, fmt.Errorf("repo.AvailabilityRepo.CreateBlockedDate: %w", mapError(err))
	}
	return got, nil
}

func (r *pgAvailabilityRepo) DeleteBlockedDate(ctx context.Context, trainerID, id uuid.UUID) error {
	const q = `DELETE FROM trainer_blocked_dates WHERE id = @id AND trainer_id = @trainer_id`
	return r.delete(ctx, "DeleteBlockedDate", q, trainerID, id)
}

func (r *pgAvailabilityRepo) delete(ctx context.Context, op, q string, trainerID, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id, "trainer_id": trainerID})
	if err != nil {
		return fmt.Errorf("repo.AvailabilityRepo.%s: %w", op, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.AvailabilityRepo.%s: %w", op, domain.ErrNotFound)
	}
	return nil
}

func scanSlot(s scanner) (domain.AvailabilitySlot, error) {
	var (
		slot          domain.AvailabilitySlot
		id, trainerID pgtype.UUID
	)
	err := s.Scan(&id, &trainerID, &slot.DayOfWeek, &slot.StartTime, &slot.EndTime, &slot.CreatedAt)
	if err != nil {
		return domain.AvailabilitySlot{}, err
	}
	slot.ID = uuid.UUID(id.Bytes)
	slot.TrainerID = uuid.UUID(trainerID.Bytes)
	return slot, nil
}

func scanBlockedDate(s scanner) (domain.BlockedDate, error) {
	var (
		d             domain.BlockedDate
		id, trainerID pgtype.UUID
		date          pgtype.Date
	)
	if err := s.Scan(&id, &trainerID, &date, &d.Reason, &d.CreatedAt); err != nil {
		return domain.BlockedDate{}, err
	}
	d.ID = uuid.UUID(id.Bytes)
	d.TrainerID = uuid.UUID(trainerID.Bytes)
	d.Date = date.Time
	return d, nil
}
