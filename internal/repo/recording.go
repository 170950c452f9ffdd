package repo

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/casccoach/platform/backend/internal/domain"
)

// RecordingRepo defines the persistence operations for session recordings.
type RecordingRepo interface {
	Create(ctx context.Context, rec domain.Recording) (domain.Recording, error)

	// GetByID returns domain.ErrNotFound when no recording has that id.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Recording, error)

	// ListActiveForCandidate returns the candidate's unexpired, unrevoked
	// recordings, newest first.
	ListActiveForCandidate(ctx context.Context, candidateID uuid.UUID, now time.Time) ([]domain.Recording, error)

	// List returns every recording, newest first.
	List(ctx context.Context) ([]domain.Recording, error)

	// SetStatus changes the status of an active recording. Recordings that
	// already left the active state return domain.ErrNotFound.
	SetStatus(ctx context.Context, id uuid.UUID, status domain.RecordingStatus) (domain.Recording, error)

	// ExpireDue marks every active recording whose expiry has passed as
	// expired and returns them.
	ExpireDue(ctx context.Context, now time.Time) ([]domain.Recording, error)
}

type pgRecordingRepo struct {
	db db
}

// NewRecordingRepo constructs a RecordingRepo backed by db.
func NewRecordingRepo(db db) RecordingRepo {
	return &pgRecordingRepo{db: db}
}

const recordingColumns = `
	id, booking_id, trainer_id, candidate_id, url, asset_id, status, expiry_date,
	created_at, updated_at`

func (r *pgRecordingRepo) Create(ctx context.Context, rec domain.Recording) (domain.Recording, error) {
	q := `
		INSERT INTO recordings (booking_id, trainer_id, candidate_id, url, asset_id, status, expiry_date)
		VALUES (@booking_id, @trainer_id, @candidate_id, @url, @asset_id, @status, @expiry_date)
		RETURNING` + recordingColumns

	got, err := scanRecording(r.db.QueryRow(ctx, q, pgx.NamedArgs{
		"booking_id":   rec.BookingID,
		"trainer_id":   rec.TrainerID,
		"candidate_id": rec.CandidateID,
		"url":          rec.URL,
		"asset_id":     rec.AssetID,
		"status":       string(rec.Status),
		"expiry_date":  rec.ExpiryDate,
	}))
	if err != nil {
		return domain.Recording{}, fmt.Errorf("repo.RecordingRepo.Create: %w", mapError(err))
	}
	return got, nil
}

func (r *pgRecordingRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Recording, error) {
	q := `SELECT` + recordingColumns + ` FROM recordings WHERE id = @id`

	rec, err := scanRecording(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.Recording{}, fmt.Errorf("repo.RecordingRepo.GetByID: %w", mapError(err))
	}
	return rec, nil
}

func (r *pgRecordingRepo) ListActiveForCandidate(ctx context.Context, candidateID uuid.UUID, now time.Time) ([]domain.Recording, error) {
	q := `SELECT` + recordingColumns + `
		FROM recordings
		WHERE candidate_id = @candidate_id
		  AND status = 'active'
		  AND expiry_date > @now
		ORDER BY created_at DESC`

	recs, err := r.list(ctx, q, pgx.NamedArgs{"candidate_id": candidateID, "now": now})
	if err != nil {
		return nil, fmt.Errorf("repo.RecordingRepo.ListActiveForCandidate: %w", err)
	}
	return recs, nil
}

func (r *pgRecordingRepo) List(ctx context.Context) ([]domain.Recording, error) {
	q := `SELECT` + recordingColumns + ` FROM recordings ORDER BY created_at DESC`

	recs, err := r.list(ctx, q, pgx.NamedArgs{})
	if err != nil {
		return nil, fmt.Errorf("repo.RecordingRepo.List: %w", err)
	}
	return recs, nil
}

func (r *pgRecordingRepo) SetStatus(ctx context.Context, id uuid.UUID, status domain.RecordingStatus) (domain.Recording, error) {
	q := `
		UPDATE recordings SET status = @status, updated_at = now()
		WHERE id = @id AND status = 'active'
		RETURNING` + recordingColumns

	rec, err := scanRecording(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id, "status": string(status)}))
	if err != nil {
		return domain.Recording{}, fmt.Errorf("repo.RecordingRepo.SetStatus: %w", mapError(err))
	}
	return rec, nil
}

func (r *pgRecordingRepo) ExpireDue(ctx context.Context, now time.Time) ([]domain.Recording, error) {
	q := `
		UPDATE recordings SET status = 'expired', updated_at = now()
		WHERE status = 'active' AND expiry_date <= @now
		RETURNING` + recordingColumns

	recs, err := r.list(ctx, q, pgx.NamedArgs{"now": now})
	if err != nil {
		return nil, fmt.Errorf("repo.RecordingRepo.ExpireDue: %w", err)
	}
	return recs, nil
}

func (r *pgRecordingRepo) list(ctx context.Context, q string, args pgx.NamedArgs) ([]domain.Recording, error) {
	rows, err := r.db.Query(ctx, q, args)
	if err != nil {
		return nil, err
	}
	recs, err := collect(rows, scanRecording)
	if err != nil {
		return nil, fmt.Errorf("scan: %w", err)
	}
	return recs, nil
}

func scanRecording(s scanner) (domain.Recording, error) {
	var (
		rec                              domain.Recording
		id, bookingID, trainerID, candID pgtype.UUID
		status                           string
	)

	err := s.Scan(&id, &bookingID, &trainerID, &candID, &rec.URL, &rec.AssetID, &status,
		&rec.ExpiryDate, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		return domain.Recording{}, err
	}

	rec.ID = uuid.UUID(id.Bytes)
	rec.BookingID = uuid.UUID(bookingID.Bytes)
	rec.TrainerID = uuid.UUID(trainerID.Bytes)
	rec.CandidateID = uuid.UUID(candID.Bytes)
	rec.Status = domain.RecordingStatus(status)
	return rec, nil
}
