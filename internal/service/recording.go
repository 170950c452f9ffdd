package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/casccoach/platform/backend/internal/domain"
	"github.com/casccoach/platform/backend/internal/repo"
	"github.com/casccoach/platform/backend/internal/storage"
	"github.com/casccoach/platform/backend/internal/tasks"
)

// ExpiryScheduler queues the expiry of a recording. *tasks.Client satisfies it.
type ExpiryScheduler interface {
	ScheduleRecordingExpiry(ctx context.Context, id uuid.UUID, at time.Time) error
}

// RecordingService stores session recordings and enforces their retention.
type RecordingService struct {
	recordings repo.RecordingRepo
	bookings   repo.BookingRepo
	trainers   repo.TrainerRepo
	store      storage.Store
	scheduler  ExpiryScheduler
	retention  time.Duration
	logger     *slog.Logger
	now        func() time.Time
}

var _ tasks.RecordingExpirer = (*RecordingService)(nil)

// NewRecordingService constructs a RecordingService. Recordings stay visible
// for retention after upload.
func NewRecordingService(
	recordings repo.RecordingRepo,
	bookings repo.BookingRepo,
	trainers repo.TrainerRepo,
	store storage.Store,
	scheduler ExpiryScheduler,
	retention time.Duration,
	logger *slog.Logger,
) *RecordingService {
	return &RecordingService{
		recordings: recordings,
		bookings:   bookings,
		trainers:   trainers,
		store:      store,
		scheduler:  scheduler,
		retention:  retention,
		logger:     logger,
		now:        time.Now,
	}
}

// Upload stores the recording of a session the trainer ran. The candidate
// must have consented to recording when booking.
func (s *RecordingService) Upload(ctx context.Context, trainerUserID, bookingID uuid.UUID, file io.Reader) (domain.Recording, error) {
	t, err := s.trainers.GetByUserID(ctx, trainerUserID)
	if err != nil {
		return domain.Recording{}, fmt.Errorf("service.RecordingService.Upload: trainer: %w", err)
	}
	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return domain.Recording{}, fmt.Errorf("service.RecordingService.Upload: %w", err)
	}
	if b.TrainerID != t.ID {
		return domain.Recording{}, fmt.Errorf("service.RecordingService.Upload: %w", domain.ErrNotFound)
	}
	if !b.RecordingConsent {
		return domain.Recording{}, fmt.Errorf("%w: the candidate did not consent to recording", domain.ErrValidation)
	}
	if b.Status != domain.BookingConfirmed && b.Status != domain.BookingCompleted {
		return domain.Recording{}, fmt.Errorf("%w: a %s session cannot have a recording", domain.ErrConflict, b.Status)
	}

	asset, err := s.store.Upload(ctx, file, "recordings/"+b.ID.String())
	if err != nil {
		return domain.Recording{}, fmt.Errorf("service.RecordingService.Upload: %w", err)
	}

	rec, err := s.recordings.Create(ctx, domain.Recording{
		BookingID:   b.ID,
		TrainerID:   t.ID,
		CandidateID: b.CandidateID,
		URL:         asset.URL,
		AssetID:     asset.ID,
		Status:      domain.RecordingActive,
		ExpiryDate:  s.now().Add(s.retention),
	})
	if err != nil {
		s.destroy(context.WithoutCancel(ctx), asset.ID)
		return domain.Recording{}, fmt.Errorf("service.RecordingService.Upload: %w", err)
	}

	// The periodic sweep expires the recording if this fails.
	if err := s.scheduler.ScheduleRecordingExpiry(ctx, rec.ID, rec.ExpiryDate); err != nil {
		s.logger.WarnContext(ctx, "schedule recording expiry", "recording_id", rec.ID, "error", err)
	}
	return rec, nil
}

// ListForCandidate returns the candidate's recordings that can still be watched.
func (s *RecordingService) ListForCandidate(ctx context.Context, candidateID uuid.UUID) ([]domain.Recording, error) {
	recs, err := s.recordings.ListActiveForCandidate(ctx, candidateID, s.now())
	if err != nil {
		return nil, fmt.Errorf("service.RecordingService.ListForCandidate: %w", err)
	}
	return recs, nil
}

// List returns every recording for the admin console.
func (s *RecordingService) List(ctx context.Context) ([]domain.Recording, error) {
	recs, err := s.recordings.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.RecordingService.List: %w", err)
	}
	return recs, nil
}

// Revoke withdraws an active recording and deletes its asset.
func (s *RecordingService) Revoke(ctx context.Context, id uuid.UUID) (domain.Recording, error) {
	rec, err := s.recordings.SetStatus(ctx, id, domain.RecordingRevoked)
	if err != nil {
		return domain.Recording{}, fmt.Errorf("service.RecordingService.Revoke: %w", err)
	}
	s.destroy(ctx, rec.AssetID)
	s.logger.InfoContext(ctx, "recording revoked", "recording_id", rec.ID)
	return rec, nil
}

// ExpireRecording expires one recording once its expiry date has passed.
// It returns domain.ErrNotFound when the recording is no longer active.
func (s *RecordingService) ExpireRecording(ctx context.Context, id uuid.UUID) error {
	rec, err := s.recordings.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("service.RecordingService.ExpireRecording: %w", err)
	}
	if rec.Status != domain.RecordingActive {
		return fmt.Errorf("service.RecordingService.ExpireRecording: %w", domain.ErrNotFound)
	}
	if s.now().Before(rec.ExpiryDate) {
		return fmt.Errorf("service.RecordingService.ExpireRecording: not due until %s", rec.ExpiryDate.Format(time.RFC3339))
	}

	rec, err = s.recordings.SetStatus(ctx, id, domain.RecordingExpired)
	if err != nil {
		return fmt.Errorf("service.RecordingService.ExpireRecording: %w", err)
	}
	s.destroy(ctx, rec.AssetID)
	return nil
}

// ExpireDue expires every active recording past its expiry date and reports
// how many it expired.
func (s *RecordingService) ExpireDue(ctx context.Context) (int, error) {
	recs, err := s.recordings.ExpireDue(ctx, s.now())
	if err != nil {
		return 0, fmt.Errorf("service.RecordingService.ExpireDue: %w", err)
	}
	for _, rec := range recs {
		s.destroy(ctx, rec.AssetID)
	}
	return len(recs), nil
}

// destroy removes an asset. The recording row is the source of truth, so a
// leftover asset is logged rather than failing the caller.
func (s *RecordingService) destroy(ctx context.Context, assetID string) {
	if assetID == "" {
		return
	}
	if err := s.store.Destroy(ctx, assetID); err != nil {
		s.logger.WarnContext(ctx, "destroy recording asset", "asset_id", assetID, "error", err)
	}
}
