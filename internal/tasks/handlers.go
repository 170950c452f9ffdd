package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"github.com/casccoach/platform/backend/internal/domain"
)

// RecordingExpirer is the part of the recording service the worker drives.
type RecordingExpirer interface {
	ExpireRecording(ctx context.Context, id uuid.UUID) error
	ExpireDue(ctx context.Context) (int, error)
}

// NewServeMux routes every task type to its handler.
func NewServeMux(recordings RecordingExpirer, logger *slog.Logger) *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeRecordingExpire, handleRecordingExpire(recordings, logger))
	mux.HandleFunc(TypeRecordingSweep, handleRecordingSweep(recordings, logger))
	return mux
}

func handleRecordingExpire(recordings RecordingExpirer, logger *slog.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p RecordingExpirePayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			return fmt.Errorf("%s: decode payload: %v: %w", TypeRecordingExpire, err, asynq.SkipRetry)
		}

		err := recordings.ExpireRecording(ctx, p.RecordingID)
		switch {
		case errors.Is(err, domain.ErrNotFound):
			// Already revoked, expired by the sweep, or deleted.
			logger.InfoContext(ctx, "recording already inactive", "recording_id", p.RecordingID)
			return nil
		case err != nil:
			return err
		}
		logger.InfoContext(ctx, "recording expired", "recording_id", p.RecordingID)
		return nil
	}
}

func handleRecordingSweep(recordings RecordingExpirer, logger *slog.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, _ *asynq.Task) error {
		n, err := recordings.ExpireDue(ctx)
		if err != nil {
			return err
		}
		if n > 0 {
			logger.InfoContext(ctx, "expired due recordings", "count", n)
		}
		return nil
	}
}
