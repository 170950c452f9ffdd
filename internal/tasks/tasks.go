// Package tasks defines the background jobs run by cmd/worker and the client
// the API uses to schedule them.
package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

const (
	// TypeRecordingExpire expires one recording at its expiry date.
	TypeRecordingExpire = "recording:expire"
	// TypeRecordingSweep expires every recording that is past due. It runs
	// periodically and catches anything a per-recording task missed.
	TypeRecordingSweep = "recording:sweep"
)

// SweepSchedule is the cron spec the worker registers the sweep under.
const SweepSchedule = "@hourly"

// RecordingExpirePayload is the body of a TypeRecordingExpire task.
type RecordingExpirePayload struct {
	RecordingID uuid.UUID `json:"recording_id"`
}

// NewRecordingExpireTask builds the task and its options. The task id is
// derived from the recording so scheduling twice is harmless.
func NewRecordingExpireTask(recordingID uuid.UUID, at time.Time) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(RecordingExpirePayload{RecordingID: recordingID})
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeRecordingExpire, b)
	opts := []asynq.Option{
		asynq.ProcessAt(at),
		asynq.TaskID("recording-expire:" + recordingID.String()),
		asynq.MaxRetry(5),
	}
	return task, opts, nil
}

// NewRecordingSweepTask builds the periodic sweep task.
func NewRecordingSweepTask() *asynq.Task {
	return asynq.NewTask(TypeRecordingSweep, nil)
}

// Client enqueues tasks from the API process.
type Client struct {
	client *asynq.Client
}

// NewClient wraps an asynq client connected to the job queue.
func NewClient(opt asynq.RedisConnOpt) *Client {
	return &Client{client: asynq.NewClient(opt)}
}

// ScheduleRecordingExpiry queues the expiry of a recording at the given time.
func (c *Client) ScheduleRecordingExpiry(ctx context.Context, recordingID uuid.UUID, at time.Time) error {
	task, opts, err := NewRecordingExpireTask(recordingID, at)
	if err != nil {
		return fmt.Errorf("tasks.Client.ScheduleRecordingExpiry: %w", err)
	}
	if _, err := c.client.EnqueueContext(ctx, task, opts...); err != nil {
		if errors.Is(err, asynq.ErrTaskIDConflict) {
			return nil
		}
		return fmt.Errorf("tasks.Client.ScheduleRecordingExpiry: %w", err)
	}
	return nil
}

// Close releases the queue connection.
func (c *Client) Close() error {
	return c.client.Close()
}
