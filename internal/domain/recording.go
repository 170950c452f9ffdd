package domain

import (
	"time"

	"github.com/google/uuid"
)

// RecordingStatus is the availability state of a session recording.
type RecordingStatus string

const (
	RecordingActive  RecordingStatus = "active"
	RecordingExpired RecordingStatus = "expired"
	RecordingRevoked RecordingStatus = "revoked"
)

// Recording is a stored session video, visible to its candidate until it
// expires or an admin revokes it.
type Recording struct {
	ID          uuid.UUID
	BookingID   uuid.UUID
	TrainerID   uuid.UUID
	CandidateID uuid.UUID
	URL         string
	AssetID     string
	Status      RecordingStatus
	ExpiryDate  time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
