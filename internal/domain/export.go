package domain

import (
	"time"

	"github.com/google/uuid"
)

// BookingExportRow is one booking flattened for the admin export.
type BookingExportRow struct {
	BookingID        uuid.UUID
	CreatedAt        time.Time
	Status           BookingStatus
	CandidateID      uuid.UUID
	TrainerName      string
	SessionMode      SessionMode
	SessionType      SessionType
	Stations         int
	GroupSize        int
	Price            int
	Paid             bool
	RecordingConsent bool
	ScheduledAt      *time.Time
}
