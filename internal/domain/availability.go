package domain

import (
	"time"

	"github.com/google/uuid"
)

// AvailabilitySlot is a recurring weekly window in which a trainer takes sessions.
// DayOfWeek follows time.Weekday (0 = Sunday). Times are "HH:MM" wall-clock.
type AvailabilitySlot struct {
	ID        uuid.UUID
	TrainerID uuid.UUID
	DayOfWeek int
	StartTime string
	EndTime   string
	CreatedAt time.Time
}

// BlockedDate is a single day on which a trainer takes no sessions.
type BlockedDate struct {
	ID        uuid.UUID
	TrainerID uuid.UUID
	Date      time.Time
	Reason    string
	CreatedAt time.Time
}
