package domain

import (
	"time"

	"github.com/google/uuid"
)

// Mode is the booking mode as a candidate chooses it in the booking wizard.
type Mode string

const (
	ModeIndividual Mode = "individual"
	ModeGroup      Mode = "group"
)

// SessionMode is the persisted form of Mode.
type SessionMode string

const (
	SessionModeOneOnOne SessionMode = "one_on_one"
	SessionModeGroup    SessionMode = "group"
)

// SessionMode maps the wizard vocabulary to the stored one.
// The empty Mode maps to the empty SessionMode.
func (m Mode) SessionMode() SessionMode {
	switch m {
	case ModeIndividual:
		return SessionModeOneOnOne
	case ModeGroup:
		return SessionModeGroup
	}
	return ""
}

// Mode maps a stored session mode back to the wizard vocabulary.
func (m SessionMode) Mode() Mode {
	switch m {
	case SessionModeOneOnOne:
		return ModeIndividual
	case SessionModeGroup:
		return ModeGroup
	}
	return ""
}

// SessionType distinguishes a full simulated exam from focused coaching.
// Group bookings are always learning sessions.
type SessionType string

const (
	SessionTypeMock     SessionType = "mock"
	SessionTypeLearning SessionType = "learning"
)

// BookingStatus is the lifecycle state of a persisted booking.
type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCompleted BookingStatus = "completed"
	BookingCancelled BookingStatus = "cancelled"
)

var bookingTransitions = map[BookingStatus][]BookingStatus{
	BookingPending:   {BookingConfirmed, BookingCancelled},
	BookingConfirmed: {BookingCompleted, BookingCancelled},
}

// Valid reports whether s is a known booking status.
func (s BookingStatus) Valid() bool {
	switch s {
	case BookingPending, BookingConfirmed, BookingCompleted, BookingCancelled:
		return true
	}
	return false
}

// CanTransitionTo reports whether the lifecycle allows moving from s to next.
// Completed and cancelled bookings are terminal.
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	for _, allowed := range bookingTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Booking is the persisted record a completed wizard selection becomes.
type Booking struct {
	ID               uuid.UUID
	CandidateID      uuid.UUID
	TrainerID        uuid.UUID
	PaymentID        *uuid.UUID
	SessionMode      SessionMode
	SessionType      SessionType
	Stations         int
	GroupSize        int // 0 for one-on-one bookings
	Participants     Participants
	StationIDs       []uuid.UUID // ordered station picks, at most Stations long
	Notes            string
	RecordingConsent bool
	Status           BookingStatus
	ScheduledAt      *time.Time
	EventURI         string
	CreatedAt        time.Time
	UpdatedAt        time.Time

	// Trainer is populated by list queries that join the trainer row.
	Trainer *TrainerSummary
}
