package domain

import (
	"time"

	"github.com/google/uuid"
)

// TrainerStatus is the approval state of a trainer application.
type TrainerStatus string

const (
	TrainerPending  TrainerStatus = "pending"
	TrainerApproved TrainerStatus = "approved"
	TrainerRejected TrainerStatus = "rejected"
)

// Valid reports whether s is a known approval state.
func (s TrainerStatus) Valid() bool {
	switch s {
	case TrainerPending, TrainerApproved, TrainerRejected:
		return true
	}
	return false
}

// Trainer is a coach listed in the directory.
// Approval transitions are owned by admins; the booking flow only reads trainers.
type Trainer struct {
	ID                  uuid.UUID
	UserID              *uuid.UUID // nil for trainers created by an admin without an account
	Name                string
	Email               string
	Bio                 string
	Specialty           string
	CalendarLink        string
	CalendarType        string
	AvatarURL           string
	Qualifications      string
	YearsExperience     int
	AreasOfExpertise    []string
	SessionTypesOffered []string
	Status              TrainerStatus
	IsActive            bool
	AppliedAt           *time.Time
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// Bookable reports whether candidates may book this trainer.
func (t Trainer) Bookable() bool {
	return t.IsActive && t.Status == TrainerApproved
}

// TrainerSummary is the trainer data joined onto bookings.
type TrainerSummary struct {
	ID           uuid.UUID
	Name         string
	Specialty    string
	CalendarLink string
}
