package domain

import (
	"time"

	"github.com/google/uuid"
)

// PaymentStatus is the state of a payment record.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentRefunded  PaymentStatus = "refunded"
	PaymentFailed    PaymentStatus = "failed"
)

// Valid reports whether s is a known payment status.
func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentPending, PaymentCompleted, PaymentRefunded, PaymentFailed:
		return true
	}
	return false
}

// Payment is a charge taken for a booking. Amounts are in major currency
// units, matching the price table.
type Payment struct {
	ID                uuid.UUID
	BookingID         uuid.UUID
	CandidateID       uuid.UUID
	TrainerID         uuid.UUID
	Amount            float64
	Currency          string
	Status            PaymentStatus
	ProviderReference string
	RefundAmount      *float64
	RefundPercentage  *int
	RefundReason      string
	RefundedAt        *time.Time
	RefundedBy        *uuid.UUID
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Refund describes an admin refund of a completed payment.
type Refund struct {
	PaymentID  uuid.UUID
	Percentage int
	Reason     string
	AdminID    uuid.UUID
}

// Checkout is what a candidate needs to complete a payment client-side.
type Checkout struct {
	Payment      Payment
	ClientSecret string
}
