// Package payments talks to the card payment provider. The rest of the
// application sees only the Gateway interface and provider-neutral events.
package payments

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrNotConfigured is returned by the disabled gateway when no provider
// credentials were supplied.
var ErrNotConfigured = errors.New("payments: provider not configured")

// Intent describes a charge to set up for a booking.
type Intent struct {
	BookingID   uuid.UUID
	CandidateID uuid.UUID
	AmountMinor int64 // smallest currency unit, e.g. pence
	Currency    string
}

// IntentResult identifies the created charge. ClientSecret is handed to the
// browser to confirm the card payment.
type IntentResult struct {
	Reference    string
	ClientSecret string
}

// EventKind classifies a verified provider notification.
type EventKind int

const (
	EventIgnored EventKind = iota
	EventSucceeded
	EventFailed
)

// Event is a verified provider notification about one charge.
type Event struct {
	Kind      EventKind
	Reference string
	BookingID uuid.UUID // from the charge metadata; Nil when absent
}

// Gateway is the payment provider as the service layer uses it.
type Gateway interface {
	CreateIntent(ctx context.Context, in Intent) (IntentResult, error)
	// ClientSecret returns the browser secret of an existing charge so an
	// interrupted checkout can resume it.
	ClientSecret(ctx context.Context, reference string) (string, error)
	Refund(ctx context.Context, reference string, amountMinor int64) error
	// ParseEvent verifies the signature header and decodes the payload.
	ParseEvent(payload []byte, signature string) (Event, error)
}

// MinorUnits converts a whole-unit price into the provider's smallest unit.
func MinorUnits(amount float64) int64 {
	return int64(amount*100 + 0.5)
}

// Disabled is the Gateway used when payments are not configured.
type Disabled struct{}

func (Disabled) CreateIntent(context.Context, Intent) (IntentResult, error) {
	return IntentResult{}, ErrNotConfigured
}

func (Disabled) ClientSecret(context.Context, string) (string, error) {
	return "", ErrNotConfigured
}

func (Disabled) Refund(context.Context, string, int64) error {
	return ErrNotConfigured
}

func (Disabled) ParseEvent([]byte, string) (Event, error) {
	return Event{}, ErrNotConfigured
}
