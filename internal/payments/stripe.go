package payments

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
	"github.com/stripe/stripe-go/v76/webhook"
)

// ErrInvalidSignature is returned when a webhook payload fails verification.
var ErrInvalidSignature = errors.New("payments: invalid webhook signature")

const bookingMetadataKey = "booking_id"

var _ Gateway = (*Stripe)(nil)

// Stripe is the Gateway backed by Stripe PaymentIntents.
type Stripe struct {
	api           *client.API
	webhookSecret string
}

// NewStripe builds a Stripe gateway. backends may be nil to use the default
// HTTP backends; tests pass their own.
func NewStripe(secretKey, webhookSecret string, backends *stripe.Backends) *Stripe {
	api := &client.API{}
	api.Init(secretKey, backends)
	return &Stripe{api: api, webhookSecret: webhookSecret}
}

func (s *Stripe) CreateIntent(ctx context.Context, in Intent) (IntentResult, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(in.AmountMinor),
		Currency: stripe.String(in.Currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.Context = ctx
	params.AddMetadata(bookingMetadataKey, in.BookingID.String())
	params.AddMetadata("candidate_id", in.CandidateID.String())

	pi, err := s.api.PaymentIntents.New(params)
	if err != nil {
		return IntentResult{}, fmt.Errorf("payments.Stripe.CreateIntent: %w", err)
	}
	return IntentResult{Reference: pi.ID, ClientSecret: pi.ClientSecret}, nil
}

func (s *Stripe) ClientSecret(ctx context.Context, reference string) (string, error) {
	params := &stripe.PaymentIntentParams{}
	params.Context = ctx

	pi, err := s.api.PaymentIntents.Get(reference, params)
	if err != nil {
		return "", fmt.Errorf("payments.Stripe.ClientSecret: %w", err)
	}
	return pi.ClientSecret, nil
}

func (s *Stripe) Refund(ctx context.Context, reference string, amountMinor int64) error {
	params := &stripe.RefundParams{
		PaymentIntent: stripe.String(reference),
		Amount:        stripe.Int64(amountMinor),
	}
	params.Context = ctx

	if _, err := s.api.Refunds.New(params); err != nil {
		return fmt.Errorf("payments.Stripe.Refund: %w", err)
	}
	return nil
}

func (s *Stripe) ParseEvent(payload []byte, signature string) (Event, error) {
	evt, err := webhook.ConstructEventWithOptions(payload, signature, s.webhookSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true})
	if err != nil {
		return Event{}, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}

	var kind EventKind
	switch evt.Type {
	case stripe.EventTypePaymentIntentSucceeded:
		kind = EventSucceeded
	case stripe.EventTypePaymentIntentPaymentFailed:
		kind = EventFailed
	default:
		return Event{Kind: EventIgnored}, nil
	}

	var pi stripe.PaymentIntent
	if err := json.Unmarshal(evt.Data.Raw, &pi); err != nil {
		return Event{}, fmt.Errorf("payments.Stripe.ParseEvent: decode payment intent: %w", err)
	}

	out := Event{Kind: kind, Reference: pi.ID}
	if id, err := uuid.Parse(pi.Metadata[bookingMetadataKey]); err == nil {
		out.BookingID = id
	}
	return out, nil
}
