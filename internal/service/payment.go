package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/google/uuid"

	"github.com/casccoach/platform/backend/internal/domain"
	"github.com/casccoach/platform/backend/internal/payments"
	"github.com/casccoach/platform/backend/internal/pricing"
	"github.com/casccoach/platform/backend/internal/repo"
)

// PaymentService charges candidates for bookings and lets admins refund.
type PaymentService struct {
	payments repo.PaymentRepo
	bookings repo.BookingRepo
	gateway  payments.Gateway
	currency string
	logger   *slog.Logger
}

// NewPaymentService constructs a PaymentService charging in currency.
func NewPaymentService(p repo.PaymentRepo, b repo.BookingRepo, gw payments.Gateway, currency string, logger *slog.Logger) *PaymentService {
	return &PaymentService{payments: p, bookings: b, gateway: gw, currency: currency, logger: logger}
}

// Checkout starts a card payment for the candidate's booking at its list
// price and records it as pending. A booking with a pending payment gets
// that payment back instead of a second charge.
func (s *PaymentService) Checkout(ctx context.Context, candidateID, bookingID uuid.UUID) (domain.Checkout, error) {
	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return domain.Checkout{}, fmt.Errorf("service.PaymentService.Checkout: %w", err)
	}
	if b.CandidateID != candidateID {
		return domain.Checkout{}, fmt.Errorf("service.PaymentService.Checkout: %w", domain.ErrNotFound)
	}
	if b.PaymentID != nil {
		return domain.Checkout{}, fmt.Errorf("%w: booking is already paid", domain.ErrConflict)
	}
	if b.Status != domain.BookingPending && b.Status != domain.BookingConfirmed {
		return domain.Checkout{}, fmt.Errorf("%w: a %s booking cannot be paid", domain.ErrConflict, b.Status)
	}
	amount := pricing.PriceOf(b)
	if amount == 0 {
		return domain.Checkout{}, fmt.Errorf("%w: booking has no price", domain.ErrValidation)
	}

	open, err := s.payments.GetOpenForBooking(ctx, b.ID)
	if err == nil {
		return s.resume(ctx, open)
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return domain.Checkout{}, fmt.Errorf("service.PaymentService.Checkout: %w", err)
	}

	intent, err := s.gateway.CreateIntent(ctx, payments.Intent{
		BookingID:   b.ID,
		CandidateID: candidateID,
		AmountMinor: payments.MinorUnits(float64(amount)),
		Currency:    s.currency,
	})
	if err != nil {
		return domain.Checkout{}, fmt.Errorf("service.PaymentService.Checkout: %w", err)
	}

	p, err := s.payments.Create(ctx, domain.Payment{
		BookingID:         b.ID,
		CandidateID:       candidateID,
		TrainerID:         b.TrainerID,
		Amount:            float64(amount),
		Currency:          s.currency,
		Status:            domain.PaymentPending,
		ProviderReference: intent.Reference,
	})
	if errors.Is(err, domain.ErrConflict) {
		// A concurrent checkout for the same booking stored its payment
		// first. Hand that one out; this intent is never confirmed.
		if open, gerr := s.payments.GetOpenForBooking(ctx, b.ID); gerr == nil {
			s.logger.WarnContext(ctx, "concurrent checkout, resuming stored payment",
				"booking_id", b.ID, "unused_intent", intent.Reference)
			return s.resume(ctx, open)
		}
	}
	if err != nil {
		return domain.Checkout{}, fmt.Errorf("service.PaymentService.Checkout: %w", err)
	}
	return domain.Checkout{Payment: p, ClientSecret: intent.ClientSecret}, nil
}

// resume hands out an open payment again. A completed one means the booking
// is paid and only waits for the provider notification to link it.
func (s *PaymentService) resume(ctx context.Context, p domain.Payment) (domain.Checkout, error) {
	if p.Status == domain.PaymentCompleted {
		return domain.Checkout{}, fmt.Errorf("%w: booking is already paid", domain.ErrConflict)
	}
	secret, err := s.gateway.ClientSecret(ctx, p.ProviderReference)
	if err != nil {
		return domain.Checkout{}, fmt.Errorf("service.PaymentService.Checkout: %w", err)
	}
	return domain.Checkout{Payment: p, ClientSecret: secret}, nil
}

// HandleEvent applies a signed provider notification. Notifications are
// idempotent: replays of a settled payment change nothing.
func (s *PaymentService) HandleEvent(ctx context.Context, payload []byte, signature string) error {
	evt, err := s.gateway.ParseEvent(payload, signature)
	if err != nil {
		if errors.Is(err, payments.ErrInvalidSignature) {
			return fmt.Errorf("%w: %v", domain.ErrValidation, err)
		}
		return fmt.Errorf("service.PaymentService.HandleEvent: %w", err)
	}
	if evt.Kind == payments.EventIgnored {
		return nil
	}

	p, err := s.payments.GetByProviderReference(ctx, evt.Reference)
	if err != nil {
		return fmt.Errorf("service.PaymentService.HandleEvent: %w", err)
	}
	if p.Status != domain.PaymentPending {
		s.logger.InfoContext(ctx, "payment event for settled payment", "payment_id", p.ID, "status", p.Status)
		return nil
	}

	switch evt.Kind {
	case payments.EventSucceeded:
		if _, err := s.payments.UpdateStatus(ctx, p.ID, domain.PaymentCompleted); err != nil {
			return fmt.Errorf("service.PaymentService.HandleEvent: %w", err)
		}
		if err := s.bookings.SetPayment(ctx, p.BookingID, p.ID); err != nil {
			return fmt.Errorf("service.PaymentService.HandleEvent: link booking: %w", err)
		}
		s.logger.InfoContext(ctx, "payment completed", "payment_id", p.ID, "booking_id", p.BookingID)
	case payments.EventFailed:
		if _, err := s.payments.UpdateStatus(ctx, p.ID, domain.PaymentFailed); err != nil {
			return fmt.Errorf("service.PaymentService.HandleEvent: %w", err)
		}
		s.logger.InfoContext(ctx, "payment failed", "payment_id", p.ID, "booking_id", p.BookingID)
	}
	return nil
}

// ListPaged returns one page of payments for the admin console.
func (s *PaymentService) ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Payment, int64, error) {
	ps, total, err := s.payments.ListPaged(ctx, p)
	if err != nil {
		return nil, 0, fmt.Errorf("service.PaymentService.ListPaged: %w", err)
	}
	return ps, total, nil
}

// UpdateStatus is the admin's manual correction. Refunds go through Refund.
func (s *PaymentService) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.PaymentStatus) (domain.Payment, error) {
	if !status.Valid() || status == domain.PaymentRefunded {
		return domain.Payment{}, fmt.Errorf("%w: status must be pending, completed or failed", domain.ErrValidation)
	}
	p, err := s.payments.UpdateStatus(ctx, id, status)
	if err != nil {
		return domain.Payment{}, fmt.Errorf("service.PaymentService.UpdateStatus: %w", err)
	}
	return p, nil
}

// Refund returns half or all of a completed payment to the candidate.
func (s *PaymentService) Refund(ctx context.Context, r domain.Refund) (domain.Payment, error) {
	if r.Percentage != 50 && r.Percentage != 100 {
		return domain.Payment{}, fmt.Errorf("%w: refund percentage must be 50 or 100", domain.ErrValidation)
	}
	p, err := s.payments.GetByID(ctx, r.PaymentID)
	if err != nil {
		return domain.Payment{}, fmt.Errorf("service.PaymentService.Refund: %w", err)
	}
	if p.Status != domain.PaymentCompleted {
		return domain.Payment{}, fmt.Errorf("%w: only completed payments can be refunded", domain.ErrConflict)
	}

	amount := RefundAmount(p.Amount, r.Percentage)
	if err := s.gateway.Refund(ctx, p.ProviderReference, payments.MinorUnits(amount)); err != nil {
		return domain.Payment{}, fmt.Errorf("service.PaymentService.Refund: %w", err)
	}
	refunded, err := s.payments.Refund(ctx, r, amount)
	if err != nil {
		return domain.Payment{}, fmt.Errorf("service.PaymentService.Refund: %w", err)
	}
	s.logger.InfoContext(ctx, "payment refunded", "payment_id", p.ID, "percentage", r.Percentage, "admin_id", r.AdminID)
	return refunded, nil
}

// RefundAmount is amount·pct/100 rounded to the nearest minor unit.
func RefundAmount(amount float64, pct int) float64 {
	return math.Round(amount*float64(pct)) / 100
}
