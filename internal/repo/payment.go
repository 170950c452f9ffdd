package repo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/casccoach/platform/backend/internal/domain"
)

// PaymentRepo defines the persistence operations for payments and refunds.
type PaymentRepo interface {
	// Create inserts a pending payment for a checkout.
	Create(ctx context.Context, p domain.Payment) (domain.Payment, error)

	// GetByID returns domain.ErrNotFound when no payment has that id.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Payment, error)

	// GetOpenForBooking returns the booking's pending or completed payment,
	// or domain.ErrNotFound when it has none. There is at most one.
	GetOpenForBooking(ctx context.Context, bookingID uuid.UUID) (domain.Payment, error)

	// GetByProviderReference looks a payment up by the payment provider's id.
	GetByProviderReference(ctx context.Context, ref string) (domain.Payment, error)

	// ListPaged returns one page of payments, newest first, and the total.
	ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Payment, int64, error)

	// UpdateStatus sets the payment status.
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.PaymentStatus) (domain.Payment, error)

	// Refund records a refund of amount and marks the payment refunded.
	Refund(ctx context.Context, r domain.Refund, amount float64) (domain.Payment, error)
}

type pgPaymentRepo struct {
	db db
}

// NewPaymentRepo constructs a PaymentRepo backed by db.
func NewPaymentRepo(db db) PaymentRepo {
	return &pgPaymentRepo{db: db}
}

const paymentColumns = `
	id, booking_id, candidate_id, trainer_id, amount, currency, status, provider_reference,
	refund_amount, refund_percentage, refund_reason, refunded_at, refunded_by,
	created_at, updated_at`

func (r *pgPaymentRepo) Create(ctx context.Context, p domain.Payment) (domain.Payment, error) {
	q := `
		INSERT INTO payments (booking_id, candidate_id, trainer_id, amount, currency, status,
		                      provider_reference)
		VALUES (@booking_id, @candidate_id, @trainer_id, @amount, @currency, @status,
		        @provider_reference)
		RETURNING` + paymentColumns

	got, err := scanPayment(r.db.QueryRow(ctx, q, pgx.NamedArgs{
		"booking_id":         p.BookingID,
		"candidate_id":       p.CandidateID,
		"trainer_id":         p.TrainerID,
		"amount":             p.Amount,
		"currency":           p.Currency,
		"status":             string(p.Status),
		"provider_reference": p.ProviderReference,
	}))
	if err != nil {
		return domain.Payment{}, fmt.Errorf("repo.PaymentRepo.Create: %w", mapError(err))
	}
	return got, nil
}

func (r *pgPaymentRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Payment, error) {
	q := `SELECT` + paymentColumns + ` FROM payments WHERE id = @id`

	p, err := scanPayment(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.Payment{}, fmt.Errorf("repo.PaymentRepo.GetByID: %w", mapError(err))
	}
	return p, nil
}

func (r *pgPaymentRepo) GetOpenForBooking(ctx context.Context, bookingID uuid.UUID) (domain.Payment, error) {
	q := `SELECT` + paymentColumns + `
		FROM payments
		WHERE booking_id = @booking_id AND status IN ('pending', 'completed')`

	p, err := scanPayment(r.db.QueryRow(ctx, q, pgx.NamedArgs{"booking_id": bookingID}))
	if err != nil {
		return domain.Payment{}, fmt.Errorf("repo.PaymentRepo.GetOpenForBooking: %w", mapError(err))
	}
	return p, nil
}

func (r *pgPaymentRepo) GetByProviderReference(ctx context.Context, ref string) (domain.Payment, error) {
	q := `SELECT` + paymentColumns + ` FROM payments WHERE provider_reference = @ref`

	p, err := scanPayment(r.db.QueryRow(ctx, q, pgx.NamedArgs{"ref": ref}))
	if err != nil {
		return domain.Payment{}, fmt.Errorf("repo.PaymentRepo.GetByProviderReference: %w", mapError(err))
	}
	return p, nil
}

func (r *pgPaymentRepo) ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Payment, int64, error) {
	q := `SELECT` + paymentColumns + `
		FROM payments
		ORDER BY created_at DESC
		LIMIT @limit OFFSET @offset`

	var total int64
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM payments`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("repo.PaymentRepo.ListPaged: count: %w", err)
	}

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"limit": p.Limit, "offset": p.Offset()})
	if err != nil {
		return nil, 0, fmt.Errorf("repo.PaymentRepo.ListPaged: %w", err)
	}
	payments, err := collect(rows, scanPayment)
	if err != nil {
		return nil, 0, fmt.Errorf("repo.PaymentRepo.ListPaged: scan: %w", err)
	}
	return payments, total, nil
}

func (r *pgPaymentRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.PaymentStatus) (domain.Payment, error) {
	q := `
		UPDATE payments SET status = @status, updated_at = now()
		WHERE id = @id
		RETURNING` + paymentColumns

	p, err := scanPayment(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id, "status": string(status)}))
	if err != nil {
		return domain.Payment{}, fmt.Errorf("repo.PaymentRepo.UpdateStatus: %w", mapError(err))
	}
	return p, nil
}

func (r *pgPaymentRepo) Refund(ctx context.Context, rf domain.Refund, amount float64) (domain.Payment, error) {
	q := `
		UPDATE payments
		SET status            = 'refunded',
		    refund_amount     = @refund_amount,
		    refund_percentage = @refund_percentage,
		    refund_reason     = @refund_reason,
		    refunded_at       = now(),
		    refunded_by       = @refunded_by,
		    updated_at        = now()
		WHERE id = @id
		RETURNING` + paymentColumns

	p, err := scanPayment(r.db.QueryRow(ctx, q, pgx.NamedArgs{
		"id":                rf.PaymentID,
		"refund_amount":     amount,
		"refund_percentage": rf.Percentage,
		"refund_reason":     rf.Reason,
		"refunded_by":       rf.AdminID,
	}))
	if err != nil {
		return domain.Payment{}, fmt.Errorf("repo.PaymentRepo.Refund: %w", mapError(err))
	}
	return p, nil
}

func scanPayment(s scanner) (domain.Payment, error) {
	var (
		p                          domain.Payment
		id, bookingID, candidateID pgtype.UUID
		trainerID, refundedBy      pgtype.UUID
		status                     string
		refundAmount               pgtype.Float8
		refundPct                  pgtype.Int4
		refundedAt                 pgtype.Timestamptz
	)

	err := s.Scan(&id, &bookingID, &candidateID, &trainerID, &p.Amount, &p.Currency, &status,
		&p.ProviderReference, &refundAmount, &refundPct, &p.RefundReason, &refundedAt,
		&refundedBy, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return domain.Payment{}, err
	}

	p.ID = uuid.UUID(id.Bytes)
	p.BookingID = uuid.UUID(bookingID.Bytes)
	p.CandidateID = uuid.UUID(candidateID.Bytes)
	p.TrainerID = uuid.UUID(trainerID.Bytes)
	p.Status = domain.PaymentStatus(status)
	if refundAmount.Valid {
		p.RefundAmount = &refundAmount.Float64
	}
	if refundPct.Valid {
		pct := int(refundPct.Int32)
		p.RefundPercentage = &pct
	}
	p.RefundedAt = timePtr(refundedAt)
	p.RefundedBy = uuidPtr(refundedBy)
	return p, nil
}
