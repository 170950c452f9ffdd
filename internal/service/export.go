package service

import (
	"context"
	"fmt"

	"github.com/casccoach/platform/backend/internal/domain"
	"github.com/casccoach/platform/backend/internal/pricing"
	"github.com/casccoach/platform/backend/internal/repo"
)

// exportPageSize is the page size used to walk the bookings table.
const exportPageSize = 100

// ExportService assembles a flat export of every booking for the admin console.
type ExportService struct {
	bookings repo.BookingRepo
}

// NewExportService constructs an ExportService backed by the booking repo.
func NewExportService(bookings repo.BookingRepo) *ExportService {
	return &ExportService{bookings: bookings}
}

// Export returns one row per booking, newest first.
func (s *ExportService) Export(ctx context.Context) ([]domain.BookingExportRow, error) {
	var rows []domain.BookingExportRow
	for page := 1; ; page++ {
		bs, total, err := s.bookings.ListPaged(ctx, domain.PaginationParams{Page: page, Limit: exportPageSize})
		if err != nil {
			return nil, fmt.Errorf("service.ExportService.Export: %w", err)
		}
		if rows == nil {
			rows = make([]domain.BookingExportRow, 0, total)
		}
		for _, b := range bs {
			rows = append(rows, exportRow(b))
		}
		if len(bs) < exportPageSize || int64(len(rows)) >= total {
			return rows, nil
		}
	}
}

func exportRow(b domain.Booking) domain.BookingExportRow {
	row := domain.BookingExportRow{
		BookingID:        b.ID,
		CreatedAt:        b.CreatedAt,
		Status:           b.Status,
		CandidateID:      b.CandidateID,
		SessionMode:      b.SessionMode,
		SessionType:      b.SessionType,
		Stations:         b.Stations,
		GroupSize:        b.GroupSize,
		Price:            pricing.PriceOf(b),
		Paid:             b.PaymentID != nil,
		RecordingConsent: b.RecordingConsent,
		ScheduledAt:      b.ScheduledAt,
	}
	if b.Trainer != nil {
		row.TrainerName = b.Trainer.Name
	}
	return row
}
