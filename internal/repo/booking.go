package repo

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/casccoach/platform/backend/internal/domain"
)

// BookingRepo defines the persistence operations for bookings and their
// ordered station picks.
type BookingRepo interface {
	// Create inserts the booking and its station picks in one transaction and
	// returns the stored booking with its trainer summary.
	Create(ctx context.Context, b domain.Booking) (domain.Booking, error)

	// GetByID returns domain.ErrNotFound when no booking has that id.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Booking, error)

	// ListForCandidate returns the candidate's bookings, newest first.
	ListForCandidate(ctx context.Context, candidateID uuid.UUID) ([]domain.Booking, error)

	// ListForTrainer returns the trainer's bookings, newest first.
	ListForTrainer(ctx context.Context, trainerID uuid.UUID) ([]domain.Booking, error)

	// ListPaged returns one page of all bookings and the total count.
	ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Booking, int64, error)

	// UpdateStatus moves the booking from one lifecycle status to another.
	// Transition rules belong to the service layer; the update only applies
	// while the booking is still in from, otherwise ErrConflict.
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to domain.BookingStatus) (domain.Booking, error)

	// MarkScheduled confirms a pending or confirmed booking and records when
	// and where the calendar event was created. Any other status is ErrConflict.
	MarkScheduled(ctx context.Context, id uuid.UUID, at time.Time, eventURI string) (domain.Booking, error)

	// SetPayment links a completed payment to its booking.
	SetPayment(ctx context.Context, id, paymentID uuid.UUID) error
}

type pgBookingRepo struct {
	db db
}

// NewBookingRepo constructs a BookingRepo backed by db.
func NewBookingRepo(db db) BookingRepo {
	return &pgBookingRepo{db: db}
}

const bookingSelect = `
	SELECT b.id, b.candidate_id, b.trainer_id, b.payment_id, b.session_mode, b.session_type,
	       b.stations, b.group_size, b.group_participants, b.notes, b.recording_consent,
	       b.status, b.scheduled_at, b.event_uri, b.created_at, b.updated_at,
	       t.name, t.specialty, t.calendar_link,
	       COALESCE((SELECT array_agg(bs.station_id ORDER BY bs.station_order)
	                 FROM booking_stations bs
	                 WHERE bs.booking_id = b.id), '{}')
	FROM bookings b
	JOIN trainers t ON t.id = b.trainer_id`

func (r *pgBookingRepo) Create(ctx context.Context, b domain.Booking) (domain.Booking, error) {
	const insertBooking = `
		INSERT INTO bookings (candidate_id, trainer_id, session_mode, session_type, stations,
		                      group_size, group_participants, notes, recording_consent, status)
		VALUES (@candidate_id, @trainer_id, @session_mode, @session_type, @stations,
		        @group_size, @group_participants, @notes, @recording_consent, @status)
		RETURNING id`
	const insertStation = `
		INSERT INTO booking_stations (booking_id, station_id, station_order)
		VALUES (@booking_id, @station_id, @station_order)`

	participants, err := domain.MarshalParticipants(b.Participants)
	if err != nil {
		return domain.Booking{}, fmt.Errorf("repo.BookingRepo.Create: %w", err)
	}
	var groupSize *int
	if b.GroupSize > 0 {
		groupSize = &b.GroupSize
	}

	var created domain.Booking
	err = pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		var id pgtype.UUID
		err := tx.QueryRow(ctx, insertBooking, pgx.NamedArgs{
			"candidate_id":       b.CandidateID,
			"trainer_id":         b.TrainerID,
			"session_mode":       string(b.SessionMode),
			"session_type":       string(b.SessionType),
			"stations":           b.Stations,
			"group_size":         groupSize,
			"group_participants": participants,
			"notes":              b.Notes,
			"recording_consent":  b.RecordingConsent,
			"status":             string(b.Status),
		}).Scan(&id)
		if err != nil {
			return err
		}
		bookingID := uuid.UUID(id.Bytes)

		for i, stationID := range b.StationIDs {
			_, err := tx.Exec(ctx, insertStation, pgx.NamedArgs{
				"booking_id":    bookingID,
				"station_id":    stationID,
				"station_order": i + 1,
			})
			if err != nil {
				return err
			}
		}

		created, err = getBooking(ctx, tx, bookingID)
		return err
	})
	if err != nil {
		return domain.Booking{}, fmt.Errorf("repo.BookingRepo.Create: %w", mapError(err))
	}
	return created, nil
}

func (r *pgBookingRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Booking, error) {
	b, err := getBooking(ctx, r.db, id)
	if err != nil {
		return domain.Booking{}, fmt.Errorf("repo.BookingRepo.GetByID: %w", mapError(err))
	}
	return b, nil
}

func getBooking(ctx context.Context, conn db, id uuid.UUID) (domain.Booking, error) {
	const q = bookingSelect + ` WHERE b.id = @id`
	return scanBooking(conn.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
}

func (r *pgBookingRepo) ListForCandidate(ctx context.Context, candidateID uuid.UUID) ([]domain.Booking, error) {
	const q = bookingSelect + `
		WHERE b.candidate_id = @candidate_id
		ORDER BY b.created_at DESC`

	bookings, err := r.list(ctx, q, pgx.NamedArgs{"candidate_id": candidateID})
	if err != nil {
		return nil, fmt.Errorf("repo.BookingRepo.ListForCandidate: %w", err)
	}
	return bookings, nil
}

func (r *pgBookingRepo) ListForTrainer(ctx context.Context, trainerID uuid.UUID) ([]domain.Booking, error) {
	const q = bookingSelect + `
		WHERE b.trainer_id = @trainer_id
		ORDER BY b.created_at DESC`

	bookings, err := r.list(ctx, q, pgx.NamedArgs{"trainer_id": trainerID})
	if err != nil {
		return nil, fmt.Errorf("repo.BookingRepo.ListForTrainer: %w", err)
	}
	return bookings, nil
}

func (r *pgBookingRepo) ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Booking, int64, error) {
	const q = bookingSelect + `
		ORDER BY b.created_at DESC
		LIMIT @limit OFFSET @offset`
	const countQ = `SELECT count(*) FROM bookings`

	var total int64
	if err := r.db.QueryRow(ctx, countQ).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("repo.BookingRepo.ListPaged: count: %w", err)
	}

	bookings, err := r.list(ctx, q, pgx.NamedArgs{"limit": p.Limit, "offset": p.Offset()})
	if err != nil {
		return nil, 0, fmt.Errorf("repo.BookingRepo.ListPaged: %w", err)
	}
	return bookings, total, nil
}

func (r *pgBookingRepo) list(ctx context.Context, q string, args pgx.NamedArgs) ([]domain.Booking, error) {
	rows, err := r.db.Query(ctx, q, args)
	if err != nil {
		return nil, err
	}
	bookings, err := collect(rows, scanBooking)
	if err != nil {
		return nil, fmt.Errorf("scan: %w", err)
	}
	return bookings, nil
}

func (r *pgBookingRepo) UpdateStatus(ctx context.Context, id uuid.UUID, from, to domain.BookingStatus) (domain.Booking, error) {
	const q = `
		UPDATE bookings
		SET status = @status, updated_at = now()
		WHERE id = @id AND status = @from`

	b, err := r.updateAndGet(ctx, id, q, pgx.NamedArgs{"status": string(to), "from": string(from)})
	if err != nil {
		return domain.Booking{}, fmt.Errorf("repo.BookingRepo.UpdateStatus: %w", err)
	}
	return b, nil
}

func (r *pgBookingRepo) MarkScheduled(ctx context.Context, id uuid.UUID, at time.Time, eventURI string) (domain.Booking, error) {
	const q = `
		UPDATE bookings
		SET status       = 'confirmed',
		    scheduled_at = @scheduled_at,
		    event_uri    = @event_uri,
		    updated_at   = now()
		WHERE id = @id AND status IN ('pending', 'confirmed')`

	b, err := r.updateAndGet(ctx, id, q, pgx.NamedArgs{
		"scheduled_at": at,
		"event_uri":    eventURI,
	})
	if err != nil {
		return domain.Booking{}, fmt.Errorf("repo.BookingRepo.MarkScheduled: %w", err)
	}
	return b, nil
}

// updateAndGet runs a status-guarded UPDATE against a single booking and
// re-reads it with its joins in the same transaction. When no row matched,
// a booking that exists has moved on to another status: ErrConflict.
func (r *pgBookingRepo) updateAndGet(ctx context.Context, id uuid.UUID, q string, args pgx.NamedArgs) (domain.Booking, error) {
	args["id"] = id

	var b domain.Booking
	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, q, args)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			current, err := getBooking(ctx, tx, id)
			if err != nil {
				return err
			}
			return fmt.Errorf("%w: booking is now %s", domain.ErrConflict, current.Status)
		}
		b, err = getBooking(ctx, tx, id)
		return err
	})
	if err != nil {
		return domain.Booking{}, mapError(err)
	}
	return b, nil
}

func (r *pgBookingRepo) SetPayment(ctx context.Context, id, paymentID uuid.UUID) error {
	const q = `UPDATE bookings SET payment_id = @payment_id, updated_at = now() WHERE id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id, "payment_id": paymentID})
	if err != nil {
		return fmt.Errorf("repo.BookingRepo.SetPayment: %w", mapError(err))
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.BookingRepo.SetPayment: %w", domain.ErrNotFound)
	}
	return nil
}

func scanBooking(s scanner) (domain.Booking, error) {
	var (
		b                     domain.Booking
		id, candID, trainerID pgtype.UUID
		paymentID             pgtype.UUID
		mode, sessionType     string
		status                string
		groupSize             pgtype.Int4
		participants          []byte
		scheduledAt           pgtype.Timestamptz
		trainer               domain.TrainerSummary
		stationIDs            []pgtype.UUID
	)

	err := s.Scan(&id, &candID, &trainerID, &paymentID, &mode, &sessionType,
		&b.Stations, &groupSize, &participants, &b.Notes, &b.RecordingConsent,
		&status, &scheduledAt, &b.EventURI, &b.CreatedAt, &b.UpdatedAt,
		&trainer.Name, &trainer.Specialty, &trainer.CalendarLink, &stationIDs)
	if err != nil {
		return domain.Booking{}, err
	}

	ps, err := domain.ParseParticipants(participants)
	if err != nil {
		return domain.Booking{}, fmt.Errorf("group_participants: %w", err)
	}

	b.ID = uuid.UUID(id.Bytes)
	b.CandidateID = uuid.UUID(candID.Bytes)
	b.TrainerID = uuid.UUID(trainerID.Bytes)
	b.PaymentID = uuidPtr(paymentID)
	b.SessionMode = domain.SessionMode(mode)
	b.SessionType = domain.SessionType(sessionType)
	if groupSize.Valid {
		b.GroupSize = int(groupSize.Int32)
	}
	b.Participants = ps
	b.Status = domain.BookingStatus(status)
	b.ScheduledAt = timePtr(scheduledAt)
	b.StationIDs = make([]uuid.UUID, 0, len(stationIDs))
	for _, sid := range stationIDs {
		b.StationIDs = append(b.StationIDs, uuid.UUID(sid.Bytes))
	}
	trainer.ID = b.TrainerID
	b.Trainer = &trainer
	return b, nil
}
