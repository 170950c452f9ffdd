package service_test

import (
	"context"
	"fmt"
	"net/url"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/casccoach/platform/backend/internal/domain"
	"github.com/casccoach/platform/backend/internal/service"
)

// ---- helpers ---------------------------------------------------------------

var (
	candidate = uuid.MustParse("11111111-1111-1111-1111-111111111111")
	trainerID = uuid.MustParse("22222222-2222-2222-2222-222222222222")
)

func mockBooking() domain.Booking {
	return domain.Booking{
		CandidateID: candidate,
		TrainerID:   trainerID,
		SessionMode: domain.SessionModeOneOnOne,
		SessionType: domain.SessionTypeMock,
		Stations:    4,
	}
}

func groupBooking() domain.Booking {
	return domain.Booking{
		CandidateID: candidate,
		TrainerID:   trainerID,
		SessionMode: domain.SessionModeGroup,
		SessionType: domain.SessionTypeLearning,
		Stations:    2,
		GroupSize:   3,
		Participants: domain.Participants{
			{Name: "Ben", Email: "ben@example.com"},
			{Name: "Cat", Email: "cat@example.com"},
		},
	}
}

func bookableTrainers() *mockTrainerRepo {
	return &mockTrainerRepo{
		getByID: func(_ context.Context, id uuid.UUID) (domain.Trainer, error) {
			return domain.Trainer{ID: id, Status: domain.TrainerApproved, IsActive: true}, nil
		},
	}
}

func echoBookingRepo() *mockBookingRepo {
	return &mockBookingRepo{
		create: func(_ context.Context, b domain.Booking) (domain.Booking, error) {
			b.ID = uuid.New()
			return b, nil
		},
	}
}

// storedBooking returns a repo whose GetByID always yields b.
func storedBooking(b domain.Booking) *mockBookingRepo {
	return &mockBookingRepo{
		getByID: func(_ context.Context, id uuid.UUID) (domain.Booking, error) {
			if id != b.ID {
				return domain.Booking{}, domain.ErrNotFound
			}
			return b, nil
		},
		updateStatus: func(_ context.Context, _ uuid.UUID, from, to domain.BookingStatus) (domain.Booking, error) {
			if from != b.Status {
				return domain.Booking{}, domain.ErrConflict
			}
			out := b
			out.Status = to
			return out, nil
		},
	}
}

// ---- Create ----------------------------------------------------------------

func TestBookingService_Create_Pending(t *testing.T) {
	svc := service.NewBookingService(echoBookingRepo(), bookableTrainers(), &mockStationRepo{})

	got, err := svc.Create(context.Background(), mockBooking())

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, got.ID)
	assert.Equal(t, domain.BookingPending, got.Status)
}

func TestBookingService_Create_Group(t *testing.T) {
	svc := service.NewBookingService(echoBookingRepo(), bookableTrainers(), &mockStationRepo{})

	_, err := svc.Create(context.Background(), groupBooking())

	assert.NoError(t, err)
}

func TestBookingService_Create_Validation(t *testing.T) {
	cases := map[string]domain.Booking{
		"no candidate": func() domain.Booking { b := mockBooking(); b.CandidateID = uuid.Nil; return b }(),
		"unknown mode": func() domain.Booking { b := mockBooking(); b.SessionMode = "solo"; return b }(),
		"mock with 3 stations": func() domain.Booking {
			b := mockBooking()
			b.Stations = 3
			return b
		}(),
		"individual with group": func() domain.Booking {
			b := mockBooking()
			b.GroupSize = 2
			return b
		}(),
		"group mock": func() domain.Booking {
			b := groupBooking()
			b.SessionType = domain.SessionTypeMock
			return b
		}(),
		"group size 4": func() domain.Booking {
			b := groupBooking()
			b.GroupSize = 4
			return b
		}(),
		"missing participant": func() domain.Booking {
			b := groupBooking()
			b.Participants = b.Participants[:1]
			return b
		}(),
		"blank participant email": func() domain.Booking {
			b := groupBooking()
			b.Participants[1].Email = "  "
			return b
		}(),
		"too many stations picked": func() domain.Booking {
			b := groupBooking()
			b.StationIDs = []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}
			return b
		}(),
		"station picked twice": func() domain.Booking {
			b := groupBooking()
			id := uuid.New()
			b.StationIDs = []uuid.UUID{id, id}
			return b
		}(),
	}
	for name, b := range cases {
		t.Run(name, func(t *testing.T) {
			// Nothing may reach the repos.
			svc := service.NewBookingService(&mockBookingRepo{}, &mockTrainerRepo{}, &mockStationRepo{})

			_, err := svc.Create(context.Background(), b)

			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}
}

func TestBookingService_Create_InactiveStation(t *testing.T) {
	stations := &mockStationRepo{
		countActive: func(_ context.Context, ids []uuid.UUID) (int, error) { return len(ids) - 1, nil },
	}
	svc := service.NewBookingService(&mockBookingRepo{}, bookableTrainers(), stations)
	b := mockBooking()
	b.StationIDs = []uuid.UUID{uuid.New(), uuid.New()}

	_, err := svc.Create(context.Background(), b)

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestBookingService_Create_TrainerNotBookable(t *testing.T) {
	trainers := &mockTrainerRepo{
		getByID: func(_ context.Context, id uuid.UUID) (domain.Trainer, error) {
			return domain.Trainer{ID: id, Status: domain.TrainerApproved, IsActive: false}, nil
		},
	}
	svc := service.NewBookingService(&mockBookingRepo{}, trainers, &mockStationRepo{})

	_, err := svc.Create(context.Background(), mockBooking())

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestBookingService_Create_UnknownTrainer(t *testing.T) {
	trainers := &mockTrainerRepo{
		getByID: func(_ context.Context, _ uuid.UUID) (domain.Trainer, error) {
			return domain.Trainer{}, domain.ErrNotFound
		},
	}
	svc := service.NewBookingService(&mockBookingRepo{}, trainers, &mockStationRepo{})

	_, err := svc.Create(context.Background(), mockBooking())

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ---- ownership -------------------------------------------------------------

func TestBookingService_GetForCandidate_OtherCandidate(t *testing.T) {
	b := mockBooking()
	b.ID = uuid.New()
	svc := service.NewBookingService(storedBooking(b), &mockTrainerRepo{}, &mockStationRepo{})

	_, err := svc.GetForCandidate(context.Background(), uuid.New(), b.ID)

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ---- lifecycle -------------------------------------------------------------

func TestBookingService_Cancel(t *testing.T) {
	b := mockBooking()
	b.ID = uuid.New()
	b.Status = domain.BookingConfirmed
	svc := service.NewBookingService(storedBooking(b), &mockTrainerRepo{}, &mockStationRepo{})

	got, err := svc.Cancel(context.Background(), candidate, b.ID)

	require.NoError(t, err)
	assert.Equal(t, domain.BookingCancelled, got.Status)
}

func TestBookingService_Cancel_Terminal(t *testing.T) {
	for _, st := range []domain.BookingStatus{domain.BookingCompleted, domain.BookingCancelled} {
		b := mockBooking()
		b.ID = uuid.New()
		b.Status = st
		svc := service.NewBookingService(storedBooking(b), &mockTrainerRepo{}, &mockStationRepo{})

		_, err := svc.Cancel(context.Background(), candidate, b.ID)

		assert.ErrorIs(t, err, domain.ErrConflict, st)
	}
}

func TestBookingService_UpdateStatus_FollowsLifecycle(t *testing.T) {
	b := mockBooking()
	b.ID = uuid.New()
	b.Status = domain.BookingPending
	svc := service.NewBookingService(storedBooking(b), &mockTrainerRepo{}, &mockStationRepo{})
	ctx := context.Background()

	_, err := svc.UpdateStatus(ctx, b.ID, domain.BookingCompleted)
	assert.ErrorIs(t, err, domain.ErrConflict, "pending cannot jump to completed")

	got, err := svc.UpdateStatus(ctx, b.ID, domain.BookingConfirmed)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingConfirmed, got.Status)

	_, err = svc.UpdateStatus(ctx, b.ID, "archived")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

// A cancel landing between the read and the write must not be overwritten.
func TestBookingService_UpdateStatus_GuardsOnReadStatus(t *testing.T) {
	b := mockBooking()
	b.ID = uuid.New()
	b.Status = domain.BookingPending
	r := storedBooking(b)
	var gotFrom domain.BookingStatus
	r.updateStatus = func(_ context.Context, _ uuid.UUID, from, _ domain.BookingStatus) (domain.Booking, error) {
		gotFrom = from
		return domain.Booking{}, fmt.Errorf("%w: booking is now cancelled", domain.ErrConflict)
	}
	svc := service.NewBookingService(r, &mockTrainerRepo{}, &mockStationRepo{})

	_, err := svc.UpdateStatus(context.Background(), b.ID, domain.BookingConfirmed)

	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.Equal(t, domain.BookingPending, gotFrom)
}

// ---- scheduling ------------------------------------------------------------

func TestBookingService_SchedulingLink(t *testing.T) {
	b := mockBooking()
	b.ID = uuid.New()
	b.Status = domain.BookingPending
	b.Trainer = &domain.TrainerSummary{ID: trainerID, CalendarLink: "https://calendly.com/ada-lane/mock"}
	svc := service.NewBookingService(storedBooking(b), &mockTrainerRepo{}, &mockStationRepo{})
	who := domain.Identity{UserID: candidate, Email: "dana@example.com", FullName: "Dana Ray"}

	link, err := svc.SchedulingLink(context.Background(), who, b.ID)

	require.NoError(t, err)
	u, err := url.Parse(link)
	require.NoError(t, err)
	assert.Equal(t, "calendly.com", u.Host)
	assert.Equal(t, "Dana Ray", u.Query().Get("name"))
	assert.Equal(t, "dana@example.com", u.Query().Get("email"))
	assert.Equal(t, b.ID.String(), u.Query().Get("utm_content"))
}

func TestBookingService_SchedulingLink_NoCalendar(t *testing.T) {
	b := mockBooking()
	b.ID = uuid.New()
	b.Status = domain.BookingPending
	b.Trainer = &domain.TrainerSummary{ID: trainerID}
	svc := service.NewBookingService(storedBooking(b), &mockTrainerRepo{}, &mockStationRepo{})

	_, err := svc.SchedulingLink(context.Background(), domain.Identity{UserID: candidate}, b.ID)

	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestBookingService_EventScheduled_Confirms(t *testing.T) {
	now := time.Date(2025, 4, 2, 8, 0, 0, 0, time.UTC)
	b := mockBooking()
	b.ID = uuid.New()
	b.Status = domain.BookingPending
	r := storedBooking(b)
	r.markScheduled = func(_ context.Context, id uuid.UUID, at time.Time, uri string) (domain.Booking, error) {
		out := b
		out.Status = domain.BookingConfirmed
		out.ScheduledAt = &at
		out.EventURI = uri
		return out, nil
	}
	svc := service.NewBookingService(r, &mockTrainerRepo{}, &mockStationRepo{})
	svc.SetNow(func() time.Time { return now })

	got, err := svc.EventScheduled(context.Background(), b.ID, time.Time{}, "https://api.calendly.com/scheduled_events/abc")

	require.NoError(t, err)
	assert.Equal(t, domain.BookingConfirmed, got.Status)
	require.NotNil(t, got.ScheduledAt)
	assert.Equal(t, now, *got.ScheduledAt, "a missing start time falls back to now")
	assert.Equal(t, "https://api.calendly.com/scheduled_events/abc", got.EventURI)
}

func TestBookingService_EventScheduled_CancelledBooking(t *testing.T) {
	b := mockBooking()
	b.ID = uuid.New()
	b.Status = domain.BookingCancelled
	svc := service.NewBookingService(storedBooking(b), &mockTrainerRepo{}, &mockStationRepo{})

	_, err := svc.EventScheduled(context.Background(), b.ID, time.Now(), "")

	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestBookingService_CandidateEventScheduled_OtherCandidate(t *testing.T) {
	b := mockBooking()
	b.ID = uuid.New()
	b.Status = domain.BookingPending
	svc := service.NewBookingService(storedBooking(b), &mockTrainerRepo{}, &mockStationRepo{})

	_, err := svc.CandidateEventScheduled(context.Background(), uuid.New(), b.ID, time.Now(), "")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ---- trainer view ----------------------------------------------------------

func TestBookingService_ListForTrainerUser(t *testing.T) {
	userID := uuid.New()
	trainers := &mockTrainerRepo{
		getByUserID: func(_ context.Context, _ uuid.UUID) (domain.Trainer, error) {
			return domain.Trainer{ID: trainerID}, nil
		},
	}
	bookings := &mockBookingRepo{
		listForTrainer: func(_ context.Context, id uuid.UUID) ([]domain.Booking, error) {
			assert.Equal(t, trainerID, id)
			return []domain.Booking{mockBooking()}, nil
		},
	}
	svc := service.NewBookingService(bookings, trainers, &mockStationRepo{})

	got, err := svc.ListForTrainerUser(context.Background(), userID)

	require.NoError(t, err)
	assert.Len(t, got, 1)
}
