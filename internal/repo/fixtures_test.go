package repo_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"

	"github.com/casccoach/platform/backend/internal/domain"
	"github.com/casccoach/platform/backend/internal/repo"
)

// Fixture builders insert the minimum parent rows a test needs inside the
// test transaction.

func seedTrainer(t *testing.T, tx pgx.Tx, name string) domain.Trainer {
	t.Helper()
	tr, err := repo.NewTrainerRepo(tx).Create(context.Background(), domain.Trainer{
		Name:         name,
		Email:        "coach@example.com",
		CalendarLink: "https://calendly.com/" + name,
		CalendarType: "calendly",
		Status:       domain.TrainerApproved,
		IsActive:     true,
	})
	require.NoError(t, err, "seed trainer")
	return tr
}

func seedStation(t *testing.T, tx pgx.Tx, name string, active bool) domain.Station {
	t.Helper()
	ctx := context.Background()
	stations := repo.NewStationRepo(tx)

	cat, err := stations.CreateCategory(ctx, "Category "+name)
	require.NoError(t, err, "seed category")
	sub, err := stations.CreateSubcategory(ctx, domain.StationSubcategory{CategoryID: cat.ID, Name: "Sub " + name})
	require.NoError(t, err, "seed subcategory")
	st, err := stations.CreateStation(ctx, domain.Station{SubcategoryID: sub.ID, Name: name, IsActive: active})
	require.NoError(t, err, "seed station")
	return st
}

func individualBooking(trainerID uuid.UUID) domain.Booking {
	return domain.Booking{
		CandidateID: uuid.New(),
		TrainerID:   trainerID,
		SessionMode: domain.SessionModeOneOnOne,
		SessionType: domain.SessionTypeLearning,
		Stations:    2,
		Notes:       "focus on history taking",
		Status:      domain.BookingPending,
	}
}

func seedBooking(t *testing.T, tx pgx.Tx, b domain.Booking) domain.Booking {
	t.Helper()
	got, err := repo.NewBookingRepo(tx).Create(context.Background(), b)
	require.NoError(t, err, "seed booking")
	return got
}
