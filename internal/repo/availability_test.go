package repo_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/casccoach/platform/backend/internal/domain"
	"github.com/casccoach/platform/backend/internal/repo"
	"github.com/casccoach/platform/backend/testutil"
)

// ---- Slots -----------------------------------------------------------------

func TestAvailabilityRepo_Slots(t *testing.T) {
	tx := testutil.NewTx(t)
	avail := repo.NewAvailabilityRepo(tx)
	ctx := context.Background()
	trainer := seedTrainer(t, tx, "slots")

	late, err := avail.CreateSlot(ctx, domain.AvailabilitySlot{TrainerID: trainer.ID, DayOfWeek: 1, StartTime: "14:00", EndTime: "16:30"})
	require.NoError(t, err)
	assert.Equal(t, "14:00", late.StartTime)
	assert.Equal(t, "16:30", late.EndTime)
	early, err := avail.CreateSlot(ctx, domain.AvailabilitySlot{TrainerID: trainer.ID, DayOfWeek: 1, StartTime: "09:00", EndTime: "10:00"})
	require.NoError(t, err)

	got, err := avail.ListSlots(ctx, trainer.ID)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, early.ID, got[0].ID)

	assert.ErrorIs(t, avail.DeleteSlot(ctx, uuid.New(), early.ID), domain.ErrNotFound, "another trainer cannot delete the slot")
	require.NoError(t, avail.DeleteSlot(ctx, trainer.ID, early.ID))
}

func TestAvailabilityRepo_CreateSlot_EndBeforeStart(t *testing.T) {
	tx := testutil.NewTx(t)
	trainer := seedTrainer(t, tx, "backwards")

	_, err := repo.NewAvailabilityRepo(tx).CreateSlot(context.Background(), domain.AvailabilitySlot{
		TrainerID: trainer.ID, DayOfWeek: 2, StartTime: "12:00", EndTime: "11:00",
	})

	assert.ErrorIs(t, err, domain.ErrValidation)
}

// ---- Blocked dates ---------------------------------------------------------

func TestAvailabilityRepo_BlockedDates(t *testing.T) {
	tx := testutil.NewTx(t)
	avail := repo.NewAvailabilityRepo(tx)
	ctx := context.Background()
	trainer := seedTrainer(t, tx, "blocked")
	day := time.Date(2026, 12, 25, 0, 0, 0, 0, time.UTC)

	d, err := avail.CreateBlockedDate(ctx, domain.BlockedDate{TrainerID: trainer.ID, Date: day, Reason: "holiday"})
	require.NoError(t, err)
	assert.True(t, day.Equal(d.Date))

	_, err = avail.CreateBlockedDate(ctx, domain.BlockedDate{TrainerID: trainer.ID, Date: day})
	assert.ErrorIs(t, err, domain.ErrConflict)
}
