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

// ---- Create / Get ----------------------------------------------------------

func TestTrainerRepo_Create_Application(t *testing.T) {
	trainers := repo.NewTrainerRepo(testutil.NewTx(t))
	ctx := context.Background()
	userID := uuid.New()
	applied := time.Now().UTC().Truncate(time.Second)

	got, err := trainers.Create(ctx, domain.Trainer{
		UserID:              &userID,
		Name:                "Dr Applicant",
		Email:               "applicant@example.com",
		Bio:                 "Ten years of examining experience.",
		CalendarLink:        "https://calendly.com/applicant",
		CalendarType:        "calendly",
		YearsExperience:     10,
		AreasOfExpertise:    []string{"cardiology", "ethics"},
		SessionTypesOffered: []string{"mock"},
		Status:              domain.TrainerPending,
		AppliedAt:           &applied,
	})

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, got.ID)
	require.NotNil(t, got.UserID)
	assert.Equal(t, userID, *got.UserID)
	assert.Equal(t, []string{"cardiology", "ethics"}, got.AreasOfExpertise)
	assert.Equal(t, domain.TrainerPending, got.Status)
	assert.False(t, got.IsActive)
	require.NotNil(t, got.AppliedAt)

	byUser, err := trainers.GetByUserID(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, got.ID, byUser.ID)
}

func TestTrainerRepo_Create_DuplicateUserIsConflict(t *testing.T) {
	trainers := repo.NewTrainerRepo(testutil.NewTx(t))
	ctx := context.Background()
	userID := uuid.New()

	_, err := trainers.Create(ctx, domain.Trainer{UserID: &userID, Name: "First", Status: domain.TrainerPending})
	require.NoError(t, err)
	_, err = trainers.Create(ctx, domain.Trainer{UserID: &userID, Name: "Second", Status: domain.TrainerPending})

	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestTrainerRepo_GetByID_NotFound(t *testing.T) {
	trainers := repo.NewTrainerRepo(testutil.NewTx(t))

	_, err := trainers.GetByID(context.Background(), uuid.New())

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ---- Directory -------------------------------------------------------------

func TestTrainerRepo_ListActiveApproved_HidesInactiveAndPending(t *testing.T) {
	tx := testutil.NewTx(t)
	trainers := repo.NewTrainerRepo(tx)
	ctx := context.Background()

	visible := seedTrainer(t, tx, "visible")
	hidden := seedTrainer(t, tx, "hidden")
	_, err := trainers.SetActive(ctx, hidden.ID, false)
	require.NoError(t, err)
	_, err = trainers.Create(ctx, domain.Trainer{Name: "pending", Status: domain.TrainerPending})
	require.NoError(t, err)

	got, err := trainers.ListActiveApproved(ctx)

	require.NoError(t, err)
	var ids []uuid.UUID
	for _, tr := range got {
		ids = append(ids, tr.ID)
		assert.True(t, tr.Bookable())
	}
	assert.Contains(t, ids, visible.ID)
	assert.NotContains(t, ids, hidden.ID)
}

// ---- Status ----------------------------------------------------------------

func TestTrainerRepo_SetStatus_ApproveActivates(t *testing.T) {
	trainers := repo.NewTrainerRepo(testutil.NewTx(t))
	ctx := context.Background()

	app, err := trainers.Create(ctx, domain.Trainer{Name: "applicant", Status: domain.TrainerPending})
	require.NoError(t, err)

	approved, err := trainers.SetStatus(ctx, app.ID, domain.TrainerApproved)
	require.NoError(t, err)
	assert.Equal(t, domain.TrainerApproved, approved.Status)
	assert.True(t, approved.IsActive)

	rejected, err := trainers.SetStatus(ctx, app.ID, domain.TrainerRejected)
	require.NoError(t, err)
	assert.False(t, rejected.IsActive)
}

func TestTrainerRepo_Update_KeepsStatus(t *testing.T) {
	tx := testutil.NewTx(t)
	trainers := repo.NewTrainerRepo(tx)
	tr := seedTrainer(t, tx, "updatable")

	tr.Bio = "A new biography"
	tr.Status = domain.TrainerRejected
	got, err := trainers.Update(context.Background(), tr)

	require.NoError(t, err)
	assert.Equal(t, "A new biography", got.Bio)
	assert.Equal(t, domain.TrainerApproved, got.Status)
}
