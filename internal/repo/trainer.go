package repo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/casccoach/platform/backend/internal/domain"
)

// TrainerRepo defines the persistence operations for trainer profiles.
type TrainerRepo interface {
	// Create inserts a trainer and returns the stored row.
	Create(ctx context.Context, t domain.Trainer) (domain.Trainer, error)

	// GetByID returns domain.ErrNotFound when no trainer has that id.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Trainer, error)

	// GetByUserID finds the profile owned by an authenticated user.
	GetByUserID(ctx context.Context, userID uuid.UUID) (domain.Trainer, error)

	// ListActiveApproved returns the public directory ordered by name.
	ListActiveApproved(ctx context.Context) ([]domain.Trainer, error)

	// List returns every trainer, applications first, then by name.
	List(ctx context.Context) ([]domain.Trainer, error)

	// Update overwrites the editable profile fields. Status and active flag
	// are untouched.
	Update(ctx context.Context, t domain.Trainer) (domain.Trainer, error)

	// SetStatus moves an application to approved or rejected. Approval also
	// activates the trainer, rejection deactivates.
	SetStatus(ctx context.Context, id uuid.UUID, status domain.TrainerStatus) (domain.Trainer, error)

	// SetActive toggles directory visibility.
	SetActive(ctx context.Context, id uuid.UUID, active bool) (domain.Trainer, error)
}

type pgTrainerRepo struct {
	db db
}

// NewTrainerRepo constructs a TrainerRepo backed by db.
func NewTrainerRepo(db db) TrainerRepo {
	return &pgTrainerRepo{db: db}
}

const trainerColumns = `
	id, user_id, name, email, bio, specialty, calendar_link, calendar_type, avatar_url,
	qualifications, years_experience, areas_of_expertise, session_types_offered,
	status, is_active, applied_at, created_at, updated_at`

func (r *pgTrainerRepo) Create(ctx context.Context, t domain.Trainer) (domain.Trainer, error) {
	q := `
		INSERT INTO trainers (user_id, name, email, bio, specialty, calendar_link, calendar_type,
		                      avatar_url, qualifications, years_experience, areas_of_expertise,
		                      session_types_offered, status, is_active, applied_at)
		VALUES (@user_id, @name, @email, @bio, @specialty, @calendar_link, @calendar_type,
		        @avatar_url, @qualifications, @years_experience, @areas_of_expertise,
		        @session_types_offered, @status, @is_active, @applied_at)
		RETURNING` + trainerColumns

	args := trainerArgs(t)
	args["status"] = string(t.Status)
	args["is_active"] = t.IsActive
	args["applied_at"] = t.AppliedAt

	got, err := scanTrainer(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Trainer{}, fmt.Errorf("repo.TrainerRepo.Create: %w", mapError(err))
	}
	return got, nil
}

func (r *pgTrainerRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Trainer, error) {
	q := `SELECT` + trainerColumns + ` FROM trainers WHERE id = @id`

	t, err := scanTrainer(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.Trainer{}, fmt.Errorf("repo.TrainerRepo.GetByID: %w", mapError(err))
	}
	return t, nil
}

func (r *pgTrainerRepo) GetByUserID(ctx context.Context, userID uuid.UUID) (domain.Trainer, error) {
	q := `SELECT` + trainerColumns + ` FROM trainers WHERE user_id = @user_id`

	t, err := scanTrainer(r.db.QueryRow(ctx, q, pgx.NamedArgs{"user_id": userID}))
	if err != nil {
		return domain.Trainer{}, fmt.Errorf("repo.TrainerRepo.GetByUserID: %w", mapError(err))
	}
	return t, nil
}

func (r *pgTrainerRepo) ListActiveApproved(ctx context.Context) ([]domain.Trainer, error) {
	q := `SELECT` + trainerColumns + `
		FROM trainers
		WHERE is_active AND status = 'approved'
		ORDER BY name`

	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("repo.TrainerRepo.ListActiveApproved: %w", err)
	}
	trainers, err := collect(rows, scanTrainer)
	if err != nil {
		return nil, fmt.Errorf("repo.TrainerRepo.ListActiveApproved: scan: %w", err)
	}
	return trainers, nil
}

func (r *pgTrainerRepo) List(ctx context.Context) ([]domain.Trainer, error) {
	q := `SELECT` + trainerColumns + `
		FROM trainers
		ORDER BY status = 'pending' DESC, name`

	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("repo.TrainerRepo.List: %w", err)
	}
	trainers, err := collect(rows, scanTrainer)
	if err != nil {
		return nil, fmt.Errorf("repo.TrainerRepo.List: scan: %w", err)
	}
	return trainers, nil
}

func (r *pgTrainerRepo) Update(ctx context.Context, t domain.Trainer) (domain.Trainer, error) {
	q := `
		UPDATE trainers
		SET name                  = @name,
		    email                 = @email,
		    bio                   = @bio,
		    specialty             = @specialty,
		    calendar_link         = @calendar_link,
		    calendar_type         = @calendar_type,
		    avatar_url            = @avatar_url,
		    qualifications        = @qualifications,
		    years_experience      = @years_experience,
		    areas_of_expertise    = @areas_of_expertise,
		    session_types_offered = @session_types_offered,
		    updated_at            = now()
		WHERE id = @id
		RETURNING` + trainerColumns

	args := trainerArgs(t)
	args["id"] = t.ID

	got, err := scanTrainer(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Trainer{}, fmt.Errorf("repo.TrainerRepo.Update: %w", mapError(err))
	}
	return got, nil
}

func (r *pgTrainerRepo) SetStatus(ctx context.Context, id uuid.UUID, status domain.TrainerStatus) (domain.Trainer, error) {
	q := `
		UPDATE trainers
		SET status     = @status,
		    is_active  = @status = 'approved',
		    updated_at = now()
		WHERE id = @id
		RETURNING` + trainerColumns

	t, err := scanTrainer(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id, "status": string(status)}))
	if err != nil {
		return domain.Trainer{}, fmt.Errorf("repo.TrainerRepo.SetStatus: %w", mapError(err))
	}
	return t, nil
}

func (r *pgTrainerRepo) SetActive(ctx context.Context, id uuid.UUID, active bool) (domain.Trainer, error) {
	q := `
		UPDATE trainers
		SET is_active = @is_active, updated_at = now()
		WHERE id = @id
		RETURNING` + trainerColumns

	t, err := scanTrainer(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id, "is_active": active}))
	if err != nil {
		return domain.Trainer{}, fmt.Errorf("repo.TrainerRepo.SetActive: %w", mapError(err))
	}
	return t, nil
}

func trainerArgs(t domain.Trainer) pgx.NamedArgs {
	areas := t.AreasOfExpertise
	if areas == nil {
		areas = []string{}
	}
	types := t.SessionTypesOffered
	if types == nil {
		types = []string{}
	}
	return pgx.NamedArgs{
		"user_id":               t.UserID,
		"name":                  t.Name,
		"email":                 t.Email,
		"bio":                   t.Bio,
		"specialty":             t.Specialty,
		"calendar_link":         t.CalendarLink,
		"calendar_type":         t.CalendarType,
		"avatar_url":            t.AvatarURL,
		"qualifications":        t.Qualifications,
		"years_experience":      t.YearsExperience,
		"areas_of_expertise":    areas,
		"session_types_offered": types,
	}
}

func scanTrainer(s scanner) (domain.Trainer, error) {
	var (
		t         domain.Trainer
		id        pgtype.UUID
		userID    pgtype.UUID
		status    string
		appliedAt pgtype.Timestamptz
	)

	err := s.Scan(&id, &userID, &t.Name, &t.Email, &t.Bio, &t.Specialty, &t.CalendarLink,
		&t.CalendarType, &t.AvatarURL, &t.Qualifications, &t.YearsExperience,
		&t.AreasOfExpertise, &t.SessionTypesOffered, &status, &t.IsActive, &appliedAt,
		&t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return domain.Trainer{}, err
	}

	t.ID = uuid.UUID(id.Bytes)
	t.UserID = uuidPtr(userID)
	t.Status = domain.TrainerStatus(status)
	t.AppliedAt = timePtr(appliedAt)
	return t, nil
}
