package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/casccoach/platform/backend/internal/domain"
)

// RoleRepo stores the single role granted to each signed-in user.
type RoleRepo interface {
	// RoleFor returns the user's role. Users without a row are candidates.
	RoleFor(ctx context.Context, userID uuid.UUID) (domain.Role, error)

	// SetRole grants role to the user, replacing any previous grant.
	SetRole(ctx context.Context, userID uuid.UUID, role domain.Role) error
}

type pgRoleRepo struct {
	db db
}

// NewRoleRepo constructs a RoleRepo backed by db.
func NewRoleRepo(db db) RoleRepo {
	return &pgRoleRepo{db: db}
}

func (r *pgRoleRepo) RoleFor(ctx context.Context, userID uuid.UUID) (domain.Role, error) {
	const q = `SELECT role FROM user_roles WHERE user_id = @user_id`

	var role string
	err := r.db.QueryRow(ctx, q, pgx.NamedArgs{"user_id": userID}).Scan(&role)
	if err != nil {
		if errors.Is(mapError(err), domain.ErrNotFound) {
			return domain.RoleCandidate, nil
		}
		return "", fmt.Errorf("repo.RoleRepo.RoleFor: %w", err)
	}
	return domain.Role(role), nil
}

func (r *pgRoleRepo) SetRole(ctx context.Context, userID uuid.UUID, role domain.Role) error {
	const q = `
		INSERT INTO user_roles (user_id, role)
		VALUES (@user_id, @role)
		ON CONFLICT (user_id) DO UPDATE
		   SET role = EXCLUDED.role, updated_at = now()`

	_, err := r.db.Exec(ctx, q, pgx.NamedArgs{"user_id": userID, "role": string(role)})
	if err != nil {
		return fmt.Errorf("repo.RoleRepo.SetRole: %w", mapError(err))
	}
	return nil
}
