package repo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/casccoach/platform/backend/internal/domain"
)

// ContactRepo stores messages sent through the public contact form.
type ContactRepo interface {
	Create(ctx context.Context, c domain.ContactSubmission) (domain.ContactSubmission, error)

	// List returns submissions, unread first, then newest first.
	List(ctx context.Context) ([]domain.ContactSubmission, error)

	// MarkRead returns domain.ErrNotFound when no submission has that id.
	MarkRead(ctx context.Context, id uuid.UUID) error
}

type pgContactRepo struct {
	db db
}

// NewContactRepo constructs a ContactRepo backed by db.
func NewContactRepo(db db) ContactRepo {
	return &pgContactRepo{db: db}
}

func (r *pgContactRepo) Create(ctx context.Context, c domain.ContactSubmission) (domain.ContactSubmission, error) {
	const q = `
		INSERT INTO contact_submissions (name, email, subject, message)
		VALUES (@name, @email, @subject, @message)
		RETURNING id, name, email, subject, message, is_read, created_at`

	got, err := scanContact(r.db.QueryRow(ctx, q, pgx.NamedArgs{
		"name":    c.Name,
		"email":   c.Email,
		"subject": c.Subject,
		"message": c.Message,
	}))
	if err != nil {
		return domain.ContactSubmission{}, fmt.Errorf("repo.ContactRepo.Create: %w", mapError(err))
	}
	return got, nil
}

func (r *pgContactRepo) List(ctx context.Context) ([]domain.ContactSubmission, error) {
	const q = `
		SELECT id, name, email, subject, message, is_read, created_at
		FROM contact_submissions
		ORDER BY is_read, created_at DESC`

	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("repo.ContactRepo.List: %w", err)
	}
	subs, err := collect(rows, scanContact)
	if err != nil {
		return nil, fmt.Errorf("repo.ContactRepo.List: scan: %w", err)
	}
	return subs, nil
}

func (r *pgContactRepo) MarkRead(ctx context.Context, id uuid.UUID) error {
	const q = `UPDATE contact_submissions SET is_read = true WHERE id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("repo.ContactRepo.MarkRead: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.ContactRepo.MarkRead: %w", domain.ErrNotFound)
	}
	return nil
}

func scanContact(s scanner) (domain.ContactSubmission, error) {
	var (
		c  domain.ContactSubmission
		id pgtype.UUID
	)
	if err := s.Scan(&id, &c.Name, &c.Email, &c.Subject, &c.Message, &c.IsRead, &c.CreatedAt); err != nil {
		return domain.ContactSubmission{}, err
	}
	c.ID = uuid.UUID(id.Bytes)
	return c, nil
}
