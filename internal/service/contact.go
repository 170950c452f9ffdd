package service

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/casccoach/platform/backend/internal/domain"
	"github.com/casccoach/platform/backend/internal/repo"
)

// ContactService accepts public contact form messages.
type ContactService struct {
	repo     repo.ContactRepo
	validate *validator.Validate
}

// NewContactService constructs a ContactService.
func NewContactService(r repo.ContactRepo) *ContactService {
	return &ContactService{repo: r, validate: validator.New()}
}

// Submit stores a contact message.
func (s *ContactService) Submit(ctx context.Context, c domain.ContactSubmission) (domain.ContactSubmission, error) {
	c.Name = strings.TrimSpace(c.Name)
	c.Email = strings.TrimSpace(c.Email)
	c.Subject = strings.TrimSpace(c.Subject)
	c.Message = strings.TrimSpace(c.Message)

	switch n := utf8.RuneCountInString(c.Name); {
	case n == 0:
		return domain.ContactSubmission{}, fmt.Errorf("%w: name is required", domain.ErrValidation)
	case n > 100:
		return domain.ContactSubmission{}, fmt.Errorf("%w: name must be at most 100 characters", domain.ErrValidation)
	}
	if err := s.validate.Var(c.Email, "required,email,max=255"); err != nil {
		return domain.ContactSubmission{}, fmt.Errorf("%w: a valid email is required", domain.ErrValidation)
	}
	if utf8.RuneCountInString(c.Subject) > 200 {
		return domain.ContactSubmission{}, fmt.Errorf("%w: subject must be at most 200 characters", domain.ErrValidation)
	}
	if n := utf8.RuneCountInString(c.Message); n < 10 || n > 2000 {
		return domain.ContactSubmission{}, fmt.Errorf("%w: message must be 10 to 2000 characters", domain.ErrValidation)
	}
	c.IsRead = false

	created, err := s.repo.Create(ctx, c)
	if err != nil {
		return domain.ContactSubmission{}, fmt.Errorf("service.ContactService.Submit: %w", err)
	}
	return created, nil
}

// List returns every submission, unread first.
func (s *ContactService) List(ctx context.Context) ([]domain.ContactSubmission, error) {
	cs, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.ContactService.List: %w", err)
	}
	return cs, nil
}

// MarkRead flags a submission as handled.
func (s *ContactService) MarkRead(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.MarkRead(ctx, id); err != nil {
		return fmt.Errorf("service.ContactService.MarkRead: %w", err)
	}
	return nil
}
