package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/casccoach/platform/backend/internal/access"
	"github.com/casccoach/platform/backend/internal/domain"
)

// RoleSource looks up the application role of a user.
type RoleSource interface {
	RoleFor(ctx context.Context, userID uuid.UUID) (domain.Role, error)
}

// Revocations remembers signed-out tokens until they would have expired.
type Revocations interface {
	Revoke(ctx context.Context, tokenHash string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenHash string) (bool, error)
}

// Authenticator turns a bearer token into an access.AuthState.
type Authenticator struct {
	verifier *Verifier
	roles    RoleSource
	revoked  Revocations
	now      func() time.Time
}

// NewAuthenticator wires a verifier to the role and revocation stores.
func NewAuthenticator(verifier *Verifier, roles RoleSource, revoked Revocations) *Authenticator {
	return &Authenticator{verifier: verifier, roles: roles, revoked: revoked, now: time.Now}
}

// Authenticate verifies raw, rejects revoked tokens and attaches the user's role.
func (a *Authenticator) Authenticate(ctx context.Context, raw string) (access.AuthState, error) {
	tok, err := a.verifier.Verify(raw)
	if err != nil {
		return access.AuthState{}, err
	}

	revoked, err := a.revoked.IsRevoked(ctx, tok.Hash)
	if err != nil {
		return access.AuthState{}, fmt.Errorf("auth.Authenticate: revocation lookup: %w", err)
	}
	if revoked {
		return access.AuthState{}, fmt.Errorf("%w: signed out", ErrInvalidToken)
	}

	role, err := a.roles.RoleFor(ctx, tok.Identity.UserID)
	if err != nil {
		return access.AuthState{}, fmt.Errorf("auth.Authenticate: role lookup: %w", err)
	}

	id := tok.Identity
	return access.AuthState{Identity: &id, Role: role}, nil
}

// SignOut revokes raw for the rest of its lifetime.
func (a *Authenticator) SignOut(ctx context.Context, raw string) error {
	tok, err := a.verifier.Verify(raw)
	if err != nil {
		return err
	}
	ttl := tok.ExpiresAt.Sub(a.now())
	if ttl <= 0 {
		return nil
	}
	if err := a.revoked.Revoke(ctx, tok.Hash, ttl); err != nil {
		return fmt.Errorf("auth.SignOut: %w", err)
	}
	return nil
}
