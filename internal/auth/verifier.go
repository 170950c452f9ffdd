// Package auth verifies access tokens issued by the external identity
// provider and resolves them into the auth state the access guard consumes.
// Tokens are never issued here.
package auth

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/google/uuid"

	"github.com/casccoach/platform/backend/internal/domain"
)

// ErrInvalidToken is returned for tokens that are malformed, badly signed,
// expired, issued for another audience or revoked.
var ErrInvalidToken = errors.New("auth: invalid token")

// Claims is the subset of the identity provider's access token we rely on.
type Claims struct {
	Email        string       `json:"email"`
	UserMetadata UserMetadata `json:"user_metadata"`
	jwt.StandardClaims
}

// UserMetadata carries profile fields captured at sign-up.
type UserMetadata struct {
	FullName string `json:"full_name"`
}

// Token is a verified access token.
type Token struct {
	Identity  domain.Identity
	ExpiresAt time.Time
	Hash      string
}

// Verifier checks HS256 access tokens against the provider's shared secret.
type Verifier struct {
	secret   []byte
	audience string
}

// NewVerifier returns a Verifier. An empty audience disables the aud check.
func NewVerifier(secret []byte, audience string) *Verifier {
	return &Verifier{secret: secret, audience: audience}
}

// Verify parses raw and returns the identity it carries.
func (v *Verifier) Verify(raw string) (Token, error) {
	var claims Claims
	tok, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil || !tok.Valid {
		return Token{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if v.audience != "" && !claims.VerifyAudience(v.audience, true) {
		return Token{}, fmt.Errorf("%w: audience mismatch", ErrInvalidToken)
	}
	if claims.ExpiresAt == 0 {
		return Token{}, fmt.Errorf("%w: token has no expiry", ErrInvalidToken)
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return Token{}, fmt.Errorf("%w: subject is not a user id", ErrInvalidToken)
	}

	return Token{
		Identity: domain.Identity{
			UserID:   userID,
			Email:    claims.Email,
			FullName: claims.UserMetadata.FullName,
		},
		ExpiresAt: time.Unix(claims.ExpiresAt, 0),
		Hash:      HashToken(raw),
	}, nil
}

// HashToken returns the hex SHA-256 of a raw token. Revocations are keyed by
// hash so raw tokens are never stored.
func HashToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
