package domain

import "github.com/google/uuid"

// Role is the application role attached to an authenticated user.
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleTrainer   Role = "trainer"
	RoleCandidate Role = "candidate"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleTrainer, RoleCandidate:
		return true
	}
	return false
}

// Identity is the verified user behind a request. It is issued by the
// external auth provider; this service only reads it.
type Identity struct {
	UserID   uuid.UUID
	Email    string
	FullName string
}
