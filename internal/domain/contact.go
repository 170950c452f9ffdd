package domain

import (
	"time"

	"github.com/google/uuid"
)

// ContactSubmission is a message sent through the public contact form.
type ContactSubmission struct {
	ID        uuid.UUID
	Name      string
	Email     string
	Subject   string
	Message   string
	IsRead    bool
	CreatedAt time.Time
}
