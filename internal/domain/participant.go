package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"
)

const (
	// MaxParticipantNameLen caps a group participant's name after trimming.
	MaxParticipantNameLen = 100
	// MaxParticipantEmailLen caps a group participant's email after trimming.
	MaxParticipantEmailLen = 255
)

// Participant is one additional attendee of a group booking.
type Participant struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Participants is the ordered list of additional attendees of a group booking.
// It is stored as JSON and always parsed through ParseParticipants.
type Participants []Participant

// Trimmed returns a copy with surrounding whitespace removed from every field.
func (ps Participants) Trimmed() Participants {
	if ps == nil {
		return nil
	}
	out := make(Participants, len(ps))
	for i, p := range ps {
		out[i] = Participant{Name: strings.TrimSpace(p.Name), Email: strings.TrimSpace(p.Email)}
	}
	return out
}

// Complete reports whether every participant has a non-blank name and email.
func (ps Participants) Complete() bool {
	for _, p := range ps {
		if strings.TrimSpace(p.Name) == "" || strings.TrimSpace(p.Email) == "" {
			return false
		}
	}
	return true
}

// Validate checks every participant after trimming. The returned error wraps
// ErrValidation and names the offending position (1-based).
func (ps Participants) Validate() error {
	for i, p := range ps.Trimmed() {
		switch {
		case p.Name == "":
			return fmt.Errorf("%w: participant %d name is required", ErrValidation, i+1)
		case p.Email == "":
			return fmt.Errorf("%w: participant %d email is required", ErrValidation, i+1)
		case utf8.RuneCountInString(p.Name) > MaxParticipantNameLen:
			return fmt.Errorf("%w: participant %d name exceeds %d characters", ErrValidation, i+1, MaxParticipantNameLen)
		case utf8.RuneCountInString(p.Email) > MaxParticipantEmailLen:
			return fmt.Errorf("%w: participant %d email exceeds %d characters", ErrValidation, i+1, MaxParticipantEmailLen)
		}
	}
	return nil
}

// storedParticipant mirrors Participant with pointers so absent keys and
// null entries can be told apart from empty strings.
type storedParticipant struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
}

// ParseParticipants decodes a stored participants document. NULL and empty
// input decode to nil. Anything other than an array of objects carrying
// both a string name and a string email is rejected.
func ParseParticipants(raw []byte) (Participants, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()

	var stored []*storedParticipant
	if err := dec.Decode(&stored); err != nil {
		return nil, fmt.Errorf("%w: malformed participants: %v", ErrValidation, err)
	}
	if dec.More() {
		return nil, fmt.Errorf("%w: malformed participants: trailing data", ErrValidation)
	}

	ps := make(Participants, len(stored))
	for i, sp := range stored {
		switch {
		case sp == nil:
			return nil, fmt.Errorf("%w: malformed participants: entry %d is null", ErrValidation, i+1)
		case sp.Name == nil:
			return nil, fmt.Errorf("%w: malformed participants: entry %d has no name", ErrValidation, i+1)
		case sp.Email == nil:
			return nil, fmt.Errorf("%w: malformed participants: entry %d has no email", ErrValidation, i+1)
		}
		ps[i] = Participant{Name: *sp.Name, Email: *sp.Email}
	}
	return ps, nil
}

// MarshalParticipants encodes ps for storage. A nil list encodes as NULL.
func MarshalParticipants(ps Participants) ([]byte, error) {
	if ps == nil {
		return nil, nil
	}
	return json.Marshal(ps)
}
