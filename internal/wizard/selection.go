package wizard

import (
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/casccoach/platform/backend/internal/domain"
	"github.com/casccoach/platform/backend/internal/pricing"
)

// MaxNotesLen caps the trimmed notes a candidate may attach to a booking.
const MaxNotesLen = 1000

// Selection accumulates the candidate's choices across the wizard steps.
// A zero field means "not chosen yet".
type Selection struct {
	TrainerID        uuid.UUID           `json:"trainer_id"`
	Mode             domain.Mode         `json:"mode,omitempty"`
	SessionType      domain.SessionType  `json:"session_type,omitempty"`
	StationCount     int                 `json:"station_count,omitempty"`
	GroupSize        int                 `json:"group_size,omitempty"`
	Participants     domain.Participants `json:"participants,omitempty"`
	StationIDs       []uuid.UUID         `json:"station_ids,omitempty"`
	Notes            string              `json:"notes,omitempty"`
	RecordingConsent bool                `json:"recording_consent"`
}

func (s Selection) clone() Selection {
	s.Participants = slices.Clone(s.Participants)
	s.StationIDs = slices.Clone(s.StationIDs)
	return s
}

// Price quotes the selection. It is 0 until the selection is complete enough
// to be priced.
func (s Selection) Price() int {
	return pricing.Price(s.Mode, s.SessionType, s.GroupSize, s.StationCount)
}

// StationOptions lists the station counts the selection may pick from.
func (s Selection) StationOptions() []int {
	return pricing.StationOptions(s.Mode, s.SessionType)
}

// missing returns why the selection cannot leave step, or "" when it can.
func (s Selection) missing(step Step) string {
	switch step {
	case StepChooseTrainer:
		if s.TrainerID == uuid.Nil {
			return "a trainer must be selected"
		}
	case StepChooseMode:
		if s.Mode == "" {
			return "a session mode must be selected"
		}
	case StepConfigure:
		switch s.Mode {
		case domain.ModeIndividual:
			if s.SessionType == "" {
				return "a session type must be selected"
			}
		case domain.ModeGroup:
			if s.GroupSize == 0 {
				return "a group size must be selected"
			}
		default:
			return "a session mode must be selected"
		}
		if s.StationCount == 0 {
			return "a number of stations must be selected"
		}
		if s.Mode == domain.ModeGroup && !s.Participants.Complete() {
			return "every participant needs a name and an email"
		}
	}
	return ""
}

// Draft converts a configured selection into the booking record to persist.
// It maps the wizard vocabulary onto the stored one and validates the
// free-text fields without truncating them.
func (s Selection) Draft(candidateID uuid.UUID) (domain.Booking, error) {
	if msg := s.missing(StepConfigure); msg != "" {
		return domain.Booking{}, fmt.Errorf("%w: %s", domain.ErrValidation, msg)
	}
	if !pricing.ValidStationCount(s.Mode, s.SessionType, s.StationCount) {
		return domain.Booking{}, fmt.Errorf("%w: %d stations is not offered for this session", domain.ErrValidation, s.StationCount)
	}
	if len(s.StationIDs) > s.StationCount {
		return domain.Booking{}, fmt.Errorf("%w: at most %d stations may be picked", domain.ErrValidation, s.StationCount)
	}

	notes := strings.TrimSpace(s.Notes)
	if utf8.RuneCountInString(notes) > MaxNotesLen {
		return domain.Booking{}, fmt.Errorf("%w: notes exceed %d characters", domain.ErrValidation, MaxNotesLen)
	}

	b := domain.Booking{
		CandidateID:      candidateID,
		TrainerID:        s.TrainerID,
		SessionMode:      s.Mode.SessionMode(),
		Stations:         s.StationCount,
		StationIDs:       slices.Clone(s.StationIDs),
		Notes:            notes,
		RecordingConsent: s.RecordingConsent,
		Status:           domain.BookingPending,
	}

	switch s.Mode {
	case domain.ModeIndividual:
		b.SessionType = s.SessionType
	case domain.ModeGroup:
		if err := s.Participants.Validate(); err != nil {
			return domain.Booking{}, err
		}
		// Group mock exams are not offered.
		b.SessionType = domain.SessionTypeLearning
		b.GroupSize = s.GroupSize
		b.Participants = s.Participants.Trimmed()
	}
	return b, nil
}
