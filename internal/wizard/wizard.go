// Package wizard implements the three-step booking configuration flow:
// choose a trainer, choose a mode, configure the session, then submit.
//
// A Wizard owns its Selection. Field changes apply the reset rules that keep
// dependent choices consistent, and Submit turns the selection into exactly
// one booking through a BookingStore.
package wizard

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/casccoach/platform/backend/internal/domain"
	"github.com/casccoach/platform/backend/internal/pricing"
)

var (
	// ErrWrongStep is returned when an action belongs to a different step.
	ErrWrongStep = fmt.Errorf("%w: action is not available at this step", domain.ErrConflict)

	// ErrSubmitted is returned for any change after a successful submission.
	ErrSubmitted = fmt.Errorf("%w: booking already submitted", domain.ErrConflict)

	// ErrSubmissionInFlight is returned by Submit while another Submit on the
	// same wizard has not returned yet.
	ErrSubmissionInFlight = fmt.Errorf("%w: a submission is already in progress", domain.ErrConflict)
)

// BookingStore persists a booking in a single atomic call.
type BookingStore interface {
	Create(ctx context.Context, booking domain.Booking) (domain.Booking, error)
}

// State is the serialisable form of a wizard.
type State struct {
	ID          uuid.UUID  `json:"id"`
	CandidateID uuid.UUID  `json:"candidate_id"`
	Step        Step       `json:"step"`
	Selection   Selection  `json:"selection"`
	BookingID   *uuid.UUID `json:"booking_id,omitempty"`
}

// View is a read-only snapshot with the values derived from the selection.
type View struct {
	State
	Price          int
	StationOptions []int
	CanProceed     bool
	Submitting     bool
}

// Wizard is safe for concurrent use. Navigation stays available while a
// submission is in flight; a second submission does not.
type Wizard struct {
	mu       sync.Mutex
	state    State
	inFlight bool
}

// New starts a wizard for the given candidate at StepChooseTrainer.
func New(candidateID uuid.UUID) *Wizard {
	return &Wizard{state: State{
		ID:          uuid.New(),
		CandidateID: candidateID,
		Step:        StepChooseTrainer,
	}}
}

// Restore rebuilds a wizard from a stored State.
func Restore(s State) *Wizard {
	s.Selection = s.Selection.clone()
	return &Wizard{state: s}
}

// State returns a copy of the wizard's state.
func (w *Wizard) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.snapshot()
}

func (w *Wizard) snapshot() State {
	s := w.state
	s.Selection = s.Selection.clone()
	return s
}

// View returns the state together with the price, the station options and
// whether the current step may advance.
func (w *Wizard) View() View {
	w.mu.Lock()
	defer w.mu.Unlock()
	sel := w.state.Selection
	return View{
		State:          w.snapshot(),
		Price:          sel.Price(),
		StationOptions: sel.StationOptions(),
		CanProceed:     w.state.Step != StepSubmitted && sel.missing(w.state.Step) == "",
		Submitting:     w.inFlight,
	}
}

// Step returns the current step.
func (w *Wizard) Step() Step {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state.Step
}

// Price quotes the current selection; 0 while it is incomplete.
func (w *Wizard) Price() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state.Selection.Price()
}

// CanProceed reports whether the guard of the current step passes.
func (w *Wizard) CanProceed() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state.Step != StepSubmitted && w.state.Selection.missing(w.state.Step) == ""
}

// Submitting reports whether a submission is in flight.
func (w *Wizard) Submitting() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.inFlight
}

// edit applies fn to a copy of the selection when the wizard is at step and
// keeps the copy only if fn succeeds.
func (w *Wizard) edit(step Step, fn func(*Selection) error) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	switch w.state.Step {
	case StepSubmitted:
		return ErrSubmitted
	case step:
	default:
		return ErrWrongStep
	}

	sel := w.state.Selection.clone()
	if err := fn(&sel); err != nil {
		return err
	}
	w.state.Selection = sel
	return nil
}

// SelectTrainer records the chosen trainer.
func (w *Wizard) SelectTrainer(id uuid.UUID) error {
	return w.edit(StepChooseTrainer, func(s *Selection) error {
		if id == uuid.Nil {
			return fmt.Errorf("%w: trainer is required", domain.ErrValidation)
		}
		s.TrainerID = id
		return nil
	})
}

// SetMode records the booking mode and clears every choice that depends on it.
func (w *Wizard) SetMode(m domain.Mode) error {
	return w.edit(StepChooseMode, func(s *Selection) error {
		if m != domain.ModeIndividual && m != domain.ModeGroup {
			return fmt.Errorf("%w: unknown mode %q", domain.ErrValidation, m)
		}
		s.Mode = m
		s.SessionType = ""
		s.StationCount = 0
		s.GroupSize = 0
		s.Participants = nil
		s.StationIDs = nil
		return nil
	})
}

// SetSessionType records the session type of an individual booking and
// clears the station count, whose options depend on it.
func (w *Wizard) SetSessionType(t domain.SessionType) error {
	return w.edit(StepConfigure, func(s *Selection) error {
		if s.Mode != domain.ModeIndividual {
			return fmt.Errorf("%w: session type only applies to individual sessions", domain.ErrValidation)
		}
		if t != domain.SessionTypeMock && t != domain.SessionTypeLearning {
			return fmt.Errorf("%w: unknown session type %q", domain.ErrValidation, t)
		}
		s.SessionType = t
		s.StationCount = 0
		s.StationIDs = nil
		return nil
	})
}

// SetGroupSize records the group size, clears the station count and replaces
// the participants with n-1 empty entries. Earlier participant input is dropped.
func (w *Wizard) SetGroupSize(n int) error {
	return w.edit(StepConfigure, func(s *Selection) error {
		if s.Mode != domain.ModeGroup {
			return fmt.Errorf("%w: group size only applies to group sessions", domain.ErrValidation)
		}
		if !pricing.ValidGroupSize(n) {
			return fmt.Errorf("%w: group size must be one of %v", domain.ErrValidation, pricing.GroupSizes())
		}
		s.GroupSize = n
		s.StationCount = 0
		s.StationIDs = nil
		s.Participants = make(domain.Participants, n-1)
		return nil
	})
}

// SetStationCount records how many stations the session covers. The count
// must be one of the options for the current mode and session type.
func (w *Wizard) SetStationCount(n int) error {
	return w.edit(StepConfigure, func(s *Selection) error {
		switch {
		case s.Mode == domain.ModeIndividual && s.SessionType == "":
			return fmt.Errorf("%w: select a session type first", domain.ErrValidation)
		case s.Mode == domain.ModeGroup && s.GroupSize == 0:
			return fmt.Errorf("%w: select a group size first", domain.ErrValidation)
		}
		if !pricing.ValidStationCount(s.Mode, s.SessionType, n) {
			return fmt.Errorf("%w: station count must be one of %v", domain.ErrValidation, s.StationOptions())
		}
		if n != s.StationCount {
			s.StationIDs = nil
		}
		s.StationCount = n
		return nil
	})
}

// SetParticipant replaces the participant at index. Values are stored as
// entered and trimmed on submission.
func (w *Wizard) SetParticipant(index int, p domain.Participant) error {
	return w.edit(StepConfigure, func(s *Selection) error {
		if index < 0 || index >= len(s.Participants) {
			return fmt.Errorf("%w: no participant at position %d", domain.ErrValidation, index+1)
		}
		s.Participants[index] = p
		return nil
	})
}

// SetStations records the ordered station picks. Picks are optional, distinct
// and limited to the selected station count.
func (w *Wizard) SetStations(ids []uuid.UUID) error {
	return w.edit(StepConfigure, func(s *Selection) error {
		if s.StationCount == 0 {
			return fmt.Errorf("%w: select a number of stations first", domain.ErrValidation)
		}
		if len(ids) > s.StationCount {
			return fmt.Errorf("%w: at most %d stations may be picked", domain.ErrValidation, s.StationCount)
		}
		seen := make(map[uuid.UUID]bool, len(ids))
		for _, id := range ids {
			if id == uuid.Nil {
				return fmt.Errorf("%w: station id is required", domain.ErrValidation)
			}
			if seen[id] {
				return fmt.Errorf("%w: station %s picked twice", domain.ErrValidation, id)
			}
			seen[id] = true
		}
		s.StationIDs = slices.Clone(ids)
		return nil
	})
}

// SetDetails records the optional notes and the recording consent.
func (w *Wizard) SetDetails(notes string, recordingConsent bool) error {
	return w.edit(StepConfigure, func(s *Selection) error {
		if utf8.RuneCountInString(strings.TrimSpace(notes)) > MaxNotesLen {
			return fmt.Errorf("%w: notes exceed %d characters", domain.ErrValidation, MaxNotesLen)
		}
		s.Notes = notes
		s.RecordingConsent = recordingConsent
		return nil
	})
}

// Next advances to the following step when the current step's guard passes.
// The configure step is left only through Submit.
func (w *Wizard) Next() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	switch w.state.Step {
	case StepSubmitted:
		return ErrSubmitted
	case StepConfigure:
		return fmt.Errorf("%w: submit the booking to finish", ErrWrongStep)
	}
	if msg := w.state.Selection.missing(w.state.Step); msg != "" {
		return fmt.Errorf("%w: %s", domain.ErrValidation, msg)
	}
	w.state.Step++
	return nil
}

// Back returns to the previous step without clearing anything.
func (w *Wizard) Back() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	switch w.state.Step {
	case StepSubmitted:
		return ErrSubmitted
	case StepChooseTrainer:
		return fmt.Errorf("%w: already at the first step", ErrWrongStep)
	}
	w.state.Step--
	return nil
}

// Submit validates the selection, writes it through store and, on success,
// moves the wizard to StepSubmitted. On failure the wizard is left exactly as
// it was. Only one Submit may be in flight at a time.
func (w *Wizard) Submit(ctx context.Context, store BookingStore) (domain.Booking, error) {
	w.mu.Lock()
	if w.inFlight {
		w.mu.Unlock()
		return domain.Booking{}, ErrSubmissionInFlight
	}
	switch w.state.Step {
	case StepSubmitted:
		w.mu.Unlock()
		return domain.Booking{}, ErrSubmitted
	case StepConfigure:
	default:
		w.mu.Unlock()
		return domain.Booking{}, ErrWrongStep
	}
	draft, err := w.state.Selection.Draft(w.state.CandidateID)
	if err != nil {
		w.mu.Unlock()
		return domain.Booking{}, err
	}
	w.inFlight = true
	w.mu.Unlock()

	booking, err := store.Create(ctx, draft)

	w.mu.Lock()
	defer w.mu.Unlock()
	w.inFlight = false
	if err != nil {
		return domain.Booking{}, err
	}
	if booking.ID == uuid.Nil {
		return domain.Booking{}, errors.New("wizard: booking store returned no id")
	}
	id := booking.ID
	w.state.Step = StepSubmitted
	w.state.BookingID = &id
	return booking, nil
}
