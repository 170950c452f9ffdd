package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/casccoach/platform/backend/internal/domain"
	"github.com/casccoach/platform/backend/internal/wizard"
)

// WizardStore keeps wizard sessions between requests.
type WizardStore interface {
	Save(ctx context.Context, st wizard.State) error
	Load(ctx context.Context, id uuid.UUID) (wizard.State, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// Locker provides the cross-process exclusive lock around a submission.
// Acquire fails with an error wrapping domain.ErrConflict while the lock is
// taken.
type Locker interface {
	Acquire(ctx context.Context, key string) (release func(context.Context) error, err error)
	Held(ctx context.Context, key string) (bool, error)
}

// WizardService runs booking wizards whose state lives in a WizardStore, so
// any API replica can serve any step of a candidate's wizard.
type WizardService struct {
	store    WizardStore
	locker   Locker
	bookings wizard.BookingStore
	logger   *slog.Logger
}

// NewWizardService constructs a WizardService. bookings is normally the
// BookingService.
func NewWizardService(store WizardStore, locker Locker, bookings wizard.BookingStore, logger *slog.Logger) *WizardService {
	return &WizardService{store: store, locker: locker, bookings: bookings, logger: logger}
}

// Start opens a new wizard for the candidate.
func (s *WizardService) Start(ctx context.Context, candidateID uuid.UUID) (wizard.View, error) {
	w := wizard.New(candidateID)
	if err := s.store.Save(ctx, w.State()); err != nil {
		return wizard.View{}, fmt.Errorf("service.WizardService.Start: %w", err)
	}
	return w.View(), nil
}

// Get returns the candidate's wizard. Wizards of other candidates are
// reported as not found.
func (s *WizardService) Get(ctx context.Context, candidateID, id uuid.UUID) (wizard.View, error) {
	w, err := s.load(ctx, candidateID, id)
	if err != nil {
		return wizard.View{}, fmt.Errorf("service.WizardService.Get: %w", err)
	}
	return s.view(ctx, w), nil
}

// Discard drops the candidate's wizard.
func (s *WizardService) Discard(ctx context.Context, candidateID, id uuid.UUID) error {
	if _, err := s.load(ctx, candidateID, id); err != nil {
		return fmt.Errorf("service.WizardService.Discard: %w", err)
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("service.WizardService.Discard: %w", err)
	}
	return nil
}

// Apply runs one wizard action and stores the result. A failed action
// stores nothing.
func (s *WizardService) Apply(ctx context.Context, candidateID, id uuid.UUID, action func(*wizard.Wizard) error) (wizard.View, error) {
	w, err := s.load(ctx, candidateID, id)
	if err != nil {
		return wizard.View{}, fmt.Errorf("service.WizardService.Apply: %w", err)
	}
	if err := action(w); err != nil {
		return wizard.View{}, err
	}
	if err := s.store.Save(ctx, w.State()); err != nil {
		return wizard.View{}, fmt.Errorf("service.WizardService.Apply: %w", err)
	}
	return s.view(ctx, w), nil
}

// Submit turns the configured selection into a booking. Only one submission
// per wizard runs at a time across all replicas; a concurrent one gets
// wizard.ErrSubmissionInFlight. On failure the stored wizard is untouched.
func (s *WizardService) Submit(ctx context.Context, candidateID, id uuid.UUID) (wizard.View, domain.Booking, error) {
	release, err := s.locker.Acquire(ctx, submitLockKey(id))
	if err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return wizard.View{}, domain.Booking{}, wizard.ErrSubmissionInFlight
		}
		return wizard.View{}, domain.Booking{}, fmt.Errorf("service.WizardService.Submit: lock: %w", err)
	}
	defer func() {
		if err := release(context.WithoutCancel(ctx)); err != nil {
			s.logger.WarnContext(ctx, "release submission lock", "wizard_id", id, "error", err)
		}
	}()

	w, err := s.load(ctx, candidateID, id)
	if err != nil {
		return wizard.View{}, domain.Booking{}, fmt.Errorf("service.WizardService.Submit: %w", err)
	}

	booking, err := w.Submit(ctx, s.bookings)
	if err != nil {
		return wizard.View{}, domain.Booking{}, err
	}

	s.finish(ctx, w, booking.ID)
	s.logger.InfoContext(ctx, "booking submitted", "wizard_id", id, "booking_id", booking.ID)
	return w.View(), booking, nil
}

// submitSaveAttempts bounds how often the submitted state is written before
// the session is dropped instead.
const submitSaveAttempts = 3

// finish records the submitted state once the booking exists. The booking
// is already created, so the caller gets it either way. When the state
// cannot be stored the session is deleted, since a session left in configure
// would let the candidate submit a second booking.
func (s *WizardService) finish(ctx context.Context, w *wizard.Wizard, bookingID uuid.UUID) {
	ctx = context.WithoutCancel(ctx)
	id := w.State().ID

	var err error
	for i := 0; i < submitSaveAttempts; i++ {
		if err = s.store.Save(ctx, w.State()); err == nil {
			return
		}
	}
	s.logger.ErrorContext(ctx, "store submitted wizard", "wizard_id", id, "booking_id", bookingID, "error", err)

	if err := s.store.Delete(ctx, id); err != nil {
		s.logger.ErrorContext(ctx, "drop unsaved submitted wizard", "wizard_id", id, "booking_id", bookingID, "error", err)
	}
}

func (s *WizardService) load(ctx context.Context, candidateID, id uuid.UUID) (*wizard.Wizard, error) {
	st, err := s.store.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	if st.CandidateID != candidateID {
		return nil, domain.ErrNotFound
	}
	return wizard.Restore(st), nil
}

// view reports Submitting from the shared lock so every replica sees a
// submission in flight on any of them.
func (s *WizardService) view(ctx context.Context, w *wizard.Wizard) wizard.View {
	v := w.View()
	held, err := s.locker.Held(ctx, submitLockKey(v.ID))
	if err != nil {
		s.logger.WarnContext(ctx, "check submission lock", "wizard_id", v.ID, "error", err)
		return v
	}
	v.Submitting = held
	return v
}

func submitLockKey(id uuid.UUID) string {
	return "wizard-submit:" + id.String()
}
