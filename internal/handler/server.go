// Package handler implements the HTTP handlers for the booking API.
// All handlers are methods on Server. Methods are split into domain-specific
// files (health.go, wizard.go, etc.) but share the same Server struct so they
// can access its dependencies. Routes wires them into a chi router.
package handler

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/casccoach/platform/backend/internal/access"
	"github.com/casccoach/platform/backend/internal/domain"
	"github.com/casccoach/platform/backend/internal/wizard"
)

// The interfaces below name the business operations each handler depends on.
// Defining them here, in the consumer package, lets handler tests inject
// mocks without touching the database or the service layer.

type TrainerServicer interface {
	Directory(ctx context.Context) ([]domain.Trainer, error)
	Apply(ctx context.Context, who domain.Identity, app domain.Trainer) (domain.Trainer, error)
	Profile(ctx context.Context, userID uuid.UUID) (domain.Trainer, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, in domain.Trainer) (domain.Trainer, error)
	List(ctx context.Context) ([]domain.Trainer, error)
	Create(ctx context.Context, in domain.Trainer) (domain.Trainer, error)
	Update(ctx context.Context, in domain.Trainer) (domain.Trainer, error)
	Approve(ctx context.Context, id uuid.UUID) (domain.Trainer, error)
	Reject(ctx context.Context, id uuid.UUID) (domain.Trainer, error)
	SetActive(ctx context.Context, id uuid.UUID, active bool) (domain.Trainer, error)
}

type StationServicer interface {
	ListCategories(ctx context.Context) ([]domain.StationCategory, error)
	ListSubcategories(ctx context.Context, categoryID *uuid.UUID) ([]domain.StationSubcategory, error)
	ListActiveStations(ctx context.Context, subcategoryID *uuid.UUID) ([]domain.Station, error)
	ListAllStations(ctx context.Context) ([]domain.Station, error)
	CreateCategory(ctx context.Context, name string) (domain.StationCategory, error)
	UpdateCategory(ctx context.Context, id uuid.UUID, name string) (domain.StationCategory, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) error
	CreateSubcategory(ctx context.Context, sc domain.StationSubcategory) (domain.StationSubcategory, error)
	UpdateSubcategory(ctx context.Context, sc domain.StationSubcategory) (domain.StationSubcategory, error)
	DeleteSubcategory(ctx context.Context, id uuid.UUID) error
	CreateStation(ctx context.Context, st domain.Station) (domain.Station, error)
	UpdateStation(ctx context.Context, st domain.Station) (domain.Station, error)
	DeleteStation(ctx context.Context, id uuid.UUID) error
}

type BookingServicer interface {
	ListForCandidate(ctx context.Context, candidateID uuid.UUID) ([]domain.Booking, error)
	ListForTrainerUser(ctx context.Context, userID uuid.UUID) ([]domain.Booking, error)
	ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Booking, int64, error)
	Cancel(ctx context.Context, candidateID, id uuid.UUID) (domain.Booking, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.BookingStatus) (domain.Booking, error)
	SchedulingLink(ctx context.Context, who domain.Identity, id uuid.UUID) (string, error)
	CandidateEventScheduled(ctx context.Context, candidateID, id uuid.UUID, at time.Time, eventURI string) (domain.Booking, error)
	EventScheduled(ctx context.Context, id uuid.UUID, at time.Time, eventURI string) (domain.Booking, error)
}

type WizardServicer interface {
	Start(ctx context.Context, candidateID uuid.UUID) (wizard.View, error)
	Get(ctx context.Context, candidateID, id uuid.UUID) (wizard.View, error)
	Discard(ctx context.Context, candidateID, id uuid.UUID) error
	Apply(ctx context.Context, candidateID, id uuid.UUID, action func(*wizard.Wizard) error) (wizard.View, error)
	Submit(ctx context.Context, candidateID, id uuid.UUID) (wizard.View, domain.Booking, error)
}

type PaymentServicer interface {
	Checkout(ctx context.Context, candidateID, bookingID uuid.UUID) (domain.Checkout, error)
	HandleEvent(ctx context.Context, payload []byte, signature string) error
	ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Payment, int64, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.PaymentStatus) (domain.Payment, error)
	Refund(ctx context.Context, r domain.Refund) (domain.Payment, error)
}

type RecordingServicer interface {
	Upload(ctx context.Context, trainerUserID, bookingID uuid.UUID, file io.Reader) (domain.Recording, error)
	ListForCandidate(ctx context.Context, candidateID uuid.UUID) ([]domain.Recording, error)
	List(ctx context.Context) ([]domain.Recording, error)
	Revoke(ctx context.Context, id uuid.UUID) (domain.Recording, error)
}

type ContactServicer interface {
	Submit(ctx context.Context, c domain.ContactSubmission) (domain.ContactSubmission, error)
	List(ctx context.Context) ([]domain.ContactSubmission, error)
	MarkRead(ctx context.Context, id uuid.UUID) error
}

type AvailabilityServicer interface {
	ListSlots(ctx context.Context, userID uuid.UUID) ([]domain.AvailabilitySlot, error)
	AddSlot(ctx context.Context, userID uuid.UUID, slot domain.AvailabilitySlot) (domain.AvailabilitySlot, error)
	DeleteSlot(ctx context.Context, userID, slotID uuid.UUID) error
	ListBlockedDates(ctx context.Context, userID uuid.UUID) ([]domain.BlockedDate, error)
	BlockDate(ctx context.Context, userID uuid.UUID, d domain.BlockedDate) (domain.BlockedDate, error)
	UnblockDate(ctx context.Context, userID, dateID uuid.UUID) error
}

type ExportServicer interface {
	Export(ctx context.Context) ([]domain.BookingExportRow, error)
}

// SessionServicer ends a signed-in session. *auth.Authenticator satisfies it.
type SessionServicer interface {
	SignOut(ctx context.Context, raw string) error
}

// WebhookVerifier checks a scheduling notification signature.
// *scheduling.Verifier satisfies it.
type WebhookVerifier interface {
	Verify(payload []byte, header string) error
}

// Deps holds everything the Server needs. A nil Scheduling verifier disables
// the scheduling webhook.
type Deps struct {
	Trainers     TrainerServicer
	Stations     StationServicer
	Bookings     BookingServicer
	Wizards      WizardServicer
	Payments     PaymentServicer
	Recordings   RecordingServicer
	Contact      ContactServicer
	Availability AvailabilityServicer
	Export       ExportServicer
	Sessions     SessionServicer
	Scheduling   WebhookVerifier
	Views        *access.Views
	Logger       *slog.Logger
}

// Server implements every API endpoint.
type Server struct {
	Deps
	validate *validator.Validate
}

// NewServer constructs the Server with all its dependencies.
func NewServer(d Deps) *Server {
	if d.Views == nil {
		d.Views = access.NewViews(access.DefaultViews)
	}
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	return &Server{Deps: d, validate: newValidator()}
}
