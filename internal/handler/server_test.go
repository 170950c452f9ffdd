package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/casccoach/platform/backend/internal/access"
	"github.com/casccoach/platform/backend/internal/auth"
	"github.com/casccoach/platform/backend/internal/domain"
	"github.com/casccoach/platform/backend/internal/handler"
	"github.com/casccoach/platform/backend/internal/wizard"
)

// ---- identities ------------------------------------------------------------

var (
	candidateUser = domain.Identity{UserID: uuid.MustParse("11111111-1111-1111-1111-111111111111"), Email: "cand@example.com", FullName: "Cara Candidate"}
	trainerUser   = domain.Identity{UserID: uuid.MustParse("22222222-2222-2222-2222-222222222222"), Email: "coach@example.com", FullName: "Tom Trainer"}
	adminUser     = domain.Identity{UserID: uuid.MustParse("33333333-3333-3333-3333-333333333333"), Email: "admin@example.com", FullName: "Ada Admin"}
)

// tokenAuth resolves the bearer tokens "candidate", "trainer" and "admin" to
// the fixed users above and rejects everything else.
type tokenAuth struct{}

func (tokenAuth) Authenticate(_ context.Context, raw string) (access.AuthState, error) {
	switch domain.Role(raw) {
	case domain.RoleCandidate:
		return access.AuthState{Identity: &candidateUser, Role: domain.RoleCandidate}, nil
	case domain.RoleTrainer:
		return access.AuthState{Identity: &trainerUser, Role: domain.RoleTrainer}, nil
	case domain.RoleAdmin:
		return access.AuthState{Identity: &adminUser, Role: domain.RoleAdmin}, nil
	}
	return access.AuthState{}, auth.ErrInvalidToken
}

// ---- mocks -----------------------------------------------------------------
// Each mock is a test double whose methods delegate to function fields.
// Set only the fields your test needs.

type mockTrainers struct {
	directory     func(ctx context.Context) ([]domain.Trainer, error)
	apply         func(ctx context.Context, who domain.Identity, app domain.Trainer) (domain.Trainer, error)
	profile       func(ctx context.Context, userID uuid.UUID) (domain.Trainer, error)
	updateProfile func(ctx context.Context, userID uuid.UUID, in domain.Trainer) (domain.Trainer, error)
	list          func(ctx context.Context) ([]domain.Trainer, error)
	create        func(ctx context.Context, in domain.Trainer) (domain.Trainer, error)
	update        func(ctx context.Context, in domain.Trainer) (domain.Trainer, error)
	approve       func(ctx context.Context, id uuid.UUID) (domain.Trainer, error)
	reject        func(ctx context.Context, id uuid.UUID) (domain.Trainer, error)
	setActive     func(ctx context.Context, id uuid.UUID, active bool) (domain.Trainer, error)
}

func (m *mockTrainers) Directory(ctx context.Context) ([]domain.Trainer, error) {
	return m.directory(ctx)
}
func (m *mockTrainers) Apply(ctx context.Context, who domain.Identity, app domain.Trainer) (domain.Trainer, error) {
	return m.apply(ctx, who, app)
}
func (m *mockTrainers) Profile(ctx context.Context, userID uuid.UUID) (domain.Trainer, error) {
	return m.profile(ctx, userID)
}
func (m *mockTrainers) UpdateProfile(ctx context.Context, userID uuid.UUID, in domain.Trainer) (domain.Trainer, error) {
	return m.updateProfile(ctx, userID, in)
}
func (m *mockTrainers) List(ctx context.Context) ([]domain.Trainer, error) { return m.list(ctx) }
func (m *mockTrainers) Create(ctx context.Context, in domain.Trainer) (domain.Trainer, error) {
	return m.create(ctx, in)
}
func (m *mockTrainers) Update(ctx context.Context, in domain.Trainer) (domain.Trainer, error) {
	return m.update(ctx, in)
}
func (m *mockTrainers) Approve(ctx context.Context, id uuid.UUID) (domain.Trainer, error) {
	return m.approve(ctx, id)
}
func (m *mockTrainers) Reject(ctx context.Context, id uuid.UUID) (domain.Trainer, error) {
	return m.reject(ctx, id)
}
func (m *mockTrainers) SetActive(ctx context.Context, id uuid.UUID, active bool) (domain.Trainer, error) {
	return m.setActive(ctx, id, active)
}

type mockStations struct {
	listCategories     func(ctx context.Context) ([]domain.StationCategory, error)
	listSubcategories  func(ctx context.Context, categoryID *uuid.UUID) ([]domain.StationSubcategory, error)
	listActiveStations func(ctx context.Context, subcategoryID *uuid.UUID) ([]domain.Station, error)
	listAllStations    func(ctx context.Context) ([]domain.Station, error)
	createCategory     func(ctx context.Context, name string) (domain.StationCategory, error)
	updateCategory     func(ctx context.Context, id uuid.UUID, name string) (domain.StationCategory, error)
	deleteCategory     func(ctx context.Context, id uuid.UUID) error
	createSubcategory  func(ctx context.Context, sc domain.StationSubcategory) (domain.StationSubcategory, error)
	updateSubcategory  func(ctx context.Context, sc domain.StationSubcategory) (domain.StationSubcategory, error)
	deleteSubcategory  func(ctx context.Context, id uuid.UUID) error
	createStation      func(ctx context.Context, st domain.Station) (domain.Station, error)
	updateStation      func(ctx context.Context, st domain.Station) (domain.Station, error)
	deleteStation      func(ctx context.Context, id uuid.UUID) error
}

func (m *mockStations) ListCategories(ctx context.Context) ([]domain.StationCategory, error) {
	return m.listCategories(ctx)
}
func (m *mockStations) ListSubcategories(ctx context.Context, categoryID *uuid.UUID) ([]domain.StationSubcategory, error) {
	return m.listSubcategories(ctx, categoryID)
}
func (m *mockStations) ListActiveStations(ctx context.Context, subcategoryID *uuid.UUID) ([]domain.Station, error) {
	return m.listActiveStations(ctx, subcategoryID)
}
func (m *mockStations) ListAllStations(ctx context.Context) ([]domain.Station, error) {
	return m.listAllStations(ctx)
}
func (m *mockStations) CreateCategory(ctx context.Context, name string) (domain.StationCategory, error) {
	return m.createCategory(ctx, name)
}
func (m *mockStations) UpdateCategory(ctx context.Context, id uuid.UUID, name string) (domain.StationCategory, error) {
	return m.updateCategory(ctx, id, name)
}
func (m *mockStations) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	return m.deleteCategory(ctx, id)
}
func (m *mockStations) CreateSubcategory(ctx context.Context, sc domain.StationSubcategory) (domain.StationSubcategory, error) {
	return m.createSubcategory(ctx, sc)
}
func (m *mockStations) UpdateSubcategory(ctx context.Context, sc domain.StationSubcategory) (domain.StationSubcategory, error) {
	return m.updateSubcategory(ctx, sc)
}
func (m *mockStations) DeleteSubcategory(ctx context.Context, id uuid.UUID) error {
	return m.deleteSubcategory(ctx, id)
}
func (m *mockStations) CreateStation(ctx context.Context, st domain.Station) (domain.Station, error) {
	return m.createStation(ctx, st)
}
func (m *mockStations) UpdateStation(ctx context.Context, st domain.Station) (domain.Station, error) {
	return m.updateStation(ctx, st)
}
func (m *mockStations) DeleteStation(ctx context.Context, id uuid.UUID) error {
	return m.deleteStation(ctx, id)
}

type mockBookings struct {
	listForCandidate        func(ctx context.Context, candidateID uuid.UUID) ([]domain.Booking, error)
	listForTrainerUser      func(ctx context.Context, userID uuid.UUID) ([]domain.Booking, error)
	listPaged               func(ctx context.Context, p domain.PaginationParams) ([]domain.Booking, int64, error)
	cancel                  func(ctx context.Context, candidateID, id uuid.UUID) (domain.Booking, error)
	updateStatus            func(ctx context.Context, id uuid.UUID, status domain.BookingStatus) (domain.Booking, error)
	schedulingLink          func(ctx context.Context, who domain.Identity, id uuid.UUID) (string, error)
	candidateEventScheduled func(ctx context.Context, candidateID, id uuid.UUID, at time.Time, eventURI string) (domain.Booking, error)
	eventScheduled          func(ctx context.Context, id uuid.UUID, at time.Time, eventURI string) (domain.Booking, error)
}

func (m *mockBookings) ListForCandidate(ctx context.Context, candidateID uuid.UUID) ([]domain.Booking, error) {
	return m.listForCandidate(ctx, candidateID)
}
func (m *mockBookings) ListForTrainerUser(ctx context.Context, userID uuid.UUID) ([]domain.Booking, error) {
	return m.listForTrainerUser(ctx, userID)
}
func (m *mockBookings) ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Booking, int64, error) {
	return m.listPaged(ctx, p)
}
func (m *mockBookings) Cancel(ctx context.Context, candidateID, id uuid.UUID) (domain.Booking, error) {
	return m.cancel(ctx, candidateID, id)
}
func (m *mockBookings) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.BookingStatus) (domain.Booking, error) {
	return m.updateStatus(ctx, id, status)
}
func (m *mockBookings) SchedulingLink(ctx context.Context, who domain.Identity, id uuid.UUID) (string, error) {
	return m.schedulingLink(ctx, who, id)
}
func (m *mockBookings) CandidateEventScheduled(ctx context.Context, candidateID, id uuid.UUID, at time.Time, eventURI string) (domain.Booking, error) {
	return m.candidateEventScheduled(ctx, candidateID, id, at, eventURI)
}
func (m *mockBookings) EventScheduled(ctx context.Context, id uuid.UUID, at time.Time, eventURI string) (domain.Booking, error) {
	return m.eventScheduled(ctx, id, at, eventURI)
}

type mockWizards struct {
	start   func(ctx context.Context, candidateID uuid.UUID) (wizard.View, error)
	get     func(ctx context.Context, candidateID, id uuid.UUID) (wizard.View, error)
	discard func(ctx context.Context, candidateID, id uuid.UUID) error
	apply   func(ctx context.Context, candidateID, id uuid.UUID, action func(*wizard.Wizard) error) (wizard.View, error)
	submit  func(ctx context.Context, candidateID, id uuid.UUID) (wizard.View, domain.Booking, error)
}

func (m *mockWizards) Start(ctx context.Context, candidateID uuid.UUID) (wizard.View, error) {
	return m.start(ctx, candidateID)
}
func (m *mockWizards) Get(ctx context.Context, candidateID, id uuid.UUID) (wizard.View, error) {
	return m.get(ctx, candidateID, id)
}
func (m *mockWizards) Discard(ctx context.Context, candidateID, id uuid.UUID) error {
	return m.discard(ctx, candidateID, id)
}
func (m *mockWizards) Apply(ctx context.Context, candidateID, id uuid.UUID, action func(*wizard.Wizard) error) (wizard.View, error) {
	return m.apply(ctx, candidateID, id, action)
}
func (m *mockWizards) Submit(ctx context.Context, candidateID, id uuid.UUID) (wizard.View, domain.Booking, error) {
	return m.submit(ctx, candidateID, id)
}

type mockPayments struct {
	checkout     func(ctx context.Context, candidateID, bookingID uuid.UUID) (domain.Checkout, error)
	handleEvent  func(ctx context.Context, payload []byte, signature string) error
	listPaged    func(ctx context.Context, p domain.PaginationParams) ([]domain.Payment, int64, error)
	updateStatus func(ctx context.Context, id uuid.UUID, status domain.PaymentStatus) (domain.Payment, error)
	refund       func(ctx context.Context, r domain.Refund) (domain.Payment, error)
}

func (m *mockPayments) Checkout(ctx context.Context, candidateID, bookingID uuid.UUID) (domain.Checkout, error) {
	return m.checkout(ctx, candidateID, bookingID)
}
func (m *mockPayments) HandleEvent(ctx context.Context, payload []byte, signature string) error {
	return m.handleEvent(ctx, payload, signature)
}
func (m *mockPayments) ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Payment, int64, error) {
	return m.listPaged(ctx, p)
}
func (m *mockPayments) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.PaymentStatus) (domain.Payment, error) {
	return m.updateStatus(ctx, id, status)
}
func (m *mockPayments) Refund(ctx context.Context, r domain.Refund) (domain.Payment, error) {
	return m.refund(ctx, r)
}

type mockRecordings struct {
	upload           func(ctx context.Context, trainerUserID, bookingID uuid.UUID, file io.Reader) (domain.Recording, error)
	listForCandidate func(ctx context.Context, candidateID uuid.UUID) ([]domain.Recording, error)
	list             func(ctx context.Context) ([]domain.Recording, error)
	revoke           func(ctx context.Context, id uuid.UUID) (domain.Recording, error)
}

func (m *mockRecordings) Upload(ctx context.Context, trainerUserID, bookingID uuid.UUID, file io.Reader) (domain.Recording, error) {
	return m.upload(ctx, trainerUserID, bookingID, file)
}
func (m *mockRecordings) ListForCandidate(ctx context.Context, candidateID uuid.UUID) ([]domain.Recording, error) {
	return m.listForCandidate(ctx, candidateID)
}
func (m *mockRecordings) List(ctx context.Context) ([]domain.Recording, error) { return m.list(ctx) }
func (m *mockRecordings) Revoke(ctx context.Context, id uuid.UUID) (domain.Recording, error) {
	return m.revoke(ctx, id)
}

type mockContact struct {
	submit   func(ctx context.Context, c domain.ContactSubmission) (domain.ContactSubmission, error)
	list     func(ctx context.Context) ([]domain.ContactSubmission, error)
	markRead func(ctx context.Context, id uuid.UUID) error
}

func (m *mockContact) Submit(ctx context.Context, c domain.ContactSubmission) (domain.ContactSubmission, error) {
	return m.submit(ctx, c)
}
func (m *mockContact) List(ctx context.Context) ([]domain.ContactSubmission, error) {
	return m.list(ctx)
}
func (m *mockContact) MarkRead(ctx context.Context, id uuid.UUID) error { return m.markRead(ctx, id) }

type mockAvailability struct {
	listSlots        func(ctx context.Context, userID uuid.UUID) ([]domain.AvailabilitySlot, error)
	addSlot          func(ctx context.Context, userID uuid.UUID, slot domain.AvailabilitySlot) (domain.AvailabilitySlot, error)
	deleteSlot       func(ctx context.Context, userID, slotID uuid.UUID) error
	listBlockedDates func(ctx context.Context, userID uuid.UUID) ([]domain.BlockedDate, error)
	blockDate        func(ctx context.Context, userID uuid.UUID, d domain.BlockedDate) (domain.BlockedDate, error)
	unblockDate      func(ctx context.Context, userID, dateID uuid.UUID) error
}

func (m *mockAvailability) ListSlots(ctx context.Context, userID uuid.UUID) ([]domain.AvailabilitySlot, error) {
	return m.listSlots(ctx, userID)
}
func (m *mockAvailability) AddSlot(ctx context.Context, userID uuid.UUID, slot domain.AvailabilitySlot) (domain.AvailabilitySlot, error) {
	return m.addSlot(ctx, userID, slot)
}
func (m *mockAvailability) DeleteSlot(ctx context.Context, userID, slotID uuid.UUID) error {
	return m.deleteSlot(ctx, userID, slotID)
}
func (m *mockAvailability) ListBlockedDates(ctx context.Context, userID uuid.UUID) ([]domain.BlockedDate, error) {
	return m.listBlockedDates(ctx, userID)
}
func (m *mockAvailability) BlockDate(ctx context.Context, userID uuid.UUID, d domain.BlockedDate) (domain.BlockedDate, error) {
	return m.blockDate(ctx, userID, d)
}
func (m *mockAvailability) UnblockDate(ctx context.Context, userID, dateID uuid.UUID) error {
	return m.unblockDate(ctx, userID, dateID)
}

type mockExport struct {
	export func(ctx context.Context) ([]domain.BookingExportRow, error)
}

func (m *mockExport) Export(ctx context.Context) ([]domain.BookingExportRow, error) {
	return m.export(ctx)
}

type mockSessions struct {
	signOut func(ctx context.Context, raw string) error
}

func (m *mockSessions) SignOut(ctx context.Context, raw string) error { return m.signOut(ctx, raw) }

type verifierFunc func(payload []byte, header string) error

func (f verifierFunc) Verify(payload []byte, header string) error { return f(payload, header) }

// compile-time checks: every mock must satisfy the interface it stands in for.
var (
	_ handler.TrainerServicer      = (*mockTrainers)(nil)
	_ handler.StationServicer      = (*mockStations)(nil)
	_ handler.BookingServicer      = (*mockBookings)(nil)
	_ handler.WizardServicer       = (*mockWizards)(nil)
	_ handler.PaymentServicer      = (*mockPayments)(nil)
	_ handler.RecordingServicer    = (*mockRecordings)(nil)
	_ handler.ContactServicer      = (*mockContact)(nil)
	_ handler.AvailabilityServicer = (*mockAvailability)(nil)
	_ handler.ExportServicer       = (*mockExport)(nil)
	_ handler.SessionServicer      = (*mockSessions)(nil)
	_ handler.WebhookVerifier      = verifierFunc(nil)
)

// ---- helpers ---------------------------------------------------------------

var quietLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

const (
	testMaxBody   = 1 << 10
	testMaxUpload = 1 << 16
)

// newHTTPHandler wires a Server with the given mocks into the router.
// This mirrors how main.go wires it in production.
func newHTTPHandler(d handler.Deps) http.Handler {
	d.Logger = quietLogger
	return handler.NewServer(d).Routes(handler.RouteConfig{
		Authenticator:  tokenAuth{},
		MaxBodyBytes:   testMaxBody,
		MaxUploadBytes: testMaxUpload,
	})
}

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

// do sends a request as the user holding token ("" for anonymous).
func do(h http.Handler, method, path, token string, body io.Reader) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v), rec.Body.String())
	return v
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) handler.ErrorResponse {
	t.Helper()
	return decode[handler.ErrorResponse](t, rec)
}

func bookingFixture() domain.Booking {
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	return domain.Booking{
		ID:          uuid.New(),
		CandidateID: candidateUser.UserID,
		TrainerID:   uuid.New(),
		SessionMode: domain.SessionModeOneOnOne,
		SessionType: domain.SessionTypeMock,
		Stations:    4,
		Status:      domain.BookingPending,
		CreatedAt:   now,
		UpdatedAt:   now,
		Trainer:     &domain.TrainerSummary{Name: "Tom Trainer", CalendarLink: "https://calendly.com/tom"},
	}
}
