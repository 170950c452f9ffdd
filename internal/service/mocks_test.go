package service_test

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/casccoach/platform/backend/internal/domain"
	"github.com/casccoach/platform/backend/internal/payments"
	"github.com/casccoach/platform/backend/internal/repo"
	"github.com/casccoach/platform/backend/internal/service"
	"github.com/casccoach/platform/backend/internal/storage"
)

// Hand-written test doubles. Each method is a function field; set only the
// ones a test needs. Calling an unset one panics, which fails the test.

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// ---- repo.TrainerRepo ------------------------------------------------------

type mockTrainerRepo struct {
	create             func(ctx context.Context, t domain.Trainer) (domain.Trainer, error)
	getByID            func(ctx context.Context, id uuid.UUID) (domain.Trainer, error)
	getByUserID        func(ctx context.Context, userID uuid.UUID) (domain.Trainer, error)
	listActiveApproved func(ctx context.Context) ([]domain.Trainer, error)
	list               func(ctx context.Context) ([]domain.Trainer, error)
	update             func(ctx context.Context, t domain.Trainer) (domain.Trainer, error)
	setStatus          func(ctx context.Context, id uuid.UUID, status domain.TrainerStatus) (domain.Trainer, error)
	setActive          func(ctx context.Context, id uuid.UUID, active bool) (domain.Trainer, error)
}

func (m *mockTrainerRepo) Create(ctx context.Context, t domain.Trainer) (domain.Trainer, error) {
	return m.create(ctx, t)
}
func (m *mockTrainerRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Trainer, error) {
	return m.getByID(ctx, id)
}
func (m *mockTrainerRepo) GetByUserID(ctx context.Context, userID uuid.UUID) (domain.Trainer, error) {
	return m.getByUserID(ctx, userID)
}
func (m *mockTrainerRepo) ListActiveApproved(ctx context.Context) ([]domain.Trainer, error) {
	return m.listActiveApproved(ctx)
}
func (m *mockTrainerRepo) List(ctx context.Context) ([]domain.Trainer, error) {
	return m.list(ctx)
}
func (m *mockTrainerRepo) Update(ctx context.Context, t domain.Trainer) (domain.Trainer, error) {
	return m.update(ctx, t)
}
func (m *mockTrainerRepo) SetStatus(ctx context.Context, id uuid.UUID, status domain.TrainerStatus) (domain.Trainer, error) {
	return m.setStatus(ctx, id, status)
}
func (m *mockTrainerRepo) SetActive(ctx context.Context, id uuid.UUID, active bool) (domain.Trainer, error) {
	return m.setActive(ctx, id, active)
}

var _ repo.TrainerRepo = (*mockTrainerRepo)(nil)

// ---- repo.RoleRepo ---------------------------------------------------------

type mockRoleRepo struct {
	roleFor func(ctx context.Context, userID uuid.UUID) (domain.Role, error)
	setRole func(ctx context.Context, userID uuid.UUID, role domain.Role) error
}

func (m *mockRoleRepo) RoleFor(ctx context.Context, userID uuid.UUID) (domain.Role, error) {
	return m.roleFor(ctx, userID)
}
func (m *mockRoleRepo) SetRole(ctx context.Context, userID uuid.UUID, role domain.Role) error {
	return m.setRole(ctx, userID, role)
}

var _ repo.RoleRepo = (*mockRoleRepo)(nil)

// ---- repo.StationRepo ------------------------------------------------------

type mockStationRepo struct {
	listCategories    func(ctx context.Context) ([]domain.StationCategory, error)
	createCategory    func(ctx context.Context, name string) (domain.StationCategory, error)
	updateCategory    func(ctx context.Context, id uuid.UUID, name string) (domain.StationCategory, error)
	deleteCategory    func(ctx context.Context, id uuid.UUID) error
	listSubcategories func(ctx context.Context, categoryID *uuid.UUID) ([]domain.StationSubcategory, error)
	createSubcategory func(ctx context.Context, sc domain.StationSubcategory) (domain.StationSubcategory, error)
	updateSubcategory func(ctx context.Context, sc domain.StationSubcategory) (domain.StationSubcategory, error)
	deleteSubcategory func(ctx context.Context, id uuid.UUID) error
	listStations      func(ctx context.Context, subcategoryID *uuid.UUID, activeOnly bool) ([]domain.Station, error)
	getStation        func(ctx context.Context, id uuid.UUID) (domain.Station, error)
	createStation     func(ctx context.Context, st domain.Station) (domain.Station, error)
	updateStation     func(ctx context.Context, st domain.Station) (domain.Station, error)
	deleteStation     func(ctx context.Context, id uuid.UUID) error
	countActive       func(ctx context.Context, ids []uuid.UUID) (int, error)
}

func (m *mockStationRepo) ListCategories(ctx context.Context) ([]domain.StationCategory, error) {
	return m.listCategories(ctx)
}
func (m *mockStationRepo) CreateCategory(ctx context.Context, name string) (domain.StationCategory, error) {
	return m.createCategory(ctx, name)
}
func (m *mockStationRepo) UpdateCategory(ctx context.Context, id uuid.UUID, name string) (domain.StationCategory, error) {
	return m.updateCategory(ctx, id, name)
}
func (m *mockStationRepo) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	return m.deleteCategory(ctx, id)
}
func (m *mockStationRepo) ListSubcategories(ctx context.Context, categoryID *uuid.UUID) ([]domain.StationSubcategory, error) {
	return m.listSubcategories(ctx, categoryID)
}
func (m *mockStationRepo) CreateSubcategory(ctx context.Context, sc domain.StationSubcategory) (domain.StationSubcategory, error) {
	return m.createSubcategory(ctx, sc)
}
func (m *mockStationRepo) UpdateSubcategory(ctx context.Context, sc domain.StationSubcategory) (domain.StationSubcategory, error) {
	return m.updateSubcategory(ctx, sc)
}
func (m *mockStationRepo) DeleteSubcategory(ctx context.Context, id uuid.UUID) error {
	return m.deleteSubcategory(ctx, id)
}
func (m *mockStationRepo) ListStations(ctx context.Context, subcategoryID *uuid.UUID, activeOnly bool) ([]domain.Station, error) {
	return m.listStations(ctx, subcategoryID, activeOnly)
}
func (m *mockStationRepo) GetStation(ctx context.Context, id uuid.UUID) (domain.Station, error) {
	return m.getStation(ctx, id)
}
func (m *mockStationRepo) CreateStation(ctx context.Context, st domain.Station) (domain.Station, error) {
	return m.createStation(ctx, st)
}
func (m *mockStationRepo) UpdateStation(ctx context.Context, st domain.Station) (domain.Station, error) {
	return m.updateStation(ctx, st)
}
func (m *mockStationRepo) DeleteStation(ctx context.Context, id uuid.UUID) error {
	return m.deleteStation(ctx, id)
}
func (m *mockStationRepo) CountActive(ctx context.Context, ids []uuid.UUID) (int, error) {
	return m.countActive(ctx, ids)
}

var _ repo.StationRepo = (*mockStationRepo)(nil)

// ---- repo.BookingRepo ------------------------------------------------------

type mockBookingRepo struct {
	create           func(ctx context.Context, b domain.Booking) (domain.Booking, error)
	getByID          func(ctx context.Context, id uuid.UUID) (domain.Booking, error)
	listForCandidate func(ctx context.Context, candidateID uuid.UUID) ([]domain.Booking, error)
	listForTrainer   func(ctx context.Context, trainerID uuid.UUID) ([]domain.Booking, error)
	listPaged        func(ctx context.Context, p domain.PaginationParams) ([]domain.Booking, int64, error)
	updateStatus     func(ctx context.Context, id uuid.UUID, from, to domain.BookingStatus) (domain.Booking, error)
	markScheduled    func(ctx context.Context, id uuid.UUID, at time.Time, eventURI string) (domain.Booking, error)
	setPayment       func(ctx context.Context, id, paymentID uuid.UUID) error
}

func (m *mockBookingRepo) Create(ctx context.Context, b domain.Booking) (domain.Booking, error) {
	return m.create(ctx, b)
}
func (m *mockBookingRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Booking, error) {
	return m.getByID(ctx, id)
}
func (m *mockBookingRepo) ListForCandidate(ctx context.Context, candidateID uuid.UUID) ([]domain.Booking, error) {
	return m.listForCandidate(ctx, candidateID)
}
func (m *mockBookingRepo) ListForTrainer(ctx context.Context, trainerID uuid.UUID) ([]domain.Booking, error) {
	return m.listForTrainer(ctx, trainerID)
}
func (m *mockBookingRepo) ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Booking, int64, error) {
	return m.listPaged(ctx, p)
}
func (m *mockBookingRepo) UpdateStatus(ctx context.Context, id uuid.UUID, from, to domain.BookingStatus) (domain.Booking, error) {
	return m.updateStatus(ctx, id, from, to)
}
func (m *mockBookingRepo) MarkScheduled(ctx context.Context, id uuid.UUID, at time.Time, eventURI string) (domain.Booking, error) {
	return m.markScheduled(ctx, id, at, eventURI)
}
func (m *mockBookingRepo) SetPayment(ctx context.Context, id, paymentID uuid.UUID) error {
	return m.setPayment(ctx, id, paymentID)
}

var _ repo.BookingRepo = (*mockBookingRepo)(nil)

// ---- repo.PaymentRepo ------------------------------------------------------

type mockPaymentRepo struct {
	create                 func(ctx context.Context, p domain.Payment) (domain.Payment, error)
	getByID                func(ctx context.Context, id uuid.UUID) (domain.Payment, error)
	getOpenForBooking      func(ctx context.Context, bookingID uuid.UUID) (domain.Payment, error)
	getByProviderReference func(ctx context.Context, ref string) (domain.Payment, error)
	listPaged              func(ctx context.Context, p domain.PaginationParams) ([]domain.Payment, int64, error)
	updateStatus           func(ctx context.Context, id uuid.UUID, status domain.PaymentStatus) (domain.Payment, error)
	refund                 func(ctx context.Context, r domain.Refund, amount float64) (domain.Payment, error)
}

func (m *mockPaymentRepo) Create(ctx context.Context, p domain.Payment) (domain.Payment, error) {
	return m.create(ctx, p)
}
func (m *mockPaymentRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Payment, error) {
	return m.getByID(ctx, id)
}
func (m *mockPaymentRepo) GetOpenForBooking(ctx context.Context, bookingID uuid.UUID) (domain.Payment, error) {
	return m.getOpenForBooking(ctx, bookingID)
}
func (m *mockPaymentRepo) GetByProviderReference(ctx context.Context, ref string) (domain.Payment, error) {
	return m.getByProviderReference(ctx, ref)
}
func (m *mockPaymentRepo) ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Payment, int64, error) {
	return m.listPaged(ctx, p)
}
func (m *mockPaymentRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.PaymentStatus) (domain.Payment, error) {
	return m.updateStatus(ctx, id, status)
}
func (m *mockPaymentRepo) Refund(ctx context.Context, r domain.Refund, amount float64) (domain.Payment, error) {
	return m.refund(ctx, r, amount)
}

var _ repo.PaymentRepo = (*mockPaymentRepo)(nil)

// ---- repo.RecordingRepo ----------------------------------------------------

type mockRecordingRepo struct {
	create                 func(ctx context.Context, rec domain.Recording) (domain.Recording, error)
	getByID                func(ctx context.Context, id uuid.UUID) (domain.Recording, error)
	listActiveForCandidate func(ctx context.Context, candidateID uuid.UUID, now time.Time) ([]domain.Recording, error)
	list                   func(ctx context.Context) ([]domain.Recording, error)
	setStatus              func(ctx context.Context, id uuid.UUID, status domain.RecordingStatus) (domain.Recording, error)
	expireDue              func(ctx context.Context, now time.Time) ([]domain.Recording, error)
}

func (m *mockRecordingRepo) Create(ctx context.Context, rec domain.Recording) (domain.Recording, error) {
	return m.create(ctx, rec)
}
func (m *mockRecordingRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Recording, error) {
	return m.getByID(ctx, id)
}
func (m *mockRecordingRepo) ListActiveForCandidate(ctx context.Context, candidateID uuid.UUID, now time.Time) ([]domain.Recording, error) {
	return m.listActiveForCandidate(ctx, candidateID, now)
}
func (m *mockRecordingRepo) List(ctx context.Context) ([]domain.Recording, error) {
	return m.list(ctx)
}
func (m *mockRecordingRepo) SetStatus(ctx context.Context, id uuid.UUID, status domain.RecordingStatus) (domain.Recording, error) {
	return m.setStatus(ctx, id, status)
}
func (m *mockRecordingRepo) ExpireDue(ctx context.Context, now time.Time) ([]domain.Recording, error) {
	return m.expireDue(ctx, now)
}

var _ repo.RecordingRepo = (*mockRecordingRepo)(nil)

// ---- repo.ContactRepo ------------------------------------------------------

type mockContactRepo struct {
	create   func(ctx context.Context, c domain.ContactSubmission) (domain.ContactSubmission, error)
	list     func(ctx context.Context) ([]domain.ContactSubmission, error)
	markRead func(ctx context.Context, id uuid.UUID) error
}

func (m *mockContactRepo) Create(ctx context.Context, c domain.ContactSubmission) (domain.ContactSubmission, error) {
	return m.create(ctx, c)
}
func (m *mockContactRepo) List(ctx context.Context) ([]domain.ContactSubmission, error) {
	return m.list(ctx)
}
func (m *mockContactRepo) MarkRead(ctx context.Context, id uuid.UUID) error {
	return m.markRead(ctx, id)
}

var _ repo.ContactRepo = (*mockContactRepo)(nil)

// ---- repo.AvailabilityRepo -------------------------------------------------

type mockAvailabilityRepo struct {
	listSlots         func(ctx context.Context, trainerID uuid.UUID) ([]domain.AvailabilitySlot, error)
	createSlot        func(ctx context.Context, slot domain.AvailabilitySlot) (domain.AvailabilitySlot, error)
	deleteSlot        func(ctx context.Context, trainerID, id uuid.UUID) error
	listBlockedDates  func(ctx context.Context, trainerID uuid.UUID) ([]domain.BlockedDate, error)
	createBlockedDate func(ctx context.Context, d domain.BlockedDate) (domain.BlockedDate, error)
	deleteBlockedDate func(ctx context.Context, trainerID, id uuid.UUID) error
}

func (m *mockAvailabilityRepo) ListSlots(ctx context.Context, trainerID uuid.UUID) ([]domain.AvailabilitySlot, error) {
	return m.listSlots(ctx, trainerID)
}
func (m *mockAvailabilityRepo) CreateSlot(ctx context.Context, slot domain.AvailabilitySlot) (domain.AvailabilitySlot, error) {
	return m.createSlot(ctx, slot)
}
func (m *mockAvailabilityRepo) DeleteSlot(ctx context.Context, trainerID, id uuid.UUID) error {
	return m.deleteSlot(ctx, trainerID, id)
}
func (m *mockAvailabilityRepo) ListBlockedDates(ctx context.Context, trainerID uuid.UUID) ([]domain.BlockedDate, error) {
	return m.listBlockedDates(ctx, trainerID)
}
func (m *mockAvailabilityRepo) CreateBlockedDate(ctx context.Context, d domain.BlockedDate) (domain.BlockedDate, error) {
	return m.createBlockedDate(ctx, d)
}
func (m *mockAvailabilityRepo) DeleteBlockedDate(ctx context.Context, trainerID, id uuid.UUID) error {
	return m.deleteBlockedDate(ctx, trainerID, id)
}

var _ repo.AvailabilityRepo = (*mockAvailabilityRepo)(nil)

// ---- payments.Gateway ------------------------------------------------------

type mockGateway struct {
	createIntent func(ctx context.Context, in payments.Intent) (payments.IntentResult, error)
	clientSecret func(ctx context.Context, reference string) (string, error)
	refund       func(ctx context.Context, reference string, amountMinor int64) error
	parseEvent   func(payload []byte, signature string) (payments.Event, error)
}

func (m *mockGateway) CreateIntent(ctx context.Context, in payments.Intent) (payments.IntentResult, error) {
	return m.createIntent(ctx, in)
}
func (m *mockGateway) ClientSecret(ctx context.Context, reference string) (string, error) {
	return m.clientSecret(ctx, reference)
}
func (m *mockGateway) Refund(ctx context.Context, reference string, amountMinor int64) error {
	return m.refund(ctx, reference, amountMinor)
}
func (m *mockGateway) ParseEvent(payload []byte, signature string) (payments.Event, error) {
	return m.parseEvent(payload, signature)
}

var _ payments.Gateway = (*mockGateway)(nil)

// ---- storage.Store ---------------------------------------------------------

type mockStore struct {
	upload    func(ctx context.Context, file io.Reader, folder string) (storage.Asset, error)
	destroyed []string
}

func (m *mockStore) Upload(ctx context.Context, file io.Reader, folder string) (storage.Asset, error) {
	return m.upload(ctx, file, folder)
}
func (m *mockStore) Destroy(_ context.Context, assetID string) error {
	m.destroyed = append(m.destroyed, assetID)
	return nil
}

var _ storage.Store = (*mockStore)(nil)

// ---- service.ExpiryScheduler -----------------------------------------------

type mockScheduler struct {
	scheduled map[uuid.UUID]time.Time
	err       error
}

func (m *mockScheduler) ScheduleRecordingExpiry(_ context.Context, id uuid.UUID, at time.Time) error {
	if m.err != nil {
		return m.err
	}
	if m.scheduled == nil {
		m.scheduled = map[uuid.UUID]time.Time{}
	}
	m.scheduled[id] = at
	return nil
}

var _ service.ExpiryScheduler = (*mockScheduler)(nil)
