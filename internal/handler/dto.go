package handler

import (
	"time"

	"github.com/google/uuid"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/casccoach/platform/backend/internal/access"
	"github.com/casccoach/platform/backend/internal/domain"
	"github.com/casccoach/platform/backend/internal/wizard"
)

// Wire types mirror the schemas in spec/openapi.yaml.

type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
}

type Page[T any] struct {
	Data       []T        `json:"data"`
	Pagination Pagination `json:"pagination"`
}

func newPage[T any](data []T, p domain.PaginationParams, total int64) Page[T] {
	if data == nil {
		data = []T{}
	}
	return Page[T]{Data: data, Pagination: Pagination{Page: p.Page, Limit: p.Limit, Total: int(total)}}
}

// mapSlice converts every element and never returns nil, so empty lists
// encode as [] rather than null.
func mapSlice[In, Out any](in []In, fn func(In) Out) []Out {
	out := make([]Out, len(in))
	for i, v := range in {
		out[i] = fn(v)
	}
	return out
}

// ---- trainers --------------------------------------------------------------

// TrainerPublic is a directory entry. It never carries the trainer's email.
type TrainerPublic struct {
	ID                  openapi_types.UUID `json:"id"`
	Name                string             `json:"name"`
	Bio                 string             `json:"bio,omitempty"`
	Specialty           string             `json:"specialty,omitempty"`
	CalendarLink        string             `json:"calendar_link,omitempty"`
	AvatarURL           string             `json:"avatar_url,omitempty"`
	Qualifications      string             `json:"qualifications,omitempty"`
	YearsExperience     int                `json:"years_experience"`
	AreasOfExpertise    []string           `json:"areas_of_expertise"`
	SessionTypesOffered []string           `json:"session_types_offered"`
}

type Trainer struct {
	TrainerPublic
	UserID       *openapi_types.UUID  `json:"user_id,omitempty"`
	Email        openapi_types.Email  `json:"email,omitempty"`
	CalendarType string               `json:"calendar_type,omitempty"`
	Status       domain.TrainerStatus `json:"status"`
	IsActive     bool                 `json:"is_active"`
	AppliedAt    *time.Time           `json:"applied_at,omitempty"`
	CreatedAt    time.Time            `json:"created_at"`
	UpdatedAt    time.Time            `json:"updated_at"`
}

// TrainerRequest is the body of applications, profile edits and admin writes.
type TrainerRequest struct {
	Name                string   `json:"name" validate:"required,max=100"`
	Email               string   `json:"email" validate:"omitempty,email,max=255"`
	Bio                 string   `json:"bio" validate:"max=2000"`
	Specialty           string   `json:"specialty" validate:"max=200"`
	CalendarLink        string   `json:"calendar_link" validate:"omitempty,url"`
	CalendarType        string   `json:"calendar_type" validate:"max=50"`
	AvatarURL           string   `json:"avatar_url" validate:"omitempty,url"`
	Qualifications      string   `json:"qualifications" validate:"max=2000"`
	YearsExperience     int      `json:"years_experience" validate:"gte=0,lte=80"`
	AreasOfExpertise    []string `json:"areas_of_expertise" validate:"max=20,dive,max=100"`
	SessionTypesOffered []string `json:"session_types_offered" validate:"max=10,dive,max=100"`
}

func (r TrainerRequest) toDomain() domain.Trainer {
	return domain.Trainer{
		Name:                r.Name,
		Email:               r.Email,
		Bio:                 r.Bio,
		Specialty:           r.Specialty,
		CalendarLink:        r.CalendarLink,
		CalendarType:        r.CalendarType,
		AvatarURL:           r.AvatarURL,
		Qualifications:      r.Qualifications,
		YearsExperience:     r.YearsExperience,
		AreasOfExpertise:    r.AreasOfExpertise,
		SessionTypesOffered: r.SessionTypesOffered,
	}
}

type ActiveRequest struct {
	IsActive *bool `json:"is_active" validate:"required"`
}

func trainerPublic(t domain.Trainer) TrainerPublic {
	return TrainerPublic{
		ID:                  t.ID,
		Name:                t.Name,
		Bio:                 t.Bio,
		Specialty:           t.Specialty,
		CalendarLink:        t.CalendarLink,
		AvatarURL:           t.AvatarURL,
		Qualifications:      t.Qualifications,
		YearsExperience:     t.YearsExperience,
		AreasOfExpertise:    nonNil(t.AreasOfExpertise),
		SessionTypesOffered: nonNil(t.SessionTypesOffered),
	}
}

func trainerToResponse(t domain.Trainer) Trainer {
	return Trainer{
		TrainerPublic: trainerPublic(t),
		UserID:        t.UserID,
		Email:         openapi_types.Email(t.Email),
		CalendarType:  t.CalendarType,
		Status:        t.Status,
		IsActive:      t.IsActive,
		AppliedAt:     t.AppliedAt,
		CreatedAt:     t.CreatedAt,
		UpdatedAt:     t.UpdatedAt,
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// ---- stations --------------------------------------------------------------

type StationCategory struct {
	ID   openapi_types.UUID `json:"id"`
	Name string             `json:"name"`
}

type StationSubcategory struct {
	ID         openapi_types.UUID `json:"id"`
	CategoryID openapi_types.UUID `json:"category_id"`
	Name       string             `json:"name"`
}

type Station struct {
	ID            openapi_types.UUID `json:"id"`
	SubcategoryID openapi_types.UUID `json:"subcategory_id"`
	CategoryID    openapi_types.UUID `json:"category_id"`
	Name          string             `json:"name"`
	IsActive      bool               `json:"is_active"`
}

type CategoryRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

type SubcategoryRequest struct {
	CategoryID openapi_types.UUID `json:"category_id" validate:"required"`
	Name       string             `json:"name" validate:"required,max=100"`
}

type StationRequest struct {
	SubcategoryID openapi_types.UUID `json:"subcategory_id" validate:"required"`
	Name          string             `json:"name" validate:"required,max=200"`
	IsActive      *bool              `json:"is_active"`
}

func categoryToResponse(c domain.StationCategory) StationCategory {
	return StationCategory{ID: c.ID, Name: c.Name}
}

func subcategoryToResponse(sc domain.StationSubcategory) StationSubcategory {
	return StationSubcategory{ID: sc.ID, CategoryID: sc.CategoryID, Name: sc.Name}
}

func stationToResponse(st domain.Station) Station {
	return Station{ID: st.ID, SubcategoryID: st.SubcategoryID, CategoryID: st.CategoryID, Name: st.Name, IsActive: st.IsActive}
}

// ---- bookings --------------------------------------------------------------

type TrainerSummary struct {
	ID           openapi_types.UUID `json:"id"`
	Name         string             `json:"name"`
	Specialty    string             `json:"specialty,omitempty"`
	CalendarLink string             `json:"calendar_link,omitempty"`
}

type Participant struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type Booking struct {
	ID               openapi_types.UUID   `json:"id"`
	CandidateID      openapi_types.UUID   `json:"candidate_id"`
	TrainerID        openapi_types.UUID   `json:"trainer_id"`
	PaymentID        *openapi_types.UUID  `json:"payment_id,omitempty"`
	SessionMode      domain.SessionMode   `json:"session_mode"`
	SessionType      domain.SessionType   `json:"session_type"`
	Stations         int                  `json:"stations"`
	GroupSize        int                  `json:"group_size,omitempty"`
	Participants     []Participant        `json:"participants"`
	StationIDs       []openapi_types.UUID `json:"station_ids"`
	Notes            string               `json:"notes,omitempty"`
	RecordingConsent bool                 `json:"recording_consent"`
	Status           domain.BookingStatus `json:"status"`
	Price            int                  `json:"price"`
	ScheduledAt      *time.Time           `json:"scheduled_at,omitempty"`
	EventURI         string               `json:"event_uri,omitempty"`
	CreatedAt        time.Time            `json:"created_at"`
	UpdatedAt        time.Time            `json:"updated_at"`
	Trainer          *TrainerSummary      `json:"trainer,omitempty"`
}

type BookingStatusRequest struct {
	Status domain.BookingStatus `json:"status" validate:"required,oneof=pending confirmed completed cancelled"`
}

type ScheduledRequest struct {
	ScheduledAt time.Time `json:"scheduled_at"`
	EventURI    string    `json:"event_uri" validate:"max=500"`
}

type ScheduleLink struct {
	URL string `json:"url"`
}

func participantsToResponse(ps domain.Participants) []Participant {
	return mapSlice(ps, func(p domain.Participant) Participant {
		return Participant{Name: p.Name, Email: p.Email}
	})
}

func idsToResponse(ids []uuid.UUID) []openapi_types.UUID {
	return mapSlice(ids, func(id uuid.UUID) openapi_types.UUID { return id })
}

func bookingToResponse(b domain.Booking, price int) Booking {
	resp := Booking{
		ID:               b.ID,
		CandidateID:      b.CandidateID,
		TrainerID:        b.TrainerID,
		PaymentID:        b.PaymentID,
		SessionMode:      b.SessionMode,
		SessionType:      b.SessionType,
		Stations:         b.Stations,
		GroupSize:        b.GroupSize,
		Participants:     participantsToResponse(b.Participants),
		StationIDs:       idsToResponse(b.StationIDs),
		Notes:            b.Notes,
		RecordingConsent: b.RecordingConsent,
		Status:           b.Status,
		Price:            price,
		ScheduledAt:      b.ScheduledAt,
		EventURI:         b.EventURI,
		CreatedAt:        b.CreatedAt,
		UpdatedAt:        b.UpdatedAt,
	}
	if t := b.Trainer; t != nil {
		resp.Trainer = &TrainerSummary{ID: t.ID, Name: t.Name, Specialty: t.Specialty, CalendarLink: t.CalendarLink}
	}
	return resp
}

// ---- wizard ----------------------------------------------------------------

type Selection struct {
	TrainerID        *openapi_types.UUID  `json:"trainer_id"`
	Mode             domain.Mode          `json:"mode,omitempty"`
	SessionType      domain.SessionType   `json:"session_type,omitempty"`
	StationCount     int                  `json:"station_count,omitempty"`
	GroupSize        int                  `json:"group_size,omitempty"`
	Participants     []Participant        `json:"participants"`
	StationIDs       []openapi_types.UUID `json:"station_ids"`
	Notes            string               `json:"notes,omitempty"`
	RecordingConsent bool                 `json:"recording_consent"`
}

type Wizard struct {
	ID             openapi_types.UUID  `json:"id"`
	Step           wizard.Step         `json:"step"`
	Selection      Selection           `json:"selection"`
	Price          int                 `json:"price"`
	StationOptions []int               `json:"station_options"`
	CanProceed     bool                `json:"can_proceed"`
	Submitting     bool                `json:"submitting"`
	BookingID      *openapi_types.UUID `json:"booking_id,omitempty"`
}

type SubmitResponse struct {
	Wizard  Wizard  `json:"wizard"`
	Booking Booking `json:"booking"`
}

type TrainerChoice struct {
	TrainerID openapi_types.UUID `json:"trainer_id" validate:"required"`
}

type ModeChoice struct {
	Mode domain.Mode `json:"mode" validate:"required"`
}

type SessionTypeChoice struct {
	SessionType domain.SessionType `json:"session_type" validate:"required"`
}

type GroupSizeChoice struct {
	GroupSize int `json:"group_size" validate:"required"`
}

type StationCountChoice struct {
	StationCount int `json:"station_count" validate:"required"`
}

type StationsChoice struct {
	StationIDs []openapi_types.UUID `json:"station_ids"`
}

type DetailsChoice struct {
	Notes            string `json:"notes"`
	RecordingConsent bool   `json:"recording_consent"`
}

type ParticipantChoice struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

func wizardToResponse(v wizard.View) Wizard {
	sel := v.Selection
	resp := Wizard{
		ID:   v.ID,
		Step: v.Step,
		Selection: Selection{
			Mode:             sel.Mode,
			SessionType:      sel.SessionType,
			StationCount:     sel.StationCount,
			GroupSize:        sel.GroupSize,
			Participants:     participantsToResponse(sel.Participants),
			StationIDs:       idsToResponse(sel.StationIDs),
			Notes:            sel.Notes,
			RecordingConsent: sel.RecordingConsent,
		},
		Price:          v.Price,
		StationOptions: v.StationOptions,
		CanProceed:     v.CanProceed,
		Submitting:     v.Submitting,
		BookingID:      v.BookingID,
	}
	if sel.TrainerID != uuid.Nil {
		id := sel.TrainerID
		resp.Selection.TrainerID = &id
	}
	if resp.StationOptions == nil {
		resp.StationOptions = []int{}
	}
	return resp
}

// ---- pricing ---------------------------------------------------------------

type Quote struct {
	Price          int   `json:"price"`
	StationOptions []int `json:"station_options"`
	GroupSizes     []int `json:"group_sizes"`
}

// ---- payments --------------------------------------------------------------

type Payment struct {
	ID                openapi_types.UUID   `json:"id"`
	BookingID         openapi_types.UUID   `json:"booking_id"`
	CandidateID       openapi_types.UUID   `json:"candidate_id"`
	TrainerID         openapi_types.UUID   `json:"trainer_id"`
	Amount            float64              `json:"amount"`
	Currency          string               `json:"currency"`
	Status            domain.PaymentStatus `json:"status"`
	ProviderReference string               `json:"provider_reference,omitempty"`
	RefundAmount      *float64             `json:"refund_amount,omitempty"`
	RefundPercentage  *int                 `json:"refund_percentage,omitempty"`
	RefundReason      string               `json:"refund_reason,omitempty"`
	RefundedAt        *time.Time           `json:"refunded_at,omitempty"`
	RefundedBy        *openapi_types.UUID  `json:"refunded_by,omitempty"`
	CreatedAt         time.Time            `json:"created_at"`
	UpdatedAt         time.Time            `json:"updated_at"`
}

type CheckoutResponse struct {
	Payment      Payment `json:"payment"`
	ClientSecret string  `json:"client_secret"`
}

type PaymentStatusRequest struct {
	Status domain.PaymentStatus `json:"status" validate:"required,oneof=pending completed failed"`
}

type RefundRequest struct {
	Percentage int    `json:"percentage" validate:"required,oneof=50 100"`
	Reason     string `json:"reason" validate:"max=500"`
}

func paymentToResponse(p domain.Payment) Payment {
	return Payment{
		ID:                p.ID,
		BookingID:         p.BookingID,
		CandidateID:       p.CandidateID,
		TrainerID:         p.TrainerID,
		Amount:            p.Amount,
		Currency:          p.Currency,
		Status:            p.Status,
		ProviderReference: p.ProviderReference,
		RefundAmount:      p.RefundAmount,
		RefundPercentage:  p.RefundPercentage,
		RefundReason:      p.RefundReason,
		RefundedAt:        p.RefundedAt,
		RefundedBy:        p.RefundedBy,
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
	}
}

// ---- recordings ------------------------------------------------------------

type Recording struct {
	ID          openapi_types.UUID     `json:"id"`
	BookingID   openapi_types.UUID     `json:"booking_id"`
	TrainerID   openapi_types.UUID     `json:"trainer_id"`
	CandidateID openapi_types.UUID     `json:"candidate_id"`
	URL         string                 `json:"url"`
	Status      domain.RecordingStatus `json:"status"`
	ExpiryDate  time.Time              `json:"expiry_date"`
	CreatedAt   time.Time              `json:"created_at"`
}

func recordingToResponse(r domain.Recording) Recording {
	return Recording{
		ID:          r.ID,
		BookingID:   r.BookingID,
		TrainerID:   r.TrainerID,
		CandidateID: r.CandidateID,
		URL:         r.URL,
		Status:      r.Status,
		ExpiryDate:  r.ExpiryDate,
		CreatedAt:   r.CreatedAt,
	}
}

// ---- contact ---------------------------------------------------------------

type ContactRequest struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required"`
	Subject string `json:"subject"`
	Message string `json:"message" validate:"required"`
}

type ContactSubmission struct {
	ID        openapi_types.UUID  `json:"id"`
	Name      string              `json:"name"`
	Email     openapi_types.Email `json:"email,omitempty"`
	Subject   string              `json:"subject,omitempty"`
	Message   string              `json:"message"`
	IsRead    bool                `json:"is_read"`
	CreatedAt time.Time           `json:"created_at"`
}

func contactToResponse(c domain.ContactSubmission) ContactSubmission {
	return ContactSubmission{
		ID:        c.ID,
		Name:      c.Name,
		Email:     openapi_types.Email(c.Email),
		Subject:   c.Subject,
		Message:   c.Message,
		IsRead:    c.IsRead,
		CreatedAt: c.CreatedAt,
	}
}

// ---- availability ----------------------------------------------------------

type AvailabilitySlot struct {
	ID        openapi_types.UUID `json:"id"`
	DayOfWeek int                `json:"day_of_week"`
	StartTime string             `json:"start_time"`
	EndTime   string             `json:"end_time"`
}

type AvailabilitySlotRequest struct {
	DayOfWeek *int   `json:"day_of_week" validate:"required"`
	StartTime string `json:"start_time" validate:"required"`
	EndTime   string `json:"end_time" validate:"required"`
}

type BlockedDate struct {
	ID     openapi_types.UUID `json:"id"`
	Date   openapi_types.Date `json:"date"`
	Reason string             `json:"reason,omitempty"`
}

type BlockedDateRequest struct {
	Date   openapi_types.Date `json:"date"`
	Reason string             `json:"reason"`
}

func slotToResponse(s domain.AvailabilitySlot) AvailabilitySlot {
	return AvailabilitySlot{ID: s.ID, DayOfWeek: s.DayOfWeek, StartTime: s.StartTime, EndTime: s.EndTime}
}

func blockedDateToResponse(d domain.BlockedDate) BlockedDate {
	return BlockedDate{ID: d.ID, Date: openapi_types.Date{Time: d.Date}, Reason: d.Reason}
}

// ---- navigation ------------------------------------------------------------

type NavigationDecision struct {
	Outcome  string `json:"outcome"`
	Location string `json:"location,omitempty"`
}

type Me struct {
	UserID   openapi_types.UUID  `json:"user_id"`
	Email    openapi_types.Email `json:"email,omitempty"`
	FullName string              `json:"full_name,omitempty"`
	Role     domain.Role         `json:"role"`
	Home     string              `json:"home"`
}

func decisionToResponse(d access.Decision) NavigationDecision {
	return NavigationDecision{Outcome: d.Outcome.String(), Location: d.Location}
}

func emailOf(s string) openapi_types.Email {
	return openapi_types.Email(s)
}
