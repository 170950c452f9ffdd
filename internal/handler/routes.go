package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/casccoach/platform/backend/internal/domain"
	"github.com/casccoach/platform/backend/internal/middleware"
	"github.com/casccoach/platform/backend/spec"
)

// RouteConfig carries the request-level policies the router enforces.
type RouteConfig struct {
	Authenticator middleware.Authenticator

	// ContactLimiter throttles the public contact form. Nil disables it.
	ContactLimiter *middleware.RateLimiter

	// MaxBodyBytes caps every JSON body; MaxUploadBytes caps recording uploads.
	MaxBodyBytes   int64
	MaxUploadBytes int64
}

// Routes builds the API router. Request logging, request IDs, panic recovery
// and CORS are applied by the caller around it.
func (s *Server) Routes(cfg RouteConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.NewAuthenticate(cfg.Authenticator, s.Logger))

	r.Group(func(r chi.Router) {
		r.Use(middleware.NewMaxBodySizeHandler(cfg.MaxBodyBytes))

		// --- public ---
		r.Get("/healthz", s.GetHealth)
		r.Get("/openapi.yaml", serveOpenAPI)
		r.Get("/navigation", s.GetNavigation)
		r.Get("/trainers", s.ListTrainers)
		r.Get("/stations", s.ListStations)
		r.Get("/stations/categories", s.ListStationCategories)
		r.Get("/stations/subcategories", s.ListStationSubcategories)
		r.Get("/pricing/quote", s.GetQuote)
		r.With(limit(cfg.ContactLimiter)).Post("/contact", s.SubmitContact)
		r.Post("/webhooks/stripe", s.StripeWebhook)
		r.Post("/webhooks/scheduling", s.SchedulingWebhook)

		// --- any signed-in user ---
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRoles())
			r.Get("/me", s.GetMe)
			r.Post("/auth/sign-out", s.SignOut)
			r.Post("/trainer-applications", s.ApplyAsTrainer)
		})

		// --- candidates ---
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRoles(domain.RoleCandidate))
			r.Post("/wizards", s.StartWizard)
			r.Route("/wizards/{id}", func(r chi.Router) {
				r.Get("/", s.GetWizard)
				r.Delete("/", s.DiscardWizard)
				r.Put("/trainer", s.SetWizardTrainer)
				r.Put("/mode", s.SetWizardMode)
				r.Put("/session-type", s.SetWizardSessionType)
				r.Put("/group-size", s.SetWizardGroupSize)
				r.Put("/station-count", s.SetWizardStationCount)
				r.Put("/stations", s.SetWizardStations)
				r.Put("/details", s.SetWizardDetails)
				r.Put("/participants/{index}", s.SetWizardParticipant)
				r.Post("/next", s.NextWizardStep)
				r.Post("/back", s.PreviousWizardStep)
				r.Post("/submit", s.SubmitWizard)
			})
			r.Get("/bookings", s.ListMyBookings)
			r.Post("/bookings/{id}/cancel", s.CancelBooking)
			r.Get("/bookings/{id}/schedule", s.GetScheduleLink)
			r.Post("/bookings/{id}/scheduled", s.MarkBookingScheduled)
			r.Post("/bookings/{id}/checkout", s.Checkout)
			r.Get("/recordings", s.ListMyRecordings)
		})

		// --- trainers ---
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRoles(domain.RoleTrainer))
			r.Get("/trainer/profile", s.GetTrainerProfile)
			r.Put("/trainer/profile", s.UpdateTrainerProfile)
			r.Get("/trainer/bookings", s.ListTrainerBookings)
			r.Get("/trainer/availability", s.ListAvailability)
			r.Post("/trainer/availability", s.AddAvailability)
			r.Delete("/trainer/availability/{id}", s.DeleteAvailability)
			r.Get("/trainer/blocked-dates", s.ListBlockedDates)
			r.Post("/trainer/blocked-dates", s.BlockDate)
			r.Delete("/trainer/blocked-dates/{id}", s.UnblockDate)
		})

		// --- admins ---
		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.RequireRoles(domain.RoleAdmin))

			r.Get("/trainers", s.AdminListTrainers)
			r.Post("/trainers", s.AdminCreateTrainer)
			r.Put("/trainers/{id}", s.AdminUpdateTrainer)
			r.Post("/trainers/{id}/approve", s.AdminApproveTrainer)
			r.Post("/trainers/{id}/reject", s.AdminRejectTrainer)
			r.Post("/trainers/{id}/active", s.AdminSetTrainerActive)

			r.Get("/stations", s.AdminListStations)
			r.Post("/stations/categories", s.AdminCreateCategory)
			r.Put("/stations/categories/{id}", s.AdminUpdateCategory)
			r.Delete("/stations/categories/{id}", s.AdminDeleteCategory)
			r.Post("/stations/subcategories", s.AdminCreateSubcategory)
			r.Put("/stations/subcategories/{id}", s.AdminUpdateSubcategory)
			r.Delete("/stations/subcategories/{id}", s.AdminDeleteSubcategory)
			r.Post("/stations/stations", s.AdminCreateStation)
			r.Put("/stations/stations/{id}", s.AdminUpdateStation)
			r.Delete("/stations/stations/{id}", s.AdminDeleteStation)

			r.Get("/bookings", s.AdminListBookings)
			r.Get("/bookings/export", s.ExportBookings)
			r.Put("/bookings/{id}/status", s.AdminUpdateBookingStatus)

			r.Get("/payments", s.AdminListPayments)
			r.Put("/payments/{id}/status", s.AdminUpdatePaymentStatus)
			r.Post("/payments/{id}/refund", s.AdminRefundPayment)

			r.Get("/recordings", s.AdminListRecordings)
			r.Post("/recordings/{id}/revoke", s.AdminRevokeRecording)

			r.Get("/contact", s.AdminListContact)
			r.Post("/contact/{id}/read", s.AdminMarkContactRead)
		})
	})

	// Uploads get their own body limit; nesting it under the JSON limit
	// would cap them at the smaller one.
	r.Group(func(r chi.Router) {
		r.Use(middleware.NewMaxBodySizeHandler(cfg.MaxUploadBytes))
		r.Use(middleware.RequireRoles(domain.RoleTrainer))
		r.Post("/trainer/bookings/{id}/recordings", s.UploadRecording)
	})

	return r
}

func serveOpenAPI(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	_, _ = w.Write(spec.OpenAPI)
}

func limit(l *middleware.RateLimiter) func(http.Handler) http.Handler {
	if l == nil {
		return func(next http.Handler) http.Handler { return next }
	}
	return l.Handler
}
