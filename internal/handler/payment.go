package handler

import (
	"io"
	"net/http"

	"github.com/casccoach/platform/backend/internal/domain"
)

// stripeSignatureHeader carries the payment provider's webhook signature.
const stripeSignatureHeader = "Stripe-Signature"

// Checkout handles POST /bookings/{id}/checkout.
func (s *Server) Checkout(w http.ResponseWriter, r *http.Request) {
	who, ok := caller(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	c, err := s.Payments.Checkout(r.Context(), who.UserID, id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, CheckoutResponse{Payment: paymentToResponse(c.Payment), ClientSecret: c.ClientSecret})
}

// StripeWebhook handles POST /webhooks/stripe. The raw body is needed for
// signature verification, so it is read before any decoding.
func (s *Server) StripeWebhook(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(r.Body)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.Payments.HandleEvent(r.Context(), payload, r.Header.Get(stripeSignatureHeader)); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"received": true})
}

// --- admin ------------------------------------------------------------------

// AdminListPayments handles GET /admin/payments.
func (s *Server) AdminListPayments(w http.ResponseWriter, r *http.Request) {
	params, ok := pagination(w, r)
	if !ok {
		return
	}
	list, total, err := s.Payments.ListPaged(r.Context(), params)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newPage(mapSlice(list, paymentToResponse), params, total))
}

// AdminUpdatePaymentStatus handles PUT /admin/payments/{id}/status.
// Refunds go through the refund endpoint instead.
func (s *Server) AdminUpdatePaymentStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var body PaymentStatusRequest
	if !s.decode(w, r, &body) {
		return
	}
	p, err := s.Payments.UpdateStatus(r.Context(), id, body.Status)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, paymentToResponse(p))
}

// AdminRefundPayment handles POST /admin/payments/{id}/refund.
func (s *Server) AdminRefundPayment(w http.ResponseWriter, r *http.Request) {
	admin, ok := caller(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var body RefundRequest
	if !s.decode(w, r, &body) {
		return
	}
	p, err := s.Payments.Refund(r.Context(), domain.Refund{
		PaymentID:  id,
		Percentage: body.Percentage,
		Reason:     body.Reason,
		AdminID:    admin.UserID,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, paymentToResponse(p))
}
