package api

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	apperrors "spotshare/internal/errors"
	"spotshare/internal/service"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"
)

const (
	paymentSucceeded = "succeeded"
	paymentFailed    = "failed"
	paymentRefunded  = "refunded"
)

type StripeWebhookHandler struct {
	StripeSecret   string
	bookingService *service.BookingService
	stripeService  *service.StripeService
}

func NewStripeWebhookHandler(stripeSecret string, bookingService *service.BookingService, stripeService *service.StripeService) *StripeWebhookHandler {
	return &StripeWebhookHandler{
		StripeSecret:   stripeSecret,
		bookingService: bookingService,
		stripeService:  stripeService,
	}
}

// HandleWebhook receives the asynchronous payment signals that drive the
// booking lifecycle: checkout completion confirms, expiry and refunds
// cancel. Duplicate deliveries are tolerated because the cancel path is
// idempotent and a repeated confirm is answered with 200 after the
// invalid-state check below.
func (h *StripeWebhookHandler) HandleWebhook(w http.ResponseWriter, r *http.Request) {
	const maxBodyBytes = int64(65536)
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	payload, err := io.ReadAll(r.Body)
	if err != nil {
		log.Printf("Error reading webhook body: %v", err)
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}

	sigHeader := r.Header.Get("Stripe-Signature")
	event, err := webhook.ConstructEvent(payload, sigHeader, h.StripeSecret)
	if err != nil {
		log.Printf("Webhook signature verification failed: %v", err)
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	switch event.Type {
	case "checkout.session.completed":
		var sess stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
			log.Printf("Error parsing checkout.session: %v", err)
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if sess.ID == "" {
			log.Printf("No session ID in checkout.session.completed")
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if err := h.bookingService.ConfirmBySessionID(sess.ID, paymentSucceeded); err != nil {
			var invalidState *apperrors.InvalidStateError
			if errors.As(err, &invalidState) {
				// Redelivered event for an already-confirmed booking.
				break
			}
			log.Printf("Error confirming booking for session %s: %v", sess.ID, err)
			w.WriteHeader(http.StatusInternalServerError)
			return
		}

	case "checkout.session.expired":
		var sess stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
			log.Printf("Error parsing checkout.session: %v", err)
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if err := h.bookingService.CancelBySessionID(sess.ID, paymentFailed); err != nil {
			log.Printf("Error cancelling booking for expired session %s: %v", sess.ID, err)
			w.WriteHeader(http.StatusInternalServerError)
			return
		}

	case "charge.refunded":
		var charge stripe.Charge
		if err := json.Unmarshal(event.Data.Raw, &charge); err != nil {
			log.Printf("Error parsing charge: %v", err)
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if charge.PaymentIntent != nil && charge.PaymentIntent.ID != "" {
			sessionID, err := h.stripeService.GetSessionIDByPaymentIntentID(charge.PaymentIntent.ID)
			if err != nil {
				log.Printf("No session found for PaymentIntent %s: %v", charge.PaymentIntent.ID, err)
				break
			}
			if err := h.bookingService.CancelBySessionID(sessionID, paymentRefunded); err != nil {
				log.Printf("Error cancelling booking for refunded session %s: %v", sessionID, err)
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
		}

	default:
		log.Printf("Unhandled event type: %s", event.Type)
	}

	w.WriteHeader(http.StatusOK)
}
