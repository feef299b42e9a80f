package service

import (
	"fmt"
	"os"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/checkout/session"
	"github.com/stripe/stripe-go/v82/refund"
)

type StripeService struct{}

func NewStripeService() *StripeService {
	return &StripeService{}
}

// CreateCheckoutSession opens a Stripe Checkout session for the booking
// amount and returns its URL and id. The booking keeps the session id so
// webhook events can be routed back to it.
func (s *StripeService) CreateCheckoutSession(amountCents int64, currency, description, customerEmail string) (string, string, error) {
	baseURL := os.Getenv("FRONTEND_BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:3000"
	}

	params := &stripe.CheckoutSessionParams{
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String(currency),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(description),
					},
					UnitAmount: stripe.Int64(amountCents),
				},
				Quantity: stripe.Int64(1),
			},
		},
		Mode:          stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL:    stripe.String(baseURL + "/bookings/confirmation?session_id={CHECKOUT_SESSION_ID}"),
		CancelURL:     stripe.String(baseURL + "/bookings/failed?session_id={CHECKOUT_SESSION_ID}"),
		CustomerEmail: stripe.String(customerEmail),
	}

	sess, err := session.New(params)
	if err != nil {
		return "", "", err
	}
	return sess.URL, sess.ID, nil
}

// ExpireCheckoutSession invalidates an open session whose booking was
// rejected, so the renter cannot pay for an interval that was never held.
func (s *StripeService) ExpireCheckoutSession(sessionID string) error {
	_, err := session.Expire(sessionID, nil)
	return err
}

// RefundPaymentBySessionID refunds the payment captured through the given
// checkout session.
func (s *StripeService) RefundPaymentBySessionID(sessionID string) error {
	sess, err := session.Get(sessionID, nil)
	if err != nil {
		return err
	}
	if sess.PaymentIntent == nil || sess.PaymentIntent.ID == "" {
		return fmt.Errorf("no PaymentIntent found for session %s", sessionID)
	}
	params := &stripe.RefundParams{
		PaymentIntent: stripe.String(sess.PaymentIntent.ID),
	}
	_, err = refund.New(params)
	return err
}

// GetSessionIDByPaymentIntentID resolves the checkout session behind a
// PaymentIntent, needed for charge-level webhook events.
func (s *StripeService) GetSessionIDByPaymentIntentID(paymentIntentID string) (string, error) {
	params := &stripe.CheckoutSessionListParams{
		PaymentIntent: &paymentIntentID,
	}
	params.Limit = stripe.Int64(1)
	it := session.List(params)
	for it.Next() {
		sess := it.CheckoutSession()
		if sess != nil && sess.ID != "" {
			return sess.ID, nil
		}
	}
	return "", fmt.Errorf("no session found for PaymentIntent %s", paymentIntentID)
}
