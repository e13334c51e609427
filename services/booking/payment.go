package booking

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/paymentintent"
	"go.uber.org/zap"

	"pestguard/config"
	"pestguard/models"
	"pestguard/utils"
)

// InitiatePayment creates a Stripe payment intent for the booking's service
// price and returns its client secret for the caller to complete.
func (se *DefaultBookingEngine) InitiatePayment(ctx context.Context, bookingID string) (string, error) {
	booking, err := se.getBooking(ctx, bookingID)
	if err != nil {
		return "", err
	}
	if booking.Status != models.BookingStatusPending {
		return "", &InvalidTransitionError{BookingID: bookingID, From: booking.Status, To: models.BookingStatusConfirmed}
	}

	svc, err := se.Catalog.GetByID(ctx, booking.ServiceID)
	if err != nil {
		return "", fmt.Errorf("failed to load service: %w", err)
	}

	stripe.Key = config.AppConfig.StripeKey
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(int64(svc.Price * 100)),
		Currency: stripe.String(string(stripe.CurrencyUSD)),
		Metadata: map[string]string{"booking_id": bookingID},
	}
	params.Context = ctx

	intent, err := paymentintent.New(params)
	if err != nil {
		return "", fmt.Errorf("failed to create payment intent: %w", err)
	}

	utils.GetLogger().Info("payment intent created",
		zap.String("bookingID", bookingID), zap.String("intentID", intent.ID))
	return intent.ClientSecret, nil
}

// VerifyPayment records a captured payment reported by the gateway and
// confirms the booking.
func (se *DefaultBookingEngine) VerifyPayment(ctx context.Context, bookingID, gatewayPaymentID string, amount float64) error {
	booking, err := se.getBooking(ctx, bookingID)
	if err != nil {
		return err
	}
	if booking.Status != models.BookingStatusPending {
		return &InvalidTransitionError{BookingID: bookingID, From: booking.Status, To: models.BookingStatusConfirmed}
	}

	payment := &models.Payment{
		ID:        uuid.New().String(),
		BookingID: bookingID,
		PaymentID: gatewayPaymentID,
		Amount:    amount,
		Status:    "captured",
		CreatedAt: se.now(),
	}
	if err := se.Bookings.RecordPayment(ctx, payment); err != nil {
		return fmt.Errorf("failed to record payment: %w", err)
	}

	utils.GetLogger().Info("payment recorded",
		zap.String("bookingID", bookingID),
		zap.String("paymentID", gatewayPaymentID),
		zap.Float64("amount", amount))

	return se.ConfirmBooking(ctx, bookingID)
}
