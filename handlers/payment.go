package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	bookingSvc "pestguard/services/booking"
)

// PaymentHandler exposes payment-intent creation and the capture callback.
type PaymentHandler struct {
	Bookings bookingSvc.BookingService
}

func NewPaymentHandler(bookings bookingSvc.BookingService) *PaymentHandler {
	return &PaymentHandler{Bookings: bookings}
}

func (h *PaymentHandler) CreateIntent(c *gin.Context) {
	var input struct {
		BookingID string `json:"booking_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	clientSecret, err := h.Bookings.InitiatePayment(c.Request.Context(), input.BookingID)
	if err != nil {
		respondBookingError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"client_secret": clientSecret})
}

func (h *PaymentHandler) Verify(c *gin.Context) {
	var input struct {
		BookingID string  `json:"booking_id" binding:"required"`
		PaymentID string  `json:"payment_id" binding:"required"`
		Amount    float64 `json:"amount" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	if err := h.Bookings.VerifyPayment(c.Request.Context(), input.BookingID, input.PaymentID, input.Amount); err != nil {
		respondBookingError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "confirmed"})
}
