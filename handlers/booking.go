package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"pestguard/middleware"
	"pestguard/models"
	bookingSvc "pestguard/services/booking"
	catalogSvc "pestguard/services/catalog"
)

// BookingHandler exposes the customer booking surface.
type BookingHandler struct {
	Bookings bookingSvc.BookingService
	Catalog  catalogSvc.CatalogService
}

func NewBookingHandler(bookings bookingSvc.BookingService, catalog catalogSvc.CatalogService) *BookingHandler {
	return &BookingHandler{Bookings: bookings, Catalog: catalog}
}

type createBookingInput struct {
	BookingID    string          `json:"booking_id"`
	ServiceID    string          `json:"service_id" binding:"required"`
	Date         time.Time       `json:"date" binding:"required"`
	Location     models.GeoPoint `json:"location"`
	Requirements string          `json:"requirements"`
}

func (h *BookingHandler) Create(c *gin.Context) {
	var input createBookingInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	booking, err := h.Bookings.CreateBooking(c.Request.Context(), bookingSvc.CreateBookingRequest{
		BookingID:    input.BookingID,
		UserID:       c.GetString(middleware.CtxUserID),
		ServiceID:    input.ServiceID,
		Date:         input.Date,
		Location:     input.Location,
		Requirements: input.Requirements,
	})
	if err != nil {
		respondBookingError(c, err)
		return
	}
	c.JSON(http.StatusCreated, booking)
}

func (h *BookingHandler) ListMine(c *gin.Context) {
	bookings, err := h.Bookings.ListUserBookings(c.Request.Context(), c.GetString(middleware.CtxUserID))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list bookings", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, bookings)
}

func (h *BookingHandler) Get(c *gin.Context) {
	booking, err := h.Bookings.GetBooking(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondBookingError(c, err)
		return
	}
	if booking.UserID != c.GetString(middleware.CtxUserID) && c.GetString(middleware.CtxRole) != models.RoleAdmin {
		c.JSON(http.StatusNotFound, gin.H{"error": "booking not found"})
		return
	}
	c.JSON(http.StatusOK, booking)
}

func (h *BookingHandler) Cancel(c *gin.Context) {
	bookingID := c.Param("id")
	booking, err := h.Bookings.GetBooking(c.Request.Context(), bookingID)
	if err != nil {
		respondBookingError(c, err)
		return
	}
	if booking.UserID != c.GetString(middleware.CtxUserID) && c.GetString(middleware.CtxRole) != models.RoleAdmin {
		c.JSON(http.StatusNotFound, gin.H{"error": "booking not found"})
		return
	}

	if err := h.Bookings.CancelBooking(c.Request.Context(), bookingID); err != nil {
		respondBookingError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "cancelled"})
}

func (h *BookingHandler) ListServices(c *gin.Context) {
	services, err := h.Catalog.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list services", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, services)
}

func (h *BookingHandler) GetService(c *gin.Context) {
	svc, err := h.Catalog.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "service not found"})
		return
	}
	c.JSON(http.StatusOK, svc)
}

// respondBookingError maps booking service errors onto HTTP statuses.
func respondBookingError(c *gin.Context, err error) {
	var notFound *bookingSvc.NotFoundError
	var insufficient *bookingSvc.InsufficientStaffError
	var transition *bookingSvc.InvalidTransitionError

	switch {
	case errors.As(err, &notFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.As(err, &insufficient):
		c.JSON(http.StatusConflict, gin.H{
			"error":     err.Error(),
			"needed":    insufficient.Needed,
			"available": insufficient.Available,
		})
	case errors.As(err, &transition):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, bookingSvc.ErrAllocationContention):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "retryable": true})
	case errors.Is(err, bookingSvc.ErrNotAssigned):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, bookingSvc.ErrInvalidCode),
		errors.Is(err, bookingSvc.ErrCodeExpired),
		errors.Is(err, bookingSvc.ErrCodeAlreadyUsed),
		errors.Is(err, bookingSvc.ErrCodeNotIssued):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "request failed", "details": err.Error()})
	}
}
