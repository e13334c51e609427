package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"pestguard/middleware"
	bookingSvc "pestguard/services/booking"
	technicianSvc "pestguard/services/technician"
)

// TechnicianHandler exposes the technician surface: dashboard, assigned
// jobs, completion codes, and leave requests.
type TechnicianHandler struct {
	Bookings    bookingSvc.BookingService
	Technicians technicianSvc.TechnicianService
}

func NewTechnicianHandler(bookings bookingSvc.BookingService, technicians technicianSvc.TechnicianService) *TechnicianHandler {
	return &TechnicianHandler{Bookings: bookings, Technicians: technicians}
}

func (h *TechnicianHandler) Dashboard(c *gin.Context) {
	dash, err := h.Technicians.Dashboard(c.Request.Context(), c.GetString(middleware.CtxUserID))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build dashboard", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, dash)
}

func (h *TechnicianHandler) ListAssigned(c *gin.Context) {
	bookings, err := h.Bookings.ListTechnicianBookings(c.Request.Context(), c.GetString(middleware.CtxUserID))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list bookings", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, bookings)
}

func (h *TechnicianHandler) GetAssigned(c *gin.Context) {
	bookingID := c.Param("id")
	booking, err := h.Bookings.GetBooking(c.Request.Context(), bookingID)
	if err != nil {
		respondBookingError(c, err)
		return
	}

	assignments, err := h.Bookings.AssignmentsFor(c.Request.Context(), bookingID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load assignments", "details": err.Error()})
		return
	}
	techID := c.GetString(middleware.CtxUserID)
	for _, a := range assignments {
		if a.TechnicianID == techID {
			c.JSON(http.StatusOK, gin.H{"booking": booking, "assignments": assignments})
			return
		}
	}
	c.JSON(http.StatusNotFound, gin.H{"error": "booking not found"})
}

func (h *TechnicianHandler) RequestCompletion(c *gin.Context) {
	code, err := h.Bookings.RequestCompletion(c.Request.Context(), c.Param("id"), c.GetString(middleware.CtxUserID))
	if err != nil {
		respondBookingError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"expires_at": code.ExpiresAt})
}

func (h *TechnicianHandler) VerifyCompletion(c *gin.Context) {
	var input struct {
		Code string `json:"code" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	err := h.Bookings.VerifyCompletion(c.Request.Context(), c.Param("id"), c.GetString(middleware.CtxUserID), input.Code)
	if err != nil {
		respondBookingError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "completed"})
}

func (h *TechnicianHandler) ListLeaves(c *gin.Context) {
	leaves, err := h.Technicians.ListLeaves(c.Request.Context(), c.GetString(middleware.CtxUserID))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list leaves", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, leaves)
}

func (h *TechnicianHandler) SubmitLeave(c *gin.Context) {
	var input struct {
		Start  time.Time `json:"start" binding:"required"`
		End    time.Time `json:"end" binding:"required"`
		Reason string    `json:"reason" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	leave, err := h.Technicians.SubmitLeave(c.Request.Context(), technicianSvc.LeaveRequest{
		TechnicianID: c.GetString(middleware.CtxUserID),
		Start:        input.Start,
		End:          input.End,
		Reason:       input.Reason,
	})
	if err != nil {
		respondLeaveError(c, err)
		return
	}
	c.JSON(http.StatusCreated, leave)
}

func (h *TechnicianHandler) CancelLeave(c *gin.Context) {
	err := h.Technicians.CancelLeave(c.Request.Context(), c.GetString(middleware.CtxUserID), c.Param("id"))
	if err != nil {
		respondLeaveError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "cancelled"})
}

func respondLeaveError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, technicianSvc.ErrJobConflict),
		errors.Is(err, technicianSvc.ErrLeaveConflict),
		errors.Is(err, technicianSvc.ErrAlreadyDecided):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, technicianSvc.ErrLeaveContention):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "retryable": true})
	case errors.Is(err, technicianSvc.ErrInvalidInterval):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, technicianSvc.ErrNotOwner), errors.Is(err, technicianSvc.ErrNotLeave):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "request failed", "details": err.Error()})
	}
}
