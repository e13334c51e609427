package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"pestguard/middleware"
	notificationSvc "pestguard/services/notification"
)

// NotificationHandler exposes per-account notification listing.
type NotificationHandler struct {
	Notifications notificationSvc.NotificationService
}

func NewNotificationHandler(notifications notificationSvc.NotificationService) *NotificationHandler {
	return &NotificationHandler{Notifications: notifications}
}

func (h *NotificationHandler) ListUnseen(c *gin.Context) {
	notifications, err := h.Notifications.ListUnseen(
		c.Request.Context(),
		c.GetString(middleware.CtxRole),
		c.GetString(middleware.CtxUserID),
		50,
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list notifications", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, notifications)
}

func (h *NotificationHandler) MarkSeen(c *gin.Context) {
	if err := h.Notifications.MarkSeen(c.Request.Context(), c.Param("id")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to mark notification", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "seen"})
}
