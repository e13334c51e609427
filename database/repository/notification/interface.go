package notificationRepo

import (
	"context"
	"errors"

	"pestguard/models"
)

// ErrNotFound is returned when no notification matches the given id.
var ErrNotFound = errors.New("notification not found")

// NotificationRepository persists per-account notification records.
type NotificationRepository interface {
	Insert(ctx context.Context, n *models.Notification) error
	GetByID(ctx context.Context, id string) (*models.Notification, error)
	ListUnseen(ctx context.Context, userType, userID string, limit int64) ([]models.Notification, error)
	MarkSeen(ctx context.Context, id string) error
}
