package notification

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	notificationRepo "pestguard/database/repository/notification"
	"pestguard/models"
	"pestguard/services/tasks"
	"pestguard/utils"
)

// NotificationService writes notification records and hands them to the
// background worker for delivery.
type NotificationService interface {
	Notify(ctx context.Context, userType, userID, message string) error
	ListUnseen(ctx context.Context, userType, userID string, limit int64) ([]models.Notification, error)
	MarkSeen(ctx context.Context, id string) error
}

// DefaultNotificationService implements NotificationService. Queue may be
// nil, in which case records are still written but delivery is skipped.
type DefaultNotificationService struct {
	Repo  notificationRepo.NotificationRepository
	Queue *asynq.Client
}

func (s *DefaultNotificationService) Notify(ctx context.Context, userType, userID, message string) error {
	n := &models.Notification{
		ID:        uuid.New().String(),
		UserType:  userType,
		UserID:    userID,
		Message:   message,
		CreatedAt: time.Now(),
	}
	if err := s.Repo.Insert(ctx, n); err != nil {
		return fmt.Errorf("failed to store notification: %w", err)
	}

	if s.Queue == nil {
		return nil
	}

	task, err := tasks.NewNotificationTask(models.NotificationTask{
		NotificationID: n.ID,
		UserType:       userType,
		UserID:         userID,
		Message:        message,
	})
	if err != nil {
		return fmt.Errorf("failed to build notification task: %w", err)
	}
	if _, err := s.Queue.EnqueueContext(ctx, task); err != nil {
		// Delivery is best effort; the record is already persisted.
		utils.GetLogger().Warn("failed to enqueue notification delivery",
			zap.String("notificationID", n.ID), zap.Error(err))
	}
	return nil
}

func (s *DefaultNotificationService) ListUnseen(ctx context.Context, userType, userID string, limit int64) ([]models.Notification, error) {
	return s.Repo.ListUnseen(ctx, userType, userID, limit)
}

func (s *DefaultNotificationService) MarkSeen(ctx context.Context, id string) error {
	return s.Repo.MarkSeen(ctx, id)
}
