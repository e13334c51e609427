package tasks

import (
	"encoding/json"

	"github.com/hibiken/asynq"

	"pestguard/models"
)

const TypeSendNotification = "notification:send"

// NewNotificationTask packs a delivery payload for the background worker.
func NewNotificationTask(payload models.NotificationTask) (*asynq.Task, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeSendNotification, b), nil
}
