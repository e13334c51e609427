package models

import "time"

// Notification is a per-account message written on booking and leave
// lifecycle events. Delivery to an outside channel is handled by the
// background worker; the record itself is the source of truth.
type Notification struct {
	ID        string    `bson:"id" json:"id"`
	UserType  string    `bson:"user_type" json:"user_type"` // role of the recipient
	UserID    string    `bson:"user_id" json:"user_id"`
	Message   string    `bson:"message" json:"message"`
	IsSeen    bool      `bson:"is_seen" json:"is_seen"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

// NotificationTask is the asynq payload for background delivery.
type NotificationTask struct {
	NotificationID string `json:"notificationId"`
	UserType       string `json:"userType"`
	UserID         string `json:"userId"`
	Message        string `json:"message"`
}
