package events

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"

	"pestguard/config"
)

// Booking lifecycle event types.
const (
	BookingCreated   = "booking.created"
	BookingConfirmed = "booking.confirmed"
	BookingCancelled = "booking.cancelled"
	BookingCompleted = "booking.completed"
	LeaveDecided     = "leave.decided"
)

// Publisher emits lifecycle events for external consumers.
type Publisher interface {
	Publish(ctx context.Context, eventType, subjectID, status string) error
	Close() error
}

type event struct {
	Type      string    `json:"type"`
	SubjectID string    `json:"subject_id"`
	Status    string    `json:"status"`
	At        time.Time `json:"at"`
}

// KafkaPublisher writes events to a single topic, keyed by subject id so
// per-booking ordering is preserved.
type KafkaPublisher struct {
	writer *kafka.Writer
}

// NewKafkaPublisher returns nil when no brokers are configured; callers
// treat a nil Publisher as disabled.
func NewKafkaPublisher() *KafkaPublisher {
	brokers := splitBrokers(config.AppConfig.KafkaBrokers)
	if len(brokers) == 0 {
		return nil
	}
	return &KafkaPublisher{
		writer: kafka.NewWriter(kafka.WriterConfig{
			Brokers:  brokers,
			Topic:    config.AppConfig.KafkaEventTopic,
			Balancer: &kafka.Hash{},
		}),
	}
}

func (p *KafkaPublisher) Publish(ctx context.Context, eventType, subjectID, status string) error {
	payload, err := json.Marshal(event{
		Type:      eventType,
		SubjectID: subjectID,
		Status:    status,
		At:        time.Now().UTC(),
	})
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(subjectID),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(eventType)},
		},
	})
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

func splitBrokers(raw string) []string {
	var brokers []string
	for _, b := range strings.Split(raw, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}
