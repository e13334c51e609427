package cron

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"pestguard/config"
	"pestguard/models"
	"pestguard/services/tasks"
	"pestguard/utils"
)

// InitNotificationWorker runs the async delivery worker in background.
func InitNotificationWorker() {
	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisTaskDB,
	}

	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeSendNotification, handleNotificationTask)

	go func() {
		log.Println("[NotificationWorker] starting async worker...")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				log.Printf("[NotificationWorker] attempt %d/%d failed to start worker: %v", attempts, maxAttempts, err)

				if attempts == maxAttempts {
					log.Fatal("[NotificationWorker] max retry attempts reached, exiting")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second)
			} else {
				break
			}
		}
	}()
}

func handleNotificationTask(ctx context.Context, task *asynq.Task) error {
	var p models.NotificationTask
	if err := json.Unmarshal(task.Payload(), &p); err != nil {
		utils.GetLogger().Error("invalid notification payload", zap.Error(err))
		return err
	}

	// Delivery target is the stored record; outside channels (push, email)
	// plug in here. For now the worker logs the hand-off.
	utils.GetLogger().Info("delivering notification",
		zap.String("notificationID", p.NotificationID),
		zap.String("userType", p.UserType),
		zap.String("userID", p.UserID),
		zap.String("message", p.Message))
	return nil
}
