// File: pestguard/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"github.com/stripe/stripe-go/v76"

	"pestguard/config"
	"pestguard/cron"
	"pestguard/database"
	bookingRepoPkg "pestguard/database/repository/booking"
	catalogRepoPkg "pestguard/database/repository/catalog"
	notificationRepoPkg "pestguard/database/repository/notification"
	otpRepoPkg "pestguard/database/repository/otp"
	storeRepoPkg "pestguard/database/repository/store"
	technicianRepoPkg "pestguard/database/repository/technician"
	unavailabilityRepoPkg "pestguard/database/repository/unavailability"
	userRepoPkg "pestguard/database/repository/user"
	"pestguard/handlers"
	"pestguard/middleware"
	"pestguard/routes"
	"pestguard/services/booking"
	"pestguard/services/catalog"
	"pestguard/services/events"
	"pestguard/services/notification"
	"pestguard/services/store"
	"pestguard/services/technician"
	"pestguard/services/user"
	"pestguard/utils"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitRedis()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())
	stripe.Key = config.AppConfig.StripeKey

	// repositories.
	technicianRepo := technicianRepoPkg.NewMongoTechnicianRepo()
	unavailRepo := unavailabilityRepoPkg.NewMongoUnavailabilityRepo()
	lockRepo := unavailabilityRepoPkg.NewMongoLockRepo()
	bookingRepo := bookingRepoPkg.NewMongoBookingRepo()
	catalogRepo := catalogRepoPkg.NewMongoCatalogRepo()
	otpRepo := otpRepoPkg.NewMongoOTPRepo()
	userRepo := userRepoPkg.NewMongoUserRepo()
	storeRepo := storeRepoPkg.NewMongoStoreRepo()
	notificationRepo := notificationRepoPkg.NewMongoNotificationRepo()

	// services.
	taskQueue := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisTaskDB,
	})
	defer taskQueue.Close()

	notificationService := &notification.DefaultNotificationService{
		Repo:  notificationRepo,
		Queue: taskQueue,
	}

	var publisher events.Publisher
	if kp := events.NewKafkaPublisher(); kp != nil {
		publisher = kp
		defer kp.Close()
	}

	bookingEngine := &booking.DefaultBookingEngine{
		Bookings:    bookingRepo,
		Locks:       lockRepo,
		Technicians: technicianRepo,
		Catalog:     catalogRepo,
		Codes:       otpRepo,
		Availability: &booking.AvailabilityIndex{
			Technicians: technicianRepo,
			Unavail:     unavailRepo,
		},
		Notifier: notificationService,
		Events:   publisher,
	}

	technicianService := &technician.DefaultTechnicianService{
		Technicians: technicianRepo,
		Unavail:     unavailRepo,
		Locks:       lockRepo,
		Bookings:    bookingRepo,
		Notifier:    notificationService,
		Events:      publisher,
	}

	catalogService := &catalog.DefaultCatalogService{Repo: catalogRepo}
	storeService := &store.DefaultStoreService{Repo: storeRepo}
	userService := &user.DefaultUserService{Repo: userRepo}

	// Background notification delivery.
	cron.InitNotificationWorker()

	// Assemble the handler bundle and register routes.
	handlerBundle := &routes.HandlerBundle{
		Auth:          handlers.NewAuthHandler(userService),
		Booking:       handlers.NewBookingHandler(bookingEngine, catalogService),
		Technician:    handlers.NewTechnicianHandler(bookingEngine, technicianService),
		Admin:         handlers.NewAdminHandler(userService, catalogService, storeService, technicianService, bookingEngine),
		Store:         handlers.NewStoreHandler(storeService),
		Payment:       handlers.NewPaymentHandler(bookingEngine),
		Notifications: handlers.NewNotificationHandler(notificationService),
	}
	routes.Register(router, handlerBundle)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
