package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"pharmacare-service/internal/app/config"
	"pharmacare-service/internal/app/delivery/http/middlewares"
	"pharmacare-service/internal/app/delivery/http/routers"
	"pharmacare-service/internal/app/drivers/database"
	"pharmacare-service/internal/app/drivers/logger"
	"pharmacare-service/internal/app/drivers/messaging"
	"pharmacare-service/internal/app/services/core/calls"
	"pharmacare-service/internal/app/services/core/consultations"
	"pharmacare-service/internal/app/services/core/payments"
	"pharmacare-service/internal/app/services/core/pharmacists"
	"pharmacare-service/internal/app/services/core/reviews"
	"pharmacare-service/internal/app/services/shared/calltoken"
	"pharmacare-service/internal/app/services/shared/locker"
	"pharmacare-service/internal/app/services/shared/notifications"
	"pharmacare-service/internal/app/services/shared/payment_gateway"
	"pharmacare-service/internal/app/services/shared/redis"
	"pharmacare-service/internal/app/services/shared/session"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
)

func main() {
	driverConfig := config.NewDriverConfig()
	internalConfig := config.NewInternalConfig()

	zapLogger := logger.NewZapLogger(driverConfig, internalConfig)

	mongoClient := database.NewMongoDB(driverConfig)
	redisClient := database.NewRedisClient(driverConfig)
	rabbitMQConnection := messaging.NewRabbitMQ(driverConfig)
	chiRouter := chi.NewRouter()

	bootstrap := &config.Bootstrap{
		Router:         chiRouter,
		Mongo:          mongoClient,
		Redis:          redisClient,
		Logger:         zapLogger,
		RabbitMQ:       rabbitMQConnection,
		InternalConfig: internalConfig,
		DriverConfig:   driverConfig,
	}

	bootstrapTheApp(bootstrap)

	server := &http.Server{
		Addr:    internalConfig.App.Port,
		Handler: chiRouter,
	}

	go func() {
		zapLogger.Sugar().Infof("Server listening on %s", internalConfig.App.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	<-c

	log.Println("Waiting for pending requests to finish..")

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Second*time.Duration(internalConfig.App.ShutdownTimeoutInSeconds),
	)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}
	if err := bootstrap.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error closing connections: %v", err)
	}

	log.Println("Server exiting")
}

func bootstrapTheApp(bootstrap *config.Bootstrap) {
	// Shared services
	redisRepository := redis.NewRedisRepository(bootstrap.Redis)
	sessionService := session.NewSessionService(redisRepository)
	lockerService := locker.NewLockService(redisRepository, bootstrap.Logger)
	razorpayService := payment_gateway.NewRazorpayService(bootstrap.InternalConfig.Razorpay, bootstrap.Logger)
	agoraService := calltoken.NewAgoraService(bootstrap.InternalConfig.Agora)
	notificationService, err := notifications.NewNotificationService(
		bootstrap.RabbitMQ,
		bootstrap.Logger,
		bootstrap.InternalConfig.RabbitMQ.NotificationQueue,
	)
	if err != nil {
		log.Fatalf("Failed to set up notification queue: %v", err)
	}

	// Repositories
	consultationRepository := consultations.NewConsultationMongoRepository(bootstrap.Mongo, bootstrap.DriverConfig.MongoDB.DbName)
	pharmacistRepository := pharmacists.NewPharmacistMongoRepository(bootstrap.Mongo, bootstrap.DriverConfig.MongoDB.DbName)
	reviewRepository, err := reviews.NewReviewMongoRepository(bootstrap.Mongo, bootstrap.DriverConfig.MongoDB.DbName)
	if err != nil {
		log.Fatalf("Failed to ensure review indexes: %v", err)
	}

	// Usecases
	bookingUsecase := consultations.NewBookingUsecase(
		consultationRepository,
		pharmacistRepository,
		razorpayService,
		bootstrap.InternalConfig,
		bootstrap.Logger,
	)
	lifecycleUsecase := consultations.NewLifecycleUsecase(
		consultationRepository,
		pharmacistRepository,
		notificationService,
		bootstrap.Logger,
	)
	cancellationUsecase := consultations.NewCancellationUsecase(
		consultationRepository,
		pharmacistRepository,
		razorpayService,
		notificationService,
		bootstrap.Logger,
	)
	paymentUsecase := payments.NewPaymentUsecase(
		consultationRepository,
		razorpayService,
		notificationService,
		lockerService,
		bootstrap.InternalConfig,
		bootstrap.Logger,
	)
	callUsecase := calls.NewCallUsecase(
		consultationRepository,
		pharmacistRepository,
		agoraService,
		bootstrap.Logger,
	)
	reviewUsecase := reviews.NewReviewUsecase(
		reviewRepository,
		consultationRepository,
		bootstrap.Logger,
	)

	// Controllers
	consultationController := consultations.NewConsultationController(
		bootstrap.Logger,
		bookingUsecase,
		lifecycleUsecase,
		cancellationUsecase,
	)
	paymentController := payments.NewPaymentController(bootstrap.Logger, paymentUsecase)
	callController := calls.NewCallController(bootstrap.Logger, callUsecase)
	reviewController := reviews.NewReviewController(bootstrap.Logger, reviewUsecase)

	// Middlewares and routes
	appMiddlewares := middlewares.NewMiddlewares(bootstrap.Logger, sessionService, bootstrap.InternalConfig)
	routers.SetupRoutes(
		bootstrap.Router,
		bootstrap.InternalConfig,
		appMiddlewares,
		consultationController,
		paymentController,
		callController,
		reviewController,
	)
}
