package routers

import (
	"fmt"
	"pharmacare-service/internal/app/config"
	"pharmacare-service/internal/app/delivery/http/middlewares"
	"pharmacare-service/internal/app/services/core/calls"
	"pharmacare-service/internal/app/services/core/consultations"
	"pharmacare-service/internal/app/services/core/payments"
	"pharmacare-service/internal/app/services/core/reviews"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
)

func SetupRoutes(
	router *chi.Mux,
	internalConfig *config.InternalConfig,
	middlewares *middlewares.Middlewares,
	consultationController *consultations.ConsultationController,
	paymentController *payments.PaymentController,
	callController *calls.CallController,
	reviewController *reviews.ReviewController,
) {
	corsOptions := cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           300,
	}
	router.Use(cors.Handler(corsOptions))

	rateLimiter := httprate.LimitByIP(
		internalConfig.App.MaxRequests,
		time.Duration(internalConfig.App.MaxTimeRequestsPerSeconds)*time.Second,
	)
	router.Use(rateLimiter)

	router.Use(middlewares.RequestIDMiddleware)
	router.Use(middlewares.Logging)

	endpointPrefix := fmt.Sprintf("/%s", internalConfig.App.EndpointPrefix)
	versionPrefix := fmt.Sprintf("/%s", internalConfig.App.Version)

	router.Route(endpointPrefix, func(r chi.Router) {
		r.Route(versionPrefix, func(r chi.Router) {
			r.Route("/consultations", func(r chi.Router) {
				attachConsultationRoutes(r, middlewares, consultationController, paymentController, callController, reviewController)
			})
		})
	})
}
