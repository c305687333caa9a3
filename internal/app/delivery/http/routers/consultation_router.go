package routers

import (
	"fmt"
	"pharmacare-service/internal/app/delivery/http/middlewares"
	"pharmacare-service/internal/app/services/core/calls"
	"pharmacare-service/internal/app/services/core/consultations"
	"pharmacare-service/internal/app/services/core/payments"
	"pharmacare-service/internal/app/services/core/reviews"
	"pharmacare-service/internal/pkg/constvars"

	"github.com/go-chi/chi/v5"
)

func attachConsultationRoutes(
	router chi.Router,
	middlewares *middlewares.Middlewares,
	consultationController *consultations.ConsultationController,
	paymentController *payments.PaymentController,
	callController *calls.CallController,
	reviewController *reviews.ReviewController,
) {
	// The gateway cannot carry a bearer token; the webhook authenticates
	// itself via the body signature and stays outside the auth middleware.
	router.Post("/webhook/payment", paymentController.HandleWebhook)

	router.Group(func(r chi.Router) {
		r.Use(middlewares.Authenticate)

		r.Post("/book", consultationController.BookConsultation)
		r.Get("/", consultationController.ListConsultations)

		idPattern := fmt.Sprintf("/{%s}", constvars.URLParamConsultationID)
		r.Route(idPattern, func(r chi.Router) {
			r.Get("/", consultationController.GetConsultation)
			r.Post("/verify-payment", paymentController.VerifyPayment)
			r.Post("/confirm", consultationController.ConfirmConsultation)
			r.Post("/join", callController.JoinCall)
			r.Post("/complete", consultationController.CompleteConsultation)
			r.Post("/cancel", consultationController.CancelConsultation)
			r.Post("/review", reviewController.SubmitReview)
		})
	})
}
