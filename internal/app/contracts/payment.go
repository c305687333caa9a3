package contracts

import (
	"context"
	"pharmacare-service/internal/app/models"
	"pharmacare-service/internal/pkg/dto/requests"
	"pharmacare-service/internal/pkg/dto/responses"
)

type PaymentUsecase interface {
	// HandleWebhook processes a Razorpay webhook delivery. rawBody is the
	// exact bytes the signature was computed over.
	HandleWebhook(ctx context.Context, rawBody []byte, signature string) error
	VerifyPayment(ctx context.Context, session *models.Session, consultationID string, request *requests.VerifyPayment) (*responses.VerifyPayment, error)
}
