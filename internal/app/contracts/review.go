package contracts

import (
	"context"
	"pharmacare-service/internal/app/models"
	"pharmacare-service/internal/pkg/dto/requests"
	"pharmacare-service/internal/pkg/dto/responses"
)

type ReviewUsecase interface {
	SubmitReview(ctx context.Context, session *models.Session, consultationID string, request *requests.SubmitReview) (*responses.SubmitReview, error)
}
