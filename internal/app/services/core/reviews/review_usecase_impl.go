package reviews

import (
	"context"
	"pharmacare-service/internal/app/contracts"
	"pharmacare-service/internal/app/models"
	"pharmacare-service/internal/pkg/constvars"
	"pharmacare-service/internal/pkg/dto/requests"
	"pharmacare-service/internal/pkg/dto/responses"
	"pharmacare-service/internal/pkg/exceptions"
	"time"

	"go.uber.org/zap"
)

type reviewUsecase struct {
	ReviewRepository       contracts.ReviewRepository
	ConsultationRepository contracts.ConsultationRepository
	Log                    *zap.Logger
}

func NewReviewUsecase(
	reviewRepository contracts.ReviewRepository,
	consultationRepository contracts.ConsultationRepository,
	logger *zap.Logger,
) contracts.ReviewUsecase {
	return &reviewUsecase{
		ReviewRepository:       reviewRepository,
		ConsultationRepository: consultationRepository,
		Log:                    logger,
	}
}

// SubmitReview inserts into the reviews collection first; its unique index on
// consultation_id is what turns a double submission into a clean "already
// reviewed" instead of a second review. The rating is then mirrored onto the
// consultation for fast reads.
func (uc *reviewUsecase) SubmitReview(ctx context.Context, session *models.Session, consultationID string, request *requests.SubmitReview) (*responses.SubmitReview, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("reviewUsecase.SubmitReview called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingConsultationIDKey, consultationID),
		zap.String(constvars.LoggingUserIDKey, session.UserID),
	)

	consultation, err := uc.ConsultationRepository.FindByID(ctx, consultationID)
	if err != nil {
		return nil, err
	}
	if consultation == nil {
		return nil, exceptions.ErrConsultationNotFound(nil)
	}
	if consultation.PatientID != session.UserID {
		return nil, exceptions.ErrForbidden(constvars.ErrClientOnlyPatientCanReview)
	}
	if consultation.Status != models.StatusCompleted {
		return nil, exceptions.ErrStateConflict(constvars.ErrClientReviewNotCompleted)
	}

	duplicate, err := uc.ReviewRepository.Insert(ctx, &models.ConsultationReview{
		ConsultationID: consultation.ID,
		PatientID:      consultation.PatientID,
		PharmacistID:   consultation.PharmacistID,
		Rating:         request.Rating,
		Text:           request.Comment,
	})
	if err != nil {
		return nil, err
	}
	if duplicate {
		return nil, exceptions.ErrAlreadyReviewed(nil)
	}

	mirrored, err := uc.ConsultationRepository.SetReview(ctx, consultation.ID, &models.Review{
		Rating:     request.Rating,
		Text:       request.Comment,
		ReviewedAt: time.Now().UTC(),
	})
	if err != nil {
		return nil, err
	}
	if !mirrored {
		uc.Log.Warn("reviewUsecase.SubmitReview review stored but mirror write did not apply",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingConsultationIDKey, consultation.ID),
		)
	}

	return &responses.SubmitReview{
		ConsultationID: consultation.ID,
		Rating:         request.Rating,
		Comment:        request.Comment,
	}, nil
}
