package consultations

import (
	"context"
	"pharmacare-service/internal/app/contracts"
	"pharmacare-service/internal/app/models"
	"pharmacare-service/internal/pkg/constvars"
	"pharmacare-service/internal/pkg/dto/responses"
	"pharmacare-service/internal/pkg/exceptions"

	"go.uber.org/zap"
)

type lifecycleUsecase struct {
	ConsultationRepository contracts.ConsultationRepository
	PharmacistRepository   contracts.PharmacistRepository
	NotificationService    contracts.NotificationService
	Log                    *zap.Logger
}

func NewLifecycleUsecase(
	consultationRepository contracts.ConsultationRepository,
	pharmacistRepository contracts.PharmacistRepository,
	notificationService contracts.NotificationService,
	logger *zap.Logger,
) contracts.LifecycleUsecase {
	return &lifecycleUsecase{
		ConsultationRepository: consultationRepository,
		PharmacistRepository:   pharmacistRepository,
		NotificationService:    notificationService,
		Log:                    logger,
	}
}

// ConfirmConsultation lets the assigned pharmacist confirm a booking whose
// payment has at least been authorized. The capture path confirms on its own;
// this covers gateways that hold at authorized until manual capture.
func (uc *lifecycleUsecase) ConfirmConsultation(ctx context.Context, session *models.Session, consultationID string) (*responses.ConsultationDetail, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("lifecycleUsecase.ConfirmConsultation called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingConsultationIDKey, consultationID),
	)

	consultation, err := uc.findForPharmacist(ctx, session, consultationID)
	if err != nil {
		return nil, err
	}

	consultation, transitioned, err := uc.ConsultationRepository.MarkConfirmed(ctx, consultation.ID)
	if err != nil {
		return nil, err
	}
	if !transitioned {
		return nil, exceptions.ErrStateConflict(constvars.ErrClientNotConfirmableState)
	}

	uc.publishEvent(ctx, constvars.NotificationEventConfirmed, consultation)
	return responses.NewConsultationDetail(consultation), nil
}

func (uc *lifecycleUsecase) CompleteConsultation(ctx context.Context, session *models.Session, consultationID string) (*responses.ConsultationDetail, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("lifecycleUsecase.CompleteConsultation called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingConsultationIDKey, consultationID),
	)

	consultation, err := uc.findForPharmacist(ctx, session, consultationID)
	if err != nil {
		return nil, err
	}

	consultation, transitioned, err := uc.ConsultationRepository.MarkCompleted(ctx, consultation.ID)
	if err != nil {
		return nil, err
	}
	if !transitioned {
		return nil, exceptions.ErrStateConflict(constvars.ErrClientNotCompletableState)
	}

	return responses.NewConsultationDetail(consultation), nil
}

// findForPharmacist loads the consultation and requires the caller to be its
// assigned pharmacist.
func (uc *lifecycleUsecase) findForPharmacist(ctx context.Context, session *models.Session, consultationID string) (*models.Consultation, error) {
	consultation, err := uc.ConsultationRepository.FindByID(ctx, consultationID)
	if err != nil {
		return nil, err
	}
	if consultation == nil {
		return nil, exceptions.ErrConsultationNotFound(nil)
	}

	pharmacist, err := uc.PharmacistRepository.FindByUserID(ctx, session.UserID)
	if err != nil {
		return nil, err
	}
	if pharmacist == nil || pharmacist.ID != consultation.PharmacistID {
		return nil, exceptions.ErrForbidden(constvars.ErrClientOnlyPharmacist)
	}
	return consultation, nil
}

func (uc *lifecycleUsecase) publishEvent(ctx context.Context, event string, consultation *models.Consultation) {
	if err := uc.NotificationService.PublishConsultationEvent(ctx, event, consultation); err != nil {
		requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
		uc.Log.Error("lifecycleUsecase.publishEvent error publishing notification",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingEventKey, event),
			zap.String(constvars.LoggingConsultationIDKey, consultation.ID),
			zap.Error(err),
		)
	}
}
