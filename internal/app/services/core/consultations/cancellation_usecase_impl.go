package consultations

import (
	"context"
	"pharmacare-service/internal/app/contracts"
	"pharmacare-service/internal/app/models"
	"pharmacare-service/internal/pkg/constvars"
	"pharmacare-service/internal/pkg/dto/requests"
	"pharmacare-service/internal/pkg/dto/responses"
	"pharmacare-service/internal/pkg/exceptions"

	"go.uber.org/zap"
)

type cancellationUsecase struct {
	ConsultationRepository contracts.ConsultationRepository
	PharmacistRepository   contracts.PharmacistRepository
	PaymentGatewayService  contracts.PaymentGatewayService
	NotificationService    contracts.NotificationService
	Log                    *zap.Logger
}

func NewCancellationUsecase(
	consultationRepository contracts.ConsultationRepository,
	pharmacistRepository contracts.PharmacistRepository,
	paymentGatewayService contracts.PaymentGatewayService,
	notificationService contracts.NotificationService,
	logger *zap.Logger,
) contracts.CancellationUsecase {
	return &cancellationUsecase{
		ConsultationRepository: consultationRepository,
		PharmacistRepository:   pharmacistRepository,
		PaymentGatewayService:  paymentGatewayService,
		NotificationService:    notificationService,
		Log:                    logger,
	}
}

// CancelConsultation refunds before it cancels. When the refund call fails
// the consultation is left untouched and the error tells the caller their
// booking is still active; the refund is never retried automatically because
// a blind retry risks refunding twice.
func (uc *cancellationUsecase) CancelConsultation(ctx context.Context, session *models.Session, consultationID string, request *requests.CancelConsultation) (*responses.CancelConsultation, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("cancellationUsecase.CancelConsultation called",
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

	cancelledBy, err := uc.resolveParticipantRole(ctx, consultation, session)
	if err != nil {
		return nil, err
	}

	if consultation.Status.IsTerminal() {
		return nil, exceptions.ErrStateConflict(constvars.ErrClientAlreadyFinished)
	}

	refundID := ""
	if consultation.PaymentStatus == models.PaymentCaptured {
		refund, err := uc.PaymentGatewayService.CreateRefund(ctx, consultation.RazorpayPaymentID, consultation.Amount)
		if err != nil {
			uc.Log.Error("cancellationUsecase.CancelConsultation refund failed, consultation left unchanged",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.String(constvars.LoggingConsultationIDKey, consultation.ID),
				zap.String(constvars.LoggingPaymentIDKey, consultation.RazorpayPaymentID),
				zap.Error(err),
			)
			return nil, err
		}
		refundID = refund.ID
	}

	consultation, transitioned, err := uc.ConsultationRepository.MarkCancelled(ctx, consultation.ID, cancelledBy, request.Reason, refundID)
	if err != nil {
		return nil, err
	}
	if !transitioned {
		if refundID != "" {
			// Money moved but the terminal write lost a race. This needs a
			// human: the refund id is in the log for reconciliation.
			uc.Log.Error("cancellationUsecase.CancelConsultation refund succeeded but state write did not transition",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.String(constvars.LoggingConsultationIDKey, consultationID),
				zap.String("razorpay_refund_id", refundID),
			)
		}
		return nil, exceptions.ErrStateConflict(constvars.ErrClientAlreadyFinished)
	}

	event := constvars.NotificationEventCancelled
	if refundID != "" {
		event = constvars.NotificationEventRefunded
	}
	if err := uc.NotificationService.PublishConsultationEvent(ctx, event, consultation); err != nil {
		uc.Log.Error("cancellationUsecase.CancelConsultation error publishing notification",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingEventKey, event),
			zap.Error(err),
		)
	}

	return &responses.CancelConsultation{
		ConsultationID:   consultation.ID,
		Status:           string(consultation.Status),
		PaymentStatus:    string(consultation.PaymentStatus),
		RazorpayRefundID: consultation.RazorpayRefundID,
	}, nil
}

func (uc *cancellationUsecase) resolveParticipantRole(ctx context.Context, consultation *models.Consultation, session *models.Session) (string, error) {
	if consultation.PatientID == session.UserID {
		return constvars.RolePatient, nil
	}

	pharmacist, err := uc.PharmacistRepository.FindByUserID(ctx, session.UserID)
	if err != nil {
		return "", err
	}
	if pharmacist != nil && pharmacist.ID == consultation.PharmacistID {
		return constvars.RolePharmacist, nil
	}
	return "", exceptions.ErrNotParticipant(nil)
}
