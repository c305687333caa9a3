package payments

import (
	"context"
	"fmt"
	"pharmacare-service/internal/app/config"
	"pharmacare-service/internal/app/contracts"
	"pharmacare-service/internal/app/models"
	"pharmacare-service/internal/pkg/constvars"
	"pharmacare-service/internal/pkg/dto/requests"
	"pharmacare-service/internal/pkg/dto/responses"
	"pharmacare-service/internal/pkg/exceptions"
	"pharmacare-service/internal/pkg/utils"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

// paymentUsecase reconciles gateway confirmation. The webhook push and the
// client-driven verify both funnel into applyCapture, so whichever arrives
// first wins and the other observes a no-op.
type paymentUsecase struct {
	ConsultationRepository contracts.ConsultationRepository
	PaymentGatewayService  contracts.PaymentGatewayService
	NotificationService    contracts.NotificationService
	LockerService          contracts.LockerService
	InternalConfig         *config.InternalConfig
	Log                    *zap.Logger
}

func NewPaymentUsecase(
	consultationRepository contracts.ConsultationRepository,
	paymentGatewayService contracts.PaymentGatewayService,
	notificationService contracts.NotificationService,
	lockerService contracts.LockerService,
	internalConfig *config.InternalConfig,
	logger *zap.Logger,
) contracts.PaymentUsecase {
	return &paymentUsecase{
		ConsultationRepository: consultationRepository,
		PaymentGatewayService:  paymentGatewayService,
		NotificationService:    notificationService,
		LockerService:          lockerService,
		InternalConfig:         internalConfig,
		Log:                    logger,
	}
}

// HandleWebhook verifies the signature over the raw body before touching any
// state, then dispatches on event type. Unknown event types are acknowledged
// without action so the gateway does not redeliver them forever.
func (uc *paymentUsecase) HandleWebhook(ctx context.Context, rawBody []byte, signature string) error {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)

	if !utils.VerifyWebhookSignature(uc.InternalConfig.Razorpay.WebhookSecret, rawBody, signature) {
		uc.Log.Warn("paymentUsecase.HandleWebhook signature mismatch",
			zap.String(constvars.LoggingRequestIDKey, requestID),
		)
		return exceptions.ErrWebhookSignatureMismatch()
	}

	event := new(requests.RazorpayWebhookEvent)
	if err := json.Unmarshal(rawBody, event); err != nil {
		return exceptions.ErrCannotParseJSON(err)
	}

	entity := event.Payload.Payment.Entity
	uc.Log.Info("paymentUsecase.HandleWebhook called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingEventKey, event.Event),
		zap.String(constvars.LoggingOrderIDKey, entity.OrderID),
		zap.String(constvars.LoggingPaymentIDKey, entity.ID),
	)

	switch event.Event {
	case constvars.RazorpayEventPaymentAuthorized:
		return uc.applyAuthorization(ctx, entity.OrderID, entity.ID)
	case constvars.RazorpayEventPaymentCaptured:
		_, err := uc.applyCapture(ctx, entity.OrderID, entity.ID, "")
		return err
	case constvars.RazorpayEventPaymentFailed:
		return uc.applyFailure(ctx, entity.OrderID)
	default:
		uc.Log.Info("paymentUsecase.HandleWebhook ignoring event",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingEventKey, event.Event),
		)
		return nil
	}
}

func (uc *paymentUsecase) VerifyPayment(ctx context.Context, session *models.Session, consultationID string, request *requests.VerifyPayment) (*responses.VerifyPayment, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("paymentUsecase.VerifyPayment called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingConsultationIDKey, consultationID),
		zap.String(constvars.LoggingOrderIDKey, request.RazorpayOrderID),
	)

	consultation, err := uc.ConsultationRepository.FindByID(ctx, consultationID)
	if err != nil {
		return nil, err
	}
	if consultation == nil {
		return nil, exceptions.ErrConsultationNotFound(nil)
	}
	if consultation.PatientID != session.UserID {
		return nil, exceptions.ErrForbidden(constvars.ErrClientOnlyPatientCanVerify)
	}

	if !utils.VerifyCheckoutSignature(uc.InternalConfig.Razorpay.KeySecret, request.RazorpayOrderID, request.RazorpayPaymentID, request.RazorpaySignature) {
		return nil, exceptions.ErrSignatureMismatch()
	}

	// A valid signature from a different order must not confirm this
	// consultation.
	if consultation.RazorpayOrderID != request.RazorpayOrderID {
		return nil, exceptions.ErrOrderMismatch()
	}

	payment, err := uc.PaymentGatewayService.FetchPayment(ctx, request.RazorpayPaymentID)
	if err != nil {
		return nil, err
	}
	if payment.Status != constvars.RazorpayPaymentStatusCaptured && payment.Status != constvars.RazorpayPaymentStatusAuthorized {
		return nil, exceptions.ErrPaymentNotCompleted()
	}
	if payment.Amount != consultation.Amount {
		uc.Log.Warn("paymentUsecase.VerifyPayment amount mismatch",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingConsultationIDKey, consultationID),
			zap.Int64("gateway_amount", payment.Amount),
			zap.Int64("consultation_amount", consultation.Amount),
		)
		return nil, exceptions.ErrPaymentAmountMismatch()
	}

	consultation, err = uc.applyCapture(ctx, request.RazorpayOrderID, request.RazorpayPaymentID, request.RazorpaySignature)
	if err != nil {
		return nil, err
	}

	return &responses.VerifyPayment{
		ConsultationID: consultation.ID,
		Status:         string(consultation.Status),
		PaymentStatus:  string(consultation.PaymentStatus),
	}, nil
}

// applyCapture is the single capture transition both entry points share. The
// lock is best-effort only; the conditional update is what actually keeps the
// transition single-shot.
func (uc *paymentUsecase) applyCapture(ctx context.Context, orderID, paymentID, signature string) (*models.Consultation, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)

	lockKey := fmt.Sprintf(constvars.CaptureLockKeyFormat, orderID)
	acquired, lockValue, err := uc.LockerService.TryLock(ctx, lockKey, constvars.CaptureLockExpiration)
	if err != nil {
		uc.Log.Warn("paymentUsecase.applyCapture locker unavailable, relying on conditional update",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
	}
	if acquired {
		defer func() {
			if err := uc.LockerService.Unlock(ctx, lockKey, lockValue); err != nil {
				uc.Log.Warn("paymentUsecase.applyCapture error releasing lock",
					zap.String(constvars.LoggingRequestIDKey, requestID),
					zap.Error(err),
				)
			}
		}()
	}

	consultation, transitioned, err := uc.ConsultationRepository.MarkCaptured(ctx, orderID, paymentID, signature)
	if err != nil {
		return nil, err
	}

	if !transitioned {
		consultation, err = uc.ConsultationRepository.FindByOrderID(ctx, orderID)
		if err != nil {
			return nil, err
		}
		if consultation == nil {
			// Surface not-found so the gateway's retry policy redelivers
			// instead of silently dropping the event.
			return nil, exceptions.ErrWebhookOrderUnknown()
		}
		uc.Log.Info("paymentUsecase.applyCapture no-op, consultation already settled",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingOrderIDKey, orderID),
			zap.String(constvars.LoggingConsultationIDKey, consultation.ID),
		)
		return consultation, nil
	}

	uc.Log.Info("paymentUsecase.applyCapture captured payment",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingOrderIDKey, orderID),
		zap.String(constvars.LoggingConsultationIDKey, consultation.ID),
	)

	if err := uc.NotificationService.PublishConsultationEvent(ctx, constvars.NotificationEventConfirmed, consultation); err != nil {
		uc.Log.Error("paymentUsecase.applyCapture error publishing notification",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingConsultationIDKey, consultation.ID),
			zap.Error(err),
		)
	}

	return consultation, nil
}

// applyAuthorization records an authorized hold together with its payment id.
// The consultation stays pending_payment until capture or a manual confirm;
// an authorization arriving after capture degrades to a no-op.
func (uc *paymentUsecase) applyAuthorization(ctx context.Context, orderID, paymentID string) error {
	transitioned, err := uc.ConsultationRepository.MarkAuthorized(ctx, orderID, paymentID)
	if err != nil {
		return err
	}
	if transitioned {
		return nil
	}

	consultation, err := uc.ConsultationRepository.FindByOrderID(ctx, orderID)
	if err != nil {
		return err
	}
	if consultation == nil {
		return exceptions.ErrWebhookOrderUnknown()
	}
	return nil
}

// applyFailure records a failed charge without moving the consultation away
// from pending_payment, so the patient can retry on the same booking. A
// failure event arriving after capture never regresses the captured state.
func (uc *paymentUsecase) applyFailure(ctx context.Context, orderID string) error {
	transitioned, err := uc.ConsultationRepository.MarkPaymentFailed(ctx, orderID)
	if err != nil {
		return err
	}
	if transitioned {
		return nil
	}

	consultation, err := uc.ConsultationRepository.FindByOrderID(ctx, orderID)
	if err != nil {
		return err
	}
	if consultation == nil {
		return exceptions.ErrWebhookOrderUnknown()
	}
	return nil
}
