package consultations

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
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type bookingUsecase struct {
	ConsultationRepository contracts.ConsultationRepository
	PharmacistRepository   contracts.PharmacistRepository
	PaymentGatewayService  contracts.PaymentGatewayService
	InternalConfig         *config.InternalConfig
	Log                    *zap.Logger
}

func NewBookingUsecase(
	consultationRepository contracts.ConsultationRepository,
	pharmacistRepository contracts.PharmacistRepository,
	paymentGatewayService contracts.PaymentGatewayService,
	internalConfig *config.InternalConfig,
	logger *zap.Logger,
) contracts.BookingUsecase {
	return &bookingUsecase{
		ConsultationRepository: consultationRepository,
		PharmacistRepository:   pharmacistRepository,
		PaymentGatewayService:  paymentGatewayService,
		InternalConfig:         internalConfig,
		Log:                    logger,
	}
}

// BookConsultation runs the insert-then-order two-phase sequence. The
// consultation row goes in first so a gateway failure leaves no order
// pointing at a record that does not exist; a gateway order without a local
// order id write-back is the one outcome that cannot be rolled back cleanly
// and is logged as an orphan.
func (uc *bookingUsecase) BookConsultation(ctx context.Context, session *models.Session, request *requests.BookConsultation) (*responses.BookConsultation, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("bookingUsecase.BookConsultation called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingUserIDKey, session.UserID),
		zap.String("pharmacist_id", request.PharmacistID),
	)

	pharmacist, err := uc.PharmacistRepository.FindByID(ctx, request.PharmacistID)
	if err != nil {
		return nil, err
	}
	if pharmacist == nil {
		return nil, exceptions.ErrPharmacistNotFound(nil)
	}
	if !pharmacist.Approved {
		return nil, exceptions.ErrPharmacistNotApproved(nil)
	}
	if !pharmacist.AcceptingClients {
		return nil, exceptions.ErrPharmacistNotAvailable(nil)
	}
	if pharmacist.UserID == session.UserID {
		return nil, exceptions.ErrCannotBookSelf()
	}

	scheduledAt := request.ScheduledAt.UTC()
	if !scheduledAt.After(time.Now().UTC()) {
		return nil, exceptions.ErrScheduleMustBeFuture()
	}

	amount := pharmacist.ConsultationFee
	platformFee := amount * uc.InternalConfig.App.PlatformFeePercent / 100
	consultation := &models.Consultation{
		PatientID:         session.UserID,
		PharmacistID:      pharmacist.ID,
		ScheduledAt:       scheduledAt,
		DurationMinutes:   request.DurationMinutes,
		Concern:           request.Concern,
		Amount:            amount,
		PlatformFee:       platformFee,
		PharmacistEarning: amount - platformFee,
		Currency:          constvars.ConsultationCurrency,
		Status:            models.StatusPendingPayment,
		PaymentStatus:     models.PaymentPending,
		AgoraChannel:      fmt.Sprintf(constvars.AgoraChannelFormat, uuid.NewString()),
	}

	consultation, err = uc.ConsultationRepository.Insert(ctx, consultation)
	if err != nil {
		return nil, err
	}

	order, err := uc.PaymentGatewayService.CreateOrder(ctx, consultation.Amount, consultation.Currency, utils.GenerateReceiptID(consultation.ID))
	if err != nil {
		uc.rollbackBooking(ctx, consultation.ID)
		return nil, err
	}

	if err := uc.ConsultationRepository.SetGatewayOrder(ctx, consultation.ID, order.ID); err != nil {
		uc.Log.Error(constvars.ErrDevOrphanGatewayOrder,
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingConsultationIDKey, consultation.ID),
			zap.String(constvars.LoggingOrderIDKey, order.ID),
			zap.Error(err),
		)
		uc.rollbackBooking(ctx, consultation.ID)
		return nil, err
	}

	return &responses.BookConsultation{
		ConsultationID:  consultation.ID,
		RazorpayOrderID: order.ID,
		RazorpayKeyID:   uc.InternalConfig.Razorpay.KeyID,
		Amount:          consultation.Amount,
		Currency:        consultation.Currency,
		PharmacistName:  pharmacist.FullName,
		ScheduledAt:     consultation.ScheduledAt,
		Status:          string(consultation.Status),
	}, nil
}

func (uc *bookingUsecase) rollbackBooking(ctx context.Context, consultationID string) {
	if err := uc.ConsultationRepository.Delete(ctx, consultationID); err != nil {
		requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
		uc.Log.Error(constvars.ErrDevBookingRollbackFailed,
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingConsultationIDKey, consultationID),
			zap.Error(err),
		)
	}
}

func (uc *bookingUsecase) GetConsultation(ctx context.Context, session *models.Session, consultationID string) (*responses.ConsultationDetail, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("bookingUsecase.GetConsultation called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingConsultationIDKey, consultationID),
	)

	consultation, err := uc.ConsultationRepository.FindByID(ctx, consultationID)
	if err != nil {
		return nil, err
	}
	if consultation == nil {
		return nil, exceptions.ErrConsultationNotFound(nil)
	}
	if !uc.isParticipant(ctx, consultation, session) {
		return nil, exceptions.ErrNotParticipant(nil)
	}

	return responses.NewConsultationDetail(consultation), nil
}

func (uc *bookingUsecase) ListConsultations(ctx context.Context, session *models.Session, page, pageSize int) ([]responses.ConsultationDetail, int, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("bookingUsecase.ListConsultations called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingUserIDKey, session.UserID),
		zap.Int(constvars.LoggingPageKey, page),
		zap.Int(constvars.LoggingPageSizeKey, pageSize),
	)

	participantID := uc.participantID(ctx, session)
	consultations, total, err := uc.ConsultationRepository.FindByParticipant(ctx, participantID, page, pageSize)
	if err != nil {
		return nil, 0, err
	}

	details := make([]responses.ConsultationDetail, 0, len(consultations))
	for i := range consultations {
		details = append(details, *responses.NewConsultationDetail(&consultations[i]))
	}
	return details, total, nil
}

// participantID resolves the id a consultation references for this user: the
// user id itself for patients, the pharmacist profile id for pharmacists.
func (uc *bookingUsecase) participantID(ctx context.Context, session *models.Session) string {
	if session.Role != constvars.RolePharmacist {
		return session.UserID
	}
	pharmacist, err := uc.PharmacistRepository.FindByUserID(ctx, session.UserID)
	if err != nil || pharmacist == nil {
		return session.UserID
	}
	return pharmacist.ID
}

func (uc *bookingUsecase) isParticipant(ctx context.Context, consultation *models.Consultation, session *models.Session) bool {
	return consultation.IsParticipant(uc.participantID(ctx, session))
}
