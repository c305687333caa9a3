package calls

import (
	"context"
	"pharmacare-service/internal/app/contracts"
	"pharmacare-service/internal/app/models"
	"pharmacare-service/internal/pkg/constvars"
	"pharmacare-service/internal/pkg/dto/responses"
	"pharmacare-service/internal/pkg/exceptions"
	"pharmacare-service/internal/pkg/utils"
	"time"

	"go.uber.org/zap"
)

type callUsecase struct {
	ConsultationRepository contracts.ConsultationRepository
	PharmacistRepository   contracts.PharmacistRepository
	CallTokenService       contracts.CallTokenService
	Log                    *zap.Logger

	nowUTC func() time.Time
}

func NewCallUsecase(
	consultationRepository contracts.ConsultationRepository,
	pharmacistRepository contracts.PharmacistRepository,
	callTokenService contracts.CallTokenService,
	logger *zap.Logger,
) contracts.CallUsecase {
	return &callUsecase{
		ConsultationRepository: consultationRepository,
		PharmacistRepository:   pharmacistRepository,
		CallTokenService:       callTokenService,
		Log:                    logger,
		nowUTC:                 func() time.Time { return time.Now().UTC() },
	}
}

// JoinCall gates the RTC token behind payment and time-window state. Token
// issuance never touches payment fields; the only mutation is the one-shot
// confirmed to in_progress flip on the first successful join.
func (uc *callUsecase) JoinCall(ctx context.Context, session *models.Session, consultationID string) (*responses.JoinCall, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("callUsecase.JoinCall called",
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

	uid, err := uc.resolveUID(ctx, consultation, session)
	if err != nil {
		return nil, err
	}

	if consultation.Status != models.StatusConfirmed && consultation.Status != models.StatusInProgress {
		return nil, exceptions.ErrStateConflict(constvars.ErrClientNotJoinableState)
	}
	if consultation.PaymentStatus != models.PaymentCaptured {
		return nil, exceptions.ErrCallNotPaid()
	}

	// A call already underway can always be rejoined; the window applies
	// only to the first join.
	if consultation.Status == models.StatusConfirmed {
		now := uc.nowUTC()
		windowStart, windowEnd := utils.JoinWindow(consultation.ScheduledAt, consultation.DurationMinutes)
		if now.Before(windowStart) {
			return nil, exceptions.ErrJoinTooEarly()
		}
		if now.After(windowEnd) {
			return nil, exceptions.ErrJoinTimePassed()
		}

		transitioned, err := uc.ConsultationRepository.MarkInProgress(ctx, consultation.ID)
		if err != nil {
			return nil, err
		}
		if transitioned {
			uc.Log.Info("callUsecase.JoinCall first join, consultation in progress",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.String(constvars.LoggingConsultationIDKey, consultation.ID),
			)
		}
	}

	token, expiresAt, err := uc.CallTokenService.BuildRTCToken(consultation.AgoraChannel, uid)
	if err != nil {
		return nil, err
	}

	return &responses.JoinCall{
		ConsultationID: consultation.ID,
		ChannelName:    consultation.AgoraChannel,
		UID:            uid,
		Token:          token,
		ExpiresAt:      expiresAt,
	}, nil
}

// resolveUID maps the caller onto the fixed per-role channel identity.
func (uc *callUsecase) resolveUID(ctx context.Context, consultation *models.Consultation, session *models.Session) (uint32, error) {
	if consultation.PatientID == session.UserID {
		return constvars.AgoraUIDPatient, nil
	}

	pharmacist, err := uc.PharmacistRepository.FindByUserID(ctx, session.UserID)
	if err != nil {
		return 0, err
	}
	if pharmacist != nil && pharmacist.ID == consultation.PharmacistID {
		return constvars.AgoraUIDPharmacist, nil
	}
	return 0, exceptions.ErrNotParticipant(nil)
}
