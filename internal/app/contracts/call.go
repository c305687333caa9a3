package contracts

import (
	"context"
	"pharmacare-service/internal/app/models"
	"pharmacare-service/internal/pkg/dto/responses"
)

type CallUsecase interface {
	JoinCall(ctx context.Context, session *models.Session, consultationID string) (*responses.JoinCall, error)
}

// CallTokenService builds RTC tokens for a consultation's channel.
type CallTokenService interface {
	BuildRTCToken(channelName string, uid uint32) (token string, expiresAt int64, err error)
}
