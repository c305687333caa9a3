package calltoken

import (
	"pharmacare-service/internal/app/config"
	"pharmacare-service/internal/app/contracts"
	"pharmacare-service/internal/pkg/constvars"
	"pharmacare-service/internal/pkg/exceptions"
	"time"

	rtctokenbuilder "github.com/AgoraIO-Community/go-tokenbuilder/rtctokenbuilder"
)

type agoraService struct {
	appID          string
	appCertificate string
}

func NewAgoraService(cfg config.AppAgora) contracts.CallTokenService {
	return &agoraService{
		appID:          cfg.AppID,
		appCertificate: cfg.AppCertificate,
	}
}

func (s *agoraService) BuildRTCToken(channelName string, uid uint32) (string, int64, error) {
	expiresAt := time.Now().UTC().Add(constvars.CallTokenTTL)

	// The builder wants an absolute Unix timestamp, not a TTL.
	token, err := rtctokenbuilder.BuildTokenWithUID(
		s.appID,
		s.appCertificate,
		channelName,
		uid,
		rtctokenbuilder.RolePublisher,
		uint32(expiresAt.Unix()),
	)
	if err != nil {
		return "", 0, exceptions.ErrCallTokenBuild(err)
	}

	return token, expiresAt.Unix(), nil
}
