package session

import (
	"context"
	"fmt"
	"pharmacare-service/internal/app/contracts"
	"pharmacare-service/internal/app/models"
	"pharmacare-service/internal/pkg/constvars"
	"pharmacare-service/internal/pkg/exceptions"

	"github.com/goccy/go-json"
)

type sessionService struct {
	redisRepo contracts.RedisRepository
}

func NewSessionService(redisRepo contracts.RedisRepository) contracts.SessionService {
	return &sessionService{redisRepo: redisRepo}
}

func (s *sessionService) GetSessionData(ctx context.Context, sessionID string) (*models.Session, error) {
	key := fmt.Sprintf(constvars.SessionKeyFormat, sessionID)
	data, err := s.redisRepo.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if data == "" {
		return nil, exceptions.ErrSessionNotFound(nil)
	}

	session := new(models.Session)
	if err := json.Unmarshal([]byte(data), session); err != nil {
		return nil, exceptions.ErrCannotParseJSON(err)
	}
	return session, nil
}
