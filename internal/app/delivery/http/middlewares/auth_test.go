package middlewares

import (
	"context"
	"net/http"
	"net/http/httptest"
	"pharmacare-service/internal/app/config"
	"pharmacare-service/internal/app/models"
	"pharmacare-service/internal/pkg/constvars"
	"pharmacare-service/internal/pkg/exceptions"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type sessionServiceFake struct {
	sessions map[string]*models.Session
}

func (f *sessionServiceFake) GetSessionData(ctx context.Context, sessionID string) (*models.Session, error) {
	session, ok := f.sessions[sessionID]
	if !ok {
		return nil, exceptions.ErrSessionNotFound(nil)
	}
	return session, nil
}

func TestAuthenticate(t *testing.T) {
	jwtSecret := "test-jwt-secret"
	middlewares := NewMiddlewares(
		zap.NewNop(),
		&sessionServiceFake{sessions: map[string]*models.Session{
			"sess-1": {SessionID: "sess-1", UserID: "user-1", Role: constvars.RolePatient},
		}},
		&config.InternalConfig{JWT: config.AppJWT{Secret: jwtSecret}},
	)

	signToken := func(sessionID, secret string) string {
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"session_id": sessionID,
			"exp":        time.Now().Add(time.Hour).Unix(),
		})
		signed, err := token.SignedString([]byte(secret))
		require.NoError(t, err)
		return signed
	}

	testHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, ok := r.Context().Value(constvars.CONTEXT_SESSION_DATA_KEY).(*models.Session)
		assert.True(t, ok, "session should be set in context")
		assert.Equal(t, "user-1", session.UserID)
		w.WriteHeader(http.StatusOK)
	})

	t.Run("valid bearer token", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/v1/consultations", nil)
		req.Header.Set(constvars.HeaderAuthorization, "Bearer "+signToken("sess-1", jwtSecret))

		rr := httptest.NewRecorder()
		middlewares.Authenticate(testHandler).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("missing header", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/v1/consultations", nil)

		rr := httptest.NewRecorder()
		middlewares.Authenticate(testHandler).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("header without bearer prefix", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/v1/consultations", nil)
		req.Header.Set(constvars.HeaderAuthorization, signToken("sess-1", jwtSecret))

		rr := httptest.NewRecorder()
		middlewares.Authenticate(testHandler).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("token signed with another secret", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/v1/consultations", nil)
		req.Header.Set(constvars.HeaderAuthorization, "Bearer "+signToken("sess-1", "other-secret"))

		rr := httptest.NewRecorder()
		middlewares.Authenticate(testHandler).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("token for an evicted session", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/v1/consultations", nil)
		req.Header.Set(constvars.HeaderAuthorization, "Bearer "+signToken("sess-gone", jwtSecret))

		rr := httptest.NewRecorder()
		middlewares.Authenticate(testHandler).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}

func TestRequestIDMiddleware(t *testing.T) {
	middlewares := NewMiddlewares(zap.NewNop(), &sessionServiceFake{}, &config.InternalConfig{})

	t.Run("generates an id when the client sends none", func(t *testing.T) {
		var seen string
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen, _ = r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
		})

		req := httptest.NewRequest("GET", "/", nil)
		rr := httptest.NewRecorder()
		middlewares.RequestIDMiddleware(handler).ServeHTTP(rr, req)

		assert.NotEmpty(t, seen)
		assert.Contains(t, seen, constvars.REQUEST_ID_PREFIX)
		assert.Equal(t, seen, rr.Header().Get(constvars.HeaderXRequestID))
	})

	t.Run("keeps the client supplied id", func(t *testing.T) {
		var seen string
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen, _ = r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
		})

		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set(constvars.HeaderXRequestID, "client-id-1")
		rr := httptest.NewRecorder()
		middlewares.RequestIDMiddleware(handler).ServeHTTP(rr, req)

		assert.Equal(t, "client-id-1", seen)
		assert.Equal(t, "client-id-1", rr.Header().Get(constvars.HeaderXRequestID))
	})
}
