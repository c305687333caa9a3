package payments

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"pharmacare-service/internal/app/config"
	"pharmacare-service/internal/app/contracts"
	"pharmacare-service/internal/app/models"
	"pharmacare-service/internal/pkg/constvars"
	"pharmacare-service/internal/pkg/dto/requests"
	"pharmacare-service/internal/pkg/dto/responses"
	"pharmacare-service/internal/pkg/exceptions"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const (
	testWebhookSecret = "whsec_test"
	testKeySecret     = "key_secret_test"
)

// consultationRepoFake mirrors the conditional-transition semantics of the
// Mongo repository on a single in-memory consultation, and counts how many
// capture transitions actually applied.
type consultationRepoFake struct {
	consultation *models.Consultation
	captureCount int
}

func (f *consultationRepoFake) Insert(ctx context.Context, c *models.Consultation) (*models.Consultation, error) {
	f.consultation = c
	return c, nil
}

func (f *consultationRepoFake) Delete(ctx context.Context, id string) error {
	f.consultation = nil
	return nil
}

func (f *consultationRepoFake) FindByID(ctx context.Context, id string) (*models.Consultation, error) {
	if f.consultation == nil || f.consultation.ID != id {
		return nil, nil
	}
	copied := *f.consultation
	return &copied, nil
}

func (f *consultationRepoFake) FindByOrderID(ctx context.Context, orderID string) (*models.Consultation, error) {
	if f.consultation == nil || f.consultation.RazorpayOrderID != orderID {
		return nil, nil
	}
	copied := *f.consultation
	return &copied, nil
}

func (f *consultationRepoFake) FindByParticipant(ctx context.Context, userID string, page, pageSize int) ([]models.Consultation, int, error) {
	return nil, 0, nil
}

func (f *consultationRepoFake) SetGatewayOrder(ctx context.Context, id, orderID string) error {
	f.consultation.RazorpayOrderID = orderID
	return nil
}

func (f *consultationRepoFake) MarkCaptured(ctx context.Context, orderID, paymentID, signature string) (*models.Consultation, bool, error) {
	c := f.consultation
	if c == nil || c.RazorpayOrderID != orderID {
		return nil, false, nil
	}
	if c.Status != models.StatusPendingPayment {
		return nil, false, nil
	}
	switch c.PaymentStatus {
	case models.PaymentPending, models.PaymentAuthorized, models.PaymentFailed:
	default:
		return nil, false, nil
	}
	c.Status = models.StatusConfirmed
	c.PaymentStatus = models.PaymentCaptured
	c.RazorpayPaymentID = paymentID
	if signature != "" {
		c.RazorpaySignature = signature
	}
	f.captureCount++
	copied := *c
	return &copied, true, nil
}

func (f *consultationRepoFake) MarkAuthorized(ctx context.Context, orderID, paymentID string) (bool, error) {
	c := f.consultation
	if c == nil || c.RazorpayOrderID != orderID {
		return false, nil
	}
	if c.Status != models.StatusPendingPayment {
		return false, nil
	}
	if c.PaymentStatus != models.PaymentPending && c.PaymentStatus != models.PaymentFailed {
		return false, nil
	}
	c.PaymentStatus = models.PaymentAuthorized
	c.RazorpayPaymentID = paymentID
	return true, nil
}

func (f *consultationRepoFake) MarkPaymentFailed(ctx context.Context, orderID string) (bool, error) {
	c := f.consultation
	if c == nil || c.RazorpayOrderID != orderID {
		return false, nil
	}
	if c.PaymentStatus != models.PaymentPending && c.PaymentStatus != models.PaymentAuthorized {
		return false, nil
	}
	c.PaymentStatus = models.PaymentFailed
	return true, nil
}

func (f *consultationRepoFake) MarkConfirmed(ctx context.Context, id string) (*models.Consultation, bool, error) {
	return nil, false, nil
}

func (f *consultationRepoFake) MarkInProgress(ctx context.Context, id string) (bool, error) {
	return false, nil
}

func (f *consultationRepoFake) MarkCompleted(ctx context.Context, id string) (*models.Consultation, bool, error) {
	return nil, false, nil
}

func (f *consultationRepoFake) MarkCancelled(ctx context.Context, id, cancelledBy, reason, refundID string) (*models.Consultation, bool, error) {
	return nil, false, nil
}

func (f *consultationRepoFake) SetReview(ctx context.Context, id string, review *models.Review) (bool, error) {
	return false, nil
}

type gatewayFake struct {
	payment *responses.GatewayPayment
}

func (f *gatewayFake) CreateOrder(ctx context.Context, amount int64, currency, receipt string) (*responses.GatewayOrder, error) {
	return nil, nil
}

func (f *gatewayFake) FetchPayment(ctx context.Context, paymentID string) (*responses.GatewayPayment, error) {
	return f.payment, nil
}

func (f *gatewayFake) CreateRefund(ctx context.Context, paymentID string, amount int64) (*responses.GatewayRefund, error) {
	return nil, nil
}

type notificationFake struct {
	events []string
}

func (f *notificationFake) PublishConsultationEvent(ctx context.Context, event string, consultation *models.Consultation) error {
	f.events = append(f.events, event)
	return nil
}

type lockerFake struct{}

func (f *lockerFake) TryLock(ctx context.Context, key string, expiration time.Duration) (bool, string, error) {
	return true, "lock-value", nil
}

func (f *lockerFake) Unlock(ctx context.Context, key, lockValue string) error {
	return nil
}

func signBody(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func signCheckout(secret, orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

func pendingConsultation() *models.Consultation {
	return &models.Consultation{
		ID:              "cons-1",
		PatientID:       "user-patient",
		PharmacistID:    "pharm-1",
		ScheduledAt:     time.Now().Add(24 * time.Hour).UTC(),
		DurationMinutes: 30,
		Amount:          299,
		Currency:        constvars.ConsultationCurrency,
		Status:          models.StatusPendingPayment,
		PaymentStatus:   models.PaymentPending,
		RazorpayOrderID: "order_A1",
	}
}

func newTestUsecase(repo contracts.ConsultationRepository, gateway contracts.PaymentGatewayService, notifier contracts.NotificationService) contracts.PaymentUsecase {
	cfg := &config.InternalConfig{
		Razorpay: config.AppRazorpay{
			KeySecret:     testKeySecret,
			WebhookSecret: testWebhookSecret,
		},
	}
	return NewPaymentUsecase(repo, gateway, notifier, &lockerFake{}, cfg, zap.NewNop())
}

func capturedWebhookBody(orderID, paymentID string) []byte {
	return []byte(fmt.Sprintf(
		`{"event":"payment.captured","payload":{"payment":{"entity":{"id":%q,"order_id":%q,"amount":29900,"status":"captured"}}}}`,
		paymentID, orderID,
	))
}

func authorizedWebhookBody(orderID, paymentID string) []byte {
	return []byte(fmt.Sprintf(
		`{"event":"payment.authorized","payload":{"payment":{"entity":{"id":%q,"order_id":%q,"amount":29900,"status":"authorized"}}}}`,
		paymentID, orderID,
	))
}

func TestHandleWebhook_Capture(t *testing.T) {
	t.Run("capture confirms consultation", func(t *testing.T) {
		repo := &consultationRepoFake{consultation: pendingConsultation()}
		notifier := &notificationFake{}
		uc := newTestUsecase(repo, &gatewayFake{}, notifier)

		body := capturedWebhookBody("order_A1", "pay_B1")
		err := uc.HandleWebhook(context.Background(), body, signBody(testWebhookSecret, body))

		require.NoError(t, err)
		assert.Equal(t, models.StatusConfirmed, repo.consultation.Status)
		assert.Equal(t, models.PaymentCaptured, repo.consultation.PaymentStatus)
		assert.Equal(t, "pay_B1", repo.consultation.RazorpayPaymentID)
		assert.Equal(t, []string{constvars.NotificationEventConfirmed}, notifier.events)
	})

	t.Run("second delivery is a no-op", func(t *testing.T) {
		repo := &consultationRepoFake{consultation: pendingConsultation()}
		uc := newTestUsecase(repo, &gatewayFake{}, &notificationFake{})

		body := capturedWebhookBody("order_A1", "pay_B1")
		signature := signBody(testWebhookSecret, body)

		require.NoError(t, uc.HandleWebhook(context.Background(), body, signature))
		require.NoError(t, uc.HandleWebhook(context.Background(), body, signature))

		assert.Equal(t, 1, repo.captureCount, "only the first delivery should transition state")
		assert.Equal(t, models.PaymentCaptured, repo.consultation.PaymentStatus)
	})

	t.Run("tampered body is rejected before any state change", func(t *testing.T) {
		repo := &consultationRepoFake{consultation: pendingConsultation()}
		uc := newTestUsecase(repo, &gatewayFake{}, &notificationFake{})

		body := capturedWebhookBody("order_A1", "pay_B1")
		signature := signBody(testWebhookSecret, body)
		tampered := capturedWebhookBody("order_A1", "pay_EVIL")

		err := uc.HandleWebhook(context.Background(), tampered, signature)

		var customErr *exceptions.CustomError
		require.ErrorAs(t, err, &customErr)
		assert.Equal(t, constvars.StatusBadRequest, customErr.StatusCode)
		assert.Equal(t, 0, repo.captureCount)
		assert.Equal(t, models.StatusPendingPayment, repo.consultation.Status)
	})

	t.Run("unknown order returns not found for redelivery", func(t *testing.T) {
		repo := &consultationRepoFake{consultation: pendingConsultation()}
		uc := newTestUsecase(repo, &gatewayFake{}, &notificationFake{})

		body := capturedWebhookBody("order_UNKNOWN", "pay_B1")
		err := uc.HandleWebhook(context.Background(), body, signBody(testWebhookSecret, body))

		var customErr *exceptions.CustomError
		require.ErrorAs(t, err, &customErr)
		assert.Equal(t, constvars.StatusNotFound, customErr.StatusCode)
	})

	t.Run("unknown event type is acknowledged", func(t *testing.T) {
		repo := &consultationRepoFake{consultation: pendingConsultation()}
		uc := newTestUsecase(repo, &gatewayFake{}, &notificationFake{})

		body := []byte(`{"event":"order.paid","payload":{"payment":{"entity":{"id":"pay_B1","order_id":"order_A1"}}}}`)
		err := uc.HandleWebhook(context.Background(), body, signBody(testWebhookSecret, body))

		require.NoError(t, err)
		assert.Equal(t, models.StatusPendingPayment, repo.consultation.Status)
	})
}

func TestHandleWebhook_Authorized(t *testing.T) {
	t.Run("authorization records the hold and the payment id", func(t *testing.T) {
		repo := &consultationRepoFake{consultation: pendingConsultation()}
		uc := newTestUsecase(repo, &gatewayFake{}, &notificationFake{})

		body := authorizedWebhookBody("order_A1", "pay_B1")
		err := uc.HandleWebhook(context.Background(), body, signBody(testWebhookSecret, body))

		require.NoError(t, err)
		assert.Equal(t, models.StatusPendingPayment, repo.consultation.Status, "an authorized hold is not yet a confirmed booking")
		assert.Equal(t, models.PaymentAuthorized, repo.consultation.PaymentStatus)
		assert.Equal(t, "pay_B1", repo.consultation.RazorpayPaymentID)
	})

	t.Run("authorization then capture settles the payment", func(t *testing.T) {
		repo := &consultationRepoFake{consultation: pendingConsultation()}
		uc := newTestUsecase(repo, &gatewayFake{}, &notificationFake{})

		authBody := authorizedWebhookBody("order_A1", "pay_B1")
		require.NoError(t, uc.HandleWebhook(context.Background(), authBody, signBody(testWebhookSecret, authBody)))

		captureBody := capturedWebhookBody("order_A1", "pay_B1")
		require.NoError(t, uc.HandleWebhook(context.Background(), captureBody, signBody(testWebhookSecret, captureBody)))

		assert.Equal(t, models.StatusConfirmed, repo.consultation.Status)
		assert.Equal(t, models.PaymentCaptured, repo.consultation.PaymentStatus)
	})

	t.Run("late authorization never regresses a captured payment", func(t *testing.T) {
		repo := &consultationRepoFake{consultation: pendingConsultation()}
		uc := newTestUsecase(repo, &gatewayFake{}, &notificationFake{})

		captureBody := capturedWebhookBody("order_A1", "pay_B1")
		require.NoError(t, uc.HandleWebhook(context.Background(), captureBody, signBody(testWebhookSecret, captureBody)))

		authBody := authorizedWebhookBody("order_A1", "pay_B1")
		require.NoError(t, uc.HandleWebhook(context.Background(), authBody, signBody(testWebhookSecret, authBody)))

		assert.Equal(t, models.PaymentCaptured, repo.consultation.PaymentStatus)
		assert.Equal(t, models.StatusConfirmed, repo.consultation.Status)
	})

	t.Run("unknown order returns not found for redelivery", func(t *testing.T) {
		repo := &consultationRepoFake{consultation: pendingConsultation()}
		uc := newTestUsecase(repo, &gatewayFake{}, &notificationFake{})

		body := authorizedWebhookBody("order_UNKNOWN", "pay_B1")
		err := uc.HandleWebhook(context.Background(), body, signBody(testWebhookSecret, body))

		var customErr *exceptions.CustomError
		require.ErrorAs(t, err, &customErr)
		assert.Equal(t, constvars.StatusNotFound, customErr.StatusCode)
	})
}

func TestHandleWebhook_Failure(t *testing.T) {
	t.Run("failure keeps consultation bookable", func(t *testing.T) {
		repo := &consultationRepoFake{consultation: pendingConsultation()}
		uc := newTestUsecase(repo, &gatewayFake{}, &notificationFake{})

		body := []byte(`{"event":"payment.failed","payload":{"payment":{"entity":{"id":"pay_B1","order_id":"order_A1","status":"failed"}}}}`)
		err := uc.HandleWebhook(context.Background(), body, signBody(testWebhookSecret, body))

		require.NoError(t, err)
		assert.Equal(t, models.StatusPendingPayment, repo.consultation.Status, "a failed charge must not consume the booking")
		assert.Equal(t, models.PaymentFailed, repo.consultation.PaymentStatus)
	})

	t.Run("late failure never regresses a captured payment", func(t *testing.T) {
		repo := &consultationRepoFake{consultation: pendingConsultation()}
		uc := newTestUsecase(repo, &gatewayFake{}, &notificationFake{})

		captureBody := capturedWebhookBody("order_A1", "pay_B1")
		require.NoError(t, uc.HandleWebhook(context.Background(), captureBody, signBody(testWebhookSecret, captureBody)))

		failureBody := []byte(`{"event":"payment.failed","payload":{"payment":{"entity":{"id":"pay_B1","order_id":"order_A1","status":"failed"}}}}`)
		err := uc.HandleWebhook(context.Background(), failureBody, signBody(testWebhookSecret, failureBody))

		require.NoError(t, err)
		assert.Equal(t, models.PaymentCaptured, repo.consultation.PaymentStatus)
		assert.Equal(t, models.StatusConfirmed, repo.consultation.Status)
	})

	t.Run("failed payment can be captured on retry", func(t *testing.T) {
		repo := &consultationRepoFake{consultation: pendingConsultation()}
		uc := newTestUsecase(repo, &gatewayFake{}, &notificationFake{})

		failureBody := []byte(`{"event":"payment.failed","payload":{"payment":{"entity":{"id":"pay_B1","order_id":"order_A1","status":"failed"}}}}`)
		require.NoError(t, uc.HandleWebhook(context.Background(), failureBody, signBody(testWebhookSecret, failureBody)))

		captureBody := capturedWebhookBody("order_A1", "pay_B2")
		require.NoError(t, uc.HandleWebhook(context.Background(), captureBody, signBody(testWebhookSecret, captureBody)))

		assert.Equal(t, models.PaymentCaptured, repo.consultation.PaymentStatus)
		assert.Equal(t, "pay_B2", repo.consultation.RazorpayPaymentID)
	})
}

func TestVerifyPayment(t *testing.T) {
	patientSession := &models.Session{SessionID: "sess-1", UserID: "user-patient", Role: constvars.RolePatient}

	validRequest := func() *requests.VerifyPayment {
		return &requests.VerifyPayment{
			RazorpayOrderID:   "order_A1",
			RazorpayPaymentID: "pay_B1",
			RazorpaySignature: signCheckout(testKeySecret, "order_A1", "pay_B1"),
		}
	}
	capturedPayment := &responses.GatewayPayment{
		ID:      "pay_B1",
		OrderID: "order_A1",
		Amount:  299,
		Status:  constvars.RazorpayPaymentStatusCaptured,
	}

	t.Run("valid verification captures and confirms", func(t *testing.T) {
		repo := &consultationRepoFake{consultation: pendingConsultation()}
		uc := newTestUsecase(repo, &gatewayFake{payment: capturedPayment}, &notificationFake{})

		response, err := uc.VerifyPayment(context.Background(), patientSession, "cons-1", validRequest())

		require.NoError(t, err)
		assert.Equal(t, string(models.StatusConfirmed), response.Status)
		assert.Equal(t, string(models.PaymentCaptured), response.PaymentStatus)
	})

	t.Run("verify after webhook converges without double transition", func(t *testing.T) {
		repo := &consultationRepoFake{consultation: pendingConsultation()}
		uc := newTestUsecase(repo, &gatewayFake{payment: capturedPayment}, &notificationFake{})

		body := capturedWebhookBody("order_A1", "pay_B1")
		require.NoError(t, uc.HandleWebhook(context.Background(), body, signBody(testWebhookSecret, body)))

		response, err := uc.VerifyPayment(context.Background(), patientSession, "cons-1", validRequest())

		require.NoError(t, err)
		assert.Equal(t, string(models.StatusConfirmed), response.Status)
		assert.Equal(t, 1, repo.captureCount)
	})

	t.Run("webhook after verify converges without double transition", func(t *testing.T) {
		repo := &consultationRepoFake{consultation: pendingConsultation()}
		uc := newTestUsecase(repo, &gatewayFake{payment: capturedPayment}, &notificationFake{})

		_, err := uc.VerifyPayment(context.Background(), patientSession, "cons-1", validRequest())
		require.NoError(t, err)

		body := capturedWebhookBody("order_A1", "pay_B1")
		require.NoError(t, uc.HandleWebhook(context.Background(), body, signBody(testWebhookSecret, body)))

		assert.Equal(t, 1, repo.captureCount)
	})

	t.Run("forged signature is rejected", func(t *testing.T) {
		repo := &consultationRepoFake{consultation: pendingConsultation()}
		uc := newTestUsecase(repo, &gatewayFake{payment: capturedPayment}, &notificationFake{})

		request := validRequest()
		request.RazorpaySignature = "deadbeef"
		_, err := uc.VerifyPayment(context.Background(), patientSession, "cons-1", request)

		var customErr *exceptions.CustomError
		require.ErrorAs(t, err, &customErr)
		assert.Equal(t, constvars.StatusBadRequest, customErr.StatusCode)
		assert.Equal(t, models.StatusPendingPayment, repo.consultation.Status)
	})

	t.Run("valid signature from another order is rejected", func(t *testing.T) {
		repo := &consultationRepoFake{consultation: pendingConsultation()}
		uc := newTestUsecase(repo, &gatewayFake{payment: capturedPayment}, &notificationFake{})

		request := &requests.VerifyPayment{
			RazorpayOrderID:   "order_OTHER",
			RazorpayPaymentID: "pay_OTHER",
			RazorpaySignature: signCheckout(testKeySecret, "order_OTHER", "pay_OTHER"),
		}
		_, err := uc.VerifyPayment(context.Background(), patientSession, "cons-1", request)

		var customErr *exceptions.CustomError
		require.ErrorAs(t, err, &customErr)
		assert.Equal(t, constvars.StatusBadRequest, customErr.StatusCode)
		assert.Equal(t, constvars.ErrClientSignatureMismatch, customErr.ClientMessage)
	})

	t.Run("payment not completed at gateway", func(t *testing.T) {
		repo := &consultationRepoFake{consultation: pendingConsultation()}
		gateway := &gatewayFake{payment: &responses.GatewayPayment{
			ID:      "pay_B1",
			OrderID: "order_A1",
			Amount:  299,
			Status:  "created",
		}}
		uc := newTestUsecase(repo, gateway, &notificationFake{})

		_, err := uc.VerifyPayment(context.Background(), patientSession, "cons-1", validRequest())

		var customErr *exceptions.CustomError
		require.ErrorAs(t, err, &customErr)
		assert.Equal(t, constvars.StatusPaymentRequired, customErr.StatusCode)
	})

	t.Run("amount mismatch is rejected", func(t *testing.T) {
		repo := &consultationRepoFake{consultation: pendingConsultation()}
		gateway := &gatewayFake{payment: &responses.GatewayPayment{
			ID:      "pay_B1",
			OrderID: "order_A1",
			Amount:  100,
			Status:  constvars.RazorpayPaymentStatusCaptured,
		}}
		uc := newTestUsecase(repo, gateway, &notificationFake{})

		_, err := uc.VerifyPayment(context.Background(), patientSession, "cons-1", validRequest())

		var customErr *exceptions.CustomError
		require.ErrorAs(t, err, &customErr)
		assert.Equal(t, constvars.StatusBadRequest, customErr.StatusCode)
		assert.Equal(t, models.StatusPendingPayment, repo.consultation.Status)
	})

	t.Run("only the patient can verify", func(t *testing.T) {
		repo := &consultationRepoFake{consultation: pendingConsultation()}
		uc := newTestUsecase(repo, &gatewayFake{payment: capturedPayment}, &notificationFake{})

		otherSession := &models.Session{SessionID: "sess-2", UserID: "user-other", Role: constvars.RolePatient}
		_, err := uc.VerifyPayment(context.Background(), otherSession, "cons-1", validRequest())

		var customErr *exceptions.CustomError
		require.ErrorAs(t, err, &customErr)
		assert.Equal(t, constvars.StatusForbidden, customErr.StatusCode)
	})
}
