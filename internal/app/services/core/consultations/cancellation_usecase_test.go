package consultations

import (
	"context"
	"errors"
	"pharmacare-service/internal/app/models"
	"pharmacare-service/internal/pkg/constvars"
	"pharmacare-service/internal/pkg/dto/requests"
	"pharmacare-service/internal/pkg/exceptions"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func confirmedPaidConsultation() *models.Consultation {
	return &models.Consultation{
		ID:                "cons-1",
		PatientID:         "user-patient",
		PharmacistID:      "pharm-1",
		ScheduledAt:       time.Now().Add(24 * time.Hour).UTC(),
		DurationMinutes:   30,
		Amount:            299,
		Currency:          constvars.ConsultationCurrency,
		Status:            models.StatusConfirmed,
		PaymentStatus:     models.PaymentCaptured,
		RazorpayOrderID:   "order_A1",
		RazorpayPaymentID: "pay_B1",
	}
}

func TestCancelConsultation(t *testing.T) {
	patientSession := &models.Session{SessionID: "sess-1", UserID: "user-patient", Role: constvars.RolePatient}
	cancelRequest := &requests.CancelConsultation{Reason: "schedule conflict"}
	pharmRepo := &pharmacistRepoFake{pharmacists: map[string]*models.Pharmacist{"pharm-1": availablePharmacist()}}

	t.Run("captured payment is refunded in full before cancelling", func(t *testing.T) {
		repo := newMemoryConsultationRepo()
		repo.consultations["cons-1"] = confirmedPaidConsultation()
		gateway := &gatewayServiceFake{}
		notifier := &notificationServiceFake{}
		uc := NewCancellationUsecase(repo, pharmRepo, gateway, notifier, zap.NewNop())

		response, err := uc.CancelConsultation(context.Background(), patientSession, "cons-1", cancelRequest)

		require.NoError(t, err)
		assert.Equal(t, string(models.StatusRefunded), response.Status)
		assert.Equal(t, string(models.PaymentRefunded), response.PaymentStatus)
		assert.Equal(t, "rfnd_1", response.RazorpayRefundID)
		assert.Equal(t, int64(299), gateway.lastRefund, "refund must cover the full amount")
		assert.Equal(t, []string{constvars.NotificationEventRefunded}, notifier.events)

		stored := repo.consultations["cons-1"]
		assert.Equal(t, constvars.RolePatient, stored.CancelledBy)
		assert.Equal(t, "schedule conflict", stored.CancellationReason)
	})

	t.Run("refund failure leaves the consultation untouched", func(t *testing.T) {
		repo := newMemoryConsultationRepo()
		repo.consultations["cons-1"] = confirmedPaidConsultation()
		gateway := &gatewayServiceFake{refundErr: exceptions.ErrRefundFailed(errors.New("gateway 5xx"))}
		uc := NewCancellationUsecase(repo, pharmRepo, gateway, &notificationServiceFake{}, zap.NewNop())

		_, err := uc.CancelConsultation(context.Background(), patientSession, "cons-1", cancelRequest)

		var customErr *exceptions.CustomError
		require.ErrorAs(t, err, &customErr)
		assert.Equal(t, constvars.StatusBadGateway, customErr.StatusCode)
		assert.Equal(t, constvars.ErrClientRefundFailedStillBooked, customErr.ClientMessage)

		stored := repo.consultations["cons-1"]
		assert.Equal(t, models.StatusConfirmed, stored.Status, "state must not move when no money moved")
		assert.Equal(t, models.PaymentCaptured, stored.PaymentStatus)
		assert.Empty(t, stored.RazorpayRefundID)
	})

	t.Run("unpaid booking cancels without touching the gateway", func(t *testing.T) {
		repo := newMemoryConsultationRepo()
		pending := confirmedPaidConsultation()
		pending.Status = models.StatusPendingPayment
		pending.PaymentStatus = models.PaymentPending
		pending.RazorpayPaymentID = ""
		repo.consultations["cons-1"] = pending
		gateway := &gatewayServiceFake{}
		notifier := &notificationServiceFake{}
		uc := NewCancellationUsecase(repo, pharmRepo, gateway, notifier, zap.NewNop())

		response, err := uc.CancelConsultation(context.Background(), patientSession, "cons-1", cancelRequest)

		require.NoError(t, err)
		assert.Equal(t, string(models.StatusCancelled), response.Status)
		assert.Empty(t, response.RazorpayRefundID)
		assert.Zero(t, gateway.refunds)
		assert.Equal(t, []string{constvars.NotificationEventCancelled}, notifier.events)
	})

	t.Run("pharmacist can cancel and is recorded as the canceller", func(t *testing.T) {
		repo := newMemoryConsultationRepo()
		repo.consultations["cons-1"] = confirmedPaidConsultation()
		uc := NewCancellationUsecase(repo, pharmRepo, &gatewayServiceFake{}, &notificationServiceFake{}, zap.NewNop())

		pharmacistSession := &models.Session{SessionID: "sess-2", UserID: "user-pharm", Role: constvars.RolePharmacist}
		_, err := uc.CancelConsultation(context.Background(), pharmacistSession, "cons-1", cancelRequest)

		require.NoError(t, err)
		assert.Equal(t, constvars.RolePharmacist, repo.consultations["cons-1"].CancelledBy)
	})

	t.Run("terminal consultation cannot be cancelled", func(t *testing.T) {
		repo := newMemoryConsultationRepo()
		completed := confirmedPaidConsultation()
		completed.Status = models.StatusCompleted
		repo.consultations["cons-1"] = completed
		gateway := &gatewayServiceFake{}
		uc := NewCancellationUsecase(repo, pharmRepo, gateway, &notificationServiceFake{}, zap.NewNop())

		_, err := uc.CancelConsultation(context.Background(), patientSession, "cons-1", cancelRequest)

		var customErr *exceptions.CustomError
		require.ErrorAs(t, err, &customErr)
		assert.Equal(t, constvars.ErrClientAlreadyFinished, customErr.ClientMessage)
		assert.Zero(t, gateway.refunds, "no refund may be attempted on a terminal consultation")
	})

	t.Run("outsider cannot cancel", func(t *testing.T) {
		repo := newMemoryConsultationRepo()
		repo.consultations["cons-1"] = confirmedPaidConsultation()
		uc := NewCancellationUsecase(repo, pharmRepo, &gatewayServiceFake{}, &notificationServiceFake{}, zap.NewNop())

		strangerSession := &models.Session{SessionID: "sess-3", UserID: "user-stranger", Role: constvars.RolePatient}
		_, err := uc.CancelConsultation(context.Background(), strangerSession, "cons-1", cancelRequest)

		var customErr *exceptions.CustomError
		require.ErrorAs(t, err, &customErr)
		assert.Equal(t, constvars.StatusForbidden, customErr.StatusCode)
	})
}
