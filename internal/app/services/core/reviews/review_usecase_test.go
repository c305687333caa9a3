package reviews

import (
	"context"
	"pharmacare-service/internal/app/models"
	"pharmacare-service/internal/pkg/constvars"
	"pharmacare-service/internal/pkg/dto/requests"
	"pharmacare-service/internal/pkg/exceptions"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type reviewRepoFake struct {
	byConsultation map[string]*models.ConsultationReview
}

func newReviewRepoFake() *reviewRepoFake {
	return &reviewRepoFake{byConsultation: make(map[string]*models.ConsultationReview)}
}

func (r *reviewRepoFake) Insert(ctx context.Context, review *models.ConsultationReview) (bool, error) {
	if _, exists := r.byConsultation[review.ConsultationID]; exists {
		return true, nil
	}
	r.byConsultation[review.ConsultationID] = review
	return false, nil
}

type consultationRepoStub struct {
	consultation *models.Consultation
}

func (s *consultationRepoStub) Insert(ctx context.Context, c *models.Consultation) (*models.Consultation, error) {
	return c, nil
}

func (s *consultationRepoStub) Delete(ctx context.Context, id string) error { return nil }

func (s *consultationRepoStub) FindByID(ctx context.Context, id string) (*models.Consultation, error) {
	if s.consultation == nil || s.consultation.ID != id {
		return nil, nil
	}
	copied := *s.consultation
	return &copied, nil
}

func (s *consultationRepoStub) FindByOrderID(ctx context.Context, orderID string) (*models.Consultation, error) {
	return nil, nil
}

func (s *consultationRepoStub) FindByParticipant(ctx context.Context, userID string, page, pageSize int) ([]models.Consultation, int, error) {
	return nil, 0, nil
}

func (s *consultationRepoStub) SetGatewayOrder(ctx context.Context, id, orderID string) error {
	return nil
}

func (s *consultationRepoStub) MarkCaptured(ctx context.Context, orderID, paymentID, signature string) (*models.Consultation, bool, error) {
	return nil, false, nil
}

func (s *consultationRepoStub) MarkAuthorized(ctx context.Context, orderID, paymentID string) (bool, error) {
	return false, nil
}

func (s *consultationRepoStub) MarkPaymentFailed(ctx context.Context, orderID string) (bool, error) {
	return false, nil
}

func (s *consultationRepoStub) MarkConfirmed(ctx context.Context, id string) (*models.Consultation, bool, error) {
	return nil, false, nil
}

func (s *consultationRepoStub) MarkInProgress(ctx context.Context, id string) (bool, error) {
	return false, nil
}

func (s *consultationRepoStub) MarkCompleted(ctx context.Context, id string) (*models.Consultation, bool, error) {
	return nil, false, nil
}

func (s *consultationRepoStub) MarkCancelled(ctx context.Context, id, cancelledBy, reason, refundID string) (*models.Consultation, bool, error) {
	return nil, false, nil
}

func (s *consultationRepoStub) SetReview(ctx context.Context, id string, review *models.Review) (bool, error) {
	if s.consultation.Status != models.StatusCompleted || s.consultation.Review != nil {
		return false, nil
	}
	s.consultation.Review = review
	return true, nil
}

func completedConsultation() *models.Consultation {
	return &models.Consultation{
		ID:            "cons-1",
		PatientID:     "user-patient",
		PharmacistID:  "pharm-1",
		Status:        models.StatusCompleted,
		PaymentStatus: models.PaymentCaptured,
	}
}

func TestSubmitReview(t *testing.T) {
	patientSession := &models.Session{SessionID: "sess-1", UserID: "user-patient", Role: constvars.RolePatient}
	reviewRequest := &requests.SubmitReview{Rating: 5, Comment: "very helpful"}

	t.Run("patient reviews a completed consultation", func(t *testing.T) {
		consultationRepo := &consultationRepoStub{consultation: completedConsultation()}
		reviewRepo := newReviewRepoFake()
		uc := NewReviewUsecase(reviewRepo, consultationRepo, zap.NewNop())

		response, err := uc.SubmitReview(context.Background(), patientSession, "cons-1", reviewRequest)

		require.NoError(t, err)
		assert.Equal(t, 5, response.Rating)

		stored := reviewRepo.byConsultation["cons-1"]
		require.NotNil(t, stored)
		assert.Equal(t, "pharm-1", stored.PharmacistID)

		mirror := consultationRepo.consultation.Review
		require.NotNil(t, mirror, "the rating must be mirrored onto the consultation")
		assert.Equal(t, 5, mirror.Rating)
	})

	t.Run("second review is rejected", func(t *testing.T) {
		consultationRepo := &consultationRepoStub{consultation: completedConsultation()}
		reviewRepo := newReviewRepoFake()
		uc := NewReviewUsecase(reviewRepo, consultationRepo, zap.NewNop())

		_, err := uc.SubmitReview(context.Background(), patientSession, "cons-1", reviewRequest)
		require.NoError(t, err)

		_, err = uc.SubmitReview(context.Background(), patientSession, "cons-1", &requests.SubmitReview{Rating: 1})

		var customErr *exceptions.CustomError
		require.ErrorAs(t, err, &customErr)
		assert.Equal(t, constvars.StatusConflict, customErr.StatusCode)
		assert.Equal(t, 5, reviewRepo.byConsultation["cons-1"].Rating, "the original review must survive")
	})

	t.Run("only completed consultations can be reviewed", func(t *testing.T) {
		consultation := completedConsultation()
		consultation.Status = models.StatusInProgress
		uc := NewReviewUsecase(newReviewRepoFake(), &consultationRepoStub{consultation: consultation}, zap.NewNop())

		_, err := uc.SubmitReview(context.Background(), patientSession, "cons-1", reviewRequest)

		var customErr *exceptions.CustomError
		require.ErrorAs(t, err, &customErr)
		assert.Equal(t, constvars.ErrClientReviewNotCompleted, customErr.ClientMessage)
	})

	t.Run("pharmacist cannot review", func(t *testing.T) {
		uc := NewReviewUsecase(newReviewRepoFake(), &consultationRepoStub{consultation: completedConsultation()}, zap.NewNop())

		pharmacistSession := &models.Session{SessionID: "sess-2", UserID: "user-pharm", Role: constvars.RolePharmacist}
		_, err := uc.SubmitReview(context.Background(), pharmacistSession, "cons-1", reviewRequest)

		var customErr *exceptions.CustomError
		require.ErrorAs(t, err, &customErr)
		assert.Equal(t, constvars.StatusForbidden, customErr.StatusCode)
	})

	t.Run("missing consultation", func(t *testing.T) {
		uc := NewReviewUsecase(newReviewRepoFake(), &consultationRepoStub{}, zap.NewNop())

		_, err := uc.SubmitReview(context.Background(), patientSession, "cons-missing", reviewRequest)

		var customErr *exceptions.CustomError
		require.ErrorAs(t, err, &customErr)
		assert.Equal(t, constvars.StatusNotFound, customErr.StatusCode)
	})
}
