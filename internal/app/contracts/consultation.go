package contracts

import (
	"context"
	"pharmacare-service/internal/app/models"
	"pharmacare-service/internal/pkg/dto/requests"
	"pharmacare-service/internal/pkg/dto/responses"
)

// ConsultationRepository persists consultations. The Mark* methods are
// conditional state transitions: each one applies only when the stored
// document still satisfies the transition's precondition, and reports
// whether it did via the transitioned flag.
type ConsultationRepository interface {
	Insert(ctx context.Context, consultation *models.Consultation) (*models.Consultation, error)
	Delete(ctx context.Context, consultationID string) error
	FindByID(ctx context.Context, consultationID string) (*models.Consultation, error)
	FindByOrderID(ctx context.Context, razorpayOrderID string) (*models.Consultation, error)
	FindByParticipant(ctx context.Context, userID string, page, pageSize int) ([]models.Consultation, int, error)
	SetGatewayOrder(ctx context.Context, consultationID, razorpayOrderID string) error
	MarkCaptured(ctx context.Context, razorpayOrderID, razorpayPaymentID, signature string) (consultation *models.Consultation, transitioned bool, err error)
	MarkAuthorized(ctx context.Context, razorpayOrderID, razorpayPaymentID string) (transitioned bool, err error)
	MarkPaymentFailed(ctx context.Context, razorpayOrderID string) (transitioned bool, err error)
	MarkConfirmed(ctx context.Context, consultationID string) (consultation *models.Consultation, transitioned bool, err error)
	MarkInProgress(ctx context.Context, consultationID string) (transitioned bool, err error)
	MarkCompleted(ctx context.Context, consultationID string) (consultation *models.Consultation, transitioned bool, err error)
	MarkCancelled(ctx context.Context, consultationID, cancelledBy, reason, razorpayRefundID string) (consultation *models.Consultation, transitioned bool, err error)
	SetReview(ctx context.Context, consultationID string, review *models.Review) (transitioned bool, err error)
}

type BookingUsecase interface {
	BookConsultation(ctx context.Context, session *models.Session, request *requests.BookConsultation) (*responses.BookConsultation, error)
	GetConsultation(ctx context.Context, session *models.Session, consultationID string) (*responses.ConsultationDetail, error)
	ListConsultations(ctx context.Context, session *models.Session, page, pageSize int) ([]responses.ConsultationDetail, int, error)
}

type LifecycleUsecase interface {
	ConfirmConsultation(ctx context.Context, session *models.Session, consultationID string) (*responses.ConsultationDetail, error)
	CompleteConsultation(ctx context.Context, session *models.Session, consultationID string) (*responses.ConsultationDetail, error)
}

type CancellationUsecase interface {
	CancelConsultation(ctx context.Context, session *models.Session, consultationID string, request *requests.CancelConsultation) (*responses.CancelConsultation, error)
}
