package contracts

import (
	"context"
	"pharmacare-service/internal/app/models"
)

// NotificationService hands consultation events to the notification worker
// queue. Publishing is best-effort from the caller's point of view: a failed
// publish is logged, never surfaced to the client.
type NotificationService interface {
	PublishConsultationEvent(ctx context.Context, event string, consultation *models.Consultation) error
}
