package notifications

import (
	"context"
	"pharmacare-service/internal/app/contracts"
	"pharmacare-service/internal/app/models"
	"pharmacare-service/internal/pkg/constvars"
	"pharmacare-service/internal/pkg/exceptions"
	"time"

	"github.com/goccy/go-json"
	"github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

type notificationService struct {
	Channel *amqp091.Channel
	Queue   string
	Log     *zap.Logger
}

// consultationEvent is the payload the notification worker consumes.
type consultationEvent struct {
	Event          string    `json:"event"`
	ConsultationID string    `json:"consultation_id"`
	PatientID      string    `json:"patient_id"`
	PharmacistID   string    `json:"pharmacist_id"`
	ScheduledAt    time.Time `json:"scheduled_at"`
	Amount         int64     `json:"amount"`
	Currency       string    `json:"currency"`
	OccurredAt     time.Time `json:"occurred_at"`
}

func NewNotificationService(rabbitMQConnection *amqp091.Connection, logger *zap.Logger, queue string) (contracts.NotificationService, error) {
	channel, err := rabbitMQConnection.Channel()
	if err != nil {
		return nil, err
	}

	_, err = channel.QueueDeclare(queue, true, false, false, false, nil)
	if err != nil {
		return nil, err
	}

	return &notificationService{
		Channel: channel,
		Queue:   queue,
		Log:     logger,
	}, nil
}

func (s *notificationService) PublishConsultationEvent(ctx context.Context, event string, consultation *models.Consultation) error {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)

	s.Log.Info("notificationService.PublishConsultationEvent called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingEventKey, event),
		zap.String(constvars.LoggingConsultationIDKey, consultation.ID),
	)

	body, err := json.Marshal(consultationEvent{
		Event:          event,
		ConsultationID: consultation.ID,
		PatientID:      consultation.PatientID,
		PharmacistID:   consultation.PharmacistID,
		ScheduledAt:    consultation.ScheduledAt,
		Amount:         consultation.Amount,
		Currency:       consultation.Currency,
		OccurredAt:     time.Now().UTC(),
	})
	if err != nil {
		return err
	}

	message := amqp091.Publishing{
		ContentType:  constvars.MIMEApplicationJSON,
		Body:         body,
		DeliveryMode: amqp091.Persistent,
	}

	err = s.Channel.PublishWithContext(ctx, "", s.Queue, false, false, message)
	if err != nil {
		s.Log.Error("notificationService.PublishConsultationEvent error publishing message",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingQueueNameKey, s.Queue),
			zap.Error(err),
		)
		return exceptions.ErrRabbitMQPublishMessage(err, s.Queue)
	}

	return nil
}
