package requests

import "time"

type BookConsultation struct {
	PharmacistID    string    `json:"pharmacist_id" validate:"required"`
	ScheduledAt     time.Time `json:"scheduled_at" validate:"required,future_time"`
	DurationMinutes int       `json:"duration_minutes" validate:"required,consult_length"`
	Concern         string    `json:"concern" validate:"omitempty,max=2000"`
}

type CancelConsultation struct {
	Reason string `json:"reason" validate:"required,max=500"`
}

type SubmitReview struct {
	Rating  int    `json:"rating" validate:"required,gte=1,lte=5"`
	Comment string `json:"comment" validate:"omitempty,max=2000"`
}
