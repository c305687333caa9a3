package models

import "time"

// ConsultationReview lives in its own collection with a unique index on
// consultation_id; the insert is what enforces one review per consultation.
type ConsultationReview struct {
	ID             string    `json:"id" bson:"_id,omitempty"`
	ConsultationID string    `json:"consultation_id" bson:"consultation_id"`
	PatientID      string    `json:"patient_id" bson:"patient_id"`
	PharmacistID   string    `json:"pharmacist_id" bson:"pharmacist_id"`
	Rating         int       `json:"rating" bson:"rating"`
	Text           string    `json:"text,omitempty" bson:"text,omitempty"`
	CreatedAt      time.Time `json:"created_at" bson:"created_at"`
}
