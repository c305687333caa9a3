package models

import "time"

type Pharmacist struct {
	ID               string    `json:"id" bson:"_id,omitempty"`
	UserID           string    `json:"user_id" bson:"user_id"`
	FullName         string    `json:"full_name" bson:"full_name"`
	RegistrationNo   string    `json:"registration_no" bson:"registration_no"`
	ConsultationFee  int64     `json:"consultation_fee" bson:"consultation_fee"`
	Approved         bool      `json:"approved" bson:"approved"`
	AcceptingClients bool      `json:"accepting_clients" bson:"accepting_clients"`
	CreatedAt        time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt        time.Time `json:"updated_at" bson:"updated_at"`
}
