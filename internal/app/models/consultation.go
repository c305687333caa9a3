package models

import "time"

type ConsultationStatus string

const (
	StatusPendingPayment ConsultationStatus = "pending_payment"
	StatusConfirmed      ConsultationStatus = "confirmed"
	StatusInProgress     ConsultationStatus = "in_progress"
	StatusCompleted      ConsultationStatus = "completed"
	StatusCancelled      ConsultationStatus = "cancelled"
	StatusRefunded       ConsultationStatus = "refunded"
)

func (s ConsultationStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled || s == StatusRefunded
}

type PaymentStatus string

const (
	PaymentPending    PaymentStatus = "pending"
	PaymentAuthorized PaymentStatus = "authorized"
	PaymentCaptured   PaymentStatus = "captured"
	PaymentFailed     PaymentStatus = "failed"
	PaymentRefunded   PaymentStatus = "refunded"
)

type Review struct {
	Rating     int       `json:"rating" bson:"rating"`
	Text       string    `json:"text,omitempty" bson:"text,omitempty"`
	ReviewedAt time.Time `json:"reviewed_at" bson:"reviewed_at"`
}

type Consultation struct {
	ID                string             `json:"id" bson:"_id,omitempty"`
	PatientID         string             `json:"patient_id" bson:"patient_id"`
	PharmacistID      string             `json:"pharmacist_id" bson:"pharmacist_id"`
	ScheduledAt       time.Time          `json:"scheduled_at" bson:"scheduled_at"`
	DurationMinutes   int                `json:"duration_minutes" bson:"duration_minutes"`
	Concern           string             `json:"concern,omitempty" bson:"concern,omitempty"`
	Amount            int64              `json:"amount" bson:"amount"`
	PlatformFee       int64              `json:"platform_fee" bson:"platform_fee"`
	PharmacistEarning int64              `json:"pharmacist_earning" bson:"pharmacist_earning"`
	Currency          string             `json:"currency" bson:"currency"`
	Status            ConsultationStatus `json:"status" bson:"status"`
	PaymentStatus     PaymentStatus      `json:"payment_status" bson:"payment_status"`
	RazorpayOrderID   string             `json:"razorpay_order_id,omitempty" bson:"razorpay_order_id,omitempty"`
	RazorpayPaymentID string             `json:"razorpay_payment_id,omitempty" bson:"razorpay_payment_id,omitempty"`
	RazorpaySignature string             `json:"-" bson:"razorpay_signature,omitempty"`
	RazorpayRefundID  string             `json:"razorpay_refund_id,omitempty" bson:"razorpay_refund_id,omitempty"`
	AgoraChannel      string             `json:"agora_channel,omitempty" bson:"agora_channel"`
	StartedAt         *time.Time         `json:"started_at,omitempty" bson:"started_at,omitempty"`
	EndedAt           *time.Time         `json:"ended_at,omitempty" bson:"ended_at,omitempty"`
	CancelledBy       string             `json:"cancelled_by,omitempty" bson:"cancelled_by,omitempty"`
	CancellationReason string            `json:"cancellation_reason,omitempty" bson:"cancellation_reason,omitempty"`
	CancelledAt       *time.Time         `json:"cancelled_at,omitempty" bson:"cancelled_at,omitempty"`
	Review            *Review            `json:"review,omitempty" bson:"review,omitempty"`
	CreatedAt         time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt         time.Time          `json:"updated_at" bson:"updated_at"`
}

// IsParticipant reports whether userID is the patient or the pharmacist of
// the consultation.
func (c *Consultation) IsParticipant(userID string) bool {
	return c.PatientID == userID || c.PharmacistID == userID
}
