package responses

import (
	"time"

	"pharmacare-service/internal/app/models"
)

// BookConsultation gives the client everything Razorpay Checkout needs to
// open the payment form.
type BookConsultation struct {
	ConsultationID  string    `json:"consultation_id"`
	RazorpayOrderID string    `json:"razorpay_order_id"`
	RazorpayKeyID   string    `json:"razorpay_key_id"`
	Amount          int64     `json:"amount"`
	Currency        string    `json:"currency"`
	PharmacistName  string    `json:"pharmacist_name"`
	ScheduledAt     time.Time `json:"scheduled_at"`
	Status          string    `json:"status"`
}

type ConsultationDetail struct {
	ID                string         `json:"id"`
	PatientID         string         `json:"patient_id"`
	PharmacistID      string         `json:"pharmacist_id"`
	ScheduledAt       time.Time      `json:"scheduled_at"`
	DurationMinutes   int            `json:"duration_minutes"`
	Amount            int64          `json:"amount"`
	Currency          string         `json:"currency"`
	Status            string         `json:"status"`
	PaymentStatus     string         `json:"payment_status"`
	RazorpayOrderID   string         `json:"razorpay_order_id,omitempty"`
	RazorpayPaymentID string         `json:"razorpay_payment_id,omitempty"`
	Concern           string         `json:"concern,omitempty"`
	Review            *models.Review `json:"review,omitempty"`
	CreatedAt         time.Time      `json:"created_at"`
}

func NewConsultationDetail(consultation *models.Consultation) *ConsultationDetail {
	return &ConsultationDetail{
		ID:                consultation.ID,
		PatientID:         consultation.PatientID,
		PharmacistID:      consultation.PharmacistID,
		ScheduledAt:       consultation.ScheduledAt,
		DurationMinutes:   consultation.DurationMinutes,
		Amount:            consultation.Amount,
		Currency:          consultation.Currency,
		Status:            string(consultation.Status),
		PaymentStatus:     string(consultation.PaymentStatus),
		RazorpayOrderID:   consultation.RazorpayOrderID,
		RazorpayPaymentID: consultation.RazorpayPaymentID,
		Concern:           consultation.Concern,
		Review:            consultation.Review,
		CreatedAt:         consultation.CreatedAt,
	}
}

type CancelConsultation struct {
	ConsultationID   string `json:"consultation_id"`
	Status           string `json:"status"`
	PaymentStatus    string `json:"payment_status"`
	RazorpayRefundID string `json:"razorpay_refund_id,omitempty"`
}

type SubmitReview struct {
	ConsultationID string `json:"consultation_id"`
	Rating         int    `json:"rating"`
	Comment        string `json:"comment,omitempty"`
}

type JoinCall struct {
	ConsultationID string `json:"consultation_id"`
	ChannelName    string `json:"channel_name"`
	UID            uint32 `json:"uid"`
	Token          string `json:"token"`
	ExpiresAt      int64  `json:"expires_at"`
}
