package constvars

const (
	BookConsultationSuccessMessage   = "Consultation booked, waiting for payment"
	WebhookProcessedSuccessMessage   = "Webhook processed"
	VerifyPaymentSuccessMessage      = "Payment verified"
	ConfirmConsultationSuccess       = "Consultation confirmed"
	JoinCallSuccessMessage           = "Call access granted"
	CancelConsultationSuccessMessage = "Consultation cancelled"
	CompleteConsultationSuccess      = "Consultation completed"
	SubmitReviewSuccessMessage       = "Review submitted"
	GetConsultationSuccessMessage    = "Consultation retrieved"
	ListConsultationsSuccessMessage  = "Consultations retrieved"
)
