package constvars

const (
	RazorpayEventPaymentAuthorized = "payment.authorized"
	RazorpayEventPaymentCaptured   = "payment.captured"
	RazorpayEventPaymentFailed     = "payment.failed"

	RazorpayPaymentStatusAuthorized = "authorized"
	RazorpayPaymentStatusCaptured   = "captured"

	RazorpayRefundSpeedNormal = "normal"
)
