package requests

// VerifyPayment carries the fields Razorpay Checkout hands back to the
// client after a successful payment.
type VerifyPayment struct {
	RazorpayOrderID   string `json:"razorpay_order_id" validate:"required"`
	RazorpayPaymentID string `json:"razorpay_payment_id" validate:"required"`
	RazorpaySignature string `json:"razorpay_signature" validate:"required"`
}

// RazorpayWebhookEvent is the envelope of a webhook delivery. Only the
// payment entity fields the service acts on are mapped.
type RazorpayWebhookEvent struct {
	Event   string `json:"event"`
	Payload struct {
		Payment struct {
			Entity RazorpayPaymentEntity `json:"entity"`
		} `json:"payment"`
	} `json:"payload"`
	CreatedAt int64 `json:"created_at"`
}

type RazorpayPaymentEntity struct {
	ID          string `json:"id"`
	OrderID     string `json:"order_id"`
	Amount      int64  `json:"amount"`
	Currency    string `json:"currency"`
	Status      string `json:"status"`
	Method      string `json:"method"`
	ErrorCode   string `json:"error_code"`
	ErrorReason string `json:"error_reason"`
}
