package contracts

import (
	"context"
	"pharmacare-service/internal/pkg/dto/responses"
)

// PaymentGatewayService wraps the Razorpay Orders, Payments and Refunds APIs.
// Amounts cross this boundary in whole rupees; the implementation converts
// to paise on the wire.
type PaymentGatewayService interface {
	CreateOrder(ctx context.Context, amount int64, currency, receipt string) (*responses.GatewayOrder, error)
	FetchPayment(ctx context.Context, paymentID string) (*responses.GatewayPayment, error)
	CreateRefund(ctx context.Context, paymentID string, amount int64) (*responses.GatewayRefund, error)
}
