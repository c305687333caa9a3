package utils

import (
	"fmt"
	"pharmacare-service/internal/pkg/constvars"

	"github.com/google/uuid"
)

func GenerateRequestID() string {
	return constvars.REQUEST_ID_PREFIX + uuid.NewString()
}

func GenerateLockValue() string {
	return uuid.NewString()
}

// GenerateReceiptID builds the receipt reference sent with a gateway order.
// Razorpay caps receipts at 40 characters, so the consultation id is used as-is.
func GenerateReceiptID(consultationID string) string {
	return fmt.Sprintf("consult_%s", consultationID)
}
