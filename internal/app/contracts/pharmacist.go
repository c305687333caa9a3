package contracts

import (
	"context"
	"pharmacare-service/internal/app/models"
)

type PharmacistRepository interface {
	FindByID(ctx context.Context, pharmacistID string) (*models.Pharmacist, error)
	FindByUserID(ctx context.Context, userID string) (*models.Pharmacist, error)
}
