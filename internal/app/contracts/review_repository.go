package contracts

import (
	"context"
	"pharmacare-service/internal/app/models"
)

// ReviewRepository inserts reviews into a collection carrying a unique index
// on consultation_id. Insert returns duplicate=true when that index rejects
// a second review for the same consultation.
type ReviewRepository interface {
	Insert(ctx context.Context, review *models.ConsultationReview) (duplicate bool, err error)
}
