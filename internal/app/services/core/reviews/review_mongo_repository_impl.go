package reviews

import (
	"context"
	"pharmacare-service/internal/app/contracts"
	"pharmacare-service/internal/app/models"
	"pharmacare-service/internal/pkg/constvars"
	"pharmacare-service/internal/pkg/exceptions"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ReviewMongoRepository struct {
	Collection *mongo.Collection
}

// NewReviewMongoRepository ensures the unique index on consultation_id that
// makes double-submission fail at the insert instead of in application logic.
func NewReviewMongoRepository(db *mongo.Client, dbName string) (contracts.ReviewRepository, error) {
	collection := db.Database(dbName).Collection(constvars.MongoCollectionReviews)

	indexModel := mongo.IndexModel{
		Keys:    bson.D{{Key: "consultation_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	if _, err := collection.Indexes().CreateOne(context.Background(), indexModel); err != nil {
		return nil, exceptions.ErrMongoDBIndexCreation(err)
	}

	return &ReviewMongoRepository{Collection: collection}, nil
}

func (r *ReviewMongoRepository) Insert(ctx context.Context, review *models.ConsultationReview) (bool, error) {
	if review.ID == "" {
		review.ID = primitive.NewObjectID().Hex()
	}
	review.CreatedAt = time.Now().UTC()

	_, err := r.Collection.InsertOne(ctx, review)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return true, nil
		}
		return false, exceptions.ErrMongoDBInsertDocument(err)
	}
	return false, nil
}
