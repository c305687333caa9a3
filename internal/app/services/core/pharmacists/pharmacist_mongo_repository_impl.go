package pharmacists

import (
	"context"
	"pharmacare-service/internal/app/contracts"
	"pharmacare-service/internal/app/models"
	"pharmacare-service/internal/pkg/constvars"
	"pharmacare-service/internal/pkg/exceptions"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type PharmacistMongoRepository struct {
	Collection *mongo.Collection
}

func NewPharmacistMongoRepository(db *mongo.Client, dbName string) contracts.PharmacistRepository {
	return &PharmacistMongoRepository{
		Collection: db.Database(dbName).Collection(constvars.MongoCollectionPharmacists),
	}
}

func (r *PharmacistMongoRepository) FindByID(ctx context.Context, pharmacistID string) (*models.Pharmacist, error) {
	var pharmacist models.Pharmacist
	err := r.Collection.FindOne(ctx, bson.M{"_id": pharmacistID}).Decode(&pharmacist)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, exceptions.ErrMongoDBFindDocument(err)
	}
	return &pharmacist, nil
}

func (r *PharmacistMongoRepository) FindByUserID(ctx context.Context, userID string) (*models.Pharmacist, error) {
	var pharmacist models.Pharmacist
	err := r.Collection.FindOne(ctx, bson.M{"user_id": userID}).Decode(&pharmacist)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, exceptions.ErrMongoDBFindDocument(err)
	}
	return &pharmacist, nil
}
