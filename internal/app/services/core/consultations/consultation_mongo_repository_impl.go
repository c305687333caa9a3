package consultations

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

// ConsultationMongoRepository stores consultation ids as hex strings so the
// documents round-trip cleanly through the string-typed model.
//
// Every state transition is a single conditional update: the filter carries
// the transition's precondition, so concurrent writers race on the database's
// document-level atomicity instead of a read-then-write window.
type ConsultationMongoRepository struct {
	Collection *mongo.Collection
}

func NewConsultationMongoRepository(db *mongo.Client, dbName string) contracts.ConsultationRepository {
	return &ConsultationMongoRepository{
		Collection: db.Database(dbName).Collection(constvars.MongoCollectionConsultations),
	}
}

func (r *ConsultationMongoRepository) Insert(ctx context.Context, consultation *models.Consultation) (*models.Consultation, error) {
	now := time.Now().UTC()
	if consultation.ID == "" {
		consultation.ID = primitive.NewObjectID().Hex()
	}
	consultation.CreatedAt = now
	consultation.UpdatedAt = now

	_, err := r.Collection.InsertOne(ctx, consultation)
	if err != nil {
		return nil, exceptions.ErrMongoDBInsertDocument(err)
	}
	return consultation, nil
}

func (r *ConsultationMongoRepository) Delete(ctx context.Context, consultationID string) error {
	_, err := r.Collection.DeleteOne(ctx, bson.M{"_id": consultationID})
	if err != nil {
		return exceptions.ErrMongoDBDeleteDocument(err)
	}
	return nil
}

func (r *ConsultationMongoRepository) FindByID(ctx context.Context, consultationID string) (*models.Consultation, error) {
	var consultation models.Consultation
	err := r.Collection.FindOne(ctx, bson.M{"_id": consultationID}).Decode(&consultation)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, exceptions.ErrMongoDBFindDocument(err)
	}
	return &consultation, nil
}

func (r *ConsultationMongoRepository) FindByOrderID(ctx context.Context, razorpayOrderID string) (*models.Consultation, error) {
	var consultation models.Consultation
	err := r.Collection.FindOne(ctx, bson.M{"razorpay_order_id": razorpayOrderID}).Decode(&consultation)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, exceptions.ErrMongoDBFindDocument(err)
	}
	return &consultation, nil
}

func (r *ConsultationMongoRepository) FindByParticipant(ctx context.Context, userID string, page, pageSize int) ([]models.Consultation, int, error) {
	filter := bson.M{
		"$or": []bson.M{
			{"patient_id": userID},
			{"pharmacist_id": userID},
		},
	}

	total, err := r.Collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, exceptions.ErrMongoDBFindDocument(err)
	}

	findOptions := options.Find().
		SetSort(bson.D{{Key: "scheduled_at", Value: -1}}).
		SetSkip(int64((page - 1) * pageSize)).
		SetLimit(int64(pageSize))

	cursor, err := r.Collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, 0, exceptions.ErrMongoDBFindDocument(err)
	}
	defer cursor.Close(ctx)

	var consultations []models.Consultation
	if err := cursor.All(ctx, &consultations); err != nil {
		return nil, 0, exceptions.ErrMongoDBFindDocument(err)
	}
	return consultations, int(total), nil
}

func (r *ConsultationMongoRepository) SetGatewayOrder(ctx context.Context, consultationID, razorpayOrderID string) error {
	update := bson.M{"$set": bson.M{
		"razorpay_order_id": razorpayOrderID,
		"updated_at":        time.Now().UTC(),
	}}

	result, err := r.Collection.UpdateOne(ctx, bson.M{"_id": consultationID}, update)
	if err != nil {
		return exceptions.ErrMongoDBUpdateDocument(err)
	}
	if result.MatchedCount == 0 {
		return exceptions.ErrConsultationNotFound(nil)
	}
	return nil
}

// MarkCaptured applies the capture transition exactly once per order: it
// matches only while the consultation is still awaiting payment, so webhook
// and client-verify deliveries converge and retries degrade to no-ops.
func (r *ConsultationMongoRepository) MarkCaptured(ctx context.Context, razorpayOrderID, razorpayPaymentID, signature string) (*models.Consultation, bool, error) {
	filter := bson.M{
		"razorpay_order_id": razorpayOrderID,
		"status":            models.StatusPendingPayment,
		"payment_status": bson.M{"$in": []models.PaymentStatus{
			models.PaymentPending,
			models.PaymentAuthorized,
			models.PaymentFailed,
		}},
	}

	set := bson.M{
		"status":              models.StatusConfirmed,
		"payment_status":      models.PaymentCaptured,
		"razorpay_payment_id": razorpayPaymentID,
		"updated_at":          time.Now().UTC(),
	}
	if signature != "" {
		set["razorpay_signature"] = signature
	}

	var consultation models.Consultation
	err := r.Collection.FindOneAndUpdate(ctx, filter, bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&consultation)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, false, nil
		}
		return nil, false, exceptions.ErrMongoDBUpdateDocument(err)
	}
	return &consultation, true, nil
}

// MarkAuthorized records an authorized-but-not-captured charge. It matches
// only while nothing has settled, so an authorization event arriving after
// capture (or after a repeated authorization) degrades to a no-op.
func (r *ConsultationMongoRepository) MarkAuthorized(ctx context.Context, razorpayOrderID, razorpayPaymentID string) (bool, error) {
	filter := bson.M{
		"razorpay_order_id": razorpayOrderID,
		"status":            models.StatusPendingPayment,
		"payment_status": bson.M{"$in": []models.PaymentStatus{
			models.PaymentPending,
			models.PaymentFailed,
		}},
	}
	update := bson.M{"$set": bson.M{
		"payment_status":      models.PaymentAuthorized,
		"razorpay_payment_id": razorpayPaymentID,
		"updated_at":          time.Now().UTC(),
	}}

	result, err := r.Collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, exceptions.ErrMongoDBUpdateDocument(err)
	}
	return result.MatchedCount > 0, nil
}

// MarkPaymentFailed never touches a captured payment; a stale failure event
// arriving after capture degrades to a no-op.
func (r *ConsultationMongoRepository) MarkPaymentFailed(ctx context.Context, razorpayOrderID string) (bool, error) {
	filter := bson.M{
		"razorpay_order_id": razorpayOrderID,
		"payment_status": bson.M{"$in": []models.PaymentStatus{
			models.PaymentPending,
			models.PaymentAuthorized,
		}},
	}
	update := bson.M{"$set": bson.M{
		"payment_status": models.PaymentFailed,
		"updated_at":     time.Now().UTC(),
	}}

	result, err := r.Collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, exceptions.ErrMongoDBUpdateDocument(err)
	}
	return result.MatchedCount > 0, nil
}

func (r *ConsultationMongoRepository) MarkConfirmed(ctx context.Context, consultationID string) (*models.Consultation, bool, error) {
	filter := bson.M{
		"_id":    consultationID,
		"status": models.StatusPendingPayment,
		"payment_status": bson.M{"$in": []models.PaymentStatus{
			models.PaymentAuthorized,
			models.PaymentCaptured,
		}},
	}
	update := bson.M{"$set": bson.M{
		"status":     models.StatusConfirmed,
		"updated_at": time.Now().UTC(),
	}}

	var consultation models.Consultation
	err := r.Collection.FindOneAndUpdate(ctx, filter, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&consultation)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, false, nil
		}
		return nil, false, exceptions.ErrMongoDBUpdateDocument(err)
	}
	return &consultation, true, nil
}

// MarkInProgress flips confirmed to in_progress; only the first join wins.
func (r *ConsultationMongoRepository) MarkInProgress(ctx context.Context, consultationID string) (bool, error) {
	now := time.Now().UTC()
	filter := bson.M{
		"_id":    consultationID,
		"status": models.StatusConfirmed,
	}
	update := bson.M{"$set": bson.M{
		"status":     models.StatusInProgress,
		"started_at": now,
		"updated_at": now,
	}}

	result, err := r.Collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, exceptions.ErrMongoDBUpdateDocument(err)
	}
	return result.MatchedCount > 0, nil
}

func (r *ConsultationMongoRepository) MarkCompleted(ctx context.Context, consultationID string) (*models.Consultation, bool, error) {
	now := time.Now().UTC()
	filter := bson.M{
		"_id":    consultationID,
		"status": models.StatusInProgress,
	}
	update := bson.M{"$set": bson.M{
		"status":     models.StatusCompleted,
		"ended_at":   now,
		"updated_at": now,
	}}

	var consultation models.Consultation
	err := r.Collection.FindOneAndUpdate(ctx, filter, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&consultation)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, false, nil
		}
		return nil, false, exceptions.ErrMongoDBUpdateDocument(err)
	}
	return &consultation, true, nil
}

// MarkCancelled writes the terminal cancellation state. A non-empty refund id
// means money moved: both status and payment_status become refunded so the
// two never drift apart.
func (r *ConsultationMongoRepository) MarkCancelled(ctx context.Context, consultationID, cancelledBy, reason, razorpayRefundID string) (*models.Consultation, bool, error) {
	now := time.Now().UTC()
	filter := bson.M{
		"_id": consultationID,
		"status": bson.M{"$in": []models.ConsultationStatus{
			models.StatusPendingPayment,
			models.StatusConfirmed,
			models.StatusInProgress,
		}},
	}

	set := bson.M{
		"cancelled_by":        cancelledBy,
		"cancellation_reason": reason,
		"cancelled_at":        now,
		"updated_at":          now,
	}
	if razorpayRefundID != "" {
		set["status"] = models.StatusRefunded
		set["payment_status"] = models.PaymentRefunded
		set["razorpay_refund_id"] = razorpayRefundID
	} else {
		set["status"] = models.StatusCancelled
	}

	var consultation models.Consultation
	err := r.Collection.FindOneAndUpdate(ctx, filter, bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&consultation)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, false, nil
		}
		return nil, false, exceptions.ErrMongoDBUpdateDocument(err)
	}
	return &consultation, true, nil
}

func (r *ConsultationMongoRepository) SetReview(ctx context.Context, consultationID string, review *models.Review) (bool, error) {
	filter := bson.M{
		"_id":    consultationID,
		"status": models.StatusCompleted,
		"review": bson.M{"$exists": false},
	}
	update := bson.M{"$set": bson.M{
		"review":     review,
		"updated_at": time.Now().UTC(),
	}}

	result, err := r.Collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, exceptions.ErrMongoDBUpdateDocument(err)
	}
	return result.MatchedCount > 0, nil
}
