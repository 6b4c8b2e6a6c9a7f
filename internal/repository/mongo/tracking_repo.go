package mongo

import (
	"context"
	"errors"
	"log"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"nutriai/meal-planner/internal/domain"
	"nutriai/meal-planner/internal/repository"
)

const trackingCollectionName = "meal_tracking"

type mongoTrackingRepository struct {
	collection *mongo.Collection
}

// NewMongoTrackingRepository creates a Tracking repository backed by MongoDB.
// Each user has one document holding the completedMeals array.
func NewMongoTrackingRepository(db *mongo.Database) repository.TrackingRepository {
	return &mongoTrackingRepository{
		collection: db.Collection(trackingCollectionName),
	}
}

// Append pushes the event onto the user's log in one update, upserting the
// document on the first event.
func (r *mongoTrackingRepository) Append(ctx context.Context, userID primitive.ObjectID, event domain.CompletionEvent) error {
	filter := bson.M{"userId": userID}
	update := bson.M{"$push": bson.M{"completedMeals": event}}
	opts := options.Update().SetUpsert(true)

	_, err := r.collection.UpdateOne(ctx, filter, update, opts)
	if mongo.IsDuplicateKeyError(err) {
		// Two first events raced on the upsert; the document exists now.
		_, err = r.collection.UpdateOne(ctx, filter, update)
	}
	if err != nil {
		log.Printf("ERROR: Failed to append tracking event for user %s: %v", userID.Hex(), err)
		return repository.ErrUpdateFailed
	}
	return nil
}

func (r *mongoTrackingRepository) ListByUserID(ctx context.Context, userID primitive.ObjectID) ([]domain.CompletionEvent, error) {
	var doc domain.MealTracking
	err := r.collection.FindOne(ctx, bson.M{"userId": userID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return []domain.CompletionEvent{}, nil
		}
		return nil, err
	}
	if doc.CompletedMeals == nil {
		return []domain.CompletionEvent{}, nil
	}
	return doc.CompletedMeals, nil
}

// EnsureTrackingIndexes keeps a single log document per user.
func EnsureTrackingIndexes(ctx context.Context, collection *mongo.Collection) {
	if _, err := collection.Indexes().CreateOne(ctx, uniqueUserIDIndex()); err != nil {
		log.Printf("WARN: Failed to create indexes for collection %s: %v", collection.Name(), err)
	}
}
