package mongo

import (
	"context"
	"errors"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"nutriai/meal-planner/internal/domain"
	"nutriai/meal-planner/internal/repository"
)

const profileCollectionName = "profiles"

type mongoProfileRepository struct {
	collection *mongo.Collection
}

// NewMongoProfileRepository creates a Profile repository backed by MongoDB.
func NewMongoProfileRepository(db *mongo.Database) repository.ProfileRepository {
	return &mongoProfileRepository{
		collection: db.Collection(profileCollectionName),
	}
}

func (r *mongoProfileRepository) Create(ctx context.Context, profile *domain.Profile) (primitive.ObjectID, error) {
	if profile.UserID.IsZero() {
		return primitive.NilObjectID, errors.New("profile user ID is required")
	}

	profile.ID = primitive.NewObjectID()
	if profile.CreatedAt.IsZero() {
		profile.CreatedAt = time.Now().UTC()
	}
	profile.UpdatedAt = profile.CreatedAt

	if _, err := r.collection.InsertOne(ctx, profile); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return primitive.NilObjectID, repository.ErrDuplicate
		}
		return primitive.NilObjectID, err
	}
	return profile.ID, nil
}

func (r *mongoProfileRepository) GetByUserID(ctx context.Context, userID primitive.ObjectID) (*domain.Profile, error) {
	var profile domain.Profile
	err := r.collection.FindOne(ctx, bson.M{"userId": userID}).Decode(&profile)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &profile, nil
}

// Update overwrites the questionnaire fields; ID, UserID and CreatedAt are kept.
func (r *mongoProfileRepository) Update(ctx context.Context, profile *domain.Profile) error {
	if profile.UpdatedAt.IsZero() {
		profile.UpdatedAt = time.Now().UTC()
	}
	update := bson.M{
		"$set": bson.M{
			"age":                profile.Age,
			"height":             profile.Height,
			"weight":             profile.Weight,
			"gender":             profile.Gender,
			"fitnessGoal":        profile.FitnessGoal,
			"allergies":          profile.Allergies,
			"activities":         profile.Activities,
			"activityLevel":      profile.ActivityLevel,
			"mealsPerDay":        profile.MealsPerDay,
			"dietaryPreferences": profile.DietaryPreferences,
			"updatedAt":          profile.UpdatedAt,
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"userId": profile.UserID}, update)
	if err != nil {
		log.Printf("ERROR: Failed to update profile of user %s: %v", profile.UserID.Hex(), err)
		return repository.ErrUpdateFailed
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureProfileIndexes enforces one profile per user.
func EnsureProfileIndexes(ctx context.Context, collection *mongo.Collection) {
	if _, err := collection.Indexes().CreateOne(ctx, uniqueUserIDIndex()); err != nil {
		log.Printf("WARN: Failed to create indexes for collection %s: %v", collection.Name(), err)
	}
}
