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

const mealPlanCollectionName = "meal_plans"

type mongoMealPlanRepository struct {
	collection *mongo.Collection
}

// NewMongoMealPlanRepository creates a MealPlan repository backed by MongoDB.
func NewMongoMealPlanRepository(db *mongo.Database) repository.MealPlanRepository {
	return &mongoMealPlanRepository{
		collection: db.Collection(mealPlanCollectionName),
	}
}

// Create stores the plan and its period in a single document. The unique
// userId index turns a second plan into repository.ErrDuplicate.
func (r *mongoMealPlanRepository) Create(ctx context.Context, plan *domain.StoredMealPlan) (primitive.ObjectID, error) {
	if plan.UserID.IsZero() || len(plan.Plan) == 0 {
		return primitive.NilObjectID, errors.New("meal plan user ID and days are required")
	}

	plan.ID = primitive.NewObjectID()
	if plan.CreatedAt.IsZero() {
		plan.CreatedAt = time.Now().UTC()
	}

	if _, err := r.collection.InsertOne(ctx, plan); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return primitive.NilObjectID, repository.ErrDuplicate
		}
		return primitive.NilObjectID, err
	}
	return plan.ID, nil
}

func (r *mongoMealPlanRepository) GetByUserID(ctx context.Context, userID primitive.ObjectID) (*domain.StoredMealPlan, error) {
	var plan domain.StoredMealPlan
	err := r.collection.FindOne(ctx, bson.M{"userId": userID}).Decode(&plan)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &plan, nil
}

// EnsureMealPlanIndexes enforces one active plan per user.
func EnsureMealPlanIndexes(ctx context.Context, collection *mongo.Collection) {
	if _, err := collection.Indexes().CreateOne(ctx, uniqueUserIDIndex()); err != nil {
		log.Printf("WARN: Failed to create indexes for collection %s: %v", collection.Name(), err)
	}
}
