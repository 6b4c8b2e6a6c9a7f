package mongo

import (
	"context"
	"errors"
	"log"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"nutriai/meal-planner/internal/domain"
	"nutriai/meal-planner/internal/repository"
)

// illegalOperationCode is returned by standalone servers for transactions.
const illegalOperationCode = 20

type mongoPlanLifecycle struct {
	client   *mongo.Client
	plans    *mongo.Collection
	tracking *mongo.Collection
}

// NewMongoPlanLifecycle removes plans and their completion logs together.
func NewMongoPlanLifecycle(db *mongo.Database) repository.PlanLifecycle {
	return &mongoPlanLifecycle{
		client:   db.Client(),
		plans:    db.Collection(mealPlanCollectionName),
		tracking: db.Collection(trackingCollectionName),
	}
}

// QuitPlan deletes plan and log inside a transaction. Servers without
// transaction support (standalone mongod) get the same deletes in sequence.
func (l *mongoPlanLifecycle) QuitPlan(ctx context.Context, userID primitive.ObjectID) (*domain.StoredMealPlan, error) {
	session, err := l.client.StartSession()
	if err != nil {
		return nil, err
	}
	defer session.EndSession(ctx)

	result, err := session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return l.deletePlanAndLog(sc, userID)
	})
	if err != nil {
		var cmdErr mongo.CommandError
		if errors.As(err, &cmdErr) && cmdErr.Code == illegalOperationCode {
			log.Printf("WARN: Transactions unavailable, quitting plan of user %s without one", userID.Hex())
			return l.deletePlanAndLog(ctx, userID)
		}
		return nil, err
	}
	return result.(*domain.StoredMealPlan), nil
}

func (l *mongoPlanLifecycle) deletePlanAndLog(ctx context.Context, userID primitive.ObjectID) (*domain.StoredMealPlan, error) {
	filter := bson.M{"userId": userID}

	var plan domain.StoredMealPlan
	if err := l.plans.FindOneAndDelete(ctx, filter).Decode(&plan); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	if _, err := l.tracking.DeleteMany(ctx, filter); err != nil {
		log.Printf("ERROR: Failed to delete tracking of user %s: %v", userID.Hex(), err)
		return nil, repository.ErrDeleteFailed
	}
	return &plan, nil
}
