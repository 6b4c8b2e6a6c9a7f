package mongo

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"nutriai/meal-planner/internal/domain"
	"nutriai/meal-planner/internal/repository"
)

// testDB connects to MONGO_TEST_URI and returns a throwaway database.
func testDB(t *testing.T) *mongo.Database {
	t.Helper()
	uri := os.Getenv("MONGO_TEST_URI")
	if uri == "" {
		t.Skip("MONGO_TEST_URI not set")
	}
	client, err := ConnectDB(uri)
	if err != nil {
		t.Fatalf("ConnectDB: %v", err)
	}
	db := client.Database("nutriai_test_" + primitive.NewObjectID().Hex())
	EnsureIndexes(context.Background(), db)
	t.Cleanup(func() {
		_ = db.Drop(context.Background())
		_ = DisconnectDB(client)
	})
	return db
}

func TestMongoMealPlanAndTracking(t *testing.T) {
	db := testDB(t)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	plans := NewMongoMealPlanRepository(db)
	tracking := NewMongoTrackingRepository(db)
	lifecycle := NewMongoPlanLifecycle(db)
	userID := primitive.NewObjectID()

	plan := &domain.StoredMealPlan{
		UserID: userID,
		Plan: domain.MealPlan{
			"day1": {
				Totals: domain.Macros{Calories: 500},
				Meals:  map[string]domain.MealItem{"lunch": {Meal: "Soup", Macros: domain.Macros{Calories: 500}}},
			},
		},
		Period:       domain.PlanPeriod{StartDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
		DurationDays: 1,
	}
	if _, err := plans.Create(ctx, plan); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := plans.Create(ctx, &domain.StoredMealPlan{UserID: userID, Plan: plan.Plan}); !errors.Is(err, repository.ErrDuplicate) {
		t.Errorf("second Create err = %v, want ErrDuplicate", err)
	}

	got, err := plans.GetByUserID(ctx, userID)
	if err != nil {
		t.Fatalf("GetByUserID: %v", err)
	}
	if got.Plan["day1"].Meals["lunch"].Calories != 500 || !got.Period.StartDate.Equal(plan.Period.StartDate) {
		t.Errorf("round-tripped plan = %+v", got)
	}

	for i := 0; i < 3; i++ {
		ev := domain.CompletionEvent{Day: "day1", MealType: "lunch", Completed: i%2 == 0, Timestamp: time.Now().UTC()}
		if err := tracking.Append(ctx, userID, ev); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}
	events, err := tracking.ListByUserID(ctx, userID)
	if err != nil || len(events) != 3 {
		t.Fatalf("ListByUserID = (%d events, %v), want 3", len(events), err)
	}

	if _, err := lifecycle.QuitPlan(ctx, userID); err != nil {
		t.Fatalf("QuitPlan: %v", err)
	}
	if _, err := plans.GetByUserID(ctx, userID); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("plan after quit err = %v, want ErrNotFound", err)
	}
	if events, _ := tracking.ListByUserID(ctx, userID); len(events) != 0 {
		t.Errorf("%d events after quit, want 0", len(events))
	}
}
