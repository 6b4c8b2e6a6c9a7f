package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"nutriai/meal-planner/internal/domain"
	"nutriai/meal-planner/internal/repository"
)

func TestUserRepository(t *testing.T) {
	ctx := context.Background()
	users := NewStore().Users()

	u := &domain.User{Name: "Ann", Email: "ann@example.com", PasswordHash: "hash"}
	id, err := users.Create(ctx, u)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if id.IsZero() || u.ID != id {
		t.Fatalf("Create returned id %v, user id %v", id, u.ID)
	}

	if _, err := users.Create(ctx, &domain.User{Email: "ann@example.com", PasswordHash: "x"}); !errors.Is(err, repository.ErrDuplicate) {
		t.Errorf("duplicate email err = %v, want ErrDuplicate", err)
	}

	got, err := users.GetByEmail(ctx, "ann@example.com")
	if err != nil || got.ID != id {
		t.Errorf("GetByEmail = (%v, %v)", got, err)
	}
	if _, err := users.GetByID(ctx, primitive.NewObjectID()); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("GetByID unknown err = %v, want ErrNotFound", err)
	}
}

func TestProfileRepository(t *testing.T) {
	ctx := context.Background()
	profiles := NewStore().Profiles()
	userID := primitive.NewObjectID()

	p := &domain.Profile{UserID: userID, Age: "30", DietaryPreferences: []string{"vegan"}}
	if _, err := profiles.Create(ctx, p); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := profiles.Create(ctx, &domain.Profile{UserID: userID}); !errors.Is(err, repository.ErrDuplicate) {
		t.Errorf("second profile err = %v, want ErrDuplicate", err)
	}

	p.DietaryPreferences[0] = "mutated"
	got, err := profiles.GetByUserID(ctx, userID)
	if err != nil {
		t.Fatalf("GetByUserID: %v", err)
	}
	if got.DietaryPreferences[0] != "vegan" {
		t.Errorf("stored profile shares memory with caller")
	}

	if err := profiles.Update(ctx, &domain.Profile{UserID: userID, Age: "31"}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	got, _ = profiles.GetByUserID(ctx, userID)
	if got.Age != "31" || got.ID != p.ID || !got.CreatedAt.Equal(p.CreatedAt) {
		t.Errorf("after update = %+v", got)
	}

	if err := profiles.Update(ctx, &domain.Profile{UserID: primitive.NewObjectID()}); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("update unknown err = %v, want ErrNotFound", err)
	}
}

func samplePlan(userID primitive.ObjectID) *domain.StoredMealPlan {
	return &domain.StoredMealPlan{
		UserID: userID,
		Plan: domain.MealPlan{
			"day1": {Meals: map[string]domain.MealItem{"lunch": {Meal: "Soup"}}},
		},
		Period:       domain.PlanPeriod{StartDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
		DurationDays: 1,
	}
}

func TestMealPlanRepositoryOnePlanPerUser(t *testing.T) {
	ctx := context.Background()
	plans := NewStore().MealPlans()
	userID := primitive.NewObjectID()

	plan := samplePlan(userID)
	if _, err := plans.Create(ctx, plan); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := plans.Create(ctx, samplePlan(userID)); !errors.Is(err, repository.ErrDuplicate) {
		t.Errorf("second plan err = %v, want ErrDuplicate", err)
	}

	plan.Plan["day1"].Meals["lunch"] = domain.MealItem{Meal: "mutated"}
	got, err := plans.GetByUserID(ctx, userID)
	if err != nil {
		t.Fatalf("GetByUserID: %v", err)
	}
	if got.Plan["day1"].Meals["lunch"].Meal != "Soup" {
		t.Errorf("stored plan shares memory with caller")
	}
	if !got.Period.HasStart() {
		t.Errorf("period not stored with plan")
	}
}

func TestTrackingAppendAndQuit(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	userID := primitive.NewObjectID()

	events, err := store.Tracking().ListByUserID(ctx, userID)
	if err != nil || events == nil || len(events) != 0 {
		t.Fatalf("empty log = (%v, %v), want empty slice", events, err)
	}

	if _, err := store.MealPlans().Create(ctx, samplePlan(userID)); err != nil {
		t.Fatalf("Create plan: %v", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ev := domain.CompletionEvent{Day: "day1", MealType: "lunch", Completed: i%2 == 0, Timestamp: time.Now()}
			if err := store.Tracking().Append(ctx, userID, ev); err != nil {
				t.Errorf("Append: %v", err)
			}
		}(i)
	}
	wg.Wait()

	events, _ = store.Tracking().ListByUserID(ctx, userID)
	if len(events) != 50 {
		t.Fatalf("got %d events, want 50", len(events))
	}

	quit, err := store.Lifecycle().QuitPlan(ctx, userID)
	if err != nil {
		t.Fatalf("QuitPlan: %v", err)
	}
	if quit.UserID != userID {
		t.Errorf("QuitPlan returned plan of %v", quit.UserID)
	}
	if _, err := store.MealPlans().GetByUserID(ctx, userID); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("plan still present after quit: %v", err)
	}
	if events, _ := store.Tracking().ListByUserID(ctx, userID); len(events) != 0 {
		t.Errorf("tracking still has %d events after quit", len(events))
	}
	if _, err := store.Lifecycle().QuitPlan(ctx, userID); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("second quit err = %v, want ErrNotFound", err)
	}
}
