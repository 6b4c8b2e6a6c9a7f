package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"nutriai/meal-planner/internal/domain"
)

var (
	ErrNotFound     = RepositoryError("not found")
	ErrDuplicate    = RepositoryError("already exists")
	ErrUpdateFailed = RepositoryError("update failed")
	ErrDeleteFailed = RepositoryError("delete failed")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// UserRepository stores accounts. Emails are unique.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
}

// ProfileRepository stores at most one profile per user.
type ProfileRepository interface {
	Create(ctx context.Context, profile *domain.Profile) (primitive.ObjectID, error)
	GetByUserID(ctx context.Context, userID primitive.ObjectID) (*domain.Profile, error)
	// Update replaces the profile of profile.UserID; ErrNotFound when there is none.
	Update(ctx context.Context, profile *domain.Profile) error
}

// MealPlanRepository stores the single active plan of a user together with
// its period. Create returns ErrDuplicate when the user already has a plan.
type MealPlanRepository interface {
	Create(ctx context.Context, plan *domain.StoredMealPlan) (primitive.ObjectID, error)
	GetByUserID(ctx context.Context, userID primitive.ObjectID) (*domain.StoredMealPlan, error)
}

// TrackingRepository stores the append-only completion log of a user.
type TrackingRepository interface {
	// Append adds one event atomically, creating the log when needed.
	Append(ctx context.Context, userID primitive.ObjectID, event domain.CompletionEvent) error
	// ListByUserID returns the log in insertion order; empty when there is none.
	ListByUserID(ctx context.Context, userID primitive.ObjectID) ([]domain.CompletionEvent, error)
}

// PlanLifecycle removes a plan and everything derived from it as one unit.
type PlanLifecycle interface {
	// QuitPlan deletes the user's plan and completion log and returns the
	// deleted plan. ErrNotFound when the user has no plan.
	QuitPlan(ctx context.Context, userID primitive.ObjectID) (*domain.StoredMealPlan, error)
}
