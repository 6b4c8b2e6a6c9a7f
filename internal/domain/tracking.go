package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CompletionEvent records one toggle of a meal on a plan day. Events are
// append-only; the latest event per (Day, MealType) is the current state.
type CompletionEvent struct {
	Day       string    `bson:"day" json:"day"`
	MealType  string    `bson:"mealType" json:"mealType"`
	Completed bool      `bson:"completed" json:"completed"`
	Timestamp time.Time `bson:"timestamp" json:"timestamp"`
}

// MealTracking is the per-user completion log document.
type MealTracking struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	UserID         primitive.ObjectID `bson:"userId" json:"userId"`
	CompletedMeals []CompletionEvent  `bson:"completedMeals" json:"completedMeals"`
}

// TrackingState is the point-in-time projection of a completion log:
// day key -> meal type -> latest completed flag.
type TrackingState map[string]map[string]bool

// IsCompleted reports the latest flag for a meal, false when never tracked.
func (s TrackingState) IsCompleted(day, mealType string) bool {
	return s[day][mealType]
}
