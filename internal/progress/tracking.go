package progress

import (
	"sort"

	"nutriai/meal-planner/internal/domain"
)

// FoldTracking projects a completion log onto the latest flag per
// (day, meal type). Events are ordered by timestamp; equal timestamps keep
// their input order. The input slice is not modified.
func FoldTracking(events []domain.CompletionEvent) domain.TrackingState {
	ordered := make([]domain.CompletionEvent, len(events))
	copy(ordered, events)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Timestamp.Before(ordered[j].Timestamp)
	})

	state := make(domain.TrackingState)
	for _, e := range ordered {
		meals, ok := state[e.Day]
		if !ok {
			meals = make(map[string]bool)
			state[e.Day] = meals
		}
		meals[e.MealType] = e.Completed
	}
	return state
}
