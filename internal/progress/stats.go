package progress

import (
	"time"

	"nutriai/meal-planner/internal/domain"
)

// CompletionStats counts completed meals over the whole plan and for the
// current day.
type CompletionStats struct {
	Completed      int `json:"completed"`
	Total          int `json:"total"`
	TodayCompleted int `json:"todayCompleted"`
	TodayTotal     int `json:"todayTotal"`
}

// DailyConsumedMacros sums the macros of the meals of dayKey marked completed.
// Day totals are not part of the sum.
func DailyConsumedMacros(plan domain.MealPlan, state domain.TrackingState, dayKey string) domain.Macros {
	var sum domain.Macros
	dayPlan, ok := plan[dayKey]
	if !ok {
		return sum
	}
	for mealType, item := range dayPlan.Meals {
		if state.IsCompleted(dayKey, mealType) {
			sum = sum.Add(item.Macros)
		}
	}
	return sum
}

// ComputeCompletionStats counts planned and completed meals. Today's figures
// are zero when now is outside the plan.
func ComputeCompletionStats(plan domain.MealPlan, state domain.TrackingState, period domain.PlanPeriod, now time.Time) CompletionStats {
	var stats CompletionStats
	for _, dayPlan := range plan {
		stats.Total += len(dayPlan.Meals)
	}
	for _, meals := range state {
		for _, completed := range meals {
			if completed {
				stats.Completed++
			}
		}
	}

	today, ok := CurrentDayKey(plan, period, now)
	if !ok {
		return stats
	}
	for mealType := range plan[today].Meals {
		stats.TodayTotal++
		if state.IsCompleted(today, mealType) {
			stats.TodayCompleted++
		}
	}
	return stats
}
