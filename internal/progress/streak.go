package progress

import (
	"time"

	"nutriai/meal-planner/internal/domain"
)

type dayTally struct {
	completed int
	total     int
}

// qualifies reports whether at least half of the day's events are completions.
func (t dayTally) qualifies() bool {
	return t.total > 0 && 2*t.completed >= t.total
}

// CalculateStreak counts consecutive UTC calendar days, walking back from now,
// on which at least half of the recorded events were completions. A day
// without any event ends the streak, except today: when today has no events
// yet the walk starts from yesterday. The walk never goes past startDate.
func CalculateStreak(events []domain.CompletionEvent, startDate, now time.Time) int {
	if startDate.IsZero() || len(events) == 0 {
		return 0
	}

	tallies := make(map[string]dayTally)
	for _, e := range events {
		if e.Timestamp.IsZero() {
			continue
		}
		key := utcDate(e.Timestamp).Format(time.DateOnly)
		t := tallies[key]
		t.total++
		if e.Completed {
			t.completed++
		}
		tallies[key] = t
	}

	start := utcDate(startDate)
	cursor := utcDate(now)
	if _, ok := tallies[cursor.Format(time.DateOnly)]; !ok {
		cursor = cursor.AddDate(0, 0, -1)
	}

	streak := 0
	for !cursor.Before(start) {
		t, ok := tallies[cursor.Format(time.DateOnly)]
		if !ok || !t.qualifies() {
			break
		}
		streak++
		cursor = cursor.AddDate(0, 0, -1)
	}
	return streak
}
