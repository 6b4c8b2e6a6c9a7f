package progress

import (
	"errors"
	"testing"
	"time"

	"nutriai/meal-planner/internal/domain"
)

func mustTime(t *testing.T, s string) time.Time {
	t.Helper()
	ts, err := time.Parse(time.RFC3339, s)
	if err != nil {
		t.Fatalf("parse %q: %v", s, err)
	}
	return ts
}

func threeDayPlan() domain.MealPlan {
	day := func(cal float64) domain.DayPlan {
		return domain.DayPlan{
			Totals: domain.Macros{Calories: 9999, Protein: 999, Carbs: 999, Fats: 999},
			Meals: map[string]domain.MealItem{
				"breakfast": {Meal: "Oats", Macros: domain.Macros{Calories: cal, Protein: 10, Carbs: 40, Fats: 5}},
				"lunch":     {Meal: "Salad", Macros: domain.Macros{Calories: 500, Protein: 30, Carbs: 20, Fats: 15}},
				"dinner":    {Meal: "Salmon", Macros: domain.Macros{Calories: 600, Protein: 40, Carbs: 30, Fats: 25}},
				"snacks":    {Meal: "Nuts", Macros: domain.Macros{Calories: 200, Protein: 6, Carbs: 8, Fats: 16}},
			},
		}
	}
	return domain.MealPlan{"day1": day(300), "day2": day(310), "day3": day(320)}
}

func TestCurrentDayKey(t *testing.T) {
	start := mustTime(t, "2024-01-01T00:00:00Z")
	plan := threeDayPlan()
	period := domain.PlanPeriod{StartDate: start, ExpiryDate: start.AddDate(0, 0, 2)}

	tests := []struct {
		name   string
		now    string
		want   string
		wantOK bool
	}{
		{"first day", "2024-01-01T00:00:00Z", "day1", true},
		{"first day late", "2024-01-01T23:59:59Z", "day1", true},
		{"third day", "2024-01-03T10:00:00Z", "day3", true},
		{"after plan", "2024-01-10T00:00:00Z", "", false},
		{"day after last", "2024-01-04T00:00:00Z", "", false},
		{"before start", "2023-12-31T23:00:00Z", "", false},
		{"offset zone resolves in utc", "2024-01-02T01:30:00+03:00", "day1", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := CurrentDayKey(plan, period, mustTime(t, tt.now))
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("CurrentDayKey() = (%q, %v), want (%q, %v)", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestCurrentDayKeyWithoutPeriod(t *testing.T) {
	if got, ok := CurrentDayKey(threeDayPlan(), domain.PlanPeriod{}, time.Now()); ok || got != "" {
		t.Errorf("CurrentDayKey() = (%q, %v), want no current day", got, ok)
	}
}

func TestCurrentDayKeyStaysInsidePlan(t *testing.T) {
	start := mustTime(t, "2024-03-30T15:00:00Z")
	plan := threeDayPlan()
	period := domain.PlanPeriod{StartDate: start}
	for h := -48; h < 24*8; h++ {
		now := start.Add(time.Duration(h) * time.Hour)
		key, ok := CurrentDayKey(plan, period, now)
		if !ok {
			continue
		}
		n, err := ParseDayKey(key)
		if err != nil {
			t.Fatalf("ParseDayKey(%q): %v", key, err)
		}
		if n < 1 || n > len(plan) {
			t.Fatalf("now %v: day %d outside plan of %d days", now, n, len(plan))
		}
	}
}

func TestFoldTrackingLaterEventWins(t *testing.T) {
	t1 := mustTime(t, "2024-01-01T08:00:00Z")
	t2 := t1.Add(time.Minute)
	events := []domain.CompletionEvent{
		{Day: "day1", MealType: "breakfast", Completed: true, Timestamp: t1},
		{Day: "day1", MealType: "breakfast", Completed: false, Timestamp: t2},
	}
	state := FoldTracking(events)
	if state.IsCompleted("day1", "breakfast") {
		t.Errorf("day1.breakfast completed, want false")
	}
	if _, ok := state["day1"]["breakfast"]; !ok {
		t.Errorf("day1.breakfast missing from state")
	}
}

func TestFoldTrackingOrdersByTimestamp(t *testing.T) {
	t1 := mustTime(t, "2024-01-01T08:00:00Z")
	events := []domain.CompletionEvent{
		{Day: "day1", MealType: "lunch", Completed: true, Timestamp: t1.Add(time.Hour)},
		{Day: "day1", MealType: "lunch", Completed: false, Timestamp: t1},
	}
	if !FoldTracking(events).IsCompleted("day1", "lunch") {
		t.Errorf("want the event with the later timestamp to win")
	}
	if !events[0].Completed || events[1].Completed {
		t.Errorf("input slice reordered")
	}
}

func TestFoldTrackingEqualTimestampsKeepInputOrder(t *testing.T) {
	ts := mustTime(t, "2024-01-01T08:00:00Z")
	events := []domain.CompletionEvent{
		{Day: "day1", MealType: "dinner", Completed: false, Timestamp: ts},
		{Day: "day1", MealType: "dinner", Completed: true, Timestamp: ts},
	}
	if !FoldTracking(events).IsCompleted("day1", "dinner") {
		t.Errorf("want the later event in input order to win on a tie")
	}
}

func TestFoldTrackingIdempotentAppend(t *testing.T) {
	ts := mustTime(t, "2024-01-01T08:00:00Z")
	events := []domain.CompletionEvent{
		{Day: "day1", MealType: "breakfast", Completed: true, Timestamp: ts},
		{Day: "day2", MealType: "lunch", Completed: true, Timestamp: ts.Add(time.Hour)},
	}
	before := FoldTracking(events)
	again := append(append([]domain.CompletionEvent{}, events...), domain.CompletionEvent{
		Day: "day2", MealType: "lunch", Completed: true, Timestamp: ts.Add(2 * time.Hour),
	})
	after := FoldTracking(again)
	if len(before) != len(after) {
		t.Fatalf("state size changed: %d -> %d", len(before), len(after))
	}
	for d, meals := range before {
		for m, v := range meals {
			if after[d][m] != v {
				t.Errorf("%s.%s = %v after repeat, want %v", d, m, after[d][m], v)
			}
		}
	}
}

func TestFoldTrackingEmpty(t *testing.T) {
	state := FoldTracking(nil)
	if state == nil || len(state) != 0 {
		t.Errorf("FoldTracking(nil) = %v, want empty state", state)
	}
}

func TestDailyConsumedMacros(t *testing.T) {
	plan := threeDayPlan()
	state := domain.TrackingState{"day1": {"breakfast": true, "dinner": true, "lunch": false}}
	got := DailyConsumedMacros(plan, state, "day1")
	want := domain.Macros{Calories: 900, Protein: 50, Carbs: 70, Fats: 30}
	if got != want {
		t.Errorf("DailyConsumedMacros() = %+v, want %+v", got, want)
	}
	if got := DailyConsumedMacros(plan, state, "day9"); got != (domain.Macros{}) {
		t.Errorf("unknown day = %+v, want zero", got)
	}
	if got := DailyConsumedMacros(plan, domain.TrackingState{}, "day2"); got != (domain.Macros{}) {
		t.Errorf("nothing completed = %+v, want zero", got)
	}
}

func TestComputeCompletionStats(t *testing.T) {
	start := mustTime(t, "2024-01-01T00:00:00Z")
	plan := threeDayPlan()
	period := domain.PlanPeriod{StartDate: start}
	state := domain.TrackingState{
		"day1": {"breakfast": true, "lunch": true, "dinner": false},
		"day2": {"breakfast": true},
	}

	got := ComputeCompletionStats(plan, state, period, mustTime(t, "2024-01-02T12:00:00Z"))
	want := CompletionStats{Completed: 3, Total: 12, TodayCompleted: 1, TodayTotal: 4}
	if got != want {
		t.Errorf("ComputeCompletionStats() = %+v, want %+v", got, want)
	}

	got = ComputeCompletionStats(plan, state, period, mustTime(t, "2024-02-01T12:00:00Z"))
	want = CompletionStats{Completed: 3, Total: 12}
	if got != want {
		t.Errorf("outside plan = %+v, want %+v", got, want)
	}
}

func TestComputeCompletionStatsMonotonic(t *testing.T) {
	start := mustTime(t, "2024-01-01T00:00:00Z")
	plan := threeDayPlan()
	period := domain.PlanPeriod{StartDate: start}
	now := start.Add(time.Hour)
	events := []domain.CompletionEvent{
		{Day: "day1", MealType: "breakfast", Completed: true, Timestamp: now},
	}
	before := ComputeCompletionStats(plan, FoldTracking(events), period, now)
	events = append(events, domain.CompletionEvent{Day: "day1", MealType: "lunch", Completed: true, Timestamp: now.Add(time.Minute)})
	after := ComputeCompletionStats(plan, FoldTracking(events), period, now)
	if after.Completed < before.Completed || after.TodayCompleted < before.TodayCompleted {
		t.Errorf("completion decreased: %+v -> %+v", before, after)
	}
	if after.Completed != before.Completed+1 {
		t.Errorf("Completed = %d, want %d", after.Completed, before.Completed+1)
	}
}

func streakEvents(t *testing.T, days ...string) []domain.CompletionEvent {
	t.Helper()
	var events []domain.CompletionEvent
	for i, d := range days {
		ts := mustTime(t, d+"T09:00:00Z")
		events = append(events,
			domain.CompletionEvent{Day: domain.DayKey(i + 1), MealType: "breakfast", Completed: true, Timestamp: ts},
			domain.CompletionEvent{Day: domain.DayKey(i + 1), MealType: "lunch", Completed: false, Timestamp: ts.Add(time.Hour)},
		)
	}
	return events
}

func TestCalculateStreak(t *testing.T) {
	start := mustTime(t, "2024-01-01T00:00:00Z")

	tests := []struct {
		name   string
		events []domain.CompletionEvent
		now    string
		want   int
	}{
		{
			name:   "three days ending yesterday",
			events: streakEvents(t, "2024-01-01", "2024-01-02", "2024-01-03"),
			now:    "2024-01-04T08:00:00Z",
			want:   3,
		},
		{
			name:   "today counts when it has events",
			events: streakEvents(t, "2024-01-01", "2024-01-02", "2024-01-03"),
			now:    "2024-01-03T20:00:00Z",
			want:   3,
		},
		{
			name:   "gap ends the streak",
			events: streakEvents(t, "2024-01-01", "2024-01-03"),
			now:    "2024-01-03T20:00:00Z",
			want:   1,
		},
		{
			name:   "no events yesterday or today",
			events: streakEvents(t, "2024-01-01"),
			now:    "2024-01-05T10:00:00Z",
			want:   0,
		},
		{
			name: "below half ends the streak",
			events: append(streakEvents(t, "2024-01-01", "2024-01-02"),
				domain.CompletionEvent{Day: "day2", MealType: "dinner", Completed: false, Timestamp: mustTime(t, "2024-01-02T19:00:00Z")},
			),
			now:  "2024-01-03T10:00:00Z",
			want: 0,
		},
		{
			name:   "events before start are ignored",
			events: streakEvents(t, "2023-12-30", "2023-12-31", "2024-01-01"),
			now:    "2024-01-01T20:00:00Z",
			want:   1,
		},
		{
			name:   "no events",
			events: nil,
			now:    "2024-01-02T10:00:00Z",
			want:   0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CalculateStreak(tt.events, start, mustTime(t, tt.now)); got != tt.want {
				t.Errorf("CalculateStreak() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestCalculateStreakWithoutStartDate(t *testing.T) {
	events := streakEvents(t, "2024-01-01")
	if got := CalculateStreak(events, time.Time{}, mustTime(t, "2024-01-01T10:00:00Z")); got != 0 {
		t.Errorf("CalculateStreak() = %d, want 0", got)
	}
}

func TestCalculateStreakBounded(t *testing.T) {
	start := mustTime(t, "2024-01-01T00:00:00Z")
	events := streakEvents(t, "2024-01-01", "2024-01-02", "2024-01-03", "2024-01-04", "2024-01-05")
	for d := 0; d < 8; d++ {
		now := start.AddDate(0, 0, d).Add(12 * time.Hour)
		got := CalculateStreak(events, start, now)
		if bound := d + 1; got > bound {
			t.Errorf("day %d: streak %d exceeds %d days since start", d, got, bound)
		}
	}
}

func TestToggleAllowed(t *testing.T) {
	start := mustTime(t, "2024-01-01T00:00:00Z")
	plan := threeDayPlan()
	period := domain.PlanPeriod{StartDate: start}
	now := mustTime(t, "2024-01-02T09:00:00Z")

	if !ToggleAllowed("day2", plan, period, now) {
		t.Errorf("day2 should be toggleable on 2024-01-02")
	}
	for _, d := range []string{"day1", "day3", "day7", "breakfast"} {
		if ToggleAllowed(d, plan, period, now) {
			t.Errorf("ToggleAllowed(%q) = true, want false", d)
		}
		if err := CheckToggle(d, plan, period, now); !errors.Is(err, ErrInvalidOperation) {
			t.Errorf("CheckToggle(%q) = %v, want ErrInvalidOperation", d, err)
		}
	}
	if ToggleAllowed("day1", plan, domain.PlanPeriod{}, now) {
		t.Errorf("toggle without a period should be rejected")
	}
	if err := CheckToggle("day2", plan, period, now); err != nil {
		t.Errorf("CheckToggle(day2) = %v", err)
	}
}

func TestParseDayKey(t *testing.T) {
	tests := []struct {
		key     string
		want    int
		wantErr bool
	}{
		{"day1", 1, false},
		{"day12", 12, false},
		{"day0", 0, true},
		{"day-1", 0, true},
		{"dayx", 0, true},
		{"1", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseDayKey(tt.key)
		if tt.wantErr {
			if !errors.Is(err, ErrInvalidDayKey) {
				t.Errorf("ParseDayKey(%q) err = %v, want ErrInvalidDayKey", tt.key, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("ParseDayKey(%q) = (%d, %v), want %d", tt.key, got, err, tt.want)
		}
	}
}

func TestDayDate(t *testing.T) {
	period := domain.PlanPeriod{StartDate: mustTime(t, "2024-01-30T18:00:00Z")}
	got, err := DayDate(period, "day3")
	if err != nil {
		t.Fatalf("DayDate: %v", err)
	}
	if want := mustTime(t, "2024-02-01T00:00:00Z"); !got.Equal(want) {
		t.Errorf("DayDate() = %v, want %v", got, want)
	}
	if _, err := DayDate(domain.PlanPeriod{}, "day1"); err == nil {
		t.Errorf("DayDate without period should fail")
	}
	if _, err := DayDate(period, "tomorrow"); !errors.Is(err, ErrInvalidDayKey) {
		t.Errorf("DayDate(tomorrow) = %v, want ErrInvalidDayKey", err)
	}
}

func TestDefaultDayKey(t *testing.T) {
	start := mustTime(t, "2024-01-01T00:00:00Z")
	plan := threeDayPlan()
	period := domain.PlanPeriod{StartDate: start}

	if got := DefaultDayKey(plan, period, mustTime(t, "2024-01-02T10:00:00Z")); got != "day2" {
		t.Errorf("DefaultDayKey() = %q, want day2", got)
	}
	if got := DefaultDayKey(plan, period, mustTime(t, "2024-03-01T10:00:00Z")); got != "day1" {
		t.Errorf("DefaultDayKey() outside plan = %q, want day1", got)
	}
	if got := DefaultDayKey(domain.MealPlan{}, period, start); got != "" {
		t.Errorf("DefaultDayKey() empty plan = %q, want empty", got)
	}
}
