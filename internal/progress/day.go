// Package progress derives plan progress from a meal plan, its period and the
// completion log: the current plan day, the folded tracking state, completion
// counts, consumed macros and the day streak.
//
// Every function is pure. "now" is always passed in by the caller.
package progress

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"nutriai/meal-planner/internal/domain"
)

var (
	// ErrInvalidOperation is returned when a meal is toggled on a day other than
	// the current plan day.
	ErrInvalidOperation = errors.New("can only track meals for the current day")
	// ErrInvalidDayKey is returned for day keys not of the form day<N>, N >= 1.
	ErrInvalidDayKey = errors.New("invalid day key")
)

const dayDuration = 24 * time.Hour

// utcDate truncates t to midnight of its UTC calendar date.
func utcDate(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// daysBetween counts whole UTC calendar days from a to b; negative when b is
// before a.
func daysBetween(a, b time.Time) int {
	return int(utcDate(b).Sub(utcDate(a)) / dayDuration)
}

// ParseDayKey returns N for a key "day<N>".
func ParseDayKey(key string) (int, error) {
	if !strings.HasPrefix(key, domain.DayKeyPrefix) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidDayKey, key)
	}
	n, err := strconv.Atoi(strings.TrimPrefix(key, domain.DayKeyPrefix))
	if err != nil || n < 1 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidDayKey, key)
	}
	return n, nil
}

// CurrentDayKey returns the plan day that "now" falls on. The second result is
// false when the period has no start date or now lies outside the plan.
func CurrentDayKey(plan domain.MealPlan, period domain.PlanPeriod, now time.Time) (string, bool) {
	if !period.HasStart() {
		return "", false
	}
	diff := daysBetween(period.StartDate, now)
	if diff < 0 || diff >= len(plan) {
		return "", false
	}
	return domain.DayKey(diff + 1), true
}

// ToggleAllowed reports whether meals of day may be toggled at now.
func ToggleAllowed(day string, plan domain.MealPlan, period domain.PlanPeriod, now time.Time) bool {
	current, ok := CurrentDayKey(plan, period, now)
	return ok && day == current
}

// CheckToggle is ToggleAllowed as an error, for mutating callers.
func CheckToggle(day string, plan domain.MealPlan, period domain.PlanPeriod, now time.Time) error {
	if !ToggleAllowed(day, plan, period, now) {
		return ErrInvalidOperation
	}
	return nil
}

// DayDate returns the UTC calendar date of a plan day.
func DayDate(period domain.PlanPeriod, dayKey string) (time.Time, error) {
	n, err := ParseDayKey(dayKey)
	if err != nil {
		return time.Time{}, err
	}
	if !period.HasStart() {
		return time.Time{}, errors.New("plan period has no start date")
	}
	return utcDate(period.StartDate).AddDate(0, 0, n-1), nil
}

// DefaultDayKey picks the day a viewer should land on: the current day when
// there is one, otherwise the first day of the plan. Empty for an empty plan.
func DefaultDayKey(plan domain.MealPlan, period domain.PlanPeriod, now time.Time) string {
	if current, ok := CurrentDayKey(plan, period, now); ok {
		if _, exists := plan[current]; exists {
			return current
		}
	}
	keys := plan.DayKeys()
	if len(keys) == 0 {
		return ""
	}
	return keys[0]
}
