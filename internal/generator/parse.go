package generator

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"nutriai/meal-planner/internal/domain"
)

var totalKeys = map[string]bool{"calories": true, "protein": true, "carbs": true, "fats": true}

// cleanResponse strips markdown fences and anything around the outermost
// JSON object.
func cleanResponse(raw string) string {
	s := strings.ReplaceAll(raw, "```json", "")
	s = strings.ReplaceAll(s, "```", "")
	s = strings.TrimSpace(s)
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start != -1 && end > start {
		s = s[start : end+1]
	}
	return s
}

// ParseMealPlan reads the model's output into a MealPlan. The days must be
// exactly day1..dayN. Inside a day the numeric calories/protein/carbs/fats
// keys become the day totals and every object value becomes a meal.
func ParseMealPlan(raw string) (domain.MealPlan, error) {
	var days map[string]map[string]json.RawMessage
	if err := json.Unmarshal([]byte(cleanResponse(raw)), &days); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPlan, err)
	}
	if len(days) == 0 {
		return nil, fmt.Errorf("%w: no days", ErrMalformedPlan)
	}

	plan := make(domain.MealPlan, len(days))
	for key, fields := range days {
		if !isDayKey(key) {
			return nil, fmt.Errorf("%w: unexpected day key %q", ErrMalformedPlan, key)
		}
		day, err := parseDay(fields)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrMalformedPlan, key, err)
		}
		plan[key] = day
	}
	for n := 1; n <= len(plan); n++ {
		if _, ok := plan[domain.DayKey(n)]; !ok {
			return nil, fmt.Errorf("%w: days must run day1 to day%d, %s is missing", ErrMalformedPlan, len(plan), domain.DayKey(n))
		}
	}
	return plan, nil
}

func isDayKey(key string) bool {
	n, err := strconv.Atoi(strings.TrimPrefix(key, domain.DayKeyPrefix))
	return strings.HasPrefix(key, domain.DayKeyPrefix) && err == nil && n >= 1
}

func parseDay(fields map[string]json.RawMessage) (domain.DayPlan, error) {
	day := domain.DayPlan{Meals: make(map[string]domain.MealItem)}
	for name, value := range fields {
		trimmed := strings.TrimSpace(string(value))
		if strings.HasPrefix(trimmed, "{") {
			item, err := parseMeal(value)
			if err != nil {
				return day, fmt.Errorf("meal %q: %v", name, err)
			}
			day.Meals[name] = item
			continue
		}
		if !totalKeys[name] {
			continue
		}
		n, err := number(value)
		if err != nil {
			return day, fmt.Errorf("total %q: %v", name, err)
		}
		setMacro(&day.Totals, name, n)
	}
	if len(day.Meals) == 0 {
		return day, fmt.Errorf("no meals")
	}
	return day, nil
}

func parseMeal(value json.RawMessage) (domain.MealItem, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(value, &fields); err != nil {
		return domain.MealItem{}, err
	}
	var item domain.MealItem
	for name, v := range fields {
		switch name {
		case "meal":
			item.Meal = text(v)
		case "description":
			item.Description = text(v)
		default:
			if !totalKeys[name] {
				continue
			}
			n, err := number(v)
			if err != nil {
				return item, fmt.Errorf("%s: %v", name, err)
			}
			setMacro(&item.Macros, name, n)
		}
	}
	return item, nil
}

func setMacro(m *domain.Macros, name string, v float64) {
	switch name {
	case "calories":
		m.Calories = v
	case "protein":
		m.Protein = v
	case "carbs":
		m.Carbs = v
	case "fats":
		m.Fats = v
	}
}

// number accepts JSON numbers, numeric strings and null (as zero).
func number(v json.RawMessage) (float64, error) {
	var f float64
	if err := json.Unmarshal(v, &f); err == nil {
		return f, nil
	}
	var s string
	if err := json.Unmarshal(v, &s); err != nil {
		if strings.TrimSpace(string(v)) == "null" {
			return 0, nil
		}
		return 0, fmt.Errorf("not a number: %s", v)
	}
	s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "g"))
	if s == "" {
		return 0, nil
	}
	return strconv.ParseFloat(s, 64)
}

func text(v json.RawMessage) string {
	var s string
	if err := json.Unmarshal(v, &s); err != nil {
		return strings.Trim(string(v), `"`)
	}
	return s
}
