package generator

import (
	"encoding/json"
	"fmt"
	"strings"

	"nutriai/meal-planner/internal/domain"
)

const planShape = `{
  "day1": {
    "breakfast": {"meal": "meal name", "description": "optional details", "calories": 300, "protein": 20, "carbs": 30, "fats": 10},
    "lunch": {"meal": "meal name", "description": "optional details", "calories": 300, "protein": 20, "carbs": 30, "fats": 10},
    "dinner": {"meal": "meal name", "description": "optional details", "calories": 300, "protein": 20, "carbs": 30, "fats": 10},
    "snacks": {"meal": "meal name", "description": "optional details", "calories": 300, "protein": 20, "carbs": 30, "fats": 10},
    "calories": 1200, "protein": 80, "carbs": 120, "fats": 40
  }
}`

// BuildPrompt renders the generation prompt for profile over days days.
func BuildPrompt(profile domain.Profile, days int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Generate a %d-day meal plan for a person with:\n", days)
	fmt.Fprintf(&b, "- Fitness goal: %s\n", profile.FitnessGoal)
	fmt.Fprintf(&b, "- Allergies: %s\n", jsonList(splitList(profile.Allergies)))
	fmt.Fprintf(&b, "- Activity level: %s\n", profile.ActivityLevel)
	fmt.Fprintf(&b, "- Dietary preferences: %s\n", jsonList(profile.DietaryPreferences))
	if profile.MealsPerDay != "" {
		fmt.Fprintf(&b, "- Meals per day: %s\n", profile.MealsPerDay)
	}
	if bmr := profile.BMR(); bmr > 0 {
		fmt.Fprintf(&b, "- Basal metabolic rate: %.0f kcal\n", bmr)
	}
	fmt.Fprintf(&b, "\nUse the keys day1 to day%d. ", days)
	b.WriteString("Return ONLY a JSON object with no comments or formatting:\n")
	b.WriteString(planShape)
	return b.String()
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func jsonList(items []string) string {
	if items == nil {
		items = []string{}
	}
	b, _ := json.Marshal(items)
	return string(b)
}
