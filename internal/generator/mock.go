package generator

import (
	"context"
	"encoding/json"
	"fmt"

	"nutriai/meal-planner/internal/domain"
)

type mockMeal struct {
	name     string
	calories float64
	protein  float64
	carbs    float64
	fats     float64
}

var mockRotation = map[string][]mockMeal{
	"breakfast": {
		{"Greek yogurt with berries and oats", 350, 25, 45, 8},
		{"Spinach omelette with wholegrain toast", 380, 28, 30, 16},
		{"Banana peanut butter smoothie", 400, 20, 52, 14},
	},
	"lunch": {
		{"Grilled chicken quinoa bowl", 550, 42, 55, 15},
		{"Lentil soup with side salad", 480, 26, 62, 12},
		{"Tuna wrap with mixed greens", 500, 35, 45, 18},
	},
	"dinner": {
		{"Baked salmon with sweet potato", 620, 40, 50, 24},
		{"Turkey chili with brown rice", 600, 45, 65, 14},
		{"Tofu stir fry with vegetables", 540, 28, 58, 20},
	},
	"snacks": {
		{"Apple with almonds", 220, 6, 25, 12},
		{"Cottage cheese with pineapple", 180, 18, 20, 3},
		{"Hummus with carrot sticks", 200, 7, 22, 9},
	},
}

// MockGenerator returns a deterministic plan that rotates through a fixed set
// of meals. The fitness goal scales portions.
type MockGenerator struct{}

func NewMockGenerator() *MockGenerator {
	return &MockGenerator{}
}

func (g *MockGenerator) GenerateMealPlan(ctx context.Context, req Request) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	if req.DurationDays < 1 {
		return Result{}, fmt.Errorf("duration must be positive, got %d", req.DurationDays)
	}

	scale := 1.0
	switch req.Profile.FitnessGoal {
	case domain.GoalWeightLoss:
		scale = 0.85
	case domain.GoalWeightGain:
		scale = 1.2
	}

	// Built in the same shape the model returns so the raw output goes
	// through the same parser.
	days := make(map[string]map[string]any, req.DurationDays)
	for d := 0; d < req.DurationDays; d++ {
		day := make(map[string]any, len(mockRotation)+4)
		var totals domain.Macros
		for mealType, options := range mockRotation {
			m := options[d%len(options)]
			macros := domain.Macros{
				Calories: m.calories * scale,
				Protein:  m.protein * scale,
				Carbs:    m.carbs * scale,
				Fats:     m.fats * scale,
			}
			day[mealType] = map[string]any{
				"meal":     m.name,
				"calories": macros.Calories,
				"protein":  macros.Protein,
				"carbs":    macros.Carbs,
				"fats":     macros.Fats,
			}
			totals = totals.Add(macros)
		}
		day["calories"] = totals.Calories
		day["protein"] = totals.Protein
		day["carbs"] = totals.Carbs
		day["fats"] = totals.Fats
		days[domain.DayKey(d+1)] = day
	}

	raw, err := json.Marshal(days)
	if err != nil {
		return Result{}, err
	}
	plan, err := ParseMealPlan(string(raw))
	if err != nil {
		return Result{}, err
	}
	return Result{Plan: plan, Raw: string(raw)}, nil
}

func (g *MockGenerator) Close() error { return nil }
