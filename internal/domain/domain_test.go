package domain

import (
	"math"
	"reflect"
	"testing"
)

func TestMealPlanDayKeysNumericOrder(t *testing.T) {
	plan := MealPlan{
		"day10": {},
		"day2":  {},
		"day1":  {},
		"extra": {},
	}

	got := plan.DayKeys()
	want := []string{"day1", "day2", "day10", "extra"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("DayKeys() = %v, want %v", got, want)
	}
}

func TestDayPlanMealTypesOrder(t *testing.T) {
	day := DayPlan{Meals: map[string]MealItem{
		"snacks":    {},
		"brunch":    {},
		"dinner":    {},
		"breakfast": {},
		"lunch":     {},
	}}

	got := day.MealTypes()
	want := []string{"breakfast", "lunch", "dinner", "snacks", "brunch"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("MealTypes() = %v, want %v", got, want)
	}
}

func TestCalculateBMR(t *testing.T) {
	tests := []struct {
		name   string
		weight string
		height string
		age    string
		gender Gender
		want   float64
	}{
		{"male", "80", "180", "30", GenderMale, 88.362 + 13.397*80 + 4.799*180 - 5.677*30},
		{"female", "60", "165", "25", GenderFemale, 447.593 + 9.247*60 + 3.098*165 - 4.330*25},
		{"unset gender uses female coefficients", "60", "165", "25", "", 447.593 + 9.247*60 + 3.098*165 - 4.330*25},
		{"unparsable", "abc", "165", "25", GenderMale, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateBMR(tt.weight, tt.height, tt.age, tt.gender)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("CalculateBMR() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMacrosAdd(t *testing.T) {
	got := Macros{Calories: 100, Protein: 10, Carbs: 5, Fats: 1}.Add(Macros{Calories: 50, Protein: 2, Carbs: 3, Fats: 4})
	want := Macros{Calories: 150, Protein: 12, Carbs: 8, Fats: 5}
	if got != want {
		t.Errorf("Add() = %+v, want %+v", got, want)
	}
}
