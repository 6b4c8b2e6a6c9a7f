package domain

import (
	"strconv"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Gender values accepted in a profile.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

// FitnessGoal values accepted in a profile.
type FitnessGoal string

const (
	GoalMaintenance FitnessGoal = "maintenance"
	GoalWeightLoss  FitnessGoal = "weightLoss"
	GoalWeightGain  FitnessGoal = "weightGain"
)

// ActivityLevel values accepted in a profile.
type ActivityLevel string

const (
	ActivitySedentary  ActivityLevel = "sedentary"
	ActivityLight      ActivityLevel = "light"
	ActivityModerate   ActivityLevel = "moderate"
	ActivityActive     ActivityLevel = "active"
	ActivityVeryActive ActivityLevel = "veryActive"
)

// Profile is the fitness and dietary questionnaire of a user. Body figures are
// kept as entered.
type Profile struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	UserID             primitive.ObjectID `bson:"userId" json:"userId"`
	Age                string             `bson:"age" json:"age"`
	Height             string             `bson:"height" json:"height"` // cm
	Weight             string             `bson:"weight" json:"weight"` // kg
	Gender             Gender             `bson:"gender" json:"gender"`
	FitnessGoal        FitnessGoal        `bson:"fitnessGoal" json:"fitnessGoal"`
	Allergies          string             `bson:"allergies,omitempty" json:"allergies,omitempty"`
	Activities         []string           `bson:"activities" json:"activities"`
	ActivityLevel      ActivityLevel      `bson:"activityLevel" json:"activityLevel"`
	MealsPerDay        string             `bson:"mealsPerDay" json:"mealsPerDay"`
	DietaryPreferences []string           `bson:"dietaryPreferences,omitempty" json:"dietaryPreferences,omitempty"`
	CreatedAt          time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt          time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// BMR returns the basal metabolic rate of the profile.
func (p *Profile) BMR() float64 {
	return CalculateBMR(p.Weight, p.Height, p.Age, p.Gender)
}

// CalculateBMR applies the Harris-Benedict equation (kcal/day). Any gender other
// than male uses the female coefficients. Unparsable figures yield 0.
func CalculateBMR(weight, height, age string, gender Gender) float64 {
	w, errW := strconv.ParseFloat(strings.TrimSpace(weight), 64)
	h, errH := strconv.ParseFloat(strings.TrimSpace(height), 64)
	a, errA := strconv.ParseFloat(strings.TrimSpace(age), 64)
	if errW != nil || errH != nil || errA != nil {
		return 0
	}
	if gender == GenderMale {
		return 88.362 + (13.397 * w) + (4.799 * h) - (5.677 * a)
	}
	return 447.593 + (9.247 * w) + (3.098 * h) - (4.330 * a)
}
