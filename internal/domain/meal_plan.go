package domain

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DayKeyPrefix is the prefix of every plan day key ("day1", "day2", ...).
const DayKeyPrefix = "day"

// Macros holds the four macro-nutrient figures used for meals and day totals.
type Macros struct {
	Calories float64 `bson:"calories" json:"calories"`
	Protein  float64 `bson:"protein" json:"protein"`
	Carbs    float64 `bson:"carbs" json:"carbs"`
	Fats     float64 `bson:"fats" json:"fats"`
}

// Add returns the element-wise sum of m and o.
func (m Macros) Add(o Macros) Macros {
	return Macros{
		Calories: m.Calories + o.Calories,
		Protein:  m.Protein + o.Protein,
		Carbs:    m.Carbs + o.Carbs,
		Fats:     m.Fats + o.Fats,
	}
}

// MealItem is a single meal of a plan day.
type MealItem struct {
	Meal        string `bson:"meal" json:"meal"`
	Description string `bson:"description,omitempty" json:"description,omitempty"`
	Macros      `bson:",inline"`
}

// DayPlan keeps the day's aggregate totals apart from its meals.
// Meals is keyed by meal type ("breakfast", "lunch", "dinner", "snacks", ...).
type DayPlan struct {
	Totals Macros              `bson:"totals" json:"totals"`
	Meals  map[string]MealItem `bson:"meals" json:"meals"`
}

// MealTypes returns the day's meal types in a stable order:
// the conventional four first, anything else alphabetically after them.
func (d DayPlan) MealTypes() []string {
	types := make([]string, 0, len(d.Meals))
	for t := range d.Meals {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool {
		ri, rj := mealTypeRank(types[i]), mealTypeRank(types[j])
		if ri != rj {
			return ri < rj
		}
		return types[i] < types[j]
	})
	return types
}

var conventionalMealOrder = map[string]int{
	"breakfast": 0,
	"lunch":     1,
	"dinner":    2,
	"snacks":    3,
	"snack":     3,
}

func mealTypeRank(t string) int {
	if r, ok := conventionalMealOrder[t]; ok {
		return r
	}
	return len(conventionalMealOrder)
}

// MealPlan maps day keys ("day1", "day2", ...) to the plan of that day.
type MealPlan map[string]DayPlan

// DayKeys returns the plan's day keys ordered by their numeric suffix.
// Keys without a numeric suffix sort last, alphabetically.
func (p MealPlan) DayKeys() []string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		ni, oki := dayNumber(keys[i])
		nj, okj := dayNumber(keys[j])
		switch {
		case oki && okj:
			return ni < nj
		case oki != okj:
			return oki
		default:
			return keys[i] < keys[j]
		}
	})
	return keys
}

// DayKey formats the key of the n-th plan day (1-based).
func DayKey(n int) string {
	return DayKeyPrefix + strconv.Itoa(n)
}

func dayNumber(key string) (int, bool) {
	if !strings.HasPrefix(key, DayKeyPrefix) {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimPrefix(key, DayKeyPrefix))
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

// PlanPeriod is the calendar window of a meal plan. A zero StartDate means the
// period is absent.
type PlanPeriod struct {
	StartDate  time.Time `bson:"startDate" json:"startDate"`
	ExpiryDate time.Time `bson:"expiryDate" json:"expiryDate"`
}

// HasStart reports whether the period carries a start date.
func (p PlanPeriod) HasStart() bool {
	return !p.StartDate.IsZero()
}

// StoredMealPlan is the persisted meal plan document of a user. The plan and
// its period are created and deleted together.
type StoredMealPlan struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID       primitive.ObjectID `bson:"userId" json:"userId"`
	Plan         MealPlan           `bson:"mealPlan" json:"mealPlan"`
	Period       PlanPeriod         `bson:"period" json:"period"`
	DurationDays int                `bson:"durationDays" json:"durationDays"`
	ArchiveKey   string             `bson:"archiveKey,omitempty" json:"-"` // S3 key of the raw generator output
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
}
