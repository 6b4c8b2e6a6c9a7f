package service

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"nutriai/meal-planner/internal/domain"
	"nutriai/meal-planner/internal/progress"
	"nutriai/meal-planner/internal/repository"
)

var (
	// ErrUnknownMeal is returned when a toggled meal type is not planned for that day.
	ErrUnknownMeal = errors.New("meal type is not part of this plan day")
)

// TrackingOverview is the progress of a user's active plan at one point in time.
type TrackingOverview struct {
	TrackingState domain.TrackingState     `json:"trackingState"`
	Stats         progress.CompletionStats `json:"stats"`
	Streak        int                      `json:"streak"`
	CurrentDay    string                   `json:"currentDay,omitempty"`
	DefaultDay    string                   `json:"defaultDay"`
	TodayConsumed domain.Macros            `json:"todayConsumed"`
	TodayPlanned  domain.Macros            `json:"todayPlanned"`
	Period        domain.PlanPeriod        `json:"period"`
}

type TrackingService interface {
	// Toggle records a completion flag for a meal of the current plan day and
	// returns the updated overview. Other days fail with progress.ErrInvalidOperation.
	Toggle(ctx context.Context, userID primitive.ObjectID, day, mealType string, completed bool) (*TrackingOverview, error)
	Overview(ctx context.Context, userID primitive.ObjectID) (*TrackingOverview, error)
}

type trackingService struct {
	planRepo     repository.MealPlanRepository
	trackingRepo repository.TrackingRepository
	now          Clock
}

func NewTrackingService(planRepo repository.MealPlanRepository, trackingRepo repository.TrackingRepository, clock Clock) TrackingService {
	return &trackingService{
		planRepo:     planRepo,
		trackingRepo: trackingRepo,
		now:          clockOrSystem(clock),
	}
}

func (s *trackingService) activePlan(ctx context.Context, userID primitive.ObjectID) (*domain.StoredMealPlan, error) {
	plan, err := s.planRepo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}
	return plan, nil
}

func (s *trackingService) Toggle(ctx context.Context, userID primitive.ObjectID, day, mealType string, completed bool) (*TrackingOverview, error) {
	plan, err := s.activePlan(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if err := progress.CheckToggle(day, plan.Plan, plan.Period, now); err != nil {
		return nil, err
	}
	if _, ok := plan.Plan[day].Meals[mealType]; !ok {
		return nil, ErrUnknownMeal
	}

	event := domain.CompletionEvent{Day: day, MealType: mealType, Completed: completed, Timestamp: now}
	if err := s.trackingRepo.Append(ctx, userID, event); err != nil {
		return nil, err
	}
	return s.overview(ctx, userID, plan, now)
}

func (s *trackingService) Overview(ctx context.Context, userID primitive.ObjectID) (*TrackingOverview, error) {
	plan, err := s.activePlan(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.overview(ctx, userID, plan, s.now())
}

func (s *trackingService) overview(ctx context.Context, userID primitive.ObjectID, plan *domain.StoredMealPlan, now time.Time) (*TrackingOverview, error) {
	events, err := s.trackingRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	state := progress.FoldTracking(events)
	out := &TrackingOverview{
		TrackingState: state,
		Stats:         progress.ComputeCompletionStats(plan.Plan, state, plan.Period, now),
		Streak:        progress.CalculateStreak(events, plan.Period.StartDate, now),
		DefaultDay:    progress.DefaultDayKey(plan.Plan, plan.Period, now),
		Period:        plan.Period,
	}
	if today, ok := progress.CurrentDayKey(plan.Plan, plan.Period, now); ok {
		out.CurrentDay = today
		out.TodayConsumed = progress.DailyConsumedMacros(plan.Plan, state, today)
		out.TodayPlanned = plannedTotals(plan.Plan[today])
	}
	return out, nil
}

// plannedTotals prefers the day's stated totals and falls back to the sum of
// its meals when the generator left them out.
func plannedTotals(day domain.DayPlan) domain.Macros {
	if day.Totals != (domain.Macros{}) {
		return day.Totals
	}
	var sum domain.Macros
	for _, m := range day.Meals {
		sum = sum.Add(m.Macros)
	}
	return sum
}
