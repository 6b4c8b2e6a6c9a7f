// Package memory implements the repository contracts on mutex-guarded maps.
// All repositories of one Store share a lock, so QuitPlan is atomic.
package memory

import (
	"context"
	"maps"
	"slices"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"nutriai/meal-planner/internal/domain"
	"nutriai/meal-planner/internal/repository"
)

// Store holds every collection in memory.
type Store struct {
	mu       sync.RWMutex
	users    map[primitive.ObjectID]domain.User
	profiles map[primitive.ObjectID]domain.Profile        // by user ID
	plans    map[primitive.ObjectID]domain.StoredMealPlan // by user ID
	tracking map[primitive.ObjectID][]domain.CompletionEvent
}

func NewStore() *Store {
	return &Store{
		users:    make(map[primitive.ObjectID]domain.User),
		profiles: make(map[primitive.ObjectID]domain.Profile),
		plans:    make(map[primitive.ObjectID]domain.StoredMealPlan),
		tracking: make(map[primitive.ObjectID][]domain.CompletionEvent),
	}
}

func (s *Store) Users() repository.UserRepository         { return userRepo{s} }
func (s *Store) Profiles() repository.ProfileRepository   { return profileRepo{s} }
func (s *Store) MealPlans() repository.MealPlanRepository { return mealPlanRepo{s} }
func (s *Store) Tracking() repository.TrackingRepository  { return trackingRepo{s} }
func (s *Store) Lifecycle() repository.PlanLifecycle      { return lifecycle{s} }

type userRepo struct{ s *Store }

func (r userRepo) Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error) {
	_ = ctx

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, u := range r.s.users {
		if u.Email == user.Email {
			return primitive.NilObjectID, repository.ErrDuplicate
		}
	}
	user.ID = primitive.NewObjectID()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	user.UpdatedAt = user.CreatedAt
	r.s.users[user.ID] = *user
	return user.ID, nil
}

func (r userRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	_ = ctx

	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, u := range r.s.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r userRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	_ = ctx

	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}

type profileRepo struct{ s *Store }

func cloneProfile(p domain.Profile) domain.Profile {
	p.Activities = slices.Clone(p.Activities)
	p.DietaryPreferences = slices.Clone(p.DietaryPreferences)
	return p
}

func (r profileRepo) Create(ctx context.Context, profile *domain.Profile) (primitive.ObjectID, error) {
	_ = ctx

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, exists := r.s.profiles[profile.UserID]; exists {
		return primitive.NilObjectID, repository.ErrDuplicate
	}
	profile.ID = primitive.NewObjectID()
	if profile.CreatedAt.IsZero() {
		profile.CreatedAt = time.Now().UTC()
	}
	profile.UpdatedAt = profile.CreatedAt
	r.s.profiles[profile.UserID] = cloneProfile(*profile)
	return profile.ID, nil
}

func (r profileRepo) GetByUserID(ctx context.Context, userID primitive.ObjectID) (*domain.Profile, error) {
	_ = ctx

	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	p, ok := r.s.profiles[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	p = cloneProfile(p)
	return &p, nil
}

func (r profileRepo) Update(ctx context.Context, profile *domain.Profile) error {
	_ = ctx

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	current, ok := r.s.profiles[profile.UserID]
	if !ok {
		return repository.ErrNotFound
	}
	updated := cloneProfile(*profile)
	updated.ID = current.ID
	updated.CreatedAt = current.CreatedAt
	if updated.UpdatedAt.IsZero() {
		updated.UpdatedAt = time.Now().UTC()
	}
	r.s.profiles[profile.UserID] = updated
	return nil
}

type mealPlanRepo struct{ s *Store }

func clonePlan(p domain.StoredMealPlan) domain.StoredMealPlan {
	days := make(domain.MealPlan, len(p.Plan))
	for key, day := range p.Plan {
		day.Meals = maps.Clone(day.Meals)
		days[key] = day
	}
	p.Plan = days
	return p
}

func (r mealPlanRepo) Create(ctx context.Context, plan *domain.StoredMealPlan) (primitive.ObjectID, error) {
	_ = ctx

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, exists := r.s.plans[plan.UserID]; exists {
		return primitive.NilObjectID, repository.ErrDuplicate
	}
	plan.ID = primitive.NewObjectID()
	if plan.CreatedAt.IsZero() {
		plan.CreatedAt = time.Now().UTC()
	}
	r.s.plans[plan.UserID] = clonePlan(*plan)
	return plan.ID, nil
}

func (r mealPlanRepo) GetByUserID(ctx context.Context, userID primitive.ObjectID) (*domain.StoredMealPlan, error) {
	_ = ctx

	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	p, ok := r.s.plans[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	p = clonePlan(p)
	return &p, nil
}

type trackingRepo struct{ s *Store }

func (r trackingRepo) Append(ctx context.Context, userID primitive.ObjectID, event domain.CompletionEvent) error {
	_ = ctx

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.tracking[userID] = append(r.s.tracking[userID], event)
	return nil
}

func (r trackingRepo) ListByUserID(ctx context.Context, userID primitive.ObjectID) ([]domain.CompletionEvent, error) {
	_ = ctx

	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	events := make([]domain.CompletionEvent, len(r.s.tracking[userID]))
	copy(events, r.s.tracking[userID])
	return events, nil
}

type lifecycle struct{ s *Store }

func (l lifecycle) QuitPlan(ctx context.Context, userID primitive.ObjectID) (*domain.StoredMealPlan, error) {
	_ = ctx

	l.s.mu.Lock()
	defer l.s.mu.Unlock()

	p, ok := l.s.plans[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	delete(l.s.plans, userID)
	delete(l.s.tracking, userID)
	return &p, nil
}
