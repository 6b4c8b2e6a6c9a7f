package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"nutriai/meal-planner/internal/domain"
	"nutriai/meal-planner/internal/repository"
)

var (
	ErrInvalidProfile  = errors.New("invalid profile")
	ErrProfileExists   = errors.New("profile already exists")
	ErrProfileNotFound = errors.New("profile not found")
)

var (
	validGenders = map[domain.Gender]bool{
		domain.GenderMale:   true,
		domain.GenderFemale: true,
	}
	validGoals = map[domain.FitnessGoal]bool{
		domain.GoalMaintenance: true,
		domain.GoalWeightLoss:  true,
		domain.GoalWeightGain:  true,
	}
	validActivityLevels = map[domain.ActivityLevel]bool{
		domain.ActivitySedentary:  true,
		domain.ActivityLight:      true,
		domain.ActivityModerate:   true,
		domain.ActivityActive:     true,
		domain.ActivityVeryActive: true,
	}
)

// ProfileInput is the questionnaire submitted by a user.
type ProfileInput struct {
	Age                string
	Height             string
	Weight             string
	Gender             domain.Gender
	FitnessGoal        domain.FitnessGoal
	Allergies          string
	Activities         []string
	ActivityLevel      domain.ActivityLevel
	MealsPerDay        string
	DietaryPreferences []string
}

// ProfileDetails is a stored profile with its derived figures.
type ProfileDetails struct {
	domain.Profile
	BMR float64 `json:"bmr"`
}

type ProfileService interface {
	Create(ctx context.Context, userID primitive.ObjectID, in ProfileInput) (*ProfileDetails, error)
	Get(ctx context.Context, userID primitive.ObjectID) (*ProfileDetails, error)
	Update(ctx context.Context, userID primitive.ObjectID, in ProfileInput) (*ProfileDetails, error)
}

type profileService struct {
	profileRepo repository.ProfileRepository
	now         Clock
}

func NewProfileService(profileRepo repository.ProfileRepository, clock Clock) ProfileService {
	return &profileService{profileRepo: profileRepo, now: clockOrSystem(clock)}
}

func positiveNumber(field, v string) error {
	n, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil || n <= 0 {
		return fmt.Errorf("%w: %s must be a positive number", ErrInvalidProfile, field)
	}
	return nil
}

func (in ProfileInput) validate() error {
	if err := positiveNumber("age", in.Age); err != nil {
		return err
	}
	if err := positiveNumber("height", in.Height); err != nil {
		return err
	}
	if err := positiveNumber("weight", in.Weight); err != nil {
		return err
	}
	if !validGenders[in.Gender] {
		return fmt.Errorf("%w: unknown gender %q", ErrInvalidProfile, in.Gender)
	}
	if !validGoals[in.FitnessGoal] {
		return fmt.Errorf("%w: unknown fitness goal %q", ErrInvalidProfile, in.FitnessGoal)
	}
	if !validActivityLevels[in.ActivityLevel] {
		return fmt.Errorf("%w: unknown activity level %q", ErrInvalidProfile, in.ActivityLevel)
	}
	if in.MealsPerDay != "" {
		n, err := strconv.Atoi(strings.TrimSpace(in.MealsPerDay))
		if err != nil || n < 1 || n > 10 {
			return fmt.Errorf("%w: mealsPerDay must be between 1 and 10", ErrInvalidProfile)
		}
	}
	return nil
}

func (in ProfileInput) apply(p *domain.Profile) {
	p.Age = strings.TrimSpace(in.Age)
	p.Height = strings.TrimSpace(in.Height)
	p.Weight = strings.TrimSpace(in.Weight)
	p.Gender = in.Gender
	p.FitnessGoal = in.FitnessGoal
	p.Allergies = strings.TrimSpace(in.Allergies)
	p.Activities = in.Activities
	p.ActivityLevel = in.ActivityLevel
	p.MealsPerDay = strings.TrimSpace(in.MealsPerDay)
	p.DietaryPreferences = in.DietaryPreferences
}

func details(p *domain.Profile) *ProfileDetails {
	return &ProfileDetails{Profile: *p, BMR: p.BMR()}
}

func (s *profileService) Create(ctx context.Context, userID primitive.ObjectID, in ProfileInput) (*ProfileDetails, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	profile := &domain.Profile{UserID: userID, CreatedAt: s.now()}
	in.apply(profile)

	if _, err := s.profileRepo.Create(ctx, profile); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrProfileExists
		}
		return nil, err
	}
	return details(profile), nil
}

func (s *profileService) Get(ctx context.Context, userID primitive.ObjectID) (*ProfileDetails, error) {
	profile, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return details(profile), nil
}

func (s *profileService) Update(ctx context.Context, userID primitive.ObjectID, in ProfileInput) (*ProfileDetails, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	profile, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	in.apply(profile)
	profile.UpdatedAt = s.now()

	if err := s.profileRepo.Update(ctx, profile); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return details(profile), nil
}
