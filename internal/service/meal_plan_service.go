package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"nutriai/meal-planner/internal/domain"
	"nutriai/meal-planner/internal/generator"
	"nutriai/meal-planner/internal/repository"
	"nutriai/meal-planner/internal/storage"
)

// DefaultGenerationTimeout bounds a generator call when none is configured.
const DefaultGenerationTimeout = 30 * time.Second

var (
	ErrInvalidDuration    = errors.New("plan duration must be 3, 5 or 7 days")
	ErrProfileRequired    = errors.New("a profile is required before generating a meal plan")
	ErrPlanExists         = errors.New("an active meal plan already exists")
	ErrPlanNotFound       = errors.New("meal plan not found")
	ErrGenerationTimeout  = errors.New("meal plan generation timed out")
	ErrGenerationFailed   = errors.New("failed to generate meal plan")
	ErrArchiveUnavailable = errors.New("meal plan archive is not available")
)

// AllowedDurations are the plan lengths a user can pick, in days.
var AllowedDurations = []int{3, 5, 7}

func validDuration(days int) bool {
	for _, d := range AllowedDurations {
		if d == days {
			return true
		}
	}
	return false
}

type MealPlanService interface {
	Generate(ctx context.Context, userID primitive.ObjectID, days int) (*domain.StoredMealPlan, error)
	Get(ctx context.Context, userID primitive.ObjectID) (*domain.StoredMealPlan, error)
	// Quit deletes the plan together with its completion log and archive.
	Quit(ctx context.Context, userID primitive.ObjectID) error
	// ExportURL returns a temporary download link to the raw generated plan.
	ExportURL(ctx context.Context, userID primitive.ObjectID) (string, error)
}

type mealPlanService struct {
	planRepo    repository.MealPlanRepository
	profileRepo repository.ProfileRepository
	lifecycle   repository.PlanLifecycle
	generator   generator.Generator
	archive     storage.FileStorage // nil when no bucket is configured
	timeout     time.Duration
	now         Clock
}

// NewMealPlanService creates the plan use cases. archive may be nil.
func NewMealPlanService(
	planRepo repository.MealPlanRepository,
	profileRepo repository.ProfileRepository,
	lifecycle repository.PlanLifecycle,
	gen generator.Generator,
	archive storage.FileStorage,
	timeout time.Duration,
	clock Clock,
) MealPlanService {
	if timeout <= 0 {
		timeout = DefaultGenerationTimeout
	}
	return &mealPlanService{
		planRepo:    planRepo,
		profileRepo: profileRepo,
		lifecycle:   lifecycle,
		generator:   gen,
		archive:     archive,
		timeout:     timeout,
		now:         clockOrSystem(clock),
	}
}

func utcMidnight(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

func (s *mealPlanService) Generate(ctx context.Context, userID primitive.ObjectID, days int) (*domain.StoredMealPlan, error) {
	if !validDuration(days) {
		return nil, ErrInvalidDuration
	}

	profile, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProfileRequired
		}
		return nil, err
	}

	if _, err := s.planRepo.GetByUserID(ctx, userID); err == nil {
		return nil, ErrPlanExists
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	genCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	result, err := s.generator.GenerateMealPlan(genCtx, generator.Request{Profile: *profile, DurationDays: days})
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("meal plan generation abandoned: %w", ctx.Err())
		}
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(genCtx.Err(), context.DeadlineExceeded) {
			log.Printf("WARN: Meal plan generation for user %s timed out after %v", userID.Hex(), s.timeout)
			return nil, ErrGenerationTimeout
		}
		log.Printf("ERROR: Meal plan generation for user %s failed: %v", userID.Hex(), err)
		if stored := s.storedAnyway(ctx, userID); stored != nil {
			return stored, nil
		}
		return nil, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}

	if len(result.Plan) != days {
		return nil, fmt.Errorf("%w: generator returned %d days, want %d", ErrGenerationFailed, len(result.Plan), days)
	}

	start := utcMidnight(s.now())
	plan := &domain.StoredMealPlan{
		UserID: userID,
		Plan:   result.Plan,
		Period: domain.PlanPeriod{
			StartDate:  start,
			ExpiryDate: start.AddDate(0, 0, len(result.Plan)-1),
		},
		DurationDays: days,
		CreatedAt:    s.now(),
	}
	plan.ArchiveKey = s.archiveRaw(ctx, userID, result.Raw)

	id, err := s.planRepo.Create(ctx, plan)
	if err != nil {
		s.dropArchive(ctx, plan.ArchiveKey)
		if stored := s.storedAnyway(ctx, userID); stored != nil {
			log.Printf("INFO: Storing plan for user %s failed (%v) but a plan exists, returning it", userID.Hex(), err)
			return stored, nil
		}
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrPlanExists
		}
		return nil, err
	}
	plan.ID = id
	log.Printf("INFO: Created %d-day meal plan for user %s", days, userID.Hex())
	return plan, nil
}

// storedAnyway looks for a plan that was stored despite a failed request.
func (s *mealPlanService) storedAnyway(ctx context.Context, userID primitive.ObjectID) *domain.StoredMealPlan {
	plan, err := s.planRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil
	}
	return plan
}

// archiveRaw uploads the raw generator output and returns its key, or "" when
// archiving is disabled or fails.
func (s *mealPlanService) archiveRaw(ctx context.Context, userID primitive.ObjectID, raw string) string {
	if s.archive == nil || raw == "" {
		return ""
	}
	key := storage.PlanArchiveKey(userID.Hex())
	if err := s.archive.PutObject(ctx, key, []byte(raw), "application/json"); err != nil {
		log.Printf("WARN: Could not archive meal plan of user %s: %v", userID.Hex(), err)
		return ""
	}
	return key
}

func (s *mealPlanService) dropArchive(ctx context.Context, key string) {
	if s.archive == nil || key == "" {
		return
	}
	if err := s.archive.DeleteObject(ctx, key); err != nil && !errors.Is(err, storage.ErrObjectNotFound) {
		log.Printf("WARN: Could not delete archived plan %s: %v", key, err)
	}
}

func (s *mealPlanService) Get(ctx context.Context, userID primitive.ObjectID) (*domain.StoredMealPlan, error) {
	plan, err := s.planRepo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}
	return plan, nil
}

func (s *mealPlanService) Quit(ctx context.Context, userID primitive.ObjectID) error {
	plan, err := s.lifecycle.QuitPlan(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrPlanNotFound
		}
		return err
	}
	s.dropArchive(ctx, plan.ArchiveKey)
	log.Printf("INFO: User %s quit their meal plan", userID.Hex())
	return nil
}

func (s *mealPlanService) ExportURL(ctx context.Context, userID primitive.ObjectID) (string, error) {
	if s.archive == nil {
		return "", ErrArchiveUnavailable
	}
	plan, err := s.Get(ctx, userID)
	if err != nil {
		return "", err
	}
	if plan.ArchiveKey == "" {
		return "", ErrArchiveUnavailable
	}
	return s.archive.GeneratePresignedDownloadURL(ctx, plan.ArchiveKey, storage.DefaultPresignedURLExpiry)
}
