// Package generator produces meal plans from a user profile using a large
// language model, and normalizes the model's JSON into a domain.MealPlan.
package generator

import (
	"context"
	"errors"
	"log"
	"strings"

	"nutriai/meal-planner/internal/config"
	"nutriai/meal-planner/internal/domain"
)

const (
	ModeMock   = "mock"
	ModeGemini = "gemini"
)

var (
	// ErrMalformedPlan is returned when the model's output cannot be read as a plan.
	ErrMalformedPlan = errors.New("generated meal plan is malformed")
	// ErrEmptyResponse is returned when the model produced no text.
	ErrEmptyResponse = errors.New("generator returned no content")
)

// Request describes the plan to generate.
type Request struct {
	Profile      domain.Profile
	DurationDays int
}

// Result holds the normalized plan and the raw model output it was parsed from.
type Result struct {
	Plan domain.MealPlan
	Raw  string
}

// Generator creates meal plans.
type Generator interface {
	GenerateMealPlan(ctx context.Context, req Request) (Result, error)
	Close() error
}

// New picks a generator for cfg.Mode. Unknown or empty modes fall back to the
// mock generator.
func New(ctx context.Context, cfg config.GeneratorConfig) (Generator, error) {
	mode := strings.ToLower(strings.TrimSpace(cfg.Mode))
	switch mode {
	case ModeGemini:
		return NewGeminiGenerator(ctx, cfg)
	case "", ModeMock:
		return NewMockGenerator(), nil
	default:
		log.Printf("WARN: Unknown generator mode %q, using mock generator", cfg.Mode)
		return NewMockGenerator(), nil
	}
}
