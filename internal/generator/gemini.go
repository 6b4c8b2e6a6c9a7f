package generator

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"nutriai/meal-planner/internal/config"
)

const DefaultGeminiModel = "gemini-2.0-flash"

// geminiGenerator generates plans with the Google Gemini API.
type geminiGenerator struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

// NewGeminiGenerator creates a Gemini-backed Generator.
func NewGeminiGenerator(ctx context.Context, cfg config.GeneratorConfig) (Generator, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	name := cfg.Model
	if name == "" {
		name = DefaultGeminiModel
	}
	model := client.GenerativeModel(name)
	model.ResponseMIMEType = "application/json"
	if cfg.Temperature > 0 {
		model.SetTemperature(cfg.Temperature)
	}
	log.Printf("Gemini generator initialized with model %s", name)
	return &geminiGenerator{client: client, model: model}, nil
}

func (g *geminiGenerator) GenerateMealPlan(ctx context.Context, req Request) (Result, error) {
	resp, err := g.model.GenerateContent(ctx, genai.Text(BuildPrompt(req.Profile, req.DurationDays)))
	if err != nil {
		return Result{}, fmt.Errorf("failed to generate content: %w", err)
	}
	raw := responseText(resp)
	if raw == "" {
		return Result{}, ErrEmptyResponse
	}
	plan, err := ParseMealPlan(raw)
	if err != nil {
		return Result{Raw: raw}, err
	}
	return Result{Plan: plan, Raw: raw}, nil
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			b.WriteString(string(text))
		}
	}
	return b.String()
}

func (g *geminiGenerator) Close() error {
	return g.client.Close()
}
