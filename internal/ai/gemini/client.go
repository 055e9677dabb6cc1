package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/talentscout/screener/internal/ai"
)

const defaultModel = "gemini-2.0-flash"

// Generation settings tuned for interview question quality: creative enough to
// vary questions between sessions, bounded output, and medium-and-above harm
// blocking on every category.
var generationConfig = &genai.GenerateContentConfig{
	Temperature:     genai.Ptr[float32](0.7),
	TopP:            genai.Ptr[float32](0.95),
	TopK:            genai.Ptr[float32](40),
	MaxOutputTokens: 1024,
	SafetySettings: []*genai.SafetySetting{
		{Category: genai.HarmCategoryHarassment, Threshold: genai.HarmBlockThresholdBlockMediumAndAbove},
		{Category: genai.HarmCategoryHateSpeech, Threshold: genai.HarmBlockThresholdBlockMediumAndAbove},
		{Category: genai.HarmCategorySexuallyExplicit, Threshold: genai.HarmBlockThresholdBlockMediumAndAbove},
		{Category: genai.HarmCategoryDangerousContent, Threshold: genai.HarmBlockThresholdBlockMediumAndAbove},
	},
}

// Generator implements ai.Generator on top of the Gemini API.
type Generator struct {
	client    *genai.Client
	modelName string
}

// NewGenerator creates a Generator configured for the Gemini API backend.
func NewGenerator(ctx context.Context, apiKey, model string) (*Generator, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}

	cfg := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}

	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	if model = strings.TrimSpace(model); model == "" {
		model = defaultModel
	}

	return &Generator{client: client, modelName: model}, nil
}

// GenerateContent sends the prompt to Gemini and returns the concatenated
// textual response. Any failure, including an empty response, is returned as
// an ai.GenerationError.
func (g *Generator) GenerateContent(ctx context.Context, prompt string) (string, error) {
	if g == nil || g.client == nil {
		return "", ai.NewGenerationError(errors.New("gemini generator is not initialized"))
	}

	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "", ai.NewGenerationError(errors.New("prompt must not be empty"))
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.modelName, genai.Text(prompt), generationConfig)
	if err != nil {
		return "", ai.NewGenerationError(fmt.Errorf("generate content: %w", err))
	}

	var builder strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part == nil {
				continue
			}
			text := strings.TrimSpace(part.Text)
			if text == "" {
				continue
			}
			if builder.Len() > 0 {
				builder.WriteString("\n")
			}
			builder.WriteString(text)
		}
	}

	output := strings.TrimSpace(builder.String())
	if output == "" {
		return "", ai.NewGenerationError(errors.New("gemini api returned empty response"))
	}

	return output, nil
}

func (g *Generator) Model() string {
	if g == nil {
		return ""
	}
	return g.modelName
}
