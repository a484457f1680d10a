package ai

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/johnquangdev/voice-agent/pkg/config"
)

const defaultGeminiModel = "gemini-2.5-flash"

// GeminiClient calls the Gemini API through the genai SDK
type GeminiClient struct {
	apiKey    string
	baseURL   string
	model     string
	maxTokens int32
}

// NewGeminiClient creates a Gemini client
func NewGeminiClient(cfg config.SummarizerConfig) *GeminiClient {
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = defaultGeminiModel
	}
	return &GeminiClient{
		apiKey:    cfg.APIKey,
		baseURL:   strings.TrimSpace(cfg.BaseURL),
		model:     model,
		maxTokens: int32(maxTokens(cfg)),
	}
}

func (g *GeminiClient) Name() string { return "gemini" }

// generateConfig caps output tokens. Thinking tokens count against the cap on
// 2.5 models: flash runs with thinking off, pro runs uncapped.
func (g *GeminiClient) generateConfig() *genai.GenerateContentConfig {
	switch {
	case strings.HasPrefix(g.model, "gemini-2.5-flash"):
		return &genai.GenerateContentConfig{
			MaxOutputTokens: g.maxTokens,
			ThinkingConfig:  &genai.ThinkingConfig{ThinkingBudget: genai.Ptr[int32](0)},
		}
	case strings.HasPrefix(g.model, "gemini-2.5"):
		return &genai.GenerateContentConfig{}
	}
	return &genai.GenerateContentConfig{MaxOutputTokens: g.maxTokens}
}

// Generate sends the prompt and concatenates the text parts of the first candidate
func (g *GeminiClient) Generate(ctx context.Context, prompt string) (string, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      g.apiKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{BaseURL: g.baseURL},
	})
	if err != nil {
		return "", fmt.Errorf("create client: %w", err)
	}

	result, err := client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), g.generateConfig())
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	if result == nil || len(result.Candidates) == 0 || result.Candidates[0].Content == nil {
		return "", nil
	}

	var text strings.Builder
	for _, part := range result.Candidates[0].Content.Parts {
		if part != nil && part.Text != "" {
			text.WriteString(part.Text)
		}
	}
	return text.String(), nil
}
