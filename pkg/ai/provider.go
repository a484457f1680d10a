package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/johnquangdev/voice-agent/pkg/config"
)

// ErrMissingAPIKey is returned when a provider is selected without credentials
var ErrMissingAPIKey = errors.New("AI provider api key is empty")

// Provider generates text for a single prompt. An empty string with a nil
// error means the model answered with no text.
type Provider interface {
	Name() string
	Generate(ctx context.Context, prompt string) (string, error)
}

// NewProvider builds the provider selected by cfg.Provider
func NewProvider(cfg config.SummarizerConfig) (Provider, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("%s: %w", cfg.Provider, ErrMissingAPIKey)
	}

	switch normalizeProviderType(cfg.Provider) {
	case "gemini":
		return NewGeminiClient(cfg), nil
	case "openai":
		return NewOpenAIClient(cfg), nil
	case "anthropic":
		return NewAnthropicClient(cfg), nil
	case "groq":
		return NewGroqClient(cfg), nil
	}
	return nil, fmt.Errorf("unsupported AI provider %q", cfg.Provider)
}

func normalizeProviderType(raw string) string {
	t := strings.ToLower(strings.TrimSpace(raw))
	t = strings.ReplaceAll(t, "_", "-")
	return strings.ReplaceAll(t, " ", "")
}

func maxTokens(cfg config.SummarizerConfig) int {
	if cfg.MaxTokens > 0 {
		return cfg.MaxTokens
	}
	return 300
}
