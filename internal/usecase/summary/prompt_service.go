package summary

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/johnquangdev/voice-agent/pkg/ai"
)

// NoSummaryText is returned by the endpoint when the model produced no text
const NoSummaryText = "No summary generated."

// ErrProviderNotConfigured is returned when no model provider could be built
var ErrProviderNotConfigured = errors.New("summarization provider is not configured")

// PromptService backs the exposed summarization endpoint
type PromptService struct {
	provider ai.Provider
	logger   *zap.Logger
}

// NewPromptService creates the endpoint service. provider may be nil when
// no API key is configured; every request then fails.
func NewPromptService(provider ai.Provider, logger *zap.Logger) *PromptService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PromptService{provider: provider, logger: logger}
}

// Summarize forwards the prompt to the provider once
func (s *PromptService) Summarize(ctx context.Context, prompt string) (string, error) {
	if s.provider == nil {
		return "", ErrProviderNotConfigured
	}

	text, err := s.provider.Generate(ctx, prompt)
	if err != nil {
		s.logger.Error("summary.provider_failed",
			zap.String("provider", s.provider.Name()),
			zap.Error(err),
		)
		return "", err
	}

	if strings.TrimSpace(text) == "" {
		return NoSummaryText, nil
	}
	return text, nil
}

// ProviderName returns the configured provider, or "" when none
func (s *PromptService) ProviderName() string {
	if s.provider == nil {
		return ""
	}
	return s.provider.Name()
}
