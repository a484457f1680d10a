package summary

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/johnquangdev/voice-agent/internal/domain/entities"
	"github.com/johnquangdev/voice-agent/pkg/ai"
)

const (
	// MinTranscriptLength is the shortest transcript worth sending to a model
	MinTranscriptLength = 100

	TooShortSummary    = "Call was too short for a summary."
	UnavailableSummary = "Summary unavailable."

	promptTemplate = "You are summarizing a patient support call. \n" +
		"The transcript contains only the agent’s responses. \n" +
		"Summarize what the call was about in 1–2 sentences, focusing on the user’s health issue and the remedies or advice given.\n" +
		"Transcript: \"\"\"%s\"\"\""
)

// Source tells where a summary came from
type Source string

const (
	SourceShort    Source = "short"
	SourceModel    Source = "model"
	SourceEmpty    Source = "empty"
	SourceFallback Source = "fallback"
)

// Result is a non-empty summary with its origin
type Result struct {
	Summary string
	Source  Source
}

// Completer turns a prompt into summary text
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// ProviderCompleter runs prompts against an in-process model provider
type ProviderCompleter struct {
	Provider ai.Provider
}

func (p ProviderCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	return p.Provider.Generate(ctx, prompt)
}

// Summarizer reduces a call transcript to one or two sentences
type Summarizer struct {
	completer Completer
	logger    *zap.Logger
}

// NewSummarizer creates a summarizer over the given completer
func NewSummarizer(completer Completer, logger *zap.Logger) *Summarizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Summarizer{completer: completer, logger: logger}
}

// Summarize never fails: completer errors are absorbed by the extractive fallback
func (s *Summarizer) Summarize(ctx context.Context, transcript entities.Transcript) Result {
	text := transcript.Text()
	if utf8.RuneCountInString(text) < MinTranscriptLength {
		return Result{Summary: TooShortSummary, Source: SourceShort}
	}

	out, err := s.completer.Complete(ctx, BuildPrompt(text))
	if err != nil {
		s.logger.Warn("summary.completer_failed",
			zap.Int("transcript_length", len(text)),
			zap.Error(err),
		)
		if fallback := Fallback(text); fallback != "" {
			return Result{Summary: fallback, Source: SourceFallback}
		}
		return Result{Summary: UnavailableSummary, Source: SourceEmpty}
	}

	summary := strings.TrimSpace(out)
	if summary == "" {
		return Result{Summary: UnavailableSummary, Source: SourceEmpty}
	}
	return Result{Summary: summary, Source: SourceModel}
}

// BuildPrompt frames the transcript as a one-sided patient support call
func BuildPrompt(text string) string {
	return fmt.Sprintf(promptTemplate, text)
}

// Fallback keeps the first two non-blank "."-separated segments. It returns
// "" when the text has none.
func Fallback(text string) string {
	sentences := make([]string, 0, 2)
	for _, segment := range strings.Split(text, ".") {
		if strings.TrimSpace(segment) == "" {
			continue
		}
		sentences = append(sentences, segment)
		if len(sentences) == 2 {
			break
		}
	}
	if len(sentences) == 0 {
		return ""
	}
	return strings.Join(sentences, ".") + "."
}
