package ai

import (
	"context"
	"errors"
	"net/url"
	"strings"

	anthropicclient "github.com/anthropics/anthropic-sdk-go"
	anthropicoption "github.com/anthropics/anthropic-sdk-go/option"
	openaiclient "github.com/openai/openai-go/v2"
	openaioption "github.com/openai/openai-go/v2/option"
	jetai "go.jetify.com/ai"
	jetapi "go.jetify.com/ai/api"
	jetanthropic "go.jetify.com/ai/provider/anthropic"
	jetopenai "go.jetify.com/ai/provider/openai"

	"github.com/johnquangdev/voice-agent/pkg/config"
)

const (
	defaultOpenAIModel    = "gpt-4o-mini"
	defaultAnthropicModel = "claude-haiku-4-5-20251001"
)

// languageModelClient runs prompts through a jetify language model
type languageModelClient struct {
	name      string
	model     jetapi.LanguageModel
	maxTokens int
}

func (c *languageModelClient) Name() string { return c.name }

// Generate sends the prompt as a single user message
func (c *languageModelClient) Generate(ctx context.Context, prompt string) (string, error) {
	if c.model == nil {
		return "", errors.New("language model is nil")
	}
	resp, err := jetai.GenerateText(
		ctx,
		[]jetapi.Message{&jetapi.UserMessage{Content: jetapi.ContentFromText(prompt)}},
		jetai.WithModel(c.model),
		jetai.WithMaxOutputTokens(c.maxTokens),
	)
	if err != nil {
		return "", err
	}
	return extractText(resp), nil
}

// NewOpenAIClient creates an OpenAI chat model. BaseURL may point at any
// OpenAI-compatible server.
func NewOpenAIClient(cfg config.SummarizerConfig) Provider {
	modelID := strings.TrimSpace(cfg.Model)
	if modelID == "" {
		modelID = defaultOpenAIModel
	}

	opts := []openaioption.RequestOption{
		openaioption.WithAPIKey(strings.TrimSpace(cfg.APIKey)),
		openaioption.WithMaxRetries(0),
	}
	if base := normalizeOpenAIBaseURL(cfg.BaseURL); base != "" {
		opts = append(opts, openaioption.WithBaseURL(base))
	}

	client := openaiclient.NewClient(opts...)
	return &languageModelClient{
		name:      "openai",
		model:     jetopenai.NewLanguageModel(modelID, jetopenai.WithClient(client)),
		maxTokens: maxTokens(cfg),
	}
}

// NewAnthropicClient creates an Anthropic messages model
func NewAnthropicClient(cfg config.SummarizerConfig) Provider {
	modelID := strings.TrimSpace(cfg.Model)
	if modelID == "" {
		modelID = defaultAnthropicModel
	}

	opts := []anthropicoption.RequestOption{
		anthropicoption.WithAPIKey(strings.TrimSpace(cfg.APIKey)),
		anthropicoption.WithMaxRetries(0),
	}
	if base := strings.TrimSpace(cfg.BaseURL); base != "" {
		opts = append(opts, anthropicoption.WithBaseURL(strings.TrimRight(base, "/")))
	}

	client := anthropicclient.NewClient(opts...)
	return &languageModelClient{
		name:      "anthropic",
		model:     jetanthropic.NewLanguageModel(modelID, jetanthropic.WithClient(client)),
		maxTokens: maxTokens(cfg),
	}
}

func extractText(resp *jetapi.Response) string {
	if resp == nil {
		return ""
	}
	var full strings.Builder
	for _, block := range resp.Content {
		if textBlock, ok := block.(*jetapi.TextBlock); ok {
			full.WriteString(textBlock.Text)
		}
	}
	return full.String()
}

// normalizeOpenAIBaseURL makes sure the base URL ends in /v1 and a slash
func normalizeOpenAIBaseURL(raw string) string {
	base := strings.TrimSpace(raw)
	if base == "" {
		return ""
	}
	parsed, err := url.Parse(base)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return strings.TrimRight(base, "/") + "/"
	}

	path := strings.TrimRight(parsed.Path, "/")
	if !strings.HasSuffix(path, "/v1") {
		path += "/v1"
	}
	parsed.Path = path + "/"
	return parsed.String()
}
