package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/johnquangdev/voice-agent/pkg/config"
)

type generationConfig struct {
	MaxOutputTokens *int `json:"maxOutputTokens"`
	ThinkingConfig  *struct {
		ThinkingBudget *int `json:"thinkingBudget"`
	} `json:"thinkingConfig"`
}

func geminiServer(t *testing.T, gotConfig *generationConfig, body string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, ":generateContent") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("x-goog-api-key"); got != "test-key" {
			t.Errorf("unexpected api key header %q", got)
		}
		var req struct {
			GenerationConfig generationConfig `json:"generationConfig"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("invalid payload: %v", err)
		}
		*gotConfig = req.GenerationConfig
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(body))
	}))
}

func TestGeminiClient_Generate(t *testing.T) {
	var cfg generationConfig
	ts := geminiServer(t, &cfg, `{"candidates":[{"content":{"role":"model","parts":[{"text":"Caller had a headache. "},{"text":"Advised rest."}]},"finishReason":"STOP"}]}`)
	defer ts.Close()

	client := NewGeminiClient(config.SummarizerConfig{APIKey: "test-key", BaseURL: ts.URL})
	text, err := client.Generate(context.Background(), "hello")
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}
	if text != "Caller had a headache. Advised rest." {
		t.Fatalf("unexpected text %q", text)
	}
	if cfg.MaxOutputTokens == nil || *cfg.MaxOutputTokens != 300 {
		t.Fatalf("maxOutputTokens = %v", cfg.MaxOutputTokens)
	}
	if cfg.ThinkingConfig == nil || cfg.ThinkingConfig.ThinkingBudget == nil || *cfg.ThinkingConfig.ThinkingBudget != 0 {
		t.Fatalf("thinking must be disabled for the default model, got %+v", cfg.ThinkingConfig)
	}
}

func TestGeminiClient_GenerateConfig(t *testing.T) {
	tests := []struct {
		model        string
		wantCap      bool
		wantThinking bool
	}{
		{"gemini-2.5-flash", true, true},
		{"gemini-2.5-flash-lite", true, true},
		{"gemini-2.5-pro", false, false},
		{"gemini-2.0-flash", true, false},
	}
	for _, tt := range tests {
		t.Run(tt.model, func(t *testing.T) {
			got := NewGeminiClient(config.SummarizerConfig{Model: tt.model}).generateConfig()
			if (got.MaxOutputTokens > 0) != tt.wantCap {
				t.Fatalf("MaxOutputTokens = %d", got.MaxOutputTokens)
			}
			if (got.ThinkingConfig != nil) != tt.wantThinking {
				t.Fatalf("ThinkingConfig = %+v", got.ThinkingConfig)
			}
		})
	}
}

func TestGeminiClient_NoTextPartsIsEmptyText(t *testing.T) {
	var cfg generationConfig
	ts := geminiServer(t, &cfg, `{"candidates":[{"content":{"role":"model"},"finishReason":"MAX_TOKENS"}]}`)
	defer ts.Close()

	text, err := NewGeminiClient(config.SummarizerConfig{APIKey: "test-key", BaseURL: ts.URL}).Generate(context.Background(), "p")
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}
	if text != "" {
		t.Fatalf("expected empty text, got %q", text)
	}
}

func TestOpenAIClient_Generate(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/responses" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("unexpected Authorization header %q", got)
		}
		var req map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("invalid payload: %v", err)
		}
		if req["max_output_tokens"] != float64(300) {
			t.Errorf("max_output_tokens = %v", req["max_output_tokens"])
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"id": "resp_1",
			"object": "response",
			"created_at": 1741257730,
			"status": "completed",
			"model": "gpt-4o-mini",
			"output": [{
				"id": "msg_1",
				"type": "message",
				"status": "completed",
				"role": "assistant",
				"content": [{"type": "output_text", "text": "Advised hydration.", "annotations": []}]
			}],
			"usage": {"input_tokens": 10, "output_tokens": 4, "total_tokens": 14}
		}`))
	}))
	defer ts.Close()

	client := NewOpenAIClient(config.SummarizerConfig{APIKey: "test-key", BaseURL: ts.URL})
	text, err := client.Generate(context.Background(), "hello")
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}
	if text != "Advised hydration." {
		t.Fatalf("unexpected text %q", text)
	}
}

func TestAnthropicClient_Generate(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/messages" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("X-Api-Key"); got != "test-key" {
			t.Errorf("unexpected api key header %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"id": "msg_1",
			"type": "message",
			"role": "assistant",
			"model": "claude-haiku-4-5-20251001",
			"content": [{"type": "text", "text": "Suggested a sleep diary."}],
			"stop_reason": "end_turn",
			"usage": {"input_tokens": 10, "output_tokens": 5}
		}`))
	}))
	defer ts.Close()

	client := NewAnthropicClient(config.SummarizerConfig{APIKey: "test-key", BaseURL: ts.URL})
	text, err := client.Generate(context.Background(), "hello")
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}
	if text != "Suggested a sleep diary." {
		t.Fatalf("unexpected text %q", text)
	}
}

func TestLanguageModelClient_ErrorStatus(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"overloaded"}}`, http.StatusInternalServerError)
	}))
	defer ts.Close()

	for _, p := range []Provider{
		NewOpenAIClient(config.SummarizerConfig{APIKey: "k", BaseURL: ts.URL}),
		NewAnthropicClient(config.SummarizerConfig{APIKey: "k", BaseURL: ts.URL}),
	} {
		if _, err := p.Generate(context.Background(), "p"); err == nil {
			t.Fatalf("%s: expected error for 500", p.Name())
		}
	}
}
