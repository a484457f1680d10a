package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"go.uber.org/zap"

	"github.com/johnquangdev/voice-agent/internal/adapter/dto"
	"github.com/johnquangdev/voice-agent/internal/usecase/summary"
)

type stubProvider struct {
	text   string
	err    error
	prompt string
}

func (p *stubProvider) Name() string { return "stub" }

func (p *stubProvider) Generate(_ context.Context, prompt string) (string, error) {
	p.prompt = prompt
	return p.text, p.err
}

func TestSummarize(t *testing.T) {
	tests := []struct {
		name     string
		provider *stubProvider
		body     string
		status   int
		summary  string
		errMsg   string
	}{
		{"ok", &stubProvider{text: "The caller asked about headaches."}, `{"prompt":"Transcript"}`, http.StatusOK, "The caller asked about headaches.", ""},
		{"empty model text", &stubProvider{text: "  "}, `{"prompt":"Transcript"}`, http.StatusOK, summary.NoSummaryText, ""},
		{"missing prompt", &stubProvider{}, `{}`, http.StatusBadRequest, "", "Missing prompt"},
		{"provider error", &stubProvider{err: errors.New("quota")}, `{"prompt":"x"}`, http.StatusInternalServerError, "", "Failed to summarize transcript"},
		{"no provider", nil, `{"prompt":"x"}`, http.StatusInternalServerError, "", "Summarization provider is not configured"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var svc *summary.PromptService
			if tt.provider != nil {
				svc = summary.NewPromptService(tt.provider, zap.NewNop())
			} else {
				svc = summary.NewPromptService(nil, zap.NewNop())
			}
			h := NewSummarizeHandler(svc, zap.NewNop())
			c, rec := newJSONContext(newEcho(), http.MethodPost, "/v1/summarize", tt.body)

			if err := h.Summarize(c); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d", rec.Code, tt.status)
			}
			if tt.errMsg != "" {
				if body := decodeError(t, rec); body.Error != tt.errMsg {
					t.Fatalf("error = %q, want %q", body.Error, tt.errMsg)
				}
				return
			}
			var resp dto.SummarizeResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if resp.Summary != tt.summary {
				t.Fatalf("summary = %q, want %q", resp.Summary, tt.summary)
			}
			if tt.provider.prompt != "Transcript" {
				t.Fatalf("prompt forwarded as %q", tt.provider.prompt)
			}
		})
	}
}
