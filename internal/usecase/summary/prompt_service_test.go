package summary

import (
	"context"
	"errors"
	"testing"
)

type fakeProvider struct {
	text string
	err  error
}

func (f fakeProvider) Name() string { return "fake" }

func (f fakeProvider) Generate(context.Context, string) (string, error) {
	return f.text, f.err
}

func TestPromptService(t *testing.T) {
	ctx := context.Background()

	got, err := NewPromptService(fakeProvider{text: "Summary."}, nil).Summarize(ctx, "p")
	if err != nil || got != "Summary." {
		t.Fatalf("got %q, %v", got, err)
	}

	got, err = NewPromptService(fakeProvider{text: "  "}, nil).Summarize(ctx, "p")
	if err != nil || got != NoSummaryText {
		t.Fatalf("empty model text should map to %q, got %q, %v", NoSummaryText, got, err)
	}

	if _, err := NewPromptService(fakeProvider{err: errors.New("quota")}, nil).Summarize(ctx, "p"); err == nil {
		t.Fatalf("expected provider error")
	}

	if _, err := NewPromptService(nil, nil).Summarize(ctx, "p"); !errors.Is(err, ErrProviderNotConfigured) {
		t.Fatalf("expected ErrProviderNotConfigured, got %v", err)
	}
}
