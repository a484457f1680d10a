package summarizer

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/johnquangdev/voice-agent/pkg/config"
)

func newClient(url string) *HTTPClient {
	return NewHTTPClient(config.SummarizerConfig{EndpointURL: url})
}

func TestHTTPClient_Complete(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Fatalf("expected POST got %s", r.Method)
		}
		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("invalid payload: %v", err)
		}
		if body["prompt"] != "the prompt" {
			t.Fatalf("unexpected prompt %q", body["prompt"])
		}
		json.NewEncoder(w).Encode(map[string]string{"summary": "Discussed headaches."})
	}))
	defer ts.Close()

	got, err := newClient(ts.URL).Complete(context.Background(), "the prompt")
	if err != nil {
		t.Fatalf("Complete error: %v", err)
	}
	if got != "Discussed headaches." {
		t.Fatalf("unexpected summary %q", got)
	}
}

func TestHTTPClient_EmptySummaryIsNotAnError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"summary":""}`))
	}))
	defer ts.Close()

	got, err := newClient(ts.URL).Complete(context.Background(), "p")
	if err != nil {
		t.Fatalf("Complete error: %v", err)
	}
	if got != "" {
		t.Fatalf("expected empty summary, got %q", got)
	}
}

func TestHTTPClient_Failures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"server error", func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"error":"Failed to summarize transcript"}`, http.StatusInternalServerError)
		}},
		{"malformed body", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`not json`))
		}},
		{"missing field", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"text":"hi"}`))
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := httptest.NewServer(tt.handler)
			defer ts.Close()

			if _, err := newClient(ts.URL).Complete(context.Background(), "p"); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestHTTPClient_Unreachable(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := ts.URL
	ts.Close()

	if _, err := newClient(url).Complete(context.Background(), "p"); err == nil {
		t.Fatalf("expected error for closed server")
	}
}
