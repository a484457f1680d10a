package summarizer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/johnquangdev/voice-agent/pkg/config"
)

// HTTPClient posts prompts to a summarization endpoint speaking
// {"prompt": ...} -> {"summary": ...}
type HTTPClient struct {
	endpoint string
	client   *http.Client
}

type summarizeRequest struct {
	Prompt string `json:"prompt"`
}

type summarizeResponse struct {
	Summary *string `json:"summary"`
}

// NewHTTPClient creates a client for the configured endpoint
func NewHTTPClient(cfg config.SummarizerConfig) *HTTPClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &HTTPClient{
		endpoint: cfg.EndpointURL,
		client:   &http.Client{Timeout: timeout},
	}
}

// Complete sends the prompt once. Non-2xx responses and bodies without a
// summary field are errors; an empty summary string is returned as is.
func (c *HTTPClient) Complete(ctx context.Context, prompt string) (string, error) {
	b, err := json.Marshal(summarizeRequest{Prompt: prompt})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(b))
	if err != nil {
		return "", fmt.Errorf("failed to build summarize request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to call summarize endpoint: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("summarize endpoint returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var out summarizeResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("failed to decode summarize response: %w", err)
	}
	if out.Summary == nil {
		return "", fmt.Errorf("summarize response has no summary field")
	}
	return *out.Summary, nil
}
