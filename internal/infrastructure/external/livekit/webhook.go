package livekit

import (
	"fmt"
	"io"
	"net/http"

	"github.com/livekit/protocol/auth"
	livekit "github.com/livekit/protocol/livekit"
	"github.com/livekit/protocol/webhook"
	"google.golang.org/protobuf/encoding/protojson"

	"github.com/johnquangdev/voice-agent/pkg/config"
)

// WebhookReceiver decodes LiveKit webhook deliveries
type WebhookReceiver struct {
	keys          auth.KeyProvider
	allowUnsigned bool
}

// NewWebhookReceiver builds a receiver. Unsigned payloads are only
// accepted when the client runs in mock mode.
func NewWebhookReceiver(cfg config.LiveKitConfig) *WebhookReceiver {
	secret := cfg.WebhookSecret
	if secret == "" {
		secret = cfg.APISecret
	}
	return &WebhookReceiver{
		keys:          auth.NewSimpleKeyProvider(cfg.APIKey, secret),
		allowUnsigned: cfg.UseMock,
	}
}

// Receive verifies the Authorization header and decodes the event
func (w *WebhookReceiver) Receive(r *http.Request) (*livekit.WebhookEvent, error) {
	if r.Header.Get("Authorization") != "" || !w.allowUnsigned {
		event, err := webhook.ReceiveWebhookEvent(r, w.keys)
		if err != nil {
			return nil, fmt.Errorf("failed to verify webhook: %w", err)
		}
		return event, nil
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read webhook body: %w", err)
	}
	event := &livekit.WebhookEvent{}
	if err := (protojson.UnmarshalOptions{DiscardUnknown: true}).Unmarshal(body, event); err != nil {
		return nil, fmt.Errorf("failed to decode webhook: %w", err)
	}
	return event, nil
}
