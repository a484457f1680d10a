package voicecall

import (
	"context"

	"github.com/johnquangdev/voice-agent/internal/infrastructure/external/livekit"
)

type livekitTransport struct {
	client livekit.Client
}

// NewLiveKitTransport tears calls down by deleting their LiveKit room
func NewLiveKitTransport(client livekit.Client) Transport {
	return &livekitTransport{client: client}
}

func (t *livekitTransport) Teardown(ctx context.Context, roomName string) error {
	return t.client.DeleteRoom(ctx, roomName)
}
