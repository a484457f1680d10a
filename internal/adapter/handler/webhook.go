package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/livekit/protocol/livekit"
	"go.uber.org/zap"

	"github.com/johnquangdev/voice-agent/internal/usecase/voicecall"
)

// WebhookReceiver verifies and decodes LiveKit webhook deliveries
type WebhookReceiver interface {
	Receive(r *http.Request) (*livekit.WebhookEvent, error)
}

// RoomEvents reacts to LiveKit room lifecycle events
type RoomEvents interface {
	RoomFinished(ctx context.Context, roomName string) (*voicecall.Outcome, error)
}

// WebhookHandler handles LiveKit webhook events
type WebhookHandler struct {
	receiver WebhookReceiver
	rooms    RoomEvents
	logger   *zap.Logger
}

// NewWebhookHandler creates a new webhook handler
func NewWebhookHandler(receiver WebhookReceiver, rooms RoomEvents, logger *zap.Logger) *WebhookHandler {
	return &WebhookHandler{
		receiver: receiver,
		rooms:    rooms,
		logger:   logger,
	}
}

// HandleLiveKitWebhook processes LiveKit webhook events
// @Summary      LiveKit Webhook
// @Description  Receives webhook events from LiveKit server with JWT signature validation
// @Tags         Webhooks
// @Accept       json
// @Produce      json
// @Success      200  {object}  common.StatusResponse
// @Failure      401  {object}  common.ErrorResponse
// @Router       /webhooks/livekit [post]
func (h *WebhookHandler) HandleLiveKitWebhook(c echo.Context) error {
	event, err := h.receiver.Receive(c.Request())
	if err != nil {
		h.logger.Warn("webhook.livekit.rejected", zap.Error(err))
		return c.JSON(http.StatusUnauthorized, map[string]string{
			"error": "Invalid webhook signature",
			"code":  "AUTH_INVALID_TOKEN",
		})
	}

	roomName := event.GetRoom().GetName()
	h.logger.Info("webhook.livekit.received",
		zap.String("event", event.GetEvent()),
		zap.String("room", roomName),
		zap.String("event_id", event.GetId()),
	)

	switch event.GetEvent() {
	case "room_finished":
		outcome, err := h.rooms.RoomFinished(c.Request().Context(), roomName)
		if err != nil {
			h.logger.Error("webhook.livekit.room_finished_failed", zap.String("room", roomName), zap.Error(err))
			break
		}
		if outcome != nil {
			h.logger.Info("webhook.livekit.call_finished",
				zap.String("call_id", outcome.CallID.String()),
				zap.String("summary_source", string(outcome.Source)),
				zap.String("warning", outcome.Warning),
			)
		}
	case "participant_left":
		h.logger.Debug("webhook.livekit.participant_left",
			zap.String("room", roomName),
			zap.String("identity", event.GetParticipant().GetIdentity()),
		)
	}

	// LiveKit retries non-2xx deliveries; pipeline failures are logged only
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
