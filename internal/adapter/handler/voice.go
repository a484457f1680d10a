package handler

import (
	"context"
	stdErrors "errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/voice-agent/errors"
	"github.com/johnquangdev/voice-agent/internal/adapter/dto/common"
	voiceDTO "github.com/johnquangdev/voice-agent/internal/adapter/dto/voice"
	"github.com/johnquangdev/voice-agent/internal/adapter/presenter"
	"github.com/johnquangdev/voice-agent/internal/domain/entities"
	httpmw "github.com/johnquangdev/voice-agent/internal/infrastructure/http/middleware"
	"github.com/johnquangdev/voice-agent/internal/usecase/voicecall"
	pkgmw "github.com/johnquangdev/voice-agent/pkg/middleware"
)

// CallSessions runs the lifecycle of live voice calls
type CallSessions interface {
	Start(ctx context.Context, user *entities.User) (*voicecall.StartResult, error)
	Record(ctx context.Context, callID uuid.UUID, userID, text, producer string) error
	Leave(ctx context.Context, callID uuid.UUID, userID string) (*voicecall.Outcome, error)
}

// Voice handles voice call session requests
type Voice struct {
	sessions CallSessions
	logger   *zap.Logger
}

// NewVoiceHandler creates a new voice handler
func NewVoiceHandler(sessions CallSessions, logger *zap.Logger) *Voice {
	return &Voice{
		sessions: sessions,
		logger:   logger,
	}
}

// StartSession handles POST /voice/sessions
// @Summary      Start a voice call
// @Description  Creates the call room and a join token for the caller
// @Tags         Voice
// @Produce      json
// @Security     BearerAuth
// @Success      201  {object}  voiceDTO.StartSessionResponse
// @Failure      401  {object}  common.ErrorResponse
// @Failure      500  {object}  common.ErrorResponse
// @Router       /voice/sessions [post]
func (h *Voice) StartSession(c echo.Context) error {
	user, ok := httpmw.CurrentUser(c)
	if !ok {
		return RespondError(h.logger, c, errors.ErrUnauthenticated())
	}

	result, err := h.sessions.Start(c.Request().Context(), user)
	if err != nil {
		return RespondError(h.logger, c, errors.ErrCallStartFailed(err))
	}

	return c.JSON(http.StatusCreated, presenter.ToStartSessionResponse(result))
}

// AppendTranscript handles POST /voice/sessions/:id/transcript
// @Summary      Append a transcript fragment
// @Tags         Voice
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                      true  "Call ID (UUID)"
// @Param        request  body      voiceDTO.TranscriptRequest  true  "Fragment"
// @Success      202      {object}  common.StatusResponse
// @Failure      400      {object}  common.ErrorResponse
// @Failure      404      {object}  common.ErrorResponse
// @Failure      409      {object}  common.ErrorResponse  "Call is no longer active"
// @Router       /voice/sessions/{id}/transcript [post]
func (h *Voice) AppendTranscript(c echo.Context) error {
	var req voiceDTO.TranscriptRequest
	if err := c.Bind(&req); err != nil {
		return RespondError(h.logger, c, errors.ErrInvalidPayload())
	}
	if err := c.Validate(&req); err != nil {
		return RespondError(h.logger, c, errors.ErrMissingFields())
	}

	callID, _ := c.Get(pkgmw.CallIDKey).(uuid.UUID)
	if err := h.sessions.Record(c.Request().Context(), callID, httpmw.CurrentUserID(c), req.Text, req.Producer); err != nil {
		return RespondError(h.logger, c, callError(err, callID))
	}

	return c.JSON(http.StatusAccepted, common.StatusResponse{Status: "accepted"})
}

// Leave handles POST /voice/sessions/:id/leave
// @Summary      Leave a voice call
// @Description  Disconnects the call, summarizes the transcript and stores the summary
// @Tags         Voice
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Call ID (UUID)"
// @Success      200  {object}  voiceDTO.LeaveResponse
// @Failure      404  {object}  common.ErrorResponse
// @Failure      409  {object}  common.ErrorResponse  "Call is no longer active"
// @Router       /voice/sessions/{id}/leave [post]
func (h *Voice) Leave(c echo.Context) error {
	callID, _ := c.Get(pkgmw.CallIDKey).(uuid.UUID)

	outcome, err := h.sessions.Leave(c.Request().Context(), callID, httpmw.CurrentUserID(c))
	if err != nil {
		return RespondError(h.logger, c, callError(err, callID))
	}

	if outcome.Warning != "" {
		h.logger.Warn("call.leave.warning",
			zap.String("call_id", callID.String()),
			zap.String("warning", outcome.Warning),
		)
	}

	return c.JSON(http.StatusOK, presenter.ToLeaveResponse(outcome))
}

// callError attaches the call ID to lifecycle errors
func callError(err error, callID uuid.UUID) error {
	id := callID.String()
	switch {
	case stdErrors.Is(err, entities.ErrCallNotFound):
		return errors.ErrCallNotFound(id)
	case stdErrors.Is(err, entities.ErrCallAccessDenied):
		return errors.ErrCallAccessDenied(id)
	case stdErrors.Is(err, entities.ErrCallNotActive), stdErrors.Is(err, entities.ErrCallFinished):
		return errors.ErrCallNotActive(id)
	}
	return err
}
