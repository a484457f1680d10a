package handler

import (
	"context"
	stdErrors "errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/voice-agent/errors"
	"github.com/johnquangdev/voice-agent/internal/adapter/dto"
	"github.com/johnquangdev/voice-agent/internal/usecase/summary"
)

// PromptSummarizer answers a free-form summarization prompt
type PromptSummarizer interface {
	Summarize(ctx context.Context, prompt string) (string, error)
	ProviderName() string
}

// Summarize exposes the model provider as the summarization endpoint
type Summarize struct {
	service PromptSummarizer
	logger  *zap.Logger
}

// NewSummarizeHandler creates a new summarize handler
func NewSummarizeHandler(service PromptSummarizer, logger *zap.Logger) *Summarize {
	return &Summarize{
		service: service,
		logger:  logger,
	}
}

// Summarize handles POST /summarize
// @Summary      Summarize a prompt
// @Description  Sends the prompt to the configured model provider and returns its text
// @Tags         Summarize
// @Accept       json
// @Produce      json
// @Param        request  body      dto.SummarizeRequest  true  "Prompt"
// @Success      200      {object}  dto.SummarizeResponse
// @Failure      400      {object}  common.ErrorResponse  "Missing prompt"
// @Failure      500      {object}  common.ErrorResponse  "Failed to summarize transcript"
// @Router       /summarize [post]
func (h *Summarize) Summarize(c echo.Context) error {
	var req dto.SummarizeRequest
	if err := c.Bind(&req); err != nil {
		return RespondError(h.logger, c, errors.ErrInvalidPayload())
	}
	if err := c.Validate(&req); err != nil {
		return RespondError(h.logger, c, errors.ErrInvalidArgument("Missing prompt"))
	}

	text, err := h.service.Summarize(c.Request().Context(), req.Prompt)
	if err != nil {
		if stdErrors.Is(err, summary.ErrProviderNotConfigured) {
			return RespondError(h.logger, c, errors.ErrAIProviderMisconfigured(h.service.ProviderName()))
		}
		return RespondError(h.logger, c, errors.ErrAISummaryFailed(err))
	}

	return c.JSON(http.StatusOK, dto.SummarizeResponse{Summary: text})
}
