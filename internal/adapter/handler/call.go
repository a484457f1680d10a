package handler

import (
	stdErrors "errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/voice-agent/errors"
	callDTO "github.com/johnquangdev/voice-agent/internal/adapter/dto/call"
	"github.com/johnquangdev/voice-agent/internal/adapter/presenter"
	httpmw "github.com/johnquangdev/voice-agent/internal/infrastructure/http/middleware"
	callUsecase "github.com/johnquangdev/voice-agent/internal/usecase/call"
	ucErrors "github.com/johnquangdev/voice-agent/internal/usecase/errors"
)

// Call handles call record HTTP requests
type Call struct {
	callService callUsecase.Service
	logger      *zap.Logger
}

// NewCallHandler creates a new call handler
func NewCallHandler(callService callUsecase.Service, logger *zap.Logger) *Call {
	return &Call{
		callService: callService,
		logger:      logger,
	}
}

// ListCalls handles GET /calls
// @Summary      List calls
// @Description  Lists the caller's stored call summaries, newest first
// @Tags         Calls
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   callDTO.CallResponse
// @Failure      401  {object}  common.ErrorResponse  "User not authenticated"
// @Failure      500  {object}  common.ErrorResponse  "Error fetching calls"
// @Router       /calls [get]
func (h *Call) ListCalls(c echo.Context) error {
	calls, err := h.callService.ListByUser(c.Request().Context(), httpmw.CurrentUserID(c))
	if err != nil {
		if stdErrors.Is(err, ucErrors.ErrStore) {
			return RespondError(h.logger, c, errors.ErrFetchCallsFailed(err))
		}
		return RespondError(h.logger, c, err)
	}

	return c.JSON(http.StatusOK, presenter.ToCallListResponse(calls))
}

// CreateCall handles POST /calls
// @Summary      Store a call summary
// @Description  Stores a summary for the authenticated user
// @Tags         Calls
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      callDTO.CreateCallRequest  true  "Call summary"
// @Success      201      {object}  callDTO.CallResponse
// @Failure      400      {object}  common.ErrorResponse  "Missing fields"
// @Failure      401      {object}  common.ErrorResponse  "User not authenticated"
// @Failure      403      {object}  common.ErrorResponse  "Calls can only be stored for the caller"
// @Failure      500      {object}  common.ErrorResponse  "Error creating call"
// @Router       /calls [post]
func (h *Call) CreateCall(c echo.Context) error {
	var req callDTO.CreateCallRequest
	if err := c.Bind(&req); err != nil {
		return RespondError(h.logger, c, errors.ErrMissingFields())
	}
	if err := c.Validate(&req); err != nil {
		return RespondError(h.logger, c, errors.ErrMissingFields())
	}

	callerID := httpmw.CurrentUserID(c)
	if callerID == "" {
		return RespondError(h.logger, c, errors.ErrUnauthenticated())
	}
	if req.UserID != callerID {
		return RespondError(h.logger, c, errors.ErrPermissionDenied("store calls for another user"))
	}

	call, err := h.callService.Create(c.Request().Context(), req.UserID, req.Summary, nil)
	if err != nil {
		if stdErrors.Is(err, ucErrors.ErrStore) {
			return RespondError(h.logger, c, errors.ErrCreateCallFailed(err))
		}
		return RespondError(h.logger, c, err)
	}

	return c.JSON(http.StatusCreated, presenter.ToCallResponse(call))
}
