package handler

import (
	stdErrors "errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/voice-agent/errors"
	"github.com/johnquangdev/voice-agent/internal/adapter/dto/common"
	"github.com/johnquangdev/voice-agent/internal/domain/entities"
	ucErrors "github.com/johnquangdev/voice-agent/internal/usecase/errors"
)

// Response shapes
type success struct {
	Code    interface{} `json:"code,omitempty"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

type errs struct {
	Code    interface{} `json:"code,omitempty"`
	Message string      `json:"message,omitempty"`
	Info    string      `json:"info,omitempty"`
}

// getRequestID tries to read X-Request-ID from the request
func getRequestID(c echo.Context) string {
	if c == nil || c.Request() == nil {
		return ""
	}
	if id := c.Response().Header().Get(echo.HeaderXRequestID); id != "" {
		return id
	}
	return c.Request().Header.Get(echo.HeaderXRequestID)
}

// HandleSuccess writes a standardized success response using provided logger
func HandleSuccess(logger *zap.Logger, c echo.Context, data interface{}) error {
	resp := success{
		Code:    int(errors.ErrorCode_HTTP_OK),
		Message: "success",
		Data:    data,
	}

	if logger != nil {
		logger.Info("http.response.success",
			zap.String("request_id", getRequestID(c)),
			zap.String("path", c.Path()),
		)
	}

	return c.JSON(http.StatusOK, resp)
}

// HandleError centralizes error handling and logging using provided logger
func HandleError(logger *zap.Logger, c echo.Context, err error) error {
	appErr := ToAppError(err)

	logError(logger, c, appErr)

	info := ""
	if appErr.Raw != nil && appErr.HTTPCode < http.StatusInternalServerError {
		info = appErr.Raw.Error()
	}

	body := errs{
		Code:    appErr.Code,
		Message: appErr.Message,
		Info:    info,
	}

	return c.JSON(appErr.HTTPCode, body)
}

// RespondError writes the bare {"error", "code"} body used by the call,
// voice and summarize endpoints
func RespondError(logger *zap.Logger, c echo.Context, err error) error {
	appErr := ToAppError(err)

	logError(logger, c, appErr)

	return c.JSON(appErr.HTTPCode, common.ErrorResponse{
		Error:   appErr.Message,
		Code:    appErr.Code.String(),
		Details: appErr.Details,
	})
}

func logError(logger *zap.Logger, c echo.Context, appErr errors.AppError) {
	if logger == nil {
		return
	}
	fields := []zap.Field{
		zap.String("request_id", getRequestID(c)),
		zap.String("path", c.Path()),
		zap.String("app_code", appErr.Code.String()),
		zap.Int("status", appErr.HTTPCode),
	}
	if appErr.Raw != nil {
		fields = append(fields, zap.Error(appErr.Raw))
	}
	if appErr.HTTPCode >= http.StatusInternalServerError {
		logger.Error("http.response.error", fields...)
		return
	}
	logger.Warn("http.response.error", fields...)
}

// ToAppError maps domain and usecase errors onto application errors.
// Unknown errors become internal errors.
func ToAppError(err error) errors.AppError {
	var appErr errors.AppError
	if stdErrors.As(err, &appErr) {
		return appErr
	}

	switch {
	case stdErrors.Is(err, ucErrors.ErrValidation):
		return errors.ErrMissingFields()
	case stdErrors.Is(err, ucErrors.ErrUnauthenticated),
		stdErrors.Is(err, entities.ErrUnauthorized):
		return errors.ErrUnauthenticated()
	case stdErrors.Is(err, ucErrors.ErrTokenInvalid),
		stdErrors.Is(err, entities.ErrInvalidToken):
		return errors.ErrInvalidToken()
	case stdErrors.Is(err, ucErrors.ErrSessionExpired),
		stdErrors.Is(err, entities.ErrSessionExpired),
		stdErrors.Is(err, entities.ErrSessionNotFound):
		return errors.ErrInvalidRefreshToken()
	case stdErrors.Is(err, entities.ErrUserNotFound):
		return errors.ErrUserNotFound()
	case stdErrors.Is(err, entities.ErrOAuthStateMismatch),
		stdErrors.Is(err, ucErrors.ErrInvalidState):
		return errors.ErrOAuthFailed("google", err)
	case stdErrors.Is(err, ucErrors.ErrStore):
		return errors.ErrDBQueryFailed("calls", err)
	}

	return errors.ErrInternal(err)
}

// SetCookie sets an HTTP-only cookie on the response
func SetCookie(c echo.Context, name, value string, maxAge int, secure bool) {
	c.SetCookie(&http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// DeleteCookie deletes an HTTP cookie by setting MaxAge to -1
func DeleteCookie(c echo.Context, name string) {
	c.SetCookie(&http.Cookie{
		Name:   name,
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	})
}
