package middleware

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	authMiddleware "github.com/johnquangdev/voice-agent/internal/infrastructure/http/middleware"
)

// CallIDKey holds the parsed :id path parameter in the Echo context
const CallIDKey = "call_id"

// CallOwners reports who owns an active call
type CallOwners interface {
	Owner(callID uuid.UUID) (string, bool)
}

// RequireCallOwner middleware: only the user who started the call may act on it
func RequireCallOwner(calls CallOwners) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			callID, err := uuid.Parse(c.Param("id"))
			if err != nil {
				return c.JSON(http.StatusBadRequest, map[string]string{
					"error": "Call ID must be a valid UUID",
					"code":  "INVALID_ARGUMENT",
				})
			}
			userID := authMiddleware.CurrentUserID(c)
			if userID == "" {
				return c.JSON(http.StatusUnauthorized, map[string]string{
					"error": "User not authenticated",
					"code":  "UNAUTHENTICATED",
				})
			}
			owner, ok := calls.Owner(callID)
			if !ok {
				return c.JSON(http.StatusNotFound, map[string]string{
					"error": "Call not found",
					"code":  "CALL_NOT_FOUND",
				})
			}
			if owner != userID {
				return c.JSON(http.StatusForbidden, map[string]string{
					"error": "Access to call denied",
					"code":  "CALL_ACCESS_DENIED",
				})
			}
			c.Set(CallIDKey, callID)
			return next(c)
		}
	}
}
