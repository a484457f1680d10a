package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	appErrors "github.com/johnquangdev/voice-agent/errors"
	"github.com/johnquangdev/voice-agent/internal/domain/entities"
)

const (
	// UserKey holds the authenticated *entities.User in the Echo context
	UserKey = "user"
	// UserIDKey holds the authenticated user's uuid.UUID in the Echo context
	UserIDKey = "user_id"
)

// SessionValidator resolves an access token to a user
type SessionValidator interface {
	ValidateSession(ctx context.Context, token string) (*entities.User, error)
}

// EchoAuth returns an Echo middleware that validates the access token and sets
// "user" (*entities.User) and "user_id" (uuid.UUID) into the Echo context
func EchoAuth(sessions SessionValidator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := ExtractToken(c.Request())
			if token == "" {
				return unauthenticated(c)
			}

			user, err := sessions.ValidateSession(c.Request().Context(), token)
			if err != nil {
				return unauthenticated(c)
			}

			c.Set(UserKey, user)
			c.Set(UserIDKey, user.ID)

			return next(c)
		}
	}
}

// CurrentUser returns the authenticated user, if any
func CurrentUser(c echo.Context) (*entities.User, bool) {
	user, ok := c.Get(UserKey).(*entities.User)
	return user, ok && user != nil
}

// CurrentUserID returns the opaque identifier of the authenticated user, or ""
func CurrentUserID(c echo.Context) string {
	if user, ok := CurrentUser(c); ok {
		return user.Identity()
	}
	if id, ok := c.Get(UserIDKey).(uuid.UUID); ok && id != uuid.Nil {
		return id.String()
	}
	return ""
}

// ExtractToken reads a bearer token from the Authorization header, falling
// back to the access_token cookie
func ExtractToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return strings.TrimSpace(parts[1])
		}
	}

	if cookie, err := r.Cookie("access_token"); err == nil {
		return cookie.Value
	}
	return ""
}

func unauthenticated(c echo.Context) error {
	appErr := appErrors.ErrUnauthenticated()
	return c.JSON(appErr.HTTPCode, map[string]string{
		"error": appErr.Message,
		"code":  appErr.Code.String(),
	})
}
