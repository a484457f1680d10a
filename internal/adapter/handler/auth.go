package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/voice-agent/errors"
	authDTO "github.com/johnquangdev/voice-agent/internal/adapter/dto/auth"
	"github.com/johnquangdev/voice-agent/internal/adapter/presenter"
	httpmw "github.com/johnquangdev/voice-agent/internal/infrastructure/http/middleware"
	"github.com/johnquangdev/voice-agent/internal/usecase/auth"
	"github.com/johnquangdev/voice-agent/pkg/config"
)

// AuthService is the part of the OAuth service used by the auth handler
type AuthService interface {
	GetAuthURL(ctx context.Context) (*auth.AuthURLResponse, error)
	HandleCallback(ctx context.Context, req *auth.CallbackRequest) (*auth.AuthResponse, error)
	RefreshAccessToken(ctx context.Context, refreshToken string) (*auth.AuthResponse, error)
	Logout(ctx context.Context, refreshToken string) error
}

// Auth handles authentication HTTP requests
type Auth struct {
	oauthService AuthService
	logger       *zap.Logger
	cfg          *config.Config
}

// NewAuth creates a new auth handler
func NewAuth(oauthService AuthService, logger *zap.Logger, cfg *config.Config) *Auth {
	return &Auth{
		oauthService: oauthService,
		logger:       logger,
		cfg:          cfg,
	}
}

// GoogleLogin handles the initial Google OAuth login request
// @Summary      Start Google login
// @Description  Redirects the browser to the Google consent screen
// @Tags         Auth
// @Success      307
// @Failure      500  {object}  map[string]interface{}
// @Router       /auth/google/login [get]
func (h *Auth) GoogleLogin(c echo.Context) error {
	authURL, err := h.oauthService.GetAuthURL(c.Request().Context())
	if err != nil {
		return HandleError(h.logger, c, errors.ErrCacheFailed("generate oauth state", err))
	}

	return c.Redirect(http.StatusTemporaryRedirect, authURL.URL)
}

// GoogleCallback handles the OAuth callback from Google
// @Summary      Google OAuth callback
// @Description  Exchanges the authorization code and opens a session
// @Tags         Auth
// @Produce      json
// @Param        code   query     string  true  "Authorization code"
// @Param        state  query     string  true  "OAuth state"
// @Success      200    {object}  authDTO.AuthResponse
// @Failure      400    {object}  map[string]interface{}
// @Failure      401    {object}  map[string]interface{}
// @Router       /auth/google/callback [get]
func (h *Auth) GoogleCallback(c echo.Context) error {
	code := c.QueryParam("code")
	state := c.QueryParam("state")

	if code == "" || state == "" {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("Missing code or state parameter"))
	}

	response, err := h.oauthService.HandleCallback(c.Request().Context(), &auth.CallbackRequest{
		Code:      code,
		State:     state,
		IPAddress: c.RealIP(),
		UserAgent: c.Request().UserAgent(),
	})
	if err != nil {
		return HandleError(h.logger, c, errors.ErrOAuthFailed("google", err))
	}

	secure := h.cfg != nil && h.cfg.IsProduction()
	SetCookie(c, "access_token", response.AccessToken, int(response.ExpiresIn), secure)
	if h.cfg != nil {
		SetCookie(c, "refresh_token", response.RefreshToken, int(h.cfg.JWT.RefreshExpiry.Seconds()), secure)
	}

	return HandleSuccess(h.logger, c, presenter.ToAuthResponse(response))
}

// RefreshToken refreshes the access token
// @Summary      Refresh access token
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        request  body      authDTO.RefreshTokenRequest  true  "Refresh token"
// @Success      200      {object}  authDTO.RefreshTokenResponse
// @Failure      400      {object}  map[string]interface{}
// @Failure      401      {object}  map[string]interface{}
// @Router       /auth/refresh [post]
func (h *Auth) RefreshToken(c echo.Context) error {
	var req authDTO.RefreshTokenRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("Missing refresh token"))
	}

	response, err := h.oauthService.RefreshAccessToken(c.Request().Context(), req.RefreshToken)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, presenter.ToAuthRefreshTokenResponse(response))
}

// Logout revokes the session of a refresh token
// @Summary      Logout
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        request  body      authDTO.LogoutRequest  true  "Refresh token"
// @Success      200      {object}  map[string]interface{}
// @Failure      400      {object}  map[string]interface{}
// @Router       /auth/logout [post]
func (h *Auth) Logout(c echo.Context) error {
	var req authDTO.LogoutRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("Missing refresh token"))
	}

	if err := h.oauthService.Logout(c.Request().Context(), req.RefreshToken); err != nil {
		return HandleError(h.logger, c, err)
	}

	DeleteCookie(c, "access_token")
	DeleteCookie(c, "refresh_token")

	return HandleSuccess(h.logger, c, map[string]string{
		"message": "Logged out successfully",
	})
}

// Me returns the current user information
// @Summary      Current user
// @Tags         Auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  authDTO.UserResponse
// @Failure      401  {object}  map[string]interface{}
// @Router       /auth/me [get]
func (h *Auth) Me(c echo.Context) error {
	user, ok := httpmw.CurrentUser(c)
	if !ok {
		return HandleError(h.logger, c, errors.ErrUnauthenticated())
	}

	return HandleSuccess(h.logger, c, presenter.ToUserResponse(user))
}
