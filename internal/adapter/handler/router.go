package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/johnquangdev/voice-agent/internal/adapter/dto/common"
	"github.com/johnquangdev/voice-agent/pkg/config"
	pkgmw "github.com/johnquangdev/voice-agent/pkg/middleware"
)

// CallTracker reports live calls for health and ownership checks
type CallTracker interface {
	pkgmw.CallOwners
	ActiveCalls() int
}

// Router holds all handlers
type Router struct {
	cfg              *config.Config
	authHandler      *Auth
	callHandler      *Call
	summarizeHandler *Summarize
	voiceHandler     *Voice
	webhookHandler   *WebhookHandler
	calls            CallTracker
	authMiddleware   echo.MiddlewareFunc
}

// NewRouter creates a new router with all handlers
func NewRouter(
	cfg *config.Config,
	authHandler *Auth,
	callHandler *Call,
	summarizeHandler *Summarize,
	voiceHandler *Voice,
	webhookHandler *WebhookHandler,
	calls CallTracker,
	authMiddleware echo.MiddlewareFunc,
) *Router {
	return &Router{
		cfg:              cfg,
		authHandler:      authHandler,
		callHandler:      callHandler,
		summarizeHandler: summarizeHandler,
		voiceHandler:     voiceHandler,
		webhookHandler:   webhookHandler,
		calls:            calls,
		authMiddleware:   authMiddleware,
	}
}

// Setup configures all application routes
func (rt *Router) Setup(e *echo.Echo) {
	e.GET("/health", rt.healthCheck)
	e.GET("/_health", rt.healthCheck)
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	v1 := e.Group("/v1")

	rt.setupAuthRoutes(v1)
	rt.setupSummarizeRoutes(v1)
	rt.setupCallRoutes(v1)
	rt.setupVoiceRoutes(v1)
	rt.setupWebhookRoutes(v1)
}

// setupAuthRoutes configures authentication routes
func (rt *Router) setupAuthRoutes(g *echo.Group) {
	authGroup := g.Group("/auth")

	if rt.authHandler == nil {
		authGroup.Any("/*", rt.notImplemented)
		return
	}

	authGroup.GET("/google/login", rt.authHandler.GoogleLogin)
	authGroup.GET("/google/callback", rt.authHandler.GoogleCallback)
	authGroup.POST("/refresh", rt.authHandler.RefreshToken)
	authGroup.POST("/logout", rt.authHandler.Logout)
	authGroup.GET("/me", rt.authHandler.Me, rt.authMiddleware)
}

func (rt *Router) setupSummarizeRoutes(g *echo.Group) {
	if rt.summarizeHandler == nil {
		g.POST("/summarize", rt.notImplemented)
		return
	}
	g.POST("/summarize", rt.summarizeHandler.Summarize)
}

func (rt *Router) setupCallRoutes(g *echo.Group) {
	callGroup := g.Group("/calls", rt.authMiddleware)
	if rt.callHandler == nil {
		callGroup.Any("", rt.notImplemented)
		return
	}
	callGroup.GET("", rt.callHandler.ListCalls)
	callGroup.POST("", rt.callHandler.CreateCall)
}

func (rt *Router) setupVoiceRoutes(g *echo.Group) {
	voiceGroup := g.Group("/voice/sessions", rt.authMiddleware)
	if rt.voiceHandler == nil {
		voiceGroup.Any("*", rt.notImplemented)
		return
	}

	owner := pkgmw.RequireCallOwner(rt.calls)
	voiceGroup.POST("", rt.voiceHandler.StartSession)
	voiceGroup.POST("/:id/transcript", rt.voiceHandler.AppendTranscript, owner)
	voiceGroup.POST("/:id/leave", rt.voiceHandler.Leave, owner)
}

func (rt *Router) setupWebhookRoutes(g *echo.Group) {
	if rt.webhookHandler == nil {
		return
	}
	g.POST("/webhooks/livekit", rt.webhookHandler.HandleLiveKitWebhook)
}

// notImplemented returns 501 Not Implemented response
func (rt *Router) notImplemented(c echo.Context) error {
	return c.JSON(http.StatusNotImplemented, map[string]interface{}{
		"error":  "This endpoint is not yet implemented",
		"path":   c.Request().URL.Path,
		"method": c.Request().Method,
	})
}

// healthCheck returns health status
// @Summary      Health check
// @Tags         Health
// @Produce      json
// @Success      200  {object}  common.HealthResponse
// @Router       /health [get]
func (rt *Router) healthCheck(c echo.Context) error {
	resp := common.HealthResponse{Status: "ok"}
	if rt.cfg != nil {
		resp.Environment = rt.cfg.Server.Environment
	}
	if rt.calls != nil {
		resp.ActiveCalls = rt.calls.ActiveCalls()
	}
	return c.JSON(http.StatusOK, resp)
}
