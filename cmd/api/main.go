package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	_ "github.com/johnquangdev/voice-agent/docs"
	"github.com/johnquangdev/voice-agent/internal/adapter/handler"
	"github.com/johnquangdev/voice-agent/internal/adapter/repository"
	"github.com/johnquangdev/voice-agent/internal/domain/repositories"
	"github.com/johnquangdev/voice-agent/internal/infrastructure/cache"
	"github.com/johnquangdev/voice-agent/internal/infrastructure/database"
	"github.com/johnquangdev/voice-agent/internal/infrastructure/external/livekit"
	"github.com/johnquangdev/voice-agent/internal/infrastructure/external/oauth"
	"github.com/johnquangdev/voice-agent/internal/infrastructure/external/summarizer"
	httpmw "github.com/johnquangdev/voice-agent/internal/infrastructure/http/middleware"
	"github.com/johnquangdev/voice-agent/internal/usecase/auth"
	"github.com/johnquangdev/voice-agent/internal/usecase/call"
	"github.com/johnquangdev/voice-agent/internal/usecase/summary"
	"github.com/johnquangdev/voice-agent/internal/usecase/voicecall"
	pkgai "github.com/johnquangdev/voice-agent/pkg/ai"
	"github.com/johnquangdev/voice-agent/pkg/config"
	"github.com/johnquangdev/voice-agent/pkg/jwt"
	pkgvalidator "github.com/johnquangdev/voice-agent/pkg/validator"
)

// @title           Voice Agent API
// @version         1.0
// @description     End-of-call summaries for patient-support voice calls, call history and LiveKit call sessions

// @BasePath  /v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	startupCtx, cancelStartup := context.WithTimeout(context.Background(), time.Minute)
	defer cancelStartup()

	// Initialize Echo instance
	e := echo.New()
	e.Validator = pkgvalidator.New()
	e.HideBanner = true
	e.HidePort = false

	e.Use(middleware.RequestID())
	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: "${time_rfc3339} | ${status} | ${method} ${uri} | ${latency_human}\n",
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.Server.AllowedOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization, "Set-Cookie", "Cookie"},
		AllowCredentials: true,
	}))

	log.Println("🔧 Initializing dependencies...")

	// Initialize Database
	log.Printf("📦 Connecting to database (%s)...", cfg.Database.Driver)
	db, err := database.Open(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.CloseDB(db)

	if cfg.Database.AutoMigrate {
		if cfg.IsProduction() {
			log.Fatalf("AutoMigrate is enabled in production. Disable DB_AUTO_MIGRATE and run `voicectl migrate up`.")
		}
		log.Println("🔄 Migrating schema...")
		if _, err := database.Migrate(db, cfg); err != nil {
			log.Fatalf("Failed to migrate: %v", err)
		}
	} else {
		log.Println("🔄 Skipping migrations; run `voicectl migrate up` to manage the schema")
	}

	// Initialize repositories
	log.Println("⚙️  Initializing repositories...")
	userRepo := repository.NewUserRepository(db)
	sessionRepo := repository.NewSessionRepository(db)

	var callRepo repositories.CallRepository
	switch cfg.Database.CallStore {
	case "mongo":
		log.Println("📦 Connecting to MongoDB for call records...")
		mongoClient, err := database.NewMongoClient(startupCtx, cfg.Mongo)
		if err != nil {
			log.Fatalf("Failed to connect to MongoDB: %v", err)
		}
		defer mongoClient.Disconnect(context.Background())

		mongoRepo := repository.NewMongoCallRepository(mongoClient.Database(cfg.Mongo.Database).Collection(cfg.Mongo.Collection))
		if err := mongoRepo.EnsureIndexes(startupCtx); err != nil {
			log.Fatalf("Failed to create call indexes: %v", err)
		}
		callRepo = mongoRepo
	default:
		callRepo = repository.NewCallRepository(db)
	}

	// OAuth state store
	var stateStore oauth.Store
	if cfg.Redis.Enabled {
		log.Println("📦 Connecting to Redis...")
		redisStore, err := cache.NewRedisStore(startupCtx, cfg)
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer redisStore.Close()
		stateStore = redisStore
	} else {
		log.Println("⚠️  Redis disabled, OAuth state kept in memory")
		memoryStore := cache.NewMemoryStore()
		defer memoryStore.Close()
		stateStore = memoryStore
	}

	// Auth
	log.Println("🔐 Initializing OAuth service...")
	jwtManager := jwt.NewManager(cfg.JWT)
	oauthService := auth.NewOAuthService(
		userRepo,
		sessionRepo,
		oauth.NewGoogleProvider(cfg.OAuth.Google),
		oauth.NewStateManager(stateStore),
		jwtManager,
		logger,
	)

	janitorCtx, stopJanitor := context.WithCancel(context.Background())
	defer stopJanitor()
	go oauthService.RunSessionJanitor(janitorCtx, time.Hour)

	// LiveKit
	log.Println("🎥 Initializing LiveKit client...")
	livekitClient := livekit.NewClient(cfg.LiveKit)
	if cfg.LiveKit.UseMock {
		log.Println("⚠️  LiveKit running in MOCK mode (no real server needed)")
	} else {
		log.Printf("✅ LiveKit configured for: %s", cfg.LiveKit.URL)
	}

	// Summarization
	log.Println("🤖 Initializing summarization...")
	provider, err := pkgai.NewProvider(cfg.Summarizer)
	if err != nil {
		logger.Warn("summary.provider_unavailable",
			zap.String("provider", cfg.Summarizer.Provider),
			zap.Error(err),
		)
		provider = nil
	}

	var completer summary.Completer = summarizer.NewHTTPClient(cfg.Summarizer)
	if cfg.Summarizer.Mode == "direct" {
		if provider == nil {
			log.Fatalf("SUMMARIZER_MODE=direct requires a configured %s API key", cfg.Summarizer.Provider)
		}
		completer = summary.ProviderCompleter{Provider: provider}
	}
	callSummarizer := summary.NewSummarizer(completer, logger)
	promptService := summary.NewPromptService(provider, logger)

	// Calls
	callService := call.NewService(callRepo)
	manager := voicecall.NewManager(livekitClient, callSummarizer, callService, cfg, logger)

	// Handlers
	log.Println("🛣️  Setting up routes...")
	router := handler.NewRouter(
		cfg,
		handler.NewAuth(oauthService, logger, cfg),
		handler.NewCallHandler(callService, logger),
		handler.NewSummarizeHandler(promptService, logger),
		handler.NewVoiceHandler(manager, logger),
		handler.NewWebhookHandler(livekit.NewWebhookReceiver(cfg.LiveKit), manager, logger),
		manager,
		httpmw.EchoAuth(oauthService),
	)
	router.Setup(e)

	// Start server
	go func() {
		addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
		log.Printf("🚀 Starting server on %s", addr)
		log.Printf("📝 Environment: %s", cfg.Server.Environment)
		log.Printf("🔗 Health check: http://%s/health", addr)

		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")
	stopJanitor()

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		log.Printf("❌ Server forced to shutdown: %v", err)
	}

	log.Printf("📞 Finishing %d active call(s)...", manager.ActiveCalls())
	manager.Shutdown(ctx)

	log.Println("✅ Server stopped gracefully")
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsProduction() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
