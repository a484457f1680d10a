package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const (
	defaultAccessSecret  = "your-access-secret-change-in-production"
	defaultRefreshSecret = "your-refresh-secret-change-in-production"
)

// Config holds application configuration
type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	Mongo      MongoConfig
	OAuth      OAuthConfig
	JWT        JWTConfig
	LiveKit    LiveKitConfig
	Summarizer SummarizerConfig
	Agent      AgentConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port            string
	Host            string
	Environment     string
	AllowedOrigins  []string
	ShutdownTimeout int
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Driver        string // "postgres", "mysql" or "sqlite"
	Host          string
	Port          string
	User          string
	Password      string
	Name          string
	SSLMode       string
	SQLitePath    string
	MaxConns      int
	MinConns      int
	AutoMigrate   bool
	MigrationsDir string
	CallStore     string // "sql" or "mongo"
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     string
	Password string
	DB       int
}

// MongoConfig holds the optional document store used for call records
type MongoConfig struct {
	URI        string `envconfig:"URI" default:"mongodb://localhost:27017"`
	Database   string `envconfig:"DATABASE" default:"voice_agent"`
	Collection string `envconfig:"COLLECTION" default:"calls"`
}

// OAuthConfig holds OAuth configuration
type OAuthConfig struct {
	Google GoogleOAuthConfig
}

// GoogleOAuthConfig holds Google OAuth configuration
type GoogleOAuthConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	AccessSecret  string
	RefreshSecret string
	AccessExpiry  time.Duration
	RefreshExpiry time.Duration
}

// LiveKitConfig holds LiveKit configuration
type LiveKitConfig struct {
	URL           string        `envconfig:"URL" default:"ws://localhost:7880"`
	APIKey        string        `envconfig:"API_KEY"`
	APISecret     string        `envconfig:"API_SECRET"`
	WebhookSecret string        `envconfig:"WEBHOOK_SECRET"`
	UseMock       bool          `envconfig:"USE_MOCK" default:"false"`
	TokenTTL      time.Duration `envconfig:"TOKEN_TTL" default:"1h"`
	EmptyTimeout  int32         `envconfig:"EMPTY_TIMEOUT" default:"300"`
}

// SummarizerConfig holds configuration for both the consumed summarization
// endpoint and the model provider behind the exposed one
type SummarizerConfig struct {
	Mode        string        `envconfig:"MODE" default:"http"` // "http" or "direct"
	EndpointURL string        `envconfig:"ENDPOINT_URL" default:"http://localhost:8080/v1/summarize"`
	Timeout     time.Duration `envconfig:"TIMEOUT" default:"30s"`
	Provider    string        `envconfig:"PROVIDER" default:"gemini"` // gemini, openai, anthropic, groq
	APIKey      string        `envconfig:"API_KEY"`
	Model       string        `envconfig:"MODEL"`
	BaseURL     string        `envconfig:"BASE_URL"`
	MaxTokens   int           `envconfig:"MAX_TOKENS" default:"300"`
}

// AgentConfig describes the conversational agent joined to each call
type AgentConfig struct {
	Name        string
	CompanyName string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if exists (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables or defaults")
	}

	config := &Config{
		Server: ServerConfig{
			Port:            getEnv("PORT", "8080"),
			Host:            getEnv("HOST", "0.0.0.0"),
			Environment:     getEnv("ENVIRONMENT", "development"),
			AllowedOrigins:  splitList(getEnv("ALLOWED_ORIGINS", "http://localhost:3000")),
			ShutdownTimeout: getEnvAsInt("SHUTDOWN_TIMEOUT", 10),
		},
		Database: DatabaseConfig{
			Driver:        getEnv("DB_DRIVER", "postgres"),
			Host:          getEnv("DB_HOST", "localhost"),
			Port:          getEnv("DB_PORT", "5432"),
			User:          getEnv("DB_USER", "postgres"),
			Password:      getEnv("DB_PASSWORD", "postgres"),
			Name:          getEnv("DB_NAME", "voice_agent"),
			SSLMode:       getEnv("DB_SSLMODE", "disable"),
			SQLitePath:    getEnv("DB_SQLITE_PATH", "voice_agent.db"),
			MaxConns:      getEnvAsInt("DB_MAX_CONNS", 25),
			MinConns:      getEnvAsInt("DB_MIN_CONNS", 5),
			AutoMigrate:   getEnvAsBool("DB_AUTO_MIGRATE", false),
			MigrationsDir: getEnv("DB_MIGRATIONS_DIR", "migrations"),
			CallStore:     getEnv("CALL_STORE", "sql"),
		},
		Redis: RedisConfig{
			Enabled:  getEnvAsBool("REDIS_ENABLED", true),
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		OAuth: OAuthConfig{
			Google: GoogleOAuthConfig{
				ClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
				ClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
				RedirectURL:  getEnv("GOOGLE_REDIRECT_URL", "http://localhost:8080/v1/auth/google/callback"),
			},
		},
		JWT: JWTConfig{
			AccessSecret:  getEnv("JWT_ACCESS_SECRET", defaultAccessSecret),
			RefreshSecret: getEnv("JWT_REFRESH_SECRET", defaultRefreshSecret),
			AccessExpiry:  getEnvAsDuration("JWT_ACCESS_EXPIRY", "15m"),
			RefreshExpiry: getEnvAsDuration("JWT_REFRESH_EXPIRY", "168h"),
		},
		Agent: AgentConfig{
			Name:        getEnv("AGENT_NAME", "voice-agent"),
			CompanyName: getEnv("AGENT_COMPANY_NAME", "Waldo The Wellness Warrior"),
		},
	}

	if err := envconfig.Process("LIVEKIT", &config.LiveKit); err != nil {
		return nil, fmt.Errorf("failed to load LiveKit config: %w", err)
	}
	if err := envconfig.Process("SUMMARIZER", &config.Summarizer); err != nil {
		return nil, fmt.Errorf("failed to load summarizer config: %w", err)
	}
	if err := envconfig.Process("MONGO", &config.Mongo); err != nil {
		return nil, fmt.Errorf("failed to load Mongo config: %w", err)
	}

	// The provider key may also come from the provider's own variable
	if config.Summarizer.APIKey == "" {
		config.Summarizer.APIKey = providerKeyFromEnv(config.Summarizer.Provider)
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "postgres", "mysql", "sqlite":
	default:
		return fmt.Errorf("DB_DRIVER must be one of postgres, mysql, sqlite (got %q)", c.Database.Driver)
	}
	switch c.Database.CallStore {
	case "sql", "mongo":
	default:
		return fmt.Errorf("CALL_STORE must be sql or mongo (got %q)", c.Database.CallStore)
	}
	switch c.Summarizer.Mode {
	case "http", "direct":
	default:
		return fmt.Errorf("SUMMARIZER_MODE must be http or direct (got %q)", c.Summarizer.Mode)
	}
	switch c.Summarizer.Provider {
	case "gemini", "openai", "anthropic", "groq":
	default:
		return fmt.Errorf("SUMMARIZER_PROVIDER %q is not supported", c.Summarizer.Provider)
	}

	if c.IsProduction() {
		if c.OAuth.Google.ClientID == "" {
			return fmt.Errorf("GOOGLE_CLIENT_ID is required")
		}
		if c.OAuth.Google.ClientSecret == "" {
			return fmt.Errorf("GOOGLE_CLIENT_SECRET is required")
		}
		if c.JWT.AccessSecret == defaultAccessSecret || c.JWT.RefreshSecret == defaultRefreshSecret {
			return fmt.Errorf("JWT secrets must be set in production")
		}
		if !c.LiveKit.UseMock && (c.LiveKit.APIKey == "" || c.LiveKit.APISecret == "") {
			return fmt.Errorf("LIVEKIT_API_KEY and LIVEKIT_API_SECRET are required")
		}
	}
	return nil
}

// IsProduction reports whether the service runs in production
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

// GetDatabaseDSN returns the database connection string for the configured driver
func (c *Config) GetDatabaseDSN() string {
	switch c.Database.Driver {
	case "mysql":
		return fmt.Sprintf(
			"%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
			c.Database.User,
			c.Database.Password,
			c.Database.Host,
			c.Database.Port,
			c.Database.Name,
		)
	case "sqlite":
		return c.Database.SQLitePath
	}
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// GetRedisAddr returns the Redis address
func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", c.Redis.Host, c.Redis.Port)
}

// Helper functions

func providerKeyFromEnv(provider string) string {
	switch provider {
	case "gemini":
		return getEnv("GEMINI_API_KEY", "")
	case "openai":
		return getEnv("OPENAI_API_KEY", "")
	case "anthropic":
		return getEnv("ANTHROPIC_API_KEY", "")
	case "groq":
		return getEnv("GROQ_API_KEY", "")
	}
	return ""
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := getEnv(key, defaultValue)
	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		duration, _ = time.ParseDuration(defaultValue)
	}
	return duration
}
