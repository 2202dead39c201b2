package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration
type Config struct {
	App      AppConfig
	Server   ServerConfig
	Storage  StorageConfig
	Database DatabaseConfig
	Redis    RedisConfig
	OpenAI   OpenAIConfig
	Auth     AuthConfig
	Feedback FeedbackConfig
	OTEL     OTELConfig
}

// AppConfig holds process-wide settings
type AppConfig struct {
	Name           string
	Env            string
	AllowedOrigins []string
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Host string
	Port int
}

// StorageConfig selects the backend used for durable and session storage
type StorageConfig struct {
	// Driver is one of "memory", "redis" or "postgres".
	Driver string
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// OpenAIConfig holds configuration for the generative language API
type OpenAIConfig struct {
	APIKey         string
	Model          string
	BaseURL        string
	RateLimitRPM   int
	RateLimitBurst int
	TimeoutSeconds int
}

// AuthConfig holds the mock credentials and session settings
type AuthConfig struct {
	AdminUsername     string
	AdminPassword     string
	UserUsername      string
	UserPassword      string
	SessionSecret     string
	SessionTTLSeconds int
	LoginRateRPS      float64
	LoginRateBurst    int
}

// FeedbackConfig holds the simulated submission timings
type FeedbackConfig struct {
	SubmitDelayMillis int
	ResetDelayMillis  int
}

// OTELConfig holds OpenTelemetry configuration
type OTELConfig struct {
	ServiceName    string
	ServiceVersion string
	Endpoint       string
	Enabled        bool
}

// DefaultSessionSecret signs development sessions when SESSION_SECRET is unset
const DefaultSessionSecret = "dev-session-secret"

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Name:           getEnv("APP_NAME", "hospital-admin"),
			Env:            getEnv("APP_ENV", "development"),
			AllowedOrigins: getEnvAsList("ALLOWED_ORIGINS", []string{"*"}),
		},
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: getEnvAsInt("SERVER_PORT", 8080),
		},
		Storage: StorageConfig{
			Driver: strings.ToLower(getEnv("STORAGE_DRIVER", "memory")),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Database: getEnv("DB_NAME", "hospital_admin"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnvAsInt("REDIS_PORT", 6379),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		OpenAI: OpenAIConfig{
			APIKey:         getEnv("OPENAI_API_KEY", getEnv("API_KEY", "")),
			Model:          getEnv("OPENAI_MODEL", "gpt-4o-mini"),
			BaseURL:        getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
			RateLimitRPM:   getEnvAsInt("OPENAI_RATE_LIMIT_RPM", 60),
			RateLimitBurst: getEnvAsInt("OPENAI_RATE_LIMIT_BURST", 5),
			TimeoutSeconds: getEnvAsInt("OPENAI_TIMEOUT_SECONDS", 20),
		},
		Auth: AuthConfig{
			AdminUsername:     getEnv("AUTH_ADMIN_USERNAME", "admin"),
			AdminPassword:     getEnv("AUTH_ADMIN_PASSWORD", "123456"),
			UserUsername:      getEnv("AUTH_USER_USERNAME", "username"),
			UserPassword:      getEnv("AUTH_USER_PASSWORD", "password"),
			SessionSecret:     getEnv("SESSION_SECRET", DefaultSessionSecret),
			SessionTTLSeconds: getEnvAsInt("SESSION_TTL_SECONDS", 8*60*60),
			LoginRateRPS:      getEnvAsFloat("LOGIN_RATE_RPS", 1),
			LoginRateBurst:    getEnvAsInt("LOGIN_RATE_BURST", 5),
		},
		Feedback: FeedbackConfig{
			SubmitDelayMillis: getEnvAsInt("FEEDBACK_SUBMIT_DELAY_MS", 1500),
			ResetDelayMillis:  getEnvAsInt("FEEDBACK_RESET_DELAY_MS", 3000),
		},
		OTEL: OTELConfig{
			ServiceName:    getEnv("OTEL_SERVICE_NAME", "hospital-admin"),
			ServiceVersion: getEnv("OTEL_SERVICE_VERSION", "1.0.0"),
			Endpoint:       getEnv("OTEL_ENDPOINT", ""),
			Enabled:        getEnvAsBool("OTEL_ENABLED", false),
		},
	}

	switch cfg.Storage.Driver {
	case "memory", "redis", "postgres":
	default:
		return nil, fmt.Errorf("unsupported STORAGE_DRIVER %q", cfg.Storage.Driver)
	}

	if cfg.App.Env == "production" && cfg.Auth.SessionSecret == DefaultSessionSecret {
		return nil, fmt.Errorf("SESSION_SECRET must be set when APP_ENV=production")
	}

	return cfg, nil
}

// KeyPrefix namespaces Redis keys and channels for this deployment
func (c *AppConfig) KeyPrefix() string {
	return c.Name + ":"
}

// DatabaseDSN returns the PostgreSQL connection string
func (c *DatabaseConfig) DatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

// RedisAddr returns the Redis address
func (c *RedisConfig) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// SessionTTL returns the session lifetime
func (c *AuthConfig) SessionTTL() time.Duration {
	return time.Duration(c.SessionTTLSeconds) * time.Second
}

// Timeout returns the HTTP timeout for language model calls
func (c *OpenAIConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// SubmitDelay returns the simulated submission latency
func (c *FeedbackConfig) SubmitDelay() time.Duration {
	return time.Duration(c.SubmitDelayMillis) * time.Millisecond
}

// ResetDelay returns how long a submitted form stays visible before reset
func (c *FeedbackConfig) ResetDelay() time.Duration {
	return time.Duration(c.ResetDelayMillis) * time.Millisecond
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
