// Package config loads application configuration from environment variables.
// Every setting has a default that works for local development; production
// deployments override through the environment (or a .env file loaded before
// startup).
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Environment represents the application environment.
type Environment string

const (
	EnvDevelopment Environment = "development"
	EnvStaging     Environment = "staging"
	EnvProduction  Environment = "production"
)

// Config holds all application configuration.
type Config struct {
	// Application
	App AppConfig

	// HTTP server
	HTTP HTTPConfig

	// Database
	Database DatabaseConfig

	// Redis
	Redis RedisConfig

	// Tutoring engine
	Tutor TutorConfig

	// External resource providers
	Resources ResourcesConfig

	// Scheduler
	Scheduler SchedulerConfig

	// Feature flags
	Features *FeatureFlags

	// Observability
	Observability ObservabilityConfig
}

// AppConfig holds general application settings.
type AppConfig struct {
	Name        string
	Environment Environment
	Debug       bool
	Version     string

	// AgentAddress identifies this agent in the network.
	AgentAddress string

	// Graceful shutdown timeout
	ShutdownTimeout time.Duration
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Host           string
	Port           int
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	EnableCORS     bool
	AllowedOrigins []string

	// RateLimitPerMinute caps requests per client IP (0 disables).
	RateLimitPerMinute int
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	Host     string
	Port     int
	Name     string
	User     string
	Password string
	SSLMode  string

	MaxConns        int32
	MinConns        int32
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	ConnectTimeout  time.Duration

	// Disabled switches progress persistence to in-memory storage.
	Disabled bool
}

// RedisConfig holds Redis connection settings.
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int

	PoolSize     int
	MinIdleConns int

	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// Disabled switches session persistence to in-memory storage.
	Disabled bool
}

// TutorConfig holds tutoring engine settings.
type TutorConfig struct {
	// HistoryCapacity is the number of questions remembered per session.
	HistoryCapacity int

	// SummaryLength is the truncation length for question summaries.
	SummaryLength int

	// AgentTTL is how long a peer agent stays live without a heartbeat.
	AgentTTL time.Duration
}

// ResourcesConfig holds external resource provider settings.
type ResourcesConfig struct {
	WikipediaBaseURL string
	QuizBaseURL      string
	QuizAPIKey       string
	RequestTimeout   time.Duration
	CacheTTL         time.Duration
}

// SchedulerConfig holds background job settings.
type SchedulerConfig struct {
	StatusSpec string
	SweepSpec  string
}

// ObservabilityConfig holds logging settings.
type ObservabilityConfig struct {
	LogLevel string
}

// Load reads configuration from the environment.
func Load() (*Config, error) {
	cfg := &Config{
		App:           loadAppConfig(),
		HTTP:          loadHTTPConfig(),
		Database:      loadDatabaseConfig(),
		Redis:         loadRedisConfig(),
		Tutor:         loadTutorConfig(),
		Resources:     loadResourcesConfig(),
		Scheduler:     loadSchedulerConfig(),
		Features:      LoadFeatureFlags(),
		Observability: loadObservabilityConfig(),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	return cfg, nil
}

func loadAppConfig() AppConfig {
	env := Environment(getEnv("APP_ENV", "development"))
	return AppConfig{
		Name:            getEnv("APP_NAME", "edu-tutor-agent"),
		Environment:     env,
		Debug:           env == EnvDevelopment || getEnvBool("APP_DEBUG", false),
		Version:         getEnv("APP_VERSION", "1.0.0"),
		AgentAddress:    getEnv("AGENT_ADDRESS", "agent1q-edu-tutor-local"),
		ShutdownTimeout: getEnvDuration("APP_SHUTDOWN_TIMEOUT", 30*time.Second),
	}
}

func loadHTTPConfig() HTTPConfig {
	return HTTPConfig{
		Host:           getEnv("HTTP_HOST", "0.0.0.0"),
		Port:           getEnvInt("HTTP_PORT", 8000),
		ReadTimeout:    getEnvDuration("HTTP_READ_TIMEOUT", 15*time.Second),
		WriteTimeout:   getEnvDuration("HTTP_WRITE_TIMEOUT", 15*time.Second),
		IdleTimeout:    getEnvDuration("HTTP_IDLE_TIMEOUT", 60*time.Second),
		EnableCORS:     getEnvBool("HTTP_ENABLE_CORS", true),
		AllowedOrigins: getEnvSlice("HTTP_ALLOWED_ORIGINS", []string{"*"}),

		RateLimitPerMinute: getEnvInt("HTTP_RATE_LIMIT_PER_MINUTE", 100),
	}
}

func loadDatabaseConfig() DatabaseConfig {
	return DatabaseConfig{
		Host:            getEnv("DB_HOST", "localhost"),
		Port:            getEnvInt("DB_PORT", 5432),
		Name:            getEnv("DB_NAME", "edututor"),
		User:            getEnv("DB_USER", "postgres"),
		Password:        getEnv("DB_PASSWORD", ""),
		SSLMode:         getEnv("DB_SSLMODE", "disable"),
		MaxConns:        int32(getEnvInt("DB_MAX_CONNS", 10)),
		MinConns:        int32(getEnvInt("DB_MIN_CONNS", 2)),
		ConnMaxLifetime: getEnvDuration("DB_CONN_MAX_LIFETIME", time.Hour),
		ConnMaxIdleTime: getEnvDuration("DB_CONN_MAX_IDLE_TIME", 30*time.Minute),
		ConnectTimeout:  getEnvDuration("DB_CONNECT_TIMEOUT", 10*time.Second),
		Disabled:        getEnvBool("DB_DISABLED", false),
	}
}

func loadRedisConfig() RedisConfig {
	return RedisConfig{
		Host:         getEnv("REDIS_HOST", "localhost"),
		Port:         getEnvInt("REDIS_PORT", 6379),
		Password:     getEnv("REDIS_PASSWORD", ""),
		DB:           getEnvInt("REDIS_DB", 0),
		PoolSize:     getEnvInt("REDIS_POOL_SIZE", 10),
		MinIdleConns: getEnvInt("REDIS_MIN_IDLE_CONNS", 2),
		DialTimeout:  getEnvDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
		ReadTimeout:  getEnvDuration("REDIS_READ_TIMEOUT", 3*time.Second),
		WriteTimeout: getEnvDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		Disabled:     getEnvBool("REDIS_DISABLED", false),
	}
}

func loadTutorConfig() TutorConfig {
	return TutorConfig{
		HistoryCapacity: getEnvInt("TUTOR_HISTORY_CAPACITY", 10),
		SummaryLength:   getEnvInt("TUTOR_SUMMARY_LENGTH", 50),
		AgentTTL:        getEnvDuration("TUTOR_AGENT_TTL", 5*time.Minute),
	}
}

func loadResourcesConfig() ResourcesConfig {
	return ResourcesConfig{
		WikipediaBaseURL: getEnv("WIKIPEDIA_BASE_URL", "https://en.wikipedia.org/api/rest_v1"),
		QuizBaseURL:      getEnv("QUIZ_BASE_URL", "https://quizapi.io/api/v1"),
		QuizAPIKey:       getEnv("QUIZ_API_KEY", ""),
		RequestTimeout:   getEnvDuration("RESOURCES_REQUEST_TIMEOUT", 10*time.Second),
		CacheTTL:         getEnvDuration("RESOURCES_CACHE_TTL", 15*time.Minute),
	}
}

func loadSchedulerConfig() SchedulerConfig {
	return SchedulerConfig{
		StatusSpec: getEnv("SCHEDULER_STATUS_SPEC", "@every 1m"),
		SweepSpec:  getEnv("SCHEDULER_SWEEP_SPEC", "@every 2m"),
	}
}

func loadObservabilityConfig() ObservabilityConfig {
	return ObservabilityConfig{
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}
}

// Validate checks the configuration for contradictions.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.HTTP.Port)
	}
	if c.Tutor.HistoryCapacity <= 0 {
		return fmt.Errorf("history capacity must be positive, got %d", c.Tutor.HistoryCapacity)
	}
	if c.Tutor.SummaryLength <= 0 {
		return fmt.Errorf("summary length must be positive, got %d", c.Tutor.SummaryLength)
	}
	if !c.Database.Disabled && c.Database.Host == "" {
		return fmt.Errorf("DB_HOST is required unless DB_DISABLED=true")
	}
	if c.Features.EnableResourceEnrichment && c.Resources.WikipediaBaseURL == "" && c.Resources.QuizBaseURL == "" {
		return fmt.Errorf("resource enrichment enabled but no provider URLs configured")
	}
	return nil
}

// IsProduction reports whether the app runs in production.
func (c *Config) IsProduction() bool {
	return c.App.Environment == EnvProduction
}

// ─────────────────────────────────────────────────────────────────────────────
// Environment helpers
// ─────────────────────────────────────────────────────────────────────────────

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return defaultVal
	}
	return b
}

func getEnvInt(key string, defaultVal int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return i
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return defaultVal
	}
	return d
}

func getEnvSlice(key string, defaultVal []string) []string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	parts := strings.Split(val, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
