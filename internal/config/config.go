package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Config holds all configuration for the application
type Config struct {
	PostgreSQL PostgreSQLConfig
	Server     ServerConfig
	Search     SearchConfig
	Ranking    RankingConfig
	Logging    LoggingConfig
	Completion CompletionConfig
	Embedding  EmbeddingConfig
	Auth       AuthConfig
}

// PostgreSQLConfig holds PostgreSQL database configuration
type PostgreSQLConfig struct {
	DSN                string // full connection string, wins over the parts below
	Host               string
	Port               int
	User               string
	Password           string
	Database           string
	SSLMode            string
	MaxConnections     int
	MaxIdleConnections int
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port           int
	Host           string
	GinMode        string
	AllowedOrigins string
	AllowedMethods string
	AllowedHeaders string
}

// SearchConfig holds search-related configuration
type SearchConfig struct {
	DefaultLimit      int
	MaxLimit          int
	ChatPageSize      int  // properties spliced into one assistant turn
	IncludeUnverified bool // REST search default
}

// RankingConfig holds ranking weights configuration
type RankingConfig struct {
	WeightMatch   float64
	WeightPrice   float64
	WeightRecency float64
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string
	Format string
}

// CompletionConfig holds the OpenAI-compatible chat completion settings
type CompletionConfig struct {
	APIKey       string
	APIBase      string
	Model        string
	Temperature  float64
	MaxTokens    int
	Timeout      time.Duration
	Referer      string // sent as HTTP-Referer, used by OpenRouter for attribution
	Title        string // sent as X-Title
	SystemPrompt string
	Enabled      bool
}

// EmbeddingConfig holds embedding API and backfill job settings
type EmbeddingConfig struct {
	APIKey          string
	APIBase         string
	Model           string
	Dimensions      int
	BatchSize       int
	Timeout         time.Duration
	BackfillEnabled bool
	BackfillCron    string
	BackfillLimit   int
	Concurrency     int
	Enabled         bool
}

// AuthConfig holds identity provider settings
type AuthConfig struct {
	ProjectID string // Firebase project whose ID tokens are accepted
	CacheSize int
	CacheTTL  time.Duration
}

// DefaultSystemPrompt is the assistant persona prepended to every transcript
const DefaultSystemPrompt = "You are Settlr AI, an expert rental property assistant.\n\n" +
	"**CRITICAL INSTRUCTIONS:**\n" +
	"- Present REAL properties from the database with ALL details\n" +
	"- Use markdown formatting for better readability\n" +
	"- Be conversational and helpful\n" +
	"- If no properties found, suggest adjusting filters\n\n" +
	"Keep responses friendly and under 400 words."

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file (optional)
	_ = godotenv.Load()

	completionKey := getEnv("OPENROUTER_API_KEY", getEnv("OPENAI_API_KEY", ""))
	embeddingKey := getEnv("EMBEDDING_API_KEY", completionKey)

	cfg := &Config{
		PostgreSQL: PostgreSQLConfig{
			DSN:                getEnv("DATABASE_URL", getEnv("PG_DSN", "")),
			Host:               getEnv("PG_HOST", "localhost"),
			Port:               getEnvAsInt("PG_PORT", 5432),
			User:               getEnv("PG_USER", "postgres"),
			Password:           getEnv("PG_PASSWORD", ""),
			Database:           getEnv("PG_DATABASE", "settlr"),
			SSLMode:            getEnv("PG_SSLMODE", "disable"),
			MaxConnections:     getEnvAsInt("PG_MAX_CONNECTIONS", 25),
			MaxIdleConnections: getEnvAsInt("PG_MAX_IDLE_CONNECTIONS", 5),
		},
		Server: ServerConfig{
			Port:           getEnvAsInt("PORT", 5000),
			Host:           getEnv("SERVER_HOST", "0.0.0.0"),
			GinMode:        getEnv("GIN_MODE", "release"),
			AllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),
			AllowedMethods: getEnv("CORS_ALLOWED_METHODS", "GET,POST,PUT,DELETE,OPTIONS"),
			AllowedHeaders: getEnv("CORS_ALLOWED_HEADERS", "Content-Type,Authorization"),
		},
		Search: SearchConfig{
			DefaultLimit:      getEnvAsInt("SEARCH_DEFAULT_LIMIT", 20),
			MaxLimit:          getEnvAsInt("SEARCH_MAX_LIMIT", 100),
			ChatPageSize:      getEnvAsInt("CHAT_PAGE_SIZE", 10),
			IncludeUnverified: getEnvAsBool("SEARCH_INCLUDE_UNVERIFIED", false),
		},
		Ranking: RankingConfig{
			WeightMatch:   getEnvAsFloat("RANK_WEIGHT_MATCH", 0.5),
			WeightPrice:   getEnvAsFloat("RANK_WEIGHT_PRICE", 0.3),
			WeightRecency: getEnvAsFloat("RANK_WEIGHT_RECENCY", 0.2),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "text"),
		},
		Completion: CompletionConfig{
			APIKey:       completionKey,
			APIBase:      strings.TrimRight(getEnv("COMPLETION_API_BASE", "https://openrouter.ai/api/v1"), "/"),
			Model:        getEnv("COMPLETION_MODEL", "deepseek/deepseek-r1-distill-llama-70b"),
			Temperature:  getEnvAsFloat("COMPLETION_TEMPERATURE", 0.7),
			MaxTokens:    getEnvAsInt("COMPLETION_MAX_TOKENS", 1000),
			Timeout:      getEnvAsDuration("COMPLETION_TIMEOUT", 60*time.Second),
			Referer:      getEnv("COMPLETION_REFERER", "http://localhost:5000"),
			Title:        getEnv("COMPLETION_TITLE", "Settlr AI"),
			SystemPrompt: getEnv("ASSISTANT_SYSTEM_PROMPT", DefaultSystemPrompt),
			Enabled:      completionKey != "",
		},
		Embedding: EmbeddingConfig{
			APIKey:          embeddingKey,
			APIBase:         strings.TrimRight(getEnv("EMBEDDING_API_BASE", "https://api.openai.com/v1"), "/"),
			Model:           getEnv("EMBEDDING_MODEL", "text-embedding-3-small"),
			Dimensions:      getEnvAsInt("EMBEDDING_DIMENSIONS", 1536),
			BatchSize:       getEnvAsInt("EMBEDDING_BATCH_SIZE", 50),
			Timeout:         getEnvAsDuration("EMBEDDING_TIMEOUT", 30*time.Second),
			BackfillEnabled: getEnvAsBool("EMBEDDING_BACKFILL_ENABLED", true),
			BackfillCron:    getEnv("EMBEDDING_BACKFILL_CRON", "@every 15m"),
			BackfillLimit:   getEnvAsInt("EMBEDDING_BACKFILL_LIMIT", 500),
			Concurrency:     getEnvAsInt("EMBEDDING_CONCURRENCY", 4),
			Enabled:         embeddingKey != "",
		},
		Auth: AuthConfig{
			ProjectID: getEnv("FIREBASE_PROJECT_ID", ""),
			CacheSize: getEnvAsInt("AUTH_CACHE_SIZE", 10000),
			CacheTTL:  getEnvAsDuration("AUTH_CACHE_TTL", 5*time.Minute),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the services cannot run with
func (c *Config) Validate() error {
	if c.Search.DefaultLimit <= 0 || c.Search.MaxLimit < c.Search.DefaultLimit {
		return fmt.Errorf("invalid search limits: default %d, max %d", c.Search.DefaultLimit, c.Search.MaxLimit)
	}
	if c.Search.ChatPageSize <= 0 {
		return fmt.Errorf("CHAT_PAGE_SIZE must be positive, got %d", c.Search.ChatPageSize)
	}
	if c.Ranking.WeightMatch < 0 || c.Ranking.WeightPrice < 0 || c.Ranking.WeightRecency < 0 {
		return fmt.Errorf("ranking weights must be non-negative")
	}
	if c.Embedding.BatchSize <= 0 || c.Embedding.Concurrency <= 0 {
		return fmt.Errorf("embedding batch size and concurrency must be positive")
	}
	return nil
}

// GetPostgreSQLDSN returns PostgreSQL connection string
func (c *Config) GetPostgreSQLDSN() string {
	if c.PostgreSQL.DSN != "" {
		return c.PostgreSQL.DSN
	}

	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.PostgreSQL.Host,
		c.PostgreSQL.Port,
		c.PostgreSQL.User,
		c.PostgreSQL.Password,
		c.PostgreSQL.Database,
		c.PostgreSQL.SSLMode,
	)
}

// Helper functions

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		logrus.Warnf("Invalid integer value for %s, using default %d", key, defaultValue)
		return defaultValue
	}
	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		logrus.Warnf("Invalid float value for %s, using default %f", key, defaultValue)
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		logrus.Warnf("Invalid boolean value for %s, using default %t", key, defaultValue)
		return defaultValue
	}
	return value
}

// getEnvAsDuration accepts Go durations ("90s") or a bare number of seconds
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	if secs, err := strconv.Atoi(valueStr); err == nil {
		return time.Duration(secs) * time.Second
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		logrus.Warnf("Invalid duration value for %s, using default %s", key, defaultValue)
		return defaultValue
	}
	return value
}
