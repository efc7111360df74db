package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("OPENROUTER_API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("EMBEDDING_API_KEY", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 5000, cfg.Server.Port)
	assert.Equal(t, "https://openrouter.ai/api/v1", cfg.Completion.APIBase)
	assert.Equal(t, "deepseek/deepseek-r1-distill-llama-70b", cfg.Completion.Model)
	assert.Equal(t, 0.7, cfg.Completion.Temperature)
	assert.Equal(t, 1000, cfg.Completion.MaxTokens)
	assert.Equal(t, DefaultSystemPrompt, cfg.Completion.SystemPrompt)
	assert.False(t, cfg.Completion.Enabled)
	assert.Equal(t, 10, cfg.Search.ChatPageSize)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("OPENROUTER_API_KEY", "sk-test")
	t.Setenv("COMPLETION_API_BASE", "http://localhost:9999/v1/")
	t.Setenv("COMPLETION_TIMEOUT", "15")
	t.Setenv("AUTH_CACHE_TTL", "90s")
	t.Setenv("FIREBASE_PROJECT_ID", "settlr-test")
	t.Setenv("SEARCH_INCLUDE_UNVERIFIED", "true")
	t.Setenv("PG_PORT", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.Completion.Enabled)
	assert.Equal(t, "http://localhost:9999/v1", cfg.Completion.APIBase)
	assert.Equal(t, 15*time.Second, cfg.Completion.Timeout)
	assert.Equal(t, 90*time.Second, cfg.Auth.CacheTTL)
	assert.Equal(t, "settlr-test", cfg.Auth.ProjectID)
	assert.True(t, cfg.Search.IncludeUnverified)
	assert.Equal(t, 5432, cfg.PostgreSQL.Port)
	assert.Equal(t, "sk-test", cfg.Embedding.APIKey, "embedding key falls back to the completion key")
}

func TestLoad_RejectsBadLimits(t *testing.T) {
	t.Setenv("SEARCH_DEFAULT_LIMIT", "50")
	t.Setenv("SEARCH_MAX_LIMIT", "10")

	_, err := Load()
	assert.Error(t, err)
}

func TestGetPostgreSQLDSN(t *testing.T) {
	cfg := &Config{PostgreSQL: PostgreSQLConfig{
		Host: "db", Port: 5433, User: "u", Password: "p", Database: "settlr", SSLMode: "disable",
	}}
	assert.Equal(t, "host=db port=5433 user=u password=p dbname=settlr sslmode=disable", cfg.GetPostgreSQLDSN())

	cfg.PostgreSQL.DSN = "postgres://x"
	assert.Equal(t, "postgres://x", cfg.GetPostgreSQLDSN())
}
