package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("LLM_API_KEY", "llm-key")
	t.Setenv("NEO4J_URI", "bolt://localhost:7687")
	t.Setenv("NEO4J_USERNAME", "neo4j")
	t.Setenv("NEO4J_PASSWORD", "secret")
	t.Setenv("MONGO_URI", "mongodb://localhost:27017")
	t.Setenv("EMBEDDING_API_KEY", "embed-key")
}

func TestNewFromEnv_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := NewFromEnv()
	require.NoError(t, err)

	assert.Equal(t, "https://openrouter.ai/api/v1", cfg.LLM.APIURL)
	assert.Equal(t, "openai/gpt-3.5-turbo", cfg.LLM.Model)
	assert.Equal(t, 1000, cfg.LLM.MaxTokens)
	assert.InDelta(t, 0.2, cfg.LLM.Temperature, 0.0001)
	assert.Equal(t, "insurance", cfg.Vector.Database)
	assert.Equal(t, "documents", cfg.Vector.Collection)
	assert.Equal(t, "healthcare-insurance", cfg.Vector.Index)
	assert.Equal(t, "text-embedding-3-small", cfg.Vector.EmbedModel)
	assert.Equal(t, 4, cfg.Vector.TopK)
	assert.Equal(t, 2, cfg.Agent.MaxToolCalls)
	assert.Equal(t, 30, cfg.Agent.ToolTimeout)
	assert.Equal(t, ":8000", cfg.Server.Addr)
	assert.Equal(t, "@every 5m", cfg.Server.HealthCron)
}

func TestNewFromEnv_Overrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("LLM_MODEL", "openai/gpt-4o")
	t.Setenv("AGENT_MAX_TOOL_CALLS", "3")
	t.Setenv("VECTOR_TOP_K", "8")
	t.Setenv("HTTP_ADDR", ":9000")

	cfg, err := NewFromEnv()
	require.NoError(t, err)

	assert.Equal(t, "openai/gpt-4o", cfg.LLM.Model)
	assert.Equal(t, 3, cfg.Agent.MaxToolCalls)
	assert.Equal(t, 8, cfg.Vector.TopK)
	assert.Equal(t, ":9000", cfg.Server.Addr)
}

func TestNewFromEnv_MissingRequired(t *testing.T) {
	tests := []struct {
		name    string
		unset   string
		wantErr string
	}{
		{name: "llm key", unset: "LLM_API_KEY", wantErr: "LLM_API_KEY"},
		{name: "neo4j uri", unset: "NEO4J_URI", wantErr: "NEO4J_URI"},
		{name: "neo4j username", unset: "NEO4J_USERNAME", wantErr: "NEO4J_USERNAME"},
		{name: "neo4j password", unset: "NEO4J_PASSWORD", wantErr: "NEO4J_PASSWORD"},
		{name: "mongo uri", unset: "MONGO_URI", wantErr: "MONGO_URI"},
		{name: "embedding key", unset: "EMBEDDING_API_KEY", wantErr: "EMBEDDING_API_KEY"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequiredEnv(t)
			t.Setenv(tt.unset, "")

			_, err := NewFromEnv()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestNewFromEnv_InvalidMaxToolCalls(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("AGENT_MAX_TOOL_CALLS", "0")

	_, err := NewFromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "AGENT_MAX_TOOL_CALLS")
}

func TestNewFromEnv_Options(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := NewFromEnv(func(c *Config) {
		c.Agent.MaxToolCalls = 1
	})
	require.NoError(t, err)
	assert.Equal(t, 1, cfg.Agent.MaxToolCalls)
}
