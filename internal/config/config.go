package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds all application configuration.
// Values come from environment variables; required settings have no
// fallback and fail validation when absent so that a misconfigured
// deployment errors at startup instead of talking to placeholder
// backends.
//
// Environment Variables:
// LLM Configuration:
// - LLM_API_KEY: API key for the LLM provider (required)
// - LLM_API_URL: API endpoint URL (default: https://openrouter.ai/api/v1)
// - LLM_MODEL: Model name to use (default: openai/gpt-3.5-turbo)
// - LLM_MAX_TOKENS: Maximum tokens for responses (default: 1000)
// - LLM_TEMPERATURE: Temperature for responses (default: 0.2)
// - LLM_TIMEOUT: Request timeout in seconds (default: 30)
// - LLM_SITE_URL: Site URL for HTTP referer header (optional)
// - LLM_APP_NAME: Application name for X-Title header (optional)
//
// Graph Store Configuration:
// - NEO4J_URI: Bolt URI of the Neo4j server (required)
// - NEO4J_USERNAME: Neo4j user (required)
// - NEO4J_PASSWORD: Neo4j password (required)
// - NEO4J_MAX_CONCURRENT: Max concurrent graph queries (default: 8)
//
// Document Store Configuration:
// - MONGO_URI: MongoDB connection string (required)
// - MONGO_DATABASE: Database name (default: insurance)
// - MONGO_COLLECTION: Collection holding document chunks (default: documents)
// - VECTOR_INDEX: Atlas vector search index name (default: healthcare-insurance)
// - EMBEDDING_API_KEY: OpenAI API key for query embeddings (required)
// - EMBEDDING_MODEL: Embedding model name (default: text-embedding-3-small)
// - VECTOR_TOP_K: Default number of documents to retrieve (default: 4)
//
// Agent Configuration:
// - AGENT_MAX_TOOL_CALLS: Max tool invocations per turn (default: 2)
// - AGENT_TOOL_TIMEOUT: Per-tool-invocation timeout in seconds (default: 30)
//
// Server Configuration:
// - HTTP_ADDR: Listen address (default: :8000)
// - HEALTH_CRON: Cron expression for backend health checks (default: @every 5m)
// - LOG_LEVEL: Minimum log level (default: info)
type Config struct {
	LLM    LLMConfig    `json:"llm"`
	Graph  GraphConfig  `json:"graph"`
	Vector VectorConfig `json:"vector"`
	Agent  AgentConfig  `json:"agent"`
	Server ServerConfig `json:"server"`
}

// LLMConfig holds the configuration for the chat-completion client.
// Supports any OpenAI-compatible provider (OpenRouter, OpenAI, etc.).
type LLMConfig struct {
	APIKey      string  `json:"api_key"`
	APIURL      string  `json:"api_url"`
	Model       string  `json:"model"`
	MaxTokens   int     `json:"max_tokens"`
	Temperature float64 `json:"temperature"`
	Timeout     int     `json:"timeout"`
	SiteURL     string  `json:"site_url"`
	AppName     string  `json:"app_name"`
}

// GraphConfig holds the Neo4j connection settings.
type GraphConfig struct {
	URI           string `json:"uri"`
	Username      string `json:"username"`
	Password      string `json:"-"`
	MaxConcurrent int    `json:"max_concurrent"`
}

// VectorConfig holds the document store and embedding settings.
type VectorConfig struct {
	MongoURI      string `json:"-"`
	Database      string `json:"database"`
	Collection    string `json:"collection"`
	Index         string `json:"index"`
	EmbedAPIKey   string `json:"-"`
	EmbedModel    string `json:"embed_model"`
	TopK          int    `json:"top_k"`
	MaxConcurrent int    `json:"max_concurrent"`
}

// AgentConfig holds the orchestration loop settings.
type AgentConfig struct {
	MaxToolCalls int `json:"max_tool_calls"` // Max tool invocations per turn
	ToolTimeout  int `json:"tool_timeout"`   // Seconds per tool invocation
}

// ServerConfig holds the HTTP server settings.
type ServerConfig struct {
	Addr       string `json:"addr"`
	HealthCron string `json:"health_cron"`
	LogLevel   string `json:"log_level"`
}

// Option is a function type for configuring Config
type Option func(*Config)

// NewFromEnv creates a new Config instance with values from environment variables and options
func NewFromEnv(opts ...Option) (*Config, error) {
	config := &Config{
		LLM: LLMConfig{
			APIKey:      getEnvString("LLM_API_KEY", ""),
			APIURL:      getEnvString("LLM_API_URL", "https://openrouter.ai/api/v1"),
			Model:       getEnvString("LLM_MODEL", "openai/gpt-3.5-turbo"),
			MaxTokens:   getEnvInt("LLM_MAX_TOKENS", 1000),
			Temperature: getEnvFloat("LLM_TEMPERATURE", 0.2),
			Timeout:     getEnvInt("LLM_TIMEOUT", 30),
			SiteURL:     getEnvString("LLM_SITE_URL", ""),
			AppName:     getEnvString("LLM_APP_NAME", ""),
		},
		Graph: GraphConfig{
			URI:           getEnvString("NEO4J_URI", ""),
			Username:      getEnvString("NEO4J_USERNAME", ""),
			Password:      getEnvString("NEO4J_PASSWORD", ""),
			MaxConcurrent: getEnvInt("NEO4J_MAX_CONCURRENT", 8),
		},
		Vector: VectorConfig{
			MongoURI:      getEnvString("MONGO_URI", ""),
			Database:      getEnvString("MONGO_DATABASE", "insurance"),
			Collection:    getEnvString("MONGO_COLLECTION", "documents"),
			Index:         getEnvString("VECTOR_INDEX", "healthcare-insurance"),
			EmbedAPIKey:   getEnvString("EMBEDDING_API_KEY", ""),
			EmbedModel:    getEnvString("EMBEDDING_MODEL", "text-embedding-3-small"),
			TopK:          getEnvInt("VECTOR_TOP_K", 4),
			MaxConcurrent: getEnvInt("MONGO_MAX_CONCURRENT", 8),
		},
		Agent: AgentConfig{
			MaxToolCalls: getEnvInt("AGENT_MAX_TOOL_CALLS", 2),
			ToolTimeout:  getEnvInt("AGENT_TOOL_TIMEOUT", 30),
		},
		Server: ServerConfig{
			Addr:       getEnvString("HTTP_ADDR", ":8000"),
			HealthCron: getEnvString("HEALTH_CRON", "@every 5m"),
			LogLevel:   getEnvString("LOG_LEVEL", "info"),
		},
	}

	// Apply custom options
	for _, opt := range opts {
		opt(config)
	}

	// Validate required configuration
	if err := config.validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// validate checks if all required configuration is properly set
func (c *Config) validate() error {
	if c.LLM.APIKey == "" {
		return fmt.Errorf("LLM_API_KEY is required")
	}
	if c.Graph.URI == "" {
		return fmt.Errorf("NEO4J_URI is required")
	}
	if c.Graph.Username == "" {
		return fmt.Errorf("NEO4J_USERNAME is required")
	}
	if c.Graph.Password == "" {
		return fmt.Errorf("NEO4J_PASSWORD is required")
	}
	if c.Vector.MongoURI == "" {
		return fmt.Errorf("MONGO_URI is required")
	}
	if c.Vector.EmbedAPIKey == "" {
		return fmt.Errorf("EMBEDDING_API_KEY is required")
	}
	if c.Agent.MaxToolCalls < 1 {
		return fmt.Errorf("AGENT_MAX_TOOL_CALLS must be at least 1")
	}
	return nil
}

// getEnvString gets a string value from environment variables with default
func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt gets an integer value from environment variables with default
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvFloat gets a float value from environment variables with default
func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}
