package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// App
	Port string
	Env  string

	// Neo4j
	Neo4jURI      string
	Neo4jUser     string
	Neo4jPassword string

	// Postgres (hospitality store); empty falls back to the in-memory store
	DatabaseURL string

	// AI
	LLMGatewayURL string
	LLMAPIKey     string
	ModelID       string

	// Agent behavior
	ToolTimeoutSeconds      int     // Per-tool execution deadline
	MemoryCacheSize         int     // LRU entries for memory retrieval
	MemoryRetrieveLimit     int     // Memories pulled into each chat turn
	PersonalityLearningRate float64 // Trait adaptation step size, (0, 1]
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file, but don't fail if it doesn't exist
	_ = godotenv.Load()

	cfg := &Config{
		Port:                    getEnv("PORT", "8080"),
		Env:                     getEnv("ENV", "development"),
		Neo4jURI:                getEnv("NEO4J_URI", "bolt://localhost:7687"),
		Neo4jUser:               getEnv("NEO4J_USER", "neo4j"),
		Neo4jPassword:           getEnv("NEO4J_PASSWORD", "password"),
		DatabaseURL:             getEnv("DATABASE_URL", ""),
		LLMGatewayURL:           getEnv("LLM_GATEWAY_URL", "http://localhost:4000"),
		LLMAPIKey:               getEnv("LLM_API_KEY", ""),
		ModelID:                 getEnv("MODEL_ID", "openrouter/anthropic/claude-3.5-sonnet"),
		ToolTimeoutSeconds:      getEnvInt("TOOL_TIMEOUT_SECONDS", 15),
		MemoryCacheSize:         getEnvInt("MEMORY_CACHE_SIZE", 256),
		MemoryRetrieveLimit:     getEnvInt("MEMORY_RETRIEVE_LIMIT", 5),
		PersonalityLearningRate: getEnvFloat("PERSONALITY_LEARNING_RATE", 0.2),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that required configuration values are set
func (c *Config) Validate() error {
	if c.Neo4jURI == "" {
		return fmt.Errorf("NEO4J_URI is required")
	}
	if c.Neo4jUser == "" {
		return fmt.Errorf("NEO4J_USER is required")
	}
	if c.Neo4jPassword == "" {
		return fmt.Errorf("NEO4J_PASSWORD is required")
	}
	if c.LLMGatewayURL == "" {
		return fmt.Errorf("LLM_GATEWAY_URL is required")
	}
	if c.ModelID == "" {
		return fmt.Errorf("MODEL_ID is required")
	}
	if c.ToolTimeoutSeconds <= 0 {
		return fmt.Errorf("TOOL_TIMEOUT_SECONDS must be positive")
	}
	if c.PersonalityLearningRate <= 0 || c.PersonalityLearningRate > 1 {
		return fmt.Errorf("PERSONALITY_LEARNING_RATE must be in (0, 1]")
	}
	// LLM API key and DATABASE_URL are optional for development
	return nil
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		var result float64
		if _, err := fmt.Sscanf(value, "%f", &result); err == nil {
			return result
		}
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		var result int
		if _, err := fmt.Sscanf(value, "%d", &result); err == nil {
			return result
		}
	}
	return defaultValue
}
