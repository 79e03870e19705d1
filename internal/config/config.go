// Package config loads application configuration from file, environment
// and defaults via viper.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config is the full application configuration.
type Config struct {
	Logging   LoggingConfig   `mapstructure:"logging"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Knowledge KnowledgeConfig `mapstructure:"knowledge"`
	LLM       LLMConfig       `mapstructure:"llm"`
	Session   SessionConfig   `mapstructure:"session"`
}

// LoggingConfig controls log output.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // console or json
}

// DatabaseConfig locates the transaction database.
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// KnowledgeConfig tunes the retrieval layer.
type KnowledgeConfig struct {
	Path          string  `mapstructure:"path"`
	CorpusFile    string  `mapstructure:"corpus_file"`
	MaxDistance   float64 `mapstructure:"max_distance"`
	MinConfidence float64 `mapstructure:"min_confidence"`
	TopK          int     `mapstructure:"top_k"`
}

// LLMConfig configures the generation providers.
type LLMConfig struct {
	GroqAPIKey       string        `mapstructure:"groq_api_key"`
	GroqModel        string        `mapstructure:"groq_model"`
	GeminiAPIKey     string        `mapstructure:"gemini_api_key"`
	GeminiModel      string        `mapstructure:"gemini_model"`
	Temperature      float64       `mapstructure:"temperature"`
	TopP             float64       `mapstructure:"top_p"`
	MaxTokens        int           `mapstructure:"max_tokens"`
	Timeout          time.Duration `mapstructure:"timeout"`
	RateLimit        int           `mapstructure:"rate_limit"`
	CacheTTL         time.Duration `mapstructure:"cache_ttl"`
	GeminiDailyLimit int           `mapstructure:"gemini_daily_limit"`
}

// SessionConfig tunes the dialogue session store.
type SessionConfig struct {
	TTL      time.Duration `mapstructure:"ttl"`
	Capacity int           `mapstructure:"capacity"`
}

// SetDefaults registers every default on a viper instance.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	v.SetDefault("database.path", "taxwise.db")

	v.SetDefault("knowledge.path", "knowledge.db")
	v.SetDefault("knowledge.corpus_file", "configs/knowledge.yaml")
	v.SetDefault("knowledge.max_distance", 0.5)
	v.SetDefault("knowledge.min_confidence", 0.8)
	v.SetDefault("knowledge.top_k", 5)

	v.SetDefault("llm.groq_model", "llama-3.1-8b-instant")
	v.SetDefault("llm.gemini_model", "gemini-1.5-flash-latest")
	v.SetDefault("llm.temperature", 0.1)
	v.SetDefault("llm.top_p", 0.6)
	v.SetDefault("llm.max_tokens", 200)
	v.SetDefault("llm.timeout", 30*time.Second)
	v.SetDefault("llm.rate_limit", 60)
	v.SetDefault("llm.cache_ttl", 15*time.Minute)
	v.SetDefault("llm.gemini_daily_limit", 1000)

	v.SetDefault("session.ttl", 30*time.Minute)
	v.SetDefault("session.capacity", 1024)
}

// Load unmarshals the viper state into a Config.
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	if cfg.Knowledge.MaxDistance <= 0 || cfg.Knowledge.MaxDistance > 2 {
		return nil, fmt.Errorf("knowledge.max_distance must be in (0, 2], got %v", cfg.Knowledge.MaxDistance)
	}
	if cfg.Knowledge.TopK <= 0 {
		return nil, fmt.Errorf("knowledge.top_k must be positive, got %d", cfg.Knowledge.TopK)
	}

	return &cfg, nil
}
