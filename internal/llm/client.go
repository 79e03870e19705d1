// Package llm provides text-generation clients for the answer pipeline.
// Providers sit behind a single Client interface; provider-specific
// failures all normalize to ErrGenerationFailed.
package llm

import (
	"context"
	"errors"
	"time"
)

// ErrGenerationFailed is the uniform signal for any provider failure.
// Callers recover locally with rule-based fallbacks; this error must
// never reach the conversational surface.
var ErrGenerationFailed = errors.New("generation failed")

// Client is a single text-generation provider.
type Client interface {
	Complete(ctx context.Context, prompt string) (string, error)
	Name() string
}

// Config holds provider configuration.
type Config struct {
	GroqAPIKey       string
	GroqModel        string
	GeminiAPIKey     string
	GeminiModel      string
	Temperature      float64
	TopP             float64
	MaxTokens        int
	Timeout          time.Duration
	RateLimit        int // requests per minute across the chain
	CacheTTL         time.Duration
	GeminiDailyLimit int
}

func (c Config) withDefaults() Config {
	if c.GroqModel == "" {
		c.GroqModel = "llama-3.1-8b-instant"
	}
	if c.GeminiModel == "" {
		c.GeminiModel = "gemini-1.5-flash-latest"
	}
	if c.Temperature == 0 {
		c.Temperature = 0.1
	}
	if c.TopP == 0 {
		c.TopP = 0.6
	}
	if c.MaxTokens == 0 {
		c.MaxTokens = 200
	}
	if c.Timeout == 0 {
		c.Timeout = 30 * time.Second
	}
	if c.GeminiDailyLimit == 0 {
		c.GeminiDailyLimit = 1000
	}
	return c
}
