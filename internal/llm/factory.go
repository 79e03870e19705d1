package llm

import "log/slog"

// NewChainFromConfig builds the standard provider chain: Groq first for
// latency, Gemini as fallback. Providers without an API key are skipped.
func NewChainFromConfig(cfg Config, logger *slog.Logger) *Chain {
	cfg = cfg.withDefaults()
	if logger == nil {
		logger = slog.Default()
	}

	var providers []Client

	if cfg.GroqAPIKey != "" {
		client, err := newGroqClient(cfg)
		if err != nil {
			logger.Warn("skipping Groq provider", "error", err)
		} else {
			providers = append(providers, client)
		}
	}

	if cfg.GeminiAPIKey != "" {
		client, err := newGeminiClient(cfg)
		if err != nil {
			logger.Warn("skipping Gemini provider", "error", err)
		} else {
			providers = append(providers, client)
		}
	}

	return NewChain(providers, cfg, logger)
}
