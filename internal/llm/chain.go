package llm

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/taxwise-in/taxwise/internal/common"
)

// Chain tries a prioritized list of providers and short-circuits on the
// first success. All provider errors collapse into ErrGenerationFailed;
// a chain with no providers fails every call, which callers already
// handle via their rule-based fallbacks.
type Chain struct {
	cache     *responseCache
	limiter   *rateLimiter
	logger    *slog.Logger
	providers []Client
}

// NewChain builds a fallback chain over the given providers in priority
// order.
func NewChain(providers []Client, cfg Config, logger *slog.Logger) *Chain {
	if logger == nil {
		logger = slog.Default()
	}
	if len(providers) == 0 {
		logger.Warn("no generation providers configured, all answers will use rule-based fallbacks")
	}

	return &Chain{
		providers: providers,
		cache:     newResponseCache(cfg.CacheTTL),
		limiter:   newRateLimiter(cfg.RateLimit),
		logger:    logger,
	}
}

// Name identifies the chain as a composite client.
func (c *Chain) Name() string { return "chain" }

// Complete walks the providers in order, returning the first success.
func (c *Chain) Complete(ctx context.Context, prompt string) (string, error) {
	key := cacheKey(prompt)
	if response, found := c.cache.get(key); found {
		c.logger.Debug("completion cache hit")
		return response, nil
	}

	if len(c.providers) == 0 {
		return "", ErrGenerationFailed
	}

	if err := c.limiter.wait(ctx); err != nil {
		return "", fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}

	var lastErr error
	for _, provider := range c.providers {
		var response string
		err := common.WithRetry(ctx, func() error {
			var completeErr error
			response, completeErr = provider.Complete(ctx, prompt)
			return completeErr
		}, common.RetryOptions{MaxAttempts: 2, InitialDelay: 500 * time.Millisecond})
		if err != nil {
			c.logger.Warn("provider failed, trying next",
				"provider", provider.Name(),
				"error", err)
			lastErr = err
			continue
		}

		c.cache.set(key, response)
		c.logger.Debug("completion generated", "provider", provider.Name())
		return response, nil
	}

	return "", fmt.Errorf("%w: all providers failed: %v", ErrGenerationFailed, lastErr)
}

// Close releases the chain's background goroutines.
func (c *Chain) Close() error {
	c.cache.Close()
	c.limiter.Close()
	return nil
}
