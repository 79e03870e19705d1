package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/taxwise-in/taxwise/internal/common"
)

const geminiEndpointFormat = "https://generativelanguage.googleapis.com/v1beta/models/%s:generateContent"

// geminiClient implements Client against the Gemini generateContent
// API. It is the fallback provider and carries a daily request budget
// to stay inside the free-tier quota.
type geminiClient struct {
	resetAt     time.Time
	httpClient  *http.Client
	apiKey      string
	model       string
	temperature float64
	topP        float64
	maxTokens   int
	requests    int
	dailyLimit  int
	mu          sync.Mutex
}

func newGeminiClient(cfg Config) (Client, error) {
	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("Gemini API key is required")
	}

	return &geminiClient{
		apiKey:      cfg.GeminiAPIKey,
		model:       cfg.GeminiModel,
		temperature: cfg.Temperature,
		topP:        cfg.TopP,
		maxTokens:   cfg.MaxTokens,
		dailyLimit:  cfg.GeminiDailyLimit,
		resetAt:     nextMidnight(time.Now()),
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}, nil
}

func (c *geminiClient) Name() string { return "gemini" }

// Complete sends a generateContent request, enforcing the daily budget.
func (c *geminiClient) Complete(ctx context.Context, prompt string) (string, error) {
	if err := c.consumeBudget(); err != nil {
		return "", err
	}

	requestBody := map[string]any{
		"contents": []map[string]any{
			{"parts": []map[string]string{{"text": prompt}}},
		},
		"generationConfig": map[string]any{
			"temperature":     c.temperature,
			"topP":            c.topP,
			"maxOutputTokens": c.maxTokens,
		},
	}

	jsonBody, err := json.Marshal(requestBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf(geminiEndpointFormat, c.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, strings.NewReader(string(jsonBody)))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		return "", fmt.Errorf("Gemini: %w", common.ErrRateLimit)
	}
	if resp.StatusCode != http.StatusOK {
		return "", &common.RetryableError{
			Err:       fmt.Errorf("Gemini API error (status %d): %s", resp.StatusCode, string(body)),
			Retryable: resp.StatusCode >= http.StatusInternalServerError,
		}
	}

	var response geminiResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}

	if len(response.Candidates) == 0 || len(response.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no candidates returned")
	}

	return strings.TrimSpace(response.Candidates[0].Content.Parts[0].Text), nil
}

// consumeBudget decrements the daily request budget, resetting it at
// local midnight.
func (c *geminiClient) consumeBudget() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	if now.After(c.resetAt) {
		c.requests = 0
		c.resetAt = nextMidnight(now)
	}

	if c.requests >= c.dailyLimit {
		// Retrying won't help until midnight.
		return &common.RetryableError{
			Err:       fmt.Errorf("daily Gemini request limit (%d) reached", c.dailyLimit),
			Retryable: false,
		}
	}
	c.requests++
	return nil
}

func nextMidnight(now time.Time) time.Time {
	year, month, day := now.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, now.Location()).AddDate(0, 0, 1)
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
		FinishReason string `json:"finishReason"`
	} `json:"candidates"`
}
