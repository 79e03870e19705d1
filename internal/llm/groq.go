package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/taxwise-in/taxwise/internal/common"
)

const groqEndpoint = "https://api.groq.com/openai/v1/chat/completions"

// groqClient implements Client against Groq's OpenAI-compatible chat
// completions API. Groq is the primary provider for its low latency.
type groqClient struct {
	httpClient  *http.Client
	apiKey      string
	model       string
	temperature float64
	topP        float64
	maxTokens   int
}

func newGroqClient(cfg Config) (Client, error) {
	if cfg.GroqAPIKey == "" {
		return nil, fmt.Errorf("Groq API key is required")
	}

	return &groqClient{
		apiKey:      cfg.GroqAPIKey,
		model:       cfg.GroqModel,
		temperature: cfg.Temperature,
		topP:        cfg.TopP,
		maxTokens:   cfg.MaxTokens,
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

func (c *groqClient) Name() string { return "groq" }

// Complete sends a single-turn chat completion request.
func (c *groqClient) Complete(ctx context.Context, prompt string) (string, error) {
	requestBody := map[string]any{
		"model": c.model,
		"messages": []map[string]string{
			{"role": "user", "content": prompt},
		},
		"temperature": c.temperature,
		"top_p":       c.topP,
		"max_tokens":  c.maxTokens,
	}

	jsonBody, err := json.Marshal(requestBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, groqEndpoint, strings.NewReader(string(jsonBody)))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

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
		return "", fmt.Errorf("Groq: %w", common.ErrRateLimit)
	}
	if resp.StatusCode != http.StatusOK {
		return "", &common.RetryableError{
			Err:       fmt.Errorf("Groq API error (status %d): %s", resp.StatusCode, string(body)),
			Retryable: resp.StatusCode >= http.StatusInternalServerError,
		}
	}

	var response groqResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}

	if len(response.Choices) == 0 {
		return "", fmt.Errorf("no completion choices returned")
	}

	return strings.TrimSpace(response.Choices[0].Message.Content), nil
}

type groqResponse struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Choices []struct {
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
		Index        int    `json:"index"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}
