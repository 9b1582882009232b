package claude

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/dhg/docflow/internal/infrastructure/resilience"
)

const (
	messagesPath = "/v1/messages"
	apiVersion   = "2023-06-01"
)

// Client calls a Messages-style LLM API. A shared rate limiter keeps batch
// loops under the provider's request cap.
type Client struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
	limiter    *rate.Limiter
	executor   *resilience.Executor
}

func New(baseURL, apiKey, model string, requestsPerSec float64, executor *resilience.Executor) *Client {
	if requestsPerSec <= 0 {
		requestsPerSec = 0.5
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		model:      model,
		httpClient: &http.Client{Timeout: 120 * time.Second},
		limiter:    rate.NewLimiter(rate.Limit(requestsPerSec), 1),
		executor:   executor,
	}
}

// CompleteJSON sends one prompt pair and returns the model's text output.
// Temperature is pinned to zero; classification wants determinism, not
// creativity.
func (c *Client) CompleteJSON(ctx context.Context, system, user string) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("wait for rate limiter: %w", err)
	}

	payload := map[string]any{
		"model":       c.model,
		"max_tokens":  1024,
		"temperature": 0,
		"system":      system,
		"messages": []map[string]any{
			{"role": "user", "content": user},
		},
	}

	var text string
	call := func(callCtx context.Context) error {
		var err error
		text, err = c.postMessages(callCtx, payload)
		return err
	}

	var err error
	if c.executor != nil {
		err = c.executor.Run(ctx, "llm.complete", call, classifyLLMError)
	} else {
		err = call(ctx)
	}
	if err != nil {
		return "", err
	}
	return text, nil
}

func (c *Client) postMessages(ctx context.Context, payload map[string]any) (string, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal completion request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+messagesPath, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create completion request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", apiVersion)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("llm completion request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return "", &HTTPStatusError{
			Operation:  "complete",
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       strings.TrimSpace(string(detail)),
		}
	}

	var decoded struct {
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("decode completion response: %w", err)
	}

	for _, block := range decoded.Content {
		if block.Type == "text" {
			return strings.TrimSpace(block.Text), nil
		}
	}
	return "", fmt.Errorf("completion response has no text block")
}

// extractJSONObject tolerates models that wrap the JSON object in prose or
// markdown fences.
func extractJSONObject(raw string) string {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start >= 0 && end > start {
		return raw[start : end+1]
	}
	return raw
}
