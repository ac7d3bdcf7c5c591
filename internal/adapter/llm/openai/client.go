package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/bkyoung/review-aggregator/internal/adapter/httpx"
)

const (
	defaultBaseURL = "https://api.openai.com"
	defaultTimeout = 60 * time.Second
	maxTokens      = 2048
)

// Client is an HTTP client for the OpenAI Chat Completion API, used by
// the report rewrite pass.
type Client struct {
	apiKey    string
	model     string
	baseURL   string
	client    *http.Client
	retryConf httpx.RetryConfig
}

// NewClient creates a new OpenAI client.
func NewClient(apiKey, model string) *Client {
	return &Client{
		apiKey:    apiKey,
		model:     model,
		baseURL:   defaultBaseURL,
		client:    &http.Client{Timeout: defaultTimeout},
		retryConf: httpx.DefaultRetryConfig(),
	}
}

// SetBaseURL sets a custom base URL (for testing).
func (c *Client) SetBaseURL(url string) {
	c.baseURL = url
}

// SetTimeout sets the HTTP timeout.
func (c *Client) SetTimeout(timeout time.Duration) {
	c.client.Timeout = timeout
}

// SetRetryConfig overrides the retry behavior.
func (c *Client) SetRetryConfig(conf httpx.RetryConfig) {
	c.retryConf = conf
}

// Rewrite sends a prompt to the chat completions endpoint and returns
// the completion text. An empty completion is an error so callers can
// fall back to their deterministic rendering.
func (c *Client) Rewrite(ctx context.Context, prompt string) (string, error) {
	var result string
	operation := func(ctx context.Context) error {
		text, err := c.doRequest(ctx, prompt)
		if err != nil {
			return err
		}
		result = text
		return nil
	}

	if err := httpx.RetryWithBackoff(ctx, operation, c.retryConf); err != nil {
		return "", err
	}
	return result, nil
}

func (c *Client) doRequest(ctx context.Context, prompt string) (string, error) {
	reqBody := ChatCompletionRequest{
		Model: c.model,
		Messages: []Message{
			{
				Role:    "system",
				Content: "You rewrite aggregated code review reports into clear, friendly prose. Keep every issue, severity, file reference, and count intact.",
			},
			{Role: "user", Content: prompt},
		},
		Temperature: 0,
		MaxTokens:   maxTokens,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	url := c.baseURL + "/v1/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonData))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", httpx.NewTimeoutError("openai", err.Error())
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", httpx.MapStatusError("openai", resp.StatusCode, string(body))
	}

	var apiResp ChatCompletionResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return "", fmt.Errorf("parse response: %w", err)
	}
	if apiResp.Error != nil {
		return "", fmt.Errorf("openai: %s", apiResp.Error.Message)
	}
	if len(apiResp.Choices) == 0 || apiResp.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("openai: empty completion")
	}

	return apiResp.Choices[0].Message.Content, nil
}
