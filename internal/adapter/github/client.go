package github

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
	serviceName    = "github"
	defaultBaseURL = "https://api.github.com"
	defaultTimeout = 30 * time.Second
)

// Client is an HTTP client for the GitHub Issues API, used to post the
// aggregated report as a pull request comment.
type Client struct {
	token      string
	baseURL    string
	httpClient *http.Client
	retryConf  httpx.RetryConfig
}

// NewClient creates a new GitHub API client with the given token.
// The token should be a personal access token or GITHUB_TOKEN from
// Actions.
func NewClient(token string) *Client {
	return &Client{
		token:      token,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: defaultTimeout},
		retryConf:  httpx.DefaultRetryConfig(),
	}
}

// SetBaseURL sets a custom base URL (for testing).
func (c *Client) SetBaseURL(url string) {
	c.baseURL = url
}

// SetRetryConfig overrides the retry behavior.
func (c *Client) SetRetryConfig(conf httpx.RetryConfig) {
	c.retryConf = conf
}

type createCommentRequest struct {
	Body string `json:"body"`
}

type createCommentResponse struct {
	ID      int64  `json:"id"`
	HTMLURL string `json:"html_url"`
}

// CreateIssueComment posts body as a comment on the pull request and
// returns the comment's HTML URL. Pull request comments go through the
// Issues API.
func (c *Client) CreateIssueComment(ctx context.Context, owner, repo string, number int, body string) (string, error) {
	jsonData, err := json.Marshal(createCommentRequest{Body: body})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/repos/%s/%s/issues/%d/comments", c.baseURL, owner, repo, number)

	var created createCommentResponse
	operation := func(ctx context.Context) error {
		req, reqErr := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonData))
		if reqErr != nil {
			return fmt.Errorf("create request: %w", reqErr)
		}
		req.Header.Set("Accept", "application/vnd.github+json")
		req.Header.Set("Authorization", "Bearer "+c.token)
		req.Header.Set("Content-Type", "application/json")

		resp, doErr := c.httpClient.Do(req)
		if doErr != nil {
			return httpx.NewTimeoutError(serviceName, doErr.Error())
		}
		defer resp.Body.Close()

		respBody, readErr := io.ReadAll(resp.Body)
		if readErr != nil {
			return fmt.Errorf("read response: %w", readErr)
		}

		if resp.StatusCode != http.StatusCreated {
			return httpx.MapStatusError(serviceName, resp.StatusCode, string(respBody))
		}

		if err := json.Unmarshal(respBody, &created); err != nil {
			return fmt.Errorf("parse response: %w", err)
		}
		return nil
	}

	if err := httpx.RetryWithBackoff(ctx, operation, c.retryConf); err != nil {
		return "", err
	}
	return created.HTMLURL, nil
}
