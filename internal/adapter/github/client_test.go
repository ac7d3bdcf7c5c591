package github_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bkyoung/review-aggregator/internal/adapter/github"
	"github.com/bkyoung/review-aggregator/internal/adapter/httpx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noRetry() httpx.RetryConfig {
	return httpx.RetryConfig{MaxRetries: 0, InitialBackoff: time.Millisecond, MaxBackoff: time.Millisecond, Multiplier: 1.0}
}

func TestCreateIssueCommentPostsBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/repos/acme/widgets/issues/42/comments", r.URL.Path)
		assert.Equal(t, "Bearer ghp_test", r.Header.Get("Authorization"))

		var req map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "Found 1 issue(s)", req["body"])

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"id":       int64(7),
			"html_url": "https://github.com/acme/widgets/pull/42#issuecomment-7",
		})
	}))
	defer server.Close()

	client := github.NewClient("ghp_test")
	client.SetBaseURL(server.URL)
	client.SetRetryConfig(noRetry())

	url, err := client.CreateIssueComment(context.Background(), "acme", "widgets", 42, "Found 1 issue(s)")

	require.NoError(t, err)
	assert.Equal(t, "https://github.com/acme/widgets/pull/42#issuecomment-7", url)
}

func TestCreateIssueCommentMapsAPIErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	client := github.NewClient("ghp_bad")
	client.SetBaseURL(server.URL)
	client.SetRetryConfig(noRetry())

	_, err := client.CreateIssueComment(context.Background(), "acme", "widgets", 42, "body")

	require.Error(t, err)
	var httpErr *httpx.Error
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, httpx.ErrTypeAuthentication, httpErr.Type)
}

func TestCreateIssueCommentRetriesServerErrors(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]interface{}{"id": int64(1), "html_url": "url"})
	}))
	defer server.Close()

	client := github.NewClient("ghp_test")
	client.SetBaseURL(server.URL)
	client.SetRetryConfig(httpx.RetryConfig{MaxRetries: 2, InitialBackoff: time.Millisecond, MaxBackoff: 2 * time.Millisecond, Multiplier: 2.0})

	url, err := client.CreateIssueComment(context.Background(), "acme", "widgets", 42, "body")

	require.NoError(t, err)
	assert.Equal(t, "url", url)
	assert.Equal(t, 2, attempts)
}
