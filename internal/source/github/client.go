package github

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/nhle/notifeed/internal/logging"
	"github.com/nhle/notifeed/internal/source"
)

const apiVersion = "2022-11-28"

// Client is a thin HTTP client for the GitHub REST API.
// It handles Bearer token authentication, JSON decoding, and
// automatic retry with exponential backoff on HTTP 429.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	maxRetries int

	// sleep waits between retries; replaced in tests.
	sleep func(ctx context.Context, d time.Duration) error
}

// NewClient creates a new GitHub HTTP client. The baseURL should be the
// API root (https://api.github.com, or https://host/api/v3 for
// Enterprise Server). The token is used for Bearer authentication.
func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		maxRetries: 3,
		sleep:      sleepContext,
	}
}

// Get performs an HTTP GET request and unmarshals the JSON response.
// The raw response body is returned alongside for callers that keep it.
func (c *Client) Get(
	ctx context.Context,
	path string,
	result interface{},
) ([]byte, error) {
	url := c.baseURL + path
	op := "GET " + stripQuery(path)

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, &source.FetchError{Op: op, Err: fmt.Errorf("creating request: %w", err)}
		}

		req.Header.Set("Authorization", "Bearer "+c.token)
		req.Header.Set("Accept", "application/vnd.github+json")
		req.Header.Set("X-GitHub-Api-Version", apiVersion)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, &source.FetchError{Op: op, Err: err}
		}

		body, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		if readErr != nil {
			return nil, &source.FetchError{
				Op:     op,
				Status: resp.StatusCode,
				Err:    fmt.Errorf("reading response body: %w", readErr),
			}
		}

		if resp.StatusCode == http.StatusTooManyRequests {
			wait := retryAfterDuration(resp, attempt)
			lastErr = fmt.Errorf("rate limited (429)")
			logging.Warn("github rate limited",
				"op", op, "attempt", attempt+1, "wait", wait)

			if err := c.sleep(ctx, wait); err != nil {
				return nil, &source.FetchError{Op: op, Err: err}
			}
			continue
		}

		if resp.StatusCode == http.StatusUnauthorized {
			return nil, &source.AuthError{
				SourceType: source.SourceTypeGitHub,
				Message: fmt.Sprintf(
					"authentication failed (401): check your "+
						"token for %s", c.baseURL,
				),
			}
		}

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			var apiErr ErrorResponse
			if json.Unmarshal(body, &apiErr) == nil && apiErr.Message != "" {
				return nil, &source.FetchError{
					Op:     op,
					Status: resp.StatusCode,
					Err:    fmt.Errorf("github API error: %s", apiErr.Message),
				}
			}
			return nil, &source.FetchError{
				Op:     op,
				Status: resp.StatusCode,
				Err:    fmt.Errorf("unexpected response: %s", strings.TrimSpace(string(body))),
			}
		}

		if result == nil || resp.StatusCode == http.StatusNoContent {
			return body, nil
		}

		if err := json.Unmarshal(body, result); err != nil {
			return nil, &source.FetchError{
				Op:     op,
				Status: resp.StatusCode,
				Err:    fmt.Errorf("decoding response: %w", err),
			}
		}

		return body, nil
	}

	return nil, &source.FetchError{
		Op:  op,
		Err: fmt.Errorf("max retries (%d) exceeded: %w", c.maxRetries, lastErr),
	}
}

// retryAfterDuration reads the Retry-After header and computes a wait
// duration. Falls back to exponential backoff if the header is missing.
func retryAfterDuration(resp *http.Response, attempt int) time.Duration {
	if header := resp.Header.Get("Retry-After"); header != "" {
		if seconds, err := strconv.Atoi(header); err == nil {
			return time.Duration(seconds) * time.Second
		}
	}

	// Exponential backoff: 1s, 2s, 4s, ...
	backoff := time.Duration(1<<uint(attempt)) * time.Second
	if backoff > 30*time.Second {
		backoff = 30 * time.Second
	}
	return backoff
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func stripQuery(path string) string {
	if i := strings.IndexByte(path, '?'); i >= 0 {
		return path[:i]
	}
	return path
}
