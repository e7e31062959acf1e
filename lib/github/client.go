// Copyright 2026 The Warden Invite Authors
// SPDX-License-Identifier: Apache-2.0

package github

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/lindluni/warden-invite/lib/clock"
)

// githubAPIVersion is the GitHub REST API version header. Pinning the
// version ensures consistent behavior as GitHub evolves the API.
const githubAPIVersion = "2022-11-28"

// defaultBaseURL is the base URL for the public GitHub API.
const defaultBaseURL = "https://api.github.com"

// maxResponseSize bounds response body reads. Legitimate JSON API
// responses are orders of magnitude smaller.
const maxResponseSize int64 = 32 << 20

// Config holds configuration for creating a GitHub API Client.
type Config struct {
	// BaseURL is the root URL for API requests. Defaults to
	// "https://api.github.com". GitHub Enterprise Server installations
	// use "https://HOST/api/v3". Must use HTTPS.
	BaseURL string

	// Token is the bearer credential. Required. Never logged.
	Token string

	// UserAgent is sent on every request. Defaults to "warden-invite".
	UserAgent string

	// HTTPClient is used for all HTTP requests. Defaults to
	// http.DefaultClient.
	HTTPClient *http.Client

	// Clock provides time operations for rate-limit waits. Defaults to
	// clock.Real().
	Clock clock.Clock

	// Logger is used for structured logging. Defaults to slog.Default().
	Logger *slog.Logger
}

// Client is a typed GitHub REST API client.
type Client struct {
	baseURL    string
	authHeader string
	userAgent  string
	httpClient *http.Client
	rateLimit  *rateLimitTracker
	clock      clock.Clock
	logger     *slog.Logger
}

// NewClient creates a GitHub API client from the given configuration.
// Returns an error if the token is missing or the base URL is not
// HTTPS.
func NewClient(config Config) (*Client, error) {
	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	baseURL = strings.TrimRight(baseURL, "/")

	if !strings.HasPrefix(baseURL, "https://") {
		return nil, fmt.Errorf("github: API client requires HTTPS (got %q)", baseURL)
	}
	if config.Token == "" {
		return nil, fmt.Errorf("github: no token configured")
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	clk := config.Clock
	if clk == nil {
		clk = clock.Real()
	}

	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	userAgent := config.UserAgent
	if userAgent == "" {
		userAgent = "warden-invite"
	}

	return &Client{
		baseURL:    baseURL,
		authHeader: "Bearer " + config.Token,
		userAgent:  userAgent,
		httpClient: httpClient,
		rateLimit:  newRateLimitTracker(clk),
		clock:      clk,
		logger:     logger,
	}, nil
}

// Server-error retry policy. Requests that are safe to repeat are
// retried up to maxServerErrorRetries times on a 5xx response, waiting
// serverErrorBackoff and then twice that.
const (
	maxServerErrorRetries = 2
	serverErrorBackoff    = time.Second
)

// do executes an authenticated API request against a path relative to
// the base URL (e.g., "/repos/owner/repo/issues/1") and returns the raw
// response body. Non-GET requests JSON-encode requestBody (nil for no
// body). Non-2xx responses return an *APIError. Every method except
// POST is repeatable and retried on server errors.
func (client *Client) do(ctx context.Context, method, path string, requestBody any) ([]byte, http.Header, error) {
	return client.doWithRetry(ctx, method, client.baseURL+path, requestBody, method != http.MethodPost)
}

// doWithRetry sends the request, retrying once after a rate-limit
// response so persistent rate limiting surfaces as an error instead of
// a loop. With retryServerErrors set, 5xx responses are also retried
// with a bounded backoff.
func (client *Client) doWithRetry(ctx context.Context, method, url string, requestBody any, retryServerErrors bool) ([]byte, http.Header, error) {
	rateLimitRetried := false
	serverRetries := 0
	for {
		response, err := client.doRaw(ctx, method, url, requestBody)
		if err != nil {
			return nil, nil, err
		}
		body, err := readResponse(response.Body)
		response.Body.Close()
		if err != nil {
			return nil, nil, fmt.Errorf("github: reading response body: %w", err)
		}

		if response.StatusCode >= 200 && response.StatusCode < 300 {
			return body, response.Header, nil
		}

		var delay time.Duration
		switch {
		case !rateLimitRetried && isRateLimitResponse(response.StatusCode, body):
			delay = client.rateLimit.retryAfter(response.Header)
			if delay <= 0 {
				return nil, nil, parseAPIErrorFromBody(response.StatusCode, body)
			}
			rateLimitRetried = true
			client.logger.Info("rate limited, backing off",
				"duration", delay,
				"method", method,
				"url", url,
			)
		case retryServerErrors && response.StatusCode >= 500 && serverRetries < maxServerErrorRetries:
			delay = serverErrorBackoff << serverRetries
			serverRetries++
			client.logger.Warn("server error, retrying",
				"status", response.StatusCode,
				"attempt", serverRetries,
				"duration", delay,
				"method", method,
				"url", url,
			)
		default:
			return nil, nil, parseAPIErrorFromBody(response.StatusCode, body)
		}

		select {
		case <-client.clock.After(delay):
		case <-ctx.Done():
			return nil, nil, ctx.Err()
		}
	}
}

// doRaw sends one authenticated request after waiting out an exhausted
// rate-limit window. The caller closes the response body.
func (client *Client) doRaw(ctx context.Context, method, url string, requestBody any) (*http.Response, error) {
	if err := client.rateLimit.wait(ctx); err != nil {
		return nil, err
	}

	var bodyReader io.Reader
	if requestBody != nil {
		encoded, err := json.Marshal(requestBody)
		if err != nil {
			return nil, fmt.Errorf("github: encoding request body: %w", err)
		}
		bodyReader = bytes.NewReader(encoded)
	}

	request, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("github: creating request: %w", err)
	}

	request.Header.Set("Authorization", client.authHeader)
	request.Header.Set("Accept", "application/vnd.github+json")
	request.Header.Set("X-GitHub-Api-Version", githubAPIVersion)
	request.Header.Set("User-Agent", client.userAgent)
	if requestBody != nil {
		request.Header.Set("Content-Type", "application/json")
	}

	client.logger.Debug("github request", "method", method, "url", url)

	response, err := client.httpClient.Do(request)
	if err != nil {
		return nil, fmt.Errorf("github: %s %s: %w", method, url, err)
	}

	client.rateLimit.update(response.Header)

	return response, nil
}

// get decodes the JSON object returned by a GET request into result.
func (client *Client) get(ctx context.Context, path string, result any) error {
	body, _, err := client.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	return decode(body, result)
}

// post sends requestBody and decodes the response into result when
// result is non-nil.
func (client *Client) post(ctx context.Context, path string, requestBody any, result any) error {
	body, _, err := client.do(ctx, http.MethodPost, path, requestBody)
	if err != nil {
		return err
	}
	if result != nil {
		return decode(body, result)
	}
	return nil
}

// postRepeatable is post for endpoints where repeating the request
// cannot duplicate its effect, so server errors are retried.
func (client *Client) postRepeatable(ctx context.Context, path string, requestBody any, result any) error {
	body, _, err := client.doWithRetry(ctx, http.MethodPost, client.baseURL+path, requestBody, true)
	if err != nil {
		return err
	}
	if result != nil {
		return decode(body, result)
	}
	return nil
}

// put sends requestBody and decodes the response into result when
// result is non-nil.
func (client *Client) put(ctx context.Context, path string, requestBody any, result any) error {
	body, _, err := client.do(ctx, http.MethodPut, path, requestBody)
	if err != nil {
		return err
	}
	if result != nil {
		return decode(body, result)
	}
	return nil
}

// patch sends requestBody and decodes the response into result when
// result is non-nil.
func (client *Client) patch(ctx context.Context, path string, requestBody any, result any) error {
	body, _, err := client.do(ctx, http.MethodPatch, path, requestBody)
	if err != nil {
		return err
	}
	if result != nil {
		return decode(body, result)
	}
	return nil
}

// list creates a PageIterator for a paginated GET endpoint.
func list[T any](client *Client, path string) *PageIterator[T] {
	return &PageIterator[T]{
		client:  client,
		nextURL: client.baseURL + path,
	}
}

func decode(body []byte, result any) error {
	if err := json.Unmarshal(body, result); err != nil {
		return fmt.Errorf("github: decoding response: %w", err)
	}
	return nil
}

func readResponse(body io.Reader) ([]byte, error) {
	return io.ReadAll(io.LimitReader(body, maxResponseSize))
}

// parseAPIErrorFromBody builds an *APIError from a status code and a
// GitHub error body. Bodies that are not GitHub's JSON error shape are
// used verbatim as the message.
func parseAPIErrorFromBody(statusCode int, body []byte) *APIError {
	apiError := &APIError{StatusCode: statusCode}

	var wireError struct {
		Message          string            `json:"message"`
		DocumentationURL string            `json:"documentation_url"`
		Errors           []ValidationError `json:"errors"`
	}
	if json.Unmarshal(body, &wireError) == nil && wireError.Message != "" {
		apiError.Message = wireError.Message
		apiError.DocumentationURL = wireError.DocumentationURL
		apiError.Errors = wireError.Errors
	} else {
		apiError.Message = strings.TrimSpace(string(body))
	}

	return apiError
}
