// Package client provides a typed HTTP client for the RelayQ REST API.
//
// The client performs exactly one HTTP attempt per call; retry and
// backoff decisions belong to the caller. All failures are returned as
// *Error carrying the HTTP status code and raw response body.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/relayq/relayq/internal/pkg/errors"
)

// DefaultBaseURL is the hosted RelayQ API endpoint.
const DefaultBaseURL = "https://api.relayq.io"

// Error represents an error response from the RelayQ API.
type Error struct {
	// Message is a human-readable error message.
	Message string

	// Status is the HTTP status code, 0 for transport failures.
	Status int

	// Body is the raw response body if available.
	Body []byte
}

// Error includes the status code in the message so downstream
// classification can key off it.
func (e *Error) Error() string {
	return fmt.Sprintf("relayq: %s (status=%d)", e.Message, e.Status)
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the per-request timeout. Default: 30 seconds.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// Client is the RelayQ API client, organized into service-specific
// APIs. Create one with New.
type Client struct {
	// Queues provides queue management operations.
	Queues *QueuesService

	// Groups provides consumer group operations.
	Groups *GroupsService

	// Schedules provides scheduled delivery operations.
	Schedules *SchedulesService

	// Messages provides publish, enqueue, track and cancel operations.
	Messages *MessagesService

	// Failed provides dead-letter operations.
	Failed *FailedService

	// Keys provides signing key operations.
	Keys *KeysService

	baseURL    string
	token      string
	userAgent  string
	httpClient *http.Client
}

// New creates a RelayQ client for the given endpoint, authenticating
// every request with the given token.
func New(baseURL, token string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		userAgent:  "relayq-cli",
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}

	c.Queues = &QueuesService{client: c}
	c.Groups = &GroupsService{client: c}
	c.Schedules = &SchedulesService{client: c}
	c.Messages = &MessagesService{client: c}
	c.Failed = &FailedService{client: c}
	c.Keys = &KeysService{client: c}
	return c
}

// BaseURL returns the configured endpoint.
func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) do(ctx context.Context, method, path string, params url.Values, body, result any) error {
	reqURL := c.baseURL + path
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	var bodyReader io.Reader
	if body != nil {
		bodyBytes, err := json.Marshal(body)
		if err != nil {
			return &Error{Message: fmt.Sprintf("failed to encode body: %v", err)}
		}
		bodyReader = bytes.NewReader(bodyBytes)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, bodyReader)
	if err != nil {
		return &Error{Message: fmt.Sprintf("failed to create request: %v", err)}
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-ID", uuid.NewString())

	start := time.Now()
	apperrors.LogRequest(method, path)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &Error{Message: fmt.Sprintf("connection failed: %v", err)}
	}
	defer resp.Body.Close()

	apperrors.LogResponse(method, path, resp.StatusCode, time.Since(start))

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return &Error{Message: fmt.Sprintf("failed to read response: %v", err), Status: resp.StatusCode}
	}

	if resp.StatusCode >= 400 {
		return newAPIError(resp, respBody)
	}

	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return &Error{Message: fmt.Sprintf("failed to decode response: %v", err), Status: resp.StatusCode}
		}
	}
	return nil
}

// newAPIError builds an *Error from an error response, preferring the
// server's own message and carrying Retry-After through for 429s.
func newAPIError(resp *http.Response, body []byte) *Error {
	message := fmt.Sprintf("request failed: %s", resp.Status)

	var errResp struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if json.Unmarshal(body, &errResp) == nil {
		if errResp.Error != "" {
			message = errResp.Error
		} else if errResp.Message != "" {
			message = errResp.Message
		}
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		if after := resp.Header.Get("Retry-After"); after != "" {
			message = fmt.Sprintf("%s, retry after %s seconds", message, after)
		}
	}

	return &Error{Message: message, Status: resp.StatusCode, Body: body}
}
