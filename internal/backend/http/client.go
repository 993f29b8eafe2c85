package http

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
)

// RequestIDHeader carries a per-request id so backend logs can be matched with ours
const RequestIDHeader = "X-Request-ID"

// Client wraps resty.Client with timeout handling, optional retries and debug logging
type Client struct {
	resty  *resty.Client
	logger *slog.Logger
}

// ClientConfig holds configuration for the HTTP client.
// MaxRetries of zero means every request is attempted exactly once.
type ClientConfig struct {
	BaseURL    string
	Timeout    time.Duration
	MaxRetries int
	UserAgent  string
	Debug      bool
	Logger     *slog.Logger
}

// DefaultClientConfig returns sensible defaults for HTTP client
func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		Timeout:   30 * time.Second,
		UserAgent: "enjoi/1.0",
	}
}

// NewClient creates a new HTTP client with the given configuration
func NewClient(config ClientConfig) *Client {
	if config.Timeout <= 0 {
		config.Timeout = 30 * time.Second
	}
	if config.MaxRetries < 0 {
		config.MaxRetries = 0
	}
	if config.UserAgent == "" {
		config.UserAgent = "enjoi/1.0"
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}

	restyClient := resty.New().
		SetBaseURL(config.BaseURL).
		SetTimeout(config.Timeout).
		SetRetryCount(config.MaxRetries).
		SetRetryWaitTime(500*time.Millisecond).
		SetRetryMaxWaitTime(5*time.Second).
		SetHeader("User-Agent", config.UserAgent).
		SetHeader("Accept", "application/json")

	if config.MaxRetries > 0 {
		restyClient.AddRetryCondition(func(r *resty.Response, err error) bool {
			if err != nil {
				return true
			}
			return r.StatusCode() >= 500 || r.StatusCode() == 429
		})
	}

	client := &Client{
		resty:  restyClient,
		logger: config.Logger,
	}

	restyClient.OnBeforeRequest(func(c *resty.Client, r *resty.Request) error {
		if r.Header.Get(RequestIDHeader) == "" {
			r.SetHeader(RequestIDHeader, uuid.NewString())
		}
		return nil
	})

	if config.Debug {
		restyClient.OnBeforeRequest(func(c *resty.Client, r *resty.Request) error {
			client.logRequest(r)
			return nil
		})
		restyClient.OnAfterResponse(func(c *resty.Client, r *resty.Response) error {
			client.logResponse(r)
			return nil
		})
	}

	return client
}

// Get performs a GET request. Responses with a status >= 400 are returned
// together with an error so callers can inspect the status code.
func (c *Client) Get(ctx context.Context, path string, query map[string]string) (*resty.Response, error) {
	req := c.resty.R().SetContext(ctx)
	if len(query) > 0 {
		req.SetQueryParams(query)
	}

	resp, err := req.Get(path)
	if err != nil {
		return nil, fmt.Errorf("GET request failed for %s: %w", path, err)
	}

	if resp.StatusCode() >= 400 {
		return resp, fmt.Errorf("HTTP error %d for %s: %s", resp.StatusCode(), path, resp.String())
	}

	return resp, nil
}

func (c *Client) logRequest(r *resty.Request) {
	c.logger.Debug("HTTP Request",
		"method", r.Method,
		"url", r.URL,
		"request_id", r.Header.Get(RequestIDHeader),
	)
}

func (c *Client) logResponse(r *resty.Response) {
	body := r.String()
	if len(body) > 1000 {
		body = body[:1000] + "... (truncated)"
	}

	c.logger.Debug("HTTP Response",
		"status", r.StatusCode(),
		"url", r.Request.URL,
		"request_id", r.Request.Header.Get(RequestIDHeader),
		"time", r.Time(),
		"body", body,
	)
}
