package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/justchokingaround/enjoi/internal/backend"
	backendhttp "github.com/justchokingaround/enjoi/internal/backend/http"
	"github.com/justchokingaround/enjoi/internal/config"
)

// StatusError is returned when the backend answers with an unexpected HTTP status
type StatusError struct {
	StatusCode int
	Endpoint   string
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("backend returned %d for %s: %s", e.StatusCode, e.Endpoint, e.Body)
}

// Client talks to the content-lookup backend over HTTP/JSON
type Client struct {
	httpClient *backendhttp.Client
	debug      bool
	logger     *slog.Logger
}

var _ backend.Backend = (*Client)(nil)

// NewClient creates a new API client
func NewClient(cfg *config.Config, logger *slog.Logger) *Client {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if logger == nil {
		logger = slog.Default()
	}

	httpClient := backendhttp.NewClient(backendhttp.ClientConfig{
		BaseURL:    cfg.API.BaseURL,
		Timeout:    cfg.API.Timeout,
		MaxRetries: cfg.API.MaxRetries,
		UserAgent:  cfg.API.UserAgent,
		Debug:      cfg.Advanced.Debug,
		Logger:     logger,
	})

	return &Client{
		httpClient: httpClient,
		debug:      cfg.Advanced.Debug,
		logger:     logger,
	}
}

// Search performs a text search
func (c *Client) Search(ctx context.Context, text string) ([]backend.SearchResult, error) {
	var results []backend.SearchResult
	if err := c.get(ctx, "/search", map[string]string{"text": text}, &results); err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}

	if c.debug {
		c.logger.Debug("search response", "text", text, "results", len(results))
	}

	return results, nil
}

// Details retrieves the details record of a show
func (c *Client) Details(ctx context.Context, slug string) (*backend.Details, error) {
	endpoint := "/details/" + url.PathEscape(slug)

	var details backend.Details
	if err := c.get(ctx, endpoint, nil, &details); err != nil {
		return nil, fmt.Errorf("get details for %q failed: %w", slug, err)
	}
	details.Slug = slug

	return &details, nil
}

// Episode retrieves the providers of one episode. The episode number is
// passed through as given; range checks are the backend's business.
func (c *Client) Episode(ctx context.Context, slug string, number int) (*backend.Episode, error) {
	endpoint := "/episode/" + url.PathEscape(slug) + "/" + strconv.Itoa(number)

	var episode backend.Episode
	if err := c.get(ctx, endpoint, nil, &episode); err != nil {
		return nil, fmt.Errorf("get episode %d of %q failed: %w", number, slug, err)
	}

	if c.debug {
		c.logger.Debug("episode response", "slug", slug, "episode", number, "providers", len(episode.Providers))
	}

	return &episode, nil
}

func (c *Client) get(ctx context.Context, endpoint string, query map[string]string, out interface{}) error {
	resp, err := c.httpClient.Get(ctx, endpoint, query)
	if err != nil {
		if resp == nil {
			return err
		}
		if resp.StatusCode() == http.StatusNotFound {
			return backend.ErrNotFound
		}
		return &StatusError{
			StatusCode: resp.StatusCode(),
			Endpoint:   endpoint,
			Body:       truncate(resp.String(), 200),
		}
	}

	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return fmt.Errorf("failed to decode response from %s: %w", endpoint, err)
	}

	return nil
}

// IsNotFound reports whether err means the backend has no such record
func IsNotFound(err error) bool {
	return errors.Is(err, backend.ErrNotFound)
}

// truncate keeps the first n runes of s
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
