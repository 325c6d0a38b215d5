// Package geoapify is a small client for the Geoapify geocoding API.
package geoapify

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// DefaultBaseURL is the public Geoapify endpoint.
const DefaultBaseURL = "https://api.geoapify.com"

// HTTPClient interface for making HTTP requests.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// StatusError is returned when the API answers with a non-2xx status.
type StatusError struct {
	Status     string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("geoapify returned status %d", e.StatusCode)
}

// Client handles Geoapify API operations.
type Client struct {
	httpClient HTTPClient
	logger     *slog.Logger
	apiKey     string
	baseURL    string
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at a different API host, such as a test server.
func WithBaseURL(base string) Option {
	return func(c *Client) {
		if base != "" {
			c.baseURL = strings.TrimRight(base, "/")
		}
	}
}

// NewClient creates a new Geoapify API client.
func NewClient(apiKey string, httpClient HTTPClient, logger *slog.Logger, opts ...Option) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if logger == nil {
		logger = slog.Default()
	}
	c := &Client{
		apiKey:     apiKey,
		baseURL:    DefaultBaseURL,
		httpClient: httpClient,
		logger:     logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ReverseURL builds the reverse geocoding URL for a coordinate pair.
func (c *Client) ReverseURL(lat, lon float64) string {
	return fmt.Sprintf("%s/v1/geocode/reverse?lat=%s&lon=%s&format=json&apiKey=%s",
		c.baseURL,
		strconv.FormatFloat(lat, 'f', -1, 64),
		strconv.FormatFloat(lon, 'f', -1, 64),
		url.QueryEscape(c.apiKey))
}

// SearchURL builds the forward geocoding URL for free-form address text.
func (c *Client) SearchURL(text string) string {
	return fmt.Sprintf("%s/v1/geocode/search?text=%s&format=json&apiKey=%s",
		c.baseURL, url.QueryEscape(text), url.QueryEscape(c.apiKey))
}

// Get fetches rawURL and decodes the geocoding response.
// Transport and decode failures are returned wrapped; a non-2xx answer yields *StatusError.
func (c *Client) Get(ctx context.Context, rawURL string) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.logger.Debug("failed to close response body", "error", err)
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Debug("geocoding request rejected", "status", resp.StatusCode, "path", req.URL.Path)
		return nil, &StatusError{StatusCode: resp.StatusCode, Status: resp.Status}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading geocoding response: %w", err)
	}

	bodyPreviewLen := 200
	if len(body) < bodyPreviewLen {
		bodyPreviewLen = len(body)
	}
	c.logger.Debug("geocoding API raw response", "path", req.URL.Path, "status", resp.StatusCode,
		"content_type", resp.Header.Get("Content-Type"), "body_preview", string(body[:bodyPreviewLen]))

	var result Response
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to parse geocoding response: %w", err)
	}
	return &result, nil
}
