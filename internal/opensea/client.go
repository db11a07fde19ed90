package opensea

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// DefaultBaseURL is the production REST host. Paths below include /api/v2.
const DefaultBaseURL = "https://api.opensea.io"

// DefaultTimeout bounds a single metadata request.
const DefaultTimeout = 15 * time.Second

// Limiter gates outbound requests.
type Limiter interface {
	Acquire(ctx context.Context) error
}

// Client provides access to the OpenSea REST API.
type Client struct {
	baseURL    string
	apiKey     string
	limiter    Limiter
	httpClient *http.Client
	timeout    time.Duration
	logger     *slog.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// NewClient creates a new REST API client. limiter may be nil.
func NewClient(baseURL, apiKey string, limiter Limiter, opts ...ClientOption) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		limiter:    limiter,
		httpClient: &http.Client{},
		timeout:    DefaultTimeout,
		logger:     slog.Default(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}
