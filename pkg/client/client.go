// Package client provides the core HTTP client for the platform's listing
// APIs, with response caching, metrics, and error handling.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/ibandla/gcloud-go/pkg/cache"
	"github.com/ibandla/gcloud-go/pkg/page"
)

// Prometheus metrics for listing client operations.
var (
	listingRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "listing_requests_total",
		Help: "Total API requests by endpoint and status",
	}, []string{"endpoint", "status"})

	listingRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "listing_request_duration_seconds",
		Help:    "API request duration in seconds by endpoint",
		Buckets: []float64{0.1, 0.5, 1, 2, 5, 10},
	}, []string{"endpoint"})

	listingErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "listing_errors_total",
		Help: "Total API errors by class",
	}, []string{"class"})

	listingPagesFetchedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "listing_pages_fetched_total",
		Help: "Total listing pages fetched by endpoint",
	}, []string{"endpoint"})
)

// ErrorClass represents a classification of HTTP errors.
type ErrorClass string

const (
	// ErrorClassClient represents 4xx client errors.
	ErrorClassClient ErrorClass = "client"

	// ErrorClassServer represents 5xx server errors.
	ErrorClassServer ErrorClass = "server"

	// ErrorClassRateLimit represents 429 rate limit errors.
	ErrorClassRateLimit ErrorClass = "rate_limit"

	// ErrorClassNetwork represents network/timeout errors.
	ErrorClassNetwork ErrorClass = "network"
)

// Client is the low-level API client all resource services share.
type Client struct {
	httpClient *http.Client
	baseURL    string
	cache      *cache.Manager
	config     Config
	logger     zerolog.Logger
}

// Config holds the client configuration.
type Config struct {
	// BaseURL is the root of the platform API (no trailing slash).
	BaseURL string

	// User-Agent header sent on every request.
	// Format: "AppName/Version"
	UserAgent string

	// Redis client for the listing cache. Optional; when nil, every
	// listing call goes to the network.
	Redis *redis.Client

	// Timeout per HTTP request.
	Timeout time.Duration

	// CacheTTL is how long a cached listing page stays fresh.
	CacheTTL time.Duration
}

// DefaultConfig returns a safe default configuration.
func DefaultConfig(baseURL, userAgent string) Config {
	return Config{
		BaseURL:   baseURL,
		UserAgent: userAgent,
		Timeout:   30 * time.Second,
		CacheTTL:  60 * time.Second,
	}
}

// New creates a new API client.
func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("base URL is required")
	}

	if cfg.UserAgent == "" {
		return nil, fmt.Errorf("user-agent is required")
	}

	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}

	logger := log.With().Str("component", "api-client").Logger()

	var cacheManager *cache.Manager
	if cfg.Redis != nil {
		cacheManager = cache.NewManager(cfg.Redis)
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL: cfg.BaseURL,
		cache:   cacheManager,
		config:  cfg,
		logger:  logger,
	}, nil
}

// listEnvelope is the JSON envelope every listing endpoint returns.
type listEnvelope struct {
	Items         []json.RawMessage `json:"items"`
	NextPageToken string            `json:"nextPageToken"`
}

// ListPage performs one listing call and returns the raw page.
// The continuation token and page size hint are threaded into the query; the
// listing cache, when configured, is consulted first and updated on success.
func (c *Client) ListPage(ctx context.Context, path string, params url.Values, token string, pageSize int) (*page.RawPage, error) {
	query := url.Values{}
	for k, vs := range params {
		query[k] = vs
	}
	if token != "" {
		query.Set("pageToken", token)
	}
	if pageSize > 0 {
		query.Set("maxResults", strconv.Itoa(pageSize))
	}

	cacheKey := cache.Key{Endpoint: path, Query: query}

	// Cache lookup
	if c.cache != nil {
		entry, err := c.cache.Get(ctx, cacheKey)
		if err != nil && err != cache.ErrCacheMiss {
			c.logger.Warn().Err(err).Str("endpoint", path).Msg("Cache get error")
		}
		if entry != nil {
			c.logger.Debug().
				Str("endpoint", path).
				Str("page_token", token).
				Msg("Listing page served from cache")
			return decodeEnvelope(entry.Data)
		}
	}

	body, err := c.getBody(ctx, path, query)
	if err != nil {
		return nil, err
	}

	raw, err := decodeEnvelope(body)
	if err != nil {
		return nil, err
	}

	listingPagesFetchedTotal.WithLabelValues(path).Inc()
	c.logger.Debug().
		Str("endpoint", path).
		Str("page_token", token).
		Int("items", len(raw.Items)).
		Bool("has_next", raw.NextToken != "").
		Msg("Listing page fetched")

	// Cache update
	if c.cache != nil {
		if err := c.cache.Set(ctx, cacheKey, cache.NewEntry(body, c.config.CacheTTL)); err != nil {
			c.logger.Warn().Err(err).Str("endpoint", path).Msg("Failed to cache listing page")
		}
	}

	return raw, nil
}

// decodeEnvelope parses a listing response body into a raw page.
func decodeEnvelope(body []byte) (*page.RawPage, error) {
	var env listEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	return &page.RawPage{
		Items:     env.Items,
		NextToken: env.NextPageToken,
	}, nil
}

// pager binds one listing call into the page.Fetcher capability.
type pager struct {
	client *Client
	path   string
	params url.Values
}

// FetchPage implements page.Fetcher.
func (p *pager) FetchPage(ctx context.Context, token string, pageSize int) (*page.RawPage, error) {
	return p.client.ListPage(ctx, p.path, p.params, token, pageSize)
}

// Pager returns the fetcher capability for a listing endpoint, for use with
// page.FromRaw. The params are shared read-only across all fetches.
func (c *Client) Pager(path string, params url.Values) page.Fetcher {
	return &pager{client: c, path: path, params: params}
}

// getBody performs a GET and returns the response body, mapping non-2xx
// statuses to *APIError.
func (c *Client) getBody(ctx context.Context, path string, query url.Values) ([]byte, error) {
	resp, err := c.do(ctx, http.MethodGet, path, query, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}
	return body, nil
}

// GetJSON performs a GET request and decodes the JSON response into v.
func (c *Client) GetJSON(ctx context.Context, path string, query url.Values, v any) error {
	body, err := c.getBody(ctx, path, query)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	return nil
}

// PostJSON performs a POST request with a JSON body and decodes the JSON
// response into v when v is non-nil.
func (c *Client) PostJSON(ctx context.Context, path string, query url.Values, reqBody any, v any) error {
	data, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("marshal request body: %w", err)
	}

	resp, err := c.do(ctx, http.MethodPost, path, query, data)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if v == nil {
		return nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response body: %w", err)
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	return nil
}

// Delete performs a DELETE request.
func (c *Client) Delete(ctx context.Context, path string) error {
	resp, err := c.do(ctx, http.MethodDelete, path, nil, nil)
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}

// do executes one HTTP request. This is the core request method: it sets the
// standard headers, records metrics, and maps failures to the client's error
// taxonomy. No retries are performed; callers see the exact failure the
// transport produced.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body []byte) (*http.Response, error) {
	endpoint := path

	startTime := time.Now()
	defer func() {
		listingRequestDuration.WithLabelValues(endpoint).Observe(time.Since(startTime).Seconds())
	}()

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		reqBody = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reqBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("User-Agent", c.config.UserAgent)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.logger.Debug().
		Str("endpoint", endpoint).
		Str("method", method).
		Msg("Executing API request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error().Err(err).Str("endpoint", endpoint).Msg("HTTP request failed")
		listingErrorsTotal.WithLabelValues(string(ErrorClassNetwork)).Inc()
		listingRequestsTotal.WithLabelValues(endpoint, "network_error").Inc()
		return nil, fmt.Errorf("http request: %w", err)
	}

	if resp.StatusCode >= 400 {
		errClass := classifyStatus(resp.StatusCode)
		listingErrorsTotal.WithLabelValues(string(errClass)).Inc()
		listingRequestsTotal.WithLabelValues(endpoint, fmt.Sprintf("%d", resp.StatusCode)).Inc()

		apiErr := errorFromResponse(resp)
		resp.Body.Close()

		c.logger.Warn().
			Str("endpoint", endpoint).
			Int("status", resp.StatusCode).
			Str("error_class", string(errClass)).
			Msg("API request error")

		return nil, apiErr
	}

	listingRequestsTotal.WithLabelValues(endpoint, fmt.Sprintf("%d", resp.StatusCode)).Inc()
	return resp, nil
}

// classifyStatus categorizes an HTTP status for observability.
func classifyStatus(status int) ErrorClass {
	switch {
	case status == http.StatusTooManyRequests:
		return ErrorClassRateLimit
	case status >= 400 && status < 500:
		return ErrorClassClient
	case status >= 500:
		return ErrorClassServer
	default:
		return ""
	}
}

// Close closes the client and releases resources.
func (c *Client) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}

// SetHTTPClient sets a custom HTTP client (for testing).
func (c *Client) SetHTTPClient(client *http.Client) {
	c.httpClient = client
}

// GetCache returns the cache manager (for testing).
func (c *Client) GetCache() *cache.Manager {
	return c.cache
}
