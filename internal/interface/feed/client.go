package feed

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"flightlo-service/internal/domain/entity"
	"flightlo-service/internal/domain/repository"
	"flightlo-service/pkg/logger"
	"flightlo-service/pkg/metrics"

	"golang.org/x/time/rate"
)

const (
	defaultUserAgent = "FlightTracker/1.0"
	maxBodyBytes     = 32 << 20
)

// Client performs rate limited, optionally cached GET requests for one feed.
// Each adapter owns its own Client.
type Client struct {
	name       string
	httpClient *http.Client
	limiter    *rate.Limiter
	cache      repository.FeedCache
	cacheTTL   time.Duration
	headers    http.Header
	logger     logger.Logger
	metrics    *metrics.Metrics
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client, e.g. with an OAuth2 client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithRateLimit allows perMinute requests per minute with no burst. Zero or
// negative disables limiting.
func WithRateLimit(perMinute int) Option {
	return func(c *Client) {
		if perMinute > 0 {
			c.limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), 1)
		}
	}
}

// WithCache stores successful responses in cache for ttl.
func WithCache(cache repository.FeedCache, ttl time.Duration) Option {
	return func(c *Client) {
		if cache != nil && ttl > 0 {
			c.cache = cache
			c.cacheTTL = ttl
		}
	}
}

// WithHeader sets a request header sent with every request.
func WithHeader(key, value string) Option {
	return func(c *Client) {
		c.headers.Set(key, value)
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l.With("feed", c.name)
		}
	}
}

// WithMetrics records cache and skipped-record metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// NewClient creates a feed client
func NewClient(name string, opts ...Option) *Client {
	c := &Client{
		name:       name,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		limiter:    rate.NewLimiter(rate.Inf, 1),
		headers:    http.Header{},
		logger:     logger.NewNopLogger(),
	}
	c.headers.Set("User-Agent", defaultUserAgent)
	c.headers.Set("Accept", "application/json")

	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Name returns the feed name used in logs, metrics and provenance tags
func (c *Client) Name() string {
	return c.name
}

// Get fetches endpoint with params and returns the raw body.
func (c *Client) Get(ctx context.Context, endpoint string, params url.Values) ([]byte, error) {
	target := buildURL(endpoint, params)
	body, hit, err := c.fetch(ctx, target)
	if err != nil {
		return nil, err
	}
	if !hit {
		c.store(ctx, target, body)
	}
	return body, nil
}

// upstreamReporter is implemented by response types whose provider reports
// failures inside an HTTP 200 body.
type upstreamReporter interface {
	upstreamErr() error
}

// GetJSON fetches endpoint and decodes the body into v. Bodies that fail to
// decode are reported as parse failures and are not cached. If v reports an
// in-band upstream error the call fails with a network error and the body is
// not cached either.
func (c *Client) GetJSON(ctx context.Context, endpoint string, params url.Values, v any) error {
	target := buildURL(endpoint, params)
	body, hit, err := c.fetch(ctx, target)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return entity.NewParseError(c.name, err)
	}
	if r, ok := v.(upstreamReporter); ok {
		if err := r.upstreamErr(); err != nil {
			return entity.NewNetworkError(c.name, err)
		}
	}
	if !hit {
		c.store(ctx, target, body)
	}
	return nil
}

// Skipped records n malformed records dropped during normalization
func (c *Client) Skipped(n int) {
	if n <= 0 {
		return
	}
	c.logger.Debug("Skipped malformed records", "count", n)
	c.metrics.AddSkipped(c.name, n)
}

func (c *Client) fetch(ctx context.Context, target string) ([]byte, bool, error) {
	if body, ok := c.lookup(ctx, target); ok {
		return body, true, nil
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, false, entity.NewNetworkError(c.name, fmt.Errorf("rate limit wait: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, false, entity.NewNetworkError(c.name, err)
	}
	for key, values := range c.headers {
		req.Header[key] = values
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, false, entity.NewNetworkError(c.name, fmt.Errorf("request failed: %w", redact(err)))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, false, entity.NewNetworkError(c.name, fmt.Errorf("HTTP %d", resp.StatusCode))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, false, entity.NewNetworkError(c.name, fmt.Errorf("read body: %w", err))
	}
	return body, false, nil
}

func (c *Client) lookup(ctx context.Context, target string) ([]byte, bool) {
	if c.cache == nil {
		return nil, false
	}
	body, ok, err := c.cache.Get(ctx, c.cacheKey(target))
	if err != nil {
		c.logger.Warn("Feed cache lookup failed", "error", err)
		return nil, false
	}
	c.metrics.CacheResult(c.name, ok)
	return body, ok
}

func (c *Client) store(ctx context.Context, target string, body []byte) {
	if c.cache == nil {
		return
	}
	if err := c.cache.Set(ctx, c.cacheKey(target), body, c.cacheTTL); err != nil {
		c.logger.Warn("Feed cache store failed", "error", err)
	}
}

// cacheKey hashes the URL so access keys never reach the cache store.
func (c *Client) cacheKey(target string) string {
	sum := sha256.Sum256([]byte(target))
	return c.name + ":" + hex.EncodeToString(sum[:])
}

func buildURL(endpoint string, params url.Values) string {
	if len(params) == 0 {
		return endpoint
	}
	sep := "?"
	if strings.Contains(endpoint, "?") {
		sep = "&"
	}
	return endpoint + sep + params.Encode()
}

// redact strips the query string from URL errors so credentials passed as
// query parameters do not end up in logs.
func redact(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		if i := strings.IndexByte(urlErr.URL, '?'); i >= 0 {
			return &url.Error{Op: urlErr.Op, URL: urlErr.URL[:i], Err: urlErr.Err}
		}
	}
	return err
}
