// Package metapi is an artwork source backed by the Metropolitan Museum of
// Art collection API.
package metapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/vovakirdan/guess-the-met/internal/artwork"
)

// DefaultBaseURL is the public collection API endpoint.
const DefaultBaseURL = "https://collectionapi.metmuseum.org/public/collection/v1"

// Responses above this size are truncated and fail to parse.
const maxBodyBytes = 8 << 20

// searchCacheSize bounds how many filters keep their search results.
const searchCacheSize = 128

// Client talks to the collection API. It implements artwork.Source.
type Client struct {
	baseURL       string
	http          *http.Client
	userAgent     string
	logger        *log.Logger
	imageAttempts int
	yearMin       int
	yearMax       int
	cacheTTL      time.Duration

	rngMu sync.Mutex
	rng   *rand.Rand

	cache *expirable.LRU[string, []int64] // nil when caching is off
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the HTTP client used for requests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithLogger sets the client logger. The default discards output.
func WithLogger(l *log.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// WithImageAttempts bounds how many random objects FetchRandomArtwork
// inspects before giving up on finding one with an image.
func WithImageAttempts(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.imageAttempts = n
		}
	}
}

// WithYearLimits sets the years used to complete a one-sided year filter.
func WithYearLimits(lo, hi int) Option {
	return func(c *Client) {
		if lo < hi {
			c.yearMin, c.yearMax = lo, hi
		}
	}
}

// WithCacheTTL sets how long search results are reused. Zero disables caching.
func WithCacheTTL(ttl time.Duration) Option {
	return func(c *Client) { c.cacheTTL = ttl }
}

// WithSeed seeds the random object picker.
func WithSeed(seed int64) Option {
	return func(c *Client) { c.rng = rand.New(rand.NewSource(seed)) }
}

// New creates a client for the API at baseURL (DefaultBaseURL when empty).
func New(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL:       strings.TrimRight(baseURL, "/"),
		http:          &http.Client{Timeout: 15 * time.Second},
		userAgent:     "guessmet/1.0",
		logger:        log.New(io.Discard),
		imageAttempts: 5,
		yearMin:       -3000,
		yearMax:       2023,
		cacheTTL:      10 * time.Minute,
		rng:           rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.cacheTTL > 0 {
		c.cache = expirable.NewLRU[string, []int64](searchCacheSize, nil, c.cacheTTL)
	}
	return c
}

// FetchRandomArtwork searches for objects matching f and returns a random
// one that has an image. Objects without an image, or that disappeared since
// the search, are skipped up to the image attempt limit.
func (c *Client) FetchRandomArtwork(ctx context.Context, f artwork.Filter) (artwork.Artwork, error) {
	ids, err := c.Search(ctx, f)
	if err != nil {
		return artwork.Artwork{}, err
	}

	for i := 0; i < c.imageAttempts; i++ {
		id := ids[c.intn(len(ids))]
		a, err := c.Object(ctx, id)
		switch {
		case err == nil && a.HasImage():
			return a, nil
		case err == nil:
			c.logger.Debug("object has no image", "id", id)
		case errors.Is(err, artwork.ErrNotFound):
			c.logger.Debug("object not found", "id", id)
		default:
			return artwork.Artwork{}, err
		}
	}
	return artwork.Artwork{}, fmt.Errorf("metapi: %d objects tried: %w", c.imageAttempts, artwork.ErrMissingImage)
}

// ListCategories returns the department names in API order.
func (c *Client) ListCategories(ctx context.Context) ([]string, error) {
	depts, err := c.Departments(ctx)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(depts))
	for _, d := range depts {
		names = append(names, d.DisplayName)
	}
	return names, nil
}

func (c *Client) intn(n int) int {
	c.rngMu.Lock()
	defer c.rngMu.Unlock()
	return c.rng.Intn(n)
}

// get performs a GET request and classifies failures.
func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("metapi: build request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("metapi: GET %s: %w", path, ctxErr)
		}
		return nil, fmt.Errorf("metapi: GET %s: %w: %w", path, artwork.ErrTransient, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("metapi: read %s: %w: %w", path, artwork.ErrTransient, err)
	}
	c.logger.Debug("request", "path", path, "status", resp.StatusCode, "took", time.Since(start))

	if err := statusError(resp.StatusCode); err != nil {
		return nil, fmt.Errorf("metapi: GET %s: %w", path, err)
	}
	return body, nil
}

// statusError maps an HTTP status to the artwork error taxonomy.
func statusError(code int) error {
	switch {
	case code >= 200 && code < 300:
		return nil
	case code == http.StatusNotFound:
		return fmt.Errorf("status %d: %w", code, artwork.ErrNotFound)
	case code == http.StatusForbidden, code == http.StatusTooManyRequests, code >= 500:
		return fmt.Errorf("status %d: %w", code, artwork.ErrTransient)
	default:
		return fmt.Errorf("unexpected status %d", code)
	}
}
