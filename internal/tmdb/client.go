package tmdb

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/goccy/go-json"
	"github.com/sony/gobreaker/v2"
	"golang.org/x/sync/singleflight"

	"github.com/vversio/cinegrid/internal/ratelimit"
)

const defaultBaseURL = "https://api.themoviedb.org"

// Client is a TMDB API client. Every request that reaches the network is
// admitted by the limiter first; cached responses are free.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	limiter    *ratelimit.Limiter
	cache      *cache
	group      singleflight.Group
	breaker    *gobreaker.CircuitBreaker[[]byte]
	newBackOff func() backoff.BackOff

	// fetchTimeout bounds a shared fetch, retries included.
	fetchTimeout time.Duration
	logger       *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(url string) Option {
	return func(c *Client) {
		c.baseURL = url
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithLimiter sets the limiter shared by all requests.
func WithLimiter(l *ratelimit.Limiter) Option {
	return func(c *Client) {
		c.limiter = l
	}
}

// WithCacheTTL sets how long search results and details are cached.
func WithCacheTTL(search, details time.Duration) Option {
	return func(c *Client) {
		c.cache = newCache(search, details)
	}
}

// WithBackOff sets the retry policy for transient failures.
func WithBackOff(f func() backoff.BackOff) Option {
	return func(c *Client) {
		c.newBackOff = f
	}
}

// WithFetchTimeout bounds how long a single upstream fetch may take,
// retries included.
func WithFetchTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.fetchTimeout = d
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

func defaultBackOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 250 * time.Millisecond
	b.MaxElapsedTime = 5 * time.Second
	return backoff.WithMaxRetries(b, 2)
}

// NewClient creates a new TMDB client.
func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		cache:        newCache(defaultSearchTTL, defaultDetailsTTL),
		newBackOff:   defaultBackOff,
		fetchTimeout: 30 * time.Second,
		logger:       slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.limiter == nil {
		c.limiter = ratelimit.New(ratelimit.DefaultLimit, ratelimit.DefaultWindow)
	}
	c.breaker = gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        "tmdb",
		MaxRequests: 1,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		// Only upstream outcomes count; a cancelled request says nothing about TMDB.
		IsSuccessful: func(err error) bool {
			if errors.Is(err, context.Canceled) {
				return true
			}
			var se *StatusError
			if errors.As(err, &se) {
				return !se.temporary()
			}
			return err == nil || errors.Is(err, ErrNotFound)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			c.logger.Warn("circuit breaker state changed", "breaker", name, "from", from.String(), "to", to.String())
		},
	})
	return c
}

// Status reports the limiter state, for X-RateLimit-Remaining.
func (c *Client) Status() ratelimit.Status {
	return c.limiter.Status()
}

// PruneCache drops expired cache entries and returns how many were removed.
func (c *Client) PruneCache() int {
	return c.cache.prune()
}

// Search queries the movie or tv catalog. Adult titles are excluded.
func (c *Client) Search(ctx context.Context, query string, mt MediaType) (*SearchResponse, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("include_adult", "false")
	path := "/3/search/" + mt.path()

	v, err := c.cached(ctx, "search:"+mt.path()+":"+query, c.cache.searchTTL, func(body []byte) (any, error) {
		var raw rawSearchResponse
		if err := json.Unmarshal(body, &raw); err != nil {
			return nil, fmt.Errorf("decode response: %w", err)
		}
		return raw.normalize(), nil
	}, path, params)
	if err != nil {
		return nil, err
	}
	return v.(*SearchResponse), nil
}

// Details fetches condensed metadata for a movie or series.
func (c *Client) Details(ctx context.Context, id int64, mt MediaType) (*Details, error) {
	path := fmt.Sprintf("/3/%s/%d", mt.path(), id)

	v, err := c.cached(ctx, "details:"+mt.path()+":"+strconv.FormatInt(id, 10), c.cache.detailsTTL, func(body []byte) (any, error) {
		var raw rawDetails
		if err := json.Unmarshal(body, &raw); err != nil {
			return nil, fmt.Errorf("decode response: %w", err)
		}
		return raw.condense(), nil
	}, path, nil)
	if err != nil {
		return nil, err
	}
	return v.(*Details), nil
}

// cached serves key from the cache, or fetches and decodes it once no matter
// how many callers ask concurrently. The shared fetch is detached from any one
// caller's context; each caller stops waiting when its own context ends.
func (c *Client) cached(ctx context.Context, key string, ttl time.Duration, decode func([]byte) (any, error), path string, params url.Values) (any, error) {
	if v, ok := c.cache.get(key); ok {
		return v, nil
	}

	ch := c.group.DoChan(key, func() (any, error) {
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.fetchTimeout)
		defer cancel()

		body, err := c.fetch(fetchCtx, path, params)
		if err != nil {
			return nil, err
		}
		v, err := decode(body)
		if err != nil {
			return nil, err
		}
		c.cache.set(key, v, ttl)
		return v, nil
	})

	select {
	case res := <-ch:
		if res.Shared {
			c.logger.Debug("shared in-flight request", "key", key)
		}
		return res.Val, res.Err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// fetch issues a GET, retrying transient failures.
func (c *Client) fetch(ctx context.Context, path string, params url.Values) ([]byte, error) {
	var body []byte
	op := func() error {
		if !c.limiter.TryAcquire() {
			return backoff.Permanent(&RateLimitError{RetryAfter: c.limiter.WaitTime()})
		}

		b, err := c.breaker.Execute(func() ([]byte, error) {
			return c.do(ctx, path, params)
		})
		switch {
		case err == nil:
			body = b
			return nil
		case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
			return backoff.Permanent(fmt.Errorf("%w: %v", ErrUnavailable, err))
		case errors.Is(err, ErrNotFound), ctx.Err() != nil:
			return backoff.Permanent(err)
		}

		var se *StatusError
		if errors.As(err, &se) && !se.temporary() {
			return backoff.Permanent(err)
		}
		return err
	}

	notify := func(err error, wait time.Duration) {
		c.logger.Warn("tmdb request failed, retrying", "path", path, "error", err, "wait", wait)
	}
	if err := backoff.RetryNotify(op, backoff.WithContext(c.newBackOff(), ctx), notify); err != nil {
		return nil, err
	}
	return body, nil
}

func (c *Client) do(ctx context.Context, path string, params url.Values) ([]byte, error) {
	q := url.Values{}
	for k, vs := range params {
		q[k] = vs
	}
	q.Set("api_key", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{StatusCode: resp.StatusCode, Status: resp.Status}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	return body, nil
}
