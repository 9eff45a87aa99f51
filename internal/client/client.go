// Package client is the HTTP client for the cinegrid API.
package client

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/goccy/go-json"

	"github.com/vversio/cinegrid/internal/query"
	"github.com/vversio/cinegrid/internal/tmdb"
)

// APIError is a non-2xx response from the server.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
	RetryAfter time.Duration // set on 429
}

func (e *APIError) Error() string {
	return fmt.Sprintf("server error %d: %s", e.StatusCode, e.Message)
}

// IsRateLimited reports whether err is a 429 from the TMDB proxy.
func IsRateLimited(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusTooManyRequests
}

// IsNotFound reports whether err is a 404.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// Client wraps HTTP calls to the cinegrid server.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// New creates a new cinegrid API client. apiKey is only needed for changes.
func New(serverURL, apiKey string) *Client {
	return &Client{
		baseURL: serverURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (c *Client) do(ctx context.Context, method, path string, body, result any) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal error: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("request creation failed: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("X-Api-Key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}

	if result != nil && resp.StatusCode != http.StatusNoContent {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

func decodeError(resp *http.Response) error {
	body, _ := io.ReadAll(resp.Body)
	apiErr := &APIError{StatusCode: resp.StatusCode, Message: string(body)}

	var payload struct {
		Error      string `json:"error"`
		Code       string `json:"code"`
		RetryAfter int64  `json:"retry_after"`
	}
	if json.Unmarshal(body, &payload) == nil && payload.Error != "" {
		apiErr.Message = payload.Error
		apiErr.Code = payload.Code
		apiErr.RetryAfter = time.Duration(payload.RetryAfter) * time.Millisecond
	}
	if apiErr.RetryAfter == 0 {
		if secs, err := strconv.Atoi(resp.Header.Get("Retry-After")); err == nil {
			apiErr.RetryAfter = time.Duration(secs) * time.Second
		}
	}
	return apiErr
}

func (c *Client) get(ctx context.Context, path string, result any) error {
	return c.do(ctx, http.MethodGet, path, nil, result)
}

// Status returns server status.
func (c *Client) Status(ctx context.Context) (*StatusResponse, error) {
	var resp StatusResponse
	if err := c.get(ctx, "/api/v1/status", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// List returns the items matching f, filtered and sorted by the server.
func (c *Client) List(ctx context.Context, f query.FilterState) (*ListItemsResponse, error) {
	path := "/api/v1/items"
	if v := f.Values(); len(v) > 0 {
		path += "?" + v.Encode()
	}
	var resp ListItemsResponse
	if err := c.get(ctx, path, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Get returns a single item.
func (c *Client) Get(ctx context.Context, id string) (*Item, error) {
	var it Item
	if err := c.get(ctx, "/api/v1/items/"+url.PathEscape(id), &it); err != nil {
		return nil, err
	}
	return &it, nil
}

// Add logs a watched item.
func (c *Client) Add(ctx context.Context, req *AddItemRequest) (*Item, error) {
	var it Item
	if err := c.do(ctx, http.MethodPost, "/api/v1/items", req, &it); err != nil {
		return nil, err
	}
	return &it, nil
}

// Delete removes an item.
func (c *Client) Delete(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/v1/items/"+url.PathEscape(id), nil, nil)
}

// ToggleFavorite flips the favorite flag and returns the new value.
func (c *Client) ToggleFavorite(ctx context.Context, id string) (bool, error) {
	var resp struct {
		IsFavorite bool `json:"is_favorite"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/v1/items/"+url.PathEscape(id)+"/favorite", nil, &resp); err != nil {
		return false, err
	}
	return resp.IsFavorite, nil
}

// UpdateRating sets, or with nil clears, the rating and returns the updated item.
func (c *Client) UpdateRating(ctx context.Context, id string, rating *int) (*Item, error) {
	body := struct {
		Rating *int `json:"rating"`
	}{rating}
	var it Item
	if err := c.do(ctx, http.MethodPut, "/api/v1/items/"+url.PathEscape(id)+"/rating", body, &it); err != nil {
		return nil, err
	}
	return &it, nil
}

// Favorites returns favorite items, most recently added first.
func (c *Client) Favorites(ctx context.Context) (*ListItemsResponse, error) {
	var resp ListItemsResponse
	if err := c.get(ctx, "/api/v1/favorites", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Genres returns the distinct genres, sorted.
func (c *Client) Genres(ctx context.Context) ([]string, error) {
	var resp struct {
		Genres []string `json:"genres"`
	}
	if err := c.get(ctx, "/api/v1/genres", &resp); err != nil {
		return nil, err
	}
	return resp.Genres, nil
}

// Stats returns the collection summary.
func (c *Client) Stats(ctx context.Context) (*Stats, error) {
	var resp Stats
	if err := c.get(ctx, "/api/v1/stats", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GenreStats returns item counts per genre, highest first.
func (c *Client) GenreStats(ctx context.Context) ([]GenreCount, error) {
	var resp []GenreCount
	if err := c.get(ctx, "/api/v1/stats/genres", &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// Trends returns monthly counts per genre. rng is "all" or "year"; top <= 0
// uses the server default.
func (c *Client) Trends(ctx context.Context, rng string, top int) (*TrendsResponse, error) {
	params := url.Values{}
	if rng != "" {
		params.Set("range", rng)
	}
	if top > 0 {
		params.Set("top", strconv.Itoa(top))
	}
	path := "/api/v1/stats/trends"
	if len(params) > 0 {
		path += "?" + params.Encode()
	}
	var resp TrendsResponse
	if err := c.get(ctx, path, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SearchTMDB searches TMDB through the server's rate-limited proxy.
func (c *Client) SearchTMDB(ctx context.Context, q string, mt tmdb.MediaType) (*tmdb.SearchResponse, error) {
	params := url.Values{}
	params.Set("query", q)
	params.Set("type", string(mt))
	var resp tmdb.SearchResponse
	if err := c.get(ctx, "/api/v1/tmdb/search?"+params.Encode(), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// TMDBDetails fetches condensed TMDB metadata through the proxy.
func (c *Client) TMDBDetails(ctx context.Context, id int64, mt tmdb.MediaType) (*tmdb.Details, error) {
	var resp tmdb.Details
	path := fmt.Sprintf("/api/v1/tmdb/%d?type=%s", id, url.QueryEscape(string(mt)))
	if err := c.get(ctx, path, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
