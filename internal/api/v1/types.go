// internal/api/v1/types.go
package v1

import (
	"time"

	"github.com/vversio/cinegrid/internal/query"
	"github.com/vversio/cinegrid/internal/tmdb"
	"github.com/vversio/cinegrid/internal/watchlog"
)

// itemResponse is the API representation of a watched item.
type itemResponse struct {
	ID             string    `json:"id"`
	TMDBID         int64     `json:"tmdb_id"`
	Title          string    `json:"title"`
	PosterPath     string    `json:"poster_path"`
	PosterURL      string    `json:"poster_url,omitempty"`
	WatchedDate    string    `json:"watched_date"`
	Genre          string    `json:"genre"`
	CustomCategory *string   `json:"custom_category"`
	MediaType      string    `json:"media_type"`
	IsFavorite     bool      `json:"is_favorite"`
	UserRating     *int      `json:"user_rating"`
	CreatedAt      time.Time `json:"created_at"`
}

func itemToResponse(it *watchlog.Item) itemResponse {
	return itemResponse{
		ID:             it.ID,
		TMDBID:         it.TMDBID,
		Title:          it.Title,
		PosterPath:     it.PosterPath,
		PosterURL:      tmdb.ImageURL(it.PosterPath, "w342"),
		WatchedDate:    it.WatchedDate,
		Genre:          it.Genre,
		CustomCategory: it.CustomCategory,
		MediaType:      string(it.MediaType),
		IsFavorite:     it.IsFavorite,
		UserRating:     it.UserRating,
		CreatedAt:      it.CreatedAt,
	}
}

func itemsToResponse(items []*watchlog.Item) []itemResponse {
	out := make([]itemResponse, len(items))
	for i, it := range items {
		out[i] = itemToResponse(it)
	}
	return out
}

// listItemsResponse is the response for GET /items and GET /favorites.
type listItemsResponse struct {
	Items []itemResponse `json:"items"`
	Total int            `json:"total"`
}

// addItemRequest is the body of POST /items.
type addItemRequest struct {
	TMDBID         int64   `json:"tmdb_id"`
	Title          string  `json:"title"`
	PosterPath     string  `json:"poster_path"`
	WatchedDate    string  `json:"watched_date"`
	Genre          string  `json:"genre"`
	CustomCategory *string `json:"custom_category"`
	MediaType      string  `json:"media_type"`
	IsFavorite     bool    `json:"is_favorite"`
	UserRating     *int    `json:"user_rating"`
}

func (r *addItemRequest) toItem() *watchlog.Item {
	return &watchlog.Item{
		TMDBID:         r.TMDBID,
		Title:          r.Title,
		PosterPath:     r.PosterPath,
		WatchedDate:    r.WatchedDate,
		Genre:          r.Genre,
		CustomCategory: r.CustomCategory,
		MediaType:      watchlog.MediaType(r.MediaType),
		IsFavorite:     r.IsFavorite,
		UserRating:     r.UserRating,
	}
}

// ratingRequest is the body of PUT /items/{id}/rating. A null rating clears it.
type ratingRequest struct {
	Rating *int `json:"rating"`
}

type favoriteResponse struct {
	ID         string `json:"id"`
	IsFavorite bool   `json:"is_favorite"`
}

type genresResponse struct {
	Genres []string `json:"genres"`
}

type statsResponse struct {
	TotalMovies   int      `json:"total_movies"`
	TotalSeries   int      `json:"total_series"`
	TotalItems    int      `json:"total_items"`
	AvgRating     *float64 `json:"avg_rating"`
	FavoriteCount int      `json:"favorite_count"`
}

func statsToResponse(st query.Stats) statsResponse {
	return statsResponse{
		TotalMovies:   st.TotalMovies,
		TotalSeries:   st.TotalSeries,
		TotalItems:    st.TotalItems,
		AvgRating:     st.AvgRating,
		FavoriteCount: st.FavoriteCount,
	}
}

type genreCountResponse struct {
	Genre string `json:"genre"`
	Count int    `json:"count"`
}

// trendsResponse carries chart points flattened to {month, monthLabel, <genre>: count}.
type trendsResponse struct {
	Range  string           `json:"range"`
	Genres []string         `json:"genres"`
	Points []map[string]any `json:"points"`
}

func trendPointToMap(p query.TrendPoint) map[string]any {
	m := make(map[string]any, len(p.Counts)+2)
	for genre, n := range p.Counts {
		m[genre] = n
	}
	m["month"] = p.Month
	m["monthLabel"] = p.MonthLabel
	return m
}

type rateLimitResponse struct {
	Remaining int   `json:"remaining"`
	ResetInMs int64 `json:"reset_in_ms"`
}

type statusResponse struct {
	Status    string             `json:"status"`
	Version   string             `json:"version"`
	Items     int                `json:"items"`
	TMDB      bool               `json:"tmdb"`
	RateLimit *rateLimitResponse `json:"rate_limit,omitempty"`
}

// rateLimitedResponse is returned with 429. RetryAfter is in milliseconds.
type rateLimitedResponse struct {
	Error      string `json:"error"`
	Code       string `json:"code"`
	RetryAfter int64  `json:"retry_after"`
}
