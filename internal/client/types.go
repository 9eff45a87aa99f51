package client

import (
	"time"

	"github.com/vversio/cinegrid/internal/watchlog"
)

// API response types (mirror server types)

// Item is a watched movie or series as returned by the server.
type Item struct {
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

// Watchlog converts the item for use with the query engine.
func (it *Item) Watchlog() *watchlog.Item {
	return &watchlog.Item{
		ID:             it.ID,
		TMDBID:         it.TMDBID,
		Title:          it.Title,
		PosterPath:     it.PosterPath,
		WatchedDate:    it.WatchedDate,
		Genre:          it.Genre,
		CustomCategory: it.CustomCategory,
		MediaType:      watchlog.MediaType(it.MediaType),
		IsFavorite:     it.IsFavorite,
		UserRating:     it.UserRating,
		CreatedAt:      it.CreatedAt,
	}
}

func (it Item) clone() Item {
	if it.CustomCategory != nil {
		c := *it.CustomCategory
		it.CustomCategory = &c
	}
	if it.UserRating != nil {
		r := *it.UserRating
		it.UserRating = &r
	}
	return it
}

type ListItemsResponse struct {
	Items []Item `json:"items"`
	Total int    `json:"total"`
}

// AddItemRequest is the body of POST /api/v1/items.
type AddItemRequest struct {
	TMDBID         int64   `json:"tmdb_id"`
	Title          string  `json:"title"`
	PosterPath     string  `json:"poster_path,omitempty"`
	WatchedDate    string  `json:"watched_date"`
	Genre          string  `json:"genre"`
	CustomCategory *string `json:"custom_category,omitempty"`
	MediaType      string  `json:"media_type"`
	IsFavorite     bool    `json:"is_favorite"`
	UserRating     *int    `json:"user_rating,omitempty"`
}

type Stats struct {
	TotalMovies   int      `json:"total_movies"`
	TotalSeries   int      `json:"total_series"`
	TotalItems    int      `json:"total_items"`
	AvgRating     *float64 `json:"avg_rating"`
	FavoriteCount int      `json:"favorite_count"`
}

type GenreCount struct {
	Genre string `json:"genre"`
	Count int    `json:"count"`
}

// TrendsResponse carries one point per month. Each point holds "month",
// "monthLabel" and a count per genre.
type TrendsResponse struct {
	Range  string           `json:"range"`
	Genres []string         `json:"genres"`
	Points []map[string]any `json:"points"`
}

type RateLimitStatus struct {
	Remaining int   `json:"remaining"`
	ResetInMs int64 `json:"reset_in_ms"`
}

type StatusResponse struct {
	Status    string           `json:"status"`
	Version   string           `json:"version"`
	Items     int              `json:"items"`
	TMDB      bool             `json:"tmdb"`
	RateLimit *RateLimitStatus `json:"rate_limit,omitempty"`
}
