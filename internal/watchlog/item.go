// Package watchlog stores the titles the admin has watched.
package watchlog

import (
	"time"
)

// MediaType distinguishes movies from series.
type MediaType string

const (
	MediaTypeMovie  MediaType = "movie"
	MediaTypeSeries MediaType = "series"
)

// DateLayout is the format of WatchedDate.
const DateLayout = "2006-01-02"

// Item is a single watched movie or series.
type Item struct {
	ID             string
	TMDBID         int64     `validate:"gte=0"`
	Title          string    `validate:"required"`
	PosterPath     string
	WatchedDate    string    `validate:"required,datetime=2006-01-02"`
	Genre          string    `validate:"required"`
	CustomCategory *string   // nil if not set
	MediaType      MediaType `validate:"required,oneof=movie series"`
	IsFavorite     bool
	UserRating     *int `validate:"omitempty,min=1,max=5"` // nil if unrated
	CreatedAt      time.Time
}

// Watched parses WatchedDate. ok is false for a malformed date.
func (it *Item) Watched() (t time.Time, ok bool) {
	t, err := time.Parse(DateLayout, it.WatchedDate)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// Clone returns a copy that shares no pointers with it.
func (it Item) Clone() Item {
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
