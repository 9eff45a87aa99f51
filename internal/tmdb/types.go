// Package tmdb provides a rate-limited client for The Movie Database API.
package tmdb

import (
	"strconv"
	"strings"
)

// MediaType selects the TMDB catalog to query.
type MediaType string

const (
	Movie  MediaType = "movie"
	Series MediaType = "series"
)

// ParseMediaType maps "", "movie", "series" and "tv" to a MediaType.
func ParseMediaType(s string) (MediaType, bool) {
	switch strings.ToLower(s) {
	case "", "movie":
		return Movie, true
	case "series", "tv":
		return Series, true
	}
	return "", false
}

// path returns the TMDB path segment for the catalog.
func (m MediaType) path() string {
	if m == Series {
		return "tv"
	}
	return "movie"
}

// SearchResult is a single search hit. Series hits are normalized to movie field names.
type SearchResult struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	PosterPath  string `json:"poster_path"`
	ReleaseDate string `json:"release_date"` // "2024-03-01", may be empty
	Overview    string `json:"overview"`
	GenreIDs    []int  `json:"genre_ids"`
}

// Year extracts the year from ReleaseDate, 0 if unknown.
func (r *SearchResult) Year() int {
	return yearOf(r.ReleaseDate)
}

// PrimaryGenre returns the name of the first genre, or "" if none is known.
func (r *SearchResult) PrimaryGenre() string {
	if len(r.GenreIDs) == 0 {
		return ""
	}
	return GenreName(r.GenreIDs[0])
}

// SearchResponse is a page of search results.
type SearchResponse struct {
	Page         int            `json:"page"`
	Results      []SearchResult `json:"results"`
	TotalPages   int            `json:"total_pages"`
	TotalResults int            `json:"total_results"`
}

// rawSearchResult carries both the movie and tv field names.
type rawSearchResult struct {
	SearchResult
	Name         string `json:"name"`
	FirstAirDate string `json:"first_air_date"`
}

type rawSearchResponse struct {
	Page         int               `json:"page"`
	Results      []rawSearchResult `json:"results"`
	TotalPages   int               `json:"total_pages"`
	TotalResults int               `json:"total_results"`
}

func (r *rawSearchResponse) normalize() *SearchResponse {
	resp := &SearchResponse{
		Page:         r.Page,
		Results:      make([]SearchResult, len(r.Results)),
		TotalPages:   r.TotalPages,
		TotalResults: r.TotalResults,
	}
	for i, raw := range r.Results {
		res := raw.SearchResult
		if res.Title == "" {
			res.Title = raw.Name
		}
		if res.ReleaseDate == "" {
			res.ReleaseDate = raw.FirstAirDate
		}
		resp.Results[i] = res
	}
	return resp
}

// Details is the condensed metadata shown for a single title.
type Details struct {
	ID           int64    `json:"id"`
	Title        string   `json:"title"`
	Overview     string   `json:"overview"`
	PosterPath   string   `json:"poster_path"`
	BackdropPath string   `json:"backdrop_path"`
	ReleaseDate  string   `json:"release_date"`
	VoteAverage  float64  `json:"vote_average"`
	Runtime      *int     `json:"runtime"` // minutes; nil if unknown
	Genres       []string `json:"genres"`
	Tagline      *string  `json:"tagline"`
}

// Year extracts the year from ReleaseDate, 0 if unknown.
func (d *Details) Year() int {
	return yearOf(d.ReleaseDate)
}

const noOverview = "No overview available."

type genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// rawDetails is the union of the movie and tv detail payloads.
type rawDetails struct {
	ID             int64   `json:"id"`
	Title          string  `json:"title"`
	Name           string  `json:"name"`
	Overview       string  `json:"overview"`
	PosterPath     string  `json:"poster_path"`
	BackdropPath   string  `json:"backdrop_path"`
	ReleaseDate    string  `json:"release_date"`
	FirstAirDate   string  `json:"first_air_date"`
	VoteAverage    float64 `json:"vote_average"`
	Runtime        int     `json:"runtime"`
	EpisodeRunTime []int   `json:"episode_run_time"`
	Genres         []genre `json:"genres"`
	Tagline        string  `json:"tagline"`
}

func (r *rawDetails) condense() *Details {
	d := &Details{
		ID:           r.ID,
		Title:        r.Title,
		Overview:     r.Overview,
		PosterPath:   r.PosterPath,
		BackdropPath: r.BackdropPath,
		ReleaseDate:  r.ReleaseDate,
		VoteAverage:  r.VoteAverage,
		Genres:       make([]string, 0, len(r.Genres)),
	}
	if d.Title == "" {
		d.Title = r.Name
	}
	if d.Overview == "" {
		d.Overview = noOverview
	}
	if d.ReleaseDate == "" {
		d.ReleaseDate = r.FirstAirDate
	}
	switch {
	case r.Runtime > 0:
		runtime := r.Runtime
		d.Runtime = &runtime
	case len(r.EpisodeRunTime) > 0:
		runtime := r.EpisodeRunTime[0]
		d.Runtime = &runtime
	}
	for _, g := range r.Genres {
		d.Genres = append(d.Genres, g.Name)
	}
	if r.Tagline != "" {
		tagline := r.Tagline
		d.Tagline = &tagline
	}
	return d
}

func yearOf(date string) int {
	if len(date) < 4 {
		return 0
	}
	year, err := strconv.Atoi(date[:4])
	if err != nil {
		return 0
	}
	return year
}

const imageBaseURL = "https://image.tmdb.org/t/p"

// ImageURL returns the CDN URL of an image path.
// Size can be: w92, w154, w185, w342, w500, w780, original
func ImageURL(path, size string) string {
	if path == "" {
		return ""
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return imageBaseURL + "/" + size + path
}
