package query

import (
	"math"
	"slices"
	"time"

	"github.com/vversio/cinegrid/internal/watchlog"
)

// DefaultTopGenres is how many genres the trend chart shows by default.
const DefaultTopGenres = 7

// TrendPoint is the watch count per genre for one calendar month.
type TrendPoint struct {
	Month      string         // "2025-01"
	MonthLabel string         // "Jan 2025"
	Counts     map[string]int // every genre in the series, zero when unwatched that month
}

// GenreCount pairs a genre with its number of items.
type GenreCount struct {
	Genre string
	Count int
}

// Stats is the quick summary shown next to the collection.
type Stats struct {
	TotalMovies   int
	TotalSeries   int
	TotalItems    int
	AvgRating     *float64 // mean of rated items to one decimal; nil when nothing is rated
	FavoriteCount int
}

// AggregateByGenreAndMonth counts items per genre per month, ascending by month.
// When start is non-nil, items watched before it are ignored. Months without items
// are not emitted. Items with a malformed watched date cannot be placed and are skipped.
func AggregateByGenreAndMonth(items []*watchlog.Item, start *time.Time) []TrendPoint {
	months := make(map[string]map[string]int)
	genres := make(map[string]struct{})

	for _, it := range items {
		at, ok := it.Watched()
		if !ok {
			continue
		}
		if start != nil && at.Before(*start) {
			continue
		}
		key := at.Format("2006-01")
		counts, ok := months[key]
		if !ok {
			counts = make(map[string]int)
			months[key] = counts
		}
		counts[it.Genre]++
		genres[it.Genre] = struct{}{}
	}

	keys := make([]string, 0, len(months))
	for k := range months {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	points := make([]TrendPoint, 0, len(keys))
	for _, k := range keys {
		counts := make(map[string]int, len(genres))
		for g := range genres {
			counts[g] = months[k][g]
		}
		points = append(points, TrendPoint{
			Month:      k,
			MonthLabel: monthLabel(k),
			Counts:     counts,
		})
	}
	return points
}

// monthLabel renders a "2006-01" key as "Jan 2006".
func monthLabel(key string) string {
	t, err := time.Parse("2006-01", key)
	if err != nil {
		return key
	}
	return t.Format("Jan 2006")
}

// GenreStats returns every genre with its item count, highest first.
// Ties keep the order in which genres first appear in items.
func GenreStats(items []*watchlog.Item) []GenreCount {
	index := make(map[string]int)
	var stats []GenreCount
	for _, it := range items {
		i, ok := index[it.Genre]
		if !ok {
			i = len(stats)
			index[it.Genre] = i
			stats = append(stats, GenreCount{Genre: it.Genre})
		}
		stats[i].Count++
	}
	slices.SortStableFunc(stats, func(a, b GenreCount) int {
		return b.Count - a.Count
	})
	return stats
}

// TopGenres returns at most limit genres ordered by item count, highest first.
func TopGenres(items []*watchlog.Item, limit int) []string {
	if limit <= 0 {
		return []string{}
	}
	stats := GenreStats(items)
	if len(stats) > limit {
		stats = stats[:limit]
	}
	genres := make([]string, len(stats))
	for i, s := range stats {
		genres[i] = s.Genre
	}
	return genres
}

// QuickStats summarizes items in a single pass.
func QuickStats(items []*watchlog.Item) Stats {
	var (
		st     Stats
		sum    int
		nRated int
	)
	for _, it := range items {
		switch it.MediaType {
		case watchlog.MediaTypeMovie:
			st.TotalMovies++
		case watchlog.MediaTypeSeries:
			st.TotalSeries++
		}
		if it.UserRating != nil {
			sum += *it.UserRating
			nRated++
		}
		if it.IsFavorite {
			st.FavoriteCount++
		}
	}
	st.TotalItems = len(items)
	if nRated > 0 {
		avg := math.Round(float64(sum)/float64(nRated)*10) / 10
		st.AvgRating = &avg
	}
	return st
}

// ThisYearStart returns midnight on January 1st of now's year, in now's location.
func ThisYearStart(now time.Time) time.Time {
	return time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location())
}
