// Package query filters, sorts and summarizes the watch log in memory.
//
// Every function is pure: inputs are never modified and results depend only on the
// arguments.
package query

import (
	"slices"
	"strings"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/vversio/cinegrid/internal/watchlog"
)

// SortOption selects the ordering of ApplyFilters results.
type SortOption string

const (
	SortRecent      SortOption = "recent"
	SortTitleAsc    SortOption = "title-asc"
	SortTitleDesc   SortOption = "title-desc"
	SortRatingDesc  SortOption = "rating-desc"
	SortReleaseDate SortOption = "release-date" // orders by watched date, same as SortRecent
)

// MediaFilter restricts results to one media type.
type MediaFilter string

const (
	MediaAll    MediaFilter = "all"
	MediaMovie  MediaFilter = "movie"
	MediaSeries MediaFilter = "series"
)

// Collation pins title ordering so results do not depend on the host locale.
var Collation = language.English

// FilterState is the set of search, filter and sort choices applied to the watch log.
// The zero value is equivalent to DefaultFilterState.
type FilterState struct {
	Sort      SortOption
	MediaType MediaFilter
	Genres    []string // any-of; empty means every genre
	MinRating *int     // inclusive; unrated items are excluded when set
	Search    string
}

// DefaultFilterState returns the state with every filter off, sorted by recency.
func DefaultFilterState() FilterState {
	return FilterState{Sort: SortRecent, MediaType: MediaAll}
}

// ApplyFilters returns the items matching f, sorted by f.Sort.
// Stages run in order: search, media type, genre, minimum rating, sort.
func ApplyFilters(items []*watchlog.Item, f FilterState) []*watchlog.Item {
	result := make([]*watchlog.Item, 0, len(items))

	search := strings.ToLower(f.Search)
	for _, it := range items {
		if search != "" && !matchesSearch(it, search) {
			continue
		}
		if f.MediaType != "" && f.MediaType != MediaAll && string(it.MediaType) != string(f.MediaType) {
			continue
		}
		if len(f.Genres) > 0 && !slices.Contains(f.Genres, it.Genre) {
			continue
		}
		if f.MinRating != nil && (it.UserRating == nil || *it.UserRating < *f.MinRating) {
			continue
		}
		result = append(result, it)
	}

	sortItems(result, f.Sort)
	return result
}

func matchesSearch(it *watchlog.Item, query string) bool {
	if strings.Contains(strings.ToLower(it.Title), query) ||
		strings.Contains(strings.ToLower(it.Genre), query) {
		return true
	}
	return it.CustomCategory != nil && strings.Contains(strings.ToLower(*it.CustomCategory), query)
}

func sortItems(items []*watchlog.Item, opt SortOption) {
	switch opt {
	case SortTitleAsc, SortTitleDesc:
		col := collate.New(Collation)
		desc := opt == SortTitleDesc
		slices.SortStableFunc(items, func(a, b *watchlog.Item) int {
			if desc {
				return col.CompareString(b.Title, a.Title)
			}
			return col.CompareString(a.Title, b.Title)
		})
	case SortRatingDesc:
		slices.SortStableFunc(items, func(a, b *watchlog.Item) int {
			switch {
			case a.UserRating == nil && b.UserRating == nil:
				return 0
			case a.UserRating == nil:
				return 1
			case b.UserRating == nil:
				return -1
			}
			return *b.UserRating - *a.UserRating
		})
	default:
		sortByWatchedDesc(items)
	}
}

// sortByWatchedDesc orders most recently watched first.
// Malformed dates sort as the earliest possible date.
func sortByWatchedDesc(items []*watchlog.Item) {
	type keyed struct {
		item *watchlog.Item
		at   time.Time
	}
	keys := make([]keyed, len(items))
	for i, it := range items {
		at, _ := it.Watched()
		keys[i] = keyed{item: it, at: at}
	}
	slices.SortStableFunc(keys, func(a, b keyed) int {
		return b.at.Compare(a.at)
	})
	for i := range keys {
		items[i] = keys[i].item
	}
}

// UniqueGenres returns the distinct genres in items, sorted ascending.
func UniqueGenres(items []*watchlog.Item) []string {
	seen := make(map[string]struct{})
	genres := []string{}
	for _, it := range items {
		if _, ok := seen[it.Genre]; ok {
			continue
		}
		seen[it.Genre] = struct{}{}
		genres = append(genres, it.Genre)
	}
	slices.Sort(genres)
	return genres
}
