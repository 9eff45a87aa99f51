package query

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Query-string keys used to carry a FilterState.
const (
	ParamSort      = "sort"
	ParamMediaType = "filter"
	ParamGenre     = "genre"
	ParamMinRating = "minRating"
	ParamSearch    = "q"
)

var validSorts = map[SortOption]bool{
	SortRecent: true, SortTitleAsc: true, SortTitleDesc: true, SortRatingDesc: true, SortReleaseDate: true,
}

var validMediaFilters = map[MediaFilter]bool{
	MediaAll: true, MediaMovie: true, MediaSeries: true,
}

// FilterError reports an invalid FilterState value.
type FilterError struct {
	Field string
	Value string
}

func (e *FilterError) Error() string {
	return fmt.Sprintf("invalid %s: %q", e.Field, e.Value)
}

// Validate checks that every field holds a known value.
// Empty Sort and MediaType are accepted as their defaults.
func (f FilterState) Validate() error {
	if f.Sort != "" && !validSorts[f.Sort] {
		return &FilterError{Field: ParamSort, Value: string(f.Sort)}
	}
	if f.MediaType != "" && !validMediaFilters[f.MediaType] {
		return &FilterError{Field: ParamMediaType, Value: string(f.MediaType)}
	}
	if f.MinRating != nil && (*f.MinRating < 1 || *f.MinRating > 5) {
		return &FilterError{Field: ParamMinRating, Value: strconv.Itoa(*f.MinRating)}
	}
	return nil
}

// ParseFilterState reads a FilterState from query parameters.
// Missing keys take their defaults; unknown values are rejected.
func ParseFilterState(v url.Values) (FilterState, error) {
	f := DefaultFilterState()

	if s := v.Get(ParamSort); s != "" {
		f.Sort = SortOption(s)
	}
	if m := v.Get(ParamMediaType); m != "" {
		f.MediaType = MediaFilter(m)
	}
	if g := v.Get(ParamGenre); g != "" {
		for _, genre := range strings.Split(g, ",") {
			if genre = strings.TrimSpace(genre); genre != "" {
				f.Genres = append(f.Genres, genre)
			}
		}
	}
	if r := v.Get(ParamMinRating); r != "" {
		n, err := strconv.Atoi(r)
		if err != nil {
			return f, &FilterError{Field: ParamMinRating, Value: r}
		}
		f.MinRating = &n
	}
	f.Search = v.Get(ParamSearch)

	if err := f.Validate(); err != nil {
		return f, err
	}
	return f, nil
}

// Values encodes f as query parameters, omitting defaults.
func (f FilterState) Values() url.Values {
	v := url.Values{}
	if f.Sort != "" && f.Sort != SortRecent {
		v.Set(ParamSort, string(f.Sort))
	}
	if f.MediaType != "" && f.MediaType != MediaAll {
		v.Set(ParamMediaType, string(f.MediaType))
	}
	if len(f.Genres) > 0 {
		v.Set(ParamGenre, strings.Join(f.Genres, ","))
	}
	if f.MinRating != nil {
		v.Set(ParamMinRating, strconv.Itoa(*f.MinRating))
	}
	if f.Search != "" {
		v.Set(ParamSearch, f.Search)
	}
	return v
}

// Active reports whether any field differs from its default.
func (f FilterState) Active() bool {
	return len(f.Values()) > 0
}
