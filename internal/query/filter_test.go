package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vversio/cinegrid/internal/watchlog"
)

func ptr[T any](v T) *T {
	return &v
}

func item(id, title, genre string, mt watchlog.MediaType, date string, rating *int) *watchlog.Item {
	return &watchlog.Item{
		ID:          id,
		Title:       title,
		Genre:       genre,
		MediaType:   mt,
		WatchedDate: date,
		UserRating:  rating,
	}
}

func ids(items []*watchlog.Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.ID
	}
	return out
}

// scenario is the three-item collection used across the end-to-end checks.
func scenario() []*watchlog.Item {
	return []*watchlog.Item{
		item("A", "A", "Drama", watchlog.MediaTypeMovie, "2024-01-10", ptr(4)),
		item("B", "B", "Horror", watchlog.MediaTypeSeries, "2024-02-05", nil),
		item("C", "C", "Drama", watchlog.MediaTypeMovie, "2024-02-20", ptr(5)),
	}
}

func TestApplyFilters_Scenario(t *testing.T) {
	items := scenario()

	got := ApplyFilters(items, DefaultFilterState())
	assert.Equal(t, []string{"C", "B", "A"}, ids(got))

	f := DefaultFilterState()
	f.MediaType = MediaMovie
	got = ApplyFilters(items, f)
	assert.Equal(t, []string{"C", "A"}, ids(got))

	assert.Equal(t, []string{"Drama", "Horror"}, UniqueGenres(items))
	assert.Equal(t, []string{"Drama"}, TopGenres(items, 1))
}

func TestApplyFilters_DoesNotMutateInput(t *testing.T) {
	items := scenario()

	_ = ApplyFilters(items, FilterState{Sort: SortTitleDesc})

	assert.Equal(t, []string{"A", "B", "C"}, ids(items))
}

func TestApplyFilters_Empty(t *testing.T) {
	got := ApplyFilters(nil, DefaultFilterState())
	assert.Empty(t, got)
	assert.NotNil(t, got)
}

func TestApplyFilters_Search(t *testing.T) {
	items := []*watchlog.Item{
		item("1", "The Matrix", "Science Fiction", watchlog.MediaTypeMovie, "2024-01-01", nil),
		item("2", "Heat", "Crime", watchlog.MediaTypeMovie, "2024-01-02", nil),
		item("3", "Dark", "Mystery", watchlog.MediaTypeSeries, "2024-01-03", nil),
	}
	items[1].CustomCategory = ptr("Mann Marathon")

	tests := []struct {
		search string
		want   []string
	}{
		{"matrix", []string{"1"}},
		{"CRIME", []string{"2"}},
		{"marathon", []string{"2"}},
		{"fiction", []string{"1"}},
		{"a", []string{"3", "2", "1"}},
		{"zzz", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.search, func(t *testing.T) {
			got := ApplyFilters(items, FilterState{Search: tt.search})
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func TestApplyFilters_MediaTypeAndMinRating(t *testing.T) {
	items := []*watchlog.Item{
		item("m1", "Alien", "Horror", watchlog.MediaTypeMovie, "2024-05-01", ptr(5)),
		item("s1", "Dark", "Mystery", watchlog.MediaTypeSeries, "2024-04-01", ptr(4)),
		item("m2", "Cats", "Musical", watchlog.MediaTypeMovie, "2024-03-01", ptr(1)),
		item("m3", "Heat", "Crime", watchlog.MediaTypeMovie, "2024-02-01", ptr(3)),
		item("m4", "Jaws", "Horror", watchlog.MediaTypeMovie, "2024-01-01", nil),
	}

	got := ApplyFilters(items, FilterState{MediaType: MediaMovie, MinRating: ptr(3)})
	assert.Equal(t, []string{"m1", "m3"}, ids(got))
}

func TestApplyFilters_MinRatingExcludesUnrated(t *testing.T) {
	items := scenario()

	got := ApplyFilters(items, FilterState{MinRating: ptr(1)})
	assert.Equal(t, []string{"C", "A"}, ids(got))
}

func TestApplyFilters_Genres(t *testing.T) {
	items := scenario()

	got := ApplyFilters(items, FilterState{Genres: []string{"Horror"}})
	assert.Equal(t, []string{"B"}, ids(got))

	got = ApplyFilters(items, FilterState{Genres: []string{"Horror", "Drama"}})
	assert.Equal(t, []string{"C", "B", "A"}, ids(got))

	got = ApplyFilters(items, FilterState{Genres: []string{"Western"}})
	assert.Empty(t, got)
}

func TestApplyFilters_RecentIsStable(t *testing.T) {
	items := []*watchlog.Item{
		item("first", "X", "Drama", watchlog.MediaTypeMovie, "2024-06-01", nil),
		item("older", "Y", "Drama", watchlog.MediaTypeMovie, "2024-01-01", nil),
		item("second", "Z", "Drama", watchlog.MediaTypeMovie, "2024-06-01", nil),
	}

	for _, opt := range []SortOption{SortRecent, SortReleaseDate} {
		got := ApplyFilters(items, FilterState{Sort: opt})
		assert.Equal(t, []string{"first", "second", "older"}, ids(got), string(opt))
	}
}

func TestApplyFilters_MalformedDateSortsLast(t *testing.T) {
	items := []*watchlog.Item{
		item("bad", "X", "Drama", watchlog.MediaTypeMovie, "sometime", nil),
		item("old", "Y", "Drama", watchlog.MediaTypeMovie, "1999-01-01", nil),
		item("new", "Z", "Drama", watchlog.MediaTypeMovie, "2024-01-01", nil),
	}

	got := ApplyFilters(items, DefaultFilterState())
	assert.Equal(t, []string{"new", "old", "bad"}, ids(got))
}

func TestApplyFilters_RatingDescNullsLast(t *testing.T) {
	items := []*watchlog.Item{
		item("u1", "P", "Drama", watchlog.MediaTypeMovie, "2024-01-01", nil),
		item("r2", "Q", "Drama", watchlog.MediaTypeMovie, "2024-01-02", ptr(2)),
		item("r5", "R", "Drama", watchlog.MediaTypeMovie, "2024-01-03", ptr(5)),
		item("u2", "S", "Drama", watchlog.MediaTypeMovie, "2024-01-04", nil),
	}

	got := ApplyFilters(items, FilterState{Sort: SortRatingDesc})
	assert.Equal(t, []string{"r5", "r2", "u1", "u2"}, ids(got))
}

func TestApplyFilters_TitleSort(t *testing.T) {
	items := []*watchlog.Item{
		item("1", "amélie", "Romance", watchlog.MediaTypeMovie, "2024-01-01", nil),
		item("2", "Zodiac", "Crime", watchlog.MediaTypeMovie, "2024-01-02", nil),
		item("3", "Alien", "Horror", watchlog.MediaTypeMovie, "2024-01-03", nil),
		item("4", "brazil", "Comedy", watchlog.MediaTypeMovie, "2024-01-04", nil),
	}

	got := ApplyFilters(items, FilterState{Sort: SortTitleAsc})
	assert.Equal(t, []string{"3", "1", "4", "2"}, ids(got), "collation ignores case and accents")

	got = ApplyFilters(items, FilterState{Sort: SortTitleDesc})
	assert.Equal(t, []string{"2", "4", "1", "3"}, ids(got))
}

func TestApplyFilters_Idempotent(t *testing.T) {
	items := []*watchlog.Item{
		item("1", "Heat", "Crime", watchlog.MediaTypeMovie, "2024-03-01", ptr(4)),
		item("2", "heat", "Crime", watchlog.MediaTypeSeries, "2024-03-01", nil),
		item("3", "Alien", "Horror", watchlog.MediaTypeMovie, "2023-12-24", ptr(4)),
		item("4", "Dark", "Mystery", watchlog.MediaTypeSeries, "bad", ptr(2)),
		item("5", "Up", "Animation", watchlog.MediaTypeMovie, "2024-03-01", ptr(5)),
	}
	states := []FilterState{
		DefaultFilterState(),
		{Sort: SortTitleAsc},
		{Sort: SortTitleDesc, MediaType: MediaMovie},
		{Sort: SortRatingDesc},
		{Sort: SortReleaseDate, Search: "e"},
		{MinRating: ptr(4), Genres: []string{"Crime", "Horror"}},
	}

	for _, f := range states {
		once := ApplyFilters(items, f)
		twice := ApplyFilters(once, f)
		require.Equal(t, ids(once), ids(twice), "state %+v", f)
	}
}

func TestUniqueGenres(t *testing.T) {
	assert.Empty(t, UniqueGenres(nil))

	items := []*watchlog.Item{
		item("1", "A", "Thriller", watchlog.MediaTypeMovie, "2024-01-01", nil),
		item("2", "B", "Action", watchlog.MediaTypeMovie, "2024-01-01", nil),
		item("3", "C", "Thriller", watchlog.MediaTypeMovie, "2024-01-01", nil),
	}
	assert.Equal(t, []string{"Action", "Thriller"}, UniqueGenres(items))
}
