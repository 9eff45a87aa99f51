package query

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vversio/cinegrid/internal/watchlog"
)

func TestAggregateByGenreAndMonth_Empty(t *testing.T) {
	assert.Empty(t, AggregateByGenreAndMonth(nil, nil))
}

func TestAggregateByGenreAndMonth_FillsMissingGenres(t *testing.T) {
	items := []*watchlog.Item{
		item("1", "Alien", "Horror", watchlog.MediaTypeMovie, "2025-01-05", nil),
		item("2", "Heat", "Crime", watchlog.MediaTypeMovie, "2025-01-20", nil),
		item("3", "Up", "Animation", watchlog.MediaTypeMovie, "2025-02-02", nil),
		item("4", "Heat 2", "Crime", watchlog.MediaTypeMovie, "2025-02-14", nil),
		item("5", "Zodiac", "Crime", watchlog.MediaTypeMovie, "2025-02-28", nil),
	}

	points := AggregateByGenreAndMonth(items, nil)
	require.Len(t, points, 2)

	assert.Equal(t, "2025-01", points[0].Month)
	assert.Equal(t, "Jan 2025", points[0].MonthLabel)
	assert.Equal(t, map[string]int{"Horror": 1, "Crime": 1, "Animation": 0}, points[0].Counts)

	assert.Equal(t, "2025-02", points[1].Month)
	assert.Equal(t, "Feb 2025", points[1].MonthLabel)
	horror, ok := points[1].Counts["Horror"]
	assert.True(t, ok, "Horror must be present even with no items that month")
	assert.Zero(t, horror)
	assert.Equal(t, 2, points[1].Counts["Crime"])
	assert.Equal(t, 1, points[1].Counts["Animation"])
}

func TestAggregateByGenreAndMonth_SkipsGapsAndSortsMonths(t *testing.T) {
	items := []*watchlog.Item{
		item("1", "A", "Drama", watchlog.MediaTypeMovie, "2024-12-01", nil),
		item("2", "B", "Drama", watchlog.MediaTypeMovie, "2024-03-15", nil),
		item("3", "C", "Drama", watchlog.MediaTypeMovie, "not-a-date", nil),
	}

	points := AggregateByGenreAndMonth(items, nil)
	require.Len(t, points, 2)
	assert.Equal(t, "2024-03", points[0].Month)
	assert.Equal(t, "2024-12", points[1].Month)
	assert.Equal(t, "Dec 2024", points[1].MonthLabel)
}

func TestAggregateByGenreAndMonth_StartDate(t *testing.T) {
	items := []*watchlog.Item{
		item("1", "A", "Drama", watchlog.MediaTypeMovie, "2024-12-31", nil),
		item("2", "B", "Horror", watchlog.MediaTypeMovie, "2025-01-01", nil),
		item("3", "C", "Comedy", watchlog.MediaTypeMovie, "2025-03-10", nil),
	}
	start := ThisYearStart(time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC))

	points := AggregateByGenreAndMonth(items, &start)
	require.Len(t, points, 2)
	assert.Equal(t, "2025-01", points[0].Month)
	assert.NotContains(t, points[0].Counts, "Drama", "genres only seen before start are dropped")
	assert.Equal(t, map[string]int{"Horror": 0, "Comedy": 1}, points[1].Counts)
}

func TestTopGenres(t *testing.T) {
	items := []*watchlog.Item{
		item("1", "A", "Comedy", watchlog.MediaTypeMovie, "2024-01-01", nil),
		item("2", "B", "Drama", watchlog.MediaTypeMovie, "2024-01-01", nil),
		item("3", "C", "Horror", watchlog.MediaTypeMovie, "2024-01-01", nil),
		item("4", "D", "Drama", watchlog.MediaTypeMovie, "2024-01-01", nil),
		item("5", "E", "Horror", watchlog.MediaTypeMovie, "2024-01-01", nil),
		item("6", "F", "Drama", watchlog.MediaTypeMovie, "2024-01-01", nil),
	}

	assert.Equal(t, []string{"Drama", "Horror", "Comedy"}, TopGenres(items, 10))
	assert.Equal(t, []string{"Drama", "Horror"}, TopGenres(items, 2))
	assert.Empty(t, TopGenres(items, 0))
	assert.Empty(t, TopGenres(nil, DefaultTopGenres))
}

func TestTopGenres_TiesKeepFirstSeenOrder(t *testing.T) {
	items := []*watchlog.Item{
		item("1", "A", "Western", watchlog.MediaTypeMovie, "2024-01-01", nil),
		item("2", "B", "Action", watchlog.MediaTypeMovie, "2024-01-01", nil),
		item("3", "C", "Music", watchlog.MediaTypeMovie, "2024-01-01", nil),
	}

	assert.Equal(t, []string{"Western", "Action"}, TopGenres(items, 2))
}

func TestGenreStats(t *testing.T) {
	stats := GenreStats(scenario())
	assert.Equal(t, []GenreCount{{Genre: "Drama", Count: 2}, {Genre: "Horror", Count: 1}}, stats)
}

func TestQuickStats_Empty(t *testing.T) {
	st := QuickStats(nil)
	assert.Equal(t, Stats{}, st)
	assert.Nil(t, st.AvgRating)
}

func TestQuickStats(t *testing.T) {
	items := scenario()
	items[0].IsFavorite = true
	items = append(items, item("D", "D", "Drama", watchlog.MediaTypeSeries, "2024-03-01", ptr(4)))

	st := QuickStats(items)
	assert.Equal(t, 2, st.TotalMovies)
	assert.Equal(t, 2, st.TotalSeries)
	assert.Equal(t, 4, st.TotalItems)
	assert.Equal(t, 1, st.FavoriteCount)
	require.NotNil(t, st.AvgRating)
	assert.Equal(t, 4.3, *st.AvgRating) // (4+5+4)/3 = 4.333...
}

func TestThisYearStart(t *testing.T) {
	got := ThisYearStart(time.Date(2026, 10, 19, 8, 30, 0, 0, time.UTC))
	assert.Equal(t, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), got)
}
