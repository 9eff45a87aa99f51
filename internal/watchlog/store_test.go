package watchlog

import (
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/vversio/cinegrid/internal/migrations"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err, "open db")
	// A single connection keeps the in-memory database alive across queries.
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	_, err = migrations.Apply(db)
	require.NoError(t, err, "apply schema")
	return db
}

func ptr[T any](v T) *T {
	return &v
}

func fightClub() *Item {
	return &Item{
		TMDBID:      550,
		Title:       "Fight Club",
		PosterPath:  "/pB8BM7pdSp6B6Ih7QZ4DrQ3PmJK.jpg",
		WatchedDate: "2024-03-01",
		Genre:       "Drama",
		MediaType:   MediaTypeMovie,
		UserRating:  ptr(5),
	}
}

func TestStore_Add(t *testing.T) {
	store := NewStore(setupTestDB(t))

	it := fightClub()
	before := time.Now().Add(-time.Second)
	require.NoError(t, store.Add(it))

	assert.NotEmpty(t, it.ID, "ID should be set after Add")
	assert.True(t, it.CreatedAt.After(before), "CreatedAt should be set")

	got, err := store.Get(it.ID)
	require.NoError(t, err)
	assert.Equal(t, "Fight Club", got.Title)
	assert.Equal(t, int64(550), got.TMDBID)
	assert.Equal(t, MediaTypeMovie, got.MediaType)
	assert.Equal(t, "2024-03-01", got.WatchedDate)
	require.NotNil(t, got.UserRating)
	assert.Equal(t, 5, *got.UserRating)
	assert.Nil(t, got.CustomCategory)
	assert.False(t, got.IsFavorite)
}

func TestStore_Add_KeepsCustomCategory(t *testing.T) {
	store := NewStore(setupTestDB(t))

	it := fightClub()
	it.CustomCategory = ptr("Rewatch")
	it.UserRating = nil
	require.NoError(t, store.Add(it))

	got, err := store.Get(it.ID)
	require.NoError(t, err)
	require.NotNil(t, got.CustomCategory)
	assert.Equal(t, "Rewatch", *got.CustomCategory)
	assert.Nil(t, got.UserRating)
}

func TestStore_Add_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Item)
		field  string
	}{
		{"missing title", func(it *Item) { it.Title = "  " }, "Title"},
		{"missing genre", func(it *Item) { it.Genre = "" }, "Genre"},
		{"bad date", func(it *Item) { it.WatchedDate = "01/03/2024" }, "WatchedDate"},
		{"bad media type", func(it *Item) { it.MediaType = "podcast" }, "MediaType"},
		{"rating too high", func(it *Item) { it.UserRating = ptr(6) }, "UserRating"},
		{"rating too low", func(it *Item) { it.UserRating = ptr(0) }, "UserRating"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := NewStore(setupTestDB(t))
			it := fightClub()
			tt.mutate(it)

			err := store.Add(it)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Contains(t, verr.Error(), tt.field)
		})
	}
}

func TestStore_Add_Duplicate(t *testing.T) {
	store := NewStore(setupTestDB(t))

	first := fightClub()
	require.NoError(t, store.Add(first))

	second := fightClub()
	second.ID = first.ID
	err := store.Add(second)
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestStore_Get_NotFound(t *testing.T) {
	store := NewStore(setupTestDB(t))

	_, err := store.Get("missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_List_OrderedByWatchedDate(t *testing.T) {
	store := NewStore(setupTestDB(t))

	for _, d := range []string{"2024-01-10", "2024-02-20", "2024-02-05"} {
		it := fightClub()
		it.WatchedDate = d
		it.Title = "Watched " + d
		require.NoError(t, store.Add(it))
	}

	items, err := store.List()
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "2024-02-20", items[0].WatchedDate)
	assert.Equal(t, "2024-02-05", items[1].WatchedDate)
	assert.Equal(t, "2024-01-10", items[2].WatchedDate)

	n, err := store.Count()
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestStore_Delete(t *testing.T) {
	store := NewStore(setupTestDB(t))

	it := fightClub()
	require.NoError(t, store.Add(it))
	require.NoError(t, store.Delete(it.ID))

	_, err := store.Get(it.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	// Idempotent
	assert.NoError(t, store.Delete(it.ID))
}

func TestStore_ToggleFavorite(t *testing.T) {
	store := NewStore(setupTestDB(t))

	it := fightClub()
	require.NoError(t, store.Add(it))

	fav, err := store.ToggleFavorite(it.ID)
	require.NoError(t, err)
	assert.True(t, fav)

	favorites, err := store.Favorites()
	require.NoError(t, err)
	require.Len(t, favorites, 1)
	assert.Equal(t, it.ID, favorites[0].ID)

	fav, err = store.ToggleFavorite(it.ID)
	require.NoError(t, err)
	assert.False(t, fav)

	favorites, err = store.Favorites()
	require.NoError(t, err)
	assert.Empty(t, favorites)
}

func TestStore_ToggleFavorite_NotFound(t *testing.T) {
	store := NewStore(setupTestDB(t))

	_, err := store.ToggleFavorite("missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_UpdateRating(t *testing.T) {
	store := NewStore(setupTestDB(t))

	it := fightClub()
	require.NoError(t, store.Add(it))

	updated, err := store.UpdateRating(it.ID, ptr(3))
	require.NoError(t, err)
	require.NotNil(t, updated.UserRating)
	assert.Equal(t, 3, *updated.UserRating)
	assert.Equal(t, it.Title, updated.Title)

	got, err := store.Get(it.ID)
	require.NoError(t, err)
	require.NotNil(t, got.UserRating)
	assert.Equal(t, 3, *got.UserRating)

	updated, err = store.UpdateRating(it.ID, nil)
	require.NoError(t, err)
	assert.Nil(t, updated.UserRating)
}

func TestStore_UpdateRating_Errors(t *testing.T) {
	store := NewStore(setupTestDB(t))

	it := fightClub()
	require.NoError(t, store.Add(it))

	_, err := store.UpdateRating(it.ID, ptr(0))
	assert.ErrorIs(t, err, ErrInvalidRating)
	_, err = store.UpdateRating(it.ID, ptr(6))
	assert.ErrorIs(t, err, ErrInvalidRating)
	_, err = store.UpdateRating("missing", ptr(4))
	assert.ErrorIs(t, err, ErrNotFound)

	got, err := store.Get(it.ID)
	require.NoError(t, err)
	require.NotNil(t, got.UserRating)
	assert.Equal(t, 5, *got.UserRating, "rejected ratings leave the item unchanged")
}

func TestTx_UpdateRatingRolledBack(t *testing.T) {
	store := NewStore(setupTestDB(t))

	it := fightClub()
	require.NoError(t, store.Add(it))

	tx, err := store.Begin()
	require.NoError(t, err)
	require.NoError(t, tx.UpdateRating(it.ID, nil))
	inTx, err := tx.Get(it.ID)
	require.NoError(t, err)
	assert.Nil(t, inTx.UserRating)
	require.NoError(t, tx.Rollback())

	got, err := store.Get(it.ID)
	require.NoError(t, err)
	require.NotNil(t, got.UserRating)
	assert.Equal(t, 5, *got.UserRating)
}

func TestTx_RollbackDiscardsAdd(t *testing.T) {
	store := NewStore(setupTestDB(t))

	tx, err := store.Begin()
	require.NoError(t, err)

	it := fightClub()
	require.NoError(t, tx.Add(it))
	require.NoError(t, tx.Rollback())

	_, err = store.Get(it.ID)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestItem_Watched(t *testing.T) {
	it := fightClub()
	d, ok := it.Watched()
	require.True(t, ok)
	assert.Equal(t, time.March, d.Month())

	it.WatchedDate = "not a date"
	_, ok = it.Watched()
	assert.False(t, ok)
}

func TestItem_Clone(t *testing.T) {
	it := fightClub()
	it.CustomCategory = ptr("Classics")

	c := it.Clone()
	*c.UserRating = 1
	*c.CustomCategory = "Other"

	assert.Equal(t, 5, *it.UserRating)
	assert.Equal(t, "Classics", *it.CustomCategory)
}
