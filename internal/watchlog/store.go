package watchlog

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// querier abstracts *sql.DB and *sql.Tx for shared query logic.
type querier interface {
	QueryRow(query string, args ...any) *sql.Row
	Query(query string, args ...any) (*sql.Rows, error)
	Exec(query string, args ...any) (sql.Result, error)
}

// Store provides access to watched items.
type Store struct {
	db *sql.DB
}

// NewStore creates a new watch log store.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Begin starts a transaction.
func (s *Store) Begin() (*Tx, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	return &Tx{tx: tx}, nil
}

// Tx wraps a database transaction with the same methods as Store.
type Tx struct {
	tx *sql.Tx
}

// Commit commits the transaction.
func (t *Tx) Commit() error {
	return t.tx.Commit()
}

// Rollback aborts the transaction.
func (t *Tx) Rollback() error {
	return t.tx.Rollback()
}

// mapSQLiteError converts SQLite errors to package errors.
func mapSQLiteError(err error) error {
	if err == nil {
		return nil
	}
	if err == sql.ErrNoRows {
		return ErrNotFound
	}
	// modernc.org/sqlite wraps errors; check the message for constraint violations
	errStr := err.Error()
	if strings.Contains(errStr, "UNIQUE constraint failed") ||
		strings.Contains(errStr, "PRIMARY KEY constraint failed") {
		return ErrDuplicate
	}
	if strings.Contains(errStr, "CHECK constraint failed") ||
		strings.Contains(errStr, "NOT NULL constraint failed") {
		return ErrConstraint
	}
	return err
}

const itemColumns = "id, tmdb_id, title, poster_path, watched_date, genre, custom_category, media_type, is_favorite, user_rating, created_at"

type scanner interface {
	Scan(dest ...any) error
}

func scanItem(row scanner) (*Item, error) {
	it := &Item{}
	err := row.Scan(&it.ID, &it.TMDBID, &it.Title, &it.PosterPath, &it.WatchedDate, &it.Genre,
		&it.CustomCategory, &it.MediaType, &it.IsFavorite, &it.UserRating, &it.CreatedAt)
	if err != nil {
		return nil, err
	}
	return it, nil
}

func addItem(q querier, it *Item) error {
	if err := Validate(it); err != nil {
		return err
	}
	if it.ID == "" {
		it.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	_, err := q.Exec(`
		INSERT INTO watched_items (`+itemColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		it.ID, it.TMDBID, it.Title, it.PosterPath, it.WatchedDate, it.Genre,
		it.CustomCategory, it.MediaType, it.IsFavorite, it.UserRating, now,
	)
	if err != nil {
		return fmt.Errorf("insert item: %w", mapSQLiteError(err))
	}
	it.CreatedAt = now
	return nil
}

// Add validates and inserts a watched item.
// Sets ID (when empty) and CreatedAt on the struct.
func (s *Store) Add(it *Item) error { return addItem(s.db, it) }

// Add inserts a watched item within a transaction.
func (t *Tx) Add(it *Item) error { return addItem(t.tx, it) }

func getItem(q querier, id string) (*Item, error) {
	it, err := scanItem(q.QueryRow("SELECT "+itemColumns+" FROM watched_items WHERE id = ?", id))
	if err != nil {
		return nil, fmt.Errorf("get item %s: %w", id, mapSQLiteError(err))
	}
	return it, nil
}

// Get retrieves an item by ID.
// Returns ErrNotFound if the item does not exist.
func (s *Store) Get(id string) (*Item, error) { return getItem(s.db, id) }

// Get retrieves an item by ID within a transaction.
func (t *Tx) Get(id string) (*Item, error) { return getItem(t.tx, id) }

func listItems(q querier, where string, order string, args ...any) ([]*Item, error) {
	query := "SELECT " + itemColumns + " FROM watched_items"
	if where != "" {
		query += " WHERE " + where
	}
	query += " ORDER BY " + order

	rows, err := q.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []*Item
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		results = append(results, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate items: %w", err)
	}
	return results, nil
}

// List returns every item, most recently watched first.
func (s *Store) List() ([]*Item, error) {
	return listItems(s.db, "", "watched_date DESC, created_at ASC, id ASC")
}

// Favorites returns favorite items, most recently added first.
func (s *Store) Favorites() ([]*Item, error) {
	return listItems(s.db, "is_favorite = 1", "created_at DESC, id ASC")
}

// Count returns the number of items.
func (s *Store) Count() (int, error) {
	var n int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM watched_items").Scan(&n); err != nil {
		return 0, fmt.Errorf("count items: %w", err)
	}
	return n, nil
}

// Delete removes an item by ID.
// This operation is idempotent - no error is returned if the item does not exist.
func (s *Store) Delete(id string) error {
	if _, err := s.db.Exec("DELETE FROM watched_items WHERE id = ?", id); err != nil {
		return fmt.Errorf("delete item %s: %w", id, mapSQLiteError(err))
	}
	return nil
}

func updateRating(q querier, id string, rating *int) error {
	if err := ValidateRating(rating); err != nil {
		return err
	}
	result, err := q.Exec("UPDATE watched_items SET user_rating = ? WHERE id = ?", rating, id)
	if err != nil {
		return fmt.Errorf("update rating %s: %w", id, mapSQLiteError(err))
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("update rating %s: %w", id, ErrNotFound)
	}
	return nil
}

// UpdateRating sets or clears the rating of an item within a transaction.
func (t *Tx) UpdateRating(id string, rating *int) error { return updateRating(t.tx, id, rating) }

// UpdateRating sets or clears (nil) the rating of an item and returns the
// item as stored. Returns ErrInvalidRating for values outside 1-5 and
// ErrNotFound if nothing was updated.
func (s *Store) UpdateRating(id string, rating *int) (*Item, error) {
	tx, err := s.Begin()
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	if err := tx.UpdateRating(id, rating); err != nil {
		return nil, err
	}
	it, err := tx.Get(id)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return it, nil
}

// ToggleFavorite flips the favorite flag and returns the new value.
func (s *Store) ToggleFavorite(id string) (bool, error) {
	tx, err := s.Begin()
	if err != nil {
		return false, err
	}
	defer func() { _ = tx.Rollback() }()

	it, err := tx.Get(id)
	if err != nil {
		return false, fmt.Errorf("toggle favorite %s: %w", id, err)
	}
	if _, err := tx.tx.Exec("UPDATE watched_items SET is_favorite = ? WHERE id = ?", !it.IsFavorite, id); err != nil {
		return false, fmt.Errorf("toggle favorite %s: %w", id, mapSQLiteError(err))
	}
	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit: %w", err)
	}
	return !it.IsFavorite, nil
}
