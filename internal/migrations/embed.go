// Package migrations holds the watch log schema and applies it.
package migrations

import (
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"slices"
)

//go:embed sql/*.sql
var files embed.FS

// Apply runs every schema file that db has not seen yet, in name order.
// The number of files applied is kept in PRAGMA user_version, and each file
// runs in its own transaction. It returns the resulting version.
func Apply(db *sql.DB) (int, error) {
	names, err := fs.Glob(files, "sql/*.sql")
	if err != nil {
		return 0, err
	}
	slices.Sort(names)

	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return 0, fmt.Errorf("read schema version: %w", err)
	}
	if version > len(names) {
		return version, fmt.Errorf("schema version %d is newer than this build (%d)", version, len(names))
	}

	for i := version; i < len(names); i++ {
		if err := applyFile(db, names[i], i+1); err != nil {
			return i, err
		}
	}
	return len(names), nil
}

func applyFile(db *sql.DB, name string, version int) error {
	body, err := files.ReadFile(name)
	if err != nil {
		return err
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin %s: %w", name, err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(string(body)); err != nil {
		return fmt.Errorf("apply %s: %w", name, err)
	}
	// PRAGMA does not take bind parameters.
	if _, err := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", version)); err != nil {
		return fmt.Errorf("record version %d: %w", version, err)
	}
	return tx.Commit()
}
