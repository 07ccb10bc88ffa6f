// package repositories provides persistence layer implementations for catalogue types.
package repositories

import (
	"database/sql"
	"fmt"

	"github.com/desertthunder/tvx/internal/cache"
)

// NextSequence atomically increments and returns the next sequence number for the given table.
//
// They are NOT exposed in CLI output but used internally for sorting and debugging.
func NextSequence(db *sql.DB, table string) (int64, error) {
	tx, err := db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	sequenceTable := table + "_sequence"

	if _, err := tx.Exec(fmt.Sprintf("UPDATE %s SET value = value + 1 WHERE id = 1", sequenceTable)); err != nil {
		return 0, fmt.Errorf("failed to increment sequence: %w", err)
	}

	var sequence int64
	if err := tx.QueryRow(fmt.Sprintf("SELECT value FROM %s WHERE id = 1", sequenceTable)).Scan(&sequence); err != nil {
		return 0, fmt.Errorf("failed to get sequence value: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit sequence transaction: %w", err)
	}

	return sequence, nil
}

// WarmCache loads every persisted show into c and returns how many were loaded.
func WarmCache(repo *ShowRepository, c *cache.ShowCache) (int, error) {
	shows, err := repo.List(nil)
	if err != nil {
		return 0, fmt.Errorf("failed to warm cache: %w", err)
	}
	c.Put(shows)
	return len(shows), nil
}
