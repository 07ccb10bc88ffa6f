package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/tvx/internal/models"
	"github.com/desertthunder/tvx/internal/shared"
)

// SearchHistoryRepository implements models.Repository[*models.SearchHistoryEntry].
type SearchHistoryRepository struct {
	db *sql.DB
}

var _ models.Repository[*models.SearchHistoryEntry] = (*SearchHistoryRepository)(nil)

// NewSearchHistoryRepository creates a new SearchHistoryRepository with the given database connection
func NewSearchHistoryRepository(db *sql.DB) *SearchHistoryRepository {
	return &SearchHistoryRepository{db: db}
}

// Create inserts entry with a generated ID and sequence.
func (r *SearchHistoryRepository) Create(entry *models.SearchHistoryEntry) error {
	if err := entry.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	sequence, err := NextSequence(r.db, "search_history")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	entry.EntryID = shared.GenerateID()
	entry.Sequence = sequence
	entry.Normalized = shared.NormalizeQuery(entry.Query)
	if entry.Created.IsZero() {
		entry.Created = time.Now()
	}

	query := `
		INSERT INTO search_history (id, sequence, query, normalized, result_count, error, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query,
		entry.EntryID,
		entry.Sequence,
		entry.Query,
		entry.Normalized,
		entry.ResultCount,
		entry.Error,
		entry.Created,
	)
	if err != nil {
		return fmt.Errorf("failed to insert search history: %w", err)
	}

	return nil
}

// Record stores the outcome of a completed search.
func (r *SearchHistoryRepository) Record(query string, resultCount int, searchErr error) error {
	entry := &models.SearchHistoryEntry{Query: query, ResultCount: resultCount}
	if searchErr != nil {
		entry.Error = searchErr.Error()
	}
	return r.Create(entry)
}

// Get retrieves an entry by ID.
func (r *SearchHistoryRepository) Get(id string) (*models.SearchHistoryEntry, error) {
	query := `
		SELECT id, sequence, query, normalized, result_count, error, created_at
		FROM search_history
		WHERE id = ?
	`

	entry, err := scanEntry(r.db.QueryRow(query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("search history entry not found: %s", id)
	}
	return entry, err
}

// List retrieves entries newest first.
//
// Supported criteria: "query" (exact normalized match) and "limit" (int).
func (r *SearchHistoryRepository) List(criteria map[string]any) ([]*models.SearchHistoryEntry, error) {
	query := `
		SELECT id, sequence, query, normalized, result_count, error, created_at
		FROM search_history
		WHERE 1 = 1
	`
	args := []any{}

	if q, ok := criteria["query"].(string); ok && q != "" {
		query += " AND normalized = ?"
		args = append(args, shared.NormalizeQuery(q))
	}

	query += " ORDER BY sequence DESC"

	if limit, ok := criteria["limit"].(int); ok && limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query search history: %w", err)
	}
	defer rows.Close()

	var entries []*models.SearchHistoryEntry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating search history: %w", err)
	}

	return entries, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(s scanner) (*models.SearchHistoryEntry, error) {
	var e models.SearchHistoryEntry
	err := s.Scan(&e.EntryID, &e.Sequence, &e.Query, &e.Normalized, &e.ResultCount, &e.Error, &e.Created)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan search history: %w", err)
	}
	return &e, nil
}
