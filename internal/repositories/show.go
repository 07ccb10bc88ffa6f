package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/desertthunder/tvx/internal/models"
	"github.com/desertthunder/tvx/internal/shared"
)

// ShowRepository persists shows keyed by their TVmaze id.
//
// The full show is kept as a JSON payload. Name, genres, rating and premiere
// date are duplicated into columns for filtering.
type ShowRepository struct {
	db *sql.DB
}

// NewShowRepository creates a new ShowRepository with the given database connection
func NewShowRepository(db *sql.DB) *ShowRepository {
	return &ShowRepository{db: db}
}

const upsertShowQuery = `
	INSERT INTO shows (id, name, genres, rating, premiered, payload, created_at, updated_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
		name = excluded.name,
		genres = excluded.genres,
		rating = excluded.rating,
		premiered = excluded.premiered,
		payload = excluded.payload,
		updated_at = excluded.updated_at
`

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Upsert inserts show or replaces the stored copy with the same id.
func (r *ShowRepository) Upsert(show models.Show) error {
	return r.upsert(context.Background(), r.db, show, time.Now())
}

// UpsertAll stores every show in one transaction.
func (r *ShowRepository) UpsertAll(ctx context.Context, shows []models.Show) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now()
	for _, show := range shows {
		if err := r.upsert(ctx, tx, show, now); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit shows: %w", err)
	}
	return nil
}

func (r *ShowRepository) upsert(ctx context.Context, db execer, show models.Show, now time.Time) error {
	if show.ID <= 0 {
		return fmt.Errorf("%w: show id must be positive", shared.ErrInvalidInput)
	}
	if strings.TrimSpace(show.Name) == "" {
		return fmt.Errorf("%w: show %d has no name", shared.ErrInvalidInput, show.ID)
	}

	payload, err := json.Marshal(show)
	if err != nil {
		return fmt.Errorf("failed to encode show %d: %w", show.ID, err)
	}

	_, err = db.ExecContext(ctx, upsertShowQuery,
		show.ID,
		show.Name,
		encodeGenres(show.Genres),
		show.Rating.Average,
		show.Premiered,
		string(payload),
		now,
		now,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert show %d: %w", show.ID, err)
	}
	return nil
}

// Get retrieves a show by TVmaze id.
func (r *ShowRepository) Get(id int) (models.Show, error) {
	var payload string
	err := r.db.QueryRow("SELECT payload FROM shows WHERE id = ?", id).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Show{}, fmt.Errorf("%w: %d", shared.ErrShowNotFound, id)
	}
	if err != nil {
		return models.Show{}, fmt.Errorf("failed to get show: %w", err)
	}
	return decodeShow(payload)
}

// List retrieves shows ordered by id.
//
// Supported criteria: "genre" (exact genre name), "name" (case-insensitive substring)
// and "limit" (int, zero for no limit).
func (r *ShowRepository) List(criteria map[string]any) ([]models.Show, error) {
	query := "SELECT payload FROM shows WHERE 1 = 1"
	args := []any{}

	if genre, ok := criteria["genre"].(string); ok && genre != "" {
		query += " AND genres LIKE ?"
		args = append(args, "%|"+genre+"|%")
	}

	if name, ok := criteria["name"].(string); ok && name != "" {
		query += " AND name LIKE ? COLLATE NOCASE"
		args = append(args, "%"+name+"%")
	}

	query += " ORDER BY id ASC"

	if limit, ok := criteria["limit"].(int); ok && limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query shows: %w", err)
	}
	defer rows.Close()

	var shows []models.Show
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("failed to scan show: %w", err)
		}
		show, err := decodeShow(payload)
		if err != nil {
			return nil, err
		}
		shows = append(shows, show)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating shows: %w", err)
	}

	return shows, nil
}

// Count returns the number of stored shows.
func (r *ShowRepository) Count() (int, error) {
	var n int
	if err := r.db.QueryRow("SELECT COUNT(*) FROM shows").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count shows: %w", err)
	}
	return n, nil
}

func decodeShow(payload string) (models.Show, error) {
	var show models.Show
	if err := json.Unmarshal([]byte(payload), &show); err != nil {
		return models.Show{}, fmt.Errorf("failed to decode show payload: %w", err)
	}
	return show, nil
}

// encodeGenres stores genres as "|Drama|Thriller|" so a single LIKE matches one whole genre.
func encodeGenres(genres []string) string {
	if len(genres) == 0 {
		return ""
	}
	return "|" + strings.Join(genres, "|") + "|"
}
