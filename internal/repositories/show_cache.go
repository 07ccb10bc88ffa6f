package repositories

import (
	"context"
	"fmt"

	"github.com/desertthunder/tvx/internal/models"
)

// ShowCacheAdapter implements tasks.ShowCacher using ShowRepository.
//
// Existing rows are replaced so the database always holds the latest listing payload.
type ShowCacheAdapter struct {
	repo *ShowRepository
}

// NewShowCacheAdapter creates a new ShowCacheAdapter with the given repository
func NewShowCacheAdapter(repo *ShowRepository) *ShowCacheAdapter {
	return &ShowCacheAdapter{repo: repo}
}

// UpsertAll persists a listing batch. Shows without an id or name are skipped.
func (a *ShowCacheAdapter) UpsertAll(ctx context.Context, shows []models.Show) error {
	valid := make([]models.Show, 0, len(shows))
	for _, show := range shows {
		if show.ID > 0 && show.Name != "" {
			valid = append(valid, show)
		}
	}
	if len(valid) == 0 {
		return nil
	}

	if err := a.repo.UpsertAll(ctx, valid); err != nil {
		return fmt.Errorf("failed to cache shows: %w", err)
	}
	return nil
}
