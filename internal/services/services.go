package services

import (
	"context"

	"github.com/desertthunder/tvx/internal/models"
)

// CatalogueService defines the interface for show catalogue providers.
type CatalogueService interface {
	// ListShows retrieves one page of the show index. Pages are zero-based.
	// Returns [shared.ErrShowNotFound] when the page is past the end.
	ListShows(ctx context.Context, page int) ([]models.Show, error)

	// GetShowDetails retrieves a show with its embedded cast.
	GetShowDetails(ctx context.Context, id int) (*models.ShowDetails, error)

	// Lookup performs a search request against a URL built by SearchURL.
	Lookup(ctx context.Context, url string) ([]models.SearchResultItem, error)

	// SearchURL builds the search endpoint URL for a free-text query.
	SearchURL(query string) string

	// Name returns the name of the service (e.g., "TVmaze")
	Name() string
}
