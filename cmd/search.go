package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/tvx/internal/formatter"
	"github.com/desertthunder/tvx/internal/models"
	"github.com/desertthunder/tvx/internal/search"
	"github.com/desertthunder/tvx/internal/shared"
)

// Search runs one search through a coordinator, or fuzzy-matches the record cache with --offline.
func (r *Runner) Search(ctx context.Context, cmd *cli.Command) error {
	query := strings.TrimSpace(strings.Join(cmd.Args().Slice(), " "))
	if query == "" {
		return fmt.Errorf("%w: search query", shared.ErrMissingArgument)
	}

	limit := cmd.Int("limit")
	if limit <= 0 {
		limit = r.config.Search.ResultLimit
	}

	r.attachPersistence()

	var shows []models.Show
	if cmd.Bool("offline") {
		r.logger.Info("searching cached shows", "query", query, "cached", r.shows.Len())
		shows = r.shows.Find(query, limit)
	} else {
		if err := r.requireCatalogue(); err != nil {
			return err
		}
		r.logger.Info("searching TVmaze", "query", query)

		coordinator := search.New(r.catalogue.Lookup,
			search.WithBaseURL(r.config.API.BaseURL),
			search.WithLogger(r.logger),
			search.WithRecorder(r.recorder()),
		)
		coordinator.SearchSync(ctx, query)
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := coordinator.Err().Get(); err != nil {
			return fmt.Errorf("search failed: %w", err)
		}

		shows = coordinator.Results().Get()
		if limit > 0 && len(shows) > limit {
			shows = shows[:limit]
		}
	}

	if cmd.Bool("json") {
		return r.writeJSON(shows, cmd.Bool("pretty"))
	}

	if len(shows) == 0 {
		r.writePlain("No shows found for %q\n", query)
		return nil
	}

	r.writePlain("Found %d shows for %q:\n\n", len(shows), query)
	data, err := formatter.ShowsToText(shows)
	if err != nil {
		return err
	}
	return r.writeBytes(data)
}

// History lists recorded searches, newest first.
func (r *Runner) History(ctx context.Context, cmd *cli.Command) error {
	if _, err := r.database(); err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	entries, err := r.history.List(map[string]any{
		"limit": cmd.Int("limit"),
		"query": cmd.String("query"),
	})
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(entries, true)
	}

	if len(entries) == 0 {
		r.writePlain("No searches recorded yet\n")
		return nil
	}

	for _, e := range entries {
		outcome := fmt.Sprintf("%d results", e.ResultCount)
		if e.Error != "" {
			outcome = "✗ " + e.Error
		}
		r.writePlain("%4d. %-30s %s  (%s)\n", e.Sequence, e.Query, outcome, e.Created.Format("2006-01-02 15:04"))
	}
	return nil
}
