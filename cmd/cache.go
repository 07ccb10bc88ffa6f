package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/tvx/internal/formatter"
	"github.com/desertthunder/tvx/internal/shared"
	"github.com/desertthunder/tvx/internal/tasks"
)

// CacheSync fetches a range of index pages into the record cache and the database.
func (r *Runner) CacheSync(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireCatalogue(); err != nil {
		return err
	}
	r.attachPersistence()

	opts := tasks.SyncOpts{
		From:    cmd.Int("from"),
		To:      cmd.Int("to"),
		Workers: cmd.Int("workers"),
	}

	r.logger.Info("syncing index pages", "from", opts.From, "to", opts.To, "workers", opts.Workers)

	progress := make(chan tasks.ProgressUpdate, 10)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progress {
			if update.Phase == tasks.SyncPages {
				r.writePlain("  %s\n", update.Message)
			}
		}
	}()

	result, err := r.engine.Sync(ctx, progress, opts)
	close(progress)
	<-done
	if err != nil {
		return err
	}

	r.writePlainln("✓ Synced %d of %d pages (%d shows)", result.Pages, result.Requested, result.Shows)
	if result.EndPage >= 0 {
		r.writePlain("  End of index at page %d\n", result.EndPage)
	}
	for _, f := range result.Failed {
		r.writePlain("  ✗ page %d: %v\n", f.Page, f.Error)
	}
	if len(result.Failed) > 0 {
		return fmt.Errorf("%w: %d pages failed", shared.ErrAPIRequest, len(result.Failed))
	}
	return nil
}

// CacheFind fuzzy-matches show names in the record cache without touching the network.
func (r *Runner) CacheFind(ctx context.Context, cmd *cli.Command) error {
	query := strings.TrimSpace(strings.Join(cmd.Args().Slice(), " "))
	if query == "" {
		return fmt.Errorf("%w: search query", shared.ErrMissingArgument)
	}
	r.attachPersistence()

	shows := r.shows.Find(query, cmd.Int("limit"))
	if len(shows) == 0 {
		r.writePlain("No cached shows match %q\n", query)
		return nil
	}

	data, err := formatter.ShowsToText(shows)
	if err != nil {
		return err
	}
	return r.writeBytes(data)
}

// CacheStats reports the size of each cache tier.
func (r *Runner) CacheStats(ctx context.Context, cmd *cli.Command) error {
	r.attachPersistence()

	r.writePlainHeader("Cache")
	r.writePlain("  Records:   %d\n", r.shows.Len())
	if r.details != nil {
		r.writePlain("  Details:   %d\n", r.details.Len())
	}
	if r.showDB == nil {
		r.writePlain("  Database:  unavailable\n")
		return nil
	}

	count, err := r.showDB.Count()
	if err != nil {
		return fmt.Errorf("failed to count stored shows: %w", err)
	}
	r.writePlain("  Database:  %d (%s)\n", count, r.config.Database.Path)
	return nil
}
