package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/tvx/internal/formatter"
	"github.com/desertthunder/tvx/internal/models"
	"github.com/desertthunder/tvx/internal/shared"
)

// ShowsList prints one index page, optionally narrowed to a genre.
func (r *Runner) ShowsList(ctx context.Context, cmd *cli.Command) error {
	page := cmd.Int("page")
	genre := cmd.String("genre")
	format := cmd.String("format")
	output := cmd.String("output")

	var shows []models.Show
	var title string

	if cmd.Bool("offline") {
		if _, err := r.database(); err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		var err error
		shows, err = r.showDB.List(map[string]any{"genre": genre, "limit": cmd.Int("limit")})
		if err != nil {
			return err
		}
		title = "Cached shows"
	} else {
		if err := r.requireCatalogue(); err != nil {
			return err
		}
		r.attachPersistence()

		r.logger.Info("listing shows", "page", page, "genre", genre)
		result, err := r.engine.Browse(ctx, page, nil)
		if err != nil {
			return err
		}

		shows = result.Shows
		title = fmt.Sprintf("Shows page %d", page)
		if genre != "" {
			name, ok := matchGenre(result.Grouped, genre)
			if !ok {
				return fmt.Errorf("%w: no shows in genre %q on page %d (have: %s)",
					shared.ErrInvalidArgument, genre, page, strings.Join(result.Grouped.Genres(), ", "))
			}
			shows = result.Grouped[name]
			title = fmt.Sprintf("%s shows, page %d", name, page)
		}
	}

	if output != "" {
		if err := formatter.WriteExport(shows, format, output); err != nil {
			return err
		}
		r.logger.Infof("exported %d shows to %v", len(shows), output)
		r.writePlain("✓ Exported %d shows to %s\n", len(shows), output)
		return nil
	}

	data, err := formatter.Render(shows, format, title)
	if err != nil {
		return err
	}
	return r.writeBytes(data)
}

// ShowsGenres prints one index page grouped by genre.
func (r *Runner) ShowsGenres(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireCatalogue(); err != nil {
		return err
	}
	r.attachPersistence()

	page := cmd.Int("page")
	result, err := r.engine.Browse(ctx, page, nil)
	if err != nil {
		return err
	}

	r.writePlainHeader(fmt.Sprintf("Page %d: %d shows in %d genres", page, len(result.Shows), len(result.Grouped)))
	data, err := formatter.GroupedToText(result.Grouped)
	if err != nil {
		return err
	}
	return r.writeBytes(data)
}

// ShowsGet prints show details with cast, or exports them to a directory.
func (r *Runner) ShowsGet(ctx context.Context, cmd *cli.Command) error {
	id, err := parseID(cmd.StringArg("id"))
	if err != nil {
		return err
	}
	if err := r.requireCatalogue(); err != nil {
		return err
	}

	details, err := r.engine.Details(ctx, id, nil)
	if err != nil {
		return err
	}

	if dir := cmd.String("export"); dir != "" {
		result, err := formatter.WriteDetailsExport(details, dir, cmd.Bool("poster"))
		if err != nil {
			return err
		}
		r.writePlain("✓ Exported %s to %s\n", details.Name, result.Directory)
		for _, f := range result.Files {
			r.writePlain("  %s\n", f)
		}
		return nil
	}

	if cmd.Bool("json") {
		return r.writeJSON(details, cmd.Bool("pretty"))
	}

	data, err := formatter.DetailsToMarkdown(details, "")
	if err != nil {
		return err
	}
	return r.writeBytes(data)
}

// ShowsOpen opens the show's TVmaze page, resolving it from the record cache before fetching.
func (r *Runner) ShowsOpen(ctx context.Context, cmd *cli.Command) error {
	id, err := parseID(cmd.StringArg("id"))
	if err != nil {
		return err
	}
	r.attachPersistence()

	show, err := r.engine.Lookup(id)
	if errors.Is(err, shared.ErrNotCached) {
		if err := r.requireCatalogue(); err != nil {
			return err
		}
		details, fetchErr := r.engine.Details(ctx, id, nil)
		if fetchErr != nil {
			return fetchErr
		}
		show, err = details.Show, nil
	}
	if err != nil {
		return err
	}

	r.writePlain("→ Opening %s (%s)\n", show.Name, show.URL)
	if err := shared.OpenBrowser(show.URL); err != nil {
		r.logger.Warnf("failed to open browser automatically %v", err)
		r.writePlainln("⚠ Could not open browser automatically.")
		r.writePlain("Please open this URL in your browser:\n%s\n", show.URL)
	}
	return nil
}

func parseID(raw string) (int, error) {
	if raw == "" {
		return 0, fmt.Errorf("%w: show id", shared.ErrMissingArgument)
	}
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: show id must be a positive integer, got %q", shared.ErrInvalidArgument, raw)
	}
	return id, nil
}

// matchGenre finds genre in grouped ignoring case.
func matchGenre(grouped models.GroupedShows, genre string) (string, bool) {
	for _, name := range grouped.Genres() {
		if strings.EqualFold(name, genre) {
			return name, true
		}
	}
	return "", false
}
