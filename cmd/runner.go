package main

import (
	"database/sql"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"

	"github.com/desertthunder/tvx/internal/cache"
	"github.com/desertthunder/tvx/internal/repositories"
	"github.com/desertthunder/tvx/internal/search"
	"github.com/desertthunder/tvx/internal/services"
	"github.com/desertthunder/tvx/internal/shared"
	"github.com/desertthunder/tvx/internal/tasks"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config    *shared.Config
	catalogue services.CatalogueService
	api       *services.APIService
	engine    *tasks.CatalogueEngine
	shows     *cache.ShowCache
	details   *cache.DetailsCache
	logger    *log.Logger
	output    io.Writer

	db      *sql.DB
	ownsDB  bool
	showDB  *repositories.ShowRepository
	history *repositories.SearchHistoryRepository
	warmed  bool
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config       *shared.Config
	Catalogue    services.CatalogueService
	API          *services.APIService
	ShowCache    *cache.ShowCache
	DetailsCache *cache.DetailsCache
	DB           *sql.DB // optional; opened from Config.Database on first use when nil
	Logger       *log.Logger
	Output       io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.ShowCache == nil {
		opts.ShowCache = cache.NewShowCache()
	}
	if opts.API == nil {
		opts.API = services.NewAPIService(opts.Config.API.BaseURL, nil)
	}

	engine := tasks.NewCatalogueEngine(opts.Catalogue, opts.ShowCache, opts.DetailsCache).WithLogger(opts.Logger)

	r := &Runner{
		config:    opts.Config,
		catalogue: opts.Catalogue,
		api:       opts.API,
		engine:    engine,
		shows:     opts.ShowCache,
		details:   opts.DetailsCache,
		logger:    opts.Logger,
		output:    opts.Output,
	}
	if opts.DB != nil {
		r.useDatabase(opts.DB, false)
	}
	return r
}

// SetLogger swaps the logger used by the runner and its engine.
func (r *Runner) SetLogger(l *log.Logger) {
	r.logger = l
	r.engine.WithLogger(l)
}

// Close releases the database (when the runner opened it) and stops cache eviction.
func (r *Runner) Close() {
	if r.details != nil {
		r.details.Stop()
		r.details = nil
	}
	if r.db != nil && r.ownsDB {
		if err := r.db.Close(); err != nil {
			r.logger.Warn("failed to close database", "error", err)
		}
	}
	r.db = nil
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, showsCommand, searchCommand, historyCommand, cacheCommand, apiCommand, tuiCommand, serveCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// database returns the open database, opening and migrating it on first use.
func (r *Runner) database() (*sql.DB, error) {
	if r.db != nil {
		return r.db, nil
	}

	db, err := shared.OpenDatabase(r.config.Database)
	if err != nil {
		return nil, err
	}
	r.useDatabase(db, true)
	return db, nil
}

func (r *Runner) useDatabase(db *sql.DB, owned bool) {
	r.db = db
	r.ownsDB = owned
	r.showDB = repositories.NewShowRepository(db)
	r.history = repositories.NewSearchHistoryRepository(db)
	r.engine.WithCacher(repositories.NewShowCacheAdapter(r.showDB))
}

// attachPersistence opens the database when possible and warms the record cache from it.
//
// Persistence is optional for catalogue commands, so failures are logged and ignored.
func (r *Runner) attachPersistence() {
	if _, err := r.database(); err != nil {
		r.logger.Warn("continuing without local database", "path", r.config.Database.Path, "error", err)
		return
	}
	if r.warmed || !r.config.Cache.WarmFromDatabase {
		return
	}
	r.warmed = true

	n, err := repositories.WarmCache(r.showDB, r.shows)
	if err != nil {
		r.logger.Warn("failed to warm show cache", "error", err)
		return
	}
	r.logger.Debug("warmed show cache", "shows", n)
}

// recorder returns a search recorder backed by the history table, or nil without a database.
func (r *Runner) recorder() search.Recorder {
	if r.history == nil {
		return nil
	}
	history := r.history
	return func(query string, count int, err error) {
		if recErr := history.Record(query, count, err); recErr != nil {
			r.logger.Warn("failed to record search", "query", query, "error", recErr)
		}
	}
}

func (r *Runner) requireCatalogue() error {
	if r.catalogue == nil {
		return fmt.Errorf("%w: catalogue service not initialized", shared.ErrServiceUnavailable)
	}
	return nil
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	output, err := shared.MarshalJSON(data, pretty)
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writeBytes(data []byte) error {
	if _, err := r.output.Write(data); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
