package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/tvx/internal/server"
)

// Serve exposes the catalogue as a JSON API until interrupted.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireCatalogue(); err != nil {
		return err
	}
	r.attachPersistence()

	cfg := r.config.Server
	if cmd.IsSet("host") {
		cfg.Host = cmd.String("host")
	}
	if cmd.IsSet("port") {
		cfg.Port = cmd.Int("port")
	}

	handler := server.NewCatalogueHandler(r.engine, server.CatalogueOpts{
		BaseURL:     r.config.API.BaseURL,
		ResultLimit: r.config.Search.ResultLimit,
		Recorder:    r.recorder(),
		Logger:      r.logger,
	})

	router := server.NewBasicRouter()
	router.Use(server.RequestLogger(r.logger))
	router.Use(server.Recoverer(r.logger))
	if cfg.RatePerSecond > 0 {
		limiter := server.NewRateLimiter(cfg.RatePerSecond, cfg.Burst)
		defer limiter.Stop()
		router.Use(server.RateLimit(limiter, r.logger))
	}
	router.Handler(handler)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.New(cfg.Addr(), router, r.logger)
	r.writePlain("→ Serving catalogue on http://%s\n", cfg.Addr())
	if err := srv.ListenAndServe(ctx); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	r.writePlain("✓ Server stopped\n")
	return nil
}
