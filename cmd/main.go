package main

import (
	"context"
	"errors"
	"net/http"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/tvx/internal/cache"
	"github.com/desertthunder/tvx/internal/services"
	"github.com/desertthunder/tvx/internal/shared"
)

const configFile = "config.toml"

func main() {
	logger := shared.NewLogger(nil)

	config := shared.DefaultConfig()
	if _, err := os.Stat(configFile); err == nil {
		if loadedConfig, err := shared.LoadConfig(configFile); err == nil {
			config = loadedConfig
		} else {
			logger.Warn("failed to load config, using defaults", "path", configFile, "error", err)
		}
	}

	client := &http.Client{Timeout: config.API.Timeout()}
	tvmaze := services.NewTVMazeService(services.TVMazeOpts{
		BaseURL:       config.API.BaseURL,
		UserAgent:     config.API.UserAgent,
		RatePerSecond: config.API.RatePerSecond,
		Burst:         config.API.Burst,
		Client:        client,
	})
	apiService := services.NewAPIService(config.API.BaseURL, client).WithUserAgent(config.API.UserAgent)

	runner := NewRunner(RunnerOpts{
		Config:       config,
		Catalogue:    tvmaze,
		API:          apiService,
		ShowCache:    cache.NewShowCache(),
		DetailsCache: cache.NewDetailsCache(config.Cache.DetailsTTL()),
		Logger:       logger,
	})
	defer runner.Close()

	if err := newApp(runner).Run(context.Background(), os.Args); err != nil {
		err_ := errors.Unwrap(err)
		if errors.Is(err_, shared.ErrNotImplemented) {
			logger.Warn("not implemented")
			runner.Close()
			os.Exit(0)
		} else {
			runner.Close()
			logger.Fatalf("application error: %v", err)
		}
	}
}

// newApp builds the root command around r.
func newApp(r *Runner) *cli.Command {
	return &cli.Command{
		Name:     "tvx",
		Usage:    "Browse, search and cache the TVmaze catalogue",
		Version:  "0.1.0",
		Writer:   r.output,
		Commands: r.register(),
	}
}
