// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// setupCommand handles database setup and migrations.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:  "database",
				Usage: "Create config.toml if missing, initialize the database and run migrations",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file",
						Value:   configFile,
					},
				},
				Action: r.SetupDatabase,
			},
			{
				Name:   "status",
				Usage:  "Show applied and pending migrations",
				Action: r.SetupStatus,
			},
			{
				Name:   "rollback",
				Usage:  "Roll back the most recently applied migration",
				Action: r.SetupRollback,
			},
		},
	}
}

// showsCommand handles show index browsing and details.
func showsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "shows",
		Usage: "Browse the TVmaze show index",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List one page of the show index",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "page",
						Usage: "Index page (about 250 shows per page)",
					},
					&cli.StringFlag{
						Name:    "genre",
						Aliases: []string{"g"},
						Usage:   "Only shows in this genre",
					},
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Output format: txt, csv, markdown or json",
						Value:   "txt",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Write the listing to this file instead of stdout",
					},
					&cli.BoolFlag{
						Name:  "offline",
						Usage: "Read shows from the local database instead of TVmaze",
					},
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of shows for --offline",
						Value: 250,
					},
				},
				Action: r.ShowsList,
			},
			{
				Name:  "genres",
				Usage: "List one page of the show index grouped by genre",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "page",
						Usage: "Index page",
					},
				},
				Action: r.ShowsGenres,
			},
			{
				Name:  "get",
				Usage: "Show details and cast for one show",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "id",
					},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
						Value: true,
					},
					&cli.StringFlag{
						Name:  "export",
						Usage: "Write README.md (and poster.jpg with --poster) into this directory",
					},
					&cli.BoolFlag{
						Name:  "poster",
						Usage: "Download the show poster when exporting",
					},
				},
				Action: r.ShowsGet,
			},
			{
				Name:  "open",
				Usage: "Open a show's TVmaze page in the browser",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "id",
					},
				},
				Action: r.ShowsOpen,
			},
		},
	}
}

// searchCommand runs a single show search.
func searchCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "search",
		Aliases:   []string{"s"},
		Usage:     "Search shows by name",
		ArgsUsage: "<query>",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Pretty-print output",
				Value: true,
			},
			&cli.BoolFlag{
				Name:  "offline",
				Usage: "Fuzzy-match against cached shows instead of calling TVmaze",
			},
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Maximum number of results (default: search.result_limit)",
			},
		},
		Action: r.Search,
	}
}

// historyCommand lists recorded searches.
func historyCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "List recent searches",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Maximum number of entries",
				Value: 20,
			},
			&cli.StringFlag{
				Name:  "query",
				Usage: "Only entries whose normalized query contains this text",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
		},
		Action: r.History,
	}
}

// cacheCommand handles the local show cache.
func cacheCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "cache",
		Usage: "Fill and query the local show cache",
		Commands: []*cli.Command{
			{
				Name:  "sync",
				Usage: "Fetch a range of index pages into the cache",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "from",
						Usage: "First page, inclusive",
					},
					&cli.IntFlag{
						Name:  "to",
						Usage: "Last page, inclusive",
						Value: 4,
					},
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Concurrent page fetchers (max 4)",
						Value: 2,
					},
				},
				Action: r.CacheSync,
			},
			{
				Name:      "find",
				Usage:     "Fuzzy-match cached show names",
				ArgsUsage: "<query>",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of matches",
						Value: 10,
					},
				},
				Action: r.CacheFind,
			},
			{
				Name:   "stats",
				Usage:  "Show cache and database counts",
				Action: r.CacheStats,
			},
		},
	}
}

// apiCommand handles direct API calls
func apiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "api",
		Usage: "Direct calls to the TVmaze API",
		Commands: []*cli.Command{
			{
				Name:  "get",
				Usage: "Direct GET to the TVmaze API, prints the response body",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "path",
					},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output compact JSON",
					},
				},
				Action: r.APIGet,
			},
		},
	}
}

// tuiCommand returns the top-level TUI command.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch the interactive catalogue browser",
		Action:  r.TUI,
	}
}

// serveCommand starts the JSON API server.
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the catalogue as a JSON API",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "host",
				Usage: "Listen host (default: server.host)",
			},
			&cli.IntFlag{
				Name:  "port",
				Usage: "Listen port (default: server.port)",
			},
		},
		Action: r.Serve,
	}
}
