package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/tvx/internal/shared"
)

// SetupDatabase initializes the database and runs migrations.
func (r *Runner) SetupDatabase(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")

	var config *shared.Config
	if _, err := os.Stat(configPath); err == nil {
		if config, err = shared.LoadConfig(configPath); err != nil {
			r.logger.Warn("failed to load config, using defaults", "error", err)
			config = shared.DefaultConfig()
		}
	} else {
		r.logger.Info("config file not found, creating from template", "path", configPath)
		if err := shared.CreateConfigFile(configPath); err != nil {
			r.logger.Warn("failed to create config file, using defaults", "error", err)
			config = shared.DefaultConfig()
		} else {
			r.logger.Info("config file created", "path", configPath)
			if config, err = shared.LoadConfig(configPath); err != nil {
				r.logger.Warn("failed to load created config, using defaults", "error", err)
				config = shared.DefaultConfig()
			}
		}
	}

	r.logger.Info("initializing database", "path", config.Database.Path)

	db, err := shared.NewDatabase(config.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to create database: %w", err)
	}
	defer db.Close()

	shared.ConfigureDatabase(db, config.Database)

	r.logger.Info("running database migrations")
	if err := shared.RunMigrations(db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	r.logger.Infof("setup complete for database: %v", config.Database.Path)

	r.writePlain("✓ Database ready at %s\n", config.Database.Path)
	return r.printMigrations(db)
}

// SetupStatus prints every known migration and whether it has been applied.
func (r *Runner) SetupStatus(ctx context.Context, cmd *cli.Command) error {
	db, err := r.database()
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	return r.printMigrations(db)
}

// SetupRollback reverts the most recent migration.
func (r *Runner) SetupRollback(ctx context.Context, cmd *cli.Command) error {
	db, err := r.database()
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	if err := shared.RollbackMigration(db); err != nil {
		return fmt.Errorf("failed to roll back migration: %w", err)
	}
	r.writePlain("✓ Rolled back latest migration\n")
	return r.printMigrations(db)
}

func (r *Runner) printMigrations(db *sql.DB) error {
	statuses, err := shared.MigrationStatuses(db)
	if err != nil {
		return err
	}

	r.writePlainln("Migrations:")
	for _, s := range statuses {
		mark := "pending"
		if s.Applied {
			mark = "applied"
		}
		r.writePlain("  %04d %-24s %s\n", s.Version, s.Name, mark)
	}
	return nil
}
