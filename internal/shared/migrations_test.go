package shared

import (
	"database/sql"
	"testing"
)

func memoryDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to create database: %v", err)
	}
	ConfigureDatabase(db, DatabaseConfig{Path: ":memory:"})
	t.Cleanup(func() { db.Close() })
	return db
}

func TestMigrationRunner(t *testing.T) {
	t.Run("loadMigrations", func(t *testing.T) {
		migrations, err := loadMigrations()
		if err != nil {
			t.Fatalf("failed to load migrations: %v", err)
		}

		if len(migrations) < 2 {
			t.Fatalf("expected at least two migrations, got %d", len(migrations))
		}

		for i := 1; i < len(migrations); i++ {
			if migrations[i].Version <= migrations[i-1].Version {
				t.Errorf("migrations not sorted: version %d comes after %d", migrations[i].Version, migrations[i-1].Version)
			}
		}

		if migrations[0].Name != "create_shows" {
			t.Errorf("expected first migration name create_shows, got %q", migrations[0].Name)
		}
	})

	t.Run("RunMigrations And Rollback", func(t *testing.T) {
		db := memoryDB(t)

		if err := RunMigrations(db); err != nil {
			t.Fatalf("failed to run migrations: %v", err)
		}

		if _, err := db.Exec("SELECT 1 FROM shows LIMIT 1"); err != nil {
			t.Errorf("shows table should exist after migrations: %v", err)
		}
		if _, err := db.Exec("SELECT 1 FROM search_history LIMIT 1"); err != nil {
			t.Errorf("search_history table should exist after migrations: %v", err)
		}

		if err := RollbackMigration(db); err != nil {
			t.Fatalf("failed to rollback migration: %v", err)
		}

		if _, err := db.Exec("SELECT 1 FROM search_history LIMIT 1"); err == nil {
			t.Error("search_history table should be dropped after rollback")
		}

		statuses, err := MigrationStatuses(db)
		if err != nil {
			t.Fatalf("failed to read statuses: %v", err)
		}
		if !statuses[0].Applied || statuses[1].Applied {
			t.Errorf("unexpected statuses after rollback: %+v", statuses)
		}
	})

	t.Run("Idempotent Migrations", func(t *testing.T) {
		db := memoryDB(t)

		if err := RunMigrations(db); err != nil {
			t.Fatalf("failed to run migrations first time: %v", err)
		}
		if err := RunMigrations(db); err != nil {
			t.Fatalf("failed to run migrations second time: %v", err)
		}

		var count int
		if err := db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&count); err != nil {
			t.Fatalf("failed to query schema_migrations: %v", err)
		}

		migrations, _ := loadMigrations()
		if count != len(migrations) {
			t.Errorf("expected %d migrations to be applied, got %d", len(migrations), count)
		}
	})

	t.Run("Rollback With Nothing Applied", func(t *testing.T) {
		db := memoryDB(t)
		if err := createMigrationsTable(db); err != nil {
			t.Fatalf("failed to create migrations table: %v", err)
		}
		if err := RollbackMigration(db); err == nil {
			t.Error("expected error when nothing to rollback")
		}
	})
}

func TestRemoveComments(t *testing.T) {
	got := removeComments("-- header\nCREATE TABLE x (id INTEGER) -- trailing\n")
	if got != "CREATE TABLE x (id INTEGER)" {
		t.Errorf("removeComments() = %q", got)
	}
}
