package main

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/desertthunder/tvx/internal/cache"
	"github.com/desertthunder/tvx/internal/services"
	"github.com/desertthunder/tvx/internal/shared"
	tu "github.com/desertthunder/tvx/internal/testing"
)

func TestRunner(t *testing.T) {
	t.Run("NewRunner", func(t *testing.T) {
		t.Run("with all dependencies provided", func(t *testing.T) {
			config := shared.DefaultConfig()
			logger := shared.NewLogger(nil)
			output := &bytes.Buffer{}
			catalogue := tu.NewMockCatalogue()
			api := &services.APIService{}
			shows := cache.NewShowCache()

			runner := NewRunner(RunnerOpts{
				Config:    config,
				Logger:    logger,
				Output:    output,
				Catalogue: catalogue,
				API:       api,
				ShowCache: shows,
			})

			if runner.config != config {
				t.Error("expected config to be set")
			}
			if runner.logger != logger {
				t.Error("expected logger to be set")
			}
			if runner.output != output {
				t.Error("expected output to be set")
			}
			if runner.catalogue != catalogue {
				t.Error("expected catalogue to be set")
			}
			if runner.api != api {
				t.Error("expected api to be set")
			}
			if runner.shows != shows || runner.engine.Shows() != shows {
				t.Error("expected show cache to be shared with the engine")
			}
		})

		t.Run("with nil config uses defaults", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{
				Config: nil,
			})

			if runner.config == nil {
				t.Error("expected default config to be set")
			}
		})

		t.Run("with nil logger uses default", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{
				Logger: nil,
			})

			if runner.logger == nil {
				t.Error("expected default logger to be set")
			}
		})

		t.Run("with nil output uses stdout", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{
				Output: nil,
			})

			if runner.output != os.Stdout {
				t.Error("expected output to default to os.Stdout")
			}
		})

		t.Run("with nil API builds one from config", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})

			if runner.api == nil {
				t.Error("expected API service to be created")
			}
		})

		t.Run("with database wires repositories", func(t *testing.T) {
			db := memoryDB(t)
			runner := NewRunner(RunnerOpts{DB: db})

			if runner.showDB == nil || runner.history == nil {
				t.Fatal("expected repositories to be wired")
			}
			if runner.recorder() == nil {
				t.Error("expected a history recorder")
			}

			runner.Close()
			if err := db.Ping(); err != nil {
				t.Errorf("expected borrowed database to stay open, got %v", err)
			}
		})

		t.Run("without database has no recorder", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})
			if runner.recorder() != nil {
				t.Error("expected nil recorder")
			}
		})
	})

	t.Run("writeJSON", func(t *testing.T) {
		t.Run("writes formatted JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			data := map[string]string{"key": "value"}
			err := runner.writeJSON(data, true)

			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			result := output.String()
			if !strings.Contains(result, `"key": "value"`) {
				t.Errorf("expected formatted JSON, got %s", result)
			}
			if !strings.HasSuffix(result, "\n") {
				t.Error("expected output to end with newline")
			}
		})

		t.Run("writes compact JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			data := map[string]string{"key": "value"}
			err := runner.writeJSON(data, false)

			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			result := output.String()
			expected := `{"key":"value"}` + "\n"
			if result != expected {
				t.Errorf("expected %q, got %q", expected, result)
			}
		})

		t.Run("handles marshal error with non-serializable data", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			// channels cannot be marshaled to JSON
			data := make(chan int)
			err := runner.writeJSON(data, false)

			if err == nil {
				t.Fatal("expected error for non-serializable data")
			}
			if !strings.Contains(err.Error(), "failed to marshal JSON") {
				t.Errorf("expected marshal error, got %v", err)
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			failing := &tu.FWriter{}
			runner := NewRunner(RunnerOpts{Output: failing})

			data := map[string]string{"key": "value"}
			err := runner.writeJSON(data, false)

			if err == nil {
				t.Fatal("expected error from failing writer")
			}
			if !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})

		t.Run("handles newline write failure", func(t *testing.T) {
			data := map[string]string{"key": "value"}
			limitedWriter := tu.NewLimitedWriter(1, 0, &bytes.Buffer{})
			runner := NewRunner(RunnerOpts{Output: &limitedWriter})

			err := runner.writeJSON(data, false)

			if err == nil {
				t.Fatal("expected error writing newline")
			}
			if !strings.Contains(err.Error(), "failed to write newline") {
				t.Errorf("expected newline write error, got %v", err)
			}
		})
	})

	t.Run("writePlain", func(t *testing.T) {
		t.Run("writes plain text successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			err := runner.writePlain("hello %s", "world")

			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			result := output.String()
			if result != "hello world" {
				t.Errorf("expected 'hello world', got %q", result)
			}
		})

		t.Run("writePlainln surrounds text with newlines", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writePlainln("✓ Synced %d pages", 2); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if got := output.String(); got != "\n✓ Synced 2 pages\n" {
				t.Errorf("unexpected output %q", got)
			}
		})

		t.Run("writePlainHeader frames the title", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			runner.writePlainHeader("Cache")
			lines := strings.Split(strings.TrimSpace(output.String()), "\n")
			if len(lines) != 3 || lines[1] != "Cache" || lines[0] != lines[2] {
				t.Errorf("unexpected header %q", output.String())
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			failing := &tu.FWriter{}
			runner := NewRunner(RunnerOpts{Output: failing})

			err := runner.writePlain("test")

			if err == nil {
				t.Fatal("expected error from failing writer")
			}
			if !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})
	})

	t.Run("register", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{})
		commands := runner.register()

		if len(commands) == 0 {
			t.Error("expected at least one command to be registered")
		}

		names := map[string]bool{}
		for i, cmd := range commands {
			if cmd == nil {
				t.Errorf("command at index %d is nil", i)
				continue
			}
			names[cmd.Name] = true
		}
		for _, want := range []string{"setup", "shows", "search", "history", "cache", "api", "tui", "serve"} {
			if !names[want] {
				t.Errorf("expected %q command to be registered", want)
			}
		}
	})
}
