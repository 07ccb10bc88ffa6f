package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v3"

	"github.com/desertthunder/tvx/internal/shared"
	"github.com/desertthunder/tvx/internal/ui"
)

// TUI launches the interactive terminal browser and search.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireCatalogue(); err != nil {
		return err
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger("./tmp/tvx-tui.log")
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)
	r.attachPersistence()

	model := ui.NewModel(ctx, r.engine, ui.Opts{
		Debounce: r.config.Search.Debounce(),
		BaseURL:  r.config.API.BaseURL,
		Recorder: r.recorder(),
		Logger:   fileLogger,
	})
	defer model.Close()

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
