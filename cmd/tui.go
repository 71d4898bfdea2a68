package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mikehinnen/spotify-cycling-sorter/internal/shared"
	"github.com/mikehinnen/spotify-cycling-sorter/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive terminal UI for sorting and publishing playlists.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	if r.service == nil {
		return fmt.Errorf("%w: Spotify service not initialized", shared.ErrServiceUnavailable)
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger("./tmp/cysort-tui.log")
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)

	publish := ui.PublishConfig{
		NameSuffix: r.config.Sorter.NameSuffix,
		Public:     r.config.Sorter.Public,
	}

	model := ui.NewModel(ctx, r.service, publish)
	p := tea.NewProgram(model)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
