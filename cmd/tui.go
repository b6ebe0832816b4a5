package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/smarterz/internal/shared"
	"github.com/desertthunder/smarterz/internal/ui"
	"github.com/urfave/cli/v3"
)

const tuiLogFile = "./tmp/smarterz-tui.log"

// TUI launches the interactive terminal UI for browsing batches and marking progress.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireUpstream(); err != nil {
		return err
	}

	store, closeStore, err := r.openStore()
	if err != nil {
		return err
	}
	defer closeStore()

	// Logs would corrupt the alternate screen.
	fileLogger, err := shared.NewFileLogger(tuiLogFile)
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	shared.SetLogLevel(fileLogger, r.logger.GetLevel())
	r.SetLogger(fileLogger)

	model := ui.NewModel(ctx, r.upstream, r.aggregator, store, r.config.Server.PlayerURL)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return model.Err()
}
