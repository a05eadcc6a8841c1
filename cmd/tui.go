package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/trackbrowse/internal/browse"
	"github.com/desertthunder/trackbrowse/internal/shared"
	"github.com/desertthunder/trackbrowse/internal/ui"
	"github.com/urfave/cli/v3"
)

const tuiLogPath = "./tmp/trackbrowse-tui.log"

// TUI launches the interactive track browser.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger(tuiLogPath)
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.logger = fileLogger
	r.catalog = r.newCatalog(ctx)

	var (
		invoiced browse.InvoicedItems
		invoicer ui.Invoicer
	)
	if repo, err := r.invoices(); err != nil {
		r.logger.Warn("invoice unavailable", "error", err)
	} else {
		invoiced, invoicer = repo, repo
		defer r.Close()
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	events := make(chan browse.Event, 64)
	session := r.newSession(invoiced, browse.Options{Events: events})

	model := ui.NewModel(ctx, session, events, invoicer)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
