package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"wl/internal/driver"
	"wl/internal/ui"
)

type tokenizeOutcome struct {
	results []driver.TokenizeResult
	err     error
}

func runTokenizeDirWithUI(ctx context.Context, title string, files []string, dir string, opts driver.Options) ([]driver.TokenizeResult, error) {
	events := make(chan driver.PhaseEvent, 256)
	outcomeCh := make(chan tokenizeOutcome, 1)

	go func() {
		optsCopy := opts
		optsCopy.Observer = driver.ChannelObserver(events)
		res, err := driver.TokenizeDir(ctx, dir, optsCopy)
		outcomeCh <- tokenizeOutcome{results: res, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, files, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stderr), tea.WithContext(ctx))
	_, uiErr := program.Run()
	// keep workers unblocked if the UI quit early
	go func() {
		for range events {
		}
	}()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.results, uiErr
	}
	return outcome.results, outcome.err
}
