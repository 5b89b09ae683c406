// Package ui opens the interactive board.
package ui

import (
	"context"
	"errors"
	"os"

	"github.com/mattn/go-isatty"

	"tableflip.dev/tierit/pkg/app"
	teaui "tableflip.dev/tierit/pkg/tui/app"
)

// ErrNoTerminal is returned when stdout is not an interactive terminal.
var ErrNoTerminal = errors.New("ui: stdout is not a terminal, try 'tierit show'")

type UI struct {
	Service *app.Service
}

func (d *UI) Do(ctx context.Context) error {
	if d.Service == nil {
		return errors.New("can not open ui, no service")
	}
	fd := os.Stdout.Fd()
	if !isatty.IsTerminal(fd) && !isatty.IsCygwinTerminal(fd) {
		return ErrNoTerminal
	}
	return teaui.Run(ctx, d.Service)
}
