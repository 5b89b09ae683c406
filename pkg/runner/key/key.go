// Package key prints the board UI key bindings.
package key

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	teaui "tableflip.dev/tierit/pkg/tui/app"
)

// Key prints the legend of the terminal board.
type Key struct{}

// Do renders the key table to stdout.
func (k *Key) Do(_ context.Context) error {
	bold := color.New(color.Bold)

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(bold.Sprint("Keys"), bold.Sprint("Action"))
	for _, kd := range teaui.Legend() {
		tbl.AddRow(kd[0], kd[1])
	}
	tbl.RightAlign(0)

	_, _ = fmt.Fprintln(color.Output, "")
	_, _ = fmt.Fprintln(color.Output, tbl)
	_, _ = fmt.Fprintln(color.Output, "")
	return nil
}
