// Package tier manages the tiers of the board.
package tier

import (
	"context"
	"errors"
	"fmt"

	"github.com/fatih/color"

	"tableflip.dev/tierit/pkg/app"
	"tableflip.dev/tierit/pkg/printers"
)

// Add appends a new tier.
type Add struct {
	Name    string
	Color   string
	Service *app.Service
}

func (n *Add) Do(ctx context.Context) error {
	if n.Service == nil {
		return errors.New("can not add tier, no service")
	}
	t, err := n.Service.AddTier(ctx, n.Name, n.Color)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(color.Output, "added %s (%s)\n", printers.Chip(t.Color, t.Name), t.ID)
	return nil
}

// Rename changes the name and, when Color is set, the colour of a tier.
type Rename struct {
	ID      string
	Name    string
	Color   string
	Service *app.Service
}

func (n *Rename) Do(ctx context.Context) error {
	if n.Service == nil {
		return errors.New("can not rename tier, no service")
	}
	name := n.Name
	if name == "" {
		t, ok := n.Service.Board().Tier(n.ID)
		if !ok {
			return fmt.Errorf("unknown tier %q", n.ID)
		}
		name = t.Name
	}
	if err := n.Service.RenameTier(ctx, n.ID, name, n.Color); err != nil {
		return err
	}
	t, _ := n.Service.Board().Tier(n.ID)
	_, _ = fmt.Fprintf(color.Output, "renamed %s\n", printers.Chip(t.Color, t.Name))
	return nil
}

// Delete removes a tier. Its items go back to the library.
type Delete struct {
	ID      string
	Service *app.Service
}

func (n *Delete) Do(ctx context.Context) error {
	if n.Service == nil {
		return errors.New("can not delete tier, no service")
	}
	t, ok := n.Service.Board().Tier(n.ID)
	if !ok {
		return fmt.Errorf("unknown tier %q", n.ID)
	}
	if err := n.Service.DeleteTier(ctx, n.ID); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(color.Output, "deleted %s, %d returned to the library\n", printers.Chip(t.Color, t.Name), t.Len())
	return nil
}
