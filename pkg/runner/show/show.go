// Package show prints the board.
package show

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/fatih/color"

	"tableflip.dev/tierit/pkg/app"
	"tableflip.dev/tierit/pkg/printers"
)

// Show prints every tier and the library. TierID limits it to one tier.
type Show struct {
	ShowID  bool
	JSON    bool
	TierID  string
	Service *app.Service
}

func (n *Show) Do(ctx context.Context) error {
	if n.Service == nil {
		return errors.New("can not show, no service")
	}
	b := n.Service.Board()

	if n.JSON {
		var v any = b.State()
		if n.TierID != "" {
			t, ok := b.Tier(n.TierID)
			if !ok {
				return fmt.Errorf("unknown tier %q", n.TierID)
			}
			v = t
		}
		out, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintln(color.Output, string(out))
		return nil
	}

	pp := printers.PrettyPrint{ShowID: n.ShowID}
	pp.NewLine()

	if n.TierID != "" {
		t, ok := b.Tier(n.TierID)
		if !ok {
			return fmt.Errorf("unknown tier %q", n.TierID)
		}
		pp.TitleWithCount(t.Name, t.Len())
		pp.Library(t.Items)
		return nil
	}

	pp.Board(b)
	pp.TitleWithCount("Library", len(b.Library()))
	pp.Library(b.Library())
	return nil
}
