// Package add ingests image files into the library.
package add

import (
	"context"
	"errors"
	"fmt"

	"github.com/fatih/color"

	"tableflip.dev/tierit/pkg/app"
	"tableflip.dev/tierit/pkg/ingest"
	"tableflip.dev/tierit/pkg/printers"
)

// Add reads Paths and puts every image found into the library.
type Add struct {
	Paths   []string
	ShowID  bool
	Quiet   bool
	Service *app.Service
}

func (n *Add) Do(ctx context.Context) error {
	if n.Service == nil {
		return errors.New("can not add, no service")
	}
	if len(n.Paths) == 0 {
		return errors.New("nothing to add, give at least one image path")
	}

	var progress ingest.Progress
	if !n.Quiet {
		faint := color.New(color.Faint)
		progress = func(done, total int) {
			_, _ = faint.Fprintf(color.Error, "\rreading %d/%d", done, total)
			if done == total {
				_, _ = fmt.Fprintln(color.Error, "")
			}
		}
	}

	res, err := ingest.Files(ctx, n.Paths, progress)
	if err != nil {
		return err
	}
	for _, e := range res.Errors {
		_, _ = color.New(color.FgYellow).Fprintf(color.Error, "skipped: %v\n", e)
	}
	if len(res.Blobs) == 0 {
		return fmt.Errorf("no images added, %d skipped", res.Skipped)
	}
	if err := n.Service.AddItems(ctx, res.Blobs...); err != nil {
		return err
	}

	pp := printers.PrettyPrint{ShowID: n.ShowID}
	pp.NewLine()
	pp.TitleWithCount("Library", len(n.Service.Board().Library()))
	pp.Library(n.Service.Board().Library())
	return nil
}
