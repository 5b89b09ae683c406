// Package transfer saves and loads whole boards as JSON documents.
package transfer

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/fatih/color"

	"tableflip.dev/tierit/pkg/app"
	"tableflip.dev/tierit/pkg/printers"
	"tableflip.dev/tierit/pkg/store"
)

// Export writes the board to Path, or stdout when Path is empty or "-".
type Export struct {
	Path    string
	Inline  bool
	Service *app.Service
}

func (n *Export) Do(_ context.Context) error {
	if n.Service == nil {
		return errors.New("can not export, no service")
	}
	doc, err := n.Service.Export(n.Inline)
	if err != nil {
		return err
	}
	data, err := doc.Encode()
	if err != nil {
		return err
	}
	if n.Path == "" || n.Path == "-" {
		_, err = fmt.Fprintln(color.Output, string(data))
		return err
	}
	if err := os.WriteFile(n.Path, data, 0o644); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(color.Error, "exported %d items to %s\n", n.Service.Board().Count(), n.Path)
	return nil
}

// Import replaces the board with the document at Path.
type Import struct {
	Path    string
	Service *app.Service
}

func (n *Import) Do(ctx context.Context) error {
	if n.Service == nil {
		return errors.New("can not import, no service")
	}
	data, err := os.ReadFile(n.Path)
	if err != nil {
		return err
	}
	doc, err := store.DecodeDocument(data)
	if err != nil {
		return err
	}
	violations, err := n.Service.Import(ctx, doc)
	if err != nil {
		return err
	}

	pp := printers.PrettyPrint{}
	pp.Violations(violations)
	pp.NewLine()
	pp.Board(n.Service.Board())
	pp.TitleWithCount("Library", len(n.Service.Board().Library()))
	return nil
}
