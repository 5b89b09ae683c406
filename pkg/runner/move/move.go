// Package move drags items around from the command line.
package move

import (
	"context"
	"errors"

	"tableflip.dev/tierit/pkg/app"
	"tableflip.dev/tierit/pkg/drag"
	"tableflip.dev/tierit/pkg/printers"
)

// Move drops the item with ID, or a unique prefix of it, on Target.
type Move struct {
	ID      string
	Target  drag.Location
	ShowID  bool
	Service *app.Service
}

func (n *Move) Do(ctx context.Context) error {
	if n.Service == nil {
		return errors.New("can not move, no service")
	}
	if err := n.Service.Move(ctx, n.ID, n.Target); err != nil {
		return err
	}
	show(n.Service, n.ShowID)
	return nil
}

// Return ejects an item from its tier back into the library.
type Return struct {
	ID      string
	ShowID  bool
	Service *app.Service
}

func (n *Return) Do(ctx context.Context) error {
	if n.Service == nil {
		return errors.New("can not return, no service")
	}
	loc, it, err := n.Service.Board().FindPrefix(n.ID)
	if err != nil {
		return err
	}
	if loc.IsLibrary() {
		return errors.New("item is already in the library")
	}
	if err := n.Service.ReturnToLibrary(ctx, it.ID, loc.TierID); err != nil {
		return err
	}
	show(n.Service, n.ShowID)
	return nil
}

// Delete removes a library item and its image for good.
type Delete struct {
	ID      string
	ShowID  bool
	Service *app.Service
}

func (n *Delete) Do(ctx context.Context) error {
	if n.Service == nil {
		return errors.New("can not delete, no service")
	}
	loc, it, err := n.Service.Board().FindPrefix(n.ID)
	if err != nil {
		return err
	}
	if !loc.IsLibrary() {
		return errors.New("only library items can be deleted, return it first")
	}
	if err := n.Service.DeleteLibraryItem(ctx, it.ID); err != nil {
		return err
	}
	show(n.Service, n.ShowID)
	return nil
}

func show(svc *app.Service, showID bool) {
	b := svc.Board()
	pp := printers.PrettyPrint{ShowID: showID}
	pp.NewLine()
	pp.Board(b)
	pp.TitleWithCount("Library", len(b.Library()))
	pp.Library(b.Library())
}
