package board

import (
	"fmt"

	"tableflip.dev/tierit/pkg/drag"
	"tableflip.dev/tierit/pkg/item"
)

// Move is the intent captured by a drag: put Item, found at Source, at Target.
//
// Target.Index is an insert-before slot in the target tier as it looked
// before the move, which is what the pointer resolved against.
type Move struct {
	Item   item.Item
	Source drag.Location
	Target *drag.Location
}

// MoveFromSnapshot converts a drag snapshot into a Move. It reports false
// when nothing is being dragged.
func MoveFromSnapshot(s drag.Snapshot) (Move, bool) {
	if s.Item == nil {
		return Move{}, false
	}
	m := Move{Item: *s.Item, Source: s.Source}
	if s.Target != nil {
		t := *s.Target
		m.Target = &t
	}
	return m, true
}

// Commit applies m to b as a single step and returns the new board. On any
// error the returned board is b itself.
//
// A move without a target is ErrCancelled. A target tier that no longer
// exists, or a source that no longer holds the item, is ErrNotFound: the
// item is never inserted unless it was actually removed.
func Commit(b Board, m Move) (Board, error) {
	if m.Target == nil || !m.Item.Valid() {
		return b, ErrCancelled
	}
	target := *m.Target
	if target.IsTier() && b.tierIndex(target.TierID) < 0 {
		return b, fmt.Errorf("board: target tier %q: %w", target.TierID, ErrNotFound)
	}

	if m.Source.IsLibrary() && target.IsLibrary() {
		if !b.inLibrary(m.Item.ID) {
			return b, fmt.Errorf("board: library item %q: %w", m.Item.ID, ErrNotFound)
		}
		return b, nil
	}

	if m.Source.IsTier() {
		if err := b.checkSource(m); err != nil {
			return b, err
		}
	}

	if m.Source.IsTier() && m.Source.SameContainer(target) {
		idx := b.tierIndex(target.TierID)
		items, err := Reorder(b.tiers[idx].Items, m.Source.Index, target.Index)
		if err != nil {
			return b, err
		}
		return b.withTierItems(idx, items), nil
	}

	var (
		next    Board
		removed item.Item
		err     error
	)
	if m.Source.IsLibrary() {
		next, removed, err = b.RemoveFromLibrary(m.Item.ID)
	} else {
		next, removed, err = b.RemoveFromTier(m.Source.TierID, m.Source.Index)
	}
	if err != nil {
		return b, err
	}

	if target.IsLibrary() {
		next, err = next.AppendToLibrary(removed)
	} else {
		next, err = next.InsertIntoTier(target.TierID, target.Index, removed)
	}
	if err != nil {
		return b, err
	}
	return next, nil
}

// checkSource verifies the tier source still holds the dragged item at the
// recorded index.
func (b Board) checkSource(m Move) error {
	got, ok := b.At(m.Source)
	if !ok {
		return fmt.Errorf("board: source %s: %w", m.Source, ErrNotFound)
	}
	if got.ID != m.Item.ID {
		return fmt.Errorf("board: source %s holds %q, not %q: %w", m.Source, got.ID, m.Item.ID, ErrNotFound)
	}
	return nil
}

func (b Board) inLibrary(id string) bool {
	for _, it := range b.library {
		if it.ID == id {
			return true
		}
	}
	return false
}

// Reorder moves the item at from to the insert-before slot to, both measured
// against items as given, and returns a new slice. The slot is corrected for
// the removal, so to == from and to == from+1 both leave the order unchanged.
// items is not modified.
func Reorder(items []item.Item, from, to int) ([]item.Item, error) {
	if from < 0 || from >= len(items) {
		return nil, fmt.Errorf("board: reorder from %d of %d: %w: %w", from, len(items), ErrNotFound, ErrInvalidIndex)
	}
	to = clampIndex(to, len(items))
	if to > from {
		to--
	}
	moving := items[from]
	return insert(without(items, from), to, moving), nil
}
