// Package board holds the authoritative ranking state: a library of unranked
// items plus an ordered list of tiers, and the atomic move that shifts an
// item between them.
//
// Board is a value. Every mutation validates first and returns a new Board;
// the receiver and any slices it has handed out are never modified, so a
// failed mutation leaves the caller's board exactly as it was.
package board

import (
	"fmt"
	"strings"

	"tableflip.dev/tierit/pkg/drag"
	"tableflip.dev/tierit/pkg/item"
)

// State is the plain data form of a Board, used for persistence and display.
type State struct {
	Tiers   []Tier      `json:"tiers"`
	Library []item.Item `json:"libraryItems"`
}

// Board is one immutable version of the ranking state.
type Board struct {
	tiers   []Tier
	library []item.Item
}

// New returns a board with the given tiers and an empty library.
func New(tiers ...Tier) (Board, error) {
	var b Board
	for _, t := range tiers {
		next, err := b.AddTier(t)
		if err != nil {
			return Board{}, err
		}
		b = next
	}
	return b, nil
}

// Default returns a board seeded with DefaultTiers.
func Default() Board {
	b, err := New(DefaultTiers()...)
	if err != nil {
		panic(err)
	}
	return b
}

// State returns a deep copy of the board's data.
func (b Board) State() State {
	return State{Tiers: b.Tiers(), Library: b.Library()}
}

// Tiers returns copies of the tiers in display order.
func (b Board) Tiers() []Tier {
	out := make([]Tier, len(b.tiers))
	for i, t := range b.tiers {
		out[i] = t.clone()
	}
	return out
}

// Tier returns a copy of the tier with the given id.
func (b Board) Tier(id string) (Tier, bool) {
	idx := b.tierIndex(id)
	if idx < 0 {
		return Tier{}, false
	}
	return b.tiers[idx].clone(), true
}

// TierLen returns the item count of a tier.
func (b Board) TierLen(id string) (int, bool) {
	idx := b.tierIndex(id)
	if idx < 0 {
		return 0, false
	}
	return len(b.tiers[idx].Items), true
}

// Library returns a copy of the library in display order.
func (b Board) Library() []item.Item {
	out := item.Clone(b.library)
	if out == nil {
		out = []item.Item{}
	}
	return out
}

// Count returns the number of items on the board, library included.
func (b Board) Count() int {
	n := len(b.library)
	for _, t := range b.tiers {
		n += len(t.Items)
	}
	return n
}

// Find locates an item by id. Tier locations carry the item's index.
func (b Board) Find(itemID string) (drag.Location, item.Item, bool) {
	for _, it := range b.library {
		if it.ID == itemID {
			return drag.Library(), it, true
		}
	}
	for _, t := range b.tiers {
		if idx := t.IndexOf(itemID); idx >= 0 {
			return drag.Tier(t.ID, idx), t.Items[idx], true
		}
	}
	return drag.Location{}, item.Item{}, false
}

// FindPrefix locates an item by id or unique id prefix.
func (b Board) FindPrefix(prefix string) (drag.Location, item.Item, error) {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return drag.Location{}, item.Item{}, fmt.Errorf("board: item %q: %w", prefix, ErrNotFound)
	}
	if loc, it, ok := b.Find(prefix); ok {
		return loc, it, nil
	}
	var (
		found   item.Item
		matches int
	)
	visit := func(it item.Item) {
		if strings.HasPrefix(it.ID, prefix) {
			found = it
			matches++
		}
	}
	for _, it := range b.library {
		visit(it)
	}
	for _, t := range b.tiers {
		for _, it := range t.Items {
			visit(it)
		}
	}
	switch matches {
	case 0:
		return drag.Location{}, item.Item{}, fmt.Errorf("board: item %q: %w", prefix, ErrNotFound)
	case 1:
		loc, it, _ := b.Find(found.ID)
		return loc, it, nil
	default:
		return drag.Location{}, item.Item{}, fmt.Errorf("board: item prefix %q is ambiguous (%d matches)", prefix, matches)
	}
}

// At returns the item at loc. Library locations are not addressable by index.
func (b Board) At(loc drag.Location) (item.Item, bool) {
	if !loc.IsTier() {
		return item.Item{}, false
	}
	idx := b.tierIndex(loc.TierID)
	if idx < 0 {
		return item.Item{}, false
	}
	items := b.tiers[idx].Items
	if loc.Index < 0 || loc.Index >= len(items) {
		return item.Item{}, false
	}
	return items[loc.Index], true
}

// RemoveFromLibrary takes the item with id out of the library.
func (b Board) RemoveFromLibrary(id string) (Board, item.Item, error) {
	pos := -1
	for i, it := range b.library {
		if it.ID == id {
			pos = i
			break
		}
	}
	if pos < 0 {
		return b, item.Item{}, fmt.Errorf("board: library item %q: %w", id, ErrNotFound)
	}
	removed := b.library[pos]
	next := b.shallow()
	next.library = without(b.library, pos)
	return next, removed, nil
}

// RemoveFromTier takes the item at index out of the tier.
func (b Board) RemoveFromTier(tierID string, index int) (Board, item.Item, error) {
	idx := b.tierIndex(tierID)
	if idx < 0 {
		return b, item.Item{}, fmt.Errorf("board: tier %q: %w", tierID, ErrNotFound)
	}
	items := b.tiers[idx].Items
	if index < 0 || index >= len(items) {
		return b, item.Item{}, fmt.Errorf("board: tier %q index %d: %w: %w", tierID, index, ErrNotFound, ErrInvalidIndex)
	}
	removed := items[index]
	return b.withTierItems(idx, without(items, index)), removed, nil
}

// InsertIntoTier places it before slot index of the tier. The index is
// clamped to [0, len].
func (b Board) InsertIntoTier(tierID string, index int, it item.Item) (Board, error) {
	idx := b.tierIndex(tierID)
	if idx < 0 {
		return b, fmt.Errorf("board: tier %q: %w", tierID, ErrNotFound)
	}
	if err := b.checkNew(it); err != nil {
		return b, err
	}
	return b.withTierItems(idx, insert(b.tiers[idx].Items, index, it)), nil
}

// AppendToLibrary adds it at the end of the library.
func (b Board) AppendToLibrary(it item.Item) (Board, error) {
	if err := b.checkNew(it); err != nil {
		return b, err
	}
	next := b.shallow()
	next.library = insert(b.library, len(b.library), it)
	return next, nil
}

// AddTier appends an empty-or-populated tier. Items carried by t must not
// already be on the board.
func (b Board) AddTier(t Tier) (Board, error) {
	if err := t.validate(); err != nil {
		return b, err
	}
	if b.tierIndex(t.ID) >= 0 {
		return b, fmt.Errorf("%w: %q", ErrDuplicateTier, t.ID)
	}
	seen := make(map[string]struct{}, len(t.Items))
	for _, it := range t.Items {
		if _, dup := seen[it.ID]; dup {
			return b, fmt.Errorf("board: tier %q item %q: %w", t.ID, it.ID, ErrInvariantViolation)
		}
		seen[it.ID] = struct{}{}
		if err := b.checkNew(it); err != nil {
			return b, err
		}
	}
	t = t.clone()
	t.Color = NormalizeColor(t.Color)
	next := b.shallow()
	next.tiers = make([]Tier, len(b.tiers), len(b.tiers)+1)
	copy(next.tiers, b.tiers)
	next.tiers = append(next.tiers, t)
	return next, nil
}

// RemoveTier drops the tier and returns its items. The caller must re-home
// them; DeleteTier does so.
func (b Board) RemoveTier(tierID string) (Board, []item.Item, error) {
	idx := b.tierIndex(tierID)
	if idx < 0 {
		return b, nil, fmt.Errorf("board: tier %q: %w", tierID, ErrNotFound)
	}
	removed := item.Clone(b.tiers[idx].Items)
	next := b.shallow()
	next.tiers = make([]Tier, 0, len(b.tiers)-1)
	next.tiers = append(next.tiers, b.tiers[:idx]...)
	next.tiers = append(next.tiers, b.tiers[idx+1:]...)
	return next, removed, nil
}

// RenameTier changes the label of a tier.
func (b Board) RenameTier(tierID, name, color string) (Board, error) {
	idx := b.tierIndex(tierID)
	if idx < 0 {
		return b, fmt.Errorf("board: tier %q: %w", tierID, ErrNotFound)
	}
	t := b.tiers[idx]
	t.Name = strings.TrimSpace(name)
	t.Color = strings.TrimSpace(color)
	if err := t.validate(); err != nil {
		return b, err
	}
	t.Color = NormalizeColor(t.Color)
	return b.withTier(idx, t), nil
}

// DeleteTier removes a tier and appends its items, in rank order, to the
// library in the same step. Items are never discarded.
func (b Board) DeleteTier(tierID string) (Board, error) {
	next, items, err := b.RemoveTier(tierID)
	if err != nil {
		return b, err
	}
	lib := make([]item.Item, 0, len(next.library)+len(items))
	lib = append(lib, next.library...)
	lib = append(lib, items...)
	next.library = lib
	return next, nil
}

// ReturnToLibrary ejects itemID from the tier back into the library.
func (b Board) ReturnToLibrary(itemID, tierID string) (Board, error) {
	idx := b.tierIndex(tierID)
	if idx < 0 {
		return b, fmt.Errorf("board: tier %q: %w", tierID, ErrNotFound)
	}
	pos := b.tiers[idx].IndexOf(itemID)
	if pos < 0 {
		return b, fmt.Errorf("board: item %q in tier %q: %w", itemID, tierID, ErrNotFound)
	}
	target := drag.Library()
	return Commit(b, Move{
		Item:   b.tiers[idx].Items[pos],
		Source: drag.Tier(tierID, pos),
		Target: &target,
	})
}

// DeleteLibraryItem permanently removes an item from the library. Items must
// be returned to the library before they can be deleted.
func (b Board) DeleteLibraryItem(id string) (Board, item.Item, error) {
	return b.RemoveFromLibrary(id)
}

func (b Board) tierIndex(id string) int {
	for i, t := range b.tiers {
		if t.ID == id {
			return i
		}
	}
	return -1
}

func (b Board) checkNew(it item.Item) error {
	if !it.Valid() {
		return fmt.Errorf("board: item without id: %w", ErrInvariantViolation)
	}
	if _, _, ok := b.Find(it.ID); ok {
		return fmt.Errorf("board: item %q already placed: %w", it.ID, ErrInvariantViolation)
	}
	return nil
}

// shallow copies the board header. Slices stay shared and must be replaced,
// never written through.
func (b Board) shallow() Board {
	return Board{tiers: b.tiers, library: b.library}
}

func (b Board) withTier(idx int, t Tier) Board {
	next := b.shallow()
	next.tiers = make([]Tier, len(b.tiers))
	copy(next.tiers, b.tiers)
	next.tiers[idx] = t
	return next
}

func (b Board) withTierItems(idx int, items []item.Item) Board {
	t := b.tiers[idx]
	t.Items = items
	return b.withTier(idx, t)
}

func without(items []item.Item, pos int) []item.Item {
	out := make([]item.Item, 0, len(items)-1)
	out = append(out, items[:pos]...)
	return append(out, items[pos+1:]...)
}

func insert(items []item.Item, index int, it item.Item) []item.Item {
	index = clampIndex(index, len(items))
	out := make([]item.Item, 0, len(items)+1)
	out = append(out, items[:index]...)
	out = append(out, it)
	return append(out, items[index:]...)
}

func clampIndex(index, length int) int {
	if index < 0 {
		return 0
	}
	if index > length {
		return length
	}
	return index
}
