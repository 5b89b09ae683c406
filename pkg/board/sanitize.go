package board

import (
	"fmt"
	"strings"

	"tableflip.dev/tierit/pkg/item"
)

// Violation describes one repair Sanitize made to untrusted state.
type Violation struct {
	TierID string
	ItemID string
	Reason string
}

func (v Violation) Error() string {
	var b strings.Builder
	b.WriteString("board: ")
	if v.TierID != "" {
		fmt.Fprintf(&b, "tier %q: ", v.TierID)
	}
	if v.ItemID != "" {
		fmt.Fprintf(&b, "item %q: ", v.ItemID)
	}
	b.WriteString(v.Reason)
	return b.String()
}

// Unwrap lets errors.Is match ErrInvariantViolation.
func (v Violation) Unwrap() error {
	return ErrInvariantViolation
}

// Sanitize builds a Board from state that may have been hand edited, written
// by an older version, or otherwise not trusted. It never fails; it repairs:
//
//   - tiers without an id, or repeating an earlier tier id, are dropped and
//     their items go to the library;
//   - a tier with a bad name or color gets the defaults;
//   - items without an id are dropped, since they cannot be addressed;
//   - an item id seen more than once is quarantined: every tier copy is
//     removed and a single copy (the first seen) is kept in the library.
//
// Every repair is reported as a Violation.
func Sanitize(s State) (Board, []Violation) {
	var violations []Violation
	report := func(tierID, itemID, reason string) {
		violations = append(violations, Violation{TierID: tierID, ItemID: itemID, Reason: reason})
	}

	type slot struct {
		tier  Tier
		items []item.Item
	}
	var (
		tiers   []slot
		orphans []item.Item
		tierIDs = map[string]struct{}{}
	)
	for _, t := range s.Tiers {
		t.ID = strings.TrimSpace(t.ID)
		switch _, dup := tierIDs[t.ID]; {
		case t.ID == "":
			report("", "", "tier without id dropped, items returned to library")
			orphans = append(orphans, t.Items...)
			continue
		case dup:
			report(t.ID, "", "duplicate tier dropped, items returned to library")
			orphans = append(orphans, t.Items...)
			continue
		}
		tierIDs[t.ID] = struct{}{}
		label := Tier{ID: t.ID, Name: strings.TrimSpace(t.Name), Color: strings.TrimSpace(t.Color)}
		if err := label.validate(); err != nil {
			fixed, ferr := NewTier(t.ID, truncateName(label.Name), label.Color)
			if ferr != nil {
				fixed, ferr = NewTier(t.ID, truncateName(label.Name), DefaultColor)
			}
			if ferr != nil {
				fixed, ferr = NewTier(t.ID, DefaultName, DefaultColor)
			}
			if ferr != nil {
				report(t.ID, "", "tier id unusable, items returned to library")
				orphans = append(orphans, t.Items...)
				continue
			}
			report(t.ID, "", "invalid label replaced: "+err.Error())
			label = fixed
		}
		label.Color = NormalizeColor(label.Color)
		tiers = append(tiers, slot{tier: label, items: t.Items})
	}

	seen := map[string]int{}
	first := map[string]item.Item{}
	count := func(it item.Item) {
		if !it.Valid() {
			return
		}
		if _, ok := first[it.ID]; !ok {
			first[it.ID] = it
		}
		seen[it.ID]++
	}
	for _, sl := range tiers {
		for _, it := range sl.items {
			count(it)
		}
	}
	for _, it := range orphans {
		count(it)
	}
	for _, it := range s.Library {
		count(it)
	}

	var b Board
	placed := map[string]struct{}{}
	for _, sl := range tiers {
		t := sl.tier
		t.Items = make([]item.Item, 0, len(sl.items))
		for _, it := range sl.items {
			switch {
			case !it.Valid():
				report(t.ID, "", "item without id dropped")
			case seen[it.ID] > 1:
				report(t.ID, it.ID, "duplicate item quarantined in library")
			default:
				t.Items = append(t.Items, it)
				placed[it.ID] = struct{}{}
			}
		}
		b.tiers = append(b.tiers, t)
	}

	lib := make([]item.Item, 0, len(s.Library)+len(orphans))
	add := func(it item.Item) {
		if !it.Valid() {
			report("", "", "library item without id dropped")
			return
		}
		if _, ok := placed[it.ID]; ok {
			if seen[it.ID] > 1 {
				report("", it.ID, "duplicate library entry dropped")
			}
			return
		}
		placed[it.ID] = struct{}{}
		lib = append(lib, first[it.ID])
	}
	for _, it := range s.Library {
		add(it)
	}
	for _, it := range orphans {
		add(it)
	}
	for _, sl := range tiers {
		for _, it := range sl.items {
			if !it.Valid() || seen[it.ID] < 2 {
				continue
			}
			if _, ok := placed[it.ID]; ok {
				continue
			}
			placed[it.ID] = struct{}{}
			lib = append(lib, first[it.ID])
		}
	}
	b.library = lib
	return b, violations
}

func truncateName(name string) string {
	r := []rune(name)
	if len(r) > MaxNameLength {
		return string(r[:MaxNameLength])
	}
	return name
}
