package board

import (
	"errors"
	"reflect"
	"testing"

	"tableflip.dev/tierit/pkg/drag"
	"tableflip.dev/tierit/pkg/item"
)

func img(id string) item.Item {
	return item.New(id, item.Payload{Name: id + ".png", MediaType: "image/png"})
}

func imgs(ids ...string) []item.Item {
	out := make([]item.Item, len(ids))
	for i, id := range ids {
		out[i] = img(id)
	}
	return out
}

// build returns a board with tiers named after their ids.
func build(t *testing.T, library []string, tiers ...Tier) Board {
	t.Helper()
	b, err := New(tiers...)
	if err != nil {
		t.Fatalf("new board: %v", err)
	}
	for _, it := range imgs(library...) {
		b, err = b.AppendToLibrary(it)
		if err != nil {
			t.Fatalf("append %s: %v", it.ID, err)
		}
	}
	return b
}

func tier(id string, items ...string) Tier {
	return Tier{ID: id, Name: id, Color: DefaultColor, Items: imgs(items...)}
}

func ranked(t *testing.T, b Board, id string) []string {
	t.Helper()
	tr, ok := b.Tier(id)
	if !ok {
		t.Fatalf("tier %q missing", id)
	}
	return item.IDs(tr.Items)
}

func TestRemoveFromLibrary(t *testing.T) {
	b := build(t, []string{"img1", "img2", "img3"})
	next, got, err := b.RemoveFromLibrary("img2")
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	if got.ID != "img2" {
		t.Fatalf("removed %q", got.ID)
	}
	if ids := item.IDs(next.Library()); !reflect.DeepEqual(ids, []string{"img1", "img3"}) {
		t.Fatalf("library after remove = %v", ids)
	}
	if ids := item.IDs(b.Library()); len(ids) != 3 {
		t.Fatalf("original board changed: %v", ids)
	}

	if _, _, err := b.RemoveFromLibrary("nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRemoveFromTier(t *testing.T) {
	b := build(t, nil, tier("t", "a", "b", "c"))
	next, got, err := b.RemoveFromTier("t", 1)
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	if got.ID != "b" {
		t.Fatalf("removed %q", got.ID)
	}
	if ids := ranked(t, next, "t"); !reflect.DeepEqual(ids, []string{"a", "c"}) {
		t.Fatalf("tier after remove = %v", ids)
	}

	for _, idx := range []int{-1, 3, 10} {
		_, _, err := b.RemoveFromTier("t", idx)
		if !errors.Is(err, ErrNotFound) || !errors.Is(err, ErrInvalidIndex) {
			t.Fatalf("index %d: expected not found / invalid index, got %v", idx, err)
		}
	}
	if _, _, err := b.RemoveFromTier("missing", 0); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing tier, got %v", err)
	}
}

func TestInsertIntoTierClamps(t *testing.T) {
	b := build(t, nil, tier("t", "a", "b"))
	tests := []struct {
		index int
		want  []string
	}{
		{index: -5, want: []string{"x", "a", "b"}},
		{index: 0, want: []string{"x", "a", "b"}},
		{index: 1, want: []string{"a", "x", "b"}},
		{index: 2, want: []string{"a", "b", "x"}},
		{index: 99, want: []string{"a", "b", "x"}},
	}
	for _, tc := range tests {
		next, err := b.InsertIntoTier("t", tc.index, img("x"))
		if err != nil {
			t.Fatalf("insert at %d: %v", tc.index, err)
		}
		if ids := ranked(t, next, "t"); !reflect.DeepEqual(ids, tc.want) {
			t.Fatalf("insert at %d = %v, want %v", tc.index, ids, tc.want)
		}
	}
	if _, err := b.InsertIntoTier("missing", 0, img("x")); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := b.InsertIntoTier("t", 0, img("a")); !errors.Is(err, ErrInvariantViolation) {
		t.Fatalf("inserting an item already on the board must fail, got %v", err)
	}
}

func TestMutationsDoNotAlias(t *testing.T) {
	b := build(t, []string{"l1"}, tier("t", "a", "b", "c"))
	before := b.State()

	next, _, _ := b.RemoveFromTier("t", 0)
	next, _ = next.InsertIntoTier("t", 3, img("z"))
	next, _ = next.AppendToLibrary(img("l2"))
	next, _ = next.RenameTier("t", "Top", "#123")

	if !reflect.DeepEqual(b.State(), before) {
		t.Fatalf("original board changed:\n got %+v\nwant %+v", b.State(), before)
	}

	st := next.State()
	st.Tiers[0].Items[0] = img("mutated")
	st.Library[0] = img("mutated")
	if ids := ranked(t, next, "t"); ids[0] == "mutated" {
		t.Fatalf("State shares tier items with the board")
	}
	if next.Library()[0].ID == "mutated" {
		t.Fatalf("State shares the library with the board")
	}
}

func TestAddTier(t *testing.T) {
	b := build(t, []string{"x"})
	next, err := b.AddTier(Tier{ID: "n", Name: "New", Color: "#ABC"})
	if err != nil {
		t.Fatalf("add tier: %v", err)
	}
	got, _ := next.Tier("n")
	if got.Color != "#aabbcc" {
		t.Fatalf("expected normalized color, got %q", got.Color)
	}
	if _, err := next.AddTier(Tier{ID: "n", Name: "Again", Color: "#fff"}); !errors.Is(err, ErrDuplicateTier) {
		t.Fatalf("expected ErrDuplicateTier, got %v", err)
	}
	if _, err := next.AddTier(Tier{ID: "m", Name: "M", Color: "#fff", Items: imgs("x")}); !errors.Is(err, ErrInvariantViolation) {
		t.Fatalf("tier carrying an existing item must fail, got %v", err)
	}
	if _, err := next.AddTier(Tier{ID: "", Name: "M", Color: "#fff"}); !errors.Is(err, ErrInvalidTier) {
		t.Fatalf("tier without id must fail, got %v", err)
	}
	if _, err := next.AddTier(Tier{ID: "x:1", Name: "M", Color: "#fff"}); !errors.Is(err, ErrInvalidTier) {
		t.Fatalf("tier id with a colon must fail, got %v", err)
	}
}

func TestRenameTier(t *testing.T) {
	b := build(t, nil, tier("t", "a"))
	next, err := b.RenameTier("t", "  Great  ", "#00FF00")
	if err != nil {
		t.Fatalf("rename: %v", err)
	}
	got, _ := next.Tier("t")
	if got.Name != "Great" || got.Color != "#00ff00" {
		t.Fatalf("unexpected label %q %q", got.Name, got.Color)
	}
	if ids := item.IDs(got.Items); !reflect.DeepEqual(ids, []string{"a"}) {
		t.Fatalf("rename touched items: %v", ids)
	}

	if _, err := b.RenameTier("missing", "x", "#fff"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	for _, bad := range []struct{ name, color string }{
		{"", "#fff"},
		{"ok", "red"},
		{"ok", "#ggg"},
		{"ok", "#ffff"},
		{"this name is far too long to fit in a tier label", "#fff"},
	} {
		if _, err := b.RenameTier("t", bad.name, bad.color); !errors.Is(err, ErrInvalidTier) {
			t.Fatalf("rename(%q, %q): expected ErrInvalidTier, got %v", bad.name, bad.color, err)
		}
	}
}

func TestDeleteTierReturnsItems(t *testing.T) {
	b := build(t, []string{"l"}, tier("t", "a", "b"), tier("u", "c"))
	next, err := b.DeleteTier("t")
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok := next.Tier("t"); ok {
		t.Fatalf("tier still present")
	}
	if ids := item.IDs(next.Library()); !reflect.DeepEqual(ids, []string{"l", "a", "b"}) {
		t.Fatalf("library = %v", ids)
	}
	if next.Count() != b.Count() {
		t.Fatalf("delete changed item count %d -> %d", b.Count(), next.Count())
	}
	if _, err := next.DeleteTier("t"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestReturnToLibrary(t *testing.T) {
	b := build(t, nil, tier("t", "a", "b"))
	next, err := b.ReturnToLibrary("b", "t")
	if err != nil {
		t.Fatalf("return: %v", err)
	}
	if ids := ranked(t, next, "t"); !reflect.DeepEqual(ids, []string{"a"}) {
		t.Fatalf("tier = %v", ids)
	}
	if ids := item.IDs(next.Library()); !reflect.DeepEqual(ids, []string{"b"}) {
		t.Fatalf("library = %v", ids)
	}
	if _, err := next.ReturnToLibrary("b", "t"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestFindPrefix(t *testing.T) {
	b := build(t, []string{"abc123", "abd456"}, tier("t", "zzz"))
	loc, it, err := b.FindPrefix("abc")
	if err != nil || it.ID != "abc123" || !loc.IsLibrary() {
		t.Fatalf("unexpected %v %v %v", loc, it, err)
	}
	loc, _, err = b.FindPrefix("zz")
	if err != nil || loc != drag.Tier("t", 0) {
		t.Fatalf("unexpected %v %v", loc, err)
	}
	if _, _, err := b.FindPrefix("ab"); err == nil {
		t.Fatalf("expected ambiguity error")
	}
	if _, _, err := b.FindPrefix("q"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDefaultBoard(t *testing.T) {
	b := Default()
	tiers := b.Tiers()
	if len(tiers) != 6 {
		t.Fatalf("expected 6 tiers, got %d", len(tiers))
	}
	if tiers[0].Name != "S" || tiers[5].Name != "E" {
		t.Fatalf("unexpected ladder %q..%q", tiers[0].Name, tiers[5].Name)
	}
	if b.Count() != 0 || len(b.Library()) != 0 {
		t.Fatalf("default board should be empty")
	}
}
