package app

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"testing"

	"tableflip.dev/tierit/pkg/board"
	"tableflip.dev/tierit/pkg/drag"
	"tableflip.dev/tierit/pkg/ingest"
	"tableflip.dev/tierit/pkg/item"
	"tableflip.dev/tierit/pkg/store"
)

type memoryPersistence struct {
	mu       sync.Mutex
	saved    *board.Board
	payloads map[string][]byte
	saves    int
	saveErr  error
	putErr   map[string]error
}

func newMemoryPersistence() *memoryPersistence {
	return &memoryPersistence{payloads: make(map[string][]byte)}
}

func (m *memoryPersistence) Load(ctx context.Context) (board.Board, []board.Violation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saved == nil {
		return board.Board{}, nil, store.ErrNoBoard
	}
	return *m.saved, nil, nil
}

func (m *memoryPersistence) Save(_ context.Context, b board.Board) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saves++
	m.saved = &b
	return nil
}

func (m *memoryPersistence) PutPayload(id string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.putErr[id]; err != nil {
		return err
	}
	m.payloads[id] = append([]byte(nil), data...)
	return nil
}

func (m *memoryPersistence) Payload(id string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.payloads[id]
	if !ok {
		return nil, store.ErrNoPayload
	}
	return data, nil
}

func (m *memoryPersistence) DeletePayload(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.payloads, id)
	return nil
}

func (m *memoryPersistence) Watch(ctx context.Context) (<-chan store.Event, error) {
	ch := make(chan store.Event)
	go func() {
		<-ctx.Done()
		close(ch)
	}()
	return ch, nil
}

func (m *memoryPersistence) saveCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00\x1f\x15\xc4\x89")

func blob(id string) ingest.Blob {
	data := append(append([]byte(nil), pngHeader...), id...)
	return ingest.Blob{
		Item: item.New(id, item.Payload{Name: id + ".png", MediaType: "image/png", Size: int64(len(data))}),
		Data: data,
	}
}

// open returns a service over a fresh default board holding library items ids.
func open(t *testing.T, ids ...string) (*Service, *memoryPersistence) {
	t.Helper()
	mp := newMemoryPersistence()
	s := New(mp, store.Settings{Seed: true}, nil)
	if err := s.Open(context.Background()); err != nil {
		t.Fatalf("open: %v", err)
	}
	blobs := make([]ingest.Blob, len(ids))
	for i, id := range ids {
		blobs[i] = blob(id)
	}
	if err := s.AddItems(context.Background(), blobs...); err != nil {
		t.Fatalf("add items: %v", err)
	}
	return s, mp
}

func tierItems(t *testing.T, s *Service, tierID string) []string {
	t.Helper()
	tr, ok := s.Board().Tier(tierID)
	if !ok {
		t.Fatalf("tier %q missing", tierID)
	}
	return item.IDs(tr.Items)
}

func TestOpenSeedsDefaultTiers(t *testing.T) {
	mp := newMemoryPersistence()
	s := New(mp, store.Settings{Seed: true}, nil)
	if err := s.Open(context.Background()); err != nil {
		t.Fatalf("open: %v", err)
	}
	if n := len(s.Board().Tiers()); n != 6 {
		t.Fatalf("expected 6 tiers, got %d", n)
	}
	if mp.saveCount() != 1 {
		t.Fatalf("fresh board not saved")
	}

	empty := New(newMemoryPersistence(), store.Settings{}, nil)
	if err := empty.Open(context.Background()); err != nil {
		t.Fatalf("open: %v", err)
	}
	if n := len(empty.Board().Tiers()); n != 0 {
		t.Fatalf("expected no tiers, got %d", n)
	}
}

func TestOpenWithoutPersistence(t *testing.T) {
	s := New(nil, nil, nil)
	if err := s.Open(context.Background()); !errors.Is(err, ErrNoPersistence) {
		t.Fatalf("expected ErrNoPersistence, got %v", err)
	}
}

func TestDragFromLibraryIntoTier(t *testing.T) {
	s, mp := open(t, "img1", "img2")
	ctx := context.Background()

	if _, err := s.StartDrag("img1", drag.Library()); err != nil {
		t.Fatalf("start: %v", err)
	}
	if !s.PointerOver("s", drag.Pointer{X: 10}) {
		t.Fatalf("pointer over tier should set a target")
	}
	if got := s.Drag(); got.State != drag.Targeting || *got.Target != drag.Tier("s", 0) {
		t.Fatalf("unexpected drag %+v", got)
	}
	// The dragged item stays in its source until commit.
	if ids := item.IDs(s.Board().Library()); !reflect.DeepEqual(ids, []string{"img1", "img2"}) {
		t.Fatalf("library changed before commit: %v", ids)
	}

	saves := mp.saveCount()
	if err := s.Drop(ctx); err != nil {
		t.Fatalf("drop: %v", err)
	}
	if ids := item.IDs(s.Board().Library()); !reflect.DeepEqual(ids, []string{"img2"}) {
		t.Fatalf("library = %v", ids)
	}
	if ids := tierItems(t, s, "s"); !reflect.DeepEqual(ids, []string{"img1"}) {
		t.Fatalf("tier = %v", ids)
	}
	if s.Drag().Active() {
		t.Fatalf("drag still active after drop")
	}
	if mp.saveCount() != saves+1 {
		t.Fatalf("commit not saved")
	}
}

func TestPointerResolvesAgainstCurrentLength(t *testing.T) {
	s, _ := open(t, "a", "b", "c", "x")
	ctx := context.Background()
	for _, id := range []string{"a", "b", "c"} {
		if err := s.Move(ctx, id, drag.Tier("s", drag.AppendIndex)); err != nil {
			t.Fatalf("move %s: %v", id, err)
		}
	}

	if _, err := s.Pick("x"); err != nil {
		t.Fatalf("pick: %v", err)
	}
	tests := []struct {
		x    float64
		want int
	}{
		{x: -50, want: 0},
		{x: 0, want: 0},
		{x: 87.9, want: 0},
		{x: 88, want: 1},
		{x: 200, want: 2},
		{x: 10000, want: 3},
	}
	for _, tc := range tests {
		s.PointerOver("s", drag.Pointer{X: tc.x})
		if got := s.Drag().Target; got == nil || got.Index != tc.want {
			t.Fatalf("x=%v: target %v, want index %d", tc.x, got, tc.want)
		}
	}
}

func TestSecondStartIsIgnored(t *testing.T) {
	s, _ := open(t, "one", "two")
	if _, err := s.StartDrag("one", drag.Library()); err != nil {
		t.Fatalf("start: %v", err)
	}
	before := s.Drag()
	if _, err := s.StartDrag("two", drag.Library()); !errors.Is(err, drag.ErrActive) {
		t.Fatalf("expected ErrActive, got %v", err)
	}
	if after := s.Drag(); !reflect.DeepEqual(after, before) {
		t.Fatalf("second start changed the session: %+v", after)
	}
}

func TestStartDragChecksSource(t *testing.T) {
	s, _ := open(t, "one")
	if _, err := s.StartDrag("one", drag.Tier("s", 0)); !errors.Is(err, board.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for wrong source, got %v", err)
	}
	if _, err := s.StartDrag("ghost", drag.Library()); !errors.Is(err, board.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing item, got %v", err)
	}
	if s.Drag().Active() {
		t.Fatalf("failed start left a drag active")
	}
}

func TestCancelLeavesBoardUnchanged(t *testing.T) {
	s, mp := open(t, "one", "two")
	ctx := context.Background()
	if err := s.Move(ctx, "two", drag.Tier("a", 0)); err != nil {
		t.Fatalf("move: %v", err)
	}
	before := s.Board().State()
	saves := mp.saveCount()

	if _, err := s.StartDrag("two", drag.Tier("a", 0)); err != nil {
		t.Fatalf("start: %v", err)
	}
	s.PointerOver("s", drag.Pointer{X: 0})
	s.PointerOver("b", drag.Pointer{X: 0})
	s.LeaveTargets()
	s.PointerOver("c", drag.Pointer{X: 0})
	if !s.EndDrag() {
		t.Fatalf("EndDrag should report an active drag")
	}

	if !reflect.DeepEqual(s.Board().State(), before) {
		t.Fatalf("cancel changed the board")
	}
	if mp.saveCount() != saves {
		t.Fatalf("cancel saved the board")
	}
	if s.EndDrag() {
		t.Fatalf("second EndDrag should be a no-op")
	}
}

func TestDropWithoutTargetIsCancelled(t *testing.T) {
	s, _ := open(t, "one")
	before := s.Board().State()
	if _, err := s.Pick("one"); err != nil {
		t.Fatalf("pick: %v", err)
	}
	if err := s.Drop(context.Background()); !errors.Is(err, board.ErrCancelled) {
		t.Fatalf("expected ErrCancelled, got %v", err)
	}
	if !reflect.DeepEqual(s.Board().State(), before) {
		t.Fatalf("cancelled drop changed the board")
	}
	if s.Drag().Active() {
		t.Fatalf("drop left the drag active")
	}
}

func TestCommitAfterTargetTierDeleted(t *testing.T) {
	s, _ := open(t, "one")
	ctx := context.Background()
	if _, err := s.Pick("one"); err != nil {
		t.Fatalf("pick: %v", err)
	}
	s.PointerOver("e", drag.Pointer{X: 0})
	if err := s.DeleteTier(ctx, "e"); err != nil {
		t.Fatalf("delete tier: %v", err)
	}
	before := s.Board().State()
	if err := s.Drop(ctx); !errors.Is(err, board.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if !reflect.DeepEqual(s.Board().State(), before) {
		t.Fatalf("failed drop changed the board")
	}
	if ids := item.IDs(s.Board().Library()); !reflect.DeepEqual(ids, []string{"one"}) {
		t.Fatalf("item lost: %v", ids)
	}
}

func TestRetargetToMissingTierClearsTarget(t *testing.T) {
	s, _ := open(t, "one")
	if _, err := s.Pick("one"); err != nil {
		t.Fatalf("pick: %v", err)
	}
	s.PointerOver("s", drag.Pointer{X: 0})
	missing := drag.Tier("nope", 0)
	if !s.Retarget(&missing) {
		t.Fatalf("retarget to a missing tier should clear the target")
	}
	if s.Drag().Target != nil {
		t.Fatalf("target not cleared")
	}
}

func TestLateGestureIsIgnored(t *testing.T) {
	s, _ := open(t, "one", "two")
	old, err := s.Pick("one")
	if err != nil {
		t.Fatalf("pick: %v", err)
	}
	s.EndDrag()
	if _, err := s.Pick("two"); err != nil {
		t.Fatalf("pick: %v", err)
	}
	target := drag.Tier("s", 0)
	if s.RetargetGesture(old, &target) {
		t.Fatalf("stale gesture retargeted the drag")
	}
	if s.Drag().Target != nil {
		t.Fatalf("stale gesture set a target")
	}
	if !s.RetargetGesture(s.Drag().Gesture, &target) {
		t.Fatalf("current gesture should retarget")
	}
}

func TestSubscribersSeeObservableChangesOnly(t *testing.T) {
	s, _ := open(t, "one")
	var reasons []Reason
	cancel := s.Subscribe(func(u Update) {
		// Callbacks run without the lock held.
		_ = s.Board()
		reasons = append(reasons, u.Reason)
	})

	if _, err := s.Pick("one"); err != nil {
		t.Fatalf("pick: %v", err)
	}
	s.PointerOver("s", drag.Pointer{X: 0})
	s.PointerOver("s", drag.Pointer{X: 5})
	s.PointerOver("s", drag.Pointer{X: 50})
	s.LeaveTargets()
	s.LeaveTargets()
	s.EndDrag()

	want := []Reason{ReasonDragStarted, ReasonRetargeted, ReasonRetargeted, ReasonDragEnded}
	if !reflect.DeepEqual(reasons, want) {
		t.Fatalf("reasons = %v, want %v", reasons, want)
	}

	cancel()
	cancel()
	if _, err := s.AddTier(context.Background(), "", ""); err != nil {
		t.Fatalf("add tier: %v", err)
	}
	if len(reasons) != len(want) {
		t.Fatalf("cancelled subscriber still called")
	}
}

func TestTierOperations(t *testing.T) {
	s, _ := open(t, "one", "two")
	ctx := context.Background()

	tr, err := s.AddTier(ctx, "", "")
	if err != nil {
		t.Fatalf("add tier: %v", err)
	}
	if tr.Name != board.DefaultName || tr.Color != board.DefaultColor {
		t.Fatalf("unexpected defaults %q %q", tr.Name, tr.Color)
	}
	if err := s.RenameTier(ctx, tr.ID, "Meh", ""); err != nil {
		t.Fatalf("rename: %v", err)
	}
	got, _ := s.Board().Tier(tr.ID)
	if got.Name != "Meh" || got.Color != board.DefaultColor {
		t.Fatalf("rename lost color: %+v", got)
	}
	if err := s.RenameTier(ctx, tr.ID, "", "#fff"); !errors.Is(err, board.ErrInvalidTier) {
		t.Fatalf("expected ErrInvalidTier, got %v", err)
	}

	if err := s.Move(ctx, "one", drag.Tier(tr.ID, 0)); err != nil {
		t.Fatalf("move: %v", err)
	}
	if err := s.Move(ctx, "two", drag.Tier(tr.ID, 5)); err != nil {
		t.Fatalf("move: %v", err)
	}
	if err := s.DeleteTier(ctx, tr.ID); err != nil {
		t.Fatalf("delete tier: %v", err)
	}
	if ids := item.IDs(s.Board().Library()); !reflect.DeepEqual(ids, []string{"one", "two"}) {
		t.Fatalf("library = %v", ids)
	}
}

func TestReturnAndDeleteItems(t *testing.T) {
	s, mp := open(t, "one", "two")
	ctx := context.Background()
	if err := s.Move(ctx, "one", drag.Tier("b", 0)); err != nil {
		t.Fatalf("move: %v", err)
	}
	if err := s.DeleteLibraryItem(ctx, "one"); !errors.Is(err, board.ErrNotFound) {
		t.Fatalf("ranked items must not be deletable, got %v", err)
	}
	if err := s.ReturnToLibrary(ctx, "one", "b"); err != nil {
		t.Fatalf("return: %v", err)
	}
	if err := s.DeleteLibraryItem(ctx, "one"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := mp.Payload("one"); !errors.Is(err, store.ErrNoPayload) {
		t.Fatalf("payload not deleted: %v", err)
	}
	if s.Board().Count() != 1 {
		t.Fatalf("count = %d", s.Board().Count())
	}
}

func TestAddItemsIsAllOrNothing(t *testing.T) {
	s, mp := open(t, "one")
	err := s.AddItems(context.Background(), blob("two"), blob("one"))
	if !errors.Is(err, board.ErrInvariantViolation) {
		t.Fatalf("expected ErrInvariantViolation, got %v", err)
	}
	if ids := item.IDs(s.Board().Library()); !reflect.DeepEqual(ids, []string{"one"}) {
		t.Fatalf("library = %v", ids)
	}
	if _, err := mp.Payload("two"); err == nil {
		t.Fatalf("payload stored for rejected batch")
	}
}

func TestSaveFailureIsReported(t *testing.T) {
	s, mp := open(t, "one")
	mp.saveErr = errors.New("disk full")
	err := s.Move(context.Background(), "one", drag.Tier("s", 0))
	if err == nil {
		t.Fatalf("expected save error")
	}
	if ids := tierItems(t, s, "s"); !reflect.DeepEqual(ids, []string{"one"}) {
		t.Fatalf("in-memory board should still move: %v", ids)
	}
}

func TestImportExport(t *testing.T) {
	s, _ := open(t, "one", "two")
	ctx := context.Background()
	if err := s.Move(ctx, "two", drag.Tier("c", 0)); err != nil {
		t.Fatalf("move: %v", err)
	}
	doc, err := s.Export(true)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if doc.LibraryItems[0].URL == "" {
		t.Fatalf("payload not inlined")
	}

	other, mp := open(t)
	violations, err := other.Import(ctx, doc)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if len(violations) != 0 {
		t.Fatalf("unexpected violations %v", violations)
	}
	if ids := tierItems(t, other, "c"); !reflect.DeepEqual(ids, []string{"two"}) {
		t.Fatalf("imported tier = %v", ids)
	}
	if _, err := mp.Payload("two"); err != nil {
		t.Fatalf("inline payload not stored: %v", err)
	}
}

func TestReload(t *testing.T) {
	s, mp := open(t, "one")
	next, err := s.Board().DeleteTier("s")
	if err != nil {
		t.Fatalf("delete tier: %v", err)
	}
	if err := mp.Save(context.Background(), next); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := s.Reload(context.Background()); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if _, ok := s.Board().Tier("s"); ok {
		t.Fatalf("reload kept the old board")
	}
}

func TestTally(t *testing.T) {
	s, _ := open(t, "one", "two", "three", "four")
	ctx := context.Background()
	for _, id := range []string{"one", "two", "three"} {
		if err := s.Move(ctx, id, drag.Tier("s", 0)); err != nil {
			t.Fatalf("move %s: %v", id, err)
		}
	}
	r := s.Report()
	if r.Total != 4 || r.Ranked != 3 || r.Unranked != 1 {
		t.Fatalf("unexpected report %+v", r)
	}
	if r.Sections[0].Share != 1 || r.Progress() != 0.75 {
		t.Fatalf("unexpected shares %v %v", r.Sections[0].Share, r.Progress())
	}
}

func TestNewLogger(t *testing.T) {
	path := t.TempDir() + "/tierit.log"
	log, err := NewLogger(store.Settings{Env: "development"}, path)
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}
	if !log.Core().Enabled(-1) {
		t.Fatalf("development logger should log debug")
	}
	prod, err := NewLogger(nil)
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}
	if prod.Core().Enabled(0) {
		t.Fatalf("production logger should start at warn")
	}
}

func TestBoardChangesKeepDragTargetInRange(t *testing.T) {
	s, mp := open(t, "w", "x", "y", "z")
	ctx := context.Background()
	for _, id := range []string{"x", "y", "z"} {
		if err := s.Move(ctx, id, drag.Tier("s", drag.AppendIndex)); err != nil {
			t.Fatalf("move %s: %v", id, err)
		}
	}
	if _, err := s.Pick("w"); err != nil {
		t.Fatalf("pick: %v", err)
	}
	s.PointerOver("s", drag.Pointer{X: 1000})
	if got := s.Drag().Target; got == nil || *got != drag.Tier("s", 3) {
		t.Fatalf("target = %v, want s:3", got)
	}

	if err := s.ReturnToLibrary(ctx, "x", "s"); err != nil {
		t.Fatalf("return: %v", err)
	}
	if got := s.Drag().Target; got == nil || *got != drag.Tier("s", 2) {
		t.Fatalf("after return target = %v, want s:2", got)
	}
	if !s.Drag().PlaceholderAt("s", 2) {
		t.Fatalf("placeholder should follow the clamped target")
	}

	// Another process shrinks the tier again.
	external, _, err := s.Board().RemoveFromTier("s", 0)
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	if err := mp.Save(ctx, external); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := s.Reload(ctx); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if got := s.Drag().Target; got == nil || *got != drag.Tier("s", 1) {
		t.Fatalf("after reload target = %v, want s:1", got)
	}

	if err := s.DeleteTier(ctx, "s"); err != nil {
		t.Fatalf("delete tier: %v", err)
	}
	snap := s.Drag()
	if snap.Target != nil {
		t.Fatalf("target should clear with its tier, got %v", snap.Target)
	}
	if snap.DraggedID() != "w" {
		t.Fatalf("drag should still hold w, got %q", snap.DraggedID())
	}
}

func TestAddItemsRemovesPayloadsOnFailure(t *testing.T) {
	s, mp := open(t)
	mp.putErr = map[string]error{"b": errors.New("disk full")}

	if err := s.AddItems(context.Background(), blob("a"), blob("b")); err == nil {
		t.Fatalf("expected error")
	}
	if _, err := mp.Payload("a"); !errors.Is(err, store.ErrNoPayload) {
		t.Fatalf("payload a left behind: %v", err)
	}
	if n := len(s.Board().Library()); n != 0 {
		t.Fatalf("library has %d items", n)
	}
}
