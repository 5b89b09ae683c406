package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"tableflip.dev/tierit/pkg/board"
)

func TestPersistenceWatchEmitsBoardChanges(t *testing.T) {
	base := t.TempDir()
	p, err := Load(Settings{Path: base})
	if err != nil {
		t.Fatalf("load persistence: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, err := p.Watch(ctx)
	if err != nil {
		t.Fatalf("watch: %v", err)
	}

	// Allow watcher goroutine to subscribe to directories before saving.
	time.Sleep(50 * time.Millisecond)

	if err := p.Save(ctx, board.Default()); err != nil {
		t.Fatalf("save: %v", err)
	}

	deadline := time.After(2 * time.Second)
	for {
		select {
		case evt := <-ch:
			if evt.Type == EventBoardChanged || evt.Type == EventInvalidated {
				return
			}
		case <-deadline:
			t.Fatal("timed out waiting for board change event")
		}
	}
}

func TestPersistenceWatchEmitsPayloadChanges(t *testing.T) {
	base := t.TempDir()
	p, err := Load(Settings{Path: base})
	if err != nil {
		t.Fatalf("load persistence: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ch, err := p.Watch(ctx)
	if err != nil {
		t.Fatalf("watch: %v", err)
	}
	time.Sleep(50 * time.Millisecond)

	if err := p.PutPayload("img-1", []byte("bytes")); err != nil {
		t.Fatalf("put payload: %v", err)
	}

	deadline := time.After(2 * time.Second)
	for {
		select {
		case evt := <-ch:
			if evt.Type == EventPayloadChanged {
				if evt.ItemID != "img-1" {
					t.Fatalf("expected item 'img-1', got %q", evt.ItemID)
				}
				return
			}
		case <-deadline:
			t.Fatal("timed out waiting for payload change event")
		}
	}
}

func TestWatchChannelClosesOnCancel(t *testing.T) {
	p, err := Load(Settings{Path: t.TempDir()})
	if err != nil {
		t.Fatalf("load persistence: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	ch, err := p.Watch(ctx)
	if err != nil {
		t.Fatalf("watch: %v", err)
	}
	cancel()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case _, ok := <-ch:
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("channel not closed after cancel")
		}
	}
}

func TestEventForPath(t *testing.T) {
	p := &persistence{basePath: "/base"}
	tests := []struct {
		path string
		want Event
		ok   bool
	}{
		{path: filepath.Join("/base", boardDir, boardFile), want: Event{Type: EventBoardChanged}, ok: true},
		{path: filepath.Join("/base", blobDir, encodeID("abc-1")), want: Event{Type: EventPayloadChanged, ItemID: "abc-1"}, ok: true},
		{path: filepath.Join("/base", boardDir, "other"), ok: false},
		{path: filepath.Join("/base", tempDir, "x"), ok: false},
		{path: "/base", ok: false},
		{path: filepath.Join("/base", "a", "b", "c"), want: Event{Type: EventInvalidated}, ok: true},
	}
	for _, tc := range tests {
		got, ok := p.eventForPath(tc.path)
		if ok != tc.ok || (ok && got != tc.want) {
			t.Fatalf("%s: got %+v %v, want %+v %v", tc.path, got, ok, tc.want, tc.ok)
		}
	}
}

func TestThrottleCoalesces(t *testing.T) {
	th := newEventThrottle(20 * time.Millisecond)
	defer th.Stop()
	got := make(chan Event, 10)
	send := func(ev Event) { got <- ev }

	th.Enqueue(Event{Type: EventBoardChanged}, send)
	th.Enqueue(Event{Type: EventBoardChanged}, send)
	th.Enqueue(Event{Type: EventPayloadChanged, ItemID: "a"}, send)

	time.Sleep(100 * time.Millisecond)
	if n := len(got); n != 2 {
		t.Fatalf("expected 2 coalesced events, got %d", n)
	}
	if first := <-got; first.Type != EventBoardChanged {
		t.Fatalf("order not kept: %+v", first)
	}
}
