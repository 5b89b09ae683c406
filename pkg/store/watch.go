package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// EventType describes the nature of a persistence change notification.
type EventType int

const (
	// EventBoardChanged indicates the saved board document was rewritten.
	EventBoardChanged EventType = iota

	// EventPayloadChanged indicates the stored bytes of one item changed.
	EventPayloadChanged

	// EventInvalidated signals a change that could not be classified;
	// callers should reload everything.
	EventInvalidated
)

func (t EventType) String() string {
	switch t {
	case EventBoardChanged:
		return "board"
	case EventPayloadChanged:
		return "payload"
	default:
		return "invalidated"
	}
}

// Event is emitted by Persistence.Watch when underlying storage changes.
type Event struct {
	Type   EventType
	ItemID string
}

// Watch streams change events until ctx is cancelled. Callers should drain the
// returned channel to avoid blocking the watcher. The channel is closed once
// ctx is done or the watcher encounters an unrecoverable error.
func (p *persistence) Watch(ctx context.Context) (<-chan Event, error) {
	if p.basePath == "" {
		return nil, errors.New("store: persistence base path unknown")
	}
	if err := p.ensureLayout(); err != nil {
		return nil, err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("store: create watcher: %w", err)
	}
	var closeOnce sync.Once
	closeWatcher := func() {
		closeOnce.Do(func() {
			if err := watcher.Close(); err != nil {
				fmt.Fprintf(os.Stderr, "store: watcher close: %v\n", err)
			}
		})
	}

	for _, dir := range []string{filepath.Join(p.basePath, boardDir), filepath.Join(p.basePath, blobDir)} {
		if err := watcher.Add(dir); err != nil {
			closeWatcher()
			return nil, fmt.Errorf("store: watch %s: %w", dir, err)
		}
	}

	events := make(chan Event, 64)

	go func() {
		var (
			sendMu sync.Mutex
			closed bool
		)
		defer func() {
			sendMu.Lock()
			closed = true
			close(events)
			sendMu.Unlock()
		}()
		defer closeWatcher()

		// The throttle flushes from its own timer goroutine, which may fire
		// after the channel is closed.
		send := func(ev Event) {
			sendMu.Lock()
			defer sendMu.Unlock()
			if closed {
				return
			}
			select {
			case events <- ev:
			default:
				// The consumer is behind; it reloads on the next event anyway.
			}
		}

		throttle := newEventThrottle(100 * time.Millisecond)
		defer throttle.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-watcher.Errors:
				if !ok {
					return
				}
				throttle.Enqueue(Event{Type: EventInvalidated}, send)
			case evt, ok := <-watcher.Events:
				if !ok {
					return
				}
				if evt.Op == fsnotify.Chmod {
					continue
				}
				if ev, ok := p.eventForPath(evt.Name); ok {
					throttle.Enqueue(ev, send)
				}
			}
		}
	}()

	return events, nil
}

// eventForPath classifies a diskv file path. Paths outside the board and
// blob directories are not reported.
func (p *persistence) eventForPath(path string) (Event, bool) {
	rel, err := filepath.Rel(p.basePath, path)
	if err != nil || rel == "." {
		return Event{}, false
	}
	parts := strings.Split(rel, string(os.PathSeparator))
	if len(parts) != 2 {
		return Event{Type: EventInvalidated}, true
	}
	switch parts[0] {
	case boardDir:
		if parts[1] != boardFile {
			return Event{}, false
		}
		return Event{Type: EventBoardChanged}, true
	case blobDir:
		id := decodeID(parts[1])
		if id == "" {
			return Event{}, false
		}
		return Event{Type: EventPayloadChanged, ItemID: id}, true
	default:
		return Event{}, false
	}
}

// eventThrottle coalesces rapid change notifications so the UI can redraw once
// per burst of filesystem activity instead of on every single write.
type eventThrottle struct {
	mu      sync.Mutex
	timer   *time.Timer
	pending map[Event]struct{}
	order   []Event
	delay   time.Duration
}

func newEventThrottle(delay time.Duration) *eventThrottle {
	return &eventThrottle{
		delay:   delay,
		pending: make(map[Event]struct{}),
	}
}

func (t *eventThrottle) Enqueue(ev Event, send func(Event)) {
	t.mu.Lock()
	if _, dup := t.pending[ev]; !dup {
		t.pending[ev] = struct{}{}
		t.order = append(t.order, ev)
	}
	if t.timer == nil {
		t.timer = time.AfterFunc(t.delay, func() {
			t.flush(send)
		})
	}
	t.mu.Unlock()
}

func (t *eventThrottle) flush(send func(Event)) {
	t.mu.Lock()
	order := t.order
	t.pending = make(map[Event]struct{})
	t.order = nil
	t.timer = nil
	t.mu.Unlock()

	for _, ev := range order {
		send(ev)
	}
}

func (t *eventThrottle) Stop() {
	t.mu.Lock()
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	t.mu.Unlock()
}
