package drag

import (
	"errors"

	"tableflip.dev/tierit/pkg/item"
)

// ErrActive is returned by Start when a gesture is already in progress.
var ErrActive = errors.New("drag: a drag is already in progress")

// ErrNoItem is returned by Start for an item without an id.
var ErrNoItem = errors.New("drag: item has no id")

// State is the phase of the session state machine.
type State int

const (
	// Idle means nothing is being dragged.
	Idle State = iota
	// Dragging means an item is picked up but the pointer is over no container.
	Dragging
	// Targeting means an item is picked up and has a live drop target.
	Targeting
)

func (s State) String() string {
	switch s {
	case Dragging:
		return "dragging"
	case Targeting:
		return "targeting"
	default:
		return "idle"
	}
}

// Gesture numbers one drag from Start to End. The zero value never matches
// an active gesture.
type Gesture uint64

// Snapshot is an immutable copy of the session for rendering and commit.
type Snapshot struct {
	State   State
	Gesture Gesture
	Item    *item.Item
	Source  Location
	Target  *Location
}

// Active reports whether a drag is in progress.
func (s Snapshot) Active() bool {
	return s.State != Idle
}

// DraggedID returns the id of the dragged item or "".
func (s Snapshot) DraggedID() string {
	if s.Item == nil {
		return ""
	}
	return s.Item.ID
}

// PlaceholderAt reports whether a drop placeholder should be drawn before
// slot index of tierID.
func (s Snapshot) PlaceholderAt(tierID string, index int) bool {
	if s.Target == nil || !s.Target.IsTier() {
		return false
	}
	return s.Target.TierID == tierID && s.Target.Index == index
}

// Session is the drag state machine. The zero value is Idle and ready to use.
// A Session is not safe for concurrent use; callers serialize events.
type Session struct {
	item    *item.Item
	source  Location
	target  *Location
	gesture Gesture
	seq     Gesture
}

// State returns the current phase.
func (s *Session) State() State {
	switch {
	case s.item == nil:
		return Idle
	case s.target == nil:
		return Dragging
	default:
		return Targeting
	}
}

// Gesture returns the active gesture or 0 when idle.
func (s *Session) Gesture() Gesture {
	if s.item == nil {
		return 0
	}
	return s.gesture
}

// Start picks up it from source. Only one drag may be active; a second Start
// before End is ignored and returns ErrActive.
func (s *Session) Start(it item.Item, source Location) (Gesture, error) {
	if s.item != nil {
		return 0, ErrActive
	}
	if !it.Valid() {
		return 0, ErrNoItem
	}
	s.seq++
	picked := it
	s.item = &picked
	s.source = source
	s.target = nil
	s.gesture = s.seq
	return s.gesture, nil
}

// Retarget moves the live drop target. A nil target means the pointer left
// every container. Tier indexes are clamped to [0, length], where length is
// the target tier's current item count. It returns true only when the
// observable state changed. Calls while Idle are ignored.
func (s *Session) Retarget(target *Location, length int) bool {
	if s.item == nil {
		return false
	}
	if target == nil {
		if s.target == nil {
			return false
		}
		s.target = nil
		return true
	}
	next := target.Clamp(length)
	if s.target != nil && *s.target == next {
		return false
	}
	s.target = &next
	return true
}

// RetargetGesture is Retarget for callbacks that may fire late. It is a no-op
// unless g is the active gesture.
func (s *Session) RetargetGesture(g Gesture, target *Location, length int) bool {
	if g == 0 || s.item == nil || g != s.gesture {
		return false
	}
	return s.Retarget(target, length)
}

// End resets the session to Idle. It always succeeds and reports whether a
// drag was actually in progress.
func (s *Session) End() bool {
	was := s.item != nil
	s.item = nil
	s.source = Location{}
	s.target = nil
	s.gesture = 0
	return was
}

// Snapshot returns an immutable copy of the current state.
func (s *Session) Snapshot() Snapshot {
	snap := Snapshot{
		State:   s.State(),
		Gesture: s.Gesture(),
		Source:  s.source,
	}
	if s.item != nil {
		it := *s.item
		snap.Item = &it
	}
	if s.target != nil {
		t := *s.target
		snap.Target = &t
	}
	return snap
}
