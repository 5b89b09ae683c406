package app

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"tableflip.dev/tierit/pkg/board"
	"tableflip.dev/tierit/pkg/drag"
)

// StartDrag picks up itemID from source. The source must hold the item; the
// board itself is not touched until CommitDrag. While a drag is active a
// second StartDrag returns drag.ErrActive and changes nothing.
func (s *Service) StartDrag(itemID string, source drag.Location) (drag.Gesture, error) {
	s.mu.Lock()
	loc, it, ok := s.board.Find(itemID)
	if !ok || !loc.SameContainer(source) || (source.IsTier() && loc.Index != source.Index) {
		s.mu.Unlock()
		return 0, fmt.Errorf("app: item %q at %s: %w", itemID, source, board.ErrNotFound)
	}
	g, err := s.session.Start(it, loc)
	s.mu.Unlock()
	if err != nil {
		s.log.Debug("drag start ignored", zap.String("item", itemID), zap.Error(err))
		return 0, err
	}
	s.log.Debug("drag started", zap.String("item", itemID), zap.Stringer("source", loc), zap.Uint64("gesture", uint64(g)))
	s.publish(ReasonDragStarted)
	return g, nil
}

// Pick starts a drag of itemID from wherever it currently is. The id may be a
// unique prefix.
func (s *Service) Pick(itemID string) (drag.Gesture, error) {
	s.mu.Lock()
	loc, it, err := s.board.FindPrefix(itemID)
	s.mu.Unlock()
	if err != nil {
		return 0, fmt.Errorf("app: %w", err)
	}
	return s.StartDrag(it.ID, loc)
}

// Retarget points the active drag at target, or at nothing when target is
// nil. Tier indexes are clamped against the tier's current length and a tier
// that does not exist clears the target. It reports whether anything
// observable changed; only then are subscribers told.
func (s *Service) Retarget(target *drag.Location) bool {
	s.mu.Lock()
	changed := s.retargetLocked(s.session.Gesture(), target)
	s.mu.Unlock()
	if changed {
		s.publish(ReasonRetargeted)
	}
	return changed
}

// RetargetGesture is Retarget for callbacks that may arrive late: it does
// nothing unless g is still the active gesture.
func (s *Service) RetargetGesture(g drag.Gesture, target *drag.Location) bool {
	s.mu.Lock()
	changed := s.retargetLocked(g, target)
	s.mu.Unlock()
	if changed {
		s.publish(ReasonRetargeted)
	}
	return changed
}

func (s *Service) retargetLocked(g drag.Gesture, target *drag.Location) bool {
	length := 0
	if target != nil && target.IsTier() {
		n, ok := s.board.TierLen(target.TierID)
		if !ok {
			target = nil
		}
		length = n
	}
	return s.session.RetargetGesture(g, target, length)
}

// setBoardLocked replaces the board and keeps an in-flight drag target valid
// against it: a target tier that is gone clears the target, and a slot past
// the end of a shrunken tier is clamped.
func (s *Service) setBoardLocked(b board.Board) {
	s.board = b
	snap := s.session.Snapshot()
	if snap.Target == nil || !snap.Target.IsTier() {
		return
	}
	n, ok := b.TierLen(snap.Target.TierID)
	if !ok {
		s.session.Retarget(nil, 0)
		return
	}
	s.session.Retarget(snap.Target, n)
}

// PointerOver resolves a pointer over a tier to an insertion slot and
// retargets the drag there. A pointer without an item width uses the
// configured one.
func (s *Service) PointerOver(tierID string, p drag.Pointer) bool {
	if p.ItemWidth == 0 {
		p.ItemWidth = s.cfg.ItemWidth()
	}
	s.mu.Lock()
	n, ok := s.board.TierLen(tierID)
	var changed bool
	if ok {
		target := drag.Tier(tierID, p.Index(n))
		changed = s.session.Retarget(&target, n)
	} else {
		changed = s.session.Retarget(nil, 0)
	}
	s.mu.Unlock()
	if changed {
		s.publish(ReasonRetargeted)
	}
	return changed
}

// LeaveTargets clears the drop target; the item stays picked up.
func (s *Service) LeaveTargets() bool {
	return s.Retarget(nil)
}

// EndDrag returns the session to idle without touching the board. Calling
// it on its own is how a drag is cancelled.
func (s *Service) EndDrag() bool {
	s.mu.Lock()
	g := s.session.Gesture()
	ended := s.session.End()
	s.mu.Unlock()
	if ended {
		s.log.Debug("drag ended", zap.Uint64("gesture", uint64(g)))
		s.publish(ReasonDragEnded)
	}
	return ended
}

// CommitDrag applies the active drag to the board and saves it. A drag with
// no target returns board.ErrCancelled; a drag whose source or target has
// gone returns board.ErrNotFound. Either way the board is left as it was.
// The session stays active; call EndDrag, or use Drop.
func (s *Service) CommitDrag(ctx context.Context) error {
	s.mu.Lock()
	m, ok := board.MoveFromSnapshot(s.session.Snapshot())
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("app: no drag in progress: %w", board.ErrCancelled)
	}
	next, err := board.Commit(s.board, m)
	if err != nil {
		s.mu.Unlock()
		if errors.Is(err, board.ErrCancelled) {
			s.log.Debug("drag cancelled", zap.String("item", m.Item.ID))
		} else {
			s.log.Warn("drag commit failed", zap.String("item", m.Item.ID), zap.Stringer("source", m.Source), zap.Error(err))
		}
		return err
	}
	s.setBoardLocked(next)
	saveErr := s.saveLocked(ctx)
	s.mu.Unlock()

	s.log.Debug("drag committed", zap.String("item", m.Item.ID), zap.Stringer("source", m.Source), zap.Stringer("target", m.Target))
	s.publish(ReasonCommitted)
	return saveErr
}

// Drop commits the active drag and ends it.
func (s *Service) Drop(ctx context.Context) error {
	err := s.CommitDrag(ctx)
	s.EndDrag()
	return err
}

// Move is a one-shot drag of itemID to target, for callers without a
// pointer such as the CLI.
func (s *Service) Move(ctx context.Context, itemID string, target drag.Location) error {
	if _, err := s.Pick(itemID); err != nil {
		return err
	}
	s.Retarget(&target)
	return s.Drop(ctx)
}
