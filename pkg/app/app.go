// Package app is the service facade presentation layers drive: it owns the
// current board and drag session, applies every operation under one lock,
// persists the result and tells subscribers what changed.
package app

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"

	"tableflip.dev/tierit/pkg/board"
	"tableflip.dev/tierit/pkg/drag"
	"tableflip.dev/tierit/pkg/store"
)

// ErrNoPersistence is returned when the service has nowhere to save.
var ErrNoPersistence = errors.New("app: no persistence configured")

// Reason names the operation behind an Update.
type Reason string

const (
	ReasonLoaded      Reason = "loaded"
	ReasonReloaded    Reason = "reloaded"
	ReasonDragStarted Reason = "drag-started"
	ReasonRetargeted  Reason = "retargeted"
	ReasonDragEnded   Reason = "drag-ended"
	ReasonCommitted   Reason = "committed"
	ReasonTierAdded   Reason = "tier-added"
	ReasonTierRenamed Reason = "tier-renamed"
	ReasonTierDeleted Reason = "tier-deleted"
	ReasonReturned    Reason = "returned"
	ReasonItemDeleted Reason = "item-deleted"
	ReasonItemsAdded  Reason = "items-added"
	ReasonImported    Reason = "imported"
)

// Update is delivered to subscribers after every observable change.
type Update struct {
	Board  board.Board
	Drag   drag.Snapshot
	Reason Reason
}

// Service owns the board and the drag session. It is safe for concurrent use;
// subscriber callbacks run after the lock is released.
type Service struct {
	persistence store.Persistence
	cfg         store.Config
	log         *zap.Logger

	mu      sync.Mutex
	board   board.Board
	session drag.Session
	subs    map[int]func(Update)
	nextSub int
}

// New returns a service over p. A nil logger discards logs; a nil config uses
// store.Settings defaults.
func New(p store.Persistence, cfg store.Config, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	if cfg == nil {
		cfg = store.Settings{Seed: true}
	}
	return &Service{
		persistence: p,
		cfg:         cfg,
		log:         log,
		subs:        make(map[int]func(Update)),
	}
}

// Open loads the saved board. A store that has never been saved to starts
// with the default tiers when the config asks for them.
func (s *Service) Open(ctx context.Context) error {
	if s.persistence == nil {
		return ErrNoPersistence
	}
	b, violations, err := s.persistence.Load(ctx)
	switch {
	case errors.Is(err, store.ErrNoBoard):
		b = board.Board{}
		if s.cfg.SeedTiers() {
			b = board.Default()
		}
		if err := s.persistence.Save(ctx, b); err != nil {
			return fmt.Errorf("app: save new board: %w", err)
		}
	case err != nil:
		return fmt.Errorf("app: load board: %w", err)
	}
	s.logViolations(violations)

	s.mu.Lock()
	s.setBoardLocked(b)
	s.mu.Unlock()
	s.publish(ReasonLoaded)
	return nil
}

// Reload replaces the board with the saved one, for example after another
// process wrote it. An in-flight drag survives and commits against the new
// board.
func (s *Service) Reload(ctx context.Context) error {
	if s.persistence == nil {
		return ErrNoPersistence
	}
	b, violations, err := s.persistence.Load(ctx)
	if err != nil {
		return fmt.Errorf("app: reload board: %w", err)
	}
	s.logViolations(violations)

	s.mu.Lock()
	s.setBoardLocked(b)
	s.mu.Unlock()
	s.publish(ReasonReloaded)
	return nil
}

// Watch passes through persistence change events.
func (s *Service) Watch(ctx context.Context) (<-chan store.Event, error) {
	if s.persistence == nil {
		return nil, ErrNoPersistence
	}
	return s.persistence.Watch(ctx)
}

// Board returns the current board.
func (s *Service) Board() board.Board {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.board
}

// Drag returns a snapshot of the drag session.
func (s *Service) Drag() drag.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session.Snapshot()
}

// Payload returns the stored bytes of an item.
func (s *Service) Payload(id string) ([]byte, error) {
	if s.persistence == nil {
		return nil, ErrNoPersistence
	}
	return s.persistence.Payload(id)
}

// Subscribe registers fn for updates and returns a function that removes it.
func (s *Service) Subscribe(fn func(Update)) (cancel func()) {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			s.mu.Unlock()
		})
	}
}

// publish sends the current state to subscribers in registration order. It
// must be called without the lock held.
func (s *Service) publish(reason Reason) {
	s.mu.Lock()
	u := Update{Board: s.board, Drag: s.session.Snapshot(), Reason: reason}
	ids := make([]int, 0, len(s.subs))
	for id := range s.subs {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	subs := make([]func(Update), len(ids))
	for i, id := range ids {
		subs[i] = s.subs[id]
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn(u)
	}
}

// saveLocked persists the current board. The caller holds the lock.
func (s *Service) saveLocked(ctx context.Context) error {
	if s.persistence == nil {
		return ErrNoPersistence
	}
	if err := s.persistence.Save(ctx, s.board); err != nil {
		s.log.Error("save board", zap.Error(err))
		return fmt.Errorf("app: save board: %w", err)
	}
	return nil
}

func (s *Service) logViolations(violations []board.Violation) {
	for _, v := range violations {
		s.log.Warn("repaired saved board",
			zap.String("tier", v.TierID),
			zap.String("item", v.ItemID),
			zap.String("reason", v.Reason))
	}
}
