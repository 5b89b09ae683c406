package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"tableflip.dev/tierit/pkg/board"
	"tableflip.dev/tierit/pkg/ingest"
	"tableflip.dev/tierit/pkg/item"
)

// apply runs fn against the current board and, when it succeeds, saves the
// result and publishes reason.
func (s *Service) apply(ctx context.Context, reason Reason, fn func(board.Board) (board.Board, error)) error {
	s.mu.Lock()
	next, err := fn(s.board)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	s.setBoardLocked(next)
	saveErr := s.saveLocked(ctx)
	s.mu.Unlock()
	s.publish(reason)
	return saveErr
}

// NewTierID returns a fresh tier id.
func NewTierID() string {
	return "tier-" + strings.SplitN(uuid.NewString(), "-", 2)[0]
}

// AddTier appends a tier. Empty name and color fall back to board.DefaultName
// and board.DefaultColor.
func (s *Service) AddTier(ctx context.Context, name, color string) (board.Tier, error) {
	t, err := board.NewTier(NewTierID(), name, color)
	if err != nil {
		return board.Tier{}, err
	}
	err = s.apply(ctx, ReasonTierAdded, func(b board.Board) (board.Board, error) {
		return b.AddTier(t)
	})
	if err != nil {
		return board.Tier{}, err
	}
	s.log.Info("tier added", zap.String("tier", t.ID), zap.String("name", t.Name))
	return t, nil
}

// RenameTier changes a tier's name and color.
func (s *Service) RenameTier(ctx context.Context, tierID, name, color string) error {
	return s.apply(ctx, ReasonTierRenamed, func(b board.Board) (board.Board, error) {
		if color == "" {
			t, ok := b.Tier(tierID)
			if !ok {
				return b, fmt.Errorf("app: tier %q: %w", tierID, board.ErrNotFound)
			}
			color = t.Color
		}
		return b.RenameTier(tierID, name, color)
	})
}

// DeleteTier removes a tier; its items go back to the library.
func (s *Service) DeleteTier(ctx context.Context, tierID string) error {
	err := s.apply(ctx, ReasonTierDeleted, func(b board.Board) (board.Board, error) {
		return b.DeleteTier(tierID)
	})
	if err == nil {
		s.log.Info("tier deleted", zap.String("tier", tierID))
	}
	return err
}

// ReturnToLibrary ejects an item from a tier back into the library.
func (s *Service) ReturnToLibrary(ctx context.Context, itemID, tierID string) error {
	return s.apply(ctx, ReasonReturned, func(b board.Board) (board.Board, error) {
		return b.ReturnToLibrary(itemID, tierID)
	})
}

// DeleteLibraryItem removes an item for good, payload included. Only library
// items can be deleted.
func (s *Service) DeleteLibraryItem(ctx context.Context, itemID string) error {
	var removed item.Item
	err := s.apply(ctx, ReasonItemDeleted, func(b board.Board) (board.Board, error) {
		next, it, err := b.DeleteLibraryItem(itemID)
		removed = it
		return next, err
	})
	if err != nil {
		return err
	}
	if s.persistence != nil {
		if err := s.persistence.DeletePayload(removed.ID); err != nil {
			s.log.Warn("delete payload", zap.String("item", removed.ID), zap.Error(err))
		}
	}
	s.log.Info("item deleted", zap.String("item", removed.ID))
	return nil
}

// AddItems stores the payloads and appends the items to the library. The
// batch is all or nothing on the board.
func (s *Service) AddItems(ctx context.Context, blobs ...ingest.Blob) error {
	if len(blobs) == 0 {
		return nil
	}
	if s.persistence == nil {
		return ErrNoPersistence
	}
	s.mu.Lock()
	next := s.board
	for _, blob := range blobs {
		var err error
		next, err = next.AppendToLibrary(blob.Item)
		if err != nil {
			s.mu.Unlock()
			return err
		}
	}
	var (
		errs    []error
		written []string
	)
	for _, blob := range blobs {
		if err := s.persistence.PutPayload(blob.Item.ID, blob.Data); err != nil {
			errs = append(errs, err)
			continue
		}
		written = append(written, blob.Item.ID)
	}
	if err := errors.Join(errs...); err != nil {
		for _, id := range written {
			if derr := s.persistence.DeletePayload(id); derr != nil {
				s.log.Warn("orphaned payload", zap.String("item", id), zap.Error(derr))
			}
		}
		s.mu.Unlock()
		return fmt.Errorf("app: store payloads: %w", err)
	}
	s.setBoardLocked(next)
	saveErr := s.saveLocked(ctx)
	s.mu.Unlock()

	s.log.Info("items added", zap.Int("count", len(blobs)))
	s.publish(ReasonItemsAdded)
	return saveErr
}
