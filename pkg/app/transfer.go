package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"tableflip.dev/tierit/pkg/board"
	"tableflip.dev/tierit/pkg/store"
)

// Import replaces the board with the one in doc. Inline payloads are stored,
// the state is repaired by board.Sanitize and every repair is returned.
func (s *Service) Import(ctx context.Context, doc store.Document) ([]board.Violation, error) {
	if s.persistence == nil {
		return nil, ErrNoPersistence
	}
	st, blobs := doc.State()
	b, violations := board.Sanitize(st)
	for id, data := range blobs {
		if err := s.persistence.PutPayload(id, data); err != nil {
			return nil, fmt.Errorf("app: import payload %q: %w", id, err)
		}
	}
	s.logViolations(violations)

	s.mu.Lock()
	s.setBoardLocked(b)
	err := s.saveLocked(ctx)
	s.mu.Unlock()

	s.log.Info("board imported", zap.Int("items", b.Count()), zap.Int("repairs", len(violations)))
	s.publish(ReasonImported)
	return violations, err
}

// Export captures the board as a document. With inline set every payload is
// embedded so the document stands alone.
func (s *Service) Export(inline bool) (store.Document, error) {
	doc := store.NewDocument(s.Board(), time.Now())
	if !inline {
		return doc, nil
	}
	if s.persistence == nil {
		return store.Document{}, ErrNoPersistence
	}
	if err := doc.Inline(s.persistence.Payload); err != nil {
		return store.Document{}, err
	}
	return doc, nil
}
