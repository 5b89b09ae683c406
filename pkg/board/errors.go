package board

import "errors"

var (
	// ErrNotFound means a referenced tier, item or index no longer exists.
	ErrNotFound = errors.New("board: not found")
	// ErrInvalidIndex means a source index is outside its tier.
	ErrInvalidIndex = errors.New("board: index out of range")
	// ErrInvariantViolation marks state that breaks item uniqueness.
	ErrInvariantViolation = errors.New("board: invariant violation")
	// ErrCancelled means a move had no item or no target.
	ErrCancelled = errors.New("board: move cancelled")
	// ErrDuplicateTier is returned when adding a tier whose id is taken.
	ErrDuplicateTier = errors.New("board: duplicate tier id")
	// ErrInvalidTier is returned for tiers with a bad id, name or color.
	ErrInvalidTier = errors.New("board: invalid tier")
)
