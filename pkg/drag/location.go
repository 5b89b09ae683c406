// Package drag tracks an in-progress drag gesture: what is being moved, where
// it came from, and where the pointer would currently drop it.
package drag

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// AppendIndex is a tier index that clamps to the end of any tier.
const AppendIndex = math.MaxInt

// Kind discriminates the containers a Location can name.
type Kind int

const (
	// KindLibrary is the free pool of unranked items.
	KindLibrary Kind = iota
	// KindTier is a slot inside a specific tier.
	KindTier
)

// Location is either the library or an insert-before slot inside a tier.
// Index is only meaningful for tiers; Index == len(items) means append.
type Location struct {
	Kind   Kind
	TierID string
	Index  int
}

// Library returns the library location.
func Library() Location {
	return Location{Kind: KindLibrary}
}

// Tier returns the location of slot index inside tierID.
func Tier(tierID string, index int) Location {
	return Location{Kind: KindTier, TierID: tierID, Index: index}
}

// IsLibrary reports whether l names the library.
func (l Location) IsLibrary() bool {
	return l.Kind == KindLibrary
}

// IsTier reports whether l names a tier slot.
func (l Location) IsTier() bool {
	return l.Kind == KindTier
}

// SameContainer reports whether both locations name the same container,
// ignoring the index.
func (l Location) SameContainer(o Location) bool {
	if l.Kind != o.Kind {
		return false
	}
	return l.Kind == KindLibrary || l.TierID == o.TierID
}

// Clamp returns l with its index forced into [0, length]. Any non-tier
// location normalizes to the plain Library() location.
func (l Location) Clamp(length int) Location {
	if l.Kind != KindTier {
		return Location{Kind: KindLibrary}
	}
	l.Index = clamp(l.Index, length)
	return l
}

func (l Location) String() string {
	if l.Kind == KindLibrary {
		return "library"
	}
	if l.Index == AppendIndex {
		return l.TierID
	}
	return fmt.Sprintf("%s:%d", l.TierID, l.Index)
}

// ParseLocation reads the textual form produced by String: "library" or
// "<tier>:<index>". A bare "<tier>" means append: its index is AppendIndex,
// which any Clamp resolves to the tier's length.
func ParseLocation(s string) (Location, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Location{}, fmt.Errorf("drag: empty location")
	}
	if strings.EqualFold(s, "library") || strings.EqualFold(s, "lib") {
		return Library(), nil
	}
	id, rawIdx, ok := strings.Cut(s, ":")
	if !ok {
		return Tier(s, AppendIndex), nil
	}
	if id == "" {
		return Location{}, fmt.Errorf("drag: location %q has no tier", s)
	}
	idx, err := strconv.Atoi(rawIdx)
	if err != nil {
		return Location{}, fmt.Errorf("drag: location %q: %w", s, err)
	}
	if idx < 0 {
		return Location{}, fmt.Errorf("drag: location %q: negative index", s)
	}
	return Tier(id, idx), nil
}
