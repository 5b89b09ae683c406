package drag

import "math"

// DefaultItemWidth is the horizontal pitch of one tile in a tier row: an 80
// unit tile plus an 8 unit gap.
const DefaultItemWidth float64 = 88

// Pointer is a horizontal pointer position relative to a tier row.
type Pointer struct {
	X         float64
	OriginX   float64
	ItemWidth float64
}

// Index resolves the pointer against a row holding itemCount items.
func (p Pointer) Index(itemCount int) int {
	w := p.ItemWidth
	if w == 0 {
		w = DefaultItemWidth
	}
	return ResolveIndex(p.X, p.OriginX, w, itemCount)
}

// ResolveIndex maps a pointer coordinate over a left-to-right row of fixed
// width tiles to an insert-before index in [0, itemCount].
func ResolveIndex(pointerX, originX, itemWidth float64, itemCount int) int {
	if itemCount <= 0 {
		return 0
	}
	if !(itemWidth > 0) || math.IsInf(itemWidth, 0) {
		return 0
	}
	pos := math.Floor((pointerX - originX) / itemWidth)
	switch {
	case math.IsNaN(pos):
		return 0
	case pos <= 0:
		return 0
	case pos >= float64(itemCount):
		return itemCount
	}
	return int(pos)
}

func clamp(index, length int) int {
	if length < 0 {
		length = 0
	}
	if index < 0 {
		return 0
	}
	if index > length {
		return length
	}
	return index
}
