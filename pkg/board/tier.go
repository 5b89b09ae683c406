package board

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/lucasb-eyer/go-colorful"

	"tableflip.dev/tierit/pkg/item"
)

const (
	// DefaultName is the name given to tiers added without one.
	DefaultName = "New"
	// DefaultColor is the label color given to tiers added without one.
	DefaultColor = "#999999"
	// MaxNameLength bounds tier names, in runes.
	MaxNameLength = 30
)

// Tier is a named, colored, ordered bucket of items. Order is rank.
type Tier struct {
	ID    string      `json:"id"`
	Name  string      `json:"name"`
	Color string      `json:"color"`
	Items []item.Item `json:"items"`
}

// Len returns the number of items in the tier.
func (t Tier) Len() int {
	return len(t.Items)
}

// IndexOf returns the position of itemID in the tier or -1.
func (t Tier) IndexOf(itemID string) int {
	for i, it := range t.Items {
		if it.ID == itemID {
			return i
		}
	}
	return -1
}

// clone copies the items so callers can't write through. Items is never nil
// afterwards.
func (t Tier) clone() Tier {
	t.Items = item.Clone(t.Items)
	if t.Items == nil {
		t.Items = []item.Item{}
	}
	return t
}

// DefaultTiers returns the starting S to E ladder of a fresh board.
func DefaultTiers() []Tier {
	return []Tier{
		{ID: "s", Name: "S", Color: "#ff7f7f"},
		{ID: "a", Name: "A", Color: "#ffbf7f"},
		{ID: "b", Name: "B", Color: "#ffdf7f"},
		{ID: "c", Name: "C", Color: "#bfff7f"},
		{ID: "d", Name: "D", Color: "#7fffbf"},
		{ID: "e", Name: "E", Color: "#7fbfff"},
	}
}

type tierLabel struct {
	ID    string `validate:"required,excludesall=:"`
	Name  string `validate:"required,max=30"`
	Color string `validate:"required,hexcolor"`
}

var validate = validator.New()

// NewTier returns an empty tier after validating and normalizing its label.
// Empty names and colors fall back to DefaultName and DefaultColor.
func NewTier(id, name, color string) (Tier, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = DefaultName
	}
	if strings.TrimSpace(color) == "" {
		color = DefaultColor
	}
	t := Tier{ID: strings.TrimSpace(id), Name: name, Color: color}
	if err := t.validate(); err != nil {
		return Tier{}, err
	}
	t.Color = NormalizeColor(t.Color)
	return t, nil
}

func (t Tier) validate() error {
	if err := validate.Struct(tierLabel{ID: t.ID, Name: t.Name, Color: t.Color}); err != nil {
		return fmt.Errorf("%w %q: %v", ErrInvalidTier, t.ID, err)
	}
	if _, err := colorful.Hex(t.Color); err != nil {
		return fmt.Errorf("%w %q: color %q: %v", ErrInvalidTier, t.ID, t.Color, err)
	}
	return nil
}

// NormalizeColor expands a #rgb or #rrggbb color to lower-case #rrggbb. Colors
// that do not parse are returned unchanged.
func NormalizeColor(color string) string {
	c, err := colorful.Hex(color)
	if err != nil {
		return color
	}
	return c.Hex()
}
