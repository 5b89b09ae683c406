package printers

import (
	"strings"
	"testing"

	"github.com/fatih/color"
)

func TestChipKeepsText(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	if got := Chip("#ff7f7f", "S"); got != " S " {
		t.Fatalf("chip = %q", got)
	}
	if got := Chip("not a color", "A"); got != " A " {
		t.Fatalf("chip with bad color = %q", got)
	}
}

func TestBarWidth(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	if got := bar("#fff", 0.5, 10); strings.Count(got, "█") != 5 {
		t.Fatalf("bar = %q", got)
	}
	if got := bar("#fff", 0, 10); got != "" {
		t.Fatalf("empty share should draw nothing, got %q", got)
	}
}
