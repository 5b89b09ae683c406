package printers

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/lucasb-eyer/go-colorful"

	"tableflip.dev/tierit/pkg/app"
	"tableflip.dev/tierit/pkg/board"
	"tableflip.dev/tierit/pkg/item"
)

// PrettyPrint renders boards for the terminal.
type PrettyPrint struct {
	ShowID bool
}

func (pp *PrettyPrint) NewLine() {
	_, _ = fmt.Fprintln(color.Output, "")
}

func (pp *PrettyPrint) Title(title string) {
	t := color.New(color.Bold, color.Underline)
	_, _ = t.Fprintln(color.Output, title)
}

func (pp *PrettyPrint) TitleWithCount(title string, count int) {
	t := color.New(color.Bold, color.Underline)
	c := color.New(color.Faint)

	_, _ = t.Fprint(color.Output, title)
	_, _ = c.Fprintf(color.Output, " - %d", count)

	switch count {
	case 1:
		_, _ = c.Fprintln(color.Output, " item")
	default:
		_, _ = c.Fprintln(color.Output, " items")
	}
}

// Board prints every tier as a row, then the library.
func (pp *PrettyPrint) Board(b board.Board) {
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.Wrap = true
	tbl.MaxColWidth = 72
	for _, t := range b.Tiers() {
		label := Chip(t.Color, t.Name)
		if pp.ShowID {
			label += color.New(color.Faint).Sprintf(" (%s)", t.ID)
		}
		tbl.AddRow(label, pp.items(t.Items))
	}
	if len(tbl.Rows) > 0 {
		_, _ = fmt.Fprintln(color.Output, tbl)
		pp.NewLine()
	}
	pp.Library(b.Library())
}

// Library prints the unranked items.
func (pp *PrettyPrint) Library(items []item.Item) {
	pp.TitleWithCount("Library", len(items))
	if len(items) == 0 {
		f := color.New(color.Faint, color.Italic)
		_, _ = f.Fprint(color.Output, " none\n\n")
		return
	}
	tbl := uitable.New()
	tbl.Separator = "  "
	y := color.New(color.FgHiYellow, color.Italic, color.Faint)
	for _, it := range items {
		if pp.ShowID {
			tbl.AddRow(y.Sprint(it.ShortID()), it.Label(), it.Payload.MediaType)
		} else {
			tbl.AddRow(it.Label(), it.Payload.MediaType)
		}
	}
	_, _ = fmt.Fprintln(color.Output, tbl)
	pp.NewLine()
}

func (pp *PrettyPrint) items(items []item.Item) string {
	if len(items) == 0 {
		return color.New(color.Faint, color.Italic).Sprint("empty")
	}
	y := color.New(color.FgHiYellow, color.Faint)
	parts := make([]string, len(items))
	for i, it := range items {
		if pp.ShowID {
			parts[i] = y.Sprint(it.ShortID()) + " " + it.Label()
		} else {
			parts[i] = it.Label()
		}
	}
	return strings.Join(parts, ", ")
}

// Report prints the per-tier tally with a bar for each tier's share.
func (pp *PrettyPrint) Report(r app.ReportResult) {
	pp.Title("Ranking")
	tbl := uitable.New()
	tbl.Separator = "  "
	for _, s := range r.Sections {
		tbl.AddRow(Chip(s.Tier.Color, s.Tier.Name), s.Count, bar(s.Tier.Color, s.Share, 30))
	}
	tbl.RightAlign(1)
	_, _ = fmt.Fprintln(color.Output, tbl)
	f := color.New(color.Faint)
	_, _ = f.Fprintf(color.Output, "%d of %d ranked (%.0f%%), %d in library\n\n",
		r.Ranked, r.Total, r.Progress()*100, r.Unranked)
}

// Violations lists the repairs made while loading a board.
func (pp *PrettyPrint) Violations(vs []board.Violation) {
	if len(vs) == 0 {
		return
	}
	w := color.New(color.FgYellow)
	for _, v := range vs {
		_, _ = w.Fprintf(color.Output, "repaired: %s\n", v.Error())
	}
	pp.NewLine()
}

// Chip renders text on the tier color with a readable foreground.
func Chip(hex, text string) string {
	c, err := colorful.Hex(hex)
	if err != nil {
		return color.New(color.Bold).Sprintf(" %s ", text)
	}
	r, g, b := c.RGB255()
	chip := color.BgRGB(int(r), int(g), int(b)).Add(color.Bold)
	if _, _, l := c.Hcl(); l > 0.6 {
		chip = chip.Add(color.FgBlack)
	} else {
		chip = chip.Add(color.FgWhite)
	}
	return chip.Sprintf(" %s ", text)
}

func bar(hex string, share float64, width int) string {
	n := int(share*float64(width) + 0.5)
	if n <= 0 {
		return ""
	}
	c, err := colorful.Hex(hex)
	if err != nil {
		return strings.Repeat("█", n)
	}
	r, g, b := c.RGB255()
	return color.RGB(int(r), int(g), int(b)).Sprint(strings.Repeat("█", n))
}
