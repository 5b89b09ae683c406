package app

import (
	"tableflip.dev/tierit/pkg/board"
)

// ReportSection tallies one tier.
type ReportSection struct {
	Tier  board.Tier
	Count int
	// Share is the fraction of ranked items in this tier.
	Share float64
}

// ReportResult summarizes how far ranking has got.
type ReportResult struct {
	Sections []ReportSection
	Ranked   int
	Unranked int
	Total    int
}

// Progress is the fraction of all items that have been ranked.
func (r ReportResult) Progress() float64 {
	if r.Total == 0 {
		return 0
	}
	return float64(r.Ranked) / float64(r.Total)
}

// Report tallies the current board.
func (s *Service) Report() ReportResult {
	return Tally(s.Board())
}

// Tally summarizes b.
func Tally(b board.Board) ReportResult {
	tiers := b.Tiers()
	res := ReportResult{
		Sections: make([]ReportSection, 0, len(tiers)),
		Unranked: len(b.Library()),
	}
	for _, t := range tiers {
		res.Ranked += t.Len()
		res.Sections = append(res.Sections, ReportSection{Tier: t, Count: t.Len()})
	}
	res.Total = res.Ranked + res.Unranked
	if res.Ranked > 0 {
		for i := range res.Sections {
			res.Sections[i].Share = float64(res.Sections[i].Count) / float64(res.Ranked)
		}
	}
	return res
}
