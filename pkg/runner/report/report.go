// Package report prints how the images are spread over the tiers.
package report

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/fatih/color"

	"tableflip.dev/tierit/pkg/app"
	"tableflip.dev/tierit/pkg/printers"
)

type Report struct {
	JSON    bool
	Service *app.Service
}

type jsonSection struct {
	Tier  string  `json:"tier"`
	Name  string  `json:"name"`
	Count int     `json:"count"`
	Share float64 `json:"share"`
}

type jsonReport struct {
	Sections []jsonSection `json:"sections"`
	Ranked   int           `json:"ranked"`
	Unranked int           `json:"unranked"`
	Total    int           `json:"total"`
	Progress float64       `json:"progress"`
}

func (n *Report) Do(_ context.Context) error {
	if n.Service == nil {
		return errors.New("can not report, no service")
	}
	r := n.Service.Report()

	if n.JSON {
		out := jsonReport{
			Sections: make([]jsonSection, 0, len(r.Sections)),
			Ranked:   r.Ranked,
			Unranked: r.Unranked,
			Total:    r.Total,
			Progress: r.Progress(),
		}
		for _, s := range r.Sections {
			out.Sections = append(out.Sections, jsonSection{Tier: s.Tier.ID, Name: s.Tier.Name, Count: s.Count, Share: s.Share})
		}
		b, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintln(color.Output, string(b))
		return nil
	}

	pp := printers.PrettyPrint{}
	pp.NewLine()
	pp.Report(r)
	return nil
}
