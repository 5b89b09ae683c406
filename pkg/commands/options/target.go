package options

import (
	"errors"

	"github.com/spf13/cobra"

	"tableflip.dev/tierit/pkg/drag"
)

// TargetOptions
type TargetOptions struct {
	Tier    string
	Index   int
	Library bool
}

func AddTargetArgs(cmd *cobra.Command, o *TargetOptions) {
	cmd.Flags().StringVarP(&o.Tier, "tier", "t", "",
		"Tier to drop into.")
	cmd.Flags().IntVarP(&o.Index, "index", "i", -1,
		"Slot to drop into, 0 is first. Defaults to the end of the tier.")
	cmd.Flags().BoolVarP(&o.Library, "library", "l", false,
		"Drop into the library.")
}

// Location resolves the flags, or a positional location such as "s:2" or
// "library", into a drop target.
func (o *TargetOptions) Location(args []string) (drag.Location, error) {
	switch {
	case len(args) > 0:
		return drag.ParseLocation(args[0])
	case o.Library:
		return drag.Library(), nil
	case o.Tier == "":
		return drag.Location{}, errors.New("no target, use --tier or --library")
	case o.Index < 0:
		return drag.Tier(o.Tier, drag.AppendIndex), nil
	default:
		return drag.Tier(o.Tier, o.Index), nil
	}
}
