package options

import (
	"github.com/spf13/cobra"
)

// TierOptions
type TierOptions struct {
	Name  string
	Color string
}

func AddTierArgs(cmd *cobra.Command, o *TierOptions) {
	cmd.Flags().StringVarP(&o.Name, "name", "n", "",
		"Tier name, at most 30 characters.")
	cmd.Flags().StringVarP(&o.Color, "color", "c", "",
		"Tier label color as #rgb or #rrggbb.")
}
