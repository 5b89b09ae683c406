package commands

import (
	"errors"

	"github.com/spf13/cobra"

	"tableflip.dev/tierit/pkg/commands/options"
	"tableflip.dev/tierit/pkg/runner/tier"
)

func addTier(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "tier",
		Short: "Add, rename or delete tiers",
		Example: `
tierit tier add --name "God tier" --color "#ff00ff"
tierit tier rename s --name Best
tierit tier delete e
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	addTierAdd(cmd)
	addTierRename(cmd)
	addTierDelete(cmd)

	topLevel.AddCommand(cmd)
}

func addTierAdd(topLevel *cobra.Command) {
	to := &options.TierOptions{}

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Append a tier, named New unless --name is given",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, done, err := openService(cmd.Context(), false)
			if err != nil {
				return output.HandleError(err)
			}
			defer done()
			a := tier.Add{Name: to.Name, Color: to.Color, Service: svc}
			err = a.Do(cmd.Context())
			return output.HandleError(err)
		},
	}

	options.AddTierArgs(cmd, to)

	topLevel.AddCommand(cmd)
}

func addTierRename(topLevel *cobra.Command) {
	to := &options.TierOptions{}

	cmd := &cobra.Command{
		Use:               "rename <tier>",
		Short:             "Change the name or color of a tier",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeTierArg,
		RunE: func(cmd *cobra.Command, args []string) error {
			if to.Name == "" && to.Color == "" {
				return output.HandleError(errors.New("nothing to change, use --name or --color"))
			}
			svc, done, err := openService(cmd.Context(), false)
			if err != nil {
				return output.HandleError(err)
			}
			defer done()
			r := tier.Rename{ID: args[0], Name: to.Name, Color: to.Color, Service: svc}
			err = r.Do(cmd.Context())
			return output.HandleError(err)
		},
	}

	options.AddTierArgs(cmd, to)

	topLevel.AddCommand(cmd)
}

func addTierDelete(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:               "delete <tier>",
		Aliases:           []string{"rm"},
		Short:             "Delete a tier, returning its items to the library",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeTierArg,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, done, err := openService(cmd.Context(), false)
			if err != nil {
				return output.HandleError(err)
			}
			defer done()
			d := tier.Delete{ID: args[0], Service: svc}
			err = d.Do(cmd.Context())
			return output.HandleError(err)
		},
	}

	topLevel.AddCommand(cmd)
}

func completeTierArg(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return tierCompletions(toComplete), cobra.ShellCompDirectiveNoFileComp
}
