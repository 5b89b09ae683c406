package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/tierit/pkg/commands/options"
	"tableflip.dev/tierit/pkg/runner/show"
)

func addShow(topLevel *cobra.Command) {
	io := &options.IDOptions{}
	var tier string

	cmd := &cobra.Command{
		Use:     "show",
		Aliases: []string{"get", "ls"},
		Short:   "Print the board",
		Example: `
tierit show
tierit show --tier s
tierit show --json
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, done, err := openService(cmd.Context(), false)
			if err != nil {
				return output.HandleError(err)
			}
			defer done()
			s := show.Show{
				ShowID:  io.ShowID,
				JSON:    output.JSON,
				TierID:  tier,
				Service: svc,
			}
			err = s.Do(cmd.Context())
			return output.HandleError(err)
		},
	}

	cmd.Flags().StringVarP(&tier, "tier", "t", "", "Only show this tier.")
	registerTierCompletion(cmd, "tier")
	options.AddShowIDArgs(cmd, io)

	topLevel.AddCommand(cmd)
}
