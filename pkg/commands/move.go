package commands

import (
	"github.com/spf13/cobra"

	base "github.com/n3wscott/cli-base/pkg/commands/options"

	"tableflip.dev/tierit/pkg/commands/options"
	"tableflip.dev/tierit/pkg/runner/move"
)

func addMove(topLevel *cobra.Command) {
	io := &options.IDOptions{}
	to := &options.TargetOptions{}

	cmd := &cobra.Command{
		Use:     "move <item> [location]",
		Aliases: []string{"mv", "drag"},
		Short:   "Drag an item to a tier slot or the library",
		Long: base.Wrap80(`Drag an item, named by its id or a unique prefix of it, to a new
location. A location is "library", a tier id to append to it, or "<tier>:<index>"
to insert before the item at index.`),
		Example: `
tierit move 3f2a s
tierit move 3f2a s:0
tierit move 3f2a --tier a --index 2
tierit move 3f2a library
`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := to.Location(args[1:])
			if err != nil {
				return output.HandleError(err)
			}
			svc, done, err := openService(cmd.Context(), false)
			if err != nil {
				return output.HandleError(err)
			}
			defer done()
			m := move.Move{
				ID:      args[0],
				Target:  target,
				ShowID:  io.ShowID,
				Service: svc,
			}
			err = m.Do(cmd.Context())
			return output.HandleError(err)
		},
	}

	options.AddTargetArgs(cmd, to)
	registerTierCompletion(cmd, "tier")
	options.AddShowIDArgs(cmd, io)

	topLevel.AddCommand(cmd)
}

func addReturn(topLevel *cobra.Command) {
	io := &options.IDOptions{}

	cmd := &cobra.Command{
		Use:     "return <item>",
		Aliases: []string{"eject"},
		Short:   "Send a ranked item back to the library",
		Example: `
tierit return 3f2a
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, done, err := openService(cmd.Context(), false)
			if err != nil {
				return output.HandleError(err)
			}
			defer done()
			r := move.Return{ID: args[0], ShowID: io.ShowID, Service: svc}
			err = r.Do(cmd.Context())
			return output.HandleError(err)
		},
	}

	options.AddShowIDArgs(cmd, io)

	topLevel.AddCommand(cmd)
}

func addDelete(topLevel *cobra.Command) {
	io := &options.IDOptions{}

	cmd := &cobra.Command{
		Use:     "delete <item>",
		Aliases: []string{"rm"},
		Short:   "Remove a library item and its image",
		Example: `
tierit delete 3f2a
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, done, err := openService(cmd.Context(), false)
			if err != nil {
				return output.HandleError(err)
			}
			defer done()
			d := move.Delete{ID: args[0], ShowID: io.ShowID, Service: svc}
			err = d.Do(cmd.Context())
			return output.HandleError(err)
		},
	}

	options.AddShowIDArgs(cmd, io)

	topLevel.AddCommand(cmd)
}
