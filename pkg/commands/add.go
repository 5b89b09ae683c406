package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/tierit/pkg/commands/options"
	"tableflip.dev/tierit/pkg/runner/add"
)

func addAdd(topLevel *cobra.Command) {
	io := &options.IDOptions{}
	var quiet bool

	cmd := &cobra.Command{
		Use:   "add <image>...",
		Short: "Add images to the library",
		Example: `
tierit add cat.png dog.jpg
tierit add ~/Pictures/memes/*
`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, done, err := openService(cmd.Context(), false)
			if err != nil {
				return output.HandleError(err)
			}
			defer done()
			a := add.Add{
				Paths:   args,
				ShowID:  io.ShowID,
				Quiet:   quiet || output.JSON,
				Service: svc,
			}
			err = a.Do(cmd.Context())
			return output.HandleError(err)
		},
	}

	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Do not print progress.")
	options.AddShowIDArgs(cmd, io)

	topLevel.AddCommand(cmd)
}
