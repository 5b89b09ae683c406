package commands

import (
	"github.com/spf13/cobra"

	base "github.com/n3wscott/cli-base/pkg/commands/options"

	"tableflip.dev/tierit/pkg/runner/transfer"
)

func addExport(topLevel *cobra.Command) {
	var inline bool

	cmd := &cobra.Command{
		Use:   "export [file]",
		Short: "Save the board as a JSON document",
		Long: base.Wrap80(`Save the whole board as a JSON document. With --inline every image is
embedded as a data URL so the file can be imported on another machine.`),
		Example: `
tierit export board.json
tierit export --inline board.json
tierit export > board.json
`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, done, err := openService(cmd.Context(), false)
			if err != nil {
				return output.HandleError(err)
			}
			defer done()
			e := transfer.Export{Inline: inline, Service: svc}
			if len(args) > 0 {
				e.Path = args[0]
			}
			err = e.Do(cmd.Context())
			return output.HandleError(err)
		},
	}

	cmd.Flags().BoolVar(&inline, "inline", false, "Embed images as data URLs.")

	topLevel.AddCommand(cmd)
}

func addImport(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Replace the board with a saved JSON document",
		Example: `
tierit import board.json
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, done, err := openService(cmd.Context(), false)
			if err != nil {
				return output.HandleError(err)
			}
			defer done()
			i := transfer.Import{Path: args[0], Service: svc}
			err = i.Do(cmd.Context())
			return output.HandleError(err)
		},
	}

	topLevel.AddCommand(cmd)
}
