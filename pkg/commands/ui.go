package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/tierit/pkg/runner/ui"
)

func addUI(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "ui",
		Short: "open the interactive board",
		Example: `
tierit ui
`,
		ValidArgs: []string{},
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, done, err := openService(cmd.Context(), true)
			if err != nil {
				return err
			}
			defer done()
			i := ui.UI{Service: svc}
			return i.Do(cmd.Context())
		},
	}

	topLevel.AddCommand(cmd)
}
