package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/tierit/pkg/runner/key"
)

func addKey(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "key",
		Short: "Print the keys of the interactive board",
		Example: `
tierit key
`,
		ValidArgs: []string{},
		RunE: func(cmd *cobra.Command, args []string) error {
			k := key.Key{}
			err := k.Do(cmd.Context())
			return output.HandleError(err)
		},
	}

	topLevel.AddCommand(cmd)
}
