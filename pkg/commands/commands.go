package commands

import (
	"github.com/spf13/cobra"

	base "github.com/n3wscott/cli-base/pkg/commands/options"

	"tableflip.dev/tierit/pkg/commands/options"
)

var (
	output = &options.OutputOptions{}
)

func New() *cobra.Command {

	cmd := &cobra.Command{
		Use:   "tierit",
		Short: base.Wrap80("Rank images into tiers from the command line."),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
		SilenceUsage: true,
	}
	options.AddOutputArg(cmd, output)

	AddCommands(cmd)
	return cmd
}

func AddCommands(topLevel *cobra.Command) {
	addUI(topLevel)
	addKey(topLevel)
	addShow(topLevel)
	addAdd(topLevel)
	addMove(topLevel)
	addReturn(topLevel)
	addDelete(topLevel)
	addTier(topLevel)
	addExport(topLevel)
	addImport(topLevel)
	addReport(topLevel)
	addVersion(topLevel)
}
