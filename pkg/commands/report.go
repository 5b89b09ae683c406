package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/tierit/pkg/runner/report"
)

func addReport(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Show how the images are spread over the tiers",
		Example: `
tierit report
tierit report --json
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, done, err := openService(cmd.Context(), false)
			if err != nil {
				return output.HandleError(err)
			}
			defer done()
			r := report.Report{JSON: output.JSON, Service: svc}
			err = r.Do(cmd.Context())
			return output.HandleError(err)
		},
	}

	topLevel.AddCommand(cmd)
}
