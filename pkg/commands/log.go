package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"tableflip.dev/focusflow/pkg/app"
	"tableflip.dev/focusflow/pkg/commands/options"
	"tableflip.dev/focusflow/pkg/metrics"
	"tableflip.dev/focusflow/pkg/timeutil"
)

func addStats(topLevel *cobra.Command) {
	so := &options.StatsOptions{}
	var last string

	cmd := &cobra.Command{
		Use:     "stats",
		Aliases: []string{"analytics", "log"},
		Short:   "Focus, task and water trends for the last week or month",
		Example: `
focusflow stats
focusflow stats --monthly
focusflow stats --last 2w
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			svc, err := service(cmd)
			if err != nil {
				return err
			}

			var r metrics.Report
			if cmd.Flags().Changed("last") {
				days, _, perr := timeutil.ParseWindow(last)
				if perr != nil {
					return output.HandleError(perr)
				}
				r, err = svc.AnalyticsDays(cmd.Context(), days)
				if errors.Is(err, app.ErrValidation) {
					return output.HandleError(err)
				}
				warn(cmd, err)
			} else {
				r, err = svc.Analytics(cmd.Context(), so.Period())
				warn(cmd, err)
			}
			if errors.Is(err, app.ErrSignedOut) && !output.Structured() {
				_, _ = fmt.Fprintln(cmd.ErrOrStderr(), "history is kept by the server, run `focusflow login` to see it")
			}

			if output.Structured() {
				return output.Print(r)
			}
			printer(cmd, false).Analytics(r)
			return nil
		},
	}

	options.AddStatsArgs(cmd, so)
	cmd.Flags().StringVar(&last, "last", timeutil.DefaultWindow, "Window to report on, for example 10d or 2w, at most 30 days.")
	addOutput(cmd)
	topLevel.AddCommand(cmd)
}
