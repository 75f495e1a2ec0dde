package commands

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"tableflip.dev/focusflow/pkg/app"
)

func addDashboard(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:     "dashboard",
		Aliases: []string{"today", "report"},
		Short:   "Today's goals, next tasks, streak and the week's focus",
		Example: `
focusflow dashboard
focusflow dashboard -o json
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			svc, err := service(cmd)
			if err != nil {
				return err
			}

			r, err := svc.Dashboard(cmd.Context())
			warn(cmd, err)

			if output.Structured() {
				return output.Print(r)
			}
			renderDashboard(cmd, r)
			return nil
		},
	}

	addOutput(cmd)
	topLevel.AddCommand(cmd)
}

func renderDashboard(cmd *cobra.Command, r app.DashboardReport) {
	pp := printer(cmd, false)
	out := cmd.OutOrStdout()

	who := r.Name
	if who == "" {
		who = "guest"
	}
	_, _ = color.New(color.Bold).Fprintf(out, "Hello, %s", who)
	_, _ = color.New(color.Faint).Fprintf(out, "  %s\n\n", r.Date)

	pp.Progress(r.Snapshot, r.Goals)

	pp.TitleWithCount("Up next", r.Pending)
	pp.List(r.Top...)

	pp.Streak(r.Quote, r.Streak, r.Best)
	pp.Title("This week")
	pp.Trend(r.Week)

	if r.Mood != "" {
		_, _ = fmt.Fprintf(out, "mood: %s\n", r.Mood)
	}
}
