package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"tableflip.dev/focusflow/pkg/day"
)

func addMigrate(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:     "mv <task id> <date>",
		Aliases: []string{"migrate", "reschedule"},
		Short:   "Move a task to another day",
		Example: `
focusflow mv <task id> tomorrow
focusflow mv <task id> 3/14
focusflow mv <task id> mon
`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			svc, err := service(cmd)
			if err != nil {
				return err
			}
			id, err := resolveID(svc, args[0])
			if err != nil {
				return output.HandleError(err)
			}

			t, err := svc.Reschedule(cmd.Context(), id, args[1])
			if t.ID == "" {
				return output.HandleError(err)
			}
			warn(cmd, err)

			if output.Structured() {
				return output.Print(t)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "moved %q to %s\n", t.Title, day.Label(t.Date, svc.Today()))
			return nil
		},
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			if len(args) == 0 {
				return taskCompletions(cmd, toComplete), cobra.ShellCompDirectiveNoFileComp
			}
			return []string{"today", "tomorrow", "+1w"}, cobra.ShellCompDirectiveNoFileComp
		},
	}

	addOutput(cmd)
	topLevel.AddCommand(cmd)
}
