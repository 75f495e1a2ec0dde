package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func addStrike(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:     "rm <task id>",
		Aliases: []string{"strike", "delete"},
		Short:   "Delete a task; it can be restored with undo for a few seconds",
		Example: `
focusflow rm <task id>
`,
		Args: cobra.ExactArgs(1),
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

			pd, err := svc.Delete(cmd.Context(), id)
			if err != nil {
				return output.HandleError(err)
			}

			if output.Structured() {
				return output.Print(pd)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "deleted %q, run `focusflow undo` before %s to restore it\n",
				pd.Task.Title, pd.Deadline.Format("15:04:05"))
			return nil
		},
		ValidArgsFunction: func(cmd *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			return taskCompletions(cmd, toComplete), cobra.ShellCompDirectiveNoFileComp
		},
	}

	addOutput(cmd)
	topLevel.AddCommand(cmd)
}

func addUndo(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "undo [task id]",
		Short: "Restore the last deleted task",
		Example: `
focusflow undo
`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			svc, err := service(cmd)
			if err != nil {
				return err
			}
			id := ""
			if len(args) == 1 {
				if id, err = resolveID(svc, args[0]); err != nil {
					return output.HandleError(err)
				}
			}

			t, err := svc.Undo(cmd.Context(), id)
			if err != nil {
				return output.HandleError(err)
			}

			if output.Structured() {
				return output.Print(t)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "restored %q\n", t.Title)
			return nil
		},
	}

	addOutput(cmd)
	topLevel.AddCommand(cmd)
}
