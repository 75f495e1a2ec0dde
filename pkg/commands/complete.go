package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func addComplete(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:     "done <task id>",
		Aliases: []string{"complete", "completed", "toggle"},
		Short:   "Mark a task done, or open again if it already is",
		Example: `
focusflow done <task id>
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

			t, err := svc.Toggle(cmd.Context(), id)
			if t.ID == "" {
				return output.HandleError(err)
			}
			warn(cmd, err)

			if output.Structured() {
				return output.Print(t)
			}
			state := "done"
			if !t.Done() {
				state = "open again"
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%q is %s\n", t.Title, state)
			return nil
		},
		ValidArgsFunction: func(cmd *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			return taskCompletions(cmd, toComplete), cobra.ShellCompDirectiveNoFileComp
		},
	}

	addOutput(cmd)
	topLevel.AddCommand(cmd)
}
