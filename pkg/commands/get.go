package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/focusflow/pkg/commands/options"
)

func addGet(topLevel *cobra.Command) {
	io := &options.IDOptions{}
	completed := false
	offline := false

	cmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list", "get", "tasks"},
		Short:   "List tasks grouped by due date",
		Example: `
focusflow ls
focusflow ls -a -k
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			svc, err := service(cmd)
			if err != nil {
				return err
			}

			tasks := svc.Tasks()
			if !offline {
				tasks, err = svc.Refresh(cmd.Context())
				warn(cmd, err)
			}

			if output.Structured() {
				return output.Print(tasks)
			}
			printer(cmd, io.ShowID).Tasks(tasks, svc.Today(), completed)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&completed, "all", "a", false, "Include completed tasks.")
	cmd.Flags().BoolVar(&offline, "offline", false, "Show the cached list without asking the server.")
	options.AddShowIDArgs(cmd, io)
	options.AddOutputArg(cmd, output)

	topLevel.AddCommand(cmd)
}
