package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/focusflow/pkg/focusui"
)

func addFocus(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:     "focus",
		Aliases: []string{"ui"},
		Short:   "Open the full screen focus timer",
		Example: `
focusflow focus
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			svc, err := service(cmd)
			if err != nil {
				return err
			}
			return focusui.Run(svc)
		},
	}

	topLevel.AddCommand(cmd)
}
