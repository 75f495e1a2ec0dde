package options

import (
	"github.com/spf13/cobra"

	"tableflip.dev/focusflow/pkg/domain"
)

// PriorityOptions
type PriorityOptions struct {
	Priority string
}

func AddPriorityArgs(cmd *cobra.Command, o *PriorityOptions, def string) {
	cmd.Flags().StringVarP(&o.Priority, "priority", "p", def,
		"Set the priority: high, medium or low.")
}

func (o *PriorityOptions) GetPriority() (domain.Priority, error) {
	return domain.ParsePriority(o.Priority)
}
