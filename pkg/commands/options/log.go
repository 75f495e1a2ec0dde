package options

import (
	"github.com/spf13/cobra"

	"tableflip.dev/focusflow/pkg/remote"
)

// StatsOptions
type StatsOptions struct {
	Monthly bool
}

func AddStatsArgs(cmd *cobra.Command, o *StatsOptions) {
	cmd.Flags().BoolVarP(&o.Monthly, "monthly", "m", false,
		"Show the last 30 days instead of the last 7.")
}

func (o *StatsOptions) Period() remote.Period {
	if o.Monthly {
		return remote.Monthly
	}
	return remote.Weekly
}
