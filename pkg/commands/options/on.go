package options

import (
	"github.com/spf13/cobra"

	"tableflip.dev/focusflow/pkg/day"
)

// OnOptions
type OnOptions struct {
	OnString string
}

func AddOnArgs(cmd *cobra.Command, o *OnOptions) {
	cmd.Flags().StringVar(&o.OnString, "on", "",
		`Specify a due date, example: --on="2024-2-28", --on="2/28", --on=tomorrow, --on=fri or --on=+3.`)
}

// GetOn resolves the flag against today. An unset flag is "".
func (o *OnOptions) GetOn(today string) (string, error) {
	if o.OnString == "" {
		return "", nil
	}
	return day.ParseLoose(o.OnString, today)
}
