package options

import (
	"github.com/spf13/cobra"
)

// AddOptions
type AddOptions struct {
	Title string
	Time  string
}

func AddTimeArgs(cmd *cobra.Command, o *AddOptions, def string) {
	cmd.Flags().StringVarP(&o.Time, "time", "t", def,
		`Estimated time, example: --time=45 or --time="1 hour".`)
}
