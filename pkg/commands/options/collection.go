// Package options defines shared flag helpers for CLI commands.
package options

import (
	"github.com/spf13/cobra"
)

// CategoryOptions captures the category of a task.
type CategoryOptions struct {
	Category string
}

// AddCategoryArgs wires the category flag on the provided command.
func AddCategoryArgs(cmd *cobra.Command, o *CategoryOptions, def string) {
	cmd.Flags().StringVarP(&o.Category, "category", "c", def,
		"Specify the category, example: Work, Personal, Health.")
}
