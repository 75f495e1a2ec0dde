package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"tableflip.dev/focusflow/pkg/domain"
)

func addWater(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "water [add|rm|<glasses>]",
		Short: "Track glasses of water",
		Example: `
focusflow water
focusflow water add
focusflow water rm
focusflow water 3
`,
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"add", "rm"},
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			svc, err := service(cmd)
			if err != nil {
				return err
			}

			h := svc.Health()
			if len(args) == 1 {
				switch args[0] {
				case "add", "+":
					h = svc.AddWater()
				case "rm", "-":
					h = svc.RemoveWater()
				default:
					n, err := strconv.Atoi(args[0])
					if err != nil || n < 0 {
						return output.HandleError(fmt.Errorf("want add, rm or a number of glasses, got %q", args[0]))
					}
					for h.Glasses < n && h.Glasses < svc.WaterMax() {
						h = svc.AddWater()
					}
					for h.Glasses > n {
						h = svc.RemoveWater()
					}
				}
			}

			if output.Structured() {
				return output.Print(h)
			}
			printer(cmd, false).Health(h, svc.WaterMax(), svc.Goals().Water)
			return nil
		},
	}

	addOutput(cmd)
	topLevel.AddCommand(cmd)
}

func addMood(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "mood [good|okay|low|clear]",
		Short: "Record how today feels",
		Example: `
focusflow mood good
`,
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"good", "okay", "low", "clear"},
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			svc, err := service(cmd)
			if err != nil {
				return err
			}

			h := svc.Health()
			if len(args) == 1 {
				m, err := domain.ParseMood(args[0])
				if err != nil {
					return output.HandleError(err)
				}
				h = svc.SetMood(m)
			}

			if output.Structured() {
				return output.Print(h)
			}
			printer(cmd, false).Health(h, svc.WaterMax(), svc.Goals().Water)
			return nil
		},
	}

	addOutput(cmd)
	topLevel.AddCommand(cmd)
}
