package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"tableflip.dev/focusflow/pkg/app"
	"tableflip.dev/focusflow/pkg/domain"
	"tableflip.dev/focusflow/pkg/snake"
)

func addTimer(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "timer",
		Short: "Show or control the focus timer",
		Example: `
focusflow timer
focusflow timer start
focusflow timer mode 2
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return timerDo(cmd, func(svc *app.Service) (domain.Timer, error) {
				return svc.Timer(), nil
			})
		},
	}

	sub := []struct {
		use, short string
		do         func(*app.Service) (domain.Timer, error)
	}{
		{"start", "Start or resume the countdown", func(svc *app.Service) (domain.Timer, error) { return svc.Start() }},
		{"pause", "Pause the countdown", func(svc *app.Service) (domain.Timer, error) { return svc.Pause(), nil }},
		{"reset", "Restore the full length of the current mode", func(svc *app.Service) (domain.Timer, error) { return svc.Reset() }},
	}
	for _, s := range sub {
		do := s.do
		c := &cobra.Command{
			Use:   s.use,
			Short: s.short,
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return timerDo(cmd, do)
			},
		}
		addOutput(c)
		cmd.AddCommand(c)
	}

	mode := &cobra.Command{
		Use:   "mode [1-4]",
		Short: "Pick a focus or break preset",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return timerDo(cmd, func(svc *app.Service) (domain.Timer, error) {
				i, err := pickMode(cmd, svc, args)
				if err != nil {
					return svc.Timer(), err
				}
				return svc.SelectMode(i)
			})
		},
	}
	addOutput(mode)
	cmd.AddCommand(mode)

	addOutput(cmd)
	topLevel.AddCommand(cmd)
}

func pickMode(cmd *cobra.Command, svc *app.Service, args []string) (int, error) {
	if len(args) == 1 {
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return 0, fmt.Errorf("%w: mode %q, want 1 to %d", app.ErrValidation, args[0], len(domain.Modes))
		}
		return n - 1, nil
	}
	choices := make([]snake.Choice, 0, len(domain.Modes))
	for i, m := range domain.Modes {
		choices = append(choices, snake.Choice{Name: strconv.Itoa(i + 1), Short: m.Label})
	}
	return snake.ForCommand(cmd).Select("Mode", choices, svc.Timer().ModeIdx)
}

func timerDo(cmd *cobra.Command, do func(*app.Service) (domain.Timer, error)) error {
	cmd.SilenceUsage = true
	svc, err := service(cmd)
	if err != nil {
		return err
	}
	t, err := do(svc)
	if err != nil {
		return output.HandleError(err)
	}
	if output.Structured() {
		return output.Print(t)
	}
	printer(cmd, false).Timer(t)
	return nil
}
