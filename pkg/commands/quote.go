package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"tableflip.dev/focusflow/pkg/app"
	"tableflip.dev/focusflow/pkg/domain"
)

func addQuote(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:     "quote",
		Aliases: []string{"quotes"},
		Short:   "Show the quote of the moment and your streak",
		Example: `
focusflow quote
focusflow quote next
focusflow quote like
focusflow quote star 3
focusflow quote ls
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return quoteDo(cmd, false, func(svc *app.Service) (domain.Motivation, error) {
				return svc.Motivation(), nil
			})
		},
	}

	next := &cobra.Command{
		Use:   "next",
		Short: "Move on to the next quote",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return quoteDo(cmd, false, func(svc *app.Service) (domain.Motivation, error) {
				return svc.NextQuote(), nil
			})
		},
	}
	like := &cobra.Command{
		Use:   "like [quote #]",
		Short: "Like or unlike a quote, the current one by default",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return quoteDo(cmd, false, func(svc *app.Service) (domain.Motivation, error) {
				i, err := quoteIndex(args)
				if err != nil {
					return svc.Motivation(), err
				}
				return svc.ToggleLike(i)
			})
		},
	}
	star := &cobra.Command{
		Use:   "star [quote #]",
		Short: "Star or unstar a quote, the current one by default",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return quoteDo(cmd, false, func(svc *app.Service) (domain.Motivation, error) {
				i, err := quoteIndex(args)
				if err != nil {
					return svc.Motivation(), err
				}
				return svc.ToggleStar(i)
			})
		},
	}
	ls := &cobra.Command{
		Use:   "ls",
		Short: "List every quote",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return quoteDo(cmd, true, func(svc *app.Service) (domain.Motivation, error) {
				return svc.Motivation(), nil
			})
		},
	}
	for _, c := range []*cobra.Command{next, like, star, ls} {
		addOutput(c)
		cmd.AddCommand(c)
	}

	addOutput(cmd)
	topLevel.AddCommand(cmd)
}

func quoteIndex(args []string) (int, error) {
	if len(args) == 0 {
		return -1, nil
	}
	i, err := strconv.Atoi(args[0])
	if err != nil || i < 0 {
		return 0, fmt.Errorf("%w: quote %q, see `focusflow quote ls`", app.ErrValidation, args[0])
	}
	return i, nil
}

func quoteDo(cmd *cobra.Command, all bool, do func(*app.Service) (domain.Motivation, error)) error {
	cmd.SilenceUsage = true
	svc, err := service(cmd)
	if err != nil {
		return err
	}
	m, err := do(svc)
	if err != nil {
		return output.HandleError(err)
	}
	if output.Structured() {
		return output.Print(m)
	}
	if all {
		printer(cmd, false).Quotes(m)
		return nil
	}
	printer(cmd, false).Quote(m)
	return nil
}
