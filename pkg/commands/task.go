package commands

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"tableflip.dev/focusflow/pkg/app"
	"tableflip.dev/focusflow/pkg/commands/options"
	"tableflip.dev/focusflow/pkg/domain"
	"tableflip.dev/focusflow/pkg/snake"
)

func addTask(topLevel *cobra.Command) {
	ao := &options.AddOptions{}
	co := &options.CategoryOptions{}
	po := &options.PriorityOptions{}
	oo := &options.OnOptions{}
	io := &options.InteractiveOptions{}

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a task",
		Example: `
focusflow add write the quarterly report
focusflow add -p high -c Work -t 50 --on tomorrow prepare slides
focusflow add -i
`,
		Args: func(cmd *cobra.Command, args []string) error {
			ao.Title = strings.Join(args, " ")
			if ao.Title == "" && !io.Interactive {
				return errors.New("requires a task title")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			svc, err := service(cmd)
			if err != nil {
				return err
			}

			if io.Interactive {
				p := snake.ForCommand(cmd)
				if ao.Title == "" {
					if ao.Title, err = p.String("Title", true); err != nil {
						return err
					}
				}
				if err := p.PromptFlags(cmd, snake.Flags(cmd)...); err != nil {
					return err
				}
			}

			prio, err := po.GetPriority()
			if err != nil {
				return output.HandleError(err)
			}
			t, err := svc.AddTask(cmd.Context(), domain.TaskInput{
				Title:    ao.Title,
				Category: co.Category,
				Time:     ao.Time,
				Priority: prio,
				Date:     oo.OnString,
			})
			if t.ID == "" {
				return output.HandleError(err)
			}
			warn(cmd, err)

			if output.Structured() {
				return output.Print(t)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "added %q for %s\n", t.Title, t.Date)
			return nil
		},
	}

	options.AddTimeArgs(cmd, ao, "")
	options.AddCategoryArgs(cmd, co, "")
	options.AddPriorityArgs(cmd, po, string(domain.PriorityMedium))
	options.AddOnArgs(cmd, oo)
	options.InteractiveArgs(cmd, io)
	options.AddOutputArg(cmd, output)

	_ = cmd.RegisterFlagCompletionFunc("priority", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"high", "medium", "low"}, cobra.ShellCompDirectiveNoFileComp
	})

	topLevel.AddCommand(cmd)
}

func addEdit(topLevel *cobra.Command) {
	ao := &options.AddOptions{}
	co := &options.CategoryOptions{}
	po := &options.PriorityOptions{}
	oo := &options.OnOptions{}

	cmd := &cobra.Command{
		Use:   "edit <task id>",
		Short: "Change the fields of a task",
		Example: `
focusflow edit 42 --title "write the annual report" -p high
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			svc, err := service(cmd)
			if err != nil {
				return err
			}
			id, err := resolveID(svc, args[0])
			if err != nil {
				return output.HandleError(err)
			}

			var patch app.TaskPatch
			flags := cmd.Flags()
			if flags.Changed("title") {
				patch.Title = &ao.Title
			}
			if flags.Changed("category") {
				patch.Category = &co.Category
			}
			if flags.Changed("time") {
				patch.Time = &ao.Time
			}
			if flags.Changed("priority") {
				patch.Priority = &po.Priority
			}
			if flags.Changed("on") {
				patch.Date = &oo.OnString
			}
			if patch == (app.TaskPatch{}) {
				return errors.New("nothing to change, pass at least one of --title, --category, --time, --priority or --on")
			}

			t, err := svc.Edit(cmd.Context(), id, patch)
			if t.ID == "" {
				return output.HandleError(err)
			}
			warn(cmd, err)
			if output.Structured() {
				return output.Print(t)
			}
			printer(cmd, false).Task(t)
			return nil
		},
		ValidArgsFunction: func(cmd *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			return taskCompletions(cmd, toComplete), cobra.ShellCompDirectiveNoFileComp
		},
	}

	cmd.Flags().StringVar(&ao.Title, "title", "", "New title.")
	options.AddTimeArgs(cmd, ao, "")
	options.AddCategoryArgs(cmd, co, "")
	options.AddPriorityArgs(cmd, po, "")
	options.AddOnArgs(cmd, oo)
	options.AddOutputArg(cmd, output)

	topLevel.AddCommand(cmd)
}
