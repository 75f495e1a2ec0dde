package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"tableflip.dev/focusflow/pkg/snake"
)

func addLogin(topLevel *cobra.Command) {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in; anything recorded as a guest is carried over",
		Example: `
focusflow login --email ada@example.com
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			svc, err := service(cmd)
			if err != nil {
				return err
			}

			p := snake.ForCommand(cmd)
			if email == "" {
				if email, err = p.String("Email", true); err != nil {
					return err
				}
			}
			if password == "" {
				if password, err = p.Secret("Password"); err != nil {
					return err
				}
			}

			s, err := svc.Login(cmd.Context(), email, password)
			if err != nil {
				return output.HandleError(err)
			}
			if output.Structured() {
				return output.Print(map[string]string{"name": s.Name, "userId": s.UserID})
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "signed in as %s\n", s.Name)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Account email.")
	cmd.Flags().StringVar(&password, "password", "", "Account password; prompted for when not given.")
	addOutput(cmd)
	topLevel.AddCommand(cmd)
}

func addSignup(topLevel *cobra.Command) {
	var name, email, password string

	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create an account",
		Example: `
focusflow signup --name Ada --email ada@example.com
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			svc, err := service(cmd)
			if err != nil {
				return err
			}

			p := snake.ForCommand(cmd)
			if name == "" {
				if name, err = p.String("Name", true); err != nil {
					return err
				}
			}
			if email == "" {
				if email, err = p.String("Email", true); err != nil {
					return err
				}
			}
			if password == "" {
				if password, err = p.Secret("Password"); err != nil {
					return err
				}
			}

			if err := svc.Signup(cmd.Context(), name, email, password); err != nil {
				return output.HandleError(err)
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "account created, run `focusflow login` to sign in")
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Display name.")
	cmd.Flags().StringVar(&email, "email", "", "Account email.")
	cmd.Flags().StringVar(&password, "password", "", "Account password; prompted for when not given.")
	addOutput(cmd)
	topLevel.AddCommand(cmd)
}

func addLogout(topLevel *cobra.Command) {
	force := false

	cmd := &cobra.Command{
		Use:   "logout",
		Short: "Sign out and switch to the guest data",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			svc, err := service(cmd)
			if err != nil {
				return err
			}
			if !svc.Session().Valid() {
				return errors.New("not signed in")
			}

			if n := len(svc.Tasks().Unsynced()); n > 0 && !force {
				ok, err := snake.ForCommand(cmd).Confirm(
					fmt.Sprintf("%d tasks are not synced yet and stay on this machine until you sign in again. Sign out?", n), false)
				if err != nil {
					return err
				}
				if !ok {
					return nil
				}
			}

			svc.Logout()
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "signed out")
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Do not ask about unsynced tasks.")
	topLevel.AddCommand(cmd)
}
