package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"tableflip.dev/focusflow/pkg/domain"
)

type syncResult struct {
	Reconciled int             `json:"reconciled" yaml:"reconciled"`
	Unsynced   int             `json:"unsynced" yaml:"unsynced"`
	Pending    int             `json:"pendingDeletes" yaml:"pendingDeletes"`
	Pushed     domain.Snapshot `json:"pushed" yaml:"pushed"`
}

func addSync(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Send unsynced changes and today's totals to the server",
		Example: `
focusflow sync
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			svc, err := service(cmd)
			if err != nil {
				return err
			}
			if !svc.Online() {
				return output.HandleError(errors.New("not signed in, run `focusflow login` first"))
			}

			var errs []error
			if err := svc.FlushDeletions(cmd.Context()); err != nil {
				errs = append(errs, err)
			}
			n, err := svc.Reconcile(cmd.Context())
			if err != nil {
				errs = append(errs, err)
			}
			snap, err := svc.SyncNow(cmd.Context())
			if err != nil {
				errs = append(errs, err)
			}

			ts := svc.Tasks()
			res := syncResult{
				Reconciled: n,
				Unsynced:   len(ts.Unsynced()),
				Pending:    len(ts.Pending),
				Pushed:     snap,
			}
			if err := errors.Join(errs...); err != nil {
				return output.HandleError(err)
			}

			if output.Structured() {
				return output.Print(res)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "synced %d tasks; today: %d/%d tasks, %d min focus, %d glasses\n",
				res.Reconciled, snap.TasksCompleted, snap.TasksTotal, snap.FocusMinutes, snap.WaterGlasses)
			if res.Unsynced > 0 || res.Pending > 0 {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%d tasks still unsynced, %d deletions waiting\n", res.Unsynced, res.Pending)
			}
			return nil
		},
	}

	addOutput(cmd)
	topLevel.AddCommand(cmd)
}
