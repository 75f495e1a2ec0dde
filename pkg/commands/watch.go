package commands

import (
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"tableflip.dev/focusflow/pkg/events"
	"tableflip.dev/focusflow/pkg/metrics"
	"tableflip.dev/focusflow/pkg/store"
)

func addWatch(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Follow changes made from other terminals and keep the timer ticking",
		Example: `
focusflow watch
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			svc, err := service(cmd)
			if err != nil {
				return err
			}
			if rt.cfg.Backend() != "" && rt.cfg.Backend() != store.BackendDiskv {
				return fmt.Errorf("watch needs the %s backend, configured: %s", store.BackendDiskv, rt.cfg.Backend())
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			out := cmd.OutOrStdout()
			unsubscribe := svc.Bus().SubscribeAll(func(e events.Event) {
				if e == events.TimerChanged {
					return
				}
				snap := svc.Snapshot()
				_, _ = fmt.Fprintf(out, "%s  %-10s tasks %d/%d  water %d  focus %dm  %d%%\n",
					time.Now().Format("15:04:05"), e, snap.TasksCompleted, snap.TasksTotal,
					snap.WaterGlasses, snap.FocusMinutes, metrics.Composite(snap, svc.Goals()))
			})
			defer unsubscribe()

			if err := store.Watch(ctx, rt.cfg.BasePath(), svc.Store().Namespace(), svc.Bus()); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(out, "watching %s, ctrl+c to stop\n", rt.cfg.BasePath())
			svc.RunTimer(ctx)
			return nil
		},
	}

	topLevel.AddCommand(cmd)
}
