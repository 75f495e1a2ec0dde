package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	base "github.com/n3wscott/cli-base/pkg/commands/options"

	"tableflip.dev/focusflow/pkg/app"
	"tableflip.dev/focusflow/pkg/commands/options"
	"tableflip.dev/focusflow/pkg/goals"
	"tableflip.dev/focusflow/pkg/logging"
	"tableflip.dev/focusflow/pkg/printers"
	"tableflip.dev/focusflow/pkg/remote"
	"tableflip.dev/focusflow/pkg/session"
	"tableflip.dev/focusflow/pkg/store"
)

var (
	output = &options.OutputOptions{}

	// openService builds the service the commands run against.
	openService = open

	rt *runtime
)

type runtime struct {
	svc     *app.Service
	cfg     store.Config
	backend store.Backend
}

func New() *cobra.Command {
	output = &options.OutputOptions{}
	level := os.Getenv("FOCUSFLOW_LOG")

	cmd := &cobra.Command{
		Use:   "focusflow",
		Short: base.Wrap80("Tasks, focus sessions, water and mood, kept on this machine and synced to your account."),
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			logging.Init(cmd.ErrOrStderr(), level)
			output.Out = cmd.OutOrStdout()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	cmd.PersistentFlags().StringVar(&level, "log-level", level, "Log level: debug, info, warn or error.")

	AddCommands(cmd)
	return cmd
}

func AddCommands(topLevel *cobra.Command) {
	addDashboard(topLevel)
	addTask(topLevel)
	addGet(topLevel)
	addComplete(topLevel)
	addEdit(topLevel)
	addMigrate(topLevel)
	addStrike(topLevel)
	addUndo(topLevel)
	addWater(topLevel)
	addMood(topLevel)
	addTimer(topLevel)
	addFocus(topLevel)
	addQuote(topLevel)
	addStats(topLevel)
	addSync(topLevel)
	addWatch(topLevel)
	addLogin(topLevel)
	addSignup(topLevel)
	addLogout(topLevel)
	addInfo(topLevel)
	addVersion(topLevel)
	addCompletions(topLevel)
	addUpgrade(topLevel)
}

// open loads the configuration and wires the service for whoever is signed
// in. Deletions whose undo window closed since the last run are sent first.
func open(ctx context.Context) (*runtime, error) {
	cfg, err := store.LoadConfig()
	if err != nil {
		return nil, err
	}
	backend, err := store.Open(cfg)
	if err != nil {
		return nil, err
	}
	policy, err := goals.ParsePolicy(cfg.StreakPolicy())
	if err != nil {
		return nil, err
	}

	keeper := session.NewKeeper(backend)
	opts := app.Options{
		Backend:  backend,
		Session:  keeper,
		Goals:    cfg.Goals(),
		WaterMax: cfg.WaterMax(),
		Policy:   policy,
		Debounce: cfg.Debounce(),
		Undo:     cfg.UndoWindow(),
	}
	var client *remote.Client
	if cfg.APIBase() != "" {
		client = remote.New(cfg.APIBase(), cfg.Timeout(), keeper)
		opts.Remote = client
	}

	svc := app.New(opts)
	if client != nil {
		client.OnUnauthorized = func() {
			svc.SessionExpired()
			logging.CLI().Warn("session expired, run `focusflow login` to sign in again")
		}
	}
	if s := keeper.Get(); s.Valid() && s.Expired(time.Now()) {
		keeper.Clear()
		svc.SessionExpired()
		logging.CLI().Warn("session expired, run `focusflow login` to sign in again")
	}
	if err := svc.FlushDeletions(ctx); err != nil {
		logging.CLI().Debug("deferred deletions not sent", "err", err)
	}
	return &runtime{svc: svc, cfg: cfg, backend: backend}, nil
}

func service(cmd *cobra.Command) (*app.Service, error) {
	if rt != nil {
		return rt.svc, nil
	}
	r, err := openService(cmd.Context())
	if err != nil {
		return nil, err
	}
	rt = r
	return rt.svc, nil
}

// Close flushes pending work and releases the store.
func Close() {
	if rt == nil {
		return
	}
	rt.svc.Close()
	if c, ok := rt.backend.(io.Closer); ok {
		if err := c.Close(); err != nil {
			logging.CLI().Warn("close store", "err", err)
		}
	}
	rt = nil
}

func printer(cmd *cobra.Command, showID bool) *printers.PrettyPrint {
	return &printers.PrettyPrint{ShowID: showID, Out: cmd.OutOrStdout()}
}

// warn reports an error that did not stop the command, such as a change
// that was saved locally but not synced.
func warn(cmd *cobra.Command, err error) {
	if err == nil {
		return
	}
	var se *app.SyncError
	switch {
	case errors.As(err, &se):
		_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "saved locally, will sync later: %v\n", se.Err)
	case errors.Is(err, app.ErrSignedOut):
	default:
		_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", err)
	}
}

// resolveID expands a unique prefix of a task id.
func resolveID(svc *app.Service, prefix string) (string, error) {
	ts := svc.Tasks()
	ids := make([]string, 0, len(ts.Active)+len(ts.Completed)+len(ts.Pending))
	for _, t := range ts.All() {
		ids = append(ids, t.ID)
	}
	for _, p := range ts.Pending {
		ids = append(ids, p.Task.ID)
	}
	return matchID(ids, prefix)
}

func matchID(ids []string, prefix string) (string, error) {
	var found []string
	for _, id := range ids {
		if id == prefix {
			return id, nil
		}
		if strings.HasPrefix(id, prefix) {
			found = append(found, id)
		}
	}
	switch len(found) {
	case 0:
		return "", fmt.Errorf("%w: %q", app.ErrNotFound, prefix)
	case 1:
		return found[0], nil
	}
	return "", fmt.Errorf("task id %q is ambiguous, matches %s", prefix, strings.Join(found, ", "))
}

func taskCompletions(cmd *cobra.Command, toComplete string) []string {
	svc, err := service(cmd)
	if err != nil {
		return nil
	}
	var out []string
	for _, t := range svc.Tasks().All() {
		if strings.HasPrefix(t.ID, toComplete) {
			out = append(out, t.ID+"\t"+t.Title)
		}
	}
	return out
}

func addOutput(cmd *cobra.Command) {
	options.AddOutputArg(cmd, output)
}
