package commands

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"

	"tableflip.dev/focusflow/pkg/store"
)

type infoResult struct {
	Config     string    `json:"configFile,omitempty" yaml:"configFile,omitempty"`
	Backend    string    `json:"backend" yaml:"backend"`
	Path       string    `json:"path" yaml:"path"`
	API        string    `json:"api,omitempty" yaml:"api,omitempty"`
	Namespace  string    `json:"namespace" yaml:"namespace"`
	User       string    `json:"user,omitempty" yaml:"user,omitempty"`
	Expires    time.Time `json:"expires,omitempty" yaml:"expires,omitempty"`
	Partitions []string  `json:"partitions" yaml:"partitions"`
	Unsynced   int       `json:"unsynced" yaml:"unsynced"`
	Policy     string    `json:"streakPolicy" yaml:"streakPolicy"`
}

func addInfo(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:     "info",
		Aliases: []string{"whoami"},
		Short:   "Who is signed in and where data is stored",
		Example: `
focusflow info
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			svc, err := service(cmd)
			if err != nil {
				return err
			}

			s := svc.Session()
			res := infoResult{
				Backend:    rt.cfg.Backend(),
				Path:       rt.cfg.BasePath(),
				API:        rt.cfg.APIBase(),
				Namespace:  svc.Store().Namespace(),
				User:       s.Name,
				Partitions: store.Namespaces(cmd.Context(), rt.backend),
				Unsynced:   len(svc.Tasks().Unsynced()),
				Policy:     rt.cfg.StreakPolicy(),
			}
			if fc, ok := rt.cfg.(*store.FileConfig); ok {
				res.Config = fc.ConfigFile()
			}
			if exp, ok := s.ExpiresAt(); ok {
				res.Expires = exp
			}

			if output.Structured() {
				return output.Print(res)
			}

			bold := color.New(color.Bold)
			tbl := uitable.New()
			tbl.Separator = "  "
			tbl.AddRow(bold.Sprint("Config"), orNone(res.Config))
			tbl.AddRow(bold.Sprint("Backend"), res.Backend)
			tbl.AddRow(bold.Sprint("Path"), res.Path)
			tbl.AddRow(bold.Sprint("API"), orNone(res.API))
			tbl.AddRow(bold.Sprint("User"), orNone(res.User))
			tbl.AddRow(bold.Sprint("Partition"), res.Namespace)
			if !res.Expires.IsZero() {
				tbl.AddRow(bold.Sprint("Expires"), res.Expires.Local().Format(time.RFC1123))
			}
			tbl.AddRow(bold.Sprint("Unsynced"), res.Unsynced)
			tbl.AddRow(bold.Sprint("Known"), fmt.Sprint(res.Partitions))
			tbl.RightAlign(0)
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), tbl)
			return nil
		},
	}

	addOutput(cmd)
	topLevel.AddCommand(cmd)
}

func orNone(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
