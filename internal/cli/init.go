package cli

import (
	"tiles-cli/internal/format"
	"tiles-cli/internal/store"

	"github.com/spf13/cobra"
)

func newInitCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize local storage (workspace-first)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := openSession(cmd.Context(), app, nil, nil)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer sess.Close()

			// If we're in workspace mode but no current workspace is set, set it.
			if app.Workspace != "" {
				cfg, err := store.LoadConfig()
				if err == nil && cfg.CurrentWorkspace == "" {
					cfg.CurrentWorkspace = app.Workspace
					_ = store.SaveConfig(cfg)
				}
			}

			data := map[string]any{
				"dir":       app.Dir,
				"workspace": app.Workspace,
				"storage":   app.Storage,
				"instances": len(sess.Instances.List()),
			}
			if kind, _ := store.ParseBackendKind(app.Storage); kind == store.BackendSQLite {
				data["sqlitePath"] = (store.Store{Dir: app.Dir}).SQLitePath()
			}
			return writeOut(cmd, app, format.Envelope{Data: data})
		},
	}
	return cmd
}
