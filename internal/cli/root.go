package cli

import (
	"context"
	"fmt"
	"strings"

	"tiles-cli/internal/format"
	"tiles-cli/internal/session"
	"tiles-cli/internal/store"
	"tiles-cli/internal/theme"
	"tiles-cli/internal/tui"

	"github.com/spf13/cobra"
)

type App struct {
	Dir        string
	Workspace  string
	PrettyJSON bool
	Format     string
	Storage    string

	env store.Env
}

func NewRootCmd() *cobra.Command {
	app := &App{}
	// A malformed env only loses the env defaults; flags still work.
	app.env, _ = store.LoadEnv()

	cmd := &cobra.Command{
		Use:          "tiles",
		Short:        "Tiles: a local-first dashboard of shortcut tiles (CLI + TUI + web)",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive TUI
  tiles

  # Scriptable commands
  tiles instances list
  tiles instances add --title Grafana --href https://grafana.local --icon chart-line

  # Switch between light and dark
  tiles theme toggle
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive TUI.
			if cmd.HasSubCommands() && len(args) == 0 {
				return runTUI(cmd, app)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if _, err := format.ParseFormat(app.Format); err != nil {
			return writeErr(cmd, err)
		}
		if _, err := store.ParseBackendKind(app.Storage); err != nil {
			return writeErr(cmd, err)
		}
		return nil
	}

	cmd.PersistentFlags().StringVar(&app.Dir, "dir", app.env.Dir, "Path to workspace dir (overrides workspace resolution)")
	cmd.PersistentFlags().StringVar(&app.Workspace, "workspace", app.env.Workspace, "Workspace name (default: 'default')")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print output")
	cmd.PersistentFlags().StringVar(&app.Format, "format", envDefault(app.env.Format, "json"), "Output format (json|edn)")
	cmd.PersistentFlags().StringVar(&app.Storage, "storage", envDefault(app.env.Storage, "sqlite"), "Local storage backend (sqlite|memory)")

	cmd.AddCommand(newInitCmd(app))
	cmd.AddCommand(newDocsCmd(app))
	cmd.AddCommand(newWorkspaceCmd(app))
	cmd.AddCommand(newInstancesCmd(app))
	cmd.AddCommand(newIconsCmd(app))
	cmd.AddCommand(newThemeCmd(app))
	cmd.AddCommand(newWebCmd(app))
	cmd.AddCommand(newWebTUICmd(app))
	cmd.AddCommand(newPublishCmd(app))
	cmd.AddCommand(newBackupCmd(app))

	return cmd
}

func runTUI(cmd *cobra.Command, app *App) error {
	cfg, _ := store.LoadConfig()
	if cfg == nil {
		cfg = &store.GlobalConfig{}
	}
	sess, err := openSession(cmd.Context(), app, theme.TerminalPresenter{}, theme.NewTerminalAmbient(app.env))
	if err != nil {
		return writeErr(cmd, err)
	}
	defer sess.Close()
	return tui.Run(sess, tui.Options{
		Workspace: app.Workspace,
		Glyphs:    cfg.TUI.Glyphs,
		NoColor:   strings.TrimSpace(app.env.NoColor) != "",
	})
}

// openSession opens the resolved workspace. A nil presenter opens the theme read-only.
func openSession(ctx context.Context, app *App, presenter theme.Presenter, ambient theme.Ambient) (*session.Session, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	kind, err := store.ParseBackendKind(app.Storage)
	if err != nil {
		return nil, err
	}
	dir := app.Dir
	if kind != store.BackendMemory {
		if dir, err = resolveDir(app); err != nil {
			return nil, err
		}
	}
	return session.Open(ctx, session.Options{
		Dir:       dir,
		Storage:   kind,
		IconsFile: iconsFile(app),
		Presenter: presenter,
		Ambient:   ambient,
	})
}

func resolveDir(app *App) (string, error) {
	if app.Dir != "" {
		return app.Dir, nil
	}

	// Workspace-first:
	// 1) --workspace
	// 2) ~/.tiles/config.toml current_workspace
	// 3) default workspace ("default")
	if app.Workspace == "" {
		if cfg, err := store.LoadConfig(); err == nil && cfg.CurrentWorkspace != "" {
			app.Workspace = cfg.CurrentWorkspace
		} else {
			app.Workspace = "default"
		}
	}
	d, err := store.WorkspaceDir(app.Workspace)
	if err != nil {
		return "", err
	}
	app.Dir = d
	return d, nil
}

func iconsFile(app *App) string {
	if v := strings.TrimSpace(app.env.IconsFile); v != "" {
		return v
	}
	if cfg, err := store.LoadConfig(); err == nil {
		return strings.TrimSpace(cfg.IconsFile)
	}
	return ""
}

func envDefault(v, d string) string {
	if strings.TrimSpace(v) != "" {
		return v
	}
	return d
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.Write(cmd.OutOrStdout(), v, app.Format, app.PrettyJSON)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}
