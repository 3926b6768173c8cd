package cli

import (
	"tiles-cli/internal/format"
	"tiles-cli/internal/model"
	"tiles-cli/internal/theme"

	"github.com/spf13/cobra"
)

func newThemeCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "theme",
		Short: "Show or change the light/dark theme",
	}

	cmd.AddCommand(newThemeShowCmd(app))
	cmd.AddCommand(newThemeSetCmd(app))
	cmd.AddCommand(newThemeToggleCmd(app))

	return cmd
}

type themeView struct {
	Theme  model.Theme `json:"theme"`
	Stored bool        `json:"stored"`
}

func newThemeShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the effective theme (stored, or derived from the terminal when nothing is stored)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := openSession(cmd.Context(), app, nil, nil)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer sess.Close()

			v := themeView{Theme: sess.Theme.Current(), Stored: sess.Theme.Stored()}
			if !v.Stored {
				// Read-only: report what the first interactive run would pick.
				v.Theme = model.ThemeLight
				if theme.NewTerminalAmbient(app.env).PrefersDark() {
					v.Theme = model.ThemeDark
				}
			}
			return writeOut(cmd, app, format.Envelope{Data: v})
		},
	}
}

func newThemeSetCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:       "set <light|dark>",
		Short:     "Set the theme",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{string(model.ThemeLight), string(model.ThemeDark)},
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := model.ParseTheme(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			sess, err := openSession(cmd.Context(), app, theme.TerminalPresenter{}, theme.NewTerminalAmbient(app.env))
			if err != nil {
				return writeErr(cmd, err)
			}
			defer sess.Close()
			if err := sess.Theme.Set(t); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, format.Envelope{Data: themeView{Theme: sess.Theme.Current(), Stored: true}})
		},
	}
}

func newThemeToggleCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle",
		Short: "Switch between light and dark",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := openSession(cmd.Context(), app, theme.TerminalPresenter{}, theme.NewTerminalAmbient(app.env))
			if err != nil {
				return writeErr(cmd, err)
			}
			defer sess.Close()
			t, err := sess.Theme.Toggle()
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, format.Envelope{Data: themeView{Theme: t, Stored: true}})
		},
	}
}
