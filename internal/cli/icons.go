package cli

import (
	"tiles-cli/internal/format"
	"tiles-cli/internal/model"
	"tiles-cli/internal/session"

	"github.com/spf13/cobra"
)

func newIconsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "icons",
		Aliases: []string{"icon"},
		Short:   "Browse the icon catalog",
	}

	cmd.AddCommand(newIconsListCmd(app))
	cmd.AddCommand(newIconsShowCmd(app))
	cmd.AddCommand(newIconsSearchCmd(app))

	return cmd
}

// loadIcons loads the catalog and surfaces a source read failure as a hint; the catalog itself is
// then empty, never an error.
func loadIcons(sess *session.Session) []string {
	sess.Icons.Load()
	if err := sess.Icons.LoadErr(); err != nil {
		return []string{"icon metadata unavailable: " + err.Error()}
	}
	return nil
}

func limitIcons(icons []model.Icon, limit int) []model.Icon {
	if limit > 0 && len(icons) > limit {
		return icons[:limit]
	}
	return icons
}

func newIconsListCmd(app *App) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List icons in catalog order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := openSession(cmd.Context(), app, nil, nil)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer sess.Close()
			hints := loadIcons(sess)
			return writeOut(cmd, app, format.Envelope{Data: limitIcons(sess.Icons.Icons(), limit), Hints: hints})
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 0, "Max icons to print (0 = all)")
	return cmd
}

func newIconsShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <name>",
		Short: "Show one icon",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := openSession(cmd.Context(), app, nil, nil)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer sess.Close()
			hints := loadIcons(sess)
			icon, ok := sess.Icons.Find(args[0])
			if !ok {
				return writeErr(cmd, errNotFound("icon", args[0]))
			}
			return writeOut(cmd, app, format.Envelope{Data: icon, Hints: hints})
		},
	}
}

func newIconsSearchCmd(app *App) *cobra.Command {
	var limit int
	var exact bool

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Fuzzy-search icons by name, label and search terms",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := openSession(cmd.Context(), app, nil, nil)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer sess.Close()
			hints := loadIcons(sess)

			var out []model.Icon
			if exact {
				out = limitIcons(sess.Icons.MatchTerm(args[0]), limit)
			} else {
				out = sess.Icons.Search(args[0], limit)
			}
			if out == nil {
				out = []model.Icon{}
			}
			return writeOut(cmd, app, format.Envelope{Data: out, Hints: hints})
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "Max results (0 = all)")
	cmd.Flags().BoolVar(&exact, "exact", false, "Match a whole search term (case-insensitive) instead of fuzzy")
	return cmd
}
