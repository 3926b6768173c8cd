package cli

import (
	"strings"

	"tiles-cli/internal/format"
	"tiles-cli/internal/publish"

	"github.com/spf13/cobra"
)

func newPublishCmd(app *App) *cobra.Command {
	var to string
	var title string
	var overwrite bool

	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Write the dashboard as markdown plus icon SVGs",
		Long: strings.TrimSpace(`
Write index.md (one link per tile) and icons/<name>.svg for every icon in use into --to.
Existing files are kept unless --overwrite is given.
`),
		Example: strings.TrimSpace(`
tiles publish --to ./site
tiles --workspace homelab publish --to ./site --title Homelab --overwrite
`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := openSession(cmd.Context(), app, nil, nil)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer sess.Close()
			hints := loadIcons(sess)

			if strings.TrimSpace(title) == "" {
				title = strings.TrimSpace(app.Workspace)
			}
			res, err := publish.WriteDashboard(sess.Instances.List(), sess.Icons, to, publish.WriteOptions{
				Title:     title,
				Overwrite: overwrite,
			})
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, format.Envelope{Data: res, Hints: hints})
		},
	}
	cmd.Flags().StringVar(&to, "to", "", "Output directory (required)")
	cmd.Flags().StringVar(&title, "title", "", "Page title (default: workspace name)")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Replace existing files")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}
