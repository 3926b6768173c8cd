package cli

import (
	"strings"

	"tiles-cli/internal/format"
	"tiles-cli/internal/model"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func newInstancesCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "instances",
		Aliases: []string{"instance"},
		Short:   "Manage dashboard tiles (instances)",
	}

	cmd.AddCommand(newInstancesListCmd(app))
	cmd.AddCommand(newInstancesShowCmd(app))
	cmd.AddCommand(newInstancesAddCmd(app))
	cmd.AddCommand(newInstancesUpdateCmd(app))
	cmd.AddCommand(newInstancesRemoveCmd(app))

	return cmd
}

func newInstancesListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List instances in dashboard order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := openSession(cmd.Context(), app, nil, nil)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer sess.Close()
			return writeOut(cmd, app, format.Envelope{Data: sess.Instances.List()})
		},
	}
}

func newInstancesShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one instance",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := openSession(cmd.Context(), app, nil, nil)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer sess.Close()
			inst, ok := sess.Instances.Find(args[0])
			if !ok {
				return writeErr(cmd, errNotFound("instance", args[0]))
			}
			return writeOut(cmd, app, format.Envelope{Data: inst})
		},
	}
}

type instanceFlags struct {
	id, icon, title, href, color string
}

func (f *instanceFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.icon, "icon", "", "Icon name from the catalog (see: tiles icons search)")
	cmd.Flags().StringVar(&f.title, "title", "", "Tile title")
	cmd.Flags().StringVar(&f.href, "href", "", "Link target")
	cmd.Flags().StringVar(&f.color, "color", "", "Accent color (any CSS color)")
}

// overlay copies the flags the user actually set onto inst.
func (f *instanceFlags) overlay(cmd *cobra.Command, inst model.Instance) model.Instance {
	if cmd.Flags().Changed("id") {
		inst.ID = strings.TrimSpace(f.id)
	}
	if cmd.Flags().Changed("icon") {
		inst.Icon = strings.TrimSpace(f.icon)
	}
	if cmd.Flags().Changed("title") {
		inst.Title = f.title
	}
	if cmd.Flags().Changed("href") {
		inst.Href = strings.TrimSpace(f.href)
	}
	if cmd.Flags().Changed("color") {
		inst.Color = strings.TrimSpace(f.color)
	}
	return inst
}

func newInstancesAddCmd(app *App) *cobra.Command {
	var f instanceFlags

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Append an instance (ids are not checked for uniqueness)",
		Example: strings.TrimSpace(`
tiles instances add --title Grafana --href https://grafana.local --icon chart-line --color "#f46800"
tiles instances add --id nas --title NAS --href http://nas.local --icon server
`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			inst := f.overlay(cmd, model.Instance{})
			if inst.ID == "" {
				inst.ID = uuid.NewString()
			}

			sess, err := openSession(cmd.Context(), app, nil, nil)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer sess.Close()

			hints := []string{}
			if _, dup := sess.Instances.Find(inst.ID); dup {
				hints = append(hints, "another instance already uses id "+inst.ID+"; update/remove will affect both")
			}
			if err := sess.Instances.Add(inst); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, format.Envelope{Data: inst, Hints: hints})
		},
	}
	cmd.Flags().StringVar(&f.id, "id", "", "Instance id (default: generated UUID)")
	f.register(cmd)
	return cmd
}

func newInstancesUpdateCmd(app *App) *cobra.Command {
	var f instanceFlags

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update an instance; only the given fields change and the id never does",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			sess, err := openSession(cmd.Context(), app, nil, nil)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer sess.Close()

			cur, ok := sess.Instances.Find(id)
			if !ok {
				return writeErr(cmd, errNotFound("instance", id))
			}
			// --id is overlaid too; the registry forces the original id back.
			if err := sess.Instances.Update(id, f.overlay(cmd, cur)); err != nil {
				return writeErr(cmd, err)
			}
			updated, _ := sess.Instances.Find(id)
			return writeOut(cmd, app, format.Envelope{Data: updated})
		},
	}
	cmd.Flags().StringVar(&f.id, "id", "", "Ignored: instance ids never change")
	_ = cmd.Flags().MarkHidden("id")
	f.register(cmd)
	return cmd
}

func newInstancesRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "remove <id>",
		Aliases: []string{"rm"},
		Short:   "Remove every instance with the given id (no match is not an error)",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := openSession(cmd.Context(), app, nil, nil)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer sess.Close()

			before := len(sess.Instances.List())
			if err := sess.Instances.Remove(args[0]); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, format.Envelope{Data: map[string]any{
				"id":      args[0],
				"removed": before - len(sess.Instances.List()),
			}})
		},
	}
}
