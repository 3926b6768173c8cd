package cli

import (
	"context"
	"errors"
	"strings"

	"tiles-cli/internal/format"
	"tiles-cli/internal/store"

	"github.com/spf13/cobra"
)

func newBackupCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Export or import a workspace's local storage as JSONL",
	}
	cmd.AddCommand(newBackupExportCmd(app))
	cmd.AddCommand(newBackupImportCmd(app))
	return cmd
}

func openBackend(ctx context.Context, app *App) (store.Backend, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	kind, err := store.ParseBackendKind(app.Storage)
	if err != nil {
		return nil, err
	}
	if kind == store.BackendMemory {
		return nil, errors.New("backup needs --storage sqlite")
	}
	dir, err := resolveDir(app)
	if err != nil {
		return nil, err
	}
	return store.Store{Dir: dir}.Open(ctx, kind)
}

func newBackupExportCmd(app *App) *cobra.Command {
	var to string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write every stored key/value pair to a JSONL file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := openBackend(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer b.Close()

			entries, err := store.ReadEntries(cmd.Context(), b)
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := store.WriteEntriesJSONL(strings.TrimSpace(to), entries); err != nil {
				return writeErr(cmd, err)
			}
			keys := make([]string, 0, len(entries))
			for _, e := range entries {
				keys = append(keys, e.Key)
			}
			return writeOut(cmd, app, format.Envelope{
				Data:  map[string]any{"path": to, "keys": keys},
				Hints: []string{"tiles backup import --from " + to},
			})
		},
	}
	cmd.Flags().StringVar(&to, "to", "", "Output file (required)")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}

func newBackupImportCmd(app *App) *cobra.Command {
	var from string
	var replace bool

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Restore key/value pairs from a JSONL file",
		Long: strings.TrimSpace(`
Restore key/value pairs written by "tiles backup export".

Keys missing from the file are kept unless --replace is given. Running TUI and web processes
pick the restored values up on their next reload.
`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := store.ReadEntriesJSONL(strings.TrimSpace(from))
			if err != nil {
				return writeErr(cmd, err)
			}
			b, err := openBackend(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer b.Close()

			if err := store.ReplaceEntries(cmd.Context(), b, entries, replace); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, format.Envelope{Data: map[string]any{
				"path":     from,
				"imported": len(entries),
				"replaced": replace,
			}})
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "Input file (required)")
	cmd.Flags().BoolVar(&replace, "replace", false, "Remove keys not present in the file")
	_ = cmd.MarkFlagRequired("from")
	return cmd
}
