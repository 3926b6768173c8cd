package cli

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"tiles-cli/internal/format"
	"tiles-cli/internal/store"
	"tiles-cli/internal/webtui"

	"github.com/spf13/cobra"
)

const defaultWebTUIAddr = "127.0.0.1:3337"

func newWebTUICmd(app *App) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "webtui",
		Short: "Run the TUI in your browser (PTY + WebSocket, experimental)",
		Long: strings.TrimSpace(`
Run the interactive TUI over the web via a server-side PTY and a browser terminal emulator.

Notes:
- No auth; bind to localhost.
- Each browser tab starts a TUI subprocess on the server.
`),
		Example: strings.TrimSpace(`
# Serve the current workspace on localhost
tiles webtui --addr 127.0.0.1:3337

# Serve a specific workspace
tiles --workspace homelab webtui --addr :3337
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := store.ParseBackendKind(app.Storage)
			if err != nil {
				return writeErr(cmd, err)
			}
			dir := app.Dir
			if kind != store.BackendMemory {
				if dir, err = resolveDir(app); err != nil {
					return writeErr(cmd, err)
				}
			}

			srv, err := webtui.NewServer(webtui.ServerConfig{
				Addr:      strings.TrimSpace(addr),
				Dir:       dir,
				Workspace: strings.TrimSpace(app.Workspace),
				Storage:   kind,
			})
			if err != nil {
				return writeErr(cmd, err)
			}

			listenAddr := srv.Addr()
			_ = writeOut(cmd, app, format.Envelope{
				Data: map[string]any{
					"addr":      listenAddr,
					"workspace": strings.TrimSpace(app.Workspace),
					"dir":       dir,
					"startedAt": time.Now().UTC().Format(time.RFC3339Nano),
				},
				Hints: []string{"open http://" + listenAddr},
			})

			fmt.Fprintf(cmd.ErrOrStderr(), "Tiles webtui running at http://%s (workspace=%s)\n", listenAddr, strings.TrimSpace(app.Workspace))
			return http.ListenAndServe(listenAddr, srv.Handler())
		},
	}

	cmd.Flags().StringVar(&addr, "addr", defaultWebTUIAddr, "Bind address (host:port or :port)")
	return cmd
}
