package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/exec"
	"runtime"
	"strings"
	"time"

	"tiles-cli/internal/format"
	"tiles-cli/internal/store"
	"tiles-cli/internal/theme"
	"tiles-cli/internal/web"

	"github.com/spf13/cobra"
)

const defaultWebAddr = "127.0.0.1:3336"

func newWebCmd(app *App) *cobra.Command {
	var addr string
	var open bool

	cmd := &cobra.Command{
		Use:   "web",
		Short: "Serve the dashboard as a web page",
		Long: strings.TrimSpace(`
Serve the dashboard from a local HTTP server.

The page updates live (Datastar SSE) when tiles or the theme change, including changes made
from the CLI or TUI in other processes. /ws streams the same snapshots as JSON.
`),
		Example: strings.TrimSpace(`
# Serve the current workspace on localhost
tiles web --addr 127.0.0.1:3336

# Serve a specific workspace
tiles --workspace homelab web --addr :3336
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			listenAddr := strings.TrimSpace(addr)
			if listenAddr == "" {
				if cfg, err := store.LoadConfig(); err == nil {
					listenAddr = strings.TrimSpace(cfg.Web.Addr)
				}
			}
			if listenAddr == "" {
				listenAddr = defaultWebAddr
			}

			// The page body is the presentation root for this process.
			root := theme.NewClassList()
			sess, err := openSession(cmd.Context(), app, root, theme.NewTerminalAmbient(app.env))
			if err != nil {
				return writeErr(cmd, err)
			}
			defer sess.Close()

			srv, err := web.NewServer(web.ServerConfig{
				Session:   sess,
				Root:      root,
				Workspace: strings.TrimSpace(app.Workspace),
			})
			if err != nil {
				return writeErr(cmd, err)
			}
			defer srv.Close()

			ln, err := net.Listen("tcp", listenAddr)
			if err != nil {
				return writeErr(cmd, err)
			}

			actualAddr := ln.Addr().String()
			url := "http://" + actualAddr + "/"

			opened := false
			openErr := ""
			if open {
				if err := openPath(url); err != nil {
					openErr = err.Error()
				} else {
					opened = true
				}
			}

			hints := []string{}
			if !opened {
				hints = append(hints, "open "+url)
			}

			_ = writeOut(cmd, app, format.Envelope{
				Data: map[string]any{
					"addr":      actualAddr,
					"url":       url,
					"workspace": strings.TrimSpace(app.Workspace),
					"dir":       app.Dir,
					"opened":    opened,
					"openError": openErr,
					"startedAt": time.Now().UTC().Format(time.RFC3339Nano),
				},
				Hints: hints,
			})

			fmt.Fprintf(cmd.ErrOrStderr(), "Tiles web running at %s (workspace=%s)\n", url, strings.TrimSpace(app.Workspace))
			if openErr != "" {
				fmt.Fprintf(cmd.ErrOrStderr(), "Failed to open browser: %s\n", openErr)
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			ctx, cancel := context.WithCancel(ctx)
			defer cancel()
			go srv.Watch(ctx, web.DefaultPollInterval)

			return http.Serve(ln, srv.Handler())
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Bind address (host:port or :port; default: [web] addr from config, else "+defaultWebAddr+")")
	cmd.Flags().BoolVar(&open, "open", true, "Open the UI in your default browser")
	return cmd
}

func openPath(path string) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return errors.New("empty path")
	}
	switch runtime.GOOS {
	case "darwin":
		return exec.Command("open", path).Run()
	case "windows":
		return exec.Command("cmd", "/c", "start", "", path).Run()
	default:
		return exec.Command("xdg-open", path).Run()
	}
}
