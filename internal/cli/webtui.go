package cli

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"coto-cli/internal/webtui"

	"github.com/spf13/cobra"
)

func newWebTUICmd(app *App) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "webtui",
		Short: "Run the Bubble Tea TUI in your browser (PTY + WebSocket, experimental)",
		Long: strings.TrimSpace(`
Run the timeline TUI over the web via a server-side PTY and a browser terminal
emulator.

Notes:
- Experimental demo mode (no auth yet).
- Each browser tab starts a TUI subprocess on the server.
`),
		Example: strings.TrimSpace(`
# Serve the root timeline on localhost
coto webtui --addr 127.0.0.1:3334

# Serve a specific room
coto --cotonoma tea webtui --addr :3334
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, cfg, err := resolve(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			if cfg.Server() == "" {
				return writeErr(cmd, errNoServer())
			}

			srv, err := webtui.NewServer(webtui.ServerConfig{
				Addr:     strings.TrimSpace(addr),
				Dir:      strings.TrimSpace(app.Dir),
				Server:   cfg.Server(),
				Cotonoma: cfg.Cotonoma(),
			})
			if err != nil {
				return writeErr(cmd, err)
			}

			listenAddr := srv.Addr()
			if listenAddr == "" {
				return writeErr(cmd, errors.New("webtui: missing --addr"))
			}

			_ = writeOut(cmd, app, map[string]any{
				"data": map[string]any{
					"addr":      listenAddr,
					"cotonoma":  cfg.Cotonoma(),
					"startedAt": time.Now().UTC().Format(time.RFC3339Nano),
				},
				"_hints": []string{
					"open http://" + listenAddr,
				},
			})

			fmt.Fprintf(cmd.ErrOrStderr(), "Coto webtui running at http://%s (cotonoma=%s)\n", listenAddr, cfg.Cotonoma())
			return http.ListenAndServe(listenAddr, srv.Handler())
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:3334", "Bind address (host:port or :port)")
	return cmd
}
