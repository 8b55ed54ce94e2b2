package cli

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"
)

func newSessionCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Inspect and configure the server session",
	}
	cmd.AddCommand(newSessionShowCmd(app))
	cmd.AddCommand(newSessionLoginCmd(app))
	cmd.AddCommand(newSessionLogoutCmd(app))
	return cmd
}

func newSessionShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the signed-in identity (validates the token against the server)",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, _, err := newAPIClient(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			sess, err := client.FetchSession(cmd.Context())
			if err != nil {
				return writeErr(cmd, friendlyErr(err))
			}
			return writeOut(cmd, app, map[string]any{
				"data": map[string]any{"signedIn": sess.SignedIn(), "amishi": sess.Amishi},
			})
		},
	}
}

func newSessionLoginCmd(app *App) *cobra.Command {
	var server string
	var token string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Store the server URL and session token",
		Long: strings.TrimSpace(`
Store a bearer token (obtained from the Coto web app) in ~/.coto/config.json.
The token is validated against the server before saving.
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, cfg, err := resolve(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			if v := strings.TrimSpace(server); v != "" {
				cfg.ServerURL = v
			}
			if v := strings.TrimSpace(token); v != "" {
				cfg.Token = v
			}
			if cfg.Server() == "" {
				return writeErr(cmd, errNoServer())
			}
			if strings.TrimSpace(cfg.Token) == "" {
				return writeErr(cmd, errors.New("missing --token"))
			}

			// Validate before persisting so a typo'd token is caught here.
			client, err := newAPIClientFromConfig(cfg)
			if err != nil {
				return writeErr(cmd, err)
			}
			sess, err := client.FetchSession(cmd.Context())
			if err != nil {
				return writeErr(cmd, friendlyErr(err))
			}

			if err := s.SaveConfig(cfg); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"data": map[string]any{"server": cfg.Server(), "signedIn": sess.SignedIn(), "amishi": sess.Amishi},
			})
		},
	}

	cmd.Flags().StringVar(&server, "server", "", "Coto server base URL")
	cmd.Flags().StringVar(&token, "token", "", "Session bearer token")
	return cmd
}

func newSessionLogoutCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Drop the stored session token",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, cfg, err := resolve(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			cfg.Token = ""
			if err := s.SaveConfig(cfg); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"data": map[string]any{"signedIn": false},
			})
		},
	}
}
