package cli

import (
	"github.com/spf13/cobra"
)

func newStatusCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show effective config, session and cache state at a glance",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, cfg, err := resolve(app)
			if err != nil {
				return writeErr(cmd, err)
			}

			data := map[string]any{
				"dataDir":         s.Dir,
				"server":          cfg.Server(),
				"currentCotonoma": cfg.Cotonoma(),
				"signedIn":        false,
			}

			// Session check is best-effort: status must still work offline.
			if client, err := newAPIClientFromConfig(cfg); err == nil {
				if sess, err := client.FetchSession(cmd.Context()); err == nil {
					data["signedIn"] = sess.SignedIn()
					data["amishi"] = sess.Amishi
				}
			}

			if cached, err := s.CachedCotos(cmd.Context(), cfg.Cotonoma()); err == nil {
				data["cachedCotos"] = len(cached)
			}
			if rooms, err := s.CachedCotonomas(cmd.Context()); err == nil {
				data["cachedCotonomas"] = len(rooms)
			}
			if draft := s.LoadDraft(cfg.Cotonoma()); draft != "" {
				data["draftPending"] = true
			}

			return writeOut(cmd, app, map[string]any{"data": data})
		},
	}
}
