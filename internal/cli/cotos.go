package cli

import (
	"errors"
	"io"
	"strings"

	"coto-cli/internal/format"
	"coto-cli/internal/model"

	"github.com/spf13/cobra"
)

func newCotosCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cotos",
		Short: "List and post cotos (timeline items)",
	}
	cmd.AddCommand(newCotosListCmd(app))
	cmd.AddCommand(newCotosPostCmd(app))
	return cmd
}

func newCotosListCmd(app *App) *cobra.Command {
	var cached bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the timeline of the current cotonoma (newest first)",
		Example: strings.TrimSpace(`
  coto cotos list
  coto --cotonoma tea cotos list --format table
  coto cotos list --cached   # offline, from the local cache
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, cfg, err := resolve(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			key := cfg.Cotonoma()

			var cotos []model.Coto
			if cached {
				cotos, err = s.CachedCotos(cmd.Context(), key)
				if err != nil {
					return writeErr(cmd, err)
				}
			} else {
				client, _, _, err := newAPIClient(app)
				if err != nil {
					return writeErr(cmd, err)
				}
				cotos, err = client.FetchCotos(cmd.Context(), key)
				if err != nil {
					return writeErr(cmd, friendlyErr(err))
				}
				// Refresh the offline cache on every successful fetch.
				_ = s.CacheCotos(cmd.Context(), key, cotos)
			}

			if app.Format == "table" {
				return format.WriteCotoTable(cmd.OutOrStdout(), cotos)
			}
			return writeOut(cmd, app, map[string]any{
				"data": map[string]any{"cotonoma": key, "cotos": cotos, "cached": cached},
			})
		},
	}

	cmd.Flags().BoolVar(&cached, "cached", false, "Read from the local cache instead of the server")
	return cmd
}

func newCotosPostCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "post [content]",
		Short: "Post a coto to the current cotonoma",
		Long: strings.TrimSpace(`
Post a markdown coto. Content comes from the argument, or from stdin when no
argument is given (so you can pipe text in).
`),
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			content := ""
			if len(args) == 1 {
				content = args[0]
			} else {
				b, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return writeErr(cmd, err)
				}
				content = string(b)
			}
			if strings.TrimSpace(content) == "" {
				return writeErr(cmd, errors.New("nothing to post: content is empty"))
			}

			client, s, cfg, err := newAPIClient(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			key := cfg.Cotonoma()

			// One-shot post: no session counter to correlate against, so the
			// post id stays null on the wire.
			confirmed, err := client.PostCoto(cmd.Context(), key, model.Coto{Content: content})
			if err != nil {
				return writeErr(cmd, friendlyErr(err))
			}

			// Keep the cache fresh so a follow-up `list --cached` sees it.
			if cotos, err := s.CachedCotos(cmd.Context(), key); err == nil {
				_ = s.CacheCotos(cmd.Context(), key, append([]model.Coto{confirmed}, cotos...))
			}

			return writeOut(cmd, app, map[string]any{"data": confirmed})
		},
	}
	return cmd
}
