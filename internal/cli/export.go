package cli

import (
	"strings"

	"coto-cli/internal/model"
	"coto-cli/internal/publish"

	"github.com/spf13/cobra"
)

func newExportCmd(app *App) *cobra.Command {
	var (
		toDir          string
		cached         bool
		includePending bool
		overwrite      bool
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the current timeline to a markdown file",
		Example: strings.TrimSpace(`
  coto export --to ./notes
  coto --cotonoma tea export --to ./notes --overwrite
  coto export --to ./notes --cached   # offline, from the local cache
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
				_ = s.CacheCotos(cmd.Context(), key, cotos)
			}

			res, err := publish.WriteTimeline(key, cotos, toDir, publish.WriteOptions{
				IncludePending: includePending,
				Overwrite:      overwrite,
			})
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": res})
		},
	}

	cmd.Flags().StringVar(&toDir, "to", "", "Directory to write the markdown file into (required)")
	cmd.Flags().BoolVar(&cached, "cached", false, "Export from the local cache instead of the server")
	cmd.Flags().BoolVar(&includePending, "include-pending", false, "Include cotos not yet confirmed by the server")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Replace an existing export file")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}
