package cli

import (
	"sort"
	"strings"
	"time"

	"coto-cli/internal/format"
	"coto-cli/internal/model"

	"github.com/spf13/cobra"
)

func newCotonomasCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cotonomas",
		Short: "List, create and switch cotonomas (rooms)",
	}
	cmd.AddCommand(newCotonomasListCmd(app))
	cmd.AddCommand(newCotonomasCreateCmd(app))
	cmd.AddCommand(newCotonomasUseCmd(app))
	cmd.AddCommand(newCotonomasStatsCmd(app))
	return cmd
}

func newCotonomasListCmd(app *App) *cobra.Command {
	var cached bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List known cotonomas",
		RunE: func(cmd *cobra.Command, args []string) error {
			var rooms []model.Cotonoma
			if cached {
				s, _, err := resolve(app)
				if err != nil {
					return writeErr(cmd, err)
				}
				rooms, err = s.CachedCotonomas(cmd.Context())
				if err != nil {
					return writeErr(cmd, err)
				}
			} else {
				client, s, _, err := newAPIClient(app)
				if err != nil {
					return writeErr(cmd, err)
				}
				rooms, err = client.FetchCotonomas(cmd.Context())
				if err != nil {
					return writeErr(cmd, friendlyErr(err))
				}
				_ = s.CacheCotonomas(cmd.Context(), rooms)
			}

			if app.Format == "table" {
				return format.WriteCotonomaTable(cmd.OutOrStdout(), rooms)
			}
			return writeOut(cmd, app, map[string]any{
				"data": map[string]any{"cotonomas": rooms, "cached": cached},
			})
		},
	}

	cmd.Flags().BoolVar(&cached, "cached", false, "Read from the local cache instead of the server")
	return cmd
}

func newCotonomasCreateCmd(app *App) *cobra.Command {
	var use bool

	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a new cotonoma",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, s, cfg, err := newAPIClient(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			room, err := client.PostCotonoma(cmd.Context(), args[0])
			if err != nil {
				return writeErr(cmd, friendlyErr(err))
			}
			if use {
				cfg.CurrentCotonoma = room.Key
				if err := s.SaveConfig(cfg); err != nil {
					return writeErr(cmd, err)
				}
			}
			return writeOut(cmd, app, map[string]any{"data": room})
		},
	}

	cmd.Flags().BoolVar(&use, "use", false, "Switch the current cotonoma to the new room")
	return cmd
}

func newCotonomasUseCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "use <key>",
		Short: "Switch the current cotonoma",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := strings.TrimSpace(args[0])
			client, s, cfg, err := newAPIClient(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			rooms, err := client.FetchCotonomas(cmd.Context())
			if err != nil {
				return writeErr(cmd, friendlyErr(err))
			}
			found := false
			for _, r := range rooms {
				if r.Key == key {
					found = true
					break
				}
			}
			if !found {
				return writeErr(cmd, errNotFound("cotonoma", key))
			}
			cfg.CurrentCotonoma = key
			if err := s.SaveConfig(cfg); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"data": map[string]any{"currentCotonoma": key},
			})
		},
	}
	return cmd
}

func newCotonomasStatsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Per-room coto counts and last-posted times, busiest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, _, err := newAPIClient(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			rooms, err := client.FetchCotonomas(cmd.Context())
			if err != nil {
				return writeErr(cmd, friendlyErr(err))
			}

			sort.SliceStable(rooms, func(i, j int) bool {
				if rooms[i].CotoCount != rooms[j].CotoCount {
					return rooms[i].CotoCount > rooms[j].CotoCount
				}
				return rooms[i].Name < rooms[j].Name
			})

			if app.Format == "table" {
				return format.WriteCotonomaTable(cmd.OutOrStdout(), rooms)
			}

			type stat struct {
				Key          string     `json:"key"`
				Name         string     `json:"name"`
				CotoCount    int64      `json:"cotoCount"`
				LastPostedAt *time.Time `json:"lastPostedAt"`
			}
			stats := make([]stat, 0, len(rooms))
			var total int64
			for _, r := range rooms {
				stats = append(stats, stat{Key: r.Key, Name: r.Name, CotoCount: r.CotoCount, LastPostedAt: r.LastPostedAt})
				total += r.CotoCount
			}
			return writeOut(cmd, app, map[string]any{
				"data": map[string]any{"rooms": stats, "totalCotos": total},
			})
		},
	}
	return cmd
}
