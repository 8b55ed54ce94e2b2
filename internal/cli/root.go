package cli

import (
	"fmt"
	"os"
	"strings"

	"coto-cli/internal/api"
	"coto-cli/internal/format"
	"coto-cli/internal/store"
	"coto-cli/internal/tui"

	"github.com/spf13/cobra"
)

// App carries the persistent flag state shared by every subcommand.
type App struct {
	Dir        string
	Server     string
	Token      string
	Cotonoma   string
	PrettyJSON bool
	Format     string
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "coto",
		Short:        "Coto note-sharing client (CLI + TUI)",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive timeline TUI
  coto

  # Scriptable commands
  coto cotos list
  coto cotos post "Hello from the shell"

  # Rooms
  coto cotonomas list
  coto --cotonoma tea cotos list

  # Room shortcut (same as: coto cotos list --cotonoma tea)
  coto @tea
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive TUI.
			if cmd.HasSubCommands() && len(args) == 0 {
				return runTUI(app)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentFlags().StringVar(&app.Dir, "dir", envOr("COTO_DATA_DIR", ""), "Path to local data dir (advanced: used for fixtures/tests)")
	cmd.PersistentFlags().StringVar(&app.Server, "server", "", "Coto server base URL (overrides config/COTO_SERVER)")
	cmd.PersistentFlags().StringVar(&app.Token, "token", "", "Session bearer token (overrides config/COTO_TOKEN)")
	cmd.PersistentFlags().StringVar(&app.Cotonoma, "cotonoma", "", "Cotonoma key to operate on (default: current room from config)")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON output")
	cmd.PersistentFlags().StringVar(&app.Format, "format", envOr("COTO_FORMAT", "json"), "Output format (json|edn|table)")

	cmd.AddCommand(newCotosCmd(app))
	cmd.AddCommand(newCotonomasCmd(app))
	cmd.AddCommand(newExportCmd(app))
	cmd.AddCommand(newSessionCmd(app))
	cmd.AddCommand(newStatusCmd(app))
	cmd.AddCommand(newDocsCmd(app))
	cmd.AddCommand(newWebCmd(app))
	cmd.AddCommand(newWebTUICmd(app))

	return cmd
}

// resolve loads the local store plus effective config (flags > env > file).
func resolve(app *App) (store.Store, *store.Config, error) {
	s, err := store.Open(app.Dir)
	if err != nil {
		return store.Store{}, nil, err
	}
	cfg, err := s.LoadConfig()
	if err != nil {
		return s, nil, err
	}
	if v := strings.TrimSpace(app.Server); v != "" {
		cfg.ServerURL = v
		// Flag beats env too; clear the env-aware accessor's input.
		os.Unsetenv("COTO_SERVER")
	}
	if v := strings.TrimSpace(app.Token); v != "" {
		cfg.Token = v
		os.Unsetenv("COTO_TOKEN")
	}
	if v := strings.TrimSpace(app.Cotonoma); v != "" {
		cfg.CurrentCotonoma = v
		os.Unsetenv("COTO_COTONOMA")
	}
	return s, cfg, nil
}

func newAPIClient(app *App) (*api.Client, store.Store, *store.Config, error) {
	s, cfg, err := resolve(app)
	if err != nil {
		return nil, s, nil, err
	}
	server := cfg.Server()
	if server == "" {
		return nil, s, cfg, errNoServer()
	}
	return api.NewClient(server, cfg.BearerToken()), s, cfg, nil
}

// newAPIClientFromConfig builds a client from an already-resolved config
// (used when the config is being edited before save).
func newAPIClientFromConfig(cfg *store.Config) (*api.Client, error) {
	server := cfg.Server()
	if server == "" {
		return nil, errNoServer()
	}
	return api.NewClient(server, cfg.BearerToken()), nil
}

func runTUI(app *App) error {
	s, cfg, err := resolve(app)
	if err != nil {
		return err
	}
	if cfg.Server() == "" {
		return errNoServer()
	}
	return tui.Run(tui.Config{
		Store:    s,
		Client:   api.NewClient(cfg.Server(), cfg.BearerToken()),
		Cotonoma: cfg.Cotonoma(),
		Theme:    tuiTheme(cfg),
		Glyphs:   tuiGlyphs(cfg),
	})
}

func tuiTheme(cfg *store.Config) string {
	if cfg.TUI != nil {
		return cfg.TUI.Theme
	}
	return ""
}

func tuiGlyphs(cfg *store.Config) string {
	if cfg.TUI != nil {
		return cfg.TUI.Glyphs
	}
	return ""
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	f := app.Format
	if f == "table" {
		// Table output is per-command; commands that support it never reach
		// this helper with "table". Fall back to JSON for the rest.
		f = "json"
	}
	return format.Write(cmd.OutOrStdout(), v, f, app.PrettyJSON)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}
