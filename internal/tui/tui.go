// Package tui is the interactive timeline client: a Bubble Tea app hosting
// the timeline controller. All posting/reconciliation decisions live in
// internal/timeline; this package translates key and network messages into
// controller events and executes the effects the controller asks for.
package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"coto-cli/internal/api"
	"coto-cli/internal/store"
)

// Config wires the TUI to its collaborators.
type Config struct {
	Store    store.Store
	Client   *api.Client
	Cotonoma string

	// Theme is "light", "dark", "auto" or "" (auto).
	Theme string
	// Glyphs is "unicode" (default) or "ascii".
	Glyphs string
}

func Run(cfg Config) error {
	applyColorProfilePreference()
	applyThemePreference(cfg.Theme)

	m := newAppModel(cfg)
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
