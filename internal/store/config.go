package store

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
)

const configFileName = "config.json"

// Config is the persisted client configuration. The token is a bearer token
// issued out of band (session/auth is the server's business); the client only
// stores and sends it.
type Config struct {
	// ServerURL is the Coto server base URL, e.g. "https://coto.example.com".
	ServerURL string `json:"serverUrl,omitempty"`

	// Token is the session bearer token.
	Token string `json:"token,omitempty"`

	// CurrentCotonoma is the key of the room last posted to / switched to.
	// Empty means the root timeline.
	CurrentCotonoma string `json:"currentCotonoma,omitempty"`

	// TUI holds optional user preferences for the interactive TUI.
	TUI *TUIConfig `json:"tui,omitempty"`
}

type TUIConfig struct {
	// Theme is "light", "dark" or "auto".
	Theme string `json:"theme,omitempty"`
	// Glyphs selects the glyph set ("unicode", "ascii").
	Glyphs string `json:"glyphs,omitempty"`
}

func (s Store) configPath() string {
	return filepath.Join(s.Dir, configFileName)
}

func (s Store) LoadConfig() (*Config, error) {
	b, err := os.ReadFile(s.configPath())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, err
	}
	var cfg Config
	if err := json.Unmarshal(b, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (s Store) SaveConfig(cfg *Config) error {
	if cfg == nil {
		return nil
	}
	if err := s.Ensure(); err != nil {
		return err
	}
	b, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	path := s.configPath()

	// Best-effort safety net: keep a copy of the previous config to make
	// recovery from accidental overwrites easier.
	if prev, err := os.ReadFile(path); err == nil && len(prev) > 0 {
		_ = atomicWriteFile(s.Dir, configFileName+".bak.*.tmp", path+".bak", prev, 0o644)
	}

	// 0600: the file carries the session token.
	return atomicWriteFile(s.Dir, configFileName+".*.tmp", path, b, 0o600)
}

// Env overrides take precedence over config.json so scripts can point a single
// invocation somewhere else without touching the saved config.
func (cfg *Config) Server() string {
	if v := strings.TrimSpace(os.Getenv("COTO_SERVER")); v != "" {
		return v
	}
	return strings.TrimSpace(cfg.ServerURL)
}

func (cfg *Config) BearerToken() string {
	if v := strings.TrimSpace(os.Getenv("COTO_TOKEN")); v != "" {
		return v
	}
	return strings.TrimSpace(cfg.Token)
}

func (cfg *Config) Cotonoma() string {
	if v := strings.TrimSpace(os.Getenv("COTO_COTONOMA")); v != "" {
		return v
	}
	return strings.TrimSpace(cfg.CurrentCotonoma)
}
