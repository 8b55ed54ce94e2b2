package store

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterbourgon/diskv/v3"
)

// Drafts persist unsent editor text per cotonoma so a half-written coto
// survives restarts. One diskv key per room; the root timeline uses a
// reserved key.

const rootDraftKey = "_root"

func (s Store) drafts() *diskv.Diskv {
	return diskv.New(diskv.Options{
		BasePath:     filepath.Join(s.Dir, "drafts"),
		Transform:    func(string) []string { return nil },
		CacheSizeMax: 1024 * 1024, // 1MB
	})
}

func draftKey(cotonomaKey string) string {
	k := strings.TrimSpace(cotonomaKey)
	if k == "" {
		return rootDraftKey
	}
	// Cotonoma keys are URL slugs, but stay defensive about path separators
	// since keys become file names.
	k = strings.ReplaceAll(k, string(os.PathSeparator), "_")
	return "c_" + k
}

// SaveDraft stores draft text for a room. An empty draft clears the entry
// instead, so abandoned drafts do not pile up.
func (s Store) SaveDraft(cotonomaKey, text string) error {
	if err := s.Ensure(); err != nil {
		return err
	}
	d := s.drafts()
	if strings.TrimSpace(text) == "" {
		return s.ClearDraft(cotonomaKey)
	}
	return d.Write(draftKey(cotonomaKey), []byte(text))
}

// LoadDraft returns the saved draft for a room, or "" when none exists.
func (s Store) LoadDraft(cotonomaKey string) string {
	b, err := s.drafts().Read(draftKey(cotonomaKey))
	if err != nil {
		return ""
	}
	return string(b)
}

func (s Store) ClearDraft(cotonomaKey string) error {
	err := s.drafts().Erase(draftKey(cotonomaKey))
	if err != nil && errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}
