// Package store is the client's local state: config.json, the SQLite read
// cache, per-cotonoma drafts and small TUI restore state. Everything lives
// under one data dir (~/.coto by default) and is best-effort; the client must
// keep working when any of it is missing or stale.
package store

import (
	"os"
	"path/filepath"
	"strings"
)

// Store is a handle on the local data dir.
type Store struct {
	Dir string
}

// DataDir resolves the local data dir.
// Test/advanced override (keeps unit tests from touching ~/.coto).
func DataDir() (string, error) {
	if v := strings.TrimSpace(os.Getenv("COTO_DATA_DIR")); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".coto"), nil
}

// Open returns a Store rooted at dir, or at the default data dir when dir is
// empty.
func Open(dir string) (Store, error) {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		d, err := DataDir()
		if err != nil {
			return Store{}, err
		}
		dir = d
	}
	return Store{Dir: dir}, nil
}

func (s Store) Ensure() error {
	return os.MkdirAll(s.Dir, 0o755)
}

// atomicWriteFile writes via a unique temp file + rename to avoid
// cross-process clobbering when CLI, TUI and web write concurrently.
func atomicWriteFile(dir, tmpPattern, path string, b []byte, perm os.FileMode) error {
	f, err := os.CreateTemp(dir, tmpPattern)
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer func() { _ = os.Remove(tmp) }()
	if _, err := f.Write(b); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	_ = os.Chmod(tmp, perm)
	return os.Rename(tmp, path)
}
