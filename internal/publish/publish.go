package publish

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"coto-cli/internal/model"
)

type WriteOptions struct {
	IncludePending bool
	Overwrite      bool
}

type WriteResult struct {
	Written []string `json:"written"`
}

// WriteTimeline exports one timeline to <toDir>/<room>.md.
func WriteTimeline(cotonoma string, cotos []model.Coto, toDir string, opt WriteOptions) (WriteResult, error) {
	toDir = strings.TrimSpace(toDir)
	if toDir == "" {
		return WriteResult{}, errors.New("missing --to")
	}
	toDir = filepath.Clean(toDir)

	md, err := RenderTimelineMarkdown(cotonoma, cotos, RenderOptions{
		IncludePending: opt.IncludePending,
	})
	if err != nil {
		return WriteResult{}, err
	}

	if err := os.MkdirAll(toDir, 0o755); err != nil {
		return WriteResult{}, err
	}

	p := filepath.Join(toDir, FileName(cotonoma))
	if err := writeFile(p, []byte(md), opt.Overwrite); err != nil {
		return WriteResult{}, err
	}
	return WriteResult{Written: []string{p}}, nil
}

func writeFile(path string, b []byte, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return errors.New("file exists (use --overwrite): " + path)
		}
	}
	return os.WriteFile(path, b, 0o644)
}
