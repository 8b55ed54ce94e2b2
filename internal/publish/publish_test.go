package publish

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"coto-cli/internal/model"
)

func TestRenderTimelineMarkdown_OldestFirstSkipsPending(t *testing.T) {
	cotos := []model.Coto{
		{ID: nil, PostID: model.Int64Ptr(3), Content: "in flight"},
		{ID: model.Int64Ptr(2), Content: "second"},
		{ID: model.Int64Ptr(1), Content: "first"},
	}

	md, err := RenderTimelineMarkdown("tea", cotos, RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	if !strings.HasPrefix(md, "# #tea\n") {
		t.Fatalf("missing room heading:\n%s", md)
	}
	if strings.Contains(md, "in flight") {
		t.Fatalf("pending coto should be skipped by default:\n%s", md)
	}
	if !strings.Contains(md, "- Skipped pending: 1") {
		t.Fatalf("missing skipped-pending meta:\n%s", md)
	}
	first := strings.Index(md, "first")
	second := strings.Index(md, "second")
	if first < 0 || second < 0 || first > second {
		t.Fatalf("cotos should render oldest first:\n%s", md)
	}
}

func TestRenderTimelineMarkdown_IncludePendingMarksPosting(t *testing.T) {
	cotos := []model.Coto{
		{ID: nil, PostID: model.Int64Ptr(1), Content: "hello"},
	}
	md, err := RenderTimelineMarkdown("", cotos, RenderOptions{IncludePending: true})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.HasPrefix(md, "# Timeline\n") {
		t.Fatalf("root timeline heading missing:\n%s", md)
	}
	if !strings.Contains(md, "_posting..._") {
		t.Fatalf("pending coto should carry the posting marker:\n%s", md)
	}
}

func TestWriteTimeline_OverwriteGuard(t *testing.T) {
	dir := t.TempDir()
	cotos := []model.Coto{{ID: model.Int64Ptr(1), Content: "hi"}}

	res, err := WriteTimeline("tea time", cotos, dir, WriteOptions{})
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	want := filepath.Join(dir, "tea-time.md")
	if len(res.Written) != 1 || res.Written[0] != want {
		t.Fatalf("written: got %v, want [%s]", res.Written, want)
	}
	if _, err := os.Stat(want); err != nil {
		t.Fatalf("stat: %v", err)
	}

	if _, err := WriteTimeline("tea time", cotos, dir, WriteOptions{}); err == nil {
		t.Fatalf("expected overwrite guard error")
	}
	if _, err := WriteTimeline("tea time", cotos, dir, WriteOptions{Overwrite: true}); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
}

func TestFileName(t *testing.T) {
	if got := FileName(""); got != "timeline.md" {
		t.Fatalf("root: got %q", got)
	}
	if got := FileName("tea/ceremony"); got != "tea-ceremony.md" {
		t.Fatalf("sanitized: got %q", got)
	}
}
