package publish

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"coto-cli/internal/model"
)

type RenderOptions struct {
	IncludePending bool
	Now            time.Time
}

// RenderTimelineMarkdown renders a timeline to a standalone markdown page.
// Cotos are expected newest-first (store order) and come out oldest-first,
// matching the on-screen timeline.
func RenderTimelineMarkdown(cotonoma string, cotos []model.Coto, opt RenderOptions) (string, error) {
	cotonoma = strings.TrimSpace(cotonoma)

	var buf bytes.Buffer
	writeLn := func(s string) {
		buf.WriteString(s)
		buf.WriteString("\n")
	}

	if cotonoma != "" {
		writeLn("# #" + cotonoma)
	} else {
		writeLn("# Timeline")
	}
	writeLn("")

	pending := 0
	kept := make([]model.Coto, 0, len(cotos))
	for _, c := range cotos {
		if !c.Confirmed() {
			pending++
			if !opt.IncludePending {
				continue
			}
		}
		kept = append(kept, c)
	}

	now := opt.Now
	if now.IsZero() {
		now = time.Now()
	}
	writeLn("## Meta")
	writeLn("")
	writeLn("- Exported: " + now.UTC().Format(time.RFC3339))
	writeLn(fmt.Sprintf("- Cotos: %d", len(kept)))
	if pending > 0 && !opt.IncludePending {
		writeLn(fmt.Sprintf("- Skipped pending: %d", pending))
	}
	writeLn("")

	// Oldest at the top, like a scrolled-to-bottom timeline read downward.
	for i := len(kept) - 1; i >= 0; i-- {
		c := kept[i]
		writeLn("---")
		writeLn("")
		writeLn(strings.TrimRight(c.Content, "\n"))
		writeLn("")
		if c.Confirmed() {
			writeLn(fmt.Sprintf("_coto %d_", *c.ID))
		} else {
			writeLn("_posting..._")
		}
		writeLn("")
	}

	return buf.String(), nil
}

// FileName maps a room name to the markdown file the export writes. Anything
// unsafe for a path component is squashed to "-".
func FileName(cotonoma string) string {
	cotonoma = strings.TrimSpace(cotonoma)
	if cotonoma == "" {
		return "timeline.md"
	}
	var b strings.Builder
	for _, r := range cotonoma {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('-')
		}
	}
	return b.String() + ".md"
}
