package format

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/gosuri/uitable"

	"coto-cli/internal/model"
)

// Human-readable tables for --format=table listings.

const tableContentMax = 60

// WriteCotoTable prints a timeline listing, one row per coto in the order
// given (the caller decides storage vs display order).
func WriteCotoTable(w io.Writer, cotos []model.Coto) error {
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow("ID", "POST", "CONTENT")
	for _, c := range cotos {
		tbl.AddRow(optID(c.ID), optID(c.PostID), firstLine(c.Content))
	}
	_, err := fmt.Fprintln(w, tbl)
	return err
}

// WriteCotonomaTable prints the room listing with its stats columns.
func WriteCotonomaTable(w io.Writer, rooms []model.Cotonoma) error {
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow("KEY", "NAME", "COTOS", "LAST POST")
	for _, r := range rooms {
		last := "-"
		if r.LastPostedAt != nil {
			last = r.LastPostedAt.Local().Format(time.DateTime)
		}
		tbl.AddRow(r.Key, r.Name, fmt.Sprintf("%d", r.CotoCount), last)
	}
	_, err := fmt.Fprintln(w, tbl)
	return err
}

func optID(p *int64) string {
	if p == nil {
		return "-"
	}
	return fmt.Sprintf("%d", *p)
}

// firstLine flattens markdown content to a single truncated table cell.
func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = strings.TrimSpace(s[:i]) + " …"
	}
	r := []rune(s)
	if len(r) > tableContentMax {
		s = string(r[:tableContentMax]) + "…"
	}
	return s
}
