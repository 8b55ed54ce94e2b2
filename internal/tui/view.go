package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"coto-cli/internal/timeline"
)

const (
	editorHeight = 4
	// header + editor border rows + footer
	chromeHeight = 1 + editorHeight + 2 + 1
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	footerStyle = lipgloss.NewStyle().Foreground(colorMuted)

	rowKeyStyle     = lipgloss.NewStyle().Foreground(colorMuted)
	postingStyle    = lipgloss.NewStyle().Foreground(colorPosting)
	activeBarStyle  = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
	editorBoxStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorCardBorder)
	editorBoxActive = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorAccent)
)

func (m *appModel) resize() {
	w := m.width
	if w < 20 {
		w = 20
	}
	h := m.height - chromeHeight
	if h < 3 {
		h = 3
	}
	m.vp.Width = w
	m.vp.Height = h
	m.editor.SetWidth(w - 2)

	m.roomsList.SetSize(w, m.height-2)
}

// refreshViewport re-renders the timeline into the viewport. gotoBottom is
// set by the deferred scroll effect once the new content has settled.
func (m *appModel) refreshViewport(gotoBottom bool) {
	m.vp.SetContent(m.renderTimeline())
	if gotoBottom {
		m.vp.GotoBottom()
	}
}

// renderTimeline projects the store into display order: oldest at the top,
// newest at the bottom where scroll-to-bottom lands.
func (m *appModel) renderTimeline() string {
	display := timeline.DisplayOrder(m.tl)
	if len(display) == 0 {
		return footerStyle.Render("No cotos yet. Write one below and hit ctrl+enter.")
	}

	width := m.vp.Width
	if width < 20 {
		width = 80
	}

	var b strings.Builder
	for i, c := range display {
		if i > 0 {
			b.WriteByte('\n')
		}

		head := rowKeyStyle.Render("#" + c.RenderKey())
		if c.Posting(m.signedIn()) {
			head += " " + postingStyle.Render(glyphPosting()+" posting")
		}
		if c.Active(m.selectedID) {
			head = activeBarStyle.Render(glyphActive()) + " " + head
		} else {
			head = "  " + head
		}
		b.WriteString(head)
		b.WriteByte('\n')

		body := renderMarkdown(c.Content, width-4)
		for _, line := range strings.Split(body, "\n") {
			b.WriteString("  ")
			b.WriteString(line)
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func (m appModel) View() string {
	if m.showRooms {
		return m.roomsList.View()
	}

	header := headerStyle.Render(glyphRoom() + " " + m.roomName())

	editorBox := editorBoxStyle
	if m.editorFocused {
		editorBox = editorBoxActive
	}

	footer := m.footerLine()

	return strings.Join([]string{
		header,
		m.vp.View(),
		editorBox.Render(m.editor.View()),
		footer,
	}, "\n")
}

func (m appModel) footerLine() string {
	parts := []string{"ctrl+enter post", "tab focus", "ctrl+k rooms", "ctrl+r refresh", "ctrl+c quit"}
	who := "signed out"
	if m.signedIn() {
		who = m.session.Amishi.DisplayName
	}
	line := who + "  " + strings.Join(parts, " · ")
	if m.statusLine != "" {
		line = m.statusLine + "  " + line
	}
	// Keep the footer on one row regardless of terminal width.
	if m.width > 0 && ansi.StringWidth(line) > m.width {
		line = ansi.Truncate(line, m.width, "…")
	}
	return footerStyle.Render(line)
}
