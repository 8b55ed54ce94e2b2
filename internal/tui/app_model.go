package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"coto-cli/internal/model"
	"coto-cli/internal/store"
	"coto-cli/internal/timeline"
)

// Messages delivered back into Update by async commands. Network results carry
// their error so the controller can apply its silent-drop policy itself.
type cotosFetchedMsg struct {
	cotos []model.Coto
	err   error
}

type cotoPostedMsg struct {
	coto model.Coto
	err  error
}

type sessionMsg struct {
	sess *model.Session
	err  error
}

type roomsMsg struct {
	rooms []model.Cotonoma
	err   error
}

// scrollSettleMsg fires after the deferred-scroll delay; the viewport jumps to
// the bottom only then, once newly-inserted rows have been laid out.
type scrollSettleMsg struct{}

type appModel struct {
	cfg Config

	tl       timeline.Store
	session  *model.Session
	cotonoma string
	rooms    []model.Cotonoma

	// selectedID is the externally-selected coto (confirmed rows only).
	selectedID *int64

	width  int
	height int

	vp            viewport.Model
	editor        textarea.Model
	editorFocused bool

	roomsList list.Model
	showRooms bool

	statusLine string
}

func newAppModel(cfg Config) appModel {
	applyGlyphPreference(cfg.Glyphs)

	m := appModel{
		cfg:      cfg,
		tl:       timeline.NewStore(),
		cotonoma: strings.TrimSpace(cfg.Cotonoma),
	}

	// Restore the last open room when none was requested explicitly.
	if m.cotonoma == "" {
		if st, err := cfg.Store.LoadTUIState(); err == nil {
			m.cotonoma = st.Cotonoma
			m.selectedID = st.SelectedCotoID
		}
	}

	m.editor = textarea.New()
	m.editor.Placeholder = "Write a coto… (ctrl+enter to post)"
	// textarea defaults (bubbles v0.20 has a small default CharLimit).
	m.editor.CharLimit = 0
	m.editor.SetHeight(editorHeight)
	m.editor.ShowLineNumbers = false
	m.editor.FocusedStyle.CursorLine = m.editor.BlurredStyle.CursorLine

	// Restore the unsent draft for this room.
	if draft := cfg.Store.LoadDraft(m.cotonoma); draft != "" {
		m.editor.SetValue(draft)
		m.tl, _ = timeline.Transition(timeline.DraftChanged{Text: draft}, m.tl, false)
	}

	m.vp = viewport.New(0, 0)
	m.roomsList = newRoomList()

	m.editor.Focus()
	m.editorFocused = true
	m.tl, _ = timeline.Transition(timeline.EditorFocused{}, m.tl, false)

	return m
}

func (m appModel) Init() tea.Cmd {
	return tea.Batch(
		m.fetchCotosCmd(),
		m.fetchSessionCmd(),
		m.fetchRoomsCmd(),
		textarea.Blink,
	)
}

func (m appModel) signedIn() bool {
	return m.session.SignedIn()
}

// roomName resolves the display name of the current cotonoma.
func (m appModel) roomName() string {
	if m.cotonoma == "" {
		return "timeline"
	}
	for _, r := range m.rooms {
		if r.Key == m.cotonoma {
			return r.Name
		}
	}
	return m.cotonoma
}

// persist saves the draft and screen state; called on quit and room switch.
func (m *appModel) persist() {
	_ = m.cfg.Store.SaveDraft(m.cotonoma, m.tl.Draft)
	_ = m.cfg.Store.SaveTUIState(&store.TUIState{
		Cotonoma:       m.cotonoma,
		SelectedCotoID: m.selectedID,
	})
}
