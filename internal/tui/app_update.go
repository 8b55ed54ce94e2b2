package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"coto-cli/internal/model"
	"coto-cli/internal/timeline"
)

// scrollSettleDelay is the deferred-scroll pause: long enough for the next
// frame to paint the inserted rows, short enough to feel immediate.
const scrollSettleDelay = 60 * time.Millisecond

const requestTimeout = 30 * time.Second

func (m appModel) fetchCotosCmd() tea.Cmd {
	client, key := m.cfg.Client, m.cotonoma
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		cotos, err := client.FetchCotos(ctx, key)
		if err == nil {
			// Refresh the offline cache on every successful fetch.
			_ = m.cfg.Store.CacheCotos(ctx, key, cotos)
		}
		return cotosFetchedMsg{cotos: cotos, err: err}
	}
}

func (m appModel) postCotoCmd(c model.Coto) tea.Cmd {
	client, key := m.cfg.Client, m.cotonoma
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		confirmed, err := client.PostCoto(ctx, key, c)
		return cotoPostedMsg{coto: confirmed, err: err}
	}
}

func (m appModel) fetchSessionCmd() tea.Cmd {
	client := m.cfg.Client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		sess, err := client.FetchSession(ctx)
		return sessionMsg{sess: sess, err: err}
	}
}

func (m appModel) fetchRoomsCmd() tea.Cmd {
	client := m.cfg.Client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		rooms, err := client.FetchCotonomas(ctx)
		return roomsMsg{rooms: rooms, err: err}
	}
}

func deferredScrollCmd() tea.Cmd {
	return tea.Tick(scrollSettleDelay, func(time.Time) tea.Msg {
		return scrollSettleMsg{}
	})
}

// dispatch funnels one event through the timeline controller and turns the
// returned effects into commands.
func (m *appModel) dispatch(ev timeline.Event, ctrlHeld bool) tea.Cmd {
	next, fx := timeline.Transition(ev, m.tl, ctrlHeld)
	m.tl = next

	var cmds []tea.Cmd
	for _, f := range fx {
		switch f := f.(type) {
		case timeline.ScrollToBottom:
			cmds = append(cmds, deferredScrollCmd())
		case timeline.SubmitCoto:
			cmds = append(cmds, m.postCotoCmd(f.Coto))
		}
	}
	if len(cmds) == 0 {
		return nil
	}
	return tea.Batch(cmds...)
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		m.refreshViewport(false)
		return m, nil

	case cotosFetchedMsg:
		cmd := m.dispatch(timeline.CotosFetched{Cotos: msg.cotos, Err: msg.err}, false)
		m.refreshViewport(false)
		return m, cmd

	case cotoPostedMsg:
		cmd := m.dispatch(timeline.CotoPosted{Coto: msg.coto, Err: msg.err}, false)
		m.refreshViewport(false)
		return m, cmd

	case sessionMsg:
		if msg.err == nil {
			m.session = msg.sess
		}
		return m, nil

	case roomsMsg:
		if msg.err == nil {
			m.rooms = msg.rooms
			m.roomsList.SetItems(roomItems(m.rooms, m.cotonoma))
		}
		return m, nil

	case scrollSettleMsg:
		m.refreshViewport(true)
		return m, nil

	case tea.KeyMsg:
		return m.updateKey(msg)
	}

	return m.updateFocused(msg)
}

func (m appModel) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showRooms {
		return m.updateRoomSwitcher(msg)
	}

	switch msg.String() {
	case "ctrl+c":
		m.persist()
		return m, tea.Quit

	case "ctrl+k":
		m.showRooms = true
		m.roomsList.SetItems(roomItems(m.rooms, m.cotonoma))
		m.roomsList.ResetFilter()
		return m, nil

	case "ctrl+r":
		return m, m.fetchCotosCmd()

	case "tab":
		return m.toggleFocus()

	case "ctrl+enter", "alt+enter":
		// alt+enter is the fallback for terminals that cannot report
		// ctrl+enter (no kitty keyboard protocol).
		cmd := m.dispatch(timeline.EditorKeyPressed{Key: timeline.KeyEnter}, true)
		m.syncEditorFromStore()
		m.refreshViewport(false)
		return m, cmd
	}

	if m.editorFocused {
		return m.updateEditor(msg)
	}
	return m.updateTimeline(msg)
}

func (m appModel) toggleFocus() (tea.Model, tea.Cmd) {
	if m.editorFocused {
		m.editorFocused = false
		m.editor.Blur()
		_ = m.dispatch(timeline.EditorBlurred{}, false)
		return m, nil
	}
	m.editorFocused = true
	cmd := m.editor.Focus()
	_ = m.dispatch(timeline.EditorFocused{}, false)
	return m, cmd
}

// updateEditor feeds keys to the textarea and mirrors its text into the
// controller as DraftChanged events.
func (m appModel) updateEditor(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.editor, cmd = m.editor.Update(msg)
	if m.editor.Value() != m.tl.Draft {
		_ = m.dispatch(timeline.DraftChanged{Text: m.editor.Value()}, false)
	}
	return m, cmd
}

func (m appModel) updateTimeline(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		m.persist()
		return m, tea.Quit

	case "up", "k":
		m.moveSelection(-1)
		m.refreshViewport(false)
		return m, nil

	case "down", "j":
		m.moveSelection(1)
		m.refreshViewport(false)
		return m, nil

	case "y":
		if c, ok := m.selectedCoto(); ok {
			if err := copyToClipboard(c.Content); err != nil {
				m.statusLine = "copy failed: " + err.Error()
			} else {
				m.statusLine = "copied"
			}
		}
		return m, nil

	case "g":
		m.vp.GotoTop()
		return m, nil

	case "G":
		m.vp.GotoBottom()
		return m, nil
	}

	var cmd tea.Cmd
	m.vp, cmd = m.vp.Update(msg)
	return m, cmd
}

func (m appModel) updateRoomSwitcher(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		if m.roomsList.FilterState() == list.Filtering {
			break // let the list cancel its filter
		}
		m.showRooms = false
		return m, nil

	case "enter":
		if m.roomsList.FilterState() == list.Filtering {
			break
		}
		if it, ok := m.roomsList.SelectedItem().(roomItem); ok {
			return m.switchRoom(it.room.Key)
		}
		return m, nil

	case "ctrl+c":
		m.persist()
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.roomsList, cmd = m.roomsList.Update(msg)
	return m, cmd
}

// switchRoom saves the old room's draft, swaps timelines and refetches.
func (m appModel) switchRoom(key string) (tea.Model, tea.Cmd) {
	if key == m.cotonoma {
		m.showRooms = false
		return m, nil
	}
	m.persist()

	m.cotonoma = key
	m.showRooms = false
	m.selectedID = nil
	m.tl = timeline.NewStore()

	draft := m.cfg.Store.LoadDraft(key)
	m.editor.SetValue(draft)
	if draft != "" {
		_ = m.dispatch(timeline.DraftChanged{Text: draft}, false)
	}
	if m.editorFocused {
		_ = m.dispatch(timeline.EditorFocused{}, false)
	}

	m.refreshViewport(false)
	return m, m.fetchCotosCmd()
}

// updateFocused routes non-key messages (cursor blink ticks) to the focused
// component.
func (m appModel) updateFocused(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	if m.editorFocused {
		m.editor, cmd = m.editor.Update(msg)
	}
	return m, cmd
}

// moveSelection walks the externally-selected row over confirmed cotos in
// display order. Unconfirmed rows are skipped: they cannot be "active".
func (m *appModel) moveSelection(delta int) {
	display := timeline.DisplayOrder(m.tl)
	confirmed := make([]int64, 0, len(display))
	for _, c := range display {
		if c.ID != nil {
			confirmed = append(confirmed, *c.ID)
		}
	}
	if len(confirmed) == 0 {
		return
	}

	idx := -1
	if m.selectedID != nil {
		for i, id := range confirmed {
			if id == *m.selectedID {
				idx = i
				break
			}
		}
	}
	if idx == -1 {
		// Start from the newest (bottom) row.
		idx = len(confirmed) - 1
	} else {
		idx += delta
		if idx < 0 {
			idx = 0
		}
		if idx >= len(confirmed) {
			idx = len(confirmed) - 1
		}
	}
	id := confirmed[idx]
	m.selectedID = &id
}

// syncEditorFromStore pushes controller-side draft changes (submit clears it)
// back into the textarea.
func (m *appModel) syncEditorFromStore() {
	if m.editor.Value() != m.tl.Draft {
		m.editor.SetValue(m.tl.Draft)
	}
}

func (m appModel) selectedCoto() (model.Coto, bool) {
	if m.selectedID == nil {
		return model.Coto{}, false
	}
	for _, c := range m.tl.Cotos {
		if c.ID != nil && *c.ID == *m.selectedID {
			return c, true
		}
	}
	return model.Coto{}, false
}
