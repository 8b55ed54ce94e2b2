package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"coto-cli/internal/api"
	"coto-cli/internal/model"
	"coto-cli/internal/store"
	"coto-cli/internal/timeline"
)

func testModel(t *testing.T) appModel {
	t.Helper()
	return newAppModel(Config{
		Store:  store.Store{Dir: t.TempDir()},
		Client: api.NewClient("http://127.0.0.1:0", ""),
	})
}

func typeText(t *testing.T, m appModel, text string) appModel {
	t.Helper()
	mAny, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
	return mAny.(appModel)
}

func submitKey() tea.KeyMsg {
	// alt+enter drives the same submit path as ctrl+enter.
	return tea.KeyMsg{Type: tea.KeyEnter, Alt: true}
}

func TestSubmit_AddsPostingRowAndClearsEditor(t *testing.T) {
	m := testModel(t)
	m = typeText(t, m, "Hello")

	mAny, cmd := m.Update(submitKey())
	m2 := mAny.(appModel)

	if len(m2.tl.Cotos) != 1 {
		t.Fatalf("expected one coto after submit; got %d", len(m2.tl.Cotos))
	}
	c := m2.tl.Cotos[0]
	if c.ID != nil || c.PostID == nil || *c.PostID != 1 {
		t.Fatalf("expected pending coto with post id 1; got %+v", c)
	}
	if c.Content != "Hello" {
		t.Fatalf("content: got %q", c.Content)
	}
	if m2.editor.Value() != "" {
		t.Fatalf("editor should be cleared after submit; got %q", m2.editor.Value())
	}
	if m2.tl.NextPostID != 2 {
		t.Fatalf("next post id should advance; got %d", m2.tl.NextPostID)
	}
	if cmd == nil {
		t.Fatalf("expected scroll + network commands after submit")
	}
}

func TestSubmit_BlankDraftRejected(t *testing.T) {
	m := testModel(t)
	m = typeText(t, m, "   ")

	mAny, _ := m.Update(submitKey())
	m2 := mAny.(appModel)

	if len(m2.tl.Cotos) != 0 {
		t.Fatalf("blank draft must not post; got %d cotos", len(m2.tl.Cotos))
	}
	if m2.editor.Value() != "   " {
		t.Fatalf("rejected draft should stay in the editor; got %q", m2.editor.Value())
	}
}

func TestSubmit_TwoInFlightPostsKeepDistinctPostIDs(t *testing.T) {
	m := testModel(t)

	m = typeText(t, m, "first")
	mAny, _ := m.Update(submitKey())
	m = mAny.(appModel)

	m = typeText(t, m, "second")
	mAny, _ = m.Update(submitKey())
	m = mAny.(appModel)

	if len(m.tl.Cotos) != 2 {
		t.Fatalf("expected two pending cotos; got %d", len(m.tl.Cotos))
	}
	if *m.tl.Cotos[0].PostID != 2 || *m.tl.Cotos[1].PostID != 1 {
		t.Fatalf("expected post ids 2,1 newest-first; got %v,%v", *m.tl.Cotos[0].PostID, *m.tl.Cotos[1].PostID)
	}
	for _, c := range m.tl.Cotos {
		if !c.Posting(true) {
			t.Fatalf("in-flight coto should be posting; got %+v", c)
		}
	}
}

func TestCotoPosted_ConfirmsRowInPlace(t *testing.T) {
	m := testModel(t)
	m = typeText(t, m, "Hello")
	mAny, _ := m.Update(submitKey())
	m = mAny.(appModel)

	id := int64(42)
	postID := int64(1)
	mAny, _ = m.Update(cotoPostedMsg{coto: model.Coto{ID: &id, PostID: &postID, Content: "Hello"}})
	m = mAny.(appModel)

	if len(m.tl.Cotos) != 1 {
		t.Fatalf("confirmation must not change the row count; got %d", len(m.tl.Cotos))
	}
	c := m.tl.Cotos[0]
	if c.ID == nil || *c.ID != 42 {
		t.Fatalf("expected confirmed server id 42; got %+v", c)
	}
	if c.Posting(true) {
		t.Fatalf("confirmed coto must not be posting")
	}
}

func TestCotosFetched_ReplacesTimelineAndDefersScroll(t *testing.T) {
	m := testModel(t)

	id1, id2 := int64(1), int64(2)
	mAny, cmd := m.Update(cotosFetchedMsg{cotos: []model.Coto{
		{ID: &id2, Content: "newest"},
		{ID: &id1, Content: "oldest"},
	}})
	m = mAny.(appModel)

	if len(m.tl.Cotos) != 2 {
		t.Fatalf("expected wholesale replace; got %d cotos", len(m.tl.Cotos))
	}
	if cmd == nil {
		t.Fatalf("expected a deferred scroll command after fetch")
	}

	display := timeline.DisplayOrder(m.tl)
	if display[0].Content != "oldest" || display[1].Content != "newest" {
		t.Fatalf("display order should be oldest-first; got %q,%q", display[0].Content, display[1].Content)
	}
}

func TestTabTogglesEditorFocus(t *testing.T) {
	m := testModel(t)
	if !m.editorFocused || !m.tl.EditorOpen {
		t.Fatalf("editor should start focused")
	}

	mAny, _ := m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = mAny.(appModel)
	if m.editorFocused || m.tl.EditorOpen {
		t.Fatalf("tab should blur the editor")
	}

	mAny, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = mAny.(appModel)
	if !m.editorFocused || !m.tl.EditorOpen {
		t.Fatalf("tab should re-focus the editor")
	}
}

func TestRoomSwitcher_OpenAndClose(t *testing.T) {
	m := testModel(t)

	mAny, _ := m.Update(roomsMsg{rooms: []model.Cotonoma{{ID: 1, Key: "tea", Name: "Tea"}}})
	m = mAny.(appModel)

	mAny, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlK})
	m = mAny.(appModel)
	if !m.showRooms {
		t.Fatalf("ctrl+k should open the room switcher")
	}

	mAny, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = mAny.(appModel)
	if m.showRooms {
		t.Fatalf("esc should close the room switcher")
	}
}

func TestSwitchRoom_PersistsDraftAndResetsTimeline(t *testing.T) {
	s := store.Store{Dir: t.TempDir()}
	m := newAppModel(Config{Store: s, Client: api.NewClient("http://127.0.0.1:0", "")})
	m = typeText(t, m, "unfinished thought")

	mAny, cmd := m.switchRoom("tea")
	m = mAny.(appModel)

	if m.cotonoma != "tea" {
		t.Fatalf("expected room switch to tea; got %q", m.cotonoma)
	}
	if len(m.tl.Cotos) != 0 || m.tl.Draft != "" {
		t.Fatalf("expected a fresh timeline store; got %+v", m.tl)
	}
	if cmd == nil {
		t.Fatalf("expected a refetch command after switching")
	}
	if got := s.LoadDraft(""); got != "unfinished thought" {
		t.Fatalf("old room's draft should persist; got %q", got)
	}
}

func TestNewAppModel_RestoresPersistedDraft(t *testing.T) {
	s := store.Store{Dir: t.TempDir()}
	if err := s.SaveDraft("", "picked up again"); err != nil {
		t.Fatalf("seed draft: %v", err)
	}

	m := newAppModel(Config{Store: s, Client: api.NewClient("http://127.0.0.1:0", "")})
	if m.editor.Value() != "picked up again" {
		t.Fatalf("expected restored draft in the editor; got %q", m.editor.Value())
	}
	if m.tl.Draft != "picked up again" {
		t.Fatalf("expected restored draft in the store; got %q", m.tl.Draft)
	}
}

func TestScrollSettle_JumpsViewportToBottom(t *testing.T) {
	m := testModel(t)
	m.width, m.height = 80, 24
	m.resize()

	id := int64(1)
	mAny, _ := m.Update(cotosFetchedMsg{cotos: []model.Coto{{ID: &id, Content: "hi"}}})
	m = mAny.(appModel)

	mAny, _ = m.Update(scrollSettleMsg{})
	m = mAny.(appModel)
	if !m.vp.AtBottom() {
		t.Fatalf("deferred scroll should land at the bottom")
	}
}

func TestSelection_OnlyConfirmedRowsActive(t *testing.T) {
	m := testModel(t)

	id := int64(5)
	postID := int64(9)
	mAny, _ := m.Update(cotosFetchedMsg{cotos: []model.Coto{
		{PostID: &postID, Content: "pending"},
		{ID: &id, Content: "confirmed"},
	}})
	m = mAny.(appModel)

	m.moveSelection(1)
	if m.selectedID == nil || *m.selectedID != 5 {
		t.Fatalf("selection must land on a confirmed row; got %v", m.selectedID)
	}

	for _, c := range m.tl.Cotos {
		if c.ID == nil && c.Active(m.selectedID) {
			t.Fatalf("unconfirmed coto must never be active")
		}
	}
}
