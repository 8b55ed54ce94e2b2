package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"

	"coto-cli/internal/model"
)

// Cotonoma switcher: a filterable list opened with ctrl+k.

type roomItem struct {
	room    model.Cotonoma
	current bool
}

func (i roomItem) FilterValue() string { return i.room.Name + " " + i.room.Key }

func (i roomItem) Title() string {
	if i.current {
		return i.room.Name + " " + glyphCurrent()
	}
	return i.room.Name
}

func (i roomItem) Description() string {
	return fmt.Sprintf("@%s · %d cotos", i.room.Key, i.room.CotoCount)
}

func roomItems(rooms []model.Cotonoma, currentKey string) []list.Item {
	items := make([]list.Item, 0, len(rooms)+1)
	items = append(items, roomItem{
		room:    model.Cotonoma{Key: "", Name: "(root timeline)"},
		current: currentKey == "",
	})
	for _, r := range rooms {
		items = append(items, roomItem{room: r, current: r.Key == currentKey})
	}
	return items
}

func newRoomList() list.Model {
	d := list.NewDefaultDelegate()
	d.Styles.SelectedTitle = d.Styles.SelectedTitle.Foreground(colorAccent).BorderLeftForeground(colorAccent)
	d.Styles.SelectedDesc = d.Styles.SelectedDesc.Foreground(colorMuted).BorderLeftForeground(colorAccent)

	l := list.New([]list.Item{}, d, 0, 0)
	l.Title = "Cotonomas"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	l.DisableQuitKeybindings()
	return l
}
