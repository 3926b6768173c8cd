package tui

import (
	"strings"

	"tiles-cli/internal/model"

	"github.com/charmbracelet/bubbles/list"
)

type tileItem struct {
	inst  model.Instance
	icon  model.Icon
	found bool
}

func (i tileItem) FilterValue() string {
	return strings.Join([]string{i.inst.Title, i.inst.Href, i.inst.Icon}, " ")
}

type iconItem struct {
	icon model.Icon
}

func (i iconItem) FilterValue() string {
	return i.icon.Name + " " + i.icon.Label + " " + strings.Join(i.icon.Terms, " ")
}

func newList(items []list.Item, d list.ItemDelegate) list.Model {
	l := list.New(items, d, 0, 0)
	// We render our own header + footer, so keep list chrome minimal.
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetShowPagination(false)
	l.SetFilteringEnabled(true)
	l.SetStatusBarItemName("tile", "tiles")
	// Bubble list defaults to quitting on ESC; here ESC is "back/cancel".
	l.KeyMap.Quit.SetKeys("q")
	l.KeyMap.ForceQuit.SetKeys("ctrl+c")

	cursorUpKeys := append([]string{}, l.KeyMap.CursorUp.Keys()...)
	l.KeyMap.CursorUp.SetKeys(append(cursorUpKeys, "ctrl+p")...)
	cursorDownKeys := append([]string{}, l.KeyMap.CursorDown.Keys()...)
	l.KeyMap.CursorDown.SetKeys(append(cursorDownKeys, "ctrl+n")...)
	return l
}

func selectTileByID(l *list.Model, id string) {
	for i, it := range l.Items() {
		if t, ok := it.(tileItem); ok && t.inst.ID == id {
			l.Select(i)
			return
		}
	}
}
