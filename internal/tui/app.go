package tui

import (
	"errors"
	"fmt"
	"os/exec"
	"runtime"
	"strings"
	"time"

	"tiles-cli/internal/docs"
	"tiles-cli/internal/model"
	"tiles-cli/internal/session"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
)

type mode int

const (
	modeBrowse mode = iota
	modeForm
	modePickIcon
	modeConfirmDelete
	modeHelp
)

const (
	reloadInterval    = 750 * time.Millisecond
	statusClearAfter  = 4 * time.Second
	headerFooterLines = 4
)

type reloadTickMsg struct{}

// storeChangedMsg means a registry or theme subscriber fired.
type storeChangedMsg struct{}

type openResultMsg struct{ err error }

type appModel struct {
	sess      *session.Session
	workspace string

	width  int
	height int

	mode mode

	tiles list.Model
	icons list.Model
	help  viewport.Model

	form instanceForm
	// pickFor is the instance the icon picker edits directly; empty when picking for the form.
	pickFor string

	confirmID    string
	confirmFocus confirmModalFocus

	status      string
	statusIsErr bool
	statusAt    time.Time

	changed chan struct{}
	unsub   []func()

	// openURL is swapped in tests.
	openURL func(string) error
}

func newAppModel(sess *session.Session, workspace string) appModel {
	m := appModel{
		sess:      sess,
		workspace: strings.TrimSpace(workspace),
		changed:   make(chan struct{}, 1),
		openURL:   openURL,
	}
	m.tiles = newList(nil, tileDelegate{})
	m.icons = newList(nil, iconDelegate{})
	m.icons.SetStatusBarItemName("icon", "icons")
	m.help = viewport.New(0, 0)

	m.refreshTiles()
	m.refreshIcons()

	// Subscribers only signal; the model reads current state on storeChangedMsg.
	notify := func() {
		select {
		case m.changed <- struct{}{}:
		default:
		}
	}
	m.unsub = append(m.unsub,
		sess.Instances.Subscribe(func([]model.Instance) { notify() }),
		sess.Theme.Subscribe(func(model.Theme) { notify() }),
	)
	return m
}

func (m appModel) close() {
	for _, u := range m.unsub {
		u()
	}
}

func (m appModel) Init() tea.Cmd {
	return tea.Batch(tickReload(), waitForChange(m.changed))
}

func tickReload() tea.Cmd {
	return tea.Tick(reloadInterval, func(time.Time) tea.Msg { return reloadTickMsg{} })
}

func waitForChange(ch <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		<-ch
		return storeChangedMsg{}
	}
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case reloadTickMsg:
		// Pick up writes from the CLI or web in other processes.
		if _, err := m.sess.Sync(); err != nil {
			m.setError(err)
		}
		if !m.statusAt.IsZero() && time.Since(m.statusAt) > statusClearAfter {
			m.status = ""
			m.statusAt = time.Time{}
		}
		return m, tickReload()

	case storeChangedMsg:
		m.refreshTiles()
		if m.mode == modeHelp {
			m.renderHelp()
		}
		return m, waitForChange(m.changed)

	case openResultMsg:
		if msg.err != nil {
			m.setError(msg.err)
		}
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch m.mode {
		case modeForm:
			return m.updateForm(msg)
		case modePickIcon:
			return m.updatePicker(msg)
		case modeConfirmDelete:
			return m.updateConfirm(msg)
		case modeHelp:
			return m.updateHelp(msg)
		default:
			return m.updateBrowse(msg)
		}
	}

	switch m.mode {
	case modeBrowse:
		var cmd tea.Cmd
		m.tiles, cmd = m.tiles.Update(msg)
		return m, cmd
	case modePickIcon:
		var cmd tea.Cmd
		m.icons, cmd = m.icons.Update(msg)
		return m, cmd
	case modeForm:
		var cmd tea.Cmd
		m.form, cmd = m.form.update(msg)
		return m, cmd
	}
	return m, nil
}

func (m appModel) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// While typing a filter, every key belongs to the list.
	if m.tiles.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.tiles, cmd = m.tiles.Update(msg)
		return m, cmd
	}

	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "a":
		m.form = newInstanceForm(model.Instance{}, "")
		m.mode = modeForm
		return m, textinput.Blink
	case "e":
		if it, ok := m.selectedTile(); ok {
			m.form = newInstanceForm(it.inst, it.inst.ID)
			m.mode = modeForm
			return m, textinput.Blink
		}
		return m, nil
	case "d":
		if it, ok := m.selectedTile(); ok {
			m.confirmID = it.inst.ID
			m.confirmFocus = confirmFocusCancel
			m.mode = modeConfirmDelete
		}
		return m, nil
	case "i":
		if it, ok := m.selectedTile(); ok {
			m.openPicker(it.inst.ID, it.inst.Icon)
		}
		return m, nil
	case "t":
		t, err := m.sess.Theme.Toggle()
		if err != nil {
			m.setError(err)
		} else {
			m.setStatus("theme: " + string(t))
		}
		return m, nil
	case "?":
		m.mode = modeHelp
		m.renderHelp()
		return m, nil
	case "r":
		if _, err := m.sess.Sync(); err != nil {
			m.setError(err)
		}
		return m, nil
	case "enter", "o":
		if it, ok := m.selectedTile(); ok {
			href := strings.TrimSpace(it.inst.Href)
			if href == "" {
				m.setError(errors.New("no link set"))
				return m, nil
			}
			open := m.openURL
			return m, func() tea.Msg { return openResultMsg{err: open(href)} }
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.tiles, cmd = m.tiles.Update(msg)
	return m, cmd
}

func (m appModel) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = modeBrowse
		return m, nil
	case "tab", "down":
		return m, m.form.setFocus(m.form.focus + 1)
	case "shift+tab", "up":
		return m, m.form.setFocus(m.form.focus - 1)
	case "ctrl+o":
		m.openPicker("", m.form.value(fieldIcon))
		return m, nil
	case "ctrl+s":
		return m.saveForm()
	case "enter":
		if m.form.focus == fieldCount-1 {
			return m.saveForm()
		}
		return m, m.form.setFocus(m.form.focus + 1)
	}
	var cmd tea.Cmd
	m.form, cmd = m.form.update(msg)
	return m, cmd
}

func (m appModel) saveForm() (tea.Model, tea.Cmd) {
	inst := m.form.instance()
	var err error
	if m.form.editID != "" {
		err = m.sess.Instances.Update(m.form.editID, inst)
		inst.ID = m.form.editID
	} else {
		inst.ID = uuid.NewString()
		err = m.sess.Instances.Add(inst)
	}
	m.mode = modeBrowse
	m.refreshTiles()
	if err != nil {
		m.setError(err)
		return m, nil
	}
	selectTileByID(&m.tiles, inst.ID)
	m.setStatus("saved " + displayTitle(inst))
	return m, nil
}

func (m *appModel) openPicker(forID, current string) {
	m.pickFor = forID
	m.icons.ResetFilter()
	m.icons.Select(0)
	for i, it := range m.icons.Items() {
		if ic, ok := it.(iconItem); ok && ic.icon.Name == current {
			m.icons.Select(i)
			break
		}
	}
	m.mode = modePickIcon
}

func (m appModel) updatePicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.icons.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.icons, cmd = m.icons.Update(msg)
		return m, cmd
	}
	switch msg.String() {
	case "esc", "q":
		if m.icons.FilterState() == list.FilterApplied {
			m.icons.ResetFilter()
			return m, nil
		}
		m.closePicker()
		return m, nil
	case "enter":
		it, ok := m.icons.SelectedItem().(iconItem)
		if !ok {
			m.closePicker()
			return m, nil
		}
		if m.pickFor == "" {
			m.form.setIcon(it.icon.Name)
			m.closePicker()
			return m, nil
		}
		id := m.pickFor
		m.closePicker()
		if cur, ok := m.sess.Instances.Find(id); ok {
			cur.Icon = it.icon.Name
			if err := m.sess.Instances.Update(id, cur); err != nil {
				m.setError(err)
			}
			m.refreshTiles()
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.icons, cmd = m.icons.Update(msg)
	return m, cmd
}

func (m *appModel) closePicker() {
	if m.pickFor == "" {
		m.mode = modeForm
	} else {
		m.mode = modeBrowse
	}
	m.pickFor = ""
}

func (m appModel) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "n":
		m.mode = modeBrowse
		return m, nil
	case "tab", "shift+tab", "left", "right":
		if m.confirmFocus == confirmFocusConfirm {
			m.confirmFocus = confirmFocusCancel
		} else {
			m.confirmFocus = confirmFocusConfirm
		}
		return m, nil
	case "y":
		return m.confirmDelete()
	case "enter":
		if m.confirmFocus == confirmFocusConfirm {
			return m.confirmDelete()
		}
		m.mode = modeBrowse
		return m, nil
	}
	return m, nil
}

func (m appModel) confirmDelete() (tea.Model, tea.Cmd) {
	id := m.confirmID
	m.mode = modeBrowse
	m.confirmID = ""
	if err := m.sess.Instances.Remove(id); err != nil {
		m.setError(err)
	} else {
		m.setStatus("removed " + id)
	}
	m.refreshTiles()
	return m, nil
}

func (m appModel) updateHelp(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "q", "?":
		m.mode = modeBrowse
		return m, nil
	}
	var cmd tea.Cmd
	m.help, cmd = m.help.Update(msg)
	return m, cmd
}

func (m *appModel) renderHelp() {
	body, _ := docs.Get("tui")
	w := m.width - 4
	if w < 20 {
		w = 20
	}
	out, err := docs.Render(body, w, string(m.sess.Theme.Current()))
	if err != nil {
		out = body
	}
	m.help.SetContent(out)
}

func (m *appModel) resize() {
	h := m.height - headerFooterLines
	if h < 3 {
		h = 3
	}
	w := m.width
	if w < 20 {
		w = 20
	}
	m.tiles.SetSize(w, h)
	m.icons.SetSize(modalBodyWidth(m.width), max(min(h-8, 16), 3))
	m.help.Width = w
	m.help.Height = h
	if m.mode == modeHelp {
		m.renderHelp()
	}
}

func (m *appModel) refreshTiles() {
	curID := ""
	if it, ok := m.selectedTile(); ok {
		curID = it.inst.ID
	}
	insts := m.sess.Instances.List()
	items := make([]list.Item, 0, len(insts))
	for _, inst := range insts {
		ic, found := m.sess.Icons.Find(inst.Icon)
		items = append(items, tileItem{inst: inst, icon: ic, found: found})
	}
	m.tiles.SetItems(items)
	if curID != "" {
		selectTileByID(&m.tiles, curID)
	}
}

func (m *appModel) refreshIcons() {
	icons := m.sess.Icons.Icons()
	items := make([]list.Item, 0, len(icons))
	for _, ic := range icons {
		items = append(items, iconItem{icon: ic})
	}
	m.icons.SetItems(items)
}

func (m appModel) selectedTile() (tileItem, bool) {
	it, ok := m.tiles.SelectedItem().(tileItem)
	return it, ok
}

func (m *appModel) setStatus(s string) {
	m.status = s
	m.statusIsErr = false
	m.statusAt = time.Now()
}

func (m *appModel) setError(err error) {
	m.status = err.Error()
	m.statusIsErr = true
	m.statusAt = time.Now()
}

func (m appModel) View() string {
	if m.width == 0 {
		return ""
	}

	var body string
	bodyH := m.height - headerFooterLines
	switch m.mode {
	case modeForm:
		preview := ""
		if ic, ok := m.sess.Icons.Find(m.form.value(fieldIcon)); ok {
			preview = tileGlyph(ic, true, ic.Name)
		}
		body = placeModal(m.width, bodyH, m.form.view(m.width, preview))
	case modePickIcon:
		content := m.icons.View() + "\n\n" + styleMuted().Render("/: filter   enter: pick   esc: back")
		body = placeModal(m.width, bodyH, renderModalBox(m.width, "Pick an icon", content))
	case modeConfirmDelete:
		title := m.confirmID
		if inst, ok := m.sess.Instances.Find(m.confirmID); ok {
			title = displayTitle(inst)
		}
		body = placeModal(m.width, bodyH, renderConfirmModal(m.width, "Delete instance", fmt.Sprintf("Remove %q?", title), "Delete", "Cancel", m.confirmFocus))
	case modeHelp:
		body = m.help.View()
	default:
		if len(m.tiles.Items()) == 0 {
			body = styleMuted().Render("  No instances yet. Press a to add one.")
		} else {
			body = m.tiles.View()
		}
	}

	return strings.Join([]string{
		normalizePane(m.viewHeader(), m.width, 1),
		"",
		normalizePane(body, m.width, bodyH),
		"",
		normalizePane(m.viewFooter(), m.width, 1),
	}, "\n")
}

func (m appModel) viewHeader() string {
	ws := m.workspace
	if ws == "" {
		ws = m.sess.Dir
	}
	return lipgloss.NewStyle().Bold(true).Foreground(colorSurfaceFg).Render("Tiles") +
		styleMuted().Render(fmt.Sprintf("  %s  %d tiles  %s", ws, len(m.sess.Instances.List()), m.sess.Theme.Current()))
}

func (m appModel) viewFooter() string {
	if m.status != "" {
		st := lipgloss.NewStyle().Foreground(colorAccent)
		if m.statusIsErr {
			st = lipgloss.NewStyle().Foreground(colorError)
		}
		return st.Render(m.status)
	}
	switch m.mode {
	case modeHelp:
		return styleMuted().Render("↑/↓: scroll   esc/?: back")
	default:
		return styleMuted().Render("a: add  e: edit  d: delete  i: icon  t: theme  enter: open  /: filter  ?: help  q: quit")
	}
}

func displayTitle(inst model.Instance) string {
	if t := strings.TrimSpace(inst.Title); t != "" {
		return t
	}
	return inst.ID
}

func openURL(url string) error {
	switch runtime.GOOS {
	case "darwin":
		return exec.Command("open", url).Run()
	case "windows":
		return exec.Command("cmd", "/c", "start", "", url).Run()
	default:
		return exec.Command("xdg-open", url).Run()
	}
}
