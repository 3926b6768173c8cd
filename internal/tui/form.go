package tui

import (
	"strings"

	"tiles-cli/internal/model"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	fieldTitle = iota
	fieldHref
	fieldIcon
	fieldColor
	fieldCount
)

var fieldLabels = [fieldCount]string{"Title", "Link", "Icon", "Color"}

// instanceForm edits one instance. editID is empty when adding.
type instanceForm struct {
	editID string
	inputs [fieldCount]textinput.Model
	focus  int
}

func newInstanceForm(inst model.Instance, editID string) instanceForm {
	f := instanceForm{editID: editID}
	placeholders := [fieldCount]string{"Grafana", "https://grafana.local", "chart-line", "#f46800"}
	values := [fieldCount]string{inst.Title, inst.Href, inst.Icon, inst.Color}
	for i := range f.inputs {
		in := textinput.New()
		in.Prompt = ""
		in.Placeholder = placeholders[i]
		in.CharLimit = 512
		in.SetValue(values[i])
		f.inputs[i] = in
	}
	f.inputs[fieldTitle].Focus()
	return f
}

func (f *instanceForm) setFocus(i int) tea.Cmd {
	f.inputs[f.focus].Blur()
	f.focus = (i%fieldCount + fieldCount) % fieldCount
	return f.inputs[f.focus].Focus()
}

func (f instanceForm) value(i int) string { return strings.TrimSpace(f.inputs[i].Value()) }

func (f *instanceForm) setIcon(name string) {
	f.inputs[fieldIcon].SetValue(name)
	f.inputs[fieldIcon].CursorEnd()
}

// instance returns the edited record; the id is filled in by the caller.
func (f instanceForm) instance() model.Instance {
	return model.Instance{
		Title: f.value(fieldTitle),
		Href:  f.value(fieldHref),
		Icon:  f.value(fieldIcon),
		Color: f.value(fieldColor),
	}
}

func (f instanceForm) update(msg tea.Msg) (instanceForm, tea.Cmd) {
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return f, cmd
}

func (f instanceForm) view(termW int, iconPreview string) string {
	bodyW := modalBodyWidth(termW)
	labelSt := lipgloss.NewStyle().Foreground(colorChromeMutedFg)
	focusSt := lipgloss.NewStyle().Foreground(colorAccent).Bold(true)

	var lines []string
	for i := range f.inputs {
		st := labelSt
		if i == f.focus {
			st = focusSt
		}
		label := fieldLabels[i]
		if i == fieldIcon && iconPreview != "" {
			label += "  " + iconPreview
		}
		lines = append(lines, st.Render(label), renderInputLine(bodyW, f.inputs[i].View()), "")
	}
	lines = append(lines, styleMuted().Width(bodyW).Render("tab/shift+tab: field   ctrl+o: pick icon   enter: next/save   ctrl+s: save   esc: cancel"))

	title := "Add instance"
	if f.editID != "" {
		title = "Edit " + f.editID
	}
	return renderModalBox(termW, title, strings.Join(lines, "\n"))
}
