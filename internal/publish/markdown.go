package publish

import (
	"bytes"
	"html"
	"strconv"
	"strings"
	"time"

	"tiles-cli/internal/model"
)

// IconFinder resolves icon names; *icons.Catalog satisfies it.
type IconFinder interface {
	Find(name string) (model.Icon, bool)
}

type RenderOptions struct {
	Title string
	// IconDir is the directory, relative to the page, that icon SVGs are linked from.
	IconDir string
	Now     time.Time
}

// RenderDashboardMarkdown renders instances as a markdown link list. Icons that resolve in icons are
// referenced as images under opt.IconDir.
func RenderDashboardMarkdown(instances []model.Instance, icons IconFinder, opt RenderOptions) string {
	var buf bytes.Buffer
	writeLn := func(s string) {
		buf.WriteString(s)
		buf.WriteString("\n")
	}

	title := strings.TrimSpace(opt.Title)
	if title == "" {
		title = "Tiles"
	}
	writeLn("# " + escapeMarkdown(title))
	writeLn("")

	if len(instances) == 0 {
		writeLn("_No tiles._")
	}
	for _, inst := range instances {
		line := "- "
		if _, ok := resolveIcon(icons, inst.Icon); ok {
			line += "![" + escapeMarkdown(inst.Icon) + "](" + iconPath(opt.IconDir, inst.Icon) + ") "
		}
		name := strings.TrimSpace(inst.Title)
		if name == "" {
			name = inst.ID
		}
		if href := strings.TrimSpace(inst.Href); href != "" {
			line += "[" + escapeMarkdown(name) + "](<" + href + ">)"
		} else {
			line += escapeMarkdown(name)
		}
		writeLn(line)
	}

	if !opt.Now.IsZero() {
		writeLn("")
		writeLn("_Published " + opt.Now.UTC().Format(time.RFC3339) + "._")
	}
	return buf.String()
}

// IconSVG renders a standalone SVG document for icon, filled with color (currentColor when empty).
func IconSVG(icon model.Icon, color string) string {
	vb := make([]string, 0, len(icon.ViewBox))
	for _, f := range icon.ViewBox {
		vb = append(vb, strconv.FormatFloat(f, 'f', -1, 64))
	}
	fill := strings.TrimSpace(color)
	if fill == "" {
		fill = "currentColor"
	}
	return `<svg xmlns="http://www.w3.org/2000/svg" viewBox="` + strings.Join(vb, " ") + `" fill="` + html.EscapeString(fill) + `">` +
		`<title>` + html.EscapeString(icon.Label) + `</title>` +
		`<path d="` + html.EscapeString(icon.SVGPath) + `"/></svg>` + "\n"
}

func resolveIcon(icons IconFinder, name string) (model.Icon, bool) {
	if icons == nil || !safeIconName(name) {
		return model.Icon{}, false
	}
	ic, ok := icons.Find(name)
	if !ok || ic.SVGPath == "" || len(ic.ViewBox) != 4 {
		return model.Icon{}, false
	}
	return ic, true
}

// safeIconName reports whether name can be used as a file name as-is.
func safeIconName(name string) bool {
	if name == "" {
		return false
	}
	for _, r := range name {
		if !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9' || r == '-') {
			return false
		}
	}
	return true
}

func iconPath(dir, name string) string {
	dir = strings.Trim(strings.TrimSpace(dir), "/")
	if dir == "" {
		return name + ".svg"
	}
	return dir + "/" + name + ".svg"
}

var markdownEscaper = strings.NewReplacer(
	`\`, `\\`, "`", "\\`", `*`, `\*`, `_`, `\_`,
	`[`, `\[`, `]`, `\]`, `<`, `\<`, `>`, `\>`, `#`, `\#`,
)

func escapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}
