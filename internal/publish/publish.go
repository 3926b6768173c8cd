package publish

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"tiles-cli/internal/model"
)

const iconsDir = "icons"

type WriteOptions struct {
	Title     string
	Overwrite bool
}

type WriteResult struct {
	Written []string `json:"written"`
}

// WriteDashboard writes index.md and one SVG per icon in use under toDir.
func WriteDashboard(instances []model.Instance, icons IconFinder, toDir string, opt WriteOptions) (WriteResult, error) {
	toDir = strings.TrimSpace(toDir)
	if toDir == "" {
		return WriteResult{}, errors.New("missing --to")
	}
	toDir = filepath.Clean(toDir)

	if err := os.MkdirAll(filepath.Join(toDir, iconsDir), 0o755); err != nil {
		return WriteResult{}, err
	}

	md := RenderDashboardMarkdown(instances, icons, RenderOptions{
		Title:   opt.Title,
		IconDir: iconsDir,
		Now:     time.Now(),
	})
	indexPath := filepath.Join(toDir, "index.md")
	if err := writeFile(indexPath, []byte(md), opt.Overwrite); err != nil {
		return WriteResult{}, err
	}

	written := []string{indexPath}
	seen := map[string]bool{}
	for _, inst := range instances {
		if seen[inst.Icon] {
			continue
		}
		ic, ok := resolveIcon(icons, inst.Icon)
		if !ok {
			continue
		}
		seen[inst.Icon] = true
		// The first tile using an icon picks its color.
		p := filepath.Join(toDir, iconsDir, inst.Icon+".svg")
		if err := writeFile(p, []byte(IconSVG(ic, inst.Color)), opt.Overwrite); err != nil {
			return WriteResult{}, err
		}
		written = append(written, p)
	}
	return WriteResult{Written: written}, nil
}

func writeFile(path string, b []byte, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return errors.New("file exists (use --overwrite): " + path)
		}
	}
	return os.WriteFile(path, b, 0o644)
}
