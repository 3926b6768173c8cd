package theme

import (
	"context"
	"errors"
	"os/exec"
	"runtime"
	"strconv"
	"strings"
	"time"

	"tiles-cli/internal/store"

	"github.com/charmbracelet/lipgloss"
)

// TerminalAmbient guesses whether the terminal (or OS) uses a dark color scheme.
//
// Priority:
// 1) TILES_DARKBG=true|false
// 2) COLORFGBG heuristic (format like "15;0" = fg;bg)
// 3) macOS AppleInterfaceStyle
// 4) lipgloss background detection
type TerminalAmbient struct {
	DarkBG    string
	ColorFGBG string

	// Probe overrides steps 3 and 4; tests use it to stay off the real terminal.
	Probe func() bool
}

func NewTerminalAmbient(e store.Env) TerminalAmbient {
	return TerminalAmbient{DarkBG: e.DarkBG, ColorFGBG: e.ColorFGBG}
}

func (a TerminalAmbient) PrefersDark() bool {
	if v := strings.TrimSpace(a.DarkBG); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}

	// COLORFGBG may have more than two segments; the last one is the background.
	if v := strings.TrimSpace(a.ColorFGBG); v != "" {
		parts := strings.Split(v, ";")
		if bg, err := strconv.Atoi(strings.TrimSpace(parts[len(parts)-1])); err == nil {
			return bg < 7
		}
	}

	if a.Probe != nil {
		return a.Probe()
	}
	if runtime.GOOS == "darwin" {
		if dark, ok := macOSHasDarkAppearance(); ok {
			return dark
		}
	}
	return lipgloss.HasDarkBackground()
}

func macOSHasDarkAppearance() (dark bool, ok bool) {
	// `defaults read -g AppleInterfaceStyle` prints "Dark" in dark mode and exits 1 in light mode.
	ctx, cancel := context.WithTimeout(context.Background(), 80*time.Millisecond)
	defer cancel()

	out, err := exec.CommandContext(ctx, "defaults", "read", "-g", "AppleInterfaceStyle").CombinedOutput()
	if ctx.Err() != nil {
		return false, false
	}
	if err == nil {
		return strings.Contains(strings.ToLower(string(out)), "dark"), true
	}
	var ee *exec.ExitError
	if errors.As(err, &ee) && ee.ExitCode() == 1 {
		return false, true
	}
	return false, false
}
