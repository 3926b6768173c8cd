package store

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
)

const configFileName = "config.toml"

// Env holds environment overrides. Flags win over env; env wins over config.toml.
type Env struct {
	ConfigDir string `env:"TILES_CONFIG_DIR"`
	Dir       string `env:"TILES_DIR"`
	Workspace string `env:"TILES_WORKSPACE"`
	Format    string `env:"TILES_FORMAT" envDefault:"json"`
	Storage   string `env:"TILES_STORAGE" envDefault:"sqlite"`
	IconsFile string `env:"TILES_ICONS_FILE"`

	// Terminal background hints, read when no theme has been stored yet.
	DarkBG    string `env:"TILES_DARKBG"`
	ColorFGBG string `env:"COLORFGBG"`
	NoColor   string `env:"NO_COLOR"`
}

func LoadEnv() (Env, error) {
	var e Env
	if err := env.Parse(&e); err != nil {
		return Env{}, fmt.Errorf("parse env: %w", err)
	}
	return e, nil
}

type GlobalConfig struct {
	CurrentWorkspace string `toml:"current_workspace,omitempty"`

	// IconsFile points at an icon-families.json to use instead of the bundled subset.
	IconsFile string `toml:"icons_file,omitempty"`

	Web WebConfig `toml:"web"`
	TUI TUIConfig `toml:"tui"`
}

type WebConfig struct {
	Addr string `toml:"addr,omitempty"`
}

type TUIConfig struct {
	// Glyphs selects how tile icons render: "unicode" (icon font code points) or "ascii".
	Glyphs string `toml:"glyphs,omitempty"`
}

func ConfigDir() (string, error) {
	// Test/advanced override (keeps unit tests from touching ~/.tiles).
	e, err := LoadEnv()
	if err != nil {
		return "", err
	}
	if v := strings.TrimSpace(e.ConfigDir); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".tiles"), nil
}

func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFileName), nil
}

func LoadConfig() (*GlobalConfig, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	var cfg GlobalConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &GlobalConfig{}, nil
		}
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return &cfg, nil
}

func atomicWriteFile(dir, tmpPattern, path string, b []byte, perm os.FileMode) error {
	f, err := os.CreateTemp(dir, tmpPattern)
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer func() { _ = os.Remove(tmp) }()
	if _, err := f.Write(b); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	_ = os.Chmod(tmp, perm)
	return os.Rename(tmp, path)
}

func SaveConfig(cfg *GlobalConfig) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return err
	}

	// Keep the previous config around; ignore errors so a bad backup never blocks saving.
	if prev, err := os.ReadFile(path); err == nil && len(prev) > 0 {
		_ = atomicWriteFile(dir, configFileName+".bak.*.tmp", path+".bak", prev, 0o644)
	}
	return atomicWriteFile(dir, configFileName+".*.tmp", path, buf.Bytes(), 0o600)
}

func NormalizeWorkspaceName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", errors.New("workspace name is empty")
	}
	if name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return "", fmt.Errorf("invalid workspace name: %q", name)
	}
	return name, nil
}

// ListWorkspaces returns workspace names found on disk plus the configured current one.
func ListWorkspaces() ([]string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return nil, err
	}
	set := map[string]struct{}{}
	if ents, err := os.ReadDir(filepath.Join(dir, "workspaces")); err == nil {
		for _, e := range ents {
			if e.IsDir() {
				set[e.Name()] = struct{}{}
			}
		}
	}
	if cfg, err := LoadConfig(); err == nil && strings.TrimSpace(cfg.CurrentWorkspace) != "" {
		set[strings.TrimSpace(cfg.CurrentWorkspace)] = struct{}{}
	}
	out := make([]string, 0, len(set))
	for name := range set {
		out = append(out, name)
	}
	sort.Strings(out)
	return out, nil
}
