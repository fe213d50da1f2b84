package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/BurntSushi/toml"

	"github.com/kobzarvs/qpad/internal/command"
)

const (
	ExitConfirmAlways   = "always"
	ExitConfirmModified = "modified"
	ExitConfirmNever    = "never"
)

type EditorOptions struct {
	TabWidth    int    `toml:"tab-width"`
	ExitConfirm string `toml:"exit-confirm"`
	Title       string `toml:"title"`
}

type Theme struct {
	Theme                     string `toml:"theme"`
	Foreground                string `toml:"foreground"`
	Background                string `toml:"background"`
	MenuForeground            string `toml:"menu-foreground"`
	MenuBackground            string `toml:"menu-background"`
	MenuSelectedForeground    string `toml:"menu-selected-foreground"`
	MenuSelectedBackground    string `toml:"menu-selected-background"`
	MenuAcceleratorForeground string `toml:"menu-accelerator-foreground"`
	StatusForeground          string `toml:"status-foreground"`
	StatusBackground          string `toml:"status-background"`
	SelectionForeground       string `toml:"selection-foreground"`
	SelectionBackground       string `toml:"selection-background"`
	DialogForeground          string `toml:"dialog-foreground"`
	DialogBackground          string `toml:"dialog-background"`
	DialogBorderForeground    string `toml:"dialog-border-foreground"`
}

type Config struct {
	Editor EditorOptions `toml:"editor"`
	Theme  Theme         `toml:"theme"`
	// Accelerators overrides menu shortcuts by command id; "" removes one.
	Accelerators map[string]string `toml:"accelerators"`
}

func Default() Config {
	return Config{
		Editor: EditorOptions{
			TabWidth:    8,
			ExitConfirm: ExitConfirmAlways,
			Title:       "qpad",
		},
		Theme: Theme{
			Foreground:                "#D0D0D0",
			Background:                "#1C1C1C",
			MenuForeground:            "#000000",
			MenuBackground:            "#B0B0B0",
			MenuSelectedForeground:    "#FFFFFF",
			MenuSelectedBackground:    "#005F87",
			MenuAcceleratorForeground: "#4E4E4E",
			StatusForeground:          "#000000",
			StatusBackground:          "#B0B0B0",
			SelectionForeground:       "#FFFFFF",
			SelectionBackground:       "#005F87",
			DialogForeground:          "#000000",
			DialogBackground:          "#D0D0D0",
			DialogBorderForeground:    "#005F87",
		},
		Accelerators: map[string]string{},
	}
}

func Load() (Config, error) {
	cfg := Default()
	path, err := ConfigPath()
	if err != nil {
		return cfg, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}

	var userCfg Config
	if _, err := toml.Decode(string(data), &userCfg); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}

	if userCfg.Editor.TabWidth > 0 {
		cfg.Editor.TabWidth = userCfg.Editor.TabWidth
	}
	if userCfg.Editor.ExitConfirm != "" {
		switch userCfg.Editor.ExitConfirm {
		case ExitConfirmAlways, ExitConfirmModified, ExitConfirmNever:
			cfg.Editor.ExitConfirm = userCfg.Editor.ExitConfirm
		default:
			return cfg, fmt.Errorf("%s: exit-confirm must be %q, %q or %q, got %q",
				path, ExitConfirmAlways, ExitConfirmModified, ExitConfirmNever, userCfg.Editor.ExitConfirm)
		}
	}
	if userCfg.Editor.Title != "" {
		cfg.Editor.Title = userCfg.Editor.Title
	}
	if userCfg.Theme.Theme != "" {
		cfg.Theme.Theme = userCfg.Theme.Theme
	}
	if cfg.Theme.Theme != "" {
		theme, err := LoadTheme(cfg.Theme.Theme)
		if err != nil {
			return cfg, err
		}
		mergeTheme(&cfg.Theme, theme)
	}
	mergeTheme(&cfg.Theme, userCfg.Theme)

	unknown := make([]string, 0)
	for id, accel := range userCfg.Accelerators {
		if !command.Known(command.ID(id)) {
			unknown = append(unknown, id)
			continue
		}
		cfg.Accelerators[id] = accel
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return cfg, fmt.Errorf("%s: unknown commands in [accelerators]: %v", path, unknown)
	}

	return cfg, nil
}

func mergeTheme(dst *Theme, src Theme) {
	if src.Foreground != "" {
		dst.Foreground = src.Foreground
	}
	if src.Background != "" {
		dst.Background = src.Background
	}
	if src.MenuForeground != "" {
		dst.MenuForeground = src.MenuForeground
	}
	if src.MenuBackground != "" {
		dst.MenuBackground = src.MenuBackground
	}
	if src.MenuSelectedForeground != "" {
		dst.MenuSelectedForeground = src.MenuSelectedForeground
	}
	if src.MenuSelectedBackground != "" {
		dst.MenuSelectedBackground = src.MenuSelectedBackground
	}
	if src.MenuAcceleratorForeground != "" {
		dst.MenuAcceleratorForeground = src.MenuAcceleratorForeground
	}
	if src.StatusForeground != "" {
		dst.StatusForeground = src.StatusForeground
	}
	if src.StatusBackground != "" {
		dst.StatusBackground = src.StatusBackground
	}
	if src.SelectionForeground != "" {
		dst.SelectionForeground = src.SelectionForeground
	}
	if src.SelectionBackground != "" {
		dst.SelectionBackground = src.SelectionBackground
	}
	if src.DialogForeground != "" {
		dst.DialogForeground = src.DialogForeground
	}
	if src.DialogBackground != "" {
		dst.DialogBackground = src.DialogBackground
	}
	if src.DialogBorderForeground != "" {
		dst.DialogBorderForeground = src.DialogBorderForeground
	}
}

func ThemePath(name string) (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "theme", name+".toml"), nil
}

// LoadTheme reads theme/<name>.toml. The file may list colors at the top
// level or under a [theme] table.
func LoadTheme(name string) (Theme, error) {
	path, err := ThemePath(name)
	if err != nil {
		return Theme{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Theme{}, err
	}
	var t Theme
	if _, err := toml.Decode(string(data), &t); err == nil {
		return t, nil
	}
	var wrap struct {
		Theme Theme `toml:"theme"`
	}
	if _, err := toml.Decode(string(data), &wrap); err != nil {
		return Theme{}, fmt.Errorf("%s: %w", path, err)
	}
	return wrap.Theme, nil
}

func ConfigDir() (string, error) {
	if v := os.Getenv("QPAD_CONFIG_HOME"); v != "" {
		return filepath.Clean(v), nil
	}
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return filepath.Join(v, "qpad"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "qpad"), nil
}

func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}
