// Package config loads crater.toml: key bindings, display scale, the
// default save directory, and recently-used ROM paths. This is the ambient
// settings layer a command-line-flags-only tool doesn't need but a
// complete toolkit carries; argument parsing itself stays in cmd/crater.
package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

const maxRecentROMs = 10

// KeyBindings maps each joypad input to the SDL keyboard scancode name
// that triggers it (e.g. "Up", "Return"). cmd/crater compares these names
// with sdl.GetScancodeName of each key event's scancode.
type KeyBindings struct {
	Up     string `toml:"up"`
	Down   string `toml:"down"`
	Left   string `toml:"left"`
	Right  string `toml:"right"`
	One    string `toml:"button_1"`
	Two    string `toml:"button_2"`
	Start  string `toml:"start"`
}

// DefaultKeyBindings returns the stock arrow-keys-plus-ZX layout used when no
// config file is present or a field is left unset.
func DefaultKeyBindings() KeyBindings {
	return KeyBindings{
		Up:    "Up",
		Down:  "Down",
		Left:  "Left",
		Right: "Right",
		One:   "Z",
		Two:   "X",
		Start: "Return",
	}
}

// Config is the full contents of crater.toml.
type Config struct {
	Scale      int         `toml:"scale"`
	SaveDir    string      `toml:"save_dir"`
	RecentROMs []string    `toml:"recent_roms"`
	Keys       KeyBindings `toml:"keys"`
}

// Default returns a Config populated entirely with built-in defaults.
func Default() Config {
	return Config{
		Scale: 3,
		Keys:  DefaultKeyBindings(),
	}
}

// Load reads and parses a TOML config file at path. A missing file is not
// an error: it returns Default() instead, matching a first-run experience
// with no config yet on disk. Any field left unset in the file keeps its
// Default() value.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return Config{}, err
	}

	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return Config{}, err
	}
	if cfg.Scale <= 0 {
		cfg.Scale = Default().Scale
	}
	if cfg.Keys == (KeyBindings{}) {
		cfg.Keys = DefaultKeyBindings()
	}
	return cfg, nil
}

// Save writes cfg to path as TOML, creating parent directories as needed.
func Save(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(cfg)
}

// AddRecentROM records path as the most recently opened ROM, moving it to
// the front if already present and capping the list at maxRecentROMs.
func (c *Config) AddRecentROM(path string) {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}

	filtered := make([]string, 0, len(c.RecentROMs)+1)
	filtered = append(filtered, abs)
	for _, p := range c.RecentROMs {
		if p != abs {
			filtered = append(filtered, p)
		}
	}
	if len(filtered) > maxRecentROMs {
		filtered = filtered[:maxRecentROMs]
	}
	c.RecentROMs = filtered
}

// DefaultPath returns the conventional crater.toml location under the
// user's config directory ($XDG_CONFIG_HOME or platform equivalent).
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "crater", "crater.toml"), nil
}
