// Package config loads the TOML configuration file.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Input  InputConfig  `toml:"input"`
	Sounds SoundsConfig `toml:"sounds"`
	Sink   SinkConfig   `toml:"sink"`
}

// InputConfig names the keyboards to listen on. Hints are matched as
// substrings against evdev device names.
type InputConfig struct {
	Hints []string `toml:"hints"`
}

type SoundsConfig struct {
	Increment  string `toml:"increment"`
	BonusIntro string `toml:"bonus_intro"`
	BonusLoop  string `toml:"bonus_loop"`
	StartupCue bool   `toml:"startup_cue"`
}

type SinkConfig struct {
	CounterPath string `toml:"counter_path"`
	StatusPath  string `toml:"status_path"`
}

// Default returns the built-in configuration: any keyboard, the
// conventional Waybar file locations, no sound files.
func Default() Config {
	return Config{
		Input: InputConfig{
			Hints: []string{"Keyboard", "keyboard"},
		},
		Sounds: SoundsConfig{
			StartupCue: true,
		},
		Sink: SinkConfig{
			CounterPath: "/tmp/waybar_counter.txt",
			StatusPath:  "/tmp/waybar_status.txt",
		},
	}
}

// Load reads a TOML config from path over the defaults. A missing file
// is not an error; the defaults apply.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to stat config: %w", err)
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}

// XDGConfigHome returns the XDG config home or a default fallback.
func XDGConfigHome() string {
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "."
	}
	return filepath.Join(home, ".config")
}

// DefaultPath returns the default TOML config path.
func DefaultPath() string {
	return filepath.Join(XDGConfigHome(), "keytally", "config.toml")
}
