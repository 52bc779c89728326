package project

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// Config holds per-project defaults from lualint.toml. Every field is
// optional; explicit CLI flags win over manifest values.
type Config struct {
	Check CheckConfig `toml:"check"`
}

// CheckConfig is the [check] section of lualint.toml.
type CheckConfig struct {
	// Luals is the lua-language-server executable name or path.
	Luals string `toml:"luals"`
	// Show is the minimum severity to display (hint|info|warning|error).
	Show string `toml:"show"`
	// Fail is the minimum severity that fails the run.
	Fail string `toml:"fail"`
	// CheckLevel is forwarded to the server's --checklevel flag.
	CheckLevel string `toml:"checklevel"`
}

// LoadConfig parses a lualint.toml manifest. Unknown keys are rejected so a
// typo in a threshold name fails loudly instead of being ignored.
func LoadConfig(path string) (Config, error) {
	var cfg Config
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("%s: unknown key %q", path, undecoded[0].String())
	}
	return cfg, nil
}

// LoadConfigFor looks for a manifest governing startDir and parses it.
// A missing manifest is not an error; the zero Config is returned.
func LoadConfigFor(startDir string) (Config, string, error) {
	manifest, ok, err := FindLualintToml(startDir)
	if err != nil || !ok {
		return Config{}, "", err
	}
	cfg, err := LoadConfig(manifest)
	if err != nil {
		return Config{}, "", err
	}
	return cfg, manifest, nil
}
