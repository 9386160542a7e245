// Package config reads neuro.toml project configuration. The compiler core
// consumes only the build optimization level; the remaining tables are
// parsed into place for the surrounding tooling but otherwise unconsulted.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"golang.org/x/mod/semver"
)

// Package is the [package] table.
type Package struct {
	Name    string   `toml:"name"`
	Version string   `toml:"version"`
	Authors []string `toml:"authors"`
	License string   `toml:"license"`
}

// Dependency is one [[dependencies]] entry.
type Dependency struct {
	Name    string `toml:"name"`
	Version string `toml:"version"`
}

// Build is the [build] table.
type Build struct {
	OptimizationLevel string `toml:"optimization_level"`
	Target            string `toml:"target"` // accepted and ignored; the emitter uses the host triple
}

// Config is a parsed neuro.toml.
type Config struct {
	Package      Package      `toml:"package"`
	Dependencies []Dependency `toml:"dependencies"`
	Build        Build        `toml:"build"`
}

// Load reads and validates the neuro.toml at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %q: %w", path, err)
	}
	return Parse(string(data))
}

// Parse decodes TOML text into a Config and validates the fields the core
// looks at.
func Parse(text string) (*Config, error) {
	var cfg Config
	if _, err := toml.Decode(text, &cfg); err != nil {
		return nil, fmt.Errorf("invalid neuro.toml: %w", err)
	}
	if cfg.Package.Version != "" && !semver.IsValid("v"+cfg.Package.Version) {
		return nil, fmt.Errorf("invalid neuro.toml: package version %q is not well-formed semver", cfg.Package.Version)
	}
	if _, err := cfg.OptLevel(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// OptLevel maps the configured optimization_level (O0..O3, default O0) to
// the numeric level the backend passes to llc.
func (c *Config) OptLevel() (int, error) {
	switch c.Build.OptimizationLevel {
	case "", "O0":
		return 0, nil
	case "O1":
		return 1, nil
	case "O2":
		return 2, nil
	case "O3":
		return 3, nil
	default:
		return 0, fmt.Errorf("invalid neuro.toml: optimization_level %q (want O0..O3)", c.Build.OptimizationLevel)
	}
}
