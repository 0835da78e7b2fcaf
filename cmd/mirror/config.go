package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

// DefaultConfigFile is read from the working directory when no --config
// flag is given. Its absence is not an error.
const DefaultConfigFile = "mirror.toml"

// Config is the on-disk CLI configuration.
type Config struct {
	// Packages are analyzed when no --package flag is given.
	Packages []string `toml:"packages"`

	// Format is the default output format.
	Format string `toml:"format"`

	// PublicOnly restricts member listings to public members.
	PublicOnly bool `toml:"public_only"`

	// Dir is the directory package patterns are resolved from.
	Dir string `toml:"dir"`
}

func loadConfig(path string) (Config, error) {
	var cfg Config
	explicit := path != ""
	if !explicit {
		path = DefaultConfigFile
	}

	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return Config{}, nil
		}
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("config %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if cfg.Format != "" && !validFormat(cfg.Format) {
		return Config{}, fmt.Errorf("config %s: unknown format %q", path, cfg.Format)
	}
	if cfg.Dir != "" {
		if _, err := os.Stat(cfg.Dir); err != nil {
			return Config{}, fmt.Errorf("config %s: %w", path, err)
		}
	}
	return cfg, nil
}
