package api

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// LoadConfig reads a .testrun.yaml file over the built-in defaults and validates it.
func LoadConfig(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	absPath, err := filepath.Abs(filename)
	if err != nil {
		return nil, fmt.Errorf("resolving absolute path: %w", err)
	}
	cfg.FilePath = absPath

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config %s: %w", filename, err)
	}

	return cfg, nil
}

// LoadConfigFile loads filename, or the default config file in workDir when
// filename is empty. A missing default config file yields Default().
func LoadConfigFile(workDir, filename string) (*Config, error) {
	if filename != "" {
		return LoadConfig(filename)
	}

	cfg, err := LoadConfig(filepath.Join(workDir, DefaultConfigFile))
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}
