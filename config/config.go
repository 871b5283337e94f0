// Package config loads tracker configuration from YAML files.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/milosgajdos/go-tracker/internal/monitoring"
	"github.com/milosgajdos/go-tracker/rbmcda"
	"gopkg.in/yaml.v3"
)

// maxFileSize caps the size of configuration files
const maxFileSize = 1 * 1024 * 1024

// Load loads tracker configuration from a YAML file at path.
// Fields omitted from the file retain their default values, so partial
// configuration files are safe.
// It returns error if the file can't be read or parsed or the configuration is invalid.
func Load(path string) (*rbmcda.Config, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".yaml" && ext != ".yml" {
		return nil, fmt.Errorf("config file must have .yaml or .yml extension, got %q", ext)
	}

	info, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}

	if info.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", info.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, err
	}

	monitoring.Logf("config: loaded tracker configuration from %s", cleanPath)

	return cfg, nil
}

// Parse parses YAML encoded tracker configuration on top of rbmcda.DefaultConfig
// and validates it.
func Parse(data []byte) (*rbmcda.Config, error) {
	cfg := rbmcda.DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config YAML: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Marshal encodes tracker configuration to YAML
func Marshal(cfg rbmcda.Config) ([]byte, error) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to encode config YAML: %w", err)
	}

	return data, nil
}
