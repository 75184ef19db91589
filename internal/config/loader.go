package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// File holds the daemon's runtime parameters plus the raw mapping tree the
// file decoded to. Zero values mean "unspecified" and are replaced by
// defaults in the CLI layer. Section resolution (Resolve) works on Tree.
type File struct {
	Addr        string   `json:"addr" yaml:"addr" toml:"addr"`
	LogLevel    string   `json:"log_level" yaml:"log_level" toml:"log_level"`
	LogFile     string   `json:"log_file" yaml:"log_file" toml:"log_file"`
	CORSEnabled bool     `json:"cors_enabled" yaml:"cors_enabled" toml:"cors_enabled"`
	CORSOrigins []string `json:"cors_origins" yaml:"cors_origins" toml:"cors_origins"`

	Tree map[string]any `json:"-" yaml:"-" toml:"-"`
}

// Load reads a configuration file based on its extension.
// Supports: .yaml/.yml, .json, .toml
func Load(path string) (File, error) {
	var cfg File
	if path == "" {
		return cfg, fmt.Errorf("empty config path")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
		if err := yaml.Unmarshal(b, &cfg.Tree); err != nil {
			return cfg, err
		}
	case ".json":
		if err := json.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
		if err := json.Unmarshal(b, &cfg.Tree); err != nil {
			return cfg, err
		}
	case ".toml":
		if err := toml.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
		if err := toml.Unmarshal(b, &cfg.Tree); err != nil {
			return cfg, err
		}
	default:
		return cfg, fmt.Errorf("unsupported config extension: %s", ext)
	}
	return cfg, nil
}
