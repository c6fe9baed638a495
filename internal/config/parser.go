package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Format is a configuration file syntax.
type Format int

const (
	// FormatLua is a Lua script assigning panel.config.
	FormatLua Format = iota
	// FormatYAML is a flat YAML mapping.
	FormatYAML
)

// String returns the format name.
func (f Format) String() string {
	if f == FormatYAML {
		return "yaml"
	}
	return "lua"
}

// DetectFormat picks the syntax from the file extension: .yaml and .yml
// are YAML, everything else is Lua.
func DetectFormat(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatLua
	}
}

// Parse parses content in the given format, expands environment
// variables and validates the result.
func Parse(content []byte, format Format, luaOut io.Writer) (*Config, error) {
	var (
		cfg *Config
		err error
	)
	switch format {
	case FormatYAML:
		cfg, err = ParseYAML(content)
	default:
		cfg, err = NewLuaParser(luaOut).Parse(content)
	}
	if err != nil {
		return nil, err
	}

	ExpandEnvConfig(cfg)
	if err := Validate(cfg).Err(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Load reads and parses the file at path. An empty path yields the
// defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		cfg := DefaultConfig()
		return &cfg, nil
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	cfg, err := Parse(content, DetectFormat(path), nil)
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}
