package config

import (
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// ParseYAML parses a flat YAML mapping using the same keys as the Lua
// panel.config table:
//
//	width: 672
//	time_format: "%H:%M"
//	volume_color: "#ff4d4d99"
//
// Unknown keys are rejected.
func ParseYAML(content []byte) (*Config, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(content, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse YAML configuration: %w", err)
	}

	var unknown []string
	for key := range raw {
		if _, ok := fieldsByKey[key]; !ok {
			unknown = append(unknown, key)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return nil, fmt.Errorf("unknown configuration keys: %s", strings.Join(unknown, ", "))
	}

	cfg := DefaultConfig()
	if err := apply(&cfg, mapSource(raw)); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type mapSource map[string]any

func (m mapSource) lookup(key string) (any, bool) {
	v, ok := m[key]
	return v, ok
}
