package config

import (
	"os"
	"regexp"
	"strings"
)

// envVarPattern matches ${VAR}, ${VAR:-default} and $VAR.
var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}|\$([a-zA-Z_][a-zA-Z0-9_]*)`)

// ExpandEnv expands environment variable references in s. ${VAR:-default}
// yields default when VAR is unset or empty; other unset variables expand
// to the empty string.
func ExpandEnv(s string) string {
	return expandEnv(s, os.Getenv)
}

func expandEnv(s string, getenv func(string) string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		if strings.HasPrefix(match, "${") {
			inner := match[2 : len(match)-1]
			if name, def, ok := strings.Cut(inner, ":-"); ok {
				if val := getenv(name); val != "" {
					return val
				}
				return def
			}
			return getenv(inner)
		}
		return getenv(match[1:])
	})
}

// ExpandEnvConfig expands environment variables in the font family and
// the clock formats.
func ExpandEnvConfig(cfg *Config) {
	if cfg == nil {
		return
	}
	cfg.Font.Family = ExpandEnv(cfg.Font.Family)
	cfg.Clock.TimeFormat = ExpandEnv(cfg.Clock.TimeFormat)
	cfg.Clock.DateFormat = ExpandEnv(cfg.Clock.DateFormat)
}
