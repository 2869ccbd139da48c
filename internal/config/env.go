package config

import (
	"os"
	"regexp"
	"strings"
)

// envVarPattern matches ${NAME}, ${NAME:-default} and $NAME. Names follow
// shell rules, so "$5" or a lone "$" in a unit string are left alone.
var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}|\$([a-zA-Z_][a-zA-Z0-9_]*)`)

// ExpandEnv replaces environment variable references in s. Unset
// variables expand to the empty string unless a ":-" default is given,
// which is also used when the variable is set but empty.
func ExpandEnv(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		m := envVarPattern.FindStringSubmatch(match)
		if m[2] != "" {
			return os.Getenv(m[2])
		}
		name, fallback, hasDefault := strings.Cut(m[1], ":-")
		if v := os.Getenv(name); v != "" || !hasDefault {
			return v
		}
		return fallback
	})
}

// ExpandEnvConfig expands environment variables in the free-text
// configuration values: the window title, the unit and the font path.
// Colors and numbers are never expanded.
func ExpandEnvConfig(cfg *Config) {
	if cfg == nil {
		return
	}
	for _, s := range []*string{&cfg.Window.Title, &cfg.Dial.Unit, &cfg.Window.Font} {
		*s = ExpandEnv(*s)
	}
}
