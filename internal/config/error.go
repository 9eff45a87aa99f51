package config

import (
	"fmt"
	"strings"
)

// UnsetVar is an environment reference in the config file that could not be
// resolved.
type UnsetVar struct {
	Name string
	Key  string // setting the reference feeds, e.g. "tmdb.api_key"
	Hint string // message from ${VAR:?hint}
}

func (v UnsetVar) String() string {
	s := v.Name
	if v.Key != "" {
		s += " (for " + v.Key + ")"
	}
	if v.Hint != "" {
		s += ": " + v.Hint
	}
	return s
}

// ConfigError reports everything wrong with a config file at once.
type ConfigError struct {
	Path   string
	Unset  []UnsetVar
	Errors []string // validation failures, prefixed with the setting name
}

func (e *ConfigError) Error() string {
	if !e.HasErrors() {
		return ""
	}

	var b strings.Builder
	if e.Path != "" {
		fmt.Fprintf(&b, "config %s:", e.Path)
	} else {
		b.WriteString("config:")
	}
	for _, v := range e.Unset {
		fmt.Fprintf(&b, "\n  unset environment variable %s", v)
	}
	for _, msg := range e.Errors {
		fmt.Fprintf(&b, "\n  %s", msg)
	}
	return b.String()
}

// HasErrors reports whether the file had unset variables or invalid settings.
func (e *ConfigError) HasErrors() bool {
	return len(e.Unset) > 0 || len(e.Errors) > 0
}
