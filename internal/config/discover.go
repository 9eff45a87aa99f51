package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// EnvConfig names a config file, or a directory holding config.toml, and
// overrides the search.
const EnvConfig = "CINEGRID_CONFIG"

// NotFoundError is returned by Discover when no config file exists.
type NotFoundError struct {
	Checked []string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no config file found (checked %s); create one with cinegridd -init",
		strings.Join(e.Checked, ", "))
}

// DefaultPath returns $XDG_CONFIG_HOME/cinegrid/config.toml.
func DefaultPath() string {
	return filepath.Join(xdgDir("XDG_CONFIG_HOME", ".config"), "cinegrid", "config.toml")
}

// DefaultDataDir returns $XDG_DATA_HOME/cinegrid, where -init puts the database.
func DefaultDataDir() string {
	return filepath.Join(xdgDir("XDG_DATA_HOME", filepath.Join(".local", "share")), "cinegrid")
}

func xdgDir(env, fallback string) string {
	if dir := os.Getenv(env); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, fallback)
}

// searchPaths lists the locations Discover tries, in order.
func searchPaths() []string {
	return []string{
		"./config.toml",
		DefaultPath(),
		"/etc/cinegrid/config.toml",
	}
}

// Discover finds the config file. CINEGRID_CONFIG wins when set; otherwise
// the first existing entry of searchPaths is used.
func Discover() (string, error) {
	if p := os.Getenv(EnvConfig); p != "" {
		info, err := os.Stat(p)
		if err != nil {
			return "", fmt.Errorf("%s=%s: %w", EnvConfig, p, err)
		}
		if info.IsDir() {
			p = filepath.Join(p, "config.toml")
			if _, err := os.Stat(p); err != nil {
				return "", fmt.Errorf("%s: %w", EnvConfig, err)
			}
		}
		return p, nil
	}

	paths := searchPaths()
	for _, p := range paths {
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p, nil
		}
	}
	return "", &NotFoundError{Checked: paths}
}
