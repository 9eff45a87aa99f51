// Package config handles TOML configuration loading with environment variable substitution.
package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Config is the root configuration structure.
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Database DatabaseConfig `toml:"database"`
	Auth     AuthConfig     `toml:"auth"`
	TMDB     TMDBConfig     `toml:"tmdb"`
}

type ServerConfig struct {
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	LogLevel string `toml:"log_level"`
}

type DatabaseConfig struct {
	Path string `toml:"path"`
}

// AuthConfig guards the endpoints that change the watch log.
// An empty AdminKey leaves the log read-only.
type AuthConfig struct {
	AdminKey string `toml:"admin_key"`
}

// TMDBConfig configures the metadata proxy. An empty APIKey disables it.
type TMDBConfig struct {
	APIKey     string        `toml:"api_key"`
	BaseURL    string        `toml:"base_url"`
	RateLimit  int           `toml:"rate_limit"`  // requests per window
	RateWindow time.Duration `toml:"rate_window"` // e.g. "10s"
	SearchTTL  time.Duration `toml:"search_ttl"`
	DetailsTTL time.Duration `toml:"details_ttl"`
}

// Enabled reports whether an API key was configured.
func (c TMDBConfig) Enabled() bool {
	return c.APIKey != ""
}

// Load reads, substitutes, and validates the configuration file.
// Returns a *ConfigError listing unresolved variables and validation failures.
func Load(path string) (*Config, error) {
	cfg, unset, err := load(path)
	if err != nil {
		return nil, err
	}

	cerr := &ConfigError{Path: path, Unset: unset, Errors: cfg.Validate()}
	if cerr.HasErrors() {
		return nil, cerr
	}
	return cfg, nil
}

func load(path string) (*Config, []UnsetVar, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("reading config: %w", err)
	}

	content, unset := substituteEnvVars(string(data))

	var cfg Config
	if _, err := toml.Decode(content, &cfg); err != nil {
		return nil, nil, fmt.Errorf("parsing config: %w", err)
	}
	cfg.applyDefaults()
	return &cfg, unset, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Host == "" {
		c.Server.Host = "0.0.0.0"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8585
	}
	if c.Server.LogLevel == "" {
		c.Server.LogLevel = "info"
	}
	if c.Database.Path == "" {
		c.Database.Path = "./data/cinegrid.db"
	}
	if c.TMDB.BaseURL == "" {
		c.TMDB.BaseURL = "https://api.themoviedb.org"
	}
	if c.TMDB.RateLimit == 0 {
		c.TMDB.RateLimit = 40
	}
	if c.TMDB.RateWindow == 0 {
		c.TMDB.RateWindow = 10 * time.Second
	}
	if c.TMDB.SearchTTL == 0 {
		c.TMDB.SearchTTL = 5 * time.Minute
	}
	if c.TMDB.DetailsTTL == 0 {
		c.TMDB.DetailsTTL = time.Hour
	}
}

var (
	// envVarPattern matches ${VAR}, ${VAR:-default} and ${VAR:?message}.
	envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(?::([-?])([^}]*))?\}`)
	tablePattern  = regexp.MustCompile(`^\[\s*([A-Za-z0-9_.-]+)\s*\]`)
)

// substituteEnvVars replaces variable references with environment values.
// It works line by line so that each unresolved reference, left in place,
// names the setting it was meant for. Comment lines are not substituted.
func substituteEnvVars(content string) (string, []UnsetVar) {
	var (
		unset   []UnsetVar
		section string
	)
	lines := strings.Split(content, "\n")
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "#") {
			continue
		}
		if m := tablePattern.FindStringSubmatch(trimmed); m != nil {
			section = m[1]
			continue
		}
		key := settingKey(section, trimmed)

		lines[i] = envVarPattern.ReplaceAllStringFunc(line, func(match string) string {
			m := envVarPattern.FindStringSubmatch(match)
			name, op, arg := m[1], m[2], m[3]
			value, ok := os.LookupEnv(name)

			switch op {
			case "-":
				if value == "" {
					return arg
				}
				return value
			case "?":
				if value == "" {
					unset = append(unset, UnsetVar{Name: name, Key: key, Hint: strings.TrimSpace(arg)})
					return match
				}
				return value
			}

			if !ok {
				unset = append(unset, UnsetVar{Name: name, Key: key})
				return match
			}
			return value
		})
	}
	return strings.Join(lines, "\n"), unset
}

// settingKey returns the dotted name of the key assigned on line, or "".
func settingKey(section, line string) string {
	k, _, ok := strings.Cut(line, "=")
	if !ok {
		return ""
	}
	k = strings.Trim(strings.TrimSpace(k), `"`)
	if section == "" {
		return k
	}
	return section + "." + k
}
