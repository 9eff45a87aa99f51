package config

import (
	"fmt"
	"net/url"
	"time"
)

const minRateWindow = time.Second

var validLogLevels = map[string]bool{
	"debug": true, "info": true, "warn": true, "error": true, "": true,
}

// Validate checks the configuration for errors.
// Returns a slice of error messages (empty if valid).
func (c *Config) Validate() []string {
	var errs []string

	// Server validation
	if c.Server.Port != 0 && (c.Server.Port < 1 || c.Server.Port > 65535) {
		errs = append(errs, fmt.Sprintf("server.port: must be between 1 and 65535, got %d", c.Server.Port))
	}
	if !validLogLevels[c.Server.LogLevel] {
		errs = append(errs, fmt.Sprintf("server.log_level: must be one of debug, info, warn, error; got %q", c.Server.LogLevel))
	}

	// Database
	if c.Database.Path == "" {
		errs = append(errs, "database.path: required")
	}

	// TMDB validation
	if c.TMDB.RateLimit < 0 {
		errs = append(errs, fmt.Sprintf("tmdb.rate_limit: must be positive, got %d", c.TMDB.RateLimit))
	}
	// A bare integer decodes as nanoseconds, which would make the window meaningless.
	if c.TMDB.RateWindow < minRateWindow {
		errs = append(errs, fmt.Sprintf("tmdb.rate_window: must be at least %s (use a duration like \"10s\"), got %s", minRateWindow, c.TMDB.RateWindow))
	}
	if c.TMDB.SearchTTL < 0 || c.TMDB.DetailsTTL < 0 {
		errs = append(errs, "tmdb.search_ttl, tmdb.details_ttl: must not be negative")
	}
	if c.TMDB.BaseURL != "" {
		if u, err := url.Parse(c.TMDB.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
			errs = append(errs, fmt.Sprintf("tmdb.base_url: invalid URL %q", c.TMDB.BaseURL))
		}
	}

	return errs
}
