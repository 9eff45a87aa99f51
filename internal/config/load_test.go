package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	cfgPath := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(cfgPath, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return cfgPath
}

func TestLoad_Valid(t *testing.T) {
	cfgPath := writeConfig(t, `
[server]
port = 8080

[tmdb]
api_key = "abc"
rate_limit = 20
rate_window = "5s"
search_ttl = "1m"
`)

	cfg, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("expected port 8080, got %d", cfg.Server.Port)
	}
	if cfg.TMDB.RateLimit != 20 || cfg.TMDB.RateWindow != 5*time.Second {
		t.Errorf("expected 20 per 5s, got %d per %s", cfg.TMDB.RateLimit, cfg.TMDB.RateWindow)
	}
	if cfg.TMDB.SearchTTL != time.Minute {
		t.Errorf("expected search ttl 1m, got %s", cfg.TMDB.SearchTTL)
	}
	if cfg.TMDB.DetailsTTL != time.Hour {
		t.Errorf("expected default details ttl 1h, got %s", cfg.TMDB.DetailsTTL)
	}
}

func TestLoad_MissingEnvVar(t *testing.T) {
	os.Unsetenv("CINEGRID_TEST_MISSING_KEY")
	cfgPath := writeConfig(t, `
[tmdb]
api_key = "${CINEGRID_TEST_MISSING_KEY}"
`)

	_, err := Load(cfgPath)
	if err == nil {
		t.Fatal("expected error for missing env var")
	}
	if !strings.Contains(err.Error(), "CINEGRID_TEST_MISSING_KEY") {
		t.Errorf("expected CINEGRID_TEST_MISSING_KEY in error, got %v", err)
	}
	var cerr *ConfigError
	if !errors.As(err, &cerr) {
		t.Fatalf("expected *ConfigError, got %T", err)
	}
	if cerr.Path != cfgPath {
		t.Errorf("expected path %s, got %s", cfgPath, cerr.Path)
	}
	if len(cerr.Unset) != 1 || cerr.Unset[0].Key != "tmdb.api_key" {
		t.Errorf("expected unset tmdb.api_key, got %v", cerr.Unset)
	}
	if !strings.HasPrefix(err.Error(), "config "+cfgPath+":") {
		t.Errorf("expected path prefix, got %q", err.Error())
	}
}

func TestLoad_BareIntegerRateWindow(t *testing.T) {
	cfgPath := writeConfig(t, `
[tmdb]
rate_window = 10
`)

	_, err := Load(cfgPath)
	if err == nil {
		t.Fatal("expected error for a 10ns rate window")
	}
	if !strings.Contains(err.Error(), "tmdb.rate_window: must be at least 1s") {
		t.Errorf("expected rate_window error, got %v", err)
	}
}

func TestLoad_ValidationError(t *testing.T) {
	cfgPath := writeConfig(t, `
[server]
port = 99999
`)

	_, err := Load(cfgPath)
	if err == nil {
		t.Fatal("expected error for invalid port")
	}
	if !strings.Contains(err.Error(), "server.port") {
		t.Errorf("expected server.port in error, got %v", err)
	}
}

func TestLoad_AppliesDefaults(t *testing.T) {
	cfgPath := writeConfig(t, "")

	cfg, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("expected default host 0.0.0.0, got %s", cfg.Server.Host)
	}
	if cfg.Server.Port != 8585 {
		t.Errorf("expected default port 8585, got %d", cfg.Server.Port)
	}
	if cfg.TMDB.RateLimit != 40 || cfg.TMDB.RateWindow != 10*time.Second {
		t.Errorf("expected 40 per 10s, got %d per %s", cfg.TMDB.RateLimit, cfg.TMDB.RateWindow)
	}
	if cfg.TMDB.Enabled() {
		t.Error("expected TMDB disabled without api key")
	}
}

func TestLoad_NotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err == nil || !strings.Contains(err.Error(), "reading config") {
		t.Fatalf("expected read error, got %v", err)
	}
}

func TestLoad_BadTOML(t *testing.T) {
	cfgPath := writeConfig(t, "[server\nport = ")

	_, err := Load(cfgPath)
	if err == nil || !strings.Contains(err.Error(), "parsing config") {
		t.Fatalf("expected parse error, got %v", err)
	}
}

func TestLoad_EnvVarDefault(t *testing.T) {
	os.Unsetenv("OPTIONAL_VAR")
	cfgPath := writeConfig(t, `
[server]
host = "${OPTIONAL_VAR:-localhost}"
`)

	cfg, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Host != "localhost" {
		t.Errorf("expected host localhost, got %s", cfg.Server.Host)
	}
}
