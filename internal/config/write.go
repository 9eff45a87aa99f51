package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"text/template"
)

//go:embed default_config.toml
var defaultConfig string

var defaultTemplate = template.Must(template.New("config").Parse(defaultConfig))

// Defaults are the values baked into a fresh config file.
type Defaults struct {
	// DataDir holds cinegrid.db. Empty keeps ${CINEGRID_DATA:-./data}.
	DataDir string
	// AdminKey is written literally. Empty reads ${CINEGRID_ADMIN_KEY}.
	AdminKey string
}

// Render returns the config file for d.
func (d Defaults) Render() ([]byte, error) {
	dbPath := "${CINEGRID_DATA:-./data}/cinegrid.db"
	if d.DataDir != "" {
		dbPath = filepath.Join(d.DataDir, "cinegrid.db")
	}

	var buf bytes.Buffer
	err := defaultTemplate.Execute(&buf, struct {
		DatabasePath string
		AdminKey     string
	}{dbPath, d.AdminKey})
	if err != nil {
		return nil, fmt.Errorf("render config: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteDefault writes a fresh config file to path, creating parent
// directories. It never overwrites an existing file, and the file is only
// readable by its owner since it may hold the admin key.
func WriteDefault(path string, d Defaults) error {
	content, err := d.Render()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return err
	}
	if _, err := f.Write(content); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
