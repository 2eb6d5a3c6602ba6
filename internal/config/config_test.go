package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// clearEnv blanks every variable Load reads so the host environment does
// not leak into tests.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"TREF_CONFIG", "PORT", "TREF_API_KEY", "PATHSTORE_URL", "PATHSTORE_API_KEY",
		"PATHSTORE_PREFIX", "MAX_UPLOAD_BYTES", "DOCUMENT_TTL", "CLEANUP_INTERVAL",
		"BUILD_LEVELS", "PDF_FALLBACK_PDFTOTEXT", "LOG_LEVEL",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg != Default() {
		t.Errorf("expected defaults, got %+v", cfg)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9000")
	t.Setenv("TREF_API_KEY", "k")
	t.Setenv("DOCUMENT_TTL", "30m")
	t.Setenv("BUILD_LEVELS", "true")
	t.Setenv("MAX_UPLOAD_BYTES", "-5")
	t.Setenv("CLEANUP_INTERVAL", "garbage")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "9000" || cfg.APIKey != "k" || cfg.DocumentTTL != 30*time.Minute || !cfg.BuildLevels {
		t.Errorf("env not applied: %+v", cfg)
	}
	if cfg.MaxUploadBytes != Default().MaxUploadBytes {
		t.Errorf("negative upload limit not reset: %d", cfg.MaxUploadBytes)
	}
	if cfg.CleanupInterval != Default().CleanupInterval {
		t.Errorf("unparsable interval should keep default, got %v", cfg.CleanupInterval)
	}
}

func TestLoad_FileThenEnv(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "tref.toml")
	data := `
[server]
port = "7000"
api_key = "from-file"
log_level = "debug"

[store]
ttl = "2h"
build_levels = true

[pathstore]
url = "http://pathstore:8080"
api_key = "ps"

[import]
pdf_fallback_pdftotext = false
`
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("TREF_CONFIG", path)
	t.Setenv("PORT", "7001")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "7001" {
		t.Errorf("env should win over file, got port %q", cfg.Port)
	}
	if cfg.APIKey != "from-file" || cfg.DocumentTTL != 2*time.Hour || !cfg.BuildLevels {
		t.Errorf("file not applied: %+v", cfg)
	}
	if cfg.PathstoreURL != "http://pathstore:8080" || cfg.PathstorePrefix != "tref" {
		t.Errorf("pathstore settings: %+v", cfg)
	}
	if cfg.PDFFallbackPdftotext {
		t.Error("pdf fallback should be disabled by file")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("validate: %v", err)
	}
}

func TestMergeFile_Errors(t *testing.T) {
	dir := t.TempDir()

	cfg := Default()
	if err := cfg.MergeFile(filepath.Join(dir, "missing.toml")); err == nil {
		t.Error("expected error for missing file")
	}

	tests := map[string]string{
		"syntax":   "[server\nport = 1",
		"unknown":  "[server]\ncolour = \"blue\"\n",
		"duration": "[store]\nttl = \"soon\"\n",
	}
	for name, data := range tests {
		path := filepath.Join(dir, name+".toml")
		if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
			t.Fatal(err)
		}
		cfg := Default()
		err := cfg.MergeFile(path)
		var pe *ParseError
		if !errors.As(err, &pe) {
			t.Errorf("%s: expected *ParseError, got %v", name, err)
			continue
		}
		if pe.Path != path {
			t.Errorf("%s: path = %q", name, pe.Path)
		}
	}
}

func TestValidate(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err == nil {
		t.Error("expected error without api key")
	}
	cfg.APIKey = "k"
	if err := cfg.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	cfg.PathstoreURL = "http://x"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error without pathstore key")
	}
	cfg.PathstoreAPIKey = "p"
	cfg.LogLevel = "loud"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for bad log level")
	}
}
