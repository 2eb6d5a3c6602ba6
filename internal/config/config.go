package config

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/pelletier/go-toml/v2"
)

type Config struct {
	Port string

	// Auth
	APIKey string

	// Pathstore export; disabled when PathstoreURL is empty.
	PathstoreURL    string
	PathstoreAPIKey string
	PathstorePrefix string

	// Upload limits
	MaxUploadBytes int64

	// Document store
	DocumentTTL     time.Duration
	CleanupInterval time.Duration
	BuildLevels     bool

	// PDF
	PDFFallbackPdftotext bool

	LogLevel string
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Port:                 "8090",
		PathstorePrefix:      "tref",
		MaxUploadBytes:       52428800, // 50MB
		DocumentTTL:          1 * time.Hour,
		CleanupInterval:      5 * time.Minute,
		PDFFallbackPdftotext: true,
		LogLevel:             "info",
	}
}

// Load reads the TOML file named by TREF_CONFIG, if any, then applies
// environment overrides.
func Load() (Config, error) {
	cfg := Default()
	if path := os.Getenv("TREF_CONFIG"); path != "" {
		if err := cfg.MergeFile(path); err != nil {
			return cfg, err
		}
	}
	cfg.applyEnv()
	cfg.normalize()
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.Port = envOr("PORT", c.Port)
	c.APIKey = envOr("TREF_API_KEY", c.APIKey)

	c.PathstoreURL = envOr("PATHSTORE_URL", c.PathstoreURL)
	c.PathstoreAPIKey = envOr("PATHSTORE_API_KEY", c.PathstoreAPIKey)
	c.PathstorePrefix = envOr("PATHSTORE_PREFIX", c.PathstorePrefix)

	c.MaxUploadBytes = envInt64("MAX_UPLOAD_BYTES", c.MaxUploadBytes)

	c.DocumentTTL = envDuration("DOCUMENT_TTL", c.DocumentTTL)
	c.CleanupInterval = envDuration("CLEANUP_INTERVAL", c.CleanupInterval)
	c.BuildLevels = envBool("BUILD_LEVELS", c.BuildLevels)

	c.PDFFallbackPdftotext = envBool("PDF_FALLBACK_PDFTOTEXT", c.PDFFallbackPdftotext)

	c.LogLevel = envOr("LOG_LEVEL", c.LogLevel)
}

func (c *Config) normalize() {
	def := Default()
	if c.Port == "" {
		c.Port = def.Port
	}
	if c.MaxUploadBytes <= 0 {
		c.MaxUploadBytes = def.MaxUploadBytes
	}
	if c.DocumentTTL < 0 {
		c.DocumentTTL = def.DocumentTTL
	}
	if c.CleanupInterval <= 0 {
		c.CleanupInterval = def.CleanupInterval
	}
}

func (c Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("TREF_API_KEY is required")
	}
	if c.PathstoreURL != "" && c.PathstoreAPIKey == "" {
		return fmt.Errorf("PATHSTORE_API_KEY is required when PATHSTORE_URL is set")
	}
	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	return nil
}

// SlogLevel parses LogLevel.
func (c Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("invalid LOG_LEVEL %q: %w", c.LogLevel, err)
	}
	return level, nil
}

// fileConfig mirrors the TOML layout. Pointers distinguish unset keys.
type fileConfig struct {
	Server struct {
		Port           string `toml:"port"`
		APIKey         string `toml:"api_key"`
		MaxUploadBytes int64  `toml:"max_upload_bytes"`
		LogLevel       string `toml:"log_level"`
	} `toml:"server"`
	Store struct {
		TTL             string `toml:"ttl"`
		CleanupInterval string `toml:"cleanup_interval"`
		BuildLevels     *bool  `toml:"build_levels"`
	} `toml:"store"`
	Pathstore struct {
		URL    string `toml:"url"`
		APIKey string `toml:"api_key"`
		Prefix string `toml:"prefix"`
	} `toml:"pathstore"`
	Import struct {
		PDFFallbackPdftotext *bool `toml:"pdf_fallback_pdftotext"`
	} `toml:"import"`
}

// ParseError represents an error while parsing a configuration file.
type ParseError struct {
	Path    string
	Line    int
	Column  int
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("parse error in %s at line %d, column %d: %s", e.Path, e.Line, e.Column, e.Message)
	}
	return fmt.Sprintf("parse error in %s: %s", e.Path, e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// MergeFile overlays the values set in a TOML file. A missing file is an
// error: the caller asked for it explicitly.
func (c *Config) MergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file %s: %w", path, err)
	}
	return c.merge(path, data)
}

func (c *Config) merge(source string, data []byte) error {
	var fc fileConfig
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&fc); err != nil {
		pe := &ParseError{Path: source, Message: err.Error(), Err: err}
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			pe.Line, pe.Column = derr.Position()
		}
		return pe
	}

	setString(&c.Port, fc.Server.Port)
	setString(&c.APIKey, fc.Server.APIKey)
	setString(&c.LogLevel, fc.Server.LogLevel)
	if fc.Server.MaxUploadBytes > 0 {
		c.MaxUploadBytes = fc.Server.MaxUploadBytes
	}

	if err := setDuration(&c.DocumentTTL, fc.Store.TTL); err != nil {
		return &ParseError{Path: source, Message: "store.ttl: " + err.Error(), Err: err}
	}
	if err := setDuration(&c.CleanupInterval, fc.Store.CleanupInterval); err != nil {
		return &ParseError{Path: source, Message: "store.cleanup_interval: " + err.Error(), Err: err}
	}
	if fc.Store.BuildLevels != nil {
		c.BuildLevels = *fc.Store.BuildLevels
	}

	setString(&c.PathstoreURL, fc.Pathstore.URL)
	setString(&c.PathstoreAPIKey, fc.Pathstore.APIKey)
	setString(&c.PathstorePrefix, fc.Pathstore.Prefix)

	if fc.Import.PDFFallbackPdftotext != nil {
		c.PDFFallbackPdftotext = *fc.Import.PDFFallbackPdftotext
	}
	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setDuration(dst *time.Duration, v string) error {
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return err
	}
	*dst = d
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
