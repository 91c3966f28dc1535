// Package config loads application configuration from environment variables.
// All variables use the MATHSHEET_ prefix.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application settings that are not LLM provider specific.
type Config struct {
	Server ServerConfig
	Cache  CacheConfig
	Log    LogConfig
	PDF    PDFConfig

	// DBPath overrides the default SQLite location.
	DBPath string
	// SettingsPath points at a YAML generation preset.
	SettingsPath string
	// Locale selects worksheet labels ("zh" or "en").
	Locale string
	// BatchDelay is the pause between worksheet sets of one batch.
	BatchDelay time.Duration
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string
	Port int
}

// Addr returns host:port.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// CacheConfig holds Redis settings. An empty URL disables the shared
// history store.
type CacheConfig struct {
	URL        string
	HistoryKey string
	MaxEntries int
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string
	Format string
}

// PDFConfig holds PDF rendering settings.
type PDFConfig struct {
	// FontPath is a TTF font with CJK coverage, required for Chinese labels.
	FontPath string
}

// Load reads configuration from environment variables with MATHSHEET_ prefix.
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Host: envStr("MATHSHEET_SERVER_HOST", "127.0.0.1"),
			Port: envInt("MATHSHEET_SERVER_PORT", 8080),
		},
		Cache: CacheConfig{
			URL:        envStr("MATHSHEET_CACHE_URL", ""),
			HistoryKey: envStr("MATHSHEET_CACHE_HISTORY_KEY", "mathsheet:history"),
			MaxEntries: envInt("MATHSHEET_CACHE_HISTORY_MAX", 0),
		},
		Log: LogConfig{
			Level:  envStr("MATHSHEET_LOG_LEVEL", "info"),
			Format: envStr("MATHSHEET_LOG_FORMAT", "text"),
		},
		PDF: PDFConfig{
			FontPath: envStr("MATHSHEET_PDF_FONT", ""),
		},
		DBPath:       envStr("MATHSHEET_DB", ""),
		SettingsPath: envStr("MATHSHEET_SETTINGS", ""),
		Locale:       envStr("MATHSHEET_LOCALE", "zh"),
		BatchDelay:   envDuration("MATHSHEET_BATCH_DELAY", 3*time.Second),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("MATHSHEET_SERVER_PORT out of range: %d", c.Server.Port)
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("MATHSHEET_LOG_FORMAT must be 'text' or 'json', got %q", c.Log.Format)
	}
	if c.BatchDelay < 0 {
		return fmt.Errorf("MATHSHEET_BATCH_DELAY must not be negative")
	}
	return nil
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
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
