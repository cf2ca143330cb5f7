// Package config loads the application settings from .env files and CV_* environment
// variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/goliatone/go-cvbuilder/cv"
	"github.com/goliatone/go-cvbuilder/export"
)

// Config holds the application configuration.
type Config struct {
	Server  ServerConfig
	Storage StorageConfig
	Log     LogConfig
	Export  ExportConfig
	Session SessionConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr string
}

// StorageConfig locates persisted state.
type StorageConfig struct {
	DataDir string
}

// KVDir holds the key/value blobs.
func (s StorageConfig) KVDir() string { return filepath.Join(s.DataDir, "kv") }

// DatabasePath is the SQLite file holding snapshots and export history.
func (s StorageConfig) DatabasePath() string { return filepath.Join(s.DataDir, "cvbuilder.db") }

// ArtifactDir receives exported files.
func (s StorageConfig) ArtifactDir() string { return filepath.Join(s.DataDir, "exports") }

// BatchDir is scanned for CV JSON files by the batch export command.
func (s StorageConfig) BatchDir() string { return filepath.Join(s.DataDir, "batch") }

// LogConfig holds logger settings.
type LogConfig struct {
	Level string
	File  string
}

// ExportConfig holds export settings.
type ExportConfig struct {
	ChromePath      string
	RasterTimeout   time.Duration
	Quality         export.Quality
	DefaultStrategy export.StrategyName
	HistoryMaxAge   time.Duration
}

// SessionConfig holds editing session settings.
type SessionConfig struct {
	AutosaveDebounce time.Duration
	SnapshotInterval time.Duration
	DecorativeSeed   int64
}

// Defaults returns a Config with sensible defaults.
func Defaults() Config {
	return Config{
		Server:  ServerConfig{Addr: "127.0.0.1:8085"},
		Storage: StorageConfig{DataDir: "./data"},
		Log:     LogConfig{Level: "info"},
		Export: ExportConfig{
			RasterTimeout:   export.DefaultRasterTimeout,
			Quality:         export.QualityHigh,
			DefaultStrategy: export.StrategyRaster,
			HistoryMaxAge:   30 * 24 * time.Hour,
		},
		Session: SessionConfig{
			AutosaveDebounce: time.Second,
			SnapshotInterval: 30 * time.Second,
			DecorativeSeed:   1,
		},
	}
}

// Load reads .env files (missing files are ignored), applies environment overrides
// on top of Defaults and validates the result. With no files, ./.env is read.
func Load(files ...string) (Config, error) {
	_ = godotenv.Load(files...)

	def := Defaults()
	cfg := Config{
		Server:  ServerConfig{Addr: getEnv("CV_ADDR", def.Server.Addr)},
		Storage: StorageConfig{DataDir: getEnv("CV_DATA_DIR", def.Storage.DataDir)},
		Log: LogConfig{
			Level: strings.ToLower(getEnv("CV_LOG_LEVEL", def.Log.Level)),
			File:  getEnv("CV_LOG_FILE", def.Log.File),
		},
		Export: ExportConfig{
			ChromePath:      getEnv("CV_CHROME_PATH", def.Export.ChromePath),
			RasterTimeout:   getEnvDuration("CV_RASTER_TIMEOUT", def.Export.RasterTimeout),
			Quality:         export.Quality(strings.ToLower(getEnv("CV_QUALITY", string(def.Export.Quality)))),
			DefaultStrategy: export.StrategyName(strings.ToLower(getEnv("CV_DEFAULT_STRATEGY", string(def.Export.DefaultStrategy)))),
			HistoryMaxAge:   getEnvDuration("CV_HISTORY_MAX_AGE", def.Export.HistoryMaxAge),
		},
		Session: SessionConfig{
			AutosaveDebounce: getEnvDuration("CV_AUTOSAVE_DEBOUNCE", def.Session.AutosaveDebounce),
			SnapshotInterval: getEnvDuration("CV_SNAPSHOT_INTERVAL", def.Session.SnapshotInterval),
			DecorativeSeed:   getEnvInt64("CV_DECORATIVE_SEED", def.Session.DecorativeSeed),
		},
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the values that would otherwise fail later at first use.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Server.Addr) == "" {
		return invalid("CV_ADDR is required")
	}
	if strings.TrimSpace(c.Storage.DataDir) == "" {
		return invalid("CV_DATA_DIR is required")
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return invalid(fmt.Sprintf("CV_LOG_LEVEL %q is not one of debug, info, warn, error", c.Log.Level))
	}
	switch c.Export.Quality {
	case export.QualityHigh, export.QualityMedium, export.QualityLow:
	default:
		return invalid(fmt.Sprintf("CV_QUALITY %q is not one of high, medium, low", c.Export.Quality))
	}
	switch c.Export.DefaultStrategy {
	case export.StrategyRaster, export.StrategyVector:
	default:
		return invalid(fmt.Sprintf("CV_DEFAULT_STRATEGY %q is not one of raster, vector", c.Export.DefaultStrategy))
	}
	if c.Export.RasterTimeout <= 0 {
		return invalid("CV_RASTER_TIMEOUT must be positive")
	}
	if c.Session.AutosaveDebounce <= 0 || c.Session.SnapshotInterval <= 0 {
		return invalid("CV_AUTOSAVE_DEBOUNCE and CV_SNAPSHOT_INTERVAL must be positive")
	}
	return nil
}

func invalid(msg string) error {
	return cv.NewError(cv.KindValidation, msg, nil)
}

func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// getEnvDuration accepts Go durations ("1.5s") or a bare number of milliseconds.
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	if parsed, err := time.ParseDuration(value); err == nil {
		return parsed
	}
	if ms, err := strconv.Atoi(value); err == nil {
		return time.Duration(ms) * time.Millisecond
	}
	return defaultValue
}
