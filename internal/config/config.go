// Package config loads process configuration from an optional YAML file and
// TEMPO_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	DB       DBConfig
	HTTP     HTTPConfig
	Seed     SeedConfig
	Log      LogConfig
	Snapshot SnapshotConfig
}

type DBConfig struct {
	Path string
}

type HTTPConfig struct {
	Addr string
	// Mode is the gin mode: debug, release or test.
	Mode string
}

type SeedConfig struct {
	File string
}

type LogConfig struct {
	Level      string
	Format     string
	File       string
	MaxSizeMB  int
	MaxBackups int
}

type SnapshotConfig struct {
	// Autosave writes a snapshot when the server shuts down.
	Autosave bool
}

// DefaultConfig returns the configuration used when no file or environment
// override is present.
func DefaultConfig() Config {
	return Config{
		DB:       DBConfig{Path: defaultDBPath()},
		HTTP:     HTTPConfig{Addr: ":8080", Mode: "release"},
		Log:      LogConfig{Level: "info", Format: "text", MaxSizeMB: 10, MaxBackups: 3},
		Snapshot: SnapshotConfig{Autosave: true},
	}
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "tempo.db"
	}
	return filepath.Join(home, ".tempo", "tempo.db")
}

// Load reads configuration. An explicit path must exist; otherwise tempo.yaml
// is looked up in the working directory and $HOME/.tempo, and a missing file
// falls back to defaults. TEMPO_DB_PATH style variables override both.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()

	v := viper.New()
	v.SetConfigType("yaml")
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("tempo")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".tempo"))
		}
	}

	v.SetEnvPrefix("TEMPO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("db.path", cfg.DB.Path)
	v.SetDefault("http.addr", cfg.HTTP.Addr)
	v.SetDefault("http.mode", cfg.HTTP.Mode)
	v.SetDefault("seed.file", cfg.Seed.File)
	v.SetDefault("log.level", cfg.Log.Level)
	v.SetDefault("log.format", cfg.Log.Format)
	v.SetDefault("log.file", cfg.Log.File)
	v.SetDefault("log.max_size_mb", cfg.Log.MaxSizeMB)
	v.SetDefault("log.max_backups", cfg.Log.MaxBackups)
	v.SetDefault("snapshot.autosave", cfg.Snapshot.Autosave)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("reading config: %w", err)
		}
	}

	cfg.DB.Path = v.GetString("db.path")
	cfg.HTTP.Addr = v.GetString("http.addr")
	cfg.HTTP.Mode = v.GetString("http.mode")
	cfg.Seed.File = v.GetString("seed.file")
	cfg.Log.Level = strings.ToLower(v.GetString("log.level"))
	cfg.Log.Format = strings.ToLower(v.GetString("log.format"))
	cfg.Log.File = v.GetString("log.file")
	cfg.Log.MaxSizeMB = v.GetInt("log.max_size_mb")
	cfg.Log.MaxBackups = v.GetInt("log.max_backups")
	cfg.Snapshot.Autosave = v.GetBool("snapshot.autosave")

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

var (
	validLevels  = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	validFormats = map[string]bool{"text": true, "json": true}
	validModes   = map[string]bool{"debug": true, "release": true, "test": true}
)

// Validate reports every invalid value at once.
func (c Config) Validate() error {
	var errs []string
	if c.DB.Path == "" {
		errs = append(errs, "db.path must not be empty")
	}
	if c.HTTP.Addr == "" {
		errs = append(errs, "http.addr must not be empty")
	}
	if !validModes[c.HTTP.Mode] {
		errs = append(errs, fmt.Sprintf("http.mode %q is invalid, must be one of: debug, release, test", c.HTTP.Mode))
	}
	if !validLevels[c.Log.Level] {
		errs = append(errs, fmt.Sprintf("log.level %q is invalid, must be one of: debug, info, warn, error", c.Log.Level))
	}
	if !validFormats[c.Log.Format] {
		errs = append(errs, fmt.Sprintf("log.format %q is invalid, must be one of: text, json", c.Log.Format))
	}
	if c.Log.MaxSizeMB <= 0 {
		errs = append(errs, fmt.Sprintf("log.max_size_mb must be positive, got %d", c.Log.MaxSizeMB))
	}
	if c.Log.MaxBackups < 0 {
		errs = append(errs, fmt.Sprintf("log.max_backups must be non-negative, got %d", c.Log.MaxBackups))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(errs, "; "))
	}
	return nil
}
