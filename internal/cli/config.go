package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/pelletier/go-toml/v2"

	"github.com/runar-labs/runar-sqlite/sqlite"
)

// Config is the CLI configuration, resolved as flags > environment >
// config file > defaults. Environment variables use the RUNAR_SQLITE_
// prefix.
type Config struct {
	// Database is the SQLite file path.
	Database string `toml:"database" env:"DATABASE"`

	// BusyTimeoutMS is the SQLite busy handler timeout in milliseconds.
	BusyTimeoutMS int `toml:"busy_timeout_ms" env:"BUSY_TIMEOUT_MS"`

	// Watch enables the external-change watcher on open.
	Watch bool `toml:"watch" env:"WATCH"`
}

// defaultConfig returns the built-in defaults.
func defaultConfig() Config {
	return Config{
		Database:      defaultDatabasePath(),
		BusyTimeoutMS: 5000,
	}
}

func defaultDatabasePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "runar.db"
	}
	return filepath.Join(home, ".runar", "runar.db")
}

func defaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".runar", "sqlite.toml")
}

// LoadConfig reads the TOML config file (when present) and applies
// environment overrides. An empty path uses ~/.runar/sqlite.toml; a
// missing file is not an error, an explicitly given missing file is.
func LoadConfig(path string) (Config, error) {
	cfg := defaultConfig()

	explicit := path != ""
	if !explicit {
		path = defaultConfigPath()
	}

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := toml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("parsing %s: %w", path, err)
			}
		case os.IsNotExist(err) && !explicit:
			// Defaults apply.
		default:
			return Config{}, fmt.Errorf("reading %s: %w", path, err)
		}
	}

	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: "RUNAR_SQLITE_"}); err != nil {
		return Config{}, fmt.Errorf("parsing environment: %w", err)
	}

	return cfg, nil
}

// serviceConfig converts the CLI config into a service config. The CLI
// never declares a schema; it operates on whatever the database holds.
func (c Config) serviceConfig() sqlite.Config {
	svcCfg := sqlite.NewConfig(c.Database, sqlite.Schema{})
	svcCfg.BusyTimeout = time.Duration(c.BusyTimeoutMS) * time.Millisecond
	svcCfg.WatchExternal = c.Watch
	return svcCfg
}
