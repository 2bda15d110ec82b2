// Package database holds the connection settings shared by the database
// adapters and the migration runner.
package database

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// PoolConfig holds database connection pool settings.
type PoolConfig struct {
	MaxOpenConns           int `yaml:"max_open_conns"`
	MaxIdleConns           int `yaml:"max_idle_conns"`
	ConnMaxLifetimeMinutes int `yaml:"conn_max_lifetime_minutes"`
}

// Config holds the settings of the schema store.
type Config struct {
	// Type selects the registered dialector. Only "sqlite" ships with mapchat.
	Type string `yaml:"type"`
	// Path is the database file, or ":memory:".
	Path string `yaml:"path"`
	// BusyTimeoutMS is how long SQLite waits on a locked database.
	BusyTimeoutMS int `yaml:"busy_timeout_ms"`
	// LogLevel is the GORM log level (SILENT, ERROR, WARN, INFO).
	LogLevel string `yaml:"log_level"`
	// MigrationsTable records applied schema versions.
	MigrationsTable string     `yaml:"migrations_table"`
	Pool            PoolConfig `yaml:"pool"`
}

// DefaultMigrationsTable is used when Config.MigrationsTable is empty.
const DefaultMigrationsTable = "schema_migrations"

// DecodeConfig converts the free-form `mapchat.database` section into a Config.
// Values coming from environment variables are strings, so input is weakly typed.
func DecodeConfig(raw map[string]interface{}) (Config, error) {
	cfg := Config{
		Type:            "sqlite",
		BusyTimeoutMS:   5000,
		LogLevel:        "SILENT",
		MigrationsTable: DefaultMigrationsTable,
		// A single connection serializes writers and keeps ":memory:" databases alive.
		Pool: PoolConfig{MaxOpenConns: 1, MaxIdleConns: 1},
	}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &cfg,
		TagName:          "yaml",
		WeaklyTypedInput: true,
	})
	if err != nil {
		return Config{}, fmt.Errorf("failed to create database config decoder: %w", err)
	}
	if err := decoder.Decode(raw); err != nil {
		return Config{}, fmt.Errorf("failed to decode database config: %w", err)
	}
	if cfg.Path == "" {
		return Config{}, fmt.Errorf("database path must not be empty")
	}
	return cfg, nil
}
