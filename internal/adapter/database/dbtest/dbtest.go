// Package dbtest opens migrated in-memory schema stores for tests.
package dbtest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/tigerroll/mapchat/internal/adapter/database"
	gormadapter "github.com/tigerroll/mapchat/internal/adapter/database/gorm"
	_ "github.com/tigerroll/mapchat/internal/adapter/database/gorm/sqlite"
	"github.com/tigerroll/mapchat/internal/adapter/database/migration"
)

// MemoryConfig is an in-memory SQLite configuration. MaxOpenConns is 1 so
// every query sees the same database.
func MemoryConfig() database.Config {
	return database.Config{
		Type:            "sqlite",
		Path:            ":memory:",
		LogLevel:        "SILENT",
		MigrationsTable: database.DefaultMigrationsTable,
		Pool:            database.PoolConfig{MaxOpenConns: 1, MaxIdleConns: 1},
	}
}

// NewProvider returns a provider over a fresh, migrated in-memory database.
// The pool is closed when the test ends.
func NewProvider(t testing.TB) *gormadapter.Provider {
	t.Helper()
	p := gormadapter.NewProvider(MemoryConfig())
	t.Cleanup(func() { _ = p.Close() })

	db, err := p.DB()
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, migration.NewMigrator(sqlDB, p.Config()).Up(context.Background()))
	return p
}

// NewDB is NewProvider for callers that only need the *gorm.DB.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()
	db, err := NewProvider(t).DB()
	require.NoError(t, err)
	return db
}
