// Package migration initializes and tears down the schema store with
// golang-migrate, reading the SQL scripts embedded in this package.
package migration

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"

	"github.com/golang-migrate/migrate/v4"
	migratedb "github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"github.com/tigerroll/mapchat/internal/adapter/database"
	"github.com/tigerroll/mapchat/internal/support/exception"
	"github.com/tigerroll/mapchat/internal/support/logger"
)

const moduleName = "migration"

// migrationsFS contains one directory of numbered up/down scripts per database type.
//
//go:embed all:resources/migrations
var migrationsFS embed.FS

// MigrationsFS returns the embedded scripts rooted at the per-type directories.
func MigrationsFS() fs.FS {
	sub, err := fs.Sub(migrationsFS, "resources/migrations")
	if err != nil {
		panic(err)
	}
	return sub
}

// Migrator applies (Up) or removes (Down) the schema.
type Migrator struct {
	sqlDB  *sql.DB
	dbType string
	table  string
	source fs.FS
}

// NewMigrator creates a Migrator for the pool sqlDB.
func NewMigrator(sqlDB *sql.DB, cfg database.Config) *Migrator {
	table := cfg.MigrationsTable
	if table == "" {
		table = database.DefaultMigrationsTable
	}
	return &Migrator{
		sqlDB:  sqlDB,
		dbType: cfg.Type,
		table:  table,
		source: MigrationsFS(),
	}
}

// Up creates every table that does not exist yet. Running it on an
// up-to-date database is a no-op.
func (m *Migrator) Up(ctx context.Context) error {
	return m.run(ctx, "up", func(mi *migrate.Migrate) error { return mi.Up() })
}

// Down drops every table, discarding all ingested data and chat history.
func (m *Migrator) Down(ctx context.Context) error {
	return m.run(ctx, "down", func(mi *migrate.Migrate) error { return mi.Down() })
}

// Version reports the applied schema version. ok is false on an empty database.
func (m *Migrator) Version() (version uint, dirty bool, ok bool, err error) {
	mi, closeSource, err := m.instance()
	if err != nil {
		return 0, false, false, err
	}
	defer closeSource()

	version, dirty, err = mi.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, false, nil
	}
	if err != nil {
		return 0, false, false, err
	}
	return version, dirty, true, nil
}

func (m *Migrator) run(ctx context.Context, command string, apply func(*migrate.Migrate) error) error {
	logger.Infof("Executing migration '%s' (type: %s, table: %s)", command, m.dbType, m.table)

	mi, closeSource, err := m.instance()
	if err != nil {
		return exception.New(exception.KindStorage, moduleName, "failed to prepare migration", err)
	}
	defer closeSource()

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			mi.GracefulStop <- true
		case <-done:
		}
	}()

	if err := apply(mi); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return exception.Newf(exception.KindStorage, moduleName, "migration '%s' failed", command, err)
	}
	logger.Infof("Migration '%s' completed.", command)
	return nil
}

// instance builds a migrate.Migrate over the shared pool. Only the source is
// closed afterwards; closing the database driver would close the pool.
func (m *Migrator) instance() (*migrate.Migrate, func(), error) {
	sourceDriver, err := iofs.New(m.source, m.dbType)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create iofs source driver for %s: %w", m.dbType, err)
	}
	closeSource := func() {
		if err := sourceDriver.Close(); err != nil {
			logger.Warnf("Failed to close migration source: %v", err)
		}
	}

	dbDriver, err := m.databaseDriver()
	if err != nil {
		closeSource()
		return nil, nil, err
	}

	mi, err := migrate.NewWithInstance("iofs", sourceDriver, m.dbType, dbDriver)
	if err != nil {
		closeSource()
		return nil, nil, fmt.Errorf("failed to create migrate instance: %w", err)
	}
	mi.Log = migrateLogger{}
	return mi, closeSource, nil
}

func (m *Migrator) databaseDriver() (migratedb.Driver, error) {
	switch m.dbType {
	case "sqlite":
		return sqlite.WithInstance(m.sqlDB, &sqlite.Config{MigrationsTable: m.table})
	default:
		return nil, fmt.Errorf("unsupported database type for migration: %s", m.dbType)
	}
}

// migrateLogger adapts migrate.Logger to the application logger.
type migrateLogger struct{}

func (migrateLogger) Printf(format string, v ...interface{}) {
	logger.Debugf("[migrate] "+format, v...)
}

func (migrateLogger) Verbose() bool {
	return logger.Enabled(logger.LevelDebug)
}
