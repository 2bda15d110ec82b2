// Package gorm opens and manages the GORM connection to the schema store.
package gorm

import (
	"context"
	"fmt"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/tigerroll/mapchat/internal/adapter/database"
	"github.com/tigerroll/mapchat/internal/support/logger"
)

// DialectorFactory generates a gorm.Dialector from a database.Config.
type DialectorFactory func(cfg database.Config) (gorm.Dialector, error)

var (
	dialectorRegistry = make(map[string]DialectorFactory)
	dialectorMutex    sync.RWMutex
)

// RegisterDialector registers a DialectorFactory for the given database type.
// Dialect packages call it from init.
func RegisterDialector(dbType string, factory DialectorFactory) {
	dialectorMutex.Lock()
	defer dialectorMutex.Unlock()
	if _, exists := dialectorRegistry[dbType]; exists {
		logger.Warnf("Dialector for type '%s' already registered. Overwriting.", dbType)
	}
	dialectorRegistry[dbType] = factory
}

// GetDialectorFactory retrieves the DialectorFactory for dbType.
func GetDialectorFactory(dbType string) (DialectorFactory, error) {
	dialectorMutex.RLock()
	defer dialectorMutex.RUnlock()
	factory, ok := dialectorRegistry[dbType]
	if !ok {
		return nil, fmt.Errorf("no dialector registered for database type: %s", dbType)
	}
	return factory, nil
}

// Provider owns the single connection pool to the schema store.
// The pool is opened lazily on first use.
type Provider struct {
	cfg database.Config
	db  *gorm.DB
	mu  sync.Mutex
}

// NewProvider creates a Provider for cfg. No connection is opened yet.
func NewProvider(cfg database.Config) *Provider {
	return &Provider{cfg: cfg}
}

// Config returns the settings the provider was created with.
func (p *Provider) Config() database.Config {
	return p.cfg
}

// DB returns the shared *gorm.DB, opening it on first call.
func (p *Provider) DB() (*gorm.DB, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.db != nil {
		return p.db, nil
	}
	db, err := Open(p.cfg)
	if err != nil {
		return nil, err
	}
	p.db = db
	logger.Infof("Opened %s database: %s", p.cfg.Type, p.cfg.Path)
	return db, nil
}

// Ping verifies the connection is alive.
func (p *Provider) Ping(ctx context.Context) error {
	db, err := p.DB()
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close closes the pool if it was opened.
func (p *Provider) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.db == nil {
		return nil
	}
	sqlDB, err := p.db.DB()
	if err != nil {
		return err
	}
	p.db = nil
	logger.Debugf("Closing %s database: %s", p.cfg.Type, p.cfg.Path)
	return sqlDB.Close()
}

// Open establishes a GORM connection for cfg and applies the pool settings.
func Open(cfg database.Config) (*gorm.DB, error) {
	dialectorFactory, err := GetDialectorFactory(cfg.Type)
	if err != nil {
		return nil, err
	}
	dialector, err := dialectorFactory(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create dialector for %s: %w", cfg.Type, err)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: NewGormLogger(cfg.LogLevel),
		// Writes that need atomicity open their own transaction.
		SkipDefaultTransaction: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open GORM connection: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	if cfg.Pool.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.Pool.MaxOpenConns)
	}
	if cfg.Pool.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.Pool.MaxIdleConns)
	}
	if cfg.Pool.ConnMaxLifetimeMinutes > 0 {
		sqlDB.SetConnMaxLifetime(time.Duration(cfg.Pool.ConnMaxLifetimeMinutes) * time.Minute)
	}
	return db, nil
}
