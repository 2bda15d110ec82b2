package migration

import (
	"go.uber.org/fx"
	"gorm.io/gorm"

	gormadapter "github.com/tigerroll/mapchat/internal/adapter/database/gorm"
)

// NewMigratorFromProvider builds a Migrator over the provider's pool.
func NewMigratorFromProvider(p *gormadapter.Provider, db *gorm.DB) (*Migrator, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	return NewMigrator(sqlDB, p.Config()), nil
}

// Module provides *Migrator.
var Module = fx.Options(
	fx.Provide(NewMigratorFromProvider),
)
