package gorm

import (
	"context"

	"go.uber.org/fx"
	"gorm.io/gorm"

	"github.com/tigerroll/mapchat/internal/adapter/database"
	"github.com/tigerroll/mapchat/internal/config"
)

// NewProviderFromConfig decodes the database section and builds a Provider.
// The pool is closed when the Fx application stops.
func NewProviderFromConfig(lc fx.Lifecycle, cfg *config.Config) (*Provider, error) {
	dbCfg, err := database.DecodeConfig(cfg.MapChat.Database)
	if err != nil {
		return nil, err
	}
	p := NewProvider(dbCfg)
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return p.Close()
		},
	})
	return p, nil
}

// NewDB exposes the provider's *gorm.DB to the container.
func NewDB(p *Provider) (*gorm.DB, error) {
	return p.DB()
}

// Module provides *Provider and *gorm.DB.
var Module = fx.Options(
	fx.Provide(NewProviderFromConfig, NewDB),
)
