// Package app composes the Fx modules that make up each mapchat command.
package app

import (
	"context"

	"go.uber.org/fx"

	gormadapter "github.com/tigerroll/mapchat/internal/adapter/database/gorm"
	_ "github.com/tigerroll/mapchat/internal/adapter/database/gorm/sqlite"
	"github.com/tigerroll/mapchat/internal/adapter/database/migration"
	"github.com/tigerroll/mapchat/internal/agent"
	"github.com/tigerroll/mapchat/internal/config"
	"github.com/tigerroll/mapchat/internal/export"
	"github.com/tigerroll/mapchat/internal/ingest"
	"github.com/tigerroll/mapchat/internal/llm"
	"github.com/tigerroll/mapchat/internal/metrics"
	"github.com/tigerroll/mapchat/internal/places"
	"github.com/tigerroll/mapchat/internal/repository"
	"github.com/tigerroll/mapchat/internal/support/logger"
	"github.com/tigerroll/mapchat/internal/telemetry"
	"github.com/tigerroll/mapchat/internal/web"
)

// Params are the inputs every command shares.
type Params struct {
	EnvFilePath    string
	EmbeddedConfig config.EmbeddedConfig
}

// Core is the storage and observability stack used by every command.
// It does not touch the schema; add AutoMigrate for that.
func Core(p Params) fx.Option {
	return fx.Options(
		fx.Supply(
			p.EmbeddedConfig,
			fx.Annotate(p.EnvFilePath, fx.ResultTags(`name:"envFilePath"`)),
		),
		logger.Module,
		config.Module,
		gormadapter.Module,
		migration.Module,
		repository.Module,
		metrics.Module,
		telemetry.Module,
	)
}

// AutoMigrate brings the schema up to date when the application starts.
var AutoMigrate = fx.Invoke(func(lc fx.Lifecycle, m *migration.Migrator) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return m.Up(ctx)
		},
	})
})

// Ingestion adds the Places client and the ingestion service.
var Ingestion = fx.Options(places.Module, ingest.Module)

// Chat adds the LLM client and the agent. It needs LLM credentials.
var Chat = fx.Options(llm.Module, agent.Module)

// Export adds the Parquet export service and its sink.
var Export = export.Module

// Web adds the HTTP server and everything it serves.
var Web = fx.Options(Ingestion, Chat, Export, web.Module)

// Serve is the full long-running web application.
func Serve(p Params) []fx.Option {
	return []fx.Option{Core(p), AutoMigrate, Web}
}
