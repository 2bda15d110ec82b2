package web

import (
	"context"

	"go.uber.org/fx"

	"github.com/tigerroll/mapchat/internal/agent"
	"github.com/tigerroll/mapchat/internal/config"
	"github.com/tigerroll/mapchat/internal/export"
	"github.com/tigerroll/mapchat/internal/ingest"
	"github.com/tigerroll/mapchat/internal/metrics"
	"github.com/tigerroll/mapchat/internal/support/logger"
)

// NewServerFromDeps wires the server to the application services.
func NewServerFromDeps(cfg *config.Config, chat *agent.Agent, uploads *ingest.Service, visits *export.Service, recorder *metrics.PrometheusRecorder) (*Server, error) {
	return NewServer(cfg.MapChat.HTTP, chat, uploads, visits, recorder.Handler())
}

// RegisterLifecycle starts the server with the application and drains it on stop.
func RegisterLifecycle(lc fx.Lifecycle, shutdowner fx.Shutdowner, s *Server) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := s.Start(); err != nil {
					logger.Errorf("HTTP server stopped: %v", err)
					if err := shutdowner.Shutdown(fx.ExitCode(1)); err != nil {
						logger.Errorf("Failed to shut down application: %v", err)
					}
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Infof("Shutting down HTTP server.")
			return s.Shutdown(ctx)
		},
	})
}

// Module provides the server and runs it for the lifetime of the application.
var Module = fx.Options(
	fx.Provide(NewServerFromDeps),
	fx.Invoke(RegisterLifecycle),
)
