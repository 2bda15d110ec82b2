package telemetry

import (
	"context"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"

	"github.com/tigerroll/mapchat/internal/config"
	"github.com/tigerroll/mapchat/internal/support/logger"
)

// NewTracerProvider sets up tracing and flushes pending spans on stop.
func NewTracerProvider(lc fx.Lifecycle, cfg *config.Config) (trace.TracerProvider, error) {
	tp, shutdown, err := Setup(context.Background(), cfg.MapChat.Tracing)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			if err := shutdown(ctx); err != nil {
				logger.Warnf("Failed to shut down tracer provider: %v", err)
			}
			return nil
		},
	})
	return tp, nil
}

// Module provides the tracer provider. Components trace through the
// global provider, so the app forces construction with fx.Invoke.
var Module = fx.Options(
	fx.Provide(NewTracerProvider),
	fx.Invoke(func(trace.TracerProvider) {}),
)
