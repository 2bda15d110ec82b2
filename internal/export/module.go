package export

import (
	"context"

	"go.uber.org/fx"

	"github.com/tigerroll/mapchat/internal/config"
	"github.com/tigerroll/mapchat/internal/repository"
)

// NewSinkFromConfig opens the configured sink and closes it on shutdown.
func NewSinkFromConfig(lc fx.Lifecycle, cfg *config.Config) (Sink, error) {
	sink, err := NewSink(context.Background(), cfg.MapChat.Export)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return sink.Close()
		},
	})
	return sink, nil
}

// NewServiceFromDeps adapts NewService to the fx graph.
func NewServiceFromDeps(repo *repository.LocationRepository, sink Sink, cfg *config.Config) *Service {
	return NewService(repo, sink, cfg.MapChat.Export)
}

// Module provides the export sink and service.
var Module = fx.Options(
	fx.Provide(NewSinkFromConfig, NewServiceFromDeps),
)
