package ingest

import (
	"go.uber.org/fx"

	"github.com/tigerroll/mapchat/internal/metrics"
	"github.com/tigerroll/mapchat/internal/places"
	"github.com/tigerroll/mapchat/internal/repository"
)

// NewServiceFromDeps adapts NewService to the concrete Places client.
func NewServiceFromDeps(repo *repository.LocationRepository, client *places.Client, recorder metrics.Recorder) *Service {
	return NewService(repo, client, recorder)
}

// Module provides the ingestion service.
var Module = fx.Options(
	fx.Provide(NewServiceFromDeps),
)
