// Package ingest imports location-history exports into the schema store and
// enriches the visited places through the Places API.
package ingest

import (
	"context"
	"errors"
	"io"

	"github.com/hashicorp/go-multierror"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/tigerroll/mapchat/internal/domain/entity"
	"github.com/tigerroll/mapchat/internal/metrics"
	"github.com/tigerroll/mapchat/internal/places"
	"github.com/tigerroll/mapchat/internal/repository"
	"github.com/tigerroll/mapchat/internal/support/exception"
	"github.com/tigerroll/mapchat/internal/support/logger"
)

const moduleName = "ingest"

var tracer = otel.Tracer("mapchat/ingest")

// DetailsFetcher looks up one place. *places.Client implements it.
type DetailsFetcher interface {
	Details(ctx context.Context, placeID string) (*places.Details, error)
}

// IngestResult summarises one imported export.
type IngestResult struct {
	Segments      int `json:"segments"`
	Visits        int `json:"visits"`
	DuplicateSkip int `json:"duplicates_skipped"`
	NewRawPlaces  int `json:"new_raw_places"`
}

// EnrichResult summarises one enrichment run.
type EnrichResult struct {
	Requested int `json:"requested"`
	Enriched  int `json:"enriched"`
	NotFound  int `json:"not_found"`
	Failed    int `json:"failed"`
}

// UploadResult is the outcome of an upload: import followed by enrichment.
type UploadResult struct {
	Ingest IngestResult `json:"ingest"`
	Enrich EnrichResult `json:"enrich"`
}

// Service imports exports and enriches places.
type Service struct {
	repo     *repository.LocationRepository
	places   DetailsFetcher
	recorder metrics.Recorder
}

// NewService creates a Service.
func NewService(repo *repository.LocationRepository, fetcher DetailsFetcher, recorder metrics.Recorder) *Service {
	if recorder == nil {
		recorder = metrics.NewNoOpRecorder()
	}
	return &Service{repo: repo, places: fetcher, recorder: recorder}
}

// Ingest imports an export in a single transaction. Visits whose start time
// is already stored are skipped, so importing the same export twice is a
// no-op. A malformed export writes nothing.
func (s *Service) Ingest(ctx context.Context, r io.Reader) (*IngestResult, error) {
	ctx, span := tracer.Start(ctx, "ingest.Ingest")
	defer span.End()

	result, err := s.ingest(ctx, r)
	if err != nil {
		s.recorder.RecordIngest(ctx, 0, 0, metrics.OutcomeError)
		span.RecordError(err)
		span.SetStatus(codes.Error, exception.Message(err))
		return nil, err
	}
	s.recorder.RecordIngest(ctx, result.Visits, result.NewRawPlaces, metrics.OutcomeSuccess)
	span.SetAttributes(
		attribute.Int("ingest.visits", result.Visits),
		attribute.Int("ingest.raw_places", result.NewRawPlaces),
	)
	logger.Infof("Imported %d visits (%d duplicates skipped) and %d new places from %d segments.",
		result.Visits, result.DuplicateSkip, result.NewRawPlaces, result.Segments)
	return result, nil
}

func (s *Service) ingest(ctx context.Context, r io.Reader) (*IngestResult, error) {
	batch, err := ParseExport(r)
	if err != nil {
		return nil, err
	}

	result := &IngestResult{Segments: batch.Segments}
	err = s.repo.Transaction(ctx, func(tx *repository.LocationRepository) error {
		existing, err := tx.VisitStartTimes(ctx)
		if err != nil {
			return err
		}

		// Only visits already stored count as duplicates; every entry of
		// this export becomes its own visit.
		fresh := make([]entity.Visit, 0, len(batch.Visits))
		for _, v := range batch.Visits {
			if _, dup := existing[v.StartTime]; dup {
				result.DuplicateSkip++
				continue
			}
			fresh = append(fresh, v)
		}
		if err := tx.InsertVisits(ctx, fresh); err != nil {
			return err
		}
		result.Visits = len(fresh)

		n, err := tx.InsertRawPlaces(ctx, batch.RawPlaces)
		if err != nil {
			return err
		}
		result.NewRawPlaces = int(n)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Enrich fetches details for visited places. Without refresh only places
// that were never enriched are fetched; with refresh every visited place is.
func (s *Service) Enrich(ctx context.Context, refresh bool) (*EnrichResult, error) {
	var (
		ids []string
		err error
	)
	if refresh {
		ids, err = s.repo.VisitedPlaceIDs(ctx)
	} else {
		ids, err = s.repo.PlaceIDsWithoutDetails(ctx)
	}
	if err != nil {
		return nil, err
	}
	return s.EnrichPlaces(ctx, ids)
}

// EnrichPlaces enriches each place in its own transaction. A place that no
// longer exists is logged and skipped. Other failures do not stop the run:
// places enriched so far stay committed and the failures are returned
// together. Cancelling ctx stops the run.
func (s *Service) EnrichPlaces(ctx context.Context, placeIDs []string) (*EnrichResult, error) {
	ctx, span := tracer.Start(ctx, "ingest.EnrichPlaces",
		trace.WithAttributes(attribute.Int("enrich.requested", len(placeIDs))))
	defer span.End()

	result := &EnrichResult{Requested: len(placeIDs)}
	var errs *multierror.Error
	for _, id := range placeIDs {
		if ctx.Err() != nil {
			errs = multierror.Append(errs, ctx.Err())
			break
		}
		err := s.enrichPlace(ctx, id)
		switch {
		case err == nil:
			result.Enriched++
			s.recorder.RecordEnrichment(ctx, metrics.OutcomeSuccess)
		case errors.Is(err, exception.ErrPlaceNotFound):
			result.NotFound++
			s.recorder.RecordEnrichment(ctx, metrics.OutcomeNotFound)
			logger.Warnf("Place %s was not found; it stays without details.", id)
		default:
			result.Failed++
			s.recorder.RecordEnrichment(ctx, metrics.OutcomeError)
			logger.Errorf("Failed to enrich place %s: %v", id, err)
			errs = multierror.Append(errs, err)
		}
	}

	logger.Infof("Enrichment finished: %d requested, %d enriched, %d not found, %d failed.",
		result.Requested, result.Enriched, result.NotFound, result.Failed)
	if err := errs.ErrorOrNil(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "enrichment failed")
		return result, err
	}
	return result, nil
}

func (s *Service) enrichPlace(ctx context.Context, placeID string) error {
	if s.places == nil {
		return exception.New(exception.KindConfig, moduleName, "no places client configured", nil)
	}
	details, err := s.places.Details(ctx, placeID)
	if err != nil {
		return err
	}
	return s.repo.SavePlace(ctx, places.Flatten(placeID, details))
}

// Upload imports an export and then enriches the places it introduced.
// An enrichment failure is returned together with the import result, which
// is already committed.
func (s *Service) Upload(ctx context.Context, r io.Reader) (*UploadResult, error) {
	ingested, err := s.Ingest(ctx, r)
	if err != nil {
		return nil, err
	}
	result := &UploadResult{Ingest: *ingested}
	enriched, err := s.Enrich(ctx, false)
	if enriched != nil {
		result.Enrich = *enriched
	}
	return result, err
}

// Stats returns row counts of the location tables.
func (s *Service) Stats(ctx context.Context) (repository.Stats, error) {
	return s.repo.Stats(ctx)
}
