package ingest_test

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/tigerroll/mapchat/internal/adapter/database/dbtest"
	"github.com/tigerroll/mapchat/internal/ingest"
	"github.com/tigerroll/mapchat/internal/metrics"
	"github.com/tigerroll/mapchat/internal/places"
	"github.com/tigerroll/mapchat/internal/repository"
	"github.com/tigerroll/mapchat/internal/support/exception"
)

type mockFetcher struct {
	mock.Mock
}

func (m *mockFetcher) Details(ctx context.Context, placeID string) (*places.Details, error) {
	args := m.Called(ctx, placeID)
	d, _ := args.Get(0).(*places.Details)
	return d, args.Error(1)
}

func details(t *testing.T, raw string) *places.Details {
	t.Helper()
	var d places.Details
	require.NoError(t, json.Unmarshal([]byte(raw), &d))
	return &d
}

func newService(t *testing.T, fetcher ingest.DetailsFetcher) (*ingest.Service, *gorm.DB) {
	t.Helper()
	db := dbtest.NewDB(t)
	return ingest.NewService(repository.NewLocationRepository(db), fetcher, metrics.NewNoOpRecorder()), db
}

func count(t *testing.T, db *gorm.DB, table string) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Table(table).Count(&n).Error)
	return n
}

func TestService_IngestOneVisitPerEntry(t *testing.T) {
	svc, db := newService(t, nil)

	result, err := svc.Ingest(context.Background(), openTimeline(t))
	require.NoError(t, err)
	assert.Equal(t, &ingest.IngestResult{Segments: 6, Visits: 4, NewRawPlaces: 3}, result)
	assert.Equal(t, int64(4), count(t, db, "visit"))
	assert.Equal(t, int64(3), count(t, db, "raw_place"))

	var unknown int64
	require.NoError(t, db.Table("visit").Where("place_id = ? AND semantic_type = ?", "ChIJcafe", "UNKNOWN").Count(&unknown).Error)
	assert.Equal(t, int64(1), unknown)
}

func TestService_ReuploadIsNoop(t *testing.T) {
	svc, db := newService(t, nil)
	ctx := context.Background()

	_, err := svc.Ingest(ctx, openTimeline(t))
	require.NoError(t, err)

	result, err := svc.Ingest(ctx, openTimeline(t))
	require.NoError(t, err)
	assert.Equal(t, 0, result.Visits)
	assert.Equal(t, 4, result.DuplicateSkip)
	assert.Equal(t, 0, result.NewRawPlaces)
	assert.Equal(t, int64(4), count(t, db, "visit"))
}

func TestService_SameStartTimeInOneExportKeepsBothVisits(t *testing.T) {
	svc, db := newService(t, nil)
	ctx := context.Background()

	input := `{"semanticSegments":[
		{"startTime":"2024-01-01T00:00:00Z","endTime":"2024-01-01T01:00:00Z","visit":{"topCandidate":{"placeId":"a"}}},
		{"startTime":"2024-01-01T00:00:00Z","endTime":"2024-01-01T02:00:00Z","visit":{"topCandidate":{"placeId":"b"}}}
	]}`
	result, err := svc.Ingest(ctx, strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, 2, result.Visits)
	assert.Zero(t, result.DuplicateSkip)
	assert.Equal(t, int64(2), count(t, db, "visit"))

	result, err = svc.Ingest(ctx, strings.NewReader(input))
	require.NoError(t, err)
	assert.Zero(t, result.Visits)
	assert.Equal(t, 2, result.DuplicateSkip)
	assert.Equal(t, int64(2), count(t, db, "visit"))
}

func TestService_MalformedExportWritesNothing(t *testing.T) {
	svc, db := newService(t, nil)

	input := `{"semanticSegments":[
		{"startTime":"2024-01-01T00:00:00Z","endTime":"2024-01-01T01:00:00Z","visit":{"topCandidate":{"placeId":"ok"}}},
		{"startTime":"2024-01-02T00:00:00Z","visit":{"topCandidate":{"placeId":"broken"}}}
	]}`
	_, err := svc.Ingest(context.Background(), strings.NewReader(input))
	require.Error(t, err)
	assert.Equal(t, exception.KindIngestionMalformed, exception.KindOf(err))
	assert.Zero(t, count(t, db, "visit"))
	assert.Zero(t, count(t, db, "raw_place"))
}

func TestService_EnrichOnlyMissingPlaces(t *testing.T) {
	fetcher := &mockFetcher{}
	svc, db := newService(t, fetcher)
	ctx := context.Background()

	_, err := svc.Ingest(ctx, openTimeline(t))
	require.NoError(t, err)

	fetcher.On("Details", mock.Anything, "ChIJwork").Return(details(t, `{"place_id":"ChIJwork","name":"Office","reviews":[{"author_name":"A","rating":3}]}`), nil).Once()
	fetcher.On("Details", mock.Anything, "ChIJhome").Return(details(t, `{"place_id":"ChIJhome","name":"Home","opening_hours":{"periods":[{"open":{"day":0,"time":"0000"}}]}}`), nil).Once()
	fetcher.On("Details", mock.Anything, "ChIJcafe").Return(nil, exception.New(exception.KindPlaceNotFound, "places", "gone", nil)).Once()

	result, err := svc.Enrich(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, &ingest.EnrichResult{Requested: 3, Enriched: 2, NotFound: 1}, result)
	assert.Equal(t, int64(2), count(t, db, "places"))
	assert.Equal(t, int64(1), count(t, db, "reviews"))
	fetcher.AssertExpectations(t)

	// The not-found place is the only one still missing details.
	fetcher.On("Details", mock.Anything, "ChIJcafe").Return(nil, exception.New(exception.KindPlaceNotFound, "places", "gone", nil)).Once()
	result, err = svc.Enrich(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Requested)
	fetcher.AssertExpectations(t)
}

func TestService_RefreshDoesNotDuplicateChildren(t *testing.T) {
	fetcher := &mockFetcher{}
	svc, db := newService(t, fetcher)
	ctx := context.Background()

	_, err := svc.Ingest(ctx, strings.NewReader(`{"semanticSegments":[
		{"startTime":"2024-01-01T00:00:00Z","endTime":"2024-01-01T01:00:00Z","visit":{"topCandidate":{"placeId":"p1","semanticType":"HOME"}}}
	]}`))
	require.NoError(t, err)

	payload := `{"place_id":"p1","name":"Home","address_components":[{"long_name":"A"},{"long_name":"B"}],
		"opening_hours":{"periods":[{"open":{"day":1,"time":"0900"}}]},
		"current_opening_hours":{"special_days":[{"date":"2024-12-25"}]},
		"photos":[{"height":1,"width":1}]}`
	fetcher.On("Details", mock.Anything, "p1").Return(details(t, payload), nil).Twice()

	_, err = svc.Enrich(ctx, false)
	require.NoError(t, err)
	result, err := svc.Enrich(ctx, true)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Enriched)

	assert.Equal(t, int64(1), count(t, db, "places"))
	assert.Equal(t, int64(2), count(t, db, "address_components"))
	assert.Equal(t, int64(1), count(t, db, "opening_hours"))
	assert.Equal(t, int64(1), count(t, db, "opening_periods"))
	assert.Equal(t, int64(1), count(t, db, "special_days"))
	assert.Equal(t, int64(1), count(t, db, "photos"))
	fetcher.AssertExpectations(t)
}

func TestService_EnrichAggregatesAPIFailures(t *testing.T) {
	fetcher := &mockFetcher{}
	svc, db := newService(t, fetcher)
	ctx := context.Background()

	_, err := svc.Ingest(ctx, openTimeline(t))
	require.NoError(t, err)

	fetcher.On("Details", mock.Anything, "ChIJwork").Return(nil, exception.New(exception.KindEnrichmentAPI, "places", "quota exceeded", nil))
	fetcher.On("Details", mock.Anything, "ChIJhome").Return(details(t, `{"place_id":"ChIJhome","name":"Home"}`), nil)
	fetcher.On("Details", mock.Anything, "ChIJcafe").Return(nil, exception.New(exception.KindEnrichmentAPI, "places", "timeout", nil))

	result, err := svc.Enrich(ctx, false)
	require.Error(t, err)
	assert.ErrorIs(t, err, exception.ErrEnrichmentAPI)
	assert.Contains(t, err.Error(), "quota exceeded")
	assert.Contains(t, err.Error(), "timeout")
	assert.Equal(t, 2, result.Failed)
	assert.Equal(t, 1, result.Enriched)
	assert.Equal(t, int64(1), count(t, db, "places"))
}

func TestService_UploadIngestsThenEnriches(t *testing.T) {
	fetcher := &mockFetcher{}
	svc, db := newService(t, fetcher)

	fetcher.On("Details", mock.Anything, mock.AnythingOfType("string")).Return(details(t, `{"name":"Somewhere"}`), nil)

	result, err := svc.Upload(context.Background(), openTimeline(t))
	require.NoError(t, err)
	assert.Equal(t, 4, result.Ingest.Visits)
	assert.Equal(t, 3, result.Enrich.Enriched)
	assert.Equal(t, int64(3), count(t, db, "places"))
	fetcher.AssertNumberOfCalls(t, "Details", 3)
}
