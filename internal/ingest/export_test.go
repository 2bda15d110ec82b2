package ingest_test

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tigerroll/mapchat/internal/domain/entity"
	"github.com/tigerroll/mapchat/internal/ingest"
	"github.com/tigerroll/mapchat/internal/support/exception"
)

func openTimeline(t *testing.T) *os.File {
	t.Helper()
	f, err := os.Open("testdata/timeline.json")
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })
	return f
}

func TestParseExport_Timeline(t *testing.T) {
	batch, err := ingest.ParseExport(openTimeline(t))
	require.NoError(t, err)

	assert.Equal(t, 6, batch.Segments)
	require.Len(t, batch.Visits, 4)

	first := batch.Visits[0]
	assert.Equal(t, int64(1709276400), first.StartTime) // 2024-03-01T07:00:00Z
	assert.Equal(t, int64(1709310600), first.EndTime)
	assert.Equal(t, "ChIJwork", first.PlaceID)
	assert.Equal(t, entity.SemanticWork, first.SemanticType)

	assert.Equal(t, entity.SemanticHome, batch.Visits[1].SemanticType)
	assert.Equal(t, entity.SemanticUnknown, batch.Visits[2].SemanticType)

	require.Len(t, batch.RawPlaces, 3)
	assert.Equal(t, []string{"ChIJwork", "ChIJhome", "ChIJcafe"},
		[]string{batch.RawPlaces[0].PlaceID, batch.RawPlaces[1].PlaceID, batch.RawPlaces[2].PlaceID})
	assert.Contains(t, batch.RawPlaces[0].PlaceInfo, `"placeLocation"`)
}

func TestParseExport_Malformed(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"not json", `{"semanticSegments": [`},
		{"no segments", `{"rawSignals": []}`},
		{"missing start", `{"semanticSegments":[{"endTime":"2024-01-01T00:00:00Z","visit":{"topCandidate":{"placeId":"p"}}}]}`},
		{"bad time", `{"semanticSegments":[{"startTime":"yesterday","endTime":"2024-01-01T00:00:00Z","visit":{"topCandidate":{"placeId":"p"}}}]}`},
		{"missing place", `{"semanticSegments":[{"startTime":"2024-01-01T00:00:00Z","endTime":"2024-01-01T01:00:00Z","visit":{"topCandidate":{}}}]}`},
		{"missing candidate", `{"semanticSegments":[{"startTime":"2024-01-01T00:00:00Z","endTime":"2024-01-01T01:00:00Z","visit":{}}]}`},
		{"unknown semantic type", `{"semanticSegments":[{"startTime":"2024-01-01T00:00:00Z","endTime":"2024-01-01T01:00:00Z","visit":{"topCandidate":{"placeId":"p","semanticType":"GYM"}}}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ingest.ParseExport(strings.NewReader(tt.input))
			require.Error(t, err)
			assert.ErrorIs(t, err, exception.ErrIngestionMalformed)
		})
	}
}

func TestParseExport_TimestampWithoutOffset(t *testing.T) {
	input := `{"semanticSegments":[
		{"startTime":"2024-01-01T08:00:00","endTime":"2024-01-01T09:30:00.500","visit":{"topCandidate":{"placeId":"p"}}}
	]}`
	batch, err := ingest.ParseExport(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, batch.Visits, 1)
	assert.Equal(t, int64(1704096000), batch.Visits[0].StartTime) // 2024-01-01T08:00:00Z
	assert.Equal(t, int64(1704101400), batch.Visits[0].EndTime)
}

func TestParseExport_NoVisits(t *testing.T) {
	batch, err := ingest.ParseExport(strings.NewReader(`{"semanticSegments":[{"startTime":"2024-01-01T00:00:00Z","endTime":"2024-01-01T01:00:00Z","activity":{}}]}`))
	require.NoError(t, err)
	assert.Empty(t, batch.Visits)
	assert.Empty(t, batch.RawPlaces)
}
