package metrics_test

import (
	"context"
	"errors"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tigerroll/mapchat/internal/metrics"
)

func TestPrometheusRecorder_Counters(t *testing.T) {
	ctx := context.Background()
	r := metrics.NewPrometheusRecorder()

	r.RecordIngest(ctx, 3, 2, metrics.OutcomeSuccess)
	r.RecordEnrichment(ctx, metrics.OutcomeSuccess)
	r.RecordEnrichment(ctx, metrics.OutcomeNotFound)
	r.RecordChat(ctx, "", 150*time.Millisecond)
	r.RecordChat(ctx, "sql-execution-failure", 10*time.Millisecond)
	r.RecordLLMCall(ctx, "ollama", time.Second, nil)
	r.RecordLLMCall(ctx, "ollama", time.Second, errors.New("down"))

	n, err := testutil.GatherAndCount(r.Registry(),
		"mapchat_ingest_total",
		"mapchat_ingested_visits_total",
		"mapchat_enrich_places_total",
		"mapchat_chat_questions_total",
		"mapchat_llm_calls_total",
	)
	require.NoError(t, err)
	// ingest(1) + visits(1) + enrich(2 outcomes) + chat(2) + llm(2)
	assert.Equal(t, 8, n)
}

func TestPrometheusRecorder_Handler(t *testing.T) {
	r := metrics.NewPrometheusRecorder()
	r.RecordEnrichment(context.Background(), metrics.OutcomeSuccess)

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `mapchat_enrich_places_total{outcome="success"} 1`)
	assert.Contains(t, string(body), "go_goroutines")
}
