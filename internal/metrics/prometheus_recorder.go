package metrics

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tigerroll/mapchat/internal/support/logger"
)

// PrometheusRecorder is a Prometheus implementation of Recorder with its own registry.
type PrometheusRecorder struct {
	registry *prometheus.Registry

	ingestTotal       *prometheus.CounterVec
	ingestedVisits    prometheus.Counter
	ingestedRawPlaces prometheus.Counter

	enrichTotal *prometheus.CounterVec

	chatTotal           *prometheus.CounterVec
	chatDurationSeconds *prometheus.HistogramVec

	llmCallTotal           *prometheus.CounterVec
	llmCallDurationSeconds *prometheus.HistogramVec
}

// NewPrometheusRecorder creates a PrometheusRecorder.
func NewPrometheusRecorder() *PrometheusRecorder {
	registry := prometheus.NewRegistry()

	// Register Go standard metrics and process/OS metrics.
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	r := &PrometheusRecorder{
		registry: registry,
		ingestTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mapchat_ingest_total",
			Help: "Total number of location history uploads by outcome.",
		}, []string{"outcome"}),
		ingestedVisits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "mapchat_ingested_visits_total",
			Help: "Total visits written by ingestion.",
		}),
		ingestedRawPlaces: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "mapchat_ingested_raw_places_total",
			Help: "Total raw places written by ingestion.",
		}),
		enrichTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mapchat_enrich_places_total",
			Help: "Total place enrichments by outcome.",
		}, []string{"outcome"}),
		chatTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mapchat_chat_questions_total",
			Help: "Total chat questions by outcome and error kind.",
		}, []string{"outcome", "kind"}),
		chatDurationSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "mapchat_chat_duration_seconds",
			Help:    "Duration of answering a chat question.",
			Buckets: prometheus.DefBuckets,
		}, []string{"outcome"}),
		llmCallTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mapchat_llm_calls_total",
			Help: "Total LLM completion calls by provider and outcome.",
		}, []string{"provider", "outcome"}),
		llmCallDurationSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "mapchat_llm_call_duration_seconds",
			Help:    "Duration of LLM completion calls.",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		}, []string{"provider"}),
	}

	registry.MustRegister(
		r.ingestTotal,
		r.ingestedVisits,
		r.ingestedRawPlaces,
		r.enrichTotal,
		r.chatTotal,
		r.chatDurationSeconds,
		r.llmCallTotal,
		r.llmCallDurationSeconds,
	)
	return r
}

// Registry returns the Prometheus registry.
func (r *PrometheusRecorder) Registry() *prometheus.Registry {
	return r.registry
}

// Handler serves the registry in the Prometheus text format.
func (r *PrometheusRecorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

func (r *PrometheusRecorder) RecordIngest(ctx context.Context, visits, rawPlaces int, outcome string) {
	r.ingestTotal.WithLabelValues(outcome).Inc()
	r.ingestedVisits.Add(float64(visits))
	r.ingestedRawPlaces.Add(float64(rawPlaces))
	logger.Debugf("Metrics: ingest %s (visits=%d, raw_places=%d).", outcome, visits, rawPlaces)
}

func (r *PrometheusRecorder) RecordEnrichment(ctx context.Context, outcome string) {
	r.enrichTotal.WithLabelValues(outcome).Inc()
}

func (r *PrometheusRecorder) RecordChat(ctx context.Context, kind string, duration time.Duration) {
	outcome := OutcomeSuccess
	if kind != "" {
		outcome = OutcomeError
	}
	r.chatTotal.WithLabelValues(outcome, kind).Inc()
	r.chatDurationSeconds.WithLabelValues(outcome).Observe(duration.Seconds())
	logger.Debugf("Metrics: chat %s in %.3fs.", outcome, duration.Seconds())
}

func (r *PrometheusRecorder) RecordLLMCall(ctx context.Context, provider string, duration time.Duration, err error) {
	outcome := OutcomeSuccess
	if err != nil {
		outcome = OutcomeError
	}
	r.llmCallTotal.WithLabelValues(provider, outcome).Inc()
	r.llmCallDurationSeconds.WithLabelValues(provider).Observe(duration.Seconds())
}

var _ Recorder = (*PrometheusRecorder)(nil)
