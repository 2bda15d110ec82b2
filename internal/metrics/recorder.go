// Package metrics records operational metrics of ingestion, enrichment and chat.
package metrics

import (
	"context"
	"time"
)

// Outcome labels shared by the recorders.
const (
	OutcomeSuccess  = "success"
	OutcomeError    = "error"
	OutcomeNotFound = "not_found"
	OutcomeSkipped  = "skipped"
)

// Recorder is the metrics sink used by the services.
type Recorder interface {
	// RecordIngest records one upload: visits and raw places written, and its outcome.
	RecordIngest(ctx context.Context, visits, rawPlaces int, outcome string)
	// RecordEnrichment records the outcome of enriching one place.
	RecordEnrichment(ctx context.Context, outcome string)
	// RecordChat records one answered (or failed) question. kind is the
	// error kind on failure and empty on success.
	RecordChat(ctx context.Context, kind string, duration time.Duration)
	// RecordLLMCall records one completion request.
	RecordLLMCall(ctx context.Context, provider string, duration time.Duration, err error)
}

// NoOpRecorder discards everything. It is used by tests and one-shot commands.
type NoOpRecorder struct{}

// NewNoOpRecorder creates a NoOpRecorder.
func NewNoOpRecorder() Recorder {
	return &NoOpRecorder{}
}

func (r *NoOpRecorder) RecordIngest(ctx context.Context, visits, rawPlaces int, outcome string) {}
func (r *NoOpRecorder) RecordEnrichment(ctx context.Context, outcome string) {}
func (r *NoOpRecorder) RecordChat(ctx context.Context, kind string, duration time.Duration) {}
func (r *NoOpRecorder) RecordLLMCall(ctx context.Context, provider string, duration time.Duration, err error) {
}

var _ Recorder = (*NoOpRecorder)(nil)
