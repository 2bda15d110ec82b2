// Package exception defines the error type shared by every mapchat component.
// Each error carries a Kind so the web layer and the CLI can report failures
// consistently without inspecting messages.
package exception

import (
	"errors"
	"fmt"
)

// Kind classifies an error by the stage of the pipeline that produced it.
type Kind string

const (
	// KindUnknown is reported for errors that did not originate from mapchat.
	KindUnknown Kind = "unknown"
	// KindIngestionMalformed marks a location history export that cannot be parsed.
	KindIngestionMalformed Kind = "ingestion-input-malformed"
	// KindEnrichmentAPI marks a Places API call that failed (network, quota, bad status).
	KindEnrichmentAPI Kind = "enrichment-api-failure"
	// KindPlaceNotFound marks a place the Places API does not know about.
	KindPlaceNotFound Kind = "enrichment-place-not-found"
	// KindSQLGeneration marks an LLM failure or unusable output while generating SQL.
	KindSQLGeneration Kind = "sql-generation-failure"
	// KindSQLExecution marks a generated query the database rejected.
	KindSQLExecution Kind = "sql-execution-failure"
	// KindAnswerSynthesis marks an LLM failure while narrating a result set.
	KindAnswerSynthesis Kind = "answer-synthesis-failure"
	// KindConfig marks invalid or missing configuration.
	KindConfig Kind = "config"
	// KindStorage marks schema store failures outside the chat pipeline.
	KindStorage Kind = "storage"
)

// MapChatError is the error type returned across package boundaries.
type MapChatError struct {
	// Kind classifies the failure.
	Kind Kind
	// Module is the component that raised the error (e.g. "ingest", "places", "agent").
	Module string
	// Message is a short description meant for users.
	Message string
	// OriginalErr is the wrapped cause, if any.
	OriginalErr error
}

// New creates a MapChatError.
func New(kind Kind, module, message string, originalErr error) *MapChatError {
	return &MapChatError{
		Kind:        kind,
		Module:      module,
		Message:     message,
		OriginalErr: originalErr,
	}
}

// Newf creates a MapChatError with a formatted message.
// If the last argument is an error it becomes the wrapped cause and is
// excluded from formatting.
func Newf(kind Kind, module, format string, a ...interface{}) *MapChatError {
	var originalErr error
	if len(a) > 0 {
		if err, ok := a[len(a)-1].(error); ok {
			originalErr = err
			a = a[:len(a)-1]
		}
	}
	return New(kind, module, fmt.Sprintf(format, a...), originalErr)
}

// Error implements the error interface.
func (e *MapChatError) Error() string {
	if e.OriginalErr != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Module, e.Message, e.OriginalErr)
	}
	return fmt.Sprintf("[%s] %s", e.Module, e.Message)
}

// Unwrap returns the original error for errors.Unwrap.
func (e *MapChatError) Unwrap() error {
	return e.OriginalErr
}

// Is matches another MapChatError of the same kind, so callers can write
// errors.Is(err, exception.ErrPlaceNotFound).
func (e *MapChatError) Is(target error) bool {
	t, ok := target.(*MapChatError)
	if !ok {
		return false
	}
	return t.Module == "" && t.Message == "" && t.Kind == e.Kind
}

// Sentinels for errors.Is comparisons by kind.
var (
	ErrIngestionMalformed = &MapChatError{Kind: KindIngestionMalformed}
	ErrEnrichmentAPI      = &MapChatError{Kind: KindEnrichmentAPI}
	ErrPlaceNotFound      = &MapChatError{Kind: KindPlaceNotFound}
	ErrSQLGeneration      = &MapChatError{Kind: KindSQLGeneration}
	ErrSQLExecution       = &MapChatError{Kind: KindSQLExecution}
	ErrAnswerSynthesis    = &MapChatError{Kind: KindAnswerSynthesis}
	ErrConfig             = &MapChatError{Kind: KindConfig}
	ErrStorage            = &MapChatError{Kind: KindStorage}
)

// KindOf returns the kind of the outermost MapChatError in err's chain.
// Aggregated errors (errors.Join, go-multierror) report the first kind found.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var me *MapChatError
	if errors.As(err, &me) {
		return me.Kind
	}
	return KindUnknown
}

// Message extracts the user-facing message of err.
// For MapChatError it is the Message field, otherwise err.Error().
func Message(err error) string {
	if err == nil {
		return ""
	}
	var me *MapChatError
	if errors.As(err, &me) {
		return me.Message
	}
	return err.Error()
}
