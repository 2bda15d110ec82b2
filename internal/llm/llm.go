// Package llm provides the text completion backends used by the chat agent.
package llm

import (
	"context"
	"strings"
	"time"

	"github.com/tigerroll/mapchat/internal/config"
	"github.com/tigerroll/mapchat/internal/metrics"
	"github.com/tigerroll/mapchat/internal/support/exception"
)

const moduleName = "llm"

// Client turns a prompt into text.
type Client interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// New builds the client selected by cfg.Provider and instruments it with recorder.
func New(ctx context.Context, cfg config.LLMConfig, recorder metrics.Recorder) (Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	var (
		client Client
		err    error
	)
	provider := strings.ToLower(cfg.Provider)
	switch provider {
	case config.ProviderGemini:
		client, err = NewGeminiClient(ctx, cfg)
	case config.ProviderOllama:
		client = NewOllamaClient(cfg)
	}
	if err != nil {
		return nil, err
	}
	return Instrument(client, provider, recorder), nil
}

func timeoutOf(cfg config.LLMConfig) time.Duration {
	if cfg.TimeoutSeconds <= 0 {
		return 120 * time.Second
	}
	return time.Duration(cfg.TimeoutSeconds) * time.Second
}

// instrumented records the latency and outcome of every completion.
type instrumented struct {
	next     Client
	provider string
	recorder metrics.Recorder
}

// Instrument wraps client so each call is reported to recorder.
func Instrument(client Client, provider string, recorder metrics.Recorder) Client {
	if recorder == nil {
		return client
	}
	return &instrumented{next: client, provider: provider, recorder: recorder}
}

func (c *instrumented) Complete(ctx context.Context, prompt string) (string, error) {
	start := time.Now()
	text, err := c.next.Complete(ctx, prompt)
	c.recorder.RecordLLMCall(ctx, c.provider, time.Since(start), err)
	return text, err
}

func callErr(provider string, err error) error {
	return exception.New(exception.KindUnknown, moduleName, provider+" completion failed", err)
}
