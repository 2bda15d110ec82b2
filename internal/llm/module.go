package llm

import (
	"context"

	"go.uber.org/fx"

	"github.com/tigerroll/mapchat/internal/config"
	"github.com/tigerroll/mapchat/internal/metrics"
)

// NewClientFromConfig builds the configured completion client.
func NewClientFromConfig(cfg *config.Config, recorder metrics.Recorder) (Client, error) {
	return New(context.Background(), cfg.MapChat.LLM, recorder)
}

// Module provides the LLM Client.
var Module = fx.Options(
	fx.Provide(NewClientFromConfig),
)
