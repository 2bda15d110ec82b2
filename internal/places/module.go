package places

import (
	"go.uber.org/fx"

	"github.com/tigerroll/mapchat/internal/config"
)

// NewClientFromConfig builds the Places client from the application config.
func NewClientFromConfig(cfg *config.Config) (*Client, error) {
	return NewClient(cfg.MapChat.Places)
}

// Module provides the Places client.
var Module = fx.Options(
	fx.Provide(NewClientFromConfig),
)
