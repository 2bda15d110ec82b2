package config

import "go.uber.org/fx"

// Module provides *Config.
var Module = fx.Options(
	fx.Provide(NewConfigProvider),
)
