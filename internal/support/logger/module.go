package logger

import "go.uber.org/fx"

// Module installs the Fx event logger.
var Module = fx.Options(
	fx.WithLogger(NewFxLoggerAdapter),
)
