package metrics

import "go.uber.org/fx"

// Module provides the PrometheusRecorder both as itself (for the /metrics
// handler) and as the Recorder interface.
var Module = fx.Options(
	fx.Provide(fx.Annotate(
		NewPrometheusRecorder,
		fx.As(fx.Self()),
		fx.As(new(Recorder)),
	)),
)
