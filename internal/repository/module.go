package repository

import "go.uber.org/fx"

// Module provides the location and chat repositories.
var Module = fx.Options(
	fx.Provide(NewLocationRepository, NewChatRepository),
)
