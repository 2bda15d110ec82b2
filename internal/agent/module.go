package agent

import (
	"go.uber.org/fx"
	"gorm.io/gorm"

	"github.com/tigerroll/mapchat/internal/config"
	"github.com/tigerroll/mapchat/internal/llm"
	"github.com/tigerroll/mapchat/internal/metrics"
	"github.com/tigerroll/mapchat/internal/repository"
)

// NewAgentFromConfig wires an Agent with the configured LLM client.
func NewAgentFromConfig(client llm.Client, db *gorm.DB, chats *repository.ChatRepository, cfg *config.Config, recorder metrics.Recorder) *Agent {
	return New(client, db, chats, cfg.MapChat.Chat, recorder)
}

// Module provides the chat agent.
var Module = fx.Options(
	fx.Provide(NewAgentFromConfig),
)
