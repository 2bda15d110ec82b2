// Package mcpserver exposes the chat agent to MCP clients over stdio.
package mcpserver

import (
	"context"

	"github.com/mark3labs/mcp-go/server"

	"github.com/tigerroll/mapchat/internal/agent"
	"github.com/tigerroll/mapchat/internal/domain/entity"
)

// Version is reported to MCP clients.
var Version = "dev"

// DefaultConversation scopes questions that name no conversation.
const DefaultConversation = "mcp"

// Chatter answers questions. *agent.Agent implements it.
type Chatter interface {
	Ask(ctx context.Context, conversationID, question string) (*agent.Answer, error)
	History(ctx context.Context, conversationID string) ([]entity.ChatTurn, error)
}

// New creates the MCP server with every tool registered.
func New(chat Chatter) *server.MCPServer {
	s := server.NewMCPServer(
		"mapchat",
		Version,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
		server.WithInstructions("Answer questions about the user's Google location history. "+
			"Use ask for questions in plain language, describe_schema to see the tables, "+
			"and chat_history to recall earlier answers."),
	)

	ask := NewAskTool(chat)
	s.AddTool(ask.Definition(), ask.Handle)

	schema := NewDescribeSchemaTool()
	s.AddTool(schema.Definition(), schema.Handle)

	history := NewHistoryTool(chat)
	s.AddTool(history.Definition(), history.Handle)

	return s
}
