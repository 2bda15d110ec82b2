package mcpserver

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/tigerroll/mapchat/internal/agent"
	"github.com/tigerroll/mapchat/internal/support/exception"
)

// AskTool handles the ask MCP tool.
type AskTool struct {
	chat Chatter
}

// NewAskTool creates an AskTool.
func NewAskTool(chat Chatter) *AskTool {
	return &AskTool{chat: chat}
}

// Definition returns the MCP tool definition for ask.
func (t *AskTool) Definition() mcp.Tool {
	return mcp.NewTool("ask",
		mcp.WithDescription(
			"Ask a question about the places in the user's location history. "+
				"The answer comes with the SQL query that produced it.",
		),
		mcp.WithString("question",
			mcp.Required(),
			mcp.Description("Question in plain language, e.g. 'Where did I go last weekend?'"),
		),
		mcp.WithString("conversation_id",
			mcp.Description("Conversation to continue (default: mcp)"),
		),
	)
}

// Handle processes the ask tool call.
func (t *AskTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	question := strings.TrimSpace(req.GetString("question", ""))
	if question == "" {
		return mcp.NewToolResultError("'question' is required"), nil
	}
	conversation := req.GetString("conversation_id", DefaultConversation)

	answer, err := t.chat.Ask(ctx, conversation, question)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("%s: %s", exception.KindOf(err), exception.Message(err))), nil
	}

	var b strings.Builder
	b.WriteString(answer.Answer)
	fmt.Fprintf(&b, "\n\nSQL:\n%s\n", answer.SQL)
	fmt.Fprintf(&b, "Rows returned: %d\n", len(answer.Rows))
	return mcp.NewToolResultText(b.String()), nil
}

// DescribeSchemaTool handles the describe_schema MCP tool.
type DescribeSchemaTool struct{}

// NewDescribeSchemaTool creates a DescribeSchemaTool.
func NewDescribeSchemaTool() *DescribeSchemaTool {
	return &DescribeSchemaTool{}
}

// Definition returns the MCP tool definition for describe_schema.
func (t *DescribeSchemaTool) Definition() mcp.Tool {
	return mcp.NewTool("describe_schema",
		mcp.WithDescription("Show the tables that hold visits and place details, as SQL DDL."),
	)
}

// Handle processes the describe_schema tool call.
func (t *DescribeSchemaTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(agent.DescribeSchema()), nil
}

// HistoryTool handles the chat_history MCP tool.
type HistoryTool struct {
	chat Chatter
}

// NewHistoryTool creates a HistoryTool.
func NewHistoryTool(chat Chatter) *HistoryTool {
	return &HistoryTool{chat: chat}
}

// Definition returns the MCP tool definition for chat_history.
func (t *HistoryTool) Definition() mcp.Tool {
	return mcp.NewTool("chat_history",
		mcp.WithDescription("List the questions and answers of a conversation, oldest first."),
		mcp.WithString("conversation_id",
			mcp.Description("Conversation to list (default: mcp)"),
		),
	)
}

// Handle processes the chat_history tool call.
func (t *HistoryTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	conversation := req.GetString("conversation_id", DefaultConversation)
	history, err := t.chat.History(ctx, conversation)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to read history: %s", exception.Message(err))), nil
	}
	if len(history) == 0 {
		return mcp.NewToolResultText("No messages in this conversation."), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%d messages:\n\n", len(history))
	for _, turn := range history {
		fmt.Fprintf(&b, "%s: %s\n", turn.Role, turn.Content)
		if turn.SQLQuery != nil {
			fmt.Fprintf(&b, "    (query: %s)\n", *turn.SQLQuery)
		}
	}
	return mcp.NewToolResultText(b.String()), nil
}
