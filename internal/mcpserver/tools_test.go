package mcpserver_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/tigerroll/mapchat/internal/agent"
	"github.com/tigerroll/mapchat/internal/domain/entity"
	"github.com/tigerroll/mapchat/internal/mcpserver"
	"github.com/tigerroll/mapchat/internal/support/exception"
)

type mockChat struct {
	mock.Mock
}

func (m *mockChat) Ask(ctx context.Context, conversationID, question string) (*agent.Answer, error) {
	args := m.Called(ctx, conversationID, question)
	a, _ := args.Get(0).(*agent.Answer)
	return a, args.Error(1)
}

func (m *mockChat) History(ctx context.Context, conversationID string) ([]entity.ChatTurn, error) {
	args := m.Called(ctx, conversationID)
	h, _ := args.Get(0).([]entity.ChatTurn)
	return h, args.Error(1)
}

func makeReq(args map[string]interface{}) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

func resultText(r *mcp.CallToolResult) string {
	if r == nil {
		return ""
	}
	for _, c := range r.Content {
		if tc, ok := c.(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

func TestAskTool_Definition(t *testing.T) {
	def := mcpserver.NewAskTool(&mockChat{}).Definition()
	assert.Equal(t, "ask", def.Name)
	assert.Contains(t, def.InputSchema.Properties, "question")
	assert.Contains(t, def.InputSchema.Properties, "conversation_id")
	assert.Equal(t, []string{"question"}, def.InputSchema.Required)
}

func TestAskTool_Answers(t *testing.T) {
	chat := &mockChat{}
	chat.On("Ask", mock.Anything, "mcp", "Where is my home?").Return(&agent.Answer{
		Answer: "Your home is Home.",
		SQL:    "SELECT name FROM places",
		Rows:   [][]interface{}{{"Home"}},
	}, nil)

	result, err := mcpserver.NewAskTool(chat).Handle(context.Background(), makeReq(map[string]interface{}{
		"question": "Where is my home?",
	}))
	require.NoError(t, err)
	assert.False(t, result.IsError)
	text := resultText(result)
	assert.Contains(t, text, "Your home is Home.")
	assert.Contains(t, text, "SELECT name FROM places")
	assert.Contains(t, text, "Rows returned: 1")
	chat.AssertExpectations(t)
}

func TestAskTool_UsesGivenConversation(t *testing.T) {
	chat := &mockChat{}
	chat.On("Ask", mock.Anything, "trip", "And then?").Return(&agent.Answer{Answer: "Kyoto."}, nil)

	result, err := mcpserver.NewAskTool(chat).Handle(context.Background(), makeReq(map[string]interface{}{
		"question":        "And then?",
		"conversation_id": "trip",
	}))
	require.NoError(t, err)
	assert.Contains(t, resultText(result), "Kyoto.")
	chat.AssertExpectations(t)
}

func TestAskTool_Errors(t *testing.T) {
	chat := &mockChat{}
	chat.On("Ask", mock.Anything, "mcp", "bad").Return(nil,
		exception.New(exception.KindSQLExecution, "agent", "generated query failed", nil))
	tool := mcpserver.NewAskTool(chat)

	result, err := tool.Handle(context.Background(), makeReq(map[string]interface{}{}))
	require.NoError(t, err)
	assert.True(t, result.IsError)

	result, err = tool.Handle(context.Background(), makeReq(map[string]interface{}{"question": "bad"}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, resultText(result), "sql-execution-failure")
	assert.Contains(t, resultText(result), "generated query failed")
}

func TestDescribeSchemaTool(t *testing.T) {
	result, err := mcpserver.NewDescribeSchemaTool().Handle(context.Background(), makeReq(nil))
	require.NoError(t, err)
	assert.Equal(t, agent.DescribeSchema(), resultText(result))
	assert.Contains(t, resultText(result), "CREATE TABLE visit")
}

func TestHistoryTool(t *testing.T) {
	query := "SELECT 1"
	chat := &mockChat{}
	chat.On("History", mock.Anything, "mcp").Return([]entity.ChatTurn{
		{Role: entity.RoleUser, Content: "How many?"},
		{Role: entity.RoleModel, Content: "One.", SQLQuery: &query},
	}, nil)
	chat.On("History", mock.Anything, "empty").Return([]entity.ChatTurn{}, nil)
	tool := mcpserver.NewHistoryTool(chat)

	result, err := tool.Handle(context.Background(), makeReq(nil))
	require.NoError(t, err)
	text := resultText(result)
	assert.Contains(t, text, "2 messages")
	assert.Contains(t, text, "user: How many?")
	assert.Contains(t, text, "model: One.")
	assert.Contains(t, text, "(query: SELECT 1)")

	result, err = tool.Handle(context.Background(), makeReq(map[string]interface{}{"conversation_id": "empty"}))
	require.NoError(t, err)
	assert.Equal(t, "No messages in this conversation.", resultText(result))
}

func TestNew_ListsTools(t *testing.T) {
	s := mcpserver.New(&mockChat{})

	resp := s.HandleMessage(context.Background(), json.RawMessage(`{"jsonrpc":"2.0","id":1,"method":"tools/list"}`))
	raw, err := json.Marshal(resp)
	require.NoError(t, err)
	for _, name := range []string{"ask", "describe_schema", "chat_history"} {
		assert.Contains(t, string(raw), `"name":"`+name+`"`)
	}
}
