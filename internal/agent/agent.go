// Package agent answers natural-language questions about the location
// history: the model writes a SQL query, the query runs against the schema
// store and the model narrates the rows.
package agent

import (
	"context"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	gormadapter "github.com/tigerroll/mapchat/internal/adapter/database/gorm"
	"github.com/tigerroll/mapchat/internal/config"
	"github.com/tigerroll/mapchat/internal/domain/entity"
	"github.com/tigerroll/mapchat/internal/metrics"
	"github.com/tigerroll/mapchat/internal/repository"
	"github.com/tigerroll/mapchat/internal/support/exception"
	"github.com/tigerroll/mapchat/internal/support/logger"
)

const moduleName = "agent"

var tracer = otel.Tracer("mapchat/agent")

// Completer turns a prompt into text. llm.Client implements it.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Answer is the outcome of one question.
type Answer struct {
	// History is the whole conversation including the new turns.
	History []entity.ChatTurn `json:"history"`
	Answer  string            `json:"answer,omitempty"`
	SQL     string            `json:"sql,omitempty"`
	Columns []string          `json:"columns,omitempty"`
	Rows    [][]interface{}   `json:"rows,omitempty"`
}

// Agent runs the question, SQL, rows, answer loop.
type Agent struct {
	llm      Completer
	db       *gorm.DB
	chats    *repository.ChatRepository
	cfg      config.ChatConfig
	recorder metrics.Recorder
	now      func() time.Time
}

// New creates an Agent. db is the schema store the generated SQL runs on.
func New(llm Completer, db *gorm.DB, chats *repository.ChatRepository, cfg config.ChatConfig, recorder metrics.Recorder) *Agent {
	if recorder == nil {
		recorder = metrics.NewNoOpRecorder()
	}
	return &Agent{
		llm:      llm,
		db:       db,
		chats:    chats,
		cfg:      cfg,
		recorder: recorder,
		now:      time.Now,
	}
}

// History returns the conversation so far.
func (a *Agent) History(ctx context.Context, conversationID string) ([]entity.ChatTurn, error) {
	return a.chats.History(ctx, conversationID)
}

// Clear forgets a conversation.
func (a *Agent) Clear(ctx context.Context, conversationID string) error {
	n, err := a.chats.Clear(ctx, conversationID)
	if err != nil {
		return err
	}
	logger.Infof("Cleared %d chat turns of conversation %s.", n, conversationID)
	return nil
}

// Ask answers question within a conversation. An empty question returns
// the history unchanged without calling the model. The question and the
// answer are stored only when every step succeeds.
func (a *Agent) Ask(ctx context.Context, conversationID, question string) (*Answer, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		history, err := a.History(ctx, conversationID)
		if err != nil {
			return nil, err
		}
		return &Answer{History: history}, nil
	}

	ctx, span := tracer.Start(ctx, "agent.Ask",
		trace.WithAttributes(attribute.String("chat.conversation_id", conversationID)))
	defer span.End()

	start := a.now()
	answer, err := a.ask(ctx, conversationID, question)
	if err != nil {
		kind := exception.KindOf(err)
		a.recorder.RecordChat(ctx, string(kind), time.Since(start))
		span.RecordError(err)
		span.SetStatus(codes.Error, string(kind))
		logger.Warnf("Failed to answer question in conversation %s: %v", conversationID, err)
		return nil, err
	}
	a.recorder.RecordChat(ctx, "", time.Since(start))
	span.SetAttributes(attribute.String("chat.sql", answer.SQL), attribute.Int("chat.rows", len(answer.Rows)))
	return answer, nil
}

func (a *Agent) ask(ctx context.Context, conversationID, question string) (*Answer, error) {
	recent, err := a.chats.RecentTurns(ctx, conversationID, a.cfg.HistoryTurns)
	if err != nil {
		return nil, err
	}

	query, err := a.generateSQL(ctx, recent, question)
	if err != nil {
		return nil, err
	}

	rs, err := a.Execute(ctx, query)
	if err != nil {
		return nil, err
	}

	text, err := a.synthesize(ctx, question, query, rs)
	if err != nil {
		return nil, err
	}

	now := a.now().Unix()
	userTurn := &entity.ChatTurn{ConversationID: conversationID, Role: entity.RoleUser, Content: question, CreatedAt: now}
	modelTurn := &entity.ChatTurn{ConversationID: conversationID, Role: entity.RoleModel, Content: text, SQLQuery: &query, CreatedAt: now}
	if err := a.chats.Append(ctx, userTurn, modelTurn); err != nil {
		return nil, err
	}

	history, err := a.History(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	return &Answer{
		History: history,
		Answer:  text,
		SQL:     query,
		Columns: rs.Columns,
		Rows:    rs.Rows,
	}, nil
}

func (a *Agent) generateSQL(ctx context.Context, history []entity.ChatTurn, question string) (string, error) {
	ctx, span := tracer.Start(ctx, "agent.GenerateSQL")
	defer span.End()

	reply, err := a.llm.Complete(ctx, sqlPrompt(DescribeSchema(), history, question))
	if err != nil {
		return "", fail(span, exception.New(exception.KindSQLGeneration, moduleName, "failed to generate a SQL query", err))
	}
	query, err := ExtractSQL(reply)
	if err != nil {
		return "", fail(span, exception.New(exception.KindSQLGeneration, moduleName, "failed to generate a SQL query", err))
	}
	if !a.cfg.AllowUnsafeSQL {
		if err := CheckReadOnly(query); err != nil {
			return "", fail(span, exception.Newf(exception.KindSQLGeneration, moduleName, "generated query was rejected: %s", query, err))
		}
	}
	logger.Debugf("Generated SQL: %s", query)
	return query, nil
}

// Execute runs a query against the schema store and returns at most
// max_result_rows rows. Unless unsafe SQL is allowed the query runs inside a
// transaction that is always rolled back, so it cannot change any data.
func (a *Agent) Execute(ctx context.Context, query string) (*gormadapter.ResultSet, error) {
	ctx, span := tracer.Start(ctx, "agent.ExecuteSQL")
	defer span.End()

	var (
		rs  *gormadapter.ResultSet
		err error
	)
	if a.cfg.AllowUnsafeSQL {
		rs, err = gormadapter.QueryRows(ctx, a.db, query, a.cfg.MaxResultRows)
	} else {
		tx := a.db.WithContext(ctx).Begin()
		if tx.Error != nil {
			return nil, fail(span, exception.New(exception.KindStorage, moduleName, "failed to begin query transaction", tx.Error))
		}
		rs, err = gormadapter.QueryRows(ctx, tx, query, a.cfg.MaxResultRows)
		if rbErr := tx.Rollback().Error; rbErr != nil {
			logger.Warnf("Failed to roll back query transaction: %v", rbErr)
		}
	}
	if err != nil {
		return nil, fail(span, exception.New(exception.KindSQLExecution, moduleName, "failed to execute the generated query", err))
	}
	span.SetAttributes(attribute.Int("sql.rows", len(rs.Rows)), attribute.Bool("sql.truncated", rs.Truncated))
	return rs, nil
}

func (a *Agent) synthesize(ctx context.Context, question, query string, rs *gormadapter.ResultSet) (string, error) {
	ctx, span := tracer.Start(ctx, "agent.SynthesizeAnswer")
	defer span.End()

	text, err := a.llm.Complete(ctx, answerPrompt(question, query, rs))
	if err != nil {
		return "", fail(span, exception.New(exception.KindAnswerSynthesis, moduleName, "failed to generate an answer", err))
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", fail(span, exception.New(exception.KindAnswerSynthesis, moduleName, "model returned an empty answer", nil))
	}
	return text, nil
}

func fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, exception.Message(err))
	return err
}
