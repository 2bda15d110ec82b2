package repository_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tigerroll/mapchat/internal/adapter/database/dbtest"
	"github.com/tigerroll/mapchat/internal/domain/entity"
	"github.com/tigerroll/mapchat/internal/repository"
	"github.com/tigerroll/mapchat/internal/support/exception"
)

func TestChatRepository_AppendAndHistory(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewChatRepository(dbtest.NewDB(t))

	sql := "SELECT 1"
	require.NoError(t, repo.Append(ctx,
		&entity.ChatTurn{ConversationID: "c1", Role: entity.RoleUser, Content: "q1", CreatedAt: 1},
		&entity.ChatTurn{ConversationID: "c1", Role: entity.RoleModel, Content: "a1", SQLQuery: &sql, CreatedAt: 2},
	))
	require.NoError(t, repo.Append(ctx,
		&entity.ChatTurn{ConversationID: "c2", Role: entity.RoleUser, Content: "other", CreatedAt: 3},
	))

	history, err := repo.History(ctx, "c1")
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, entity.RoleUser, history[0].Role)
	assert.Equal(t, "q1", history[0].Content)
	assert.Nil(t, history[0].SQLQuery)
	assert.Equal(t, entity.RoleModel, history[1].Role)
	require.NotNil(t, history[1].SQLQuery)
	assert.Equal(t, "SELECT 1", *history[1].SQLQuery)

	empty, err := repo.History(ctx, "missing")
	require.NoError(t, err)
	assert.Empty(t, empty)
	assert.NotNil(t, empty)
}

func TestChatRepository_RecentTurns(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewChatRepository(dbtest.NewDB(t))

	for i, content := range []string{"a", "b", "c", "d"} {
		require.NoError(t, repo.Append(ctx, &entity.ChatTurn{
			ConversationID: "c", Role: entity.RoleUser, Content: content, CreatedAt: int64(i),
		}))
	}

	turns, err := repo.RecentTurns(ctx, "c", 2)
	require.NoError(t, err)
	require.Len(t, turns, 2)
	assert.Equal(t, "c", turns[0].Content)
	assert.Equal(t, "d", turns[1].Content)

	none, err := repo.RecentTurns(ctx, "c", 0)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestChatRepository_AppendIsAtomic(t *testing.T) {
	ctx := context.Background()
	db := dbtest.NewDB(t)
	repo := repository.NewChatRepository(db)

	err := repo.Append(ctx,
		&entity.ChatTurn{ConversationID: "c", Role: entity.RoleUser, Content: "q", CreatedAt: 1},
		&entity.ChatTurn{ConversationID: "c", Role: entity.Role("system"), Content: "bad", CreatedAt: 2},
	)
	require.Error(t, err)
	assert.ErrorIs(t, err, exception.ErrStorage)

	history, err := repo.History(ctx, "c")
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestChatRepository_Clear(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewChatRepository(dbtest.NewDB(t))

	require.NoError(t, repo.Append(ctx,
		&entity.ChatTurn{ConversationID: "c", Role: entity.RoleUser, Content: "q", CreatedAt: 1},
		&entity.ChatTurn{ConversationID: "c", Role: entity.RoleModel, Content: "a", CreatedAt: 2},
		&entity.ChatTurn{ConversationID: "keep", Role: entity.RoleUser, Content: "q", CreatedAt: 3},
	))

	n, err := repo.Clear(ctx, "c")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	kept, err := repo.History(ctx, "keep")
	require.NoError(t, err)
	assert.Len(t, kept, 1)
}

func TestChatRepository_HistoryStorageError(t *testing.T) {
	db, mock := dbtest.NewMock(t)
	mock.ExpectQuery(`SELECT \* FROM .chat.`).WillReturnError(errors.New("database is locked"))

	_, err := repository.NewChatRepository(db).History(context.Background(), "c")
	require.Error(t, err)
	assert.Equal(t, exception.KindStorage, exception.KindOf(err))
}
