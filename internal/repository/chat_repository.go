package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/tigerroll/mapchat/internal/domain/entity"
)

// ChatRepository persists conversation turns.
type ChatRepository struct {
	db *gorm.DB
}

// NewChatRepository creates a ChatRepository on db.
func NewChatRepository(db *gorm.DB) *ChatRepository {
	return &ChatRepository{db: db}
}

// History returns every turn of a conversation in insertion order.
func (r *ChatRepository) History(ctx context.Context, conversationID string) ([]entity.ChatTurn, error) {
	turns := []entity.ChatTurn{}
	err := r.db.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("id").
		Find(&turns).Error
	if err != nil {
		return nil, storageErr("failed to load chat history", err)
	}
	return turns, nil
}

// RecentTurns returns at most n of the latest turns of a conversation, oldest first.
func (r *ChatRepository) RecentTurns(ctx context.Context, conversationID string, n int) ([]entity.ChatTurn, error) {
	if n <= 0 {
		return []entity.ChatTurn{}, nil
	}
	var latest []entity.ChatTurn
	err := r.db.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("id DESC").
		Limit(n).
		Find(&latest).Error
	if err != nil {
		return nil, storageErr("failed to load recent chat turns", err)
	}
	turns := make([]entity.ChatTurn, 0, len(latest))
	for i := len(latest) - 1; i >= 0; i-- {
		turns = append(turns, latest[i])
	}
	return turns, nil
}

// Append stores turns atomically in the given order. Either all turns are
// written or none.
func (r *ChatRepository) Append(ctx context.Context, turns ...*entity.ChatTurn) error {
	if len(turns) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, t := range turns {
			if err := tx.Create(t).Error; err != nil {
				return storageErr("failed to append chat turn", err)
			}
		}
		return nil
	})
}

// Clear deletes a conversation and returns the number of removed turns.
func (r *ChatRepository) Clear(ctx context.Context, conversationID string) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Delete(&entity.ChatTurn{})
	if result.Error != nil {
		return 0, storageErr("failed to clear chat history", result.Error)
	}
	return result.RowsAffected, nil
}
