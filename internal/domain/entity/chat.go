package entity

// Role identifies the author of a chat turn.
type Role string

const (
	// RoleUser marks a question typed by the user.
	RoleUser Role = "user"
	// RoleModel marks an answer produced by the LLM.
	RoleModel Role = "model"
)

// ChatTurn is one persisted message of a conversation. ID order is replay order.
type ChatTurn struct {
	ID             int64   `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	ConversationID string  `gorm:"column:conversation_id" json:"conversation_id"`
	Role           Role    `gorm:"column:role" json:"role"`
	Content        string  `gorm:"column:content" json:"content"`
	SQLQuery       *string `gorm:"column:sql_query" json:"sql_query,omitempty"`
	CreatedAt      int64   `gorm:"column:created_at" json:"created_at"`
}

// TableName specifies the table name for ChatTurn.
func (ChatTurn) TableName() string {
	return "chat"
}
