package chat

import (
	"time"

	"github.com/google/uuid"
)

const (
	SenderUser      = "user"
	SenderAssistant = "assistant"
)

// Message is an immutable transcript entry. Seq orders a session's messages
// even when two of them share a timestamp.
type Message struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	SessionID uuid.UUID `gorm:"type:uuid;column:session_id;not null;uniqueIndex:idx_message_session_seq" json:"session_id" validate:"required"`
	Seq       int64     `gorm:"column:seq;not null;uniqueIndex:idx_message_session_seq" json:"seq"`
	Sender    string    `gorm:"column:sender;not null" json:"sender" validate:"required,oneof=user assistant"`
	Content   string    `gorm:"column:content;type:text;not null" json:"content" validate:"required"`
	Timestamp time.Time `gorm:"column:timestamp;not null;index" json:"timestamp"`
}

func (Message) TableName() string { return "assistant_message" }
