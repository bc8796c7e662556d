package learning

import (
	"time"

	"github.com/google/uuid"
)

type Bookmark struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;column:user_id;not null;uniqueIndex:idx_bookmark_user_lesson" json:"user_id" validate:"required"`
	LessonID  uuid.UUID `gorm:"type:uuid;column:lesson_id;not null;uniqueIndex:idx_bookmark_user_lesson;index" json:"lesson_id" validate:"required"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}

func (Bookmark) TableName() string { return "bookmark" }
