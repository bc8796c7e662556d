package chat

import (
	"time"

	"github.com/google/uuid"
)

type Session struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey" json:"session_id"`
	UserID    uuid.UUID  `gorm:"type:uuid;column:user_id;not null;index" json:"user_id" validate:"required"`
	// CourseID is nil for sessions opened outside a course.
	CourseID  *uuid.UUID `gorm:"type:uuid;column:course_id;index" json:"course_id"`
	Active    bool       `gorm:"column:active;not null" json:"active"`
	CreatedAt time.Time  `gorm:"not null;autoCreateTime" json:"created_at"`
}

func (Session) TableName() string { return "assistant_session" }
