package learning

import (
	"time"

	"github.com/google/uuid"
)

// LessonProgress is the single mutable record per (user, course, lesson).
type LessonProgress struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID   uuid.UUID `gorm:"type:uuid;column:user_id;not null;uniqueIndex:idx_progress_user_course_lesson" json:"user_id" validate:"required"`
	CourseID uuid.UUID `gorm:"type:uuid;column:course_id;not null;uniqueIndex:idx_progress_user_course_lesson" json:"course_id" validate:"required"`
	LessonID uuid.UUID `gorm:"type:uuid;column:lesson_id;not null;uniqueIndex:idx_progress_user_course_lesson" json:"lesson_id" validate:"required"`

	Progress      float64  `gorm:"column:progress;not null" json:"progress" validate:"gte=0,lte=1"`
	Completed     bool     `gorm:"column:completed;not null" json:"completed"`
	QuizScore     *float64 `gorm:"column:quiz_score" json:"quiz_score,omitempty"`
	VideoProgress float64  `gorm:"column:video_progress;not null" json:"video_progress" validate:"gte=0"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (LessonProgress) TableName() string { return "lesson_progress" }

// CourseProgress is the aggregate shown per course.
type CourseProgress struct {
	Progress         float64     `json:"progress"`
	CompletedLessons []uuid.UUID `json:"completedLessons"`
}
