package learning

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	LessonTypeVideo    = "video"
	LessonTypeText     = "text"
	LessonTypeQuiz     = "quiz"
	LessonTypeDocument = "document"
)

// Lesson.Content shapes by type:
//
//	video:    {"video_id": "...", "notes": "<html>"}
//	text:     "<html>" or {"body": "..."}
//	quiz:     {"questions": [Question...]}
//	document: {"url": "..."}
type Lesson struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	CourseID    uuid.UUID      `gorm:"type:uuid;column:course_id;not null;index" json:"course_id" validate:"required"`
	Title       string         `gorm:"column:title;not null" json:"title" validate:"required,max=255"`
	Description string         `gorm:"column:description;type:text" json:"description"`
	LessonType  string         `gorm:"column:lesson_type;not null" json:"lesson_type" validate:"required,oneof=video text quiz document"`
	Content     datatypes.JSON `gorm:"column:content" json:"content"`
	Duration    int            `gorm:"column:duration;not null" json:"duration" validate:"gte=0"`
	IsFree      bool           `gorm:"column:is_free;not null" json:"is_free"`
	SortOrder   int            `gorm:"column:sort_order;not null;index" json:"order"`
	IsPublished bool           `gorm:"column:is_published;not null;index" json:"is_published"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

func (Lesson) TableName() string { return "lesson" }

const (
	QuestionTypeMCQ    = "mcq"
	QuestionTypeTyping = "typing"
)

type Question struct {
	Text           string            `json:"text"`
	Type           string            `json:"type"`
	Options        []string          `json:"options,omitempty"`
	Multiple       bool              `json:"multiple,omitempty"`
	CorrectAnswers []json.RawMessage `json:"correct_answers"`
}

type QuizContent struct {
	Questions []Question `json:"questions"`
}

// QuizContent decodes the lesson's questions. It fails for non-quiz lessons.
func (l *Lesson) QuizContent() (*QuizContent, error) {
	if l == nil || l.LessonType != LessonTypeQuiz {
		return nil, fmt.Errorf("lesson is not a quiz")
	}
	out := &QuizContent{}
	if len(l.Content) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(l.Content, out); err != nil {
		return nil, fmt.Errorf("decode quiz content: %w", err)
	}
	return out, nil
}
