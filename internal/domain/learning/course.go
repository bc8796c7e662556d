package learning

import (
	"time"

	"github.com/google/uuid"
)

const (
	DefaultCategory   = "Language"
	DefaultDifficulty = "Beginner"
)

type Course struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Title       string    `gorm:"column:title;not null" json:"title" validate:"required,max=255"`
	Description string    `gorm:"column:description;type:text" json:"description"`
	Category    string    `gorm:"column:category;not null" json:"category" validate:"required"`
	Difficulty  string    `gorm:"column:difficulty;not null" json:"difficulty" validate:"required"`

	IsPublished bool `gorm:"column:is_published;not null;index" json:"is_published"`
	IsFeatured  bool `gorm:"column:is_featured;not null;index" json:"is_featured"`

	// Thumbnail is a public URL into the thumbnail store, never the bytes.
	Thumbnail    string `gorm:"column:thumbnail" json:"thumbnail"`
	ThumbnailKey string `gorm:"column:thumbnail_key" json:"-"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

func (Course) TableName() string { return "course" }

// CourseSummary is a catalog listing row.
type CourseSummary struct {
	*Course
	LessonCount int64 `json:"lesson_count"`
}

// CourseDetail is a course with its visible lessons in display order.
type CourseDetail struct {
	*Course
	Lessons []*Lesson `json:"lessons"`
}
