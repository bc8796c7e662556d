package learning

import (
	"time"

	"github.com/google/uuid"
)

// PremiumEnrollmentPrice feeds the admin revenue figure.
const PremiumEnrollmentPrice = 19.99

type Enrollment struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID     uuid.UUID `gorm:"type:uuid;column:user_id;not null;uniqueIndex:idx_enrollment_user_course" json:"user_id" validate:"required"`
	CourseID   uuid.UUID `gorm:"type:uuid;column:course_id;not null;uniqueIndex:idx_enrollment_user_course;index" json:"course_id" validate:"required"`
	EnrolledAt time.Time `gorm:"column:enrolled_at;not null" json:"enrolled_at"`
	Completed  bool      `gorm:"column:completed;not null" json:"completed"`
	IsPremium  bool      `gorm:"column:is_premium;not null;index" json:"is_premium"`
}

func (Enrollment) TableName() string { return "enrollment" }
