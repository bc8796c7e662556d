package user

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Username string    `gorm:"column:username;uniqueIndex;not null" json:"username" validate:"required,max=64"`
	Email    string    `gorm:"column:email;uniqueIndex;not null" json:"email" validate:"required,max=255"`
	Password string    `gorm:"column:password;not null" json:"-" validate:"required"`
	IsAdmin  bool      `gorm:"column:is_admin;not null" json:"is_admin"`

	// Points only ever grow; see UserRepo.AddPoints.
	Points    int        `gorm:"column:points;not null" json:"points" validate:"gte=0"`
	Streak    int        `gorm:"column:streak;not null" json:"streak" validate:"gte=0"`
	LastLogin *time.Time `gorm:"column:last_login" json:"last_login,omitempty"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

func (User) TableName() string { return "users" }
