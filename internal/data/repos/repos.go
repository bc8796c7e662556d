package repos

import (
	"github.com/JithuMorrison/Lingzee/internal/data/repos/chat"
	"github.com/JithuMorrison/Lingzee/internal/data/repos/learning"
	"github.com/JithuMorrison/Lingzee/internal/data/repos/user"
	"github.com/JithuMorrison/Lingzee/internal/platform/logger"
	"gorm.io/gorm"
)

type UserRepo = user.UserRepo

type CourseRepo = learning.CourseRepo
type LessonRepo = learning.LessonRepo
type EnrollmentRepo = learning.EnrollmentRepo
type ProgressRepo = learning.ProgressRepo
type BookmarkRepo = learning.BookmarkRepo

type ChatSessionRepo = chat.SessionRepo
type ChatMessageRepo = chat.MessageRepo

func NewUserRepo(db *gorm.DB, log *logger.Logger) UserRepo { return user.NewUserRepo(db, log) }

func NewCourseRepo(db *gorm.DB, log *logger.Logger) CourseRepo { return learning.NewCourseRepo(db, log) }
func NewLessonRepo(db *gorm.DB, log *logger.Logger) LessonRepo { return learning.NewLessonRepo(db, log) }
func NewEnrollmentRepo(db *gorm.DB, log *logger.Logger) EnrollmentRepo {
	return learning.NewEnrollmentRepo(db, log)
}
func NewProgressRepo(db *gorm.DB, log *logger.Logger) ProgressRepo {
	return learning.NewProgressRepo(db, log)
}
func NewBookmarkRepo(db *gorm.DB, log *logger.Logger) BookmarkRepo {
	return learning.NewBookmarkRepo(db, log)
}

func NewChatSessionRepo(db *gorm.DB, log *logger.Logger) ChatSessionRepo {
	return chat.NewSessionRepo(db, log)
}
func NewChatMessageRepo(db *gorm.DB, log *logger.Logger) ChatMessageRepo {
	return chat.NewMessageRepo(db, log)
}
