package app

import (
	"gorm.io/gorm"

	"github.com/JithuMorrison/Lingzee/internal/data/repos"
	"github.com/JithuMorrison/Lingzee/internal/platform/logger"
)

type Repos struct {
	User        repos.UserRepo
	Course      repos.CourseRepo
	Lesson      repos.LessonRepo
	Enrollment  repos.EnrollmentRepo
	Progress    repos.ProgressRepo
	Bookmark    repos.BookmarkRepo
	ChatSession repos.ChatSessionRepo
	ChatMessage repos.ChatMessageRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		User:        repos.NewUserRepo(db, log),
		Course:      repos.NewCourseRepo(db, log),
		Lesson:      repos.NewLessonRepo(db, log),
		Enrollment:  repos.NewEnrollmentRepo(db, log),
		Progress:    repos.NewProgressRepo(db, log),
		Bookmark:    repos.NewBookmarkRepo(db, log),
		ChatSession: repos.NewChatSessionRepo(db, log),
		ChatMessage: repos.NewChatMessageRepo(db, log),
	}
}
