package domain

import (
	"github.com/JithuMorrison/Lingzee/internal/domain/chat"
	"github.com/JithuMorrison/Lingzee/internal/domain/learning"
	"github.com/JithuMorrison/Lingzee/internal/domain/user"
)

type User = user.User

type Course = learning.Course
type CourseSummary = learning.CourseSummary
type CourseDetail = learning.CourseDetail
type Lesson = learning.Lesson
type Question = learning.Question
type QuizContent = learning.QuizContent
type Enrollment = learning.Enrollment
type LessonProgress = learning.LessonProgress
type CourseProgress = learning.CourseProgress
type Bookmark = learning.Bookmark

type ChatSession = chat.Session
type ChatMessage = chat.Message

const (
	LessonTypeVideo    = learning.LessonTypeVideo
	LessonTypeText     = learning.LessonTypeText
	LessonTypeQuiz     = learning.LessonTypeQuiz
	LessonTypeDocument = learning.LessonTypeDocument

	QuestionTypeMCQ    = learning.QuestionTypeMCQ
	QuestionTypeTyping = learning.QuestionTypeTyping

	DefaultCategory        = learning.DefaultCategory
	DefaultDifficulty      = learning.DefaultDifficulty
	PremiumEnrollmentPrice = learning.PremiumEnrollmentPrice

	SenderUser      = chat.SenderUser
	SenderAssistant = chat.SenderAssistant
)

// AllModels lists every persisted entity in migration order.
func AllModels() []any {
	return []any{
		&User{},
		&Course{},
		&Lesson{},
		&Enrollment{},
		&LessonProgress{},
		&Bookmark{},
		&ChatSession{},
		&ChatMessage{},
	}
}
