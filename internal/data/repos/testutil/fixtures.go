package testutil

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	types "github.com/JithuMorrison/Lingzee/internal/domain"
)

// SeedUser stores a user whose password is "pw".
func SeedUser(tb testing.TB, ctx context.Context, tx *gorm.DB, username string) *types.User {
	tb.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("pw"), bcrypt.MinCost)
	if err != nil {
		tb.Fatalf("hash password: %v", err)
	}
	u := &types.User{
		ID:       uuid.New(),
		Username: username,
		Email:    username + "@example.com",
		Password: string(hash),
	}
	if err := tx.WithContext(ctx).Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

func SeedCourse(tb testing.TB, ctx context.Context, tx *gorm.DB, title string, published bool) *types.Course {
	tb.Helper()
	c := &types.Course{
		ID:          uuid.New(),
		Title:       title,
		Description: "desc",
		Category:    "Language",
		Difficulty:  "Beginner",
		IsPublished: published,
	}
	if err := tx.WithContext(ctx).Create(c).Error; err != nil {
		tb.Fatalf("seed course: %v", err)
	}
	return c
}

// SeedLesson stores a published lesson of the given type.
func SeedLesson(tb testing.TB, ctx context.Context, tx *gorm.DB, courseID uuid.UUID, order int, lessonType string, free bool) *types.Lesson {
	tb.Helper()
	l := &types.Lesson{
		ID:          uuid.New(),
		CourseID:    courseID,
		Title:       "lesson",
		LessonType:  lessonType,
		Content:     datatypes.JSON([]byte(`{}`)),
		Duration:    10,
		IsFree:      free,
		SortOrder:   order,
		IsPublished: true,
	}
	if err := tx.WithContext(ctx).Create(l).Error; err != nil {
		tb.Fatalf("seed lesson: %v", err)
	}
	return l
}

// SeedQuiz stores a published, non-free quiz lesson with the given questions.
func SeedQuiz(tb testing.TB, ctx context.Context, tx *gorm.DB, courseID uuid.UUID, duration int, questions []types.Question) *types.Lesson {
	tb.Helper()
	raw, err := json.Marshal(types.QuizContent{Questions: questions})
	if err != nil {
		tb.Fatalf("marshal quiz: %v", err)
	}
	l := &types.Lesson{
		ID:          uuid.New(),
		CourseID:    courseID,
		Title:       "quiz",
		LessonType:  types.LessonTypeQuiz,
		Content:     datatypes.JSON(raw),
		Duration:    duration,
		SortOrder:   99,
		IsPublished: true,
	}
	if err := tx.WithContext(ctx).Create(l).Error; err != nil {
		tb.Fatalf("seed quiz: %v", err)
	}
	return l
}
