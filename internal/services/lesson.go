package services

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/JithuMorrison/Lingzee/internal/data/repos"
	types "github.com/JithuMorrison/Lingzee/internal/domain"
	"github.com/JithuMorrison/Lingzee/internal/platform/dbctx"
	"github.com/JithuMorrison/Lingzee/internal/platform/logger"
)

// Completing a lesson is worth twice its duration in points.
const pointsPerDurationUnit = 2

func lessonPoints(l *types.Lesson) int {
	if l == nil || l.Duration <= 0 {
		return 0
	}
	return l.Duration * pointsPerDurationUnit
}

type LessonService interface {
	// Get returns the lesson when it is free or the caller is enrolled in its
	// course.
	Get(dbc dbctx.Context, lessonID uuid.UUID) (*types.Lesson, error)
	SubmitQuiz(dbc dbctx.Context, lessonID uuid.UUID, answers map[string]json.RawMessage) (*QuizResult, error)
}

type lessonService struct {
	db             *gorm.DB
	log            *logger.Logger
	lessonRepo     repos.LessonRepo
	enrollmentRepo repos.EnrollmentRepo
	progressRepo   repos.ProgressRepo
	userRepo       repos.UserRepo
}

func NewLessonService(
	db *gorm.DB,
	log *logger.Logger,
	lessonRepo repos.LessonRepo,
	enrollmentRepo repos.EnrollmentRepo,
	progressRepo repos.ProgressRepo,
	userRepo repos.UserRepo,
) LessonService {
	return &lessonService{
		db:             db,
		log:            log.With("service", "LessonService"),
		lessonRepo:     lessonRepo,
		enrollmentRepo: enrollmentRepo,
		progressRepo:   progressRepo,
		userRepo:       userRepo,
	}
}

func (ls *lessonService) Get(dbc dbctx.Context, lessonID uuid.UUID) (*types.Lesson, error) {
	userID, err := requireUser(dbc)
	if err != nil {
		return nil, err
	}
	lesson, err := ls.lessonRepo.GetByID(dbc, lessonID)
	if err != nil {
		return nil, fmt.Errorf("load lesson: %w", err)
	}
	if lesson == nil {
		return nil, ErrLessonNotFound
	}
	if lesson.IsFree {
		return lesson, nil
	}
	enrolled, err := ls.enrollmentRepo.Exists(dbc, userID, lesson.CourseID)
	if err != nil {
		return nil, fmt.Errorf("check enrollment: %w", err)
	}
	if !enrolled {
		return nil, ErrNotEnrolled
	}
	return lesson, nil
}

func (ls *lessonService) SubmitQuiz(dbc dbctx.Context, lessonID uuid.UUID, answers map[string]json.RawMessage) (*QuizResult, error) {
	userID, err := requireUser(dbc)
	if err != nil {
		return nil, err
	}
	lesson, err := ls.lessonRepo.GetByID(dbc, lessonID)
	if err != nil {
		return nil, fmt.Errorf("load lesson: %w", err)
	}
	if lesson == nil || lesson.LessonType != types.LessonTypeQuiz {
		return nil, ErrQuizNotFound
	}
	quiz, err := lesson.QuizContent()
	if err != nil {
		return nil, fmt.Errorf("lesson %s: %w", lessonID, err)
	}
	result, err := GradeQuiz(quiz.Questions, answers)
	if err != nil {
		return nil, err
	}

	progress := 0.5
	if result.Passed {
		progress = 1
	}
	score := result.Score
	row := &types.LessonProgress{
		UserID:    userID,
		CourseID:  lesson.CourseID,
		LessonID:  lesson.ID,
		Progress:  progress,
		Completed: result.Passed,
		QuizScore: &score,
	}
	if err := ls.progressRepo.Upsert(dbc, row, "progress", "completed", "quiz_score"); err != nil {
		return nil, fmt.Errorf("save quiz progress: %w", err)
	}

	if result.Passed {
		if err := ls.userRepo.AddPoints(dbc, userID, lessonPoints(lesson)); err != nil {
			ls.log.Error("Failed to award quiz points", "user_id", userID, "lesson_id", lesson.ID, "error", err)
		}
	}
	return result, nil
}
