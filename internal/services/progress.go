package services

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/JithuMorrison/Lingzee/internal/data/repos"
	types "github.com/JithuMorrison/Lingzee/internal/domain"
	"github.com/JithuMorrison/Lingzee/internal/platform/dbctx"
	"github.com/JithuMorrison/Lingzee/internal/platform/logger"
)

// ProgressUpdate carries the fields a client reports while viewing a lesson.
// Nil pointers leave the stored value alone.
type ProgressUpdate struct {
	Progress      float64  `json:"progress"`
	VideoProgress *float64 `json:"video_progress"`
	Completed     *bool    `json:"completed"`
	QuizScore     *float64 `json:"quiz_score"`
}

type ProgressService interface {
	CourseProgress(dbc dbctx.Context, courseID uuid.UUID) (types.CourseProgress, error)
	// LessonProgress returns nil when the caller has no record yet.
	LessonProgress(dbc dbctx.Context, courseID, lessonID uuid.UUID) (*types.LessonProgress, error)
	Update(dbc dbctx.Context, courseID, lessonID uuid.UUID, in ProgressUpdate) error
	// Complete marks the lesson done and returns the points awarded.
	Complete(dbc dbctx.Context, courseID, lessonID uuid.UUID) (int, error)
}

type progressService struct {
	db           *gorm.DB
	log          *logger.Logger
	progressRepo repos.ProgressRepo
	lessonRepo   repos.LessonRepo
	userRepo     repos.UserRepo
}

func NewProgressService(
	db *gorm.DB,
	log *logger.Logger,
	progressRepo repos.ProgressRepo,
	lessonRepo repos.LessonRepo,
	userRepo repos.UserRepo,
) ProgressService {
	return &progressService{
		db:           db,
		log:          log.With("service", "ProgressService"),
		progressRepo: progressRepo,
		lessonRepo:   lessonRepo,
		userRepo:     userRepo,
	}
}

func (ps *progressService) CourseProgress(dbc dbctx.Context, courseID uuid.UUID) (types.CourseProgress, error) {
	userID, err := requireUser(dbc)
	if err != nil {
		return types.CourseProgress{}, err
	}
	return courseProgressFor(dbc, ps.progressRepo, ps.lessonRepo, userID, courseID)
}

// courseProgressFor aggregates over every lesson of the course, published or
// not, matching how lesson completion is recorded.
func courseProgressFor(dbc dbctx.Context, progressRepo repos.ProgressRepo, lessonRepo repos.LessonRepo, userID, courseID uuid.UUID) (types.CourseProgress, error) {
	total, err := lessonRepo.CountByCourse(dbc, courseID, false)
	if err != nil {
		return types.CourseProgress{}, fmt.Errorf("count lessons: %w", err)
	}
	rows, err := progressRepo.ListByUserCourse(dbc, userID, courseID)
	if err != nil {
		return types.CourseProgress{}, fmt.Errorf("list progress: %w", err)
	}
	return AggregateCourseProgress(rows, total), nil
}

func (ps *progressService) LessonProgress(dbc dbctx.Context, courseID, lessonID uuid.UUID) (*types.LessonProgress, error) {
	userID, err := requireUser(dbc)
	if err != nil {
		return nil, err
	}
	row, err := ps.progressRepo.Get(dbc, userID, courseID, lessonID)
	if err != nil {
		return nil, fmt.Errorf("load progress: %w", err)
	}
	return row, nil
}

func (ps *progressService) Update(dbc dbctx.Context, courseID, lessonID uuid.UUID, in ProgressUpdate) error {
	userID, err := requireUser(dbc)
	if err != nil {
		return err
	}
	row := &types.LessonProgress{
		UserID:   userID,
		CourseID: courseID,
		LessonID: lessonID,
		Progress: in.Progress,
	}
	columns := []string{"progress"}
	if in.VideoProgress != nil {
		row.VideoProgress = *in.VideoProgress
		columns = append(columns, "video_progress")
	}
	if in.Completed != nil {
		row.Completed = *in.Completed
		columns = append(columns, "completed")
	}
	if in.QuizScore != nil {
		score := *in.QuizScore
		row.QuizScore = &score
		columns = append(columns, "quiz_score")
	}
	if err := ps.progressRepo.Upsert(dbc, row, columns...); err != nil {
		return invalidAsBadRequest(wrap("save progress", err))
	}
	return nil
}

func (ps *progressService) Complete(dbc dbctx.Context, courseID, lessonID uuid.UUID) (int, error) {
	userID, err := requireUser(dbc)
	if err != nil {
		return 0, err
	}
	lesson, err := ps.lessonRepo.GetByID(dbc, lessonID)
	if err != nil {
		return 0, fmt.Errorf("load lesson: %w", err)
	}
	if lesson == nil {
		return 0, ErrLessonNotFound
	}
	row := &types.LessonProgress{
		UserID:    userID,
		CourseID:  courseID,
		LessonID:  lessonID,
		Progress:  1,
		Completed: true,
	}
	if err := ps.progressRepo.Upsert(dbc, row, "progress", "completed"); err != nil {
		return 0, fmt.Errorf("save completion: %w", err)
	}
	points := lessonPoints(lesson)
	if err := ps.userRepo.AddPoints(dbc, userID, points); err != nil {
		ps.log.Error("Failed to award completion points", "user_id", userID, "lesson_id", lessonID, "error", err)
	}
	return points, nil
}
