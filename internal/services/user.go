package services

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/JithuMorrison/Lingzee/internal/data/repos"
	types "github.com/JithuMorrison/Lingzee/internal/domain"
	"github.com/JithuMorrison/Lingzee/internal/platform/dbctx"
	"github.com/JithuMorrison/Lingzee/internal/platform/logger"
)

const courseProgressConcurrency = 4

type Dashboard struct {
	Courses  []*types.Course                 `json:"courses"`
	Progress map[string]types.CourseProgress `json:"progress"`
}

type UserStats struct {
	TotalCourses     int `json:"totalCourses"`
	CompletedCourses int `json:"completedCourses"`
	Streak           int `json:"streak"`
	Points           int `json:"points"`
}

type UserService interface {
	GetMe(dbc dbctx.Context) (*types.User, error)
	Dashboard(dbc dbctx.Context) (*Dashboard, error)
	EnrolledCourses(dbc dbctx.Context) ([]*types.Course, error)
	AllProgress(dbc dbctx.Context) ([]*types.LessonProgress, error)
	Stats(dbc dbctx.Context) (*UserStats, error)
}

type userService struct {
	db             *gorm.DB
	log            *logger.Logger
	userRepo       repos.UserRepo
	courseRepo     repos.CourseRepo
	lessonRepo     repos.LessonRepo
	enrollmentRepo repos.EnrollmentRepo
	progressRepo   repos.ProgressRepo
}

func NewUserService(
	db *gorm.DB,
	log *logger.Logger,
	userRepo repos.UserRepo,
	courseRepo repos.CourseRepo,
	lessonRepo repos.LessonRepo,
	enrollmentRepo repos.EnrollmentRepo,
	progressRepo repos.ProgressRepo,
) UserService {
	return &userService{
		db:             db,
		log:            log.With("service", "UserService"),
		userRepo:       userRepo,
		courseRepo:     courseRepo,
		lessonRepo:     lessonRepo,
		enrollmentRepo: enrollmentRepo,
		progressRepo:   progressRepo,
	}
}

func (us *userService) GetMe(dbc dbctx.Context) (*types.User, error) {
	userID, err := requireUser(dbc)
	if err != nil {
		return nil, err
	}
	u, err := us.userRepo.GetByID(dbc, userID)
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	if u == nil {
		return nil, ErrUnauthenticated
	}
	return u, nil
}

func (us *userService) enrolledCourseIDs(dbc dbctx.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	enrollments, err := us.enrollmentRepo.ListByUser(dbc, userID)
	if err != nil {
		return nil, fmt.Errorf("list enrollments: %w", err)
	}
	ids := make([]uuid.UUID, 0, len(enrollments))
	for _, e := range enrollments {
		ids = append(ids, e.CourseID)
	}
	return ids, nil
}

// progressByCourse aggregates each course concurrently. Inside a transaction
// the queries run one at a time since they share its connection.
func (us *userService) progressByCourse(dbc dbctx.Context, userID uuid.UUID, courseIDs []uuid.UUID) (map[string]types.CourseProgress, error) {
	out := make(map[string]types.CourseProgress, len(courseIDs))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(dbc.Ctx)
	if dbc.Tx != nil {
		g.SetLimit(1)
	} else {
		g.SetLimit(courseProgressConcurrency)
	}
	for _, courseID := range courseIDs {
		courseID := courseID
		g.Go(func() error {
			p, err := courseProgressFor(dbctx.Context{Ctx: gctx, Tx: dbc.Tx}, us.progressRepo, us.lessonRepo, userID, courseID)
			if err != nil {
				return fmt.Errorf("course %s: %w", courseID, err)
			}
			mu.Lock()
			out[courseID.String()] = p
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (us *userService) Dashboard(dbc dbctx.Context) (*Dashboard, error) {
	userID, err := requireUser(dbc)
	if err != nil {
		return nil, err
	}
	ids, err := us.enrolledCourseIDs(dbc, userID)
	if err != nil {
		return nil, err
	}
	courses, err := us.courseRepo.GetByIDs(dbc, ids)
	if err != nil {
		return nil, fmt.Errorf("load courses: %w", err)
	}
	progress, err := us.progressByCourse(dbc, userID, ids)
	if err != nil {
		return nil, err
	}
	return &Dashboard{Courses: courses, Progress: progress}, nil
}

func (us *userService) EnrolledCourses(dbc dbctx.Context) ([]*types.Course, error) {
	userID, err := requireUser(dbc)
	if err != nil {
		return nil, err
	}
	ids, err := us.enrolledCourseIDs(dbc, userID)
	if err != nil {
		return nil, err
	}
	courses, err := us.courseRepo.GetByIDs(dbc, ids)
	if err != nil {
		return nil, fmt.Errorf("load courses: %w", err)
	}
	return courses, nil
}

func (us *userService) AllProgress(dbc dbctx.Context) ([]*types.LessonProgress, error) {
	userID, err := requireUser(dbc)
	if err != nil {
		return nil, err
	}
	return us.progressRepo.ListByUser(dbc, userID)
}

func (us *userService) Stats(dbc dbctx.Context) (*UserStats, error) {
	u, err := us.GetMe(dbc)
	if err != nil {
		return nil, err
	}
	ids, err := us.enrolledCourseIDs(dbc, u.ID)
	if err != nil {
		return nil, err
	}
	progress, err := us.progressByCourse(dbc, u.ID, ids)
	if err != nil {
		return nil, err
	}
	completed := 0
	for _, p := range progress {
		if IsCourseComplete(p) {
			completed++
		}
	}
	return &UserStats{
		TotalCourses:     len(ids),
		CompletedCourses: completed,
		Streak:           u.Streak,
		Points:           u.Points,
	}, nil
}
