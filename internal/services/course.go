package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/JithuMorrison/Lingzee/internal/data/repos"
	types "github.com/JithuMorrison/Lingzee/internal/domain"
	"github.com/JithuMorrison/Lingzee/internal/platform/dbctx"
	"github.com/JithuMorrison/Lingzee/internal/platform/logger"
)

const featuredCourseLimit = 3

type CourseService interface {
	ListPublished(dbc dbctx.Context) ([]*types.CourseSummary, error)
	ListFeatured(dbc dbctx.Context) ([]*types.CourseSummary, error)
	// GetDetail returns the course with its published lessons in display order.
	GetDetail(dbc dbctx.Context, courseID uuid.UUID) (*types.CourseDetail, error)
	Enroll(dbc dbctx.Context, courseID uuid.UUID) (*types.Enrollment, error)
	IsEnrolled(dbc dbctx.Context, courseID uuid.UUID) (bool, error)
}

type courseService struct {
	db             *gorm.DB
	log            *logger.Logger
	courseRepo     repos.CourseRepo
	lessonRepo     repos.LessonRepo
	enrollmentRepo repos.EnrollmentRepo
}

func NewCourseService(
	db *gorm.DB,
	log *logger.Logger,
	courseRepo repos.CourseRepo,
	lessonRepo repos.LessonRepo,
	enrollmentRepo repos.EnrollmentRepo,
) CourseService {
	return &courseService{
		db:             db,
		log:            log.With("service", "CourseService"),
		courseRepo:     courseRepo,
		lessonRepo:     lessonRepo,
		enrollmentRepo: enrollmentRepo,
	}
}

func (cs *courseService) ListPublished(dbc dbctx.Context) ([]*types.CourseSummary, error) {
	courses, err := cs.courseRepo.ListPublished(dbc)
	if err != nil {
		return nil, fmt.Errorf("list published courses: %w", err)
	}
	return cs.summarize(dbc, courses)
}

func (cs *courseService) ListFeatured(dbc dbctx.Context) ([]*types.CourseSummary, error) {
	courses, err := cs.courseRepo.ListFeatured(dbc, featuredCourseLimit)
	if err != nil {
		return nil, fmt.Errorf("list featured courses: %w", err)
	}
	return cs.summarize(dbc, courses)
}

func (cs *courseService) summarize(dbc dbctx.Context, courses []*types.Course) ([]*types.CourseSummary, error) {
	ids := make([]uuid.UUID, 0, len(courses))
	for _, c := range courses {
		ids = append(ids, c.ID)
	}
	counts, err := cs.lessonRepo.CountPublishedByCourses(dbc, ids)
	if err != nil {
		return nil, fmt.Errorf("count lessons: %w", err)
	}
	out := make([]*types.CourseSummary, 0, len(courses))
	for _, c := range courses {
		out = append(out, &types.CourseSummary{Course: c, LessonCount: counts[c.ID]})
	}
	return out, nil
}

func (cs *courseService) GetDetail(dbc dbctx.Context, courseID uuid.UUID) (*types.CourseDetail, error) {
	course, err := cs.courseRepo.GetByID(dbc, courseID)
	if err != nil {
		return nil, fmt.Errorf("load course: %w", err)
	}
	if course == nil {
		return nil, ErrCourseNotFound
	}
	lessons, err := cs.lessonRepo.ListByCourse(dbc, courseID, true)
	if err != nil {
		return nil, fmt.Errorf("list lessons: %w", err)
	}
	return &types.CourseDetail{Course: course, Lessons: lessons}, nil
}

func (cs *courseService) Enroll(dbc dbctx.Context, courseID uuid.UUID) (*types.Enrollment, error) {
	userID, err := requireUser(dbc)
	if err != nil {
		return nil, err
	}
	course, err := cs.courseRepo.GetByID(dbc, courseID)
	if err != nil {
		return nil, fmt.Errorf("load course: %w", err)
	}
	if course == nil {
		return nil, ErrCourseNotFound
	}
	enrolled, err := cs.enrollmentRepo.Exists(dbc, userID, courseID)
	if err != nil {
		return nil, fmt.Errorf("check enrollment: %w", err)
	}
	if enrolled {
		return nil, ErrAlreadyEnrolled
	}
	e := &types.Enrollment{UserID: userID, CourseID: courseID}
	if err := cs.enrollmentRepo.Create(dbc, e); err != nil {
		// A concurrent enroll can pass the check above; the unique index decides.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAlreadyEnrolled
		}
		return nil, fmt.Errorf("create enrollment: %w", err)
	}
	cs.log.Info("User enrolled", "user_id", userID, "course_id", courseID)
	return e, nil
}

func (cs *courseService) IsEnrolled(dbc dbctx.Context, courseID uuid.UUID) (bool, error) {
	userID, err := requireUser(dbc)
	if err != nil {
		return false, err
	}
	return cs.enrollmentRepo.Exists(dbc, userID, courseID)
}
