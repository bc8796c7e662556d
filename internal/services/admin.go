package services

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/JithuMorrison/Lingzee/internal/data/repos"
	types "github.com/JithuMorrison/Lingzee/internal/domain"
	"github.com/JithuMorrison/Lingzee/internal/platform/apierr"
	"github.com/JithuMorrison/Lingzee/internal/platform/dbctx"
	"github.com/JithuMorrison/Lingzee/internal/platform/logger"
)

const adminRecentLimit = 5

type AdminStats struct {
	TotalCourses int64   `json:"totalCourses"`
	TotalUsers   int64   `json:"totalUsers"`
	TotalLessons int64   `json:"totalLessons"`
	Revenue      float64 `json:"revenue"`
}

// CourseInput is an admin create/update form. Nil fields are absent: on
// create they take defaults, on update they are left alone.
type CourseInput struct {
	Title       *string
	Description *string
	Category    *string
	Difficulty  *string
	IsPublished *bool
	IsFeatured  *bool
	Thumbnail   io.Reader
}

// LessonInput is an admin lesson payload with the same absent-field rules as
// CourseInput.
type LessonInput struct {
	Title       *string         `json:"title"`
	Description *string         `json:"description"`
	LessonType  *string         `json:"lesson_type"`
	Content     json.RawMessage `json:"content"`
	Duration    *int            `json:"duration"`
	Order       *int            `json:"order"`
	IsFree      *bool           `json:"is_free"`
	IsPublished *bool           `json:"is_published"`
}

type AdminService interface {
	Stats(dbc dbctx.Context) (*AdminStats, error)

	ListCourses(dbc dbctx.Context) ([]*types.Course, error)
	RecentCourses(dbc dbctx.Context) ([]*types.Course, error)
	GetCourse(dbc dbctx.Context, id uuid.UUID) (*types.Course, error)
	CreateCourse(dbc dbctx.Context, in CourseInput) (*types.Course, error)
	UpdateCourse(dbc dbctx.Context, id uuid.UUID, in CourseInput) error
	// DeleteCourse removes the course together with all of its lessons.
	DeleteCourse(dbc dbctx.Context, id uuid.UUID) error

	ListLessons(dbc dbctx.Context, courseID uuid.UUID) ([]*types.Lesson, error)
	GetLesson(dbc dbctx.Context, id uuid.UUID) (*types.Lesson, error)
	CreateLesson(dbc dbctx.Context, courseID uuid.UUID, in LessonInput) (*types.Lesson, error)
	UpdateLesson(dbc dbctx.Context, id uuid.UUID, in LessonInput) error
	DeleteLesson(dbc dbctx.Context, id uuid.UUID) error

	RecentUsers(dbc dbctx.Context) ([]*types.User, error)
}

type adminService struct {
	db             *gorm.DB
	log            *logger.Logger
	userRepo       repos.UserRepo
	courseRepo     repos.CourseRepo
	lessonRepo     repos.LessonRepo
	enrollmentRepo repos.EnrollmentRepo
	thumbnails     ThumbnailService
}

func NewAdminService(
	db *gorm.DB,
	log *logger.Logger,
	userRepo repos.UserRepo,
	courseRepo repos.CourseRepo,
	lessonRepo repos.LessonRepo,
	enrollmentRepo repos.EnrollmentRepo,
	thumbnails ThumbnailService,
) AdminService {
	return &adminService{
		db:             db,
		log:            log.With("service", "AdminService"),
		userRepo:       userRepo,
		courseRepo:     courseRepo,
		lessonRepo:     lessonRepo,
		enrollmentRepo: enrollmentRepo,
		thumbnails:     thumbnails,
	}
}

func (as *adminService) Stats(dbc dbctx.Context) (*AdminStats, error) {
	out := &AdminStats{}
	var err error
	if out.TotalCourses, err = as.courseRepo.Count(dbc); err != nil {
		return nil, fmt.Errorf("count courses: %w", err)
	}
	if out.TotalUsers, err = as.userRepo.Count(dbc); err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}
	if out.TotalLessons, err = as.lessonRepo.Count(dbc); err != nil {
		return nil, fmt.Errorf("count lessons: %w", err)
	}
	premium, err := as.enrollmentRepo.CountPremium(dbc)
	if err != nil {
		return nil, fmt.Errorf("count premium enrollments: %w", err)
	}
	out.Revenue = float64(premium) * types.PremiumEnrollmentPrice
	return out, nil
}

func (as *adminService) ListCourses(dbc dbctx.Context) ([]*types.Course, error) {
	return as.courseRepo.ListAll(dbc)
}

func (as *adminService) RecentCourses(dbc dbctx.Context) ([]*types.Course, error) {
	return as.courseRepo.ListRecent(dbc, adminRecentLimit)
}

func (as *adminService) GetCourse(dbc dbctx.Context, id uuid.UUID) (*types.Course, error) {
	c, err := as.courseRepo.GetByID(dbc, id)
	if err != nil {
		return nil, fmt.Errorf("load course: %w", err)
	}
	if c == nil {
		return nil, ErrCourseNotFound
	}
	return c, nil
}

func trimmed(p *string) string {
	if p == nil {
		return ""
	}
	return strings.TrimSpace(*p)
}

func orDefault(p *string, def string) string {
	if v := trimmed(p); v != "" {
		return v
	}
	return def
}

func boolOr(p *bool, def bool) bool {
	if p == nil {
		return def
	}
	return *p
}

func (as *adminService) CreateCourse(dbc dbctx.Context, in CourseInput) (*types.Course, error) {
	title := trimmed(in.Title)
	if title == "" {
		return nil, apierr.BadRequest("missing_fields", "Title is required")
	}
	c := &types.Course{
		Title:       title,
		Description: trimmed(in.Description),
		Category:    orDefault(in.Category, types.DefaultCategory),
		Difficulty:  orDefault(in.Difficulty, types.DefaultDifficulty),
		IsPublished: boolOr(in.IsPublished, false),
		IsFeatured:  boolOr(in.IsFeatured, false),
	}
	if in.Thumbnail != nil {
		url, key, err := as.thumbnails.Save(dbc.Ctx, in.Thumbnail)
		if err != nil {
			return nil, err
		}
		c.Thumbnail, c.ThumbnailKey = url, key
	}
	if err := as.courseRepo.Create(dbc, c); err != nil {
		as.thumbnails.Delete(dbc.Ctx, c.ThumbnailKey)
		return nil, invalidAsBadRequest(wrap("create course", err))
	}
	as.log.Info("Course created", "course_id", c.ID)
	return c, nil
}

func (as *adminService) UpdateCourse(dbc dbctx.Context, id uuid.UUID, in CourseInput) error {
	existing, err := as.courseRepo.GetByID(dbc, id)
	if err != nil {
		return fmt.Errorf("load course: %w", err)
	}
	if existing == nil {
		return ErrCourseNotFound
	}

	fields := map[string]any{}
	if v := trimmed(in.Title); v != "" {
		fields["title"] = v
	}
	if in.Description != nil {
		fields["description"] = strings.TrimSpace(*in.Description)
	}
	if v := trimmed(in.Category); v != "" {
		fields["category"] = v
	}
	if v := trimmed(in.Difficulty); v != "" {
		fields["difficulty"] = v
	}
	if in.IsPublished != nil {
		fields["is_published"] = *in.IsPublished
	}
	if in.IsFeatured != nil {
		fields["is_featured"] = *in.IsFeatured
	}
	if in.Thumbnail != nil {
		url, key, err := as.thumbnails.Save(dbc.Ctx, in.Thumbnail)
		if err != nil {
			return err
		}
		fields["thumbnail"] = url
		fields["thumbnail_key"] = key
	}

	found, err := as.courseRepo.Update(dbc, id, fields)
	if err != nil {
		if key, ok := fields["thumbnail_key"].(string); ok {
			as.thumbnails.Delete(dbc.Ctx, key)
		}
		return fmt.Errorf("update course: %w", err)
	}
	if !found {
		return ErrCourseNotFound
	}
	if _, replaced := fields["thumbnail_key"]; replaced {
		as.thumbnails.Delete(dbc.Ctx, existing.ThumbnailKey)
	}
	return nil
}

func (as *adminService) DeleteCourse(dbc dbctx.Context, id uuid.UUID) error {
	existing, err := as.courseRepo.GetByID(dbc, id)
	if err != nil {
		return fmt.Errorf("load course: %w", err)
	}
	if existing == nil {
		return ErrCourseNotFound
	}
	found, err := as.courseRepo.DeleteCascade(dbc, id)
	if err != nil {
		return fmt.Errorf("delete course: %w", err)
	}
	if !found {
		return ErrCourseNotFound
	}
	as.thumbnails.Delete(dbc.Ctx, existing.ThumbnailKey)
	as.log.Info("Course deleted", "course_id", id)
	return nil
}

func (as *adminService) ListLessons(dbc dbctx.Context, courseID uuid.UUID) ([]*types.Lesson, error) {
	return as.lessonRepo.ListByCourse(dbc, courseID, false)
}

func (as *adminService) GetLesson(dbc dbctx.Context, id uuid.UUID) (*types.Lesson, error) {
	l, err := as.lessonRepo.GetByID(dbc, id)
	if err != nil {
		return nil, fmt.Errorf("load lesson: %w", err)
	}
	if l == nil {
		return nil, ErrLessonNotFound
	}
	return l, nil
}

func lessonContent(raw json.RawMessage) (datatypes.JSON, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return datatypes.JSON([]byte(`{}`)), nil
	}
	if !json.Valid(raw) {
		return nil, apierr.BadRequest("invalid_content", "Lesson content must be valid JSON")
	}
	return datatypes.JSON(raw), nil
}

func (as *adminService) CreateLesson(dbc dbctx.Context, courseID uuid.UUID, in LessonInput) (*types.Lesson, error) {
	course, err := as.courseRepo.GetByID(dbc, courseID)
	if err != nil {
		return nil, fmt.Errorf("load course: %w", err)
	}
	if course == nil {
		return nil, ErrCourseNotFound
	}
	title := trimmed(in.Title)
	if title == "" {
		return nil, apierr.BadRequest("missing_fields", "Title is required")
	}
	content, err := lessonContent(in.Content)
	if err != nil {
		return nil, err
	}
	l := &types.Lesson{
		CourseID:    courseID,
		Title:       title,
		Description: trimmed(in.Description),
		LessonType:  orDefault(in.LessonType, types.LessonTypeText),
		Content:     content,
		IsFree:      boolOr(in.IsFree, true),
		IsPublished: boolOr(in.IsPublished, true),
	}
	if in.Duration != nil {
		l.Duration = *in.Duration
	}
	if in.Order != nil {
		l.SortOrder = *in.Order
	}
	if err := as.lessonRepo.Create(dbc, l); err != nil {
		return nil, invalidAsBadRequest(wrap("create lesson", err))
	}
	return l, nil
}

func (as *adminService) UpdateLesson(dbc dbctx.Context, id uuid.UUID, in LessonInput) error {
	existing, err := as.lessonRepo.GetByID(dbc, id)
	if err != nil {
		return fmt.Errorf("load lesson: %w", err)
	}
	if existing == nil {
		return ErrLessonNotFound
	}

	// Apply onto a copy first so the merged lesson is validated as a whole.
	merged := *existing
	fields := map[string]any{}
	if v := trimmed(in.Title); v != "" {
		merged.Title, fields["title"] = v, v
	}
	if in.Description != nil {
		v := strings.TrimSpace(*in.Description)
		merged.Description, fields["description"] = v, v
	}
	if v := trimmed(in.LessonType); v != "" {
		merged.LessonType, fields["lesson_type"] = v, v
	}
	if len(in.Content) > 0 {
		content, err := lessonContent(in.Content)
		if err != nil {
			return err
		}
		merged.Content, fields["content"] = content, content
	}
	if in.Duration != nil {
		merged.Duration, fields["duration"] = *in.Duration, *in.Duration
	}
	if in.Order != nil {
		merged.SortOrder, fields["sort_order"] = *in.Order, *in.Order
	}
	if in.IsFree != nil {
		merged.IsFree, fields["is_free"] = *in.IsFree, *in.IsFree
	}
	if in.IsPublished != nil {
		merged.IsPublished, fields["is_published"] = *in.IsPublished, *in.IsPublished
	}
	if err := types.Validate(&merged); err != nil {
		return invalidAsBadRequest(err)
	}

	found, err := as.lessonRepo.Update(dbc, id, fields)
	if err != nil {
		return fmt.Errorf("update lesson: %w", err)
	}
	if !found {
		return ErrLessonNotFound
	}
	return nil
}

func (as *adminService) DeleteLesson(dbc dbctx.Context, id uuid.UUID) error {
	found, err := as.lessonRepo.Delete(dbc, id)
	if err != nil {
		return fmt.Errorf("delete lesson: %w", err)
	}
	if !found {
		return ErrLessonNotFound
	}
	return nil
}

func (as *adminService) RecentUsers(dbc dbctx.Context) ([]*types.User, error) {
	return as.userRepo.ListRecent(dbc, adminRecentLimit)
}
