package learning

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/JithuMorrison/Lingzee/internal/domain"
	"github.com/JithuMorrison/Lingzee/internal/platform/dbctx"
	"github.com/JithuMorrison/Lingzee/internal/platform/logger"
)

type LessonRepo interface {
	Create(dbc dbctx.Context, l *types.Lesson) error
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Lesson, error)
	ListByCourse(dbc dbctx.Context, courseID uuid.UUID, publishedOnly bool) ([]*types.Lesson, error)
	CountByCourse(dbc dbctx.Context, courseID uuid.UUID, publishedOnly bool) (int64, error)
	CountPublishedByCourses(dbc dbctx.Context, courseIDs []uuid.UUID) (map[uuid.UUID]int64, error)
	Update(dbc dbctx.Context, id uuid.UUID, fields map[string]any) (bool, error)
	Delete(dbc dbctx.Context, id uuid.UUID) (bool, error)
	Count(dbc dbctx.Context) (int64, error)
}

type lessonRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewLessonRepo(db *gorm.DB, baseLog *logger.Logger) LessonRepo {
	return &lessonRepo{db: db, log: baseLog.With("repo", "LessonRepo")}
}

func (r *lessonRepo) dbx(dbc dbctx.Context) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx
	}
	return r.db
}

func (r *lessonRepo) Create(dbc dbctx.Context, l *types.Lesson) error {
	if l == nil {
		return fmt.Errorf("nil lesson")
	}
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	if err := types.Validate(l); err != nil {
		return err
	}
	return r.dbx(dbc).WithContext(dbc.Ctx).Create(l).Error
}

func (r *lessonRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Lesson, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	var l types.Lesson
	err := r.dbx(dbc).WithContext(dbc.Ctx).Where("id = ?", id).Take(&l).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *lessonRepo) scope(dbc dbctx.Context, courseID uuid.UUID, publishedOnly bool) *gorm.DB {
	q := r.dbx(dbc).WithContext(dbc.Ctx).Model(&types.Lesson{}).Where("course_id = ?", courseID)
	if publishedOnly {
		q = q.Where("is_published = ?", true)
	}
	return q
}

func (r *lessonRepo) ListByCourse(dbc dbctx.Context, courseID uuid.UUID, publishedOnly bool) ([]*types.Lesson, error) {
	out := []*types.Lesson{}
	if courseID == uuid.Nil {
		return out, nil
	}
	if err := r.scope(dbc, courseID, publishedOnly).
		Order("sort_order ASC").
		Order("created_at ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *lessonRepo) CountByCourse(dbc dbctx.Context, courseID uuid.UUID, publishedOnly bool) (int64, error) {
	var n int64
	if courseID == uuid.Nil {
		return 0, nil
	}
	err := r.scope(dbc, courseID, publishedOnly).Count(&n).Error
	return n, err
}

func (r *lessonRepo) CountPublishedByCourses(dbc dbctx.Context, courseIDs []uuid.UUID) (map[uuid.UUID]int64, error) {
	out := make(map[uuid.UUID]int64, len(courseIDs))
	if len(courseIDs) == 0 {
		return out, nil
	}
	var rows []struct {
		CourseID uuid.UUID
		N        int64
	}
	if err := r.dbx(dbc).WithContext(dbc.Ctx).
		Model(&types.Lesson{}).
		Select("course_id, COUNT(*) AS n").
		Where("course_id IN ? AND is_published = ?", courseIDs, true).
		Group("course_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.CourseID] = row.N
	}
	return out, nil
}

func (r *lessonRepo) Update(dbc dbctx.Context, id uuid.UUID, fields map[string]any) (bool, error) {
	existing, err := r.GetByID(dbc, id)
	if err != nil || existing == nil {
		return false, err
	}
	if len(fields) == 0 {
		return true, nil
	}
	if err := r.dbx(dbc).WithContext(dbc.Ctx).
		Model(&types.Lesson{}).
		Where("id = ?", id).
		Updates(fields).Error; err != nil {
		return true, err
	}
	return true, nil
}

func (r *lessonRepo) Delete(dbc dbctx.Context, id uuid.UUID) (bool, error) {
	if id == uuid.Nil {
		return false, nil
	}
	res := r.dbx(dbc).WithContext(dbc.Ctx).Where("id = ?", id).Delete(&types.Lesson{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *lessonRepo) Count(dbc dbctx.Context) (int64, error) {
	var n int64
	err := r.dbx(dbc).WithContext(dbc.Ctx).Model(&types.Lesson{}).Count(&n).Error
	return n, err
}
