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

type CourseRepo interface {
	Create(dbc dbctx.Context, c *types.Course) error
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Course, error)
	GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.Course, error)
	ListPublished(dbc dbctx.Context) ([]*types.Course, error)
	ListFeatured(dbc dbctx.Context, limit int) ([]*types.Course, error)
	ListAll(dbc dbctx.Context) ([]*types.Course, error)
	ListRecent(dbc dbctx.Context, limit int) ([]*types.Course, error)
	Update(dbc dbctx.Context, id uuid.UUID, fields map[string]any) (bool, error)
	DeleteCascade(dbc dbctx.Context, id uuid.UUID) (bool, error)
	Count(dbc dbctx.Context) (int64, error)
}

type courseRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCourseRepo(db *gorm.DB, baseLog *logger.Logger) CourseRepo {
	return &courseRepo{db: db, log: baseLog.With("repo", "CourseRepo")}
}

func (r *courseRepo) dbx(dbc dbctx.Context) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx
	}
	return r.db
}

func (r *courseRepo) Create(dbc dbctx.Context, c *types.Course) error {
	if c == nil {
		return fmt.Errorf("nil course")
	}
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if err := types.Validate(c); err != nil {
		return err
	}
	return r.dbx(dbc).WithContext(dbc.Ctx).Create(c).Error
}

func (r *courseRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Course, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	var c types.Course
	err := r.dbx(dbc).WithContext(dbc.Ctx).Where("id = ?", id).Take(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *courseRepo) GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.Course, error) {
	out := []*types.Course{}
	if len(ids) == 0 {
		return out, nil
	}
	if err := r.dbx(dbc).WithContext(dbc.Ctx).
		Where("id IN ?", ids).
		Order("created_at ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *courseRepo) ListPublished(dbc dbctx.Context) ([]*types.Course, error) {
	out := []*types.Course{}
	if err := r.dbx(dbc).WithContext(dbc.Ctx).
		Where("is_published = ?", true).
		Order("created_at ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *courseRepo) ListFeatured(dbc dbctx.Context, limit int) ([]*types.Course, error) {
	out := []*types.Course{}
	q := r.dbx(dbc).WithContext(dbc.Ctx).
		Where("is_published = ? AND is_featured = ?", true, true).
		Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *courseRepo) ListAll(dbc dbctx.Context) ([]*types.Course, error) {
	out := []*types.Course{}
	if err := r.dbx(dbc).WithContext(dbc.Ctx).Order("created_at DESC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *courseRepo) ListRecent(dbc dbctx.Context, limit int) ([]*types.Course, error) {
	out := []*types.Course{}
	q := r.dbx(dbc).WithContext(dbc.Ctx).Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// Update applies a partial column update and reports whether the course
// exists.
func (r *courseRepo) Update(dbc dbctx.Context, id uuid.UUID, fields map[string]any) (bool, error) {
	if id == uuid.Nil {
		return false, nil
	}
	existing, err := r.GetByID(dbc, id)
	if err != nil || existing == nil {
		return false, err
	}
	if len(fields) == 0 {
		return true, nil
	}
	if err := r.dbx(dbc).WithContext(dbc.Ctx).
		Model(&types.Course{}).
		Where("id = ?", id).
		Updates(fields).Error; err != nil {
		return true, err
	}
	return true, nil
}

// DeleteCascade removes the course and every lesson that references it in one
// transaction.
func (r *courseRepo) DeleteCascade(dbc dbctx.Context, id uuid.UUID) (bool, error) {
	if id == uuid.Nil {
		return false, nil
	}
	found := false
	err := r.dbx(dbc).WithContext(dbc.Ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ?", id).Delete(&types.Course{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		found = true
		if err := tx.Where("course_id = ?", id).Delete(&types.Lesson{}).Error; err != nil {
			return fmt.Errorf("delete lessons: %w", err)
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	return found, nil
}

func (r *courseRepo) Count(dbc dbctx.Context) (int64, error) {
	var n int64
	err := r.dbx(dbc).WithContext(dbc.Ctx).Model(&types.Course{}).Count(&n).Error
	return n, err
}
