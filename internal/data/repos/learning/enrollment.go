package learning

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/JithuMorrison/Lingzee/internal/domain"
	"github.com/JithuMorrison/Lingzee/internal/platform/dbctx"
	"github.com/JithuMorrison/Lingzee/internal/platform/logger"
)

type EnrollmentRepo interface {
	// Create fails with gorm.ErrDuplicatedKey when (user, course) exists.
	Create(dbc dbctx.Context, e *types.Enrollment) error
	Exists(dbc dbctx.Context, userID, courseID uuid.UUID) (bool, error)
	ListByUser(dbc dbctx.Context, userID uuid.UUID) ([]*types.Enrollment, error)
	CountPremium(dbc dbctx.Context) (int64, error)
}

type enrollmentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewEnrollmentRepo(db *gorm.DB, baseLog *logger.Logger) EnrollmentRepo {
	return &enrollmentRepo{db: db, log: baseLog.With("repo", "EnrollmentRepo")}
}

func (r *enrollmentRepo) dbx(dbc dbctx.Context) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx
	}
	return r.db
}

func (r *enrollmentRepo) Create(dbc dbctx.Context, e *types.Enrollment) error {
	if e == nil {
		return fmt.Errorf("nil enrollment")
	}
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	if e.EnrolledAt.IsZero() {
		e.EnrolledAt = time.Now().UTC()
	}
	if err := types.Validate(e); err != nil {
		return err
	}
	return r.dbx(dbc).WithContext(dbc.Ctx).Create(e).Error
}

func (r *enrollmentRepo) Exists(dbc dbctx.Context, userID, courseID uuid.UUID) (bool, error) {
	if userID == uuid.Nil || courseID == uuid.Nil {
		return false, nil
	}
	var n int64
	if err := r.dbx(dbc).WithContext(dbc.Ctx).
		Model(&types.Enrollment{}).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *enrollmentRepo) ListByUser(dbc dbctx.Context, userID uuid.UUID) ([]*types.Enrollment, error) {
	out := []*types.Enrollment{}
	if userID == uuid.Nil {
		return out, nil
	}
	if err := r.dbx(dbc).WithContext(dbc.Ctx).
		Where("user_id = ?", userID).
		Order("enrolled_at ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *enrollmentRepo) CountPremium(dbc dbctx.Context) (int64, error) {
	var n int64
	err := r.dbx(dbc).WithContext(dbc.Ctx).
		Model(&types.Enrollment{}).
		Where("is_premium = ?", true).
		Count(&n).Error
	return n, err
}
