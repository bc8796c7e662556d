package learning

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/JithuMorrison/Lingzee/internal/domain"
	"github.com/JithuMorrison/Lingzee/internal/platform/dbctx"
	"github.com/JithuMorrison/Lingzee/internal/platform/logger"
)

type ProgressRepo interface {
	// Upsert inserts row or, on (user, course, lesson) conflict, overwrites
	// only the named columns plus updated_at.
	Upsert(dbc dbctx.Context, row *types.LessonProgress, columns ...string) error
	Get(dbc dbctx.Context, userID, courseID, lessonID uuid.UUID) (*types.LessonProgress, error)
	ListByUserCourse(dbc dbctx.Context, userID, courseID uuid.UUID) ([]*types.LessonProgress, error)
	ListByUser(dbc dbctx.Context, userID uuid.UUID) ([]*types.LessonProgress, error)
}

type progressRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewProgressRepo(db *gorm.DB, baseLog *logger.Logger) ProgressRepo {
	return &progressRepo{db: db, log: baseLog.With("repo", "ProgressRepo")}
}

func (r *progressRepo) dbx(dbc dbctx.Context) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx
	}
	return r.db
}

var progressColumns = map[string]bool{
	"progress":       true,
	"completed":      true,
	"quiz_score":     true,
	"video_progress": true,
}

func (r *progressRepo) Upsert(dbc dbctx.Context, row *types.LessonProgress, columns ...string) error {
	if row == nil {
		return fmt.Errorf("nil progress")
	}
	if len(columns) == 0 {
		return fmt.Errorf("no progress columns to update")
	}
	for _, c := range columns {
		if !progressColumns[c] {
			return fmt.Errorf("unknown progress column %q", c)
		}
	}
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	now := time.Now().UTC()
	row.UpdatedAt = now
	if row.CreatedAt.IsZero() {
		row.CreatedAt = now
	}
	if err := types.Validate(row); err != nil {
		return err
	}

	return r.dbx(dbc).WithContext(dbc.Ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "user_id"},
				{Name: "course_id"},
				{Name: "lesson_id"},
			},
			DoUpdates: clause.AssignmentColumns(append(append([]string{}, columns...), "updated_at")),
		}).
		Create(row).Error
}

func (r *progressRepo) Get(dbc dbctx.Context, userID, courseID, lessonID uuid.UUID) (*types.LessonProgress, error) {
	var row types.LessonProgress
	err := r.dbx(dbc).WithContext(dbc.Ctx).
		Where("user_id = ? AND course_id = ? AND lesson_id = ?", userID, courseID, lessonID).
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *progressRepo) ListByUserCourse(dbc dbctx.Context, userID, courseID uuid.UUID) ([]*types.LessonProgress, error) {
	out := []*types.LessonProgress{}
	if userID == uuid.Nil || courseID == uuid.Nil {
		return out, nil
	}
	if err := r.dbx(dbc).WithContext(dbc.Ctx).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Order("updated_at ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *progressRepo) ListByUser(dbc dbctx.Context, userID uuid.UUID) ([]*types.LessonProgress, error) {
	out := []*types.LessonProgress{}
	if userID == uuid.Nil {
		return out, nil
	}
	if err := r.dbx(dbc).WithContext(dbc.Ctx).
		Where("user_id = ?", userID).
		Order("updated_at DESC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
