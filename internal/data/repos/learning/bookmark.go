package learning

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/JithuMorrison/Lingzee/internal/domain"
	"github.com/JithuMorrison/Lingzee/internal/platform/dbctx"
	"github.com/JithuMorrison/Lingzee/internal/platform/logger"
)

type BookmarkRepo interface {
	// Create fails with gorm.ErrDuplicatedKey when (user, lesson) exists.
	Create(dbc dbctx.Context, b *types.Bookmark) error
	Exists(dbc dbctx.Context, userID, lessonID uuid.UUID) (bool, error)
	Delete(dbc dbctx.Context, userID, lessonID uuid.UUID) (bool, error)
	ListByUser(dbc dbctx.Context, userID uuid.UUID) ([]*types.Bookmark, error)
}

type bookmarkRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewBookmarkRepo(db *gorm.DB, baseLog *logger.Logger) BookmarkRepo {
	return &bookmarkRepo{db: db, log: baseLog.With("repo", "BookmarkRepo")}
}

func (r *bookmarkRepo) dbx(dbc dbctx.Context) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx
	}
	return r.db
}

func (r *bookmarkRepo) Create(dbc dbctx.Context, b *types.Bookmark) error {
	if b == nil {
		return fmt.Errorf("nil bookmark")
	}
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	if err := types.Validate(b); err != nil {
		return err
	}
	return r.dbx(dbc).WithContext(dbc.Ctx).Create(b).Error
}

func (r *bookmarkRepo) Exists(dbc dbctx.Context, userID, lessonID uuid.UUID) (bool, error) {
	if userID == uuid.Nil || lessonID == uuid.Nil {
		return false, nil
	}
	var n int64
	if err := r.dbx(dbc).WithContext(dbc.Ctx).
		Model(&types.Bookmark{}).
		Where("user_id = ? AND lesson_id = ?", userID, lessonID).
		Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *bookmarkRepo) Delete(dbc dbctx.Context, userID, lessonID uuid.UUID) (bool, error) {
	res := r.dbx(dbc).WithContext(dbc.Ctx).
		Where("user_id = ? AND lesson_id = ?", userID, lessonID).
		Delete(&types.Bookmark{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *bookmarkRepo) ListByUser(dbc dbctx.Context, userID uuid.UUID) ([]*types.Bookmark, error) {
	out := []*types.Bookmark{}
	if userID == uuid.Nil {
		return out, nil
	}
	if err := r.dbx(dbc).WithContext(dbc.Ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
