package user

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/JithuMorrison/Lingzee/internal/domain"
	"github.com/JithuMorrison/Lingzee/internal/platform/dbctx"
	"github.com/JithuMorrison/Lingzee/internal/platform/logger"
)

type UserRepo interface {
	Create(dbc dbctx.Context, u *types.User) error
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.User, error)
	GetByUsername(dbc dbctx.Context, username string) (*types.User, error)
	UsernameOrEmailExists(dbc dbctx.Context, username, email string) (bool, error)
	RecordLogin(dbc dbctx.Context, id uuid.UUID, streak int, at time.Time) error
	AddPoints(dbc dbctx.Context, id uuid.UUID, points int) error
	SetAdmin(dbc dbctx.Context, id uuid.UUID, isAdmin bool) error
	Count(dbc dbctx.Context) (int64, error)
	ListRecent(dbc dbctx.Context, limit int) ([]*types.User, error)
}

type userRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserRepo(db *gorm.DB, baseLog *logger.Logger) UserRepo {
	return &userRepo{db: db, log: baseLog.With("repo", "UserRepo")}
}

func (r *userRepo) dbx(dbc dbctx.Context) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx
	}
	return r.db
}

func (r *userRepo) Create(dbc dbctx.Context, u *types.User) error {
	if u == nil {
		return fmt.Errorf("nil user")
	}
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if err := types.Validate(u); err != nil {
		return err
	}
	return r.dbx(dbc).WithContext(dbc.Ctx).Create(u).Error
}

func (r *userRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.User, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	return r.first(dbc, "id = ?", id)
}

func (r *userRepo) GetByUsername(dbc dbctx.Context, username string) (*types.User, error) {
	if username == "" {
		return nil, nil
	}
	return r.first(dbc, "username = ?", username)
}

func (r *userRepo) first(dbc dbctx.Context, query string, args ...any) (*types.User, error) {
	var u types.User
	err := r.dbx(dbc).WithContext(dbc.Ctx).Where(query, args...).Take(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *userRepo) UsernameOrEmailExists(dbc dbctx.Context, username, email string) (bool, error) {
	var count int64
	if err := r.dbx(dbc).WithContext(dbc.Ctx).
		Model(&types.User{}).
		Where("username = ? OR email = ?", username, email).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *userRepo) RecordLogin(dbc dbctx.Context, id uuid.UUID, streak int, at time.Time) error {
	return r.dbx(dbc).WithContext(dbc.Ctx).
		Model(&types.User{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"streak":     streak,
			"last_login": at,
		}).Error
}

// AddPoints increments atomically in SQL; non-positive amounts are ignored so
// the counter never decreases.
func (r *userRepo) AddPoints(dbc dbctx.Context, id uuid.UUID, points int) error {
	if id == uuid.Nil || points <= 0 {
		return nil
	}
	return r.dbx(dbc).WithContext(dbc.Ctx).
		Model(&types.User{}).
		Where("id = ?", id).
		UpdateColumn("points", gorm.Expr("points + ?", points)).Error
}

func (r *userRepo) SetAdmin(dbc dbctx.Context, id uuid.UUID, isAdmin bool) error {
	return r.dbx(dbc).WithContext(dbc.Ctx).
		Model(&types.User{}).
		Where("id = ?", id).
		Update("is_admin", isAdmin).Error
}

func (r *userRepo) Count(dbc dbctx.Context) (int64, error) {
	var n int64
	err := r.dbx(dbc).WithContext(dbc.Ctx).Model(&types.User{}).Count(&n).Error
	return n, err
}

func (r *userRepo) ListRecent(dbc dbctx.Context, limit int) ([]*types.User, error) {
	out := []*types.User{}
	q := r.dbx(dbc).WithContext(dbc.Ctx).Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
