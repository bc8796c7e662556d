package chat

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/JithuMorrison/Lingzee/internal/domain"
	"github.com/JithuMorrison/Lingzee/internal/platform/dbctx"
	"github.com/JithuMorrison/Lingzee/internal/platform/logger"
)

type SessionRepo interface {
	Create(dbc dbctx.Context, s *types.ChatSession) error
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.ChatSession, error)
}

type sessionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSessionRepo(db *gorm.DB, baseLog *logger.Logger) SessionRepo {
	return &sessionRepo{db: db, log: baseLog.With("repo", "ChatSessionRepo")}
}

func (r *sessionRepo) dbx(dbc dbctx.Context) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx
	}
	return r.db
}

func (r *sessionRepo) Create(dbc dbctx.Context, s *types.ChatSession) error {
	if s == nil {
		return fmt.Errorf("nil session")
	}
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	if err := types.Validate(s); err != nil {
		return err
	}
	return r.dbx(dbc).WithContext(dbc.Ctx).Create(s).Error
}

func (r *sessionRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.ChatSession, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	var s types.ChatSession
	err := r.dbx(dbc).WithContext(dbc.Ctx).Where("id = ?", id).Take(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}
