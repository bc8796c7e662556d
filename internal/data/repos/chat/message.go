package chat

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

const appendAttempts = 3

type MessageRepo interface {
	// Append assigns the next per-session sequence number and stores msg.
	Append(dbc dbctx.Context, msg *types.ChatMessage) error
	ListBySession(dbc dbctx.Context, sessionID uuid.UUID) ([]*types.ChatMessage, error)
}

type messageRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewMessageRepo(db *gorm.DB, baseLog *logger.Logger) MessageRepo {
	return &messageRepo{db: db, log: baseLog.With("repo", "ChatMessageRepo")}
}

func (r *messageRepo) dbx(dbc dbctx.Context) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx
	}
	return r.db
}

func (r *messageRepo) Append(dbc dbctx.Context, msg *types.ChatMessage) error {
	if msg == nil {
		return fmt.Errorf("nil message")
	}
	if msg.ID == uuid.Nil {
		msg.ID = uuid.New()
	}
	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now().UTC()
	}
	if err := types.Validate(msg); err != nil {
		return err
	}

	var err error
	for attempt := 0; attempt < appendAttempts; attempt++ {
		err = r.dbx(dbc).WithContext(dbc.Ctx).Transaction(func(tx *gorm.DB) error {
			var last int64
			if err := tx.Model(&types.ChatMessage{}).
				Where("session_id = ?", msg.SessionID).
				Select("COALESCE(MAX(seq), 0)").
				Scan(&last).Error; err != nil {
				return err
			}
			msg.Seq = last + 1
			return tx.Create(msg).Error
		})
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return err
		}
		r.log.Debug("message seq collision, retrying", "session_id", msg.SessionID, "attempt", attempt+1)
	}
	return err
}

func (r *messageRepo) ListBySession(dbc dbctx.Context, sessionID uuid.UUID) ([]*types.ChatMessage, error) {
	out := []*types.ChatMessage{}
	if sessionID == uuid.Nil {
		return out, nil
	}
	if err := r.dbx(dbc).WithContext(dbc.Ctx).
		Where("session_id = ?", sessionID).
		Order("seq ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
