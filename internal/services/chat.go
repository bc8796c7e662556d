package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/JithuMorrison/Lingzee/internal/data/repos"
	types "github.com/JithuMorrison/Lingzee/internal/domain"
	"github.com/JithuMorrison/Lingzee/internal/platform/apierr"
	"github.com/JithuMorrison/Lingzee/internal/platform/dbctx"
	"github.com/JithuMorrison/Lingzee/internal/platform/logger"
)

var ErrMissingChatFields = apierr.BadRequest("missing_fields", "Missing session_id or message")

type ChatService interface {
	StartSession(dbc dbctx.Context, courseID uuid.UUID) (*types.ChatSession, []*types.ChatMessage, error)
	// Messages returns the transcript of a session the caller owns.
	Messages(dbc dbctx.Context, sessionID uuid.UUID) ([]*types.ChatMessage, error)
	// Send stores the user's message, asks the assistant for a reply, stores
	// that and publishes both on the session channel.
	Send(dbc dbctx.Context, sessionID uuid.UUID, text string) (*types.ChatMessage, error)
	// AuthorizeSession fails with 404 unless the caller owns the session.
	AuthorizeSession(dbc dbctx.Context, sessionID uuid.UUID) (*types.ChatSession, error)
}

type chatService struct {
	db          *gorm.DB
	log         *logger.Logger
	sessionRepo repos.ChatSessionRepo
	messageRepo repos.ChatMessageRepo
	assistant   Assistant
	notify      ChatNotifier
	now         func() time.Time
}

func NewChatService(
	db *gorm.DB,
	log *logger.Logger,
	sessionRepo repos.ChatSessionRepo,
	messageRepo repos.ChatMessageRepo,
	assistant Assistant,
	notify ChatNotifier,
) ChatService {
	return &chatService{
		db:          db,
		log:         log.With("service", "ChatService"),
		sessionRepo: sessionRepo,
		messageRepo: messageRepo,
		assistant:   assistant,
		notify:      notify,
		now:         time.Now,
	}
}

func (cs *chatService) StartSession(dbc dbctx.Context, courseID uuid.UUID) (*types.ChatSession, []*types.ChatMessage, error) {
	userID, err := requireUser(dbc)
	if err != nil {
		return nil, nil, err
	}
	s := &types.ChatSession{
		ID:     uuid.New(),
		UserID: userID,
		Active: true,
	}
	if courseID != uuid.Nil {
		s.CourseID = &courseID
	}
	if err := cs.sessionRepo.Create(dbc, s); err != nil {
		return nil, nil, invalidAsBadRequest(wrap("create chat session", err))
	}
	return s, []*types.ChatMessage{}, nil
}

func (cs *chatService) AuthorizeSession(dbc dbctx.Context, sessionID uuid.UUID) (*types.ChatSession, error) {
	userID, err := requireUser(dbc)
	if err != nil {
		return nil, err
	}
	s, err := cs.sessionRepo.GetByID(dbc, sessionID)
	if err != nil {
		return nil, fmt.Errorf("load chat session: %w", err)
	}
	if s == nil || s.UserID != userID {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

func (cs *chatService) Messages(dbc dbctx.Context, sessionID uuid.UUID) ([]*types.ChatMessage, error) {
	if _, err := cs.AuthorizeSession(dbc, sessionID); err != nil {
		return nil, err
	}
	return cs.messageRepo.ListBySession(dbc, sessionID)
}

func (cs *chatService) Send(dbc dbctx.Context, sessionID uuid.UUID, text string) (*types.ChatMessage, error) {
	if sessionID == uuid.Nil || strings.TrimSpace(text) == "" {
		return nil, ErrMissingChatFields
	}
	if _, err := cs.AuthorizeSession(dbc, sessionID); err != nil {
		return nil, err
	}

	userMsg := &types.ChatMessage{
		SessionID: sessionID,
		Sender:    types.SenderUser,
		Content:   text,
		Timestamp: cs.now().UTC(),
	}
	if err := cs.messageRepo.Append(dbc, userMsg); err != nil {
		return nil, fmt.Errorf("store user message: %w", err)
	}
	cs.notify.UserMessage(dbc.Ctx, sessionID, userMsg)

	history, err := cs.messageRepo.ListBySession(dbc, sessionID)
	if err != nil {
		return nil, fmt.Errorf("load transcript: %w", err)
	}
	reply, err := cs.assistant.Reply(dbc.Ctx, sessionID, history)
	if err != nil {
		return nil, fmt.Errorf("assistant reply: %w", err)
	}

	assistantMsg := &types.ChatMessage{
		SessionID: sessionID,
		Sender:    types.SenderAssistant,
		Content:   reply,
		Timestamp: cs.now().UTC(),
	}
	if err := cs.messageRepo.Append(dbc, assistantMsg); err != nil {
		return nil, fmt.Errorf("store assistant message: %w", err)
	}
	cs.notify.AssistantMessage(dbc.Ctx, sessionID, assistantMsg)
	return assistantMsg, nil
}
