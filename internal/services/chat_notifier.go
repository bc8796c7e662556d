package services

import (
	"context"

	"github.com/google/uuid"

	types "github.com/JithuMorrison/Lingzee/internal/domain"
	"github.com/JithuMorrison/Lingzee/internal/realtime"
)

// ChatNotifier fans chat messages out on the channel named by the session id.
type ChatNotifier interface {
	UserMessage(ctx context.Context, sessionID uuid.UUID, msg *types.ChatMessage)
	AssistantMessage(ctx context.Context, sessionID uuid.UUID, msg *types.ChatMessage)
}

type chatNotifier struct {
	emit SSEEmitter
}

func NewChatNotifier(emit SSEEmitter) ChatNotifier {
	return &chatNotifier{emit: emit}
}

func (n *chatNotifier) UserMessage(ctx context.Context, sessionID uuid.UUID, msg *types.ChatMessage) {
	n.send(ctx, sessionID, realtime.SSEEventUserMessage, msg)
}

func (n *chatNotifier) AssistantMessage(ctx context.Context, sessionID uuid.UUID, msg *types.ChatMessage) {
	n.send(ctx, sessionID, realtime.SSEEventAssistantMessage, msg)
}

func (n *chatNotifier) send(ctx context.Context, sessionID uuid.UUID, event realtime.SSEEvent, msg *types.ChatMessage) {
	if n == nil || n.emit == nil || sessionID == uuid.Nil || msg == nil {
		return
	}
	n.emit.Emit(ctx, realtime.SSEMessage{
		Channel: sessionID.String(),
		Event:   event,
		Data:    msg,
	})
}
