package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	types "github.com/JithuMorrison/Lingzee/internal/domain"
)

// Assistant produces the reply to the latest user message of a session.
// history is the full transcript in order, ending with that message.
type Assistant interface {
	Reply(ctx context.Context, sessionID uuid.UUID, history []*types.ChatMessage) (string, error)
}

// EchoAssistant acknowledges the latest user message verbatim.
type EchoAssistant struct{}

func NewEchoAssistant() Assistant { return EchoAssistant{} }

func (EchoAssistant) Reply(ctx context.Context, sessionID uuid.UUID, history []*types.ChatMessage) (string, error) {
	for i := len(history) - 1; i >= 0; i-- {
		if m := history[i]; m != nil && m.Sender == types.SenderUser {
			return fmt.Sprintf("I received your message: %s", m.Content), nil
		}
	}
	return "", fmt.Errorf("session %s has no user message to answer", sessionID)
}
