package bus

import (
	"context"

	"github.com/JithuMorrison/Lingzee/internal/realtime"
)

// Bus relays SSE messages between server instances so a message published on
// one instance reaches subscribers connected to any other.
type Bus interface {
	Publish(ctx context.Context, msg realtime.SSEMessage) error
	StartForwarder(ctx context.Context, onMsg func(m realtime.SSEMessage)) error
	Close() error
}
