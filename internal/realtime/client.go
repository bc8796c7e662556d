package realtime

import (
	"sync"

	"github.com/google/uuid"

	"github.com/JithuMorrison/Lingzee/internal/platform/logger"
)

const outboundBuffer = 16

type SSEClient struct {
	ID       uuid.UUID
	UserID   uuid.UUID
	Channels map[string]bool
	Outbound chan SSEMessage
	done     chan struct{}
	once     sync.Once
	Logger   *logger.Logger
}

// Done is closed once the hub has released the client.
func (c *SSEClient) Done() <-chan struct{} { return c.done }
