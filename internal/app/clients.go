package app

import (
	"fmt"
	"strings"

	"github.com/JithuMorrison/Lingzee/internal/platform/logger"
	"github.com/JithuMorrison/Lingzee/internal/realtime/bus"
)

type Clients struct {
	// SSEBus is nil when REDIS_ADDR is unset; chat events then stay in-process.
	SSEBus     bus.Bus
	Thumbnails thumbnailStorage
}

func wireClients(log *logger.Logger, cfg Config) (Clients, error) {
	log.Info("Wiring clients...")

	// Redis
	var sseBus bus.Bus
	if strings.TrimSpace(cfg.RedisAddr) != "" {
		b, err := bus.NewRedisBus(log, bus.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			Channel:  cfg.RedisChannel,
		})
		if err != nil {
			return Clients{}, fmt.Errorf("init redis SSE bus: %w", err)
		}
		sseBus = b
	}

	// Thumbnails
	thumbs, err := resolveThumbnailStore(log, cfg)
	if err != nil {
		if sseBus != nil {
			_ = sseBus.Close()
		}
		return Clients{}, fmt.Errorf("init thumbnail storage: %w", err)
	}

	return Clients{SSEBus: sseBus, Thumbnails: thumbs}, nil
}

func (c *Clients) Close() {
	if c == nil {
		return
	}
	if c.SSEBus != nil {
		_ = c.SSEBus.Close()
	}
	if c.Thumbnails.closer != nil {
		_ = c.Thumbnails.closer()
	}
}
