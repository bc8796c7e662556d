package bus

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/JithuMorrison/Lingzee/internal/platform/logger"
	"github.com/JithuMorrison/Lingzee/internal/realtime"
)

const (
	defaultChannel = "lingzee:sse"
	dialTimeout    = 5 * time.Second
	// forwardBuffer bounds messages held between redis and the hub.
	forwardBuffer = 256
)

var errNotInitialized = errors.New("redis SSE bus not initialized")

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	// Channel is the redis pub/sub channel every instance shares.
	Channel string
}

type redisBus struct {
	log     *logger.Logger
	rdb     *goredis.Client
	channel string

	mu      sync.Mutex
	sub     *goredis.PubSub
	wg      sync.WaitGroup
	started bool
}

func NewRedisBus(log *logger.Logger, cfg RedisConfig) (Bus, error) {
	if log == nil {
		return nil, errors.New("logger required")
	}
	addr := strings.TrimSpace(cfg.Addr)
	if addr == "" {
		return nil, errors.New("missing redis address")
	}
	channel := strings.TrimSpace(cfg.Channel)
	if channel == "" {
		channel = defaultChannel
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: dialTimeout,
	})
	ctx, cancel := context.WithTimeout(context.Background(), dialTimeout)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	busLog := log.With("service", "RedisSSEBus", "channel", channel)
	busLog.Info("Redis SSE bus connected", "addr", addr, "db", cfg.DB)
	return &redisBus{log: busLog, rdb: rdb, channel: channel}, nil
}

func (b *redisBus) Publish(ctx context.Context, msg realtime.SSEMessage) error {
	if b == nil || b.rdb == nil {
		return errNotInitialized
	}
	if msg.Channel == "" {
		return errors.New("sse message without channel")
	}
	raw, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("encode sse message: %w", err)
	}
	return b.rdb.Publish(ctx, b.channel, raw).Err()
}

// StartForwarder subscribes, waits for redis to confirm, then hands each
// decoded message to onMsg from one goroutine until ctx ends or the bus is
// closed. It may be started once.
func (b *redisBus) StartForwarder(ctx context.Context, onMsg func(m realtime.SSEMessage)) error {
	if b == nil || b.rdb == nil {
		return errNotInitialized
	}
	if onMsg == nil {
		return errors.New("onMsg callback required")
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.started {
		return errors.New("forwarder already started")
	}

	sub := b.rdb.Subscribe(ctx, b.channel)
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return fmt.Errorf("redis subscribe: %w", err)
	}
	b.sub = sub
	b.started = true

	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		b.forward(ctx, sub.Channel(goredis.WithChannelSize(forwardBuffer)), onMsg)
	}()
	return nil
}

func (b *redisBus) forward(ctx context.Context, in <-chan *goredis.Message, onMsg func(m realtime.SSEMessage)) {
	for {
		select {
		case <-ctx.Done():
			return
		case m, ok := <-in:
			if !ok {
				return
			}
			if m == nil {
				continue
			}
			msg, err := decodeMessage(m.Payload)
			if err != nil {
				b.log.Warn("Dropping bad redis SSE payload", "error", err)
				continue
			}
			b.deliver(msg, onMsg)
		}
	}
}

// deliver keeps a panicking subscriber callback from killing the forwarder.
func (b *redisBus) deliver(msg realtime.SSEMessage, onMsg func(m realtime.SSEMessage)) {
	defer func() {
		if r := recover(); r != nil {
			b.log.Error("SSE forward callback panicked", "event", msg.Event, "panic", r)
		}
	}()
	onMsg(msg)
}

func decodeMessage(payload string) (realtime.SSEMessage, error) {
	var msg realtime.SSEMessage
	if err := json.Unmarshal([]byte(payload), &msg); err != nil {
		return msg, err
	}
	if msg.Channel == "" {
		return msg, errors.New("missing channel")
	}
	return msg, nil
}

// Close stops the forwarder, waits for it to exit and closes the client.
func (b *redisBus) Close() error {
	if b == nil || b.rdb == nil {
		return nil
	}
	b.mu.Lock()
	sub := b.sub
	b.sub = nil
	b.mu.Unlock()
	if sub != nil {
		_ = sub.Close()
	}
	b.wg.Wait()
	return b.rdb.Close()
}
