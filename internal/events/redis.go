package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/orderdesk-backend/internal/pkg/logger"
)

type RedisConfig struct {
	Addr string
	// Channel is the prefix; each message goes to "<Channel>.<topic>".
	Channel string
}

type redisEnvelope struct {
	Message
	Payload json.RawMessage `json:"payload"`
}

type RedisPublisher struct {
	log     *logger.Logger
	rdb     *goredis.Client
	channel string
}

func NewRedisPublisher(ctx context.Context, log *logger.Logger, cfg RedisConfig) (*RedisPublisher, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	addr := strings.TrimSpace(cfg.Addr)
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return newRedisPublisher(log, rdb, cfg.Channel), nil
}

func newRedisPublisher(log *logger.Logger, rdb *goredis.Client, channel string) *RedisPublisher {
	channel = strings.TrimSpace(channel)
	if channel == "" {
		channel = "orderdesk"
	}
	return &RedisPublisher{
		log:     log.With("service", "RedisPublisher"),
		rdb:     rdb,
		channel: channel,
	}
}

func (p *RedisPublisher) Name() string { return BackendRedis }

// Client exposes the underlying connection for health collectors.
func (p *RedisPublisher) Client() *goredis.Client {
	if p == nil {
		return nil
	}
	return p.rdb
}

func (p *RedisPublisher) ChannelFor(topic string) string {
	return p.channel + "." + topic
}

func (p *RedisPublisher) Publish(ctx context.Context, msg Message) error {
	if p == nil || p.rdb == nil {
		return ErrPublisherClosed
	}
	raw, err := encodeRedisEnvelope(msg)
	if err != nil {
		return err
	}
	return p.rdb.Publish(ctx, p.ChannelFor(msg.Topic), raw).Err()
}

func (p *RedisPublisher) Close() error {
	if p == nil || p.rdb == nil {
		return nil
	}
	return p.rdb.Close()
}

func encodeRedisEnvelope(msg Message) ([]byte, error) {
	payload := json.RawMessage(msg.Payload)
	if len(payload) == 0 {
		payload = json.RawMessage("null")
	}
	return json.Marshal(redisEnvelope{Message: msg, Payload: payload})
}
