package app

import (
	"context"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/orderdesk-backend/internal/events"
	"github.com/yungbote/orderdesk-backend/internal/pkg/logger"
)

type Clients struct {
	Publisher events.Publisher
	// Redis is set when the redis backend is enabled; the metrics collector pings it.
	Redis *goredis.Client
}

func wireClients(ctx context.Context, log *logger.Logger, cfg Config) (Clients, error) {
	log.Info("Wiring clients...", "events_backend", cfg.EventsBackend)

	var (
		redisPub *events.RedisPublisher
		kafkaPub *events.KafkaPublisher
		err      error
	)
	switch cfg.EventsBackend {
	case "", events.BackendNone:
		return Clients{Publisher: events.NewNoopPublisher()}, nil
	case events.BackendRedis, events.BackendKafka, events.BackendBoth:
	default:
		return Clients{}, fmt.Errorf("unsupported EVENTS_BACKEND %q", cfg.EventsBackend)
	}

	if cfg.EventsBackend == events.BackendRedis || cfg.EventsBackend == events.BackendBoth {
		redisPub, err = events.NewRedisPublisher(ctx, log, cfg.Redis)
		if err != nil {
			return Clients{}, fmt.Errorf("init redis publisher: %w", err)
		}
	}
	if cfg.EventsBackend == events.BackendKafka || cfg.EventsBackend == events.BackendBoth {
		kafkaPub, err = events.NewKafkaPublisher(log, cfg.Kafka)
		if err != nil {
			if redisPub != nil {
				_ = redisPub.Close()
			}
			return Clients{}, fmt.Errorf("init kafka publisher: %w", err)
		}
	}

	out := Clients{}
	pubs := make([]events.Publisher, 0, 2)
	if redisPub != nil {
		pubs = append(pubs, redisPub)
		out.Redis = redisPub.Client()
	}
	if kafkaPub != nil {
		pubs = append(pubs, kafkaPub)
	}
	out.Publisher = events.NewMultiPublisher(pubs...)
	return out, nil
}
