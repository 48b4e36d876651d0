package events

import (
	"context"
	"errors"
	"strings"
	"time"

	types "github.com/yungbote/orderdesk-backend/internal/domain"
)

// Message is the broker-facing form of an outbox event.
type Message struct {
	ID        string    `json:"id"`
	Topic     string    `json:"topic"`
	Key       string    `json:"key"`
	Payload   []byte    `json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

func MessageFromEvent(ev *types.OutboxEvent) Message {
	if ev == nil {
		return Message{}
	}
	return Message{
		ID:        ev.ID.String(),
		Topic:     ev.Topic,
		Key:       ev.AggregateKey,
		Payload:   []byte(ev.Payload),
		CreatedAt: ev.CreatedAt,
	}
}

type Publisher interface {
	Name() string
	Publish(ctx context.Context, msg Message) error
	Close() error
}

const (
	BackendNone  = "none"
	BackendRedis = "redis"
	BackendKafka = "kafka"
	BackendBoth  = "both"
)

var ErrPublisherClosed = errors.New("publisher closed")

type noopPublisher struct{}

// NewNoopPublisher accepts every message and drops it.
func NewNoopPublisher() Publisher { return noopPublisher{} }

func (noopPublisher) Name() string                           { return BackendNone }
func (noopPublisher) Publish(context.Context, Message) error { return nil }
func (noopPublisher) Close() error                           { return nil }

type multiPublisher struct {
	pubs []Publisher
}

// NewMultiPublisher fans every message out to all pubs. A message counts as
// published only when every backend accepted it.
func NewMultiPublisher(pubs ...Publisher) Publisher {
	kept := make([]Publisher, 0, len(pubs))
	for _, p := range pubs {
		if p != nil {
			kept = append(kept, p)
		}
	}
	switch len(kept) {
	case 0:
		return NewNoopPublisher()
	case 1:
		return kept[0]
	}
	return &multiPublisher{pubs: kept}
}

func (m *multiPublisher) Name() string {
	names := make([]string, 0, len(m.pubs))
	for _, p := range m.pubs {
		names = append(names, p.Name())
	}
	return strings.Join(names, "+")
}

func (m *multiPublisher) Publish(ctx context.Context, msg Message) error {
	var errs []error
	for _, p := range m.pubs {
		if err := p.Publish(ctx, msg); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m *multiPublisher) Close() error {
	var errs []error
	for _, p := range m.pubs {
		if err := p.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
