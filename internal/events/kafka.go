package events

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"github.com/yungbote/orderdesk-backend/internal/pkg/logger"
)

type KafkaConfig struct {
	Brokers []string
	// Topic routes every event to one Kafka topic. Empty uses the event topic.
	Topic string
}

// MessageWriter is the subset of *kafka.Writer the publisher needs.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type KafkaPublisher struct {
	log   *logger.Logger
	w     MessageWriter
	topic string
}

func NewKafkaPublisher(log *logger.Logger, cfg KafkaConfig) (*KafkaPublisher, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	brokers := make([]string, 0, len(cfg.Brokers))
	for _, b := range cfg.Brokers {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	if len(brokers) == 0 {
		return nil, fmt.Errorf("missing KAFKA_BROKERS")
	}
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Balancer:               &kafka.Hash{},
		BatchTimeout:           10 * time.Millisecond,
		BatchSize:              100,
		RequiredAcks:           kafka.RequireAll,
		AllowAutoTopicCreation: true,
	}
	return NewKafkaPublisherWithWriter(log, w, cfg.Topic), nil
}

func NewKafkaPublisherWithWriter(log *logger.Logger, w MessageWriter, topic string) *KafkaPublisher {
	return &KafkaPublisher{
		log:   log.With("service", "KafkaPublisher"),
		w:     w,
		topic: strings.TrimSpace(topic),
	}
}

func (p *KafkaPublisher) Name() string { return BackendKafka }

func (p *KafkaPublisher) Publish(ctx context.Context, msg Message) error {
	if p == nil || p.w == nil {
		return ErrPublisherClosed
	}
	return p.w.WriteMessages(ctx, p.toKafka(ctx, msg))
}

// toKafka keys by aggregate so events of one order stay on one partition.
func (p *KafkaPublisher) toKafka(ctx context.Context, msg Message) kafka.Message {
	topic := p.topic
	if topic == "" {
		topic = msg.Topic
	}
	headers := []kafka.Header{
		{Key: "event_id", Value: []byte(msg.ID)},
		{Key: "event_topic", Value: []byte(msg.Topic)},
	}
	carrier := propagation.MapCarrier{}
	otel.GetTextMapPropagator().Inject(ctx, carrier)
	for k, v := range carrier {
		headers = append(headers, kafka.Header{Key: k, Value: []byte(v)})
	}
	return kafka.Message{
		Topic:   topic,
		Key:     []byte(msg.Key),
		Value:   msg.Payload,
		Headers: headers,
		Time:    msg.CreatedAt,
	}
}

func (p *KafkaPublisher) Close() error {
	if p == nil || p.w == nil {
		return nil
	}
	return p.w.Close()
}
