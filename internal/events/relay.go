package events

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"gorm.io/gorm"

	"github.com/yungbote/orderdesk-backend/internal/data/repos"
	"github.com/yungbote/orderdesk-backend/internal/observability"
	"github.com/yungbote/orderdesk-backend/internal/pkg/dbctx"
	"github.com/yungbote/orderdesk-backend/internal/pkg/logger"
)

type RelayConfig struct {
	PollInterval time.Duration
	BatchSize    int
	MaxAttempts  int
}

func (c RelayConfig) withDefaults() RelayConfig {
	if c.PollInterval <= 0 {
		c.PollInterval = time.Second
	}
	if c.BatchSize <= 0 {
		c.BatchSize = 50
	}
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = 10
	}
	return c
}

// Relay drains pending outbox rows to a Publisher. Each batch is claimed and
// marked inside one transaction, so concurrent relays never double-send.
type Relay struct {
	db      *gorm.DB
	log     *logger.Logger
	repo    repos.OutboxRepo
	pub     Publisher
	metrics *observability.Metrics
	cfg     RelayConfig
}

func NewRelay(db *gorm.DB, baseLog *logger.Logger, repo repos.OutboxRepo, pub Publisher, metrics *observability.Metrics, cfg RelayConfig) *Relay {
	if pub == nil {
		pub = NewNoopPublisher()
	}
	return &Relay{
		db:      db,
		log:     baseLog.With("component", "OutboxRelay"),
		repo:    repo,
		pub:     pub,
		metrics: metrics,
		cfg:     cfg.withDefaults(),
	}
}

// Run blocks until ctx is done.
func (r *Relay) Run(ctx context.Context) error {
	r.log.Info("Starting outbox relay", "publisher", r.pub.Name(), "interval", r.cfg.PollInterval, "batch", r.cfg.BatchSize)
	ticker := time.NewTicker(r.cfg.PollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			r.log.Info("Outbox relay stopped")
			return nil
		case <-ticker.C:
			r.tick(ctx)
		}
	}
}

func (r *Relay) tick(ctx context.Context) {
	defer func() {
		if rec := recover(); rec != nil {
			r.log.Error("Outbox relay panic", "panic", rec)
		}
	}()
	for {
		res, err := r.relayBatch(ctx)
		if err != nil {
			if ctx.Err() == nil {
				r.log.Warn("Outbox relay batch failed", "error", err)
			}
			return
		}
		// Failed rows wait for the next tick so each tick costs at most one attempt.
		if res.failed > 0 || res.claimed < r.cfg.BatchSize {
			return
		}
	}
}

type batchResult struct {
	claimed int
	failed  int
}

// RunOnce relays a single batch and reports how many rows it claimed.
func (r *Relay) RunOnce(ctx context.Context) (int, error) {
	res, err := r.relayBatch(ctx)
	return res.claimed, err
}

func (r *Relay) relayBatch(ctx context.Context) (batchResult, error) {
	ctx, span := otel.Tracer("orderdesk/events").Start(ctx, "outbox.relay")
	defer span.End()

	res := batchResult{}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		rows, err := r.repo.ClaimPending(dbc, r.cfg.BatchSize)
		if err != nil {
			return fmt.Errorf("claim pending: %w", err)
		}
		res.claimed = len(rows)
		for _, ev := range rows {
			msg := MessageFromEvent(ev)
			if pubErr := r.pub.Publish(ctx, msg); pubErr != nil {
				r.metrics.IncOutboxPublish(msg.Topic, "error")
				r.log.Warn("Outbox publish failed",
					"event_id", msg.ID,
					"topic", msg.Topic,
					"attempt", ev.Attempts+1,
					"error", pubErr,
				)
				if err := r.repo.MarkFailed(dbc, ev.ID, pubErr.Error(), r.cfg.MaxAttempts); err != nil {
					return fmt.Errorf("mark failed %s: %w", ev.ID, err)
				}
				res.failed++
				continue
			}
			r.metrics.IncOutboxPublish(msg.Topic, "ok")
			if err := r.repo.MarkPublished(dbc, ev.ID, time.Now().UTC()); err != nil {
				return fmt.Errorf("mark published %s: %w", ev.ID, err)
			}
		}
		return nil
	})
	span.SetAttributes(attribute.Int("outbox.claimed", res.claimed), attribute.Int("outbox.failed", res.failed))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return batchResult{}, err
	}
	return res, nil
}
