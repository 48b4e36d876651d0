package outbox

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/orderdesk-backend/internal/domain"
	domainoutbox "github.com/yungbote/orderdesk-backend/internal/domain/outbox"
	"github.com/yungbote/orderdesk-backend/internal/pkg/dbctx"
	"github.com/yungbote/orderdesk-backend/internal/pkg/logger"
)

type OutboxRepo interface {
	Append(dbc dbctx.Context, rows []*types.OutboxEvent) ([]*types.OutboxEvent, error)

	// ClaimPending locks up to limit pending rows, oldest first, skipping rows
	// another relay already holds.
	ClaimPending(dbc dbctx.Context, limit int) ([]*types.OutboxEvent, error)

	MarkPublished(dbc dbctx.Context, id uuid.UUID, at time.Time) error
	MarkFailed(dbc dbctx.Context, id uuid.UUID, reason string, maxAttempts int) error

	ListByAggregateKey(dbc dbctx.Context, key string) ([]*types.OutboxEvent, error)
	CountByStatus(dbc dbctx.Context, status string) (int64, error)
}

type outboxRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewOutboxRepo(db *gorm.DB, baseLog *logger.Logger) OutboxRepo {
	return &outboxRepo{db: db, log: baseLog.With("repo", "OutboxRepo")}
}

func (r *outboxRepo) Append(dbc dbctx.Context, rows []*types.OutboxEvent) ([]*types.OutboxEvent, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if len(rows) == 0 {
		return []*types.OutboxEvent{}, nil
	}
	now := time.Now().UTC()
	for _, row := range rows {
		if row.ID == uuid.Nil {
			row.ID = uuid.New()
		}
		if strings.TrimSpace(row.Status) == "" {
			row.Status = domainoutbox.StatusPending
		}
		if row.CreatedAt.IsZero() {
			row.CreatedAt = now
		}
		row.UpdatedAt = now
	}
	if err := t.WithContext(dbc.Ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *outboxRepo) ClaimPending(dbc dbctx.Context, limit int) ([]*types.OutboxEvent, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if limit <= 0 {
		limit = 50
	}
	var out []*types.OutboxEvent
	err := t.WithContext(dbc.Ctx).
		Clauses(clause.Locking{Strength: "UPDATE", Options: "SKIP LOCKED"}).
		Where("status = ?", domainoutbox.StatusPending).
		Order("created_at ASC, id ASC").
		Limit(limit).
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *outboxRepo) MarkPublished(dbc dbctx.Context, id uuid.UUID, at time.Time) error {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if at.IsZero() {
		at = time.Now().UTC()
	}
	return t.WithContext(dbc.Ctx).
		Model(&types.OutboxEvent{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":       domainoutbox.StatusPublished,
			"published_at": at,
			"attempts":     gorm.Expr("attempts + 1"),
			"last_error":   "",
			"updated_at":   at,
		}).Error
}

func (r *outboxRepo) MarkFailed(dbc dbctx.Context, id uuid.UUID, reason string, maxAttempts int) error {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	now := time.Now().UTC()
	updates := map[string]interface{}{
		"attempts":   gorm.Expr("attempts + 1"),
		"last_error": reason,
		"updated_at": now,
	}
	if maxAttempts > 0 {
		updates["status"] = gorm.Expr("CASE WHEN attempts + 1 >= ? THEN ? ELSE status END", maxAttempts, domainoutbox.StatusFailed)
	}
	return t.WithContext(dbc.Ctx).
		Model(&types.OutboxEvent{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *outboxRepo) ListByAggregateKey(dbc dbctx.Context, key string) ([]*types.OutboxEvent, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var out []*types.OutboxEvent
	if err := t.WithContext(dbc.Ctx).
		Where("aggregate_key = ?", strings.TrimSpace(key)).
		Order("created_at ASC, id ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *outboxRepo) CountByStatus(dbc dbctx.Context, status string) (int64, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var n int64
	if err := t.WithContext(dbc.Ctx).Model(&types.OutboxEvent{}).Where("status = ?", status).Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}
