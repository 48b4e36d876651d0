package outbox

import (
	"context"
	"testing"

	"gorm.io/datatypes"

	"github.com/yungbote/orderdesk-backend/internal/data/repos/testutil"
	types "github.com/yungbote/orderdesk-backend/internal/domain"
	domainoutbox "github.com/yungbote/orderdesk-backend/internal/domain/outbox"
	"github.com/yungbote/orderdesk-backend/internal/pkg/dbctx"
)

func TestOutboxRepoClaimAndMark(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}
	repo := NewOutboxRepo(db, testutil.Logger(t))

	rows, err := repo.Append(dbc, []*types.OutboxEvent{
		{Topic: domainoutbox.TopicOrderPlaced, AggregateKey: "order:1", Payload: datatypes.JSON([]byte(`{"order_id":1}`))},
		{Topic: domainoutbox.TopicOrderPlaced, AggregateKey: "order:2", Payload: datatypes.JSON([]byte(`{"order_id":2}`))},
	})
	if err != nil {
		t.Fatalf("Append: %v", err)
	}
	if rows[0].Status != domainoutbox.StatusPending {
		t.Fatalf("default status: got=%q", rows[0].Status)
	}

	claimed, err := repo.ClaimPending(dbc, 10)
	if err != nil {
		t.Fatalf("ClaimPending: %v", err)
	}
	if len(claimed) != 2 {
		t.Fatalf("ClaimPending: want=2 got=%d", len(claimed))
	}

	if err := repo.MarkPublished(dbc, claimed[0].ID, claimed[0].CreatedAt); err != nil {
		t.Fatalf("MarkPublished: %v", err)
	}
	if err := repo.MarkFailed(dbc, claimed[1].ID, "broker down", 2); err != nil {
		t.Fatalf("MarkFailed: %v", err)
	}

	pending, err := repo.CountByStatus(dbc, domainoutbox.StatusPending)
	if err != nil || pending != 1 {
		t.Fatalf("pending after first failure: n=%d err=%v", pending, err)
	}
	if err := repo.MarkFailed(dbc, claimed[1].ID, "broker down", 2); err != nil {
		t.Fatalf("MarkFailed again: %v", err)
	}
	failed, err := repo.CountByStatus(dbc, domainoutbox.StatusFailed)
	if err != nil || failed != 1 {
		t.Fatalf("failed after max attempts: n=%d err=%v", failed, err)
	}

	evs, err := repo.ListByAggregateKey(dbc, "order:2")
	if err != nil || len(evs) != 1 {
		t.Fatalf("ListByAggregateKey: n=%d err=%v", len(evs), err)
	}
	if evs[0].Attempts != 2 || evs[0].LastError != "broker down" {
		t.Fatalf("unexpected failure bookkeeping: %+v", evs[0])
	}
}
