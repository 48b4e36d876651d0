package testutil

import (
	"context"
	"errors"
	"testing"

	"gorm.io/gorm"

	"github.com/yungbote/orderdesk-backend/internal/data/aggregates"
	repotest "github.com/yungbote/orderdesk-backend/internal/data/repos/testutil"
	types "github.com/yungbote/orderdesk-backend/internal/domain"
	"github.com/yungbote/orderdesk-backend/internal/pkg/dbctx"
)

func customerCount(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var n int64
	if err := db.Model(&types.Customer{}).Count(&n).Error; err != nil {
		t.Fatalf("count customers: %v", err)
	}
	return n
}

func TestFaultyTxRunner_CommitsWithoutFaults(t *testing.T) {
	db := repotest.DB(t)
	r := &FaultyTxRunner{Inner: aggregates.NewGormTxRunner(db)}
	ctx := context.Background()

	err := r.InTx(ctx, func(dbc dbctx.Context) error {
		repotest.SeedCustomer(t, ctx, dbc.Tx, "12345678Z", "Ana")
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if got := customerCount(t, db); got != 1 {
		t.Fatalf("expected committed customer, got %d", got)
	}
	if r.Calls() != 1 || r.Rollbacks() != 0 {
		t.Fatalf("unexpected counters calls=%d rollbacks=%d", r.Calls(), r.Rollbacks())
	}
}

func TestFaultyTxRunner_FailCommitRollsBackWrites(t *testing.T) {
	db := repotest.DB(t)
	commitErr := errors.New("commit failed")
	r := &FaultyTxRunner{Inner: aggregates.NewGormTxRunner(db), FailCommit: commitErr}
	ctx := context.Background()

	ran := false
	err := r.InTx(ctx, func(dbc dbctx.Context) error {
		ran = true
		repotest.SeedCustomer(t, ctx, dbc.Tx, "12345678Z", "Ana")
		return nil
	})
	if !errors.Is(err, commitErr) {
		t.Fatalf("expected commit err, got %v", err)
	}
	if !ran {
		t.Fatalf("body must run before the commit fails")
	}
	if got := customerCount(t, db); got != 0 {
		t.Fatalf("write must roll back, got %d customers", got)
	}
	if r.Rollbacks() != 1 {
		t.Fatalf("expected one rollback, got %d", r.Rollbacks())
	}
}

func TestFaultyTxRunner_FailBeginSkipsBody(t *testing.T) {
	db := repotest.DB(t)
	beginErr := errors.New("begin failed")
	r := &FaultyTxRunner{Inner: aggregates.NewGormTxRunner(db), FailBegin: beginErr}

	err := r.InTx(context.Background(), func(dbctx.Context) error {
		t.Fatalf("body must not run")
		return nil
	})
	if !errors.Is(err, beginErr) {
		t.Fatalf("expected begin err, got %v", err)
	}
	if r.Calls() != 1 {
		t.Fatalf("expected one call, got %d", r.Calls())
	}
}
