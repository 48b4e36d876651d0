package aggregates_test

import (
	"context"
	"errors"
	"testing"

	"gorm.io/gorm"

	"github.com/yungbote/orderdesk-backend/internal/data/aggregates"
	aggtest "github.com/yungbote/orderdesk-backend/internal/data/aggregates/testutil"
	"github.com/yungbote/orderdesk-backend/internal/data/repos"
	"github.com/yungbote/orderdesk-backend/internal/data/repos/testutil"
	domainagg "github.com/yungbote/orderdesk-backend/internal/domain/aggregates"
	"github.com/yungbote/orderdesk-backend/internal/pkg/dbctx"
)

type fixture struct {
	db    *gorm.DB
	hooks *aggtest.HooksRecorder

	customers  repos.CustomerRepo
	identities repos.LegalIdentityRepo
	items      repos.CatalogItemRepo
	orders     repos.OrderRepo
	outbox     repos.OutboxRepo

	orderAgg    domainagg.OrderAggregate
	identityAgg domainagg.IdentityAggregate
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return newFixtureWithRunner(t, nil)
}

func newFixtureWithRunner(t *testing.T, wrap func(aggregates.TxRunner) aggregates.TxRunner) *fixture {
	t.Helper()
	db := testutil.DB(t)
	log := testutil.Logger(t)
	f := &fixture{
		db:         db,
		hooks:      &aggtest.HooksRecorder{},
		customers:  repos.NewCustomerRepo(db, log),
		identities: repos.NewLegalIdentityRepo(db, log),
		items:      repos.NewCatalogItemRepo(db, log),
		orders:     repos.NewOrderRepo(db, log),
		outbox:     repos.NewOutboxRepo(db, log),
	}
	runner := aggregates.NewGormTxRunner(db)
	if wrap != nil {
		runner = wrap(runner)
	}
	base := aggregates.BaseDeps{DB: db, Log: log, Runner: runner, Hooks: f.hooks}
	f.orderAgg = aggregates.NewOrderAggregate(aggregates.OrderAggregateDeps{
		Base:      base,
		Customers: f.customers,
		Items:     f.items,
		Orders:    f.orders,
		Outbox:    f.outbox,
	})
	f.identityAgg = aggregates.NewIdentityAggregate(aggregates.IdentityAggregateDeps{
		Base:       base,
		Identities: f.identities,
		Customers:  f.customers,
		Orders:     f.orders,
		Outbox:     f.outbox,
	})
	return f
}

func (f *fixture) dbc() dbctx.Context { return dbctx.Context{Ctx: context.Background()} }

func failingCommit(inner aggregates.TxRunner) aggregates.TxRunner {
	return &aggtest.FaultyTxRunner{Inner: inner, FailCommit: errInjectedCommit}
}

var errInjectedCommit = errors.New("injected commit failure")
