package aggregates_test

import (
	"context"
	"strconv"
	"testing"

	"github.com/yungbote/orderdesk-backend/internal/data/repos/testutil"
	types "github.com/yungbote/orderdesk-backend/internal/domain"
	domainagg "github.com/yungbote/orderdesk-backend/internal/domain/aggregates"
	"github.com/yungbote/orderdesk-backend/internal/domain/outbox"
)

func itoa(n int64) string { return strconv.FormatInt(n, 10) }

func TestRegisterCreatesPair(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res, err := f.identityAgg.Register(ctx, domainagg.RegisterIdentityInput{
		TaxID:        "12345678Z",
		LegalAddress: "Calle Mayor 1",
		Phone:        "600123123",
		CustomerName: "Ana",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if res.Email != "12345678z@mail.com" {
		t.Fatalf("email: got=%q", res.Email)
	}

	li, _ := f.identities.GetByTaxID(f.dbc(), "12345678Z")
	c, _ := f.customers.GetByTaxID(f.dbc(), "12345678Z")
	if li == nil || c == nil {
		t.Fatalf("expected both identity and customer, got identity=%v customer=%v", li, c)
	}
	if c.Name != "Ana" || c.Email != "12345678z@mail.com" {
		t.Fatalf("unexpected customer: %+v", c)
	}
	evs, _ := f.outbox.ListByAggregateKey(f.dbc(), "customer:12345678Z")
	if len(evs) != 1 || evs[0].Topic != outbox.TopicCustomerRegistered {
		t.Fatalf("expected customer.registered event, got %+v", evs)
	}
}

func TestRegisterValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	cases := []domainagg.RegisterIdentityInput{
		{TaxID: "1234567Z", Phone: "600123123", CustomerName: "x"},
		{TaxID: "12345678", Phone: "600123123", CustomerName: "x"},
		{TaxID: "12345678Z", Phone: "60012312", CustomerName: "x"},
		{TaxID: "12345678Z", Phone: "60012312a", CustomerName: "x"},
	}
	for _, in := range cases {
		if _, err := f.identityAgg.Register(ctx, in); !domainagg.IsCode(err, domainagg.CodeValidation) {
			t.Fatalf("Register(%+v): want validation got %v", in, err)
		}
	}
	if ok, _ := f.identities.ExistsByTaxID(f.dbc(), "12345678Z"); ok {
		t.Fatalf("invalid registration must not persist")
	}
}

func TestRegisterConflicts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	in := domainagg.RegisterIdentityInput{TaxID: "12345678Z", LegalAddress: "Calle Mayor 1", Phone: "600123123", CustomerName: "Ana"}
	if _, err := f.identityAgg.Register(ctx, in); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if _, err := f.identityAgg.Register(ctx, in); !domainagg.IsCode(err, domainagg.CodeConflict) {
		t.Fatalf("duplicate tax id: want conflict got %v", err)
	}

	lower := in
	lower.TaxID = "12345678z"
	if _, err := f.identityAgg.Register(ctx, lower); !domainagg.IsCode(err, domainagg.CodeConflict) {
		t.Fatalf("email collision: want conflict got %v", err)
	}
	if ok, _ := f.identities.ExistsByTaxID(f.dbc(), "12345678z"); ok {
		t.Fatalf("conflicting registration must not persist the identity")
	}
	if len(f.hooks.Conflicts) != 2 {
		t.Fatalf("expected 2 conflict hooks, got %+v", f.hooks.Conflicts)
	}
}

func TestRemoveDetachesOrdersAndDeletesPair(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	if _, err := f.identityAgg.Register(ctx, domainagg.RegisterIdentityInput{
		TaxID: "12345678Z", LegalAddress: "Calle Mayor 1", Phone: "600123123", CustomerName: "Ana",
	}); err != nil {
		t.Fatalf("Register: %v", err)
	}
	it := testutil.SeedItem(t, ctx, f.db, "Desk lamp", "10.00", 10)
	o1 := testutil.SeedOrder(t, ctx, f.db, "12345678Z", map[*types.CatalogItem]int{it: 1})
	o2 := testutil.SeedOrder(t, ctx, f.db, "12345678Z", map[*types.CatalogItem]int{it: 2})

	before := map[int64]*types.Order{}
	for _, id := range []int64{o1.ID, o2.ID} {
		o, err := f.orders.GetWithLines(f.dbc(), id)
		if err != nil || o == nil {
			t.Fatalf("GetWithLines(%d): %v", id, err)
		}
		before[id] = o
	}

	res, err := f.identityAgg.Remove(ctx, domainagg.RemoveIdentityInput{TaxID: "12345678Z"})
	if err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if res.DetachedOrders != 2 {
		t.Fatalf("detached: want=2 got=%d", res.DetachedOrders)
	}

	if ok, _ := f.identities.ExistsByTaxID(f.dbc(), "12345678Z"); ok {
		t.Fatalf("identity must be removed")
	}
	if ok, _ := f.customers.ExistsByTaxID(f.dbc(), "12345678Z"); ok {
		t.Fatalf("customer must be removed")
	}
	for _, id := range []int64{o1.ID, o2.ID} {
		o, err := f.orders.GetWithLines(f.dbc(), id)
		if err != nil || o == nil {
			t.Fatalf("order %d must survive: %v", id, err)
		}
		if o.CustomerTaxID != nil {
			t.Fatalf("order %d still references the removed customer", id)
		}
		if len(o.Lines) != len(before[id].Lines) {
			t.Fatalf("order %d lines: want=%d got=%d", id, len(before[id].Lines), len(o.Lines))
		}
		if !o.Total.Equal(before[id].Total) || !o.Total.Equal(types.SumOrderLines(before[id].Lines)) {
			t.Fatalf("order %d total changed: before=%s after=%s", id, before[id].Total, o.Total)
		}
	}

	if _, err := f.identityAgg.Remove(ctx, domainagg.RemoveIdentityInput{TaxID: "12345678Z"}); !domainagg.IsCode(err, domainagg.CodeNotFound) {
		t.Fatalf("second remove: want not_found got %v", err)
	}

	if _, err := f.identityAgg.Register(ctx, domainagg.RegisterIdentityInput{
		TaxID: "12345678Z", LegalAddress: "Calle Nueva 3", Phone: "600999999", CustomerName: "Ana B",
	}); err != nil {
		t.Fatalf("re-register after removal: %v", err)
	}
}

func TestRegisterRollsBackOnCommitFailure(t *testing.T) {
	f := newFixtureWithRunner(t, failingCommit)
	ctx := context.Background()

	_, err := f.identityAgg.Register(ctx, domainagg.RegisterIdentityInput{
		TaxID: "12345678Z", LegalAddress: "Calle Mayor 1", Phone: "600123123", CustomerName: "Ana",
	})
	if err == nil {
		t.Fatalf("expected injected failure")
	}
	if ok, _ := f.identities.ExistsByTaxID(f.dbc(), "12345678Z"); ok {
		t.Fatalf("identity must roll back")
	}
	if ok, _ := f.customers.ExistsByTaxID(f.dbc(), "12345678Z"); ok {
		t.Fatalf("customer must roll back")
	}
	evs, _ := f.outbox.ListByAggregateKey(f.dbc(), "customer:12345678Z")
	if len(evs) != 0 {
		t.Fatalf("event must roll back, got %+v", evs)
	}
}

func TestRemoveRollsBackOnCommitFailure(t *testing.T) {
	f := newFixtureWithRunner(t, failingCommit)
	ctx := context.Background()
	testutil.SeedCustomer(t, ctx, f.db, "12345678Z", "Ana")
	it := testutil.SeedItem(t, ctx, f.db, "Desk lamp", "10.00", 10)
	o := testutil.SeedOrder(t, ctx, f.db, "12345678Z", map[*types.CatalogItem]int{it: 1})

	if _, err := f.identityAgg.Remove(ctx, domainagg.RemoveIdentityInput{TaxID: "12345678Z"}); err == nil {
		t.Fatalf("expected injected failure")
	}
	if ok, _ := f.identities.ExistsByTaxID(f.dbc(), "12345678Z"); !ok {
		t.Fatalf("identity must survive a failed removal")
	}
	if ok, _ := f.customers.ExistsByTaxID(f.dbc(), "12345678Z"); !ok {
		t.Fatalf("customer must survive a failed removal")
	}
	got, err := f.orders.GetWithLines(f.dbc(), o.ID)
	if err != nil || got == nil {
		t.Fatalf("GetWithLines: %v", err)
	}
	if got.CustomerTaxID == nil || *got.CustomerTaxID != "12345678Z" {
		t.Fatalf("order must still reference the customer, got %v", got.CustomerTaxID)
	}
	evs, _ := f.outbox.ListByAggregateKey(f.dbc(), "customer:12345678Z")
	if len(evs) != 0 {
		t.Fatalf("removal event must roll back, got %+v", evs)
	}
}
