package customers

import (
	"context"
	"testing"

	"github.com/yungbote/orderdesk-backend/internal/data/repos/testutil"
	"github.com/yungbote/orderdesk-backend/internal/pkg/dbctx"
)

func TestCustomerRepoLookups(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}

	testutil.SeedCustomer(t, ctx, tx, "12345678Z", "Ana")
	testutil.SeedCustomer(t, ctx, tx, "87654321X", "Luis")

	repo := NewCustomerRepo(db, testutil.Logger(t))

	got, err := repo.GetByTaxID(dbc, "12345678Z")
	if err != nil {
		t.Fatalf("GetByTaxID: %v", err)
	}
	if got == nil || got.Name != "Ana" {
		t.Fatalf("GetByTaxID: unexpected row %+v", got)
	}

	missing, err := repo.GetByTaxID(dbc, "00000000A")
	if err != nil {
		t.Fatalf("GetByTaxID missing: %v", err)
	}
	if missing != nil {
		t.Fatalf("expected nil for missing customer")
	}

	ok, err := repo.ExistsByEmail(dbc, "12345678Z@MAIL.COM")
	if err != nil || !ok {
		t.Fatalf("ExistsByEmail case-insensitive: ok=%v err=%v", ok, err)
	}

	all, err := repo.List(dbc)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("List: want=2 got=%d", len(all))
	}
	for _, c := range all {
		if c.LegalIdentity == nil || c.LegalIdentity.TaxID != c.TaxID {
			t.Fatalf("List: legal identity not preloaded for %s", c.TaxID)
		}
	}
}

func TestCustomerAndIdentityDelete(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	log := testutil.Logger(t)

	testutil.SeedCustomer(t, ctx, tx, "12345678Z", "Ana")

	ids := NewLegalIdentityRepo(db, log)
	custs := NewCustomerRepo(db, log)

	li, err := ids.LockByTaxID(dbc, "12345678Z")
	if err != nil || li == nil {
		t.Fatalf("LockByTaxID: row=%v err=%v", li, err)
	}
	if n, err := ids.DeleteByTaxID(dbc, "12345678Z"); err != nil || n != 1 {
		t.Fatalf("identity DeleteByTaxID: n=%d err=%v", n, err)
	}
	if n, err := custs.DeleteByTaxID(dbc, "12345678Z"); err != nil || n != 1 {
		t.Fatalf("customer DeleteByTaxID: n=%d err=%v", n, err)
	}
	if ok, _ := ids.ExistsByTaxID(dbc, "12345678Z"); ok {
		t.Fatalf("identity still present")
	}
	if ok, _ := custs.ExistsByTaxID(dbc, "12345678Z"); ok {
		t.Fatalf("customer still present")
	}
}
