package catalog

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/yungbote/orderdesk-backend/internal/data/repos/testutil"
	types "github.com/yungbote/orderdesk-backend/internal/domain"
	"github.com/yungbote/orderdesk-backend/internal/pkg/dbctx"
)

func TestCatalogItemRepoQueries(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	repo := NewCatalogItemRepo(db, testutil.Logger(t))

	kb := testutil.SeedItem(t, ctx, tx, "Keyboard", "49.90", 10)
	ms := testutil.SeedItem(t, ctx, tx, "Mouse", "19.50", 5)
	testutil.SeedItem(t, ctx, tx, "Monitor", "199.00", 2)

	if _, err := repo.SetActive(dbc, ms.ID, false); err != nil {
		t.Fatalf("SetActive: %v", err)
	}

	active, err := repo.ListActive(dbc)
	if err != nil {
		t.Fatalf("ListActive: %v", err)
	}
	if len(active) != 2 {
		t.Fatalf("ListActive: want=2 got=%d", len(active))
	}

	found, err := repo.SearchByName(dbc, "mo", false)
	if err != nil {
		t.Fatalf("SearchByName: %v", err)
	}
	if len(found) != 2 {
		t.Fatalf("SearchByName all: want=2 got=%d", len(found))
	}
	found, err = repo.SearchByName(dbc, "MO", true)
	if err != nil {
		t.Fatalf("SearchByName active: %v", err)
	}
	if len(found) != 1 || found[0].Name != "Monitor" {
		t.Fatalf("SearchByName active: got=%v", found)
	}

	dup, err := repo.ExistsByNameFold(dbc, "  keyboard ", 0)
	if err != nil || !dup {
		t.Fatalf("ExistsByNameFold: dup=%v err=%v", dup, err)
	}
	self, err := repo.ExistsByNameFold(dbc, "keyboard", kb.ID)
	if err != nil || self {
		t.Fatalf("ExistsByNameFold exclude self: dup=%v err=%v", self, err)
	}
}

func TestCatalogItemRepoSearchByNameMatchesWildcardsLiterally(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx}
	repo := NewCatalogItemRepo(db, testutil.Logger(t))

	testutil.SeedItem(t, ctx, db, "Desk lamp", "10.00", 5)
	testutil.SeedItem(t, ctx, db, "Bulb", "2.50", 10)
	testutil.SeedItem(t, ctx, db, "Cable_USB 100%", "4.00", 3)
	testutil.SeedItem(t, ctx, db, `Path C:\tmp`, "1.00", 1)

	cases := map[string]int{
		"_":       1,
		"%":       1,
		"le_u":    1,
		"0%":      1,
		`\`:       1,
		"lamp":    1,
		"no_such": 0,
	}
	for fragment, want := range cases {
		found, err := repo.SearchByName(dbc, fragment, false)
		if err != nil {
			t.Fatalf("SearchByName(%q): %v", fragment, err)
		}
		if len(found) != want {
			t.Fatalf("SearchByName(%q): want=%d got=%d", fragment, want, len(found))
		}
	}
}

func TestCatalogItemRepoDecrementStockGuardsNegative(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	repo := NewCatalogItemRepo(db, testutil.Logger(t))

	it := testutil.SeedItem(t, ctx, tx, "Cable", "3.00", 3)

	ok, err := repo.DecrementStock(dbc, it.ID, 2)
	if err != nil || !ok {
		t.Fatalf("DecrementStock: ok=%v err=%v", ok, err)
	}
	ok, err = repo.DecrementStock(dbc, it.ID, 2)
	if err != nil {
		t.Fatalf("DecrementStock over: %v", err)
	}
	if ok {
		t.Fatalf("DecrementStock must refuse to go negative")
	}
	got, err := repo.GetByID(dbc, it.ID)
	if err != nil || got == nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Stock != 1 {
		t.Fatalf("stock: want=1 got=%d", got.Stock)
	}
}

func TestCatalogItemRepoLockByIDsOrdersAscending(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	repo := NewCatalogItemRepo(db, testutil.Logger(t))

	a := testutil.SeedItem(t, ctx, tx, "A", "1.00", 1)
	b := testutil.SeedItem(t, ctx, tx, "B", "1.00", 1)
	c := testutil.SeedItem(t, ctx, tx, "C", "1.00", 1)

	rows, err := repo.LockByIDs(dbc, []int64{c.ID, a.ID, b.ID, 9999})
	if err != nil {
		t.Fatalf("LockByIDs: %v", err)
	}
	if len(rows) != 3 || rows[0].ID != a.ID || rows[1].ID != b.ID || rows[2].ID != c.ID {
		t.Fatalf("LockByIDs order: %+v", rows)
	}
}

func TestCatalogItemRepoUniqueNameIndex(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	repo := NewCatalogItemRepo(db, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: ctx}

	if _, err := repo.Create(dbc, []*types.CatalogItem{{Name: "Lamp", Price: decimal.RequireFromString("10"), Stock: 1, Active: true}}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	_, err := repo.Create(dbc, []*types.CatalogItem{{Name: "LAMP", Price: decimal.RequireFromString("11"), Stock: 1, Active: true}})
	if err == nil {
		t.Fatalf("expected unique violation on case-folded name")
	}
	if !errors.Is(err, gorm.ErrDuplicatedKey) && !strings.Contains(strings.ToUpper(err.Error()), "UNIQUE") {
		t.Fatalf("expected duplicated key, got %v", err)
	}
}
