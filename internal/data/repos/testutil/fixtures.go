package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	types "github.com/yungbote/orderdesk-backend/internal/domain"
	"github.com/yungbote/orderdesk-backend/internal/domain/customers"
)

func SeedCustomer(tb testing.TB, ctx context.Context, tx *gorm.DB, taxID, name string) *types.Customer {
	tb.Helper()
	li := &types.LegalIdentity{
		TaxID:        taxID,
		LegalAddress: "Calle Mayor 1, Madrid",
		Phone:        "600123123",
	}
	if err := tx.WithContext(ctx).Create(li).Error; err != nil {
		tb.Fatalf("seed legal identity: %v", err)
	}
	c := &types.Customer{
		TaxID:        taxID,
		Name:         name,
		Email:        customers.EmailForTaxID(taxID),
		RegisteredAt: time.Now().UTC(),
	}
	if err := tx.WithContext(ctx).Omit("LegalIdentity").Create(c).Error; err != nil {
		tb.Fatalf("seed customer: %v", err)
	}
	c.LegalIdentity = li
	return c
}

func SeedItem(tb testing.TB, ctx context.Context, tx *gorm.DB, name, price string, stock int) *types.CatalogItem {
	tb.Helper()
	now := time.Now().UTC()
	it := &types.CatalogItem{
		Name:        name,
		Description: name + " description",
		Price:       decimal.RequireFromString(price),
		Stock:       stock,
		Active:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := tx.WithContext(ctx).Create(it).Error; err != nil {
		tb.Fatalf("seed item: %v", err)
	}
	return it
}

// SeedOrder inserts an order with one line per item at the item's current
// price. Stock is left untouched.
func SeedOrder(tb testing.TB, ctx context.Context, tx *gorm.DB, taxID string, items map[*types.CatalogItem]int) *types.Order {
	tb.Helper()
	tid := taxID
	o := &types.Order{
		CreatedAt:       time.Now().UTC(),
		Status:          types.OrderStatusPending,
		ShippingAddress: "Gran Via 2, Madrid",
		CustomerTaxID:   &tid,
	}
	pos := 0
	for it, qty := range items {
		o.Lines = append(o.Lines, types.OrderLine{ItemID: it.ID, Position: pos, UnitPrice: it.Price, Quantity: qty})
		pos++
	}
	lines := o.Lines
	o.Lines = nil
	o.Total = decimal.Zero
	for _, l := range lines {
		o.Total = o.Total.Add(l.Subtotal())
	}
	if err := tx.WithContext(ctx).Omit("Customer", "Lines").Create(o).Error; err != nil {
		tb.Fatalf("seed order: %v", err)
	}
	for i := range lines {
		lines[i].OrderID = o.ID
	}
	if len(lines) > 0 {
		if err := tx.WithContext(ctx).Omit("Item").Create(&lines).Error; err != nil {
			tb.Fatalf("seed order lines: %v", err)
		}
	}
	o.Lines = lines
	return o
}
