package services

import (
	"time"

	"github.com/shopspring/decimal"

	types "github.com/yungbote/orderdesk-backend/internal/domain"
)

const (
	notAvailable         = "N/A"
	removedCustomerLabel = "customer removed"
)

type CustomerView struct {
	TaxID        string    `json:"tax_id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	RegisteredAt time.Time `json:"registered_at"`
	LegalAddress string    `json:"legal_address"`
	Phone        string    `json:"phone"`
}

func customerViewOf(c *types.Customer, li *types.LegalIdentity) CustomerView {
	v := CustomerView{
		TaxID:        c.TaxID,
		Name:         c.Name,
		Email:        c.Email,
		RegisteredAt: c.RegisteredAt,
		LegalAddress: notAvailable,
		Phone:        notAvailable,
	}
	if li == nil {
		li = c.LegalIdentity
	}
	if li != nil {
		v.LegalAddress = li.LegalAddress
		v.Phone = li.Phone
	}
	return v
}

type ItemView struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       string    `json:"price"`
	Stock       int       `json:"stock"`
	Active      bool      `json:"active"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func ItemViewOf(it *types.CatalogItem) ItemView {
	return ItemView{
		ID:          it.ID,
		Name:        it.Name,
		Description: it.Description,
		Price:       money(it.Price),
		Stock:       it.Stock,
		Active:      it.Active,
		UpdatedAt:   it.UpdatedAt,
	}
}

func ItemViewsOf(items []*types.CatalogItem) []ItemView {
	out := make([]ItemView, 0, len(items))
	for _, it := range items {
		out = append(out, ItemViewOf(it))
	}
	return out
}

type OrderLineView struct {
	ItemID    int64  `json:"item_id"`
	ItemName  string `json:"item_name"`
	UnitPrice string `json:"unit_price"`
	Quantity  int    `json:"quantity"`
	Subtotal  string `json:"subtotal"`
}

// OrderSummary is the read projection of an order. Lines are filled only for
// single-order reads and writes.
type OrderSummary struct {
	ID              int64           `json:"id"`
	CreatedAt       time.Time       `json:"created_at"`
	Status          string          `json:"status"`
	ShippingAddress string          `json:"shipping_address"`
	Total           string          `json:"total"`
	CustomerTaxID   string          `json:"customer_tax_id,omitempty"`
	CustomerName    string          `json:"customer_name"`
	Lines           []OrderLineView `json:"lines,omitempty"`
}

func orderSummaryOf(o *types.Order, withLines bool) OrderSummary {
	s := OrderSummary{
		ID:              o.ID,
		CreatedAt:       o.CreatedAt,
		Status:          string(o.Status),
		ShippingAddress: o.ShippingAddress,
		Total:           money(o.Total),
		CustomerName:    removedCustomerLabel,
	}
	if o.CustomerTaxID != nil {
		s.CustomerTaxID = *o.CustomerTaxID
		if o.Customer != nil {
			s.CustomerName = o.Customer.Name
		}
	}
	if withLines {
		s.Lines = make([]OrderLineView, 0, len(o.Lines))
		for _, l := range o.Lines {
			name := ""
			if l.Item != nil {
				name = l.Item.Name
			}
			s.Lines = append(s.Lines, OrderLineView{
				ItemID:    l.ItemID,
				ItemName:  name,
				UnitPrice: money(l.UnitPrice),
				Quantity:  l.Quantity,
				Subtotal:  money(l.Subtotal()),
			})
		}
	}
	return s
}

func money(d decimal.Decimal) string { return d.StringFixed(2) }
