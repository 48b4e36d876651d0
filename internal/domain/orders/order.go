package orders

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/yungbote/orderdesk-backend/internal/domain/catalog"
	"github.com/yungbote/orderdesk-backend/internal/domain/customers"
)

// Order is a placed purchase. Total always equals the sum of its lines and is
// only ever computed by the order processor.
type Order struct {
	ID              int64           `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	CreatedAt       time.Time       `gorm:"column:created_at;not null;index" json:"created_at"`
	Status          Status          `gorm:"column:status;type:varchar(16);not null;index" json:"status"`
	ShippingAddress string          `gorm:"column:shipping_address;not null" json:"shipping_address"`
	Total           decimal.Decimal `gorm:"column:total;type:numeric(10,2);not null" json:"total"`

	// CustomerTaxID is cleared when the customer is removed; the order and
	// its lines stay.
	CustomerTaxID *string             `gorm:"column:customer_tax_id;type:varchar(9);index" json:"customer_tax_id,omitempty"`
	Customer      *customers.Customer `gorm:"foreignKey:CustomerTaxID;references:TaxID" json:"customer,omitempty"`

	Lines []OrderLine `gorm:"foreignKey:OrderID;references:ID" json:"lines,omitempty"`
}

func (Order) TableName() string { return "orders" }

// OrderLine is one item of an order. UnitPrice is the catalog price at the
// moment the order was placed and never changes afterwards.
type OrderLine struct {
	OrderID   int64           `gorm:"column:order_id;primaryKey;autoIncrement:false" json:"order_id"`
	ItemID    int64           `gorm:"column:item_id;primaryKey;autoIncrement:false;index" json:"item_id"`
	Position  int             `gorm:"column:position;not null" json:"position"`
	UnitPrice decimal.Decimal `gorm:"column:unit_price;type:numeric(10,2);not null" json:"unit_price"`
	Quantity  int             `gorm:"column:quantity;not null" json:"quantity"`

	Item *catalog.CatalogItem `gorm:"foreignKey:ItemID;references:ID" json:"item,omitempty"`
}

func (OrderLine) TableName() string { return "order_lines" }

// Subtotal is UnitPrice × Quantity.
func (l OrderLine) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// SumLines returns the order total for the given lines.
func SumLines(lines []OrderLine) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Subtotal())
	}
	return total
}
