package catalog

import (
	"time"

	"github.com/shopspring/decimal"
)

// CatalogItem is a sellable product. Items are never deleted; Active=false
// retires them while keeping order history intact.
type CatalogItem struct {
	ID          int64           `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Name        string          `gorm:"column:name;not null" json:"name"`
	Description string          `gorm:"column:description;type:text" json:"description"`
	Price       decimal.Decimal `gorm:"column:price;type:numeric(10,2);not null" json:"price"`
	Stock       int             `gorm:"column:stock;not null;check:chk_catalog_items_stock,stock >= 0" json:"stock"`
	Active      bool            `gorm:"column:active;not null;index" json:"active"`

	CreatedAt time.Time `gorm:"column:created_at;not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null" json:"updated_at"`
}

func (CatalogItem) TableName() string { return "catalog_items" }
