package db

import (
	"fmt"

	"gorm.io/gorm"

	types "github.com/yungbote/orderdesk-backend/internal/domain"
)

func AutoMigrateAll(db *gorm.DB) error {
	if err := db.AutoMigrate(types.Models()...); err != nil {
		return err
	}
	return EnsureCatalogIndexes(db)
}

// EnsureCatalogIndexes adds the expression indexes gorm tags cannot express.
// The statements are valid on both Postgres and SQLite.
func EnsureCatalogIndexes(db *gorm.DB) error {
	if err := db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS idx_catalog_items_name_lower
		ON catalog_items (lower(name));
	`).Error; err != nil {
		return fmt.Errorf("create idx_catalog_items_name_lower: %w", err)
	}
	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_orders_customer_created
		ON orders (customer_tax_id, created_at);
	`).Error; err != nil {
		return fmt.Errorf("create idx_orders_customer_created: %w", err)
	}
	return nil
}
