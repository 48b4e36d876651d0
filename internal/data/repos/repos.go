package repos

import (
	"gorm.io/gorm"

	"github.com/yungbote/orderdesk-backend/internal/data/repos/catalog"
	"github.com/yungbote/orderdesk-backend/internal/data/repos/customers"
	"github.com/yungbote/orderdesk-backend/internal/data/repos/orders"
	"github.com/yungbote/orderdesk-backend/internal/data/repos/outbox"
	"github.com/yungbote/orderdesk-backend/internal/pkg/logger"
)

type CustomerRepo = customers.CustomerRepo
type LegalIdentityRepo = customers.LegalIdentityRepo

type CatalogItemRepo = catalog.CatalogItemRepo

type OrderRepo = orders.OrderRepo

type OutboxRepo = outbox.OutboxRepo

func NewCustomerRepo(db *gorm.DB, baseLog *logger.Logger) CustomerRepo {
	return customers.NewCustomerRepo(db, baseLog)
}
func NewLegalIdentityRepo(db *gorm.DB, baseLog *logger.Logger) LegalIdentityRepo {
	return customers.NewLegalIdentityRepo(db, baseLog)
}

func NewCatalogItemRepo(db *gorm.DB, baseLog *logger.Logger) CatalogItemRepo {
	return catalog.NewCatalogItemRepo(db, baseLog)
}

func NewOrderRepo(db *gorm.DB, baseLog *logger.Logger) OrderRepo {
	return orders.NewOrderRepo(db, baseLog)
}

func NewOutboxRepo(db *gorm.DB, baseLog *logger.Logger) OutboxRepo {
	return outbox.NewOutboxRepo(db, baseLog)
}
