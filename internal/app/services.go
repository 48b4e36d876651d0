package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/orderdesk-backend/internal/data/aggregates"
	domainagg "github.com/yungbote/orderdesk-backend/internal/domain/aggregates"
	"github.com/yungbote/orderdesk-backend/internal/observability"
	"github.com/yungbote/orderdesk-backend/internal/pkg/logger"
	"github.com/yungbote/orderdesk-backend/internal/services"
)

type Aggregates struct {
	Identity domainagg.IdentityAggregate
	Order    domainagg.OrderAggregate
}

type Services struct {
	Aggregates Aggregates

	Identity services.IdentityService
	Customer services.CustomerService
	Catalog  services.CatalogService
	Order    services.OrderService
}

func wireServices(db *gorm.DB, log *logger.Logger, metrics *observability.Metrics, reposet Repos) Services {
	log.Info("Wiring services...")
	runner := aggregates.NewGormTxRunner(db)
	base := aggregates.BaseDeps{
		DB:     db,
		Log:    log,
		Runner: runner,
		Hooks:  aggregates.NewObservabilityHooks(metrics),
	}
	aggs := Aggregates{
		Identity: aggregates.NewIdentityAggregate(aggregates.IdentityAggregateDeps{
			Base:       base,
			Identities: reposet.LegalIdentity,
			Customers:  reposet.Customer,
			Orders:     reposet.Order,
			Outbox:     reposet.Outbox,
		}),
		Order: aggregates.NewOrderAggregate(aggregates.OrderAggregateDeps{
			Base:      base,
			Customers: reposet.Customer,
			Items:     reposet.CatalogItem,
			Orders:    reposet.Order,
			Outbox:    reposet.Outbox,
		}),
	}
	return Services{
		Aggregates: aggs,
		Identity:   services.NewIdentityService(log, aggs.Identity),
		Customer:   services.NewCustomerService(db, log, reposet.Customer, reposet.LegalIdentity, aggs.Identity),
		Catalog:    services.NewCatalogService(db, log, runner, reposet.CatalogItem),
		Order:      services.NewOrderService(db, log, reposet.Order, aggs.Order, metrics),
	}
}
