package app

import (
	"gorm.io/gorm"

	httpH "github.com/yungbote/orderdesk-backend/internal/http/handlers"
	"github.com/yungbote/orderdesk-backend/internal/pkg/logger"
)

type Handlers struct {
	Identity *httpH.IdentityHandler
	Customer *httpH.CustomerHandler
	Item     *httpH.ItemHandler
	Order    *httpH.OrderHandler
	Health   *httpH.HealthHandler
}

func wireHandlers(db *gorm.DB, log *logger.Logger, svc Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Identity: httpH.NewIdentityHandler(log, svc.Identity),
		Customer: httpH.NewCustomerHandler(log, svc.Customer, svc.Order),
		Item:     httpH.NewItemHandler(log, svc.Catalog),
		Order:    httpH.NewOrderHandler(log, svc.Order),
		Health:   httpH.NewHealthHandler(db),
	}
}
