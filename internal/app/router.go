package app

import (
	apphttp "github.com/yungbote/orderdesk-backend/internal/http"
	"github.com/yungbote/orderdesk-backend/internal/observability"
	"github.com/yungbote/orderdesk-backend/internal/pkg/logger"
)

func wireServer(log *logger.Logger, cfg Config, metrics *observability.Metrics, handlers Handlers) *apphttp.Server {
	serviceName := ""
	if cfg.Otel.Enabled {
		serviceName = cfg.Otel.ServiceName
	}
	return apphttp.NewServer(apphttp.RouterConfig{
		Log:             log,
		Metrics:         metrics,
		ServiceName:     serviceName,
		CORSOrigins:     cfg.CORSOrigins,
		IdentityHandler: handlers.Identity,
		CustomerHandler: handlers.Customer,
		ItemHandler:     handlers.Item,
		OrderHandler:    handlers.Order,
		HealthHandler:   handlers.Health,
	})
}
