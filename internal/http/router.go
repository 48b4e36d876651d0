package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/orderdesk-backend/internal/http/handlers"
	httpMW "github.com/yungbote/orderdesk-backend/internal/http/middleware"
	"github.com/yungbote/orderdesk-backend/internal/observability"
	"github.com/yungbote/orderdesk-backend/internal/pkg/logger"
)

type RouterConfig struct {
	Log         *logger.Logger
	Metrics     *observability.Metrics
	ServiceName string
	CORSOrigins []string

	IdentityHandler *httpH.IdentityHandler
	CustomerHandler *httpH.CustomerHandler
	ItemHandler     *httpH.ItemHandler
	OrderHandler    *httpH.OrderHandler

	HealthHandler *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.ServiceName != "" {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.CORS(cfg.CORSOrigins))
	r.Use(httpMW.Metrics(cfg.Metrics))
	r.Use(httpMW.RequestLogger(cfg.Log))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapF(cfg.Metrics.WriteHTTP))
	}

	api := r.Group("/api")
	{
		// Identities
		if cfg.IdentityHandler != nil {
			api.POST("/identities", cfg.IdentityHandler.Register)
			api.DELETE("/identities/:taxId", cfg.IdentityHandler.Remove)
		}

		// Customers
		if cfg.CustomerHandler != nil {
			api.GET("/customers", cfg.CustomerHandler.List)
			api.GET("/customers/:taxId", cfg.CustomerHandler.Get)
			api.DELETE("/customers/:taxId", cfg.CustomerHandler.Delete)
			api.GET("/customers/:taxId/orders", cfg.CustomerHandler.ListOrders)
		}

		// Catalog
		if cfg.ItemHandler != nil {
			api.GET("/items", cfg.ItemHandler.List)
			api.GET("/items/:id", cfg.ItemHandler.Get)
			api.POST("/items", cfg.ItemHandler.Create)
			api.PUT("/items/:id", cfg.ItemHandler.Update)
			api.POST("/items/:id/deactivate", cfg.ItemHandler.Deactivate)
		}

		// Orders
		if cfg.OrderHandler != nil {
			api.POST("/orders", cfg.OrderHandler.Place)
			api.GET("/orders", cfg.OrderHandler.List)
			api.GET("/orders/:id", cfg.OrderHandler.Get)
			api.PATCH("/orders/:id/status", cfg.OrderHandler.ChangeStatus)
			api.GET("/order-statuses", cfg.OrderHandler.Statuses)
		}
	}

	return r
}
