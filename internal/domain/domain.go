package domain

import (
	"github.com/shopspring/decimal"

	"github.com/yungbote/orderdesk-backend/internal/domain/catalog"
	"github.com/yungbote/orderdesk-backend/internal/domain/customers"
	"github.com/yungbote/orderdesk-backend/internal/domain/orders"
	"github.com/yungbote/orderdesk-backend/internal/domain/outbox"
)

type Customer = customers.Customer
type LegalIdentity = customers.LegalIdentity

type CatalogItem = catalog.CatalogItem

type Order = orders.Order
type OrderLine = orders.OrderLine
type OrderStatus = orders.Status

type OutboxEvent = outbox.Event

const (
	OrderStatusPending   = orders.StatusPending
	OrderStatusShipped   = orders.StatusShipped
	OrderStatusDelivered = orders.StatusDelivered
	OrderStatusCancelled = orders.StatusCancelled
)

// SumOrderLines returns Σ(UnitPrice × Quantity).
func SumOrderLines(lines []OrderLine) decimal.Decimal { return orders.SumLines(lines) }

// Models lists every persisted model in migration order.
func Models() []interface{} {
	return []interface{}{
		&customers.Customer{},
		&customers.LegalIdentity{},
		&catalog.CatalogItem{},
		&orders.Order{},
		&orders.OrderLine{},
		&outbox.Event{},
	}
}
