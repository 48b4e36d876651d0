package aggregates

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

var OrderAggregateContract = Contract{
	Name:             "Orders.OrderAggregate",
	WriteTxOwnership: WriteTxOwnedByAggregate,
	ReadPolicy:       ReadPolicyInvariantScoped,
	Notes:            "Owns order + lines + stock decrements as one atomic write; lines are never written elsewhere.",
}

// OrderAggregate owns order placement and status changes.
//
// Write method failures return *aggregates.Error with codes:
// CodeValidation, CodeNotFound, CodeInsufficientStock, CodeConflict, CodeRetryable, CodeInternal.
type OrderAggregate interface {
	Aggregate

	// PlaceOrder prices, stock-checks and persists an order in one transaction.
	// On any error nothing is written.
	PlaceOrder(ctx context.Context, in PlaceOrderInput) (PlaceOrderResult, error)

	// ChangeStatus sets the status of an existing order.
	ChangeStatus(ctx context.Context, in ChangeOrderStatusInput) (ChangeOrderStatusResult, error)
}

type OrderLineInput struct {
	ItemID   int64
	Quantity int
}

type PlaceOrderInput struct {
	CustomerTaxID   string
	ShippingAddress string
	Lines           []OrderLineInput
	PlacedAt        time.Time
}

type PlacedOrderLine struct {
	ItemID    int64
	ItemName  string
	UnitPrice decimal.Decimal
	Quantity  int
	Subtotal  decimal.Decimal
}

type PlaceOrderResult struct {
	OrderID         int64
	CreatedAt       time.Time
	Status          string
	ShippingAddress string
	Total           decimal.Decimal
	CustomerTaxID   string
	CustomerName    string
	Lines           []PlacedOrderLine
}

type ChangeOrderStatusInput struct {
	OrderID  int64
	ToStatus string
}

type ChangeOrderStatusResult struct {
	OrderID    int64
	FromStatus string
	Status     string
	ChangedAt  time.Time
}
