package aggregates

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/yungbote/orderdesk-backend/internal/data/repos"
	types "github.com/yungbote/orderdesk-backend/internal/domain"
	domainagg "github.com/yungbote/orderdesk-backend/internal/domain/aggregates"
	"github.com/yungbote/orderdesk-backend/internal/domain/orders"
	"github.com/yungbote/orderdesk-backend/internal/domain/outbox"
	"github.com/yungbote/orderdesk-backend/internal/pkg/dbctx"
)

type OrderAggregateDeps struct {
	Base BaseDeps

	Customers repos.CustomerRepo
	Items     repos.CatalogItemRepo
	Orders    repos.OrderRepo
	Outbox    repos.OutboxRepo

	Locks *ItemLocker
}

type orderAggregate struct {
	deps OrderAggregateDeps
}

func NewOrderAggregate(deps OrderAggregateDeps) domainagg.OrderAggregate {
	deps.Base = deps.Base.withDefaults()
	if deps.Locks == nil {
		deps.Locks = NewItemLocker()
	}
	return &orderAggregate{deps: deps}
}

func (a *orderAggregate) Contract() domainagg.Contract {
	return domainagg.OrderAggregateContract
}

func (a *orderAggregate) PlaceOrder(ctx context.Context, in domainagg.PlaceOrderInput) (domainagg.PlaceOrderResult, error) {
	const op = "Orders.Order.PlaceOrder"
	var out domainagg.PlaceOrderResult

	taxID := strings.TrimSpace(in.CustomerTaxID)
	if taxID == "" {
		return out, domainagg.NewError(domainagg.CodeValidation, op, "missing customer tax_id", nil)
	}
	itemIDs, err := validateOrderLines(in.Lines)
	if err != nil {
		return out, MapError(op, err)
	}
	if a.deps.Customers == nil || a.deps.Items == nil || a.deps.Orders == nil {
		return out, domainagg.NewError(domainagg.CodeInternal, op, "order aggregate repos not configured", nil)
	}

	placedAt := in.PlacedAt.UTC()
	if in.PlacedAt.IsZero() {
		placedAt = time.Now().UTC()
	}

	unlock, err := a.deps.Locks.Lock(ctx, itemIDs)
	if err != nil {
		return out, MapError(op, err)
	}
	defer unlock()

	err = executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		customer, err := a.deps.Customers.GetByTaxID(dbc, taxID)
		if err != nil {
			return err
		}
		if customer == nil {
			return domainagg.NewError(domainagg.CodeNotFound, op, "customer not identified", nil)
		}

		locked, err := a.deps.Items.LockByIDs(dbc, itemIDs)
		if err != nil {
			return err
		}
		byID := make(map[int64]*types.CatalogItem, len(locked))
		for _, it := range locked {
			byID[it.ID] = it
		}

		order := &types.Order{
			CreatedAt:       placedAt,
			Status:          types.OrderStatusPending,
			ShippingAddress: strings.TrimSpace(in.ShippingAddress),
			CustomerTaxID:   &customer.TaxID,
			Lines:           make([]types.OrderLine, 0, len(in.Lines)),
		}
		names := make(map[int64]string, len(in.Lines))
		total := decimal.Zero

		for i, ln := range in.Lines {
			item := byID[ln.ItemID]
			if item == nil {
				return domainagg.NewError(domainagg.CodeNotFound, op, fmt.Sprintf("item %d does not exist", ln.ItemID), nil)
			}
			if !item.Active {
				return ValidationError(fmt.Sprintf("item %d is not active", item.ID))
			}
			if item.Stock < ln.Quantity {
				return InsufficientStockError(item.ID, ln.Quantity, item.Stock)
			}
			ok, err := a.deps.Items.DecrementStock(dbc, item.ID, ln.Quantity)
			if err != nil {
				return err
			}
			if !ok {
				return InsufficientStockError(item.ID, ln.Quantity, item.Stock)
			}
			item.Stock -= ln.Quantity

			line := types.OrderLine{
				ItemID:    item.ID,
				Position:  i,
				UnitPrice: item.Price,
				Quantity:  ln.Quantity,
			}
			order.Lines = append(order.Lines, line)
			names[item.ID] = item.Name
			total = total.Add(line.Subtotal())
		}
		order.Total = total

		if _, err := a.deps.Orders.CreateWithLines(dbc, order); err != nil {
			return err
		}

		payload := outbox.OrderPlacedPayload{
			OrderID:         order.ID,
			CustomerTaxID:   customer.TaxID,
			ShippingAddress: order.ShippingAddress,
			Total:           order.Total.StringFixed(2),
			Status:          string(order.Status),
			PlacedAt:        order.CreatedAt,
		}
		for _, l := range order.Lines {
			payload.Lines = append(payload.Lines, outbox.OrderLinePayload{
				ItemID:    l.ItemID,
				Quantity:  l.Quantity,
				UnitPrice: l.UnitPrice.StringFixed(2),
			})
		}
		if err := appendEvent(dbc, a.deps.Outbox, outbox.TopicOrderPlaced, orderKey(order.ID), payload); err != nil {
			return err
		}

		out = domainagg.PlaceOrderResult{
			OrderID:         order.ID,
			CreatedAt:       order.CreatedAt,
			Status:          string(order.Status),
			ShippingAddress: order.ShippingAddress,
			Total:           order.Total,
			CustomerTaxID:   customer.TaxID,
			CustomerName:    customer.Name,
			Lines:           make([]domainagg.PlacedOrderLine, 0, len(order.Lines)),
		}
		for _, l := range order.Lines {
			out.Lines = append(out.Lines, domainagg.PlacedOrderLine{
				ItemID:    l.ItemID,
				ItemName:  names[l.ItemID],
				UnitPrice: l.UnitPrice,
				Quantity:  l.Quantity,
				Subtotal:  l.Subtotal(),
			})
		}
		return nil
	})
	if err != nil {
		return domainagg.PlaceOrderResult{}, err
	}
	return out, nil
}

func (a *orderAggregate) ChangeStatus(ctx context.Context, in domainagg.ChangeOrderStatusInput) (domainagg.ChangeOrderStatusResult, error) {
	const op = "Orders.Order.ChangeStatus"
	var out domainagg.ChangeOrderStatusResult

	if in.OrderID <= 0 {
		return out, domainagg.NewError(domainagg.CodeValidation, op, "missing order id", nil)
	}
	to, ok := orders.ParseStatus(in.ToStatus)
	if !ok {
		return out, domainagg.NewError(domainagg.CodeValidation, op, fmt.Sprintf("unknown order status %q", strings.TrimSpace(in.ToStatus)), nil)
	}
	if a.deps.Orders == nil {
		return out, domainagg.NewError(domainagg.CodeInternal, op, "order repo not configured", nil)
	}
	changedAt := time.Now().UTC()

	err := executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		current, err := a.deps.Orders.LockByID(dbc, in.OrderID)
		if err != nil {
			return err
		}
		if current == nil {
			return domainagg.NewError(domainagg.CodeNotFound, op, fmt.Sprintf("order %d not found", in.OrderID), nil)
		}
		from := current.Status
		out = domainagg.ChangeOrderStatusResult{
			OrderID:    current.ID,
			FromStatus: string(from),
			Status:     string(to),
			ChangedAt:  changedAt,
		}
		if from == to {
			return nil
		}

		ok, err := a.deps.Base.CASGuard.UpdateByStatus(dbc, types.Order{}.TableName(), current.ID, []string{string(from)}, map[string]any{
			"status": string(to),
		})
		if err != nil {
			return err
		}
		if err := RequireCASSuccess(ok, fmt.Sprintf("order %d status changed concurrently", current.ID)); err != nil {
			return err
		}

		return appendEvent(dbc, a.deps.Outbox, outbox.TopicOrderStatusChanged, orderKey(current.ID), outbox.OrderStatusChangedPayload{
			OrderID:    current.ID,
			FromStatus: string(from),
			ToStatus:   string(to),
			ChangedAt:  changedAt,
		})
	})
	if err != nil {
		return domainagg.ChangeOrderStatusResult{}, err
	}
	return out, nil
}

// validateOrderLines checks request shape and returns the distinct item ids.
func validateOrderLines(lines []domainagg.OrderLineInput) ([]int64, error) {
	if len(lines) == 0 {
		return nil, ValidationError("order must contain at least one line")
	}
	seen := make(map[int64]struct{}, len(lines))
	ids := make([]int64, 0, len(lines))
	for i, ln := range lines {
		if ln.ItemID <= 0 {
			return nil, ValidationError(fmt.Sprintf("line %d: missing item id", i))
		}
		if ln.Quantity <= 0 {
			return nil, ValidationError(fmt.Sprintf("line %d: quantity must be greater than zero", i))
		}
		if _, dup := seen[ln.ItemID]; dup {
			return nil, ValidationError(fmt.Sprintf("line %d: item %d appears more than once", i, ln.ItemID))
		}
		seen[ln.ItemID] = struct{}{}
		ids = append(ids, ln.ItemID)
	}
	return ids, nil
}
