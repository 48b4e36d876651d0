package services

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/yungbote/orderdesk-backend/internal/data/aggregates"
	"github.com/yungbote/orderdesk-backend/internal/data/repos"
	domainagg "github.com/yungbote/orderdesk-backend/internal/domain/aggregates"
	"github.com/yungbote/orderdesk-backend/internal/domain/orders"
	"github.com/yungbote/orderdesk-backend/internal/observability"
	"github.com/yungbote/orderdesk-backend/internal/pkg/dbctx"
	"github.com/yungbote/orderdesk-backend/internal/pkg/logger"
)

type OrderLineRequest struct {
	ItemID   int64 `json:"item_id"`
	Quantity int   `json:"quantity"`
}

type PlaceOrderRequest struct {
	CustomerTaxID   string             `json:"customer_tax_id"`
	ShippingAddress string             `json:"shipping_address"`
	Lines           []OrderLineRequest `json:"lines"`
}

type OrderService interface {
	PlaceOrder(ctx context.Context, req PlaceOrderRequest) (*OrderSummary, error)
	ChangeStatus(ctx context.Context, orderID int64, status string) (*OrderSummary, error)
	ListAll(ctx context.Context) ([]OrderSummary, error)
	ListByCustomer(ctx context.Context, taxID string) ([]OrderSummary, error)
	Get(ctx context.Context, orderID int64) (*OrderSummary, error)
	Statuses() []string
}

type orderService struct {
	db      *gorm.DB
	log     *logger.Logger
	orders  repos.OrderRepo
	agg     domainagg.OrderAggregate
	metrics *observability.Metrics
}

func NewOrderService(db *gorm.DB, baseLog *logger.Logger, orderRepo repos.OrderRepo, agg domainagg.OrderAggregate, metrics *observability.Metrics) OrderService {
	return &orderService{
		db:      db,
		log:     baseLog.With("service", "OrderService"),
		orders:  orderRepo,
		agg:     agg,
		metrics: metrics,
	}
}

func (s *orderService) PlaceOrder(ctx context.Context, req PlaceOrderRequest) (*OrderSummary, error) {
	lines := make([]domainagg.OrderLineInput, 0, len(req.Lines))
	for _, l := range req.Lines {
		lines = append(lines, domainagg.OrderLineInput{ItemID: l.ItemID, Quantity: l.Quantity})
	}
	res, err := s.agg.PlaceOrder(ctx, domainagg.PlaceOrderInput{
		CustomerTaxID:   req.CustomerTaxID,
		ShippingAddress: req.ShippingAddress,
		Lines:           lines,
	})
	if err != nil {
		if short, ok := domainagg.ShortageOf(err); ok {
			s.metrics.IncStockRejection(short.ItemID)
		}
		return nil, err
	}
	total, _ := res.Total.Float64()
	s.metrics.ObserveOrderPlaced(total)
	s.log.Info("order placed", "order_id", res.OrderID, "customer_tax_id", res.CustomerTaxID, "total", money(res.Total), "lines", len(res.Lines))

	out := &OrderSummary{
		ID:              res.OrderID,
		CreatedAt:       res.CreatedAt,
		Status:          res.Status,
		ShippingAddress: res.ShippingAddress,
		Total:           money(res.Total),
		CustomerTaxID:   res.CustomerTaxID,
		CustomerName:    res.CustomerName,
		Lines:           make([]OrderLineView, 0, len(res.Lines)),
	}
	for _, l := range res.Lines {
		out.Lines = append(out.Lines, OrderLineView{
			ItemID:    l.ItemID,
			ItemName:  l.ItemName,
			UnitPrice: money(l.UnitPrice),
			Quantity:  l.Quantity,
			Subtotal:  money(l.Subtotal),
		})
	}
	return out, nil
}

func (s *orderService) ChangeStatus(ctx context.Context, orderID int64, status string) (*OrderSummary, error) {
	res, err := s.agg.ChangeStatus(ctx, domainagg.ChangeOrderStatusInput{OrderID: orderID, ToStatus: status})
	if err != nil {
		return nil, err
	}
	if res.FromStatus != res.Status {
		s.metrics.IncStatusChange(res.FromStatus, res.Status)
		s.log.Info("order status changed", "order_id", res.OrderID, "from", res.FromStatus, "to", res.Status)
	}
	return s.Get(ctx, res.OrderID)
}

func (s *orderService) ListAll(ctx context.Context) ([]OrderSummary, error) {
	rows, err := s.orders.List(dbctx.Context{Ctx: ctx})
	if err != nil {
		return nil, aggregates.MapError("Orders.Order.ListAll", err)
	}
	out := make([]OrderSummary, 0, len(rows))
	for _, o := range rows {
		out = append(out, orderSummaryOf(o, false))
	}
	return out, nil
}

func (s *orderService) ListByCustomer(ctx context.Context, taxID string) ([]OrderSummary, error) {
	rows, err := s.orders.ListByCustomer(dbctx.Context{Ctx: ctx}, strings.TrimSpace(taxID))
	if err != nil {
		return nil, aggregates.MapError("Orders.Order.ListByCustomer", err)
	}
	out := make([]OrderSummary, 0, len(rows))
	for _, o := range rows {
		out = append(out, orderSummaryOf(o, false))
	}
	return out, nil
}

func (s *orderService) Get(ctx context.Context, orderID int64) (*OrderSummary, error) {
	const op = "Orders.Order.Get"
	o, err := s.orders.GetWithLines(dbctx.Context{Ctx: ctx}, orderID)
	if err != nil {
		return nil, aggregates.MapError(op, err)
	}
	if o == nil {
		return nil, domainagg.NewError(domainagg.CodeNotFound, op, fmt.Sprintf("order %d not found", orderID), nil)
	}
	v := orderSummaryOf(o, true)
	return &v, nil
}

func (s *orderService) Statuses() []string {
	all := orders.AllStatuses()
	out := make([]string, 0, len(all))
	for _, st := range all {
		out = append(out, string(st))
	}
	return out
}
